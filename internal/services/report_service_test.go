package services

import (
	"testing"

	"github.com/terraincognita07/syndic/internal/models"
)

func reportTestState() AppState {
	return AppState{
		Apartments: []models.Apartment{
			{ID: "a1", Number: "A1", MonthlyFee: 50},
			{ID: "a2", Number: "A10", MonthlyFee: 80},
			{ID: "a3", Number: "A2", MonthlyFee: 60},
		},
		Payments: []models.Payment{
			{ID: "p1", ApartmentID: "a1", Month: 0, Year: 2024, Amount: 50},
			{ID: "p2", ApartmentID: "a2", Month: 0, Year: 2024, Amount: 80},
			{ID: "p3", ApartmentID: "a1", Month: 0, Year: 2023, Amount: 50},
		},
		Expenses: []models.Expense{
			{ID: "e1", Date: "2024-01-20", Category: models.ExpenseCategoryWater, Amount: 30},
			{ID: "e2", Date: "2024-01-21", Category: models.ExpenseCategoryRepairs, Amount: 500, ExcludedFromReports: true},
			{ID: "e3", Date: "2024-02-01", Category: models.ExpenseCategoryCleaning, Amount: 20},
		},
		AssetPayments: []models.AssetPayment{
			{ID: "ap1", AssetID: "as1", Month: 1, Year: 2024, Amount: 1000},
		},
		ReminderLogs: []models.ReminderLog{
			{ID: "r1", ApartmentID: "a3", Type: models.ReminderTypeManual, Month: 0, Year: 2024},
			{ID: "r2", ApartmentID: "a3", Type: models.ReminderTypeAuto, Month: 0, Year: 2024},
		},
	}
}

func TestYearSummaryTotals(t *testing.T) {
	summary := NewReportService().YearSummary(reportTestState(), 2024)

	if summary.FeeIncome != 130 {
		t.Fatalf("expected fee income 130, got %v", summary.FeeIncome)
	}
	if summary.AssetIncome != 1000 {
		t.Fatalf("expected asset income 1000, got %v", summary.AssetIncome)
	}
	if summary.Expenses != 50 {
		t.Fatalf("expected excluded expense to be skipped, got %v", summary.Expenses)
	}
	if summary.Balance != 1080 {
		t.Fatalf("expected balance 1080, got %v", summary.Balance)
	}
	if summary.Months[0].PaidUnits != 2 || summary.Months[1].Balance != 980 {
		t.Fatalf("unexpected months %+v", summary.Months[:2])
	}
	if summary.ExpensesByCategory[models.ExpenseCategoryRepairs] != 0 {
		t.Fatalf("excluded expense leaked into categories")
	}
	if summary.ExpectedFees != 190*12 {
		t.Fatalf("expected fees %v, got %v", 190*12, summary.ExpectedFees)
	}
}

func TestUnpaidApartmentsSortedNaturally(t *testing.T) {
	state := reportTestState()
	state.Payments = nil

	unpaid := NewReportService().UnpaidApartments(state, 0, 2024)
	if len(unpaid) != 3 {
		t.Fatalf("expected 3 unpaid apartments, got %d", len(unpaid))
	}
	order := []string{unpaid[0].Apartment.Number, unpaid[1].Apartment.Number, unpaid[2].Apartment.Number}
	if order[0] != "A1" || order[1] != "A2" || order[2] != "A10" {
		t.Fatalf("unexpected order %v", order)
	}
	if unpaid[1].Reminders != 2 || unpaid[1].AmountDue != 60 {
		t.Fatalf("unexpected A2 entry %+v", unpaid[1])
	}
}
