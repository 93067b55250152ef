package services

import (
	"sort"

	"github.com/terraincognita07/syndic/internal/models"
)

type MonthSummary struct {
	Month       int     `json:"month"`
	FeeIncome   float64 `json:"feeIncome"`
	AssetIncome float64 `json:"assetIncome"`
	Expenses    float64 `json:"expenses"`
	Balance     float64 `json:"balance"`
	PaidUnits   int     `json:"paidUnits"`
}

type YearSummary struct {
	Year               int                `json:"year"`
	Months             []MonthSummary     `json:"months"`
	FeeIncome          float64            `json:"feeIncome"`
	AssetIncome        float64            `json:"assetIncome"`
	Expenses           float64            `json:"expenses"`
	Balance            float64            `json:"balance"`
	ExpectedFees       float64            `json:"expectedFees"`
	CollectionRate     float64            `json:"collectionRate"`
	ExpensesByCategory map[string]float64 `json:"expensesByCategory"`
}

type UnpaidApartment struct {
	Apartment models.Apartment `json:"apartment"`
	AmountDue float64          `json:"amountDue"`
	Reminders int              `json:"reminders"`
}

type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// YearSummary totals one year. Expenses flagged excludedFromReports are left
// out; payments of deleted apartments still count as income.
func (service *ReportService) YearSummary(state AppState, year int) YearSummary {
	summary := YearSummary{
		Year:               year,
		Months:             make([]MonthSummary, 12),
		ExpensesByCategory: make(map[string]float64),
	}
	for month := range summary.Months {
		summary.Months[month].Month = month
	}

	for _, payment := range state.Payments {
		if payment.Year != year || payment.Month < 0 || payment.Month > 11 {
			continue
		}
		summary.Months[payment.Month].FeeIncome += payment.Amount
		summary.Months[payment.Month].PaidUnits++
	}
	for _, payment := range state.AssetPayments {
		if payment.Year != year || payment.Month < 0 || payment.Month > 11 {
			continue
		}
		summary.Months[payment.Month].AssetIncome += payment.Amount
	}
	for _, expense := range state.Expenses {
		if expense.ExcludedFromReports || expense.Year() != year {
			continue
		}
		month := expense.Month()
		if month < 0 {
			continue
		}
		summary.Months[month].Expenses += expense.Amount
		summary.ExpensesByCategory[expense.Category] += expense.Amount
	}

	for index := range summary.Months {
		month := &summary.Months[index]
		month.Balance = month.FeeIncome + month.AssetIncome - month.Expenses
		summary.FeeIncome += month.FeeIncome
		summary.AssetIncome += month.AssetIncome
		summary.Expenses += month.Expenses
	}
	summary.Balance = summary.FeeIncome + summary.AssetIncome - summary.Expenses

	for _, apartment := range state.Apartments {
		summary.ExpectedFees += apartment.MonthlyFee * 12
	}
	if summary.ExpectedFees > 0 {
		summary.CollectionRate = summary.FeeIncome / summary.ExpectedFees
	}
	return summary
}

// UnpaidApartments lists apartments without a payment for month/year, by
// unit number.
func (service *ReportService) UnpaidApartments(state AppState, month int, year int) []UnpaidApartment {
	paid := make(map[string]bool)
	for _, payment := range state.Payments {
		if payment.Month == month && payment.Year == year {
			paid[payment.ApartmentID] = true
		}
	}
	reminders := make(map[string]int)
	for _, log := range state.ReminderLogs {
		if log.Month == month && log.Year == year {
			reminders[log.ApartmentID]++
		}
	}

	unpaid := make([]UnpaidApartment, 0)
	for _, apartment := range state.Apartments {
		if paid[apartment.ID] {
			continue
		}
		unpaid = append(unpaid, UnpaidApartment{
			Apartment: apartment,
			AmountDue: apartment.MonthlyFee,
			Reminders: reminders[apartment.ID],
		})
	}
	sort.SliceStable(unpaid, func(i, j int) bool {
		return naturalLess(unpaid[i].Apartment.Number, unpaid[j].Apartment.Number)
	})
	return unpaid
}

// naturalLess orders A2 before A10.
func naturalLess(left string, right string) bool {
	leftPrefix, leftNumber := splitUnitNumber(left)
	rightPrefix, rightNumber := splitUnitNumber(right)
	if leftPrefix != rightPrefix {
		return leftPrefix < rightPrefix
	}
	if leftNumber != rightNumber {
		return leftNumber < rightNumber
	}
	return left < right
}

func splitUnitNumber(value string) (string, int) {
	end := len(value)
	start := end
	for start > 0 && value[start-1] >= '0' && value[start-1] <= '9' {
		start--
	}
	number := 0
	for _, digit := range value[start:end] {
		number = number*10 + int(digit-'0')
	}
	return value[:start], number
}
