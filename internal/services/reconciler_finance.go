package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/syndic/internal/models"
)

var (
	ErrInvalidPeriod          = errors.New("invalid month or year")
	ErrExpenseNotFound        = errors.New("expense not found")
	ErrInvalidExpenseDate     = errors.New("invalid expense date")
	ErrInvalidExpenseCategory = errors.New("invalid expense category")
	ErrAssetNotFound          = errors.New("asset not found")
	ErrAssetNameRequired      = errors.New("asset name is required")
	ErrInvalidAssetKind       = errors.New("invalid asset kind")
	ErrAssetPaymentNotFound   = errors.New("asset payment not found")
	ErrAssetPaymentExists     = errors.New("asset payment already recorded for this month")
)

const (
	minYear = 1900
	maxYear = 9999
)

type PaymentToggle struct {
	Paid    bool            `json:"paid"`
	Payment *models.Payment `json:"payment,omitempty"`
}

// TogglePayment records the apartment fee for month/year when absent and
// removes the record when present, so the tuple is never duplicated.
func (reconciler *Reconciler) TogglePayment(apartmentID string, month int, year int) (PaymentToggle, WriteReport, error) {
	var result PaymentToggle
	report, err := reconciler.mutate(func(report *WriteReport) error {
		if err := validatePeriod(month, year); err != nil {
			return err
		}
		apartment, ok := reconciler.findApartment(apartmentID)
		if !ok {
			return ErrApartmentNotFound
		}

		payments := reconciler.state.Payments
		kept := payments[:0:0]
		removed := false
		for _, payment := range payments {
			if payment.ApartmentID == apartmentID && payment.Month == month && payment.Year == year {
				removed = true
				continue
			}
			kept = append(kept, payment)
		}

		if removed {
			reconciler.state.Payments = kept
			result = PaymentToggle{Paid: false}
		} else {
			payment := models.Payment{
				ID:          reconciler.newID(),
				ApartmentID: apartmentID,
				Month:       month,
				Year:        year,
				Amount:      apartment.MonthlyFee,
				PaidDate:    reconciler.today(),
			}
			reconciler.state.Payments = append(kept, payment)
			result = PaymentToggle{Paid: true, Payment: &payment}
		}
		return reconciler.saveYears(report, year)
	})
	return result, report, err
}

type ExpenseInput struct {
	Date                string
	Category            string
	Description         string
	Amount              float64
	ExcludedFromReports bool
}

func (reconciler *Reconciler) AddExpense(input ExpenseInput) (models.Expense, WriteReport, error) {
	var created models.Expense
	report, err := reconciler.mutate(func(report *WriteReport) error {
		expense, err := expenseFromInput(input)
		if err != nil {
			return err
		}
		expense.ID = reconciler.newID()
		reconciler.state.Expenses = append(reconciler.state.Expenses, expense)
		created = expense
		return reconciler.saveYears(report, expense.Year())
	})
	return created, report, err
}

// UpdateExpense re-files the expense under the year of its new date and
// rewrites the year it came from.
func (reconciler *Reconciler) UpdateExpense(id string, input ExpenseInput) (models.Expense, WriteReport, error) {
	var updated models.Expense
	report, err := reconciler.mutate(func(report *WriteReport) error {
		index := -1
		for candidate, expense := range reconciler.state.Expenses {
			if expense.ID == id {
				index = candidate
				break
			}
		}
		if index < 0 {
			return ErrExpenseNotFound
		}
		expense, err := expenseFromInput(input)
		if err != nil {
			return err
		}
		expense.ID = id
		previousYear := reconciler.state.Expenses[index].Year()
		reconciler.state.Expenses[index] = expense
		updated = expense
		return reconciler.saveYears(report, expense.Year(), previousYear)
	})
	return updated, report, err
}

func (reconciler *Reconciler) DeleteExpense(id string) (WriteReport, error) {
	return reconciler.mutate(func(report *WriteReport) error {
		for index, expense := range reconciler.state.Expenses {
			if expense.ID != id {
				continue
			}
			reconciler.state.Expenses = append(reconciler.state.Expenses[:index], reconciler.state.Expenses[index+1:]...)
			return reconciler.saveYears(report, expense.Year())
		}
		return ErrExpenseNotFound
	})
}

func (reconciler *Reconciler) AddAsset(asset models.BuildingAsset) (models.BuildingAsset, WriteReport, error) {
	var created models.BuildingAsset
	report, err := reconciler.mutate(func(report *WriteReport) error {
		if err := normalizeAsset(&asset); err != nil {
			return err
		}
		asset.ID = reconciler.newID()
		reconciler.state.Assets = append(reconciler.state.Assets, asset)
		created = asset
		return reconciler.saveAssets(report)
	})
	return created, report, err
}

func (reconciler *Reconciler) UpdateAsset(id string, asset models.BuildingAsset) (models.BuildingAsset, WriteReport, error) {
	var updated models.BuildingAsset
	report, err := reconciler.mutate(func(report *WriteReport) error {
		index := reconciler.assetIndex(id)
		if index < 0 {
			return ErrAssetNotFound
		}
		if err := normalizeAsset(&asset); err != nil {
			return err
		}
		asset.ID = id
		reconciler.state.Assets[index] = asset
		updated = asset
		return reconciler.saveAssets(report)
	})
	return updated, report, err
}

// DeleteAsset keeps the collected asset payments, like apartment deletion.
func (reconciler *Reconciler) DeleteAsset(id string) (WriteReport, error) {
	return reconciler.mutate(func(report *WriteReport) error {
		index := reconciler.assetIndex(id)
		if index < 0 {
			return ErrAssetNotFound
		}
		reconciler.state.Assets = append(reconciler.state.Assets[:index], reconciler.state.Assets[index+1:]...)
		return reconciler.saveAssets(report)
	})
}

// AddAssetPayment records one collection. A nil amount uses the asset's
// monthly amount.
func (reconciler *Reconciler) AddAssetPayment(assetID string, month int, year int, amount *float64) (models.AssetPayment, WriteReport, error) {
	var created models.AssetPayment
	report, err := reconciler.mutate(func(report *WriteReport) error {
		if err := validatePeriod(month, year); err != nil {
			return err
		}
		index := reconciler.assetIndex(assetID)
		if index < 0 {
			return ErrAssetNotFound
		}
		for _, existing := range reconciler.state.AssetPayments {
			if existing.AssetID == assetID && existing.Month == month && existing.Year == year {
				return ErrAssetPaymentExists
			}
		}

		value := reconciler.state.Assets[index].MonthlyAmount
		if amount != nil {
			value = *amount
		}
		if value < 0 {
			return ErrInvalidAmount
		}
		payment := models.AssetPayment{
			ID:       reconciler.newID(),
			AssetID:  assetID,
			Month:    month,
			Year:     year,
			Amount:   value,
			PaidDate: reconciler.today(),
		}
		reconciler.state.AssetPayments = append(reconciler.state.AssetPayments, payment)
		created = payment
		return reconciler.saveYears(report, year)
	})
	return created, report, err
}

func (reconciler *Reconciler) DeleteAssetPayment(id string) (WriteReport, error) {
	return reconciler.mutate(func(report *WriteReport) error {
		for index, payment := range reconciler.state.AssetPayments {
			if payment.ID != id {
				continue
			}
			reconciler.state.AssetPayments = append(reconciler.state.AssetPayments[:index], reconciler.state.AssetPayments[index+1:]...)
			return reconciler.saveYears(report, payment.Year)
		}
		return ErrAssetPaymentNotFound
	})
}

func (reconciler *Reconciler) assetIndex(id string) int {
	for index, asset := range reconciler.state.Assets {
		if asset.ID == id {
			return index
		}
	}
	return -1
}

func expenseFromInput(input ExpenseInput) (models.Expense, error) {
	date, ok := models.ParseExpenseDate(input.Date)
	if !ok || date.Year() < minYear || date.Year() > maxYear {
		return models.Expense{}, ErrInvalidExpenseDate
	}
	category := strings.ToLower(strings.TrimSpace(input.Category))
	if !models.IsExpenseCategory(category) {
		return models.Expense{}, ErrInvalidExpenseCategory
	}
	if input.Amount < 0 {
		return models.Expense{}, ErrInvalidAmount
	}
	return models.Expense{
		Date:                date.Format(models.ExpenseDateLayout),
		Category:            category,
		Description:         strings.TrimSpace(input.Description),
		Amount:              input.Amount,
		ExcludedFromReports: input.ExcludedFromReports,
	}, nil
}

func normalizeAsset(asset *models.BuildingAsset) error {
	asset.Name = strings.TrimSpace(asset.Name)
	asset.Tenant = strings.TrimSpace(asset.Tenant)
	if asset.Name == "" {
		return ErrAssetNameRequired
	}
	switch asset.Kind {
	case "":
		asset.Kind = models.AssetKindOther
	case models.AssetKindAntenna, models.AssetKindRental, models.AssetKindAdvertising, models.AssetKindOther:
	default:
		return ErrInvalidAssetKind
	}
	if asset.MonthlyAmount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func validatePeriod(month int, year int) error {
	if month < 0 || month > 11 || year < minYear || year > maxYear {
		return ErrInvalidPeriod
	}
	return nil
}
