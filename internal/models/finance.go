package models

import (
	"strings"
	"time"
)

const (
	ExpenseCategoryMaintenance    = "maintenance"
	ExpenseCategoryCleaning       = "cleaning"
	ExpenseCategoryElectricity    = "electricity"
	ExpenseCategoryWater          = "water"
	ExpenseCategorySecurity       = "security"
	ExpenseCategoryInsurance      = "insurance"
	ExpenseCategoryRepairs        = "repairs"
	ExpenseCategoryAdministration = "administration"
	ExpenseCategoryOther          = "other"
)

const ExpenseDateLayout = "2006-01-02"

type Payment struct {
	ID          string  `json:"id"`
	ApartmentID string  `json:"apartmentId"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	Amount      float64 `json:"amount"`
	PaidDate    string  `json:"paidDate"`
}

type Expense struct {
	ID                  string  `json:"id"`
	Date                string  `json:"date"`
	Category            string  `json:"category"`
	Description         string  `json:"description"`
	Amount              float64 `json:"amount"`
	ExcludedFromReports bool    `json:"excludedFromReports,omitempty"`
	// FiledYear is the partition an unparsable-date expense was loaded from.
	FiledYear           int     `json:"-"`
}

// Year returns the calendar year of the expense date. An unparsable date
// falls back to FiledYear, which is 0 for expenses never stored.
func (expense Expense) Year() int {
	parsed, ok := ParseExpenseDate(expense.Date)
	if !ok {
		return expense.FiledYear
	}
	return parsed.Year()
}

// Month returns the zero-based month of the expense date, or -1 when unparsable.
func (expense Expense) Month() int {
	parsed, ok := ParseExpenseDate(expense.Date)
	if !ok {
		return -1
	}
	return int(parsed.Month()) - 1
}

func ParseExpenseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if len(value) >= len(ExpenseDateLayout) {
		if parsed, err := time.Parse(ExpenseDateLayout, value[:len(ExpenseDateLayout)]); err == nil {
			return parsed, true
		}
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

func ExpenseCategories() []string {
	return []string{
		ExpenseCategoryMaintenance,
		ExpenseCategoryCleaning,
		ExpenseCategoryElectricity,
		ExpenseCategoryWater,
		ExpenseCategorySecurity,
		ExpenseCategoryInsurance,
		ExpenseCategoryRepairs,
		ExpenseCategoryAdministration,
		ExpenseCategoryOther,
	}
}

func IsExpenseCategory(category string) bool {
	for _, known := range ExpenseCategories() {
		if known == category {
			return true
		}
	}
	return false
}
