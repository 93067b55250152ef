package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/syndic/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrSetupAlreadyCompleted    = errors.New("building setup already completed")
	ErrSetupRequired            = errors.New("building setup required")
	ErrInvalidBuildingLayout    = errors.New("invalid building layout")
	ErrBuildingNameRequired     = errors.New("building name is required")
	ErrInvalidAmount            = errors.New("amount must not be negative")
	ErrInvalidTheme             = errors.New("invalid theme")
	ErrApartmentNotFound        = errors.New("apartment not found")
	ErrApartmentNumberRequired  = errors.New("apartment number is required")
	ErrDuplicateApartmentNumber = errors.New("apartment number already used")
)

const (
	totalShares        = 1000
	maxGeneratedFloors = 200
	maxUnitsPerFloor   = 100
)

type SetupInput struct {
	Info          models.BuildingInfo
	AdminPassword string
	// GenerateApartments creates Floors x UnitsPerFloor apartments numbered A1..AN.
	GenerateApartments bool
}

func (reconciler *Reconciler) SetupBuilding(input SetupInput) (WriteReport, error) {
	return reconciler.mutate(func(report *WriteReport) error {
		if reconciler.state.Building.SetupCompleted {
			return ErrSetupAlreadyCompleted
		}

		info := input.Info
		if err := normalizeBuildingInfo(&info); err != nil {
			return err
		}
		if err := ValidateAdminPassword(input.AdminPassword); err != nil {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}

		createdAt := reconciler.timestamp()
		info.AdminPasswordHash = string(hash)
		info.SetupCompleted = true
		info.CreatedAt = &createdAt

		reconciler.state.Building = info
		if input.GenerateApartments && len(reconciler.state.Apartments) == 0 {
			reconciler.state.Apartments = generateApartments(info, reconciler.newID)
		}
		return reconciler.saveBuilding(report)
	})
}

// UpdateBuildingInfo replaces the editable settings. The password hash,
// setup flag and creation time are kept.
func (reconciler *Reconciler) UpdateBuildingInfo(update models.BuildingInfo) (models.BuildingInfo, WriteReport, error) {
	var updated models.BuildingInfo
	report, err := reconciler.mutate(func(report *WriteReport) error {
		current := reconciler.state.Building
		if !current.SetupCompleted {
			return ErrSetupRequired
		}
		if err := normalizeBuildingInfo(&update); err != nil {
			return err
		}
		update.AdminPasswordHash = current.AdminPasswordHash
		update.SetupCompleted = current.SetupCompleted
		update.CreatedAt = current.CreatedAt

		reconciler.state.Building = update
		updated = update
		return reconciler.saveBuilding(report)
	})
	return updated, report, err
}

func (reconciler *Reconciler) SetAdminPassword(password string) (WriteReport, error) {
	return reconciler.mutate(func(report *WriteReport) error {
		if !reconciler.state.Building.SetupCompleted {
			return ErrSetupRequired
		}
		if err := ValidateAdminPassword(password); err != nil {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		reconciler.state.Building.AdminPasswordHash = string(hash)
		return reconciler.saveBuilding(report)
	})
}

type ApartmentInput struct {
	Number    string
	OwnerName string
	Shares    int
	// MonthlyFee nil means the building default fee.
	MonthlyFee *float64
	Floor      int
	Phone      string
	Email      string
}

func (reconciler *Reconciler) AddApartment(input ApartmentInput) (models.Apartment, WriteReport, error) {
	var created models.Apartment
	report, err := reconciler.mutate(func(report *WriteReport) error {
		apartment, err := reconciler.apartmentFromInput(input, "")
		if err != nil {
			return err
		}
		apartment.ID = reconciler.newID()
		reconciler.state.Apartments = append(reconciler.state.Apartments, apartment)
		created = apartment
		return reconciler.saveBuilding(report)
	})
	return created, report, err
}

func (reconciler *Reconciler) UpdateApartment(id string, input ApartmentInput) (models.Apartment, WriteReport, error) {
	var updated models.Apartment
	report, err := reconciler.mutate(func(report *WriteReport) error {
		index := reconciler.apartmentIndex(id)
		if index < 0 {
			return ErrApartmentNotFound
		}
		if input.MonthlyFee == nil {
			fee := reconciler.state.Apartments[index].MonthlyFee
			input.MonthlyFee = &fee
		}
		apartment, err := reconciler.apartmentFromInput(input, id)
		if err != nil {
			return err
		}
		apartment.ID = id
		reconciler.state.Apartments[index] = apartment
		updated = apartment
		return reconciler.saveBuilding(report)
	})
	return updated, report, err
}

// DeleteApartment removes the apartment only. Its payments stay in their
// partitions since they record money actually received.
func (reconciler *Reconciler) DeleteApartment(id string) (WriteReport, error) {
	return reconciler.mutate(func(report *WriteReport) error {
		index := reconciler.apartmentIndex(id)
		if index < 0 {
			return ErrApartmentNotFound
		}
		reconciler.state.Apartments = append(reconciler.state.Apartments[:index], reconciler.state.Apartments[index+1:]...)
		return reconciler.saveBuilding(report)
	})
}

func (reconciler *Reconciler) apartmentFromInput(input ApartmentInput, selfID string) (models.Apartment, error) {
	number := strings.TrimSpace(input.Number)
	if number == "" {
		return models.Apartment{}, ErrApartmentNumberRequired
	}
	for _, existing := range reconciler.state.Apartments {
		if existing.ID != selfID && strings.EqualFold(existing.Number, number) {
			return models.Apartment{}, ErrDuplicateApartmentNumber
		}
	}
	fee := reconciler.state.Building.DefaultMonthlyFee
	if input.MonthlyFee != nil {
		fee = *input.MonthlyFee
	}
	if fee < 0 || input.Shares < 0 {
		return models.Apartment{}, ErrInvalidAmount
	}
	return models.Apartment{
		Number:     number,
		OwnerName:  strings.TrimSpace(input.OwnerName),
		Shares:     input.Shares,
		MonthlyFee: fee,
		Floor:      input.Floor,
		Phone:      strings.TrimSpace(input.Phone),
		Email:      strings.TrimSpace(input.Email),
	}, nil
}

func (reconciler *Reconciler) apartmentIndex(id string) int {
	for index, apartment := range reconciler.state.Apartments {
		if apartment.ID == id {
			return index
		}
	}
	return -1
}

func (reconciler *Reconciler) findApartment(id string) (models.Apartment, bool) {
	index := reconciler.apartmentIndex(id)
	if index < 0 {
		return models.Apartment{}, false
	}
	return reconciler.state.Apartments[index], true
}

func normalizeBuildingInfo(info *models.BuildingInfo) error {
	info.Name = strings.TrimSpace(info.Name)
	info.Address = strings.TrimSpace(info.Address)
	info.City = strings.TrimSpace(info.City)
	info.SyndicPhone = strings.TrimSpace(info.SyndicPhone)
	if info.Name == "" {
		return ErrBuildingNameRequired
	}
	if info.Floors < 0 || info.UnitsPerFloor < 0 || info.Floors > maxGeneratedFloors || info.UnitsPerFloor > maxUnitsPerFloor {
		return ErrInvalidBuildingLayout
	}
	if info.DefaultMonthlyFee < 0 {
		return ErrInvalidAmount
	}

	info.Currency = strings.ToUpper(strings.TrimSpace(info.Currency))
	if info.Currency == "" {
		info.Currency = models.DefaultCurrency
	}
	switch info.Theme {
	case "":
		info.Theme = models.ThemeClassic
	case models.ThemeClassic, models.ThemeDark, models.ThemeOcean:
	default:
		return ErrInvalidTheme
	}

	defaults := models.DefaultMessageTemplates()
	if strings.TrimSpace(info.MessageTemplates.Reminder) == "" {
		info.MessageTemplates.Reminder = defaults.Reminder
	}
	if strings.TrimSpace(info.MessageTemplates.Receipt) == "" {
		info.MessageTemplates.Receipt = defaults.Receipt
	}
	return nil
}

// generateApartments numbers units A1..AN floor by floor, ground floor first,
// and splits the shares so they sum to totalShares.
func generateApartments(info models.BuildingInfo, newID func() string) []models.Apartment {
	count := info.Floors * info.UnitsPerFloor
	apartments := make([]models.Apartment, 0, count)
	if count == 0 {
		return apartments
	}

	baseShares := totalShares / count
	remainder := totalShares % count
	for index := 0; index < count; index++ {
		shares := baseShares
		if index < remainder {
			shares++
		}
		apartments = append(apartments, models.Apartment{
			ID:         newID(),
			Number:     fmt.Sprintf("A%d", index+1),
			Shares:     shares,
			MonthlyFee: info.DefaultMonthlyFee,
			Floor:      index / info.UnitsPerFloor,
		})
	}
	return apartments
}
