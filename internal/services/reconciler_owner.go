package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/syndic/internal/models"
)

var (
	ErrInvalidReminderType      = errors.New("invalid reminder type")
	ErrProfileRequestNotFound   = errors.New("profile request not found")
	ErrProfileRequestPending    = errors.New("profile request already pending")
	ErrProfileRequestNotPending = errors.New("profile request already resolved")
	ErrProfileRequestUnresolved = errors.New("profile request still pending")
	ErrUnsupportedProfileField  = errors.New("unsupported profile field")
	ErrProfileValueRequired     = errors.New("requested value is required")
	ErrProfileValueUnchanged    = errors.New("requested value equals current value")
)

func (reconciler *Reconciler) LogReminder(apartmentID string, kind string, month int, year int) (models.ReminderLog, WriteReport, error) {
	var created models.ReminderLog
	report, err := reconciler.mutate(func(report *WriteReport) error {
		switch kind {
		case models.ReminderTypeManual, models.ReminderTypeAuto, models.ReminderTypeBulk:
		default:
			return ErrInvalidReminderType
		}
		if err := validatePeriod(month, year); err != nil {
			return err
		}
		if _, ok := reconciler.findApartment(apartmentID); !ok {
			return ErrApartmentNotFound
		}
		created = reconciler.appendReminder(apartmentID, kind, month, year)
		return reconciler.saveReminderLogs(report)
	})
	return created, report, err
}

// LogAutoReminders appends one auto reminder per apartment without a payment
// for month/year, skipping apartments already auto-reminded for that period.
// Nothing is logged while auto reminders are disabled.
func (reconciler *Reconciler) LogAutoReminders(month int, year int) ([]models.ReminderLog, WriteReport, error) {
	created := make([]models.ReminderLog, 0)
	report, err := reconciler.mutate(func(report *WriteReport) error {
		if !reconciler.state.Building.SetupCompleted || !reconciler.state.Building.Features.AutoReminders {
			return nil
		}
		if err := validatePeriod(month, year); err != nil {
			return err
		}

		paid := make(map[string]bool)
		for _, payment := range reconciler.state.Payments {
			if payment.Month == month && payment.Year == year {
				paid[payment.ApartmentID] = true
			}
		}
		reminded := make(map[string]bool)
		for _, log := range reconciler.state.ReminderLogs {
			if log.Type == models.ReminderTypeAuto && log.Month == month && log.Year == year {
				reminded[log.ApartmentID] = true
			}
		}

		for _, apartment := range reconciler.state.Apartments {
			if paid[apartment.ID] || reminded[apartment.ID] {
				continue
			}
			created = append(created, reconciler.appendReminder(apartment.ID, models.ReminderTypeAuto, month, year))
		}
		if len(created) == 0 {
			return nil
		}
		return reconciler.saveReminderLogs(report)
	})
	return created, report, err
}

func (reconciler *Reconciler) ClearReminderLogs() (WriteReport, error) {
	return reconciler.mutate(func(report *WriteReport) error {
		reconciler.state.ReminderLogs = []models.ReminderLog{}
		return reconciler.saveReminderLogs(report)
	})
}

func (reconciler *Reconciler) appendReminder(apartmentID string, kind string, month int, year int) models.ReminderLog {
	log := models.ReminderLog{
		ID:          reconciler.newID(),
		ApartmentID: apartmentID,
		Type:        kind,
		Month:       month,
		Year:        year,
		SentAt:      reconciler.timestamp(),
	}
	reconciler.state.ReminderLogs = append(reconciler.state.ReminderLogs, log)
	return log
}

func (reconciler *Reconciler) SubmitProfileRequest(apartmentID string, field string, value string) (models.ProfileRequest, WriteReport, error) {
	var created models.ProfileRequest
	report, err := reconciler.mutate(func(report *WriteReport) error {
		if field != models.ProfileFieldPhone {
			return ErrUnsupportedProfileField
		}
		requested := strings.TrimSpace(value)
		if requested == "" {
			return ErrProfileValueRequired
		}
		apartment, ok := reconciler.findApartment(apartmentID)
		if !ok {
			return ErrApartmentNotFound
		}
		if requested == apartment.Phone {
			return ErrProfileValueUnchanged
		}
		for _, existing := range reconciler.state.ProfileRequests {
			if existing.ApartmentID == apartmentID && existing.Field == field && existing.Status == models.ProfileRequestPending {
				return ErrProfileRequestPending
			}
		}

		created = models.ProfileRequest{
			ID:             reconciler.newID(),
			ApartmentID:    apartmentID,
			Field:          field,
			CurrentValue:   apartment.Phone,
			RequestedValue: requested,
			Status:         models.ProfileRequestPending,
			CreatedAt:      reconciler.timestamp(),
		}
		reconciler.state.ProfileRequests = append(reconciler.state.ProfileRequests, created)
		return reconciler.saveProfileRequests(report)
	})
	return created, report, err
}

// ApproveProfileRequest applies the requested value to the apartment and
// persists both the building and the request list.
func (reconciler *Reconciler) ApproveProfileRequest(id string) (models.ProfileRequest, WriteReport, error) {
	var resolved models.ProfileRequest
	report, err := reconciler.mutate(func(report *WriteReport) error {
		index, err := reconciler.pendingRequestIndex(id)
		if err != nil {
			return err
		}
		request := reconciler.state.ProfileRequests[index]
		apartmentIndex := reconciler.apartmentIndex(request.ApartmentID)
		if apartmentIndex < 0 {
			return ErrApartmentNotFound
		}

		reconciler.state.Apartments[apartmentIndex].Phone = request.RequestedValue
		resolved = reconciler.resolveRequest(index, models.ProfileRequestApproved)
		if err := reconciler.saveBuilding(report); err != nil {
			return err
		}
		return reconciler.saveProfileRequests(report)
	})
	return resolved, report, err
}

func (reconciler *Reconciler) RejectProfileRequest(id string) (models.ProfileRequest, WriteReport, error) {
	var resolved models.ProfileRequest
	report, err := reconciler.mutate(func(report *WriteReport) error {
		index, err := reconciler.pendingRequestIndex(id)
		if err != nil {
			return err
		}
		resolved = reconciler.resolveRequest(index, models.ProfileRequestRejected)
		return reconciler.saveProfileRequests(report)
	})
	return resolved, report, err
}

// DismissProfileRequest removes a resolved request. Pending requests must be
// approved or rejected first.
func (reconciler *Reconciler) DismissProfileRequest(id string) (WriteReport, error) {
	return reconciler.mutate(func(report *WriteReport) error {
		for index, request := range reconciler.state.ProfileRequests {
			if request.ID != id {
				continue
			}
			if request.Status == models.ProfileRequestPending {
				return ErrProfileRequestUnresolved
			}
			reconciler.state.ProfileRequests = append(reconciler.state.ProfileRequests[:index], reconciler.state.ProfileRequests[index+1:]...)
			return reconciler.saveProfileRequests(report)
		}
		return ErrProfileRequestNotFound
	})
}

func (reconciler *Reconciler) pendingRequestIndex(id string) (int, error) {
	for index, request := range reconciler.state.ProfileRequests {
		if request.ID != id {
			continue
		}
		if request.Status != models.ProfileRequestPending {
			return -1, ErrProfileRequestNotPending
		}
		return index, nil
	}
	return -1, ErrProfileRequestNotFound
}

func (reconciler *Reconciler) resolveRequest(index int, status string) models.ProfileRequest {
	resolvedAt := reconciler.timestamp()
	reconciler.state.ProfileRequests[index].Status = status
	reconciler.state.ProfileRequests[index].ResolvedAt = &resolvedAt
	return reconciler.state.ProfileRequests[index]
}
