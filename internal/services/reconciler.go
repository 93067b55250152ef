package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/syndic/internal/localstore"
	"github.com/terraincognita07/syndic/internal/models"
)

var ErrStateNotLoaded = errors.New("application state not loaded")

// ReconcilerStore is the persistence surface the reconciler writes through.
// *localstore.Store satisfies it.
type ReconcilerStore interface {
	LoadAll() (localstore.Data, error)
	SaveBuilding(document localstore.BuildingDocument) (bool, error)
	SaveAssets(assets []models.BuildingAsset) (bool, error)
	SaveOperations(operations localstore.Operations) (bool, error)
	SaveReminderLogs(logs []models.ReminderLog) (bool, error)
	SaveProfileRequests(requests []models.ProfileRequest) (bool, error)
	SavePartition(year int, payments []models.Payment, expenses []models.Expense, assetPayments []models.AssetPayment) (bool, error)
	DeletePartition(year int) error
	ExportAll() (localstore.ExportDocument, error)
	ImportAll(document localstore.ExportDocument) error
	Wipe() (int64, error)
	ListEntries() ([]localstore.EntryInfo, error)
}

// AppState is the in-memory snapshot every mutation updates before persisting.
type AppState struct {
	Building        models.BuildingInfo     `json:"building"`
	Apartments      []models.Apartment      `json:"apartments"`
	Payments        []models.Payment        `json:"payments"`
	Expenses        []models.Expense        `json:"expenses"`
	Assets          []models.BuildingAsset  `json:"assets"`
	AssetPayments   []models.AssetPayment   `json:"assetPayments"`
	Projects        []models.Project        `json:"projects"`
	Complaints      []models.Complaint      `json:"complaints"`
	ReminderLogs    []models.ReminderLog    `json:"reminderLogs"`
	ProfileRequests []models.ProfileRequest `json:"profileRequests"`
}

func emptyAppState() AppState {
	return AppState{
		Apartments:      []models.Apartment{},
		Payments:        []models.Payment{},
		Expenses:        []models.Expense{},
		Assets:          []models.BuildingAsset{},
		AssetPayments:   []models.AssetPayment{},
		Projects:        []models.Project{},
		Complaints:      []models.Complaint{},
		ReminderLogs:    []models.ReminderLog{},
		ProfileRequests: []models.ProfileRequest{},
	}
}

func (state AppState) clone() AppState {
	return AppState{
		Building:        state.Building,
		Apartments:      append([]models.Apartment{}, state.Apartments...),
		Payments:        append([]models.Payment{}, state.Payments...),
		Expenses:        append([]models.Expense{}, state.Expenses...),
		Assets:          append([]models.BuildingAsset{}, state.Assets...),
		AssetPayments:   append([]models.AssetPayment{}, state.AssetPayments...),
		Projects:        append([]models.Project{}, state.Projects...),
		Complaints:      append([]models.Complaint{}, state.Complaints...),
		ReminderLogs:    append([]models.ReminderLog{}, state.ReminderLogs...),
		ProfileRequests: append([]models.ProfileRequest{}, state.ProfileRequests...),
	}
}

// WriteReport lists the writes of one mutation that were abandoned for quota.
// The in-memory change is kept either way.
type WriteReport struct {
	Warnings []localstore.Warning `json:"warnings"`
}

func (report *WriteReport) track(key string, saved bool) {
	if !saved {
		report.Warnings = append(report.Warnings, localstore.Warning{Code: localstore.WarningQuotaExceeded, Key: key})
	}
}

func (report WriteReport) Degraded() bool {
	return len(report.Warnings) > 0
}

type ReconcilerOption func(*Reconciler)

func WithClock(now func() time.Time) ReconcilerOption {
	return func(reconciler *Reconciler) {
		if now != nil {
			reconciler.now = now
		}
	}
}

func WithIDGenerator(newID func() string) ReconcilerOption {
	return func(reconciler *Reconciler) {
		if newID != nil {
			reconciler.newID = newID
		}
	}
}

func WithLogger(logger logrus.FieldLogger) ReconcilerOption {
	return func(reconciler *Reconciler) {
		if logger != nil {
			reconciler.logger = logger
		}
	}
}

// Reconciler owns the application state. Mutations are serialized in process;
// separate processes sharing a store overwrite each other.
type Reconciler struct {
	mu     sync.Mutex
	store  ReconcilerStore
	state  AppState
	loaded bool
	now    func() time.Time
	newID  func() string
	logger logrus.FieldLogger
}

func NewReconciler(store ReconcilerStore, options ...ReconcilerOption) *Reconciler {
	reconciler := &Reconciler{
		store:  store,
		state:  emptyAppState(),
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logrus.StandardLogger(),
	}
	for _, option := range options {
		option(reconciler)
	}
	return reconciler
}

// Load replaces the in-memory state with what the store holds.
func (reconciler *Reconciler) Load() error {
	reconciler.mu.Lock()
	defer reconciler.mu.Unlock()
	return reconciler.loadLocked()
}

func (reconciler *Reconciler) loadLocked() error {
	data, err := reconciler.store.LoadAll()
	if err != nil {
		return fmt.Errorf("load application state: %w", err)
	}

	state := emptyAppState()
	state.Building = data.Building.Info
	state.Apartments = append(state.Apartments, data.Building.Apartments...)
	state.Payments = append(state.Payments, data.Finance.Payments...)
	state.Expenses = append(state.Expenses, data.Finance.Expenses...)
	state.AssetPayments = append(state.AssetPayments, data.Finance.AssetPayments...)
	state.Assets = append(state.Assets, data.Assets...)
	state.Projects = append(state.Projects, data.Operations.Projects...)
	state.Complaints = append(state.Complaints, data.Operations.Complaints...)
	state.ReminderLogs = append(state.ReminderLogs, data.ReminderLogs...)
	state.ProfileRequests = append(state.ProfileRequests, data.ProfileRequests...)

	reconciler.state = state
	reconciler.loaded = true
	reconciler.logger.WithFields(logrus.Fields{
		"apartments": len(state.Apartments),
		"payments":   len(state.Payments),
		"expenses":   len(state.Expenses),
	}).Info("application state loaded")
	return nil
}

// Snapshot returns a copy of the current state.
func (reconciler *Reconciler) Snapshot() AppState {
	reconciler.mu.Lock()
	defer reconciler.mu.Unlock()
	return reconciler.state.clone()
}

func (reconciler *Reconciler) RequiresSetup() bool {
	reconciler.mu.Lock()
	defer reconciler.mu.Unlock()
	return !reconciler.state.Building.SetupCompleted
}

// mutate runs change under the lock. change edits the state in place and
// persists whatever it touched through the helpers below.
func (reconciler *Reconciler) mutate(change func(report *WriteReport) error) (WriteReport, error) {
	reconciler.mu.Lock()
	defer reconciler.mu.Unlock()

	if !reconciler.loaded {
		return WriteReport{}, ErrStateNotLoaded
	}
	report := WriteReport{}
	if err := change(&report); err != nil {
		return report, err
	}
	if report.Degraded() {
		reconciler.logger.WithField("warnings", len(report.Warnings)).Warn("mutation kept in memory but not fully persisted")
	}
	return report, nil
}

func (reconciler *Reconciler) saveBuilding(report *WriteReport) error {
	saved, err := reconciler.store.SaveBuilding(localstore.BuildingDocument{
		Info:       reconciler.state.Building,
		Apartments: reconciler.state.Apartments,
	})
	if err != nil {
		return err
	}
	report.track(localstore.KeyBuilding, saved)
	return nil
}

func (reconciler *Reconciler) saveAssets(report *WriteReport) error {
	saved, err := reconciler.store.SaveAssets(reconciler.state.Assets)
	if err != nil {
		return err
	}
	report.track(localstore.KeyAssets, saved)
	return nil
}

func (reconciler *Reconciler) saveOperations(report *WriteReport) error {
	saved, err := reconciler.store.SaveOperations(localstore.Operations{
		Projects:   reconciler.state.Projects,
		Complaints: reconciler.state.Complaints,
	})
	if err != nil {
		return err
	}
	report.track(localstore.KeyOperations, saved)
	return nil
}

func (reconciler *Reconciler) saveReminderLogs(report *WriteReport) error {
	saved, err := reconciler.store.SaveReminderLogs(reconciler.state.ReminderLogs)
	if err != nil {
		return err
	}
	report.track(localstore.KeyReminders, saved)
	return nil
}

func (reconciler *Reconciler) saveProfileRequests(report *WriteReport) error {
	saved, err := reconciler.store.SaveProfileRequests(reconciler.state.ProfileRequests)
	if err != nil {
		return err
	}
	report.track(localstore.KeyProfileRequests, saved)
	return nil
}

// saveYears rewrites the partition of each distinct year. A year left with no
// finance items is dropped from the store instead.
func (reconciler *Reconciler) saveYears(report *WriteReport, years ...int) error {
	seen := make(map[int]bool, len(years))
	for _, year := range years {
		if seen[year] {
			continue
		}
		seen[year] = true

		if !reconciler.yearHasFinance(year) {
			if err := reconciler.store.DeletePartition(year); err != nil {
				return err
			}
			continue
		}
		saved, err := reconciler.store.SavePartition(year, reconciler.state.Payments, reconciler.state.Expenses, reconciler.state.AssetPayments)
		if err != nil {
			return err
		}
		report.track(localstore.FinanceKey(year), saved)
	}
	return nil
}

func (reconciler *Reconciler) yearHasFinance(year int) bool {
	for _, payment := range reconciler.state.Payments {
		if payment.Year == year {
			return true
		}
	}
	for _, expense := range reconciler.state.Expenses {
		if expense.Year() == year {
			return true
		}
	}
	for _, payment := range reconciler.state.AssetPayments {
		if payment.Year == year {
			return true
		}
	}
	return false
}

func (reconciler *Reconciler) timestamp() time.Time {
	return reconciler.now().UTC()
}

func (reconciler *Reconciler) today() string {
	return reconciler.now().Format(models.ExpenseDateLayout)
}
