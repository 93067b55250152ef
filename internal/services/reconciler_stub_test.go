package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/syndic/internal/localstore"
	"github.com/terraincognita07/syndic/internal/logging"
	"github.com/terraincognita07/syndic/internal/models"
)

type stubReconcilerStore struct {
	data            localstore.Data
	degraded        map[string]bool
	writes          []string
	partitions      map[int]localstore.FinancePartition
	assetPartitions map[int][]models.AssetPayment
	deletedYears    []int
	loadErr         error
}

func newStubReconcilerStore() *stubReconcilerStore {
	return &stubReconcilerStore{
		degraded:        map[string]bool{},
		partitions:      map[int]localstore.FinancePartition{},
		assetPartitions: map[int][]models.AssetPayment{},
	}
}

func (stub *stubReconcilerStore) LoadAll() (localstore.Data, error) {
	return stub.data, stub.loadErr
}

func (stub *stubReconcilerStore) write(key string) (bool, error) {
	stub.writes = append(stub.writes, key)
	return !stub.degraded[key], nil
}

func (stub *stubReconcilerStore) SaveBuilding(document localstore.BuildingDocument) (bool, error) {
	stub.data.Building = document
	stub.data.Building.Apartments = append([]models.Apartment{}, document.Apartments...)
	return stub.write(localstore.KeyBuilding)
}

func (stub *stubReconcilerStore) SaveAssets([]models.BuildingAsset) (bool, error) {
	return stub.write(localstore.KeyAssets)
}

func (stub *stubReconcilerStore) SaveOperations(localstore.Operations) (bool, error) {
	return stub.write(localstore.KeyOperations)
}

func (stub *stubReconcilerStore) SaveReminderLogs(logs []models.ReminderLog) (bool, error) {
	stub.data.ReminderLogs = append([]models.ReminderLog{}, logs...)
	return stub.write(localstore.KeyReminders)
}

func (stub *stubReconcilerStore) SaveProfileRequests(requests []models.ProfileRequest) (bool, error) {
	stub.data.ProfileRequests = append([]models.ProfileRequest{}, requests...)
	return stub.write(localstore.KeyProfileRequests)
}

func (stub *stubReconcilerStore) SavePartition(year int, payments []models.Payment, expenses []models.Expense, assetPayments []models.AssetPayment) (bool, error) {
	partition := localstore.FinancePartition{Year: year}
	for _, payment := range payments {
		if payment.Year == year {
			partition.Payments = append(partition.Payments, payment)
		}
	}
	for _, expense := range expenses {
		if expense.Year() == year {
			partition.Expenses = append(partition.Expenses, expense)
		}
	}
	collected := make([]models.AssetPayment, 0)
	for _, payment := range assetPayments {
		if payment.Year == year {
			collected = append(collected, payment)
		}
	}
	stub.partitions[year] = partition
	stub.assetPartitions[year] = collected
	return stub.write(localstore.FinanceKey(year))
}

func (stub *stubReconcilerStore) DeletePartition(year int) error {
	delete(stub.partitions, year)
	delete(stub.assetPartitions, year)
	stub.deletedYears = append(stub.deletedYears, year)
	return nil
}

func (stub *stubReconcilerStore) ExportAll() (localstore.ExportDocument, error) {
	return localstore.ExportDocument{}, nil
}

func (stub *stubReconcilerStore) ImportAll(localstore.ExportDocument) error {
	return nil
}

func (stub *stubReconcilerStore) Wipe() (int64, error) {
	stub.data = localstore.Data{}
	return 0, nil
}

func (stub *stubReconcilerStore) ListEntries() ([]localstore.EntryInfo, error) {
	return nil, nil
}

type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (ids *sequenceIDs) newID() string {
	ids.mu.Lock()
	defer ids.mu.Unlock()
	ids.next++
	return fmt.Sprintf("id-%d", ids.next)
}

var fixedNow = time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

func newTestReconciler(t *testing.T, store ReconcilerStore) *Reconciler {
	t.Helper()

	ids := &sequenceIDs{}
	reconciler := NewReconciler(store,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(ids.newID),
		WithLogger(logging.Discard()),
	)
	if err := reconciler.Load(); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return reconciler
}

// seededStub holds a completed building with apartment A1 (fee 50) and A2 (fee 80).
func seededStub() *stubReconcilerStore {
	stub := newStubReconcilerStore()
	stub.data.Building = localstore.BuildingDocument{
		Info: models.BuildingInfo{
			Name:              "Résidence Atlas",
			DefaultMonthlyFee: 50,
			Currency:          models.DefaultCurrency,
			Theme:             models.ThemeClassic,
			SetupCompleted:    true,
		},
		Apartments: []models.Apartment{
			{ID: "a1", Number: "A1", OwnerName: "Karim", MonthlyFee: 50, Phone: "0612345678"},
			{ID: "a2", Number: "A2", OwnerName: "Sara", MonthlyFee: 80, Phone: "0698765432"},
		},
	}
	return stub
}
