package services

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/terraincognita07/syndic/internal/db"
	"github.com/terraincognita07/syndic/internal/localstore"
	"github.com/terraincognita07/syndic/internal/logging"
	"github.com/terraincognita07/syndic/internal/models"
)

func newSQLiteReconciler(t *testing.T, capacityBytes int64) (*Reconciler, *localstore.Store) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "reconciler.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	adapter := localstore.NewAdapter(db.NewKVStore(database, capacityBytes), localstore.DefaultNamespace, nil, logging.Discard())
	store := localstore.NewStore(adapter, logging.Discard())
	ids := &sequenceIDs{}
	reconciler := NewReconciler(store,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(ids.newID),
		WithLogger(logging.Discard()),
	)
	if err := reconciler.Load(); err != nil {
		t.Fatalf("Load(): %v", err)
	}
	return reconciler, store
}

func setupTestBuilding(t *testing.T, reconciler *Reconciler) {
	t.Helper()

	_, err := reconciler.SetupBuilding(SetupInput{
		Info: models.BuildingInfo{
			Name:              "Résidence Atlas",
			City:              "Casablanca",
			Floors:            2,
			UnitsPerFloor:     3,
			DefaultMonthlyFee: 50,
		},
		AdminPassword:      "syndic2024",
		GenerateApartments: true,
	})
	if err != nil {
		t.Fatalf("SetupBuilding(): %v", err)
	}
}

func TestSetupBuildingGeneratesApartmentsAndPersists(t *testing.T) {
	reconciler, store := newSQLiteReconciler(t, 0)
	if !reconciler.RequiresSetup() {
		t.Fatalf("fresh store must require setup")
	}
	setupTestBuilding(t, reconciler)

	snapshot := reconciler.Snapshot()
	if reconciler.RequiresSetup() {
		t.Fatalf("setup flag not set")
	}
	if len(snapshot.Apartments) != 6 {
		t.Fatalf("expected 6 generated apartments, got %d", len(snapshot.Apartments))
	}
	shares := 0
	for _, apartment := range snapshot.Apartments {
		shares += apartment.Shares
	}
	if shares != 1000 {
		t.Fatalf("expected shares to sum to 1000, got %d", shares)
	}
	if snapshot.Apartments[5].Number != "A6" || snapshot.Apartments[5].Floor != 1 {
		t.Fatalf("unexpected last apartment %+v", snapshot.Apartments[5])
	}
	if snapshot.Building.Theme != models.ThemeClassic || snapshot.Building.Currency != models.DefaultCurrency {
		t.Fatalf("expected defaults filled, got %+v", snapshot.Building)
	}

	data, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll(): %v", err)
	}
	if len(data.Building.Apartments) != 6 || !data.Building.Info.SetupCompleted {
		t.Fatalf("setup not persisted: %+v", data.Building)
	}

	if _, err := reconciler.SetupBuilding(SetupInput{Info: models.BuildingInfo{Name: "x"}, AdminPassword: "another1pass"}); !errors.Is(err, ErrSetupAlreadyCompleted) {
		t.Fatalf("expected ErrSetupAlreadyCompleted, got %v", err)
	}
}

func TestSetupBuildingRejectsWeakPassword(t *testing.T) {
	reconciler, _ := newSQLiteReconciler(t, 0)

	_, err := reconciler.SetupBuilding(SetupInput{Info: models.BuildingInfo{Name: "Atlas"}, AdminPassword: "short"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if !reconciler.RequiresSetup() {
		t.Fatalf("failed setup must not complete")
	}
}

func TestStateSurvivesReload(t *testing.T) {
	reconciler, store := newSQLiteReconciler(t, 0)
	setupTestBuilding(t, reconciler)

	apartmentID := reconciler.Snapshot().Apartments[0].ID
	if _, _, err := reconciler.TogglePayment(apartmentID, 0, 2024); err != nil {
		t.Fatalf("TogglePayment(): %v", err)
	}
	if _, _, err := reconciler.AddExpense(ExpenseInput{Date: "2023-05-10", Category: "cleaning", Amount: 75}); err != nil {
		t.Fatalf("AddExpense(): %v", err)
	}

	reloaded := NewReconciler(store, WithLogger(logging.Discard()))
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load(): %v", err)
	}
	snapshot := reloaded.Snapshot()
	if len(snapshot.Payments) != 1 || len(snapshot.Expenses) != 1 || len(snapshot.Apartments) != 6 {
		t.Fatalf("unexpected reloaded state: %d payments, %d expenses, %d apartments",
			len(snapshot.Payments), len(snapshot.Expenses), len(snapshot.Apartments))
	}
}

func TestExportWipeImportRestoresApartmentList(t *testing.T) {
	reconciler, _ := newSQLiteReconciler(t, 0)
	setupTestBuilding(t, reconciler)
	if _, _, err := reconciler.AddApartment(ApartmentInput{Number: "B1", OwnerName: "Nadia", Phone: "0611111111"}); err != nil {
		t.Fatalf("AddApartment(): %v", err)
	}
	before := reconciler.Snapshot().Apartments

	document, err := reconciler.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll(): %v", err)
	}
	if _, err := reconciler.Wipe(); err != nil {
		t.Fatalf("Wipe(): %v", err)
	}
	if !reconciler.RequiresSetup() || len(reconciler.Snapshot().Apartments) != 0 {
		t.Fatalf("wipe must reset the state")
	}

	if err := reconciler.ImportAll(document); err != nil {
		t.Fatalf("ImportAll(): %v", err)
	}
	after := reconciler.Snapshot().Apartments

	sortApartments := func(apartments []models.Apartment) {
		sort.Slice(apartments, func(i, j int) bool { return apartments[i].ID < apartments[j].ID })
	}
	sortApartments(before)
	sortApartments(after)
	if len(before) != len(after) {
		t.Fatalf("expected %d apartments, got %d", len(before), len(after))
	}
	for index := range before {
		if before[index] != after[index] {
			t.Fatalf("apartment %d differs: %+v vs %+v", index, before[index], after[index])
		}
	}
}

func TestFailedImportKeepsStateAndStore(t *testing.T) {
	reconciler, _ := newSQLiteReconciler(t, 0)
	setupTestBuilding(t, reconciler)

	if err := reconciler.ImportAll(localstore.ExportDocument{}); !errors.Is(err, localstore.ErrImportFormat) {
		t.Fatalf("expected ErrImportFormat, got %v", err)
	}
	if reconciler.RequiresSetup() || len(reconciler.Snapshot().Apartments) != 6 {
		t.Fatalf("state changed after rejected import")
	}

	entries, err := reconciler.ListEntries()
	if err != nil {
		t.Fatalf("ListEntries(): %v", err)
	}
	if len(entries) == 0 || entries[0].Key != localstore.KeyBuilding {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestQuotaDegradedMutationReportsWarning(t *testing.T) {
	reconciler, store := newSQLiteReconciler(t, 4096)
	setupTestBuilding(t, reconciler)

	_, report, err := reconciler.AddProject(ProjectInput{
		Title:       "Plans",
		Attachments: []models.Attachment{{Name: "plan.png", MimeType: "image/png", Data: string(make([]byte, 8192))}},
	})
	if err != nil {
		t.Fatalf("AddProject() must not fail on quota: %v", err)
	}
	if !report.Degraded() || report.Warnings[0].Key != localstore.KeyOperations {
		t.Fatalf("expected operations quota warning, got %+v", report)
	}
	if len(reconciler.Snapshot().Projects) != 1 {
		t.Fatalf("in-memory project must be kept")
	}

	data, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll(): %v", err)
	}
	if len(data.Operations.Projects) != 0 {
		t.Fatalf("oversized operations must not be persisted")
	}
}
