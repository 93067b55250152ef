package localstore

import (
	"errors"
	"strings"
	"testing"

	"github.com/terraincognita07/syndic/internal/models"
)

func TestDecodeBuildingFillsLegacyDefaults(t *testing.T) {
	legacy := `{
		"info": {"name": "Résidence Atlas", "floors": 2, "unitsPerFloor": 2, "defaultMonthlyFee": 300},
		"apartments": [
			{"id": "a1", "number": "A1", "ownerName": "Karim"},
			{"id": "a2", "number": "A2", "ownerName": "Sara", "monthlyFee": 0}
		]
	}`

	document, err := DecodeBuilding(legacy)
	if err != nil {
		t.Fatalf("DecodeBuilding() unexpected error: %v", err)
	}

	if document.SchemaVersion != CurrentSchemaVersion {
		t.Fatalf("expected schema version %d, got %d", CurrentSchemaVersion, document.SchemaVersion)
	}
	features := document.Info.Features
	if features.AutoReminders || features.Notifications || features.OwnerInterface.Enabled ||
		features.OwnerInterface.CanViewPayments || features.OwnerInterface.CanSubmitComplaints ||
		features.OwnerInterface.CanEditProfile {
		t.Fatalf("expected every legacy feature flag to be false, got %+v", features)
	}
	if document.Info.Theme != models.ThemeClassic {
		t.Fatalf("expected classic theme, got %q", document.Info.Theme)
	}
	if document.Info.Currency != models.DefaultCurrency {
		t.Fatalf("expected default currency, got %q", document.Info.Currency)
	}
	if document.Info.MessageTemplates != models.DefaultMessageTemplates() {
		t.Fatalf("expected default message templates, got %+v", document.Info.MessageTemplates)
	}
	if document.Apartments[0].MonthlyFee != 300 {
		t.Fatalf("expected missing fee to fall back to 300, got %v", document.Apartments[0].MonthlyFee)
	}
	if document.Apartments[1].MonthlyFee != 0 {
		t.Fatalf("expected explicit zero fee to stay 0, got %v", document.Apartments[1].MonthlyFee)
	}

	encoded, err := EncodeBuilding(document)
	if err != nil {
		t.Fatalf("EncodeBuilding() unexpected error: %v", err)
	}
	for _, fragment := range []string{`"schemaVersion":2`, `"autoReminders":false`, `"notifications":false`, `"canEditProfile":false`} {
		if !strings.Contains(encoded, fragment) {
			t.Fatalf("expected %s in encoded document %s", fragment, encoded)
		}
	}
}

func TestDecodeBuildingKeepsCurrentDocumentAsIs(t *testing.T) {
	current := `{"schemaVersion":2,"info":{"name":"Atlas","theme":"dark","currency":"EUR","messageTemplates":{"reminder":"R","receipt":"Q"},"features":{"autoReminders":true}},"apartments":[{"id":"a1","number":"A1"}]}`

	document, err := DecodeBuilding(current)
	if err != nil {
		t.Fatalf("DecodeBuilding() unexpected error: %v", err)
	}
	if document.Info.Theme != models.ThemeDark || document.Info.Currency != "EUR" {
		t.Fatalf("current document was rewritten: %+v", document.Info)
	}
	if !document.Info.Features.AutoReminders {
		t.Fatalf("expected autoReminders=true to survive")
	}
	if document.Apartments[0].MonthlyFee != 0 {
		t.Fatalf("current schema must not backfill fees, got %v", document.Apartments[0].MonthlyFee)
	}
}

func TestDecodeBuildingEmptyAndCorruptInput(t *testing.T) {
	document, err := DecodeBuilding("")
	if err != nil {
		t.Fatalf("DecodeBuilding(\"\") unexpected error: %v", err)
	}
	if document.Info.SetupCompleted || len(document.Apartments) != 0 || document.Apartments == nil {
		t.Fatalf("expected empty building, got %+v", document)
	}

	document, err = DecodeBuilding("{not json")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if document.Apartments == nil || len(document.Apartments) != 0 {
		t.Fatalf("expected empty apartments on corrupt input")
	}

	if _, err := DecodeBuilding(`{"schemaVersion":99}`); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode for unknown schema version, got %v", err)
	}
}

func TestDecodeAssetsAcceptsLegacyArray(t *testing.T) {
	assets, err := DecodeAssets(`[{"id":"as1","name":"Antenne","kind":"antenna","monthlyAmount":1200,"active":true}]`)
	if err != nil {
		t.Fatalf("DecodeAssets() unexpected error: %v", err)
	}
	if len(assets) != 1 || assets[0].MonthlyAmount != 1200 {
		t.Fatalf("unexpected assets %+v", assets)
	}

	encoded, err := EncodeAssets(assets)
	if err != nil {
		t.Fatalf("EncodeAssets() unexpected error: %v", err)
	}
	decoded, err := DecodeAssets(encoded)
	if err != nil || len(decoded) != 1 || decoded[0].ID != "as1" {
		t.Fatalf("round trip failed: %+v, %v", decoded, err)
	}
}

func TestDecodeCollectionsTolerateMissingInput(t *testing.T) {
	if logs, err := DecodeReminderLogs("  "); err != nil || logs == nil || len(logs) != 0 {
		t.Fatalf("DecodeReminderLogs() = %v, %v", logs, err)
	}
	if requests, err := DecodeProfileRequests(""); err != nil || requests == nil {
		t.Fatalf("DecodeProfileRequests() = %v, %v", requests, err)
	}
	operations, err := DecodeOperations("")
	if err != nil || operations.Projects == nil || operations.Complaints == nil {
		t.Fatalf("DecodeOperations() = %+v, %v", operations, err)
	}
	if _, err := DecodeOperations(`{"projects": 3}`); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode for wrong shape, got %v", err)
	}
}

func TestDecodeOperationsNormalizesAttachments(t *testing.T) {
	operations, err := DecodeOperations(`{"schemaVersion":2,"projects":[{"id":"p1","title":"Toiture"}],"complaints":[{"id":"c1","title":"Fuite"}]}`)
	if err != nil {
		t.Fatalf("DecodeOperations() unexpected error: %v", err)
	}
	if operations.Projects[0].Attachments == nil || operations.Complaints[0].Attachments == nil {
		t.Fatalf("expected empty attachment slices, got %+v", operations)
	}
}

func TestManifestEncodingSortsAndDeduplicates(t *testing.T) {
	encoded, err := encodeManifest([]int{2025, 2023, 2025, 2024})
	if err != nil {
		t.Fatalf("encodeManifest() unexpected error: %v", err)
	}
	if encoded != `{"years":[2023,2024,2025]}` {
		t.Fatalf("unexpected manifest %s", encoded)
	}
	years, err := decodeManifest(encoded)
	if err != nil || len(years) != 3 {
		t.Fatalf("decodeManifest() = %v, %v", years, err)
	}
}
