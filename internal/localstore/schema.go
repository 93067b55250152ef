package localstore

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/terraincognita07/syndic/internal/models"
)

// Schema history of the building document:
//
//	0: {info, apartments}; no feature flags, currency or per-apartment fee guaranteed
//	1: schemaVersion added, features.autoReminders/notifications
//	2: owner interface permissions, theme, message templates
const CurrentSchemaVersion = 2

type storedBuildingDocument struct {
	SchemaVersion int               `json:"schemaVersion"`
	Info          json.RawMessage   `json:"info"`
	Apartments    []json.RawMessage `json:"apartments"`
}

func migrateBuildingDocument(raw []byte) (BuildingDocument, error) {
	stored := storedBuildingDocument{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return BuildingDocument{}, err
	}
	if stored.SchemaVersion < 0 || stored.SchemaVersion > CurrentSchemaVersion {
		return BuildingDocument{}, fmt.Errorf("unsupported schema version %d", stored.SchemaVersion)
	}

	document := BuildingDocument{
		SchemaVersion: stored.SchemaVersion,
		Apartments:    make([]models.Apartment, 0, len(stored.Apartments)),
	}
	if len(stored.Info) > 0 && !bytes.Equal(bytes.TrimSpace(stored.Info), []byte("null")) {
		if err := json.Unmarshal(stored.Info, &document.Info); err != nil {
			return BuildingDocument{}, fmt.Errorf("info: %w", err)
		}
	}

	missingFee := make([]bool, 0, len(stored.Apartments))
	for index, rawApartment := range stored.Apartments {
		apartment := models.Apartment{}
		if err := json.Unmarshal(rawApartment, &apartment); err != nil {
			return BuildingDocument{}, fmt.Errorf("apartment %d: %w", index, err)
		}
		fields := map[string]json.RawMessage{}
		if err := json.Unmarshal(rawApartment, &fields); err != nil {
			return BuildingDocument{}, fmt.Errorf("apartment %d: %w", index, err)
		}
		_, hasFee := fields["monthlyFee"]
		document.Apartments = append(document.Apartments, apartment)
		missingFee = append(missingFee, !hasFee)
	}

	if document.SchemaVersion < 1 {
		upgradeBuildingToV1(&document, missingFee)
	}
	if document.SchemaVersion < 2 {
		upgradeBuildingToV2(&document)
	}
	return document, nil
}

// upgradeBuildingToV1 fills fields older documents left out. Absent feature
// flags already decode as false and are written back explicitly on the next
// encode.
func upgradeBuildingToV1(document *BuildingDocument, missingFee []bool) {
	if document.Info.Currency == "" {
		document.Info.Currency = models.DefaultCurrency
	}
	for index := range document.Apartments {
		if missingFee[index] {
			document.Apartments[index].MonthlyFee = document.Info.DefaultMonthlyFee
		}
	}
	document.SchemaVersion = 1
}

func upgradeBuildingToV2(document *BuildingDocument) {
	if document.Info.Theme == "" {
		document.Info.Theme = models.ThemeClassic
	}
	defaults := models.DefaultMessageTemplates()
	if document.Info.MessageTemplates.Reminder == "" {
		document.Info.MessageTemplates.Reminder = defaults.Reminder
	}
	if document.Info.MessageTemplates.Receipt == "" {
		document.Info.MessageTemplates.Receipt = defaults.Receipt
	}
	document.SchemaVersion = 2
}
