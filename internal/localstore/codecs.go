package localstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/terraincognita07/syndic/internal/models"
)

const (
	KeyBuilding        = "building"
	KeyAssets          = "assets"
	KeyOperations      = "operations"
	KeyReminders       = "reminders"
	KeyProfileRequests = "profile_requests"
	KeyFinanceManifest = "finance_manifest"

	PrefixFinance     = "cotis_"
	PrefixAssetPayout = "asset_pay_"
)

// ErrDecode marks a stored value that is not valid for its expected shape.
// Decoders return it together with an empty value so callers can keep going.
var ErrDecode = errors.New("stored value cannot be decoded")

type BuildingDocument struct {
	SchemaVersion int                 `json:"schemaVersion"`
	Info          models.BuildingInfo `json:"info"`
	Apartments    []models.Apartment  `json:"apartments"`
}

type assetsDocument struct {
	SchemaVersion int                    `json:"schemaVersion"`
	Assets        []models.BuildingAsset `json:"assets"`
}

type Operations struct {
	Projects   []models.Project   `json:"projects"`
	Complaints []models.Complaint `json:"complaints"`
}

type operationsDocument struct {
	SchemaVersion int                `json:"schemaVersion"`
	Projects      []models.Project   `json:"projects"`
	Complaints    []models.Complaint `json:"complaints"`
}

type remindersDocument struct {
	SchemaVersion int                  `json:"schemaVersion"`
	Logs          []models.ReminderLog `json:"logs"`
}

type profileRequestsDocument struct {
	SchemaVersion int                     `json:"schemaVersion"`
	Requests      []models.ProfileRequest `json:"requests"`
}

// FinancePartition is the combined payments/expenses document of one year.
type FinancePartition struct {
	Year     int              `json:"year"`
	Payments []models.Payment `json:"payments"`
	Expenses []models.Expense `json:"expenses"`
}

type AssetPaymentPartition struct {
	Year     int                   `json:"year"`
	Payments []models.AssetPayment `json:"payments"`
}

type financeManifest struct {
	Years []int `json:"years"`
}

func FinanceKey(year int) string {
	return fmt.Sprintf("%s%d", PrefixFinance, year)
}

func AssetPaymentKey(year int) string {
	return fmt.Sprintf("%s%d", PrefixAssetPayout, year)
}

func EncodeBuilding(document BuildingDocument) (string, error) {
	document.SchemaVersion = CurrentSchemaVersion
	if document.Apartments == nil {
		document.Apartments = []models.Apartment{}
	}
	return encodeJSON(document)
}

// DecodeBuilding upgrades older documents to the current schema before
// returning them.
func DecodeBuilding(raw string) (BuildingDocument, error) {
	empty := BuildingDocument{SchemaVersion: CurrentSchemaVersion, Apartments: []models.Apartment{}}
	if isBlank(raw) {
		return empty, nil
	}
	document, err := migrateBuildingDocument([]byte(raw))
	if err != nil {
		return empty, fmt.Errorf("%w: %s: %v", ErrDecode, KeyBuilding, err)
	}
	return document, nil
}

func EncodeAssets(assets []models.BuildingAsset) (string, error) {
	return encodeJSON(assetsDocument{
		SchemaVersion: CurrentSchemaVersion,
		Assets:        nonNil(assets),
	})
}

func DecodeAssets(raw string) ([]models.BuildingAsset, error) {
	assets := []models.BuildingAsset{}
	if isBlank(raw) {
		return assets, nil
	}
	if isLegacyArray(raw) {
		if err := json.Unmarshal([]byte(raw), &assets); err != nil {
			return []models.BuildingAsset{}, fmt.Errorf("%w: %s: %v", ErrDecode, KeyAssets, err)
		}
		return nonNil(assets), nil
	}
	document := assetsDocument{}
	if err := json.Unmarshal([]byte(raw), &document); err != nil {
		return assets, fmt.Errorf("%w: %s: %v", ErrDecode, KeyAssets, err)
	}
	return nonNil(document.Assets), nil
}

func EncodeOperations(operations Operations) (string, error) {
	return encodeJSON(operationsDocument{
		SchemaVersion: CurrentSchemaVersion,
		Projects:      nonNil(operations.Projects),
		Complaints:    nonNil(operations.Complaints),
	})
}

func DecodeOperations(raw string) (Operations, error) {
	empty := Operations{Projects: []models.Project{}, Complaints: []models.Complaint{}}
	if isBlank(raw) {
		return empty, nil
	}
	document := operationsDocument{}
	if err := json.Unmarshal([]byte(raw), &document); err != nil {
		return empty, fmt.Errorf("%w: %s: %v", ErrDecode, KeyOperations, err)
	}
	for index := range document.Projects {
		document.Projects[index].Attachments = nonNil(document.Projects[index].Attachments)
	}
	for index := range document.Complaints {
		document.Complaints[index].Attachments = nonNil(document.Complaints[index].Attachments)
	}
	return Operations{
		Projects:   nonNil(document.Projects),
		Complaints: nonNil(document.Complaints),
	}, nil
}

func EncodeReminderLogs(logs []models.ReminderLog) (string, error) {
	return encodeJSON(remindersDocument{
		SchemaVersion: CurrentSchemaVersion,
		Logs:          nonNil(logs),
	})
}

func DecodeReminderLogs(raw string) ([]models.ReminderLog, error) {
	logs := []models.ReminderLog{}
	if isBlank(raw) {
		return logs, nil
	}
	if isLegacyArray(raw) {
		if err := json.Unmarshal([]byte(raw), &logs); err != nil {
			return []models.ReminderLog{}, fmt.Errorf("%w: %s: %v", ErrDecode, KeyReminders, err)
		}
		return nonNil(logs), nil
	}
	document := remindersDocument{}
	if err := json.Unmarshal([]byte(raw), &document); err != nil {
		return logs, fmt.Errorf("%w: %s: %v", ErrDecode, KeyReminders, err)
	}
	return nonNil(document.Logs), nil
}

func EncodeProfileRequests(requests []models.ProfileRequest) (string, error) {
	return encodeJSON(profileRequestsDocument{
		SchemaVersion: CurrentSchemaVersion,
		Requests:      nonNil(requests),
	})
}

func DecodeProfileRequests(raw string) ([]models.ProfileRequest, error) {
	requests := []models.ProfileRequest{}
	if isBlank(raw) {
		return requests, nil
	}
	if isLegacyArray(raw) {
		if err := json.Unmarshal([]byte(raw), &requests); err != nil {
			return []models.ProfileRequest{}, fmt.Errorf("%w: %s: %v", ErrDecode, KeyProfileRequests, err)
		}
		return nonNil(requests), nil
	}
	document := profileRequestsDocument{}
	if err := json.Unmarshal([]byte(raw), &document); err != nil {
		return requests, fmt.Errorf("%w: %s: %v", ErrDecode, KeyProfileRequests, err)
	}
	return nonNil(document.Requests), nil
}

func EncodeFinancePartition(partition FinancePartition) (string, error) {
	partition.Payments = nonNil(partition.Payments)
	partition.Expenses = nonNil(partition.Expenses)
	return encodeJSON(partition)
}

func DecodeFinancePartition(raw string) (FinancePartition, error) {
	partition := FinancePartition{Payments: []models.Payment{}, Expenses: []models.Expense{}}
	if isBlank(raw) {
		return partition, nil
	}
	decoded := FinancePartition{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return partition, fmt.Errorf("%w: %s: %v", ErrDecode, PrefixFinance, err)
	}
	decoded.Payments = nonNil(decoded.Payments)
	decoded.Expenses = nonNil(decoded.Expenses)
	return decoded, nil
}

func EncodeAssetPaymentPartition(partition AssetPaymentPartition) (string, error) {
	partition.Payments = nonNil(partition.Payments)
	return encodeJSON(partition)
}

func DecodeAssetPaymentPartition(raw string) (AssetPaymentPartition, error) {
	partition := AssetPaymentPartition{Payments: []models.AssetPayment{}}
	if isBlank(raw) {
		return partition, nil
	}
	decoded := AssetPaymentPartition{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return partition, fmt.Errorf("%w: %s: %v", ErrDecode, PrefixAssetPayout, err)
	}
	decoded.Payments = nonNil(decoded.Payments)
	return decoded, nil
}

// encodeManifest writes the years sorted and without duplicates.
func encodeManifest(years []int) (string, error) {
	return encodeJSON(financeManifest{Years: uniqueSortedYears(years)})
}

func decodeManifest(raw string) ([]int, error) {
	manifest := financeManifest{}
	if err := json.Unmarshal([]byte(raw), &manifest); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, KeyFinanceManifest, err)
	}
	return uniqueSortedYears(manifest.Years), nil
}

func uniqueSortedYears(years []int) []int {
	seen := make(map[int]bool, len(years))
	unique := make([]int, 0, len(years))
	for _, year := range years {
		if seen[year] {
			continue
		}
		seen[year] = true
		unique = append(unique, year)
	}
	sort.Ints(unique)
	return unique
}

func encodeJSON(value any) (string, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func isBlank(raw string) bool {
	return len(bytes.TrimSpace([]byte(raw))) == 0
}

func isLegacyArray(raw string) bool {
	trimmed := bytes.TrimSpace([]byte(raw))
	return len(trimmed) > 0 && trimmed[0] == '['
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
