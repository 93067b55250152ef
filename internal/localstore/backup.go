package localstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrImportFormat = errors.New("import document has no storage map")

// ExportDocument is the portable backup of the whole namespace. Storage keys
// are unprefixed.
type ExportDocument struct {
	AppName    string                     `json:"appName"`
	Version    string                     `json:"version"`
	ExportDate string                     `json:"exportDate"`
	Storage    map[string]json.RawMessage `json:"storage"`
}

type EntryInfo struct {
	Key       string    `json:"key"`
	SizeBytes int64     `json:"sizeBytes"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (store *Store) ExportAll() (ExportDocument, error) {
	keys, err := store.adapter.ScanKeys("")
	if err != nil {
		return ExportDocument{}, err
	}

	storage := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		value, found, err := store.adapter.Read(key)
		if err != nil {
			return ExportDocument{}, err
		}
		if !found {
			continue
		}
		exported, err := exportValue(value)
		if err != nil {
			return ExportDocument{}, fmt.Errorf("export %s: %w", key, err)
		}
		storage[key] = exported
	}

	return ExportDocument{
		AppName:    store.appName,
		Version:    store.version,
		ExportDate: store.now().UTC().Format(time.RFC3339),
		Storage:    storage,
	}, nil
}

// EncodeExportDocument renders the document indented, without HTML escaping,
// so stored values survive an import byte for byte.
func EncodeExportDocument(document ExportDocument) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(document); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func ParseExportDocument(data []byte) (ExportDocument, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return ExportDocument{}, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	rawStorage, ok := fields["storage"]
	if !ok || bytes.Equal(bytes.TrimSpace(rawStorage), []byte("null")) {
		return ExportDocument{}, ErrImportFormat
	}

	document := ExportDocument{}
	if err := json.Unmarshal(rawStorage, &document.Storage); err != nil {
		return ExportDocument{}, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	for name, target := range map[string]*string{
		"appName":    &document.AppName,
		"version":    &document.Version,
		"exportDate": &document.ExportDate,
	} {
		if raw, ok := fields[name]; ok {
			_ = json.Unmarshal(raw, target)
		}
	}
	return document, nil
}

// ImportAll replaces the whole namespace with the document storage in one
// substrate transaction. On any failure the previous keys remain.
func (store *Store) ImportAll(document ExportDocument) error {
	if document.Storage == nil {
		return ErrImportFormat
	}

	entries := make(map[string]string, len(document.Storage))
	for key, raw := range document.Storage {
		value, err := importValue(raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrImportFormat, key, err)
		}
		entries[key] = value
	}

	if err := store.adapter.replaceAll(entries); err != nil {
		return fmt.Errorf("import storage: %w", err)
	}
	store.logger.WithField("keys", len(entries)).Info("storage imported")
	return nil
}

func (store *Store) ListEntries() ([]EntryInfo, error) {
	entries, err := store.adapter.entries()
	if err != nil {
		return nil, err
	}
	infos := make([]EntryInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, EntryInfo{
			Key:       entry.Key,
			SizeBytes: entry.SizeBytes,
			UpdatedAt: entry.UpdatedAt,
		})
	}
	return infos, nil
}

func (store *Store) Wipe() (int64, error) {
	return store.adapter.ClearNamespace()
}

// exportValue embeds compact non-string JSON as is. Anything else, including
// JSON strings and non-compact JSON, is exported as a JSON string so import
// restores the exact bytes.
func exportValue(value string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace([]byte(value))
	if len(trimmed) > 0 && trimmed[0] != '"' && json.Valid([]byte(value)) {
		var compacted bytes.Buffer
		if err := json.Compact(&compacted, []byte(value)); err == nil && compacted.String() == value {
			return json.RawMessage(value), nil
		}
	}
	return json.Marshal(value)
}

func importValue(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return "", err
		}
		return value, nil
	}
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, trimmed); err != nil {
		return "", err
	}
	return compacted.String(), nil
}
