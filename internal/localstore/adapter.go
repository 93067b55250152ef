package localstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/syndic/internal/db"
	"github.com/terraincognita07/syndic/internal/models"
)

const DefaultNamespace = "syndic_pro_"

const WarningQuotaExceeded = "storage.quota_exceeded"

// Substrate is the raw key/value table the adapter namespaces. *db.KVStore
// satisfies it.
type Substrate interface {
	Get(key string) (string, bool, error)
	Put(key string, value string) error
	Remove(key string) error
	Keys(prefix string) ([]string, error)
	Entries(prefix string) ([]models.StorageEntry, error)
	RemovePrefix(prefix string) (int64, error)
	ReplacePrefix(prefix string, entries map[string]string) error
}

// Warning is a user-facing persistence notice. Code is an i18n key.
type Warning struct {
	Code string `json:"code"`
	Key  string `json:"key"`
}

type Warner interface {
	Warn(warning Warning)
}

type WarnerFunc func(warning Warning)

func (fn WarnerFunc) Warn(warning Warning) {
	fn(warning)
}

type Adapter struct {
	substrate Substrate
	prefix    string
	warner    Warner
	logger    logrus.FieldLogger
}

func NewAdapter(substrate Substrate, prefix string, warner Warner, logger logrus.FieldLogger) *Adapter {
	if prefix == "" {
		prefix = DefaultNamespace
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Adapter{
		substrate: substrate,
		prefix:    prefix,
		warner:    warner,
		logger:    logger,
	}
}

func (adapter *Adapter) Prefix() string {
	return adapter.prefix
}

// Write stores value under the namespaced key. A write rejected for quota is
// reported to the warner and returns false with a nil error; the previous
// value stays in place.
func (adapter *Adapter) Write(key string, value string) (bool, error) {
	err := adapter.substrate.Put(adapter.prefix+key, value)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, db.ErrQuotaExceeded) {
		adapter.logger.WithFields(logrus.Fields{
			"key":   key,
			"bytes": len(value),
		}).Warn("storage quota exceeded, write abandoned")
		if adapter.warner != nil {
			adapter.warner.Warn(Warning{Code: WarningQuotaExceeded, Key: key})
		}
		return false, nil
	}
	return false, fmt.Errorf("write %s: %w", key, err)
}

func (adapter *Adapter) Read(key string) (string, bool, error) {
	value, found, err := adapter.substrate.Get(adapter.prefix + key)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, found, nil
}

// ScanKeys returns unprefixed keys starting with prefix. Order is unspecified.
func (adapter *Adapter) ScanKeys(prefix string) ([]string, error) {
	fullKeys, err := adapter.substrate.Keys(adapter.prefix + prefix)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(fullKeys))
	for _, fullKey := range fullKeys {
		keys = append(keys, strings.TrimPrefix(fullKey, adapter.prefix))
	}
	return keys, nil
}

func (adapter *Adapter) DeleteKey(key string) error {
	if err := adapter.substrate.Remove(adapter.prefix + key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// ClearNamespace removes every key owned by this adapter and nothing else.
func (adapter *Adapter) ClearNamespace() (int64, error) {
	removed, err := adapter.substrate.RemovePrefix(adapter.prefix)
	if err != nil {
		return 0, err
	}
	adapter.logger.WithField("keys", removed).Info("storage namespace cleared")
	return removed, nil
}

// replaceAll swaps the whole namespace for entries (unprefixed keys) in one
// substrate transaction.
func (adapter *Adapter) replaceAll(entries map[string]string) error {
	full := make(map[string]string, len(entries))
	for key, value := range entries {
		full[adapter.prefix+key] = value
	}
	return adapter.substrate.ReplacePrefix(adapter.prefix, full)
}

func (adapter *Adapter) entries() ([]models.StorageEntry, error) {
	entries, err := adapter.substrate.Entries(adapter.prefix)
	if err != nil {
		return nil, err
	}
	for index := range entries {
		entries[index].Key = strings.TrimPrefix(entries[index].Key, adapter.prefix)
	}
	return entries, nil
}
