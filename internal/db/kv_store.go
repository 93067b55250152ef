package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/syndic/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrQuotaExceeded is returned when a write would push the stored bytes over capacity.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrEmptyPrefix   = errors.New("storage prefix must not be empty")
	ErrForeignKey    = errors.New("storage key outside prefix")
)

// KVStore is a string key/value table with a byte capacity, the server-side
// stand-in for browser local storage.
type KVStore struct {
	database      *gorm.DB
	capacityBytes int64
	now           func() time.Time
}

func NewKVStore(database *gorm.DB, capacityBytes int64) *KVStore {
	return &KVStore{
		database:      database,
		capacityBytes: capacityBytes,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (store *KVStore) CapacityBytes() int64 {
	return store.capacityBytes
}

func (store *KVStore) Get(key string) (string, bool, error) {
	entry := models.StorageEntry{}
	result := store.database.Where("storage_key = ?", key).Limit(1).Find(&entry)
	if result.Error != nil {
		return "", false, fmt.Errorf("read storage key %s: %w", key, result.Error)
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	return entry.Value, true, nil
}

// Put writes one key. Nothing is written when the capacity would be exceeded.
func (store *KVStore) Put(key string, value string) error {
	return store.database.Transaction(func(tx *gorm.DB) error {
		used, err := usedBytes(tx.Where("storage_key <> ?", key))
		if err != nil {
			return err
		}
		if store.exceedsCapacity(used + int64(len(value))) {
			return ErrQuotaExceeded
		}
		return upsertEntry(tx, key, value, store.now())
	})
}

func (store *KVStore) Remove(key string) error {
	if err := store.database.Where("storage_key = ?", key).Delete(&models.StorageEntry{}).Error; err != nil {
		return fmt.Errorf("delete storage key %s: %w", key, err)
	}
	return nil
}

// Keys lists every key starting with prefix, in no particular order.
func (store *KVStore) Keys(prefix string) ([]string, error) {
	keys := make([]string, 0)
	if err := withPrefix(store.database.Model(&models.StorageEntry{}), prefix).Pluck("storage_key", &keys).Error; err != nil {
		return nil, fmt.Errorf("scan storage keys: %w", err)
	}
	return keys, nil
}

// Entries lists key metadata under prefix without loading values.
func (store *KVStore) Entries(prefix string) ([]models.StorageEntry, error) {
	entries := make([]models.StorageEntry, 0)
	if err := withPrefix(store.database.Model(&models.StorageEntry{}), prefix).
		Select("storage_key", "size_bytes", "updated_at").
		Order("storage_key ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list storage entries: %w", err)
	}
	return entries, nil
}

func (store *KVStore) RemovePrefix(prefix string) (int64, error) {
	if prefix == "" {
		return 0, ErrEmptyPrefix
	}
	result := withPrefix(store.database, prefix).Delete(&models.StorageEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("clear storage prefix %s: %w", prefix, result.Error)
	}
	return result.RowsAffected, nil
}

func (store *KVStore) UsedBytes() (int64, error) {
	return usedBytes(store.database)
}

// ReplacePrefix swaps every key under prefix for entries in one transaction.
// Entry keys are full keys and must carry the prefix.
func (store *KVStore) ReplacePrefix(prefix string, entries map[string]string) error {
	if prefix == "" {
		return ErrEmptyPrefix
	}

	var incoming int64
	for key, value := range entries {
		if !strings.HasPrefix(key, prefix) {
			return fmt.Errorf("%w: %s", ErrForeignKey, key)
		}
		incoming += int64(len(value))
	}

	return store.database.Transaction(func(tx *gorm.DB) error {
		if err := withPrefix(tx, prefix).Delete(&models.StorageEntry{}).Error; err != nil {
			return fmt.Errorf("clear storage prefix %s: %w", prefix, err)
		}

		remaining, err := usedBytes(tx)
		if err != nil {
			return err
		}
		if store.exceedsCapacity(remaining + incoming) {
			return ErrQuotaExceeded
		}

		now := store.now()
		for key, value := range entries {
			if err := upsertEntry(tx, key, value, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (store *KVStore) exceedsCapacity(total int64) bool {
	return store.capacityBytes > 0 && total > store.capacityBytes
}

func withPrefix(query *gorm.DB, prefix string) *gorm.DB {
	if prefix == "" {
		return query
	}
	return query.Where("substr(storage_key, 1, ?) = ?", len(prefix), prefix)
}

func usedBytes(query *gorm.DB) (int64, error) {
	var total int64
	row := query.Model(&models.StorageEntry{}).Select("COALESCE(SUM(size_bytes), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("sum storage size: %w", err)
	}
	return total, nil
}

func upsertEntry(tx *gorm.DB, key string, value string, now time.Time) error {
	entry := models.StorageEntry{
		Key:       key,
		Value:     value,
		SizeBytes: int64(len(value)),
		UpdatedAt: now,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"storage_value", "size_bytes", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("write storage key %s: %w", key, err)
	}
	return nil
}
