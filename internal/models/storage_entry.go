package models

import "time"

type StorageEntry struct {
	Key       string    `gorm:"column:storage_key;primaryKey"`
	Value     string    `gorm:"column:storage_value;not null"`
	SizeBytes int64     `gorm:"column:size_bytes;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}
