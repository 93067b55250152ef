package models

import "time"

const (
	ReminderTypeManual = "manual"
	ReminderTypeAuto   = "auto"
	ReminderTypeBulk   = "bulk"
)

type ReminderLog struct {
	ID          string    `json:"id"`
	ApartmentID string    `json:"apartmentId"`
	Type        string    `json:"type"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	SentAt      time.Time `json:"sentAt"`
}
