package models

import "time"

const (
	ProfileRequestPending  = "pending"
	ProfileRequestApproved = "approved"
	ProfileRequestRejected = "rejected"

	ProfileFieldPhone = "phone"
)

// ProfileRequest is an owner-submitted change that waits for admin approval.
type ProfileRequest struct {
	ID             string     `json:"id"`
	ApartmentID    string     `json:"apartmentId"`
	Field          string     `json:"field"`
	CurrentValue   string     `json:"currentValue"`
	RequestedValue string     `json:"requestedValue"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
}
