package models

import "time"

const (
	ThemeClassic = "classic"
	ThemeDark    = "dark"
	ThemeOcean   = "ocean"

	DefaultCurrency = "MAD"
)

type OwnerInterfaceFeatures struct {
	Enabled             bool `json:"enabled"`
	CanViewPayments     bool `json:"canViewPayments"`
	CanSubmitComplaints bool `json:"canSubmitComplaints"`
	CanEditProfile      bool `json:"canEditProfile"`
}

type BuildingFeatures struct {
	AutoReminders  bool                   `json:"autoReminders"`
	Notifications  bool                   `json:"notifications"`
	OwnerInterface OwnerInterfaceFeatures `json:"ownerInterface"`
}

type MessageTemplates struct {
	Reminder string `json:"reminder"`
	Receipt  string `json:"receipt"`
}

// BuildingInfo is the singleton configuration of the managed building.
type BuildingInfo struct {
	Name              string           `json:"name"`
	Address           string           `json:"address"`
	City              string           `json:"city"`
	Floors            int              `json:"floors"`
	UnitsPerFloor     int              `json:"unitsPerFloor"`
	DefaultMonthlyFee float64          `json:"defaultMonthlyFee"`
	Currency          string           `json:"currency"`
	Features          BuildingFeatures `json:"features"`
	AdminPasswordHash string           `json:"adminPasswordHash,omitempty"`
	SyndicPhone       string           `json:"syndicPhone"`
	MessageTemplates  MessageTemplates `json:"messageTemplates"`
	Theme             string           `json:"theme"`
	SetupCompleted    bool             `json:"setupCompleted"`
	CreatedAt         *time.Time       `json:"createdAt,omitempty"`
}

type Apartment struct {
	ID         string  `json:"id"`
	Number     string  `json:"number"`
	OwnerName  string  `json:"ownerName"`
	Shares     int     `json:"shares"`
	MonthlyFee float64 `json:"monthlyFee"`
	Floor      int     `json:"floor"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
}

func DefaultMessageTemplates() MessageTemplates {
	return MessageTemplates{
		Reminder: "Bonjour {owner}, la cotisation de {month} pour l'appartement {unit} ({amount}) reste à régler. Merci.",
		Receipt:  "Bonjour {owner}, nous confirmons la réception de {amount} pour {month}, appartement {unit}. Merci.",
	}
}
