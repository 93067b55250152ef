package models

const (
	AssetKindAntenna     = "antenna"
	AssetKindRental      = "rental"
	AssetKindAdvertising = "advertising"
	AssetKindOther       = "other"
)

// BuildingAsset is a recurring external income source of the building.
type BuildingAsset struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Kind          string  `json:"kind"`
	Tenant        string  `json:"tenant"`
	MonthlyAmount float64 `json:"monthlyAmount"`
	Active        bool    `json:"active"`
	Notes         string  `json:"notes,omitempty"`
}

type AssetPayment struct {
	ID       string  `json:"id"`
	AssetID  string  `json:"assetId"`
	Month    int     `json:"month"`
	Year     int     `json:"year"`
	Amount   float64 `json:"amount"`
	PaidDate string  `json:"paidDate"`
}
