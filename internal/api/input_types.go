package api

import (
	"github.com/terraincognita07/syndic/internal/models"
	"github.com/terraincognita07/syndic/internal/services"
)

type buildingPayload struct {
	Name              string                  `json:"name" validate:"required,max=120"`
	Address           string                  `json:"address" validate:"max=240"`
	City              string                  `json:"city" validate:"max=120"`
	Floors            int                     `json:"floors" validate:"min=1,max=200"`
	UnitsPerFloor     int                     `json:"unitsPerFloor" validate:"min=1,max=100"`
	DefaultMonthlyFee float64                 `json:"defaultMonthlyFee" validate:"min=0"`
	Currency          string                  `json:"currency" validate:"omitempty,len=3"`
	Features          models.BuildingFeatures `json:"features"`
	SyndicPhone       string                  `json:"syndicPhone" validate:"max=32"`
	MessageTemplates  models.MessageTemplates `json:"messageTemplates"`
	Theme             string                  `json:"theme"`
}

func (payload buildingPayload) info() models.BuildingInfo {
	return models.BuildingInfo{
		Name:              payload.Name,
		Address:           payload.Address,
		City:              payload.City,
		Floors:            payload.Floors,
		UnitsPerFloor:     payload.UnitsPerFloor,
		DefaultMonthlyFee: payload.DefaultMonthlyFee,
		Currency:          payload.Currency,
		Features:          payload.Features,
		SyndicPhone:       payload.SyndicPhone,
		MessageTemplates:  payload.MessageTemplates,
		Theme:             payload.Theme,
	}
}

type setupPayload struct {
	Building           buildingPayload `json:"building"`
	AdminPassword      string          `json:"adminPassword" validate:"required"`
	GenerateApartments bool            `json:"generateApartments"`
}

type adminLoginPayload struct {
	Password string `json:"password" validate:"required"`
}

type ownerLoginPayload struct {
	UnitNumber string `json:"unitNumber" validate:"required,max=16"`
	Phone      string `json:"phone" validate:"required,max=32"`
}

type passwordChangePayload struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type apartmentPayload struct {
	Number     string   `json:"number" validate:"required,max=16"`
	OwnerName  string   `json:"ownerName" validate:"max=120"`
	Shares     int      `json:"shares" validate:"min=0"`
	MonthlyFee *float64 `json:"monthlyFee" validate:"omitempty,min=0"`
	Floor      int      `json:"floor" validate:"min=0"`
	Phone      string   `json:"phone" validate:"max=32"`
	Email      string   `json:"email" validate:"omitempty,email"`
}

func (payload apartmentPayload) input() services.ApartmentInput {
	return services.ApartmentInput{
		Number:     payload.Number,
		OwnerName:  payload.OwnerName,
		Shares:     payload.Shares,
		MonthlyFee: payload.MonthlyFee,
		Floor:      payload.Floor,
		Phone:      payload.Phone,
		Email:      payload.Email,
	}
}

type periodPayload struct {
	Month *int `json:"month" validate:"required,min=0,max=11"`
	Year  int  `json:"year" validate:"required,min=1900,max=9999"`
}

type paymentTogglePayload struct {
	ApartmentID string `json:"apartmentId" validate:"required"`
	periodPayload
}

type expensePayload struct {
	Date                string  `json:"date" validate:"required"`
	Category            string  `json:"category" validate:"required"`
	Description         string  `json:"description" validate:"max=500"`
	Amount              float64 `json:"amount" validate:"min=0"`
	ExcludedFromReports bool    `json:"excludedFromReports"`
}

func (payload expensePayload) input() services.ExpenseInput {
	return services.ExpenseInput{
		Date:                payload.Date,
		Category:            payload.Category,
		Description:         payload.Description,
		Amount:              payload.Amount,
		ExcludedFromReports: payload.ExcludedFromReports,
	}
}

type assetPayload struct {
	Name          string  `json:"name" validate:"required,max=120"`
	Kind          string  `json:"kind" validate:"required"`
	Tenant        string  `json:"tenant" validate:"max=120"`
	MonthlyAmount float64 `json:"monthlyAmount" validate:"min=0"`
	Active        bool    `json:"active"`
	Notes         string  `json:"notes" validate:"max=500"`
}

func (payload assetPayload) asset() models.BuildingAsset {
	return models.BuildingAsset{
		Name:          payload.Name,
		Kind:          payload.Kind,
		Tenant:        payload.Tenant,
		MonthlyAmount: payload.MonthlyAmount,
		Active:        payload.Active,
		Notes:         payload.Notes,
	}
}

type assetPaymentPayload struct {
	AssetID string   `json:"assetId" validate:"required"`
	Amount  *float64 `json:"amount" validate:"omitempty,min=0"`
	periodPayload
}

type attachmentPayload struct {
	Name     string `json:"name" validate:"required,max=200"`
	MimeType string `json:"mimeType" validate:"max=100"`
	Data     string `json:"data" validate:"required,base64"`
}

func attachmentsFrom(payloads []attachmentPayload) []models.Attachment {
	attachments := make([]models.Attachment, 0, len(payloads))
	for _, payload := range payloads {
		attachments = append(attachments, models.Attachment{
			Name:     payload.Name,
			MimeType: payload.MimeType,
			Data:     payload.Data,
		})
	}
	return attachments
}

type projectPayload struct {
	Title       string              `json:"title" validate:"required,max=200"`
	Description string              `json:"description" validate:"max=4000"`
	Status      string              `json:"status"`
	Priority    string              `json:"priority"`
	Budget      float64             `json:"budget" validate:"min=0"`
	Attachments []attachmentPayload `json:"attachments" validate:"max=10,dive"`
}

func (payload projectPayload) input(createdBy string) services.ProjectInput {
	return services.ProjectInput{
		Title:       payload.Title,
		Description: payload.Description,
		Status:      payload.Status,
		Priority:    payload.Priority,
		Budget:      payload.Budget,
		Attachments: attachmentsFrom(payload.Attachments),
		CreatedBy:   createdBy,
	}
}

type complaintPayload struct {
	ApartmentID string              `json:"apartmentId"`
	Title       string              `json:"title" validate:"required,max=200"`
	Description string              `json:"description" validate:"max=4000"`
	Status      string              `json:"status"`
	Priority    string              `json:"priority"`
	Attachments []attachmentPayload `json:"attachments" validate:"max=10,dive"`
}

func (payload complaintPayload) input(createdBy string) services.ComplaintInput {
	return services.ComplaintInput{
		ApartmentID: payload.ApartmentID,
		Title:       payload.Title,
		Description: payload.Description,
		Status:      payload.Status,
		Priority:    payload.Priority,
		Attachments: attachmentsFrom(payload.Attachments),
		CreatedBy:   createdBy,
	}
}

type reminderPayload struct {
	ApartmentID string `json:"apartmentId" validate:"required"`
	Type        string `json:"type" validate:"required"`
	periodPayload
}

type profileRequestPayload struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value" validate:"required,max=120"`
}

type wipePayload struct {
	Confirm bool `json:"confirm"`
}
