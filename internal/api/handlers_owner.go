package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/syndic/internal/models"
	"github.com/terraincognita07/syndic/internal/services"
)

type ownerBuildingView struct {
	Name        string                        `json:"name"`
	Address     string                        `json:"address"`
	City        string                        `json:"city"`
	Currency    string                        `json:"currency"`
	SyndicPhone string                        `json:"syndicPhone"`
	Theme       string                        `json:"theme"`
	Permissions models.OwnerInterfaceFeatures `json:"permissions"`
}

type ownerOverview struct {
	Building        ownerBuildingView       `json:"building"`
	Apartment       models.Apartment        `json:"apartment"`
	Payments        []models.Payment        `json:"payments"`
	Complaints      []models.Complaint      `json:"complaints"`
	ProfileRequests []models.ProfileRequest `json:"profileRequests"`
}

// OwnerOverview returns only what belongs to the signed-in apartment.
// Payments are hidden unless the owner interface allows viewing them.
func (handler *Handler) OwnerOverview(c *fiber.Ctx) error {
	current, _ := currentSession(c)
	snapshot := handler.reconciler.Snapshot()
	permissions := snapshot.Building.Features.OwnerInterface

	overview := ownerOverview{
		Building: ownerBuildingView{
			Name:        snapshot.Building.Name,
			Address:     snapshot.Building.Address,
			City:        snapshot.Building.City,
			Currency:    snapshot.Building.Currency,
			SyndicPhone: snapshot.Building.SyndicPhone,
			Theme:       snapshot.Building.Theme,
			Permissions: permissions,
		},
		Payments:        []models.Payment{},
		Complaints:      []models.Complaint{},
		ProfileRequests: []models.ProfileRequest{},
	}
	for _, apartment := range snapshot.Apartments {
		if apartment.ID == current.ApartmentID {
			overview.Apartment = apartment
			break
		}
	}
	if permissions.CanViewPayments {
		for _, payment := range snapshot.Payments {
			if payment.ApartmentID == current.ApartmentID {
				overview.Payments = append(overview.Payments, payment)
			}
		}
	}
	for _, complaint := range snapshot.Complaints {
		if complaint.ApartmentID == current.ApartmentID {
			overview.Complaints = append(overview.Complaints, complaint)
		}
	}
	for _, request := range snapshot.ProfileRequests {
		if request.ApartmentID == current.ApartmentID {
			overview.ProfileRequests = append(overview.ProfileRequests, request)
		}
	}
	return c.JSON(overview)
}

// OwnerComplaint files a complaint for the owner's own apartment; the
// apartment and status from the body are ignored.
func (handler *Handler) OwnerComplaint(c *fiber.Ctx) error {
	if !handler.reconciler.Snapshot().Building.Features.OwnerInterface.CanSubmitComplaints {
		return handler.apiError(c, fiber.StatusForbidden, codeForbidden)
	}
	payload := complaintPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	current, _ := currentSession(c)
	payload.ApartmentID = current.ApartmentID
	payload.Status = models.ComplaintStatusOpen

	complaint, report, err := handler.reconciler.AddComplaint(payload.input(services.RoleOwner))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusCreated, complaint, report)
}

func (handler *Handler) OwnerProfileRequest(c *fiber.Ctx) error {
	if !handler.reconciler.Snapshot().Building.Features.OwnerInterface.CanEditProfile {
		return handler.apiError(c, fiber.StatusForbidden, codeForbidden)
	}
	payload := profileRequestPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	current, _ := currentSession(c)
	request, report, err := handler.reconciler.SubmitProfileRequest(current.ApartmentID, payload.Field, payload.Value)
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusCreated, request, report)
}
