package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/syndic/internal/models"
)

func redactedBuilding(building models.BuildingInfo) models.BuildingInfo {
	building.AdminPasswordHash = ""
	return building
}

// GetState returns the whole snapshot for the admin console.
func (handler *Handler) GetState(c *fiber.Ctx) error {
	snapshot := handler.reconciler.Snapshot()
	snapshot.Building = redactedBuilding(snapshot.Building)
	return c.JSON(fiber.Map{
		"state":         snapshot,
		"requiresSetup": handler.reconciler.RequiresSetup(),
	})
}

func (handler *Handler) GetBuilding(c *fiber.Ctx) error {
	return c.JSON(redactedBuilding(handler.reconciler.Snapshot().Building))
}

func (handler *Handler) UpdateBuilding(c *fiber.Ctx) error {
	payload := buildingPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	building, report, err := handler.reconciler.UpdateBuildingInfo(payload.info())
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, redactedBuilding(building), report)
}

func (handler *Handler) ListApartments(c *fiber.Ctx) error {
	return c.JSON(handler.reconciler.Snapshot().Apartments)
}

func (handler *Handler) CreateApartment(c *fiber.Ctx) error {
	payload := apartmentPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	apartment, report, err := handler.reconciler.AddApartment(payload.input())
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusCreated, apartment, report)
}

func (handler *Handler) UpdateApartment(c *fiber.Ctx) error {
	payload := apartmentPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	apartment, report, err := handler.reconciler.UpdateApartment(c.Params("id"), payload.input())
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, apartment, report)
}

func (handler *Handler) DeleteApartment(c *fiber.Ctx) error {
	report, err := handler.reconciler.DeleteApartment(c.Params("id"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, nil, report)
}

func (handler *Handler) TogglePayment(c *fiber.Ctx) error {
	payload := paymentTogglePayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	result, report, err := handler.reconciler.TogglePayment(payload.ApartmentID, *payload.Month, payload.Year)
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, result, report)
}
