package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/syndic/internal/services"
)

func (handler *Handler) CreateProject(c *fiber.Ctx) error {
	payload := projectPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	project, report, err := handler.reconciler.AddProject(payload.input(services.RoleAdmin))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusCreated, project, report)
}

func (handler *Handler) UpdateProject(c *fiber.Ctx) error {
	payload := projectPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	project, report, err := handler.reconciler.UpdateProject(c.Params("id"), payload.input(services.RoleAdmin))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, project, report)
}

func (handler *Handler) DeleteProject(c *fiber.Ctx) error {
	report, err := handler.reconciler.DeleteProject(c.Params("id"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, nil, report)
}

func (handler *Handler) CreateComplaint(c *fiber.Ctx) error {
	payload := complaintPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	complaint, report, err := handler.reconciler.AddComplaint(payload.input(services.RoleAdmin))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusCreated, complaint, report)
}

func (handler *Handler) UpdateComplaint(c *fiber.Ctx) error {
	payload := complaintPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	complaint, report, err := handler.reconciler.UpdateComplaint(c.Params("id"), payload.input(services.RoleAdmin))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, complaint, report)
}

func (handler *Handler) DeleteComplaint(c *fiber.Ctx) error {
	report, err := handler.reconciler.DeleteComplaint(c.Params("id"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, nil, report)
}
