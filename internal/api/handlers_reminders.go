package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) LogReminder(c *fiber.Ctx) error {
	payload := reminderPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	log, report, err := handler.reconciler.LogReminder(payload.ApartmentID, payload.Type, *payload.Month, payload.Year)
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusCreated, log, report)
}

// RunAutoReminders triggers the scheduled job by hand for the current month.
func (handler *Handler) RunAutoReminders(c *fiber.Ctx) error {
	month, year := handler.currentPeriod()
	logs, report, err := handler.reconciler.LogAutoReminders(month, year)
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, logs, report)
}

func (handler *Handler) ClearReminders(c *fiber.Ctx) error {
	report, err := handler.reconciler.ClearReminderLogs()
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, nil, report)
}

func (handler *Handler) ApproveProfileRequest(c *fiber.Ctx) error {
	request, report, err := handler.reconciler.ApproveProfileRequest(c.Params("id"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, request, report)
}

func (handler *Handler) RejectProfileRequest(c *fiber.Ctx) error {
	request, report, err := handler.reconciler.RejectProfileRequest(c.Params("id"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, request, report)
}

func (handler *Handler) DismissProfileRequest(c *fiber.Ctx) error {
	report, err := handler.reconciler.DismissProfileRequest(c.Params("id"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, nil, report)
}
