package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/syndic/internal/services"
)

func (handler *Handler) YearReport(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil || year < 1900 || year > 9999 {
		return handler.respondError(c, services.ErrInvalidPeriod)
	}
	return c.JSON(handler.reports.YearSummary(handler.reconciler.Snapshot(), year))
}

// UnpaidReport defaults to the current month when month or year is omitted.
func (handler *Handler) UnpaidReport(c *fiber.Ctx) error {
	month, year := handler.currentPeriod()
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 11 {
			return handler.respondError(c, services.ErrInvalidPeriod)
		}
		month = parsed
	}
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1900 || parsed > 9999 {
			return handler.respondError(c, services.ErrInvalidPeriod)
		}
		year = parsed
	}
	return c.JSON(fiber.Map{
		"month":      month,
		"year":       year,
		"apartments": handler.reports.UnpaidApartments(handler.reconciler.Snapshot(), month, year),
	})
}
