package api

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/syndic/internal/localstore"
	"github.com/terraincognita07/syndic/internal/services"
)

const (
	codeInvalidInput    = "invalid_input"
	codeUnauthorized    = "unauthorized"
	codeForbidden       = "forbidden"
	codeTooManyAttempts = "too_many_attempts"
	codeNotFound        = "not_found"
	codeInternal        = "internal"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{services.ErrSetupAlreadyCompleted, fiber.StatusConflict, "setup_already_completed"},
	{services.ErrSetupRequired, fiber.StatusConflict, "setup_required"},
	{services.ErrInvalidBuildingLayout, fiber.StatusBadRequest, "invalid_building_layout"},
	{services.ErrBuildingNameRequired, fiber.StatusBadRequest, "building_name_required"},
	{services.ErrInvalidAmount, fiber.StatusBadRequest, "invalid_amount"},
	{services.ErrInvalidTheme, fiber.StatusBadRequest, "invalid_theme"},
	{services.ErrApartmentNotFound, fiber.StatusNotFound, "apartment_not_found"},
	{services.ErrApartmentNumberRequired, fiber.StatusBadRequest, "apartment_number_required"},
	{services.ErrDuplicateApartmentNumber, fiber.StatusConflict, "duplicate_apartment_number"},
	{services.ErrInvalidPeriod, fiber.StatusBadRequest, "invalid_period"},
	{services.ErrExpenseNotFound, fiber.StatusNotFound, "expense_not_found"},
	{services.ErrInvalidExpenseDate, fiber.StatusBadRequest, "invalid_expense_date"},
	{services.ErrInvalidExpenseCategory, fiber.StatusBadRequest, "invalid_expense_category"},
	{services.ErrAssetNotFound, fiber.StatusNotFound, "asset_not_found"},
	{services.ErrAssetNameRequired, fiber.StatusBadRequest, "asset_name_required"},
	{services.ErrInvalidAssetKind, fiber.StatusBadRequest, "invalid_asset_kind"},
	{services.ErrAssetPaymentNotFound, fiber.StatusNotFound, "asset_payment_not_found"},
	{services.ErrAssetPaymentExists, fiber.StatusConflict, "asset_payment_exists"},
	{services.ErrProjectNotFound, fiber.StatusNotFound, "project_not_found"},
	{services.ErrComplaintNotFound, fiber.StatusNotFound, "complaint_not_found"},
	{services.ErrTitleRequired, fiber.StatusBadRequest, "title_required"},
	{services.ErrInvalidStatus, fiber.StatusBadRequest, "invalid_status"},
	{services.ErrInvalidPriority, fiber.StatusBadRequest, "invalid_priority"},
	{services.ErrInvalidReminderType, fiber.StatusBadRequest, "invalid_reminder_type"},
	{services.ErrProfileRequestNotFound, fiber.StatusNotFound, "profile_request_not_found"},
	{services.ErrProfileRequestPending, fiber.StatusConflict, "profile_request_pending"},
	{services.ErrProfileRequestNotPending, fiber.StatusConflict, "profile_request_not_pending"},
	{services.ErrProfileRequestUnresolved, fiber.StatusConflict, "profile_request_unresolved"},
	{services.ErrUnsupportedProfileField, fiber.StatusBadRequest, "unsupported_profile_field"},
	{services.ErrProfileValueRequired, fiber.StatusBadRequest, "profile_value_required"},
	{services.ErrProfileValueUnchanged, fiber.StatusBadRequest, "profile_value_unchanged"},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized, "invalid_credentials"},
	{services.ErrOwnerInterfaceDisabled, fiber.StatusForbidden, "owner_interface_disabled"},
	{services.ErrWeakPassword, fiber.StatusBadRequest, "weak_password"},
	{services.ErrStateNotLoaded, fiber.StatusServiceUnavailable, "state_not_loaded"},
	{localstore.ErrImportFormat, fiber.StatusBadRequest, "import_format"},
	{localstore.ErrQuotaExceeded, fiber.StatusInsufficientStorage, "quota_exceeded"},
}

func (handler *Handler) apiError(c *fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": handler.i18n.ErrorMessage(currentLanguage(c), code),
	})
}

// respondError maps a service error to its status and code. Unknown errors
// are logged and reported as internal.
func (handler *Handler) respondError(c *fiber.Ctx, err error) error {
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.err) {
			return handler.apiError(c, mapping.status, mapping.code)
		}
	}
	handler.logger.WithError(err).WithField("path", c.Path()).Error("request failed")
	return handler.apiError(c, fiber.StatusInternalServerError, codeInternal)
}

type warningView struct {
	Code    string `json:"code"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

func (handler *Handler) localizeWarnings(c *fiber.Ctx, warnings []localstore.Warning) []warningView {
	language := currentLanguage(c)
	views := make([]warningView, 0, len(warnings))
	for _, warning := range warnings {
		views = append(views, warningView{
			Code:    warning.Code,
			Key:     warning.Key,
			Message: handler.i18n.WarningMessage(language, warning.Code),
		})
	}
	return views
}

func (handler *Handler) respondMutation(c *fiber.Ctx, status int, data any, report services.WriteReport) error {
	payload := fiber.Map{"warnings": handler.localizeWarnings(c, report.Warnings)}
	if data != nil {
		payload["data"] = data
	}
	return c.Status(status).JSON(payload)
}

// parseBody decodes the JSON body and runs the validate tags. It writes the
// error response itself and reports whether the handler should go on.
func (handler *Handler) parseBody(c *fiber.Ctx, payload any) (bool, error) {
	if err := c.BodyParser(payload); err != nil {
		return false, handler.apiError(c, fiber.StatusBadRequest, codeInvalidInput)
	}
	if err := handler.validate.Struct(payload); err != nil {
		fields := []string{}
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fieldErr := range validationErrs {
				fields = append(fields, lowerFirst(fieldErr.Field()))
			}
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   codeInvalidInput,
			"message": handler.i18n.ErrorMessage(currentLanguage(c), codeInvalidInput),
			"fields":  fields,
		})
	}
	return true, nil
}

func lowerFirst(value string) string {
	if value == "" {
		return value
	}
	return strings.ToLower(value[:1]) + value[1:]
}
