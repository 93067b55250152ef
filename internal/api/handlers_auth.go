package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/syndic/internal/services"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) SetupStatus(c *fiber.Ctx) error {
	snapshot := handler.reconciler.Snapshot()
	return c.JSON(fiber.Map{
		"requiresSetup":  handler.reconciler.RequiresSetup(),
		"ownerInterface": snapshot.Building.Features.OwnerInterface.Enabled,
		"buildingName":   snapshot.Building.Name,
	})
}

// Setup completes the first launch and signs the admin in.
func (handler *Handler) Setup(c *fiber.Ctx) error {
	payload := setupPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}

	report, err := handler.reconciler.SetupBuilding(services.SetupInput{
		Info:               payload.Building.info(),
		AdminPassword:      payload.AdminPassword,
		GenerateApartments: payload.GenerateApartments,
	})
	if err != nil {
		return handler.respondError(c, err)
	}
	if err := handler.setAuthCookie(c, session{Role: services.RoleAdmin}); err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusCreated, redactedBuilding(handler.reconciler.Snapshot().Building), report)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	limiterKey := loginLimiterKey(c, services.RoleAdmin)
	now := handler.now()
	if handler.loginLimiter.blocked(limiterKey, now, loginAttemptLimit, loginAttemptWindow) {
		return handler.apiError(c, fiber.StatusTooManyRequests, codeTooManyAttempts)
	}

	payload := adminLoginPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}

	if err := handler.authService.AuthenticateAdmin(payload.Password); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			handler.loginLimiter.fail(limiterKey, now, loginAttemptWindow)
		}
		return handler.respondError(c, err)
	}
	handler.loginLimiter.forget(limiterKey)

	current := session{Role: services.RoleAdmin}
	if err := handler.setAuthCookie(c, current); err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(current)
}

func (handler *Handler) OwnerLogin(c *fiber.Ctx) error {
	limiterKey := loginLimiterKey(c, services.RoleOwner)
	now := handler.now()
	if handler.loginLimiter.blocked(limiterKey, now, loginAttemptLimit, loginAttemptWindow) {
		return handler.apiError(c, fiber.StatusTooManyRequests, codeTooManyAttempts)
	}

	payload := ownerLoginPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}

	apartment, err := handler.authService.AuthenticateOwner(payload.UnitNumber, payload.Phone)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			handler.loginLimiter.fail(limiterKey, now, loginAttemptWindow)
		}
		return handler.respondError(c, err)
	}
	handler.loginLimiter.forget(limiterKey)

	current := session{Role: services.RoleOwner, ApartmentID: apartment.ID}
	if err := handler.setAuthCookie(c, current); err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(current)
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Session(c *fiber.Ctx) error {
	current, _ := currentSession(c)
	return c.JSON(current)
}

// ChangePassword re-checks the current admin password before replacing it.
func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	payload := passwordChangePayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	if err := handler.authService.AuthenticateAdmin(payload.CurrentPassword); err != nil {
		return handler.respondError(c, err)
	}
	report, err := handler.reconciler.SetAdminPassword(payload.NewPassword)
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, nil, report)
}
