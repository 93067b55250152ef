package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/syndic/internal/services"
)

const (
	authCookieName     = "syndic_auth"
	languageCookieName = "syndic_lang"
	contextSessionKey  = "current_session"
	contextLanguageKey = "current_language"
)

type session struct {
	Role        string `json:"role"`
	ApartmentID string `json:"apartmentId,omitempty"`
}

func (s session) isAdmin() bool {
	return s.Role == services.RoleAdmin
}

func currentSession(c *fiber.Ctx) (session, bool) {
	value, ok := c.Locals(contextSessionKey).(session)
	return value, ok
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return language
}

func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	cookieLanguage := c.Cookies(languageCookieName)
	language := handler.i18n.DetectFromAcceptLanguage(c.Get("Accept-Language"))
	if cookieLanguage != "" {
		language = handler.i18n.NormalizeLanguage(cookieLanguage)
	}
	c.Locals(contextLanguageKey, language)
	return c.Next()
}

func (handler *Handler) SetLanguage(c *fiber.Ctx) error {
	language := handler.i18n.NormalizeLanguage(c.Params("lang"))
	c.Cookie(&fiber.Cookie{
		Name:     languageCookieName,
		Value:    language,
		Path:     "/",
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().AddDate(1, 0, 0),
	})
	return c.JSON(fiber.Map{"language": language})
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	current, err := handler.authenticateRequest(c)
	if err != nil {
		handler.clearAuthCookie(c)
		return handler.apiError(c, fiber.StatusUnauthorized, codeUnauthorized)
	}
	c.Locals(contextSessionKey, current)
	return c.Next()
}

func (handler *Handler) AdminOnly(c *fiber.Ctx) error {
	current, ok := currentSession(c)
	if !ok || !current.isAdmin() {
		return handler.apiError(c, fiber.StatusForbidden, codeForbidden)
	}
	return c.Next()
}

// OwnerScoped admits owner sessions whose apartment still exists while the
// owner interface is enabled.
func (handler *Handler) OwnerScoped(c *fiber.Ctx) error {
	current, ok := currentSession(c)
	if !ok || current.Role != services.RoleOwner || current.ApartmentID == "" {
		return handler.apiError(c, fiber.StatusForbidden, codeForbidden)
	}
	snapshot := handler.reconciler.Snapshot()
	if !snapshot.Building.Features.OwnerInterface.Enabled {
		return handler.respondError(c, services.ErrOwnerInterfaceDisabled)
	}
	for _, apartment := range snapshot.Apartments {
		if apartment.ID == current.ApartmentID {
			return c.Next()
		}
	}
	handler.clearAuthCookie(c)
	return handler.apiError(c, fiber.StatusUnauthorized, codeUnauthorized)
}
