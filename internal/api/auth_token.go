package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/syndic/internal/services"
)

type authClaims struct {
	Role        string `json:"role"`
	ApartmentID string `json:"apartmentId,omitempty"`
	jwt.RegisteredClaims
}

func (handler *Handler) setAuthCookie(c *fiber.Ctx, current session) error {
	ttl := defaultAuthTokenTTL
	if current.Role == services.RoleOwner {
		ttl = ownerAuthTokenTTL
	}
	token, err := handler.buildToken(current, ttl)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().Add(ttl),
	})
	return nil
}

func (handler *Handler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

func (handler *Handler) buildToken(current session, ttl time.Duration) (string, error) {
	now := handler.now()
	subject := current.Role
	if current.ApartmentID != "" {
		subject = current.ApartmentID
	}
	claims := authClaims{
		Role:        current.Role,
		ApartmentID: current.ApartmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (session, error) {
	raw := strings.TrimSpace(c.Cookies(authCookieName))
	if raw == "" {
		return session{}, errors.New("missing auth cookie")
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, jwt.WithTimeFunc(handler.now))
	if err != nil || !token.Valid {
		return session{}, errors.New("invalid token")
	}
	if claims.ExpiresAt == nil {
		return session{}, errors.New("token without expiry")
	}

	switch claims.Role {
	case services.RoleAdmin:
		return session{Role: services.RoleAdmin}, nil
	case services.RoleOwner:
		if claims.ApartmentID == "" {
			return session{}, errors.New("owner token without apartment")
		}
		return session{Role: services.RoleOwner, ApartmentID: claims.ApartmentID}, nil
	default:
		return session{}, errors.New("unknown role")
	}
}
