package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/syndic/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrOwnerInterfaceDisabled = errors.New("owner interface disabled")
)

const (
	RoleAdmin = "admin"
	RoleOwner = "owner"
)

type AuthStateReader interface {
	Snapshot() AppState
}

type AuthService struct {
	state AuthStateReader
}

func NewAuthService(state AuthStateReader) *AuthService {
	return &AuthService{state: state}
}

func (service *AuthService) AuthenticateAdmin(password string) error {
	building := service.state.Snapshot().Building
	if !building.SetupCompleted {
		return ErrSetupRequired
	}
	hash := strings.TrimSpace(building.AdminPasswordHash)
	if hash == "" || password == "" {
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// AuthenticateOwner matches a unit number and the phone on file. Phone
// formatting (spaces, dashes, +212 prefix) is ignored.
func (service *AuthService) AuthenticateOwner(unitNumber string, phone string) (models.Apartment, error) {
	snapshot := service.state.Snapshot()
	if !snapshot.Building.SetupCompleted {
		return models.Apartment{}, ErrSetupRequired
	}
	if !snapshot.Building.Features.OwnerInterface.Enabled {
		return models.Apartment{}, ErrOwnerInterfaceDisabled
	}

	number := strings.TrimSpace(unitNumber)
	normalizedPhone := NormalizePhone(phone)
	if number == "" || normalizedPhone == "" {
		return models.Apartment{}, ErrInvalidCredentials
	}
	for _, apartment := range snapshot.Apartments {
		if strings.EqualFold(apartment.Number, number) && NormalizePhone(apartment.Phone) == normalizedPhone {
			return apartment, nil
		}
	}
	return models.Apartment{}, ErrInvalidCredentials
}

// NormalizePhone keeps digits only and rewrites the Moroccan country code to
// the national 0 prefix.
func NormalizePhone(raw string) string {
	var builder strings.Builder
	for _, char := range strings.TrimSpace(raw) {
		if char >= '0' && char <= '9' {
			builder.WriteRune(char)
		}
	}
	digits := builder.String()
	switch {
	case strings.HasPrefix(digits, "00212"):
		digits = "0" + strings.TrimPrefix(digits, "00212")
	case strings.HasPrefix(digits, "212") && len(digits) == 12:
		digits = "0" + strings.TrimPrefix(digits, "212")
	}
	return digits
}
