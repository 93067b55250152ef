package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/syndic/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type stubStateReader struct {
	state AppState
}

func (stub *stubStateReader) Snapshot() AppState {
	return stub.state
}

func authTestState(t *testing.T) *stubStateReader {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("syndic2024"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &stubStateReader{state: AppState{
		Building: models.BuildingInfo{
			Name:              "Atlas",
			SetupCompleted:    true,
			AdminPasswordHash: string(hash),
			Features: models.BuildingFeatures{
				OwnerInterface: models.OwnerInterfaceFeatures{Enabled: true},
			},
		},
		Apartments: []models.Apartment{
			{ID: "a1", Number: "A1", Phone: "06 12 34 56 78"},
		},
	}}
}

func TestAuthenticateAdmin(t *testing.T) {
	service := NewAuthService(authTestState(t))

	if err := service.AuthenticateAdmin("syndic2024"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
	if err := service.AuthenticateAdmin("wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := service.AuthenticateAdmin(""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}

func TestAuthenticateAdminRequiresSetup(t *testing.T) {
	service := NewAuthService(&stubStateReader{})

	if err := service.AuthenticateAdmin("anything1"); !errors.Is(err, ErrSetupRequired) {
		t.Fatalf("expected ErrSetupRequired, got %v", err)
	}
}

func TestAuthenticateOwnerNormalizesPhone(t *testing.T) {
	service := NewAuthService(authTestState(t))

	for _, phone := range []string{"0612345678", "+212 6 12 34 56 78", "00212612345678"} {
		apartment, err := service.AuthenticateOwner("a1", phone)
		if err != nil {
			t.Fatalf("AuthenticateOwner(%q): %v", phone, err)
		}
		if apartment.ID != "a1" {
			t.Fatalf("unexpected apartment %+v", apartment)
		}
	}
	if _, err := service.AuthenticateOwner("A1", "0600000000"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateOwnerRequiresOwnerInterface(t *testing.T) {
	reader := authTestState(t)
	reader.state.Building.Features.OwnerInterface.Enabled = false
	service := NewAuthService(reader)

	if _, err := service.AuthenticateOwner("A1", "0612345678"); !errors.Is(err, ErrOwnerInterfaceDisabled) {
		t.Fatalf("expected ErrOwnerInterfaceDisabled, got %v", err)
	}
}
