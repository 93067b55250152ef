package api

import (
	"net/http"
	"testing"

	"github.com/terraincognita07/syndic/internal/models"
)

func ownerFeatures(canViewPayments bool) map[string]any {
	return map[string]any{
		"ownerInterface": map[string]any{
			"enabled":             true,
			"canViewPayments":     canViewPayments,
			"canSubmitComplaints": true,
			"canEditProfile":      true,
		},
	}
}

// ownerSession gives apartment index a phone and signs its owner in.
func (env *testEnv) ownerSession(t *testing.T, adminCookie *http.Cookie, index int, phone string) (*http.Cookie, models.Apartment) {
	t.Helper()

	apartment := env.reconciler.Snapshot().Apartments[index]
	response := env.request(t, http.MethodPut, "/api/apartments/"+apartment.ID, map[string]any{
		"number":     apartment.Number,
		"ownerName":  "Propriétaire " + apartment.Number,
		"shares":     apartment.Shares,
		"monthlyFee": apartment.MonthlyFee,
		"floor":      apartment.Floor,
		"phone":      phone,
	}, adminCookie)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected apartment update status 200, got %d", response.StatusCode)
	}

	response = env.request(t, http.MethodPost, "/api/auth/owner-login", map[string]any{
		"unitNumber": apartment.Number,
		"phone":      phone,
	}, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected owner login status 200, got %d: %s", response.StatusCode, readBody(t, response))
	}
	cookie := responseCookie(response.Cookies(), authCookieName)
	if cookie == nil {
		t.Fatal("expected owner auth cookie")
	}
	return cookie, apartment
}

func TestOwnerOverviewIsScopedToOwnApartment(t *testing.T) {
	env := newTestEnv(t, 0)
	admin := env.setup(t, ownerFeatures(true))
	apartments := env.reconciler.Snapshot().Apartments

	for _, apartment := range apartments[:2] {
		env.request(t, http.MethodPost, "/api/payments/toggle", map[string]any{"apartmentId": apartment.ID, "month": 0, "year": 2025}, admin)
	}

	ownerCookie, own := env.ownerSession(t, admin, 1, "06 12 34 56 78")

	overview := decodeBody[ownerOverview](t, env.request(t, http.MethodGet, "/api/owner/overview", nil, ownerCookie))
	if overview.Apartment.ID != own.ID {
		t.Fatalf("expected own apartment %s, got %s", own.ID, overview.Apartment.ID)
	}
	if len(overview.Payments) != 1 || overview.Payments[0].ApartmentID != own.ID {
		t.Fatalf("expected only own payment, got %#v", overview.Payments)
	}
	if overview.Building.Name != "Résidence Atlas" {
		t.Fatalf("expected building name in overview, got %q", overview.Building.Name)
	}
}

func TestOwnerCannotReachAdminRoutes(t *testing.T) {
	env := newTestEnv(t, 0)
	admin := env.setup(t, ownerFeatures(true))
	ownerCookie, _ := env.ownerSession(t, admin, 0, "0612345678")

	expectError(t, env.request(t, http.MethodGet, "/api/state", nil, ownerCookie), http.StatusForbidden, "forbidden")
	expectError(t, env.request(t, http.MethodGet, "/api/storage/export", nil, ownerCookie), http.StatusForbidden, "forbidden")
	expectError(t, env.request(t, http.MethodPost, "/api/payments/toggle",
		map[string]any{"apartmentId": "x", "month": 0, "year": 2025}, ownerCookie), http.StatusForbidden, "forbidden")

	expectError(t, env.request(t, http.MethodGet, "/api/owner/overview", nil, admin), http.StatusForbidden, "forbidden")
}

func TestOwnerPaymentsHiddenWithoutPermission(t *testing.T) {
	env := newTestEnv(t, 0)
	admin := env.setup(t, ownerFeatures(false))
	apartment := env.reconciler.Snapshot().Apartments[0]
	env.request(t, http.MethodPost, "/api/payments/toggle", map[string]any{"apartmentId": apartment.ID, "month": 0, "year": 2025}, admin)

	ownerCookie, _ := env.ownerSession(t, admin, 0, "0612345678")
	overview := decodeBody[ownerOverview](t, env.request(t, http.MethodGet, "/api/owner/overview", nil, ownerCookie))
	if len(overview.Payments) != 0 {
		t.Fatalf("expected payments to be hidden, got %d", len(overview.Payments))
	}
}

func TestOwnerComplaintIsFiledForOwnApartment(t *testing.T) {
	env := newTestEnv(t, 0)
	admin := env.setup(t, ownerFeatures(true))
	ownerCookie, own := env.ownerSession(t, admin, 2, "0677889900")
	other := env.reconciler.Snapshot().Apartments[0]

	created := decodeBody[mutationBody[models.Complaint]](t, env.request(t, http.MethodPost, "/api/owner/complaints", map[string]any{
		"apartmentId": other.ID,
		"title":       "Ascenseur en panne",
		"status":      models.ComplaintStatusResolved,
	}, ownerCookie))
	if created.Data.ApartmentID != own.ID {
		t.Fatalf("expected complaint on own apartment %s, got %s", own.ID, created.Data.ApartmentID)
	}
	if created.Data.Status != models.ComplaintStatusOpen || created.Data.CreatedBy != "owner" {
		t.Fatalf("expected open complaint created by owner, got %#v", created.Data)
	}
}

func TestOwnerProfileRequestApprovedByAdmin(t *testing.T) {
	env := newTestEnv(t, 0)
	admin := env.setup(t, ownerFeatures(true))
	ownerCookie, own := env.ownerSession(t, admin, 0, "0612345678")

	request := decodeBody[mutationBody[models.ProfileRequest]](t, env.request(t, http.MethodPost, "/api/owner/profile-requests", map[string]any{
		"field": models.ProfileFieldPhone,
		"value": "0700000000",
	}, ownerCookie))
	if request.Data.Status != models.ProfileRequestPending {
		t.Fatalf("expected pending request, got %q", request.Data.Status)
	}

	expectError(t, env.request(t, http.MethodDelete, "/api/profile-requests/"+request.Data.ID, nil, admin),
		http.StatusConflict, "profile_request_unresolved")

	response := env.request(t, http.MethodPost, "/api/profile-requests/"+request.Data.ID+"/approve", nil, admin)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected approve status 200, got %d", response.StatusCode)
	}
	for _, apartment := range env.reconciler.Snapshot().Apartments {
		if apartment.ID == own.ID && apartment.Phone != "0700000000" {
			t.Fatalf("expected approved phone, got %q", apartment.Phone)
		}
	}

	// The old phone no longer signs in.
	expectError(t, env.request(t, http.MethodPost, "/api/auth/owner-login", map[string]any{
		"unitNumber": own.Number,
		"phone":      "0612345678",
	}, nil), http.StatusUnauthorized, "invalid_credentials")
}

func TestOwnerLoginRejectedWhenInterfaceDisabled(t *testing.T) {
	env := newTestEnv(t, 0)
	env.setup(t, nil)

	expectError(t, env.request(t, http.MethodPost, "/api/auth/owner-login", map[string]any{
		"unitNumber": "A1",
		"phone":      "0612345678",
	}, nil), http.StatusForbidden, "owner_interface_disabled")
}

func TestOwnerSessionEndsWhenApartmentDeleted(t *testing.T) {
	env := newTestEnv(t, 0)
	admin := env.setup(t, ownerFeatures(true))
	ownerCookie, own := env.ownerSession(t, admin, 0, "0612345678")

	env.request(t, http.MethodDelete, "/api/apartments/"+own.ID, nil, admin)
	expectError(t, env.request(t, http.MethodGet, "/api/owner/overview", nil, ownerCookie), http.StatusUnauthorized, "unauthorized")
}
