package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/syndic/internal/db"
	"github.com/terraincognita07/syndic/internal/i18n"
	"github.com/terraincognita07/syndic/internal/localstore"
	"github.com/terraincognita07/syndic/internal/logging"
	"github.com/terraincognita07/syndic/internal/services"
)

const (
	testSecretKey     = "0123456789abcdef0123456789abcdef"
	testAdminPassword = "immeuble2024"
)

type testEnv struct {
	app        *fiber.App
	handler    *Handler
	reconciler *services.Reconciler
	warnings   *services.WarningLog
}

func newTestEnv(t *testing.T, capacityBytes int64) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "syndic.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	logger := logging.Discard()
	warnings := services.NewWarningLog(0, logger)
	adapter := localstore.NewAdapter(db.NewKVStore(database, capacityBytes), localstore.DefaultNamespace, warnings, logger)
	reconciler := services.NewReconciler(localstore.NewStore(adapter, logger), services.WithLogger(logger))
	if err := reconciler.Load(); err != nil {
		t.Fatalf("load state: %v", err)
	}

	manager, err := i18n.NewEmbeddedManager(i18n.LangFR)
	if err != nil {
		t.Fatalf("load locales: %v", err)
	}
	handler, err := NewHandler(HandlerConfig{
		Reconciler: reconciler,
		Warnings:   warnings,
		I18n:       manager,
		SecretKey:  testSecretKey,
		Location:   time.UTC,
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return &testEnv{app: app, handler: handler, reconciler: reconciler, warnings: warnings}
}

func (env *testEnv) request(t *testing.T, method string, path string, body any, cookie *http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	switch value := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(value)
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if reader != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if cookie != nil {
		request.AddCookie(cookie)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() { _ = response.Body.Close() })
	return response
}

func (env *testEnv) setup(t *testing.T, features map[string]any) *http.Cookie {
	t.Helper()

	building := map[string]any{
		"name":              "Résidence Atlas",
		"city":              "Casablanca",
		"floors":            2,
		"unitsPerFloor":     3,
		"defaultMonthlyFee": 250,
	}
	if features != nil {
		building["features"] = features
	}
	response := env.request(t, http.MethodPost, "/api/setup", map[string]any{
		"building":           building,
		"adminPassword":      testAdminPassword,
		"generateApartments": true,
	}, nil)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected setup status 201, got %d: %s", response.StatusCode, readBody(t, response))
	}
	cookie := responseCookie(response.Cookies(), authCookieName)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected auth cookie after setup")
	}
	return cookie
}

func readBody(t *testing.T, response *http.Response) []byte {
	t.Helper()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return body
}

func decodeBody[T any](t *testing.T, response *http.Response) T {
	t.Helper()
	var value T
	body := readBody(t, response)
	if err := json.Unmarshal(body, &value); err != nil {
		t.Fatalf("decode body %s: %v", body, err)
	}
	return value
}

type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields"`
}

type mutationBody[T any] struct {
	Data     T             `json:"data"`
	Warnings []warningView `json:"warnings"`
}

func expectError(t *testing.T, response *http.Response, status int, code string) errorBody {
	t.Helper()
	if response.StatusCode != status {
		t.Fatalf("expected status %d, got %d", status, response.StatusCode)
	}
	body := decodeBody[errorBody](t, response)
	if body.Error != code {
		t.Fatalf("expected error code %q, got %q", code, body.Error)
	}
	return body
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie != nil && cookie.Name == name {
			return cookie
		}
	}
	return nil
}
