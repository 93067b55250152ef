package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Use(handler.LanguageMiddleware)
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)

	registerAuthRoutes(app, handler)
	registerAdminRoutes(app, handler)
	registerOwnerRoutes(app, handler)

	app.Use(func(c *fiber.Ctx) error {
		return handler.apiError(c, fiber.StatusNotFound, codeNotFound)
	})
}

func registerAuthRoutes(app *fiber.App, handler *Handler) {
	app.Post("/api/setup", handler.Setup)

	auth := app.Group("/api/auth")
	auth.Get("/setup-status", handler.SetupStatus)
	auth.Post("/login", handler.Login)
	auth.Post("/owner-login", handler.OwnerLogin)
	auth.Post("/logout", handler.Logout)
	auth.Get("/session", handler.AuthRequired, handler.Session)
}

// Each admin resource gets its own group so the guards never leak onto
// /api/owner.
func registerAdminRoutes(app *fiber.App, handler *Handler) {
	admin := []fiber.Handler{handler.AuthRequired, handler.AdminOnly}

	app.Get("/api/state", handler.AuthRequired, handler.AdminOnly, handler.GetState)

	building := app.Group("/api/building", admin...)
	building.Get("", handler.GetBuilding)
	building.Put("", handler.UpdateBuilding)
	building.Post("/password", handler.ChangePassword)

	apartments := app.Group("/api/apartments", admin...)
	apartments.Get("", handler.ListApartments)
	apartments.Post("", handler.CreateApartment)
	apartments.Put("/:id", handler.UpdateApartment)
	apartments.Delete("/:id", handler.DeleteApartment)

	payments := app.Group("/api/payments", admin...)
	payments.Post("/toggle", handler.TogglePayment)

	expenses := app.Group("/api/expenses", admin...)
	expenses.Post("", handler.CreateExpense)
	expenses.Put("/:id", handler.UpdateExpense)
	expenses.Delete("/:id", handler.DeleteExpense)

	assets := app.Group("/api/assets", admin...)
	assets.Post("", handler.CreateAsset)
	assets.Put("/:id", handler.UpdateAsset)
	assets.Delete("/:id", handler.DeleteAsset)

	assetPayments := app.Group("/api/asset-payments", admin...)
	assetPayments.Post("", handler.CreateAssetPayment)
	assetPayments.Delete("/:id", handler.DeleteAssetPayment)

	projects := app.Group("/api/projects", admin...)
	projects.Post("", handler.CreateProject)
	projects.Put("/:id", handler.UpdateProject)
	projects.Delete("/:id", handler.DeleteProject)

	complaints := app.Group("/api/complaints", admin...)
	complaints.Post("", handler.CreateComplaint)
	complaints.Put("/:id", handler.UpdateComplaint)
	complaints.Delete("/:id", handler.DeleteComplaint)

	reminders := app.Group("/api/reminders", admin...)
	reminders.Post("", handler.LogReminder)
	reminders.Post("/auto", handler.RunAutoReminders)
	reminders.Delete("", handler.ClearReminders)

	profileRequests := app.Group("/api/profile-requests", admin...)
	profileRequests.Post("/:id/approve", handler.ApproveProfileRequest)
	profileRequests.Post("/:id/reject", handler.RejectProfileRequest)
	profileRequests.Delete("/:id", handler.DismissProfileRequest)

	reports := app.Group("/api/reports", admin...)
	reports.Get("/year/:year", handler.YearReport)
	reports.Get("/unpaid", handler.UnpaidReport)

	storage := app.Group("/api/storage", admin...)
	storage.Get("/export", handler.ExportStorage)
	storage.Post("/import", handler.ImportStorage)
	storage.Get("/entries", handler.ListEntries)
	storage.Post("/wipe", handler.WipeStorage)

	warnings := app.Group("/api/warnings", admin...)
	warnings.Get("", handler.ListWarnings)
	warnings.Delete("", handler.ClearWarnings)
}

func registerOwnerRoutes(app *fiber.App, handler *Handler) {
	owner := app.Group("/api/owner", handler.AuthRequired, handler.OwnerScoped)
	owner.Get("/overview", handler.OwnerOverview)
	owner.Post("/complaints", handler.OwnerComplaint)
	owner.Post("/profile-requests", handler.OwnerProfileRequest)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
