package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/syndic/internal/localstore"
)

// MaxImportBytes bounds an uploaded backup. The server body limit must be
// at least this large.
const MaxImportBytes = 32 * 1024 * 1024

// ExportStorage streams the backup document as a download. It is encoded
// without HTML escaping so a re-import restores byte-identical values.
func (handler *Handler) ExportStorage(c *fiber.Ctx) error {
	document, err := handler.reconciler.ExportAll()
	if err != nil {
		return handler.respondError(c, err)
	}
	serialized, err := localstore.EncodeExportDocument(document)
	if err != nil {
		return handler.respondError(c, err)
	}

	filename := fmt.Sprintf("syndic-backup-%s.json", handler.now().In(handler.location).Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(serialized)
}

func (handler *Handler) ImportStorage(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) > MaxImportBytes {
		return handler.apiError(c, fiber.StatusRequestEntityTooLarge, codeInvalidInput)
	}
	document, err := localstore.ParseExportDocument(body)
	if err != nil {
		return handler.respondError(c, err)
	}
	if err := handler.reconciler.ImportAll(document); err != nil {
		return handler.respondError(c, err)
	}
	handler.logger.WithField("keys", len(document.Storage)).Info("backup imported")

	snapshot := handler.reconciler.Snapshot()
	snapshot.Building = redactedBuilding(snapshot.Building)
	return c.JSON(fiber.Map{"imported": len(document.Storage), "state": snapshot})
}

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	entries, err := handler.reconciler.ListEntries()
	if err != nil {
		return handler.respondError(c, err)
	}
	var total int64
	for _, entry := range entries {
		total += entry.SizeBytes
	}
	return c.JSON(fiber.Map{"entries": entries, "totalBytes": total})
}

// WipeStorage needs {"confirm": true} and signs the admin out afterwards,
// since the password hash is gone.
func (handler *Handler) WipeStorage(c *fiber.Ctx) error {
	payload := wipePayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	if !payload.Confirm {
		return handler.apiError(c, fiber.StatusBadRequest, codeInvalidInput)
	}
	removed, err := handler.reconciler.Wipe()
	if err != nil {
		return handler.respondError(c, err)
	}
	handler.warnings.Clear()
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"removed": removed})
}

func (handler *Handler) ListWarnings(c *fiber.Ctx) error {
	recent := handler.warnings.Recent()
	language := currentLanguage(c)
	views := make([]fiber.Map, 0, len(recent))
	for _, warning := range recent {
		views = append(views, fiber.Map{
			"code":    warning.Code,
			"key":     warning.Key,
			"at":      warning.At,
			"message": handler.i18n.WarningMessage(language, warning.Code),
		})
	}
	return c.JSON(fiber.Map{"warnings": views})
}

func (handler *Handler) ClearWarnings(c *fiber.Ctx) error {
	handler.warnings.Clear()
	return c.SendStatus(fiber.StatusNoContent)
}
