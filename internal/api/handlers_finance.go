package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) CreateExpense(c *fiber.Ctx) error {
	payload := expensePayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	expense, report, err := handler.reconciler.AddExpense(payload.input())
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusCreated, expense, report)
}

func (handler *Handler) UpdateExpense(c *fiber.Ctx) error {
	payload := expensePayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	expense, report, err := handler.reconciler.UpdateExpense(c.Params("id"), payload.input())
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, expense, report)
}

func (handler *Handler) DeleteExpense(c *fiber.Ctx) error {
	report, err := handler.reconciler.DeleteExpense(c.Params("id"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, nil, report)
}

func (handler *Handler) CreateAsset(c *fiber.Ctx) error {
	payload := assetPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	asset, report, err := handler.reconciler.AddAsset(payload.asset())
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusCreated, asset, report)
}

func (handler *Handler) UpdateAsset(c *fiber.Ctx) error {
	payload := assetPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	asset, report, err := handler.reconciler.UpdateAsset(c.Params("id"), payload.asset())
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, asset, report)
}

func (handler *Handler) DeleteAsset(c *fiber.Ctx) error {
	report, err := handler.reconciler.DeleteAsset(c.Params("id"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, nil, report)
}

// CreateAssetPayment records one month of asset income. A missing amount
// means the asset's monthly amount.
func (handler *Handler) CreateAssetPayment(c *fiber.Ctx) error {
	payload := assetPaymentPayload{}
	if ok, err := handler.parseBody(c, &payload); !ok {
		return err
	}
	payment, report, err := handler.reconciler.AddAssetPayment(payload.AssetID, *payload.Month, payload.Year, payload.Amount)
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusCreated, payment, report)
}

func (handler *Handler) DeleteAssetPayment(c *fiber.Ctx) error {
	report, err := handler.reconciler.DeleteAssetPayment(c.Params("id"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondMutation(c, fiber.StatusOK, nil, report)
}
