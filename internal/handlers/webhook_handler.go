package handlers

import (
	"log/slog"

	"github.com/futurelab/intuto-connect/internal/purchase"
	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	purchaseService PurchaseService
}

func NewWebhookHandler(purchaseService PurchaseService) *WebhookHandler {
	return &WebhookHandler{
		purchaseService: purchaseService,
	}
}

// PostOrderCompleted receives the order-completed webhook from the commerce
// platform. Provisioning failures are logged, never surfaced as an error
// status: an Intuto failure must not cause the platform to retry or roll
// back the order.
func (h *WebhookHandler) PostOrderCompleted(ctx *fiber.Ctx) error {
	var order purchase.Order
	if err := ctx.BodyParser(&order); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse(fiber.StatusBadRequest, "invalid order payload"))
	}
	if order.ID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse(fiber.StatusBadRequest, "missing order id"))
	}

	enrolled := h.purchaseService.ProcessOrder(ctx.Context(), order)
	slog.Info("order processed", "orderID", order.ID, "items", len(order.Items), "enrolled", enrolled)

	return ctx.Status(fiber.StatusAccepted).JSON(dataResponse(fiber.Map{
		"orderID":  order.ID,
		"enrolled": enrolled,
	}))
}
