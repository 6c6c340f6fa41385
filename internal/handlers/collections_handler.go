package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type CollectionsHandler struct {
	collectionsService CollectionsService
}

func NewCollectionsHandler(collectionsService CollectionsService) *CollectionsHandler {
	return &CollectionsHandler{
		collectionsService: collectionsService,
	}
}

// GetCollections serves the cached collection snapshot for the product admin
// UI. It never hits the remote API.
func (h *CollectionsHandler) GetCollections(ctx *fiber.Ctx) error {
	cached, syncedAt, err := h.collectionsService.Cached(ctx.Context())
	if err != nil {
		slog.Error("failed to read collection cache", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorResponse(fiber.StatusInternalServerError, "could not read collection cache"))
	}
	return ctx.JSON(dataResponse(fiber.Map{
		"collections": cached,
		"lastSync":    syncedAt,
	}))
}

// GetSearchCollections queries the remote collection set by name, for the
// product admin picker when the cached snapshot is too coarse.
func (h *CollectionsHandler) GetSearchCollections(ctx *fiber.Ctx) error {
	term := ctx.Query("q")
	if term == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse(fiber.StatusBadRequest, "missing search term"))
	}
	found, err := h.collectionsService.Search(ctx.Context(), term)
	if err != nil {
		slog.Error("collection search failed", "term", term, "error", err)
		return ctx.Status(fiber.StatusBadGateway).JSON(errorResponse(fiber.StatusBadGateway, "collection search failed"))
	}
	return ctx.JSON(dataResponse(fiber.Map{"collections": found}))
}

// PostSync triggers an on-demand refresh of the collection cache, mirroring
// the admin "refresh now" button.
func (h *CollectionsHandler) PostSync(ctx *fiber.Ctx) error {
	var alert string
	if h.collectionsService.SyncToCache(ctx.Context()) {
		alert = "Your local collection store has been updated."
	} else {
		alert = "Your local collection is already up to date, or failed to update."
	}
	return ctx.JSON(dataResponse(fiber.Map{"alert": alert}))
}

// GetSyncStatus returns the human-readable local/remote count comparison.
func (h *CollectionsHandler) GetSyncStatus(ctx *fiber.Ctx) error {
	return ctx.JSON(dataResponse(fiber.Map{
		"message": h.collectionsService.CountMessage(ctx.Context()),
	}))
}
