package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/futurelab/intuto-connect/internal/store"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	oauthClient        OAuthClient
	tokenStore         TokenStore
	collectionsService CollectionsService
}

func NewAuthHandler(oauthClient OAuthClient, tokenStore TokenStore, collectionsService CollectionsService) *AuthHandler {
	return &AuthHandler{
		oauthClient:        oauthClient,
		tokenStore:         tokenStore,
		collectionsService: collectionsService,
	}
}

// GetAuthorize starts the account-linking flow by redirecting the admin to
// the Intuto authorization endpoint. The route sits behind the admin API-key
// middleware; unauthenticated callers never receive an authorization URL.
func (h *AuthHandler) GetAuthorize(ctx *fiber.Ctx) error {
	authorizationURL, err := h.oauthClient.AuthorizationURL(ctx.Context())
	if err != nil {
		slog.Error("failed to build authorization url", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorResponse(fiber.StatusInternalServerError, "could not start authorization"))
	}
	return ctx.Redirect(authorizationURL, fiber.StatusFound)
}

// GetCallback handles the redirect back from the identity server. The state
// nonce must verify before the code is exchanged; a mismatch is fatal to the
// request and the exchange is never attempted.
func (h *AuthHandler) GetCallback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse(fiber.StatusBadRequest, "missing code or state"))
	}

	if err := h.oauthClient.VerifyState(ctx.Context(), state); err != nil {
		slog.Error("authorization callback failed security check")
		return ctx.Status(fiber.StatusForbidden).JSON(errorResponse(fiber.StatusForbidden, "security check failed"))
	}

	if _, err := h.oauthClient.ExchangeCode(ctx.Context(), code); err != nil {
		return ctx.JSON(dataResponse(fiber.Map{
			"authorized": false,
			"message":    "Your site could not be linked to your Intuto account.",
		}))
	}

	return ctx.JSON(dataResponse(fiber.Map{
		"authorized": true,
		"message":    "Your site is now linked to your Intuto account.",
	}))
}

// PostDeauthorize unlinks the store from the Intuto account by destroying
// the stored token pair.
func (h *AuthHandler) PostDeauthorize(ctx *fiber.Ctx) error {
	if err := h.tokenStore.ClearAll(ctx.Context()); err != nil {
		slog.Error("failed to clear tokens", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorResponse(fiber.StatusInternalServerError, "deauthorization failed"))
	}
	return ctx.JSON(dataResponse(fiber.Map{"authorized": false}))
}

// GetStatus reports whether the store is linked and how fresh the collection
// cache is.
func (h *AuthHandler) GetStatus(ctx *fiber.Ctx) error {
	// an unreachable token store reports unlinked rather than guessing
	linked := false
	if _, err := h.tokenStore.RefreshToken(ctx.Context()); err == nil {
		linked = true
	} else if !errors.Is(err, store.ErrNotFound) {
		slog.Error("failed to read refresh token", "error", err)
	}

	var accessTokenValid bool
	if record, err := h.tokenStore.Get(ctx.Context()); err == nil {
		accessTokenValid = record.Valid(time.Now())
	}

	cached, syncedAt, err := h.collectionsService.Cached(ctx.Context())
	if err != nil {
		slog.Error("failed to read collection cache", "error", err)
	}

	return ctx.JSON(dataResponse(fiber.Map{
		"linked":           linked,
		"accessTokenValid": accessTokenValid,
		"collectionCount":  len(cached),
		"lastSync":         syncedAt,
	}))
}
