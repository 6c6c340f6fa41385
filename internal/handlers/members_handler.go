package handlers

import (
	"log/slog"

	"github.com/futurelab/intuto-connect/internal/intuto"
	"github.com/gofiber/fiber/v2"
)

type MembersHandler struct {
	membersService MembersService
}

func NewMembersHandler(membersService MembersService) *MembersHandler {
	return &MembersHandler{
		membersService: membersService,
	}
}

// GetMembers lists the account's members for the admin UI. Results with no
// nested member record are dropped rather than rendered as empty rows.
func (h *MembersHandler) GetMembers(ctx *fiber.Ctx) error {
	results, err := h.membersService.ListMembers(ctx.Context())
	if err != nil {
		slog.Error("failed to list members", "error", err)
		return ctx.Status(fiber.StatusBadGateway).JSON(errorResponse(fiber.StatusBadGateway, "could not list members"))
	}

	members := make([]intuto.Member, 0, len(results))
	for _, result := range results {
		if result.Member != nil {
			members = append(members, *result.Member)
		}
	}
	return ctx.JSON(dataResponse(fiber.Map{"members": members}))
}
