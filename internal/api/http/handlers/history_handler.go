package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// HistoryHandler exposes cross-ticket audit trail queries for admins.
// Per-ticket history lives under /tickets/:id/history.
type HistoryHandler struct {
	history repository.HistoryRepository
}

// NewHistoryHandler constructs handler.
func NewHistoryHandler(history repository.HistoryRepository) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List GET /history. Filters: actor_id, action, since; at most one applies,
// checked in that order.
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)

	var (
		entries []domain.HistoryEntry
		err     error
	)
	switch {
	case c.Query("actor_id") != "":
		actorID, parseErr := strconv.ParseInt(c.Query("actor_id"), 10, 64)
		if parseErr != nil || actorID <= 0 {
			return apperrors.NewValidationError("invalid actor_id", nil)
		}
		entries, err = h.history.ListByActor(c.Context(), actorID, limit)
	case c.Query("action") != "":
		entries, err = h.history.ListByAction(c.Context(), domain.HistoryAction(c.Query("action")), limit)
	case c.Query("since") != "":
		since, parseErr := time.Parse(time.RFC3339, c.Query("since"))
		if parseErr != nil {
			return apperrors.NewValidationError("invalid since timestamp", nil)
		}
		entries, err = h.history.ListSince(c.Context(), since, limit)
	default:
		return apperrors.NewValidationError("one of actor_id, action, since is required", nil)
	}
	if err != nil {
		return apperrors.MapError(err)
	}

	items := make([]dto.HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.FromHistoryEntry(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
