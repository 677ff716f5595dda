package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// StatusesHandler serves the configured status catalog.
type StatusesHandler struct {
	statuses repository.StatusRepository
}

// NewStatusesHandler constructs handler.
func NewStatusesHandler(statuses repository.StatusRepository) *StatusesHandler {
	return &StatusesHandler{statuses: statuses}
}

// List GET /statuses.
func (h *StatusesHandler) List(c *fiber.Ctx) error {
	statuses, err := h.statuses.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.StatusResponse, 0, len(statuses))
	for i := range statuses {
		items = append(items, dto.FromStatus(&statuses[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
