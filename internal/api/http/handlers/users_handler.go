package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UsersHandler exposes user lookups needed by the assignment flow.
type UsersHandler struct {
	users repository.UserRepository
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users repository.UserRepository) *UsersHandler {
	return &UsersHandler{users: users}
}

// Executors GET /users/executors lists active users who can take tickets.
func (h *UsersHandler) Executors(c *fiber.Ctx) error {
	executors, err := h.users.ListExecutors(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.UserResponse, 0, len(executors))
	for i := range executors {
		items = append(items, dto.FromUser(&executors[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
