package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-service/internal/api/dto"
	"github.com/spec-kit/shop-service/internal/auth"
	"github.com/spec-kit/shop-service/internal/service"
	apperrors "github.com/spec-kit/shop-service/pkg/util/errorutil"
)

// UsersHandler exposes account endpoints. Every route sits behind the access gate and a
// RoleChecker handler, so the caller is always in context.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Self handles GET /users/self.
func (h *UsersHandler) Self(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return auth.ToDomainError(auth.ErrNoCredentials)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Deactivate handles PUT /users/deactivate.
func (h *UsersHandler) Deactivate(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return auth.ToDomainError(auth.ErrNoCredentials)
	}
	if err := h.users.Deactivate(c.UserContext(), user); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Reactivate handles PUT /users/reactivate.
func (h *UsersHandler) Reactivate(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return auth.ToDomainError(auth.ErrNoCredentials)
	}
	if err := h.users.Reactivate(c.UserContext(), user); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete handles DELETE /users/delete.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return auth.ToDomainError(auth.ErrNoCredentials)
	}
	if err := h.users.Delete(c.UserContext(), user); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List handles GET /users/all.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return auth.ToDomainError(auth.ErrNoCredentials)
	}
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.Update(c.UserContext(), actor, c.Params("id"), service.UserUpdateInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     req.Roles,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
