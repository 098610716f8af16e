package dto

import (
	"time"

	"github.com/spec-kit/shop-service/internal/domain"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Roles     []string  `json:"role"`
	Verified  bool      `json:"is_verified"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserUpdateRequest payload for PUT /users/:id.
type UserUpdateRequest struct {
	Email     *string  `json:"email"`
	FirstName *string  `json:"first_name"`
	LastName  *string  `json:"last_name"`
	Roles     []string `json:"role"`
}

// NewUserResponse maps the domain model.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     domain.RoleStrings(user.Roles),
		Verified:  user.Verified,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}
}
