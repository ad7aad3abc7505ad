// AngelaMos | 2026
// dto.go

package user

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

type CreateUserRequest struct {
	Email    string  `json:"email"              validate:"required,email,max=100"`
	Name     string  `json:"name"               validate:"required,min=1,max=100"`
	Password string  `json:"password"           validate:"required,min=8,max=128"`
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=50"`
	Role     *string `json:"role,omitempty"     validate:"omitempty,oneof=user admin researcher"`
}

// validateCreateUser rejects an email whose local part would become a
// username wider than the column, when no username is supplied.
func validateCreateUser(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(CreateUserRequest)
	if !ok || req.Username != nil {
		return
	}

	if !usernameFits(UsernameFromEmail(NormalizeEmail(req.Email))) {
		sl.ReportError(
			req.Email,
			"email",
			"Email",
			"local_max",
			strconv.Itoa(MaxUsernameLength),
		)
	}
}

// UpdateUserRequest is a partial update: nil fields are left untouched.
// Role is accepted for validation only; it has no storage column.
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=1,max=100"`
	Role  *string `json:"role,omitempty"  validate:"omitempty,oneof=user admin researcher"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToUserResponse(u *User) UserResponse {
	return toUserResponseWithRole(u, DefaultRole)
}

func toUserResponseWithRole(u *User, role string) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.DisplayName(),
		Role:      role,
		IsActive:  true,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
