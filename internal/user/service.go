// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/projects-api/internal/core"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: defaultClock}
}

// defaultClock matches the microsecond precision PostgreSQL stores, so a
// value written and read back compares equal.
func defaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *Service) ListUsers(ctx context.Context) (_ []UserResponse, err error) {
	ctx, span := core.StartSpan(ctx, "user.List")
	defer func() { core.EndSpan(span, err) }()

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return ToUserResponseList(users), nil
}

// GetUser returns core.ErrNotFound (wrapped) when no row matches.
func (s *Service) GetUser(ctx context.Context, id int64) (_ *UserResponse, err error) {
	ctx, span := core.StartSpan(ctx, "user.Get", attribute.Int64("user.id", id))
	defer func() { core.EndSpan(span, err) }()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// CreateUser stores the email lower-cased and trimmed, so the response may
// differ from the submitted address in case. Without a supplied username the
// local part of the normalized email is used.
func (s *Service) CreateUser(
	ctx context.Context,
	req CreateUserRequest,
) (_ *UserResponse, err error) {
	ctx, span := core.StartSpan(ctx, "user.Create")
	defer func() { core.EndSpan(span, err) }()

	email := NormalizeEmail(req.Email)

	username := UsernameFromEmail(email)
	if req.Username != nil {
		username = *req.Username
	}

	now := s.now()
	user := &User{
		Username:  username,
		Email:     email,
		FullName:  nullString(req.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	role := DefaultRole
	if req.Role != nil {
		role = *req.Role
	}

	resp := toUserResponseWithRole(user, role)
	return &resp, nil
}

// UpdateUser writes only the fields present in req. With nothing to write
// it returns the stored record without touching the row.
func (s *Service) UpdateUser(
	ctx context.Context,
	id int64,
	req UpdateUserRequest,
) (_ *UserResponse, err error) {
	ctx, span := core.StartSpan(ctx, "user.Update", attribute.Int64("user.id", id))
	defer func() { core.EndSpan(span, err) }()

	changes := newUserUpdate()
	if req.Name != nil {
		changes.Set(columnFullName, *req.Name)
	}
	if req.Email != nil {
		changes.Set(columnEmail, NormalizeEmail(*req.Email))
	}

	if changes.Empty() {
		user, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		resp := ToUserResponse(user)
		return &resp, nil
	}

	span.SetAttributes(attribute.Int("update.fields", changes.Len()))
	changes.Set(columnUpdatedAt, s.now())

	user, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// DeleteUser reports whether a row was removed. An unknown id is not an
// error.
func (s *Service) DeleteUser(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := core.StartSpan(ctx, "user.Delete", attribute.Int64("user.id", id))
	defer func() { core.EndSpan(span, err) }()

	return s.repo.Delete(ctx, id)
}

func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
