// AngelaMos | 2026
// entity.go

package user

import (
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"
)

// User mirrors a row of the users table. Role and activity are not
// persisted; see DefaultRole.
type User struct {
	ID        int64          `db:"id"`
	Username  string         `db:"username"`
	Email     string         `db:"email"`
	FullName  sql.NullString `db:"full_name"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// DisplayName is the full name, or the username when none is stored.
func (u *User) DisplayName() string {
	if u.FullName.Valid && u.FullName.String != "" {
		return u.FullName.String
	}
	return u.Username
}

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleResearcher = "researcher"
)

const DefaultRole = RoleUser

const (
	columnFullName  = "full_name"
	columnEmail     = "email"
	columnUpdatedAt = "updated_at"
)

// MaxUsernameLength matches the users.username column width.
const MaxUsernameLength = 50

// UsernameFromEmail returns the local part of an email address.
func UsernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// NormalizeEmail is the stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func usernameFits(username string) bool {
	return utf8.RuneCountInString(username) <= MaxUsernameLength
}
