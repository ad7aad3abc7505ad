// AngelaMos | 2026
// entity.go

package project

import (
	"database/sql"
	"time"
)

// Project mirrors a row of the projects table. OwnerName is not a column;
// it is filled from a join against the owner's full_name.
type Project struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Status      string         `db:"status"`
	OwnerID     int64          `db:"owner_id"`
	OwnerName   sql.NullString `db:"owner_name"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// DisplayOwner never returns an empty string.
func (p *Project) DisplayOwner() string {
	if p.OwnerName.Valid && p.OwnerName.String != "" {
		return p.OwnerName.String
	}
	return UnknownOwner
}

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

const UnknownOwner = "Unknown"

const (
	columnName        = "name"
	columnDescription = "description"
	columnStatus      = "status"
	columnUpdatedAt   = "updated_at"
)
