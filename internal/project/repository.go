// AngelaMos | 2026
// repository.go

package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/projects-api/internal/core"
)

const projectColumns = `id, name, description, status, owner_id, created_at, updated_at`

const selectWithOwner = `
		SELECT p.id, p.name, p.description, p.status, p.owner_id,
		       p.created_at, p.updated_at, u.full_name AS owner_name
		FROM projects p
		LEFT JOIN users u ON p.owner_id = u.id`

type Repository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context, params ListProjectsParams) ([]Project, error)
	Update(ctx context.Context, id int64, changes *core.UpdateBuilder) (*Project, error)
	Delete(ctx context.Context, id int64) (bool, error)
	OwnerName(ctx context.Context, ownerID int64) (sql.NullString, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func newProjectUpdate() *core.UpdateBuilder {
	return core.NewUpdate("projects")
}

func (r *repository) Create(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (name, description, status, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + projectColumns

	err := r.db.GetContext(ctx, project, query,
		project.Name,
		project.Description,
		project.Status,
		project.OwnerID,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create project: %w", core.ClassifyPgError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Project, error) {
	query := selectWithOwner + `
		WHERE p.id = $1`

	var project Project
	err := r.db.GetContext(ctx, &project, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get project: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListProjectsParams,
) ([]Project, error) {
	var conditions []string
	var args []any

	if params.OwnerID != nil {
		args = append(args, *params.OwnerID)
		conditions = append(conditions, fmt.Sprintf("p.owner_id = $%d", len(args)))
	}

	query := selectWithOwner
	if len(conditions) > 0 {
		query += `
		WHERE ` + strings.Join(conditions, " AND ")
	}
	query += `
		ORDER BY p.created_at DESC`

	projects := []Project{}
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return projects, nil
}

// Update applies changes in a single UPDATE ... RETURNING statement. The
// returned project has no owner name; callers resolve it separately.
func (r *repository) Update(
	ctx context.Context,
	id int64,
	changes *core.UpdateBuilder,
) (*Project, error) {
	query, args := changes.Build("id", id, projectColumns)

	var project Project
	err := r.db.GetContext(ctx, &project, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update project: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update project: %w", core.ClassifyPgError(err))
	}

	return &project, nil
}

func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}

	return rows > 0, nil
}

// OwnerName looks up the owner's full name. A missing owner yields an
// invalid NullString rather than an error.
func (r *repository) OwnerName(
	ctx context.Context,
	ownerID int64,
) (sql.NullString, error) {
	var name sql.NullString
	err := r.db.GetContext(ctx, &name, `SELECT full_name FROM users WHERE id = $1`, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.NullString{}, nil
	}
	if err != nil {
		return sql.NullString{}, fmt.Errorf("get owner name: %w", err)
	}

	return name, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM projects`); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return total, nil
}
