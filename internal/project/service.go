// AngelaMos | 2026
// service.go

package project

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
	return &Service{
		repo: repo,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

func (s *Service) ListProjects(
	ctx context.Context,
	params ListProjectsParams,
) (_ []ProjectResponse, err error) {
	ctx, span := core.StartSpan(ctx, "project.List")
	defer func() { core.EndSpan(span, err) }()

	if params.OwnerID != nil {
		span.SetAttributes(attribute.Int64("project.owner_id", *params.OwnerID))
	}

	projects, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return ToProjectResponseList(projects), nil
}

func (s *Service) GetProject(
	ctx context.Context,
	id int64,
) (_ *ProjectResponse, err error) {
	ctx, span := core.StartSpan(ctx, "project.Get", attribute.Int64("project.id", id))
	defer func() { core.EndSpan(span, err) }()

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToProjectResponse(project)
	return &resp, nil
}

// CreateProject inserts the row and then looks the owner's name up in a
// second statement. The two steps are not atomic; a concurrent rename or
// delete of the owner only affects the returned display name.
func (s *Service) CreateProject(
	ctx context.Context,
	req CreateProjectRequest,
) (_ *ProjectResponse, err error) {
	ctx, span := core.StartSpan(ctx, "project.Create",
		attribute.Int64("project.owner_id", req.OwnerID),
	)
	defer func() { core.EndSpan(span, err) }()

	status := StatusActive
	if req.Status != nil {
		status = *req.Status
	}

	now := s.now()
	project := &Project{
		Name:        req.Name,
		Description: optionalString(req.Description),
		Status:      status,
		OwnerID:     req.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	if err := s.resolveOwner(ctx, project); err != nil {
		return nil, err
	}

	resp := ToProjectResponse(project)
	return &resp, nil
}

// UpdateProject writes only the fields present in req. With nothing to
// write it returns the stored project without touching the row.
func (s *Service) UpdateProject(
	ctx context.Context,
	id int64,
	req UpdateProjectRequest,
) (_ *ProjectResponse, err error) {
	ctx, span := core.StartSpan(ctx, "project.Update", attribute.Int64("project.id", id))
	defer func() { core.EndSpan(span, err) }()

	changes := newProjectUpdate()
	if req.Name != nil {
		changes.Set(columnName, *req.Name)
	}
	if req.Description != nil {
		changes.Set(columnDescription, *req.Description)
	}
	if req.Status != nil {
		changes.Set(columnStatus, *req.Status)
	}

	if changes.Empty() {
		project, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		resp := ToProjectResponse(project)
		return &resp, nil
	}

	span.SetAttributes(attribute.Int("update.fields", changes.Len()))
	changes.Set(columnUpdatedAt, s.now())

	project, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	if err := s.resolveOwner(ctx, project); err != nil {
		return nil, err
	}

	resp := ToProjectResponse(project)
	return &resp, nil
}

func (s *Service) DeleteProject(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := core.StartSpan(ctx, "project.Delete", attribute.Int64("project.id", id))
	defer func() { core.EndSpan(span, err) }()

	return s.repo.Delete(ctx, id)
}

func (s *Service) CountProjects(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) resolveOwner(ctx context.Context, project *Project) error {
	name, err := s.repo.OwnerName(ctx, project.OwnerID)
	if err != nil {
		return err
	}
	project.OwnerName = name
	return nil
}

func optionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
