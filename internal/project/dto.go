// AngelaMos | 2026
// dto.go

package project

import (
	"time"
)

type CreateProjectRequest struct {
	Name        string  `json:"name"                  validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Status      *string `json:"status,omitempty"      validate:"omitempty,oneof=active completed archived"`
	OwnerID     int64   `json:"owner_id"              validate:"required,min=1"`
}

// UpdateProjectRequest is a partial update over name, description and
// status. The owner cannot be changed here.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Status      *string `json:"status,omitempty"      validate:"omitempty,oneof=active completed archived"`
}

type ProjectResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	OwnerID     int64     `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListProjectsParams struct {
	OwnerID *int64
}

func ToProjectResponse(p *Project) ProjectResponse {
	var description *string
	if p.Description.Valid {
		d := p.Description.String
		description = &d
	}

	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: description,
		Status:      p.Status,
		OwnerID:     p.OwnerID,
		OwnerName:   p.DisplayOwner(),
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

func ToProjectResponseList(projects []Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, ToProjectResponse(&projects[i]))
	}
	return responses
}
