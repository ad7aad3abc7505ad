// AngelaMos | 2026
// handler.go

package project

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/projects-api/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Post("/", h.CreateProject)
		r.Get("/{projectID}", h.GetProject)
		r.Put("/{projectID}", h.UpdateProject)
		r.Delete("/{projectID}", h.DeleteProject)
	})
}

// ListProjects returns every project, or only one owner's when owner_id is
// given.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	var params ListProjectsParams

	if raw := r.URL.Query().Get("owner_id"); raw != "" {
		ownerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			core.BadRequest(w, "owner_id must be an integer")
			return
		}
		params.OwnerID = &ownerID
	}

	projects, err := h.service.ListProjects(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, projects)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProjectID(w, r)
	if !ok {
		return
	}

	project, err := h.service.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, project)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	project, err := h.service.CreateProject(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, project)
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProjectID(w, r)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	project, err := h.service.UpdateProject(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, project)
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProjectID(w, r)
	if !ok {
		return
	}

	removed, err := h.service.DeleteProject(r.Context(), id)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	if !removed {
		core.NotFound(w, "project")
		return
	}

	core.NoContent(w)
}

func parseProjectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	if err != nil {
		core.BadRequest(w, "invalid project id")
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "project")
	case errors.Is(err, core.ErrInvalidReference):
		core.UnprocessableEntity(w, "owner_id does not reference an existing user")
	case errors.Is(err, core.ErrValueTooLong):
		core.BadRequest(w, "value exceeds the stored column width")
	default:
		core.InternalServerError(w, err)
	}
}
