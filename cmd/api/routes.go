// AngelaMos | 2026
// routes.go

package main

import (
	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/projects-api/internal/admin"
	"github.com/carterperez-dev/templates/projects-api/internal/health"
	"github.com/carterperez-dev/templates/projects-api/internal/project"
	"github.com/carterperez-dev/templates/projects-api/internal/user"
)

type routeSet struct {
	prefix   string
	health   *health.Handler
	users    *user.Handler
	projects *project.Handler
	admin    *admin.Handler
}

// mountRoutes registers probes at the root and the resource routes under
// the API prefix. Admin stats are only mounted when enabled.
func mountRoutes(r chi.Router, routes routeSet, adminEnabled bool) {
	routes.health.RegisterRoutes(r)

	r.Route(routes.prefix, func(r chi.Router) {
		routes.users.RegisterRoutes(r)
		routes.projects.RegisterRoutes(r)
		if adminEnabled {
			routes.admin.RegisterRoutes(r)
		}
	})
}
