package http

import (
	"github.com/go-chi/chi/v5"

	"estateadmin/frontend/dropdowns"
	"estateadmin/frontend/login"
	projectspage "estateadmin/frontend/projects"
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.SessionCache, s.Dropdowns, s.Session))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache, s.Tables, s.Dropdowns, s.Session))
}

// RegisterProjectRoutes registers the project listing and its pages.
func (s *Server) RegisterProjectRoutes(r chi.Router) {
	r.Route("/project", func(r chi.Router) {
		r.Get("/", projectspage.ProjectsPageQueryHandler(s.Tables, s.Projects, s.Location))
		r.Post("/columns", projectspage.ToggleColumnCommandHandler(s.Tables))
		r.Get("/export.xlsx", projectspage.ProjectExportQueryHandler(s.Tables, s.Location))
		r.Get("/view", projectspage.ProjectViewPageQueryHandler(s.Projects, s.Location))
		r.Get("/view.pdf", projectspage.ProjectFactSheetQueryHandler(s.Projects, s.Location))
		r.Get("/edit", projectspage.ProjectEditPageQueryHandler(s.Projects))
		r.Post("/edit", projectspage.ProjectEditCommandHandler(s.Projects, s.DB, s.Audit))
		r.Get("/delete", projectspage.ProjectDeletePageQueryHandler())
		r.Post("/delete", projectspage.ProjectDeleteCommandHandler())
		r.Get("/logs", projectspage.ProjectLogsPageQueryHandler(s.DB))
	})
}

// RegisterDropdownRoutes registers the JSON endpoints of the dropdown cache.
func (s *Server) RegisterDropdownRoutes(r chi.Router) {
	r.Route("/api/dropdowns", func(r chi.Router) {
		r.Get("/", dropdowns.DropdownsQueryHandler(s.Dropdowns))
		r.Post("/refresh", dropdowns.RefreshCommandHandler(s.Dropdowns))
		r.Post("/clear", dropdowns.ClearCommandHandler(s.Dropdowns))
	})
}
