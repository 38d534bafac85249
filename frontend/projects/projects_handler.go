package projects

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"

	sessioncontext "estateadmin/frontend/shared/context"
	"estateadmin/frontend/shared/nav"
	"estateadmin/infrastructure/audit"
	"estateadmin/infrastructure/cache"
	projectinfra "estateadmin/infrastructure/project"
	"estateadmin/infrastructure/sqlite"
	"estateadmin/models"
)

const (
	auditEntityType    = "projects"
	auditActionUpdate  = "project.update"
	deleteNotSupported = "Delete is not supported yet"
)

// TableCache holds one Table per session.
type TableCache = cache.SessionStateCache[*Table]

func NewTableCache() *TableCache {
	return cache.NewSessionStateCache(NewTable)
}

func sessionTable(r *http.Request, tables *TableCache) *Table {
	return tables.Get(sessioncontext.SessionToken(r.Context()))
}

func topNav(r *http.Request) nav.TopNavData {
	session, _ := sessioncontext.GetSessionFromContext(r.Context())
	return nav.BuildTopNavData(session, "/project")
}

// ProjectsPageQueryHandler renders the listing. Missing page or q keep the
// table's current value; reload=1 refetches the current page.
func ProjectsPageQueryHandler(tables *TableCache, lister Lister, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := sessionTable(r, tables)
		current := table.Snapshot()
		params := r.URL.Query()

		page := current.Page
		if params.Has("page") {
			page = parsePage(params.Get("page"))
		}
		query := current.Query
		if params.Has("q") {
			query = strings.TrimSpace(params.Get("q"))
		}
		reload := params.Get("reload") == "1"

		snap := table.Navigate(r.Context(), lister, page, query, reload)
		data := ListPageData{
			Message: strings.TrimSpace(params.Get("status")),
			Table:   snap,
			Rows:    FormatRows(snap.Rows, snap.Columns, loc),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ProjectsPage(topNav(r), data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render projects page", http.StatusInternalServerError)
			return
		}
	}
}

// ToggleColumnCommandHandler flips one column and returns to the listing
// without refetching.
func ToggleColumnCommandHandler(tables *TableCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/project?status="+url.QueryEscape("Invalid form data"), http.StatusSeeOther)
			return
		}
		if err := sessionTable(r, tables).ToggleColumn(strings.TrimSpace(r.FormValue("column"))); err != nil {
			http.Redirect(w, r, "/project?status="+url.QueryEscape("Unknown column"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/project", http.StatusSeeOther)
	}
}

// ProjectViewPageQueryHandler renders the read-only details of one project.
func ProjectViewPageQueryHandler(editor Editor, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := parseProjectID(r.URL.Query().Get("id"))
		data := ViewPageData{ProjectID: id}

		if id > 0 {
			result := editor.FindByID(r.Context(), id)
			switch result.Kind {
			case projectinfra.Found:
				data.Found = true
				data.Project = result.Project
				data.Status = statusCell(result.Project.IsActive)
				data.Details = projectDetails(result.Project, loc)
			case projectinfra.TransportError:
				slog.Error("load project for view failed", slog.Int64("project_id", id), slog.Any("err", result.Err))
				data.LoadError = "Could not load the project. Please try again."
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ProjectViewPage(topNav(r), data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render project page", http.StatusInternalServerError)
			return
		}
	}
}

// ProjectFactSheetQueryHandler serves a printable PDF of one project with a
// barcode of its id.
func ProjectFactSheetQueryHandler(editor Editor, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := parseProjectID(r.URL.Query().Get("id"))
		if id <= 0 {
			http.Redirect(w, r, "/project?status="+url.QueryEscape("Invalid project id"), http.StatusSeeOther)
			return
		}

		result := editor.FindByID(r.Context(), id)
		switch result.Kind {
		case projectinfra.NotFound:
			http.Error(w, "project not found", http.StatusNotFound)
			return
		case projectinfra.TransportError:
			slog.Error("load project for fact sheet failed", slog.Int64("project_id", id), slog.Any("err", result.Err))
			http.Error(w, "could not load the project", http.StatusBadGateway)
			return
		}

		p := result.Project
		pdfBytes, code, err := renderProjectFactSheetPDF(FactSheetData{
			ProjectID:   p.ProjectID,
			ProjectName: p.ProjectName,
			VillageName: p.VillageName,
			Description: p.ProjectDescription,
			Status:      statusCell(p.IsActive).Text,
			Details:     projectDetails(p, loc),
		}, time.Now().In(loc))
		if err != nil {
			slog.Error("render project fact sheet failed", slog.Int64("project_id", id), slog.Any("err", err))
			http.Error(w, "failed to build project pdf", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", pdfContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=project-%s.pdf", code))
		_, _ = w.Write(pdfBytes)
	}
}

func projectDetails(p models.Project, loc *time.Location) []DetailItem {
	keys := []struct {
		label string
		key   string
	}{
		{"Project ID", "project_id"},
		{"Developer Name", "developer_name"},
		{"Project Name", "project_name"},
		{"Village Name", "village_name"},
		{"Created By", "created_by"},
		{"Created Date", "created_date"},
		{"Updated By", "updated_by"},
		{"Last Update", "last_update"},
	}
	items := make([]DetailItem, 0, len(keys))
	for _, k := range keys {
		items = append(items, DetailItem{Label: k.label, Value: FormatCell(p, k.key, loc).Text})
	}
	return items
}

// ProjectEditPageQueryHandler loads a project into the edit form.
func ProjectEditPageQueryHandler(editor Editor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := LoadEditForm(r.Context(), editor, parseProjectID(r.URL.Query().Get("id")))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ProjectEditPage(topNav(r), form).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render edit page", http.StatusInternalServerError)
			return
		}
	}
}

// ProjectEditCommandHandler validates and submits the edit form. A
// successful update is written to the audit log.
func ProjectEditCommandHandler(editor Editor, db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := parseProjectID(r.URL.Query().Get("id"))
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/project/edit?id="+strconv.FormatInt(id, 10), http.StatusSeeOther)
			return
		}

		form := &EditForm{ID: id, State: StateEditing}
		if id <= 0 {
			form.State = StateNotFound
		}
		data := ParseFormData(r.PostForm)
		if form.Submit(r.Context(), editor, data) {
			userID := sessioncontext.UserID(r.Context())
			if err := writeProjectAudit(r.Context(), db, auditSvc, userID, auditActionUpdate, strconv.FormatInt(id, 10), nil, data.UpdateInput(id).Body()); err != nil {
				slog.Error("write project audit failed", slog.Int64("project_id", id), slog.Any("err", err))
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(editStatusCode(form))
		if err := ProjectEditPage(topNav(r), form).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render edit page", http.StatusInternalServerError)
			return
		}
	}
}

// ProjectDeletePageQueryHandler asks for confirmation.
func ProjectDeletePageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := parseProjectID(r.URL.Query().Get("id"))
		if id <= 0 {
			http.Redirect(w, r, "/project?status="+url.QueryEscape("Invalid project id"), http.StatusSeeOther)
			return
		}
		data := DeletePageData{
			ProjectID: id,
			Prompt:    fmt.Sprintf("Are you sure you want to delete project %d?", id),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ProjectDeletePage(topNav(r), data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render delete page", http.StatusInternalServerError)
			return
		}
	}
}

// ProjectDeleteCommandHandler is a stub: the backend has no delete endpoint,
// so a confirmed delete only reloads the listing.
func ProjectDeleteCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := parseProjectID(r.URL.Query().Get("id"))
		slog.Warn("project delete requested but not supported", slog.Int64("project_id", id))
		http.Redirect(w, r, "/project?reload=1&status="+url.QueryEscape(deleteNotSupported), http.StatusSeeOther)
	}
}

// ProjectExportQueryHandler downloads the rows already fetched for the
// current page, restricted to the visible columns.
func ProjectExportQueryHandler(tables *TableCache, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := sessionTable(r, tables).Snapshot()

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="projects-page-%d.xlsx"`, snap.Page))
		if err := WriteProjectsXLSX(w, snap, loc); err != nil {
			slog.Error("export projects failed", slog.Any("err", err))
			http.Error(w, "failed to export projects", http.StatusInternalServerError)
			return
		}
	}
}

// ProjectLogsPageQueryHandler lists the recorded updates of one project.
func ProjectLogsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := parseProjectID(r.URL.Query().Get("id"))
		if id <= 0 {
			http.Redirect(w, r, "/project?status="+url.QueryEscape("Invalid project id"), http.StatusSeeOther)
			return
		}

		data, err := LoadProjectLogsPageData(r.Context(), db, id)
		if err != nil {
			slog.Error("load project logs failed", slog.Int64("project_id", id), slog.Any("err", err))
			http.Error(w, "failed to load project logs", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ProjectLogsPage(topNav(r), data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render project logs page", http.StatusInternalServerError)
			return
		}
	}
}

// editStatusCode mirrors the outcome of a submitted edit in the response
// status.
func editStatusCode(form *EditForm) int {
	switch form.State {
	case StateNotFound:
		return http.StatusNotFound
	case StateFailed:
		if form.Dialog != nil && form.Dialog.StatusCode >= http.StatusBadRequest {
			return form.Dialog.StatusCode
		}
		return http.StatusBadGateway
	case StateEditing:
		if !form.Errors.Empty() {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusOK
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parseProjectID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func writeProjectAudit(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, action, entityID string, before, after any) error {
	if auditSvc == nil || db == nil || userID <= 0 {
		return nil
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return auditSvc.Write(ctx, tx, audit.Entry{
			UserID:     userID,
			Action:     action,
			EntityType: auditEntityType,
			EntityID:   entityID,
			Before:     before,
			After:      after,
		})
	})
}
