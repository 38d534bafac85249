package projects

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	sessioncontext "estateadmin/frontend/shared/context"
	"estateadmin/infrastructure/api"
	projectinfra "estateadmin/infrastructure/project"
	"estateadmin/models"
)

func withSession(r *http.Request) *http.Request {
	session := models.Session{ID: "token-1", UserID: 1, User: models.User{ID: 1, Username: "admin"}}
	return r.WithContext(sessioncontext.NewContextWithSession(r.Context(), session))
}

func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, withSession(r))
	return rec
}

func TestProjectsPageQueryHandler_RendersPage(t *testing.T) {
	tables := NewTableCache()
	lister := pagedLister(25)
	h := ProjectsPageQueryHandler(tables, lister, time.UTC)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/project?page=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Showing 11 to 20 of 25 projects")
	assert.Contains(t, body, "Project 11")
	assert.Contains(t, body, `href="/project/edit?id=11"`)
	assert.Contains(t, body, "admin")

	// No page or q keeps the current state without refetching.
	rec = serve(h, httptest.NewRequest(http.MethodGet, "/project", nil))
	assert.Contains(t, rec.Body.String(), "Showing 11 to 20 of 25 projects")
	assert.Equal(t, 1, lister.callCount())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/project?reload=1", nil))
	assert.Equal(t, 2, lister.callCount())
	assert.Equal(t, listCall{page: 2, size: PageSize}, lister.calls[1])
}

func TestProjectsPageQueryHandler_AbortedRequestDoesNotStick(t *testing.T) {
	tables := NewTableCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	aborted := &fakeLister{respond: func(int, string) (projectinfra.ListResult, error) {
		return projectinfra.ListResult{}, ctx.Err()
	}}
	serve(ProjectsPageQueryHandler(tables, aborted, time.UTC), httptest.NewRequest(http.MethodGet, "/project?page=1", nil).WithContext(ctx))

	lister := pagedLister(25)
	rec := serve(ProjectsPageQueryHandler(tables, lister, time.UTC), httptest.NewRequest(http.MethodGet, "/project", nil))

	assert.Equal(t, 1, lister.callCount())
	assert.NotContains(t, rec.Body.String(), fetchFailedMessage)
	assert.Contains(t, rec.Body.String(), "Showing 1 to 10 of 25 projects")
}

func TestProjectsPageQueryHandler_SearchResetsToGivenPage(t *testing.T) {
	tables := NewTableCache()
	lister := pagedLister(0)
	h := ProjectsPageQueryHandler(tables, lister, time.UTC)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/project?page=1&q=tower", nil))

	assert.Contains(t, rec.Body.String(), "No Projects Found")
	assert.Contains(t, rec.Body.String(), "No projects match &#34;tower&#34;")
	assert.Equal(t, []listCall{{page: 1, size: PageSize, query: "tower"}}, lister.calls)
}

func TestToggleColumnCommandHandler_DoesNotFetch(t *testing.T) {
	tables := NewTableCache()
	lister := pagedLister(25)
	serve(ProjectsPageQueryHandler(tables, lister, time.UTC), httptest.NewRequest(http.MethodGet, "/project", nil))

	form := url.Values{"column": {"developer_id"}}
	req := httptest.NewRequest(http.MethodPost, "/project/columns", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(ToggleColumnCommandHandler(tables), req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/project", rec.Header().Get("Location"))
	assert.Equal(t, 1, lister.callCount())

	rec = serve(ProjectsPageQueryHandler(tables, lister, time.UTC), httptest.NewRequest(http.MethodGet, "/project", nil))
	assert.Contains(t, rec.Body.String(), "<th>Developer ID</th>")
	assert.Equal(t, 1, lister.callCount())
}

func TestProjectExportQueryHandler_VisibleColumnsOnly(t *testing.T) {
	tables := NewTableCache()
	serve(ProjectsPageQueryHandler(tables, pagedLister(3), time.UTC), httptest.NewRequest(http.MethodGet, "/project", nil))

	rec := serve(ProjectExportQueryHandler(tables, time.UTC), httptest.NewRequest(http.MethodGet, "/project/export.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "projects-page-1.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Len(t, rows[0], len(DefaultVisibleColumns))
	assert.Equal(t, "Project ID", rows[0][0])
	assert.NotContains(t, rows[0], "Developer ID")
	assert.Equal(t, "1", rows[1][0])
	assert.Contains(t, rows[1], "Project 1")
}

func TestProjectEditPageQueryHandler_NotFound(t *testing.T) {
	editor := &fakeEditor{load: projectinfra.LoadResult{Kind: projectinfra.NotFound}}
	rec := serve(ProjectEditPageQueryHandler(editor), httptest.NewRequest(http.MethodGet, "/project/edit?id=42", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Project not found")
	assert.NotContains(t, rec.Body.String(), `id="edit-form"`)
}

func TestProjectEditPageQueryHandler_Found(t *testing.T) {
	editor := &fakeEditor{load: projectinfra.LoadResult{Kind: projectinfra.Found, Project: sampleProject()}}
	rec := serve(ProjectEditPageQueryHandler(editor), httptest.NewRequest(http.MethodGet, "/project/edit?id=42", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "Edit Project - 42")
	assert.Contains(t, body, `value="Riverside"`)
	assert.Contains(t, body, `value="Chbar Ampov"`)
}

func editRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/project/edit?id=42", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func validFormValues() url.Values {
	return url.Values{
		"developer_id":        {"7"},
		"project_name":        {"Riverside"},
		"project_description": {"Phase two"},
		"is_active":           {"on"},
		"province_id":         {"12"},
		"province_name":       {"Phnom Penh"},
		"district_id":         {"1201"},
		"district_name":       {"Chamkar Mon"},
		"village_id":          {"301"},
		"village_name":        {"Chbar Ampov"},
	}
}

func TestProjectEditCommandHandler_ServerRejection(t *testing.T) {
	editor := &fakeEditor{updateErr: &api.Error{StatusCode: http.StatusConflict, Message: "Stale record"}}
	rec := serve(ProjectEditCommandHandler(editor, nil, nil), editRequest(validFormValues()))

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Status: 409")
	assert.Contains(t, body, "Stale record")
	assert.Contains(t, body, "Okay, Got It")
	assert.Contains(t, body, `id="edit-form"`)
}

func TestProjectEditCommandHandler_Success(t *testing.T) {
	editor := &fakeEditor{}
	rec := serve(ProjectEditCommandHandler(editor, nil, nil), editRequest(validFormValues()))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, editor.updates, 1)
	assert.Equal(t, "301", editor.updates[0].VillageID)
	assert.Contains(t, rec.Body.String(), "Project has been updated successfully!")
	assert.Contains(t, rec.Body.String(), `href="/project?reload=1"`)
}

func TestProjectEditCommandHandler_ValidationError(t *testing.T) {
	editor := &fakeEditor{}
	values := validFormValues()
	values.Set("project_name", "")
	rec := serve(ProjectEditCommandHandler(editor, nil, nil), editRequest(values))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, editor.updates)
	assert.Contains(t, rec.Body.String(), "Project name is required")
}

func TestProjectDeleteHandlers(t *testing.T) {
	rec := serve(ProjectDeletePageQueryHandler(), httptest.NewRequest(http.MethodGet, "/project/delete?id=42", nil))
	assert.Contains(t, rec.Body.String(), "Are you sure you want to delete project 42?")

	rec = serve(ProjectDeleteCommandHandler(), httptest.NewRequest(http.MethodPost, "/project/delete?id=42", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/project", location.Path)
	assert.Equal(t, "1", location.Query().Get("reload"))
	assert.Equal(t, deleteNotSupported, location.Query().Get("status"))

	rec = serve(ProjectDeletePageQueryHandler(), httptest.NewRequest(http.MethodGet, "/project/delete?id=abc", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestProjectViewPageQueryHandler(t *testing.T) {
	editor := &fakeEditor{load: projectinfra.LoadResult{Kind: projectinfra.Found, Project: sampleProject()}}
	rec := serve(ProjectViewPageQueryHandler(editor, time.UTC), httptest.NewRequest(http.MethodGet, "/project/view?id=42", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "Project Information")
	assert.Contains(t, body, "Prime Land")
	assert.Contains(t, body, "Active")
	assert.Contains(t, body, "Phase two")

	editor.load = projectinfra.LoadResult{Kind: projectinfra.TransportError, Err: context.DeadlineExceeded}
	rec = serve(ProjectViewPageQueryHandler(editor, time.UTC), httptest.NewRequest(http.MethodGet, "/project/view?id=42", nil))
	assert.Contains(t, rec.Body.String(), "Could not load the project. Please try again.")
}
