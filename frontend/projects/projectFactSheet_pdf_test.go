package projects

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	projectinfra "estateadmin/infrastructure/project"
)

func TestRenderProjectFactSheetPDF_GeneratesPDF(t *testing.T) {
	t.Parallel()

	p := sampleProject()
	pdf, code, err := renderProjectFactSheetPDF(FactSheetData{
		ProjectID:   p.ProjectID,
		ProjectName: p.ProjectName,
		VillageName: "Chbar Ampóv",
		Description: p.ProjectDescription,
		Status:      "Active",
		Details:     projectDetails(p, time.UTC),
	}, time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Equal(t, "PRJ00000042", code)
}

func TestRenderProjectFactSheetPDF_RequiresID(t *testing.T) {
	t.Parallel()

	_, _, err := renderProjectFactSheetPDF(FactSheetData{}, time.Now())
	assert.Error(t, err)
}

func TestProjectFactSheetQueryHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		editor := &fakeEditor{load: projectinfra.LoadResult{Kind: projectinfra.Found, Project: sampleProject()}}
		rec := serve(ProjectFactSheetQueryHandler(editor, time.UTC), httptest.NewRequest(http.MethodGet, "/project/view.pdf?id=42", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, pdfContentType, rec.Header().Get("Content-Type"))
		assert.Equal(t, "inline; filename=project-PRJ00000042.pdf", rec.Header().Get("Content-Disposition"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
		assert.Equal(t, []int64{42}, editor.loads)
	})

	t.Run("not found", func(t *testing.T) {
		editor := &fakeEditor{load: projectinfra.LoadResult{Kind: projectinfra.NotFound}}
		rec := serve(ProjectFactSheetQueryHandler(editor, time.UTC), httptest.NewRequest(http.MethodGet, "/project/view.pdf?id=42", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("transport error", func(t *testing.T) {
		editor := &fakeEditor{load: projectinfra.LoadResult{Kind: projectinfra.TransportError, Err: errors.New("timeout")}}
		rec := serve(ProjectFactSheetQueryHandler(editor, time.UTC), httptest.NewRequest(http.MethodGet, "/project/view.pdf?id=42", nil))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		editor := &fakeEditor{}
		rec := serve(ProjectFactSheetQueryHandler(editor, time.UTC), httptest.NewRequest(http.MethodGet, "/project/view.pdf?id=abc", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Empty(t, editor.loads)
	})
}
