package html

import (
	"bytes"
	"context"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estateadmin/frontend/shared/nav"
)

func TestLayout(t *testing.T) {
	body := TemplateComponent(template.Must(template.New("body").Parse(`<p>{{.}}</p>`)), "body", "<hello>")

	var buf bytes.Buffer
	require.NoError(t, Layout("Projects", nav.TopNavData{Username: "admin"}, body).Render(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, "<title>Projects</title>")
	assert.Contains(t, out, "<p>&lt;hello&gt;</p>")
	assert.Contains(t, out, `action="/logout"`)
	assert.Contains(t, out, "X-CSRF-Token")
}

func TestLayout_AnonymousHasNoNav(t *testing.T) {
	body := TemplateComponent(template.Must(template.New("body").Parse(`ok`)), "body", nil)

	var buf bytes.Buffer
	require.NoError(t, Layout("Sign in", nav.TopNavData{}, body).Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), `action="/logout"`)
}

func TestCSRFFormScript(t *testing.T) {
	script := string(CSRFFormScript())
	assert.Contains(t, script, `var cookieName = "X-CSRF-Token";`)
	assert.Contains(t, script, `var fieldName = "_csrf";`)
	assert.Contains(t, script, "dataset.busy")
}
