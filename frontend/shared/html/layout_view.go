package html

import (
	"bytes"
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"estateadmin/frontend/shared/nav"
)

var layoutTemplate = template.Must(template.New("layout").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/assets/app.css">
</head>
<body>
{{if .Nav.Username}}<header class="topnav">
<a class="brand" href="/project">Estate Admin</a>
<nav>{{range .Nav.Links}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>{{end}}</nav>
<form method="post" action="/logout" class="logout"><span>{{.Nav.Username}}</span><button type="submit">Sign out</button></form>
</header>{{end}}
<main>
{{.Body}}
</main>
{{.Script}}
</body>
</html>`))

// Layout wraps body in the application shell.
func Layout(title string, topNav nav.TopNavData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := body.Render(ctx, &buf); err != nil {
			return err
		}
		return layoutTemplate.Execute(w, struct {
			Title  string
			Nav    nav.TopNavData
			Body   template.HTML
			Script template.HTML
		}{
			Title:  title,
			Nav:    topNav,
			Body:   template.HTML(buf.String()),
			Script: CSRFFormScript(),
		})
	})
}

// TemplateComponent renders the named template of t with data.
func TemplateComponent(t *template.Template, name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, name, data)
	})
}
