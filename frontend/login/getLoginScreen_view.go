package login

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"estateadmin/frontend/shared/html"
	"estateadmin/frontend/shared/nav"
)

// ScreenData is what the sign in form shows after a failed attempt.
type ScreenData struct {
	Error    string
	Username string
}

var loginTemplate = template.Must(template.New("login").Parse(`
<section class="card login">
<h1>Sign in</h1>
{{if .Error}}<div class="banner">{{.Error}}</div>{{end}}
<form method="post" action="/login">
<div class="field"><label for="username">Username</label><input id="username" type="text" name="username" value="{{.Username}}" autocomplete="username" required{{if not .Username}} autofocus{{end}}></div>
<div class="field"><label for="password">Password</label><input id="password" type="password" name="password" autocomplete="current-password" required{{if .Username}} autofocus{{end}}></div>
<button type="submit" data-busy="Signing in...">Sign in</button>
</form>
</section>`))

// GetLoginScreen renders the sign in form.
func GetLoginScreen(data ScreenData) templ.Component {
	return html.Layout("Sign in", nav.TopNavData{}, html.TemplateComponent(loginTemplate, "login", data))
}

// GetLoginScreenHandler renders the login screen.
func GetLoginScreenHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	data := ScreenData{
		Error:    strings.TrimSpace(query.Get("error")),
		Username: strings.TrimSpace(query.Get("username")),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := GetLoginScreen(data).Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render login screen", http.StatusInternalServerError)
		return
	}
}
