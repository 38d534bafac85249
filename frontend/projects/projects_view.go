package projects

import (
	"html/template"
	"strconv"

	"github.com/a-h/templ"

	"estateadmin/frontend/shared/html"
	"estateadmin/frontend/shared/nav"
	"estateadmin/models"
)

var pageTemplates = template.Must(template.New("projects").Funcs(template.FuncMap{
	"pageURL": func(page int, query string) string {
		return "/project?page=" + strconv.Itoa(page) + "&q=" + template.URLQueryEscaper(query)
	},
}).Parse(`
{{define "banner"}}{{if .}}<div class="banner">{{.}}</div>{{end}}{{end}}

{{define "list"}}
<section class="card">
<div class="card-head">
<h1>Projects</h1>
<form method="get" action="/project" class="search">
<input type="hidden" name="page" value="1">
<input type="search" name="q" value="{{.Table.Query}}" placeholder="Search projects">
<button type="submit">Search</button>
</form>
<a class="button outline" href="/project/export.xlsx">Export</a>
<details class="columns">
<summary>Columns</summary>
<h4>Visible Columns</h4>
<form method="post" action="/project/columns">
{{range .Table.Choices}}<button type="submit" name="column" value="{{.Key}}" class="column-toggle{{if .Visible}} checked{{end}}">{{if .Visible}}&#9745;{{else}}&#9744;{{end}} {{.Label}}</button>
{{end}}</form>
</details>
</div>
{{template "banner" .Message}}
{{template "banner" .Table.FetchError}}
{{if .Table.Loading}}
<div class="state"><p>Loading projects...</p></div>
{{else if .Table.NoData}}
<div class="state empty">
<h3>No Projects Found</h3>
<p>{{.Table.NoDataMessage}}</p>
</div>
{{else}}
<div class="table-wrap">
<table>
<thead><tr>{{range .Table.Columns}}<th>{{.Label}}</th>{{end}}<th class="center">Actions</th></tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .Cells}}<td><span class="{{.Class}}">{{.Text}}</span></td>{{end}}<td class="center actions">
<a href="/project/view?id={{.ProjectID}}">View</a>
<a href="/project/edit?id={{.ProjectID}}">Edit</a>
<a class="danger" href="/project/delete?id={{.ProjectID}}">Delete</a>
</td></tr>
{{end}}</tbody>
</table>
</div>
<div class="pager">
<div class="footer">{{.Table.Footer}}</div>
<div class="pages">
{{if .Table.PreviousDisabled}}<span class="button outline disabled">Previous</span>{{else}}<a class="button outline" href="{{pageURL .Table.PreviousPage .Table.Query}}">Previous</a>{{end}}
{{$current := .Table.Page}}{{$query := .Table.Query}}{{range .Table.PageNumbers}}<a class="button page{{if eq . $current}} primary{{end}}" href="{{pageURL . $query}}">{{.}}</a>
{{end}}
{{if .Table.NextDisabled}}<span class="button outline disabled">Next</span>{{else}}<a class="button outline" href="{{pageURL .Table.NextPage .Table.Query}}">Next</a>{{end}}
</div>
</div>
{{end}}
</section>
{{end}}

{{define "view"}}
<section class="card">
<div class="card-head"><h1>Project Information</h1><a class="button outline" href="/project">Close</a></div>
{{if .LoadError}}{{template "banner" .LoadError}}
{{else if not .Found}}<div class="state"><p>Project not found</p></div>
{{else}}
<div class="profile">
<h3>{{.Project.ProjectName}}</h3>
<p>{{.Project.VillageName}}</p>
<span class="{{.Status.Class}}">{{.Status.Text}}</span>
</div>
<h4>Project Details</h4>
<dl class="details">
{{range .Details}}<div><dt>{{.Label}}</dt><dd>{{.Value}}</dd></div>
{{end}}<div><dt>Status</dt><dd><span class="{{.Status.Class}}">{{.Status.Text}}</span></dd></div>
</dl>
{{if .Project.ProjectDescription}}<h5>Description</h5><p class="description">{{.Project.ProjectDescription}}</p>{{end}}
<p><a href="/project/edit?id={{.ProjectID}}">Edit</a> <a href="/project/logs?id={{.ProjectID}}">Update history</a> <a href="/project/view.pdf?id={{.ProjectID}}" target="_blank">Print</a></p>
{{end}}
</section>
{{end}}

{{define "address-level"}}<div class="field"><label>{{.Label}}</label>
<input type="text" name="{{.Prefix}}_id" value="{{if .Option}}{{.Option.Value}}{{end}}" placeholder="ID">
<input type="text" name="{{.Prefix}}_name" value="{{if .Option}}{{.Option.Label}}{{end}}" placeholder="Name">
</div>{{end}}

{{define "dialog"}}{{if .}}<div class="dialog" role="dialog">
{{if .StatusCode}}<p class="status">Status: {{.StatusCode}}</p>{{end}}
<p class="message">{{.Message}}</p>
{{if .Href}}<a class="button primary" href="{{.Href}}">{{.ButtonText}}</a>{{else}}<a class="button" href="#edit-form">{{.ButtonText}}</a>{{end}}
</div>{{end}}{{end}}

{{define "edit"}}
<section class="card">
<div class="card-head"><h1>Edit Project - {{.Form.ID}}</h1><p>Update the project details below</p></div>
{{if eq .State "loading"}}<p>Loading...</p>
{{else if eq .State "not_found"}}<div class="state"><p>Project not found</p></div>
{{else if eq .State "load_failed"}}<div class="state"><p>{{.Form.LoadError}}</p><a class="button" href="/project/edit?id={{.Form.ID}}">Retry</a></div>
{{else}}
<form id="edit-form" method="post" action="/project/edit?id={{.Form.ID}}">
<input type="hidden" name="developer_id" value="{{.Form.Data.DeveloperID}}">
<fieldset class="address">
<legend>Address Information *</legend>
{{template "address-level" .Province}}
{{template "address-level" .District}}
{{template "address-level" .Commune}}
{{template "address-level" .Village}}
<div class="field"><label>Home Address</label><input type="text" name="home_address" value="{{.Form.Data.Address.HomeAddress}}"></div>
<div class="field"><label>Street Address</label><input type="text" name="street_address" value="{{.Form.Data.Address.StreetAddress}}"></div>
{{if .Form.Errors.Address}}<p class="field-error">{{.Form.Errors.Address}}</p>{{end}}
</fieldset>
<div class="field">
<label for="project_name">Project Name *</label>
<input id="project_name" type="text" name="project_name" value="{{.Form.Data.ProjectName}}" placeholder="Enter project name">
{{if .Form.Errors.ProjectName}}<p class="field-error">{{.Form.Errors.ProjectName}}</p>{{end}}
</div>
<div class="field">
<label for="project_description">Project Description *</label>
<textarea id="project_description" name="project_description" rows="4" placeholder="Enter project description">{{.Form.Data.ProjectDescription}}</textarea>
{{if .Form.Errors.ProjectDescription}}<p class="field-error">{{.Form.Errors.ProjectDescription}}</p>{{end}}
</div>
<div class="field switch">
<label for="is_active">Status</label>
<p>Enable or disable this project</p>
<label><input id="is_active" type="checkbox" name="is_active" value="on"{{if .Form.Data.IsActive}} checked{{end}}> Active</label>
</div>
<div class="form-actions">
<a class="button outline" href="/project">Cancel</a>
<button type="submit" data-busy="Updating...">Update Project</button>
</div>
</form>
{{end}}
{{template "dialog" .Form.Dialog}}
</section>
{{end}}

{{define "delete"}}
<section class="card">
<h1>Delete Project</h1>
<p>{{.Prompt}}</p>
<form method="post" action="/project/delete?id={{.ProjectID}}">
<a class="button outline" href="/project">Cancel</a>
<button type="submit" class="danger">OK</button>
</form>
</section>
{{end}}

{{define "logs"}}
<section class="card">
<div class="card-head"><h1>Update history - {{.ProjectID}}</h1><a class="button outline" href="/project/view?id={{.ProjectID}}">Back</a></div>
{{if .Rows}}
<table>
<thead><tr><th>When</th><th>User</th><th>Action</th><th>Payload</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.CreatedAt}}</td><td>{{.Actor}}</td><td>{{.Action}}</td><td><code>{{.AfterJSON}}</code></td></tr>
{{end}}</tbody>
</table>
{{else}}<div class="state"><p>No updates recorded.</p></div>{{end}}
</section>
{{end}}
`))

func page(title string, topNav nav.TopNavData, name string, data any) templ.Component {
	return html.Layout(title, topNav, html.TemplateComponent(pageTemplates, name, data))
}

// ProjectsPage renders the listing.
func ProjectsPage(topNav nav.TopNavData, data ListPageData) templ.Component {
	return page("Projects", topNav, "list", data)
}

// ProjectViewPage renders the read-only details.
func ProjectViewPage(topNav nav.TopNavData, data ViewPageData) templ.Component {
	return page("Project Information", topNav, "view", data)
}

type addressLevel struct {
	Label  string
	Prefix string
	Option *models.Option
}

type editView struct {
	Form     *EditForm
	State    string
	Province addressLevel
	District addressLevel
	Commune  addressLevel
	Village  addressLevel
}

// ProjectEditPage renders the edit form in its current state.
func ProjectEditPage(topNav nav.TopNavData, form *EditForm) templ.Component {
	addr := form.Data.Address
	view := editView{
		Form:     form,
		State:    form.State.String(),
		Province: addressLevel{Label: "Province", Prefix: "province", Option: addr.Province},
		District: addressLevel{Label: "District", Prefix: "district", Option: addr.District},
		Commune:  addressLevel{Label: "Commune", Prefix: "commune", Option: addr.Commune},
		Village:  addressLevel{Label: "Village", Prefix: "village", Option: addr.Village},
	}
	return page("Edit Project", topNav, "edit", view)
}

// ProjectDeletePage asks for confirmation.
func ProjectDeletePage(topNav nav.TopNavData, data DeletePageData) templ.Component {
	return page("Delete Project", topNav, "delete", data)
}

// ProjectLogsPage lists recorded updates.
func ProjectLogsPage(topNav nav.TopNavData, data ProjectLogsPageData) templ.Component {
	return page("Update history", topNav, "logs", data)
}
