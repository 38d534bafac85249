package projects

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"estateadmin/infrastructure/api"
	projectinfra "estateadmin/infrastructure/project"
	"estateadmin/models"
)

// FormState is the edit form lifecycle.
type FormState int

const (
	StateLoading FormState = iota
	StateNotFound
	StateLoadFailed
	StateEditing
	StateSaving
	StateSuccess
	StateFailed
)

func (s FormState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateNotFound:
		return "not_found"
	case StateLoadFailed:
		return "load_failed"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateSuccess:
		return "success"
	default:
		return "failed"
	}
}

const (
	msgNameRequired        = "Project name is required"
	msgDescriptionRequired = "Description is required"
	msgAddressRequired     = "Complete address information is required"
	msgUpdateSucceeded     = "Project has been updated successfully!"
	msgUpdateFailed        = "Failed to update project."
)

// ProjectsListReloadURL returns to the listing and forces a fetch.
const ProjectsListReloadURL = "/project?reload=1"

// Editor loads and updates single projects.
type Editor interface {
	FindByID(ctx context.Context, id int64) projectinfra.LoadResult
	Update(ctx context.Context, in projectinfra.UpdateInput) error
}

// FormData is the editable state. DeveloperID is carried from the loaded
// record and sent back unchanged.
type FormData struct {
	DeveloperID        int64
	ProjectName        string
	ProjectDescription string
	Address            models.Address
	IsActive           bool
}

// FormErrors holds per-field validation messages.
type FormErrors struct {
	ProjectName        string
	ProjectDescription string
	Address            string
}

func (e FormErrors) Empty() bool {
	return e.ProjectName == "" && e.ProjectDescription == "" && e.Address == ""
}

// Dialog is the outcome shown after a submit.
type Dialog struct {
	StatusCode int
	Message    string
	ButtonText string
	Href       string
}

// EditForm is one edit page.
type EditForm struct {
	ID        int64
	State     FormState
	Data      FormData
	Errors    FormErrors
	Dialog    *Dialog
	LoadError string
}

// FormDataFromProject seeds the form. Only the village of the address is
// known from the record.
func FormDataFromProject(p models.Project) FormData {
	data := FormData{
		DeveloperID:        p.DeveloperID,
		ProjectName:        p.ProjectName,
		ProjectDescription: p.ProjectDescription,
		IsActive:           p.IsActive,
	}
	if p.VillageID != 0 {
		data.Address.Village = &models.Option{
			Value: strconv.FormatInt(p.VillageID, 10),
			Label: p.VillageName,
		}
	}
	return data
}

// LoadEditForm resolves the loading state from the lookup result.
func LoadEditForm(ctx context.Context, editor Editor, id int64) *EditForm {
	form := &EditForm{ID: id, State: StateLoading}
	if id <= 0 {
		form.State = StateNotFound
		return form
	}

	result := editor.FindByID(ctx, id)
	switch result.Kind {
	case projectinfra.Found:
		form.State = StateEditing
		form.Data = FormDataFromProject(result.Project)
	case projectinfra.NotFound:
		form.State = StateNotFound
	default:
		slog.Error("load project for edit failed", slog.Int64("project_id", id), slog.Any("err", result.Err))
		form.State = StateLoadFailed
		form.LoadError = "Could not load the project. Please try again."
	}
	return form
}

// Validate checks presence only. The address counts as complete once
// province and district are picked.
func (d FormData) Validate() FormErrors {
	var errs FormErrors
	if strings.TrimSpace(d.ProjectName) == "" {
		errs.ProjectName = msgNameRequired
	}
	if strings.TrimSpace(d.ProjectDescription) == "" {
		errs.ProjectDescription = msgDescriptionRequired
	}
	if d.Address.Province == nil || d.Address.District == nil {
		errs.Address = msgAddressRequired
	}
	return errs
}

// UpdateInput is the payload sent for d.
func (d FormData) UpdateInput(id int64) projectinfra.UpdateInput {
	villageID := ""
	if d.Address.Village != nil {
		villageID = d.Address.Village.Value
	}
	return projectinfra.UpdateInput{
		ProjectID:          id,
		DeveloperID:        d.DeveloperID,
		VillageID:          villageID,
		ProjectName:        d.ProjectName,
		ProjectDescription: d.ProjectDescription,
		IsActive:           d.IsActive,
	}
}

// Submit validates data and, when valid, sends the update. It reports
// whether the update succeeded. A failed submit leaves the form editable.
func (f *EditForm) Submit(ctx context.Context, editor Editor, data FormData) bool {
	if f.State != StateEditing && f.State != StateFailed {
		return false
	}
	f.Data = data
	f.Dialog = nil
	f.Errors = data.Validate()
	if !f.Errors.Empty() {
		f.State = StateEditing
		return false
	}

	f.State = StateSaving
	if err := editor.Update(ctx, data.UpdateInput(f.ID)); err != nil {
		slog.Warn("project update failed", slog.Int64("project_id", f.ID), slog.Any("err", err))
		f.State = StateFailed
		f.Dialog = failureDialog(err)
		return false
	}

	f.State = StateSuccess
	f.Dialog = &Dialog{
		StatusCode: 200,
		Message:    msgUpdateSucceeded,
		ButtonText: "Go to Projects",
		Href:       ProjectsListReloadURL,
	}
	return true
}

// Editable reports whether the form fields are rendered.
func (f *EditForm) Editable() bool {
	switch f.State {
	case StateEditing, StateSaving, StateFailed, StateSuccess:
		return true
	default:
		return false
	}
}

func failureDialog(err error) *Dialog {
	d := &Dialog{Message: msgUpdateFailed, ButtonText: "Okay, Got It"}
	if status, message, ok := api.StatusOf(err); ok {
		d.StatusCode = status
		if message != "" {
			d.Message = message
		}
	}
	return d
}

func parseOption(values url.Values, prefix string) *models.Option {
	value := strings.TrimSpace(values.Get(prefix + "_id"))
	if value == "" {
		return nil
	}
	label := strings.TrimSpace(values.Get(prefix + "_name"))
	if label == "" {
		label = value
	}
	return &models.Option{Value: value, Label: label}
}

// ParseFormData reads a submitted edit form.
func ParseFormData(values url.Values) FormData {
	developerID, _ := strconv.ParseInt(strings.TrimSpace(values.Get("developer_id")), 10, 64)
	return FormData{
		DeveloperID:        developerID,
		ProjectName:        values.Get("project_name"),
		ProjectDescription: values.Get("project_description"),
		IsActive:           parseCheckbox(values.Get("is_active")),
		Address: models.Address{
			Province:      parseOption(values, "province"),
			District:      parseOption(values, "district"),
			Commune:       parseOption(values, "commune"),
			Village:       parseOption(values, "village"),
			HomeAddress:   strings.TrimSpace(values.Get("home_address")),
			StreetAddress: strings.TrimSpace(values.Get("street_address")),
		},
	}
}

func parseCheckbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
