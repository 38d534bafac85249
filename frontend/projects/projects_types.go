package projects

import (
	"fmt"

	"estateadmin/models"
)

// PageSize is the fixed number of rows per listing page.
const PageSize = 10

// Column is one selectable table column.
type Column struct {
	Key   string
	Label string
}

// AllColumns is the fixed, ordered column superset.
var AllColumns = []Column{
	{Key: "project_id", Label: "Project ID"},
	{Key: "developer_id", Label: "Developer ID"},
	{Key: "developer_name", Label: "Developer Name"},
	{Key: "village_id", Label: "Village ID"},
	{Key: "village_name", Label: "Village Name"},
	{Key: "project_name", Label: "Project Name"},
	{Key: "project_description", Label: "Description"},
	{Key: "is_active", Label: "Status"},
	{Key: "created_by", Label: "Created By"},
	{Key: "created_date", Label: "Created Date"},
	{Key: "updated_by", Label: "Updated By"},
	{Key: "last_update", Label: "Last Update"},
}

// DefaultVisibleColumns hides only the raw developer and village ids.
var DefaultVisibleColumns = []string{
	"project_id",
	"developer_name",
	"project_name",
	"project_description",
	"village_name",
	"is_active",
	"created_by",
	"created_date",
	"updated_by",
	"last_update",
}

func isKnownColumn(key string) bool {
	for _, c := range AllColumns {
		if c.Key == key {
			return true
		}
	}
	return false
}

// ColumnChoice is a column as offered by the column selector.
type ColumnChoice struct {
	Column
	Visible bool
}

// TableSnapshot is a consistent copy of a Table's state.
type TableSnapshot struct {
	Page       int
	PageSize   int
	Query      string
	TotalRow   int
	Rows       []models.Project
	Columns    []Column
	Choices    []ColumnChoice
	Loading    bool
	FetchError string
}

// TotalPages is ceil(TotalRow / PageSize).
func (s TableSnapshot) TotalPages() int {
	if s.TotalRow <= 0 || s.PageSize <= 0 {
		return 0
	}
	return (s.TotalRow + s.PageSize - 1) / s.PageSize
}

// PageNumbers lists one entry per page button.
func (s TableSnapshot) PageNumbers() []int {
	n := s.TotalPages()
	pages := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, i)
	}
	return pages
}

// NoData is the empty state, distinct from loading.
func (s TableSnapshot) NoData() bool {
	return !s.Loading && len(s.Rows) == 0
}

func (s TableSnapshot) PreviousDisabled() bool {
	return s.Page <= 1
}

func (s TableSnapshot) NextDisabled() bool {
	return s.Page >= s.TotalPages()
}

func (s TableSnapshot) PreviousPage() int {
	return max(1, s.Page-1)
}

func (s TableSnapshot) NextPage() int {
	return max(1, min(s.TotalPages(), s.Page+1))
}

// Footer reads "Showing {from} to {to} of {total} projects".
func (s TableSnapshot) Footer() string {
	from := (s.Page-1)*s.PageSize + 1
	to := min(from-1+s.PageSize, s.TotalRow)
	return fmt.Sprintf("Showing %d to %d of %d projects", from, to, s.TotalRow)
}

// NoDataMessage explains the empty state.
func (s TableSnapshot) NoDataMessage() string {
	if s.Query != "" {
		return `No projects match "` + s.Query + `"`
	}
	return "No projects available."
}

// ListPageData feeds the listing page.
type ListPageData struct {
	Message string
	Table   TableSnapshot
	Rows    []RowView
}

// RowView is one rendered table row.
type RowView struct {
	ProjectID int64
	Cells     []Cell
}

// ViewPageData feeds the read-only project page.
type ViewPageData struct {
	ProjectID int64
	Found     bool
	LoadError string
	Details   []DetailItem
	Project   models.Project
	Status    Cell
}

// DetailItem is one labelled value of the view page.
type DetailItem struct {
	Label string
	Value string
}

// DeletePageData feeds the delete confirmation page.
type DeletePageData struct {
	ProjectID int64
	Prompt    string
}

// ProjectLogsPageData is the update history of one project.
type ProjectLogsPageData struct {
	ProjectID int64
	Rows      []ProjectLogRow
}

// ProjectLogRow is one recorded update; AfterJSON is the submitted payload.
type ProjectLogRow struct {
	CreatedAt string
	Actor     string
	Action    string
	AfterJSON string
}
