package projects

import (
	"strconv"
	"strings"
	"time"

	"estateadmin/models"
)

const notAvailable = "N/A"

// CellKind selects how a cell is styled.
type CellKind int

const (
	CellPlain CellKind = iota
	CellID
	CellEmphasized
	CellDate
	CellPlaceholder
	CellActive
	CellInactive
)

// Cell is a formatted table value.
type Cell struct {
	Text string
	Kind CellKind
}

// Class maps the kind onto a stylesheet class.
func (c Cell) Class() string {
	switch c.Kind {
	case CellID:
		return "cell-id"
	case CellEmphasized:
		return "cell-name"
	case CellDate:
		return "cell-date"
	case CellPlaceholder:
		return "cell-muted"
	case CellActive:
		return "badge badge-success"
	case CellInactive:
		return "badge badge-error"
	default:
		return "cell-text"
	}
}

func placeholder(text string) Cell {
	return Cell{Text: text, Kind: CellPlaceholder}
}

func textCell(value string, kind CellKind) Cell {
	if strings.TrimSpace(value) == "" {
		return placeholder(notAvailable)
	}
	return Cell{Text: value, Kind: kind}
}

func idCell(id int64) Cell {
	if id == 0 {
		return placeholder(notAvailable)
	}
	return Cell{Text: strconv.FormatInt(id, 10), Kind: CellID}
}

func statusCell(active bool) Cell {
	if active {
		return Cell{Text: "Active", Kind: CellActive}
	}
	return Cell{Text: "Inactive", Kind: CellInactive}
}

func dateCell(raw *string, loc *time.Location) Cell {
	if raw == nil {
		return placeholder(notAvailable)
	}
	formatted, ok := FormatDateTime(*raw, loc)
	if !ok {
		return placeholder(notAvailable)
	}
	return Cell{Text: formatted, Kind: CellDate}
}

// FormatCell renders one field of p.
func FormatCell(p models.Project, key string, loc *time.Location) Cell {
	switch key {
	case "project_id":
		return idCell(p.ProjectID)
	case "developer_id":
		return idCell(p.DeveloperID)
	case "village_id":
		return idCell(p.VillageID)
	case "developer_name":
		return textCell(p.DeveloperName, CellPlain)
	case "village_name":
		return textCell(p.VillageName, CellPlain)
	case "created_by":
		return textCell(p.CreatedBy, CellPlain)
	case "updated_by":
		return textCell(p.UpdatedBy, CellPlain)
	case "project_name":
		if strings.TrimSpace(p.ProjectName) == "" {
			return Cell{Text: "No name", Kind: CellEmphasized}
		}
		return Cell{Text: p.ProjectName, Kind: CellEmphasized}
	case "project_description":
		if strings.TrimSpace(p.ProjectDescription) == "" {
			return placeholder("No description")
		}
		return Cell{Text: p.ProjectDescription, Kind: CellPlain}
	case "is_active":
		return statusCell(p.IsActive)
	case "created_date":
		return dateCell(&p.CreatedDate, loc)
	case "last_update":
		return dateCell(p.LastUpdate, loc)
	default:
		return placeholder(notAvailable)
	}
}

// FormatRows renders the visible columns of every row.
func FormatRows(rows []models.Project, columns []Column, loc *time.Location) []RowView {
	out := make([]RowView, 0, len(rows))
	for _, p := range rows {
		cells := make([]Cell, 0, len(columns))
		for _, c := range columns {
			cells = append(cells, FormatCell(p, c.Key, loc))
		}
		out = append(out, RowView{ProjectID: p.ProjectID, Cells: cells})
	}
	return out
}

// DisplayLayout is the rendered date-time format.
const DisplayLayout = "1/2/2006, 3:04:05 PM"

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// FormatDateTime parses an ISO-like timestamp and renders it in loc. A space
// between date and time is accepted in place of "T". Timestamps without an
// offset are read in loc; a bare date is read as UTC midnight.
func FormatDateTime(raw string, loc *time.Location) (string, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, ok := ParseDateTime(raw, loc)
	if !ok {
		return "", false
	}
	return t.In(loc).Format(DisplayLayout), true
}

func ParseDateTime(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, false
	}
	v = strings.Replace(v, " ", "T", 1)

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true
	}
	return time.Time{}, false
}
