package projects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estateadmin/models"
)

func strPtr(s string) *string { return &s }

func TestFormatCell_Dates(t *testing.T) {
	loc := time.UTC
	cases := []struct {
		name string
		raw  *string
		want string
	}{
		{"null last update", nil, "N/A"},
		{"empty", strPtr(""), "N/A"},
		{"unparsable", strPtr("yesterday-ish"), "N/A"},
		{"rfc3339", strPtr("2024-03-05T14:07:09Z"), "3/5/2024, 2:07:09 PM"},
		{"space separated", strPtr("2024-03-05 09:30:00"), "3/5/2024, 9:30:00 AM"},
		{"offset", strPtr("2024-03-05T14:07:09+07:00"), "3/5/2024, 7:07:09 AM"},
		{"fraction", strPtr("2024-12-31T23:59:59.123"), "12/31/2024, 11:59:59 PM"},
		{"date only", strPtr("2024-03-05"), "3/5/2024, 12:00:00 AM"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cell := FormatCell(models.Project{LastUpdate: tc.raw}, "last_update", loc)
			assert.Equal(t, tc.want, cell.Text)
		})
	}
}

func TestFormatDateTime_MatchesParsedInstant(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)

	raw := "2024-06-01T02:03:04Z"
	parsed, err := time.Parse(time.RFC3339, raw)
	require.NoError(t, err)

	got, ok := FormatDateTime(raw, loc)
	require.True(t, ok)
	assert.Equal(t, parsed.In(loc).Format(DisplayLayout), got)
	assert.Equal(t, "6/1/2024, 9:03:04 AM", got)
}

func TestFormatCell_CreatedDate(t *testing.T) {
	assert.Equal(t, "N/A", FormatCell(models.Project{}, "created_date", time.UTC).Text)
	assert.Equal(t, CellPlaceholder, FormatCell(models.Project{CreatedDate: "bad"}, "created_date", time.UTC).Kind)
}

func TestFormatCell_Values(t *testing.T) {
	p := models.Project{
		ProjectID:     42,
		DeveloperName: "Prime Land",
		VillageID:     0,
		ProjectName:   "Riverside",
		IsActive:      true,
	}

	assert.Equal(t, Cell{Text: "42", Kind: CellID}, FormatCell(p, "project_id", time.UTC))
	assert.Equal(t, Cell{Text: "Prime Land", Kind: CellPlain}, FormatCell(p, "developer_name", time.UTC))
	assert.Equal(t, Cell{Text: "Riverside", Kind: CellEmphasized}, FormatCell(p, "project_name", time.UTC))
	assert.Equal(t, Cell{Text: "Active", Kind: CellActive}, FormatCell(p, "is_active", time.UTC))
	assert.Equal(t, "N/A", FormatCell(p, "village_id", time.UTC).Text)
	assert.Equal(t, "N/A", FormatCell(p, "created_by", time.UTC).Text)
	assert.Equal(t, "No description", FormatCell(p, "project_description", time.UTC).Text)
	assert.Equal(t, "N/A", FormatCell(p, "unknown", time.UTC).Text)

	p.IsActive = false
	p.ProjectName = " "
	assert.Equal(t, "Inactive", FormatCell(p, "is_active", time.UTC).Text)
	assert.Equal(t, "No name", FormatCell(p, "project_name", time.UTC).Text)
}

func TestFormatRows_FollowsVisibleColumns(t *testing.T) {
	rows := FormatRows(
		[]models.Project{{ProjectID: 1, ProjectName: "A"}, {ProjectID: 2, ProjectName: "B", IsActive: true}},
		[]Column{{Key: "project_name"}, {Key: "is_active"}},
		time.UTC,
	)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[1].ProjectID)
	assert.Equal(t, []Cell{{Text: "B", Kind: CellEmphasized}, {Text: "Active", Kind: CellActive}}, rows[1].Cells)
}
