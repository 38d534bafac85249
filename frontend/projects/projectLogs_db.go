package projects

import (
	"context"
	"strconv"
	"strings"

	"github.com/uptrace/bun"

	"estateadmin/infrastructure/sqlite"
)

const projectLogsLimit = 200

type projectLogRecord struct {
	CreatedAt string `bun:"created_at_display"`
	Actor     string `bun:"actor"`
	Action    string `bun:"action"`
	AfterJSON string `bun:"after_json"`
}

// LoadProjectLogsPageData lists the recorded updates of one project, newest
// first.
func LoadProjectLogsPageData(ctx context.Context, db *sqlite.DB, projectID int64) (ProjectLogsPageData, error) {
	data := ProjectLogsPageData{ProjectID: projectID, Rows: make([]ProjectLogRow, 0)}

	records := make([]projectLogRecord, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			TableExpr("audit_logs AS al").
			Join("LEFT JOIN users AS u ON u.id = al.user_id").
			ColumnExpr("COALESCE(strftime('%Y-%m-%d %H:%M:%S', al.created_at), '') AS created_at_display").
			ColumnExpr("COALESCE(u.username, '') AS actor").
			ColumnExpr("al.action").
			ColumnExpr("COALESCE(al.after_json, '') AS after_json").
			Where("al.entity_type = ?", auditEntityType).
			Where("al.entity_id = ?", strconv.FormatInt(projectID, 10)).
			OrderExpr("al.created_at DESC, al.id DESC").
			Limit(projectLogsLimit).
			Scan(ctx, &records)
	})
	if err != nil {
		return data, err
	}

	for _, rec := range records {
		actor := strings.TrimSpace(rec.Actor)
		if actor == "" {
			actor = "-"
		}
		data.Rows = append(data.Rows, ProjectLogRow{
			CreatedAt: rec.CreatedAt,
			Actor:     actor,
			Action:    rec.Action,
			AfterJSON: strings.TrimSpace(rec.AfterJSON),
		})
	}
	return data, nil
}
