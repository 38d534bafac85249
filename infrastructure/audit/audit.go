package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"estateadmin/models"
)

// Entry is one change to record. Before and After are stored as JSON; nil
// values are stored empty.
type Entry struct {
	UserID     int64
	Action     string
	EntityType string
	EntityID   string
	Before     any
	After      any
}

// Service writes audit records inside the caller transaction.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Write(ctx context.Context, tx bun.Tx, e Entry) error {
	if e.Action == "" || e.EntityType == "" {
		return errors.New("audit: action and entity type are required")
	}
	beforeJSON, err := marshal(e.Before)
	if err != nil {
		return fmt.Errorf("audit: encode before: %w", err)
	}
	afterJSON, err := marshal(e.After)
	if err != nil {
		return fmt.Errorf("audit: encode after: %w", err)
	}
	_, err = tx.NewInsert().Model(&models.AuditLog{
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		BeforeJSON: beforeJSON,
		AfterJSON:  afterJSON,
	}).Exec(ctx)
	return err
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
