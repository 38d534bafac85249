package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"estateadmin/infrastructure/api"
	"estateadmin/models"
)

const (
	PaginationPath = "/project/pagination"
	UpdatePath     = "/project/update"

	// SearchByID targets the project_id field instead of the default fields.
	SearchByID = "project_id"
)

// LoadKind tags the outcome of FindByID.
type LoadKind int

const (
	Found LoadKind = iota
	NotFound
	TransportError
)

func (k LoadKind) String() string {
	switch k {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	default:
		return "transport_error"
	}
}

// LoadResult is what FindByID resolved to. Project is set only for Found,
// Err only for TransportError.
type LoadResult struct {
	Kind    LoadKind
	Project models.Project
	Err     error
}

// ListResult is one page of the project listing.
type ListResult struct {
	Rows     []models.Project
	TotalRow int
}

// UpdateInput is the full-record update payload.
type UpdateInput struct {
	ProjectID          int64
	DeveloperID        int64
	VillageID          string
	ProjectName        string
	ProjectDescription string
	IsActive           bool
}

// UpdateBody is the wire form of an update, as sent to the backend.
type UpdateBody struct {
	ProjectID          string `json:"project_id"`
	DeveloperID        string `json:"developer_id"`
	VillageID          string `json:"village_id"`
	ProjectName        string `json:"project_name"`
	ProjectDescription string `json:"project_description"`
	IsActive           bool   `json:"is_active"`
}

// Body converts the input to its wire form.
func (in UpdateInput) Body() UpdateBody {
	return UpdateBody{
		ProjectID:          strconv.FormatInt(in.ProjectID, 10),
		DeveloperID:        strconv.FormatInt(in.DeveloperID, 10),
		VillageID:          strings.TrimSpace(in.VillageID),
		ProjectName:        in.ProjectName,
		ProjectDescription: in.ProjectDescription,
		IsActive:           in.IsActive,
	}
}

// Repository reads and updates projects on the backend.
type Repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) *Repository {
	return &Repository{client: client}
}

// List fetches one page, searching the backend's default fields for query.
func (r *Repository) List(ctx context.Context, page, pageSize int, query string) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	req := api.NewPageRequest(page, pageSize).WithSearch("", query)
	slog.Debug("project list request", slog.String("page_number", req.PageNumber), slog.String("page_size", req.PageSize), slog.String("query_search", query))

	result, err := api.FetchPage[models.Project](ctx, r.client, PaginationPath, req)
	if err != nil {
		return ListResult{}, fmt.Errorf("list projects: %w", err)
	}
	if !result.HasData {
		return ListResult{Rows: []models.Project{}}, nil
	}
	return ListResult{Rows: result.Rows, TotalRow: result.TotalRow}, nil
}

// FindByID loads one project through the pagination endpoint restricted to
// project_id. A response without a first record is NotFound.
func (r *Repository) FindByID(ctx context.Context, id int64) LoadResult {
	req := api.NewPageRequest(1, 10).WithSearch(SearchByID, strconv.FormatInt(id, 10))
	result, err := api.FetchPage[models.Project](ctx, r.client, PaginationPath, req)
	if err != nil {
		return LoadResult{Kind: TransportError, Err: fmt.Errorf("load project %d: %w", id, err)}
	}
	if len(result.Rows) == 0 {
		return LoadResult{Kind: NotFound}
	}
	return LoadResult{Kind: Found, Project: result.Rows[0]}
}

// Update sends the full record. Identifiers travel as strings.
func (r *Repository) Update(ctx context.Context, in UpdateInput) error {
	if in.ProjectID <= 0 {
		return errors.New("project id is required")
	}
	if err := r.client.Put(ctx, UpdatePath, in.Body(), nil); err != nil {
		return fmt.Errorf("update project %d: %w", in.ProjectID, err)
	}
	return nil
}
