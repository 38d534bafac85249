package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"estateadmin/infrastructure/api"
	"estateadmin/infrastructure/kvstore"
)

// DropdownCacheKey is the single store key holding all reference datasets.
const DropdownCacheKey = "dropdownData"

const referencePageSize = 100

// RefreshPolicy decides what Refresh does when some datasets fail.
type RefreshPolicy int

const (
	// CarryForward writes whatever succeeded and keeps the previously cached
	// value of each failed dataset.
	CarryForward RefreshPolicy = iota
	// AllOrNothing leaves the cache untouched when any dataset fails.
	AllOrNothing
)

// ParseRefreshPolicy maps the configured policy name.
func ParseRefreshPolicy(name string) (RefreshPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "carry-forward":
		return CarryForward, nil
	case "all-or-nothing":
		return AllOrNothing, nil
	default:
		return 0, fmt.Errorf("unknown refresh policy %q", name)
	}
}

// DropdownData is the persisted record. Each value holds raw option records.
type DropdownData struct {
	ProjectOptions       []json.RawMessage `json:"projectOptions"`
	PropertyTypeOptions  []json.RawMessage `json:"propertyTypeOptions"`
	StatusOptions        []json.RawMessage `json:"statusOptions"`
	StaffOptions         []json.RawMessage `json:"staffOptions"`
	ContactResultOptions []json.RawMessage `json:"contactResultOptions"`
}

// Dataset is one reference table fetched by Refresh.
type Dataset struct {
	Name string
	Path string
	Key  string
	slot func(d *DropdownData) *[]json.RawMessage
}

// Datasets lists every reference dataset in fetch order.
var Datasets = []Dataset{
	{Name: "project", Path: "/project/pagination", Key: "projectOptions", slot: func(d *DropdownData) *[]json.RawMessage { return &d.ProjectOptions }},
	{Name: "property-type", Path: "/property-type/pagination", Key: "propertyTypeOptions", slot: func(d *DropdownData) *[]json.RawMessage { return &d.PropertyTypeOptions }},
	{Name: "property-status", Path: "/property-status/pagination", Key: "statusOptions", slot: func(d *DropdownData) *[]json.RawMessage { return &d.StatusOptions }},
	{Name: "staff", Path: "/staff/pagination", Key: "staffOptions", slot: func(d *DropdownData) *[]json.RawMessage { return &d.StaffOptions }},
	{Name: "contact-result", Path: "/contact-result/pagination", Key: "contactResultOptions", slot: func(d *DropdownData) *[]json.RawMessage { return &d.ContactResultOptions }},
}

// Options returns the cached options of the named dataset.
func (d DropdownData) Options(dataset string) ([]json.RawMessage, bool) {
	for _, ds := range Datasets {
		if ds.Name == dataset {
			return *ds.slot(&d), true
		}
	}
	return nil, false
}

// PartialRefreshError reports datasets that failed during a refresh that
// still wrote the cache.
type PartialRefreshError struct {
	Failed map[string]error
}

func (e *PartialRefreshError) Error() string {
	names := e.FailedDatasets()
	return fmt.Sprintf("dropdown refresh: %d of %d datasets failed: %s", len(names), len(Datasets), strings.Join(names, ", "))
}

func (e *PartialRefreshError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, name := range e.FailedDatasets() {
		errs = append(errs, e.Failed[name])
	}
	return errs
}

// FailedDatasets returns the failed dataset names, sorted.
func (e *PartialRefreshError) FailedDatasets() []string {
	names := make([]string, 0, len(e.Failed))
	for name := range e.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PageQuerier fetches one page of raw records.
type PageQuerier interface {
	FetchRaw(ctx context.Context, path string, req api.PageRequest) (api.Page[json.RawMessage], error)
}

// ClientQuerier adapts api.Client to PageQuerier.
type ClientQuerier struct {
	Client *api.Client
}

func (q ClientQuerier) FetchRaw(ctx context.Context, path string, req api.PageRequest) (api.Page[json.RawMessage], error) {
	return api.FetchPage[json.RawMessage](ctx, q.Client, path, req)
}

// DropdownCache fetches reference datasets and persists them as one record.
type DropdownCache struct {
	querier PageQuerier
	store   kvstore.Store
	policy  RefreshPolicy
}

func NewDropdownCache(querier PageQuerier, store kvstore.Store, policy RefreshPolicy) *DropdownCache {
	return &DropdownCache{querier: querier, store: store, policy: policy}
}

// Refresh fetches every dataset concurrently and overwrites the cached
// record. Under CarryForward a partial failure still writes the record and
// returns it together with a *PartialRefreshError. Under AllOrNothing the
// first failure cancels the remaining fetches.
func (c *DropdownCache) Refresh(ctx context.Context) (DropdownData, error) {
	results, failures, err := c.fetchDatasets(ctx)
	if err != nil {
		return DropdownData{}, err
	}

	failed := make(map[string]error)
	for i, err := range failures {
		if err != nil {
			failed[Datasets[i].Name] = err
		}
	}
	if len(failed) == len(Datasets) {
		return DropdownData{}, errors.Join(failures...)
	}

	var previous DropdownData
	if len(failed) > 0 {
		previous, _ = c.Read(ctx)
	}

	var data DropdownData
	for i, ds := range Datasets {
		slot := ds.slot(&data)
		if failures[i] != nil {
			*slot = *ds.slot(&previous)
			if *slot == nil {
				*slot = []json.RawMessage{}
			}
			continue
		}
		*slot = results[i]
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return DropdownData{}, fmt.Errorf("encode dropdown data: %w", err)
	}
	if err := c.store.Set(ctx, DropdownCacheKey, string(raw)); err != nil {
		return DropdownData{}, fmt.Errorf("store dropdown data: %w", err)
	}

	slog.Debug("dropdown cache refreshed",
		slog.Int("projects", len(data.ProjectOptions)),
		slog.Int("property_types", len(data.PropertyTypeOptions)),
		slog.Int("statuses", len(data.StatusOptions)),
		slog.Int("staff", len(data.StaffOptions)),
		slog.Int("contact_results", len(data.ContactResultOptions)),
	)

	if len(failed) > 0 {
		return data, &PartialRefreshError{Failed: failed}
	}
	return data, nil
}

// fetchDatasets runs one page query per dataset. Under AllOrNothing the first
// error is returned; otherwise each dataset's error is reported in failures.
func (c *DropdownCache) fetchDatasets(ctx context.Context) ([][]json.RawMessage, []error, error) {
	results := make([][]json.RawMessage, len(Datasets))
	failures := make([]error, len(Datasets))
	stopOnError := c.policy == AllOrNothing

	g, gctx := errgroup.WithContext(ctx)
	for i, ds := range Datasets {
		g.Go(func() error {
			page, err := c.querier.FetchRaw(gctx, ds.Path, api.NewPageRequest(1, referencePageSize))
			if err != nil {
				err = fmt.Errorf("fetch %s: %w", ds.Name, err)
				if stopOnError {
					return err
				}
				failures[i] = err
				return nil
			}
			results[i] = page.Rows
			if results[i] == nil {
				results[i] = []json.RawMessage{}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, failures, nil
}

// Read returns the cached record. Missing, unreadable or corrupt entries are
// reported as absent.
func (c *DropdownCache) Read(ctx context.Context) (DropdownData, bool) {
	raw, found, err := c.store.Get(ctx, DropdownCacheKey)
	if err != nil {
		slog.Warn("dropdown cache read failed", slog.Any("err", err))
		return DropdownData{}, false
	}
	if !found || raw == "" {
		return DropdownData{}, false
	}

	data, err := decodeDropdownData(raw)
	if err != nil {
		slog.Debug("dropdown cache entry ignored", slog.Any("err", err))
		return DropdownData{}, false
	}
	return data, true
}

// Invalidate removes the cached record.
func (c *DropdownCache) Invalidate(ctx context.Context) error {
	if err := c.store.Delete(ctx, DropdownCacheKey); err != nil {
		return fmt.Errorf("delete dropdown data: %w", err)
	}
	return nil
}

// decodeDropdownData accepts only a record carrying all five dataset arrays.
func decodeDropdownData(raw string) (DropdownData, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return DropdownData{}, err
	}

	var data DropdownData
	for _, ds := range Datasets {
		value, ok := fields[ds.Key]
		if !ok {
			return DropdownData{}, fmt.Errorf("missing %s", ds.Key)
		}
		var options []json.RawMessage
		if err := json.Unmarshal(value, &options); err != nil || options == nil {
			return DropdownData{}, fmt.Errorf("%s is not an array", ds.Key)
		}
		*ds.slot(&data) = options
	}
	return data, nil
}
