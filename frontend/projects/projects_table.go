package projects

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	projectinfra "estateadmin/infrastructure/project"
	"estateadmin/models"
)

// Lister fetches one page of projects.
type Lister interface {
	List(ctx context.Context, page, pageSize int, query string) (projectinfra.ListResult, error)
}

const fetchFailedMessage = "Failed to load projects."

type fetch struct {
	seq  uint64
	done chan struct{}
}

// Table is the listing state of one session. Every change of page or query
// issues one fetch; only the most recently issued fetch may update the rows.
type Table struct {
	mu sync.Mutex

	page    int
	query   string
	visible map[string]bool

	rows     []models.Project
	totalRow int
	loaded   bool
	fetchErr string

	seq     uint64
	current *fetch
}

func NewTable() *Table {
	visible := make(map[string]bool, len(DefaultVisibleColumns))
	for _, key := range DefaultVisibleColumns {
		visible[key] = true
	}
	return &Table{page: 1, visible: visible, rows: []models.Project{}}
}

// Navigate moves the table to page and query. A fetch is issued when either
// changed, when nothing was loaded yet, when the last fetch failed, or when
// reload is set.
func (t *Table) Navigate(ctx context.Context, lister Lister, page int, query string, reload bool) TableSnapshot {
	if page < 1 {
		page = 1
	}

	t.mu.Lock()
	changed := page != t.page || query != t.query
	if !changed && !reload && t.loaded && t.fetchErr == "" && t.current == nil {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return snap
	}
	if !changed && !reload && t.current != nil {
		// Same state is already being fetched; wait for it.
		t.mu.Unlock()
		return t.await(ctx)
	}
	t.page = page
	t.query = query
	f := t.issueLocked()
	t.mu.Unlock()

	result, err := lister.List(ctx, page, PageSize, query)
	if err != nil && ctx.Err() != nil {
		t.abandon(f)
		return t.Snapshot()
	}
	t.resolve(f, result, err)
	return t.await(ctx)
}

// abandon drops f without applying a result. The table is left unloaded so
// the next Navigate fetches again.
func (t *Table) abandon(f *fetch) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer close(f.done)

	if t.current != f {
		return
	}
	slog.Debug("project page fetch abandoned", slog.Uint64("seq", f.seq), slog.Int("page", t.page))
	t.current = nil
	t.loaded = false
	t.rows = []models.Project{}
	t.totalRow = 0
	t.fetchErr = ""
}

func (t *Table) issueLocked() *fetch {
	t.seq++
	f := &fetch{seq: t.seq, done: make(chan struct{})}
	t.current = f
	return f
}

// resolve applies the result of f unless a newer fetch was issued.
func (t *Table) resolve(f *fetch, result projectinfra.ListResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer close(f.done)

	if t.current != f {
		slog.Debug("stale project page discarded", slog.Uint64("seq", f.seq), slog.Uint64("latest", t.seq))
		return
	}
	t.current = nil
	t.loaded = true
	if err != nil {
		slog.Error("fetch projects failed", slog.Int("page", t.page), slog.String("query", t.query), slog.Any("err", err))
		t.rows = []models.Project{}
		t.totalRow = 0
		t.fetchErr = fetchFailedMessage
		return
	}
	t.rows = result.Rows
	if t.rows == nil {
		t.rows = []models.Project{}
	}
	t.totalRow = result.TotalRow
	t.fetchErr = ""
}

// await returns once no fetch is outstanding, or when ctx ends.
func (t *Table) await(ctx context.Context) TableSnapshot {
	for {
		t.mu.Lock()
		f := t.current
		if f == nil {
			snap := t.snapshotLocked()
			t.mu.Unlock()
			return snap
		}
		t.mu.Unlock()

		select {
		case <-f.done:
		case <-ctx.Done():
			return t.Snapshot()
		}
	}
}

// ToggleColumn flips the visibility of one column. It never fetches.
func (t *Table) ToggleColumn(key string) error {
	if !isKnownColumn(key) {
		return fmt.Errorf("unknown column %q", key)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.visible[key] {
		delete(t.visible, key)
	} else {
		t.visible[key] = true
	}
	return nil
}

func (t *Table) Snapshot() TableSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Table) snapshotLocked() TableSnapshot {
	rows := make([]models.Project, len(t.rows))
	copy(rows, t.rows)

	columns := make([]Column, 0, len(t.visible))
	choices := make([]ColumnChoice, 0, len(AllColumns))
	for _, c := range AllColumns {
		visible := t.visible[c.Key]
		if visible {
			columns = append(columns, c)
		}
		choices = append(choices, ColumnChoice{Column: c, Visible: visible})
	}

	return TableSnapshot{
		Page:       t.page,
		PageSize:   PageSize,
		Query:      t.query,
		TotalRow:   t.totalRow,
		Rows:       rows,
		Columns:    columns,
		Choices:    choices,
		Loading:    t.current != nil || !t.loaded,
		FetchError: t.fetchErr,
	}
}
