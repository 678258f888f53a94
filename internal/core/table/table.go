// Package table implements the admin panel's client-side tabular pipeline:
// free-text filter, stable column sort, then fixed-size pagination. The engine
// is a pure state holder with no I/O, instantiated once per collection.
package table

import (
	"sort"
	"strings"
	"time"
)

// DefaultPageSize matches the panel's seven-row tables.
const DefaultPageSize = 7

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) toggled() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// SortState is the active sort column and direction for one collection.
type SortState struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// QueryState is the live search box content.
type QueryState struct {
	Text string `json:"text"`
}

// PageState is the 1-based page number plus the fixed page size.
type PageState struct {
	Number int `json:"number"`
	Size   int `json:"size"`
}

// PageResult is the computed slice of records plus pagination metadata for one
// render cycle.
type PageResult[R any] struct {
	Rows        []R `json:"rows"`
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}

// Key is a sort key extracted from a record. Exactly one of the typed fields
// is significant, selected by kind.
type Key struct {
	kind keyKind
	str  string
	num  float64
	ts   time.Time
}

type keyKind int

const (
	stringKind keyKind = iota
	numberKind
	timeKind
)

// KeyFunc extracts the sort key for one column from a record.
type KeyFunc[R any] func(R) Key

// StringKey builds a KeyFunc comparing string fields in natural byte order.
func StringKey[R any](f func(R) string) KeyFunc[R] {
	return func(r R) Key { return Key{kind: stringKind, str: f(r)} }
}

// NumberKey builds a KeyFunc comparing numeric fields; missing values should
// be reported as 0 by the extractor.
func NumberKey[R any](f func(R) float64) KeyFunc[R] {
	return func(r R) Key { return Key{kind: numberKind, num: f(r)} }
}

// TimeKey builds a KeyFunc comparing timestamps. A zero time (the mapping for
// invalid or missing dates) sorts as the earliest possible value, so corrupt
// records never break the ordering.
func TimeKey[R any](f func(R) time.Time) KeyFunc[R] {
	return func(r R) Key { return Key{kind: timeKind, ts: f(r)} }
}

// compare returns -1, 0 or 1 for keys of the same kind.
func (k Key) compare(o Key) int {
	switch k.kind {
	case timeKind:
		if k.ts.Before(o.ts) {
			return -1
		}
		if k.ts.After(o.ts) {
			return 1
		}
		return 0
	case numberKind:
		if k.num < o.num {
			return -1
		}
		if k.num > o.num {
			return 1
		}
		return 0
	default:
		return strings.Compare(k.str, o.str)
	}
}

// Config parametrizes an Engine for one record type: which string fields the
// search box matches against, which columns are sortable, and the sort applied
// before the user touches any header.
type Config[R any] struct {
	SearchFields []func(R) string
	SortKeys     map[string]KeyFunc[R]
	DefaultSort  SortState
	PageSize     int
}

// Compute runs the full filter, sort, paginate pipeline. It is deterministic
// and side-effect free; the Engine methods are thin stateful wrappers over it.
//
// A requested page beyond the final page count resets to page 1: after a
// shrinking result set the panel returns to the first page rather than the
// last. An unknown sort column leaves the input order untouched.
func Compute[R any](records []R, cfg Config[R], query QueryState, sortState SortState, page PageState) PageResult[R] {
	filtered := filter(records, cfg.SearchFields, query.Text)
	sorted := sortRecords(filtered, cfg.SortKeys, sortState)

	size := page.Size
	if size <= 0 {
		size = DefaultPageSize
	}

	totalItems := len(sorted)
	totalPages := (totalItems + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	current := page.Number
	if current < 1 || current > totalPages {
		current = 1
	}

	start := (current - 1) * size
	end := start + size
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return PageResult[R]{
		Rows:        sorted[start:end],
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: current,
		PageSize:    size,
	}
}

// filter keeps records where any searchable field contains the case-folded
// query substring. An empty query is an identity pass-through.
func filter[R any](records []R, fields []func(R) string, text string) []R {
	if text == "" {
		return records
	}
	term := strings.ToLower(text)
	out := make([]R, 0, len(records))
	for _, r := range records {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(r)), term) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// sortRecords stable-sorts a copy of the input. Descending order negates the
// comparator rather than reversing the slice, so equal keys keep their
// original relative order in both directions.
func sortRecords[R any](records []R, keys map[string]KeyFunc[R], s SortState) []R {
	out := make([]R, len(records))
	copy(out, records)

	key, ok := keys[s.Column]
	if !ok {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := key(out[i]).compare(key(out[j]))
		if s.Direction == Desc {
			c = -c
		}
		return c < 0
	})
	return out
}

// Engine holds the live view state for one collection. It is not safe for
// concurrent use; callers serialize access, mirroring the single event loop
// the pipeline was designed for.
type Engine[R any] struct {
	cfg     Config[R]
	records []R
	query   QueryState
	sort    SortState
	page    PageState
}

// NewEngine returns an Engine with the configured default sort, an empty
// query, and page 1.
func NewEngine[R any](cfg Config[R]) *Engine[R] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.DefaultSort.Direction == "" {
		cfg.DefaultSort.Direction = Desc
	}
	return &Engine[R]{
		cfg:  cfg,
		sort: cfg.DefaultSort,
		page: PageState{Number: 1, Size: cfg.PageSize},
	}
}

// SetRecords replaces the backing collection, typically after a full reload.
// Search and sort state survive the swap; the page number resets to 1 when it
// no longer fits the new result set.
func (e *Engine[R]) SetRecords(records []R) PageResult[R] {
	e.records = records
	result := e.Compute()
	e.page.Number = result.CurrentPage
	return result
}

// Compute re-runs the pipeline against the current state.
func (e *Engine[R]) Compute() PageResult[R] {
	return Compute(e.records, e.cfg, e.query, e.sort, e.page)
}

// ChangeQuery updates the search text and resets to page 1.
func (e *Engine[R]) ChangeQuery(text string) PageResult[R] {
	e.query.Text = text
	e.page.Number = 1
	return e.Compute()
}

// ChangeSort toggles the direction when the active column is clicked again,
// and otherwise switches to the new column starting descending.
func (e *Engine[R]) ChangeSort(column string) PageResult[R] {
	if e.sort.Column == column {
		e.sort.Direction = e.sort.Direction.toggled()
	} else {
		e.sort = SortState{Column: column, Direction: Desc}
	}
	return e.Compute()
}

// SetSort applies an explicit column and direction, bypassing the toggle.
func (e *Engine[R]) SetSort(s SortState) PageResult[R] {
	if s.Direction != Asc && s.Direction != Desc {
		s.Direction = Desc
	}
	e.sort = s
	return e.Compute()
}

// NextPage advances one page, clamped to the last page.
func (e *Engine[R]) NextPage() PageResult[R] {
	return e.GoToPage(e.page.Number + 1)
}

// PrevPage goes back one page, clamped to page 1.
func (e *Engine[R]) PrevPage() PageResult[R] {
	return e.GoToPage(e.page.Number - 1)
}

// GoToPage jumps to an absolute page number, clamped to [1, totalPages].
func (e *Engine[R]) GoToPage(n int) PageResult[R] {
	total := e.Compute().TotalPages
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	e.page.Number = n
	return e.Compute()
}

// Records exposes the raw backing collection, unfiltered and unsorted.
func (e *Engine[R]) Records() []R { return e.records }

// Sort exposes the active sort state for rendering column indicators.
func (e *Engine[R]) Sort() SortState { return e.sort }

// Query exposes the active search text.
func (e *Engine[R]) Query() string { return e.query.Text }

// Page exposes the current 1-based page number.
func (e *Engine[R]) Page() int { return e.page.Number }
