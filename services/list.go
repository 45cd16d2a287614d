package services

import (
	"strings"
	"time"
)

// DefaultPageLimit is used when a listing request carries no limit.
const DefaultPageLimit = 100

// ListQuery holds the skip/limit/search parameters shared by list endpoints.
// Sort is a ParseSort value; lists that have a single order ignore it.
type ListQuery struct {
	Skip   int
	Limit  int
	Search string
	Sort   string
}

// Page is the {items, total} listing envelope. Total counts every match
// before skip/limit are applied.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func paginate[T any](all []T, q ListQuery) Page[T] {
	total := len(all)
	skip := max(q.Skip, 0)
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if skip > total {
		skip = total
	}
	end := min(skip+limit, total)
	items := all[skip:end]
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total}
}

func searchParams(q ListQuery) (string, map[string]any) {
	s := strings.TrimSpace(q.Search)
	if s == "" {
		return "", nil
	}
	return "name ~ {:search}", map[string]any{"search": s}
}

// Date is a calendar day serialised as YYYY-MM-DD.
type Date time.Time

// NewDate truncates t to midnight UTC.
func NewDate(t time.Time) Date { return Date(dateOnly(t)) }

// Time returns d as a time.Time.
func (d Date) Time() time.Time { return time.Time(d) }

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool { return time.Time(d).IsZero() }

// String formats d as YYYY-MM-DD.
func (d Date) String() string { return time.Time(d).Format(dateLayout) }

// BR formats d as DD/MM/YYYY.
func (d Date) BR() string { return time.Time(d).Format("02/01/2006") }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return invalid("Data inválida: %s", s)
	}
	*d = Date(t)
	return nil
}
