// Package paginate holds the resource query contract shared by list endpoints:
// page/limit/sort/filter parameters, the pagination math, and a runner that
// issues the page fetch and the total count against a Source.
package paginate

import (
	"context"
	"strings"

	"github.com/shandysiswandi/goship/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Query is a validated pagination request. It is built once per request and
// never mutated afterwards.
type Query struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Filter    map[string]string
}

// Skip returns the number of records preceding the requested page.
func (q Query) Skip() int64 {
	return int64(max(q.Page, 1)-1) * int64(q.Limit)
}

// Descending reports whether results are ordered high to low.
func (q Query) Descending() bool {
	return q.SortOrder != OrderAsc
}

// Meta is the pagination block of a paginated envelope.
type Meta struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int64 `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// NewMeta computes totalPages as ceil(totalItems / itemsPerPage).
func NewMeta(q Query, totalItems int64) Meta {
	var pages int64
	if q.Limit > 0 {
		pages = (totalItems + int64(q.Limit) - 1) / int64(q.Limit)
	}

	return Meta{
		CurrentPage:  q.Page,
		TotalPages:   pages,
		TotalItems:   totalItems,
		ItemsPerPage: q.Limit,
	}
}

// Page is one page of items plus its pagination metadata.
type Page[T any] struct {
	Items []T
	Meta  Meta
}

// Source is a store able to serve a paginated resource.
type Source[T any] interface {
	Find(ctx context.Context, q Query) ([]T, error)
	Count(ctx context.Context, filter map[string]string) (int64, error)
}

// Run fetches the page and counts matching records concurrently. The two reads
// are independent and not snapshot consistent with each other.
func Run[T any](ctx context.Context, src Source[T], q Query) (*Page[T], error) {
	var (
		items []T
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = src.Find(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = src.Count(gctx, q.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(items) > q.Limit && q.Limit > 0 {
		items = items[:q.Limit]
	}
	if items == nil {
		items = []T{}
	}

	return &Page[T]{Items: items, Meta: NewMeta(q, total)}, nil
}

// Rules returns the page, limit, sortBy and sortOrder rules for a list schema.
// sortable must contain defaultSort.
func Rules(defaultSort string, sortable ...string) []validator.Rule {
	return []validator.Rule{
		validator.Int("page", "gte=1").Default(DefaultPage),
		validator.Int("limit", "gte=1,lte=100").Default(DefaultLimit),
		validator.String("sortBy", "oneof="+strings.Join(sortable, " ")).Default(defaultSort),
		validator.String("sortOrder", "oneof=asc desc").Default(OrderDesc),
	}
}

// FromValues builds a Query from values parsed with Rules. Filter keys that are
// present in values become equality filters.
func FromValues(values validator.Values, filterKeys ...string) Query {
	q := Query{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortOrder: OrderDesc,
	}
	if v, ok := values.Int("page"); ok {
		q.Page = v
	}
	if v, ok := values.Int("limit"); ok {
		q.Limit = v
	}
	if v, ok := values.String("sortBy"); ok {
		q.SortBy = v
	}
	if v, ok := values.String("sortOrder"); ok {
		q.SortOrder = v
	}

	for _, key := range filterKeys {
		if v, ok := values.String(key); ok {
			if q.Filter == nil {
				q.Filter = make(map[string]string, len(filterKeys))
			}
			q.Filter[key] = v
		}
	}

	return q
}
