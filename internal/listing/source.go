package listing

import (
	"context"

	"github.com/stu-kho/kho-console/internal/backend"
)

// QueryFunc runs the query endpoint of a collection for filter.
type QueryFunc[T any, F Criteria] func(ctx context.Context, res *backend.Resource[T], filter F, page, size int) (Page[T], error)

// ResourceSource adapts a backend collection to Source.
type ResourceSource[T any, F Criteria, I any] struct {
	res   *backend.Resource[T]
	query QueryFunc[T, F]
}

// NewResourceSource wraps res. query may be nil for collections without a
// query endpoint.
func NewResourceSource[T any, F Criteria, I any](res *backend.Resource[T], query QueryFunc[T, F]) *ResourceSource[T, F, I] {
	return &ResourceSource[T, F, I]{res: res, query: query}
}

// Resource returns the wrapped collection.
func (s *ResourceSource[T, F, I]) Resource() *backend.Resource[T] { return s.res }

func (s *ResourceSource[T, F, I]) List(ctx context.Context) ([]T, error) { return s.res.List(ctx) }

func (s *ResourceSource[T, F, I]) Trash(ctx context.Context) ([]T, error) { return s.res.Trash(ctx) }

func (s *ResourceSource[T, F, I]) Query(ctx context.Context, filter F, page, size int) (Page[T], error) {
	if s.query == nil {
		rows, err := s.res.List(ctx)
		return Page[T]{Rows: rows, Total: len(rows)}, err
	}
	return s.query(ctx, s.res, filter, page, size)
}

func (s *ResourceSource[T, F, I]) Get(ctx context.Context, id int64) (T, error) {
	return s.res.Get(ctx, id)
}

func (s *ResourceSource[T, F, I]) Create(ctx context.Context, input I) error {
	return s.res.Create(ctx, input)
}

func (s *ResourceSource[T, F, I]) Update(ctx context.Context, id int64, input I) error {
	return s.res.Update(ctx, id, input)
}

func (s *ResourceSource[T, F, I]) Delete(ctx context.Context, id int64) error {
	return s.res.Delete(ctx, id)
}

func (s *ResourceSource[T, F, I]) Restore(ctx context.Context, id int64) error {
	return s.res.Restore(ctx, id)
}

// Keyworder is a filter carrying a free-text keyword.
type Keyworder interface {
	Criteria
	Keyword() string
}

// SearchQuery uses the keyword search endpoint; results are client paged.
func SearchQuery[T any, F Keyworder]() QueryFunc[T, F] {
	return func(ctx context.Context, res *backend.Resource[T], filter F, _, _ int) (Page[T], error) {
		rows, err := res.Search(ctx, filter.Keyword())
		return Page[T]{Rows: rows, Total: len(rows)}, err
	}
}

// FilterQuery posts criteria built by payload to the filter endpoint and
// decodes the answer according to the endpoint's strategy.
func FilterQuery[T any, F Criteria](strategy Strategy, payload func(filter F, page, size int) any) QueryFunc[T, F] {
	return func(ctx context.Context, res *backend.Resource[T], filter F, page, size int) (Page[T], error) {
		data, err := res.Filter(ctx, payload(filter, page, size))
		if err != nil {
			return Page[T]{}, err
		}
		if strategy == ServerPaged {
			p, err := backend.DecodePage[T](data)
			return Page[T]{Rows: p.Content, Total: p.TotalElements}, err
		}
		rows, err := backend.DecodeList[T](data)
		return Page[T]{Rows: rows, Total: len(rows)}, err
	}
}

// LocalQuery fetches the whole active list and keeps the records match
// accepts, for collections whose backend has no query endpoint.
func LocalQuery[T any, F Criteria](match func(filter F, rec T) bool) QueryFunc[T, F] {
	return func(ctx context.Context, res *backend.Resource[T], filter F, _, _ int) (Page[T], error) {
		rows, err := res.List(ctx)
		if err != nil {
			return Page[T]{}, err
		}
		kept := make([]T, 0, len(rows))
		for _, rec := range rows {
			if match(filter, rec) {
				kept = append(kept, rec)
			}
		}
		return Page[T]{Rows: kept, Total: len(kept)}, nil
	}
}
