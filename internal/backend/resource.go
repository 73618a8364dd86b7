package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Page is a server-paginated result.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
}

// DecodeList accepts either a bare array or a {content: [...]} envelope.
func DecodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("backend: decode list: %w", err)
		}
		return items, nil
	}
	var page Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, fmt.Errorf("backend: decode list envelope: %w", err)
	}
	if page.Content == nil {
		page.Content = []T{}
	}
	return page.Content, nil
}

// DecodePage reads a {content, totalElements} envelope.
func DecodePage[T any](data []byte) (Page[T], error) {
	var page Page[T]
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return page, fmt.Errorf("backend: expected paged envelope, got array")
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return page, fmt.Errorf("backend: decode page: %w", err)
	}
	if page.Content == nil {
		page.Content = []T{}
	}
	return page, nil
}

// Resource is one REST collection of the backend, e.g. /khachhang.
type Resource[T any] struct {
	client *Client
	base   string
}

// NewResource binds a collection path to client.
func NewResource[T any](client *Client, base string) *Resource[T] {
	return &Resource[T]{client: client, base: base}
}

// Base returns the collection path.
func (r *Resource[T]) Base() string { return r.base }

// List fetches the active records.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	return r.list(ctx, r.base, nil)
}

// Trash fetches the soft-deleted records.
func (r *Resource[T]) Trash(ctx context.Context) ([]T, error) {
	return r.list(ctx, r.base+"/trash", nil)
}

// Search runs the keyword search endpoint.
func (r *Resource[T]) Search(ctx context.Context, query string) ([]T, error) {
	return r.list(ctx, r.base+"/search", url.Values{"query": {query}})
}

// Filter posts criteria to the filter endpoint and returns the raw body;
// the caller decides whether the endpoint pages.
func (r *Resource[T]) Filter(ctx context.Context, criteria any) ([]byte, error) {
	return r.client.Raw(ctx, http.MethodPost, r.base+"/filter", nil, criteria)
}

// Get fetches one record.
func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	err := r.client.Do(ctx, http.MethodGet, r.item(id), nil, nil, &out)
	return out, err
}

// Create posts a new record.
func (r *Resource[T]) Create(ctx context.Context, body any) error {
	return r.client.Do(ctx, http.MethodPost, r.base, nil, body, nil)
}

// Update replaces a record.
func (r *Resource[T]) Update(ctx context.Context, id int64, body any) error {
	return r.client.Do(ctx, http.MethodPut, r.item(id), nil, body, nil)
}

// Delete moves a record to the trash.
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.client.Do(ctx, http.MethodDelete, r.item(id), nil, nil, nil)
}

// Restore moves a record back out of the trash.
func (r *Resource[T]) Restore(ctx context.Context, id int64) error {
	return r.client.Do(ctx, http.MethodPut, r.item(id)+"/restore", nil, nil, nil)
}

// Approve transitions a pending voucher to approved.
func (r *Resource[T]) Approve(ctx context.Context, id int64) error {
	return r.client.Do(ctx, http.MethodPost, r.item(id)+"/approve", nil, nil, nil)
}

// Cancel transitions a pending voucher to cancelled.
func (r *Resource[T]) Cancel(ctx context.Context, id int64) error {
	return r.client.Do(ctx, http.MethodPost, r.item(id)+"/cancel", nil, nil, nil)
}

// Print opens the printable document of a voucher.
func (r *Resource[T]) Print(ctx context.Context, id int64) (*http.Response, error) {
	return r.client.Stream(ctx, r.item(id)+"/print", nil)
}

func (r *Resource[T]) item(id int64) string {
	return r.base + "/" + strconv.FormatInt(id, 10)
}

func (r *Resource[T]) list(ctx context.Context, path string, query url.Values) ([]T, error) {
	data, err := r.client.Raw(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return DecodeList[T](data)
}
