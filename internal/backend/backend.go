// Package backend defines the read-only contract the rendering pipeline needs from the remote
// data store. Implementations live in the postgres, memory and cache sub-packages.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind names an entity collection in the data store.
type Kind string

const (
	KindDeals      Kind = "deals"
	KindStores     Kind = "stores"
	KindProducts   Kind = "products"
	KindArticles   Kind = "articles"
	KindCategories Kind = "categories"
)

// Kinds lists every collection the pipeline reads.
var Kinds = []Kind{KindDeals, KindStores, KindProducts, KindArticles, KindCategories}

// ErrUnknownKind is returned for a Kind that the backend has no collection for.
var ErrUnknownKind = errors.New("unknown entity kind")

// Record is one raw JSON object as stored. Field names vary across legacy rows; the catalog
// normalizer resolves them.
type Record = json.RawMessage

// Condition is an equality filter on a single field.
type Condition struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// Order sorts by a single field.
type Order struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc,omitempty"`
}

// Query shapes a List read. A zero Limit means the backend default.
type Query struct {
	Filter  []Condition `json:"filter,omitempty"`
	OrderBy []Order     `json:"orderBy,omitempty"`
	Limit   int         `json:"limit,omitempty"`
	Offset  int         `json:"offset,omitempty"`
}

// Where appends an equality condition.
func (q Query) Where(field string, value any) Query {
	q.Filter = append(append([]Condition(nil), q.Filter...), Condition{Field: field, Value: value})
	return q
}

// Newest orders by field descending.
func (q Query) Newest(field string) Query {
	q.OrderBy = append(append([]Order(nil), q.OrderBy...), Order{Field: field, Desc: true})
	return q
}

// Ascending orders by field ascending.
func (q Query) Ascending(field string) Query {
	q.OrderBy = append(append([]Order(nil), q.OrderBy...), Order{Field: field})
	return q
}

// Page sets limit and offset.
func (q Query) Page(limit, offset int) Query {
	q.Limit = limit
	q.Offset = offset
	return q
}

// Backend is the data store collaborator. Implementations must be safe for concurrent use.
type Backend interface {
	// List returns the records of kind matching q.
	List(ctx context.Context, kind Kind, q Query) ([]Record, error)
	// GetByKey returns the first record of kind whose field equals value. The boolean is
	// false when nothing matches.
	GetByKey(ctx context.Context, kind Kind, field string, value any) (Record, bool, error)
}

// ValidateKind reports ErrUnknownKind for kinds outside Kinds.
func ValidateKind(kind Kind) error {
	for _, k := range Kinds {
		if k == kind {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
