// Package repository persists dispatch records under a date-partitioned
// file layout.
package repository

import (
	"context"
	"time"

	"github.com/fortsentinel/dispatch/internal/domain/model"
)

// Record is the stored entity. Alias keeps adapter signatures decoupled from
// the domain package path.
type Record = model.DispatchRecord

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Tag   string
	Voice string
	From  time.Time
	To    time.Time
}

// Store provides read/write access to dispatch records.
//
// Put is idempotent: writing an id that already exists is a no-op returning
// written=false. Existing records are never overwritten.
type Store interface {
	// Put persists a record. Returns true if the record was newly created.
	Put(ctx context.Context, rec Record) (written bool, err error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// List returns records matching the filter, ordered created_at
	// descending. A filter matching nothing yields an empty slice, not an
	// error.
	List(ctx context.Context, f Filter) ([]Record, error)
}
