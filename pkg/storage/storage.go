// Package storage keeps allocation plans that the HTTP API hands out by id.
//
// A [Record] is self-contained: it carries the frame description and the
// per-segment padding, so a viewer can map positions to pixels without
// recomputing the plan. [MemoryStore] serves tests and single-process
// servers; [MongoStore] persists records in a MongoDB collection.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/layout"
	"github.com/matzehuels/seqgrid/pkg/tile"
)

// Record is one stored plan.
type Record struct {
	ID          string             `json:"id" bson:"_id"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	Mode        string             `json:"mode" bson:"mode"`
	Layout      layout.Description `json:"layout" bson:"layout"`
	Segments    []tile.Segment     `json:"segments" bson:"segments"`
	ImageLength int64              `json:"image_length" bson:"image_length"`
	Width       int                `json:"width" bson:"width"`
	Height      int                `json:"height" bson:"height"`
}

// NewRecord captures a finished plan under a fresh id.
func NewRecord(mode string, p *tile.Plan) *Record {
	w, h := p.MaxDimensions()
	return &Record{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Mode:        mode,
		Layout:      p.Frame.Description(),
		Segments:    append([]tile.Segment(nil), p.Segments...),
		ImageLength: p.ImageLength,
		Width:       w,
		Height:      h,
	}
}

// Frame rebuilds the layout frame recorded with the plan.
func (r *Record) Frame() (*layout.Frame, error) {
	return layout.FromDescription(r.Layout)
}

// Store persists records.
type Store interface {
	Save(ctx context.Context, r *Record) error

	// Get returns a NOT_FOUND error for unknown ids.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete returns a NOT_FOUND error for unknown ids.
	Delete(ctx context.Context, id string) error

	// List returns up to limit records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*Record, error)

	Close(ctx context.Context) error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "layout %q not found", id)
}

// validID rejects ids that are not UUIDs before they reach a backend.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid layout id %q", id)
	}
	return nil
}
