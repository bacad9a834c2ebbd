// Package store persists course aggregates: one document per course, loaded and saved whole.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"syllabus-cli/internal/errs"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// AggregateSummary is the listing view of a stored course.
type AggregateSummary struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	Title         string    `json:"title"`
	SchemaVersion int       `json:"schemaVersion"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AggregateStore loads and saves whole course documents.
//
// Saves are last-writer-wins: there is no version check between concurrent sessions.
type AggregateStore interface {
	LoadAggregate(ctx context.Context, courseID string) (CourseDocument, error)
	SaveAggregate(ctx context.Context, courseID string, doc CourseDocument) error
	CreateAggregate(ctx context.Context, ownerID string, doc CourseDocument) error
	DeleteAggregate(ctx context.Context, courseID string) error
	// ListAggregates returns the courses owned by ownerID, or every course when ownerID is empty.
	ListAggregates(ctx context.Context, ownerID string) ([]AggregateSummary, error)
	CourseOwner(ctx context.Context, courseID string) (string, error)
	Close() error
}

type Options struct {
	Backend     string
	Dir         string
	DatabaseURL string
}

// Open returns the backend selected by opts.Backend (sqlite when empty).
func Open(ctx context.Context, opts Options) (AggregateStore, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendSQLite:
		return OpenSQLite(ctx, opts.Dir)
	case BackendPostgres:
		return OpenPostgres(ctx, opts.DatabaseURL)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errs.InvalidOperation("store.open", fmt.Sprintf("unknown store backend %q (expected sqlite|postgres|memory)", opts.Backend))
	}
}

// checkSave validates the arguments shared by every SaveAggregate implementation.
func checkSave(op, courseID string, doc CourseDocument) (string, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return "", errs.Validation(op, "missing course id")
	}
	if doc.ID != courseID {
		return "", errs.Validation(op, fmt.Sprintf("document id %q does not match course %q", doc.ID, courseID))
	}
	return courseID, nil
}

func checkCreate(op, ownerID string, doc CourseDocument) (string, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return "", errs.Validation(op, "missing owner id")
	}
	if strings.TrimSpace(doc.ID) == "" {
		return "", errs.Validation(op, "missing course id")
	}
	return ownerID, nil
}

func encodeDocument(op string, doc CourseDocument) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	return b, nil
}

func decodeDocument(op string, b []byte) (CourseDocument, error) {
	var doc CourseDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return CourseDocument{}, errs.Wrap(errs.CodeValidation, op, fmt.Errorf("decode course document: %w", err))
	}
	return doc, nil
}
