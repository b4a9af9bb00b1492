// Package repository defines the interaction and subject store interfaces
// and their implementations. The interaction log is append-only and
// time-ordered; subject flag sets only ever grow.
package repository

import (
	"context"
	"time"

	"github.com/stablehand/temperament/internal/domain/model"
)

// InteractionStore provides access to the caregiving interaction log.
type InteractionStore interface {
	// ListInteractions returns a subject's events within [since, until),
	// ascending by timestamp.
	ListInteractions(ctx context.Context, subjectID string, since, until time.Time) ([]model.InteractionEvent, error)

	// AppendInteraction records a new immutable interaction event.
	AppendInteraction(ctx context.Context, e model.InteractionEvent) error
}

// SubjectStore provides access to subject records.
type SubjectStore interface {
	// GetSubject returns the subject record.
	// Returns ErrSubjectNotFound if the subject is unknown.
	GetSubject(ctx context.Context, subjectID string) (model.Subject, error)

	// PutSubject creates or replaces a subject record.
	PutSubject(ctx context.Context, s model.Subject) error

	// AppendFlags atomically appends new flags to a subject. The append is
	// rejected as a whole if it would exceed the cardinality cap or
	// duplicate an existing flag.
	AppendFlags(ctx context.Context, subjectID string, newFlags []string) error

	// ListSubjectIDs returns all known subject ids.
	ListSubjectIDs(ctx context.Context) ([]string, error)

	// Count returns the number of subjects tracked.
	Count(ctx context.Context) int
}

// Store bundles both stores; implementations typically back them with the
// same storage engine.
type Store interface {
	InteractionStore
	SubjectStore
}
