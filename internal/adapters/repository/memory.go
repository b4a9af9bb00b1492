package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stablehand/temperament/internal/domain/model"
	"github.com/stablehand/temperament/pkg/metrics"
)

// MemoryStore is an in-memory Store for tests and single-process runs.
type MemoryStore struct {
	mu           sync.RWMutex
	subjects     map[string]model.Subject
	interactions map[string][]model.InteractionEvent // per subject, ascending by TS
	maxFlags     int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		subjects:     make(map[string]model.Subject),
		interactions: make(map[string][]model.InteractionEvent),
		maxFlags:     model.MaxFlags,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryMaxFlags overrides the flag cap enforced on append.
func WithMemoryMaxFlags(n int) MemoryOption {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxFlags = n
		}
	}
}

// ListInteractions returns events in [since, until) ascending by timestamp.
func (s *MemoryStore) ListInteractions(_ context.Context, subjectID string, since, until time.Time) ([]model.InteractionEvent, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.InteractionEvent
	for _, e := range s.interactions[subjectID] {
		if e.TS.Before(since) || !e.TS.Before(until) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// AppendInteraction records an event, keeping the per-subject log ordered.
func (s *MemoryStore) AppendInteraction(_ context.Context, e model.InteractionEvent) error {
	start := time.Now()
	defer func() { metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds())) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	log := append(s.interactions[e.SubjectID], e)
	sort.SliceStable(log, func(i, j int) bool { return log[i].TS.Before(log[j].TS) })
	s.interactions[e.SubjectID] = log
	return nil
}

// GetSubject returns a copy of the subject record.
func (s *MemoryStore) GetSubject(_ context.Context, subjectID string) (model.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subj, ok := s.subjects[subjectID]
	if !ok {
		return model.Subject{}, fmt.Errorf("%w: %s", ErrSubjectNotFound, subjectID)
	}
	subj.Flags = append([]string(nil), subj.Flags...)
	return subj, nil
}

// PutSubject creates or replaces a subject record.
func (s *MemoryStore) PutSubject(_ context.Context, subj model.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subj.Flags = append([]string(nil), subj.Flags...)
	s.subjects[subj.ID] = subj
	return nil
}

// AppendFlags atomically appends new flags, enforcing the cap and rejecting
// duplicates. The whole append fails or succeeds together.
func (s *MemoryStore) AppendFlags(_ context.Context, subjectID string, newFlags []string) error {
	start := time.Now()
	defer func() { metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds())) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	subj, ok := s.subjects[subjectID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSubjectNotFound, subjectID)
	}
	if len(subj.Flags)+len(newFlags) > s.maxFlags {
		return fmt.Errorf("%w: %s has %d flags, adding %d", ErrFlagCapExceeded, subjectID, len(subj.Flags), len(newFlags))
	}
	held := make(map[string]struct{}, len(subj.Flags))
	for _, f := range subj.Flags {
		held[f] = struct{}{}
	}
	for _, f := range newFlags {
		if _, dup := held[f]; dup {
			return fmt.Errorf("%w: %s on %s", ErrDuplicateFlag, f, subjectID)
		}
		held[f] = struct{}{}
	}

	subj.Flags = append(append([]string(nil), subj.Flags...), newFlags...)
	s.subjects[subjectID] = subj
	return nil
}

// ListSubjectIDs returns all subject ids in stable order.
func (s *MemoryStore) ListSubjectIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.subjects))
	for id := range s.subjects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Count returns the number of subjects tracked.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subjects)
}
