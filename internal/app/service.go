// Package service provides the core business service that wires the
// evaluation pipeline together and implements the dependencies required by
// the HTTP API and the worker pool.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	jobqueue "github.com/stablehand/temperament/internal/adapters/mq/queue"
	workerpool "github.com/stablehand/temperament/internal/adapters/mq/worker"
	"github.com/stablehand/temperament/internal/adapters/repository"
	"github.com/stablehand/temperament/internal/domain/assignment"
	"github.com/stablehand/temperament/internal/domain/conflict"
	"github.com/stablehand/temperament/internal/domain/effect"
	"github.com/stablehand/temperament/internal/domain/flagdef"
	"github.com/stablehand/temperament/internal/domain/model"
	"github.com/stablehand/temperament/internal/domain/pattern"
	"github.com/stablehand/temperament/internal/domain/threshold"
	"github.com/stablehand/temperament/internal/domain/trigger"
	"github.com/stablehand/temperament/pkg/logger"
	"github.com/stablehand/temperament/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultWorkerCount        = 8
	defaultQueueSize          = 10000
	defaultWindowDays         = 30
	defaultMaturityCutoffDays = 180
)

// Outcome summarizes one subject's evaluation.
type Outcome struct {
	SubjectID string
	Assigned  []string
	Skipped   []assignment.Skipped
	Mature    bool // subject past the maturity cutoff; no evaluation performed
}

// SubjectError pairs a failed subject with its error message.
type SubjectError struct {
	SubjectID string `json:"subject_id"`
	Error     string `json:"error"`
}

// BatchResult aggregates a population evaluation run. Per-subject failures
// are isolated; no single subject aborts the batch.
type BatchResult struct {
	Evaluated int            `json:"evaluated"`
	Assigned  int            `json:"assigned"`
	Skipped   int            `json:"skipped"`
	Errors    []SubjectError `json:"errors,omitempty"`
}

// Service implements the evaluation pipeline over a Store.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	registry   *flagdef.Registry
	analyzer   *pattern.Analyzer
	thresholds *threshold.Calculator
	triggers   *trigger.Evaluator
	engine     *assignment.Engine
	resolver   *conflict.Resolver
	aggregator *effect.Aggregator
	jobQueue   jobqueue.Queue
	pool       *workerpool.Pool

	// Per-subject serialization: the cardinality and conflict invariants
	// are checked-then-written, so evaluations of the same subject must
	// not interleave.
	subjectMu sync.Mutex
	subjects  map[string]*sync.Mutex

	// Inflight tracking prevents overlapping scheduler ticks from queuing
	// the same subject twice.
	inflightMu sync.Mutex
	inflight   map[string]struct{}

	// Configuration
	workerCount        int
	queueSize          int
	windowDays         int
	maturityCutoffDays int

	// Clock injection for tests
	now func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the backing store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRegistry sets the flag definition registry.
func WithRegistry(registry *flagdef.Registry) Option {
	return func(s *Service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithAnalyzer sets a custom pattern analyzer.
func WithAnalyzer(a *pattern.Analyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithThresholdCalculator sets a custom threshold calculator.
func WithThresholdCalculator(c *threshold.Calculator) Option {
	return func(s *Service) {
		if c != nil {
			s.thresholds = c
		}
	}
}

// WithTriggerEvaluator sets a custom trigger evaluator.
func WithTriggerEvaluator(e *trigger.Evaluator) Option {
	return func(s *Service) {
		if e != nil {
			s.triggers = e
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the evaluation queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWindowDays sets the trailing analysis window in days.
func WithWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

// WithMaturityCutoffDays sets the age beyond which subjects stop being
// evaluated for new flags.
func WithMaturityCutoffDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.maturityCutoffDays = days
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock injects a time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service with the given options.
func New(opts ...Option) *Service {
	s := &Service{
		subjects:           make(map[string]*sync.Mutex),
		inflight:           make(map[string]struct{}),
		workerCount:        defaultWorkerCount,
		queueSize:          defaultQueueSize,
		windowDays:         defaultWindowDays,
		maturityCutoffDays: defaultMaturityCutoffDays,
		now:                time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// evaluatorAdapter exposes the service to the worker pool.
type evaluatorAdapter struct {
	svc *Service
}

func (a *evaluatorAdapter) EvaluateSubject(ctx context.Context, subjectID string) error {
	defer a.svc.clearInflight(subjectID)
	_, err := a.svc.EvaluateSubject(ctx, subjectID)
	return err
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting temperament service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory store")
	}
	if s.registry == nil {
		s.registry = flagdef.Default()
	}
	if s.analyzer == nil {
		s.analyzer = pattern.NewAnalyzer()
	}
	if s.thresholds == nil {
		s.thresholds = threshold.NewCalculator()
	}
	if s.triggers == nil {
		s.triggers = trigger.NewEvaluator()
	}
	s.engine = assignment.NewEngine(s.registry)
	s.resolver = conflict.NewResolver(s.registry)
	s.aggregator = effect.NewAggregator(s.registry, s.resolver)

	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.jobQueue, &evaluatorAdapter{svc: s})
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "temperament service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("flags", s.registry.Len()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping temperament service...")

	if s.jobQueue != nil {
		_ = s.jobQueue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "temperament service stopped")
}

// subjectLock returns the mutex serializing evaluations of one subject.
func (s *Service) subjectLock(subjectID string) *sync.Mutex {
	s.subjectMu.Lock()
	defer s.subjectMu.Unlock()

	mu, ok := s.subjects[subjectID]
	if !ok {
		mu = &sync.Mutex{}
		s.subjects[subjectID] = mu
	}
	return mu
}

// EvaluateSubject runs the full pipeline for one subject: fetch state and
// history, analyze patterns, evaluate triggers, decide assignment, persist.
func (s *Service) EvaluateSubject(ctx context.Context, subjectID string) (Outcome, error) {
	start := time.Now()
	defer func() {
		metrics.RecordEvaluationLatency(float64(time.Since(start).Milliseconds()))
	}()

	mu := s.subjectLock(subjectID)
	mu.Lock()
	defer mu.Unlock()

	out := Outcome{SubjectID: subjectID}

	subj, err := s.store.GetSubject(ctx, subjectID)
	if err != nil {
		metrics.RecordEvaluationError("subject_not_found")
		return out, fmt.Errorf("get subject: %w", err)
	}

	now := s.now()
	cutoff := subj.BirthTS.AddDate(0, 0, s.maturityCutoffDays)
	if !now.Before(cutoff) {
		// Past the maturity cutoff the flag set is final.
		out.Mature = true
		return out, nil
	}

	windowStart := now.AddDate(0, 0, -s.windowDays)
	if windowStart.Before(subj.BirthTS) {
		windowStart = subj.BirthTS
	}

	events, err := s.store.ListInteractions(ctx, subjectID, windowStart, now)
	if err != nil {
		metrics.RecordEvaluationError("list_interactions")
		return out, fmt.Errorf("list interactions: %w", err)
	}

	analysisStart := time.Now()
	pm := s.analyzer.Analyze(events, windowStart, now)
	metrics.RecordAnalysisLatency(float64(time.Since(analysisStart).Milliseconds()))

	thr := s.thresholds.Compute(subj.AgeDays(now), subj.Stress, subj.Bond)
	trigCtx := trigger.Context{
		Subject:   subj,
		AgeDays:   subj.AgeDays(now),
		Metrics:   pm,
		Threshold: thr,
	}

	verdicts := make(map[string]trigger.Verdict, s.registry.Len())
	for _, def := range s.registry.Definitions() {
		if subj.HasFlag(def.Name) {
			continue
		}
		verdicts[def.Name] = s.triggers.Evaluate(def, trigCtx)
	}

	decision := s.engine.Decide(subj, verdicts)
	out.Skipped = decision.Skipped
	out.Assigned = decision.NewFlags()

	if len(out.Assigned) > 0 {
		if err := s.store.AppendFlags(ctx, subjectID, out.Assigned); err != nil {
			// An append that would break an invariant is rejected by the
			// store and treated as a no-op for this run.
			s.logger.Warn(ctx, "flag append rejected",
				logger.String("subjectID", subjectID),
				logger.Error(err),
			)
			metrics.RecordEvaluationError("append_rejected")
			out.Assigned = nil
		} else {
			for _, f := range out.Assigned {
				metrics.RecordFlagAssigned(f)
				s.logger.Info(ctx, "flag assigned",
					logger.String("subjectID", subjectID),
					logger.String("flag", f),
				)
			}
		}
	}

	metrics.RecordSubjectEvaluated()
	return out, nil
}

// EvaluatePopulation evaluates the given subjects, or every known subject
// when ids is empty. Subjects are processed with bounded parallelism; each
// completes or fails in isolation.
func (s *Service) EvaluatePopulation(ctx context.Context, ids []string) (BatchResult, error) {
	metrics.RecordBatchRun()

	if len(ids) == 0 {
		all, err := s.store.ListSubjectIDs(ctx)
		if err != nil {
			return BatchResult{}, fmt.Errorf("list subjects: %w", err)
		}
		ids = all
	}

	var (
		res   BatchResult
		resMu sync.Mutex
		wg    sync.WaitGroup
		sem   = make(chan struct{}, s.workerCount)
	)

	for _, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(subjectID string) {
			defer wg.Done()
			defer func() { <-sem }()

			out, err := s.EvaluateSubject(ctx, subjectID)

			resMu.Lock()
			defer resMu.Unlock()
			if err != nil {
				res.Errors = append(res.Errors, SubjectError{SubjectID: subjectID, Error: err.Error()})
				return
			}
			res.Evaluated++
			if len(out.Assigned) > 0 {
				res.Assigned += len(out.Assigned)
			} else {
				res.Skipped++
			}
		}(id)
	}
	wg.Wait()

	metrics.UpdatePopulationSize(s.store.Count(ctx))
	return res, nil
}

// EnqueueAll queues every known subject for background evaluation. Subjects
// already queued are skipped. Returns the number of jobs enqueued.
func (s *Service) EnqueueAll(ctx context.Context) (int, error) {
	ids, err := s.store.ListSubjectIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list subjects: %w", err)
	}

	queued := 0
	for _, id := range ids {
		if s.Enqueue(ctx, id) {
			queued++
		}
	}
	return queued, nil
}

// Enqueue queues one subject for background evaluation. Returns false on
// backpressure or when the subject is already queued.
func (s *Service) Enqueue(ctx context.Context, subjectID string) bool {
	s.inflightMu.Lock()
	if _, dup := s.inflight[subjectID]; dup {
		s.inflightMu.Unlock()
		return false
	}
	s.inflight[subjectID] = struct{}{}
	s.inflightMu.Unlock()

	ok := s.jobQueue.Enqueue(ctx, jobqueue.Job{SubjectID: subjectID, EnqueuedAt: s.now()})
	if !ok {
		s.clearInflight(subjectID)
	}
	return ok
}

func (s *Service) clearInflight(subjectID string) {
	s.inflightMu.Lock()
	delete(s.inflight, subjectID)
	s.inflightMu.Unlock()
}

// EffectBundle recomputes the subject's aggregated effect bundle. Bundles
// are never cached; every call reflects the current flag set.
func (s *Service) EffectBundle(ctx context.Context, subjectID string) (model.EffectBundle, error) {
	subj, err := s.store.GetSubject(ctx, subjectID)
	if err != nil {
		return model.EffectBundle{}, fmt.Errorf("get subject: %w", err)
	}

	bundle, unknown := s.aggregator.Build(subj, s.now())
	for _, f := range unknown {
		s.logger.Warn(ctx, "flag has no definition; skipped in aggregation",
			logger.String("subjectID", subjectID),
			logger.String("flag", f),
		)
	}

	metrics.RecordEffectBundleBuild()
	for range bundle.Conflicts {
		metrics.RecordConflictDetected()
	}
	return bundle, nil
}

// GetStats returns service statistics for the stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":          s.started,
		"worker_count":     s.workerCount,
		"window_days":      s.windowDays,
		"maturity_cutoff":  s.maturityCutoffDays,
		"registered_flags": 0,
		"population":       0,
		"queue_len":        0,
	}
	if s.registry != nil {
		stats["registered_flags"] = s.registry.Len()
	}
	if s.store != nil {
		stats["population"] = s.store.Count(ctx)
	}
	if s.jobQueue != nil {
		stats["queue_len"] = s.jobQueue.Len(ctx)
	}
	return stats
}
