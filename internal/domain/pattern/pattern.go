// Package pattern derives behavioral metrics from a subject's caregiving
// interaction history. All computations are pure functions of the event list
// and window bounds so results are deterministic and replayable.
package pattern

import (
	"math"
	"time"

	"github.com/stablehand/temperament/internal/domain/model"
)

// Default analyzer configuration constants.
const (
	defaultMinGapDays        = 3
	defaultPerGapPenalty     = 0.1
	defaultGapPenaltyCap     = 0.5
	defaultSlopeEpsilon      = 0.05
	defaultDiversityScale    = 3.0
	defaultCaregiverWeight   = 0.35
	defaultHandoffWeight     = 0.15
	defaultNeglectThreshold  = 0.5
	defaultModerateThreshold = 0.7
	defaultSevereThreshold   = 0.85

	hoursPerDay = 24
)

// Analyzer converts an ordered interaction history into pattern metrics.
type Analyzer struct {
	// Consistency / gap tuning
	minGapDays    int
	perGapPenalty float64
	gapPenaltyCap float64

	// Trend classification epsilon
	slopeEpsilon float64

	// Diversity scaling
	diversityScale float64

	// Caregiver stability weights
	caregiverWeight float64
	handoffWeight   float64

	// Neglect tiers
	neglectThreshold  float64
	moderateThreshold float64
	severeThreshold   float64
}

// NewAnalyzer creates an analyzer with configuration options.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		minGapDays:        defaultMinGapDays,
		perGapPenalty:     defaultPerGapPenalty,
		gapPenaltyCap:     defaultGapPenaltyCap,
		slopeEpsilon:      defaultSlopeEpsilon,
		diversityScale:    defaultDiversityScale,
		caregiverWeight:   defaultCaregiverWeight,
		handoffWeight:     defaultHandoffWeight,
		neglectThreshold:  defaultNeglectThreshold,
		moderateThreshold: defaultModerateThreshold,
		severeThreshold:   defaultSevereThreshold,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Analyze computes the full metric bundle for one subject's events within the
// window [windowStart, windowEnd). Events must be ascending by timestamp;
// events outside the window are ignored.
func (a *Analyzer) Analyze(events []model.InteractionEvent, windowStart, windowEnd time.Time) model.PatternMetrics {
	events = clipToWindow(events, windowStart, windowEnd)

	windowDays := elapsedDays(windowStart, windowEnd)
	dayActive := activeDays(events, windowStart, windowDays)
	periods := a.neglectPeriods(dayActive)

	m := model.PatternMetrics{
		EventCount:     len(events),
		WindowStart:    windowStart,
		WindowEnd:      windowEnd,
		CareGaps:       len(periods),
		NeglectPeriods: periods,
	}

	m.Consistency = a.consistency(dayActive, len(periods))
	if windowDays > 0 {
		m.Frequency = float64(len(events)) / float64(windowDays)
	}

	m.BondTrend = a.classify(slope(deltaSeries(events, func(e model.InteractionEvent) float64 { return e.BondDelta })), model.TrendImproving, model.TrendDeclining)
	m.StressTrend = a.classify(slope(deltaSeries(events, func(e model.InteractionEvent) float64 { return e.StressDelta })), model.TrendIncreasing, model.TrendDecreasing)
	m.QualityTrend = a.classify(slope(deltaSeries(events, func(e model.InteractionEvent) float64 { return e.Quality.Score() })), model.TrendImproving, model.TrendDeclining)

	m.TaskDiversity = a.taskDiversity(events)
	m.CaregiverStability = a.caregiverStability(events)

	m.NeglectRatio = neglectRatio(dayActive)
	m.Neglected = m.NeglectRatio > a.neglectThreshold
	m.NeglectSeverity = a.neglectSeverity(m.NeglectRatio)

	return m
}

// consistency is the fraction of elapsed days with at least one interaction,
// reduced by a capped penalty per detected care gap. Returns 0 when the
// window saw no interactions.
func (a *Analyzer) consistency(dayActive []bool, gapCount int) float64 {
	if len(dayActive) == 0 {
		return 0
	}
	active := 0
	for _, d := range dayActive {
		if d {
			active++
		}
	}
	if active == 0 {
		return 0
	}
	ratio := float64(active) / float64(len(dayActive))
	penalty := math.Min(float64(gapCount)*a.perGapPenalty, a.gapPenaltyCap)
	return clamp01(ratio * (1 - penalty))
}

// classify maps an OLS slope onto a trend direction. A nil slope means the
// series had fewer than two points.
func (a *Analyzer) classify(s *float64, up, down model.TrendDirection) model.Trend {
	if s == nil {
		return model.Trend{Direction: model.TrendInsufficientData}
	}
	t := model.Trend{Slope: *s}
	switch {
	case *s > a.slopeEpsilon:
		t.Direction = up
	case *s < -a.slopeEpsilon:
		t.Direction = down
	default:
		t.Direction = model.TrendStable
	}
	return t
}

// taskDiversity scales the distinct-task ratio into [0,1].
func (a *Analyzer) taskDiversity(events []model.InteractionEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	tasks := make(map[string]struct{}, len(events))
	for _, e := range events {
		tasks[e.Task] = struct{}{}
	}
	ratio := float64(len(tasks)) / float64(len(events))
	return clamp01(ratio * a.diversityScale)
}

// caregiverStability is an inverse function of distinct-caregiver count and
// caregiver handoffs between consecutive events.
func (a *Analyzer) caregiverStability(events []model.InteractionEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	actors := make(map[string]struct{}, len(events))
	handoffs := 0
	for i, e := range events {
		actors[e.ActorID] = struct{}{}
		if i > 0 && events[i-1].ActorID != e.ActorID {
			handoffs++
		}
	}
	denom := 1 + float64(len(actors)-1)*a.caregiverWeight + float64(handoffs)*a.handoffWeight
	return clamp01(1 / denom)
}

// neglectSeverity tiers the empty-day ratio.
func (a *Analyzer) neglectSeverity(ratio float64) model.NeglectSeverity {
	switch {
	case ratio >= a.severeThreshold:
		return model.NeglectSevere
	case ratio >= a.moderateThreshold:
		return model.NeglectModerate
	case ratio > a.neglectThreshold:
		return model.NeglectMinimal
	default:
		return model.NeglectNone
	}
}

// neglectPeriods scans for maximal runs of at least minGapDays consecutive
// days without any interaction.
func (a *Analyzer) neglectPeriods(dayActive []bool) []model.NeglectPeriod {
	var periods []model.NeglectPeriod
	runStart := -1
	for day := 0; day <= len(dayActive); day++ {
		empty := day < len(dayActive) && !dayActive[day]
		switch {
		case empty && runStart < 0:
			runStart = day
		case !empty && runStart >= 0:
			if length := day - runStart; length >= a.minGapDays {
				periods = append(periods, model.NeglectPeriod{
					StartDay: runStart,
					EndDay:   day - 1,
					Days:     length,
				})
			}
			runStart = -1
		}
	}
	return periods
}

// clipToWindow drops events outside [start, end). Events are assumed
// ascending by timestamp, so a simple range scan suffices.
func clipToWindow(events []model.InteractionEvent, start, end time.Time) []model.InteractionEvent {
	lo := 0
	for lo < len(events) && events[lo].TS.Before(start) {
		lo++
	}
	hi := len(events)
	for hi > lo && !events[hi-1].TS.Before(end) {
		hi--
	}
	return events[lo:hi]
}

// elapsedDays returns the number of whole days spanned by the window,
// at least 1 for any non-empty window.
func elapsedDays(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	d := int(math.Ceil(end.Sub(start).Hours() / hoursPerDay))
	if d < 1 {
		d = 1
	}
	return d
}

// activeDays buckets events into window-relative day slots.
func activeDays(events []model.InteractionEvent, start time.Time, windowDays int) []bool {
	if windowDays <= 0 {
		return nil
	}
	days := make([]bool, windowDays)
	for _, e := range events {
		idx := int(e.TS.Sub(start).Hours() / hoursPerDay)
		if idx >= 0 && idx < windowDays {
			days[idx] = true
		}
	}
	return days
}

// neglectRatio is the fraction of window days with zero interactions.
// An empty window counts as fully neglected.
func neglectRatio(dayActive []bool) float64 {
	if len(dayActive) == 0 {
		return 1
	}
	empty := 0
	for _, d := range dayActive {
		if !d {
			empty++
		}
	}
	return float64(empty) / float64(len(dayActive))
}

// deltaSeries extracts one scalar per event in chronological order.
func deltaSeries(events []model.InteractionEvent, f func(model.InteractionEvent) float64) []float64 {
	out := make([]float64, len(events))
	for i, e := range events {
		out[i] = f(e)
	}
	return out
}

// slope computes the ordinary least-squares slope of values indexed by event
// order. Returns nil for fewer than two points.
func slope(values []float64) *float64 {
	n := len(values)
	if n < 2 {
		return nil
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		zero := 0.0
		return &zero
	}
	s := (fn*sumXY - sumX*sumY) / denom
	return &s
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
