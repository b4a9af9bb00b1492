// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// MaxFlags caps the number of behavioral flags a subject may ever hold.
const MaxFlags = 5

// QualityGrade is the ordered quality of a caregiving interaction.
type QualityGrade string

// Quality grades, worst to best.
const (
	QualityPoor      QualityGrade = "poor"
	QualityFair      QualityGrade = "fair"
	QualityGood      QualityGrade = "good"
	QualityExcellent QualityGrade = "excellent"
)

// Score maps a grade onto the 1..4 scale used by trend analysis.
func (q QualityGrade) Score() float64 {
	switch q {
	case QualityPoor:
		return 1
	case QualityFair:
		return 2
	case QualityGood:
		return 3
	case QualityExcellent:
		return 4
	default:
		return 0
	}
}

// ParseQualityGrade validates a stored grade string.
func ParseQualityGrade(s string) (QualityGrade, error) {
	switch QualityGrade(s) {
	case QualityPoor, QualityFair, QualityGood, QualityExcellent:
		return QualityGrade(s), nil
	default:
		return "", fmt.Errorf("unknown quality grade %q", s)
	}
}

// InteractionEvent is an immutable record of one caregiving interaction.
type InteractionEvent struct {
	ID               string
	SubjectID        string
	ActorID          string
	ActorPersonality string
	Task             string // task category, e.g. "feeding", "grooming"
	Quality          QualityGrade
	BondDelta        float64
	StressDelta      float64
	Duration         time.Duration
	TS               time.Time
}

// Subject is a simulated animal whose flag set grows monotonically.
type Subject struct {
	ID      string
	Name    string
	Species string
	BirthTS time.Time
	Bond    float64 // 0..100
	Stress  float64 // 0..100
	Flags   []string
}

// AgeDays returns the subject's age in whole days at the given instant.
func (s Subject) AgeDays(now time.Time) int {
	if now.Before(s.BirthTS) {
		return 0
	}
	return int(now.Sub(s.BirthTS).Hours() / 24)
}

// HasFlag reports whether the subject already holds the named flag.
func (s Subject) HasFlag(name string) bool {
	for _, f := range s.Flags {
		if f == name {
			return true
		}
	}
	return false
}

// TrendDirection classifies the slope of a scalar series.
type TrendDirection string

// Trend directions. Bond and quality series use improving/declining;
// stress series use increasing/decreasing.
const (
	TrendImproving        TrendDirection = "improving"
	TrendDeclining        TrendDirection = "declining"
	TrendIncreasing       TrendDirection = "increasing"
	TrendDecreasing       TrendDirection = "decreasing"
	TrendStable           TrendDirection = "stable"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// Trend carries a classified direction plus the raw OLS slope.
type Trend struct {
	Direction TrendDirection
	Slope     float64
}

// NeglectSeverity tiers the neglect ratio.
type NeglectSeverity string

// Neglect severity tiers.
const (
	NeglectNone     NeglectSeverity = "none"
	NeglectMinimal  NeglectSeverity = "minimal"
	NeglectModerate NeglectSeverity = "moderate"
	NeglectSevere   NeglectSeverity = "severe"
)

// NeglectPeriod is a maximal run of consecutive days without any interaction.
// Day offsets are relative to the analysis window start.
type NeglectPeriod struct {
	StartDay int
	EndDay   int
	Days     int
}

// PatternMetrics is the derived-metric bundle produced by the pattern analyzer.
// It is recomputed fresh on each evaluation and never persisted.
type PatternMetrics struct {
	Consistency        float64 // 0..1
	Frequency          float64 // interactions per elapsed day
	BondTrend          Trend
	StressTrend        Trend
	QualityTrend       Trend
	TaskDiversity      float64 // 0..1
	CaregiverStability float64 // 0..1
	NeglectRatio       float64 // 0..1
	Neglected          bool
	NeglectSeverity    NeglectSeverity
	NeglectPeriods     []NeglectPeriod
	CareGaps           int
	EventCount         int
	WindowStart        time.Time
	WindowEnd          time.Time
}

// ConflictPair names two co-present flags that oppose each other.
type ConflictPair struct {
	FlagA    string  `json:"flag_a"`
	FlagB    string  `json:"flag_b"`
	Severity float64 `json:"severity"`
}

// EffectBundle is the aggregated modifier set produced by a subject's active
// flags, plus the conflict-resolution metadata that shaped it. A fresh bundle
// is built on every read; bundles are never cached across flag-set changes.
type EffectBundle struct {
	SubjectID string `json:"subject_id"`

	Competition          map[string]float64 `json:"competition"` // per-discipline bonus/penalty
	StressModifier       float64            `json:"stress_modifier"`
	BondingModifier      float64            `json:"bonding_modifier"`
	TrainingModifier     float64            `json:"training_modifier"`
	AdaptabilityModifier float64            `json:"adaptability_modifier"`
	BreedingTraits       map[string]float64 `json:"breeding_traits"` // trait-probability deltas

	ActiveFlags      []string       `json:"active_flags"`
	Conflicts        []ConflictPair `json:"conflicts"`
	ResolutionMethod string         `json:"resolution_method"`
	Dampening        float64        `json:"dampening"`
	ComputedAt       time.Time      `json:"computed_at"`
}
