// Command seed populates a SQLite database with a synthetic population of
// subjects and caregiving histories for local development and load testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/stablehand/temperament/internal/adapters/repository"
	"github.com/stablehand/temperament/internal/domain/model"
)

// Default generation constants.
const (
	defaultSubjects    = 100
	defaultHistoryDays = 30
	defaultSeed        = 1
	defaultTimeout     = 2 * time.Minute
)

// archetype shapes one subject's generated history.
type archetype struct {
	name               string
	interactionsPerDay int
	skipChance         float64 // chance a whole day has no interactions
	qualities          []model.QualityGrade
	tasks              []string
	caregivers         int
	bondDrift          float64
	stressDrift        float64
}

var archetypes = []archetype{
	{
		name:               "devoted",
		interactionsPerDay: 3,
		skipChance:         0.05,
		qualities:          []model.QualityGrade{model.QualityGood, model.QualityExcellent},
		tasks:              []string{"feeding", "grooming", "training", "play", "health_check"},
		caregivers:         1,
		bondDrift:          1.5,
		stressDrift:        -1.0,
	},
	{
		name:               "average",
		interactionsPerDay: 1,
		skipChance:         0.25,
		qualities:          []model.QualityGrade{model.QualityFair, model.QualityGood},
		tasks:              []string{"feeding", "grooming"},
		caregivers:         2,
		bondDrift:          0.3,
		stressDrift:        0.0,
	},
	{
		name:               "chaotic",
		interactionsPerDay: 2,
		skipChance:         0.40,
		qualities:          []model.QualityGrade{model.QualityPoor, model.QualityFair, model.QualityExcellent},
		tasks:              []string{"feeding", "training", "play"},
		caregivers:         4,
		bondDrift:          -0.2,
		stressDrift:        0.8,
	},
	{
		name:               "neglected",
		interactionsPerDay: 1,
		skipChance:         0.85,
		qualities:          []model.QualityGrade{model.QualityPoor, model.QualityFair},
		tasks:              []string{"feeding"},
		caregivers:         1,
		bondDrift:          -1.0,
		stressDrift:        1.5,
	},
}

var species = []string{"horse", "dog", "wolf", "fox", "deer"}

func main() {
	var (
		dbPath      = flag.String("db", "temperament.db", "Path to the SQLite database file")
		numSubjects = flag.Int("subjects", defaultSubjects, "Number of subjects to generate")
		historyDays = flag.Int("days", defaultHistoryDays, "Days of interaction history per subject")
		seed        = flag.Int64("seed", defaultSeed, "Random seed for deterministic output")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := repository.NewSQLiteStore(*dbPath)
	if err != nil {
		os.Stderr.WriteString("failed to open store: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	rng := rand.New(rand.NewSource(*seed))
	now := time.Now().UTC().Truncate(time.Hour)

	total := 0
	for i := 0; i < *numSubjects; i++ {
		arch := archetypes[rng.Intn(len(archetypes))]
		n, err := seedSubject(ctx, store, rng, arch, now, *historyDays)
		if err != nil {
			os.Stderr.WriteString("failed to seed subject: " + err.Error() + "\n")
			os.Exit(1)
		}
		total += n
	}

	fmt.Printf("seeded %d subjects with %d interactions into %s\n", *numSubjects, total, *dbPath)
}

// seedSubject writes one subject and its generated history. Returns the
// number of interactions written.
func seedSubject(ctx context.Context, store *repository.SQLiteStore, rng *rand.Rand, arch archetype, now time.Time, historyDays int) (int, error) {
	ageDays := historyDays + rng.Intn(60)
	subj := model.Subject{
		ID:      uuid.NewString(),
		Name:    fmt.Sprintf("%s-%04d", arch.name, rng.Intn(10000)),
		Species: species[rng.Intn(len(species))],
		BirthTS: now.AddDate(0, 0, -ageDays),
		Bond:    20 + rng.Float64()*30,
		Stress:  10 + rng.Float64()*30,
	}

	// The interactions table references subjects, so the subject row must
	// exist before its history.
	if err := store.PutSubject(ctx, subj); err != nil {
		return 0, err
	}

	caregivers := make([]string, arch.caregivers)
	for i := range caregivers {
		caregivers[i] = uuid.NewString()
	}
	personalities := []string{"patient", "strict", "playful", "gentle"}

	bond := subj.Bond
	stress := subj.Stress

	written := 0
	for day := historyDays; day > 0; day-- {
		if rng.Float64() < arch.skipChance {
			continue
		}
		count := 1 + rng.Intn(arch.interactionsPerDay)
		for i := 0; i < count; i++ {
			bondDelta := arch.bondDrift + rng.Float64()*2 - 1
			stressDelta := arch.stressDrift + rng.Float64()*2 - 1
			bond = clampStat(bond + bondDelta)
			stress = clampStat(stress + stressDelta)

			ev := model.InteractionEvent{
				ID:               uuid.NewString(),
				SubjectID:        subj.ID,
				ActorID:          caregivers[rng.Intn(len(caregivers))],
				ActorPersonality: personalities[rng.Intn(len(personalities))],
				Task:             arch.tasks[rng.Intn(len(arch.tasks))],
				Quality:          arch.qualities[rng.Intn(len(arch.qualities))],
				BondDelta:        bondDelta,
				StressDelta:      stressDelta,
				Duration:         time.Duration(5+rng.Intn(40)) * time.Minute,
				TS:               now.AddDate(0, 0, -day).Add(time.Duration(rng.Intn(12)) * time.Hour),
			}
			if err := store.AppendInteraction(ctx, ev); err != nil {
				return written, err
			}
			written++
		}
	}

	// Update the subject with its drifted final stats.
	subj.Bond = bond
	subj.Stress = stress
	if err := store.PutSubject(ctx, subj); err != nil {
		return written, err
	}
	return written, nil
}

func clampStat(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
