package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/worklens-org/worklens/schema"
)

// ============================================================================
// SYNTHETIC GENERATOR — Seeded fallback tables
// ============================================================================
// When no source is reachable the pipeline still has to produce a full,
// explorable landscape, so the generator fabricates one: realistic label
// pools, ratings inside the declared scale, several worker rows per task.
// Same seed, same tables: the version token is reproducible, which keeps
// derived caches meaningful across runs.
//
// Gap cadence: every Nth task is left without worker rows (and every Mth
// without expert rows) so sentinel handling downstream is always exercised,
// regardless of seed.
// ============================================================================

// SyntheticConfig controls the generated shape.
type SyntheticConfig struct {
	Seed  int64 `yaml:"seed" env:"WORKLENS_SYNTHETIC_SEED"`
	Tasks int   `yaml:"tasks" env:"WORKLENS_SYNTHETIC_TASKS"`

	MinWorkersPerTask int `yaml:"minWorkersPerTask"`
	MaxWorkersPerTask int `yaml:"maxWorkersPerTask"`
	MinExpertsPerTask int `yaml:"minExpertsPerTask"`
	MaxExpertsPerTask int `yaml:"maxExpertsPerTask"`

	// Every Nth task gets no worker rows / no expert rows. Zero disables.
	DesireGapEvery     int `yaml:"desireGapEvery"`
	CapabilityGapEvery int `yaml:"capabilityGapEvery"`
}

// DefaultSyntheticConfig matches the shape of a small survey wave.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Seed:               1,
		Tasks:              150,
		MinWorkersPerTask:  3,
		MaxWorkersPerTask:  8,
		MinExpertsPerTask:  1,
		MaxExpertsPerTask:  4,
		DesireGapEvery:     20,
		CapabilityGapEvery: 25,
	}
}

// Validate rejects shapes the generator cannot honor.
func (c SyntheticConfig) Validate() error {
	if c.Tasks <= 0 {
		return fmt.Errorf("synthetic tasks must be positive, got %d", c.Tasks)
	}
	if c.MinWorkersPerTask < 1 || c.MaxWorkersPerTask < c.MinWorkersPerTask {
		return fmt.Errorf("invalid workers-per-task range [%d, %d]", c.MinWorkersPerTask, c.MaxWorkersPerTask)
	}
	if c.MinExpertsPerTask < 1 || c.MaxExpertsPerTask < c.MinExpertsPerTask {
		return fmt.Errorf("invalid experts-per-task range [%d, %d]", c.MinExpertsPerTask, c.MaxExpertsPerTask)
	}
	if c.DesireGapEvery < 0 || c.CapabilityGapEvery < 0 {
		return fmt.Errorf("gap cadence must be non-negative")
	}
	return nil
}

// occupationPool pairs each occupation with its O*NET code and domain.
var occupationPool = []struct {
	title, code, domain string
}{
	{"Computer Programmers", "15-1251.00", "Computer and Mathematical"},
	{"Accountants and Auditors", "13-2011.00", "Business and Financial Operations"},
	{"Registered Nurses", "29-1141.00", "Healthcare Practitioners and Technical"},
	{"Customer Service Representatives", "43-4051.00", "Office and Administrative Support"},
	{"Graphic Designers", "27-1024.00", "Arts, Design, Entertainment, Sports, and Media"},
	{"Lawyers", "23-1011.00", "Legal"},
	{"Elementary School Teachers, Except Special Education", "25-2021.00", "Educational Instruction and Library"},
	{"Human Resources Specialists", "13-1071.00", "Business and Financial Operations"},
	{"Market Research Analysts and Marketing Specialists", "13-1161.00", "Business and Financial Operations"},
	{"Civil Engineers", "17-2051.00", "Architecture and Engineering"},
	{"Pharmacists", "29-1051.00", "Healthcare Practitioners and Technical"},
	{"Editors", "27-3041.00", "Arts, Design, Entertainment, Sports, and Media"},
}

var categoryPool = []string{
	"Information Processing",
	"Communication",
	"Analysis",
	"Documentation",
	"Coordination",
	"Quality Assurance",
	"Planning",
	"Client Interaction",
}

var statementVerbs = []string{
	"Review", "Draft", "Compile", "Reconcile", "Schedule", "Summarize",
	"Validate", "Categorize", "Audit", "Update", "Prepare", "Monitor",
}

var statementObjects = []string{
	"patient intake forms", "quarterly expense reports", "customer support tickets",
	"engineering change requests", "course lesson plans", "contract clauses",
	"marketing campaign metrics", "inventory records", "release notes",
	"prescription records", "design mockups", "survey responses",
	"compliance checklists", "meeting agendas", "billing statements",
	"onboarding documents",
}

// Synthesize fabricates a conformant bundle. Ratings land inside the given
// scale and every label comes from a fixed pool, so the output passes the
// same validation the real dataset does.
func Synthesize(cfg SyntheticConfig, scale schema.Scale) *Tables {
	rng := rand.New(rand.NewSource(cfg.Seed))

	tasks := make([]TaskRecord, 0, cfg.Tasks)
	var desires []DesireRecord
	var capabilities []CapabilityRecord

	workerSeq, expertSeq := 0, 0

	for i := 0; i < cfg.Tasks; i++ {
		occ := occupationPool[i%len(occupationPool)]
		verb := statementVerbs[rng.Intn(len(statementVerbs))]
		object := statementObjects[rng.Intn(len(statementObjects))]

		rec := TaskRecord{
			TaskID:     fmt.Sprintf("T%03d", i+1),
			Task:       fmt.Sprintf("%s %s", verb, object),
			Occupation: occ.title,
			SOCCode:    occ.code,
			Domain:     occ.domain,
			Category:   categoryPool[rng.Intn(len(categoryPool))],
		}
		tasks = append(tasks, rec)

		if cfg.DesireGapEvery == 0 || (i+1)%cfg.DesireGapEvery != 0 {
			n := between(rng, cfg.MinWorkersPerTask, cfg.MaxWorkersPerTask)
			for w := 0; w < n; w++ {
				workerSeq++
				desires = append(desires, DesireRecord{
					TaskID:      rec.TaskID,
					WorkerID:    fmt.Sprintf("W%04d", workerSeq),
					Desire:      ratingOn(rng, scale),
					JobSecurity: ratingOn(rng, scale),
					Enjoyment:   ratingOn(rng, scale),
				})
			}
		}

		if cfg.CapabilityGapEvery == 0 || (i+1)%cfg.CapabilityGapEvery != 0 {
			n := between(rng, cfg.MinExpertsPerTask, cfg.MaxExpertsPerTask)
			for e := 0; e < n; e++ {
				expertSeq++
				capabilities = append(capabilities, CapabilityRecord{
					TaskID:     rec.TaskID,
					ExpertID:   fmt.Sprintf("E%03d", expertSeq),
					Capability: ratingOn(rng, scale),
					Confidence: ratingOn(rng, scale),
				})
			}
		}
	}

	return NewTables(SourceSynthetic, tasks, desires, capabilities)
}

// ratingOn draws an integer-stepped rating inside the scale, the way survey
// respondents actually answer.
func ratingOn(rng *rand.Rand, scale schema.Scale) float64 {
	steps := int(math.Floor(scale.Max - scale.Min))
	if steps < 1 {
		steps = 1
	}
	return scale.Min + float64(rng.Intn(steps+1))
}

func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
