package model

import (
	"fmt"
	"math/rand"
	"time"

	"coursetable/internal/logger"
	"coursetable/internal/solve"
)

// DefaultBudget bounds the solving engine's wall-clock time per run.
const DefaultBudget = 300 * time.Second

// RunConfig carries the per-run knobs. It travels explicitly through the
// pipeline; there is no process-wide scheduling state.
type RunConfig struct {
	// BlockMorning is the legacy flag mapping to the fixed morning range.
	BlockMorning bool
	// Blocked is an explicit inclusive slot range to forbid. When both are
	// set, Blocked wins over BlockMorning.
	Blocked *SlotRange
	// Seed fixes the scatter-objective randomness. Zero means a time-based
	// seed, i.e. fresh randomness every run.
	Seed int64
	// Budget is the solving wall-clock budget; zero means DefaultBudget.
	Budget time.Duration
}

// blockedRange resolves the active blocked range, or nil when no blocking is
// configured.
func (cfg RunConfig) blockedRange() *SlotRange {
	if cfg.Blocked != nil {
		r := *cfg.Blocked
		return &r
	}
	if cfg.BlockMorning {
		r := morningRange
		return &r
	}
	return nil
}

func (cfg RunConfig) budget() time.Duration {
	if cfg.Budget <= 0 {
		return DefaultBudget
	}
	return cfg.Budget
}

func (cfg RunConfig) newRand() *rand.Rand {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// StatusError reports a run that produced no schedule, carrying the solving
// engine's status name for the caller to surface.
type StatusError struct {
	Status solve.Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("no schedule produced: solver returned %v", e.Status)
}

// Timetable is the output of one successful run.
type Timetable struct {
	Lab    Schedule
	Theory Schedule

	Status      solve.Status
	Variables   int
	Constraints int
	Objective   int
}

// Scheduler builds weekly timetables out of a course/room universe. Every
// Build call constructs a fresh model and variable space, so a single
// Scheduler is safe to reuse across sequential runs with different configs.
type Scheduler interface {
	Build(input Input, cfg RunConfig) (*Timetable, error)

	// Register adds an additional constraint procedure invoked on every
	// subsequent Build. Errors and panics inside the procedure are isolated.
	Register(name string, fn ConstraintFunc)
	Unregister(name string)
}

// Tuning bundles the empirically chosen catalog constants so deployments can
// override them without touching the engine.
type Tuning struct {
	LunchSlot       int
	MaxTheoryPerDay int
	MaxLabPerDay    int
	MinScatterSlots int
}

func DefaultTuning() Tuning {
	return Tuning{
		LunchSlot:       DefaultLunchSlot,
		MaxTheoryPerDay: DefaultMaxTheoryPerDay,
		MaxLabPerDay:    DefaultMaxLabPerDay,
		MinScatterSlots: DefaultMinScatterSlots,
	}
}

func NewScheduler(solver solve.Solver, log logger.Logger) Scheduler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &scheduler{
		solver:    solver,
		log:       log,
		labCal:    DefaultLabCalendar(),
		theoryCal: DefaultTheoryCalendar(),
		tuning:    DefaultTuning(),
		registry:  map[string]ConstraintFunc{},
	}
}

// NewSchedulerWithCalendars allows non-default slot calendars and tuning.
func NewSchedulerWithCalendars(solver solve.Solver, log logger.Logger, labCal, theoryCal Calendar, tuning Tuning) Scheduler {
	s := NewScheduler(solver, log).(*scheduler)
	s.labCal = labCal
	s.theoryCal = theoryCal
	s.tuning = tuning
	return s
}

type scheduler struct {
	solver    solve.Solver
	log       logger.Logger
	labCal    Calendar
	theoryCal Calendar
	tuning    Tuning
	registry  map[string]ConstraintFunc
}

func (s *scheduler) Register(name string, fn ConstraintFunc) {
	s.registry[name] = fn
}

func (s *scheduler) Unregister(name string) {
	delete(s.registry, name)
}

func (s *scheduler) Build(input Input, cfg RunConfig) (*Timetable, error) {
	if err := input.Normalize(); err != nil {
		return nil, err
	}

	//** Build a fresh model and variable space for this run
	m := solve.NewModel()
	lab, theory, err := BuildVariables(m, input, s.labCal, s.theoryCal)
	if err != nil {
		return nil, err
	}
	s.log.Infof("created %v decision variables", m.NumVars())

	//** Apply the hard catalog plus registered procedures
	catalog := NewCatalog(m, input, s.labCal, s.theoryCal, cfg, s.log)
	catalog.LunchSlot = s.tuning.LunchSlot
	catalog.MaxTheoryPerDay = s.tuning.MaxTheoryPerDay
	catalog.MaxLabPerDay = s.tuning.MaxLabPerDay
	catalog.MinScatterSlots = s.tuning.MinScatterSlots
	for name, fn := range s.registry {
		catalog.Register(name, fn)
	}
	applied := catalog.ApplyAll(lab, theory)

	//** Assemble the scatter objective with per-run randomness
	AssembleObjective(m, cfg.newRand(), lab, theory, s.theoryCal, cfg, catalog.LunchSlot)

	//** Hand the model to the solving engine
	result, err := s.solver.Solve(m, cfg.budget())
	if err != nil {
		return nil, fmt.Errorf("solving engine failed: %w", err)
	}
	if !result.Status.Succeeded() {
		s.log.Warnf("no solution found, status: %v", result.Status)
		return nil, &StatusError{Status: result.Status}
	}
	s.log.Infof("solution found, status: %v, objective: %v", result.Status, result.Objective)

	//** Materialize the schedules
	timetable := &Timetable{
		Lab:         ExtractSchedule(result, lab, s.labCal),
		Theory:      ExtractSchedule(result, theory, s.theoryCal),
		Status:      result.Status,
		Variables:   m.NumVars(),
		Constraints: applied,
		Objective:   result.Objective,
	}
	return timetable, nil
}
