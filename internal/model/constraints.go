package model

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"coursetable/internal/logger"
	"coursetable/internal/solve"
)

// ConstraintFunc is the extensibility seam: a named procedure that, given the
// two variable spaces, emits zero or more atomic constraints into the solving
// model and returns how many it emitted. Procedures are supplied by callers
// and may be arbitrarily buggy; the engine isolates their failures.
type ConstraintFunc func(lab, theory VarSpace) (int, error)

// Tuning constants preserved from the reference rules. They are empirically
// chosen; treat them as configuration, not derivable policy.
const (
	DefaultMaxTheoryPerDay = 1
	DefaultMaxLabPerDay    = 2
	DefaultMinScatterSlots = 3
	diversityPeriods       = 3
)

// Catalog owns the fixed set of hard constraints plus the registry of
// additional procedures, and applies all of them against one variable space.
// A Catalog is built fresh per run and mutates only the solving model.
type Catalog struct {
	model     *solve.Model
	input     Input
	labCal    Calendar
	theoryCal Calendar
	cfg       RunConfig
	log       logger.Logger

	registry map[string]ConstraintFunc

	LunchSlot       int
	MaxTheoryPerDay int
	MaxLabPerDay    int
	MinScatterSlots int
}

func NewCatalog(m *solve.Model, input Input, labCal, theoryCal Calendar, cfg RunConfig, log logger.Logger) *Catalog {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Catalog{
		model:           m,
		input:           input,
		labCal:          labCal,
		theoryCal:       theoryCal,
		cfg:             cfg,
		log:             log,
		registry:        map[string]ConstraintFunc{},
		LunchSlot:       DefaultLunchSlot,
		MaxTheoryPerDay: DefaultMaxTheoryPerDay,
		MaxLabPerDay:    DefaultMaxLabPerDay,
		MinScatterSlots: DefaultMinScatterSlots,
	}
}

// Register adds an additional constraint procedure under a name. Registering
// the same name again replaces the previous procedure.
func (c *Catalog) Register(name string, fn ConstraintFunc) {
	c.registry[name] = fn
}

func (c *Catalog) Unregister(name string) {
	delete(c.registry, name)
}

// ApplyAll applies the fixed hard-constraint catalog in order, then every
// registered procedure, and returns the total number of atomic constraints
// emitted. A failing registered procedure contributes zero and never aborts
// the run.
func (c *Catalog) ApplyAll(lab, theory VarSpace) int {
	total := 0
	total += c.coverageConstraints(lab, theory)
	total += c.sessionCountConstraints(lab, theory)
	total += c.roomSingleAssignmentConstraints(lab, theory)
	total += c.teacherClashConstraints(lab, theory)
	total += c.lunchBreakConstraints(theory)
	total += c.dynamicBlockConstraints(lab, theory)
	total += c.perDayCapConstraints(lab, theory)
	total += c.antiClusteringConstraints(theory)
	total += c.timeDiversityConstraints(theory)
	total += c.mandatoryScatteringConstraints(theory)

	// Registered procedures run in sorted-name order so the emitted set is
	// reproducible run to run.
	names := lo.Keys(c.registry)
	sort.Strings(names)
	for _, name := range names {
		applied := c.applyRegistered(name, c.registry[name], lab, theory)
		total += applied
		c.log.Infof("constraint %v applied %v constraints", name, applied)
	}

	c.log.Infof("applied %v total constraints", total)
	return total
}

// applyRegistered invokes one external procedure with full failure isolation:
// both returned errors and panics are logged and count as zero.
func (c *Catalog) applyRegistered(name string, fn ConstraintFunc, lab, theory VarSpace) (count int) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorf("constraint %v panicked: %v", name, r)
			count = 0
		}
	}()

	count, err := fn(lab, theory)
	if err != nil {
		c.log.Errorf("constraint %v failed: %v", name, err)
		return 0
	}
	return count
}

// coverageConstraints guarantees no course is silently dropped: every course
// occupies at least one (day, slot, room) triple.
func (c *Catalog) coverageConstraints(lab, theory VarSpace) int {
	count := 0
	for _, space := range []VarSpace{lab, theory} {
		for courseID := range space {
			vars := space.CourseVars(courseID)
			if len(vars) == 0 {
				continue
			}
			c.model.AddSumAtLeast(vars, 1)
			count++
		}
	}
	return count
}

// sessionCountConstraints pins every course to exactly its required
// sessions-per-week across its whole (day, slot, room) space.
func (c *Catalog) sessionCountConstraints(lab, theory VarSpace) int {
	count := 0
	for _, course := range c.input.Courses {
		space := theory
		if course.Kind == LabSession {
			space = lab
		}
		vars := space.CourseVars(course.ID)
		if len(vars) == 0 {
			continue
		}
		c.model.AddSumEqual(vars, course.SessionsPerWeek)
		count++
	}
	return count
}

// roomSingleAssignmentConstraints: at most one session of any kind per
// (room, day, slot) key, across both spaces.
func (c *Catalog) roomSingleAssignmentConstraints(lab, theory VarSpace) int {
	type key struct {
		roomID string
		day    int
		slot   int
	}
	occupants := map[key][]solve.BoolVar{}
	for _, space := range []VarSpace{lab, theory} {
		space.ForEach(func(_ string, day, slot int, roomID string, v solve.BoolVar) {
			k := key{roomID, day, slot}
			occupants[k] = append(occupants[k], v)
		})
	}

	count := 0
	for _, vars := range occupants {
		if len(vars) > 1 {
			c.model.AddSumAtMost(vars, 1)
			count++
		}
	}
	return count
}

// teacherClashConstraints: at most one session per (teacher, day, slot),
// resolved through the course to teacher mapping, across both spaces.
func (c *Catalog) teacherClashConstraints(lab, theory VarSpace) int {
	type key struct {
		teacherID string
		day       int
		slot      int
	}
	assignments := map[key][]solve.BoolVar{}
	for _, space := range []VarSpace{lab, theory} {
		space.ForEach(func(courseID string, day, slot int, _ string, v solve.BoolVar) {
			teacherID := c.input.TeacherOf(courseID)
			if teacherID == "" {
				return
			}
			k := key{teacherID, day, slot}
			assignments[k] = append(assignments[k], v)
		})
	}

	count := 0
	for _, vars := range assignments {
		if len(vars) > 1 {
			c.model.AddSumAtMost(vars, 1)
			count++
		}
	}
	return count
}

// lunchBreakConstraints forces every theory variable in the lunch slot to 0.
func (c *Catalog) lunchBreakConstraints(theory VarSpace) int {
	if c.LunchSlot < 0 || c.LunchSlot >= c.theoryCal.NumSlots() {
		return 0
	}
	count := 0
	for courseID, days := range theory {
		for day := range days {
			for _, v := range theory.SlotVars(courseID, day, c.LunchSlot) {
				c.model.Forbid(v)
				count++
			}
		}
	}
	return count
}

// dynamicBlockConstraints forces every variable, lab and theory, whose slot
// falls in the active blocked range to 0. The range is run configuration: an
// explicit (start, end) pair wins over the legacy morning flag.
func (c *Catalog) dynamicBlockConstraints(lab, theory VarSpace) int {
	blocked := c.cfg.blockedRange()
	if blocked == nil {
		return 0
	}

	count := 0
	for _, space := range []VarSpace{lab, theory} {
		space.ForEach(func(_ string, _ int, slot int, _ string, v solve.BoolVar) {
			if blocked.Contains(slot) {
				c.model.Forbid(v)
				count++
			}
		})
	}
	return count
}

// perDayCapConstraints keeps multi-session courses from bunching on one day.
func (c *Catalog) perDayCapConstraints(lab, theory VarSpace) int {
	count := 0
	for _, course := range c.input.Courses {
		if course.SessionsPerWeek <= 1 {
			continue
		}

		space, calendar, maxPerDay := theory, c.theoryCal, c.MaxTheoryPerDay
		if course.Kind == LabSession {
			space, calendar, maxPerDay = lab, c.labCal, c.MaxLabPerDay
		}

		for day := range calendar.NumDays() {
			vars := space.DayVars(course.ID, day)
			if len(vars) == 0 {
				continue
			}
			c.model.AddSumAtMost(vars, maxPerDay)
			count++
		}
	}
	return count
}

// antiClusteringConstraints: for every teacher, day and pair of adjacent
// theory slots, at most one of that teacher's sessions may land in the pair.
// No back-to-back sessions for the same teacher.
func (c *Catalog) antiClusteringConstraints(theory VarSpace) int {
	teachers := lo.Uniq(lo.Map(c.input.Courses, func(course Course, _ int) string {
		return course.TeacherID
	}))

	count := 0
	for _, teacherID := range teachers {
		taught := lo.Filter(c.input.CoursesOfKind(TheorySession), func(course Course, _ int) bool {
			return course.TeacherID == teacherID
		})
		if len(taught) == 0 {
			continue
		}

		for day := range c.theoryCal.NumDays() {
			for slot := 0; slot+1 < c.theoryCal.NumSlots(); slot++ {
				pair := []solve.BoolVar{}
				current, next := 0, 0
				for _, course := range taught {
					currentVars := theory.SlotVars(course.ID, day, slot)
					nextVars := theory.SlotVars(course.ID, day, slot+1)
					current += len(currentVars)
					next += len(nextVars)
					pair = append(pair, currentVars...)
					pair = append(pair, nextVars...)
				}
				if current == 0 || next == 0 {
					continue
				}
				c.model.AddSumAtMost(pair, 1)
				count++
			}
		}
	}
	return count
}

// timeDiversityConstraints partitions the non-blocked theory slots into
// roughly three contiguous periods and caps theory sessions per (day, period)
// to discourage concentration in any one stretch of the day.
func (c *Catalog) timeDiversityConstraints(theory VarSpace) int {
	available := c.availableTheorySlots()
	periods := splitPeriods(available)
	if len(periods) <= 1 {
		return 0
	}

	maxPerPeriod := len(available)/len(periods) + 1
	if maxPerPeriod < 1 {
		maxPerPeriod = 1
	}

	count := 0
	for day := range c.theoryCal.NumDays() {
		for _, period := range periods {
			vars := []solve.BoolVar{}
			for courseID := range theory {
				for _, slot := range period {
					vars = append(vars, theory.SlotVars(courseID, day, slot)...)
				}
			}
			if len(vars) == 0 {
				continue
			}
			c.model.AddSumAtMost(vars, maxPerPeriod)
			count++
		}
	}
	return count
}

// mandatoryScatteringConstraints forces genuine spread rather than letting
// the objective alone decide. One auxiliary "slot used" indicator is created
// per available slot and linked to the real session variables through two
// inequalities; the total of used indicators must reach
// min(MinScatterSlots, available slots, total required theory sessions).
func (c *Catalog) mandatoryScatteringConstraints(theory VarSpace) int {
	totalTheorySessions := lo.SumBy(c.input.CoursesOfKind(TheorySession), func(course Course) int {
		return course.SessionsPerWeek
	})
	if totalTheorySessions < 2 {
		return 0
	}

	available := c.availableTheorySlots()
	if len(available) < 2 {
		return 0
	}

	count := 0
	indicators := []solve.BoolVar{}
	for _, slot := range available {
		sessions := []solve.BoolVar{}
		for courseID, days := range theory {
			for day := range days {
				sessions = append(sessions, theory.SlotVars(courseID, day, slot)...)
			}
		}
		if len(sessions) == 0 {
			continue
		}

		used := c.model.NewBoolVar(fmt.Sprintf("slot_%v_used", slot))
		indicators = append(indicators, used)

		// sum(sessions) <= len(sessions) * used
		vars := append(append([]solve.BoolVar{}, sessions...), used)
		coefs := make([]int, len(sessions)+1)
		for i := range sessions {
			coefs[i] = 1
		}
		coefs[len(sessions)] = -len(sessions)
		c.model.AddLinearAtMost(vars, coefs, 0)
		count++

		// sum(sessions) >= used
		coefs = make([]int, len(sessions)+1)
		for i := range sessions {
			coefs[i] = 1
		}
		coefs[len(sessions)] = -1
		c.model.AddLinearAtLeast(vars, coefs, 0)
		count++
	}

	minSlots := c.MinScatterSlots
	if len(available) < minSlots {
		minSlots = len(available)
	}
	if totalTheorySessions < minSlots {
		minSlots = totalTheorySessions
	}
	if minSlots >= 2 && len(indicators) >= minSlots {
		c.model.AddSumAtLeast(indicators, minSlots)
		count++
		c.log.Infof("mandatory scattering: at least %v distinct slots must be used", minSlots)
	}
	return count
}

// availableTheorySlots lists theory slot indices outside the active blocked
// range.
func (c *Catalog) availableTheorySlots() []int {
	blocked := c.cfg.blockedRange()
	available := []int{}
	for slot := range c.theoryCal.NumSlots() {
		if blocked != nil && blocked.Contains(slot) {
			continue
		}
		available = append(available, slot)
	}
	return available
}

// splitPeriods chops an ordered slot list into up to diversityPeriods
// contiguous chunks. Fewer than four slots degrade to one period per slot.
func splitPeriods(slots []int) [][]int {
	if len(slots) < 4 {
		return lo.Map(slots, func(slot int, _ int) []int { return []int{slot} })
	}

	size := len(slots) / diversityPeriods
	if size < 2 {
		size = 2
	}
	periods := [][]int{}
	for start := 0; start < len(slots); start += size {
		end := start + size
		if end > len(slots) {
			end = len(slots)
		}
		periods = append(periods, slots[start:end])
	}
	return periods
}
