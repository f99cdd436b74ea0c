package model

import (
	"math/rand"
	"sort"

	"github.com/samber/lo"

	"coursetable/internal/solve"
)

// Weight ranges for the scatter objective. Blocked slots weigh zero, the
// lunch slot draws from the low range, every other slot from the wide range.
const (
	lunchWeightMin   = 1
	lunchWeightMax   = 3
	scatterWeightMin = 4
	scatterWeightMax = 9
)

// AssembleObjective builds the single maximize-sum objective over every
// session variable. Weights are recomputed with fresh randomness on every
// invocation: the objective is a scatter heuristic, not a deterministic
// preference order, so two runs with identical input may legitimately pick
// different feasible optima. The rand source must be per-run, never shared.
func AssembleObjective(
	m *solve.Model,
	rng *rand.Rand,
	lab, theory VarSpace,
	theoryCal Calendar,
	cfg RunConfig,
	lunchSlot int,
) {
	blocked := cfg.blockedRange()

	// Weights must be drawn in a stable order or a fixed seed would not
	// reproduce the same objective across runs.
	vars := []solve.BoolVar{}
	coefs := []int{}
	appendTerms := func(space VarSpace) {
		courseIDs := lo.Keys(space)
		sort.Strings(courseIDs)
		for _, courseID := range courseIDs {
			days := lo.Keys(space[courseID])
			sort.Ints(days)
			for _, day := range days {
				slots := lo.Keys(space[courseID][day])
				sort.Ints(slots)
				for _, slot := range slots {
					weight := slotWeight(rng, slot, blocked, lunchSlot)
					if weight == 0 {
						continue
					}
					for _, v := range space.SlotVars(courseID, day, slot) {
						vars = append(vars, v)
						coefs = append(coefs, weight)
					}
				}
			}
		}
	}
	appendTerms(lab)
	appendTerms(theory)

	if len(vars) > 0 {
		m.Maximize(vars, coefs)
	}
}

func slotWeight(rng *rand.Rand, slot int, blocked *SlotRange, lunchSlot int) int {
	if blocked != nil && blocked.Contains(slot) {
		return 0
	}
	if slot == lunchSlot {
		return lunchWeightMin + rng.Intn(lunchWeightMax-lunchWeightMin+1)
	}
	return scatterWeightMin + rng.Intn(scatterWeightMax-scatterWeightMin+1)
}
