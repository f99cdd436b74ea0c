package solve

import (
	"time"

	"github.com/crillab/gophersat/solver"
)

// gophersatSolver runs models through the gophersat pseudo-boolean engine.
// Linear constraints map directly onto PB constraints and the maximization
// objective becomes a cost function over negated literals (maximizing
// sum(w*x) is minimizing sum(w*(1-x))).
type gophersatSolver struct{}

func NewGophersatSolver() Solver {
	return &gophersatSolver{}
}

func (gs *gophersatSolver) Solve(model *Model, budget time.Duration) (Result, error) {
	constrs, unsat := encodeConstraints(model)
	if unsat {
		return Result{Status: Infeasible}, nil
	}

	problem := solver.ParsePBConstrs(constrs)

	totalWeight := 0
	if model.hasObjective && len(model.objectiveVars) > 0 {
		lits := make([]solver.Lit, len(model.objectiveVars))
		weights := make([]int, len(model.objectiveCoefs))
		for i, v := range model.objectiveVars {
			lits[i] = solver.IntToLit(int32(-v))
			weights[i] = model.objectiveCoefs[i]
			totalWeight += model.objectiveCoefs[i]
		}
		problem.SetCostFunc(lits, weights)
	}

	engine := solver.New(problem)

	results := make(chan solver.Result)
	stop := make(chan struct{})
	final := make(chan solver.Result, 1)
	go func() {
		final <- engine.Optimal(results, stop)
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	// Track the best intermediate model so a timeout can still surface the
	// best-so-far assignment instead of discarding the whole run.
	var lastModel []bool
	lastWeight := 0

	for {
		select {
		case r, ok := <-results:
			if ok && r.Status == solver.Sat && r.Model != nil {
				lastModel = append([]bool(nil), r.Model...)
				lastWeight = r.Weight
			}
		case <-timer.C:
			// The engine never reads the stop channel, so the budget has to be
			// enforced here: abandon the engine goroutine and return the best
			// model seen so far. The drainer keeps the abandoned goroutine from
			// blocking on its channels.
			close(stop)
			go func() {
				for range results {
				}
				<-final
			}()
			if lastModel != nil {
				return Result{
					Status:    Feasible,
					Values:    modelValues(lastModel, model.NumVars()),
					Objective: totalWeight - lastWeight,
				}, nil
			}
			return Result{Status: Unknown}, nil
		case verdict := <-final:
			return gs.interpret(verdict, lastModel, lastWeight, totalWeight, model.NumVars()), nil
		}
	}
}

func (gs *gophersatSolver) interpret(
	verdict solver.Result,
	lastModel []bool,
	lastWeight int,
	totalWeight int,
	numVars int,
) Result {
	switch verdict.Status {
	case solver.Unsat:
		return Result{Status: Infeasible}
	case solver.Sat:
		return Result{
			Status:    Optimal,
			Values:    modelValues(verdict.Model, numVars),
			Objective: totalWeight - verdict.Weight,
		}
	default: // Indet: interrupted; fall back on the best model seen, if any
		if lastModel != nil {
			return Result{
				Status:    Feasible,
				Values:    modelValues(lastModel, numVars),
				Objective: totalWeight - lastWeight,
			}
		}
		return Result{Status: Unknown}
	}
}

// encodeConstraints lowers every model constraint into gophersat PB
// constraints with strictly positive weights. The second return value reports
// a constraint that is unsatisfiable on constant grounds alone (e.g. a sum of
// three variables required to reach four), in which case no engine call is
// needed.
func encodeConstraints(model *Model) ([]solver.PBConstr, bool) {
	constrs := make([]solver.PBConstr, 0, len(model.constraints))
	for _, c := range model.constraints {
		switch c.op {
		case atLeast:
			pb, trivial, unsat := lowerAtLeast(c.vars, c.coefs, c.bound)
			if unsat {
				return nil, true
			}
			if !trivial {
				constrs = append(constrs, pb)
			}
		case atMost:
			pb, trivial, unsat := lowerAtMost(c.vars, c.coefs, c.bound)
			if unsat {
				return nil, true
			}
			if !trivial {
				constrs = append(constrs, pb)
			}
		case exactly:
			lower, trivialLo, unsatLo := lowerAtLeast(c.vars, c.coefs, c.bound)
			upper, trivialHi, unsatHi := lowerAtMost(c.vars, c.coefs, c.bound)
			if unsatLo || unsatHi {
				return nil, true
			}
			if !trivialLo {
				constrs = append(constrs, lower)
			}
			if !trivialHi {
				constrs = append(constrs, upper)
			}
		}
	}
	return constrs, false
}

func lowerAtLeast(vars []BoolVar, coefs []int, bound int) (pb solver.PBConstr, trivial, unsat bool) {
	lits, weights, adjusted := normalize(vars, coefs, bound)
	if adjusted <= 0 {
		return solver.PBConstr{}, true, false
	}
	available := 0
	for _, w := range weights {
		available += w
	}
	if adjusted > available {
		return solver.PBConstr{}, false, true
	}
	return solver.GtEq(lits, weights, adjusted), false, false
}

func lowerAtMost(vars []BoolVar, coefs []int, bound int) (pb solver.PBConstr, trivial, unsat bool) {
	// sum(w*x) <= b is sum(-w*x) >= -b
	negated := make([]int, len(vars))
	for i := range vars {
		w := 1
		if coefs != nil {
			w = coefs[i]
		}
		negated[i] = -w
	}
	return lowerAtLeast(vars, negated, -bound)
}

// normalize rewrites sum(w*x) >= n so that every weight is positive, flipping
// the literal of each negative-weight term (w*x == w + (-w)*(1-x)).
func normalize(vars []BoolVar, coefs []int, bound int) (lits []int, weights []int, adjusted int) {
	lits = make([]int, 0, len(vars))
	weights = make([]int, 0, len(vars))
	adjusted = bound
	for i, v := range vars {
		w := 1
		if coefs != nil {
			w = coefs[i]
		}
		switch {
		case w > 0:
			lits = append(lits, int(v))
			weights = append(weights, w)
		case w < 0:
			lits = append(lits, -int(v))
			weights = append(weights, -w)
			adjusted -= w
		}
	}
	return lits, weights, adjusted
}

// modelValues reindexes the engine's assignment, which stores variable i at
// Model[i-1], into the 1-based Values slice.
func modelValues(m []bool, numVars int) []bool {
	values := make([]bool, numVars+1)
	for i := 1; i <= numVars && i <= len(m); i++ {
		values[i] = m[i-1]
	}
	return values
}
