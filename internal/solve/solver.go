package solve

import "time"

// Status reports the outcome of a solving attempt.
type Status int

const (
	// Unknown means the budget ran out before any conclusion was reached.
	Unknown Status = iota
	// Optimal means a model was found and proven best under the objective.
	Optimal
	// Feasible means a model was found but optimality was not proven before
	// the budget ran out.
	Feasible
	// Infeasible means the constraints admit no model at all.
	Infeasible
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "OPTIMAL"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// Succeeded tells whether the status carries a usable model.
func (s Status) Succeeded() bool {
	return s == Optimal || s == Feasible
}

// Result carries the solver verdict and, when Status.Succeeded(), one concrete
// assignment. Values is indexed by BoolVar (slot 0 unused).
type Result struct {
	Status    Status
	Values    []bool
	Objective int
}

// Value reads the assigned value of a variable. It is only meaningful when
// Status.Succeeded().
func (r Result) Value(v BoolVar) bool {
	if int(v) >= len(r.Values) {
		return false
	}
	return r.Values[v]
}

// Solver turns a fully built Model into a Result within a wall-clock budget.
// Implementations must return their best status so far once the budget is
// exhausted rather than block indefinitely. An error is reserved for backend
// failures; infeasibility and timeouts are Statuses, not errors.
type Solver interface {
	Solve(model *Model, budget time.Duration) (Result, error)
}
