package solve

import "fmt"

// BoolVar identifies a boolean decision variable inside a Model. Identifiers
// start at 1 so they can double as DIMACS-style positive literals.
type BoolVar int32

type comparison int

const (
	atLeast comparison = iota
	atMost
	exactly
)

// linear is a pseudo-boolean constraint: sum(coefs[i] * vars[i]) <op> bound.
// A nil coefs slice means every coefficient is 1.
type linear struct {
	vars  []BoolVar
	coefs []int
	op    comparison
	bound int
}

// Model accumulates boolean variables, linear constraints over them and an
// optional maximization objective. A Model is bound to a single run: build it,
// hand it to a Solver, read the values, discard it. It must not be shared
// across concurrent runs.
type Model struct {
	names       []string
	constraints []linear

	objectiveVars  []BoolVar
	objectiveCoefs []int
	hasObjective   bool
}

func NewModel() *Model {
	return &Model{}
}

// NewBoolVar creates a fresh variable. The name is kept for diagnostics only.
func (m *Model) NewBoolVar(name string) BoolVar {
	m.names = append(m.names, name)
	return BoolVar(len(m.names))
}

func (m *Model) NumVars() int {
	return len(m.names)
}

func (m *Model) NumConstraints() int {
	return len(m.constraints)
}

// Name returns the diagnostic name given to a variable at creation time.
func (m *Model) Name(v BoolVar) string {
	if v < 1 || int(v) > len(m.names) {
		panic(fmt.Sprintf("solve: variable %d does not belong to this model", v))
	}
	return m.names[v-1]
}

// AddSumAtMost constrains sum(vars) <= bound. Empty sums are ignored.
func (m *Model) AddSumAtMost(vars []BoolVar, bound int) {
	m.add(linear{vars: vars, op: atMost, bound: bound})
}

// AddSumAtLeast constrains sum(vars) >= bound. Empty sums are ignored.
func (m *Model) AddSumAtLeast(vars []BoolVar, bound int) {
	m.add(linear{vars: vars, op: atLeast, bound: bound})
}

// AddSumEqual constrains sum(vars) == bound. Empty sums are ignored.
func (m *Model) AddSumEqual(vars []BoolVar, bound int) {
	m.add(linear{vars: vars, op: exactly, bound: bound})
}

// AddLinearAtMost constrains sum(coefs[i]*vars[i]) <= bound. Coefficients may
// be negative; backends are expected to normalize them.
func (m *Model) AddLinearAtMost(vars []BoolVar, coefs []int, bound int) {
	m.addLinear(vars, coefs, atMost, bound)
}

// AddLinearAtLeast constrains sum(coefs[i]*vars[i]) >= bound.
func (m *Model) AddLinearAtLeast(vars []BoolVar, coefs []int, bound int) {
	m.addLinear(vars, coefs, atLeast, bound)
}

// Forbid fixes a variable to 0.
func (m *Model) Forbid(v BoolVar) {
	m.check(v)
	m.add(linear{vars: []BoolVar{v}, op: atMost, bound: 0})
}

// Maximize installs the objective sum(coefs[i]*vars[i]). Calling it again
// replaces the previous objective. Coefficients must be non-negative.
func (m *Model) Maximize(vars []BoolVar, coefs []int) {
	if len(vars) != len(coefs) {
		panic("solve: objective variables and coefficients differ in length")
	}
	objVars := make([]BoolVar, 0, len(vars))
	objCoefs := make([]int, 0, len(coefs))
	for i, v := range vars {
		m.check(v)
		if coefs[i] < 0 {
			panic("solve: negative objective coefficient")
		}
		if coefs[i] == 0 { // Zero-weight terms cannot influence the optimum
			continue
		}
		objVars = append(objVars, v)
		objCoefs = append(objCoefs, coefs[i])
	}
	m.objectiveVars = objVars
	m.objectiveCoefs = objCoefs
	m.hasObjective = true
}

func (m *Model) addLinear(vars []BoolVar, coefs []int, op comparison, bound int) {
	if len(vars) != len(coefs) {
		panic("solve: constraint variables and coefficients differ in length")
	}
	copied := make([]int, len(coefs))
	copy(copied, coefs)
	m.add(linear{vars: vars, coefs: copied, op: op, bound: bound})
}

func (m *Model) add(c linear) {
	if len(c.vars) == 0 {
		return
	}
	vars := make([]BoolVar, len(c.vars))
	copy(vars, c.vars)
	for _, v := range vars {
		m.check(v)
	}
	c.vars = vars
	m.constraints = append(m.constraints, c)
}

func (m *Model) check(v BoolVar) {
	if v < 1 || int(v) > len(m.names) {
		panic(fmt.Sprintf("solve: variable %d does not belong to this model", v))
	}
}
