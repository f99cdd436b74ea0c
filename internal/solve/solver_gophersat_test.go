package solve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testBudget = 30 * time.Second

func TestSolveOptimalPicksHeaviestAssignment(t *testing.T) {
	// Arrange
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	m.AddSumAtMost([]BoolVar{a, b}, 1)
	m.AddSumAtLeast([]BoolVar{a, b}, 1)
	m.Maximize([]BoolVar{a, b}, []int{2, 5})

	// Act
	result, err := NewGophersatSolver().Solve(m, testBudget)

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, Optimal, result.Status)
	assert.False(t, result.Value(a))
	assert.True(t, result.Value(b))
	assert.Equal(t, 5, result.Objective)
}

func TestSolveInfeasible(t *testing.T) {
	// Arrange
	m := NewModel()
	x := m.NewBoolVar("x")
	m.AddSumAtLeast([]BoolVar{x}, 1)
	m.Forbid(x)

	// Act
	result, err := NewGophersatSolver().Solve(m, testBudget)

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, Infeasible, result.Status)
	assert.False(t, result.Status.Succeeded())
}

func TestSolveConstantInfeasibilityShortCircuits(t *testing.T) {
	// Arrange: two variables can never sum to three
	m := NewModel()
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	m.AddSumAtLeast([]BoolVar{x, y}, 3)

	// Act
	result, err := NewGophersatSolver().Solve(m, testBudget)

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, Infeasible, result.Status)
}

func TestSolveExactSum(t *testing.T) {
	// Arrange
	m := NewModel()
	vars := []BoolVar{}
	for range 5 {
		vars = append(vars, m.NewBoolVar("v"))
	}
	m.AddSumEqual(vars, 3)

	// Act
	result, err := NewGophersatSolver().Solve(m, testBudget)

	// Assert
	assert.Nil(t, err)
	assert.True(t, result.Status.Succeeded())
	assigned := 0
	for _, v := range vars {
		if result.Value(v) {
			assigned++
		}
	}
	assert.Equal(t, 3, assigned)
}

func TestSolveIndicatorLinking(t *testing.T) {
	// Arrange: the "slot used" linking pattern with negative coefficients
	m := NewModel()
	s1 := m.NewBoolVar("s1")
	s2 := m.NewBoolVar("s2")
	used := m.NewBoolVar("used")
	// s1 + s2 <= 2*used
	m.AddLinearAtMost([]BoolVar{s1, s2, used}, []int{1, 1, -2}, 0)
	// s1 + s2 >= used
	m.AddLinearAtLeast([]BoolVar{s1, s2, used}, []int{1, 1, -1}, 0)
	m.AddSumAtLeast([]BoolVar{s1}, 1)

	// Act
	result, err := NewGophersatSolver().Solve(m, testBudget)

	// Assert
	assert.Nil(t, err)
	assert.True(t, result.Status.Succeeded())
	assert.True(t, result.Value(s1))
	assert.True(t, result.Value(used))
}

func TestSolveIndicatorForcedDownWhenEmpty(t *testing.T) {
	// Arrange: no session scheduled keeps the indicator at zero
	m := NewModel()
	s1 := m.NewBoolVar("s1")
	used := m.NewBoolVar("used")
	m.AddLinearAtMost([]BoolVar{s1, used}, []int{1, -1}, 0)
	m.AddLinearAtLeast([]BoolVar{s1, used}, []int{1, -1}, 0)
	m.Forbid(s1)
	// Prefer the indicator up; linking must still force it down
	m.Maximize([]BoolVar{used}, []int{1})

	// Act
	result, err := NewGophersatSolver().Solve(m, testBudget)

	// Assert
	assert.Nil(t, err)
	assert.True(t, result.Status.Succeeded())
	assert.False(t, result.Value(used))
	assert.Equal(t, 0, result.Objective)
}

func TestSolveDecodesAssignmentByVariableIndex(t *testing.T) {
	// Arrange: a model with exactly one assignment, pinning every variable
	m := NewModel()
	first := m.NewBoolVar("first")
	second := m.NewBoolVar("second")
	third := m.NewBoolVar("third")
	m.AddSumAtLeast([]BoolVar{first}, 1)
	m.Forbid(second)
	m.AddSumAtLeast([]BoolVar{third}, 1)

	// Act
	result, err := NewGophersatSolver().Solve(m, testBudget)

	// Assert
	assert.Nil(t, err)
	assert.True(t, result.Status.Succeeded())
	assert.True(t, result.Value(first))
	assert.False(t, result.Value(second))
	assert.True(t, result.Value(third))
}

func TestSolveReturnsOnceBudgetExpires(t *testing.T) {
	// Arrange: ten pigeons into nine holes, expensive to refute
	m := NewModel()
	const pigeons, holes = 10, 9
	vars := [pigeons][holes]BoolVar{}
	for p := range pigeons {
		for h := range holes {
			vars[p][h] = m.NewBoolVar("p")
		}
	}
	for p := range pigeons {
		m.AddSumAtLeast(vars[p][:], 1)
	}
	for h := range holes {
		column := []BoolVar{}
		for p := range pigeons {
			column = append(column, vars[p][h])
		}
		m.AddSumAtMost(column, 1)
	}

	// Act
	start := time.Now()
	result, err := NewGophersatSolver().Solve(m, 100*time.Millisecond)
	elapsed := time.Since(start)

	// Assert: either the engine refutes in time or the budget cuts it off;
	// Solve must return promptly in both cases instead of blocking on the
	// engine goroutine.
	assert.Nil(t, err)
	assert.Contains(t, []Status{Infeasible, Unknown}, result.Status)
	assert.Less(t, elapsed, 10*time.Second)
}

func TestStatusNames(t *testing.T) {
	assert.Equal(t, "OPTIMAL", Optimal.String())
	assert.Equal(t, "FEASIBLE", Feasible.String())
	assert.Equal(t, "INFEASIBLE", Infeasible.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
}
