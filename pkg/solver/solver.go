package solver

import "time"

// Status is the terminal state of a solve
type Status string

const (
	// StatusOptimal means the best feasible assignment was found and proven best
	StatusOptimal Status = "OPTIMAL"
	// StatusFeasible means the time limit was hit while holding an unproven incumbent
	StatusFeasible Status = "FEASIBLE"
	// StatusInfeasible means no assignment satisfies every constraint
	StatusInfeasible Status = "INFEASIBLE"
	// StatusUnknown means the time limit was hit before any feasible assignment was found
	StatusUnknown Status = "UNKNOWN"
)

// BoolVar references one boolean decision variable within the model that declared it
type BoolVar int

// Term is a single coefficient*variable entry in a linear expression
type Term struct {
	Var   BoolVar
	Coeff int64
}

// Model is the contract between the formulation layer and the solving engine:
// declare boolean variables, bound weighted sums of them, set one linear
// maximize objective, and solve under a wall-clock ceiling. A Model holds one
// problem and is discarded after Solve.
type Model interface {
	NewBoolVar() BoolVar
	AddLinearConstraint(terms []Term, lb, ub int64)
	Maximize(terms []Term)
	Solve(timeLimit time.Duration) Solution
}

// Solution carries the terminal status and, when an assignment exists, the
// solved value of every declared variable
type Solution struct {
	Status    Status
	Objective int64

	values []bool
}

// BoolValue returns the solved value of v. It is false for every variable
// when the status carries no assignment.
func (s Solution) BoolValue(v BoolVar) bool {
	if s.values == nil || int(v) < 0 || int(v) >= len(s.values) {
		return false
	}
	return s.values[v]
}

// HasValues reports whether the solution carries a variable assignment
func (s Solution) HasValues() bool {
	return s.values != nil
}
