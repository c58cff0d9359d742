package scheduler

import (
	"fmt"
	"time"

	"github.com/arnavshah/rota-solver-go/pkg/models"
	"github.com/arnavshah/rota-solver-go/pkg/solver"
)

// DefaultTimeLimit caps how long one solve may search before the engine has
// to return with whatever terminal status it reached
const DefaultTimeLimit = 10 * time.Second

// Scheduler turns a ScheduleRequest into boolean decision variables, linear
// constraints and a linear objective, hands the model to a solving engine,
// and reads the assignment grid back out of an optimal solution. Each Solve
// builds a fresh model, so one Scheduler may serve concurrent requests.
type Scheduler struct {
	NewModel  func() solver.Model
	TimeLimit time.Duration
}

// NewScheduler returns a scheduler backed by the built-in solving engine
func NewScheduler() *Scheduler {
	return &Scheduler{
		NewModel:  solver.NewModel,
		TimeLimit: DefaultTimeLimit,
	}
}

// ValidationError reports a day whose per-person arrays disagree with the
// declared person count. Requests that fail validation are never solved.
type ValidationError struct {
	Day   int
	Field string
	Got   int
	Want  int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("day %d: %s has %d entries, want %d (one per person)", e.Day, e.Field, e.Got, e.Want)
}

// Validate checks that every day's availability and preference arrays carry
// exactly one entry per person. Bound values are deliberately not checked
// here: inverted or out-of-range bounds surface as an infeasible solve, not
// as a rejected request.
func Validate(req *models.ScheduleRequest) error {
	people := len(req.People)
	for d, day := range req.Days {
		if len(day.Availability) != people {
			return &ValidationError{Day: d, Field: "availability", Got: len(day.Availability), Want: people}
		}
		if len(day.Preference) != people {
			return &ValidationError{Day: d, Field: "preference", Got: len(day.Preference), Want: people}
		}
	}
	return nil
}

// assignmentGrid is the day-major grid of decision variables for one solve.
// Both constraint passes read the same underlying variables: dayTerms walks a
// row, personTerms walks the transposed column.
type assignmentGrid struct {
	days   int
	people int
	vars   []solver.BoolVar
}

func newAssignmentGrid(m solver.Model, days, people int) *assignmentGrid {
	g := &assignmentGrid{
		days:   days,
		people: people,
		vars:   make([]solver.BoolVar, days*people),
	}
	for i := range g.vars {
		g.vars[i] = m.NewBoolVar()
	}
	return g
}

func (g *assignmentGrid) at(d, p int) solver.BoolVar {
	return g.vars[d*g.people+p]
}

// dayTerms is the unit-coefficient sum of every person on day d
func (g *assignmentGrid) dayTerms(d int) []solver.Term {
	terms := make([]solver.Term, g.people)
	for p := 0; p < g.people; p++ {
		terms[p] = solver.Term{Var: g.at(d, p), Coeff: 1}
	}
	return terms
}

// personTerms is the unit-coefficient sum of person p across every day
func (g *assignmentGrid) personTerms(p int) []solver.Term {
	terms := make([]solver.Term, g.days)
	for d := 0; d < g.days; d++ {
		terms[d] = solver.Term{Var: g.at(d, p), Coeff: 1}
	}
	return terms
}

// Solve validates the request, formulates the model, runs the engine under
// the time limit and extracts the result. The only error it returns is a
// *ValidationError; infeasible and timed-out solves are normal outcomes
// reported through the result status.
func (s *Scheduler) Solve(req *models.ScheduleRequest) (*models.ScheduleResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	m := s.NewModel()
	grid := newAssignmentGrid(m, len(req.Days), len(req.People))

	// day capacity: min <= sum of people on the day <= max
	for d, day := range req.Days {
		m.AddLinearConstraint(grid.dayTerms(d), int64(day.MinimumAssigned), int64(day.MaximumAssigned))
	}

	// availability: an unavailable person can never be assigned that day
	for d, day := range req.Days {
		for p, available := range day.Availability {
			if !available {
				m.AddLinearConstraint([]solver.Term{{Var: grid.at(d, p), Coeff: 1}}, 0, 0)
			}
		}
	}

	// person capacity: min <= sum of the person's days <= max
	for p, person := range req.People {
		m.AddLinearConstraint(grid.personTerms(p), int64(person.MinimumAssigned), int64(person.MaximumAssigned))
	}

	// one linear objective: per-cell preference plus a uniform reward for
	// every assignment made
	objective := make([]solver.Term, 0, grid.days*grid.people)
	for d, day := range req.Days {
		for p := 0; p < grid.people; p++ {
			coeff := int64(day.Preference[p]) + int64(req.AssignmentWeight)
			objective = append(objective, solver.Term{Var: grid.at(d, p), Coeff: coeff})
		}
	}
	m.Maximize(objective)

	return extract(m.Solve(s.TimeLimit), grid), nil
}

// extract maps the terminal solve status onto a ScheduleResult. Only a
// proven-optimal solution yields a grid; anything else returns status alone,
// even when the engine holds an unproven incumbent.
func extract(sol solver.Solution, grid *assignmentGrid) *models.ScheduleResult {
	switch sol.Status {
	case solver.StatusOptimal:
		assignments := make([][]bool, grid.days)
		for d := 0; d < grid.days; d++ {
			row := make([]bool, grid.people)
			for p := 0; p < grid.people; p++ {
				row[p] = sol.BoolValue(grid.at(d, p))
			}
			assignments[d] = row
		}
		return &models.ScheduleResult{Status: models.StatusOptimal, DayAssignments: assignments}
	case solver.StatusInfeasible:
		return &models.ScheduleResult{Status: models.StatusInfeasible}
	default:
		return &models.ScheduleResult{Status: models.StatusOther}
	}
}
