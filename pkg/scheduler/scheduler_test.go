package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/arnavshah/rota-solver-go/pkg/models"
	"github.com/arnavshah/rota-solver-go/pkg/solver"
)

// stubModel stands in for the solving engine so formulation and extraction
// can be exercised without a real search
type stubModel struct {
	status solver.Status
	vars   int
	solved bool
}

func (s *stubModel) NewBoolVar() solver.BoolVar {
	v := solver.BoolVar(s.vars)
	s.vars++
	return v
}

func (s *stubModel) AddLinearConstraint(terms []solver.Term, lb, ub int64) {}

func (s *stubModel) Maximize(terms []solver.Term) {}

func (s *stubModel) Solve(timeLimit time.Duration) solver.Solution {
	s.solved = true
	return solver.Solution{Status: s.status}
}

func allAvailable(n int) []bool {
	a := make([]bool, n)
	for i := range a {
		a[i] = true
	}
	return a
}

func objectiveOf(req *models.ScheduleRequest, grid [][]bool) int {
	total := 0
	for d, row := range grid {
		for p, assigned := range row {
			if assigned {
				total += req.Days[d].Preference[p] + req.AssignmentWeight
			}
		}
	}
	return total
}

func TestSolveZeroBoundsYieldsEmptySchedule(t *testing.T) {
	req := &models.ScheduleRequest{
		Days: []models.Day{
			{MinimumAssigned: 0, MaximumAssigned: 0, Availability: allAvailable(2), Preference: []int{3, 4}},
			{MinimumAssigned: 0, MaximumAssigned: 0, Availability: allAvailable(2), Preference: []int{1, 2}},
		},
		People: []models.Person{
			{MinimumAssigned: 0, MaximumAssigned: 2},
			{MinimumAssigned: 0, MaximumAssigned: 2},
		},
	}

	result, err := NewScheduler().Solve(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Status != models.StatusOptimal {
		t.Fatalf("Expected Optimal, got %s", result.Status)
	}
	grid, ok := result.Assignments()
	if !ok {
		t.Fatal("Expected an assignment grid")
	}
	for d, row := range grid {
		for p, assigned := range row {
			if assigned {
				t.Errorf("Expected empty schedule, but day %d person %d is assigned", d, p)
			}
		}
	}
}

func TestSolveInvertedPersonBoundsIsInfeasible(t *testing.T) {
	req := &models.ScheduleRequest{
		Days: []models.Day{
			{MinimumAssigned: 0, MaximumAssigned: 1, Availability: allAvailable(1), Preference: []int{1}},
		},
		People: []models.Person{
			{MinimumAssigned: 2, MaximumAssigned: 1},
		},
	}

	result, err := NewScheduler().Solve(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Status != models.StatusInfeasible {
		t.Errorf("Expected Infeasible, got %s", result.Status)
	}
	if _, ok := result.Assignments(); ok {
		t.Error("Expected no assignment grid for an infeasible solve")
	}
}

func TestSolveInvertedDayBoundsIsInfeasible(t *testing.T) {
	req := &models.ScheduleRequest{
		Days: []models.Day{
			{MinimumAssigned: 1, MaximumAssigned: 0, Availability: allAvailable(1), Preference: []int{1}},
		},
		People: []models.Person{
			{MinimumAssigned: 0, MaximumAssigned: 1},
		},
	}

	result, err := NewScheduler().Solve(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Status != models.StatusInfeasible {
		t.Errorf("Expected Infeasible, got %s", result.Status)
	}
}

func TestSolvePreferenceDecidesAssignment(t *testing.T) {
	// one slot, two candidates: the higher preference wins
	req := &models.ScheduleRequest{
		Days: []models.Day{
			{MinimumAssigned: 1, MaximumAssigned: 1, Availability: allAvailable(2), Preference: []int{5, 1}},
		},
		People: []models.Person{
			{MinimumAssigned: 0, MaximumAssigned: 1},
			{MinimumAssigned: 0, MaximumAssigned: 1},
		},
	}

	result, err := NewScheduler().Solve(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Status != models.StatusOptimal {
		t.Fatalf("Expected Optimal, got %s", result.Status)
	}
	grid, _ := result.Assignments()
	if !grid[0][0] || grid[0][1] {
		t.Errorf("Expected [[true false]], got %v", grid)
	}
}

func TestSolveNeverAssignsUnavailablePerson(t *testing.T) {
	req := &models.ScheduleRequest{
		Days: []models.Day{
			{MinimumAssigned: 0, MaximumAssigned: 1, Availability: []bool{true}, Preference: []int{1}},
			{MinimumAssigned: 0, MaximumAssigned: 1, Availability: []bool{false}, Preference: []int{100}},
		},
		People: []models.Person{
			{MinimumAssigned: 0, MaximumAssigned: 2},
		},
		AssignmentWeight: 1,
	}

	result, err := NewScheduler().Solve(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Status != models.StatusOptimal {
		t.Fatalf("Expected Optimal, got %s", result.Status)
	}
	grid, _ := result.Assignments()
	if grid[1][0] {
		t.Error("Assigned a person on a day they are unavailable")
	}
}

func TestSolveRespectsCapacityBounds(t *testing.T) {
	req := &models.ScheduleRequest{
		Days: []models.Day{
			{MinimumAssigned: 1, MaximumAssigned: 2, Availability: []bool{true, true, false}, Preference: []int{4, 2, 9}},
			{MinimumAssigned: 0, MaximumAssigned: 1, Availability: []bool{true, false, true}, Preference: []int{1, 1, 1}},
			{MinimumAssigned: 1, MaximumAssigned: 3, Availability: allAvailable(3), Preference: []int{0, 3, -2}},
			{MinimumAssigned: 0, MaximumAssigned: 2, Availability: []bool{false, true, true}, Preference: []int{5, 5, 5}},
		},
		People: []models.Person{
			{MinimumAssigned: 1, MaximumAssigned: 3},
			{MinimumAssigned: 0, MaximumAssigned: 2},
			{MinimumAssigned: 1, MaximumAssigned: 2},
		},
		AssignmentWeight: 1,
	}

	result, err := NewScheduler().Solve(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Status != models.StatusOptimal {
		t.Fatalf("Expected Optimal, got %s", result.Status)
	}
	grid, _ := result.Assignments()

	for d, day := range req.Days {
		sum := 0
		for p, assigned := range grid[d] {
			if assigned {
				sum++
				if !day.Availability[p] {
					t.Errorf("Day %d assigned unavailable person %d", d, p)
				}
			}
		}
		if sum < day.MinimumAssigned || sum > day.MaximumAssigned {
			t.Errorf("Day %d sum %d outside bounds [%d, %d]", d, sum, day.MinimumAssigned, day.MaximumAssigned)
		}
	}

	for p, person := range req.People {
		sum := 0
		for d := range req.Days {
			if grid[d][p] {
				sum++
			}
		}
		if sum < person.MinimumAssigned || sum > person.MaximumAssigned {
			t.Errorf("Person %d sum %d outside bounds [%d, %d]", p, sum, person.MinimumAssigned, person.MaximumAssigned)
		}
	}
}

func TestSolveAssignmentWeightFillsWeakSlots(t *testing.T) {
	req := &models.ScheduleRequest{
		Days: []models.Day{
			{MinimumAssigned: 0, MaximumAssigned: 1, Availability: allAvailable(1), Preference: []int{-1}},
		},
		People: []models.Person{
			{MinimumAssigned: 0, MaximumAssigned: 1},
		},
	}

	s := NewScheduler()

	// with no weight the negative preference leaves the slot empty
	result, err := s.Solve(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	grid, _ := result.Assignments()
	if grid[0][0] {
		t.Error("Expected slot left empty when the net objective of filling it is negative")
	}

	// a weight outweighing the preference fills it
	req.AssignmentWeight = 2
	result, err = s.Solve(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	grid, _ = result.Assignments()
	if !grid[0][0] {
		t.Error("Expected slot filled once assignmentWeight outweighs the negative preference")
	}
}

func TestValidateMismatchedArrays(t *testing.T) {
	cases := []struct {
		name  string
		day   models.Day
		field string
	}{
		{
			name:  "short availability",
			day:   models.Day{Availability: []bool{true}, Preference: []int{1, 2}},
			field: "availability",
		},
		{
			name:  "short preference",
			day:   models.Day{Availability: []bool{true, true}, Preference: []int{1}},
			field: "preference",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &models.ScheduleRequest{
				Days:   []models.Day{tc.day},
				People: []models.Person{{}, {}},
			}

			stub := &stubModel{status: solver.StatusOptimal}
			s := &Scheduler{
				NewModel:  func() solver.Model { return stub },
				TimeLimit: time.Second,
			}

			_, err := s.Solve(req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected *ValidationError, got %v", err)
			}
			if verr.Day != 0 || verr.Field != tc.field {
				t.Errorf("Expected day 0 field %q, got day %d field %q", tc.field, verr.Day, verr.Field)
			}
			if stub.solved {
				t.Error("Solve was attempted despite a validation failure")
			}
		})
	}
}

func TestSolveNonOptimalStatusCarriesNoGrid(t *testing.T) {
	cases := []struct {
		engine solver.Status
		want   models.ScheduleStatus
	}{
		{solver.StatusInfeasible, models.StatusInfeasible},
		{solver.StatusFeasible, models.StatusOther},
		{solver.StatusUnknown, models.StatusOther},
	}

	for _, tc := range cases {
		s := &Scheduler{
			NewModel:  func() solver.Model { return &stubModel{status: tc.engine} },
			TimeLimit: time.Second,
		}
		req := &models.ScheduleRequest{
			Days:   []models.Day{{MaximumAssigned: 1, Availability: allAvailable(1), Preference: []int{1}}},
			People: []models.Person{{MaximumAssigned: 1}},
		}

		result, err := s.Solve(req)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if result.Status != tc.want {
			t.Errorf("Engine status %s: expected %s, got %s", tc.engine, tc.want, result.Status)
		}
		if _, ok := result.Assignments(); ok {
			t.Errorf("Engine status %s: expected no assignment grid", tc.engine)
		}
		if result.DayAssignments != nil {
			t.Errorf("Engine status %s: expected nil DayAssignments", tc.engine)
		}
	}
}

func TestSolveIdempotentObjective(t *testing.T) {
	req := &models.ScheduleRequest{
		Days: []models.Day{
			{MinimumAssigned: 0, MaximumAssigned: 2, Availability: allAvailable(3), Preference: []int{2, 2, 5}},
			{MinimumAssigned: 1, MaximumAssigned: 2, Availability: allAvailable(3), Preference: []int{4, 1, 1}},
		},
		People: []models.Person{
			{MinimumAssigned: 0, MaximumAssigned: 2},
			{MinimumAssigned: 0, MaximumAssigned: 2},
			{MinimumAssigned: 0, MaximumAssigned: 1},
		},
		AssignmentWeight: 1,
	}

	s := NewScheduler()
	first, err := s.Solve(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := s.Solve(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if first.Status != second.Status {
		t.Fatalf("Status differs across runs: %s vs %s", first.Status, second.Status)
	}
	if first.Status != models.StatusOptimal {
		t.Fatalf("Expected Optimal, got %s", first.Status)
	}

	firstGrid, _ := first.Assignments()
	secondGrid, _ := second.Assignments()
	if objectiveOf(req, firstGrid) != objectiveOf(req, secondGrid) {
		t.Errorf("Objective differs across runs: %d vs %d", objectiveOf(req, firstGrid), objectiveOf(req, secondGrid))
	}
}
