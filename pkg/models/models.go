package models

// Person bounds how many days one person may work across the whole horizon
type Person struct {
	MinimumAssigned int `json:"minimumAssigned"`
	MaximumAssigned int `json:"maximumAssigned"`
}

// Day bounds how many people a day takes and carries, per person, whether
// that person is eligible and how much assigning them is worth
type Day struct {
	MinimumAssigned int    `json:"minimumAssigned"`
	MaximumAssigned int    `json:"maximumAssigned"`
	Availability    []bool `json:"availability"`
	Preference      []int  `json:"preference"`
}

// ScheduleRequest is one complete solve input. AssignmentWeight is added to
// the objective once per assignment made, on top of the per-cell preference,
// so it controls how aggressively slots are filled when preferences are weak
// or negative.
type ScheduleRequest struct {
	Days             []Day    `json:"days"`
	People           []Person `json:"people"`
	AssignmentWeight int      `json:"assignmentWeight"`
}

// ScheduleStatus classifies the outcome of a solve
type ScheduleStatus string

const (
	// StatusOptimal means a best schedule was found and proven best
	StatusOptimal ScheduleStatus = "Optimal"
	// StatusInfeasible means no schedule satisfies the constraints
	StatusInfeasible ScheduleStatus = "Infeasible"
	// StatusOther covers every remaining terminal state, such as the time
	// limit expiring before optimality was proven
	StatusOther ScheduleStatus = "Other"
)

// ScheduleResult is one complete solve outcome. The assignment grid exists
// only for optimal results; everything non-optimal carries the status alone.
type ScheduleResult struct {
	Status ScheduleStatus `json:"status"`
	// DayAssignments[d][p] is true iff person p works day d, in input order.
	// It is null whenever Status is not Optimal.
	DayAssignments [][]bool `json:"dayAssignments"`
}

// Assignments returns the day-by-day grid and whether one exists. Callers
// should use this rather than reading DayAssignments directly, so a missing
// grid cannot be mistaken for an empty schedule.
func (r *ScheduleResult) Assignments() ([][]bool, bool) {
	if r.Status != StatusOptimal {
		return nil, false
	}
	return r.DayAssignments, true
}
