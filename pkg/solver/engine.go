package solver

import "time"

// deadlineCheckInterval is how many search nodes pass between wall-clock checks
const deadlineCheckInterval = 1024

// model is the built-in engine behind Model: an exhaustive depth-first search
// over the boolean variables with constraint propagation and an objective
// bound. Completing the search proves optimality (or infeasibility); hitting
// the time limit first yields FEASIBLE or UNKNOWN instead.
type model struct {
	numVars     int
	constraints []constraint
	objective   []Term
}

type constraint struct {
	terms  []Term
	lb, ub int64
}

// NewModel returns an empty model backed by the built-in engine
func NewModel() Model {
	return &model{}
}

func (m *model) NewBoolVar() BoolVar {
	v := BoolVar(m.numVars)
	m.numVars++
	return v
}

func (m *model) AddLinearConstraint(terms []Term, lb, ub int64) {
	m.constraints = append(m.constraints, constraint{
		terms: append([]Term(nil), terms...),
		lb:    lb,
		ub:    ub,
	})
}

func (m *model) Maximize(terms []Term) {
	m.objective = append([]Term(nil), terms...)
}

// conRef ties a variable to one constraint it participates in
type conRef struct {
	idx   int
	coeff int64
}

// search is the mutable state of one Solve call
type search struct {
	numVars int

	// per-variable views of the constraint set and objective
	varCons  [][]conRef
	objCoeff []int64

	// posObjSuffix[v] is the best objective contribution still reachable
	// from variables v..numVars-1
	posObjSuffix []int64

	// per-constraint running sum and the range still addable by
	// unassigned variables
	sum    []int64
	posRem []int64
	negRem []int64

	values  []bool
	best    []bool
	bestObj int64
	hasBest bool

	deadline time.Time
	nodes    int
	stopped  bool
}

func (m *model) Solve(timeLimit time.Duration) Solution {
	s := &search{
		numVars:      m.numVars,
		varCons:      make([][]conRef, m.numVars),
		objCoeff:     make([]int64, m.numVars),
		posObjSuffix: make([]int64, m.numVars+1),
		sum:          make([]int64, len(m.constraints)),
		posRem:       make([]int64, len(m.constraints)),
		negRem:       make([]int64, len(m.constraints)),
		values:       make([]bool, m.numVars),
	}
	if timeLimit > 0 {
		s.deadline = time.Now().Add(timeLimit)
	}

	for i, c := range m.constraints {
		for _, t := range c.terms {
			s.varCons[t.Var] = append(s.varCons[t.Var], conRef{idx: i, coeff: t.Coeff})
			if t.Coeff > 0 {
				s.posRem[i] += t.Coeff
			} else {
				s.negRem[i] += t.Coeff
			}
		}
		// a constraint no assignment can satisfy
		if s.posRem[i] < c.lb || s.negRem[i] > c.ub {
			return Solution{Status: StatusInfeasible}
		}
	}

	for _, t := range m.objective {
		s.objCoeff[t.Var] += t.Coeff
	}
	for v := m.numVars - 1; v >= 0; v-- {
		s.posObjSuffix[v] = s.posObjSuffix[v+1]
		if s.objCoeff[v] > 0 {
			s.posObjSuffix[v] += s.objCoeff[v]
		}
	}

	s.dfs(m.constraints, 0, 0)

	switch {
	case s.stopped && s.hasBest:
		return Solution{Status: StatusFeasible, Objective: s.bestObj, values: s.best}
	case s.stopped:
		return Solution{Status: StatusUnknown}
	case s.hasBest:
		return Solution{Status: StatusOptimal, Objective: s.bestObj, values: s.best}
	default:
		return Solution{Status: StatusInfeasible}
	}
}

func (s *search) dfs(cons []constraint, v int, objSum int64) {
	if s.stopped {
		return
	}
	s.nodes++
	if s.nodes%deadlineCheckInterval == 0 && !s.deadline.IsZero() && time.Now().After(s.deadline) {
		s.stopped = true
		return
	}

	if v == s.numVars {
		if !s.hasBest || objSum > s.bestObj {
			s.hasBest = true
			s.bestObj = objSum
			if s.best == nil {
				s.best = make([]bool, 0, s.numVars)
			}
			s.best = append(s.best[:0], s.values...)
		}
		return
	}

	// nothing ahead can beat the incumbent
	if s.hasBest && objSum+s.posObjSuffix[v] <= s.bestObj {
		return
	}

	order := [2]bool{true, false}
	if s.objCoeff[v] <= 0 {
		order = [2]bool{false, true}
	}
	for _, val := range order {
		if s.assign(cons, v, val) {
			delta := int64(0)
			if val {
				delta = s.objCoeff[v]
			}
			s.dfs(cons, v+1, objSum+delta)
		}
		s.unassign(v, val)
		if s.stopped {
			return
		}
	}
}

// assign fixes variable v, propagates it into every constraint it touches,
// and reports whether those constraints can still be satisfied
func (s *search) assign(cons []constraint, v int, val bool) bool {
	s.values[v] = val
	ok := true
	for _, r := range s.varCons[v] {
		if r.coeff > 0 {
			s.posRem[r.idx] -= r.coeff
		} else {
			s.negRem[r.idx] -= r.coeff
		}
		if val {
			s.sum[r.idx] += r.coeff
		}
		c := cons[r.idx]
		if s.sum[r.idx]+s.posRem[r.idx] < c.lb || s.sum[r.idx]+s.negRem[r.idx] > c.ub {
			ok = false
		}
	}
	return ok
}

func (s *search) unassign(v int, val bool) {
	for _, r := range s.varCons[v] {
		if r.coeff > 0 {
			s.posRem[r.idx] += r.coeff
		} else {
			s.negRem[r.idx] += r.coeff
		}
		if val {
			s.sum[r.idx] -= r.coeff
		}
	}
	s.values[v] = false
}
