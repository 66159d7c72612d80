// Package solver holds a small mixed-integer solver and the batch formulation built on it.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Sense is the relation of a linear constraint to its right-hand side.
type Sense int

const (
	LE Sense = iota
	GE
	EQ
)

func (s Sense) String() string {
	switch s {
	case LE:
		return "<="
	case GE:
		return ">="
	case EQ:
		return "=="
	}
	return fmt.Sprintf("Sense(%d)", int(s))
}

// Term is coef * variable.
type Term struct {
	Var  int
	Coef float64
}

// Var is a bounded decision variable. Hi may be +Inf.
type Var struct {
	Name    string
	Lo      float64
	Hi      float64
	Integer bool
	// Priority orders branching: fractional variables of a higher priority
	// are branched on before any of a lower one.
	Priority int
}

// Constraint is Σ terms (sense) RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Model is a maximization problem over bounded variables.
type Model struct {
	vars      []Var
	cons      []Constraint
	objective []Term
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// AddVar adds a variable and returns its index.
func (m *Model) AddVar(name string, lo, hi float64, integer bool) int {
	m.vars = append(m.vars, Var{Name: name, Lo: lo, Hi: hi, Integer: integer})
	return len(m.vars) - 1
}

// SetPriority sets the branching priority of variable v.
func (m *Model) SetPriority(v, priority int) {
	m.vars[v].Priority = priority
}

// AddConstraint appends a linear constraint.
func (m *Model) AddConstraint(name string, terms []Term, sense Sense, rhs float64) {
	m.cons = append(m.cons, Constraint{Name: name, Terms: terms, Sense: sense, RHS: rhs})
}

// Maximize sets the objective. Variables not listed have weight zero.
func (m *Model) Maximize(terms []Term) {
	m.objective = terms
}

// Vars returns the model variables.
func (m *Model) Vars() []Var {
	return m.vars
}

// Constraints returns the model constraints.
func (m *Model) Constraints() []Constraint {
	return m.cons
}

// Validate checks bounds and term indices.
func (m *Model) Validate() error {
	for i, v := range m.vars {
		if math.IsNaN(v.Lo) || math.IsInf(v.Lo, 0) || math.IsNaN(v.Hi) || v.Hi < v.Lo {
			return fmt.Errorf("%w: variable %s has bounds [%v, %v]", ErrInvalidModel, nameOf(v, i), v.Lo, v.Hi)
		}
	}
	check := func(where string, terms []Term) error {
		for _, t := range terms {
			if t.Var < 0 || t.Var >= len(m.vars) {
				return fmt.Errorf("%w: %s references variable %d", ErrInvalidModel, where, t.Var)
			}
			if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
				return fmt.Errorf("%w: %s has coefficient %v", ErrInvalidModel, where, t.Coef)
			}
		}
		return nil
	}
	for _, c := range m.cons {
		if c.Sense < LE || c.Sense > EQ {
			return fmt.Errorf("%w: constraint %s has sense %d", ErrInvalidModel, c.Name, int(c.Sense))
		}
		if err := check("constraint "+c.Name, c.Terms); err != nil {
			return err
		}
	}
	return check("objective", m.objective)
}

func nameOf(v Var, i int) string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("#%d", i)
}

// Options tune Solve.
type Options struct {
	// NodeLimit caps the branch-and-bound nodes. Reaching it is a failure.
	NodeLimit int
	// Tolerance is the integrality and feasibility tolerance.
	Tolerance float64
}

// DefaultOptions returns the limits used when none are given.
func DefaultOptions() Options {
	return Options{NodeLimit: 50000, Tolerance: 1e-6}
}

// Solution is an optimal integer assignment.
type Solution struct {
	Values    []float64
	Objective float64
	Nodes     int
}

type node struct {
	lo []float64
	hi []float64
}

// Solve runs a depth-first branch and bound over LP relaxations. Every node
// first tightens its bounds against the constraints, and dives take the up
// branch first. It returns ErrInfeasible when no integer point exists and
// ErrSolverFailure for every other way of giving up; Nodes is filled in both cases.
func Solve(ctx context.Context, m *Model, opts Options) (Solution, error) {
	if err := m.Validate(); err != nil {
		return Solution{}, err
	}
	if opts.NodeLimit <= 0 {
		opts.NodeLimit = DefaultOptions().NodeLimit
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultOptions().Tolerance
	}
	tol := opts.Tolerance

	root := node{lo: make([]float64, len(m.vars)), hi: make([]float64, len(m.vars))}
	for i, v := range m.vars {
		root.lo[i], root.hi[i] = v.Lo, v.Hi
		if v.Integer {
			root.lo[i] = math.Ceil(v.Lo - tol)
			root.hi[i] = math.Floor(v.Hi + tol)
		}
	}
	integral := m.integralObjective()

	var (
		incumbent []float64
		best      = math.Inf(-1)
		nodes     int
	)
	stack := []node{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return Solution{Nodes: nodes}, fmt.Errorf("%w: %w", ErrSolverFailure, err)
		}
		if nodes >= opts.NodeLimit {
			return Solution{Nodes: nodes}, fmt.Errorf("%w: node limit %d reached", ErrSolverFailure, opts.NodeLimit)
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		nd = node{lo: append([]float64(nil), nd.lo...), hi: append([]float64(nil), nd.hi...)}
		if !m.tighten(nd.lo, nd.hi, tol) {
			continue
		}

		x, obj, err := m.relax(nd.lo, nd.hi, tol)
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			continue
		case errors.Is(err, lp.ErrUnbounded):
			return Solution{Nodes: nodes}, fmt.Errorf("%w: %w", ErrSolverFailure, err)
		case err != nil:
			// The relaxation broke down numerically: split a domain without a bound.
			j := m.widestInteger(nd.lo, nd.hi, tol)
			if j < 0 {
				return Solution{Nodes: nodes}, fmt.Errorf("%w: %w", ErrSolverFailure, err)
			}
			down, up := nd.split(j, math.Floor((nd.lo[j]+nd.hi[j])/2))
			stack = append(stack, down, up)
			continue
		}

		bound := obj
		if integral {
			bound = math.Floor(obj + tol)
		}
		if incumbent != nil && bound <= best+tol {
			continue
		}

		j := m.branchVar(x, tol)
		if j < 0 {
			rounded := m.round(x)
			if !m.satisfied(rounded, tol) {
				// Integral within tolerance but off the constraints after rounding.
				if k := m.widestInteger(nd.lo, nd.hi, tol); k >= 0 {
					down, up := nd.split(k, math.Floor((nd.lo[k]+nd.hi[k])/2))
					stack = append(stack, down, up)
				}
				continue
			}
			best, incumbent = m.evaluate(rounded), rounded
			continue
		}

		down, up := nd.split(j, math.Floor(x[j]))
		stack = append(stack, down, up)
	}

	if incumbent == nil {
		return Solution{Nodes: nodes}, ErrInfeasible
	}
	return Solution{Values: incumbent, Objective: best, Nodes: nodes}, nil
}

// split returns the children x[j] <= at and x[j] >= at+1. The up child is
// second so it is popped first.
func (nd node) split(j int, at float64) (node, node) {
	return node{lo: nd.lo, hi: cloneWith(nd.hi, j, at)}, node{lo: cloneWith(nd.lo, j, at+1), hi: nd.hi}
}

func cloneWith(v []float64, i int, val float64) []float64 {
	out := append([]float64(nil), v...)
	out[i] = val
	return out
}

func (m *Model) integralObjective() bool {
	for _, t := range m.objective {
		if !m.vars[t.Var].Integer || t.Coef != math.Trunc(t.Coef) {
			return false
		}
	}
	return true
}

// branchVar picks the first fractional integer variable of the highest
// priority, or -1 when x is integral.
func (m *Model) branchVar(x []float64, tol float64) int {
	idx := -1
	for i, v := range m.vars {
		if !v.Integer || math.Abs(x[i]-math.Round(x[i])) <= tol {
			continue
		}
		if idx < 0 || v.Priority > m.vars[idx].Priority {
			idx = i
		}
	}
	return idx
}

// widestInteger returns the unfixed integer variable with the widest finite
// domain, or -1 if there is none.
func (m *Model) widestInteger(lo, hi []float64, tol float64) int {
	idx, width := -1, tol
	for i, v := range m.vars {
		if !v.Integer || math.IsInf(hi[i], 1) {
			continue
		}
		if w := hi[i] - lo[i]; w > width {
			idx, width = i, w
		}
	}
	return idx
}

func (m *Model) round(x []float64) []float64 {
	out := append([]float64(nil), x...)
	for i, v := range m.vars {
		if v.Integer {
			out[i] = math.Round(out[i])
		}
	}
	return out
}

// satisfied checks every constraint at x, scaling the tolerance by the row magnitude.
func (m *Model) satisfied(x []float64, tol float64) bool {
	for _, c := range m.cons {
		lhs, scale := 0.0, math.Abs(c.RHS)
		for _, t := range c.Terms {
			lhs += t.Coef * x[t.Var]
			scale = math.Max(scale, math.Abs(t.Coef*x[t.Var]))
		}
		if !constantHolds(c.Sense, c.RHS-lhs, tol*math.Max(1, scale)) {
			return false
		}
	}
	return true
}

func (m *Model) evaluate(x []float64) float64 {
	total := 0.0
	for _, t := range m.objective {
		total += t.Coef * x[t.Var]
	}
	return total
}

// maxTightenRounds bounds the passes tighten makes over the constraints.
const maxTightenRounds = 32

// tighten narrows lo and hi in place from the activity bounds of every
// constraint until no bound moves. It reports false when some constraint
// cannot be met inside the bounds.
func (m *Model) tighten(lo, hi []float64, tol float64) bool {
	for range maxTightenRounds {
		moved := false
		for _, c := range m.cons {
			ok, changed := m.tightenRow(c, lo, hi, tol)
			if !ok {
				return false
			}
			moved = moved || changed
		}
		if !moved {
			break
		}
	}
	return true
}

func (m *Model) tightenRow(c Constraint, lo, hi []float64, tol float64) (ok, changed bool) {
	// Finite parts of the minimum and maximum activity, plus how many terms
	// are unbounded in each direction.
	var minAct, maxAct float64
	var minInf, maxInf int
	for _, t := range c.Terms {
		lower, upper := termRange(t, lo, hi)
		if math.IsInf(lower, -1) {
			minInf++
		} else {
			minAct += lower
		}
		if math.IsInf(upper, 1) {
			maxInf++
		} else {
			maxAct += upper
		}
	}
	slack := tol * math.Max(1, math.Abs(c.RHS))
	if c.Sense != GE && minInf == 0 && minAct > c.RHS+slack {
		return false, false
	}
	if c.Sense != LE && maxInf == 0 && maxAct < c.RHS-slack {
		return false, false
	}

	for _, t := range c.Terms {
		if t.Coef == 0 {
			continue
		}
		lower, upper := termRange(t, lo, hi)
		if c.Sense != GE {
			// coef*x <= rhs - (minimum activity of the other terms)
			if rest, found := residual(minAct, minInf, lower, -1); found {
				if t.Coef > 0 {
					changed = m.lowerHi(t.Var, (c.RHS-rest)/t.Coef, lo, hi, tol) || changed
				} else {
					changed = m.raiseLo(t.Var, (c.RHS-rest)/t.Coef, lo, hi, tol) || changed
				}
			}
		}
		if c.Sense != LE {
			// coef*x >= rhs - (maximum activity of the other terms)
			if rest, found := residual(maxAct, maxInf, upper, 1); found {
				if t.Coef > 0 {
					changed = m.raiseLo(t.Var, (c.RHS-rest)/t.Coef, lo, hi, tol) || changed
				} else {
					changed = m.lowerHi(t.Var, (c.RHS-rest)/t.Coef, lo, hi, tol) || changed
				}
			}
		}
		if lo[t.Var] > hi[t.Var]+tol {
			return false, changed
		}
		if lo[t.Var] > hi[t.Var] {
			lo[t.Var] = hi[t.Var]
		}
	}
	return true, changed
}

// termRange returns the smallest and largest value coef*x takes inside the bounds.
func termRange(t Term, lo, hi []float64) (float64, float64) {
	if t.Coef == 0 {
		return 0, 0
	}
	a, b := t.Coef*lo[t.Var], t.Coef*hi[t.Var]
	if math.IsInf(hi[t.Var], 1) {
		if t.Coef > 0 {
			return a, math.Inf(1)
		}
		return math.Inf(-1), a
	}
	return math.Min(a, b), math.Max(a, b)
}

// residual removes one term's contribution from an activity total. It fails
// when some other term is unbounded in that direction.
func residual(total float64, infinite int, own float64, sign int) (float64, bool) {
	ownInf := math.IsInf(own, sign)
	switch {
	case infinite == 0:
		return total - own, true
	case infinite == 1 && ownInf:
		return total, true
	}
	return 0, false
}

func (m *Model) lowerHi(v int, limit float64, lo, hi []float64, tol float64) bool {
	if m.vars[v].Integer {
		limit = math.Floor(limit + tol)
	}
	if limit < hi[v]-tol*math.Max(1, math.Abs(limit)) {
		hi[v] = limit
		return true
	}
	return false
}

func (m *Model) raiseLo(v int, limit float64, lo, hi []float64, tol float64) bool {
	if m.vars[v].Integer {
		limit = math.Ceil(limit - tol)
	}
	if limit > lo[v]+tol*math.Max(1, math.Abs(limit)) {
		lo[v] = limit
		return true
	}
	return false
}

// relax solves the LP relaxation with the given bounds. Each free variable is
// shifted to x' = x - lo. Inequalities get a slack column, equalities do not,
// and a finite upper bound becomes its own row unless a row of non-negative
// coefficients already implies it. Rows are scaled to a largest coefficient of one.
func (m *Model) relax(lo, hi []float64, tol float64) ([]float64, float64, error) {
	n := len(m.vars)
	for i := range n {
		if lo[i] > hi[i]+tol {
			return nil, 0, lp.ErrInfeasible
		}
	}

	weight := make([]float64, n)
	for _, t := range m.objective {
		weight[t.Var] += t.Coef
	}

	fixed := make([]bool, n)
	x := make([]float64, n)
	copy(x, lo)
	for i := range n {
		fixed[i] = hi[i]-lo[i] <= tol
	}

	active := make([]bool, n)
	for i := range n {
		if !fixed[i] && !math.IsInf(hi[i], 1) {
			active[i] = true
		}
	}
	for _, c := range m.cons {
		for _, t := range c.Terms {
			if !fixed[t.Var] && t.Coef != 0 {
				active[t.Var] = true
			}
		}
	}
	for i := range n {
		if fixed[i] || active[i] {
			continue
		}
		if weight[i] > tol {
			return nil, 0, lp.ErrUnbounded
		}
		fixed[i] = true
	}

	col := make([]int, n)
	var upper []float64
	for i := range n {
		col[i] = -1
		if !fixed[i] {
			col[i] = len(upper)
			upper = append(upper, hi[i]-lo[i])
		}
	}
	cols := len(upper)

	type row struct {
		coef  map[int]float64
		sense Sense
		rhs   float64
	}
	var rows []row
	implied := make([]bool, cols)
	for _, c := range m.cons {
		coef := make(map[int]float64)
		rhs := c.RHS
		for _, t := range c.Terms {
			rhs -= t.Coef * x[t.Var]
			if col[t.Var] >= 0 && t.Coef != 0 {
				coef[col[t.Var]] += t.Coef
			}
		}
		for j, v := range coef {
			if v == 0 {
				delete(coef, j)
			}
		}
		if len(coef) == 0 {
			if !constantHolds(c.Sense, rhs, tol) {
				return nil, 0, lp.ErrInfeasible
			}
			continue
		}
		rows = append(rows, row{coef: coef, sense: c.Sense, rhs: rhs})
		if c.Sense == LE {
			markImplied(implied, coef, rhs, upper, tol)
		}
	}
	for j, ub := range upper {
		if !math.IsInf(ub, 1) && !implied[j] {
			rows = append(rows, row{coef: map[int]float64{j: 1}, sense: LE, rhs: ub})
		}
	}

	if cols == 0 {
		return x, m.evaluate(x), nil
	}

	slacks := 0
	for _, rw := range rows {
		if rw.sense != EQ {
			slacks++
		}
	}
	width := cols + slacks
	if len(rows) > width {
		return nil, 0, fmt.Errorf("%d rows over %d columns", len(rows), width)
	}
	// lp.Simplex solves a square system directly and rejects round-off below
	// zero, so a square system gets a copy of its last slack column.
	square := len(rows) == width && slacks > 0
	if square {
		width++
	}
	a := mat.NewDense(len(rows), width, nil)
	b := make([]float64, len(rows))
	slack := cols
	for r, rw := range rows {
		scale := 0.0
		for _, v := range rw.coef {
			scale = math.Max(scale, math.Abs(v))
		}
		sign := 1 / scale
		if rw.rhs < 0 {
			sign = -sign
		}
		for j, v := range rw.coef {
			a.Set(r, j, sign*v)
		}
		switch rw.sense {
		case LE:
			a.Set(r, slack, math.Copysign(1, sign))
			slack++
		case GE:
			a.Set(r, slack, -math.Copysign(1, sign))
			slack++
		}
		b[r] = sign * rw.rhs
	}
	if square {
		for r := range rows {
			a.Set(r, width-1, a.At(r, width-2))
		}
	}

	c := make([]float64, width)
	for i := range n {
		if col[i] >= 0 {
			c[col[i]] = -weight[i]
		}
	}

	_, opt, err := lp.Simplex(c, a, b, 0, nil)
	if err != nil {
		return nil, 0, err
	}
	for i := range n {
		if col[i] >= 0 {
			x[i] = lo[i] + opt[col[i]]
		}
	}
	return x, m.evaluate(x), nil
}

// markImplied flags the columns whose upper bound already follows from a
// <= row with only positive coefficients over non-negative columns.
func markImplied(implied []bool, coef map[int]float64, rhs float64, upper []float64, tol float64) {
	for _, v := range coef {
		if v <= 0 {
			return
		}
	}
	for j, v := range coef {
		if !implied[j] && rhs/v <= upper[j]+tol {
			implied[j] = true
		}
	}
}

func constantHolds(sense Sense, rhs, tol float64) bool {
	switch sense {
	case LE:
		return rhs >= -tol
	case GE:
		return rhs <= tol
	default:
		return math.Abs(rhs) <= tol
	}
}
