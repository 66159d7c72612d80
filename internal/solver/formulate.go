package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/guttosm/truckload/internal/itemset"
	"github.com/guttosm/truckload/internal/metrics"
)

// BatchVars maps the formulation back to variable indices.
type BatchVars struct {
	// Items holds one variable per item, grouped by category.
	Items [][]int
	// Stacks, Crates and Slots hold one variable per material.
	Stacks []int
	Crates []int
	Slots  []int
}

// Formulate builds the batch integer program for set. weights has one entry
// per item grouped by category; nil weighs every item 1.
func Formulate(set *itemset.ItemSet, weights [][]float64) (*Model, *BatchVars, error) {
	if weights != nil {
		if len(weights) != set.Len() {
			return nil, nil, fmt.Errorf("%w: %d weight rows for %d categories", ErrInvalidModel, len(weights), set.Len())
		}
		for i, c := range set.Categories {
			if len(weights[i]) != c.Size {
				return nil, nil, fmt.Errorf("%w: category %s has %d weights for %d items", ErrInvalidModel, c.Name, len(weights[i]), c.Size)
			}
		}
	}

	limits := set.Limits
	materials := set.Materials.Len()
	m := NewModel()
	vars := &BatchVars{Items: make([][]int, set.Len())}

	var (
		all       []Term
		objective []Term
	)
	// Per-material cost expressions, Σ cost[i][mat] * x_i.
	cost := make([][]Term, materials)

	for ci, cat := range set.Categories {
		matrix := cat.Matrix()
		perCategory := make([]Term, 0, cat.Size)
		vars.Items[ci] = make([]int, cat.Size)
		for i := range cat.Size {
			v := m.AddVar(fmt.Sprintf("%s[%d]", cat.Name, i), 0, float64(limits.MaxOrder), true)
			vars.Items[ci][i] = v
			perCategory = append(perCategory, Term{Var: v, Coef: 1})
			all = append(all, Term{Var: v, Coef: 1})

			w := 1.0
			if weights != nil {
				w = weights[ci][i]
			}
			if w != 0 {
				objective = append(objective, Term{Var: v, Coef: w})
			}

			for mat := range materials {
				if c := matrix.At(i, mat); c != 0 {
					cost[mat] = append(cost[mat], Term{Var: v, Coef: c})
				}
			}
		}
		m.AddConstraint(cat.Name+" order cap", perCategory, LE, float64(limits.MaxOrder))
	}

	m.AddConstraint("minimum items", all, GE, 1)
	m.AddConstraint("truck items", all, LE, float64(limits.TruckCapacity))

	inf := math.Inf(1)
	var slotTotal []Term
	for mat := range materials {
		name := materialName(set.Materials, mat)
		stack := float64(set.Materials.Stack[mat])
		crate := float64(set.Materials.Crate[mat])

		slots := m.AddVar(name+" slots", 0, inf, true)
		crates := m.AddVar(name+" crates", 0, inf, true)
		stacks := m.AddVar(name+" stacks", 0, inf, true)
		// Material counts are branched on before any item, slots first.
		for _, v := range []int{slots, crates, stacks} {
			m.SetPriority(v, 1)
		}
		vars.Stacks = append(vars.Stacks, stacks)
		vars.Crates = append(vars.Crates, crates)
		vars.Slots = append(vars.Slots, slots)
		slotTotal = append(slotTotal, Term{Var: slots, Coef: 1})

		// stack*slots - cost in [0, stack-1]: slots is the rounded-up stack count.
		bracket := append([]Term{{Var: slots, Coef: stack}}, negate(cost[mat])...)
		m.AddConstraint(name+" slots cover cost", bracket, GE, 0)
		m.AddConstraint(name+" slots tight", bracket, LE, stack-1)

		crated := append([]Term{{Var: crates, Coef: crate}}, negate(cost[mat])...)
		m.AddConstraint(name+" whole crates", crated, EQ, 0)
	}
	m.AddConstraint("truck slots", slotTotal, EQ, float64(limits.TruckCapacity))

	m.Maximize(objective)
	return m, vars, nil
}

// materialName names reference-table columns after their material and any
// other column by index.
func materialName(table model.MaterialTable, col int) string {
	if table.Len() != model.MaterialCount {
		return fmt.Sprintf("material %d", col)
	}
	return model.Material(col).String()
}

func negate(terms []Term) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = Term{Var: t.Var, Coef: -t.Coef}
	}
	return out
}

// SolveOption configures SolveBatch.
type SolveOption func(*solveConfig)

type solveConfig struct {
	weights [][]float64
	opts    Options
}

// WithWeights sets per-item objective weights grouped by category.
func WithWeights(weights [][]float64) SolveOption {
	return func(c *solveConfig) {
		c.weights = weights
	}
}

// WithNodeLimit caps the branch-and-bound nodes.
func WithNodeLimit(n int) SolveOption {
	return func(c *solveConfig) {
		c.opts.NodeLimit = n
	}
}

// WithTolerance sets the integrality tolerance.
func WithTolerance(tol float64) SolveOption {
	return func(c *solveConfig) {
		c.opts.Tolerance = tol
	}
}

// SolveBatch returns the best-weighted batch that fills the truck exactly.
// Failures wrap ErrNoFeasibleBatch together with ErrInfeasible or ErrSolverFailure.
func SolveBatch(ctx context.Context, set *itemset.ItemSet, opts ...SolveOption) (model.Batch, error) {
	cfg := solveConfig{opts: DefaultOptions()}
	for _, opt := range opts {
		opt(&cfg)
	}

	m, vars, err := Formulate(set, cfg.weights)
	if err != nil {
		return nil, err
	}

	sol, err := Solve(ctx, m, cfg.opts)
	switch {
	case err == nil:
		metrics.RecordSolve("optimal", sol.Nodes)
	case errors.Is(err, ErrInfeasible):
		metrics.RecordSolve("infeasible", sol.Nodes)
		return nil, fmt.Errorf("%w: %w", ErrNoFeasibleBatch, err)
	case errors.Is(err, ErrSolverFailure):
		metrics.RecordSolve("failed", sol.Nodes)
		return nil, fmt.Errorf("%w: %w", ErrNoFeasibleBatch, err)
	default:
		return nil, err
	}

	batch := make(model.Batch, len(vars.Items))
	for ci, items := range vars.Items {
		order := make(model.OrderVector, len(items))
		for i, v := range items {
			order[i] = int(math.Round(sol.Values[v]))
		}
		batch[ci] = order
	}
	return batch, nil
}
