package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrCostMatrixShape is returned when a category's cost matrix does not match its declared size.
var ErrCostMatrixShape = errors.New("cost matrix shape mismatch")

// Category is a named group of items sharing one cost matrix.
// Costs is row-major: Costs[i*Materials+m] is material m consumed by one unit of item i.
type Category struct {
	Name      string
	Size      int
	Items     [][]string
	Costs     []int
	Materials int
}

// Validate checks the category against the material count of its item set.
func (c Category) Validate(materials int) error {
	switch {
	case c.Size < 1:
		return fmt.Errorf("%w: category %s has size %d", ErrCostMatrixShape, c.Name, c.Size)
	case c.Materials != materials:
		return fmt.Errorf("%w: category %s has %d material columns, want %d", ErrCostMatrixShape, c.Name, c.Materials, materials)
	case len(c.Items) != c.Size:
		return fmt.Errorf("%w: category %s has %d item rows, want %d", ErrCostMatrixShape, c.Name, len(c.Items), c.Size)
	case len(c.Costs) != c.Size*materials:
		return fmt.Errorf("%w: category %s has %d cost entries, want %d", ErrCostMatrixShape, c.Name, len(c.Costs), c.Size*materials)
	}
	for i, v := range c.Costs {
		if v < 0 {
			return fmt.Errorf("%w: category %s has negative cost at row %d", ErrCostMatrixShape, c.Name, i/materials)
		}
	}
	return nil
}

// Row returns the cost row of item i. The slice aliases Costs and must not be modified.
func (c Category) Row(i int) []int {
	return c.Costs[i*c.Materials : (i+1)*c.Materials]
}

// CostMatrix returns the flat row-major cost matrix.
func (c Category) CostMatrix() []int {
	return c.Costs
}

// Matrix returns the cost matrix as a Size x Materials dense matrix.
func (c Category) Matrix() *mat.Dense {
	data := make([]float64, len(c.Costs))
	for i, v := range c.Costs {
		data[i] = float64(v)
	}
	return mat.NewDense(c.Size, c.Materials, data)
}

// Cost returns order · cost matrix.
func (c Category) Cost(order OrderVector) CostVector {
	cost := make(CostVector, c.Materials)
	for i, q := range order {
		if q == 0 {
			continue
		}
		row := c.Row(i)
		for m := range cost {
			cost[m] += q * row[m]
		}
	}
	return cost
}
