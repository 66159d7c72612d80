//go:build !integration

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMaterial_Values(t *testing.T) {
	tests := []struct {
		material Material
		stack    int
		crate    int
	}{
		{BasicMaterial, 100, 100},
		{ExplosiveMaterial, 100, 40},
		{HeavyExplosiveMaterial, 100, 30},
		{RefinedMaterial, 100, 20},
	}

	for _, tt := range tests {
		t.Run(tt.material.String(), func(t *testing.T) {
			assert.Equal(t, tt.stack, tt.material.StackValue())
			assert.Equal(t, tt.crate, tt.material.CrateValue())
		})
	}
}

func TestDefaultMaterialTable(t *testing.T) {
	table := DefaultMaterialTable()

	assert.Equal(t, MaterialCount, table.Len())
	assert.Equal(t, []int{100, 100, 100, 100}, table.Stack)
	assert.Equal(t, []int{100, 40, 30, 20}, table.Crate)
	assert.NoError(t, table.Validate())
}

func TestMaterialTable_Validate(t *testing.T) {
	tests := []struct {
		name  string
		table MaterialTable
	}{
		{name: "empty", table: MaterialTable{}},
		{name: "misaligned", table: MaterialTable{Stack: []int{100}, Crate: []int{100, 40}}},
		{name: "zero divisor", table: MaterialTable{Stack: []int{0}, Crate: []int{100}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.table.Validate(), ErrInvalidMaterialTable)
		})
	}
}

func testCategory() Category {
	return Category{
		Name:      "Small",
		Size:      3,
		Items:     [][]string{{"a"}, {"b"}, {"c", "d"}},
		Costs:     []int{100, 0, 10, 40, 0, 0, 5, 5, 0},
		Materials: 3,
	}
}

func TestCategory_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Category)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Category) {}},
		{name: "short cost matrix", mutate: func(c *Category) { c.Costs = c.Costs[:8] }, wantErr: true},
		{name: "missing item names", mutate: func(c *Category) { c.Items = c.Items[:2] }, wantErr: true},
		{name: "wrong width", mutate: func(c *Category) { c.Materials = 4 }, wantErr: true},
		{name: "zero size", mutate: func(c *Category) { c.Size = 0 }, wantErr: true},
		{name: "negative cost", mutate: func(c *Category) { c.Costs[4] = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCategory()
			c.Costs = append([]int(nil), c.Costs...)
			tt.mutate(&c)
			err := c.Validate(3)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCostMatrixShape)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCategory_Cost(t *testing.T) {
	c := testCategory()

	tests := []struct {
		name     string
		order    OrderVector
		expected CostVector
	}{
		{name: "zero order", order: OrderVector{0, 0, 0}, expected: CostVector{0, 0, 0}},
		{name: "single item", order: OrderVector{1, 0, 0}, expected: CostVector{100, 0, 10}},
		{name: "mixed", order: OrderVector{2, 1, 3}, expected: CostVector{255, 15, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Cost(tt.order))
		})
	}
}

func TestCategory_MatrixAgreesWithCost(t *testing.T) {
	c := testCategory()
	m := c.Matrix()

	rows, cols := m.Dims()
	require.Equal(t, c.Size, rows)
	require.Equal(t, c.Materials, cols)
	assert.Equal(t, c.Row(2), []int{5, 5, 0})

	order := OrderVector{2, 1, 3}
	x := mat.NewDense(1, c.Size, []float64{2, 1, 3})
	var product mat.Dense
	product.Mul(x, m)

	cost := c.Cost(order)
	for i := range cost {
		assert.Equal(t, float64(cost[i]), product.At(0, i))
	}
}

func TestOrderVector(t *testing.T) {
	assert.Equal(t, 6, OrderVector{1, 2, 3}.Sum())
	assert.True(t, OrderVector{0, 0}.IsZero())
	assert.False(t, OrderVector{0, 1}.IsZero())
	assert.True(t, OrderVector{1, 2}.Equal(OrderVector{1, 2}))
	assert.False(t, OrderVector{1, 2}.Equal(OrderVector{2, 1}))
}

func TestCostVector_Add(t *testing.T) {
	a := CostVector{1, 2, 3}
	b := CostVector{10, 20, 30}

	sum := a.Add(b)

	assert.Equal(t, CostVector{11, 22, 33}, sum)
	assert.Equal(t, CostVector{1, 2, 3}, a, "operands are not modified")
}

func TestDefaultOrderRange(t *testing.T) {
	assert.Equal(t, OrderRange{0, 1, 2, 3, 4}, DefaultOrderRange(4))
	assert.Equal(t, OrderRange{0}, DefaultOrderRange(0))
}

func TestResult_Entries(t *testing.T) {
	r := Result{Batch: Batch{{0, 1}, {0}, {2}}}

	entries := r.Entries()

	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Category: 2, Order: OrderVector{2}}, entries[2])
	assert.Equal(t, 2, r.Batch.NonTrivial())
}
