// Package model defines the core domain entities for the truckload search engine.
package model

import (
	"errors"
	"fmt"
)

// ErrInvalidMaterialTable is returned when stack and crate divisors are inconsistent.
var ErrInvalidMaterialTable = errors.New("invalid material table")

// Material is one of the raw resources an order consumes.
type Material int

const (
	BasicMaterial Material = iota
	ExplosiveMaterial
	HeavyExplosiveMaterial
	RefinedMaterial
)

// MaterialCount is the number of materials in the reference table.
const MaterialCount = 4

// Materials returns every material in cost-vector column order.
func Materials() []Material {
	return []Material{BasicMaterial, ExplosiveMaterial, HeavyExplosiveMaterial, RefinedMaterial}
}

func (m Material) String() string {
	switch m {
	case BasicMaterial:
		return "BasicMaterial"
	case ExplosiveMaterial:
		return "ExplosiveMaterial"
	case HeavyExplosiveMaterial:
		return "HeavyExplosiveMaterial"
	case RefinedMaterial:
		return "RefinedMaterial"
	}
	return fmt.Sprintf("Material(%d)", int(m))
}

// StackValue returns the units of m that fill one truck slot.
func (m Material) StackValue() int {
	return 100
}

// CrateValue returns the units of m packed in one crate.
func (m Material) CrateValue() int {
	switch m {
	case ExplosiveMaterial:
		return 40
	case HeavyExplosiveMaterial:
		return 30
	case RefinedMaterial:
		return 20
	}
	return 100
}

// MaterialTable holds the per-material divisors, indexed by cost-vector column.
type MaterialTable struct {
	Stack []int
	Crate []int
}

// DefaultMaterialTable builds the table from the reference materials.
func DefaultMaterialTable() MaterialTable {
	mats := Materials()
	t := MaterialTable{
		Stack: make([]int, len(mats)),
		Crate: make([]int, len(mats)),
	}
	for i, m := range mats {
		t.Stack[i] = m.StackValue()
		t.Crate[i] = m.CrateValue()
	}
	return t
}

// Len returns the number of materials (cost-vector width).
func (t MaterialTable) Len() int {
	return len(t.Stack)
}

// Validate checks that both divisor slices are non-empty, aligned and positive.
func (t MaterialTable) Validate() error {
	if len(t.Stack) == 0 || len(t.Stack) != len(t.Crate) {
		return fmt.Errorf("%w: %d stack values, %d crate values", ErrInvalidMaterialTable, len(t.Stack), len(t.Crate))
	}
	for i := range t.Stack {
		if t.Stack[i] <= 0 || t.Crate[i] <= 0 {
			return fmt.Errorf("%w: material %d has non-positive divisor", ErrInvalidMaterialTable, i)
		}
	}
	return nil
}
