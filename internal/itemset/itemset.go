// Package itemset resolves the static category tables an invocation searches over.
package itemset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guttosm/truckload/internal/domain/model"
)

var (
	// ErrUnknownItemSet is returned for an item-set name that has no table.
	ErrUnknownItemSet = errors.New("unknown item set")
	// ErrCategoryOutOfRange is returned for a category index outside the item set.
	ErrCategoryOutOfRange = errors.New("category index out of range")
	// ErrInvalidLimits is returned for a negative order cap or a truck with no slots.
	ErrInvalidLimits = errors.New("invalid limits")
)

// Option selects one of the built-in item sets.
type Option int

const (
	Warden Option = iota
	MaterialGroupedWarden
)

// Options returns every built-in item set.
func Options() []Option {
	return []Option{Warden, MaterialGroupedWarden}
}

func (o Option) String() string {
	switch o {
	case Warden:
		return "Warden"
	case MaterialGroupedWarden:
		return "MaterialGroupedWarden"
	}
	return fmt.Sprintf("Option(%d)", int(o))
}

// ParseOption accepts either the display name or its kebab-case form.
func ParseOption(s string) (Option, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "-")) {
	case "warden":
		return Warden, nil
	case "materialgroupedwarden", "material-grouped-warden":
		return MaterialGroupedWarden, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownItemSet, s)
}

// ItemSet is an ordered, validated list of categories plus the constants they share.
// It is read-only once returned from Load or New.
type ItemSet struct {
	Name       string
	Categories []model.Category
	Materials  model.MaterialTable
	Limits     model.Limits
}

// Load resolves and validates a built-in item set.
func Load(opt Option) (*ItemSet, error) {
	var cats []model.Category
	switch opt {
	case Warden:
		cats = wardenCategories()
	case MaterialGroupedWarden:
		cats = materialGroupedWardenCategories()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownItemSet, opt)
	}
	return New(opt.String(), cats, model.DefaultMaterialTable(), model.DefaultLimits())
}

// New validates a custom item set. Categories with Materials unset take the table width.
func New(name string, cats []model.Category, table model.MaterialTable, limits model.Limits) (*ItemSet, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if limits.MaxOrder < 0 || limits.TruckCapacity < 1 {
		return nil, fmt.Errorf("%w: max order %d, truck capacity %d", ErrInvalidLimits, limits.MaxOrder, limits.TruckCapacity)
	}
	out := make([]model.Category, len(cats))
	for i, c := range cats {
		if c.Materials == 0 {
			c.Materials = table.Len()
		}
		if err := c.Validate(table.Len()); err != nil {
			return nil, fmt.Errorf("item set %s: %w", name, err)
		}
		out[i] = c
	}
	return &ItemSet{
		Name:       name,
		Categories: out,
		Materials:  table,
		Limits:     limits,
	}, nil
}

// Len returns the number of categories.
func (s *ItemSet) Len() int {
	return len(s.Categories)
}

// Category returns the category at index i.
func (s *ItemSet) Category(i int) (model.Category, error) {
	if i < 0 || i >= len(s.Categories) {
		return model.Category{}, fmt.Errorf("%w: %d not in [0, %d)", ErrCategoryOutOfRange, i, len(s.Categories))
	}
	return s.Categories[i], nil
}

// LargestCategorySize returns the size of the widest category.
func (s *ItemSet) LargestCategorySize() int {
	largest := 0
	for _, c := range s.Categories {
		largest = max(largest, c.Size)
	}
	return largest
}

// ItemCount returns the number of items across all categories.
func (s *ItemSet) ItemCount() int {
	total := 0
	for _, c := range s.Categories {
		total += c.Size
	}
	return total
}
