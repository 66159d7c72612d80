package restriction

import (
	"fmt"

	"github.com/guttosm/truckload/internal/itemset"
)

// Validate checks the options against set. Every problem is reported as
// ErrInvalidOptions; nothing is clamped or skipped.
func (o *Options) Validate(set *itemset.ItemSet) error {
	maxOrder := set.Limits.MaxOrder

	if o.OrderRange != nil {
		if len(o.OrderRange) == 0 {
			return fmt.Errorf("%w: order_range is empty", ErrInvalidOptions)
		}
		if err := uniqueWithin(o.OrderRange, maxOrder+1, "order_range value"); err != nil {
			return err
		}
	}

	if err := uniqueWithin(o.ChosenCategories, set.Len(), "chosen_categories value"); err != nil {
		return err
	}

	blacklisted := map[ChoiceKind]map[int]bool{
		ChoiceCategory:   {},
		ChoiceItemOrders: {},
		ChoiceQueue:      {},
	}
	for _, c := range o.Blacklist {
		if err := c.validate(set); err != nil {
			return fmt.Errorf("blacklist: %w", err)
		}
		seen := blacklisted[c.Kind]
		if seen[c.Category] {
			return fmt.Errorf("%w: blacklist %s for category %d is repeated", ErrInvalidOptions, c.Kind, c.Category)
		}
		seen[c.Category] = true
	}
	for cat := range blacklisted[ChoiceCategory] {
		if blacklisted[ChoiceItemOrders][cat] || blacklisted[ChoiceQueue][cat] {
			return fmt.Errorf("%w: blacklisted category %d also has item order or queue entries", ErrInvalidOptions, cat)
		}
	}
	for _, cat := range o.ChosenCategories {
		if blacklisted[ChoiceCategory][cat] {
			return fmt.Errorf("%w: category %d is both chosen and blacklisted", ErrInvalidOptions, cat)
		}
	}

	whitelisted := map[ChoiceKind]map[int]bool{
		ChoiceItemOrders: {},
		ChoiceQueue:      {},
	}
	for _, c := range o.Whitelist {
		if c.Kind == ChoiceCategory {
			return fmt.Errorf("%w: whitelist does not support Category", ErrInvalidOptions)
		}
		if err := c.validate(set); err != nil {
			return fmt.Errorf("whitelist: %w", err)
		}
		if c.Kind == ChoiceItemOrders {
			for _, it := range c.Items {
				if len(it.Orders) != 1 {
					return fmt.Errorf("%w: whitelist item %d of category %d needs exactly one order, got %d",
						ErrInvalidOptions, it.Item, c.Category, len(it.Orders))
				}
			}
		}
		seen := whitelisted[c.Kind]
		if seen[c.Category] {
			return fmt.Errorf("%w: whitelist %s for category %d is repeated", ErrInvalidOptions, c.Kind, c.Category)
		}
		seen[c.Category] = true
	}
	for cat := range whitelisted[ChoiceItemOrders] {
		if whitelisted[ChoiceQueue][cat] {
			return fmt.Errorf("%w: whitelisted category %d has both item orders and a queue", ErrInvalidOptions, cat)
		}
	}
	return nil
}

func (c Choice) validate(set *itemset.ItemSet) error {
	maxOrder := set.Limits.MaxOrder
	cat, err := set.Category(c.Category)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidOptions, c.Kind, err)
	}

	switch c.Kind {
	case ChoiceCategory:
		return nil

	case ChoiceItemOrders:
		items := make([]int, 0, len(c.Items))
		for _, it := range c.Items {
			items = append(items, it.Item)
			if err := uniqueWithin(it.Orders, maxOrder+1, fmt.Sprintf("category %d item %d order", c.Category, it.Item)); err != nil {
				return err
			}
		}
		return uniqueWithin(items, cat.Size, fmt.Sprintf("category %d item", c.Category))

	case ChoiceQueue:
		if len(c.Queue) != cat.Size {
			return fmt.Errorf("%w: queue for category %d must have %d orders, got %d", ErrInvalidOptions, c.Category, cat.Size, len(c.Queue))
		}
		for _, q := range c.Queue {
			if q < 0 || q > maxOrder {
				return fmt.Errorf("%w: queue order %d not in [0, %d]", ErrInvalidOptions, q, maxOrder)
			}
		}
		if sum := c.Queue.Sum(); sum > maxOrder {
			return fmt.Errorf("%w: queue for category %d sums to %d, above %d", ErrInvalidOptions, c.Category, sum, maxOrder)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown choice kind %d", ErrInvalidOptions, int(c.Kind))
}

// uniqueWithin checks that every value is in [0, limit) and appears once.
func uniqueWithin(values []int, limit int, what string) error {
	seen := make(map[int]bool, len(values))
	for _, v := range values {
		if v < 0 || v >= limit {
			return fmt.Errorf("%w: %s %d not in [0, %d)", ErrInvalidOptions, what, v, limit)
		}
		if seen[v] {
			return fmt.Errorf("%w: %s %d repeated", ErrInvalidOptions, what, v)
		}
		seen[v] = true
	}
	return nil
}
