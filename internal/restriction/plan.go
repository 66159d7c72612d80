package restriction

import (
	"fmt"
	"slices"
	"strings"

	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/guttosm/truckload/internal/itemset"
	"github.com/guttosm/truckload/internal/service"
)

// Plan converts validated options into one generation plan per category of set.
// A blacklisted category only keeps its all-zero candidate and ignores any
// whitelist entry for it.
func (o *Options) Plan(set *itemset.ItemSet) []service.CategoryPlan {
	plans := make([]service.CategoryPlan, set.Len())
	keys := make([][]string, set.Len())
	for i := range plans {
		plans[i].Range = o.OrderRange
	}

	for _, c := range o.Whitelist {
		p := &plans[c.Category]
		switch c.Kind {
		case ChoiceItemOrders:
			for _, it := range c.Items {
				setItemRange(p, it.Item, model.OrderRange{it.Orders[0]})
			}
		case ChoiceQueue:
			for item, q := range c.Queue {
				setItemRange(p, item, model.OrderRange{q})
			}
		}
	}

	for _, cat := range o.ChosenCategories {
		plans[cat].Filters = append(plans[cat].Filters, nonZero)
		keys[cat] = append(keys[cat], "chosen")
	}

	for _, c := range o.Blacklist {
		p := &plans[c.Category]
		switch c.Kind {
		case ChoiceCategory:
			p.Range = model.OrderRange{0}
			p.ItemRanges = nil
			keys[c.Category] = append(keys[c.Category], "off")
		case ChoiceItemOrders:
			banned := make(map[int][]int, len(c.Items))
			for _, it := range c.Items {
				banned[it.Item] = append(banned[it.Item], it.Orders...)
			}
			p.Filters = append(p.Filters, withoutItemOrders(banned))
			keys[c.Category] = append(keys[c.Category], "items:"+itemOrdersKey(c.Items))
		case ChoiceQueue:
			p.Filters = append(p.Filters, withoutQueue(c.Queue))
			keys[c.Category] = append(keys[c.Category], fmt.Sprintf("queue:%v", []int(c.Queue)))
		}
	}

	for i := range plans {
		plans[i].FilterKey = strings.Join(keys[i], ";")
	}
	return plans
}

func setItemRange(p *service.CategoryPlan, item int, rng model.OrderRange) {
	if p.ItemRanges == nil {
		p.ItemRanges = make(map[int]model.OrderRange)
	}
	p.ItemRanges[item] = rng
}

func nonZero(c model.Candidate) bool {
	return !c.Order.IsZero()
}

func withoutItemOrders(banned map[int][]int) service.CandidateFilter {
	return func(c model.Candidate) bool {
		for item, orders := range banned {
			if slices.Contains(orders, c.Order[item]) {
				return false
			}
		}
		return true
	}
}

func withoutQueue(queue model.OrderVector) service.CandidateFilter {
	return func(c model.Candidate) bool {
		return !c.Order.Equal(queue)
	}
}

func itemOrdersKey(items []ItemOrders) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%d=%v", it.Item, []int(it.Orders))
	}
	return strings.Join(parts, ",")
}
