// Package restriction reads the JSON search restrictions and turns them into
// candidate generation plans.
package restriction

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/tidwall/gjson"
)

// ErrInvalidOptions is returned for malformed or inconsistent restriction options.
var ErrInvalidOptions = errors.New("invalid restriction options")

// ChoiceKind selects what a Choice restricts.
type ChoiceKind int

const (
	// ChoiceCategory names a whole category.
	ChoiceCategory ChoiceKind = iota
	// ChoiceItemOrders names order values of individual items.
	ChoiceItemOrders
	// ChoiceQueue names one exact order vector.
	ChoiceQueue
)

func (k ChoiceKind) String() string {
	switch k {
	case ChoiceCategory:
		return "Category"
	case ChoiceItemOrders:
		return "ItemOrders"
	case ChoiceQueue:
		return "Queue"
	}
	return fmt.Sprintf("ChoiceKind(%d)", int(k))
}

// ItemOrders lists order values for one item of a category.
type ItemOrders struct {
	Item   int
	Orders model.OrderRange
}

// Choice is one blacklist or whitelist entry.
type Choice struct {
	Kind     ChoiceKind
	Category int
	// Items is set for ChoiceItemOrders.
	Items []ItemOrders
	// Queue is set for ChoiceQueue.
	Queue model.OrderVector
}

// Options are the restrictions applied on top of an item set.
type Options struct {
	// OrderRange replaces the default 0..MaxOrder range of every item.
	OrderRange model.OrderRange
	// ChosenCategories must appear with a non-zero order in every batch.
	ChosenCategories []int
	// Blacklist removes categories, item orders or queues from the candidate lists.
	Blacklist []Choice
	// Whitelist pins item orders or queues.
	Whitelist []Choice
}

// Load reads options from a JSON file.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options %s: %w", path, err)
	}
	opts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("options %s: %w", path, err)
	}
	return opts, nil
}

// Parse decodes options. Choices are externally tagged objects such as
// {"Category": 2}, {"ItemOrders": [0, [[1, [0, 2]]]]} or {"Queue": [3, [1, 0, 1]]}.
// Unknown top-level fields are ignored.
func Parse(data []byte) (*Options, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidOptions)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidOptions)
	}

	opts := &Options{}
	var err error
	if r := doc.Get("order_range"); present(r) {
		if opts.OrderRange, err = intList(r, "order_range"); err != nil {
			return nil, err
		}
	}
	if r := doc.Get("chosen_categories"); present(r) {
		if opts.ChosenCategories, err = intList(r, "chosen_categories"); err != nil {
			return nil, err
		}
	}
	if r := doc.Get("blacklist"); present(r) {
		if opts.Blacklist, err = choiceList(r, "blacklist"); err != nil {
			return nil, err
		}
	}
	if r := doc.Get("whitelist"); present(r) {
		if opts.Whitelist, err = choiceList(r, "whitelist"); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

func intValue(r gjson.Result, field string) (int, error) {
	if r.Type != gjson.Number || r.Num < 0 || r.Num != math.Trunc(r.Num) {
		return 0, fmt.Errorf("%w: %s: expected a non-negative integer, got %s", ErrInvalidOptions, field, r.Raw)
	}
	return int(r.Int()), nil
}

func intList(r gjson.Result, field string) ([]int, error) {
	if !r.IsArray() {
		return nil, fmt.Errorf("%w: %s: expected an array", ErrInvalidOptions, field)
	}
	arr := r.Array()
	out := make([]int, 0, len(arr))
	for i, v := range arr {
		n, err := intValue(v, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func choiceList(r gjson.Result, field string) ([]Choice, error) {
	if !r.IsArray() {
		return nil, fmt.Errorf("%w: %s: expected an array", ErrInvalidOptions, field)
	}
	var out []Choice
	for i, v := range r.Array() {
		c, err := parseChoice(v, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func parseChoice(r gjson.Result, field string) (Choice, error) {
	if !r.IsObject() {
		return Choice{}, fmt.Errorf("%w: %s: expected a tagged object", ErrInvalidOptions, field)
	}
	var (
		tag   string
		value gjson.Result
		count int
	)
	r.ForEach(func(k, v gjson.Result) bool {
		tag, value = k.String(), v
		count++
		return true
	})
	if count != 1 {
		return Choice{}, fmt.Errorf("%w: %s: expected exactly one tag, got %d", ErrInvalidOptions, field, count)
	}

	switch tag {
	case "Category":
		c, err := intValue(value, field+".Category")
		if err != nil {
			return Choice{}, err
		}
		return Choice{Kind: ChoiceCategory, Category: c}, nil

	case "ItemOrders":
		cat, rest, err := taggedPair(value, field+".ItemOrders")
		if err != nil {
			return Choice{}, err
		}
		if !rest.IsArray() {
			return Choice{}, fmt.Errorf("%w: %s.ItemOrders: expected an item list", ErrInvalidOptions, field)
		}
		choice := Choice{Kind: ChoiceItemOrders, Category: cat}
		for j, entry := range rest.Array() {
			where := fmt.Sprintf("%s.ItemOrders[%d]", field, j)
			item, orders, err := taggedPair(entry, where)
			if err != nil {
				return Choice{}, err
			}
			rng, err := intList(orders, where+".orders")
			if err != nil {
				return Choice{}, err
			}
			choice.Items = append(choice.Items, ItemOrders{Item: item, Orders: rng})
		}
		return choice, nil

	case "Queue":
		cat, rest, err := taggedPair(value, field+".Queue")
		if err != nil {
			return Choice{}, err
		}
		queue, err := intList(rest, field+".Queue.orders")
		if err != nil {
			return Choice{}, err
		}
		return Choice{Kind: ChoiceQueue, Category: cat, Queue: queue}, nil
	}
	return Choice{}, fmt.Errorf("%w: %s: unknown tag %q", ErrInvalidOptions, field, tag)
}

// taggedPair splits a two-element array whose head is an index.
func taggedPair(r gjson.Result, field string) (int, gjson.Result, error) {
	if !r.IsArray() {
		return 0, gjson.Result{}, fmt.Errorf("%w: %s: expected [index, value]", ErrInvalidOptions, field)
	}
	arr := r.Array()
	if len(arr) != 2 {
		return 0, gjson.Result{}, fmt.Errorf("%w: %s: expected 2 elements, got %d", ErrInvalidOptions, field, len(arr))
	}
	idx, err := intValue(arr[0], field+"[0]")
	if err != nil {
		return 0, gjson.Result{}, err
	}
	return idx, arr[1], nil
}
