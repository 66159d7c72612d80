package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/guttosm/truckload/internal/itemset"
	"github.com/tidwall/gjson"
)

// ErrInvalidWeights is returned for a weights file that does not match the item set.
var ErrInvalidWeights = errors.New("invalid weights")

// LoadWeights reads a JSON array holding one array of item weights per category.
func LoadWeights(path string, set *itemset.ItemSet) ([][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	return ParseWeights(data, set)
}

// ParseWeights parses weights shaped like the item set's categories.
func ParseWeights(data []byte, set *itemset.ItemSet) ([][]float64, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidWeights)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of categories", ErrInvalidWeights)
	}
	rows := root.Array()
	if len(rows) != set.Len() {
		return nil, fmt.Errorf("%w: %d rows for %d categories", ErrInvalidWeights, len(rows), set.Len())
	}

	weights := make([][]float64, len(rows))
	for i, row := range rows {
		cat := set.Categories[i]
		if !row.IsArray() || len(row.Array()) != cat.Size {
			return nil, fmt.Errorf("%w: category %s needs %d weights", ErrInvalidWeights, cat.Name, cat.Size)
		}
		weights[i] = make([]float64, cat.Size)
		for j, w := range row.Array() {
			if w.Type != gjson.Number {
				return nil, fmt.Errorf("%w: category %s item %d is not a number", ErrInvalidWeights, cat.Name, j)
			}
			weights[i][j] = w.Float()
		}
	}
	return weights, nil
}
