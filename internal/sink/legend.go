package sink

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/guttosm/truckload/internal/itemset"
)

// LegendFileName names the legend of an item set.
func LegendFileName(set *itemset.ItemSet) string {
	return set.Name + "_legend.txt"
}

// QueueFileName names the candidate dump of one category.
func QueueFileName(set *itemset.ItemSet, cat model.Category) string {
	return fmt.Sprintf("%s_%s_valid_queue_vec.txt", set.Name, cat.Name)
}

// WriteLegend writes one "B3: names" line per item of set.
func WriteLegend(w io.Writer, set *itemset.ItemSet) error {
	bw := bufio.NewWriter(w)
	for i, cat := range set.Categories {
		for j, names := range cat.Items {
			if _, err := fmt.Fprintf(bw, "%s: %s\n", Label(i, j), strings.Join(names, ", ")); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteLegendFile writes the legend into dir and returns its path.
func WriteLegendFile(dir string, set *itemset.ItemSet) (string, error) {
	f, err := createFile(dir, LegendFileName(set))
	if err != nil {
		return "", err
	}
	if err := WriteLegend(f.w, set); err != nil {
		_ = f.Close()
		return "", err
	}
	return f.path, f.Close()
}

// WriteQueues dumps a category's candidate list as "Q: [...]" / "C: [...]" pairs.
func WriteQueues(w io.Writer, candidates []model.Candidate) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "There are %d valid queues\n", len(candidates)); err != nil {
		return err
	}
	for _, c := range candidates {
		if _, err := fmt.Fprintf(bw, "Q: [%s]\nC: [%s]\n", joinInts(c.Order, " "), joinInts(c.Cost, " ")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteQueuesFile dumps candidates of cat into dir and returns the file path.
func WriteQueuesFile(dir string, set *itemset.ItemSet, cat model.Category, candidates []model.Candidate) (string, error) {
	f, err := createFile(dir, QueueFileName(set, cat))
	if err != nil {
		return "", err
	}
	if err := WriteQueues(f.w, candidates); err != nil {
		_ = f.Close()
		return "", err
	}
	return f.path, f.Close()
}
