package sink

import (
	"errors"
	"fmt"
	"sort"

	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/guttosm/truckload/internal/itemset"
)

// BatchFileName names the output of a batch search of length n.
func BatchFileName(n int, metric string, format Format) string {
	return fmt.Sprintf("%d_batches_with_%s_%s.txt", n, metric, format.Suffix())
}

// BucketFileName names the prime-group output for one (groups, slots) bucket.
func BucketFileName(groups, slots int, format Format) string {
	return fmt.Sprintf("prime_%d_groups_%d_stacks_%s.txt", groups, slots, format.Suffix())
}

// FileSink writes batch-search results as two-line text records.
type FileSink struct {
	set    *itemset.ItemSet
	format Format
	file   *bufferedFile
}

// NewFileSink creates dir/BatchFileName(n, metric, format).
func NewFileSink(dir string, set *itemset.ItemSet, n int, metric string, format Format) (*FileSink, error) {
	f, err := createFile(dir, BatchFileName(n, metric, format))
	if err != nil {
		return nil, err
	}
	return &FileSink{set: set, format: format, file: f}, nil
}

// Path returns the output file path.
func (s *FileSink) Path() string {
	return s.file.path
}

// Emit writes "Batch: ..." and "Cost : ..." lines.
func (s *FileSink) Emit(r model.Result) error {
	_, err := fmt.Fprintf(s.file.w, "Batch: %s\nCost : %s\n", FormatBatch(s.set, r.Batch, s.format), FormatCost(r.Cost))
	return err
}

// Close flushes and closes the file.
func (s *FileSink) Close() error {
	return s.file.Close()
}

type bucket struct {
	groups int
	slots  int
}

// BucketSink writes prime-group results into one file per (groups, slots)
// bucket. Files are created on first use.
type BucketSink struct {
	dir    string
	set    *itemset.ItemSet
	format Format
	files  map[bucket]*bufferedFile
}

// NewBucketSink returns a sink writing under dir.
func NewBucketSink(dir string, set *itemset.ItemSet, format Format) *BucketSink {
	return &BucketSink{
		dir:    dir,
		set:    set,
		format: format,
		files:  make(map[bucket]*bufferedFile),
	}
}

// Emit appends the result to its bucket file.
func (s *BucketSink) Emit(r model.Result) error {
	key := bucket{groups: r.Groups, slots: r.Slots}
	f, ok := s.files[key]
	if !ok {
		var err error
		f, err = createFile(s.dir, BucketFileName(r.Groups, r.Slots, s.format))
		if err != nil {
			return err
		}
		s.files[key] = f
	}
	_, err := fmt.Fprintf(f.w, "Batch : %s\nCost  : %s\nGroups: %s\n",
		FormatBatch(s.set, r.Batch, s.format), FormatCost(r.Cost), FormatGroups(r.Batch, s.set.Len()))
	return err
}

// Paths returns the created files, sorted.
func (s *BucketSink) Paths() []string {
	paths := make([]string, 0, len(s.files))
	for _, f := range s.files {
		paths = append(paths, f.path)
	}
	sort.Strings(paths)
	return paths
}

// Close flushes and closes every bucket file.
func (s *BucketSink) Close() error {
	var errs []error
	for _, f := range s.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
