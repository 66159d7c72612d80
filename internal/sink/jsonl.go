package sink

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/guttosm/truckload/internal/domain/dto"
	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/guttosm/truckload/internal/itemset"
)

// JSONLinesSink writes one dto.BatchRecord per line.
type JSONLinesSink struct {
	set    *itemset.ItemSet
	enc    *json.Encoder
	closer io.Closer
	header dto.BatchRecord
}

// NewJSONLinesSink encodes to w. RunID, Search and Metric of header are copied
// into every record. If w is an io.Closer it is closed by Close.
func NewJSONLinesSink(w io.Writer, set *itemset.ItemSet, header dto.BatchRecord) *JSONLinesSink {
	s := &JSONLinesSink{
		set:    set,
		enc:    json.NewEncoder(w),
		header: dto.BatchRecord{RunID: header.RunID, Search: header.Search, Metric: header.Metric},
	}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Record converts a result into its JSON form.
func Record(set *itemset.ItemSet, r model.Result) dto.BatchRecord {
	entries := make([]dto.EntryRecord, 0, r.Groups)
	for _, e := range r.Entries() {
		if e.Order.IsZero() {
			continue
		}
		entries = append(entries, dto.EntryRecord{
			Index:    e.Category,
			Category: set.Categories[e.Category].Name,
			Orders:   append([]int(nil), e.Order...),
		})
	}
	return dto.BatchRecord{
		Short:   FormatShort(r.Batch),
		Entries: entries,
		Cost:    append([]int(nil), r.Cost...),
		Items:   r.Items,
		Groups:  r.Groups,
		Slots:   r.Slots,
	}
}

// Emit writes one record.
func (s *JSONLinesSink) Emit(r model.Result) error {
	rec := Record(s.set, r)
	rec.RunID, rec.Search, rec.Metric = s.header.RunID, s.header.Search, s.header.Metric
	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("encode batch record: %w", err)
	}
	return nil
}

// Close closes the underlying writer when it is closable.
func (s *JSONLinesSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
