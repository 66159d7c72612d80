package sink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/guttosm/truckload/internal/service"
)

// Sink is a closable result sink. Emit is called from one goroutine at a time.
type Sink interface {
	service.ResultSink
	Close() error
}

// Discard drops every result.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(model.Result) error { return nil }

func (discard) Close() error { return nil }

// MemorySink collects results in emission order. It is safe for concurrent use.
type MemorySink struct {
	mu      sync.Mutex
	results []model.Result
}

// NewMemorySink returns an empty collector.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Emit appends result.
func (m *MemorySink) Emit(result model.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
	return nil
}

// Close is a no-op.
func (m *MemorySink) Close() error {
	return nil
}

// Results returns a copy of the collected results.
func (m *MemorySink) Results() []model.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Result(nil), m.results...)
}

// Len returns the number of collected results.
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

// Multi fans every result out to all sinks, stopping at the first error.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

type multi []Sink

func (m multi) Emit(result model.Result) error {
	for _, s := range m {
		if err := s.Emit(result); err != nil {
			return err
		}
	}
	return nil
}

func (m multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// bufferedFile is a created file behind a bufio.Writer.
type bufferedFile struct {
	path string
	f    *os.File
	w    *bufio.Writer
}

func createFile(dir, name string) (*bufferedFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &bufferedFile{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

func (b *bufferedFile) Close() error {
	if err := b.w.Flush(); err != nil {
		_ = b.f.Close()
		return fmt.Errorf("flush %s: %w", b.path, err)
	}
	return b.f.Close()
}
