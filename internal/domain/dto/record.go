// Package dto holds the JSON records written by result sinks and run summaries.
package dto

import "time"

const (
	// StatusOK marks a run that finished normally.
	StatusOK = "ok"
	// StatusInfeasible marks a run that proved no qualifying batch exists.
	StatusInfeasible = "infeasible"
	// StatusFailed marks a run that stopped on an error.
	StatusFailed = "failed"
)

// EntryRecord is one non-trivial category order of a batch.
type EntryRecord struct {
	Index    int    `json:"index"`
	Category string `json:"category"`
	Orders   []int  `json:"orders"`
}

// BatchRecord is the JSON form of one search result.
type BatchRecord struct {
	RunID   string        `json:"run_id,omitempty"`
	Search  string        `json:"search"`
	Metric  string        `json:"metric,omitempty"`
	Short   string        `json:"short"`
	Entries []EntryRecord `json:"entries"`
	Cost    []int         `json:"cost"`
	Items   int           `json:"items"`
	Groups  int           `json:"groups"`
	Slots   int           `json:"slots"`
}

// RunSummary describes one finished command.
type RunSummary struct {
	RunID    string        `json:"run_id"`
	Command  string        `json:"command"`
	ItemSet  string        `json:"item_set"`
	Metric   string        `json:"metric,omitempty"`
	Status   string        `json:"status"`
	Emitted  int64         `json:"emitted"`
	Expanded int64         `json:"expanded"`
	Pruned   int64         `json:"pruned"`
	Duration time.Duration `json:"duration_ns"`
	Outputs  []string      `json:"outputs,omitempty"`
	// Error contains the failure message (optional)
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRunSummary starts a summary for the given run.
func NewRunSummary(runID, command, itemSet string) RunSummary {
	return RunSummary{
		RunID:     runID,
		Command:   command,
		ItemSet:   itemSet,
		Status:    StatusOK,
		Timestamp: time.Now(),
	}
}

// WithError marks the summary as failed with err's message.
func (s RunSummary) WithError(err error) RunSummary {
	if err == nil {
		return s
	}
	s.Status = StatusFailed
	s.Error = err.Error()
	return s
}

// WithStatus overrides the status.
func (s RunSummary) WithStatus(status string) RunSummary {
	s.Status = status
	return s
}
