package pipeline

import (
	"time"

	"github.com/teranos/bspecgen/model"
	"github.com/teranos/bspecgen/pack"
	"github.com/teranos/bspecgen/typegen"
)

// State is a pipeline stage
type State string

const (
	StateVerifying State = "verifying"
	StatePackaging State = "packaging"
	StateEmitting  State = "emitting"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

// Exit codes of one run
const (
	ExitOK      = 0
	ExitFatal   = 1 // Verifying or Packaging failed
	ExitPartial = 2 // At least one target failed
)

// TargetResult is the outcome of one emitter
type TargetResult struct {
	Target string          `json:"target"`
	OutDir string          `json:"out_dir"`
	Result *typegen.Result `json:"-"`
	Err    error           `json:"-"`
}

// OK reports whether the target was emitted
func (r TargetResult) OK() bool { return r.Err == nil }

// Report is everything one run produced. State is StateDone once Emitting
// was reached (whatever the target outcomes), StateFailed otherwise.
type Report struct {
	RunID       string
	State       State
	FailedStage State
	Err         error

	Model    *model.CanonicalModel
	Warnings []model.Warning
	Pack     *pack.Result
	Archive  string
	Targets  []TargetResult

	Started  time.Time
	Duration time.Duration
}

// Succeeded counts targets emitted without error
func (r *Report) Succeeded() int {
	n := 0
	for _, t := range r.Targets {
		if t.OK() {
			n++
		}
	}
	return n
}

// Failed counts targets that errored
func (r *Report) Failed() int {
	return len(r.Targets) - r.Succeeded()
}

// ExitCode maps the report to the process exit status
func (r *Report) ExitCode() int {
	switch {
	case r.State == StateFailed:
		return ExitFatal
	case r.Failed() > 0:
		return ExitPartial
	default:
		return ExitOK
	}
}
