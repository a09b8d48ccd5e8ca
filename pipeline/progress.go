package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/bspecgen/model"
	"github.com/teranos/bspecgen/pack"
)

// Reporter receives user-visible progress of a run. Implementations must be
// safe for concurrent TargetDone calls when emitters run in parallel.
//
// Implementations include:
// - CLIReporter: pretty-printed terminal output using pterm
// - JSONReporter: one JSON event per line for machine consumption
type Reporter interface {
	Stage(state State, message string)
	Warnings(warnings []model.Warning)
	Packaged(res *pack.Result)
	TargetDone(res TargetResult)
	Failed(stage State, err error)
	Complete(report *Report)
}

// NopReporter discards everything
type NopReporter struct{}

func (NopReporter) Stage(State, string)      {}
func (NopReporter) Warnings([]model.Warning) {}
func (NopReporter) Packaged(*pack.Result)    {}
func (NopReporter) TargetDone(TargetResult)  {}
func (NopReporter) Failed(State, error)      {}
func (NopReporter) Complete(*Report)         {}

// CLIReporter outputs pretty-printed progress to the terminal using pterm
type CLIReporter struct {
	verbosity int
	mu        sync.Mutex
}

// NewCLIReporter creates a terminal reporter
func NewCLIReporter(verbosity int) *CLIReporter {
	return &CLIReporter{verbosity: verbosity}
}

// Stage prints a stage announcement
func (c *CLIReporter) Stage(state State, message string) {
	if c.verbosity >= 1 {
		pterm.Printf("🔄 %s: %s\n", pterm.LightCyan(string(state)), message)
	}
}

// Warnings prints every verification warning
func (c *CLIReporter) Warnings(warnings []model.Warning) {
	pterm.Warning.Printf("%d verification warning(s)\n", len(warnings))
	for _, w := range warnings {
		pterm.Printf("  %s %s\n", pterm.Yellow("•"), w.String())
	}
}

// Packaged prints the artifact line
func (c *CLIReporter) Packaged(res *pack.Result) {
	pterm.Success.Printf("Packaged %s (%d members, %d bytes)\n", res.Path, len(res.Members), res.Size)
}

// TargetDone prints one line per emitter
func (c *CLIReporter) TargetDone(res TargetResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if res.OK() {
		pterm.Printf("  %s %-10s → %s (%d files)\n", pterm.Green("✓"), res.Target, res.OutDir, len(res.Result.Files))
		return
	}
	pterm.Printf("  %s %-10s %v\n", pterm.Red("✗"), res.Target, res.Err)
}

// Failed prints the fatal error of a stage
func (c *CLIReporter) Failed(stage State, err error) {
	pterm.Error.Printf("%s failed: %v\n", stage, err)
}

// Complete prints the aggregate line
func (c *CLIReporter) Complete(report *Report) {
	if report.State == StateFailed || len(report.Targets) == 0 {
		return
	}
	line := fmt.Sprintf("%d of %d succeeded", report.Succeeded(), len(report.Targets))
	if report.Failed() > 0 {
		pterm.Warning.Println(line)
		return
	}
	pterm.Success.Println(line)
	if c.verbosity >= 1 {
		pterm.Printf("  run %s in %s\n", report.RunID, report.Duration.Round(time.Millisecond))
	}
}

// Event is one JSON progress line
type Event struct {
	Type      string                 `json:"type"` // "stage", "warnings", "packaged", "target", "error", "complete"
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// JSONReporter writes one Event per line
type JSONReporter struct {
	mu      sync.Mutex
	encoder *json.Encoder
	now     func() time.Time
}

// NewJSONReporter creates a JSON reporter writing to w, or stdout when w is nil
func NewJSONReporter(w io.Writer) *JSONReporter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONReporter{encoder: json.NewEncoder(w), now: time.Now}
}

func (j *JSONReporter) emit(typ string, data map[string]interface{}) {
	j.mu.Lock()
	defer j.mu.Unlock()
	_ = j.encoder.Encode(Event{Type: typ, Timestamp: j.now(), Data: data})
}

// Stage emits a stage event
func (j *JSONReporter) Stage(state State, message string) {
	j.emit("stage", map[string]interface{}{"stage": state, "message": message})
}

// Warnings emits the verification warnings
func (j *JSONReporter) Warnings(warnings []model.Warning) {
	j.emit("warnings", map[string]interface{}{"count": len(warnings), "warnings": warnings})
}

// Packaged emits the artifact event
func (j *JSONReporter) Packaged(res *pack.Result) {
	j.emit("packaged", map[string]interface{}{
		"archive": res.Path,
		"members": res.Members,
		"bytes":   res.Size,
	})
}

// TargetDone emits one target event
func (j *JSONReporter) TargetDone(res TargetResult) {
	data := map[string]interface{}{
		"target":  res.Target,
		"out_dir": res.OutDir,
		"ok":      res.OK(),
	}
	if res.OK() {
		data["files"] = len(res.Result.Files)
	} else {
		data["error"] = res.Err.Error()
	}
	j.emit("target", data)
}

// Failed emits a fatal error event
func (j *JSONReporter) Failed(stage State, err error) {
	j.emit("error", map[string]interface{}{"stage": stage, "error": err.Error()})
}

// Complete emits the summary event
func (j *JSONReporter) Complete(report *Report) {
	j.emit("complete", map[string]interface{}{
		"run_id":      report.RunID,
		"state":       report.State,
		"succeeded":   report.Succeeded(),
		"targets":     len(report.Targets),
		"exit_code":   report.ExitCode(),
		"duration_ms": report.Duration.Milliseconds(),
	})
}
