package replay

import (
	"encoding/json"
	"slices"

	"github.com/vovakirdan/blockdrop/internal/engine"
)

// Recorder collects the raw action stream of a run. It is not safe for
// concurrent use; the driver that dispatches actions owns it.
type Recorder struct {
	active bool
	ticks  int
	inputs []Input
}

// NewRecorder returns an idle recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Start clears any previous log and begins recording.
func (r *Recorder) Start() {
	r.active = true
	r.ticks = 0
	r.inputs = nil
}

// Stop ends recording. The log is kept until the next Start.
func (r *Recorder) Stop() {
	r.active = false
}

// Active reports whether actions are being recorded.
func (r *Recorder) Active() bool {
	return r.active
}

// Ticks returns the number of ticks recorded so far.
func (r *Recorder) Ticks() int {
	return r.ticks
}

// Record appends an action, stamped with the number of ticks seen so far.
func (r *Recorder) Record(a engine.Action) {
	r.RecordPayload(a, nil)
}

// RecordPayload appends an action with an opaque payload.
func (r *Recorder) RecordPayload(a engine.Action, payload json.RawMessage) {
	if !r.active {
		return
	}
	r.inputs = append(r.inputs, Input{Type: a.Type(), Frame: r.ticks, Payload: payload})
	if a.Type() == engine.ActionTick {
		r.ticks++
	}
}

// Inputs returns a copy of the raw log.
func (r *Recorder) Inputs() []Input {
	return slices.Clone(r.inputs)
}

// Finalize stops recording and returns the compacted replay.
func (r *Recorder) Finalize(seed uint64, rules engine.Rules, meta Meta) Data {
	r.Stop()
	return NewData(seed, rules, CompactInputs(r.inputs), r.ticks, meta)
}
