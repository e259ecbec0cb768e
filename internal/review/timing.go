package review

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// timingEvent is one per-file measurement, written as a JSONL row so
// runs can be compared without any tooling beyond jq.
type timingEvent struct {
	Phase      string  `json:"phase"`
	File       string  `json:"file,omitempty"`
	StartMS    float64 `json:"start_ms"`
	DurationMS float64 `json:"duration_ms"`
	EndMS      float64 `json:"end_ms"`
}

type timingRecorder struct {
	enabled bool
	start   time.Time
	mu      sync.Mutex
	file    *os.File
	enc     *json.Encoder
	err     error
}

// newTimingRecorder opens a JSONL recorder at path, or a disabled
// recorder when path is empty. Open errors are recorded, not fatal:
// timing capture must never fail a review.
func newTimingRecorder(start time.Time, path string) *timingRecorder {
	tr := &timingRecorder{start: start}
	if path == "" {
		return tr
	}
	f, err := os.Create(path)
	if err != nil {
		tr.err = err
		return tr
	}
	tr.enabled = true
	tr.file = f
	tr.enc = json.NewEncoder(f)
	return tr
}

func (tr *timingRecorder) Close() {
	if tr == nil || tr.file == nil {
		return
	}
	_ = tr.file.Close()
}

func (tr *timingRecorder) RecordFile(phase, file string, duration time.Duration) {
	if tr == nil || !tr.enabled {
		return
	}
	endMS := durationToMS(time.Since(tr.start))
	durationMS := durationToMS(duration)
	event := timingEvent{
		Phase:      phase,
		File:       file,
		StartMS:    endMS - durationMS,
		DurationMS: durationMS,
		EndMS:      endMS,
	}
	tr.mu.Lock()
	_ = tr.enc.Encode(event)
	tr.mu.Unlock()
}

func durationToMS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000_000.0
}
