package profiler

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// TimeTracker tracks timing statistics for one named stage.
type TimeTracker struct {
	Name      string        `json:"name"`
	Count     int64         `json:"count"`
	TotalTime time.Duration `json:"totalTime"`
	MinTime   time.Duration `json:"minTime"`
	MaxTime   time.Duration `json:"maxTime"`
}

// AvgTime returns the mean duration of the stage.
func (t TimeTracker) AvgTime() time.Duration {
	if t.Count == 0 {
		return 0
	}
	return t.TotalTime / time.Duration(t.Count)
}

// StageTimer records how long each pipeline stage takes. It is safe for
// concurrent use.
type StageTimer struct {
	mu     sync.Mutex
	order  []string
	stages map[string]*TimeTracker
	now    func() time.Time
}

// NewStageTimer creates an empty timer.
func NewStageTimer() *StageTimer {
	return &StageTimer{
		stages: make(map[string]*TimeTracker),
		now:    time.Now,
	}
}

// StartOperation begins timing a stage.
//
// Arguments:
//   - name: The name of the stage to track.
//
// Returns:
//   - A function to call when the stage completes.
//
// Example:
//
//	done := timer.StartOperation("resize")
//	defer done()
func (st *StageTimer) StartOperation(name string) func() {
	start := st.now()
	return func() {
		st.Record(name, st.now().Sub(start))
	}
}

// Record adds one completed duration to a stage.
func (st *StageTimer) Record(name string, d time.Duration) {
	st.mu.Lock()
	defer st.mu.Unlock()

	tracker, exists := st.stages[name]
	if !exists {
		tracker = &TimeTracker{Name: name, MinTime: d, MaxTime: d}
		st.stages[name] = tracker
		st.order = append(st.order, name)
	}

	tracker.Count++
	tracker.TotalTime += d
	if d < tracker.MinTime {
		tracker.MinTime = d
	}
	if d > tracker.MaxTime {
		tracker.MaxTime = d
	}
}

// Report returns a snapshot of every stage in the order first recorded.
func (st *StageTimer) Report() []TimeTracker {
	st.mu.Lock()
	defer st.mu.Unlock()

	out := make([]TimeTracker, 0, len(st.order))
	for _, name := range st.order {
		out = append(out, *st.stages[name])
	}
	return out
}

// String formats the report as an aligned table.
func (st *StageTimer) String() string {
	report := st.Report()
	if len(report) == 0 {
		return "no stages recorded"
	}

	width := 0
	for _, t := range report {
		width = max(width, len(t.Name))
	}

	var b strings.Builder
	var total time.Duration
	for _, t := range report {
		total += t.TotalTime
		fmt.Fprintf(&b, "  %-*s  %4dx  total %-12v avg %-12v min %-12v max %v\n",
			width, t.Name, t.Count, t.TotalTime, t.AvgTime(), t.MinTime, t.MaxTime)
	}
	fmt.Fprintf(&b, "  %-*s  total %v", width, "all", total)
	return b.String()
}
