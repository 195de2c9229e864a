package driver

import "github.com/google/uuid"

// FrameResult is one frame's recorded verdict for the final report.
type FrameResult struct {
	ID       uuid.UUID
	RealSize int
	Passed   bool
	Reason   string
}

// Report aggregates every frame's verdict across a driver run.
type Report struct {
	Results []FrameResult
}

// Record appends f's verdict to the report.
func (r *Report) Record(f *Frame) {
	r.Results = append(r.Results, FrameResult{
		ID:       f.ID,
		RealSize: f.RealSize,
		Passed:   f.Passed,
		Reason:   f.Reason,
	})
}

// Passed counts how many recorded frames passed.
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

// Failed counts how many recorded frames failed.
func (r *Report) Failed() int {
	return len(r.Results) - r.Passed()
}
