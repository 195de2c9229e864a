package driver

import (
	"github.com/google/uuid"

	"github.com/vectorlane/fftaccel/scalar"
)

// Frame is one pass through generation -> movement -> compute -> verify.
// Its UUID lets a multi-run report correlate a verdict back to the exact
// input that produced it, the way the teacher tags each emulated frame's
// save-state slot rather than relying on array position alone.
type Frame struct {
	ID       uuid.UUID
	RealSize int
	Input    []scalar.Complex

	Reference []scalar.Complex // O(N^2) ground truth, filled at generation time
	Output    []scalar.Complex // fabric result after de-interleave, filled at compute time

	Passed bool
	Reason string
}

// NewFrame allocates a frame for a real_size-length transform, tagging it
// with a fresh UUID.
func NewFrame(realSize int) *Frame {
	return &Frame{ID: uuid.New(), RealSize: realSize}
}
