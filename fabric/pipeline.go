package fabric

import (
	"context"
	"math/bits"

	"golang.org/x/sync/errgroup"

	"github.com/vectorlane/fftaccel/scalar"
)

// MultiStagePipeline binds log2(N_hw) PE rows and the log2(N_hw)-1 shuffle
// stages between them, plus the twiddle-load bus and per-stage bypass
// enables described in spec.md §4.6. Each row's PEs are evaluated
// concurrently via errgroup, modeling the hardware's "every process
// commits on the same clock edge" semantics: the row's N_hw/2 PE.Compute
// calls are independent pure functions writing into pre-allocated slice
// slots, so the fan-out races on nothing.
type MultiStagePipeline struct {
	nHw     int
	stages  int
	rows    [][]*PE
	shuffle []*ShuffleStage
	gemm    bool
}

// NewMultiStagePipeline builds a pipeline for a fabric with nHw lanes.
func NewMultiStagePipeline(nHw int) *MultiStagePipeline {
	stages := bits.TrailingZeros(uint(nHw))
	p := &MultiStagePipeline{
		nHw:    nHw,
		stages: stages,
		rows:   make([][]*PE, stages),
	}
	for s := 0; s < stages; s++ {
		row := make([]*PE, nHw/2)
		for i := range row {
			row[i] = &PE{}
		}
		p.rows[s] = row
	}
	for s := 0; s < stages-1; s++ {
		p.shuffle = append(p.shuffle, NewShuffleStage(nHw, s))
	}
	return p
}

// Stages returns log2(N_hw), the number of PE rows.
func (p *MultiStagePipeline) Stages() int {
	return p.stages
}

// Row exposes the PEs of hardware stage s for direct configuration
// (mode, scale, conjugate, bypass) by the wrapper's Configure command.
func (p *MultiStagePipeline) Row(s int) []*PE {
	return p.rows[s]
}

// Reset clears every PE's twiddle register across every row.
func (p *MultiStagePipeline) Reset() {
	for _, row := range p.rows {
		for _, pe := range row {
			pe.Reset()
		}
	}
}

// SetGEMM toggles the pipeline-wide GEMM identity-shuffle behavior.
func (p *MultiStagePipeline) SetGEMM(gemm bool) {
	p.gemm = gemm
}

// LoadTwiddles latches W_{nReal}^k into every active PE, deriving k from
// the DIF recurrence and skipping bypassed leading stages. bypassCount is
// log2(N_hw) - log2(nReal): the number of leading hardware stages made
// transparent by a smaller-than-hardware transform.
func (p *MultiStagePipeline) LoadTwiddles(nReal, bypassCount int) {
	for s := 0; s < p.stages; s++ {
		if s < bypassCount {
			continue
		}
		ls := s - bypassCount
		half := nReal >> uint(ls+1)
		for pe, row := range p.rows[s] {
			k := (pe % half) * (1 << uint(ls))
			row.LoadTwiddle(scalar.Twiddle(nReal, k))
		}
	}
}

// Run drives one frame's worth of (a0, b0) operand vectors, each N_hw/2
// wide, through every PE row and intervening shuffle, returning the final
// row's (y0, y1) outputs.
func (p *MultiStagePipeline) Run(ctx context.Context, a0, b0 []scalar.Complex) (y0, y1 []scalar.Complex, err error) {
	a, b := a0, b0
	for s := 0; s < p.stages; s++ {
		row := p.rows[s]
		half := len(row)
		nextY0 := make([]scalar.Complex, half)
		nextY1 := make([]scalar.Complex, half)

		g, _ := errgroup.WithContext(ctx)
		for i := 0; i < half; i++ {
			i := i
			g.Go(func() error {
				y0i, y1i := row[i].Compute(a[i], b[i], scalar.Zero)
				nextY0[i] = y0i
				nextY1[i] = y1i
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}

		if s == p.stages-1 {
			return nextY0, nextY1, nil
		}
		a, b = p.shuffle[s].Permute(nextY0, nextY1, p.gemm)
	}
	return a, b, nil
}
