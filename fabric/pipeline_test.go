package fabric

import (
	"context"
	"testing"

	"github.com/vectorlane/fftaccel/scalar"
)

func TestMultiStagePipeline_StagesMatchesLog2(t *testing.T) {
	p := NewMultiStagePipeline(16)
	if got := p.Stages(); got != 4 {
		t.Errorf("Stages(): got %d, want 4", got)
	}
	if got := len(p.shuffle); got != 3 {
		t.Errorf("shuffle count: got %d, want 3", got)
	}
}

func TestMultiStagePipeline_LoadTwiddlesSkipsBypassedStages(t *testing.T) {
	p := NewMultiStagePipeline(8)
	// real_size=2 on an 8-lane fabric bypasses the first two stages.
	bypassCount := 2
	p.LoadTwiddles(2, bypassCount)

	for s := 0; s < bypassCount; s++ {
		for _, pe := range p.Row(s) {
			if pe.Twiddle() != scalar.Zero {
				t.Errorf("stage %d: expected untouched (zero) twiddle in a bypassed stage", s)
			}
		}
	}
	active := p.Row(bypassCount)
	if w := active[0].Twiddle(); !w.ApproxEqual(scalar.Complex{Re: 1, Im: 0}, 1e-6) {
		t.Errorf("active stage PE0 twiddle: got %+v, want W_2^0=1", w)
	}
}

// S3 from the worked scenarios: real_size=4 on a 4-lane fabric (no bypass),
// x = (1,0,0,0). Every DFT bin is 1, so the bit-reversed/natural-order
// ambiguity doesn't matter here: the expected output is uniform.
func TestMultiStagePipeline_ImpulseProducesUniformSpectrum(t *testing.T) {
	p := NewMultiStagePipeline(4)
	p.LoadTwiddles(4, 0)
	for s := 0; s < p.Stages(); s++ {
		for _, pe := range p.Row(s) {
			pe.Mode = ModeFFT
		}
	}

	a := []scalar.Complex{{Re: 1, Im: 0}, {Re: 0, Im: 0}}
	b := []scalar.Complex{{Re: 0, Im: 0}, {Re: 0, Im: 0}}
	y0, y1, err := p.Run(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, v := range append(append([]scalar.Complex{}, y0...), y1...) {
		if !v.ApproxEqual(scalar.Complex{Re: 1, Im: 0}, 1e-4) {
			t.Errorf("expected uniform unit spectrum, got %+v", v)
		}
	}
}

// S4: real_size=2 on a 2-lane fabric, x=(1,-1). Expected y=(0,2).
func TestMultiStagePipeline_TwoPointButterfly(t *testing.T) {
	p := NewMultiStagePipeline(2)
	p.LoadTwiddles(2, 0)
	p.Row(0)[0].Mode = ModeFFT

	a := []scalar.Complex{{Re: 1, Im: 0}}
	b := []scalar.Complex{{Re: -1, Im: 0}}
	y0, y1, err := p.Run(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !y0[0].ApproxEqual(scalar.Complex{Re: 0, Im: 0}, 1e-6) {
		t.Errorf("y0: got %+v, want 0", y0[0])
	}
	if !y1[0].ApproxEqual(scalar.Complex{Re: 2, Im: 0}, 1e-6) {
		t.Errorf("y1: got %+v, want 2", y1[0])
	}
}
