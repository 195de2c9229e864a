package fabric

import (
	"testing"

	"github.com/vectorlane/fftaccel/scalar"
)

func cplx(v int) scalar.Complex {
	return scalar.Complex{Re: float32(v), Im: float32(v)}
}

func TestShuffleStage_FirstStageN8(t *testing.T) {
	// N_hw=8, stage 0: half=N_hw/4=2, stride=N_hw>>2=2, a single block
	// spanning the whole width-4 operand vector.
	s := NewShuffleStage(8, 0)
	y0 := []scalar.Complex{cplx(0), cplx(1), cplx(2), cplx(3)}
	y1 := []scalar.Complex{cplx(10), cplx(11), cplx(12), cplx(13)}

	a, b := s.Permute(y0, y1, false)

	if len(a) != 4 || len(b) != 4 {
		t.Fatalf("expected width-4 operand vectors, got %d/%d", len(a), len(b))
	}
	quarter := 2
	stride := 2
	for p := 0; p < quarter; p++ {
		i := (p/stride)*(2*stride) + p%stride
		if a[p] != y0[i] || b[p] != y0[i+stride] {
			t.Errorf("p=%d: a/b mismatch against formula", p)
		}
		if a[p+quarter] != y1[i] || b[p+quarter] != y1[i+stride] {
			t.Errorf("p=%d (+quarter): a/b mismatch against formula", p)
		}
	}
}

func TestShuffleStage_SecondStageN16(t *testing.T) {
	// N_hw=16, stage 1: half=4, stride=2 -- two interleave blocks tiling
	// the width-8 operand vector, the multi-block case the N_hw=8 fixture
	// above can't reach (it only ever has one block).
	s := NewShuffleStage(16, 1)
	y0 := make([]scalar.Complex, 8)
	y1 := make([]scalar.Complex, 8)
	for i := range y0 {
		y0[i], y1[i] = cplx(i), cplx(i+100)
	}

	a, b := s.Permute(y0, y1, false)
	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("expected width-8 operand vectors, got %d/%d", len(a), len(b))
	}
	quarter := 4
	stride := 2
	for p := 0; p < quarter; p++ {
		i := (p/stride)*(2*stride) + p%stride
		if a[p] != y0[i] || b[p] != y0[i+stride] {
			t.Errorf("p=%d: a/b mismatch against formula", p)
		}
		if a[p+quarter] != y1[i] || b[p+quarter] != y1[i+stride] {
			t.Errorf("p=%d (+quarter): a/b mismatch against formula", p)
		}
	}
}

func TestShuffleStage_GEMMIsIdentity(t *testing.T) {
	s := NewShuffleStage(8, 0)
	y0 := []scalar.Complex{cplx(0), cplx(1), cplx(2), cplx(3)}
	y1 := []scalar.Complex{cplx(10), cplx(11), cplx(12), cplx(13)}

	a, b := s.Permute(y0, y1, true)
	for i := range y0 {
		if a[i] != y0[i] || b[i] != y1[i] {
			t.Errorf("GEMM identity violated at %d: a=%+v b=%+v", i, a[i], b[i])
		}
	}
}
