package driver

import (
	"encoding/binary"
	"hash/crc32"
	"math"
)

// Region base addresses and sizes, spec.md §6. These are never dereferenced
// as real addresses — MemoryMap backs each region with a plain byte slice
// and uses the constants only for bounds and reporting, the way the
// teacher's MapperType enumerates bank windows without ever touching a
// real machine's MMU.
const (
	DDRBase uint64 = 0x0_8000_0000
	DDRSize uint64 = 16 << 30
	GSMBase uint64 = 0x0_7000_0000
	GSMSize uint64 = 8 << 20
	SMBase  uint64 = 0x0_1001_0000
	SMSize  uint64 = 128 << 10
	AMBase  uint64 = 0x0_1003_0000
	AMSize  uint64 = 768 << 10
	DMABase uint64 = 0x0_100F_0000
	DMASize uint64 = 63 << 10
	FFTBase uint64 = 0x0_1012_0000
	FFTSize uint64 = 64 << 10
)

// MemoryMap is a direct-memory-interface view over the regions the
// driver actually moves bytes through: DDR for bulk sample/twiddle
// storage and AM for array staging ahead of the fabric. GSM and SM are
// declared above for completeness against spec.md §6's memory map but
// have no frame-lifecycle operation that touches them -- nothing in the
// FFT core's critical path (sample movement, twiddle compensation) reads
// or writes scalar control memory or the global scratch region.
type MemoryMap struct {
	DDR []byte
	AM  []byte
}

// NewMemoryMap allocates empty backing stores. A full 16 GiB DDR
// allocation is impractical for a simulator driven by small test frames,
// so the map is built lazily sized to what a frame actually needs:
// PutComplexSlice below grows the backing slice on demand rather than
// pre-allocating the full region, and GetComplexSlice reads only from
// bytes already there.
func NewMemoryMap() *MemoryMap {
	return &MemoryMap{}
}

// PutComplexSlice writes a slice of (re, im) float32 pairs into dst as
// little-endian bytes starting at byteOffset, growing dst if needed.
func PutComplexSlice(dst *[]byte, byteOffset int, values []complexPair) {
	need := byteOffset + len(values)*8
	if need > len(*dst) {
		grown := make([]byte, need)
		copy(grown, *dst)
		*dst = grown
	}
	for i, v := range values {
		o := byteOffset + i*8
		binary.LittleEndian.PutUint32((*dst)[o:], math.Float32bits(v.Re))
		binary.LittleEndian.PutUint32((*dst)[o+4:], math.Float32bits(v.Im))
	}
}

// GetComplexSlice reads n (re, im) float32 pairs back out of src starting
// at byteOffset.
func GetComplexSlice(src []byte, byteOffset, n int) []complexPair {
	out := make([]complexPair, n)
	for i := 0; i < n; i++ {
		o := byteOffset + i*8
		out[i] = complexPair{
			Re: math.Float32frombits(binary.LittleEndian.Uint32(src[o:])),
			Im: math.Float32frombits(binary.LittleEndian.Uint32(src[o+4:])),
		}
	}
	return out
}

// complexPair mirrors scalar.Complex's layout without importing the
// fabric-facing package, keeping the memory-map codec independent of the
// compute types it shuttles.
type complexPair struct {
	Re, Im float32
}

// BlockCopy implements the point-to-point DMA primitive of spec.md §6:
// copy frameCount frames of elemBytes width from src at the given stride
// into dst at its own stride, and return a CRC32 checksum of the bytes
// moved so the caller can assert the transfer's integrity the way a real
// DMA completion status would be checked.
func BlockCopy(dst []byte, dstOffset, dstStride int, src []byte, srcOffset, srcStride, elemBytes, frameCount int) uint32 {
	crc := crc32.NewIEEE()
	for f := 0; f < frameCount; f++ {
		so := srcOffset + f*srcStride
		do := dstOffset + f*dstStride
		chunk := src[so : so+elemBytes]
		copy(dst[do:do+elemBytes], chunk)
		_, _ = crc.Write(chunk)
	}
	return crc.Sum32()
}
