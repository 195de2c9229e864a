// Command fftsim drives a handful of frames through the FFT accelerator
// simulator and reports the pass/fail tally.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/vectorlane/fftaccel/driver"
)

func main() {
	nHw := flag.Int("nhw", 16, "fabric native lane count (power of two)")
	realSize := flag.Int("real-size", 8, "transform size for each frame (power of two <= nhw)")
	frames := flag.Int("frames", 4, "number of frames to run")
	seed := flag.Int64("seed", 1, "seed for the random generator")
	flag.Parse()

	hw := driver.HardwareConfig{NHw: *nHw, FIFODepth: *nHw}
	d := driver.NewDriver(hw)

	for i := 0; i < *frames; i++ {
		f, err := d.RunFrame(*realSize, driver.RandomSeeded(*seed+int64(i)))
		if err != nil {
			log.Fatalf("frame %d: %v", i, err)
		}
		status := "PASS"
		if !f.Passed {
			status = "FAIL"
		}
		fmt.Printf("frame %s: real_size=%d %s %s\n", f.ID, f.RealSize, status, f.Reason)
	}

	report := d.Report()
	fmt.Printf("%d/%d frames passed\n", report.Passed(), len(report.Results))
}
