// Package affinity pins the calling goroutine's backing OS thread to a
// single logical CPU and provides serialized TSC reads, tick-rate
// calibration, and measurement-overhead estimation for latency probing.
package affinity

import (
	"runtime"
	"time"

	"github.com/pkg/errors"
)

// IterationCount is the number of loop iterations used by both
// MeasureOverhead and the core-to-core probe's hot loop.
const IterationCount = 100000

// nanosecondsPerSecond converts calibrated tick rates into ns/tick.
const nanosecondsPerSecond = 1_000_000_000

var (
	// ErrUnsupported is returned when the host cannot pin thread affinity
	// or elevate scheduling priority at all.
	ErrUnsupported = errors.New("affinity: operation unsupported on this platform")
	// ErrOutOfRange is returned by PinTo when index exceeds the logical
	// CPU count reported by the runtime.
	ErrOutOfRange = errors.New("affinity: logical CPU index out of range")
)

// Pinned represents one goroutine's affinity-and-priority lease. Release
// must run on the same OS thread that PinTo ran on, so every caller
// must wrap its critical section in runtime.LockOSThread/UnlockOSThread
// itself; Pinned does not do this for the caller, since the caller also
// owns the hot loop that must not migrate mid-measurement.
type Pinned struct {
	index      int
	prevPrio   int
	hadPrio    bool
	restoreAff func() error
}

// PinTo restricts the calling OS thread's scheduling affinity to exactly
// logicalCPU and raises its priority to time-critical (§4.A). The caller
// must have already called runtime.LockOSThread. Permission failures are
// returned, not logged — callers decide whether to warn and continue.
func PinTo(logicalCPU int) (*Pinned, error) {
	if logicalCPU < 0 || logicalCPU >= runtime.NumCPU() {
		return nil, errors.Wrapf(ErrOutOfRange, "index %d, have %d logical CPUs", logicalCPU, runtime.NumCPU())
	}
	restore, err := pinOSThread(logicalCPU)
	if err != nil {
		return nil, err
	}
	prio, had, err := raiseThreadPriority()
	return &Pinned{index: logicalCPU, prevPrio: prio, hadPrio: had, restoreAff: restore}, err
}

// Release restores the prior affinity mask and priority. It must run on
// the same OS thread PinTo ran on.
func (p *Pinned) Release() error {
	if p == nil {
		return nil
	}
	var err error
	if p.hadPrio {
		err = restoreThreadPriority(p.prevPrio)
	}
	if aerr := p.restoreAff(); aerr != nil && err == nil {
		err = aerr
	}
	return err
}

// CalibrateTickRate spins on a serialized TSC for roughly one second and
// returns the observed tick frequency (§4.A). Must run pinned.
func CalibrateTickRate() uint64 {
	start := SerializedRDTSC()
	wallStart := time.Now()
	var elapsed time.Duration
	for elapsed < time.Second {
		elapsed = time.Since(wallStart)
	}
	end := RDTSCPSerialized()
	if elapsed <= 0 {
		return 0
	}
	return uint64(float64(end-start) * nanosecondsPerSecond / float64(elapsed.Nanoseconds()))
}

// MeasureOverhead estimates the per-sample cost of a serialized RDTSCP
// read so the probe can subtract it from every observed round trip
// (§4.A). Grounded on get_measurement_overhead's two-loop comparison:
// one loop with a bare store, one with the store plus a conditional
// RDTSCP, the difference amortized over IterationCount.
func MeasureOverhead() uint64 {
	var dummy uint64

	emptyStart := SerializedRDTSC()
	for i := 0; i < IterationCount; i++ {
		dummy = uint64(i)
	}
	emptyEnd := RDTSCPSerialized()
	_ = dummy

	dummy = 0
	rdtscpStart := SerializedRDTSC()
	for i := 0; i < IterationCount; i++ {
		dummy = 0
		if dummy == 0 {
			RDTSCPSerialized()
		}
	}
	rdtscpEnd := RDTSCPSerialized()

	emptyDuration := emptyEnd - emptyStart
	rdtscpDuration := rdtscpEnd - rdtscpStart
	if rdtscpDuration < emptyDuration {
		return 0
	}
	return (rdtscpDuration - emptyDuration) / IterationCount
}
