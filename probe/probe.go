// Package probe measures core-to-core cache-coherence latency by
// bouncing a timestamp between two pinned threads over a shared,
// cache-line-aligned atomic word.
package probe

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/corewatch/x86probe/affinity"
)

// PairTimeout bounds a single (source, destination) measurement; a probe
// that never completes is a hardware or priority-inversion bug, not
// something to retry (§5 "Cancellation / timeouts").
const PairTimeout = 10 * time.Second

// pingSlot pads its atomic word out to a full cache line so it never
// false-shares with the destination thread's running sum, which lives on
// that goroutine's own stack (§5 "Shared-resource policy").
type pingSlot struct {
	value uint64
	_     [56]byte
}

// Matrix is an N x N table of nanosecond round-trip latencies, indexed
// [source][destination]. The diagonal is zero (no self-pinging, §4.I).
type Matrix struct {
	Size    int
	Ns      [][]float64
	Logical []int // logical CPU index for each matrix row/column
}

// PairSet selects which ordered pairs Run measures.
type PairSet int

const (
	// PairAll measures every ordered (i, j), i != j.
	PairAll PairSet = iota
	// PairRing measures only adjacent pairs in a ring: (i, i+1 mod n)
	// and (i+1 mod n, i).
	PairRing
)

// Options configures a Run.
type Options struct {
	Iterations int
	Pairs      PairSet
	Logger     *logrus.Logger
}

func (o Options) withDefaults() Options {
	if o.Iterations <= 0 {
		o.Iterations = affinity.IterationCount
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// Run measures the core-to-core latency matrix across logicalCPUs, which
// names the logical CPU index for each row/column of the returned
// Matrix (§4.I, §5).
func Run(ctx context.Context, logicalCPUs []int, opts Options) (Matrix, error) {
	opts = opts.withDefaults()
	if len(logicalCPUs) < 2 {
		return Matrix{}, errors.New("probe: need at least two logical CPUs")
	}

	tickRate := affinity.CalibrateTickRate()
	if tickRate == 0 {
		return Matrix{}, errors.New("probe: tick rate calibration returned zero")
	}
	overhead := affinity.MeasureOverhead()
	opts.Logger.WithFields(logrus.Fields{
		"tick_rate_hz":         tickRate,
		"measurement_overhead": overhead,
	}).Debug("calibration complete")

	n := len(logicalCPUs)
	m := Matrix{Size: n, Logical: logicalCPUs, Ns: make([][]float64, n)}
	for i := range m.Ns {
		m.Ns[i] = make([]float64, n)
	}

	for _, pair := range pairsFor(n, opts.Pairs) {
		src, dst := pair[0], pair[1]
		pairCtx, cancel := context.WithTimeout(ctx, PairTimeout)
		ns, err := measurePair(pairCtx, logicalCPUs[src], logicalCPUs[dst], opts.Iterations, tickRate, overhead, opts.Logger)
		cancel()
		if err != nil {
			return m, errors.Wrapf(err, "pair (%d,%d)", logicalCPUs[src], logicalCPUs[dst])
		}
		m.Ns[src][dst] = ns
	}
	return m, nil
}

func pairsFor(n int, set PairSet) [][2]int {
	var pairs [][2]int
	switch set {
	case PairRing:
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			if i == j {
				continue
			}
			pairs = append(pairs, [2]int{i, j}, [2]int{j, i})
		}
	default:
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// measurePair runs the two-thread ping/pong protocol between logical
// CPUs src and dst and returns the mean round trip in nanoseconds
// (§4.I). Both threads pin and raise priority before signalling
// readiness through a counting barrier; the hot loop itself never
// blocks on anything but the shared ping slot.
func measurePair(ctx context.Context, srcCPU, dstCPU, iterations int, tickRate, overhead uint64, logger *logrus.Logger) (float64, error) {
	var slot pingSlot
	var runningSum uint64

	var barrierMu sync.Mutex
	barrierCond := sync.NewCond(&barrierMu)
	threadsReady := 0

	wait := func() {
		barrierMu.Lock()
		threadsReady++
		barrierCond.Broadcast()
		for threadsReady < 2 {
			barrierCond.Wait()
		}
		barrierMu.Unlock()
	}

	done := make(chan error, 2)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		pinned, err := affinity.PinTo(srcCPU)
		if pinned == nil {
			done <- errors.Wrap(err, "pin source")
			return
		}
		if err != nil {
			// Priority elevation failed but the affinity pin itself
			// succeeded; continue at normal priority per §7.
			logger.WithError(err).Warnf("cpu %d priority", srcCPU)
		}
		defer pinned.Release()

		wait()
		for i := 0; i < iterations; i++ {
			for atomic.LoadUint64(&slot.value) != 0 {
			}
			sent := affinity.SerializedRDTSC()
			atomic.StoreUint64(&slot.value, sent)
		}
		done <- nil
	}()

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		pinned, err := affinity.PinTo(dstCPU)
		if pinned == nil {
			done <- errors.Wrap(err, "pin destination")
			return
		}
		if err != nil {
			// Priority elevation failed but the affinity pin itself
			// succeeded; continue at normal priority per §7.
			logger.WithError(err).Warnf("cpu %d priority", dstCPU)
		}
		defer pinned.Release()

		wait()
		var sum uint64
		for i := 0; i < iterations; i++ {
			var sent uint64
			for {
				sent = atomic.LoadUint64(&slot.value)
				if sent != 0 {
					break
				}
			}
			received := affinity.RDTSCPSerialized()
			atomic.StoreUint64(&slot.value, 0)
			raw := received - sent
			if raw > overhead {
				sum += raw - overhead
			}
		}
		runningSum = sum
		done <- nil
	}()

	for i := 0; i < 2; i++ {
		select {
		case err := <-done:
			if err != nil {
				return 0, err
			}
		case <-ctx.Done():
			return 0, errors.Wrap(ctx.Err(), "probe: pair timed out")
		}
	}

	meanTicks := float64(runningSum) / float64(iterations)
	nanosecondsPerTick := 1e9 / float64(tickRate)
	return meanTicks * nanosecondsPerTick, nil
}
