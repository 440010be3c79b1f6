//go:build linux

package affinity

import (
	"golang.org/x/sys/unix"

	"github.com/pkg/errors"
)

// pinOSThread sets the calling thread's CPU affinity mask to exactly
// logicalCPU via sched_setaffinity, returning a closure that restores the
// prior mask.
func pinOSThread(logicalCPU int) (func() error, error) {
	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		return nil, errors.Wrap(ErrUnsupported, err.Error())
	}

	var want unix.CPUSet
	want.Set(logicalCPU)
	if err := unix.SchedSetaffinity(0, &want); err != nil {
		return nil, errors.Wrap(ErrUnsupported, err.Error())
	}

	return func() error {
		if err := unix.SchedSetaffinity(0, &prev); err != nil {
			return errors.Wrap(ErrUnsupported, err.Error())
		}
		return nil
	}, nil
}

// raiseThreadPriority lowers the scheduling nice value toward the
// highest-priority end of the range available to an unprivileged caller
// (Linux has no per-thread "time-critical" class outside SCHED_FIFO,
// which requires CAP_SYS_NICE; nice(-20) is the unprivileged analogue
// the teacher's priority-elevation step maps to). Lack of permission is
// reported, not fatal (§4.A).
func raiseThreadPriority() (prev int, had bool, err error) {
	prev, gerr := unix.Getpriority(unix.PRIO_PROCESS, 0)
	if gerr != nil {
		return 0, false, errors.Wrap(ErrUnsupported, gerr.Error())
	}
	// Getpriority returns 20-nice(); translate back.
	prev = 20 - prev
	if serr := unix.Setpriority(unix.PRIO_PROCESS, 0, -20); serr != nil {
		return prev, true, errors.Wrap(ErrUnsupported, serr.Error())
	}
	return prev, true, nil
}

func restoreThreadPriority(prev int) error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, prev); err != nil {
		return errors.Wrap(ErrUnsupported, err.Error())
	}
	return nil
}
