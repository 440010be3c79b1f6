//go:build windows

package affinity

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// Thread-priority constants and the SetThreadPriority/GetThreadPriority
// entry points are not wrapped by golang.org/x/sys/windows, so they are
// called directly off kernel32.dll the way the package's own unwrapped
// Win32 calls are typically reached from Go.
const (
	threadPriorityTimeCritical = 15
	threadPriorityNormal       = 0
	realtimePriorityClass      = 0x00000100
	normalPriorityClass        = 0x00000020
)

var (
	modkernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadPriorit     = modkernel32.NewProc("SetThreadPriority")
	procGetThreadPriorit     = modkernel32.NewProc("GetThreadPriority")
	procSetThreadAffinityMas = modkernel32.NewProc("SetThreadAffinityMask")
)

func setThreadAffinityMask(h windows.Handle, mask uintptr) (uintptr, error) {
	r, _, err := procSetThreadAffinityMas.Call(uintptr(h), mask)
	if r == 0 {
		return 0, err
	}
	return r, nil
}

func setThreadPriority(h windows.Handle, priority int32) error {
	r, _, err := procSetThreadPriorit.Call(uintptr(h), uintptr(priority))
	if r == 0 {
		return err
	}
	return nil
}

func getThreadPriority(h windows.Handle) (int32, error) {
	r, _, err := procGetThreadPriorit.Call(uintptr(h))
	const threadPriorityErrorReturn = 0x7fffffff
	if int32(r) == threadPriorityErrorReturn {
		return 0, err
	}
	return int32(r), nil
}

// pinOSThread sets the calling thread's affinity mask to exactly
// logicalCPU via SetThreadAffinityMask, returning a closure that restores
// the prior mask. Systems exposing processor groups are not addressed
// here; a caller pinning beyond group 0's 64 logical CPUs gets
// ErrOutOfRange at the runtime.NumCPU() bound instead.
func pinOSThread(logicalCPU int) (func() error, error) {
	handle := windows.CurrentThread()
	mask := uintptr(1) << uint(logicalCPU)
	prevMask, err := setThreadAffinityMask(handle, mask)
	if err != nil {
		return nil, errors.Wrap(ErrUnsupported, err.Error())
	}
	return func() error {
		if _, err := setThreadAffinityMask(handle, prevMask); err != nil {
			return errors.Wrap(ErrUnsupported, err.Error())
		}
		return nil
	}, nil
}

// raiseThreadPriority elevates the process to REALTIME_PRIORITY_CLASS and
// the current thread to THREAD_PRIORITY_TIME_CRITICAL, mirroring the
// teacher measurement harness's SetPriorityClass/SetThreadPriority pair
// (§4.A). Lack of permission is reported, not fatal.
func raiseThreadPriority() (prev int, had bool, err error) {
	handle := windows.CurrentThread()
	prevPrio, gerr := getThreadPriority(handle)
	if gerr != nil {
		return 0, false, errors.Wrap(ErrUnsupported, gerr.Error())
	}
	if serr := windows.SetPriorityClass(windows.CurrentProcess(), realtimePriorityClass); serr != nil {
		return int(prevPrio), true, errors.Wrap(ErrUnsupported, serr.Error())
	}
	if serr := setThreadPriority(handle, threadPriorityTimeCritical); serr != nil {
		return int(prevPrio), true, errors.Wrap(ErrUnsupported, serr.Error())
	}
	return int(prevPrio), true, nil
}

func restoreThreadPriority(prev int) error {
	handle := windows.CurrentThread()
	if err := setThreadPriority(handle, int32(prev)); err != nil {
		return errors.Wrap(ErrUnsupported, err.Error())
	}
	if err := windows.SetPriorityClass(windows.CurrentProcess(), normalPriorityClass); err != nil {
		return errors.Wrap(ErrUnsupported, err.Error())
	}
	return nil
}
