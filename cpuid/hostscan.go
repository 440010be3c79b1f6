package cpuid

import (
	"runtime"

	"github.com/pkg/errors"

	"github.com/corewatch/x86probe/affinity"
)

// NativeSupported reports whether this build target can issue a native
// CPUID instruction at all (amd64 only; §2 Non-goals exclude
// cross-architecture support).
func NativeSupported() bool { return nativeSupported }

// HasInvariantTSC reports whether the extended feature leaf advertises
// invariant TSC at 0x80000007.edx[8] (§7 unsupported-hardware criterion).
func HasInvariantTSC(s CpuSnapshot) bool {
	rs, ok := s.Leaves.Get(0x80000007, 0)
	if !ok {
		return false
	}
	return rs.EDX&(1<<8) != 0
}

// EnumerateHost pins the calling OS thread to each of the runtime's
// reported logical CPUs in turn and runs the full leaf-enumeration plan
// on each, returning one CpuSnapshot per logical CPU (§5 "single
// bouncing thread" enumeration strategy). Affinity/priority failures are
// collected as warnings rather than aborting the scan, per §7.
func EnumerateHost(opts PlanOptions) ([]CpuSnapshot, []error, error) {
	if !NativeSupported() {
		return nil, nil, ErrUnsupportedHardware
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	n := runtime.NumCPU()
	snapshots := make([]CpuSnapshot, 0, n)
	var warnings []error

	for i := 0; i < n; i++ {
		pinned, err := affinity.PinTo(i)
		if pinned == nil {
			warnings = append(warnings, errors.Wrapf(ErrPermission, "cpu %d: %s", i, err))
			continue
		}
		if err != nil {
			// Priority elevation failed but the affinity pin itself
			// succeeded; continue at normal priority per §7.
			warnings = append(warnings, errors.Wrapf(ErrPermission, "cpu %d priority: %s", i, err))
		}
		snap := EnumerateCPU(Execute, uint32(i), opts)
		// Record the APIC id the CPU itself reports, the same one
		// BuildTopology derives, rather than the OS's logical index.
		snap.APICID, _, _, _, _, _ = apicBreakdown(snap)
		snapshots = append(snapshots, snap)
		if rerr := pinned.Release(); rerr != nil {
			warnings = append(warnings, errors.Wrapf(ErrPermission, "cpu %d release: %s", i, rerr))
		}
	}

	if len(snapshots) == 0 {
		return nil, warnings, ErrUnsupportedHardware
	}
	return snapshots, warnings, nil
}
