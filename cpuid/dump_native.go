package cpuid

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// nativeLeafLineRE matches one "leaf 0x<LL> subleaf 0x<SS> = 0x<eax> ..."
// line of the native dump format (§4.F). Parsing is strict: a line that
// doesn't match this shape is an error.
var nativeLeafLineRE = regexp.MustCompile(
	`^\s*leaf 0x([0-9a-f]{8}) subleaf 0x([0-9a-f]{8}) = 0x([0-9a-f]{8}) 0x([0-9a-f]{8}) 0x([0-9a-f]{8}) 0x([0-9a-f]{8})\s*$`)

var nativeCPULineRE = regexp.MustCompile(`^CPU (\d+):\s*$`)

// WriteNative serializes snapshots to the native dump format. Leaf/subleaf
// iteration is leaf-ascending then subleaf-ascending per the LeafMap
// ordering guarantee; apic_id is printed decimal, every other field
// lowercase hex zero-padded to 8 characters.
func WriteNative(w io.Writer, snapshots []CpuSnapshot) error {
	bw := bufio.NewWriter(w)
	for _, s := range snapshots {
		if _, err := fmt.Fprintf(bw, "CPU %d:\n", s.APICID); err != nil {
			return errors.Wrap(ErrIO, err.Error())
		}
		for _, leaf := range s.Leaves.Leaves() {
			for _, sub := range s.Leaves.Subleaves(leaf) {
				rs, _ := s.Leaves.Get(leaf, sub)
				_, err := fmt.Fprintf(bw, "   leaf 0x%08x subleaf 0x%08x = 0x%08x 0x%08x 0x%08x 0x%08x\n",
					uint32(leaf), uint32(sub), rs.EAX, rs.EBX, rs.ECX, rs.EDX)
				if err != nil {
					return errors.Wrap(ErrIO, err.Error())
				}
			}
		}
	}
	return bw.Flush()
}

// ReadNative parses the native dump format back into CpuSnapshots,
// re-deriving vendor and model from the observed leaves rather than any
// file metadata (§4.F invariant).
func ReadNative(r io.Reader) ([]CpuSnapshot, error) {
	scanner := bufio.NewScanner(r)
	var snapshots []CpuSnapshot
	var cur *LeafMap
	var curAPIC uint32
	flush := func() {
		if cur == nil {
			return
		}
		snapshots = append(snapshots, snapshotFromLeaves(curAPIC, cur))
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		if m := nativeCPULineRE.FindStringSubmatch(line); m != nil {
			flush()
			apic, _ := strconv.ParseUint(m[1], 10, 32)
			curAPIC = uint32(apic)
			cur = NewLeafMap()
			continue
		}
		m := nativeLeafLineRE.FindStringSubmatch(line)
		if m == nil || cur == nil {
			return nil, errors.Wrapf(ErrParse, "native dump line %d: %q", lineNo, line)
		}
		leaf, _ := strconv.ParseUint(m[1], 16, 32)
		sub, _ := strconv.ParseUint(m[2], 16, 32)
		eax, _ := strconv.ParseUint(m[3], 16, 32)
		ebx, _ := strconv.ParseUint(m[4], 16, 32)
		ecx, _ := strconv.ParseUint(m[5], 16, 32)
		edx, _ := strconv.ParseUint(m[6], 16, 32)
		cur.Set(LeafId(leaf), SubleafId(sub), RegisterSet{EAX: uint32(eax), EBX: uint32(ebx), ECX: uint32(ecx), EDX: uint32(edx)})
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	return snapshots, nil
}

// snapshotFromLeaves re-derives vendor and model from an already-populated
// LeafMap, as ReadNative and the offline-fixture path both require.
func snapshotFromLeaves(apicID uint32, m *LeafMap) CpuSnapshot {
	var vendor Vendor
	if leaf0, ok := m.Get(0, 0); ok {
		vendor = VendorFrom(leaf0)
	}
	if hvBase, ok := m.Get(LeafHypervisorBase, 0); ok {
		var xenOff *RegisterSet
		if off, ok := m.Get(LeafXenHypervisorOffset, 0); ok {
			xenOff = &off
		}
		vendor |= HypervisorFrom(hvBase, xenOff)
	}
	var model ModelId
	if leaf1, ok := m.Get(1, 0); ok {
		model = ModelFrom(leaf1.EAX)
	}
	return CpuSnapshot{APICID: apicID, Vendor: vendor, Model: model, Leaves: m}
}
