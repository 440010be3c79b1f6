package cpuid

import (
	"bufio"
	"io"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// etallenCPURE matches "CPU <n>:" section headers, as emitted by Todd
// Allen's `cpuid -r` (the "etallen" format named in spec §4.F/§6).
var etallenCPURE = regexp.MustCompile(`^CPU (\d+):\s*$`)

// etallenLeafRE matches "   0x<leaf> 0x<subleaf>: eax=0x.. ebx=0x.. ecx=0x.. edx=0x.."
var etallenLeafRE = regexp.MustCompile(
	`^\s*0x([0-9a-fA-F]+)\s+0x([0-9a-fA-F]+):\s*eax=0x([0-9a-fA-F]+)\s+ebx=0x([0-9a-fA-F]+)\s+ecx=0x([0-9a-fA-F]+)\s+edx=0x([0-9a-fA-F]+)\s*$`)

// ReadEtallen translates a `cpuid -r`-style dump into native CpuSnapshots.
// Bit-exact round-tripping is not required for this read-only path (§4.F).
func ReadEtallen(r io.Reader) ([]CpuSnapshot, error) {
	scanner := bufio.NewScanner(r)
	var snapshots []CpuSnapshot
	var cur *LeafMap
	var curAPIC uint32
	flush := func() {
		if cur != nil {
			snapshots = append(snapshots, snapshotFromLeaves(curAPIC, cur))
		}
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		if m := etallenCPURE.FindStringSubmatch(line); m != nil {
			flush()
			apic, _ := strconv.ParseUint(m[1], 10, 32)
			curAPIC = uint32(apic)
			cur = NewLeafMap()
			continue
		}
		m := etallenLeafRE.FindStringSubmatch(line)
		if m == nil {
			continue // etallen dumps carry human-readable decode lines we don't need
		}
		if cur == nil {
			cur = NewLeafMap()
		}
		leaf := parseHex32(m[1])
		sub := parseHex32(m[2])
		cur.Set(LeafId(leaf), SubleafId(sub), RegisterSet{
			EAX: parseHex32(m[3]), EBX: parseHex32(m[4]), ECX: parseHex32(m[5]), EDX: parseHex32(m[6]),
		})
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	if len(snapshots) == 0 {
		return nil, errors.Wrap(ErrParse, "etallen dump: no recognizable CPU sections")
	}
	return snapshots, nil
}

func parseHex32(s string) uint32 {
	v, _ := strconv.ParseUint(s, 16, 32)
	return uint32(v)
}
