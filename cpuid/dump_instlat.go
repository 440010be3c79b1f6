package cpuid

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// instlatLineRE matches InstLatx64-style dump lines:
//
//	CPUID 00000000: 0000000D-756E6547-6C65746E-49656E69
//	CPUID 0000000B [SL 01]: 00000001-00000101-00000100-00000004
//
// Leaf/subleaf are hex without a "0x" prefix; registers are EAX-EBX-ECX-EDX
// separated by dashes. A "Logical CPU" header line introduces a new
// per-processor snapshot when present.
var instlatCPURE = regexp.MustCompile(`(?i)^Logical CPU (\d+)`)
var instlatLineRE = regexp.MustCompile(
	`(?i)^CPUID ([0-9A-F]+)(?:\s*\[SL\s*([0-9A-F]+)\])?:\s*([0-9A-F]+)-([0-9A-F]+)-([0-9A-F]+)-([0-9A-F]+)\s*$`)

// ReadInstlat translates an InstLatx64-style dump into native
// CpuSnapshots. Read-only; bit-exact round-tripping is not required (§4.F).
func ReadInstlat(r io.Reader) ([]CpuSnapshot, error) {
	scanner := bufio.NewScanner(r)
	var snapshots []CpuSnapshot
	cur := NewLeafMap()
	curAPIC := uint32(0)
	found := false

	flush := func() {
		if found {
			snapshots = append(snapshots, snapshotFromLeaves(curAPIC, cur))
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if m := instlatCPURE.FindStringSubmatch(line); m != nil {
			flush()
			apic, _ := strconv.ParseUint(m[1], 10, 32)
			curAPIC = uint32(apic)
			cur = NewLeafMap()
			found = false
			continue
		}
		m := instlatLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		found = true
		leaf := parseHex32(m[1])
		sub := uint32(0)
		if m[2] != "" {
			sub = parseHex32(m[2])
		}
		cur.Set(LeafId(leaf), SubleafId(sub), RegisterSet{
			EAX: parseHex32(m[3]), EBX: parseHex32(m[4]), ECX: parseHex32(m[5]), EDX: parseHex32(m[6]),
		})
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	if len(snapshots) == 0 {
		return nil, errors.Wrap(ErrParse, "instlat dump: no recognizable CPUID lines")
	}
	return snapshots, nil
}
