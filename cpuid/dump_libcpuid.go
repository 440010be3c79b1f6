package cpuid

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// libcpuidEntryRE matches libcpuid's raw-data serialization lines:
//
//	basic_cpuid[0]=0x0000000d 0x756e6547 0x6c65746e 0x49656e69
//	ext_cpuid[1]=0x00100800 0x00000000 0x00000001 0x2c100800
//
// libcpuid dumps a single machine with no subleaf/APIC notion, so every
// entry lands at subleaf 0 of one synthesized CpuSnapshot (apic_id 0).
var libcpuidEntryRE = regexp.MustCompile(
	`^(basic_cpuid|ext_cpuid)\[(\d+)\]=0x([0-9a-fA-F]+)\s+0x([0-9a-fA-F]+)\s+0x([0-9a-fA-F]+)\s+0x([0-9a-fA-F]+)\s*$`)

// ReadLibcpuid translates a libcpuid raw-data dump into a native
// CpuSnapshot. Read-only; bit-exact round-tripping is not required (§4.F).
func ReadLibcpuid(r io.Reader) ([]CpuSnapshot, error) {
	scanner := bufio.NewScanner(r)
	m := NewLeafMap()
	found := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "version=") {
			continue
		}
		mm := libcpuidEntryRE.FindStringSubmatch(line)
		if mm == nil {
			continue
		}
		found = true
		idx, _ := strconv.ParseUint(mm[2], 10, 32)
		leaf := LeafId(idx)
		if mm[1] == "ext_cpuid" {
			leaf = LeafExtendedBase + LeafId(idx)
		}
		m.Set(leaf, 0, RegisterSet{
			EAX: parseHex32(mm[3]), EBX: parseHex32(mm[4]), ECX: parseHex32(mm[5]), EDX: parseHex32(mm[6]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	if !found {
		return nil, errors.Wrap(ErrParse, "libcpuid dump: no basic_cpuid/ext_cpuid entries")
	}
	return []CpuSnapshot{snapshotFromLeaves(0, m)}, nil
}
