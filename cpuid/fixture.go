package cpuid

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// fixtureEntry is one recorded CPUID call, adapted from the teacher's
// CPUIDEntry/CPUIDData JSON fixture shape (cpuid_capture.go) onto LeafId/
// SubleafId.
type fixtureEntry struct {
	Leaf    uint32 `json:"leaf"`
	Subleaf uint32 `json:"subleaf"`
	EAX     uint32 `json:"eax"`
	EBX     uint32 `json:"ebx"`
	ECX     uint32 `json:"ecx"`
	EDX     uint32 `json:"edx"`
}

type fixtureData struct {
	Vendor  Vendor         `json:"vendor"`
	Entries []fixtureEntry `json:"entries"`
}

// CaptureFixture walks the full three-phase plan via exec and writes every
// observed (leaf, subleaf, registers) tuple as JSON, along with the
// caller-supplied vendor classification, suitable for replay through
// FixtureExecutor. The cpuinfo --read-dump flag does not read this JSON
// format.
func CaptureFixture(w io.Writer, exec ExecuteFunc, vendor Vendor, opts PlanOptions) error {
	snap := EnumerateCPU(exec, 0, opts)
	m := snap.Leaves

	data := fixtureData{Vendor: vendor}
	for _, leaf := range m.Leaves() {
		for _, sub := range m.Subleaves(leaf) {
			rs, _ := m.Get(leaf, sub)
			data.Entries = append(data.Entries, fixtureEntry{
				Leaf: uint32(leaf), Subleaf: uint32(sub),
				EAX: rs.EAX, EBX: rs.EBX, ECX: rs.ECX, EDX: rs.EDX,
			})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// FixtureExecutor replays a previously captured fixture as an ExecuteFunc,
// returning the zero RegisterSet for any (leaf, subleaf) not present in
// the fixture — grounded on the teacher's cpuidoffline fallback-to-zero
// behavior (cpuid_capture.go). The recorded vendor classification is
// returned alongside so callers don't need to re-derive it from leaf 0.
func FixtureExecutor(r io.Reader) (ExecuteFunc, Vendor, error) {
	var data fixtureData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, VendorUnknown, errors.Wrap(ErrIO, err.Error())
	}
	type key struct {
		leaf, sub uint32
	}
	table := make(map[key]RegisterSet, len(data.Entries))
	for _, e := range data.Entries {
		table[key{e.Leaf, e.Subleaf}] = RegisterSet{EAX: e.EAX, EBX: e.EBX, ECX: e.ECX, EDX: e.EDX}
	}
	exec := func(leaf LeafId, subleaf SubleafId) RegisterSet {
		return table[key{uint32(leaf), uint32(subleaf)}]
	}
	return exec, data.Vendor, nil
}
