package cpuid

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// WholeRegisterSentinel is the bit_lo == bit_hi value encoding "whole
// register" (§3, §4.H).
const WholeRegisterSentinel = 0xFFFFFFFF

// FlagSpec is the normalized form of a textual flag query (§4.H).
type FlagSpec struct {
	SelectorEAX uint32
	SelectorECX uint32
	Register    Reg
	Name        string
	BitLo       uint32
	BitHi       uint32
}

var (
	selectorRE = regexp.MustCompile(`(?i)^\s*CPUID\s*\.\s*(?:` +
		`\(\s*EAX\s*=\s*([0-9A-Fa-f]+)H?\s*(?:,\s*ECX\s*=\s*([0-9A-Fa-f]+)H?\s*)?\)` +
		`|EAX\s*=\s*([0-9A-Fa-f]+)H` +
		`|([0-9A-Fa-f]+)H?` +
		`)\s*[:.]\s*(.+)$`)

	regPartRE = regexp.MustCompile(`(?i)^\s*([A-Za-z]+)` +
		`(?:\.([A-Za-z0-9_.]+))?` +
		`(?:\[\s*([^\]]+)\s*\])?` +
		`(?:\(\s*bit\s*([0-9]+)\s*\))?\s*$`)

	bracketBitsRE = regexp.MustCompile(`(?i)^(?:bits?\s+)?([0-9]+)\s*(?:[-:]\s*([0-9]+))?$`)

	registerNames = map[string]Reg{
		"EAX": RegEAX,
		"EBX": RegEBX,
		"ECX": RegECX,
		"EDX": RegEDX,
	}
)

// ParseFlagSpec parses a textual flag specification per §4.H's grammar,
// e.g. "CPUID.(EAX=07H,ECX=0):EBX.BMI1[bit 3]".
func ParseFlagSpec(s string) (FlagSpec, error) {
	m := selectorRE.FindStringSubmatch(s)
	if m == nil {
		return FlagSpec{}, errors.Wrapf(ErrParse, "%q: does not match the CPUID.<selector>:<reg> grammar", s)
	}

	var eax, ecx uint64
	var err error
	switch {
	case m[1] != "":
		eax, err = strconv.ParseUint(m[1], 16, 32)
		if err == nil && m[2] != "" {
			ecx, err = strconv.ParseUint(m[2], 16, 32)
		}
	case m[3] != "":
		eax, err = strconv.ParseUint(m[3], 16, 32)
	case m[4] != "":
		eax, err = strconv.ParseUint(m[4], 16, 32)
	default:
		return FlagSpec{}, errors.Wrapf(ErrParse, "%q: empty selector", s)
	}
	if err != nil {
		return FlagSpec{}, errors.Wrapf(ErrParse, "%q: bad selector hex value", s)
	}

	regPart := strings.TrimSpace(m[5])
	rm := regPartRE.FindStringSubmatch(regPart)
	if rm == nil {
		return FlagSpec{}, errors.Wrapf(ErrParse, "%q: bad register/bit portion %q", s, regPart)
	}

	reg, ok := registerNames[strings.ToUpper(rm[1])]
	if !ok {
		return FlagSpec{}, errors.Wrapf(ErrParse, "%q: unknown register %q", s, rm[1])
	}

	name := strings.ToLower(rm[2])
	bracket := strings.TrimSpace(rm[3])
	trailingBit := rm[4]

	lo, hi := uint32(WholeRegisterSentinel), uint32(WholeRegisterSentinel)

	switch {
	case trailingBit != "":
		v, perr := strconv.ParseUint(trailingBit, 10, 32)
		if perr != nil {
			return FlagSpec{}, errors.Wrapf(ErrParse, "%q: bad bit index", s)
		}
		lo, hi = uint32(v), uint32(v)

	case bracket != "":
		bm := bracketBitsRE.FindStringSubmatch(bracket)
		if bm == nil {
			// Not a numeric/range form: treat the bracket content as a
			// bare mnemonic, e.g. "ECX[SSE4.2]" — the catalogue resolves
			// the actual bit position later.
			name = strings.ToLower(bracket)
		} else {
			first, perr := strconv.ParseUint(bm[1], 10, 32)
			if perr != nil {
				return FlagSpec{}, errors.Wrapf(ErrParse, "%q: bad bit number", s)
			}
			if bm[2] == "" {
				lo, hi = uint32(first), uint32(first)
			} else {
				second, serr := strconv.ParseUint(bm[2], 10, 32)
				if serr != nil {
					return FlagSpec{}, errors.Wrapf(ErrParse, "%q: bad bit range", s)
				}
				// Textual convention is hi-then-lo: "[4:3]" -> (lo=3, hi=4).
				hi32, lo32 := uint32(first), uint32(second)
				if lo32 > hi32 {
					lo32, hi32 = hi32, lo32
				}
				lo, hi = lo32, hi32
			}
		}
	}

	return FlagSpec{
		SelectorEAX: uint32(eax),
		SelectorECX: uint32(ecx),
		Register:    reg,
		Name:        name,
		BitLo:       lo,
		BitHi:       hi,
	}, nil
}
