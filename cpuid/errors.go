package cpuid

import "github.com/pkg/errors"

// Error kinds from spec §7. Call sites wrap these with errors.Wrap to add
// context; callers compare with errors.Is.
var (
	// ErrUnsupportedHardware means the host lacks a usable CPUID brand
	// string or the invariant-TSC flag at 0x80000007.edx[8].
	ErrUnsupportedHardware = errors.New("unsupported hardware: no CPUID brand string or invariant TSC")
	// ErrPermission means affinity or priority elevation failed. Per §7
	// this degrades the operation to a warning rather than aborting it;
	// it is exported so callers that do want strict behavior can still
	// treat it as fatal.
	ErrPermission = errors.New("insufficient permission to set affinity or priority")
	// ErrParse means a dump line or flag spec failed to parse.
	ErrParse = errors.New("parse error")
	// ErrIO means a dump file could not be read or written.
	ErrIO = errors.New("dump I/O error")
	// ErrCatalogueMiss means a flag spec named an unknown mnemonic under
	// strict mode (catalogue lookups with --ignore-feature disabled).
	ErrCatalogueMiss = errors.New("flag spec names an unknown catalogue entry")
)

// ExitCode maps an error produced by this module to the process exit code
// table in spec §6: 0 success, 1 I/O or parse error, 2 unsupported
// hardware. nil maps to 0; any other non-nil error maps to 1, so callers
// can pass exit-path errors through a single switch.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUnsupportedHardware):
		return 2
	case errors.Is(err, ErrParse), errors.Is(err, ErrIO), errors.Is(err, ErrCatalogueMiss):
		return 1
	default:
		return 1
	}
}
