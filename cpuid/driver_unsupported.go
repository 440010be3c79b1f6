//go:build !amd64

package cpuid

// Execute returns the zero RegisterSet wherever the build target has no
// native CPUID instruction to issue. The inventory tool is explicitly not
// cross-architecture (spec Non-goals); on such targets NativeSupported
// reports false and EnumerateHost returns ErrUnsupportedHardware.
func Execute(leaf LeafId, subleaf SubleafId) RegisterSet {
	return RegisterSet{}
}

const nativeSupported = false
