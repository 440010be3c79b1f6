//go:build amd64

package affinity

func serializedRDTSCAsm() uint64
func rdtscpSerializedAsm() uint64

// SerializedRDTSC executes a serializing CPUID followed by RDTSC (§4.A).
func SerializedRDTSC() uint64 { return serializedRDTSCAsm() }

// RDTSCPSerialized executes RDTSCP followed by a serializing CPUID (§4.A).
func RDTSCPSerialized() uint64 { return rdtscpSerializedAsm() }
