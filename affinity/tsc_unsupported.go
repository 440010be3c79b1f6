//go:build !amd64

package affinity

// SerializedRDTSC is unavailable off amd64; it always returns zero.
func SerializedRDTSC() uint64 { return 0 }

// RDTSCPSerialized is unavailable off amd64; it always returns zero.
func RDTSCPSerialized() uint64 { return 0 }
