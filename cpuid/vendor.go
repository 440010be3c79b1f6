package cpuid

import "strings"

// Vendor is a bitfield with two disjoint sub-ranges: bits [0:15] name a
// silicon vendor, bits [16:31] name a hypervisor vendor. A CpuSnapshot may
// set bits from both ranges at once (e.g. Intel under Xen HVM with
// Viridian Extensions sets VendorIntel|VendorHyperV|VendorXenHVM).
type Vendor uint32

// Silicon vendor bits.
const (
	VendorUnknown Vendor = 0
	VendorIntel   Vendor = 1 << 0
	VendorAMD     Vendor = 1 << 1
	VendorCentaur Vendor = 1 << 2
	VendorCyrix   Vendor = 1 << 3
	VendorTransmeta Vendor = 1 << 4
	VendorNationalSemi Vendor = 1 << 5
	VendorNexGen  Vendor = 1 << 6
	VendorRise    Vendor = 1 << 7
	VendorSiS     Vendor = 1 << 8
	VendorUMC     Vendor = 1 << 9
	VendorVIA     Vendor = 1 << 10
	VendorVortex  Vendor = 1 << 11

	siliconMask Vendor = 0x0000FFFF
)

// Hypervisor vendor bits.
const (
	VendorNoHypervisor Vendor = 0
	VendorBhyve        Vendor = 1 << 16
	VendorKVM          Vendor = 1 << 17
	VendorHyperV       Vendor = 1 << 18
	VendorParallels    Vendor = 1 << 19
	VendorVMware       Vendor = 1 << 20
	VendorXenHVM       Vendor = 1 << 21
	VendorQEMUTCG      Vendor = 1 << 22

	hypervisorMask Vendor = 0xFFFF0000
)

// VendorAll matches every silicon vendor; used as the vendor_mask for
// features present on all x86 implementations.
const VendorAll Vendor = siliconMask

// Silicon returns the silicon-vendor component of v.
func (v Vendor) Silicon() Vendor { return v & siliconMask }

// Hypervisor returns the hypervisor-vendor component of v.
func (v Vendor) Hypervisor() Vendor { return v & hypervisorMask }

// Intersects reports whether v and mask share any vendor bit, silicon or
// hypervisor. Used by the feature catalogue (§4.E) to gate rendering.
func (v Vendor) Intersects(mask Vendor) bool { return v&mask != 0 }

var siliconStrings = map[string]Vendor{
	"GenuineIntel": VendorIntel,
	"AuthenticAMD": VendorAMD,
	"CentaurHauls": VendorCentaur,
	"CyrixInstead": VendorCyrix,
	"TransmetaCPU": VendorTransmeta,
	"GenuineTMx86": VendorTransmeta,
	"Geode by NSC": VendorNationalSemi,
	"NexGenDriven": VendorNexGen,
	"RiseRiseRise": VendorRise,
	"SiS SiS SiS ": VendorSiS,
	"UMC UMC UMC ": VendorUMC,
	"VIA VIA VIA ": VendorVIA,
	"Vortex86 SoC": VendorVortex,
}

var hypervisorStrings = map[string]Vendor{
	"bhyve bhyve ":  VendorBhyve,
	"KVMKVMKVM\x00\x00\x00": VendorKVM,
	"Microsoft Hv":  VendorHyperV,
	"lrpepyh vr\x00\x00": VendorParallels,
	"VMwareVMware":  VendorVMware,
	"XenVMMXenVMM":  VendorXenHVM,
	"TCGTCGTCGTCG":  VendorQEMUTCG,
}

// vendorSignature concatenates three registers into the 12-byte ASCII
// vendor string using the ebx, edx, ecx order CPUID returns them in.
func vendorSignature(ebx, edx, ecx uint32) string {
	var b strings.Builder
	writeLE(&b, ebx)
	writeLE(&b, edx)
	writeLE(&b, ecx)
	return b.String()
}

func writeLE(b *strings.Builder, v uint32) {
	b.WriteByte(byte(v))
	b.WriteByte(byte(v >> 8))
	b.WriteByte(byte(v >> 16))
	b.WriteByte(byte(v >> 24))
}

// VendorFrom classifies the silicon vendor from basic leaf 0's registers.
func VendorFrom(leaf0 RegisterSet) Vendor {
	sig := vendorSignature(leaf0.EBX, leaf0.EDX, leaf0.ECX)
	if v, ok := siliconStrings[sig]; ok {
		return v
	}
	return VendorUnknown
}

// HypervisorFrom classifies the hypervisor vendor from the first leaf of
// the hypervisor range (0x40000000), and, when the caller supplies the
// leaf at the Xen co-residence offset (0x40000100), reports both Hyper-V
// and Xen HVM when Hyper-V occupies the base slot and Xen answers at the
// offset (§4.C, §9).
func HypervisorFrom(base RegisterSet, xenOffset *RegisterSet) Vendor {
	sig := vendorSignature(base.EBX, base.EDX, base.ECX)
	v, ok := hypervisorStrings[sig]
	if ok && v == VendorHyperV && xenOffset != nil {
		offSig := vendorSignature(xenOffset.EBX, xenOffset.EDX, xenOffset.ECX)
		if offV, offOK := hypervisorStrings[offSig]; offOK && offV == VendorXenHVM {
			return VendorHyperV | VendorXenHVM
		}
	}
	if ok {
		return v
	}
	return VendorNoHypervisor
}

// Name returns a human-readable label for v's silicon component.
func (v Vendor) Name() string {
	switch v.Silicon() {
	case VendorIntel:
		return "Intel"
	case VendorAMD:
		return "AMD"
	case VendorCentaur:
		return "Centaur"
	case VendorCyrix:
		return "Cyrix"
	case VendorTransmeta:
		return "Transmeta"
	case VendorNationalSemi:
		return "National Semiconductor"
	case VendorNexGen:
		return "NexGen"
	case VendorRise:
		return "Rise"
	case VendorSiS:
		return "SiS"
	case VendorUMC:
		return "UMC"
	case VendorVIA:
		return "VIA"
	case VendorVortex:
		return "Vortex"
	default:
		return "Unknown"
	}
}

// HypervisorName returns a human-readable label for v's hypervisor
// component, or "" when none is set.
func (v Vendor) HypervisorName() string {
	switch {
	case v.Hypervisor() == 0:
		return ""
	case v&VendorHyperV != 0 && v&VendorXenHVM != 0:
		return "Xen HVM with Viridian Extensions"
	case v&VendorHyperV != 0:
		return "Microsoft Hyper-V"
	case v&VendorXenHVM != 0:
		return "Xen HVM"
	case v&VendorKVM != 0:
		return "KVM"
	case v&VendorVMware != 0:
		return "VMware"
	case v&VendorBhyve != 0:
		return "bhyve"
	case v&VendorParallels != 0:
		return "Parallels"
	case v&VendorQEMUTCG != 0:
		return "QEMU (TCG)"
	default:
		return "unknown hypervisor"
	}
}
