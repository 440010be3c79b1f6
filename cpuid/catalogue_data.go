package cpuid

// catalogueEntry binds a Feature to its (leaf, subleaf, register) key.
type catalogueEntry struct {
	leaf    LeafId
	subleaf SubleafId
	reg     Reg
	Feature
}

// catalogueData is the compiled-in static feature/field table (§4.E). It
// covers leaf 1 (ECX/EDX), leaf 7 (EBX/ECX/EDX), extended leaf
// 0x80000001 (ECX/EDX), 0x80000007, 0x8000000A (SVM), 0x8000001A,
// 0x8000001B, 0x8000001F, and the Hyper-V/Xen HVM/KVM hypervisor leaves,
// mnemonics grounded on libcpuid's leaf_t naming (original_source) and
// earentir-cpuid's feature-category grouping style.
var catalogueData = []catalogueEntry{
	// Leaf 1, ECX
	{0x1, 0, RegECX, Feature{VendorAll, 0, 0, "sse3", "Streaming SIMD Extensions 3"}},
	{0x1, 0, RegECX, Feature{VendorAll, 1, 1, "pclmulqdq", "Carry-less multiplication"}},
	{0x1, 0, RegECX, Feature{VendorAll, 3, 3, "monitor", "MONITOR/MWAIT"}},
	{0x1, 0, RegECX, Feature{VendorAll, 9, 9, "ssse3", "Supplemental SSE3"}},
	{0x1, 0, RegECX, Feature{VendorAll, 12, 12, "fma", "Fused multiply-add"}},
	{0x1, 0, RegECX, Feature{VendorAll, 13, 13, "cx16", "CMPXCHG16B"}},
	{0x1, 0, RegECX, Feature{VendorAll, 19, 19, "sse4.1", "Streaming SIMD Extensions 4.1"}},
	{0x1, 0, RegECX, Feature{VendorAll, 20, 20, "sse4.2", "Streaming SIMD Extensions 4.2"}},
	{0x1, 0, RegECX, Feature{VendorAll, 22, 22, "movbe", "MOVBE instruction"}},
	{0x1, 0, RegECX, Feature{VendorAll, 23, 23, "popcnt", "POPCNT instruction"}},
	{0x1, 0, RegECX, Feature{VendorAll, 25, 25, "aes", "AES instruction set"}},
	{0x1, 0, RegECX, Feature{VendorAll, 26, 26, "xsave", "XSAVE/XRSTOR state management"}},
	{0x1, 0, RegECX, Feature{VendorAll, 28, 28, "avx", "Advanced Vector Extensions"}},
	{0x1, 0, RegECX, Feature{VendorAll, 29, 29, "f16c", "16-bit floating point conversion"}},
	{0x1, 0, RegECX, Feature{VendorAll, 30, 30, "rdrand", "RDRAND instruction"}},
	{0x1, 0, RegECX, Feature{VendorAll, 31, 31, "hypervisor", "running under a hypervisor"}},
	// Leaf 1, EDX
	{0x1, 0, RegEDX, Feature{VendorAll, 0, 0, "fpu", "Floating point unit on-chip"}},
	{0x1, 0, RegEDX, Feature{VendorAll, 4, 4, "tsc", "Time Stamp Counter"}},
	{0x1, 0, RegEDX, Feature{VendorAll, 5, 5, "msr", "Model Specific Registers"}},
	{0x1, 0, RegEDX, Feature{VendorAll, 8, 8, "cx8", "CMPXCHG8B instruction"}},
	{0x1, 0, RegEDX, Feature{VendorAll, 9, 9, "apic", "on-chip APIC"}},
	{0x1, 0, RegEDX, Feature{VendorAll, 15, 15, "cmov", "Conditional move instruction"}},
	{0x1, 0, RegEDX, Feature{VendorAll, 19, 19, "clfsh", "CLFLUSH instruction"}},
	{0x1, 0, RegEDX, Feature{VendorAll, 23, 23, "mmx", "MMX instructions"}},
	{0x1, 0, RegEDX, Feature{VendorAll, 24, 24, "fxsr", "FXSAVE/FXRSTOR instructions"}},
	{0x1, 0, RegEDX, Feature{VendorAll, 25, 25, "sse", "Streaming SIMD Extensions"}},
	{0x1, 0, RegEDX, Feature{VendorAll, 26, 26, "sse2", "Streaming SIMD Extensions 2"}},
	{0x1, 0, RegEDX, Feature{VendorAll, 28, 28, "htt", "max APIC IDs reserved field is valid"}},

	// Leaf 7, subleaf 0, EBX
	{0x7, 0, RegEBX, Feature{VendorAll, 0, 0, "fsgsbase", "FSGSBASE instructions"}},
	{0x7, 0, RegEBX, Feature{VendorAll, 3, 3, "bmi1", "Bit Manipulation Instruction Set 1"}},
	{0x7, 0, RegEBX, Feature{VendorAll, 4, 4, "hle", "Hardware Lock Elision"}},
	{0x7, 0, RegEBX, Feature{VendorAll, 5, 5, "avx2", "Advanced Vector Extensions 2"}},
	{0x7, 0, RegEBX, Feature{VendorAll, 7, 7, "smep", "Supervisor Mode Execution Prevention"}},
	{0x7, 0, RegEBX, Feature{VendorAll, 8, 8, "bmi2", "Bit Manipulation Instruction Set 2"}},
	{0x7, 0, RegEBX, Feature{VendorAll, 9, 9, "erms", "Enhanced REP MOVSB/STOSB"}},
	{0x7, 0, RegEBX, Feature{VendorAll, 11, 11, "rtm", "Restricted Transactional Memory"}},
	{0x7, 0, RegEBX, Feature{VendorIntel, 2, 2, "sgx", "Software Guard Extensions"}},
	{0x7, 0, RegEBX, Feature{VendorAll, 18, 18, "rdseed", "RDSEED instruction"}},
	{0x7, 0, RegEBX, Feature{VendorAll, 19, 19, "adx", "Multi-Precision Add-Carry"}},
	{0x7, 0, RegEBX, Feature{VendorAll, 20, 20, "smap", "Supervisor Mode Access Prevention"}},
	{0x7, 0, RegEBX, Feature{VendorAll, 23, 23, "clflushopt", "CLFLUSHOPT instruction"}},
	{0x7, 0, RegEBX, Feature{VendorAll, 24, 24, "clwb", "CLWB instruction"}},
	{0x7, 0, RegEBX, Feature{VendorAll, 29, 29, "sha", "SHA extensions"}},
	// Leaf 7, subleaf 0, ECX
	{0x7, 0, RegECX, Feature{VendorAll, 0, 0, "prefetchwt1", "PREFETCHWT1 instruction"}},
	{0x7, 0, RegECX, Feature{VendorIntel, 7, 7, "cet_ss", "CET shadow stack"}},
	{0x7, 0, RegECX, Feature{VendorAll, 8, 8, "gfni", "Galois Field instructions"}},
	{0x7, 0, RegECX, Feature{VendorAll, 9, 9, "vaes", "Vector AES"}},
	{0x7, 0, RegECX, Feature{VendorAll, 22, 22, "rdpid", "RDPID instruction"}},
	{0x7, 0, RegECX, Feature{VendorIntel, 17, 21, "mawau", "MPX address-width adjust for user MPX"}},
	// Leaf 7, subleaf 0, EDX
	{0x7, 0, RegEDX, Feature{VendorIntel, 2, 2, "avx512_4vnniw", "AVX-512 4VNNIW"}},
	{0x7, 0, RegEDX, Feature{VendorIntel, 3, 3, "avx512_4fmaps", "AVX-512 4FMAPS"}},
	{0x7, 0, RegEDX, Feature{VendorAll, 18, 18, "pconfig", "PCONFIG instruction"}},
	{0x7, 0, RegEDX, Feature{VendorIntel, 26, 26, "ibrs_ibpb", "Indirect Branch Restricted Speculation"}},
	{0x7, 0, RegEDX, Feature{VendorIntel, 27, 27, "stibp", "Single Thread Indirect Branch Predictor"}},
	{0x7, 0, RegEDX, Feature{VendorAll, 29, 29, "ssbd", "Speculative Store Bypass Disable"}},

	// Extended leaf 0x80000001, ECX
	{0x80000001, 0, RegECX, Feature{VendorAMD, 0, 0, "lahf_lm", "LAHF/SAHF in 64-bit mode"}},
	{0x80000001, 0, RegECX, Feature{VendorAMD, 2, 2, "svm", "Secure Virtual Machine"}},
	{0x80000001, 0, RegECX, Feature{VendorAMD, 5, 5, "abm", "Advanced Bit Manipulation (LZCNT)"}},
	{0x80000001, 0, RegECX, Feature{VendorAMD, 6, 6, "sse4a", "SSE4A instruction set"}},
	{0x80000001, 0, RegECX, Feature{VendorAMD, 16, 16, "fma4", "4-operand FMA"}},
	{0x80000001, 0, RegECX, Feature{VendorAMD, 21, 21, "tbm", "Trailing Bit Manipulation"}},
	// Extended leaf 0x80000001, EDX
	{0x80000001, 0, RegEDX, Feature{VendorAMD, 11, 11, "syscall", "SYSCALL/SYSRET"}},
	{0x80000001, 0, RegEDX, Feature{VendorAMD, 20, 20, "nx", "No-Execute page protection"}},
	{0x80000001, 0, RegEDX, Feature{VendorAMD, 27, 27, "rdtscp", "RDTSCP instruction"}},
	{0x80000001, 0, RegEDX, Feature{VendorAll, 29, 29, "lm", "Long Mode (64-bit capable)"}},

	// Extended leaf 0x80000007 (invariant TSC)
	{0x80000007, 0, RegEDX, Feature{VendorAll, 8, 8, "invtsc", "Invariant TSC"}},

	// Extended leaf 0x8000000A (SVM revision and feature identification)
	{0x8000000A, 0, RegEAX, Feature{VendorAMD, 0, 7, "svm_rev", "SVM revision"}},
	{0x8000000A, 0, RegEDX, Feature{VendorAMD, 0, 0, "npt", "Nested Page Tables"}},
	{0x8000000A, 0, RegEDX, Feature{VendorAMD, 1, 1, "lbrv", "LBR Virtualization"}},
	{0x8000000A, 0, RegEDX, Feature{VendorAMD, 2, 2, "svm_lock", "SVM lock"}},
	{0x8000000A, 0, RegEDX, Feature{VendorAMD, 3, 3, "nrip_save", "NRIP save on VMEXIT"}},
	{0x8000000A, 0, RegEDX, Feature{VendorAMD, 10, 10, "pause_filter", "PAUSE intercept filter"}},

	// Extended leaf 0x8000001A (performance optimization identifiers)
	{0x8000001A, 0, RegEAX, Feature{VendorAMD, 0, 0, "fp128", "128-bit SSE execution optimization"}},
	{0x8000001A, 0, RegEAX, Feature{VendorAMD, 1, 1, "movu", "MOVU SSE preferred over MOVL/MOVH"}},

	// Extended leaf 0x8000001B (Instruction Based Sampling)
	{0x8000001B, 0, RegEAX, Feature{VendorAMD, 0, 0, "ibs_ffv", "IBS feature flags valid"}},
	{0x8000001B, 0, RegEAX, Feature{VendorAMD, 1, 1, "ibs_fetch_sam", "IBS fetch sampling"}},
	{0x8000001B, 0, RegEAX, Feature{VendorAMD, 2, 2, "ibs_op_sam", "IBS execution sampling"}},

	// Extended leaf 0x8000001F (AMD SEV)
	{0x8000001F, 0, RegEAX, Feature{VendorAMD, 0, 0, "sme", "Secure Memory Encryption"}},
	{0x8000001F, 0, RegEAX, Feature{VendorAMD, 1, 1, "sev", "Secure Encrypted Virtualization"}},
	{0x8000001F, 0, RegEAX, Feature{VendorAMD, 2, 2, "vm_page_flush", "VM page flush MSR"}},
	{0x8000001F, 0, RegEAX, Feature{VendorAMD, 3, 3, "sev_es", "SEV Encrypted State"}},

	// Hyper-V feature identification (0x40000003)
	{0x40000003, 0, RegEAX, Feature{VendorHyperV, 1, 1, "hv_partition_ref_counter", "partition reference counter"}},
	{0x40000003, 0, RegEAX, Feature{VendorHyperV, 2, 2, "hv_synic", "synthetic interrupt controller"}},
	{0x40000003, 0, RegEAX, Feature{VendorHyperV, 3, 3, "hv_synic_timers", "synthetic timers"}},
	{0x40000003, 0, RegEAX, Feature{VendorHyperV, 11, 11, "hv_tsc_page", "reference TSC page"}},

	// Hyper-V recommendations (0x40000004)
	{0x40000004, 0, RegEAX, Feature{VendorHyperV, 0, 0, "hv_rec_hypercall_switch", "use hypercall for address space switches"}},
	{0x40000004, 0, RegEAX, Feature{VendorHyperV, 9, 9, "hv_rec_deprecate_autoeoi", "deprecate AutoEOI"}},

	// Xen HVM features (0x40000004 under Xen, but Xen's own feature
	// leaf is 0x40000002; keep it distinct from Hyper-V above via the
	// VendorXenHVM mask so a dual-hypervisor snapshot renders both).
	{0x40000002, 0, RegEAX, Feature{VendorXenHVM, 0, 0, "xen_clocksource", "Xen clocksource supported"}},
	{0x40000003, 0, RegEAX, Feature{VendorXenHVM, 0, 0, "xen_hvm_hypercall_mmio", "HVM hypercall via MMIO"}},

	// KVM features (0x40000001)
	{0x40000001, 0, RegEAX, Feature{VendorKVM, 0, 0, "kvmclock", "kvmclock available"}},
	{0x40000001, 0, RegEAX, Feature{VendorKVM, 1, 1, "kvm_nop_io_delay", "no need for I/O delay after port I/O"}},
	{0x40000001, 0, RegEAX, Feature{VendorKVM, 3, 3, "kvm_async_pf", "async page fault support"}},
	{0x40000001, 0, RegEAX, Feature{VendorKVM, 4, 4, "kvm_steal_time", "steal time accounting"}},
	{0x40000001, 0, RegEAX, Feature{VendorKVM, 24, 24, "kvm_realtime", "vCPUs are never preempted for an unbounded time"}},
}
