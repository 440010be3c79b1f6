// cmd/cpuinfo/main.go
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/corewatch/x86probe/cpuid"
)

var log = logrus.StandardLogger()

var (
	flagDump       bool
	flagReadDump   string
	flagFormat     string
	flagCPU        int
	flagFlagSpec   string
	flagTopology   bool
	flagBruteForce bool
	flagIgnoreVend bool
	flagIgnoreFeat bool
	flagDebug      bool
)

func main() {
	root := &cobra.Command{
		Use:           "cpuinfo",
		Short:         "Inspect x86 CPUID leaves, topology, caches, and features",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().BoolVar(&flagDump, "dump", false, "emit native dump to stdout")
	root.Flags().StringVar(&flagReadDump, "read-dump", "", "read a dump file instead of querying the host")
	root.Flags().StringVar(&flagFormat, "format", "native", "dump format: native, etallen, libcpuid, instlat")
	root.Flags().IntVar(&flagCPU, "cpu", -1, "restrict output to one logical processor (by APIC id)")
	root.Flags().StringVar(&flagFlagSpec, "flag", "", "print 0/1 or bitfield value for one FlagSpec")
	root.Flags().BoolVar(&flagTopology, "topology", false, "print the reconstructed topology table")
	root.Flags().BoolVar(&flagBruteForce, "brute-force", false, "probe every leaf/subleaf instead of following the plan")
	root.Flags().BoolVar(&flagIgnoreVend, "ignore-vendor", false, "skip the vendor-mask gate in the catalogue and plan")
	root.Flags().BoolVar(&flagIgnoreFeat, "ignore-feature", false, "skip the feature-bit gate in the catalogue")
	root.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(cpuid.ExitCode(err))
	}
}

func run(cmd *cobra.Command, args []string) error {
	if flagDebug {
		log.SetLevel(logrus.DebugLevel)
	}

	opts := cpuid.PlanOptions{IgnoreVendor: flagIgnoreVend, BruteForce: flagBruteForce}

	snapshots, err := loadSnapshots(opts)
	if err != nil {
		return err
	}

	if flagCPU >= 0 {
		snapshots = filterByCPU(snapshots, uint32(flagCPU))
		if len(snapshots) == 0 {
			return fmt.Errorf("cpu %d: %w", flagCPU, cpuid.ErrParse)
		}
	}

	if flagDump {
		return cpuid.WriteNative(os.Stdout, snapshots)
	}

	if flagFlagSpec != "" {
		return runFlagQuery(snapshots)
	}

	if flagTopology {
		t := cpuid.BuildTopology(snapshots)
		for _, line := range cpuid.RenderTopology(t) {
			fmt.Println(line)
		}
		return nil
	}

	cat := cpuid.NewCatalogue()
	for _, s := range snapshots {
		for _, line := range cpuid.RenderSnapshot(cat, s, flagIgnoreVend, flagIgnoreFeat) {
			fmt.Println(line)
		}
	}
	return nil
}

func loadSnapshots(opts cpuid.PlanOptions) ([]cpuid.CpuSnapshot, error) {
	if flagReadDump != "" {
		f, err := os.Open(flagReadDump)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", cpuid.ErrIO, err)
		}
		defer f.Close()

		switch flagFormat {
		case "etallen":
			return cpuid.ReadEtallen(f)
		case "libcpuid":
			return cpuid.ReadLibcpuid(f)
		case "instlat":
			return cpuid.ReadInstlat(f)
		default:
			return cpuid.ReadNative(f)
		}
	}

	snapshots, warnings, err := cpuid.EnumerateHost(opts)
	for _, w := range warnings {
		log.Warn(w)
	}
	if err != nil {
		return nil, err
	}
	for _, s := range snapshots {
		if !cpuid.HasInvariantTSC(s) {
			return nil, fmt.Errorf("cpu %d: no invariant TSC advertised: %w", s.APICID, cpuid.ErrUnsupportedHardware)
		}
	}
	return snapshots, nil
}

func filterByCPU(snapshots []cpuid.CpuSnapshot, apic uint32) []cpuid.CpuSnapshot {
	var out []cpuid.CpuSnapshot
	for _, s := range snapshots {
		if s.APICID == apic {
			out = append(out, s)
		}
	}
	return out
}

func runFlagQuery(snapshots []cpuid.CpuSnapshot) error {
	spec, err := cpuid.ParseFlagSpec(flagFlagSpec)
	if err != nil {
		return err
	}
	cat := cpuid.NewCatalogue()
	for _, s := range snapshots {
		val, err := cpuid.QueryFlag(cat, s, spec, flagIgnoreFeat)
		if err != nil {
			return err
		}
		if spec.BitLo == spec.BitHi && spec.BitLo != cpuid.WholeRegisterSentinel {
			fmt.Printf("cpu %d: %d\n", s.APICID, val&1)
			continue
		}
		fmt.Printf("cpu %d: %s\n", s.APICID, strconv.FormatUint(uint64(val), 10))
	}
	return nil
}
