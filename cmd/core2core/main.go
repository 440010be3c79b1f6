// cmd/core2core/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/corewatch/x86probe/probe"
)

var log = logrus.StandardLogger()

var (
	flagIterations int
	flagPairs      string
	flagDebug      bool
)

func main() {
	root := &cobra.Command{
		Use:           "core2core",
		Short:         "Measure core-to-core cache-coherence latency as an N x N nanosecond matrix",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().IntVar(&flagIterations, "iterations", 100000, "samples per measured pair")
	root.Flags().StringVar(&flagPairs, "pairs", "all", "which ordered pairs to measure: all, ring")
	root.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if flagDebug {
		log.SetLevel(logrus.DebugLevel)
	}

	pairSet := probe.PairAll
	switch flagPairs {
	case "ring":
		pairSet = probe.PairRing
	case "all":
	default:
		return fmt.Errorf("unknown --pairs value %q: want all or ring", flagPairs)
	}

	n := runtime.NumCPU()
	logical := make([]int, n)
	for i := range logical {
		logical[i] = i
	}

	m, err := probe.Run(context.Background(), logical, probe.Options{
		Iterations: flagIterations,
		Pairs:      pairSet,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	fmt.Print(probe.Render(m))
	return nil
}
