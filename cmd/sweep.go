package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/matching-sim/matching-sim/sim/sweep"
)

var (
	sweepSpecPath string // sweep grid file
	sweepOut      string // CSV report path, "-" for stdout
	sweepWorkers  int    // overrides spec workers
	metricsAddr   string // optional Prometheus listen address
)

// sweepCmd runs a parameter grid and writes one CSV row per run
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a parameter sweep and write a CSV report",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := loadSweepSpec(sweepSpecPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("workers") {
			spec.Workers = sweepWorkers
		}
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("invalid sweep spec: %w", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		var metrics *sweep.Metrics
		if metricsAddr != "" {
			metrics, err = sweep.NewMetrics(nil)
			if err != nil {
				return fmt.Errorf("registering metrics: %w", err)
			}
			go func() {
				if err := sweep.StartMetricsServer(ctx, metricsAddr); err != nil {
					logrus.Errorf("metrics server: %v", err)
				}
			}()
			logrus.Infof("Serving metrics on %s/metrics", metricsAddr)
		}

		return runSweep(ctx, spec, metrics, sweepOut, cmd.OutOrStdout())
	},
}

func loadSweepSpec(path string) (*sweep.Spec, error) {
	if path == "" {
		spec := sweep.DefaultSpec()
		spec.SetDefaults()
		return &spec, nil
	}
	return sweep.LoadSpec(path)
}

// runSweep executes spec and writes the report to out, or to stdout when
// out is empty or "-".
func runSweep(ctx context.Context, spec *sweep.Spec, metrics *sweep.Metrics, out string, stdout io.Writer) error {
	records, err := (&sweep.Runner{Spec: spec, Metrics: metrics}).Run(ctx)
	if err != nil {
		return err
	}

	w := stdout
	if out != "" && out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating report: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logrus.Warnf("closing report: %v", cerr)
			}
		}()
		w = f
	}
	if err := sweep.WriteCSV(w, records); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	failed := 0
	for _, r := range records {
		if r.Status != sweep.StatusOK {
			failed++
		}
	}
	if failed > 0 {
		logrus.Warnf("Sweep finished with %d failed runs out of %d", failed, len(records))
	} else {
		logrus.Infof("Sweep finished: %d runs", len(records))
	}
	return nil
}

func init() {
	sweepCmd.Flags().StringVar(&sweepSpecPath, "spec", "", "Sweep spec YAML file (reference grid when omitted)")
	sweepCmd.Flags().StringVar(&sweepOut, "out", "-", "CSV report path, - for stdout")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "Parallel runs (0 = GOMAXPROCS)")
	sweepCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
}
