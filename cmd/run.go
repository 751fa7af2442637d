package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matching-sim/matching-sim/sim"
	"github.com/matching-sim/matching-sim/sim/trace"
)

var (
	configPath  string  // scenario file
	runSeed     int64   // overrides the scenario seed
	runHorizon  float64 // overrides the scenario horizon
	runTrace    string  // overrides the scenario trace level
	traceOutput string  // file for the full decision trace
)

// RunReport is the YAML document the run command prints.
type RunReport struct {
	Seed              int64               `yaml:"seed"`
	Horizon           float64             `yaml:"horizon"`
	Method            string              `yaml:"method"`
	Disc              float64             `yaml:"disc"`
	Cost              sim.CostResult      `yaml:"cost"`
	TotalCost         float64             `yaml:"total_cost"`
	Assignments       int                 `yaml:"assignments"`
	WaitingPassengers int                 `yaml:"waiting_passengers"`
	WaitingDrivers    int                 `yaml:"waiting_drivers"`
	Stats             sim.RunStats        `yaml:"stats"`
	Trace             *trace.TraceSummary `yaml:"trace,omitempty"`
}

// runCmd executes one simulation described by a scenario file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one matching simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		// CLI flags take precedence over file and environment.
		if cmd.Flags().Changed("seed") {
			cfg.Seed = &runSeed
		}
		if cmd.Flags().Changed("horizon") {
			cfg.Horizon = runHorizon
		}
		if cmd.Flags().Changed("trace") {
			cfg.Trace = runTrace
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		res, err := executeRun(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if traceOutput != "" && res.Trace != nil {
			if err := writeTrace(traceOutput, res.Trace); err != nil {
				return err
			}
		}
		return writeReport(cmd.OutOrStdout(), newRunReport(cfg, res))
	},
}

func executeRun(ctx context.Context, cfg *Config) (sim.RunResult, error) {
	runCfg, err := cfg.BuildRunConfig()
	if err != nil {
		return sim.RunResult{}, err
	}
	logrus.Infof("Starting simulation: method=%s disc=%v horizon=%v seed=%d",
		cfg.Schedule.Method, cfg.Schedule.Disc, cfg.Horizon, cfg.EffectiveSeed())
	res, err := sim.RunSimulation(ctx, runCfg)
	if err != nil {
		return res, err
	}
	logrus.Infof("Simulation complete: %d assignments in %s", res.Assignments, res.Elapsed)
	return res, nil
}

func newRunReport(cfg *Config, res sim.RunResult) RunReport {
	report := RunReport{
		Seed:              cfg.EffectiveSeed(),
		Horizon:           cfg.Horizon,
		Method:            cfg.Schedule.Method,
		Disc:              cfg.Schedule.Disc,
		Cost:              res.Cost,
		TotalCost:         res.Cost.Total(),
		Assignments:       res.Assignments,
		WaitingPassengers: res.Passengers,
		WaitingDrivers:    res.Drivers,
		Stats:             res.Stats,
	}
	if res.Trace != nil {
		report.Trace = trace.Summarize(res.Trace)
	}
	return report
}

func writeReport(w io.Writer, report RunReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}

// writeTrace dumps every recorded policy invocation to path.
func writeTrace(path string, st *trace.SimulationTrace) error {
	data, err := yaml.Marshal(st.Invocations)
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	logrus.Infof("Wrote %d trace records to %s", len(st.Invocations), path)
	return nil
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Scenario YAML file (defaults apply when omitted)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "Seed for arrival generation (overrides the scenario)")
	runCmd.Flags().Float64Var(&runHorizon, "horizon", 0, "Simulation horizon, inclusive (overrides the scenario)")
	runCmd.Flags().StringVar(&runTrace, "trace", "", "Trace level: none, decisions (overrides the scenario)")
	runCmd.Flags().StringVar(&traceOutput, "trace-out", "", "Write the full decision trace as YAML to this file")
}
