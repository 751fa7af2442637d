package cmd

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/matching-sim/matching-sim/sim"
	"github.com/matching-sim/matching-sim/sim/assign"
	"github.com/matching-sim/matching-sim/sim/sweep"
	"github.com/matching-sim/matching-sim/sim/trace"
	"github.com/matching-sim/matching-sim/sim/workload"
)

// envPrefix marks environment overrides. Nested keys use a double
// underscore: MATCHSIM_SCHEDULE__DISC=0.5 sets schedule.disc.
const envPrefix = "MATCHSIM_"

// ScheduleConfig selects the dispatch method and its batching interval.
type ScheduleConfig struct {
	Method      string  `yaml:"method"`
	Disc        float64 `yaml:"disc"`
	Subdivision int     `yaml:"subdivision"`
}

// Config is the scenario of a single run.
type Config struct {
	Seed              *int64                 `yaml:"seed"` // overrides workload.seed when set
	Horizon           float64                `yaml:"horizon"`
	Distance          string                 `yaml:"distance"`
	Solver            string                 `yaml:"solver"`
	PassengerWaitCost sim.CostSpec           `yaml:"passenger_wait_cost"`
	DriverWaitCost    sim.CostSpec           `yaml:"driver_wait_cost"`
	Schedule          ScheduleConfig         `yaml:"schedule"`
	Trace             string                 `yaml:"trace"`
	WorkloadFile      string                 `yaml:"workload_file"`
	Workload          *workload.WorkloadSpec `yaml:"workload"`
}

// LoadConfig reads a YAML scenario from path, applies MATCHSIM_ environment
// overrides, then fills defaults. An empty path loads defaults and
// environment only. The result is not validated; callers apply CLI
// overrides first and then call Validate.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.WorkloadFile != "" {
		if cfg.Workload != nil {
			return nil, fmt.Errorf("workload and workload_file are mutually exclusive")
		}
		wpath := cfg.WorkloadFile
		if !filepath.IsAbs(wpath) && path != "" {
			wpath = filepath.Join(filepath.Dir(path), wpath)
		}
		spec, err := workload.LoadWorkloadSpec(wpath)
		if err != nil {
			return nil, err
		}
		cfg.Workload = spec
	}
	cfg.SetDefaults()
	return &cfg, nil
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	if c.Horizon == 0 {
		c.Horizon = 128.001
	}
	if c.PassengerWaitCost.Kind == "" {
		c.PassengerWaitCost = sim.CostSpec{Kind: sim.CostSupLin, Alpha: 0.125, Power: 1.5}
	}
	if c.DriverWaitCost.Kind == "" {
		c.DriverWaitCost = c.PassengerWaitCost
	}
	if c.Schedule.Method == "" {
		c.Schedule.Method = sweep.MethodStar
	}
	if c.Schedule.Disc == 0 {
		c.Schedule.Disc = 1
	}
	if c.Schedule.Subdivision == 0 {
		c.Schedule.Subdivision = 2
	}
	if c.Trace == "" {
		c.Trace = string(trace.TraceLevelNone)
	}
	if c.Workload == nil {
		w := workload.DefaultWorkloadSpec()
		c.Workload = &w
	}
}

// Validate checks that all fields are usable.
func (c *Config) Validate() error {
	if math.IsNaN(c.Horizon) || math.IsInf(c.Horizon, 0) || c.Horizon < 0 {
		return fmt.Errorf("horizon must be a finite non-negative number, got %f", c.Horizon)
	}
	if !sim.IsValidDistance(c.Distance) {
		return fmt.Errorf("unknown distance %q; valid: euclidean, manhattan, haversine", c.Distance)
	}
	if !assign.IsValidName(c.Solver) {
		return fmt.Errorf("unknown solver %q; valid: hungarian, simplex", c.Solver)
	}
	if err := c.PassengerWaitCost.Validate(); err != nil {
		return fmt.Errorf("passenger_wait_cost: %w", err)
	}
	if err := c.DriverWaitCost.Validate(); err != nil {
		return fmt.Errorf("driver_wait_cost: %w", err)
	}
	switch c.Schedule.Method {
	case sweep.MethodNoStar, sweep.MethodStar, sweep.MethodGreedy:
	default:
		return fmt.Errorf("unknown schedule method %q; valid: nostar, star, greedy", c.Schedule.Method)
	}
	if math.IsNaN(c.Schedule.Disc) || math.IsInf(c.Schedule.Disc, 0) || c.Schedule.Disc <= 0 {
		return fmt.Errorf("schedule disc must be a finite positive number, got %f", c.Schedule.Disc)
	}
	if c.Schedule.Subdivision < 1 {
		return fmt.Errorf("schedule subdivision must be >= 1, got %d", c.Schedule.Subdivision)
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, decisions", c.Trace)
	}
	if c.Workload == nil {
		return fmt.Errorf("workload required")
	}
	if err := c.Workload.Validate(); err != nil {
		return fmt.Errorf("workload: %w", err)
	}
	return nil
}

// EffectiveSeed is the seed the workload streams are generated from.
func (c *Config) EffectiveSeed() int64 {
	if c.Seed != nil {
		return *c.Seed
	}
	return c.Workload.Seed
}

// BuildRunConfig turns a validated Config into simulator input.
func (c *Config) BuildRunConfig() (sim.RunConfig, error) {
	pCost, err := c.PassengerWaitCost.Build()
	if err != nil {
		return sim.RunConfig{}, err
	}
	dCost, err := c.DriverWaitCost.Build()
	if err != nil {
		return sim.RunConfig{}, err
	}
	dist, err := sim.DistanceByName(c.Distance)
	if err != nil {
		return sim.RunConfig{}, err
	}
	solver, err := assign.ByName(c.Solver)
	if err != nil {
		return sim.RunConfig{}, err
	}
	schedule, err := sweep.BuildSchedule(c.Schedule.Method, c.Schedule.Disc, c.Schedule.Subdivision, solver)
	if err != nil {
		return sim.RunConfig{}, err
	}
	passengers, drivers, err := workload.GenerateStreams(c.Workload, c.EffectiveSeed())
	if err != nil {
		return sim.RunConfig{}, err
	}
	return sim.RunConfig{
		Params: sim.ProblemParams{
			PassengerWaitCost: pCost,
			DriverWaitCost:    dCost,
			Distance:          dist,
		},
		Passengers: passengers,
		Drivers:    drivers,
		Schedule:   schedule,
		Horizon:    c.Horizon,
		Trace:      trace.TraceConfig{Level: trace.TraceLevel(c.Trace)},
	}, nil
}
