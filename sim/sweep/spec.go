// Package sweep runs a grid of independent simulations and reports one flat
// record per run.
package sweep

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/matching-sim/matching-sim/sim"
	"github.com/matching-sim/matching-sim/sim/assign"
	"github.com/matching-sim/matching-sim/sim/workload"
)

// Dispatch methods a sweep can compare.
const (
	MethodNoStar = "nostar" // min-cost matcher every disc
	MethodStar   = "star"   // star heuristic every disc/subdivision, min-cost every subdivision-th tick
	MethodGreedy = "greedy" // star heuristic every disc/subdivision only
)

var validMethods = map[string]bool{
	MethodNoStar: true, MethodStar: true, MethodGreedy: true,
}

// Spec describes a parameter grid. Every (alpha, disc, seed, method)
// combination is one run.
type Spec struct {
	Horizon     float64                `yaml:"horizon"`
	Power       float64                `yaml:"power"`
	Alphas      []float64              `yaml:"alphas"`
	Discs       []float64              `yaml:"discs"`
	Subdivision int                    `yaml:"subdivision"`
	Seeds       []int64                `yaml:"seeds,omitempty"`
	NumSeeds    int                    `yaml:"num_seeds,omitempty"` // seeds 0..num_seeds-1 when seeds is empty
	Methods     []string               `yaml:"methods"`
	Distance    string                 `yaml:"distance,omitempty"`
	Solver      string                 `yaml:"solver,omitempty"`
	Workers     int                    `yaml:"workers,omitempty"`
	Workload    *workload.WorkloadSpec `yaml:"workload,omitempty"`
}

// DefaultSpec returns the reference grid: six wait-cost scales, thirteen
// batching intervals from 1/32 to 128, fifty seeds, and both methods.
func DefaultSpec() Spec {
	return Spec{
		Horizon:     128.001,
		Power:       1.5,
		Alphas:      []float64{1.0 / 256, 1.0 / 128, 0.03125, 0.0625, 0.125, 0.25},
		Discs:       []float64{0.03125, 0.0625, 0.125, 0.25, 0.5, 1, 2, 4, 8, 16, 32, 64, 128},
		Subdivision: 2,
		NumSeeds:    50,
		Methods:     []string{MethodNoStar, MethodStar},
	}
}

// LoadSpec reads a YAML sweep spec. Uses strict parsing: unrecognized keys
// are rejected. Missing fields take their DefaultSpec values.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep spec: %w", err)
	}
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing sweep spec: %w", err)
	}
	spec.SetDefaults()
	return &spec, nil
}

// SetDefaults fills zero-valued fields from DefaultSpec.
func (s *Spec) SetDefaults() {
	def := DefaultSpec()
	if s.Horizon == 0 {
		s.Horizon = def.Horizon
	}
	if s.Power == 0 {
		s.Power = def.Power
	}
	if len(s.Alphas) == 0 {
		s.Alphas = def.Alphas
	}
	if len(s.Discs) == 0 {
		s.Discs = def.Discs
	}
	if s.Subdivision == 0 {
		s.Subdivision = def.Subdivision
	}
	if len(s.Seeds) == 0 && s.NumSeeds == 0 {
		s.NumSeeds = def.NumSeeds
	}
	if len(s.Methods) == 0 {
		s.Methods = def.Methods
	}
	if s.Workload == nil {
		w := workload.DefaultWorkloadSpec()
		s.Workload = &w
	}
}

// Validate checks that all fields in the spec are valid.
func (s *Spec) Validate() error {
	if err := validateFinitePositive("horizon", s.Horizon); err != nil {
		return err
	}
	if err := validateFinitePositive("power", s.Power); err != nil {
		return err
	}
	if len(s.Alphas) == 0 {
		return fmt.Errorf("at least one alpha required")
	}
	for i, a := range s.Alphas {
		if math.IsNaN(a) || math.IsInf(a, 0) || a < 0 {
			return fmt.Errorf("alphas[%d] must be a finite non-negative number, got %f", i, a)
		}
	}
	if len(s.Discs) == 0 {
		return fmt.Errorf("at least one disc required")
	}
	for i, d := range s.Discs {
		if err := validateFinitePositive(fmt.Sprintf("discs[%d]", i), d); err != nil {
			return err
		}
	}
	if s.Subdivision < 1 {
		return fmt.Errorf("subdivision must be >= 1, got %d", s.Subdivision)
	}
	if len(s.Seeds) == 0 && s.NumSeeds <= 0 {
		return fmt.Errorf("seeds or a positive num_seeds required")
	}
	if len(s.Methods) == 0 {
		return fmt.Errorf("at least one method required")
	}
	for _, m := range s.Methods {
		if !validMethods[m] {
			return fmt.Errorf("unknown method %q; valid: nostar, star, greedy", m)
		}
	}
	if !sim.IsValidDistance(s.Distance) {
		return fmt.Errorf("unknown distance %q; valid: euclidean, manhattan, haversine", s.Distance)
	}
	if !assign.IsValidName(s.Solver) {
		return fmt.Errorf("unknown solver %q; valid: hungarian, simplex", s.Solver)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", s.Workers)
	}
	if s.Workload == nil {
		return fmt.Errorf("workload required")
	}
	if err := s.Workload.Validate(); err != nil {
		return fmt.Errorf("workload: %w", err)
	}
	return nil
}

// SeedList returns the seeds the sweep iterates over, in order.
func (s *Spec) SeedList() []int64 {
	if len(s.Seeds) > 0 {
		return slices.Clone(s.Seeds)
	}
	seeds := make([]int64, s.NumSeeds)
	for i := range seeds {
		seeds[i] = int64(i)
	}
	return seeds
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}
