package sim

import (
	"fmt"
	"math"
)

// CostFunction prices the time an agent spends waiting.
// Cost must be monotonically non-decreasing in wait.
type CostFunction interface {
	Cost(wait float64) float64
	// Marginal returns Cost(wait+delta) - Cost(wait).
	Marginal(wait, delta float64) float64
}

// SupLinCost is the super-linear wait cost (Alpha*t)^Power.
type SupLinCost struct {
	Alpha float64
	Power float64
}

func (c SupLinCost) Cost(wait float64) float64 {
	return math.Pow(c.Alpha*wait, c.Power)
}

func (c SupLinCost) Marginal(wait, delta float64) float64 {
	return c.Cost(wait+delta) - c.Cost(wait)
}

// LinearCost charges Rate per unit of waiting time.
type LinearCost struct {
	Rate float64
}

func (c LinearCost) Cost(wait float64) float64 {
	return c.Rate * wait
}

func (c LinearCost) Marginal(wait, delta float64) float64 {
	return c.Cost(wait+delta) - c.Cost(wait)
}

// ZeroCost makes waiting free.
type ZeroCost struct{}

func (ZeroCost) Cost(float64) float64 { return 0 }

func (ZeroCost) Marginal(float64, float64) float64 { return 0 }

// Cost function kinds accepted in CostSpec.
const (
	CostSupLin = "suplin"
	CostLinear = "linear"
	CostZero   = "zero"
)

// CostSpec is the serialized form of a CostFunction.
type CostSpec struct {
	Kind  string  `yaml:"kind"`
	Alpha float64 `yaml:"alpha,omitempty"`
	Power float64 `yaml:"power,omitempty"`
	Rate  float64 `yaml:"rate,omitempty"`
}

// Validate checks that the spec describes a non-decreasing cost function.
func (s CostSpec) Validate() error {
	for name, v := range map[string]float64{"alpha": s.Alpha, "power": s.Power, "rate": s.Rate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("cost %s must be a finite number, got %f", name, v)
		}
	}
	switch s.Kind {
	case CostSupLin:
		if s.Alpha < 0 {
			return fmt.Errorf("suplin cost alpha must be non-negative, got %f", s.Alpha)
		}
		if s.Power <= 0 {
			return fmt.Errorf("suplin cost power must be positive, got %f", s.Power)
		}
	case CostLinear:
		if s.Rate < 0 {
			return fmt.Errorf("linear cost rate must be non-negative, got %f", s.Rate)
		}
	case CostZero:
	default:
		return fmt.Errorf("unknown cost kind %q; valid: suplin, linear, zero", s.Kind)
	}
	return nil
}

// Build returns the CostFunction described by the spec.
func (s CostSpec) Build() (CostFunction, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch s.Kind {
	case CostSupLin:
		return SupLinCost{Alpha: s.Alpha, Power: s.Power}, nil
	case CostLinear:
		return LinearCost{Rate: s.Rate}, nil
	default:
		return ZeroCost{}, nil
	}
}

// ProblemParams is the read-only cost configuration of a run.
type ProblemParams struct {
	PassengerWaitCost CostFunction
	DriverWaitCost    CostFunction
	Distance          DistanceFunc
}

// Validate reports missing collaborators.
func (p ProblemParams) Validate() error {
	if p.PassengerWaitCost == nil {
		return fmt.Errorf("passenger wait cost must not be nil")
	}
	if p.DriverWaitCost == nil {
		return fmt.Errorf("driver wait cost must not be nil")
	}
	if p.Distance == nil {
		return fmt.Errorf("distance function must not be nil")
	}
	return nil
}
