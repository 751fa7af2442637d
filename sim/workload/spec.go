package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// WorkloadSpec is the top-level arrival configuration of a run.
// Loaded from YAML via LoadWorkloadSpec(path) or embedded in a run config.
type WorkloadSpec struct {
	Version    string      `yaml:"version"`
	Seed       int64       `yaml:"seed"`
	Passengers StreamSpec  `yaml:"passengers"`
	Drivers    *StreamSpec `yaml:"drivers,omitempty"` // nil: drivers draw from the passenger stream
}

// StreamSpec defines one arrival stream.
type StreamSpec struct {
	Rate      float64        `yaml:"rate"` // mean arrivals per unit of simulated time
	Arrival   ArrivalSpec    `yaml:"arrival"`
	Locations []LocationSpec `yaml:"locations"`
	Limit     int            `yaml:"limit,omitempty"` // 0 = unlimited (use horizon only)
}

// ArrivalSpec configures the inter-arrival time process.
type ArrivalSpec struct {
	Process string   `yaml:"process"`
	CV      *float64 `yaml:"cv,omitempty"`
}

// LocationSpec is one component of a location mixture.
//
//	normal:  mean [x, y], cov [[sxx, sxy], [syx, syy]]
//	uniform: bounds [[xmin, xmax], [ymin, ymax]]
//	point:   mean [x, y]
type LocationSpec struct {
	Type   string      `yaml:"type"`
	Weight float64     `yaml:"weight,omitempty"` // 0 with a single component means 1
	Mean   []float64   `yaml:"mean,omitempty"`
	Cov    [][]float64 `yaml:"cov,omitempty"`
	Bounds [][]float64 `yaml:"bounds,omitempty"`
}

// Valid value registries.
var (
	validArrivalProcesses = map[string]bool{
		"poisson": true, "exponential": true, "gamma": true, "weibull": true, "constant": true,
	}
	validLocationTypes = map[string]bool{
		"normal": true, "uniform": true, "point": true,
	}
	validVersions = map[string]bool{
		"": true, "1": true,
	}
)

// DefaultWorkloadSpec returns the two-cluster setup: unit-rate Poisson
// arrivals drawn from an equal mixture of unit-variance normals centred at
// (0, 0) and (5, 5), with drivers sharing the passenger stream.
func DefaultWorkloadSpec() WorkloadSpec {
	identity := [][]float64{{1, 0}, {0, 1}}
	return WorkloadSpec{
		Version: "1",
		Passengers: StreamSpec{
			Rate:    1,
			Arrival: ArrivalSpec{Process: "poisson"},
			Locations: []LocationSpec{
				{Type: "normal", Weight: 0.5, Mean: []float64{0, 0}, Cov: identity},
				{Type: "normal", Weight: 0.5, Mean: []float64{5, 5}, Cov: identity},
			},
		},
	}
}

// LoadWorkloadSpec reads and parses a YAML workload specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *WorkloadSpec) Validate() error {
	if !validVersions[s.Version] {
		return fmt.Errorf("unsupported workload version %q", s.Version)
	}
	if err := s.Passengers.Validate("passengers"); err != nil {
		return err
	}
	if s.Drivers != nil {
		if err := s.Drivers.Validate("drivers"); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks one stream; prefix names it in error messages.
func (s *StreamSpec) Validate(prefix string) error {
	if err := validateFinitePositive(prefix+".rate", s.Rate); err != nil {
		return err
	}
	if s.Limit < 0 {
		return fmt.Errorf("%s: limit must be non-negative, got %d", prefix, s.Limit)
	}
	if !validArrivalProcesses[s.Arrival.Process] {
		return fmt.Errorf("%s: unknown arrival process %q; valid: poisson, exponential, gamma, weibull, constant", prefix, s.Arrival.Process)
	}
	if s.Arrival.CV != nil {
		if err := validateFinitePositive(prefix+".arrival.cv", *s.Arrival.CV); err != nil {
			return err
		}
		if s.Arrival.Process == "weibull" {
			cv := *s.Arrival.CV
			if cv < 0.01 || cv > 10.4 {
				return fmt.Errorf("%s: weibull CV must be in [0.01, 10.4], got %f", prefix, cv)
			}
		}
	}
	if len(s.Locations) == 0 {
		return fmt.Errorf("%s: at least one location component required", prefix)
	}
	total := 0.0
	for i := range s.Locations {
		if err := validateLocation(fmt.Sprintf("%s.locations[%d]", prefix, i), &s.Locations[i]); err != nil {
			return err
		}
		total += s.Locations[i].Weight
	}
	if len(s.Locations) > 1 && total <= 0 {
		return fmt.Errorf("%s: location weights must sum to a positive value", prefix)
	}
	return nil
}

func validateLocation(prefix string, l *LocationSpec) error {
	if !validLocationTypes[l.Type] {
		return fmt.Errorf("%s: unknown location type %q; valid: normal, uniform, point", prefix, l.Type)
	}
	if math.IsNaN(l.Weight) || math.IsInf(l.Weight, 0) || l.Weight < 0 {
		return fmt.Errorf("%s.weight must be a finite non-negative number, got %f", prefix, l.Weight)
	}
	switch l.Type {
	case "normal":
		if err := validateVec2(prefix+".mean", l.Mean); err != nil {
			return err
		}
		if err := validateMat2(prefix+".cov", l.Cov); err != nil {
			return err
		}
		if l.Cov[0][1] != l.Cov[1][0] {
			return fmt.Errorf("%s.cov must be symmetric, got %v", prefix, l.Cov)
		}
		var chol mat.Cholesky
		if !chol.Factorize(covMatrix(l.Cov)) {
			return fmt.Errorf("%s.cov must be positive definite, got %v", prefix, l.Cov)
		}
	case "uniform":
		if err := validateMat2(prefix+".bounds", l.Bounds); err != nil {
			return err
		}
		for axis, b := range l.Bounds {
			if b[0] > b[1] {
				return fmt.Errorf("%s.bounds[%d]: min %f exceeds max %f", prefix, axis, b[0], b[1])
			}
		}
	case "point":
		if err := validateVec2(prefix+".mean", l.Mean); err != nil {
			return err
		}
	}
	return nil
}

func validateVec2(name string, v []float64) error {
	if len(v) != 2 {
		return fmt.Errorf("%s must have 2 entries, got %d", name, len(v))
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%s must be finite, got %v", name, v)
		}
	}
	return nil
}

func validateMat2(name string, m [][]float64) error {
	if len(m) != 2 {
		return fmt.Errorf("%s must have 2 rows, got %d", name, len(m))
	}
	for i, row := range m {
		if err := validateVec2(fmt.Sprintf("%s[%d]", name, i), row); err != nil {
			return err
		}
	}
	return nil
}

// covMatrix converts a validated 2x2 covariance to gonum's symmetric form.
func covMatrix(cov [][]float64) *mat.SymDense {
	return mat.NewSymDense(2, []float64{cov[0][0], cov[0][1], cov[1][0], cov[1][1]})
}

// IsValidArrivalProcess reports whether name is a recognized interarrival process.
func IsValidArrivalProcess(name string) bool {
	return validArrivalProcesses[name]
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
