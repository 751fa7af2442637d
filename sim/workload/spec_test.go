package workload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpec(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workload.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWorkloadSpec_ValidYAML_LoadsCorrectly(t *testing.T) {
	path := writeSpec(t, `
version: "1"
seed: 42
passengers:
  rate: 2.0
  arrival:
    process: gamma
    cv: 1.5
  locations:
    - type: normal
      weight: 0.5
      mean: [0, 0]
      cov: [[1, 0], [0, 1]]
    - type: uniform
      weight: 0.5
      bounds: [[0, 10], [0, 5]]
drivers:
  rate: 1.0
  limit: 100
  arrival:
    process: constant
  locations:
    - type: point
      mean: [5, 5]
`)

	spec, err := LoadWorkloadSpec(path)
	require.NoError(t, err)
	require.NoError(t, spec.Validate())

	assert.Equal(t, int64(42), spec.Seed)
	assert.Equal(t, 2.0, spec.Passengers.Rate)
	assert.Equal(t, "gamma", spec.Passengers.Arrival.Process)
	require.NotNil(t, spec.Passengers.Arrival.CV)
	assert.Equal(t, 1.5, *spec.Passengers.Arrival.CV)
	require.Len(t, spec.Passengers.Locations, 2)
	assert.Equal(t, [][]float64{{0, 10}, {0, 5}}, spec.Passengers.Locations[1].Bounds)
	require.NotNil(t, spec.Drivers)
	assert.Equal(t, 100, spec.Drivers.Limit)
}

func TestLoadWorkloadSpec_UnknownKey_ReturnsError(t *testing.T) {
	path := writeSpec(t, `
passengers:
  rate: 1
  arival:
    process: poisson
`)
	_, err := LoadWorkloadSpec(path)
	if err == nil {
		t.Fatal("expected error for unknown key 'arival'")
	}
	if !strings.Contains(err.Error(), "arival") {
		t.Errorf("error should name the unknown key, got: %v", err)
	}
}

func TestLoadWorkloadSpec_MissingFile_ReturnsError(t *testing.T) {
	_, err := LoadWorkloadSpec(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaultWorkloadSpec_IsValid(t *testing.T) {
	spec := DefaultWorkloadSpec()
	require.NoError(t, spec.Validate())
	assert.Nil(t, spec.Drivers, "default drivers share the passenger stream")
	assert.Len(t, spec.Passengers.Locations, 2)
}

func TestWorkloadSpec_Validate_Errors(t *testing.T) {
	negCV := -1.0
	bigCV := 20.0
	tests := []struct {
		name    string
		mutate  func(s *WorkloadSpec)
		wantErr string
	}{
		{"bad version", func(s *WorkloadSpec) { s.Version = "9" }, "version"},
		{"zero rate", func(s *WorkloadSpec) { s.Passengers.Rate = 0 }, "passengers.rate"},
		{"negative limit", func(s *WorkloadSpec) { s.Passengers.Limit = -1 }, "limit"},
		{"unknown process", func(s *WorkloadSpec) { s.Passengers.Arrival.Process = "hawkes" }, "arrival process"},
		{"negative cv", func(s *WorkloadSpec) { s.Passengers.Arrival.CV = &negCV }, "cv"},
		{"weibull cv out of range", func(s *WorkloadSpec) {
			s.Passengers.Arrival = ArrivalSpec{Process: "weibull", CV: &bigCV}
		}, "weibull CV"},
		{"no locations", func(s *WorkloadSpec) { s.Passengers.Locations = nil }, "location component"},
		{"unknown location type", func(s *WorkloadSpec) { s.Passengers.Locations[0].Type = "ring" }, "location type"},
		{"negative weight", func(s *WorkloadSpec) { s.Passengers.Locations[0].Weight = -1 }, "weight"},
		{"zero weights", func(s *WorkloadSpec) {
			s.Passengers.Locations[0].Weight = 0
			s.Passengers.Locations[1].Weight = 0
		}, "sum"},
		{"short mean", func(s *WorkloadSpec) { s.Passengers.Locations[0].Mean = []float64{1} }, "mean"},
		{"asymmetric cov", func(s *WorkloadSpec) { s.Passengers.Locations[0].Cov = [][]float64{{1, 0.5}, {0, 1}} }, "symmetric"},
		{"indefinite cov", func(s *WorkloadSpec) { s.Passengers.Locations[0].Cov = [][]float64{{1, 2}, {2, 1}} }, "positive definite"},
		{"inverted bounds", func(s *WorkloadSpec) {
			s.Passengers.Locations[0] = LocationSpec{Type: "uniform", Weight: 1, Bounds: [][]float64{{5, 1}, {0, 1}}}
		}, "exceeds"},
		{"invalid drivers", func(s *WorkloadSpec) {
			d := s.Passengers
			d.Rate = -2
			s.Drivers = &d
		}, "drivers.rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := DefaultWorkloadSpec()
			tt.mutate(&spec)

			err := spec.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsValidArrivalProcess(t *testing.T) {
	for _, p := range []string{"poisson", "exponential", "gamma", "weibull", "constant"} {
		assert.True(t, IsValidArrivalProcess(p), p)
	}
	assert.False(t, IsValidArrivalProcess(""))
	assert.False(t, IsValidArrivalProcess("bursty"))
}
