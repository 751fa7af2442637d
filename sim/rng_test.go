package sim

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat/distuv"
)

func pcgRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), pcgIncrement))
}

func TestPartitionedRNG_SeedDerivation(t *testing.T) {
	for _, seed := range []int64{0, 42, math.MinInt64} {
		rng := NewPartitionedRNG(NewSimulationKey(seed))
		passengers := rng.ForSubsystem(SubsystemPassengers)
		drivers := rng.ForSubsystem(SubsystemDrivers)

		// Passengers reuse the master seed, drivers get a name-derived one.
		wantP := pcgRand(seed)
		wantD := pcgRand(seed ^ fnv1a64(SubsystemDrivers))
		for i := 0; i < 5; i++ {
			assert.Equal(t, wantP.Uint64(), passengers.Uint64(), "seed %d passenger draw %d", seed, i)
			assert.Equal(t, wantD.Uint64(), drivers.Uint64(), "seed %d driver draw %d", seed, i)
		}
	}
}

func TestPartitionedRNG_PassengerAndDriverStreamsDiffer(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	assert.NotEqual(t,
		rng.ForSubsystem(SubsystemPassengers).Uint64(),
		rng.ForSubsystem(SubsystemDrivers).Uint64())
}

func TestPartitionedRNG_SameKeyReplays(t *testing.T) {
	// GIVEN two generators built from the same key
	a := NewPartitionedRNG(NewSimulationKey(7))
	b := NewPartitionedRNG(NewSimulationKey(7))

	// WHEN a drains its passenger stream first and b does not
	for i := 0; i < 10; i++ {
		a.ForSubsystem(SubsystemPassengers).Float64()
	}

	// THEN the driver streams still match draw for draw
	for i := 0; i < 5; i++ {
		assert.Equal(t, b.ForSubsystem(SubsystemDrivers).Float64(), a.ForSubsystem(SubsystemDrivers).Float64())
	}
	assert.Same(t, a.ForSubsystem(SubsystemDrivers), a.ForSubsystem(SubsystemDrivers))
	assert.Equal(t, SimulationKey(7), a.Key())
}

func TestPartitionedRNG_SeedsGonumDistributions(t *testing.T) {
	draw := func() []float64 {
		rng := NewPartitionedRNG(NewSimulationKey(3))
		exp := distuv.Exponential{Rate: 2, Src: rng.ForSubsystem(SubsystemPassengers)}
		out := make([]float64, 4)
		for i := range out {
			out[i] = exp.Rand()
		}
		return out
	}

	first, second := draw(), draw()
	assert.Equal(t, first, second)
	for _, v := range first {
		assert.Greater(t, v, 0.0)
	}
}

func BenchmarkPartitionedRNG_ForSubsystem(b *testing.B) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	for i := 0; i < b.N; i++ {
		rng.ForSubsystem(SubsystemDrivers)
	}
}
