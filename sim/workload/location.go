package workload

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matching-sim/matching-sim/sim"
)

// LocationSampler draws agent locations.
type LocationSampler interface {
	Sample() sim.Location
}

// normalLocation draws from a bivariate normal.
type normalLocation struct {
	dist *distmv.Normal
	buf  []float64
}

func (n *normalLocation) Sample() sim.Location {
	n.buf = n.dist.Rand(n.buf)
	return sim.Location{X: n.buf[0], Y: n.buf[1]}
}

// uniformLocation draws x then y uniformly from an axis-aligned box.
type uniformLocation struct {
	x, y distuv.Uniform
}

func (u uniformLocation) Sample() sim.Location {
	x := u.x.Rand()
	return sim.Location{X: x, Y: u.y.Rand()}
}

// pointLocation always yields the same location.
type pointLocation struct {
	loc sim.Location
}

func (p pointLocation) Sample() sim.Location { return p.loc }

// mixtureLocation picks a component by weight, then samples from it.
type mixtureLocation struct {
	pick       distuv.Categorical
	components []LocationSampler
}

func (m mixtureLocation) Sample() sim.Location {
	return m.components[int(m.pick.Rand())].Sample()
}

// NewLocationSampler builds the sampler for a validated list of components.
// A single component is used directly; several form a weighted mixture.
func NewLocationSampler(specs []LocationSpec, src rand.Source) (LocationSampler, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no location components")
	}
	components := make([]LocationSampler, len(specs))
	weights := make([]float64, len(specs))
	for i := range specs {
		c, err := newComponent(&specs[i], src)
		if err != nil {
			return nil, fmt.Errorf("locations[%d]: %w", i, err)
		}
		components[i] = c
		weights[i] = specs[i].Weight
	}
	if len(components) == 1 {
		return components[0], nil
	}
	return mixtureLocation{pick: distuv.NewCategorical(weights, src), components: components}, nil
}

func newComponent(spec *LocationSpec, src rand.Source) (LocationSampler, error) {
	switch spec.Type {
	case "normal":
		dist, ok := distmv.NewNormal(spec.Mean, covMatrix(spec.Cov), src)
		if !ok {
			return nil, fmt.Errorf("covariance %v is not positive definite", spec.Cov)
		}
		return &normalLocation{dist: dist, buf: make([]float64, 2)}, nil
	case "uniform":
		return uniformLocation{
			x: distuv.Uniform{Min: spec.Bounds[0][0], Max: spec.Bounds[0][1], Src: src},
			y: distuv.Uniform{Min: spec.Bounds[1][0], Max: spec.Bounds[1][1], Src: src},
		}, nil
	case "point":
		return pointLocation{loc: sim.Location{X: spec.Mean[0], Y: spec.Mean[1]}}, nil
	default:
		return nil, fmt.Errorf("unknown location type %q", spec.Type)
	}
}
