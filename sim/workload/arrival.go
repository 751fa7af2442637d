package workload

import (
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// IATSampler generates inter-arrival times in units of simulated time.
// gonum's distuv distributions satisfy it directly.
type IATSampler interface {
	Rand() float64
}

// constantSampler yields the mean inter-arrival time every time.
type constantSampler struct {
	iat float64
}

func (s constantSampler) Rand() float64 { return s.iat }

// NewArrivalSampler creates an IATSampler from a spec and rate, drawing
// from src. rate is the mean number of arrivals per unit time.
func NewArrivalSampler(spec ArrivalSpec, rate float64, src rand.Source) IATSampler {
	// Floor keeps 1/rate finite.
	if rate < 1e-15 {
		rate = 1e-15
	}
	switch spec.Process {
	case "poisson", "exponential":
		return distuv.Exponential{Rate: rate, Src: src}

	case "gamma":
		cv := cvOrDefault(spec.CV)
		// shape = 1/CV², rate parameter = shape / mean
		shape := 1.0 / (cv * cv)
		if shape < 0.01 {
			logrus.Warnf("Gamma shape %.4f (CV=%.1f) is very small; falling back to Poisson", shape, cv)
			return distuv.Exponential{Rate: rate, Src: src}
		}
		return distuv.Gamma{Alpha: shape, Beta: shape * rate, Src: src}

	case "weibull":
		cv := cvOrDefault(spec.CV)
		mean := 1.0 / rate
		k := weibullShapeFromCV(cv)
		// scale = mean / Γ(1 + 1/k)
		return distuv.Weibull{K: k, Lambda: mean / math.Gamma(1.0+1.0/k), Src: src}

	case "constant":
		return constantSampler{iat: 1.0 / rate}

	default:
		// Unreachable after Validate.
		return distuv.Exponential{Rate: rate, Src: src}
	}
}

func cvOrDefault(cv *float64) float64 {
	if cv == nil || *cv <= 0 {
		return 1.0
	}
	return *cv
}

// weibullShapeFromCV finds Weibull shape parameter k such that
// CV² = Γ(1+2/k)/Γ(1+1/k)² - 1, using bisection.
// Range: k ∈ [0.1, 100], tolerance: |CV_computed - CV_target| < 0.001.
// Max 100 iterations; logs warning if convergence fails.
func weibullShapeFromCV(targetCV float64) float64 {
	lo, hi := 0.1, 100.0
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2.0
		cv := weibullCV(mid)
		if math.Abs(cv-targetCV) < 0.001 {
			return mid
		}
		// CV is monotonically decreasing in k
		if cv > targetCV {
			lo = mid
		} else {
			hi = mid
		}
	}
	logrus.Warnf("weibullShapeFromCV: bisection did not converge for CV=%.3f after 100 iterations; using k=%.3f", targetCV, (lo+hi)/2.0)
	return (lo + hi) / 2.0
}

// weibullCV computes the coefficient of variation for Weibull(k).
func weibullCV(k float64) float64 {
	g1 := math.Gamma(1.0 + 1.0/k)
	g2 := math.Gamma(1.0 + 2.0/k)
	return math.Sqrt(g2/(g1*g1) - 1.0)
}
