package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupLinCost(t *testing.T) {
	c := SupLinCost{Alpha: 0.5, Power: 2}

	assert.Equal(t, 0.0, c.Cost(0))
	assert.Equal(t, 1.0, c.Cost(2))
	assert.Equal(t, 4.0, c.Cost(4))
	// Marginal(2, 2) = Cost(4) - Cost(2)
	assert.Equal(t, 3.0, c.Marginal(2, 2))
}

func TestCostFunctions_MonotoneNonDecreasing(t *testing.T) {
	funcs := map[string]CostFunction{
		"suplin": SupLinCost{Alpha: 1.0 / 16, Power: 1.5},
		"linear": LinearCost{Rate: 2},
		"zero":   ZeroCost{},
	}
	for name, c := range funcs {
		t.Run(name, func(t *testing.T) {
			prev := c.Cost(0)
			for w := 0.25; w <= 64; w *= 2 {
				cur := c.Cost(w)
				assert.GreaterOrEqual(t, cur, prev, "Cost(%v)", w)
				assert.GreaterOrEqual(t, c.Marginal(w, 1), 0.0, "Marginal(%v, 1)", w)
				prev = cur
			}
		})
	}
}

func TestLinearCost_MarginalIsRateTimesDelta(t *testing.T) {
	c := LinearCost{Rate: 1}
	assert.InDelta(t, 0.5, c.Marginal(7, 0.5), 1e-12)
	assert.Equal(t, 1.0, c.Cost(1))
}

func TestCostSpec_Build(t *testing.T) {
	tests := []struct {
		name    string
		spec    CostSpec
		want    CostFunction
		wantErr bool
	}{
		{"suplin", CostSpec{Kind: CostSupLin, Alpha: 0.25, Power: 1.5}, SupLinCost{Alpha: 0.25, Power: 1.5}, false},
		{"linear", CostSpec{Kind: CostLinear, Rate: 3}, LinearCost{Rate: 3}, false},
		{"zero", CostSpec{Kind: CostZero}, ZeroCost{}, false},
		{"unknown kind", CostSpec{Kind: "quadratic"}, nil, true},
		{"negative alpha", CostSpec{Kind: CostSupLin, Alpha: -1, Power: 1}, nil, true},
		{"zero power", CostSpec{Kind: CostSupLin, Alpha: 1}, nil, true},
		{"negative rate", CostSpec{Kind: CostLinear, Rate: -0.1}, nil, true},
		{"NaN alpha", CostSpec{Kind: CostSupLin, Alpha: math.NaN(), Power: 1}, nil, true},
		{"Inf rate", CostSpec{Kind: CostLinear, Rate: math.Inf(1)}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Build()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProblemParams_Validate(t *testing.T) {
	ok := ProblemParams{PassengerWaitCost: ZeroCost{}, DriverWaitCost: ZeroCost{}, Distance: Euclidean}
	assert.NoError(t, ok.Validate())

	missing := ok
	missing.Distance = nil
	assert.Error(t, missing.Validate())

	missing = ok
	missing.DriverWaitCost = nil
	assert.Error(t, missing.Validate())

	missing = ok
	missing.PassengerWaitCost = nil
	assert.Error(t, missing.Validate())
}
