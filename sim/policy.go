package sim

import (
	"fmt"
	"strings"
)

// Policy is a dispatch rule applied to the waiting sets at one instant.
// Apply may commit any number of assignments at time now.
type Policy interface {
	Name() string
	Apply(now float64, state *State, params ProblemParams) error
}

// PolicyFunc adapts a plain function to the Policy interface.
type PolicyFunc struct {
	Label string
	Fn    func(now float64, state *State, params ProblemParams) error
}

func (p PolicyFunc) Name() string { return p.Label }

func (p PolicyFunc) Apply(now float64, state *State, params ProblemParams) error {
	return p.Fn(now, state, params)
}

// ComposedPolicy applies its sub-policies in order at the same instant.
type ComposedPolicy struct {
	policies []Policy
}

// Compose returns a policy that applies each of policies in order.
// Panics if policies is empty or contains nil.
func Compose(policies ...Policy) *ComposedPolicy {
	if len(policies) == 0 {
		panic("Compose: no policies")
	}
	for i, p := range policies {
		if p == nil {
			panic(fmt.Sprintf("Compose: policy %d is nil", i))
		}
	}
	return &ComposedPolicy{policies: append([]Policy(nil), policies...)}
}

// Name joins the sub-policy names with "+".
func (c *ComposedPolicy) Name() string {
	names := make([]string, len(c.policies))
	for i, p := range c.policies {
		names[i] = p.Name()
	}
	return strings.Join(names, "+")
}

// Apply runs the sub-policies in order and stops at the first error.
// Assignments committed before the failing policy stay committed.
func (c *ComposedPolicy) Apply(now float64, state *State, params ProblemParams) error {
	for _, p := range c.policies {
		if err := p.Apply(now, state, params); err != nil {
			return fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return nil
}

// Policies returns the sub-policies in application order.
func (c *ComposedPolicy) Policies() []Policy {
	return append([]Policy(nil), c.policies...)
}
