package quadrature

import (
	"fmt"
	"math"
)

// Type selects a sampling rule variant.
type Type int

const (
	// Trapezoid is uniform sampling with unit weights.
	Trapezoid Type = iota
	// Kress grades the samples toward the interval endpoints for edges that
	// terminate at corners, following Kress, Numer. Math. 58 (1990).
	Kress
	// Martensen carries the weights for the log(4 sin^2((s-t)/2)) kernel,
	// after Martensen, Acta Math. 109 (1963). Its T slice holds
	// 4 sin^2(tau/2) rather than reparameterized sample points.
	Martensen
)

// DefaultKressP is the grading exponent used when none is given.
const DefaultKressP = 7

func (qt Type) String() string {
	switch qt {
	case Trapezoid:
		return "trap"
	case Kress:
		return "kress"
	case Martensen:
		return "mart"
	}
	return fmt.Sprintf("Type(%d)", int(qt))
}

// Rule samples the parameter interval [0, 2pi] at 2n+1 points, the last
// repeating the first. H is the uniform spacing pi/n of the underlying
// parameter tau; T holds the (possibly reparameterized) sample values and
// Wgt the chain-rule weights lambda'(tau).
type Rule struct {
	Type Type
	N    int
	P    int
	H    float64
	T    []float64
	Wgt  []float64
}

// NewRule builds a rule of the given type with 2n sample panels. The Kress
// grading parameter p is ignored for other types; pass DefaultKressP when in
// doubt.
func NewRule(qt Type, n, p int) (*Rule, error) {
	if n < 4 || n%2 != 0 {
		return nil, fmt.Errorf("%w, got n = %d", ErrInvalidN, n)
	}
	q := &Rule{
		Type: qt,
		N:    n,
		P:    p,
		H:    math.Pi / float64(n),
		T:    make([]float64, 2*n+1),
		Wgt:  make([]float64, 2*n+1),
	}
	for i := range q.T {
		q.T[i] = 2 * math.Pi * float64(i) / float64(2*n)
	}
	switch qt {
	case Trapezoid:
		q.trap()
	case Kress:
		if p < 2 {
			return nil, fmt.Errorf("%w, got p = %d", ErrInvalidP, p)
		}
		q.kress(p)
	case Martensen:
		q.martensen()
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(qt))
	}
	return q, nil
}

// NumPts reports the number of stored samples, 2n+1.
func (q *Rule) NumPts() int { return 2*q.N + 1 }

// trap leaves T uniform and sets unit weights. Left-hand sums with these
// weights are the periodic trapezoid rule on closed contours.
func (q *Rule) trap() {
	for i := range q.Wgt {
		q.Wgt[i] = 1
	}
}

// kress replaces the uniform samples by the graded ones. The composed
// parameterization and its first p-2 derivatives vanish at both endpoints,
// which restores spectral accuracy at corners.
func (q *Rule) kress(p int) {
	fp := float64(p)
	for i, t := range q.T {
		s := t/math.Pi - 1
		s2 := s * s
		c := (0.5-1/fp)*s*s2 + s/fp + 0.5
		cp := math.Pow(c, fp)
		denom := cp + math.Pow(1-c, fp)
		q.T[i] = 2 * math.Pi * cp / denom
		q.Wgt[i] = (3*(fp-2)*s2 + 2) * math.Pow(c*(1-c), fp-1) / (denom * denom)
	}
}

// martensen fills Wgt with the trigonometric sums
// (1/2n) sum_{m=1..n} cos(m tau)/m and stores 4 sin^2(tau/2) in T.
func (q *Rule) martensen() {
	for i, t := range q.T {
		var w float64
		for m := 1; m <= q.N; m++ {
			w += math.Cos(float64(m)*t) / float64(m)
		}
		q.Wgt[i] = 0.5 * w / float64(q.N)
		st := 2 * math.Sin(t/2)
		q.T[i] = st * st
	}
}

// Set bundles the rules a cell parameterization consumes at a shared n.
type Set struct {
	N         int
	Trapezoid *Rule
	Kress     *Rule
	Martensen *Rule
}

// NewSet builds the standard bundle with the default Kress parameter.
func NewSet(n int) (*Set, error) {
	return NewSetP(n, DefaultKressP)
}

// NewSetP builds the standard bundle with an explicit Kress parameter.
func NewSetP(n, p int) (*Set, error) {
	trap, err := NewRule(Trapezoid, n, p)
	if err != nil {
		return nil, err
	}
	kress, err := NewRule(Kress, n, p)
	if err != nil {
		return nil, err
	}
	mart, err := NewRule(Martensen, n, p)
	if err != nil {
		return nil, err
	}
	return &Set{N: n, Trapezoid: trap, Kress: kress, Martensen: mart}, nil
}

// ByName returns the rule registered under the given tag ("trap", "kress",
// "mart").
func (s *Set) ByName(name string) (*Rule, error) {
	switch name {
	case "trap":
		return s.Trapezoid, nil
	case "kress":
		return s.Kress, nil
	case "mart", "martensen":
		return s.Martensen, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
}
