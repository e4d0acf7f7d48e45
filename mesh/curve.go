package mesh

import (
	"fmt"
	"math"
)

// Curve is a canonical parameterized curve on [0, 2pi]. Open curves are
// affinely fitted to the edge endpoints during parameterization; closed
// curves are translated so their parameterization starts at the anchor.
type Curve interface {
	Name() string
	IsClosed() bool
	// Params returns the curve parameters in a fixed order, for
	// content-addressing the geometry.
	Params() []float64
	// Point, Deriv and Deriv2 evaluate the curve and its first two
	// derivatives with respect to the parameter.
	Point(t float64) (x, y float64)
	Deriv(t float64) (dx, dy float64)
	Deriv2(t float64) (ddx, ddy float64)
	// Validate checks the curve parameters at construction time.
	Validate() error
}

// Line is the straight segment from (0, 0) to (2pi, 0) before fitting.
type Line struct{}

func (Line) Name() string { return "line" }

func (Line) IsClosed() bool { return false }

func (Line) Params() []float64 { return nil }

func (Line) Validate() error { return nil }

func (Line) Point(t float64) (float64, float64) { return t, 0 }
func (Line) Deriv(t float64) (float64, float64) { return 1, 0 }
func (Line) Deriv2(t float64) (float64, float64) { return 0, 0 }

// CircularArc is a circular arc subtending ThetaDeg degrees, bulging
// right of the direction of travel from anchor to endpoint. On a
// counterclockwise outer boundary the bulge therefore points out of the
// cell.
type CircularArc struct {
	ThetaDeg float64
}

func (CircularArc) Name() string   { return "circular_arc_deg" }
func (CircularArc) IsClosed() bool { return false }

func (c CircularArc) Params() []float64 { return []float64{c.ThetaDeg} }

func (c CircularArc) Validate() error {
	if c.ThetaDeg <= 0 || c.ThetaDeg >= 360 {
		return fmt.Errorf("%w: arc angle %g degrees not in (0, 360)", ErrBadCurveParam, c.ThetaDeg)
	}
	return nil
}

// halfAngle is half the subtended angle in radians.
func (c CircularArc) halfAngle() float64 { return c.ThetaDeg * math.Pi / 360 }

func (c CircularArc) Point(t float64) (float64, float64) {
	H := c.halfAngle()
	psi := -H + H*t/math.Pi
	return math.Sin(psi), -math.Cos(psi)
}

func (c CircularArc) Deriv(t float64) (float64, float64) {
	H := c.halfAngle()
	psi := -H + H*t/math.Pi
	return H / math.Pi * math.Cos(psi), H / math.Pi * math.Sin(psi)
}

func (c CircularArc) Deriv2(t float64) (float64, float64) {
	H := c.halfAngle()
	psi := -H + H*t/math.Pi
	s := H / math.Pi * H / math.Pi
	return -s * math.Sin(psi), s * math.Cos(psi)
}

// Ellipse is the closed loop (A cos t, B sin t), traversed counterclockwise.
type Ellipse struct {
	A, B float64
}

func (Ellipse) Name() string   { return "ellipse" }
func (Ellipse) IsClosed() bool { return true }

func (e Ellipse) Params() []float64 { return []float64{e.A, e.B} }

func (e Ellipse) Validate() error {
	if e.A <= 0 || e.B <= 0 {
		return fmt.Errorf("%w: ellipse semi-axes (%g, %g) must be positive", ErrBadCurveParam, e.A, e.B)
	}
	return nil
}

func (e Ellipse) Point(t float64) (float64, float64) {
	return e.A * math.Cos(t), e.B * math.Sin(t)
}

func (e Ellipse) Deriv(t float64) (float64, float64) {
	return -e.A * math.Sin(t), e.B * math.Cos(t)
}

func (e Ellipse) Deriv2(t float64) (float64, float64) {
	return -e.A * math.Cos(t), -e.B * math.Sin(t)
}

// Circle is the closed loop of radius R, traversed counterclockwise.
type Circle struct {
	R float64
}

func (Circle) Name() string   { return "circle" }
func (Circle) IsClosed() bool { return true }

func (c Circle) Params() []float64 { return []float64{c.R} }

func (c Circle) Validate() error {
	if c.R <= 0 {
		return fmt.Errorf("%w: circle radius %g must be positive", ErrBadCurveParam, c.R)
	}
	return nil
}

func (c Circle) Point(t float64) (float64, float64) {
	return c.R * math.Cos(t), c.R * math.Sin(t)
}

func (c Circle) Deriv(t float64) (float64, float64) {
	return -c.R * math.Sin(t), c.R * math.Cos(t)
}

func (c Circle) Deriv2(t float64) (float64, float64) {
	return -c.R * math.Cos(t), -c.R * math.Sin(t)
}

// SineWave is the open curve (t, Amp sin(Freq t / 2)); Freq must be even so
// the curve meets the horizontal axis at both endpoints.
type SineWave struct {
	Amp  float64
	Freq int
}

func (SineWave) Name() string   { return "sine_wave" }
func (SineWave) IsClosed() bool { return false }

func (s SineWave) Params() []float64 { return []float64{s.Amp, float64(s.Freq)} }

func (s SineWave) Validate() error {
	if s.Freq <= 0 || s.Freq%2 != 0 {
		return fmt.Errorf("%w: sine wave frequency %d must be a positive even integer", ErrBadCurveParam, s.Freq)
	}
	return nil
}

func (s SineWave) Point(t float64) (float64, float64) {
	return t, s.Amp * math.Sin(float64(s.Freq)*t/2)
}

func (s SineWave) Deriv(t float64) (float64, float64) {
	f := float64(s.Freq)
	return 1, s.Amp * f / 2 * math.Cos(f*t/2)
}

func (s SineWave) Deriv2(t float64) (float64, float64) {
	f := float64(s.Freq)
	return 0, -s.Amp * f * f / 4 * math.Sin(f*t/2)
}
