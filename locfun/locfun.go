package locfun

import (
	"fmt"

	"github.com/zackkenyon/PuncturedFEM/nystrom"
	"github.com/zackkenyon/PuncturedFEM/poly"
)

// LocalFunction is an element of the local Poisson space of a cell,
// determined by a Dirichlet trace and a polynomial Laplacian. The compute
// stages fill in the boundary data needed to reduce volumetric inner
// products to boundary integrals; each stage leaves prior state untouched
// if it fails.
type LocalFunction struct {
	Key  GlobalKey
	Nyst *nystrom.Solver
	Lap  poly.Poly

	source TraceSource

	Trace         []float64
	PolyPart      poly.Poly
	PolyPartTrace []float64
	PolyPartWnd   []float64
	ConjTrace     []float64
	LogCoef       []float64
	HarmPartWnd   []float64
	AntilapTrace  []float64
	AntilapWnd    []float64

	IntVals  [][]float64
	IntGrad1 [][]float64
	IntGrad2 [][]float64

	polyPartSet bool
}

// New builds a local function over the cell held by the Nyström solver.
func New(nyst *nystrom.Solver, lap poly.Poly, source TraceSource, key GlobalKey) (*LocalFunction, error) {
	v := &LocalFunction{Key: key, Nyst: nyst, Lap: lap, source: source}
	if source == nil {
		v.source = ZeroPolyTrace(nyst.Cell)
	}
	// Fail fast on mismatched trace sources.
	if _, err := v.source.traceValues(nyst.Cell); err != nil {
		return nil, err
	}
	return v, nil
}

// Source returns the trace source the function was built from.
func (v *LocalFunction) Source() TraceSource { return v.source }

// ComputeAll runs every stage needed for inner products, in dependency
// order. Calling it again recomputes the same state.
func (v *LocalFunction) ComputeAll() error {
	if err := v.ComputeTraceValues(); err != nil {
		return err
	}
	v.ComputePolynomialPart()
	if err := v.ComputePolynomialPartTrace(); err != nil {
		return err
	}
	if err := v.ComputePolynomialPartWeightedNormalDerivative(); err != nil {
		return err
	}
	if err := v.ComputeHarmonicConjugate(); err != nil {
		return err
	}
	if err := v.ComputeHarmonicWeightedNormalDerivative(); err != nil {
		return err
	}
	return v.ComputeAntiLaplacian()
}

// Clear releases the large boundary arrays, keeping the polynomial data
// and key. Interior values survive; inner products require recomputation.
func (v *LocalFunction) Clear() {
	v.Trace = nil
	v.PolyPartTrace = nil
	v.PolyPartWnd = nil
	v.ConjTrace = nil
	v.LogCoef = nil
	v.HarmPartWnd = nil
	v.AntilapTrace = nil
	v.AntilapWnd = nil
}

// ComputeTraceValues realizes the trace source as sampled values.
func (v *LocalFunction) ComputeTraceValues() error {
	vals, err := v.source.traceValues(v.Nyst.Cell)
	if err != nil {
		return err
	}
	v.Trace = vals
	return nil
}

// ComputePolynomialPart sets the polynomial part to the canonical
// anti-Laplacian of the Laplacian polynomial.
func (v *LocalFunction) ComputePolynomialPart() {
	v.PolyPart = v.Lap.AntiLaplacian()
	v.polyPartSet = true
}

// ComputePolynomialPartTrace samples the polynomial part on the boundary.
func (v *LocalFunction) ComputePolynomialPartTrace() error {
	if !v.polyPartSet {
		return fmt.Errorf("%w: polynomial part", ErrMissingStage)
	}
	x, y := v.Nyst.Cell.BoundaryPoints()
	v.PolyPartTrace = v.PolyPart.EvalSlice(x, y)
	return nil
}

// ComputePolynomialPartWeightedNormalDerivative samples the weighted
// normal derivative of the polynomial part.
func (v *LocalFunction) ComputePolynomialPartWeightedNormalDerivative() error {
	if !v.polyPartSet {
		return fmt.Errorf("%w: polynomial part", ErrMissingStage)
	}
	wnd, err := polyWeightedNormalDeriv(v.PolyPart, v.Nyst.Cell)
	if err != nil {
		return err
	}
	v.PolyPartWnd = wnd
	return nil
}

// HarmonicPartTrace returns trace minus polynomial part trace.
func (v *LocalFunction) HarmonicPartTrace() ([]float64, error) {
	if v.Trace == nil || v.PolyPartTrace == nil {
		return nil, fmt.Errorf("%w: trace and polynomial part trace", ErrMissingStage)
	}
	phi := make([]float64, len(v.Trace))
	for i := range phi {
		phi[i] = v.Trace[i] - v.PolyPartTrace[i]
	}
	return phi, nil
}

// ComputeHarmonicConjugate solves for the harmonic conjugate trace of the
// conjugable part and the logarithmic coefficients of the harmonic part.
func (v *LocalFunction) ComputeHarmonicConjugate() error {
	phi, err := v.HarmonicPartTrace()
	if err != nil {
		return err
	}
	conj, logCoef, err := v.Nyst.GetHarmonicConjugate(phi)
	if err != nil {
		return err
	}
	v.ConjTrace = conj
	v.LogCoef = logCoef
	return nil
}

// ComputeHarmonicWeightedNormalDerivative recovers the weighted normal
// derivative of the harmonic part: the weighted tangential derivative of
// the conjugate trace plus the log-term contributions.
func (v *LocalFunction) ComputeHarmonicWeightedNormalDerivative() error {
	if v.ConjTrace == nil {
		return fmt.Errorf("%w: harmonic conjugate", ErrMissingStage)
	}
	wnd, err := v.Nyst.Cell.DifferentiateBoundary(v.ConjTrace)
	if err != nil {
		return err
	}
	for j, a := range v.LogCoef {
		lw := v.Nyst.LogWeightedNormalDeriv(j)
		for i := range wnd {
			wnd[i] += a * lw[i]
		}
	}
	v.HarmPartWnd = wnd
	return nil
}

// ConjugablePart returns the trace of the harmonic part with its log
// terms removed.
func (v *LocalFunction) ConjugablePart() ([]float64, error) {
	phi, err := v.HarmonicPartTrace()
	if err != nil {
		return nil, err
	}
	if v.LogCoef == nil && v.Nyst.NumHoles() > 0 {
		return nil, fmt.Errorf("%w: logarithmic coefficients", ErrMissingStage)
	}
	for j, a := range v.LogCoef {
		lt := v.Nyst.LogTrace(j)
		for i := range phi {
			phi[i] -= a * lt[i]
		}
	}
	return phi, nil
}

// ComputeAntiLaplacian builds the trace and weighted normal derivative of
// an anti-Laplacian of the harmonic part.
func (v *LocalFunction) ComputeAntiLaplacian() error {
	psi, err := v.ConjugablePart()
	if err != nil {
		return err
	}
	if v.ConjTrace == nil {
		return fmt.Errorf("%w: harmonic conjugate", ErrMissingStage)
	}
	tr, wnd, err := antiLaplacianHarmonic(v.Nyst.Cell, psi, v.ConjTrace, v.LogCoef)
	if err != nil {
		return err
	}
	v.AntilapTrace = tr
	v.AntilapWnd = wnd
	return nil
}

// H1SemiInnerProduct integrates grad v . grad w over the cell using only
// boundary data.
func (v *LocalFunction) H1SemiInnerProduct(w *LocalFunction) (float64, error) {
	if v.HarmPartWnd == nil || w.HarmPartWnd == nil {
		return 0, fmt.Errorf("%w: harmonic weighted normal derivatives", ErrMissingStage)
	}
	K := v.Nyst.Cell

	px, py := v.PolyPart.Grad()
	qx, qy := w.PolyPart.Grad()
	val, err := IntegratePolyOverCell(px.Mul(qx).Add(py.Mul(qy)), K)
	if err != nil {
		return 0, err
	}

	integrand := make([]float64, K.NumPts())
	for i := range integrand {
		integrand[i] = w.Trace[i]*v.HarmPartWnd[i] + v.PolyPartTrace[i]*w.HarmPartWnd[i]
	}
	b, err := K.IntegrateOverBoundaryPreweighted(integrand)
	if err != nil {
		return 0, err
	}
	return val + b, nil
}

// L2InnerProduct integrates v w over the cell using only boundary data.
func (v *LocalFunction) L2InnerProduct(w *LocalFunction) (float64, error) {
	if v.AntilapWnd == nil || w.HarmPartWnd == nil {
		return 0, fmt.Errorf("%w: anti-Laplacian data", ErrMissingStage)
	}
	K := v.Nyst.Cell
	x, y := K.BoundaryPoints()

	val, err := IntegratePolyOverCell(v.PolyPart.Mul(w.PolyPart), K)
	if err != nil {
		return 0, err
	}

	integrand := make([]float64, K.NumPts())
	for i := range integrand {
		integrand[i] = (w.Trace[i]-w.PolyPartTrace[i])*v.AntilapWnd[i] -
			v.AntilapTrace[i]*w.HarmPartWnd[i]
	}

	// Cross terms of each harmonic part against the other polynomial
	// part, via polynomial anti-Laplacians.
	r := w.PolyPart.AntiLaplacian()
	rTrace := r.EvalSlice(x, y)
	rWnd, err := polyWeightedNormalDeriv(r, K)
	if err != nil {
		return 0, err
	}
	for i := range integrand {
		integrand[i] += (v.Trace[i]-v.PolyPartTrace[i])*rWnd[i] - rTrace[i]*v.HarmPartWnd[i]
	}

	r = v.PolyPart.AntiLaplacian()
	rTrace = r.EvalSlice(x, y)
	rWnd, err = polyWeightedNormalDeriv(r, K)
	if err != nil {
		return 0, err
	}
	for i := range integrand {
		integrand[i] += (w.Trace[i]-w.PolyPartTrace[i])*rWnd[i] - rTrace[i]*w.HarmPartWnd[i]
	}

	b, err := K.IntegrateOverBoundaryPreweighted(integrand)
	if err != nil {
		return 0, err
	}
	return val + b, nil
}
