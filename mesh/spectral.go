package mesh

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// DifferentiateBoundary differentiates a sampled boundary trace with
// respect to the uniform sampling parameter, componentwise by FFT. For a
// trace of a function on the boundary this is its weighted tangential
// derivative: the arc-length derivative times the weighted speed.
func (K *MeshCell) DifferentiateBoundary(vals []float64) ([]float64, error) {
	if err := K.checkLen(vals); err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for c := 0; c < len(K.Components); c++ {
		lo, hi := K.compStart[c], K.compStart[c+1]
		K.differentiateComponent(vals[lo:hi], out[lo:hi])
	}
	return out, nil
}

func (K *MeshCell) differentiateComponent(vals, out []float64) {
	m := len(vals)
	fft := fourier.NewFFT(m)
	coeffs := fft.Coefficients(nil, vals)
	// Component period is m * h, so mode k differentiates to i k omega.
	omega := 2 * math.Pi / (float64(m) * K.H())
	for k := range coeffs {
		coeffs[k] *= complex(0, float64(k)*omega)
	}
	// The Nyquist mode has no well-defined derivative sign; drop it.
	if m%2 == 0 {
		coeffs[m/2] = 0
	}
	fft.Sequence(out, coeffs)
	for i := range out {
		out[i] /= float64(m)
	}
}

// AntiderivativeBoundary integrates a complex-valued sampled boundary
// function with respect to the sampling parameter, componentwise by FFT.
// The mean mode of each component is dropped, so the input must have zero
// mean per component for the result to be a true antiderivative; the
// output has zero mean per component.
func (K *MeshCell) AntiderivativeBoundary(re, im []float64) (outRe, outIm []float64, err error) {
	if err := K.checkLen(re); err != nil {
		return nil, nil, err
	}
	if err := K.checkLen(im); err != nil {
		return nil, nil, err
	}
	outRe = make([]float64, len(re))
	outIm = make([]float64, len(im))
	for c := 0; c < len(K.Components); c++ {
		lo, hi := K.compStart[c], K.compStart[c+1]
		K.antiderivativeComponent(re[lo:hi], im[lo:hi], outRe[lo:hi], outIm[lo:hi])
	}
	return outRe, outIm, nil
}

func (K *MeshCell) antiderivativeComponent(re, im, outRe, outIm []float64) {
	m := len(re)
	fft := fourier.NewCmplxFFT(m)
	seq := make([]complex128, m)
	for i := range seq {
		seq[i] = complex(re[i], im[i])
	}
	coeffs := fft.Coefficients(nil, seq)
	omega := 2 * math.Pi / (float64(m) * K.H())
	for k := range coeffs {
		freq := k
		if k > m/2 {
			freq = k - m
		}
		if freq == 0 || (m%2 == 0 && k == m/2) {
			coeffs[k] = 0
			continue
		}
		coeffs[k] /= complex(0, float64(freq)*omega)
	}
	fft.Sequence(seq, coeffs)
	var mean complex128
	for i := range seq {
		seq[i] /= complex(float64(m), 0)
		mean += seq[i]
	}
	mean /= complex(float64(m), 0)
	for i := range seq {
		v := seq[i] - mean
		outRe[i] = real(v)
		outIm[i] = imag(v)
	}
}
