/*
NAME
  correlate.go

DESCRIPTION
  correlate.go implements FFT-based cross-correlation, matching the
  semantics of scipy.signal.correlate's "full", "same" and "valid"
  modes, built on the teacher's FFT dependency.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package modem

import "github.com/mjibson/go-dsp/fft"

// CorrelateMode selects how much of the linear cross-correlation
// correlate returns, matching scipy.signal.correlate's modes.
type CorrelateMode int

const (
	// ModeFull returns the entire len(x)+len(ref)-1 correlation.
	ModeFull CorrelateMode = iota
	// ModeSame returns a slice the same length as x, centered on the
	// full correlation.
	ModeSame
	// ModeValid returns only the positions where x and ref fully
	// overlap.
	ModeValid
)

// correlate computes the cross-correlation of x against the reference
// template ref via FFT: zero-pad both to the next power of two at or
// above len(x)+len(ref)-1, multiply the forward FFT of x with the
// forward FFT of the reversed template, and inverse-transform.
func correlate(x, ref []float64, mode CorrelateMode) []float64 {
	if len(x) == 0 || len(ref) == 0 {
		return nil
	}

	outputLen := len(x) + len(ref) - 1
	fftSize := nextPow2(outputLen)

	xPad := make([]float64, fftSize)
	copy(xPad, x)

	rPad := make([]float64, fftSize)
	for i := range ref {
		rPad[i] = ref[len(ref)-1-i]
	}

	xFFT := fft.FFTReal(xPad)
	rFFT := fft.FFTReal(rPad)

	prod := make([]complex128, fftSize)
	for i := range prod {
		prod[i] = xFFT[i] * rFFT[i]
	}

	corrFull := fft.IFFT(prod)
	full := make([]float64, outputLen)
	for i := range full {
		full[i] = real(corrFull[i])
	}

	switch mode {
	case ModeFull:
		return full
	case ModeSame:
		start := (outputLen - len(x)) / 2
		return full[start : start+len(x)]
	case ModeValid:
		if len(ref) > len(x) {
			return []float64{}
		}
		start := len(ref) - 1
		n := len(x) - len(ref) + 1
		return full[start : start+n]
	default:
		return full
	}
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
