/*
NAME
  sync.go

DESCRIPTION
  sync.go generates the preamble/postamble chirp signals and detects
  them in a sample buffer via FFT cross-correlation, with either an
  adaptive (noise-floor-relative) or fixed (energy-relative) detection
  threshold.

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

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ThresholdKind selects how Decoder recognizes a preamble/postamble
// correlation peak as genuine.
type ThresholdKind int

const (
	// Adaptive flags detection when the correlation peak exceeds the
	// median of |correlation| by a factor of adaptiveRatio.
	Adaptive ThresholdKind = iota
	// Fixed flags detection when the correlation peak exceeds Tau
	// times the reference template's energy.
	Fixed
)

// adaptiveRatio is the minimum peak-to-median ratio for Adaptive
// detection to fire.
const adaptiveRatio = 20.0

// DetectionThreshold configures preamble/postamble detection.
type DetectionThreshold struct {
	Kind ThresholdKind
	Tau  float64 // only used when Kind == Fixed; clamped to [0.001, 1.0].
}

// AdaptiveThreshold returns the default noise-floor-relative
// detection threshold.
func AdaptiveThreshold() DetectionThreshold {
	return DetectionThreshold{Kind: Adaptive}
}

// FixedThreshold returns an energy-relative detection threshold, with
// tau clamped to [0.001, 1.0].
func FixedThreshold(tau float64) DetectionThreshold {
	if tau < 0.001 {
		tau = 0.001
	}
	if tau > 1.0 {
		tau = 1.0
	}
	return DetectionThreshold{Kind: Fixed, Tau: tau}
}

// generateChirp renders a linear frequency sweep from startHz to
// endHz over n samples at SampleRate.
func generateChirp(startHz, endHz float64, n int) []float32 {
	out := make([]float32, n)
	duration := float64(n) / SampleRate
	k := (endHz - startHz) / duration // chirp rate, Hz/s.
	for i := range out {
		t := float64(i) / SampleRate
		phase := 2 * math.Pi * (startHz*t + 0.5*k*t*t)
		out[i] = float32(math.Sin(phase))
	}
	return out
}

// GeneratePreamble returns the 250ms 200Hz->4000Hz linear chirp used
// to mark the start of a transmission.
func GeneratePreamble() []float32 {
	return generateChirp(preambleStartHz, preambleEndHz, PreambleSamples)
}

// GeneratePostamble returns the time-reversed preamble chirp, chosen
// so its correlation peak against the preamble template differs by at
// least 4x, avoiding cross-detection between the two markers.
func GeneratePostamble() []float32 {
	pre := GeneratePreamble()
	post := make([]float32, len(pre))
	for i, v := range pre {
		post[len(post)-1-i] = v
	}
	return post
}

// detectMarker finds the first occurrence of template within samples
// using FFT cross-correlation, returning the sample index at which
// the template begins.
func detectMarker(samples []float32, template []float32, th DetectionThreshold, notFound error) (int, error) {
	if len(samples) < len(template) {
		return 0, fmt.Errorf("%w: %d samples shorter than template of %d", ErrInsufficientData, len(samples), len(template))
	}

	x := toFloat64(samples)
	ref := toFloat64(template)
	corr := correlate(x, ref, ModeValid)
	if len(corr) == 0 {
		return 0, notFound
	}

	peakIdx, peakVal := 0, math.Abs(corr[0])
	for i, v := range corr {
		av := math.Abs(v)
		if av > peakVal {
			peakVal = av
			peakIdx = i
		}
	}

	switch th.Kind {
	case Fixed:
		energy := 0.0
		for _, v := range ref {
			energy += v * v
		}
		if peakVal < th.Tau*energy {
			return 0, notFound
		}
	default: // Adaptive
		abs := make([]float64, len(corr))
		for i, v := range corr {
			abs[i] = math.Abs(v)
		}
		sort.Float64s(abs)
		median := stat.Quantile(0.5, stat.Empirical, abs, nil)
		if median <= 0 || peakVal/median < adaptiveRatio {
			return 0, notFound
		}
	}

	// Several equal markers may be present (e.g. a fountain stream);
	// report the first: the first position reaching half the peak,
	// advanced to its local maximum.
	first := peakIdx
	for i, v := range corr {
		if math.Abs(v) >= 0.5*peakVal {
			first = i
			break
		}
	}
	for first+1 < len(corr) && math.Abs(corr[first+1]) > math.Abs(corr[first]) {
		first++
	}
	return first, nil
}

// DetectPreamble locates the preamble chirp within samples.
func DetectPreamble(samples []float32, th DetectionThreshold) (int, error) {
	return detectMarker(samples, GeneratePreamble(), th, ErrPreambleNotFound)
}

// DetectPostamble locates the postamble chirp within samples.
func DetectPostamble(samples []float32, th DetectionThreshold) (int, error) {
	return detectMarker(samples, GeneratePostamble(), th, ErrPostambleNotFound)
}

// toFloat64 widens a float32 sample slice to float64 for FFT
// processing.
func toFloat64(x []float32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}
