/*
NAME
  sync_test.go

DESCRIPTION
  sync_test.go tests preamble/postamble generation and detection.

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

import "testing"

func TestDetectPreambleAtKnownOffset(t *testing.T) {
	silence := make([]float32, 4000)
	pre := GeneratePreamble()
	tail := make([]float32, 2000)

	samples := append(append(append([]float32{}, silence...), pre...), tail...)

	pos, err := DetectPreamble(samples, AdaptiveThreshold())
	if err != nil {
		t.Fatalf("DetectPreamble: %v", err)
	}
	if pos != len(silence) {
		t.Errorf("DetectPreamble position = %d, want %d", pos, len(silence))
	}
}

func TestDetectPreambleNotFoundInSilence(t *testing.T) {
	samples := make([]float32, 20000)
	_, err := DetectPreamble(samples, AdaptiveThreshold())
	if err == nil {
		t.Fatalf("DetectPreamble in silence: want error, got nil")
	}
}

func TestPreambleAndPostambleDiffer(t *testing.T) {
	pre := GeneratePreamble()
	post := GeneratePostamble()
	x := toFloat64(pre)
	r := toFloat64(post)
	corr := correlate(x, r, ModeValid)
	selfCorr := correlate(x, toFloat64(pre), ModeValid)
	if len(corr) == 0 || len(selfCorr) == 0 {
		t.Fatalf("correlate returned empty result")
	}
	// The postamble must not look like the preamble: its peak
	// correlation against the preamble template should be markedly
	// smaller than the preamble's self-correlation peak.
	var crossPeak, selfPeak float64
	for _, v := range corr {
		if v < 0 {
			v = -v
		}
		if v > crossPeak {
			crossPeak = v
		}
	}
	for _, v := range selfCorr {
		if v < 0 {
			v = -v
		}
		if v > selfPeak {
			selfPeak = v
		}
	}
	if crossPeak*4 > selfPeak {
		t.Errorf("postamble/preamble cross-correlation peak %v too close to preamble self-correlation peak %v", crossPeak, selfPeak)
	}
}
