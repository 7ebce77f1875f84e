/*
NAME
  dtmf.go

DESCRIPTION
  dtmf.go implements an auxiliary dual-tone modulator/demodulator
  sharing the same framing and FEC contract as the primary FSK modem,
  using a 16 low x 16 high tone table (one nibble per band), edge
  tapering and AGC normalization.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dtmf implements a dual-tone auxiliary modulator for the
// acoustic modem: each symbol selects one of 16 low and 16 high
// frequencies, one nibble per band, so a symbol carries a full byte
// losslessly, with raised-cosine edge tapering and RMS normalization
// before analysis, matching the reference implementation's DTMF
// transport.
package dtmf

import (
	"fmt"
	"math"

	"github.com/ausocean/audiomodem/codec/modem"
)

// Tone table and timing constants. nibbleFreqs gives 16 frequencies
// per band so each band's Goertzel bin maps 1:1 onto a nibble value;
// a byte is therefore always recoverable exactly.
const (
	sampleRate       = modem.SampleRate
	symbolSamples    = 3200 // 200ms at 16kHz.
	nibbleFreqs      = 16
	lowBandStart     = 600.0
	lowBandStep      = 60.0
	highBandStart    = 1900.0
	highBandStep     = 70.0
	toneAmplitude    = 0.35
	edgeTaperRatio   = 0.08
	minTaperSamples  = 32
	targetRMS        = 0.5
	minRMS           = 1e-4
	analysisTaperPct = 0.06
)

// lowFreq returns the low-band frequency in Hz for nibble value i
// (0-15), selected by a symbol's high nibble.
func lowFreq(i int) float64 { return lowBandStart + float64(i)*lowBandStep }

// highFreq returns the high-band frequency in Hz for nibble value i
// (0-15), selected by a symbol's low nibble.
func highFreq(i int) float64 { return highBandStart + float64(i)*highBandStep }

// Modulator renders bytes as dual-tone symbols, one byte per symbol:
// the high nibble selects the low-band frequency, the low nibble
// selects the high-band frequency.
type Modulator struct{}

// ModulateSymbol renders byte b as symbolSamples of dual-tone audio
// with raised-cosine edge tapering.
func (Modulator) ModulateSymbol(b byte) []float32 {
	lf, hf := lowFreq(int(b>>4)), highFreq(int(b&0x0F))

	out := make([]float32, symbolSamples)
	wl := 2 * math.Pi * lf / sampleRate
	wh := 2 * math.Pi * hf / sampleRate
	for i := range out {
		out[i] = float32(toneAmplitude * (math.Sin(wl*float64(i)) + math.Sin(wh*float64(i))) / 2)
	}
	taper(out)
	return out
}

// Modulate renders data as a contiguous sequence of dual-tone
// symbols, one byte per symbol.
func (m Modulator) Modulate(data []byte) []float32 {
	out := make([]float32, 0, len(data)*symbolSamples)
	for _, b := range data {
		out = append(out, m.ModulateSymbol(b)...)
	}
	return out
}

// taper applies a raised-cosine edge taper in place to reduce spectral
// splatter between adjacent symbols.
func taper(samples []float32) {
	n := int(float64(len(samples)) * edgeTaperRatio)
	if n < minTaperSamples {
		n = minTaperSamples
	}
	if n > len(samples)/2 {
		n = len(samples) / 2
	}
	for i := 0; i < n; i++ {
		w := float32(0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(n))))
		samples[i] *= w
		samples[len(samples)-1-i] *= w
	}
}

// Demodulator recovers bytes from dual-tone audio via per-frequency
// Goertzel energy detection, after RMS-normalizing each symbol.
type Demodulator struct{}

func goertzel(samples []float32, freqHz float64) float64 {
	n := len(samples)
	k := int(0.5 + float64(n)*freqHz/sampleRate)
	w := 2 * math.Pi * float64(k) / float64(n)
	coeff := 2 * math.Cos(w)

	var s0, s1, s2 float64
	for _, x := range samples {
		s0 = coeff*s1 - s2 + float64(x)
		s2 = s1
		s1 = s0
	}
	return s1*s1 + s2*s2 - coeff*s1*s2
}

// normalizeRMS scales samples so their RMS matches targetRMS, unless
// the input is near silent.
func normalizeRMS(samples []float32) []float32 {
	var sumSq float64
	for _, v := range samples {
		sumSq += float64(v) * float64(v)
	}
	rms := math.Sqrt(sumSq / float64(len(samples)))
	if rms < minRMS {
		return samples
	}
	gain := float32(targetRMS / rms)
	out := make([]float32, len(samples))
	for i, v := range samples {
		out[i] = v * gain
	}
	return out
}

// DemodulateSymbol recovers the byte encoded in one symbol's worth of
// samples (len(samples) must equal symbolSamples).
func (Demodulator) DemodulateSymbol(samples []float32) (byte, error) {
	if len(samples) != symbolSamples {
		return 0, fmt.Errorf("dtmf: symbol of %d samples, want %d", len(samples), symbolSamples)
	}
	taperN := int(float64(len(samples)) * analysisTaperPct)
	analysis := samples
	if taperN > 0 && taperN*2 < len(samples) {
		analysis = samples[taperN : len(samples)-taperN]
	}
	analysis = normalizeRMS(analysis)

	bestLow, bestLowPower := 0, -1.0
	for i := 0; i < nibbleFreqs; i++ {
		if p := goertzel(analysis, lowFreq(i)); p > bestLowPower {
			bestLowPower, bestLow = p, i
		}
	}
	bestHigh, bestHighPower := 0, -1.0
	for i := 0; i < nibbleFreqs; i++ {
		if p := goertzel(analysis, highFreq(i)); p > bestHighPower {
			bestHighPower, bestHigh = p, i
		}
	}
	return byte(bestLow<<4) | byte(bestHigh), nil
}

// Demodulate recovers bytes from a contiguous sequence of whole DTMF
// symbols. len(samples) must be a multiple of symbolSamples.
func (d Demodulator) Demodulate(samples []float32) ([]byte, error) {
	if len(samples)%symbolSamples != 0 {
		return nil, fmt.Errorf("dtmf: %d samples is not a multiple of symbol length %d", len(samples), symbolSamples)
	}
	out := make([]byte, 0, len(samples)/symbolSamples)
	for i := 0; i < len(samples); i += symbolSamples {
		b, err := d.DemodulateSymbol(samples[i : i+symbolSamples])
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Encoder wraps a payload in the shared frame/FEC contract and
// modulates it as DTMF audio, bracketed by the shared preamble and
// postamble markers.
type Encoder struct {
	mod      Modulator
	frameNum uint16
}

// NewEncoder returns a ready-to-use Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Encode frames, FEC-encodes and DTMF-modulates payload.
func (e *Encoder) Encode(payload []byte) ([]float32, error) {
	blockBytes, _, err := modem.EncodeFrameBlocks(payload, e.frameNum)
	if err != nil {
		return nil, err
	}
	e.frameNum++

	out := make([]float32, 0, len(modem.GeneratePreamble())+len(blockBytes)*symbolSamples+len(modem.GeneratePostamble()))
	out = append(out, modem.GeneratePreamble()...)
	out = append(out, e.mod.Modulate(blockBytes)...)
	out = append(out, modem.GeneratePostamble()...)
	return out, nil
}

// Decoder recovers a payload from DTMF audio produced by Encoder.
type Decoder struct {
	demod       Demodulator
	preambleTh  modem.DetectionThreshold
	postambleTh modem.DetectionThreshold
}

// NewDecoder returns a Decoder using adaptive detection thresholds.
func NewDecoder() *Decoder {
	return &Decoder{preambleTh: modem.AdaptiveThreshold(), postambleTh: modem.AdaptiveThreshold()}
}

// Decode locates the shared preamble/postamble pair, demodulates the
// DTMF data between them, and returns the recovered payload.
func (d *Decoder) Decode(samples []float32) ([]byte, error) {
	if len(samples) < 2*modem.PreambleSamples {
		return nil, fmt.Errorf("dtmf: need at least %d samples, got %d", 2*modem.PreambleSamples, len(samples))
	}
	preStart, err := modem.DetectPreamble(samples, d.preambleTh)
	if err != nil {
		return nil, err
	}
	dataStart := preStart + modem.PreambleSamples
	remainder := samples[dataStart:]
	postStart, err := modem.DetectPostamble(remainder, d.postambleTh)
	if err != nil {
		return nil, err
	}

	dataSamples := remainder[:postStart]
	usable := (len(dataSamples) / symbolSamples) * symbolSamples
	dataSamples = dataSamples[:usable]

	blockBytes, err := d.demod.Demodulate(dataSamples)
	if err != nil {
		return nil, err
	}
	return modem.DecodeFrameBlocks(blockBytes)
}
