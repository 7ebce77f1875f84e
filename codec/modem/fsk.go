/*
NAME
  fsk.go

DESCRIPTION
  fsk.go implements the 6-tone FSK modulator and Goertzel-based
  demodulator used to carry bytes as audio samples.

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
)

// binFreq returns the center frequency in Hz of FSK frequency bin
// bin (0-indexed across the full FSKNumBins range).
func binFreq(bin int) float64 {
	return FSKBaseFreq + float64(bin)*FSKFreqDelta
}

// FSKModulator renders bytes as 6-tone FSK audio.
type FSKModulator struct{}

// ModulateSymbol renders the 3 bytes in sym (6 nibbles, one tone per
// band) as FSKSymbolSamples samples.
func (FSKModulator) ModulateSymbol(sym [FSKBytesPerSymbol]byte) []float32 {
	nibbles := bytesToNibbles(sym)
	samples := make([]float32, FSKSymbolSamples)
	for band, nibble := range nibbles {
		bin := band*FSKBinsPerBand + int(nibble)
		freq := binFreq(bin)
		w := 2 * math.Pi * freq / SampleRate
		for i := range samples {
			samples[i] += float32(fskToneAmplitude * math.Sin(w*float64(i)))
		}
	}
	return samples
}

// Modulate renders data (padded with zero bytes to a multiple of
// FSKBytesPerSymbol) as a contiguous sequence of FSK symbols.
func (m FSKModulator) Modulate(data []byte) []float32 {
	padded := padToMultiple(data, FSKBytesPerSymbol)
	out := make([]float32, 0, (len(padded)/FSKBytesPerSymbol)*FSKSymbolSamples)
	for i := 0; i < len(padded); i += FSKBytesPerSymbol {
		var sym [FSKBytesPerSymbol]byte
		copy(sym[:], padded[i:i+FSKBytesPerSymbol])
		out = append(out, m.ModulateSymbol(sym)...)
	}
	return out
}

// FSKDemodulator recovers bytes from 6-tone FSK audio via per-bin
// Goertzel energy detection.
type FSKDemodulator struct{}

// goertzel returns the power of samples at frequency freqHz (Hz),
// sampled at SampleRate.
func goertzel(samples []float32, freqHz float64) float64 {
	n := len(samples)
	k := int(0.5 + float64(n)*freqHz/SampleRate)
	w := 2 * math.Pi * float64(k) / float64(n)
	cosine := math.Cos(w)
	coeff := 2 * cosine

	var s0, s1, s2 float64
	for _, x := range samples {
		s0 = coeff*s1 - s2 + float64(x)
		s2 = s1
		s1 = s0
	}
	power := s1*s1 + s2*s2 - coeff*s1*s2
	return power
}

// DemodulateSymbol recovers the 3 bytes encoded in one symbol's worth
// of samples (len(samples) must equal FSKSymbolSamples).
func (FSKDemodulator) DemodulateSymbol(samples []float32) ([FSKBytesPerSymbol]byte, error) {
	var sym [FSKBytesPerSymbol]byte
	if len(samples) != FSKSymbolSamples {
		return sym, fmt.Errorf("%w: symbol of %d samples, want %d", ErrInvalidInputSize, len(samples), FSKSymbolSamples)
	}

	var nibbles [FSKNibblesPerSym]byte
	for band := 0; band < FSKNibblesPerSym; band++ {
		best := -1
		bestPower := -1.0
		for i := 0; i < FSKBinsPerBand; i++ {
			bin := band*FSKBinsPerBand + i
			power := goertzel(samples, binFreq(bin))
			if power > bestPower {
				bestPower = power
				best = i
			}
		}
		nibbles[band] = byte(best)
	}
	return nibblesToBytes(nibbles), nil
}

// Demodulate recovers bytes from a contiguous sequence of whole FSK
// symbols. len(samples) must be a multiple of FSKSymbolSamples.
func (d FSKDemodulator) Demodulate(samples []float32) ([]byte, error) {
	if len(samples)%FSKSymbolSamples != 0 {
		return nil, fmt.Errorf("%w: %d samples is not a multiple of symbol length %d", ErrInvalidInputSize, len(samples), FSKSymbolSamples)
	}
	out := make([]byte, 0, (len(samples)/FSKSymbolSamples)*FSKBytesPerSymbol)
	for i := 0; i < len(samples); i += FSKSymbolSamples {
		sym, err := d.DemodulateSymbol(samples[i : i+FSKSymbolSamples])
		if err != nil {
			return nil, err
		}
		out = append(out, sym[:]...)
	}
	return out, nil
}

// bytesToNibbles splits 3 bytes into 6 nibbles, high nibble of each
// byte first.
func bytesToNibbles(b [FSKBytesPerSymbol]byte) [FSKNibblesPerSym]byte {
	var n [FSKNibblesPerSym]byte
	for i, v := range b {
		n[2*i] = v >> 4
		n[2*i+1] = v & 0x0F
	}
	return n
}

// nibblesToBytes packs 6 nibbles back into 3 bytes.
func nibblesToBytes(n [FSKNibblesPerSym]byte) [FSKBytesPerSymbol]byte {
	var b [FSKBytesPerSymbol]byte
	for i := range b {
		b[i] = (n[2*i] << 4) | (n[2*i+1] & 0x0F)
	}
	return b
}

// padToMultiple returns data padded with zero bytes so its length is
// a multiple of n.
func padToMultiple(data []byte, n int) []byte {
	rem := len(data) % n
	if rem == 0 {
		return data
	}
	out := make([]byte, len(data)+(n-rem))
	copy(out, data)
	return out
}
