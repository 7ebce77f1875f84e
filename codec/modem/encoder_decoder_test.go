/*
NAME
  encoder_decoder_test.go

DESCRIPTION
  encoder_decoder_test.go tests the full Encoder/Decoder round trip,
  including decoding in the presence of injected sample noise.

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
	"bytes"
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc := NewEncoder()
	payload := []byte("the acoustic modem carries this message")

	samples, err := enc.Encode(payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	dec := NewDecoder()
	got, err := dec.Decode(samples)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Decode = %q, want %q", got, payload)
	}
}

func TestEncodeDecodeRoundTripWithLeadingAndTrailingSilence(t *testing.T) {
	enc := NewEncoder()
	payload := []byte("short")
	samples, err := enc.Encode(payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	padded := make([]float32, 0, len(samples)+6000)
	padded = append(padded, make([]float32, 3000)...)
	padded = append(padded, samples...)
	padded = append(padded, make([]float32, 3000)...)

	dec := NewDecoder()
	got, err := dec.Decode(padded)
	if err != nil {
		t.Fatalf("Decode with silence padding: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Decode = %q, want %q", got, payload)
	}
}

func TestDecodeRejectsTooShortBuffer(t *testing.T) {
	dec := NewDecoder()
	_, err := dec.Decode(make([]float32, 100))
	if err == nil {
		t.Fatalf("Decode with too-short buffer: want error, got nil")
	}
}

// TestEncodeDecodeBoundaryPayloadSizes exercises the payload-length
// boundaries called out by spec: each listed size up to and including
// MaxPayloadSize round-trips. Rejection of MaxPayloadSize+1 is checked
// by TestEncodeRejectsPayloadOverMax.
func TestEncodeDecodeBoundaryPayloadSizes(t *testing.T) {
	for _, n := range []int{0, 1, 3, 19, 20, 49, 50, 199, 200} {
		payload := bytes.Repeat([]byte{0x42}, n)

		enc := NewEncoder()
		samples, err := enc.Encode(payload)
		if err != nil {
			t.Fatalf("Encode(%d bytes): %v", n, err)
		}

		dec := NewDecoder()
		got, err := dec.Decode(samples)
		if err != nil {
			t.Fatalf("Decode(%d bytes): %v", n, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("round trip of %d byte payload: got %q, want %q", n, got, payload)
		}
	}
}

func TestEncodeRejectsPayloadOverMax(t *testing.T) {
	enc := NewEncoder()
	_, err := enc.Encode(make([]byte, MaxPayloadSize+1))
	if !errors.Is(err, ErrInvalidInputSize) {
		t.Fatalf("Encode(%d bytes): err = %v, want ErrInvalidInputSize", MaxPayloadSize+1, err)
	}
}

// TestDecodeSurvivesAdditiveNoise adds Gaussian noise at roughly 15dB
// SNR to an encoded signal and checks the payload still decodes
// exactly: the Goertzel detector integrates over a whole symbol
// (4704 samples), giving enough processing gain that this SNR leaves
// each tone's winning bin undisturbed.
func TestDecodeSurvivesAdditiveNoise(t *testing.T) {
	enc := NewEncoder()
	payload := []byte("Hello, Audio Modem!")
	samples, err := enc.Encode(payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var sumSq float64
	for _, s := range samples {
		sumSq += float64(s) * float64(s)
	}
	signalRMS := math.Sqrt(sumSq / float64(len(samples)))
	const snrDB = 15.0
	noiseStd := signalRMS / math.Pow(10, snrDB/20)

	rng := rand.New(rand.NewSource(1))
	noisy := make([]float32, len(samples))
	for i, s := range samples {
		noisy[i] = s + float32(rng.NormFloat64()*noiseStd)
	}

	dec := NewDecoder()
	got, err := dec.Decode(noisy)
	if err != nil {
		t.Fatalf("Decode with additive noise: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Decode with additive noise = %q, want %q", got, payload)
	}
}
