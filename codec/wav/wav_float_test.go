/*
NAME
  wav_float_test.go

DESCRIPTION
  wav_float_test.go tests the 32-bit IEEE-float mono container used by
  the acoustic modem's collaborator WAV I/O.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package wav

import (
	"math"
	"testing"
)

func TestEncodeDecodeFloat32MonoRoundTrip(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1, 0.125}

	data, err := EncodeFloat32Mono(samples, 16000)
	if err != nil {
		t.Fatalf("EncodeFloat32Mono: %v", err)
	}

	got, rate, err := DecodeFloat32Mono(data)
	if err != nil {
		t.Fatalf("DecodeFloat32Mono: %v", err)
	}
	if rate != 16000 {
		t.Errorf("sample rate = %d, want 16000", rate)
	}
	if len(got) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(got), len(samples))
	}
	for i := range samples {
		if math.Abs(float64(got[i]-samples[i])) > 1e-9 {
			t.Errorf("sample %d = %v, want %v", i, got[i], samples[i])
		}
	}
}

func TestDecodeFloat32MonoRejectsWrongFormat(t *testing.T) {
	w := &WAV{Metadata: Metadata{AudioFormat: PCMFormat, Channels: 1, SampleRate: 16000, BitDepth: 16}}
	if _, err := w.Write([]byte{0, 0}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, _, err := DecodeFloat32Mono(w.Audio); err == nil {
		t.Fatalf("DecodeFloat32Mono on PCM data: want error, got nil")
	}
}

func TestReadRejectsNonRIFF(t *testing.T) {
	if err := (&WAV{}).Read([]byte("not a wav file")); err != errNotRIFF {
		t.Errorf("Read on garbage input: err = %v, want %v", err, errNotRIFF)
	}
}
