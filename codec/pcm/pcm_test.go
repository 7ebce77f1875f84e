/*
NAME
  pcm_test.go

DESCRIPTION
  pcm_test.go contains functions for testing the pcm package.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pcm

import (
	"encoding/binary"
	"testing"
)

// TestResample checks that downsampling a synthetic S16_LE tone
// produces the expected number of samples and leaves the sample rate
// and channel count updated.
func TestResample(t *testing.T) {
	const inRate, outRate, channels = 48000, 8000, 1
	data := make([]byte, 480*2) // 480 S16_LE samples.
	for i := 0; i < len(data); i += 2 {
		binary.LittleEndian.PutUint16(data[i:i+2], uint16(1000))
	}

	buf := Buffer{
		Format: BufferFormat{Channels: channels, Rate: inRate, SFormat: S16_LE},
		Data:   data,
	}

	resampled, err := Resample(buf, outRate)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if resampled.Format.Rate != outRate {
		t.Errorf("resampled rate = %d, want %d", resampled.Format.Rate, outRate)
	}
	wantLen := len(data) / (inRate / outRate)
	if len(resampled.Data) != wantLen {
		t.Errorf("resampled length = %d, want %d", len(resampled.Data), wantLen)
	}
	// A constant input tone downsamples to the same constant value.
	for i := 0; i < len(resampled.Data); i += 2 {
		if got := int16(binary.LittleEndian.Uint16(resampled.Data[i : i+2])); got != 1000 {
			t.Errorf("resampled sample %d = %d, want 1000", i/2, got)
		}
	}
}

// TestStereoToMono checks that only the left channel of a synthetic
// stereo S16_LE buffer survives the conversion.
func TestStereoToMono(t *testing.T) {
	const frames = 4
	data := make([]byte, frames*4) // 2 channels * 2 bytes, S16_LE.
	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint16(data[4*i:4*i+2], uint16(100+i))   // left
		binary.LittleEndian.PutUint16(data[4*i+2:4*i+4], uint16(900+i)) // right
	}

	buf := Buffer{
		Format: BufferFormat{Channels: 2, Rate: 44100, SFormat: S16_LE},
		Data:   data,
	}

	mono, err := StereoToMono(buf)
	if err != nil {
		t.Fatalf("StereoToMono: %v", err)
	}
	if mono.Format.Channels != 1 {
		t.Errorf("mono channels = %d, want 1", mono.Format.Channels)
	}
	if len(mono.Data) != frames*2 {
		t.Fatalf("mono data length = %d, want %d", len(mono.Data), frames*2)
	}
	for i := 0; i < frames; i++ {
		got := int16(binary.LittleEndian.Uint16(mono.Data[2*i : 2*i+2]))
		if want := int16(100 + i); got != want {
			t.Errorf("mono sample %d = %d, want %d", i, got, want)
		}
	}
}

func TestToFloat32(t *testing.T) {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint16(data[0:2], uint16(int16(16384)))  // 0.5
	binary.LittleEndian.PutUint16(data[2:4], uint16(int16(-16384))) // -0.5

	buf := Buffer{Format: BufferFormat{Channels: 1, Rate: 16000, SFormat: S16_LE}, Data: data}
	out, err := ToFloat32(buf)
	if err != nil {
		t.Fatalf("ToFloat32: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d samples, want 2", len(out))
	}
	if out[0] != 0.5 {
		t.Errorf("out[0] = %v, want 0.5", out[0])
	}
	if out[1] != -0.5 {
		t.Errorf("out[1] = %v, want -0.5", out[1])
	}
}

func TestToFloat32RejectsStereo(t *testing.T) {
	buf := Buffer{Format: BufferFormat{Channels: 2, Rate: 16000, SFormat: S16_LE}, Data: make([]byte, 4)}
	if _, err := ToFloat32(buf); err == nil {
		t.Fatalf("ToFloat32 on stereo input: want error, got nil")
	}
}
