/*
NAME
  dtmf_test.go

DESCRIPTION
  dtmf_test.go tests the dual-tone modulator/demodulator round-trip
  and its shared frame/FEC contract with the FSK modem.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dtmf

import (
	"bytes"
	"testing"
)

// TestSymbolRoundTrip exercises every possible byte value through
// ModulateSymbol/DemodulateSymbol in the absence of noise, including
// the values the 48-symbol alphabet previously aliased (e.g. 0x8F).
func TestSymbolRoundTrip(t *testing.T) {
	var mod Modulator
	var demod Demodulator
	for b := 0; b < 256; b++ {
		samples := mod.ModulateSymbol(byte(b))
		got, err := demod.DemodulateSymbol(samples)
		if err != nil {
			t.Fatalf("DemodulateSymbol(%#02x): %v", b, err)
		}
		if got != byte(b) {
			t.Fatalf("DemodulateSymbol(ModulateSymbol(%#02x)) = %#02x, want %#02x", b, got, b)
		}
	}
}

func TestStreamRoundTrip(t *testing.T) {
	var mod Modulator
	var demod Demodulator
	data := []byte{0x00, 0x8F, 0xFF, 0x27, 0x10, 0x55, 0xAA}

	samples := mod.Modulate(data)
	got, err := demod.Demodulate(samples)
	if err != nil {
		t.Fatalf("Demodulate: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("Demodulate(Modulate(data)) = %#v, want %#v", got, data)
	}
}

// TestEncodeDecodeRoundTrip exercises the full shared framing/FEC
// contract end to end over the DTMF channel.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte("Hello over DTMF!")

	enc := NewEncoder()
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
		t.Fatalf("Decode(Encode(payload)) = %q, want %q", got, payload)
	}
}
