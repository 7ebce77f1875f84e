/*
NAME
  rs_test.go

DESCRIPTION
  rs_test.go tests the shortened Reed-Solomon encoder/decoder.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package rs

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeClean(t *testing.T) {
	for _, parity := range []int{8, 16, 32} {
		data := []byte("the quick brown fox jumps over the lazy dog")
		enc, err := Encode(data, parity)
		if err != nil {
			t.Fatalf("parity %d: Encode: %v", parity, err)
		}
		if len(enc) != len(data)+parity {
			t.Fatalf("parity %d: encoded length = %d, want %d", parity, len(enc), len(data)+parity)
		}
		dec, err := Decode(enc, parity)
		if err != nil {
			t.Fatalf("parity %d: Decode clean codeword: %v", parity, err)
		}
		if !bytes.Equal(dec, data) {
			t.Fatalf("parity %d: decoded = %q, want %q", parity, dec, data)
		}
	}
}

func TestDecodeCorrectsErrors(t *testing.T) {
	parity := 16
	data := bytes.Repeat([]byte("abcdefgh"), 8) // 64 bytes.
	enc, err := Encode(data, parity)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	corrupted := append([]byte(nil), enc...)
	// Corrupt up to parity/2 symbols, spread across the codeword.
	maxErrors := parity / 2
	for i := 0; i < maxErrors; i++ {
		idx := (i * 7) % len(corrupted)
		corrupted[idx] ^= 0xFF
	}

	dec, err := Decode(corrupted, parity)
	if err != nil {
		t.Fatalf("Decode with %d errors: %v", maxErrors, err)
	}
	if !bytes.Equal(dec, data) {
		t.Fatalf("decoded = %q, want %q", dec, data)
	}
}

func TestDecodeTooManyErrorsFails(t *testing.T) {
	parity := 8
	data := bytes.Repeat([]byte{0x42}, 32)
	enc, err := Encode(data, parity)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	corrupted := append([]byte(nil), enc...)
	for i := range corrupted {
		corrupted[i] ^= 0xAA
	}

	if _, err := Decode(corrupted, parity); err == nil {
		t.Fatalf("Decode with all symbols corrupted: want error, got nil")
	}
}

func TestEncodeRejectsOversizedData(t *testing.T) {
	parity := 32
	data := make([]byte, TotalBytes-parity+1)
	if _, err := Encode(data, parity); err == nil {
		t.Fatalf("Encode with oversized data: want error, got nil")
	}
}
