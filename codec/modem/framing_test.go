/*
NAME
  framing_test.go

DESCRIPTION
  framing_test.go tests frame construction, encoding and decoding.

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
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewFrameSelectsFECMode(t *testing.T) {
	cases := []struct {
		payloadLen int
		want       FECMode
	}{
		{5, FECLight},
		{30, FECMedium},
		{150, FECFull},
	}
	for _, c := range cases {
		f, err := NewFrame(bytes.Repeat([]byte{0x01}, c.payloadLen), 0)
		if err != nil {
			t.Fatalf("NewFrame(%d bytes): %v", c.payloadLen, err)
		}
		if f.FECMode != c.want {
			t.Errorf("NewFrame(%d bytes): FECMode = %v, want %v", c.payloadLen, f.FECMode, c.want)
		}
	}
}

// TestFECModeForSizeBoundaries exercises the exact data_size boundary
// values from spec: 19 bytes selects Light, 20 and 49 select Medium,
// 50 selects Full. data_size is header(8) + payload + crc(2).
func TestFECModeForSizeBoundaries(t *testing.T) {
	cases := []struct {
		dataSize int
		want     FECMode
	}{
		{19, FECLight},
		{20, FECMedium},
		{49, FECMedium},
		{50, FECFull},
	}
	for _, c := range cases {
		if got := FECModeForSize(c.dataSize); got != c.want {
			t.Errorf("FECModeForSize(%d) = %v, want %v", c.dataSize, got, c.want)
		}
	}
}

func TestNewFrameRejectsOversizedPayload(t *testing.T) {
	_, err := NewFrame(make([]byte, MaxPayloadSize+1), 0)
	if !errors.Is(err, ErrInvalidInputSize) {
		t.Fatalf("NewFrame with oversized payload: err = %v, want ErrInvalidInputSize", err)
	}
}

func TestFrameEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte("hello, acoustic modem")
	f, err := NewFrame(payload, 42)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	encoded := f.Encode()
	decoded, err := DecodeFrame(encoded)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}

	if diff := cmp.Diff(f.Payload, decoded.Payload); diff != "" {
		t.Errorf("Payload mismatch (-want +got):\n%s", diff)
	}
	if decoded.FrameNum != f.FrameNum {
		t.Errorf("FrameNum = %d, want %d", decoded.FrameNum, f.FrameNum)
	}
	if decoded.FECMode != f.FECMode {
		t.Errorf("FECMode = %v, want %v", decoded.FECMode, f.FECMode)
	}
}

func TestDecodeFrameDetectsCRCMismatch(t *testing.T) {
	f, err := NewFrame([]byte("payload"), 1)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	encoded := f.Encode()
	encoded[FrameHeaderSize] ^= 0xFF // corrupt first payload byte.

	_, err = DecodeFrame(encoded)
	if !errors.Is(err, ErrPayloadCRCMismatch) {
		t.Fatalf("DecodeFrame with corrupted payload: err = %v, want ErrPayloadCRCMismatch", err)
	}
}

func TestDecodeFrameRejectsTruncatedInput(t *testing.T) {
	_, err := DecodeFrame([]byte{0, 1})
	if !errors.Is(err, ErrInvalidFrameSize) {
		t.Fatalf("DecodeFrame with truncated input: err = %v, want ErrInvalidFrameSize", err)
	}
}

func TestCRC16KnownVectors(t *testing.T) {
	// Empty input leaves the CRC register at its initial value.
	if got := crc16(nil); got != 0xFFFF {
		t.Errorf("crc16(nil) = %#04x, want %#04x", got, 0xFFFF)
	}
	// CRC-16/CCITT-FALSE of "123456789" is the standard check vector
	// for init 0xFFFF, poly 0x1021, no reflection, no final XOR.
	if got := crc16([]byte("123456789")); got != 0x29B1 {
		t.Errorf("crc16(\"123456789\") = %#04x, want %#04x", got, 0x29B1)
	}
}

func TestDecodeFrameRejectsOversizedPayloadLen(t *testing.T) {
	f, err := NewFrame([]byte("payload"), 1)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	encoded := f.Encode()
	binary.BigEndian.PutUint16(encoded[0:2], MaxPayloadSize+50)
	encoded = append(encoded, make([]byte, 50)...)

	_, err = DecodeFrame(encoded)
	if !errors.Is(err, ErrInvalidFrameSize) {
		t.Fatalf("DecodeFrame with payload_len > max: err = %v, want ErrInvalidFrameSize", err)
	}
}

func TestDecodeFrameRejectsInvalidFECMode(t *testing.T) {
	f, err := NewFrame([]byte("payload"), 1)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	encoded := f.Encode()
	encoded[4] = 7 // not one of {8,16,32}.

	_, err = DecodeFrame(encoded)
	if !errors.Is(err, ErrInvalidFrameSize) {
		t.Fatalf("DecodeFrame with invalid fec_mode: err = %v, want ErrInvalidFrameSize", err)
	}
}

func TestDecodeFrameRejectsDirtyReservedBytes(t *testing.T) {
	f, err := NewFrame([]byte("payload"), 1)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	encoded := f.Encode()
	encoded[6] = 1

	_, err = DecodeFrame(encoded)
	if !errors.Is(err, ErrInvalidFrameSize) {
		t.Fatalf("DecodeFrame with dirty reserved bytes: err = %v, want ErrInvalidFrameSize", err)
	}
}
