/*
NAME
  fec_test.go

DESCRIPTION
  fec_test.go tests the length-prefixed multi-block FEC wrapper and
  FEC-mode autodetection.

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
	"testing"
)

func TestEncodeDecodeBlocksRoundTrip(t *testing.T) {
	for _, mode := range []FECMode{FECLight, FECMedium, FECFull} {
		data := bytes.Repeat([]byte("frame-data-"), 30) // exercises multiple RS blocks.
		enc, err := encodeBlocks(data, mode)
		if err != nil {
			t.Fatalf("mode %v: encodeBlocks: %v", mode, err)
		}
		dec, err := decodeBlocks(enc, mode)
		if err != nil {
			t.Fatalf("mode %v: decodeBlocks: %v", mode, err)
		}
		if !bytes.Equal(dec, data) {
			t.Fatalf("mode %v: decodeBlocks = %q, want %q", mode, dec, data)
		}
	}
}

func TestDetectFECModeFindsCorrectMode(t *testing.T) {
	f, err := NewFrame([]byte("probe"), 7)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	enc, err := encodeBlocks(f.Encode(), f.FECMode)
	if err != nil {
		t.Fatalf("encodeBlocks: %v", err)
	}

	mode, frameBytes, err := detectFECMode(enc)
	if err != nil {
		t.Fatalf("detectFECMode: %v", err)
	}
	if mode != f.FECMode {
		t.Errorf("detected mode = %v, want %v", mode, f.FECMode)
	}
	decoded, err := DecodeFrame(frameBytes)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if string(decoded.Payload) != "probe" {
		t.Errorf("decoded payload = %q, want %q", decoded.Payload, "probe")
	}
}
