/*
NAME
  framing.go

DESCRIPTION
  framing.go implements the frame header, payload and CRC wrapping
  used to carry application data over the modem.

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
	"encoding/binary"
	"fmt"
)

// FECMode selects a shortened Reed-Solomon parity width for a frame.
type FECMode uint8

// Supported FEC modes. The wire value of each mode is its own parity
// byte count, per the frame header's fec_mode byte.
const (
	FECLight  FECMode = 8  // 8 parity bytes.
	FECMedium FECMode = 16 // 16 parity bytes.
	FECFull   FECMode = 32 // 32 parity bytes.
)

// ParityBytes returns the number of Reed-Solomon parity bytes per
// 223-byte block for m.
func (m FECMode) ParityBytes() int {
	return int(m)
}

// Valid reports whether m is one of the three supported FEC modes.
func (m FECMode) Valid() bool {
	switch m {
	case FECLight, FECMedium, FECFull:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (m FECMode) String() string {
	switch m {
	case FECLight:
		return "Light"
	case FECMedium:
		return "Medium"
	case FECFull:
		return "Full"
	default:
		return fmt.Sprintf("FECMode(%d)", uint8(m))
	}
}

// FECModeForSize selects the FEC mode for a frame whose total data
// size (header + payload + crc) is dataSize bytes: fewer than 20 bytes
// gets Light, fewer than 50 gets Medium, anything larger gets Full.
func FECModeForSize(dataSize int) FECMode {
	switch {
	case dataSize < 20:
		return FECLight
	case dataSize < 50:
		return FECMedium
	default:
		return FECFull
	}
}

// Frame is a single unit of application data ready for FEC encoding.
type Frame struct {
	PayloadLen uint16
	FrameNum   uint16
	FECMode    FECMode
	Payload    []byte
	PayloadCRC uint16
}

// NewFrame constructs a Frame around payload, selecting its FEC mode
// from the frame's total encoded size.
func NewFrame(payload []byte, frameNum uint16) (Frame, error) {
	if len(payload) > MaxPayloadSize {
		return Frame{}, fmt.Errorf("%w: payload of %d bytes exceeds max %d", ErrInvalidInputSize, len(payload), MaxPayloadSize)
	}
	dataSize := FrameHeaderSize + len(payload) + 2
	return Frame{
		PayloadLen: uint16(len(payload)),
		FrameNum:   frameNum,
		FECMode:    FECModeForSize(dataSize),
		Payload:    payload,
		PayloadCRC: crc16(payload),
	}, nil
}

// Encode serializes f into header | payload | crc.
func (f Frame) Encode() []byte {
	out := make([]byte, FrameHeaderSize+len(f.Payload)+2)
	binary.BigEndian.PutUint16(out[0:2], f.PayloadLen)
	binary.BigEndian.PutUint16(out[2:4], f.FrameNum)
	out[4] = byte(f.FECMode)
	// out[5:8] reserved, left zero.
	n := copy(out[FrameHeaderSize:], f.Payload)
	binary.BigEndian.PutUint16(out[FrameHeaderSize+n:], f.PayloadCRC)
	return out
}

// DecodeFrame parses a header | payload | crc buffer produced by
// Encode, validating the payload's CRC-16.
func DecodeFrame(data []byte) (Frame, error) {
	if len(data) < FrameHeaderSize+2 {
		return Frame{}, fmt.Errorf("%w: frame shorter than header+crc (%d bytes)", ErrInvalidFrameSize, len(data))
	}
	payloadLen := binary.BigEndian.Uint16(data[0:2])
	frameNum := binary.BigEndian.Uint16(data[2:4])
	mode := FECMode(data[4])

	if payloadLen > MaxPayloadSize {
		return Frame{}, fmt.Errorf("%w: payload_len %d exceeds max %d", ErrInvalidFrameSize, payloadLen, MaxPayloadSize)
	}
	if !mode.Valid() {
		return Frame{}, fmt.Errorf("%w: fec_mode byte %d is not one of {8,16,32}", ErrInvalidFrameSize, uint8(mode))
	}
	if data[5] != 0 || data[6] != 0 || data[7] != 0 {
		return Frame{}, fmt.Errorf("%w: header reserved bytes are nonzero", ErrInvalidFrameSize)
	}

	want := FrameHeaderSize + int(payloadLen) + 2
	if len(data) < want {
		return Frame{}, fmt.Errorf("%w: frame declares payload of %d bytes but only %d bytes available", ErrInvalidFrameSize, payloadLen, len(data)-FrameHeaderSize-2)
	}

	payload := data[FrameHeaderSize : FrameHeaderSize+int(payloadLen)]
	gotCRC := binary.BigEndian.Uint16(data[FrameHeaderSize+int(payloadLen) : want])
	wantCRC := crc16(payload)
	if gotCRC != wantCRC {
		return Frame{}, fmt.Errorf("%w: got %#04x, want %#04x", ErrPayloadCRCMismatch, gotCRC, wantCRC)
	}

	return Frame{
		PayloadLen: payloadLen,
		FrameNum:   frameNum,
		FECMode:    mode,
		Payload:    payload,
		PayloadCRC: gotCRC,
	}, nil
}
