/*
NAME
  fec.go

DESCRIPTION
  fec.go wraps the shortened Reed-Solomon codec in codec/modem/rs with
  the length-prefixed multi-block framing used to carry a frame's
  encoded bytes over the FSK channel, and implements FEC-mode
  autodetection for the block decoder.

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

	"github.com/ausocean/audiomodem/codec/modem/rs"
)

// chunkSize returns the largest number of data bytes carried by a
// single shortened RS block: RSDataBytes under every mode.
func chunkSize(mode FECMode) int {
	return RSDataBytes
}

// encodeBlocks prepends a 2-byte big-endian length prefix to
// frameData and encodes it as a sequence of shortened RS blocks under
// mode, each carrying up to chunkSize(mode) data bytes.
func encodeBlocks(frameData []byte, mode FECMode) ([]byte, error) {
	if len(frameData) > 0xFFFF {
		return nil, fmt.Errorf("%w: frame data of %d bytes exceeds 16-bit length prefix", ErrInvalidFrameSize, len(frameData))
	}
	size := chunkSize(mode)
	parity := mode.ParityBytes()

	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, uint16(len(frameData)))

	for off := 0; off < len(frameData); off += size {
		end := off + size
		if end > len(frameData) {
			end = len(frameData)
		}
		block, err := rs.Encode(frameData[off:end], parity)
		if err != nil {
			return nil, fmt.Errorf("modem: encoding fec block: %w", err)
		}
		out = append(out, block...)
	}
	// A zero-length frameData still needs one block so the decoder has
	// something to read; encode an empty chunk.
	if len(frameData) == 0 {
		block, err := rs.Encode([]byte{0}, parity)
		if err != nil {
			return nil, fmt.Errorf("modem: encoding empty fec block: %w", err)
		}
		out = append(out, block...)
	}
	return out, nil
}

// decodeBlocks reads the 2-byte length prefix from data, then decodes
// successive shortened RS blocks under the fixed parity mode,
// tracking the running remainder of undecoded frame bytes exactly as
// the reference decoder does, and returns the reassembled frame data.
func decodeBlocks(data []byte, mode FECMode) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: block data shorter than length prefix", ErrInsufficientData)
	}
	frameLen := int(binary.BigEndian.Uint16(data[:2]))
	body := data[2:]
	size := chunkSize(mode)
	parity := mode.ParityBytes()

	if frameLen == 0 {
		blockLen := 1 + parity
		if blockLen > len(body) {
			return nil, fmt.Errorf("%w: expected %d bytes for empty-frame placeholder block, have %d", ErrInsufficientData, blockLen, len(body))
		}
		if _, err := rs.Decode(body[:blockLen], parity); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFECDecodeFailure, err)
		}
		return []byte{}, nil
	}

	var out []byte
	remaining := frameLen
	off := 0
	for remaining > 0 {
		dataLen := remaining
		if dataLen > size {
			dataLen = size
		}
		blockLen := dataLen + parity
		if off+blockLen > len(body) {
			return nil, fmt.Errorf("%w: expected %d more bytes for fec block, have %d", ErrInsufficientData, blockLen, len(body)-off)
		}
		chunk, err := rs.Decode(body[off:off+blockLen], parity)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFECDecodeFailure, err)
		}
		out = append(out, chunk...)
		remaining -= dataLen
		off += blockLen
	}
	if len(out) != frameLen {
		return nil, fmt.Errorf("%w: reassembled %d bytes, want %d", ErrFECDecodeFailure, len(out), frameLen)
	}
	return out, nil
}

// EncodeFrameBlocks wraps payload in a Frame addressed by frameNum,
// FEC-encodes it, and returns the resulting block bytes ready for any
// modulator. It is exported so auxiliary modulators (e.g. DTMF) can
// share the same framing and FEC contract as FSK.
func EncodeFrameBlocks(payload []byte, frameNum uint16) ([]byte, FECMode, error) {
	frame, err := NewFrame(payload, frameNum)
	if err != nil {
		return nil, 0, err
	}
	blockBytes, err := encodeBlocks(frame.Encode(), frame.FECMode)
	if err != nil {
		return nil, 0, err
	}
	return blockBytes, frame.FECMode, nil
}

// DecodeFrameBlocks autodetects the FEC mode used to encode blockBytes
// and returns the recovered payload. It is exported for the same
// reason as EncodeFrameBlocks.
func DecodeFrameBlocks(blockBytes []byte) ([]byte, error) {
	_, frameBytes, err := detectFECMode(blockBytes)
	if err != nil {
		return nil, err
	}
	frame, err := DecodeFrame(frameBytes)
	if err != nil {
		return nil, err
	}
	return frame.Payload, nil
}

// detectFECMode trial-decodes data (every block the length prefix
// calls for) under each of the three FEC modes, in order Light,
// Medium, Full, and accepts the first mode whose decoded frame header
// reports the same fec_mode byte it was decoded with. This mirrors the reference decoder's
// autodetection on the first block of a transmission.
func detectFECMode(data []byte) (FECMode, []byte, error) {
	for _, mode := range []FECMode{FECLight, FECMedium, FECFull} {
		frameData, err := decodeBlocks(data, mode)
		if err != nil {
			continue
		}
		if len(frameData) < 5 {
			continue
		}
		if FECMode(frameData[4]) == mode {
			return mode, frameData, nil
		}
	}
	return 0, nil, fmt.Errorf("%w: could not detect fec mode from first block", ErrFECDecodeFailure)
}
