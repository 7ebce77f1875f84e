/*
NAME
  fountain.go

DESCRIPTION
  fountain.go wraps codec/modem/rateless with the block-level wire
  framing, acoustic transport and defensive receive loop described for
  the fountain transmission mode: each fountain-coded packet is sent
  as its own preamble-delimited FSK block, validated by length and
  CRC-16 before the packet is ever deserialized.

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
	"math"
	"time"

	"github.com/ausocean/audiomodem/codec/modem/rateless"
)

// fountainMetaSize is the fixed metadata overhead (frame_len + symbol
// size + packet_len) ahead of each fountain packet's serialized bytes
// and its trailing CRC-16.
const fountainMetaSize = 4 + 2 + 2 + 2 // frame_len(4) symbol_size(2) packet_len(2) crc(2)

// FountainConfig configures the fountain transmission mode.
type FountainConfig struct {
	// BlockSize is the source symbol size in bytes. Defaults to 32 if
	// zero.
	BlockSize int
	// RepairBlocksRatio is a sender-side hint for how many repair
	// packets to generate, as a fraction of the source symbol count.
	// It is not consumed by the decoder.
	RepairBlocksRatio float64
	// TimeoutSecs bounds how long DecodeFountain will keep scanning
	// for new blocks before giving up. Zero means no timeout.
	TimeoutSecs float64
}

// defaultFountainConfig returns the config with BlockSize filled in if
// the caller left it zero.
func defaultFountainConfig(cfg FountainConfig) FountainConfig {
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = 32
	}
	return cfg
}

// fountainPayloadSamples returns the fixed number of samples used for
// every fountain block's data region given a symbol size, sized to
// hold the metadata, the packet's degree field and index list (up to
// the 3 indices a repair packet carries) and the symbol payload itself.
func fountainPayloadSamples(symbolSize int) int {
	estBytes := symbolSize + fountainMetaSize + 2 + 2*3 // degree field plus up to 3 indices.
	symbols := (estBytes + FSKBytesPerSymbol - 1) / FSKBytesPerSymbol
	return symbols * FSKSymbolSamples
}

// EncodeFountain frames payload, splits the encoded frame into source
// symbols and emits it as a sequence of preamble-delimited fountain
// blocks, each carrying one systematic or repair packet.
func EncodeFountain(payload []byte, frameNum uint16, cfg FountainConfig) ([]float32, error) {
	cfg = defaultFountainConfig(cfg)
	frame, err := NewFrame(payload, frameNum)
	if err != nil {
		return nil, err
	}
	frameBytes := frame.Encode()

	enc := rateless.NewEncoder(frameBytes, cfg.BlockSize)
	packets := enc.SystematicPackets()
	numRepair := int(math.Ceil(float64(enc.K()) * cfg.RepairBlocksRatio))
	packets = append(packets, enc.RepairPackets(numRepair)...)

	var mod FSKModulator
	preamble := GeneratePreamble()
	postamble := GeneratePostamble()
	blockSamples := fountainPayloadSamples(cfg.BlockSize)

	var out []float32
	for _, pkt := range packets {
		block, err := buildFountainBlock(frameBytes, cfg.BlockSize, pkt, blockSamples)
		if err != nil {
			return nil, err
		}
		out = append(out, preamble...)
		out = append(out, mod.Modulate(block)...)
		out = append(out, postamble...)
	}
	return out, nil
}

// buildFountainBlock serializes one fountain packet's metadata/CRC
// wire frame and pads it to exactly blockSamples worth of bytes.
func buildFountainBlock(frameBytes []byte, symbolSize int, pkt rateless.Packet, blockSamples int) ([]byte, error) {
	packetBytes := pkt.Serialize()
	if len(packetBytes) > 0xFFFF {
		return nil, fmt.Errorf("%w: fountain packet of %d bytes exceeds 16-bit length prefix", ErrInvalidFrameSize, len(packetBytes))
	}

	meta := make([]byte, fountainMetaSize+len(packetBytes))
	binary.BigEndian.PutUint32(meta[0:4], uint32(len(frameBytes)))
	binary.BigEndian.PutUint16(meta[4:6], uint16(symbolSize))
	binary.BigEndian.PutUint16(meta[6:8], uint16(len(packetBytes)))
	copy(meta[8:8+len(packetBytes)], packetBytes)
	binary.BigEndian.PutUint16(meta[8+len(packetBytes):], crc16(packetBytes))

	capacityBytes := (blockSamples / FSKSymbolSamples) * FSKBytesPerSymbol
	if len(meta) > capacityBytes {
		return nil, fmt.Errorf("%w: fountain block of %d bytes exceeds block capacity %d", ErrInvalidFrameSize, len(meta), capacityBytes)
	}
	return padToMultiple(meta, FSKBytesPerSymbol), nil
}

// DecodeFountain scans samples for a sequence of fountain blocks,
// validates and feeds each to a rateless.Decoder, and returns the
// reassembled frame's payload as soon as enough packets have arrived
// to reconstruct it.
func DecodeFountain(samples []float32, th DetectionThreshold, cfg FountainConfig) ([]byte, error) {
	cfg = defaultFountainConfig(cfg)

	var deadline time.Time
	if cfg.TimeoutSecs > 0 {
		deadline = time.Now().Add(time.Duration(cfg.TimeoutSecs * float64(time.Second)))
	}

	var (
		dec          *rateless.Decoder
		frameLen     int
		symbolSize   = cfg.BlockSize
		committed    bool
		mod          FSKDemodulator
		searchOffset int
	)

	for searchOffset < len(samples) {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, ErrTimeout
		}

		preStart, err := DetectPreamble(samples[searchOffset:], th)
		if err != nil {
			break
		}
		dataStart := searchOffset + preStart + PreambleSamples
		blockLen := fountainPayloadSamples(symbolSize)
		if dataStart+blockLen > len(samples) {
			break
		}

		blockBytes, err := mod.Demodulate(samples[dataStart : dataStart+blockLen])
		if err == nil {
			if fl, ss, pkt, ok := parseFountainBlock(blockBytes); ok {
				if !committed {
					frameLen = fl
					symbolSize = ss
					committed = true
					dec = rateless.NewDecoder(numSymbols(fl, ss), ss)
				}
				if fl == frameLen && ss == symbolSize {
					dec.AddPacket(pkt)
				}
			}
		}

		searchOffset = dataStart + blockLen
		if committed && dec.IsComplete() {
			frameBytes := dec.Assemble()[:frameLen]
			frame, err := DecodeFrame(frameBytes)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFountainDecodeFail, err)
			}
			return frame.Payload, nil
		}
	}

	return nil, ErrFountainDecodeFail
}

// numSymbols returns ceil(frameLen/symbolSize).
func numSymbols(frameLen, symbolSize int) int {
	return (frameLen + symbolSize - 1) / symbolSize
}

// parseFountainBlock defensively validates and parses one fountain
// block's metadata, CRC and packet bytes, recovering from any panic
// in the packet deserializer so that a malformed or corrupted block
// can never crash the receive loop.
func parseFountainBlock(blockBytes []byte) (frameLen, symbolSize int, pkt rateless.Packet, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	if len(blockBytes) < fountainMetaSize {
		return 0, 0, rateless.Packet{}, false
	}
	fl := int(binary.BigEndian.Uint32(blockBytes[0:4]))
	ss := int(binary.BigEndian.Uint16(blockBytes[4:6]))
	packetLen := int(binary.BigEndian.Uint16(blockBytes[6:8]))
	if ss <= 0 || fl <= 0 || packetLen < 0 {
		return 0, 0, rateless.Packet{}, false
	}
	need := fountainMetaSize + packetLen
	if len(blockBytes) < need {
		return 0, 0, rateless.Packet{}, false
	}
	packetBytes := blockBytes[8 : 8+packetLen]
	gotCRC := binary.BigEndian.Uint16(blockBytes[8+packetLen : need])
	if gotCRC != crc16(packetBytes) {
		return 0, 0, rateless.Packet{}, false
	}

	p, err := rateless.DeserializePacket(packetBytes, ss)
	if err != nil {
		return 0, 0, rateless.Packet{}, false
	}
	return fl, ss, p, true
}
