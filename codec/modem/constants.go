/*
NAME
  constants.go

DESCRIPTION
  constants.go defines the wire-format constants shared by the
  framing, FEC, FSK and sync components of the modem package.

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

const (
	// SampleRate is the audio sample rate in Hz that every component in
	// this package assumes it is operating at.
	SampleRate = 16000

	// FrameHeaderSize is the size in bytes of a Frame's header.
	FrameHeaderSize = 8

	// MaxPayloadSize is the largest payload a single Frame can carry.
	MaxPayloadSize = 200

	// RSDataBytes is the shortened Reed-Solomon code's virtual
	// (unshortened) message length.
	RSDataBytes = 223

	// RSTotalBytes is the unshortened RS codeword length over GF(256).
	RSTotalBytes = 255
)

// FSK modulation constants.
const (
	FSKBaseFreq        = 400.0 // Hz, center of the lowest frequency bin.
	FSKFreqDelta       = 20.0  // Hz, spacing between adjacent bins.
	FSKNumBins         = 96    // total addressable frequency bins.
	FSKNibblesPerSym   = 6     // simultaneous tones per symbol.
	FSKBytesPerSymbol  = 3     // 6 nibbles pack into 3 bytes.
	FSKBinsPerBand     = FSKNumBins / FSKNibblesPerSym
	FSKSymbolSamples   = 4704 // samples per symbol at SampleRate (~294ms).
	fskToneAmplitude   = 0.7 / FSKNibblesPerSym
)

// Preamble/postamble synchronization constants.
const (
	PreambleSamples  = 4000 // 250ms at SampleRate.
	PostambleSamples = 4000
	preambleStartHz  = 200.0
	preambleEndHz    = 4000.0
)
