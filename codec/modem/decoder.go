/*
NAME
  decoder.go

DESCRIPTION
  decoder.go implements Decoder, the block-level receiver: locate the
  preamble and postamble, demodulate the FSK data between them,
  autodetect the FEC mode used on the first block and reassemble the
  original frame.

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

import "fmt"

// Decoder recovers a Frame's payload from a sample buffer produced by
// Encoder.Encode.
type Decoder struct {
	demod       FSKDemodulator
	preambleTh  DetectionThreshold
	postambleTh DetectionThreshold
}

// NewDecoder returns a Decoder using adaptive preamble/postamble
// detection thresholds.
func NewDecoder() *Decoder {
	return &Decoder{
		preambleTh:  AdaptiveThreshold(),
		postambleTh: AdaptiveThreshold(),
	}
}

// SetPreambleThreshold overrides the preamble detection threshold.
func (d *Decoder) SetPreambleThreshold(th DetectionThreshold) { d.preambleTh = th }

// SetPostambleThreshold overrides the postamble detection threshold.
func (d *Decoder) SetPostambleThreshold(th DetectionThreshold) { d.postambleTh = th }

// Decode locates the preamble/postamble pair in samples, demodulates
// the FSK data between them, and returns the recovered payload.
func (d *Decoder) Decode(samples []float32) ([]byte, error) {
	if len(samples) < 2*PreambleSamples {
		return nil, fmt.Errorf("%w: need at least %d samples, got %d", ErrInsufficientData, 2*PreambleSamples, len(samples))
	}

	preStart, err := DetectPreamble(samples, d.preambleTh)
	if err != nil {
		return nil, err
	}
	dataStart := preStart + PreambleSamples
	if dataStart >= len(samples) {
		return nil, fmt.Errorf("%w: preamble consumes entire buffer", ErrInsufficientData)
	}

	remainder := samples[dataStart:]
	postStart, err := DetectPostamble(remainder, d.postambleTh)
	if err != nil {
		return nil, err
	}

	dataSamples := remainder[:postStart]
	usable := (len(dataSamples) / FSKSymbolSamples) * FSKSymbolSamples
	dataSamples = dataSamples[:usable]
	if usable == 0 {
		return nil, fmt.Errorf("%w: no whole FSK symbols between preamble and postamble", ErrInsufficientData)
	}

	blockBytes, err := d.demod.Demodulate(dataSamples)
	if err != nil {
		return nil, err
	}

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
