/*
NAME
  encoder.go

DESCRIPTION
  encoder.go implements Encoder, the top-level API that turns a
  payload into a complete preamble/FEC/FSK/postamble sample sequence
  ready for playback or writing to a WAV file.

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

// Encoder turns payloads into modulated FSK audio, assigning each an
// incrementing frame number.
type Encoder struct {
	fsk      FSKModulator
	frameNum uint16
}

// NewEncoder returns a ready-to-use Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode wraps payload in a Frame, FEC-encodes it, modulates it as
// FSK and wraps the result in a preamble/postamble pair.
func (e *Encoder) Encode(payload []byte) ([]float32, error) {
	frame, err := NewFrame(payload, e.frameNum)
	if err != nil {
		return nil, err
	}
	e.frameNum++

	blockBytes, err := encodeBlocks(frame.Encode(), frame.FECMode)
	if err != nil {
		return nil, err
	}

	symbols := e.fsk.Modulate(blockBytes)

	out := make([]float32, 0, PreambleSamples+len(symbols)+PostambleSamples)
	out = append(out, GeneratePreamble()...)
	out = append(out, symbols...)
	out = append(out, GeneratePostamble()...)
	return out, nil
}
