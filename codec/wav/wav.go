/*
NAME
  wav.go

DESCRIPTION
  wav.go contains functions for processing wav.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package wav provides functions for converting wav audio.
package wav

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ConvertFormat converts the common name for a format in a string type to the specific
// integer required by the wav encoder.
var ConvertFormat = map[string]int{"pcm": PCMFormat, "float": FloatFormat}

const (
	PCMFormat   = 1 // PCMFormat defines the value for integer pcm audio as defined by the wav std.
	FloatFormat = 3 // FloatFormat defines the value for IEEE float audio as defined by the wav std.
)

var (
	errInvalidFormat   = fmt.Errorf("invalid or no format defined")
	errInvalidRate     = fmt.Errorf("invalid or no sample rate defined")
	errInvalidChannels = fmt.Errorf("invalid or no number of channels defined")
	errInvalidBitDepth = fmt.Errorf("invalid or no bit depth defined")
	errNotRIFF         = fmt.Errorf("wav: missing RIFF/WAVE header")
	errNoFmtChunk      = fmt.Errorf("wav: missing fmt chunk")
	errNoDataChunk     = fmt.Errorf("wav: missing data chunk")
	errTruncated       = fmt.Errorf("wav: truncated chunk")
)

// Metadata defines the format of the audio file for reading.
type Metadata struct {
	AudioFormat int
	Channels    int
	SampleRate  int
	BitDepth    int
}

type WAV struct {
	Metadata Metadata
	Audio    []byte
}

// Write writes the given audio byte slice to the WAV, encoding the appropriate headings.
func (w *WAV) Write(p []byte) (n int, err error) {
	// Create header slice.
	header := make([]byte, 44)

	// Write RIFF type.
	copy(header[0:4], []byte("RIFF"))

	// Write the size of overall file.
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(len(p)+44))
	copy(header[4:8], buf)

	// Write WAVE type.
	copy(header[8:12], []byte("WAVE"))

	// Write fmt chunk marker.
	copy(header[12:16], []byte("fmt "))

	// Write the subchunk1 Size.
	binary.LittleEndian.PutUint32(buf, 16)
	copy(header[16:20], buf)

	// Write the encoded audio format.
	if w.Metadata.AudioFormat != PCMFormat && w.Metadata.AudioFormat != FloatFormat {
		return 0, errInvalidFormat
	}
	binary.LittleEndian.PutUint16(buf[0:2], uint16(w.Metadata.AudioFormat))
	copy(header[20:22], buf[0:2])

	// Write the number of channels.
	if w.Metadata.Channels == 0 {
		return 0, errInvalidChannels
	}
	binary.LittleEndian.PutUint16(buf[0:2], uint16(w.Metadata.Channels))
	copy(header[22:24], buf[0:2])

	// Write the sample rate.
	if w.Metadata.SampleRate == 0 {
		return 0, errInvalidRate
	}
	binary.LittleEndian.PutUint32(buf[0:4], uint32(w.Metadata.SampleRate))
	copy(header[24:28], buf[0:4])

	// Write bit depth values.
	if w.Metadata.BitDepth == 0 {
		return 0, errInvalidBitDepth
	}
	var val uint32 = uint32((w.Metadata.SampleRate * w.Metadata.BitDepth * w.Metadata.Channels) / 8)
	binary.LittleEndian.PutUint32(buf[0:4], val)
	copy(header[28:32], buf[0:4])

	val = uint32((w.Metadata.BitDepth * w.Metadata.Channels) / 8)
	binary.LittleEndian.PutUint32(buf[0:4], val)
	copy(header[32:34], buf[0:4])

	binary.LittleEndian.PutUint32(buf[0:4], uint32(w.Metadata.BitDepth))
	copy(header[34:36], buf[0:4])

	// Mark start of data.
	copy(header[36:40], []byte("data"))

	// Write size of data chunk.
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(p)))
	copy(header[40:44], buf[0:4])

	// Append audio data.
	w.Audio = header
	w.Audio = append(w.Audio, p...)

	// Return successful write.
	return len(p) + 44, nil

}

// Read parses a RIFF/WAVE byte stream into w.Metadata and w.Audio (the
// raw bytes of the data chunk). Chunks other than "fmt " and "data"
// are skipped, so extension chunks written by other encoders (e.g. a
// LIST/INFO chunk) don't confuse the parser.
func (w *WAV) Read(data []byte) error {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return errNotRIFF
	}

	var (
		md      Metadata
		haveFmt bool
		audio   []byte
	)

	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			return errTruncated
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return errTruncated
			}
			md.AudioFormat = int(binary.LittleEndian.Uint16(data[body : body+2]))
			md.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			md.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			md.BitDepth = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			audio = data[body : body+size]
		}

		// Chunks are padded to an even number of bytes.
		off = body + size
		if size%2 != 0 {
			off++
		}
	}

	if !haveFmt {
		return errNoFmtChunk
	}
	if audio == nil {
		return errNoDataChunk
	}

	w.Metadata = md
	w.Audio = audio
	return nil
}

// EncodeFloat32Mono renders samples (amplitude in [-1,1]) as a
// single-channel, 32-bit IEEE-float WAV file at sampleRate Hz: the
// bit-exact container format this package's callers use to carry
// acoustic-modem audio (see codec/modem).
func EncodeFloat32Mono(samples []float32, sampleRate int) ([]byte, error) {
	raw := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(raw[4*i:4*i+4], math.Float32bits(s))
	}

	w := &WAV{Metadata: Metadata{
		AudioFormat: FloatFormat,
		Channels:    1,
		SampleRate:  sampleRate,
		BitDepth:    32,
	}}
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	return w.Audio, nil
}

// DecodeFloat32Mono parses a single-channel, 32-bit IEEE-float WAV
// file produced by EncodeFloat32Mono (or an equivalent encoder) back
// into samples and its sample rate.
func DecodeFloat32Mono(data []byte) (samples []float32, sampleRate int, err error) {
	var w WAV
	if err := w.Read(data); err != nil {
		return nil, 0, err
	}
	if w.Metadata.AudioFormat != FloatFormat || w.Metadata.BitDepth != 32 {
		return nil, 0, fmt.Errorf("wav: expected 32-bit float audio, got format %d bit depth %d", w.Metadata.AudioFormat, w.Metadata.BitDepth)
	}
	if w.Metadata.Channels != 1 {
		return nil, 0, fmt.Errorf("wav: expected mono audio, got %d channels", w.Metadata.Channels)
	}
	if len(w.Audio)%4 != 0 {
		return nil, 0, errTruncated
	}

	out := make([]float32, len(w.Audio)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(w.Audio[4*i : 4*i+4])
		out[i] = math.Float32frombits(bits)
	}
	return out, w.Metadata.SampleRate, nil
}
