/*
NAME
  doc.go

DESCRIPTION
  doc.go provides package level documentation for modem.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package modem implements an acoustic data modem: framing with a
// CRC-16 integrity check, shortened Reed-Solomon forward error
// correction, a multi-tone FSK modulator/demodulator, FFT
// cross-correlation based preamble/postamble synchronization, a block
// decoder with FEC-mode autodetection, and a fountain (rateless)
// packetization layer for use over lossy channels.
//
// Samples throughout this package are 32-bit float PCM in [-1, 1] at
// 16kHz mono, matching the format produced by codec/wav's float
// reader and codec/pcm's ToFloat32 conversion.
package modem
