/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the sentinel errors returned by the modem package.

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

import "errors"

// Sentinel errors returned by the components of this package. Callers
// should use errors.Is to test for these, since most call sites wrap
// them with additional context.
var (
	ErrInvalidInputSize   = errors.New("modem: invalid input size")
	ErrInsufficientData   = errors.New("modem: insufficient data")
	ErrPreambleNotFound   = errors.New("modem: preamble not found")
	ErrPostambleNotFound  = errors.New("modem: postamble not found")
	ErrFECDecodeFailure   = errors.New("modem: fec decode failure")
	ErrInvalidFrameSize   = errors.New("modem: invalid frame size")
	ErrPayloadCRCMismatch = errors.New("modem: payload crc mismatch")
	ErrFountainDecodeFail = errors.New("modem: fountain decode failure")
	ErrTimeout            = errors.New("modem: timed out")
)
