/*
NAME
  crc.go

DESCRIPTION
  crc.go implements the CRC-16/CCITT checksum used to protect frame
  payloads and fountain packets.

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

// crc16 computes the CRC-16/CCITT checksum of p: initial value
// 0xFFFF, polynomial 0x1021, MSB-first, no input or output
// reflection, and no final XOR.
func crc16(p []byte) uint16 {
	var crc uint16 = 0xFFFF
	for _, b := range p {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
