/*
NAME
  rateless.go

DESCRIPTION
  rateless.go implements a simplified systematic Luby-Transform-style
  rateless (fountain) code: K source symbols are sent once each
  (degree 1, systematic), followed by repair symbols formed by XORing
  a small, bounded number of source symbols together. The decoder
  recovers the source symbols by peeling: any packet whose XOR
  reduces to a single unknown symbol resolves it immediately, and
  newly resolved symbols are cancelled out of every still-pending
  packet until nothing more can be resolved.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rateless implements the fountain code used to carry a
// frame's bytes over a lossy channel as a stream of packets of any
// length. Decoding succeeds once the received packets let the peeling
// decoder resolve all K source symbols; a given set of K-plus-epsilon
// packets does not always do so. No RaptorQ or other RFC 6330 implementation is
// available anywhere in the reference corpus this was built from, so
// the degree distribution and peeling decoder here are original,
// grounded only on the external receive-loop contract (systematic
// packets first, incremental decode, success once enough packets
// accumulate) rather than on any standard wire format.
package rateless

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Packet is one fountain-coded unit: the XOR of the source symbols at
// Indices, carried in Data.
type Packet struct {
	Indices []int
	Data    []byte
}

// Serialize encodes p as a degree-prefixed index list followed by its
// XORed data.
func (p Packet) Serialize() []byte {
	buf := make([]byte, 2+2*len(p.Indices)+len(p.Data))
	binary.BigEndian.PutUint16(buf[0:2], uint16(len(p.Indices)))
	for i, idx := range p.Indices {
		binary.BigEndian.PutUint16(buf[2+2*i:4+2*i], uint16(idx))
	}
	copy(buf[2+2*len(p.Indices):], p.Data)
	return buf
}

// DeserializePacket parses a Packet with a symbol payload of exactly
// symbolSize bytes from b, defensively validating length before
// touching any field so that malformed input cannot panic.
func DeserializePacket(b []byte, symbolSize int) (Packet, error) {
	if len(b) < 2 {
		return Packet{}, fmt.Errorf("rateless: packet shorter than degree field")
	}
	degree := int(binary.BigEndian.Uint16(b[0:2]))
	need := 2 + 2*degree + symbolSize
	if need < 0 || len(b) < need {
		return Packet{}, fmt.Errorf("rateless: packet declares degree %d but buffer has only %d bytes", degree, len(b))
	}
	indices := make([]int, degree)
	for i := 0; i < degree; i++ {
		indices[i] = int(binary.BigEndian.Uint16(b[2+2*i : 4+2*i]))
	}
	data := append([]byte(nil), b[2+2*degree:need]...)
	return Packet{Indices: indices, Data: data}, nil
}

// Encoder produces systematic and repair packets for a fixed set of
// source symbols.
type Encoder struct {
	symbols    [][]byte
	symbolSize int
	rng        splitMix64
}

// NewEncoder splits data into ceil(len(data)/symbolSize) symbols, zero
// padding the final symbol, ready for fountain encoding.
func NewEncoder(data []byte, symbolSize int) *Encoder {
	k := (len(data) + symbolSize - 1) / symbolSize
	symbols := make([][]byte, k)
	for i := 0; i < k; i++ {
		start := i * symbolSize
		end := start + symbolSize
		if end > len(data) {
			end = len(data)
		}
		buf := make([]byte, symbolSize)
		copy(buf, data[start:end])
		symbols[i] = buf
	}
	return &Encoder{symbols: symbols, symbolSize: symbolSize, rng: newSplitMix64(0x9E3779B97F4A7C15)}
}

// K returns the number of source symbols.
func (e *Encoder) K() int { return len(e.symbols) }

// SystematicPackets returns one degree-1 packet per source symbol, in
// order.
func (e *Encoder) SystematicPackets() []Packet {
	out := make([]Packet, len(e.symbols))
	for i, s := range e.symbols {
		out[i] = Packet{Indices: []int{i}, Data: append([]byte(nil), s...)}
	}
	return out
}

// RepairPackets returns n additional packets, each XORing 2 or 3
// distinct source symbols chosen by a deterministic pseudo-random
// sequence (so repeated encodes of the same data are reproducible).
func (e *Encoder) RepairPackets(n int) []Packet {
	k := len(e.symbols)
	out := make([]Packet, 0, n)
	if k == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		degree := 2
		if k >= 3 && e.rng.next()%3 == 0 {
			degree = 3
		}
		if degree > k {
			degree = k
		}
		chosen := map[int]bool{}
		for len(chosen) < degree {
			chosen[int(e.rng.next()%uint64(k))] = true
		}
		indices := make([]int, 0, degree)
		for idx := range chosen {
			indices = append(indices, idx)
		}
		sort.Ints(indices)

		data := make([]byte, e.symbolSize)
		for _, idx := range indices {
			xorInto(data, e.symbols[idx])
		}
		out = append(out, Packet{Indices: indices, Data: data})
	}
	return out
}

// pending is a repair packet not yet reduced to a single unknown
// symbol.
type pending struct {
	unknown map[int]bool
	value   []byte
}

// Decoder incrementally reconstructs K source symbols from a stream
// of Packets via belief-propagation-style peeling.
type Decoder struct {
	k          int
	symbolSize int
	known      map[int][]byte
	pending    []*pending
}

// NewDecoder creates a Decoder expecting k source symbols of
// symbolSize bytes each.
func NewDecoder(k, symbolSize int) *Decoder {
	return &Decoder{k: k, symbolSize: symbolSize, known: make(map[int][]byte, k)}
}

// AddPacket folds p into the decoder state, resolving it immediately
// if it reduces to a single unknown symbol, and cascades any newly
// resolved symbols into pending packets.
func (d *Decoder) AddPacket(p Packet) {
	if len(p.Data) != d.symbolSize {
		return // malformed/mismatched packet, ignore defensively.
	}
	val := append([]byte(nil), p.Data...)
	unknown := map[int]bool{}
	for _, idx := range p.Indices {
		if idx < 0 || idx >= d.k {
			return // out-of-range index, ignore defensively.
		}
		if kv, ok := d.known[idx]; ok {
			xorInto(val, kv)
		} else {
			unknown[idx] = true
		}
	}
	switch len(unknown) {
	case 0:
		return
	case 1:
		d.resolve(firstKey(unknown), val)
	default:
		d.pending = append(d.pending, &pending{unknown: unknown, value: val})
		d.peel()
	}
}

// resolve marks source symbol idx as known and cascades the
// resolution into every pending packet.
func (d *Decoder) resolve(idx int, val []byte) {
	if _, ok := d.known[idx]; ok {
		return
	}
	d.known[idx] = val
	d.peel()
}

// peel repeatedly cancels known symbols out of pending packets until
// no more progress can be made.
func (d *Decoder) peel() {
	for {
		progressed := false
		var remaining []*pending
		for _, pp := range d.pending {
			for idx := range pp.unknown {
				if kv, ok := d.known[idx]; ok {
					xorInto(pp.value, kv)
					delete(pp.unknown, idx)
					progressed = true
				}
			}
			switch len(pp.unknown) {
			case 0:
				// fully cancelled, carries no new information.
			case 1:
				idx := firstKey(pp.unknown)
				if _, ok := d.known[idx]; !ok {
					d.known[idx] = pp.value
					progressed = true
				}
			default:
				remaining = append(remaining, pp)
			}
		}
		d.pending = remaining
		if !progressed {
			return
		}
	}
}

// IsComplete reports whether all K source symbols have been resolved.
func (d *Decoder) IsComplete() bool { return len(d.known) >= d.k }

// Assemble concatenates the K resolved source symbols in order. It
// must only be called once IsComplete reports true.
func (d *Decoder) Assemble() []byte {
	out := make([]byte, 0, d.k*d.symbolSize)
	for i := 0; i < d.k; i++ {
		out = append(out, d.known[i]...)
	}
	return out
}

func firstKey(m map[int]bool) int {
	for k := range m {
		return k
	}
	return -1
}

func xorInto(dst, src []byte) {
	for i := range dst {
		if i < len(src) {
			dst[i] ^= src[i]
		}
	}
}

// splitMix64 is a small, fast, deterministic pseudo-random generator
// used only to choose repair-packet symbol combinations, not for any
// security-relevant purpose.
type splitMix64 uint64

func newSplitMix64(seed uint64) splitMix64 { return splitMix64(seed) }

func (s *splitMix64) next() uint64 {
	*s += 0x9E3779B97F4A7C15
	z := uint64(*s)
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
