/*
NAME
  gf256.go

DESCRIPTION
  gf256.go implements GF(256) field arithmetic over the primitive
  polynomial 0x11D, used by the Reed-Solomon encoder/decoder in this
  package.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rs implements a shortened Reed-Solomon code over GF(256),
// correcting symbol errors at unknown positions via syndrome
// computation, Berlekamp-Massey, Chien search and Forney's algorithm.
//
// This is hand-written rather than built on a third-party erasure
// coding library: the only Reed-Solomon-shaped dependency anywhere in
// the reference corpus (github.com/klauspost/reedsolomon) implements
// a Vandermonde-matrix erasure code that requires known erasure
// positions, whereas this package must correct errors whose positions
// are not known in advance.
package rs

// primitivePoly is the GF(256) primitive polynomial 0x11D
// (x^8 + x^4 + x^3 + x^2 + 1), the standard choice used by CCSDS,
// QR-code and most classical Reed-Solomon implementations.
const primitivePoly = 0x11D

// field holds the exponential and logarithm tables for GF(256) under
// primitivePoly with generator 2.
type field struct {
	exp [512]byte // exp[i] = 2^i, doubled to avoid mod 255 in multiply.
	log [256]byte // log[exp[i]] = i, for i in [0,255).
}

var gf = newField()

func newField() *field {
	f := &field{}
	x := 1
	for i := 0; i < 255; i++ {
		f.exp[i] = byte(x)
		f.log[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= primitivePoly
		}
	}
	for i := 255; i < 512; i++ {
		f.exp[i] = f.exp[i-255]
	}
	return f
}

// mul returns a*b in GF(256).
func mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gf.exp[int(gf.log[a])+int(gf.log[b])]
}

// div returns a/b in GF(256). b must be non-zero.
func div(a, b byte) byte {
	if a == 0 {
		return 0
	}
	return gf.exp[(int(gf.log[a])-int(gf.log[b])+255)%255]
}

// pow returns a^n in GF(256).
func pow(a byte, n int) byte {
	if a == 0 {
		if n == 0 {
			return 1
		}
		return 0
	}
	e := (int(gf.log[a]) * n) % 255
	if e < 0 {
		e += 255
	}
	return gf.exp[e]
}

// inv returns the multiplicative inverse of a in GF(256). a must be
// non-zero.
func inv(a byte) byte {
	return gf.exp[255-int(gf.log[a])]
}

// polyEval evaluates polynomial p (coefficients in ascending order of
// degree, p[0] is the constant term) at x.
func polyEval(p []byte, x byte) byte {
	// Horner's method, descending through coefficients.
	var y byte
	for i := len(p) - 1; i >= 0; i-- {
		y = mul(y, x) ^ p[i]
	}
	return y
}

// polyMul multiplies two polynomials given in ascending-degree order.
func polyMul(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] ^= mul(av, bv)
		}
	}
	return out
}
