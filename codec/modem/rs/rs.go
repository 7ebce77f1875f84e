/*
NAME
  rs.go

DESCRIPTION
  rs.go implements shortened Reed-Solomon encoding and syndrome-based
  decoding over GF(256): systematic encode via polynomial long
  division, and decode via Berlekamp-Massey, Chien search and the
  Forney algorithm.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package rs

import "fmt"

// TotalBytes is the unshortened RS codeword length over GF(256).
const TotalBytes = 255

// Encode appends parity Reed-Solomon parity bytes to data using the
// shortened code of full dimension TotalBytes-parity. len(data) must
// not exceed TotalBytes-parity.
func Encode(data []byte, parity int) ([]byte, error) {
	if parity <= 0 {
		return nil, fmt.Errorf("rs: parity must be positive, got %d", parity)
	}
	kFull := TotalBytes - parity
	if len(data) == 0 {
		return nil, fmt.Errorf("rs: empty data")
	}
	if len(data) > kFull {
		return nil, fmt.Errorf("rs: data of %d bytes exceeds shortened dimension %d for parity %d", len(data), kFull, parity)
	}

	gen := generatorPolyDescending(parity)

	msgOut := make([]byte, len(data)+parity)
	copy(msgOut, data)
	for i := 0; i < len(data); i++ {
		coef := msgOut[i]
		if coef == 0 {
			continue
		}
		for j := 0; j < len(gen); j++ {
			msgOut[i+j] ^= mul(gen[j], coef)
		}
	}

	out := make([]byte, len(data)+parity)
	copy(out, data)
	copy(out[len(data):], msgOut[len(data):])
	return out, nil
}

// Decode corrects and strips parity bytes from received, which must
// be the concatenation of a (possibly shortened) data region and a
// trailing parity region of length parity bytes. It reconstructs the
// virtual zero-padded codeword internally so that syndrome
// computation operates over the full TotalBytes-wide code.
func Decode(received []byte, parity int) ([]byte, error) {
	if parity <= 0 {
		return nil, fmt.Errorf("rs: parity must be positive, got %d", parity)
	}
	if len(received) <= parity {
		return nil, fmt.Errorf("rs: received %d bytes is too short for parity %d", len(received), parity)
	}
	k := len(received) - parity
	kFull := TotalBytes - parity
	if k > kFull {
		return nil, fmt.Errorf("rs: data of %d bytes exceeds shortened dimension %d for parity %d", k, kFull, parity)
	}
	pad := kFull - k
	n := pad + k + parity

	full := make([]byte, n)
	copy(full[pad:pad+k], received[:k])
	copy(full[pad+k:], received[k:])

	syn := syndromes(full, parity)
	clean := true
	for _, s := range syn {
		if s != 0 {
			clean = false
			break
		}
	}
	if clean {
		return append([]byte(nil), full[pad:pad+k]...), nil
	}

	if err := correctErrors(full, syn, parity); err != nil {
		return nil, err
	}

	// Verify: re-check syndromes after correction.
	syn = syndromes(full, parity)
	for _, s := range syn {
		if s != 0 {
			return nil, fmt.Errorf("rs: uncorrectable block (residual syndrome nonzero)")
		}
	}

	return append([]byte(nil), full[pad:pad+k]...), nil
}

// generatorPolyDescending returns g(x) = prod_{i=1}^{parity}
// (x - alpha^i) in descending-degree order (leading coefficient
// first), matching the classical systematic LFSR encoder and the
// syndromes S_1..S_parity computed by syndromes.
func generatorPolyDescending(parity int) []byte {
	g := []byte{1}
	for i := 1; i <= parity; i++ {
		g = polyMul(g, []byte{1, expPow(i)})
	}
	return g
}

// expPow returns alpha^i (alpha = 2, the GF(256) generator).
func expPow(i int) byte {
	e := i % 255
	if e < 0 {
		e += 255
	}
	return gf.exp[e]
}

// syndromes computes S_1..S_parity for full, a descending-order
// codeword polynomial (full[0] is the highest-degree coefficient).
func syndromes(full []byte, parity int) []byte {
	syn := make([]byte, parity)
	for i := 1; i <= parity; i++ {
		syn[i-1] = evalDescending(full, expPow(i))
	}
	return syn
}

// evalDescending evaluates a descending-order polynomial (poly[0] is
// the highest-degree coefficient) at x via Horner's method.
func evalDescending(poly []byte, x byte) byte {
	var y byte
	for _, c := range poly {
		y = mul(y, x) ^ c
	}
	return y
}

// correctErrors runs Berlekamp-Massey, Chien search and Forney
// correction against full using the already-computed syndromes syn,
// mutating full in place.
func correctErrors(full []byte, syn []byte, parity int) error {
	sigma := berlekampMassey(syn)
	numErrors := len(sigma) - 1
	if numErrors <= 0 {
		return fmt.Errorf("rs: nonzero syndrome but no error locator found")
	}
	if numErrors > parity/2 {
		return fmt.Errorf("rs: too many errors to correct (estimated %d, max %d)", numErrors, parity/2)
	}

	n := len(full)
	type errLoc struct {
		pos int
		x   byte
	}
	var errs []errLoc
	for i := 0; i < 255; i++ {
		x := expPow(i)
		if polyEval(sigma, x) == 0 {
			t := (i + n - 1) % 255
			if t >= 0 && t < n {
				errs = append(errs, errLoc{pos: t, x: x})
			}
		}
	}
	if len(errs) != numErrors {
		return fmt.Errorf("rs: uncorrectable block (found %d error positions, expected %d)", len(errs), numErrors)
	}

	omega := polyMul(syn, sigma)
	if len(omega) > parity {
		omega = omega[:parity]
	}

	var sigmaDeriv []byte
	if len(sigma) > 1 {
		sigmaDeriv = make([]byte, len(sigma)-1)
		for i := 1; i < len(sigma); i++ {
			if i%2 == 1 {
				sigmaDeriv[i-1] = sigma[i]
			}
		}
	}

	for _, e := range errs {
		num := polyEval(omega, e.x)
		den := polyEval(sigmaDeriv, e.x)
		if den == 0 {
			return fmt.Errorf("rs: uncorrectable block (zero Forney denominator)")
		}
		full[e.pos] ^= div(num, den)
	}
	return nil
}

// berlekampMassey finds the shortest linear feedback shift register
// (the error locator polynomial, ascending order, constant term
// first) that generates the syndrome sequence syn.
func berlekampMassey(syn []byte) []byte {
	c := []byte{1}
	b := []byte{1}
	l := 0
	m := 1
	var bCoef byte = 1

	for i := 0; i < len(syn); i++ {
		delta := syn[i]
		for j := 1; j <= l; j++ {
			if j < len(c) {
				delta ^= mul(c[j], syn[i-j])
			}
		}
		if delta == 0 {
			m++
			continue
		}
		t := append([]byte(nil), c...)
		coef := div(delta, bCoef)
		needLen := len(b) + m
		if len(c) < needLen {
			nc := make([]byte, needLen)
			copy(nc, c)
			c = nc
		}
		for j := 0; j < len(b); j++ {
			c[j+m] ^= mul(coef, b[j])
		}
		if 2*l <= i {
			l = i + 1 - l
			b = t
			bCoef = delta
			m = 1
		} else {
			m++
		}
	}
	return c[:l+1]
}
