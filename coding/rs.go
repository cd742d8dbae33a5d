// Copyright 2010 The Go Authors.  All rights reserved.
// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "rsc.io/qr/gf256"

// Field is the field for ECC 200 error correction:
// x^8 + x^5 + x^3 + x^2 + 1 with α = 2.
var Field = gf256.NewField(0x12d, 2)

// scalePow2 returns a·α^e.
func scalePow2(a byte, e int) byte {
	return Field.Mul(a, Field.Exp(e))
}

// An RSEncoder computes Reed-Solomon check bytes for a fixed number of
// check bytes.  The generator polynomial has the roots α^1 through α^n.
// An RSEncoder is immutable and may be shared between goroutines.
type RSEncoder struct {
	gen []byte // gen[i] is the coefficient of x^i; gen[n] == 1
}

// NewRSEncoder returns an RSEncoder producing n check bytes.
func NewRSEncoder(n int) *RSEncoder {
	if n < 1 || n > 254 {
		panic("dmtx: invalid number of check bytes")
	}
	gen := make([]byte, n+1)
	for i := range gen {
		gen[i] = 1
	}
	// Multiply by (x + α^i) for i in 1..n, updating the
	// coefficients from the top so lower ones are still intact.
	for i := 1; i <= n; i++ {
		for j := i - 1; j >= 0; j-- {
			gen[j] = scalePow2(gen[j], i)
			if j > 0 {
				gen[j] = Field.Add(gen[j], gen[j-1])
			}
		}
	}
	return &RSEncoder{gen: gen}
}

// Len returns the number of check bytes produced by rs.
func (rs *RSEncoder) Len() int { return len(rs.gen) - 1 }

// Generator returns a copy of the generator polynomial coefficients,
// lowest degree first.
func (rs *RSEncoder) Generator() []byte {
	return append([]byte(nil), rs.gen...)
}

// ECC writes the check bytes for data to check, which must be at least
// rs.Len() bytes long.  The first check byte is the coefficient of the
// highest degree of the remainder.
func (rs *RSEncoder) ECC(data, check []byte) {
	n := rs.Len()
	if len(check) < n {
		panic("dmtx: check buffer too short")
	}
	reg := check[:n]
	clear(reg)
	gen := rs.gen
	for _, d := range data {
		fb := Field.Add(d, reg[n-1])
		for j := n - 1; j > 0; j-- {
			reg[j] = Field.Add(reg[j-1], Field.Mul(fb, gen[j]))
		}
		reg[0] = Field.Mul(fb, gen[0])
	}
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		reg[i], reg[j] = reg[j], reg[i]
	}
}
