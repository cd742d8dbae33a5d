// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level Data Matrix ECC 200 coding
// details: symbol sizes, ASCII encodation, padding, Reed-Solomon block
// interleaving, module placement and finder patterns.
package coding // import "github.com/unixdj/dmtx/coding"

import (
	"fmt"
	"sync"
)

// A Code is a rectangular module grid: a complete symbol surrounded by
// a quiet margin one module wide.
type Code struct {
	Bitmap []byte // 1 is dark, 0 is light
	Width  int    // number of modules in a row
	Height int    // number of rows
	Stride int    // number of bytes per row
}

// newCode returns an all light Code.
func newCode(w, h int) *Code {
	stride := (w + 7) >> 3
	return &Code{
		Bitmap: make([]byte, stride*h),
		Width:  w,
		Height: h,
		Stride: stride,
	}
}

// Black reports whether the module at (x, y) is dark.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Width && 0 <= y && y < c.Height &&
		c.Bitmap[y*c.Stride+x>>3]&(0x80>>(x&7)) != 0
}

func (c *Code) set(x, y int) {
	c.Bitmap[y*c.Stride+x>>3] |= 0x80 >> (x & 7)
}

// A Plan describes how to construct a symbol of a specific size.
// Plans are immutable.
type Plan struct {
	Size Size

	DataBytes  int // number of data codewords
	CheckBytes int // number of check codewords
	Blocks     int // number of interleaved blocks

	Rows, Cols    int // mapping grid size
	Width, Height int // Code size, quiet margin included

	rs *RSEncoder
}

// Plans are created the first time a size is used.
var plans [NumSizes]struct {
	once sync.Once
	p    *Plan
}

// NewPlan returns the Plan for symbols of size s.
func NewPlan(s Size) (*Plan, error) {
	if !s.Valid() {
		return nil, ErrSize
	}
	p := &plans[s]
	p.once.Do(func() { p.p = makePlan(s) })
	return p.p, nil
}

func makePlan(s Size) *Plan {
	rr, rc := s.Regions()
	dr, dc := s.RegionSize()
	p := &Plan{
		Size:       s,
		DataBytes:  s.DataBytes(),
		CheckBytes: s.CheckBytes(),
		Blocks:     s.Blocks(),
		Width:      rc*(dc+2) + 2,
		Height:     rr*(dr+2) + 2,
	}
	p.Rows, p.Cols = s.MappingSize()
	p.rs = NewRSEncoder(p.CheckBytes / p.Blocks)
	return p
}

// AddCheckBytes pads the data codewords in b and appends the
// interleaved check codewords for p.  Block k holds data codewords
// k, k+n, k+2n... for n blocks; its check codewords are interleaved
// the same way after the data.
func (b *Buffer) AddCheckBytes(p *Plan) {
	nd, nb := p.DataBytes, p.Blocks
	if b.Len() > nd {
		panic("dmtx: too much data")
	}
	b.PadTo(nd)
	ne := p.CheckBytes / nb
	b.b = append(b.b, make([]byte, p.CheckBytes)...)
	data, check := b.b[:nd], b.b[nd:]
	if nb == 1 {
		p.rs.ECC(data, check)
		return
	}
	blk := make([]byte, 0, (nd+nb-1)/nb)
	ecc := make([]byte, ne)
	for k := 0; k < nb; k++ {
		blk = blk[:0]
		for i := k; i < nd; i += nb {
			blk = append(blk, data[i])
		}
		p.rs.ECC(blk, ecc)
		for i, v := range ecc {
			check[k+i*nb] = v
		}
	}
}

// Compose surrounds the data regions of g with finder patterns and the
// quiet margin and returns the resulting Code.  Each region is bordered
// by a solid bar on the left and bottom and by alternating modules on
// the top and right.
func (p *Plan) Compose(g *Grid) *Code {
	dr, dc := p.Size.RegionSize()
	c := newCode(p.Width, p.Height)
	h, w := p.Height-2, p.Width-2
	for i := 0; i < h; i++ {
		ri := i % (dr + 2)
		for j := 0; j < w; j++ {
			rj := j % (dc + 2)
			var dark bool
			switch {
			case ri == 0: // top
				dark = j%2 == 0
			case ri == dr+1: // bottom
				dark = true
			case rj == dc+1: // right
				dark = i%2 != 0
			case rj == 0: // left
				dark = true
			default:
				// Skip two border modules per region passed.
				dark = g.Get(i-1-2*(i/(dr+2)), j-1-2*(j/(dc+2)))
			}
			if dark {
				c.set(j+1, i+1)
			}
		}
	}
	return c
}

// Encoder encodes a Data Matrix symbol.
type Encoder struct {
	p *Plan
	b *Buffer
}

func newEncoder(p *Plan) *Encoder {
	return &Encoder{p: p, b: NewBuffer(p.Size)}
}

// NewEncoder returns an Encoder for symbols of size s.
func NewEncoder(s Size) (*Encoder, error) {
	p, err := NewPlan(s)
	if err != nil {
		return nil, err
	}
	return newEncoder(p), nil
}

// Write adds text to e.
func (e *Encoder) Write(text string) error {
	return e.b.WriteASCII(text)
}

// Reset discards the text written to e.
func (e *Encoder) Reset() { e.b.Reset() }

// Code returns a symbol containing the text written to e.
// Code resets e.
func (e *Encoder) Code() (*Code, error) {
	defer e.Reset()
	p := e.p
	if n := e.b.Len(); n > p.DataBytes {
		return nil, fmt.Errorf("%w: cannot encode %d codewords into %s symbol of %d",
			ErrCapacity, n, p.Size, p.DataBytes)
	}
	e.b.AddCheckBytes(p)
	g, err := Place(e.b.Bytes(), p.Rows, p.Cols)
	if err != nil {
		return nil, err
	}
	return p.Compose(g), nil
}

// Encode is a wrapper around Write and Code.
func (e *Encoder) Encode(text string) (*Code, error) {
	if err := e.Write(text); err != nil {
		e.Reset()
		return nil, err
	}
	return e.Code()
}

// Encode encodes text into a symbol of size p.Size.
func (p *Plan) Encode(text string) (*Code, error) {
	return newEncoder(p).Encode(text)
}

// Encode encodes text into the smallest square or rectangular symbol
// that holds it.
func Encode(text string, rect bool) (*Code, error) {
	c, _, err := EncodeFrom(text, smallest(rect))
	return c, err
}

// EncodeFrom encodes text into the smallest symbol of the same shape
// as min, no smaller than min, that holds it.  It returns the symbol
// and its size.
func EncodeFrom(text string, min Size) (*Code, Size, error) {
	cw, err := ASCII(text)
	if err != nil {
		return nil, 0, err
	}
	s, err := SelectSizeFrom(len(cw), min)
	if err != nil {
		return nil, 0, err
	}
	p, err := NewPlan(s)
	if err != nil {
		return nil, 0, err
	}
	b := &Buffer{b: cw}
	b.AddCheckBytes(p)
	g, err := Place(b.Bytes(), p.Rows, p.Cols)
	if err != nil {
		return nil, 0, err
	}
	return p.Compose(g), s, nil
}

func smallest(rect bool) Size {
	if rect {
		return MinRect
	}
	return MinSquare
}
