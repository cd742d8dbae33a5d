// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrCapacity = errors.New("dmtx: data does not fit")
	ErrSize     = errors.New("dmtx: invalid symbol size")
)

// A Size identifies one of the ECC 200 symbol sizes.  Square sizes run
// from MinSquare to MaxSquare, rectangular sizes from MinRect to
// MaxRect; within each sequence capacity grows with the Size.
type Size int

// Symbol sizes.
const (
	MinSquare Size = 0  // 10x10
	MaxSquare Size = 23 // 144x144
	MinRect   Size = 24 // 8x18
	MaxRect   Size = 29 // 16x48

	NumSizes = int(MaxRect) + 1
)

// A symbol describes the layout and capacity of a symbol size.
type symbol struct {
	rows, cols     int // symbol size without the quiet margin
	data, check    int // data and check codewords
	regRows        int // data regions vertically
	regCols        int // data regions horizontally
	drRows, drCols int // size of each data region
	blocks         int // interleaved Reed-Solomon blocks
}

// ISO/IEC 16022 Table 7.
var stab = [NumSizes]symbol{
	{10, 10, 3, 5, 1, 1, 8, 8, 1},
	{12, 12, 5, 7, 1, 1, 10, 10, 1},
	{14, 14, 8, 10, 1, 1, 12, 12, 1},
	{16, 16, 12, 12, 1, 1, 14, 14, 1},
	{18, 18, 18, 14, 1, 1, 16, 16, 1},
	{20, 20, 22, 18, 1, 1, 18, 18, 1},
	{22, 22, 30, 20, 1, 1, 20, 20, 1},
	{24, 24, 36, 24, 1, 1, 22, 22, 1},
	{26, 26, 44, 28, 1, 1, 24, 24, 1},
	{32, 32, 62, 36, 2, 2, 14, 14, 1},
	{36, 36, 86, 42, 2, 2, 16, 16, 1},
	{40, 40, 114, 48, 2, 2, 18, 18, 1},
	{44, 44, 144, 56, 2, 2, 20, 20, 1},
	{48, 48, 174, 68, 2, 2, 22, 22, 1},
	{52, 52, 204, 84, 2, 2, 24, 24, 2},
	{64, 64, 280, 112, 4, 4, 14, 14, 2},
	{72, 72, 368, 144, 4, 4, 16, 16, 4},
	{80, 80, 456, 192, 4, 4, 18, 18, 4},
	{88, 88, 576, 224, 4, 4, 20, 20, 4},
	{96, 96, 696, 272, 4, 4, 22, 22, 4},
	{104, 104, 816, 336, 4, 4, 24, 24, 6},
	{120, 120, 1050, 408, 6, 6, 18, 18, 6},
	{132, 132, 1304, 496, 6, 6, 20, 20, 8},
	{144, 144, 1558, 620, 6, 6, 22, 22, 10},

	{8, 18, 5, 7, 1, 1, 6, 16, 1},
	{8, 32, 10, 11, 1, 2, 6, 14, 1},
	{12, 26, 16, 14, 1, 1, 10, 24, 1},
	{12, 36, 22, 18, 1, 2, 10, 16, 1},
	{16, 36, 32, 24, 1, 2, 14, 16, 1},
	{16, 48, 49, 28, 1, 2, 14, 22, 1},
}

// Valid reports whether s is a known symbol size.
func (s Size) Valid() bool { return 0 <= s && int(s) < NumSizes }

// Rect reports whether s is a rectangular size.
func (s Size) Rect() bool { return s >= MinRect }

// String returns the size as rows x columns, e.g. "8x18".
func (s Size) String() string {
	if !s.Valid() {
		return "Size(" + strconv.Itoa(int(s)) + ")"
	}
	st := &stab[s]
	return strconv.Itoa(st.rows) + "x" + strconv.Itoa(st.cols)
}

// Rows returns the number of module rows, not counting the quiet margin.
func (s Size) Rows() int { return stab[s].rows }

// Cols returns the number of module columns, not counting the quiet margin.
func (s Size) Cols() int { return stab[s].cols }

// DataBytes returns the number of data codewords.
func (s Size) DataBytes() int { return stab[s].data }

// CheckBytes returns the total number of error correction codewords.
func (s Size) CheckBytes() int { return stab[s].check }

// Blocks returns the number of interleaved Reed-Solomon blocks.
func (s Size) Blocks() int { return stab[s].blocks }

// Regions returns the number of data regions vertically and horizontally.
func (s Size) Regions() (rows, cols int) {
	return stab[s].regRows, stab[s].regCols
}

// RegionSize returns the number of module rows and columns in each
// data region.
func (s Size) RegionSize() (rows, cols int) {
	return stab[s].drRows, stab[s].drCols
}

// MappingSize returns the size of the data grid the codewords are
// placed into: all data regions joined without their finder patterns.
func (s Size) MappingSize() (rows, cols int) {
	st := &stab[s]
	return st.rows - 2*st.regRows, st.cols - 2*st.regCols
}

// shape returns the sizes of the same shape as s.
func (s Size) shape() (first, last Size) {
	if s.Rect() {
		return MinRect, MaxRect
	}
	return MinSquare, MaxSquare
}

// SelectSize returns the smallest square or rectangular size that holds
// n data codewords.
func SelectSize(n int, rect bool) (Size, error) {
	if rect {
		return SelectSizeFrom(n, MinRect)
	}
	return SelectSizeFrom(n, MinSquare)
}

// SelectSizeFrom returns the smallest size of the same shape as min,
// no smaller than min, that holds n data codewords.
func SelectSizeFrom(n int, min Size) (Size, error) {
	if !min.Valid() {
		return 0, ErrSize
	}
	_, last := min.shape()
	if n < 1 {
		return 0, fmt.Errorf("%w: no data", ErrCapacity)
	}
	if max := last.DataBytes(); n > max {
		return 0, fmt.Errorf("%w: %d codewords, at most %d fit in %s",
			ErrCapacity, n, max, last)
	}
	s := min
	for s.DataBytes() < n {
		s++
	}
	return s, nil
}

// ParseSize parses a size given as rows x columns, e.g. "12x36".
func ParseSize(str string) (Size, error) {
	r, c, ok := strings.Cut(strings.ToLower(str), "x")
	if ok {
		rows, err1 := strconv.Atoi(r)
		cols, err2 := strconv.Atoi(c)
		if err1 == nil && err2 == nil {
			for i := range stab {
				if stab[i].rows == rows && stab[i].cols == cols {
					return Size(i), nil
				}
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrSize, str)
}
