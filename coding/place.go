// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"fmt"
)

// ErrPlacement is returned when the codewords do not fill the mapping
// grid exactly.  It never happens for a Buffer built for the symbol
// size the grid belongs to.
var ErrPlacement = errors.New("dmtx: internal error: codeword placement mismatch")

// A Grid holds the modules of the mapping grid: the data regions of a
// symbol joined without their finder patterns.
type Grid struct {
	Rows, Cols int
	bits       []bool
}

// NewGrid returns an empty grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{Rows: rows, Cols: cols, bits: make([]bool, rows*cols)}
}

// Get reports whether the module at row, col is dark.
func (g *Grid) Get(row, col int) bool { return g.bits[row*g.Cols+col] }

// Wrap maps a module position left of or above the grid to the position
// it stands for on the opposite edge.  Positions inside the grid are
// returned unchanged.
func Wrap(row, col, rows, cols int) (int, int) {
	if row < 0 {
		row += rows
		col += 4 - (rows+4)%8
	}
	if col < 0 {
		col += cols
		row += 4 - (cols+4)%8
	}
	return row, col
}

// utah holds the module offsets of a codeword relative to its anchor,
// most significant bit first.
var utah = [8][2]int{
	{-2, -2}, {-2, -1},
	{-1, -2}, {-1, -1}, {-1, 0},
	{0, -2}, {0, -1}, {0, 0},
}

// corner returns the module positions of corner pattern n, most
// significant bit first.
func corner(n, rows, cols int) [8][2]int {
	r, c := rows-1, cols-1
	switch n {
	case 1:
		return [8][2]int{{r, 0}, {r, 1}, {r, 2},
			{0, c - 1}, {0, c}, {1, c}, {2, c}, {3, c}}
	case 2:
		return [8][2]int{{r - 2, 0}, {r - 1, 0}, {r, 0},
			{0, c - 3}, {0, c - 2}, {0, c - 1}, {0, c}, {1, c}}
	case 3:
		return [8][2]int{{r - 2, 0}, {r - 1, 0}, {r, 0},
			{0, c - 1}, {0, c}, {1, c}, {2, c}, {3, c}}
	default: // 4
		return [8][2]int{{r, 0}, {r, c},
			{0, c - 2}, {0, c - 1}, {0, c}, {1, c - 2}, {1, c - 1}, {1, c}}
	}
}

// placer places codeword bits into a grid.
type placer struct {
	g        *Grid
	assigned []bool
	cw       []byte
	next     int  // next codeword
	overlap  int  // modules written more than once
	outside  int  // modules wrapped outside the grid
	short    bool // ran out of codewords
}

func (p *placer) in(row, col int) bool {
	return 0 <= row && row < p.g.Rows && 0 <= col && col < p.g.Cols
}

func (p *placer) module(row, col int, bit bool) {
	row, col = Wrap(row, col, p.g.Rows, p.g.Cols)
	if !p.in(row, col) {
		p.outside++
		return
	}
	i := row*p.g.Cols + col
	if p.assigned[i] {
		p.overlap++
		return
	}
	p.g.bits[i] = bit
	p.assigned[i] = true
}

// codeword places the next codeword at the given module positions.
func (p *placer) codeword(pos *[8][2]int) {
	if p.next >= len(p.cw) {
		p.short = true
		return
	}
	v := p.cw[p.next]
	p.next++
	for i := range pos {
		p.module(pos[i][0], pos[i][1], v&(0x80>>i) != 0)
	}
}

// anchor places the next codeword around the anchor at row, col.
func (p *placer) anchor(row, col int) {
	var pos [8][2]int
	for i, o := range utah {
		pos[i] = [2]int{row + o[0], col + o[1]}
	}
	p.codeword(&pos)
}

func (p *placer) free(row, col int) bool {
	return p.in(row, col) && !p.assigned[row*p.g.Cols+col]
}

// place runs the placement traversal.
func place(cw []byte, rows, cols int) *placer {
	p := &placer{
		g:        NewGrid(rows, cols),
		assigned: make([]bool, rows*cols),
		cw:       cw,
	}
	// Fixed pattern in the bottom right corner, which no
	// codeword reaches when the grid size is not a multiple of 8.
	if rows*cols%8 == 4 {
		p.module(rows-2, cols-2, true)
		p.module(rows-1, cols-1, true)
		p.module(rows-1, cols-2, false)
		p.module(rows-2, cols-1, false)
	}

	row, col := 4, 0
	for {
		n := 0
		switch {
		case row == rows && col == 0:
			n = 1
		case row == rows-2 && col == 0 && cols%4 != 0:
			n = 2
		case row == rows-2 && col == 0 && cols%8 == 4:
			n = 3
		case row == rows+4 && col == 2 && cols%8 == 0:
			n = 4
		}
		if n != 0 {
			pos := corner(n, rows, cols)
			p.codeword(&pos)
		}

		// Up and right.
		for {
			if row < rows && col >= 0 && p.free(row, col) {
				p.anchor(row, col)
			}
			row -= 2
			col += 2
			if row < 0 || col >= cols {
				break
			}
		}
		row++
		col += 3

		// Down and left.
		for {
			if row >= 0 && col < cols && p.free(row, col) {
				p.anchor(row, col)
			}
			row += 2
			col -= 2
			if row >= rows || col < 0 {
				break
			}
		}
		row += 3
		col++

		if row >= rows && col >= cols {
			break
		}
	}
	return p
}

// Place places codewords cw into a rows x cols grid following the
// ECC 200 diagonal module placement.  It returns ErrPlacement unless
// the codewords fill the grid exactly, which also fails for many grid
// sizes no symbol uses.
func Place(cw []byte, rows, cols int) (*Grid, error) {
	if rows < 6 || cols < 6 || rows%2 != 0 || cols%2 != 0 {
		return nil, fmt.Errorf("%w: %dx%d grid", ErrPlacement, rows, cols)
	}
	p := place(cw, rows, cols)
	if p.outside != 0 {
		return nil, fmt.Errorf("%w: %d modules outside %dx%d grid",
			ErrPlacement, p.outside, rows, cols)
	}
	if p.short {
		return nil, fmt.Errorf("%w: %d codewords are too few for %dx%d grid",
			ErrPlacement, len(cw), rows, cols)
	}
	if p.next != len(cw) {
		return nil, fmt.Errorf("%w: %d of %d codewords placed",
			ErrPlacement, p.next, len(cw))
	}
	for _, v := range p.assigned {
		if !v {
			return nil, fmt.Errorf("%w: unassigned modules in %dx%d grid",
				ErrPlacement, rows, cols)
		}
	}
	return p.g, nil
}
