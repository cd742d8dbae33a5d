// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func (c *Code) rows() []string {
	rows := make([]string, c.Height)
	var sb strings.Builder
	for y := range rows {
		sb.Reset()
		for x := 0; x < c.Width; x++ {
			if c.Black(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

var test123Square = []string{
	"................",
	".#.#.#.#.#.#.#..",
	".#.##...#..####.",
	".#...#.#.#.##...",
	".###...##..##.#.",
	".#...##..##.....",
	".####..#.##.#.#.",
	".#.#....###.##..",
	".#...#####.#.##.",
	".#.#.#.##.##.#..",
	".#........###.#.",
	".####..#..##.#..",
	".#.#.#.#.#.##.#.",
	".#..##.#.#..#...",
	".##############.",
	"................",
}

var test123Rect = []string{
	"..................................",
	".#.#.#.#.#.#.#.#.#.#.#.#.#.#.#.#..",
	".#.##...#...##.###..#.##.#.#..#.#.",
	".#...#.#.####..#.#.#..#..#.#..##..",
	".###...##....#.########.####....#.",
	".#...##......#.#.#..##..#.#.####..",
	".####..#..########......#.#.##..#.",
	".#.#...#..#......##.#.####..#..#..",
	".################################.",
	"..................................",
}

var digits = []string{
	"............",
	".#.#.#.#.#..",
	".##..#.##.#.",
	".##.....#...",
	".##...###.#.",
	".##....#....",
	".#.....####.",
	".###.##.....",
	".####.##..#.",
	".#..###.#...",
	".##########.",
	"............",
}

func TestEncode(t *testing.T) {
	tests := []struct {
		text string
		rect bool
		size string
		want []string
	}{
		{"TEST123", false, "14x14", test123Square},
		{"TEST123", true, "8x32", test123Rect},
		{"123456", false, "10x10", digits},
	}
	for _, tt := range tests {
		c, s, err := EncodeFrom(tt.text, smallest(tt.rect))
		require.NoError(t, err)
		require.Equal(t, tt.size, s.String())
		require.Equal(t, tt.want, c.rows(), "%q rect=%v", tt.text, tt.rect)

		c2, err := Encode(tt.text, tt.rect)
		require.NoError(t, err)
		require.Equal(t, c, c2, "encoding is deterministic")
	}
}

func TestCheckBytes(t *testing.T) {
	b := NewBuffer(MinSquare)
	require.NoError(t, b.WriteASCII("123456"))
	p, err := NewPlan(MinSquare)
	require.NoError(t, err)
	b.AddCheckBytes(p)
	require.Equal(t, []byte{142, 164, 186, 114, 25, 5, 88, 102}, b.Bytes())
}

func TestCheckBytesInterleaved(t *testing.T) {
	for _, str := range []string{"144x144", "120x120", "64x64", "52x52"} {
		s, err := ParseSize(str)
		require.NoError(t, err)
		p, err := NewPlan(s)
		require.NoError(t, err)
		require.Greater(t, p.Blocks, 1, "%s", s)

		b := NewBuffer(s)
		for i := 0; b.Len() < p.DataBytes/2; i++ {
			require.NoError(t, b.WriteASCII(fmt.Sprint(i%10, "x")))
		}
		b.AddCheckBytes(p)
		cw := b.Bytes()
		require.Len(t, cw, p.DataBytes+p.CheckBytes)

		ne := p.CheckBytes / p.Blocks
		for k := 0; k < p.Blocks; k++ {
			var blk []byte
			for i := k; i < p.DataBytes; i += p.Blocks {
				blk = append(blk, cw[i])
			}
			for i := 0; i < ne; i++ {
				blk = append(blk, cw[p.DataBytes+k+i*p.Blocks])
			}
			for i := 1; i <= ne; i++ {
				require.Zero(t, evalAt(blk, Field.Exp(i)),
					"%s block %d root %d", s, k, i)
			}
		}
	}
}

func TestDimensions(t *testing.T) {
	for _, rect := range []bool{false, true} {
		max := MaxSquare
		if rect {
			max = MaxRect
		}
		text := ""
		for n := 1; n <= max.DataBytes(); n++ {
			text += "A"
			c, s, err := EncodeFrom(text, smallest(rect))
			require.NoError(t, err)
			require.Equal(t, rect, s.Rect())
			require.GreaterOrEqual(t, s.DataBytes(), n)
			require.Equal(t, s.Cols()+2, c.Width, "%s", s)
			require.Equal(t, s.Rows()+2, c.Height, "%s", s)
			require.Equal(t, (c.Width+7)/8, c.Stride)
			require.Len(t, c.Bitmap, c.Stride*c.Height)
		}
		_, err := Encode(text+"A", rect)
		require.ErrorIs(t, err, ErrCapacity)
	}
}

func TestFinder(t *testing.T) {
	for s := Size(0); int(s) < NumSizes; s++ {
		p, err := NewPlan(s)
		require.NoError(t, err)
		c, err := p.Encode("")
		require.NoError(t, err)
		w, h := c.Width, c.Height
		for x := 0; x < w; x++ {
			require.False(t, c.Black(x, 0), "%s", s)
			require.False(t, c.Black(x, h-1), "%s", s)
		}
		for y := 0; y < h; y++ {
			require.False(t, c.Black(0, y), "%s", s)
			require.False(t, c.Black(w-1, y), "%s", s)
		}
		// Outer finder: solid left and bottom, alternating top and right.
		for y := 1; y < h-1; y++ {
			require.True(t, c.Black(1, y), "%s", s)
			require.Equal(t, y%2 == 0, c.Black(w-2, y), "%s row %d", s, y)
		}
		for x := 1; x < w-1; x++ {
			require.True(t, c.Black(x, h-2), "%s", s)
			require.Equal(t, x%2 == 1, c.Black(x, 1), "%s col %d", s, x)
		}
	}
}

func TestEncoder(t *testing.T) {
	e, err := NewEncoder(MinSquare + 2)
	require.NoError(t, err)
	want, err := e.Encode("TEST123")
	require.NoError(t, err)
	require.Equal(t, test123Square, want.rows())

	require.NoError(t, e.Write("TEST"))
	require.NoError(t, e.Write("123"))
	c, err := e.Code()
	require.NoError(t, err)
	require.Equal(t, want, c)

	// Digit pairs do not span writes.
	require.NoError(t, e.Write("TEST1"))
	require.NoError(t, e.Write("23"))
	c, err = e.Code()
	require.NoError(t, err)
	require.NotEqual(t, want, c)

	_, err = e.Encode("ÀÀÀÀÀ")
	require.ErrorIs(t, err, ErrCapacity)
	c, err = e.Encode("TEST123")
	require.NoError(t, err)
	require.Equal(t, want, c, "Encoder is reset after an error")

	_, err = e.Encode("Ā")
	require.Error(t, err)
	require.Zero(t, e.b.Len())

	_, err = NewEncoder(Size(-1))
	require.ErrorIs(t, err, ErrSize)
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode("", false)
	require.ErrorIs(t, err, ErrCapacity)
	_, err = Encode("Ā", false)
	var ce *CharError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, 'Ā', ce.Rune)
}

func ExampleEncode() {
	c, err := Encode("123456", false)
	if err != nil {
		panic(err)
	}
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			if c.Black(x, y) {
				fmt.Print("#")
			} else {
				fmt.Print(".")
			}
		}
		fmt.Println()
	}
	// Output:
	// ............
	// .#.#.#.#.#..
	// .##..#.##.#.
	// .##.....#...
	// .##...###.#.
	// .##....#....
	// .#.....####.
	// .###.##.....
	// .####.##..#.
	// .#..###.#...
	// .##########.
	// ............
}
