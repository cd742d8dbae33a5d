package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/unixdj/dmtx"
)

func TestRGBA(t *testing.T) {
	defer func(v bool) { g.colSet = v }(g.colSet)
	tests := []struct {
		in   string
		want rgba
		str  string
	}{
		{"fff", rgba{0xff, 0xff, 0xff, 0xff}, "white"},
		{"1234", rgba{0x11, 0x22, 0x33, 0x44}, "11223344"},
		{"abcdef", rgba{0xab, 0xcd, 0xef, 0xff}, "abcdef"},
		{"00000080", rgba{0, 0, 0, 0x80}, "00000080"},
		{"Navy Blue", rgba{0, 0, 0x80, 0xff}, "000080"},
		{"BLACK", rgba{0, 0, 0, 0xff}, "black"},
	}
	for _, tt := range tests {
		var c rgba
		require.NoError(t, c.Set(tt.in, nil), tt.in)
		require.Equal(t, tt.want, c, tt.in)
		require.Equal(t, tt.str, c.String(), tt.in)
	}
	for _, s := range []string{"", "12", "12345", "xyz", "chartreuse"} {
		var c rgba
		require.Error(t, c.Set(s, nil), s)
	}
}

func TestSize(t *testing.T) {
	var s size
	require.Empty(t, s.String())
	require.NoError(t, s.Set("16x48", nil))
	require.True(t, s.set)
	require.True(t, s.Rect())
	require.Equal(t, "16x48", s.String())
	require.Error(t, s.Set("15x15", nil))
}

func newCode(w, h int, dark ...[2]int) *dmtx.Code {
	stride := (w + 7) / 8
	c := &dmtx.Code{
		Bitmap: make([]byte, stride*h),
		Width:  w,
		Height: h,
		Stride: stride,
	}
	for _, d := range dark {
		c.Bitmap[d[1]*stride+d[0]/8] |= 0x80 >> (d[0] % 8)
	}
	return c
}

func TestRandr(t *testing.T) {
	defer func(cx int, inc [2]int) { g.cx, g.inc = cx, inc }(g.cx, g.inc)
	tests := []struct {
		ops  string
		w, h int
		dark [][2]int
	}{
		{"", 3, 2, [][2]int{{0, 0}, {2, 1}}},
		{"f", 3, 2, [][2]int{{2, 0}, {0, 1}}},
		{"r", 2, 3, [][2]int{{0, 2}, {1, 0}}},
		{"rr", 3, 2, [][2]int{{2, 1}, {0, 0}}},
		{"frr", 3, 2, [][2]int{{0, 1}, {2, 0}}},
		{"rrrr", 3, 2, [][2]int{{0, 0}, {2, 1}}},
	}
	for _, tt := range tests {
		g.cx, g.inc = 0, [2]int{1, 1}
		for _, op := range tt.ops {
			if op == 'f' {
				flip()
			} else {
				rotate()
			}
		}
		c := randr(newCode(3, 2, [2]int{0, 0}, [2]int{2, 1}))
		require.Equal(t, newCode(tt.w, tt.h, tt.dark...), c, tt.ops)
	}

	// Rows a multiple of 8 wide.
	g.cx, g.inc = 0, [2]int{1, 1}
	flip()
	c := randr(newCode(16, 2, [2]int{0, 0}, [2]int{15, 1}))
	require.Equal(t, newCode(16, 2, [2]int{15, 0}, [2]int{0, 1}), c)
}

func TestConvert(t *testing.T) {
	defer func(l, w, u bool) { g.latin1, g.win1252, g.upper = l, w, u }(
		g.latin1, g.win1252, g.upper)

	g.latin1, g.win1252, g.upper = false, false, false
	s, err := convert("café")
	require.NoError(t, err)
	require.Equal(t, "café", s)

	g.latin1 = true
	s, err = convert("caf\xe9")
	require.NoError(t, err)
	require.Equal(t, "café", s)

	g.latin1, g.upper = false, true
	s, err = convert("café")
	require.NoError(t, err)
	require.Equal(t, "CAFÉ", s)

	g.upper, g.win1252 = false, true
	s, err = convert("5 €")
	require.NoError(t, err)
	require.Equal(t, "5 \u0080", s)
	_, err = convert("日本")
	require.Error(t, err)
}

func TestASCIIArt(t *testing.T) {
	c := newCode(2, 2, [2]int{0, 0}, [2]int{1, 1})
	c.Border = 1
	var b bytes.Buffer
	require.NoError(t, ascii(c, &b))
	require.Equal(t, strings.Join([]string{
		"        ",
		"  ##    ",
		"    ##  ",
		"        ",
		"",
	}, "\n"), b.String())

	c.Border = 0
	c.Reverse = true
	b.Reset()
	require.NoError(t, ascii(c, &b))
	require.Equal(t, "  ##\n##  \n", b.String())
}

func TestEPS(t *testing.T) {
	c, err := dmtx.Encode("123456", false)
	require.NoError(t, err)
	c.Scale = 4
	var b bytes.Buffer
	require.NoError(t, eps(c, &b))
	s := b.String()
	require.True(t, strings.HasPrefix(s, "%!PS-Adobe-2.0 EPSF-2.0\n"))
	require.Contains(t, s, "%%Title: Data Matrix 10x10\n")
	require.Equal(t, c.Height, strings.Count(s, " r\n")+strings.Count(s, "\nr\n"))
	require.True(t, strings.HasSuffix(s, "%%Trailer\n"))
}
