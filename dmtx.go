// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package dmtx encodes Data Matrix ECC 200 symbols.

Text is encoded in ASCII encodation: digit pairs share a codeword,
characters from U+0080 to U+00FF take two.  The smallest square or
rectangular symbol that holds the data is chosen.  The resulting Code
can be rendered as an image.Image, PNG, PBM, SVG or UTF-8 text.
*/
package dmtx // import "github.com/unixdj/dmtx"

import (
	"image"
	"image/color"
	"strings"

	"github.com/unixdj/dmtx/coding"
)

// Encode returns an encoding of text in the smallest square symbol, or
// the smallest rectangular one if rect is set.
func Encode(text string, rect bool) (*Code, error) {
	min := coding.MinSquare
	if rect {
		min = coding.MinRect
	}
	return EncodeSize(text, min)
}

// EncodeSize returns an encoding of text in the smallest symbol of the
// same shape as s, no smaller than s, that holds it.
func EncodeSize(text string, s coding.Size) (*Code, error) {
	cc, s, err := coding.EncodeFrom(text, s)
	if err != nil {
		return nil, err
	}
	return &Code{
		Bitmap: cc.Bitmap,
		Width:  cc.Width,
		Height: cc.Height,
		Stride: cc.Stride,
		Size:   s,
		Scale:  8,
	}, nil
}

// A Code is a Data Matrix symbol surrounded by a quiet margin one
// module wide.  It implements image.Image and direct PNG encoding.
type Code struct {
	Bitmap []byte      // 1 is dark, 0 is light
	Width  int         // number of modules in a row
	Height int         // number of rows
	Stride int         // number of bytes per row
	Size   coding.Size // symbol size

	Scale   int             // number of image pixels per module
	Border  int             // extra quiet zone modules around the margin
	Palette *[2]color.Color // light and dark colours; nil is white and black
	Reverse bool            // swap light and dark
}

// Black returns true if the module at (x,y) is dark.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Width && 0 <= y && y < c.Height &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7-x&7)) != 0
}

func (c *Code) isValid() bool {
	return c != nil && c.Width > 0 && c.Height > 0 &&
		c.Stride >= (c.Width+7)/8 && len(c.Bitmap) >= c.Stride*c.Height &&
		c.Scale > 0 && c.Border >= 0 &&
		(c.Palette == nil || c.Palette[0] != nil && c.Palette[1] != nil)
}

// pixels returns the image size in pixels.
func (c *Code) pixels() (w, h int) {
	return (c.Width + 2*c.Border) * c.Scale,
		(c.Height + 2*c.Border) * c.Scale
}

var (
	whiteColor color.Color = color.Gray{0xFF}
	blackColor color.Color = color.Gray{0x00}
)

// colors returns the colours of light and dark modules.
func (c *Code) colors() (light, dark color.Color) {
	light, dark = whiteColor, blackColor
	if c.Palette != nil {
		light, dark = c.Palette[0], c.Palette[1]
	}
	if c.Reverse {
		light, dark = dark, light
	}
	return
}

// pixelRow fills row with the pixels of module row y, Border included,
// one bit per pixel.  Pixels of modules whose darkness equals set are 1.
func (c *Code) pixelRow(row []byte, y int, set bool) {
	scale, bord := c.Scale, c.Border
	if scale == 1 && bord == 0 && set && 0 <= y && y < c.Height {
		copy(row, c.Bitmap[y*c.Stride:(y+1)*c.Stride])
		return
	}
	clear(row)
	n := (c.Width + 2*bord) * scale
	for i := 0; i < n; i++ {
		if c.Black(i/scale-bord, y) == set {
			row[i>>3] |= 0x80 >> (i & 7)
		}
	}
}

// Image returns an Image displaying the code.
func (c *Code) Image() image.Image {
	light, dark := c.colors()
	return &codeImage{c, light, dark}
}

// codeImage implements image.Image
type codeImage struct {
	*Code
	light, dark color.Color
}

func (c *codeImage) Bounds() image.Rectangle {
	w, h := c.pixels()
	return image.Rect(0, 0, w, h)
}

func (c *codeImage) At(x, y int) color.Color {
	s, b := c.Scale, c.Border
	if x >= 0 && y >= 0 && c.Black(x/s-b, y/s-b) {
		return c.dark
	}
	return c.light
}

func (c *codeImage) ColorModel() color.Model {
	if c.Palette == nil {
		return color.GrayModel
	}
	return color.Palette{c.light, c.dark}
}

// blocks are indexed by two bits: top and bottom half lit.
var blocks = [4]string{" ", "▄", "▀", "█"}

// String returns the code as UTF-8 text, two rows per line, for display
// on a dark terminal: light modules are drawn as blocks, dark ones as
// spaces.  Reverse draws dark modules.  String disregards c.Scale and
// c.Palette.
func (c *Code) String() string {
	bord := c.Border
	w, h := c.Width+2*bord, c.Height+2*bord
	lit := func(x, y int) int {
		if y < c.Height+bord && c.Black(x, y) == c.Reverse {
			return 1
		}
		return 0
	}
	var b strings.Builder
	b.Grow((w*3 + 1) * (h + 1) / 2)
	for y := -bord; y < c.Height+bord; y += 2 {
		for x := -bord; x < c.Width+bord; x++ {
			b.WriteString(blocks[lit(x, y)<<1|lit(x, y+1)])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
