// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dmtx

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
)

// EncodeSVG writes an SVG image displaying the code to w.  Each run of
// dark modules in a row is drawn as one rectangle, c.Scale user units
// per module.  A light background is drawn unless it is transparent.
// Images over maxPix pixels on a side are rejected with ErrLargeImage.
func (c *Code) EncodeSVG(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	pw, ph := c.pixels()
	if pw > maxPix || ph > maxPix {
		return ErrLargeImage
	}
	light, dark := c.colors()
	s, bord := c.Scale, c.Border
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" `+
		`width="%d" height="%d" shape-rendering="crispEdges">`+"\n",
		pw, ph)
	if fill := svgFill(light); fill != "" {
		fmt.Fprintf(b, `<rect width="%d" height="%d" x="0" y="0"%s/>`+"\n",
			pw, ph, fill)
	}
	fill := svgFill(dark)
	if fill == "" {
		fill = ` fill="none"`
	}
	fmt.Fprintf(b, "<g%s>\n", fill)
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; {
			for x < c.Width && !c.Black(x, y) {
				x++
			}
			start := x
			for x < c.Width && c.Black(x, y) {
				x++
			}
			if x > start {
				fmt.Fprintf(b, `<rect width="%d" height="%d" x="%d" y="%d"/>`+"\n",
					(x-start)*s, s, (start+bord)*s, (y+bord)*s)
			}
		}
	}
	if _, err := b.WriteString("</g>\n</svg>\n"); err != nil {
		return err
	}
	return b.Flush()
}

// svgFill returns fill and opacity attributes for col, or "" if col
// is fully transparent.
func svgFill(col color.Color) string {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	switch n.A {
	case 0:
		return ""
	case 0xff:
		return fmt.Sprintf(` fill="#%02x%02x%02x"`, n.R, n.G, n.B)
	}
	return fmt.Sprintf(` fill="#%02x%02x%02x" fill-opacity="%.3g"`,
		n.R, n.G, n.B, float64(n.A)/0xff)
}
