// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dmtx

import (
	"bufio"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.  EncodePBM disregards c.Palette, as other PNM
// formats are not supported.  It returns ErrLargeImage if the image
// would be over maxPix pixels on a side.
func (c *Code) EncodePBM(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	pw, ph := c.pixels()
	if pw > maxPix || ph > maxPix {
		return ErrLargeImage
	}
	b := bufio.NewWriter(w)
	if _, err := b.WriteString("P4\n" + strconv.Itoa(pw) + " " +
		strconv.Itoa(ph) + "\n"); err != nil {
		return err
	}
	// PBM 1 is black.
	row := make([]byte, (pw+7)/8)
	for y := -c.Border; y < c.Height+c.Border; y++ {
		c.pixelRow(row, y, !c.Reverse)
		for i := 0; i < c.Scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}
