// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dmtx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image/color"
	"io"

	"github.com/klauspost/compress/zlib"
)

var (
	ErrArgs       = errors.New("dmtx: invalid arguments")
	ErrLargeImage = errors.New("dmtx: image too large")
)

// maxPix is the largest image side in pixels.
const maxPix = 32767 * 8

// PNG returns a PNG image displaying the code.
// The image is 1-bit grayscale, or 1-bit paletted if c.Palette is set.
//
// PNG returns nil if the image would be over maxPix pixels on a side.
func (c *Code) PNG() []byte {
	var b bytes.Buffer
	if err := encodePNG(&b, c); err != nil {
		return nil
	}
	return b.Bytes()
}

// EncodePNG writes a PNG image displaying the code to w.
func (c *Code) EncodePNG(w io.Writer) error {
	if w == nil {
		return ErrArgs
	}
	return encodePNG(w, c)
}

const pngHeader = "\x89PNG\r\n\x1a\n"

const chunkSize = 0x8000 // IDAT chunks split after 32 KB

// A pngWriter writes PNG chunks to w.  After the first error all writes
// are no-ops.
type pngWriter struct {
	w   io.Writer
	err error
	tmp [13]byte

	idat []byte // pending IDAT data
}

func (w *pngWriter) write(b []byte) {
	if w.err == nil {
		_, w.err = w.w.Write(b)
	}
}

func (w *pngWriter) writeChunk(name string, data []byte) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(data)))
	copy(hdr[4:], name)
	crc := crc32.NewIEEE()
	crc.Write(hdr[4:])
	crc.Write(data)
	w.write(hdr[:])
	w.write(data)
	w.write(binary.BigEndian.AppendUint32(hdr[:0], crc.Sum32()))
}

// Write implements io.Writer for the zlib stream, emitting an IDAT
// chunk each chunkSize bytes.
func (w *pngWriter) Write(b []byte) (int, error) {
	n := len(b)
	for len(b) > 0 {
		k := min(chunkSize-len(w.idat), len(b))
		w.idat = append(w.idat, b[:k]...)
		b = b[k:]
		if len(w.idat) == chunkSize {
			w.flushIDAT()
		}
	}
	return n, w.err
}

func (w *pngWriter) flushIDAT() {
	if len(w.idat) != 0 {
		w.writeChunk("IDAT", w.idat)
		w.idat = w.idat[:0]
	}
}

func encodePNG(ww io.Writer, c *Code) error {
	if !c.isValid() {
		return ErrArgs
	}
	pw, ph := c.pixels()
	if pw > maxPix || ph > maxPix {
		return ErrLargeImage
	}
	w := pngWriter{w: ww, idat: make([]byte, 0, chunkSize)}
	pal, usePal := c.palette()

	w.write([]byte(pngHeader))

	// Header block
	binary.BigEndian.PutUint32(w.tmp[0:4], uint32(pw))
	binary.BigEndian.PutUint32(w.tmp[4:8], uint32(ph))
	w.tmp[8] = 1 // 1-bit
	if usePal {
		w.tmp[9] = 3 // palette
	} else {
		w.tmp[9] = 0 // gray
	}
	w.tmp[10] = 0 // deflate
	w.tmp[11] = 0 // adaptive filtering
	w.tmp[12] = 0 // no interlace
	w.writeChunk("IHDR", w.tmp[:13])

	// Palette and transparency
	if usePal {
		w.writeChunk("PLTE", []byte{
			pal[0].R, pal[0].G, pal[0].B,
			pal[1].R, pal[1].G, pal[1].B,
		})
		trns := []byte{pal[0].A, pal[1].A}
		for a := 2; a > 0; a-- {
			if trns[a-1] != 0xff {
				w.writeChunk("tRNS", trns[:a])
				break
			}
		}
	}

	// Data
	zw, err := zlib.NewWriterLevel(&w, zlib.BestCompression)
	if err != nil {
		return err
	}
	// Gray sample 1 is white; palette index 1 is the dark colour.
	set := usePal || c.Reverse
	row := make([]byte, 1+(pw+7)/8) // filter type 0
	for y := -c.Border; y < c.Height+c.Border; y++ {
		c.pixelRow(row[1:], y, set)
		for i := 0; i < c.Scale && w.err == nil; i++ {
			zw.Write(row)
		}
	}
	if err := zw.Close(); err != nil && w.err == nil {
		w.err = err
	}
	w.flushIDAT()

	// End
	w.writeChunk("IEND", nil)
	return w.err
}

// palette returns the light and dark colours for a paletted image,
// Reverse applied, or false if c.Palette is unset.
func (c *Code) palette() ([2]color.NRGBA, bool) {
	if c.Palette == nil {
		return [2]color.NRGBA{}, false
	}
	light, dark := c.colors()
	return [2]color.NRGBA{
		color.NRGBAModel.Convert(light).(color.NRGBA),
		color.NRGBAModel.Convert(dark).(color.NRGBA),
	}, true
}
