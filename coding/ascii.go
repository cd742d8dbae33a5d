// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "strconv"

// ASCII encodation codewords.
const (
	Pad         = 129 // first padding codeword
	UpperShift  = 235 // next codeword is a character above 127
	digitPairs  = 130 // codeword of the digit pair "00"
	maxCharCode = 0xff
)

// A CharError is returned for a character that cannot be encoded in
// ASCII encodation.
type CharError struct {
	Rune rune // offending character
	Pos  int  // byte offset in the text
}

func (e *CharError) Error() string {
	return "dmtx: cannot encode " + strconv.QuoteRune(e.Rune) +
		" at offset " + strconv.Itoa(e.Pos)
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

// appendASCII appends the ASCII encodation of text to cw.
// Two consecutive digits share a codeword; characters 128 to 255 are
// preceded by the upper shift codeword.
func appendASCII(cw []byte, text string) ([]byte, error) {
	prev := rune(-1) // pending digit
	for i, r := range text {
		if prev >= 0 {
			if isDigit(r) {
				cw = append(cw, byte(digitPairs+(prev-'0')*10+(r-'0')))
				prev = -1
				continue
			}
			cw = append(cw, byte(prev+1))
			prev = -1
		}
		switch {
		case r > maxCharCode:
			return cw, &CharError{r, i}
		case r > 127:
			cw = append(cw, UpperShift, byte(r-127))
		case isDigit(r):
			prev = r
		default:
			cw = append(cw, byte(r+1))
		}
	}
	if prev >= 0 {
		cw = append(cw, byte(prev+1))
	}
	return cw, nil
}

// ASCII returns the data codewords encoding text in ASCII encodation.
func ASCII(text string) ([]byte, error) {
	return appendASCII(make([]byte, 0, len(text)), text)
}

// padCodeword returns the padding codeword at 0-based position i of
// the data codewords, for positions after the first padding codeword.
// The result is in the range [1, 254].
func padCodeword(i int) byte {
	v := Pad + 149*(i+1)%253 + 1
	if v > 254 {
		v -= 254
	}
	return byte(v)
}

// PadTo pads data codewords cw to n codewords and returns the
// extended slice.  The first padding codeword is Pad; the following
// ones are randomised by their position.
func PadTo(cw []byte, n int) []byte {
	if len(cw) >= n {
		return cw
	}
	cw = append(cw, Pad)
	for i := len(cw); i < n; i++ {
		cw = append(cw, padCodeword(i))
	}
	return cw
}

// A Buffer accumulates the codewords of a symbol: data codewords,
// padding and check codewords, in that order.
type Buffer struct {
	b []byte
}

// NewBuffer returns a Buffer with enough capacity for a symbol of size s.
func NewBuffer(s Size) *Buffer {
	return &Buffer{b: make([]byte, 0, s.DataBytes()+s.CheckBytes())}
}

// Reset empties b, retaining its storage.
func (b *Buffer) Reset() { b.b = b.b[:0] }

// Len returns the number of codewords in b.
func (b *Buffer) Len() int { return len(b.b) }

// Bytes returns the codewords in b.  The slice aliases the buffer.
func (b *Buffer) Bytes() []byte { return b.b }

// WriteASCII appends the ASCII encodation of text to b.  Digit pairs
// are formed within text only.  On error b is left unchanged.
func (b *Buffer) WriteASCII(text string) error {
	n := len(b.b)
	cw, err := appendASCII(b.b, text)
	if err != nil {
		b.b = b.b[:n]
		return err
	}
	b.b = cw
	return nil
}

// PadTo pads the data codewords in b to n codewords.
func (b *Buffer) PadTo(n int) { b.b = PadTo(b.b, n) }
