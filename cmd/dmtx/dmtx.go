package main

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/unixdj/dmtx"
	"github.com/unixdj/dmtx/coding"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"golang.org/x/text/encoding/charmap"
)

var g = struct {
	scale   int             // scale
	border  int             // extra quiet zone
	palette *[2]color.Color // palette
	rev     bool            // reverse colours
	fn      string          // filename
	size    size            // minimum symbol size
	format  int             // output file format
	cx      int             // randr source X coordinate index in inc
	inc     [2]int          // randr source X,Y coordinate increments
	bg, fg  rgba            // colour
	colSet  bool            // colour set
	rect    bool            // rectangular symbol
	latin1  bool            // Latin-1 input
	win1252 bool            // encode as Windows-1252
	upper   bool            // uppercase
	verbose bool            // print symbol info
}{
	inc: [2]int{1, 1},
	bg:  rgba{0xff, 0xff, 0xff, 0xff},
	fg:  rgba{0x00, 0x00, 0x00, 0xff},
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	prog := cl.Program()
	ul := make([]string, 1, 4)
	ul[0] = cl.UsageLine() + " [string ...]"
	ml := max(70-len("Usage: ")-1-len(prog), 0)
	for i := 0; len(ul[i]) > ml; i++ {
		s := ul[i]
		n := ml - 1
		for n > 0 && (s[n] != ' ' || s[n+1] != '[') {
			n--
		}
		ul = append(ul, s[n+1:])
		ul[i] = s[:max(n, 0)]
		ml = 60
	}
	fmt.Fprint(w, "Data Matrix ECC 200 generator\nUsage: ", prog, " ",
		strings.Join(ul, "\n          "), `
If no string is given, data is read from standard input and the final
newline is stripped.  Defaults: UTF-8 input, smallest square symbol.

`)
	var b bytes.Buffer
	cl.PrintOptions(&b)
	w.Write(b.Bytes())
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`dmtx version 0.1.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2025 Vadim Vygonets`)
	os.Exit(0)
}

func flip() {
	g.inc[0] = -g.inc[0]
}

func rotate() {
	g.cx ^= 1
	m := g.inc[0] * g.inc[1]
	g.inc[0] *= m
	g.inc[1] *= -m
}

// size is a getopt.Value holding a symbol size.
type size struct {
	coding.Size
	set bool
}

func (s *size) String() string {
	if !s.set {
		return ""
	}
	return s.Size.String()
}

func (s *size) Set(v string, _ getopt.Option) error {
	var err error
	if s.Size, err = coding.ParseSize(v); err != nil {
		return err
	}
	s.set = true
	return nil
}

type rgba struct {
	R, G, B, A uint8
}

var rgb = map[string]rgba{
	"black":       {0x00, 0x00, 0x00, 0xff},
	"white":       {0xff, 0xff, 0xff, 0xff},
	"red":         {0xff, 0x00, 0x00, 0xff},
	"green":       {0x00, 0xff, 0x00, 0xff},
	"blue":        {0x00, 0x00, 0xff, 0xff},
	"yellow":      {0xff, 0xff, 0x00, 0xff},
	"cyan":        {0x00, 0xff, 0xff, 0xff},
	"magenta":     {0xff, 0x00, 0xff, 0xff},
	"gray":        {0xbe, 0xbe, 0xbe, 0xff},
	"grey":        {0xbe, 0xbe, 0xbe, 0xff},
	"navyblue":    {0x00, 0x00, 0x80, 0xff},
	"transparent": {0x00, 0x00, 0x00, 0x00},
}

func (c *rgba) String() string {
	if *c == (rgba{0x00, 0x00, 0x00, 0xff}) {
		return "black"
	} else if *c == (rgba{0xff, 0xff, 0xff, 0xff}) {
		return "white"
	} else if c.A == 0xff {
		return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	} else {
		return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
}

func (c *rgba) Set(s string, _ getopt.Option) error {
	g.colSet = true
	var ok bool
	if *c, ok = rgb[strings.ToLower(strings.ReplaceAll(s, " ", ""))]; ok {
		return nil
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("%q: bad colour spec", s)
	}
	switch len(s) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		var nn uint64
		for i := 0; i < 4; i++ {
			nn <<= 8
			nn |= n >> 12 & 0xf * 0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return fmt.Errorf("%q: bad colour spec", s)
	}
	c.R, c.G, c.B, c.A = uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)
	return nil
}

var formats = []string{
	"png", "pngi", "PNG", "PNGi", "pbm", "pbmi", "svg", "svgi",
	"eps", "epsi", "utf8", "utf8i", "ascii", "asciii",
}

var encoders = [...]func(*dmtx.Code, io.Writer) error{
	(*dmtx.Code).EncodePNG,
	func(c *dmtx.Code, w io.Writer) error { return png.Encode(w, c.Image()) },
	(*dmtx.Code).EncodePBM,
	(*dmtx.Code).EncodeSVG,
	eps,
	func(c *dmtx.Code, w io.Writer) error {
		_, err := fmt.Fprint(w, c)
		return err
	},
	ascii,
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.bg, "background", 'B', `background colour; see -F`,
		"RGB[A]|name")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3, 4, 6 or 8 hex digits or a colour name; `+
		`only for types png[i], PNG[i], svg[i] and eps[i]`, "RGB[A]|name")
	getopt.Flag(opt(flip), 'f', `flip code horizontally; `+
		`to flip vertically, use "-frr"`).SetFlag()
	getopt.Flag(opt(rotate), 'r', `rotate code 90° counterclockwise; `+
		`-r and -f may be given multiple times, `+
		`order matters: "-fr" = "-rfrr" = "-rrrf"`).SetFlag()
	getopt.Flag(&g.rect, 'R', "encode a rectangular symbol")
	getopt.Flag(&g.size, 'z', `minimum symbol size, e.g. "24x24" or "12x36"; `+
		`a larger symbol of the same shape is chosen if data does not fit`,
		"RxC")
	getopt.Flag(&g.latin1, '1', "Latin-1 input")
	getopt.Flag(&g.win1252, 'w', `encode characters as Windows-1252 `+
		`codes, for readers that assume it`)
	getopt.Flag(&g.upper, 'i', `ignore case, convert input to uppercase`)
	getopt.Flag(&g.verbose, 'v', "print symbol size and capacity "+
		"to standard error")
	getopt.Flag(&g.border, 'm', `quiet zone modules beyond the `+
		`one module margin`, "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	scale := getopt.Unsigned('s', 4,
		&(getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 1, Max: 1 << 28}),
		`image pixels (type eps[i]: points, svg[i]: user units) `+
			`per module; ignored for types utf8[i] and ascii[i]`, "scale")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`"png" uses a 1-bit PNG encoder; `+
		`"PNG" uses the standard Go encoder; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	if g.border < 0 {
		fmt.Fprintln(os.Stderr, "-m must not be negative")
		usage()
	}
	if g.size.set {
		if getopt.IsSet('R') && !g.size.Rect() {
			fmt.Fprintf(os.Stderr, "-R and -z %s are incompatible\n",
				g.size.Size)
			usage()
		}
	} else if g.rect {
		g.size.Size = coding.MinRect
	}
	g.scale = int(*scale)
	if *ff == "" {
		fd := os.Stdout.Fd()
		if !fno.Seen() &&
			(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	for i, v := range formats {
		if *ff == v {
			g.format = i >> 1
			g.rev = i&1 != 0
			break
		}
	}
	if g.fn == "-" {
		g.fn = ""
	}
	if g.colSet {
		g.palette = &[2]color.Color{color.NRGBA(g.bg), color.NRGBA(g.fg)}
	}
}

// convert applies the input charset and case flags to s.
func convert(s string) (string, error) {
	var err error
	if g.latin1 {
		if s, err = charmap.ISO8859_1.NewDecoder().String(s); err != nil {
			return "", err
		}
	}
	if g.upper {
		s = strings.ToUpper(s)
	}
	if g.win1252 {
		// Each Windows-1252 byte is encoded as the character with
		// the same code.
		if s, err = charmap.Windows1252.NewEncoder().String(s); err != nil {
			return "", err
		}
		if s, err = charmap.ISO8859_1.NewDecoder().String(s); err != nil {
			return "", err
		}
	}
	return s, nil
}

func main() {
	log.SetFlags(0)
	parseFlags()

	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalln(err)
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}
	s, err := convert(s)
	if err != nil {
		log.Fatalln(err)
	}
	c, err := dmtx.EncodeSize(s, g.size.Size)
	if err != nil {
		log.Fatalln(err)
	}
	if g.verbose {
		info(c, s)
	}
	write(c)
}

// info prints the symbol size and capacity use.
func info(c *dmtx.Code, s string) {
	cw, _ := coding.ASCII(s)
	p, err := coding.NewPlan(c.Size)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Fprintf(os.Stderr, "%s: %d of %d data codewords, "+
		"%d check codewords in %d blocks\n",
		c.Size, len(cw), p.DataBytes, p.CheckBytes, p.Blocks)
}

func write(c *dmtx.Code) {
	var w = os.Stdout
	if g.fn != "" {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatalln(err)
		}
	}
	c = randr(c)
	c.Scale = g.scale
	c.Palette = g.palette
	c.Reverse = g.rev
	c.Border = g.border
	err := encoders[g.format](c, w)
	if g.fn != "" && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalln(err)
	}
}

// randr rotates and reflects c.
func randr(c *dmtx.Code) *dmtx.Code {
	cx, inc := g.cx, g.inc
	if cx == 0 && inc == [2]int{1, 1} {
		return c
	}
	dim := [2]int{c.Width, c.Height}
	w, h := dim[cx], dim[cx^1]
	stride := (w + 7) / 8
	b := make([]byte, 0, stride*h)
	var coord [2]int
	coord[cx^1] = (h - 1) & inc[1]
	for y := 0; y < h; y++ {
		coord[cx] = (w - 1) & inc[0]
		var bb byte
		for x := 0; x < w; x++ {
			bb <<= 1
			if c.Black(coord[0], coord[1]) {
				bb |= 1
			}
			if x&7 == 7 {
				b = append(b, bb)
			}
			coord[cx] += inc[0]
		}
		if w&7 != 0 {
			b = append(b, bb<<(8-w&7))
		}
		coord[cx^1] += inc[1]
	}
	c.Bitmap, c.Width, c.Height, c.Stride = b, w, h, stride
	return c
}

func eps(c *dmtx.Code, w io.Writer) error {
	const midx, midy = 306, 396
	wid, hgt := c.Width, c.Height
	scale := c.Scale
	bord := c.Border
	xorig := (midx*2 - (wid+2*bord)*scale) / 2
	yorig := (midy*2 - (hgt+2*bord)*scale) / 2
	fmt.Fprintf(w, `%%!PS-Adobe-2.0 EPSF-2.0
%%%%Creator: dmtx https://github.com/unixdj/dmtx
%%%%Title: Data Matrix %s
%%%%BoundingBox: %d %d %d %d
%%%%EndComments
%%%%EndProlog
<< >> begin
gsave
%g %g translate
%d dup neg scale
/row 0 def
/p { 0 rmoveto 0 rlineto } def
/r { 0 row 1 add dup /row exch def moveto } def
`,
		c.Size, xorig-1, yorig-1, midx*2-xorig, midy*2-yorig,
		midx-float64(wid*scale)/2, midy+float64((hgt-1)*scale)/2-1,
		scale)
	if rev := c.Reverse; rev || g.colSet {
		bg, fg := g.bg, g.fg
		if rev {
			bg, fg = fg, bg
		}
		fmt.Fprintf(w, `newpath %d %g moveto
%d 0 rlineto 0 %d rlineto %d 0 rlineto closepath
%.3g %.3g %.3g setrgbcolor fill
%.3g %.3g %.3g setrgbcolor
`,
			-bord, float64(-bord)-0.5, wid+2*bord, hgt+2*bord, -wid-2*bord,
			float64(bg.R)/0xff, float64(bg.G)/0xff,
			float64(bg.B)/0xff, float64(fg.R)/0xff,
			float64(fg.G)/0xff, float64(fg.B)/0xff)
	}
	fmt.Fprintln(w, "newpath 0 0 moveto")
	for y := 0; y < hgt; y++ {
		for x := 0; x < wid; {
			s := x
			for x < wid && !c.Black(x, y) {
				x++
			}
			if x == wid {
				break
			}
			b := x
			for x < wid && c.Black(x, y) {
				x++
			}
			fmt.Fprintf(w, "%d %d p ", x-b, b-s)
		}
		fmt.Fprintln(w, "r")
	}
	_, err := io.WriteString(w, "stroke grestore\nend\n%%Trailer\n")
	return err
}

func ascii(c *dmtx.Code, w io.Writer) error {
	bord := c.Border
	pw, ph := c.Width+2*bord, c.Height+2*bord
	b := make([]byte, (pw*2+1)*ph)
	dark, light := byte('#'), byte(' ')
	if c.Reverse {
		dark, light = light, dark
	}
	i := 0
	for y := -bord; y < c.Height+bord; y++ {
		for x := -bord; x < c.Width+bord; x++ {
			p := light
			if c.Black(x, y) {
				p = dark
			}
			_ = b[i+1]
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err := w.Write(b)
	return err
}
