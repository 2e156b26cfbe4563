package zpl

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"correioszpl/internal/symbol"
)

// Mark identifies one of the carrier service logos.
type Mark int

const (
	MarkPAC Mark = iota
	MarkSedex
	MarkSedex10
	MarkRegisteredLetter
)

func (m Mark) String() string {
	switch m {
	case MarkSedex:
		return "sedex"
	case MarkSedex10:
		return "sedex10"
	case MarkRegisteredLetter:
		return "registered_letter"
	default:
		return "pac"
	}
}

var upper = cases.Upper(language.BrazilianPortuguese)

// SelectLogo picks the logo for a service name. Matching is case-insensitive
// and the first rule wins: CARTA, then SEDEX 10, SEDEX 12 or HOJE, then SEDEX.
// Anything else gets PAC.
func SelectLogo(serviceName string) Mark {
	name := upper.String(serviceName)
	switch {
	case strings.Contains(name, "CARTA"):
		return MarkRegisteredLetter
	case strings.Contains(name, "SEDEX 10"),
		strings.Contains(name, "SEDEX 12"),
		strings.Contains(name, "HOJE"):
		return MarkSedex10
	case strings.Contains(name, "SEDEX"):
		return MarkSedex
	default:
		return MarkPAC
	}
}

// Logos holds one graphic field directive per mark.
type Logos struct {
	PAC              string
	Sedex            string
	Sedex10          string
	RegisteredLetter string
}

// For returns the directive for m.
func (l Logos) For(m Mark) string {
	switch m {
	case MarkSedex:
		return l.Sedex
	case MarkSedex10:
		return l.Sedex10
	case MarkRegisteredLetter:
		return l.RegisteredLetter
	default:
		return l.PAC
	}
}

// LogoFiles points at PNG artwork; empty entries keep the built-in mark.
type LogoFiles struct {
	PAC              string
	Sedex            string
	Sedex10          string
	RegisteredLetter string
}

const (
	logoWidth  = 76
	logoHeight = 48
	logoScale  = 2
)

var logoCaptions = map[Mark][]string{
	MarkPAC:              {"PAC"},
	MarkSedex:            {"SEDEX"},
	MarkSedex10:          {"SEDEX", "10"},
	MarkRegisteredLetter: {"CARTA", "REGISTRADA"},
}

// DefaultLogos draws a bordered caption for every mark and compresses it.
// The output is identical on every call for the same compressor.
func DefaultLogos(c symbol.Compressor) (Logos, error) {
	var logos Logos
	for _, m := range []Mark{MarkPAC, MarkSedex, MarkSedex10, MarkRegisteredLetter} {
		field, err := c.Compress(drawMark(logoCaptions[m]))
		if err != nil {
			return Logos{}, fmt.Errorf("logo %s: %w", m, err)
		}
		logos.set(m, field.Directive())
	}
	return logos, nil
}

// LoadLogos starts from DefaultLogos and replaces every mark that has
// artwork configured.
func LoadLogos(files LogoFiles, c symbol.Compressor) (Logos, error) {
	logos, err := DefaultLogos(c)
	if err != nil {
		return Logos{}, err
	}
	paths := map[Mark]string{
		MarkPAC:              files.PAC,
		MarkSedex:            files.Sedex,
		MarkSedex10:          files.Sedex10,
		MarkRegisteredLetter: files.RegisteredLetter,
	}
	for m, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		directive, err := LogoFromPNG(path, c)
		if err != nil {
			return Logos{}, fmt.Errorf("logo %s: %w", m, err)
		}
		logos.set(m, directive)
	}
	return logos, nil
}

// LogoFromPNG converts a PNG file into a graphic field directive, suitable
// for the built-in marks or for a custom sender logo.
func LogoFromPNG(path string, c symbol.Compressor) (string, error) {
	return symbol.FieldFromFile(path, c)
}

func (l *Logos) set(m Mark, directive string) {
	switch m {
	case MarkSedex:
		l.Sedex = directive
	case MarkSedex10:
		l.Sedex10 = directive
	case MarkRegisteredLetter:
		l.RegisteredLetter = directive
	default:
		l.PAC = directive
	}
}

func drawMark(lines []string) image.Image {
	canvas := image.NewGray(image.Rect(0, 0, logoWidth, logoHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	black := image.NewUniform(color.Black)
	for x := 0; x < logoWidth; x++ {
		canvas.Set(x, 0, color.Black)
		canvas.Set(x, logoHeight-1, color.Black)
	}
	for y := 0; y < logoHeight; y++ {
		canvas.Set(0, y, color.Black)
		canvas.Set(logoWidth-1, y, color.Black)
	}

	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	top := (logoHeight - lineHeight*len(lines)) / 2
	d := &font.Drawer{Dst: canvas, Src: black, Face: face}
	for i, text := range lines {
		width := d.MeasureString(text).Ceil()
		baseline := top + i*lineHeight + face.Metrics().Ascent.Ceil()
		d.Dot = fixed.P((logoWidth-width)/2, baseline)
		d.DrawString(text)
	}

	scaled := image.NewGray(image.Rect(0, 0, logoWidth*logoScale, logoHeight*logoScale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	return scaled
}
