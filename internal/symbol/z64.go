package symbol

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
)

// DefaultBlackThreshold is the luminance percentage at or below which a pixel
// prints black.
const DefaultBlackThreshold = 53

// Z64 packs a monochrome bitmap with zlib and base64, framed as
// ":Z64:<data>:<crc>" where crc is the CRC-16/XMODEM of the base64 text.
type Z64 struct {
	BlackThreshold int
}

// Compress thresholds img to one bit per pixel and encodes it.
func (z Z64) Compress(img image.Image) (Field, error) {
	bitmap, rowLen, err := z.monochrome(img)
	if err != nil {
		return Field{}, err
	}

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return Field{}, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := w.Write(bitmap); err != nil {
		return Field{}, fmt.Errorf("deflate bitmap: %w", err)
	}
	if err := w.Close(); err != nil {
		return Field{}, fmt.Errorf("deflate bitmap: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return Field{
		Data:      fmt.Sprintf(":Z64:%s:%04X", encoded, crc16(encoded)),
		Length:    len(bitmap),
		RowLength: rowLen,
	}, nil
}

func (z Z64) monochrome(img image.Image) ([]byte, int, error) {
	if img == nil {
		return nil, 0, errors.New("nil image")
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, 0, errors.New("empty image")
	}
	threshold := z.BlackThreshold
	if threshold <= 0 {
		threshold = DefaultBlackThreshold
	}
	limit := uint32(threshold) * 0xffff / 100

	rowLen := (width + 7) / 8
	bitmap := make([]byte, rowLen*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA is alpha-premultiplied; composite over white.
			white := 0xffff - a
			r, g, b = r+white, g+white, b+white
			lum := (299*r + 587*g + 114*b) / 1000
			if lum <= limit {
				bitmap[y*rowLen+x/8] |= 0x80 >> uint(x%8)
			}
		}
	}
	return bitmap, rowLen, nil
}

func crc16(s string) uint16 {
	var crc uint16
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
