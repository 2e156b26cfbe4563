package symbol

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
)

// Field is a compressed graphic ready for a ^GF directive.
type Field struct {
	// Data is the encoded bitmap, including any compression header.
	Data string
	// Length is the uncompressed bitmap size in bytes.
	Length int
	// RowLength is the number of bytes per bitmap row.
	RowLength int
}

// Directive formats the field as an ASCII graphic field command.
func (f Field) Directive() string {
	return fmt.Sprintf("^GFA,%d,%d,%d,%s", f.Length, f.Length, f.RowLength, f.Data)
}

// Compressor converts pixels into a graphic field.
type Compressor interface {
	Compress(img image.Image) (Field, error)
}

// FieldFromFile reads a PNG image and compresses it into a graphic field
// directive. Used for logo artwork supplied on disk.
func FieldFromFile(path string, c Compressor) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode png %s: %w", path, err)
	}
	field, err := c.Compress(img)
	if err != nil {
		return "", fmt.Errorf("compress %s: %w", path, err)
	}
	return field.Directive(), nil
}
