package symbol

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/datamatrix"
)

// DefaultScale is the number of printer dots per Data Matrix module.
const DefaultScale = 4

// Rasterizer draws the machine-readable symbol for a payload as PNG bytes.
type Rasterizer interface {
	Render(ctx context.Context, payload string) ([]byte, error)
}

// DataMatrix renders ECC200 Data Matrix symbols.
type DataMatrix struct {
	Scale int
}

// Render encodes payload and scales every module to Scale pixels.
func (d DataMatrix) Render(ctx context.Context, payload string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scale := d.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	code, err := datamatrix.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("encode data matrix: %w", err)
	}
	bounds := code.Bounds()
	scaled, err := barcode.Scale(code, bounds.Dx()*scale, bounds.Dy()*scale)
	if err != nil {
		return nil, fmt.Errorf("scale data matrix: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
