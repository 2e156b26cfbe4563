package symbol

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"correioszpl/internal/failures"
	"correioszpl/internal/fileutil"
	"correioszpl/internal/logging"
)

const (
	nameLength   = 10
	lockFileName = ".symbol.lock"
)

// Option configures the embedder.
type Option func(*Embedder)

// WithRasterizer replaces the Data Matrix renderer (primarily for tests).
func WithRasterizer(r Rasterizer) Option {
	return func(e *Embedder) {
		if r != nil {
			e.rasterizer = r
		}
	}
}

// WithCompressor replaces the Z64 compressor.
func WithCompressor(c Compressor) Option {
	return func(e *Embedder) {
		if c != nil {
			e.compressor = c
		}
	}
}

// Embedder turns payloads into ^GFA graphic fields through a scratch PNG.
type Embedder struct {
	rasterizer Rasterizer
	compressor Compressor
	logger     *slog.Logger
}

// NewEmbedder constructs an embedder using Data Matrix and Z64 by default.
func NewEmbedder(logger *slog.Logger, opts ...Option) *Embedder {
	e := &Embedder{
		rasterizer: DataMatrix{Scale: DefaultScale},
		compressor: Z64{BlackThreshold: DefaultBlackThreshold},
		logger:     logging.NewComponentLogger(logger, "symbol"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compressor exposes the configured compressor so logos share it.
func (e *Embedder) Compressor() Compressor {
	return e.compressor
}

// Embed renders payload and returns the graphic field directive. The scratch
// file is always removed; a failed removal is logged and otherwise ignored.
func (e *Embedder) Embed(ctx context.Context, workDir, payload string) (string, error) {
	unlock, err := fileutil.LockDir(ctx, workDir, lockFileName)
	if err != nil {
		return "", failures.Wrap(failures.ErrEncoding, "symbol", "lock work dir", workDir, err)
	}
	defer func() {
		if err := unlock(); err != nil {
			e.logger.Debug("release work dir lock failed", logging.Error(err))
		}
	}()

	name, err := fileutil.UniqueName(workDir, nameLength, ".png")
	if err != nil {
		return "", failures.Wrap(failures.ErrEncoding, "symbol", "name scratch file", "", err)
	}
	path := filepath.Join(workDir, name)
	defer func() {
		if !fileutil.Remove(path) {
			e.logger.Debug("scratch file not removed", logging.String("path", path))
		}
	}()

	raster, err := e.rasterizer.Render(ctx, payload)
	if err != nil {
		return "", failures.Wrap(failures.ErrEncoding, "symbol", "rasterize", "", err)
	}
	if err := os.WriteFile(path, raster, 0o644); err != nil {
		return "", failures.Wrap(failures.ErrEncoding, "symbol", "write raster", "", err)
	}

	field, err := e.fieldFromFile(path)
	if err != nil {
		return "", failures.Wrap(failures.ErrEncoding, "symbol", "compress", "", err)
	}

	e.logger.Debug("symbol embedded",
		logging.Int("payload_len", len(payload)),
		logging.Int("field_bytes", field.Length),
	)
	return field.Directive(), nil
}

func (e *Embedder) fieldFromFile(path string) (Field, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Field{}, fmt.Errorf("read raster: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return Field{}, fmt.Errorf("decode raster: %w", err)
	}
	return e.compressor.Compress(img)
}
