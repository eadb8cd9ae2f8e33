package jpeg

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Decoder runs the full marker-parse -> entropy-decode -> MCU-assembly
// pipeline over a single JPEG image, with an attached logger for
// per-stage diagnostics.
type Decoder struct {
	logger zerolog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger overrides the package-level logger with a caller-supplied
// one, e.g. to redirect output or attach request-scoped fields.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Decoder) {
		d.logger = l
	}
}

// NewDecoder builds a Decoder. With no options it logs through the
// global zerolog logger.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{logger: log.Logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode runs the pipeline over src and returns the assembled raster.
func (d *Decoder) Decode(src ByteSource) (*Raster, error) {
	md, err := Parse(src)
	if err != nil {
		d.logger.Error().Err(err).Msg("segment parsing failed")
		return nil, err
	}
	d.logger.Debug().
		Int("width", int(md.Frame.Width)).
		Int("height", int(md.Frame.Height)).
		Int("components", len(md.Frame.Components)).
		Int("comments", len(md.Comments)).
		Msg("parsed segments")

	bs := NewBitStream(src, true)
	planes, err := decodeScan(bs, md)
	if err != nil {
		d.logger.Error().Err(err).Msg("scan decoding failed")
		return nil, err
	}

	raster := assembleRaster(md.Frame, planes)
	if comment, ok := md.LastComment(); ok {
		raster.Comment = comment
	}
	d.logger.Debug().Int("pixels", len(raster.Pixels)).Msg("assembled raster")
	return raster, nil
}

// Decode is a convenience entry point that reads an entire JPEG file
// from r and decodes it with a default Decoder.
func Decode(r io.Reader) (*Raster, error) {
	src, err := NewReaderSource(r)
	if err != nil {
		return nil, wrap(err, "Decode")
	}
	return NewDecoder().Decode(src)
}
