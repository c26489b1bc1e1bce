package waifu2x

import "fmt"

// Mode selects which reconstruction passes run.
type Mode uint8

const (
	// ModeDenoise runs the denoise pass only.
	ModeDenoise Mode = iota

	// ModeScale runs the upscale passes only.
	ModeScale

	// ModeDenoiseScale runs the denoise pass followed by the upscale passes.
	ModeDenoiseScale

	// ModeAuto scales always and denoises only when the configured
	// LossySource predicate reports a lossy-compressed source.
	ModeAuto
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeDenoise:
		return "noise"
	case ModeScale:
		return "scale"
	case ModeDenoiseScale:
		return "noise_scale"
	case ModeAuto:
		return "auto_scale"
	default:
		return "unknown"
	}
}

// Default tile parameters. A 128-pixel crop with batch size 1 matches the
// reference models and keeps host memory modest.
const (
	DefaultCropSize     = 128
	DefaultBatchSize    = 1
	DefaultNetworkDepth = 7

	// outerPadding is the extra replicate margin beyond the network's
	// receptive field on every tile side.
	outerPadding = 1
)

// Config describes one pipeline instance. It is immutable after New.
type Config struct {
	// Mode selects the passes to run.
	Mode Mode

	// ScaleRatio is the requested output/input size ratio. It must be
	// positive for modes that scale; it is ignored by ModeDenoise.
	ScaleRatio float64

	// CropSize is the side of the square tile core reconstructed per engine
	// output. Zero means DefaultCropSize.
	CropSize int

	// BatchSize is the number of tiles per engine call. Zero means
	// DefaultBatchSize. Larger batches trade host memory for fewer calls.
	BatchSize int

	// NetworkDepth is the number of convolution layers in the engines; it
	// fixes the context each tile needs. Zero means DefaultNetworkDepth.
	NetworkDepth int

	// DenoiseEngine reconstructs a plane at the same scale. Required for
	// ModeDenoise and ModeDenoiseScale, and for ModeAuto when LossySource
	// can report true.
	DenoiseEngine Engine

	// ScaleEngine reconstructs a nearest-neighbor-doubled plane. Required
	// for every mode except ModeDenoise.
	ScaleEngine Engine

	// LossySource reports whether the source image came from a lossy
	// format. Only consulted by ModeAuto; nil means never.
	LossySource func() bool
}

// blockGeom holds the tile sizes derived from a validated Config.
//
// The identities, with depth the network depth:
//
//	innerPadding    = depth
//	outputSize      = cropSize
//	inputBlockSize  = cropSize + 2*(innerPadding+outerPadding)
//	outputBlockSize = cropSize + 2*(innerPadding+outerPadding-depth)
//	outputPadding   = innerPadding + outerPadding - depth
type blockGeom struct {
	cropSize        int
	innerPadding    int
	outputSize      int
	inputBlockSize  int
	outputBlockSize int
	outputPadding   int
}

func (c *Config) geometry() blockGeom {
	crop := c.CropSize
	inner := c.NetworkDepth
	outPad := inner + outerPadding - c.NetworkDepth
	return blockGeom{
		cropSize:        crop,
		innerPadding:    inner,
		outputSize:      crop,
		inputBlockSize:  crop + 2*(inner+outerPadding),
		outputBlockSize: crop + 2*outPad,
		outputPadding:   outPad,
	}
}

// withDefaults fills zero-valued tile parameters.
func (c Config) withDefaults() Config {
	if c.CropSize == 0 {
		c.CropSize = DefaultCropSize
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.NetworkDepth == 0 {
		c.NetworkDepth = DefaultNetworkDepth
	}
	return c
}

// validate checks a defaulted Config. All failures wrap ErrInvalidConfig.
func (c *Config) validate() error {
	if c.Mode > ModeAuto {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, c.Mode)
	}
	if c.CropSize <= 0 || c.BatchSize <= 0 || c.NetworkDepth <= 0 {
		return fmt.Errorf("%w: crop=%d batch=%d depth=%d", ErrInvalidConfig,
			c.CropSize, c.BatchSize, c.NetworkDepth)
	}
	scales := c.Mode != ModeDenoise
	if scales {
		if c.ScaleRatio <= 0 {
			return fmt.Errorf("%w: scale ratio %v", ErrInvalidConfig, c.ScaleRatio)
		}
		if c.ScaleEngine == nil {
			return fmt.Errorf("%w: %s mode needs a scale engine", ErrInvalidConfig, c.Mode)
		}
	}
	denoises := c.Mode == ModeDenoise || c.Mode == ModeDenoiseScale ||
		(c.Mode == ModeAuto && c.LossySource != nil)
	if denoises && c.DenoiseEngine == nil {
		return fmt.Errorf("%w: %s mode needs a denoise engine", ErrInvalidConfig, c.Mode)
	}
	return nil
}
