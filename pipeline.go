package waifu2x

import (
	"context"
	"fmt"
	"image"
	"math"
)

// Pipeline is one configured reconstruction instance. It owns the reusable
// batch buffers and is not safe for concurrent use; callers wanting
// parallelism run one Pipeline per goroutine, since instances share no
// mutable state.
type Pipeline struct {
	cfg   Config
	geom  blockGeom
	batch *Batch
}

// New validates the configuration, derives the block geometry and allocates
// the batch buffers. The returned pipeline processes any number of images
// until Close releases it.
func New(cfg Config) (*Pipeline, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:  cfg,
		geom: cfg.geometry(),
	}
	p.batch = newBatch(p.geom, cfg.BatchSize)
	Logger().Info("waifu2x: pipeline initialized",
		"mode", cfg.Mode.String(), "scale", cfg.ScaleRatio,
		"crop", cfg.CropSize, "batch", cfg.BatchSize,
		"input_block", p.geom.inputBlockSize, "output_block", p.geom.outputBlockSize)
	return p, nil
}

// Close releases the batch buffers. The pipeline cannot be used afterwards;
// Close is idempotent.
func (p *Pipeline) Close() {
	if p.batch != nil {
		p.batch.release()
		p.batch = nil
	}
}

// scaleSteps decomposes an arbitrary positive ratio into a number of 2x
// reconstruction passes plus one final resample: ratio = 2^steps * shrink
// with steps = ceil(log2 ratio) clamped at zero and shrink in (0, 1].
func scaleSteps(ratio float64) (steps int, shrink float64) {
	steps = int(math.Ceil(math.Log2(ratio)))
	if steps < 0 {
		steps = 0
	}
	return steps, ratio / math.Pow(2, float64(steps))
}

// Process reconstructs one image according to the pipeline's configuration
// and returns the result; the source is never modified and no partial output
// is ever produced. Cancellation via ctx is observed cooperatively at pass
// boundaries only and surfaces as ErrCanceled.
func (p *Pipeline) Process(ctx context.Context, src image.Image) (image.Image, error) {
	if p == nil || p.batch == nil {
		return nil, ErrNotInitialized
	}
	if src == nil || src.Bounds().Dx() == 0 || src.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("%w: empty source image", ErrInvalidConfig)
	}

	r, g, b, a := splitImage(src)
	if a != nil {
		compositeOverWhite(r, g, b, a)
	}
	luma, u, v := rgbToYUV(r, g, b)

	// width/height track the luminance canvas size the chroma planes must
	// meet at recomposition; they double with every upscale pass.
	width, height := luma.width, luma.height

	denoise := p.cfg.Mode == ModeDenoise || p.cfg.Mode == ModeDenoiseScale ||
		(p.cfg.Mode == ModeAuto && p.cfg.LossySource != nil && p.cfg.LossySource())

	steps, shrink := 0, 1.0
	if p.cfg.Mode != ModeDenoise {
		steps, shrink = scaleSteps(p.cfg.ScaleRatio)
	}

	if denoise {
		var err error
		if luma, err = p.runPass(luma, width, height, p.cfg.DenoiseEngine, "denoise"); err != nil {
			return nil, err
		}
	}

	for i := 0; i < steps; i++ {
		// A pass boundary precedes every iteration except a very first pass.
		if (i > 0 || denoise) && canceled(ctx) {
			return nil, ErrCanceled
		}
		width *= 2
		height *= 2
		var err error
		zoomed := resizeNearest(luma, width, height)
		if luma, err = p.runPass(zoomed, width, height, p.cfg.ScaleEngine, "scale"); err != nil {
			return nil, err
		}
	}

	return p.recompose(luma, u, v, a, shrink), nil
}

// runPass pads the plane to the tile grid, reconstructs it through the engine
// and crops the padding back off, returning a plane of exactly width×height.
func (p *Pipeline) runPass(pl *plane, width, height int, eng Engine, pass string) (*plane, error) {
	pw, ph := paddedSize(width, height, p.geom.outputSize)
	canvas := pl.padTo(pw, ph)
	if err := p.reconstruct(canvas, eng, pass); err != nil {
		return nil, err
	}
	if pw == width && ph == height {
		return canvas, nil
	}
	return canvas.crop(0, 0, width, height), nil
}

// recompose merges the reconstructed luminance with bicubically resized
// chrominance (and alpha, when present), converts back to display RGB,
// applies the final non-power-of-two resize and quantizes.
func (p *Pipeline) recompose(luma, u, v, a *plane, shrink float64) image.Image {
	width, height := luma.width, luma.height

	u = resizeBicubic(u, width, height)
	v = resizeBicubic(v, width, height)
	if a != nil {
		a = resizeBicubic(a, width, height)
	}

	r, g, b := yuvToRGB(luma, u, v)
	if a != nil {
		uncompositeOverWhite(r, g, b, a)
	}

	fw := int(math.Round(float64(width) * shrink))
	fh := int(math.Round(float64(height) * shrink))
	if fw != width || fh != height {
		Logger().Debug("waifu2x: final resize", "from_w", width, "from_h", height, "to_w", fw, "to_h", fh)
		r = resizeBilinear(r, fw, fh)
		g = resizeBilinear(g, fw, fh)
		b = resizeBilinear(b, fw, fh)
		if a != nil {
			a = resizeBilinear(a, fw, fh)
		}
	}

	return mergeToImage(r, g, b, a)
}

// canceled reports whether the context has been canceled, without blocking.
func canceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
