// Command waifu2x upscales and denoises a still image using waifu2x JSON
// model files.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pixq/waifu2x"
	"github.com/pixq/waifu2x/model"
)

func main() {
	var (
		input    = flag.String("i", "", "input image path")
		output   = flag.String("o", "", "output image path")
		mode     = flag.String("mode", "noise_scale", "noise | scale | noise_scale | auto_scale")
		scale    = flag.Float64("scale", 2.0, "scale ratio")
		noise    = flag.Int("noise", 1, "noise reduction level")
		modelDir = flag.String("model", "models", "model directory")
		crop     = flag.Int("crop", waifu2x.DefaultCropSize, "tile crop size")
		batch    = flag.Int("batch", waifu2x.DefaultBatchSize, "tiles per engine call")
		verbose  = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		waifu2x.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := waifu2x.Config{
		ScaleRatio: *scale,
		CropSize:   *crop,
		BatchSize:  *batch,
	}
	switch *mode {
	case "noise":
		cfg.Mode = waifu2x.ModeDenoise
	case "scale":
		cfg.Mode = waifu2x.ModeScale
	case "noise_scale":
		cfg.Mode = waifu2x.ModeDenoiseScale
	case "auto_scale":
		cfg.Mode = waifu2x.ModeAuto
		in := *input
		cfg.LossySource = func() bool { return waifu2x.LossyFormat(in) }
	default:
		log.Fatalf("unknown mode %q", *mode)
	}

	if cfg.Mode != waifu2x.ModeScale {
		net, err := model.LoadNoise(*modelDir, *noise)
		if err != nil {
			log.Fatalf("load denoise model: %v", err)
		}
		cfg.DenoiseEngine = net
		cfg.NetworkDepth = net.Depth()
	}
	if cfg.Mode != waifu2x.ModeDenoise {
		net, err := model.LoadScale(*modelDir)
		if err != nil {
			log.Fatalf("load scale model: %v", err)
		}
		cfg.ScaleEngine = net
		cfg.NetworkDepth = net.Depth()
	}

	src, err := waifu2x.DecodeImage(*input)
	if err != nil {
		log.Fatalf("%v", err)
	}

	p, err := waifu2x.New(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := p.Process(ctx, src)
	switch {
	case errors.Is(err, waifu2x.ErrCanceled):
		log.Println("canceled, no output written")
		os.Exit(1)
	case err != nil:
		log.Fatalf("%v", err)
	}

	if err := waifu2x.EncodeImage(*output, out); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("%s (%dx%d) -> %s (%dx%d)", *input,
		src.Bounds().Dx(), src.Bounds().Dy(),
		*output, out.Bounds().Dx(), out.Bounds().Dy())
}
