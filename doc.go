// Package waifu2x reconstructs still images at higher resolution and lower
// noise by driving a fixed-architecture convolutional inference engine over
// tiled sub-regions of the image.
//
// # Overview
//
// The package owns the hard part of the problem: tiling, context padding,
// batching, multi-pass orchestration and color/alpha recomposition. The
// network itself is an opaque collaborator behind the [Engine] interface; the
// model subpackage provides a pure-Go CPU implementation loaded from waifu2x
// JSON weight files.
//
// # Quick Start
//
//	net, _ := model.Load("models/scale2.0x_model.json")
//	p, _ := waifu2x.New(waifu2x.Config{
//	    Mode:        waifu2x.ModeScale,
//	    ScaleRatio:  2.0,
//	    ScaleEngine: net,
//	})
//	defer p.Close()
//
//	out, err := p.Process(context.Background(), src)
//
// # Pipeline
//
// Process converts the source to YUV once, runs only the luminance plane
// through the reconstruction passes (optional denoise, then one 2x upscale
// pass per doubling of the requested ratio, then an exact final resize), and
// merges it back with bicubically resized chrominance and alpha planes.
//
// Cancellation is cooperative: the context is polled between passes, never
// mid-batch.
package waifu2x
