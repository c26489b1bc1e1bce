package waifu2x

import (
	"image"
	"image/color"
)

// Color space plumbing for the recompositor. The reconstruction passes only
// ever see the luminance plane; chrominance travels around them and is merged
// back at the end.
//
// The YUV transform matches the float path of the original pipeline:
//
//	Y = 0.299R + 0.587G + 0.114B
//	U = 0.492(B - Y)
//	V = 0.877(R - Y)
//
// and the inverse below is its exact algebraic inversion, so a convert
// round-trip is lossless up to float rounding.
const (
	yuvWR = 0.299
	yuvWG = 0.587
	yuvWB = 0.114
	yuvKU = 0.492
	yuvKV = 0.877
)

// alphaEpsilon guards the unpremultiply division. Samples this transparent
// have undefined color and keep whatever value they had; alpha discards them
// at display time anyway.
const alphaEpsilon = 1.0 / 512

// splitImage decomposes src into normalized R, G, B planes plus an alpha
// plane when the source carries one (alpha is nil otherwise). Gray sources
// are promoted to three equal channels.
func splitImage(src image.Image) (r, g, b, a *plane) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	r, g, b = newPlane(w, h), newPlane(w, h), newPlane(w, h)

	if hasAlphaChannel(src) {
		a = newPlane(w, h)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA64Model.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
			i := y*w + x
			r.pix[i] = float32(c.R) / 0xffff
			g.pix[i] = float32(c.G) / 0xffff
			b.pix[i] = float32(c.B) / 0xffff
			if a != nil {
				a.pix[i] = float32(c.A) / 0xffff
			}
		}
	}
	return r, g, b, a
}

// hasAlphaChannel reports whether src carries any actual transparency. Fully
// opaque images skip the alpha path entirely, which keeps the premultiply
// round-trip out of the common case.
func hasAlphaChannel(src image.Image) bool {
	type opaquer interface{ Opaque() bool }
	if o, ok := src.(opaquer); ok {
		return !o.Opaque()
	}
	bounds := src.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := src.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// compositeOverWhite blends each color plane over an opaque white background
// weighted by alpha, in place: c' = c*a + (1-a). Reconstruction then never
// sees the color noise hiding in fully transparent regions.
func compositeOverWhite(r, g, b, a *plane) {
	for i, av := range a.pix {
		r.pix[i] = r.pix[i]*av + (1 - av)
		g.pix[i] = g.pix[i]*av + (1 - av)
		b.pix[i] = b.pix[i]*av + (1 - av)
	}
}

// uncompositeOverWhite inverts compositeOverWhite using the (resized) alpha
// plane: c = (c'-1)/a + 1. Near-zero alpha samples are left untouched.
func uncompositeOverWhite(r, g, b, a *plane) {
	for i, av := range a.pix {
		if av < alphaEpsilon {
			continue
		}
		r.pix[i] = (r.pix[i]-1)/av + 1
		g.pix[i] = (g.pix[i]-1)/av + 1
		b.pix[i] = (b.pix[i]-1)/av + 1
	}
}

// rgbToYUV converts three color planes to luminance plus two chrominance
// planes of the same extent.
func rgbToYUV(r, g, b *plane) (y, u, v *plane) {
	y = newPlane(r.width, r.height)
	u = newPlane(r.width, r.height)
	v = newPlane(r.width, r.height)
	for i := range r.pix {
		luma := yuvWR*r.pix[i] + yuvWG*g.pix[i] + yuvWB*b.pix[i]
		y.pix[i] = luma
		u.pix[i] = yuvKU * (b.pix[i] - luma)
		v.pix[i] = yuvKV * (r.pix[i] - luma)
	}
	return y, u, v
}

// yuvToRGB converts luminance and chrominance planes back to color planes.
func yuvToRGB(y, u, v *plane) (r, g, b *plane) {
	r = newPlane(y.width, y.height)
	g = newPlane(y.width, y.height)
	b = newPlane(y.width, y.height)
	for i := range y.pix {
		rr := y.pix[i] + v.pix[i]/yuvKV
		bb := y.pix[i] + u.pix[i]/yuvKU
		r.pix[i] = rr
		b.pix[i] = bb
		g.pix[i] = (y.pix[i] - yuvWR*rr - yuvWB*bb) / yuvWG
	}
	return r, g, b
}

// mergeToImage quantizes the planes to an 8-bit NRGBA image. A nil alpha
// plane yields a fully opaque result.
func mergeToImage(r, g, b, a *plane) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	for i := range r.pix {
		out.Pix[i*4+0] = quantize(r.pix[i])
		out.Pix[i*4+1] = quantize(g.pix[i])
		out.Pix[i*4+2] = quantize(b.pix[i])
		if a != nil {
			out.Pix[i*4+3] = quantize(a.pix[i])
		} else {
			out.Pix[i*4+3] = 0xff
		}
	}
	return out
}

// quantize maps a normalized sample to uint8 with rounding.
func quantize(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
