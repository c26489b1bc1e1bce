package waifu2x

// plane is a single image channel: 32-bit float samples in [0, 1], row-major.
// A plane has exactly one owner at a time; operations that change extents
// (crop, pad, resize) return a fresh plane and the caller abandons the old one.
type plane struct {
	width  int
	height int
	pix    []float32
}

// newPlane creates a zero-filled plane with the given dimensions.
func newPlane(width, height int) *plane {
	return &plane{
		width:  width,
		height: height,
		pix:    make([]float32, width*height),
	}
}

// at returns the sample at (x, y). Coordinates outside the plane are clamped
// to the nearest edge sample (edge-replicate reads).
func (p *plane) at(x, y int) float32 {
	if x < 0 {
		x = 0
	} else if x >= p.width {
		x = p.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= p.height {
		y = p.height - 1
	}
	return p.pix[y*p.width+x]
}

// set writes the sample at (x, y). The coordinate must be in bounds.
func (p *plane) set(x, y int, v float32) {
	p.pix[y*p.width+x] = v
}

// row returns the samples of row y restricted to [x0, x0+n).
func (p *plane) row(y, x0, n int) []float32 {
	off := y*p.width + x0
	return p.pix[off : off+n]
}

// crop copies the w×h region at (x, y) into a new plane. The region must lie
// entirely inside p.
func (p *plane) crop(x, y, w, h int) *plane {
	out := newPlane(w, h)
	for j := 0; j < h; j++ {
		copy(out.row(j, 0, w), p.row(y+j, x, w))
	}
	return out
}

// padTo grows the plane to w×h, keeping the content top-left aligned and
// filling the new bottom/right margin with edge-replicate samples. w and h
// must not be smaller than the current extents.
func (p *plane) padTo(w, h int) *plane {
	if w == p.width && h == p.height {
		return p
	}
	out := newPlane(w, h)
	for j := 0; j < h; j++ {
		sj := j
		if sj >= p.height {
			sj = p.height - 1
		}
		dst := out.row(j, 0, w)
		copy(dst, p.row(sj, 0, p.width))
		edge := p.pix[sj*p.width+p.width-1]
		for i := p.width; i < w; i++ {
			dst[i] = edge
		}
	}
	return out
}
