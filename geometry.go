package waifu2x

// paddedSize rounds width and height up to the next multiple of tile.
// Padding is always added on the bottom/right edge only (content stays
// top-left aligned). Zero-size input is a caller error.
func paddedSize(width, height, tile int) (int, int) {
	pw := (width + tile - 1) / tile * tile
	ph := (height + tile - 1) / tile * tile
	return pw, ph
}

// contextWindow describes the rectangle of canvas samples needed around one
// tile core, together with the replicate padding required on each side where
// the ideal context was clipped by a canvas edge. The clamped rectangle plus
// the padding amounts always reassemble to exactly inputBlockSize on both
// axes.
type contextWindow struct {
	x, y          int // clamped top-left corner, in canvas coordinates
	width, height int // clamped extent
	top, bottom   int // replicate padding rows
	left, right   int // replicate padding columns
}

// computeContextWindow computes the context rectangle for the tile whose core
// origin is (originX, originY). The ideal window is the cropSize core plus
// innerPad context on every side, plus outerPad replicate border; whatever the
// canvas cannot supply is converted into explicit replicate padding so that
// boundary tiles still yield a full-size input block.
func computeContextWindow(originX, originY, cropSize, innerPad, outerPad, canvasWidth, canvasHeight int) contextWindow {
	cw := contextWindow{
		x:      originX - innerPad,
		y:      originY - innerPad,
		width:  cropSize + innerPad*2,
		height: cropSize + innerPad*2,
		top:    outerPad,
		bottom: outerPad,
		left:   outerPad,
		right:  outerPad,
	}

	if cw.x < 0 {
		cw.left += -cw.x
		cw.width -= -cw.x
		cw.x = 0
	}
	if cw.x+cw.width > canvasWidth {
		cw.right += cw.x + cw.width - canvasWidth
		cw.width = canvasWidth - cw.x
	}
	if cw.y < 0 {
		cw.top += -cw.y
		cw.height -= -cw.y
		cw.y = 0
	}
	if cw.y+cw.height > canvasHeight {
		cw.bottom += cw.y + cw.height - canvasHeight
		cw.height = canvasHeight - cw.y
	}

	return cw
}
