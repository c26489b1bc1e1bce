package waifu2x

import "fmt"

// extractTile copies the context window cw out of the canvas and pads it with
// edge-replicate samples on every side the window was clipped, producing a
// tile of exactly blockSize×blockSize.
func extractTile(canvas *plane, cw contextWindow, blockSize int) *plane {
	t := newPlane(blockSize, blockSize)
	for j := 0; j < blockSize; j++ {
		sy := j - cw.top
		if sy < 0 {
			sy = 0
		} else if sy >= cw.height {
			sy = cw.height - 1
		}
		src := canvas.row(cw.y+sy, cw.x, cw.width)
		dst := t.row(j, 0, blockSize)
		for i := 0; i < cw.left; i++ {
			dst[i] = src[0]
		}
		copy(dst[cw.left:cw.left+cw.width], src)
		for i := cw.left + cw.width; i < blockSize; i++ {
			dst[i] = src[cw.width-1]
		}
	}
	return t
}

// serializeTile row-copies a tile into the batch input buffer at slot. When
// the tile's row stride already equals its width the rows are contiguous and
// a single bulk copy suffices; the per-row path exists for views with a wider
// stride and is behaviorally identical.
func serializeTile(t *plane, input []float32, slot int) {
	size := t.width
	dst := input[slot*size*size:]
	if len(t.pix) == size*size {
		copy(dst[:size*size], t.pix)
		return
	}
	for j := 0; j < size; j++ {
		copy(dst[j*size:(j+1)*size], t.row(j, 0, size))
	}
}

// stitchTile copies the centered cropSize core of the result block in slot
// back into the canvas at (originX, originY), skipping outputPadding border
// samples on each side of the block.
//
// Stitching happens in place while later tiles still read their context from
// the same canvas; that is only sound because every write region is disjoint
// from every other tile's write region. The alignment of the origin to the
// output grid is that invariant, so it is asserted here rather than left to
// the iteration order.
func stitchTile(b *Batch, slot int, canvas *plane, originX, originY int, g blockGeom) {
	if originX%g.outputSize != 0 || originY%g.outputSize != 0 || g.cropSize > g.outputSize {
		panic(fmt.Sprintf("waifu2x: stitch region (%d,%d)+%d overlaps the %d-pixel tile grid",
			originX, originY, g.cropSize, g.outputSize))
	}
	src := b.Output[slot*g.outputBlockSize*g.outputBlockSize:]
	for j := 0; j < g.cropSize; j++ {
		row := src[(j+g.outputPadding)*g.outputBlockSize+g.outputPadding:]
		copy(canvas.row(originY+j, originX, g.cropSize), row[:g.cropSize])
	}
}
