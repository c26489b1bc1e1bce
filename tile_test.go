package waifu2x

import "testing"

// testGeom returns a small block geometry: crop 4, depth 2, so input blocks
// are 10x10 and output blocks 6x6 with a 1-sample border.
func testGeom() blockGeom {
	cfg := Config{CropSize: 4, NetworkDepth: 2}
	return cfg.geometry()
}

// TestExtractTileInterior verifies an unclipped tile is a plain copy of the
// context rectangle plus the outer replicate border.
func TestExtractTileInterior(t *testing.T) {
	g := testGeom()
	canvas := rampPlane(16, 16)

	cw := computeContextWindow(4, 4, g.cropSize, g.innerPadding, outerPadding, 16, 16)
	tile := extractTile(canvas, cw, g.inputBlockSize)

	if tile.width != g.inputBlockSize || tile.height != g.inputBlockSize {
		t.Fatalf("tile extent = %dx%d, want %dx%d", tile.width, tile.height, g.inputBlockSize, g.inputBlockSize)
	}
	// Interior samples: tile(i,j) with the outer border stripped maps straight
	// onto the canvas at the window origin.
	for j := 0; j < cw.height; j++ {
		for i := 0; i < cw.width; i++ {
			got := tile.at(i+cw.left, j+cw.top)
			want := canvas.at(cw.x+i, cw.y+j)
			if got != want {
				t.Fatalf("tile(%d,%d) = %v, want canvas(%d,%d) = %v",
					i+cw.left, j+cw.top, got, cw.x+i, cw.y+j, want)
			}
		}
	}
	// Border samples replicate the nearest interior sample.
	if got, want := tile.at(0, 0), canvas.at(cw.x, cw.y); got != want {
		t.Errorf("top-left border = %v, want replicated %v", got, want)
	}
	last := g.inputBlockSize - 1
	if got, want := tile.at(last, last), canvas.at(cw.x+cw.width-1, cw.y+cw.height-1); got != want {
		t.Errorf("bottom-right border = %v, want replicated %v", got, want)
	}
}

// TestExtractTileCorner verifies a corner tile: everything the canvas cannot
// supply is edge-replicated, and the tile still reaches full block size.
func TestExtractTileCorner(t *testing.T) {
	g := testGeom()
	canvas := rampPlane(8, 8)

	cw := computeContextWindow(0, 0, g.cropSize, g.innerPadding, outerPadding, 8, 8)
	tile := extractTile(canvas, cw, g.inputBlockSize)

	// Left padding columns all replicate column 0 of the window.
	for j := 0; j < g.inputBlockSize; j++ {
		sy := j - cw.top
		if sy < 0 {
			sy = 0
		} else if sy >= cw.height {
			sy = cw.height - 1
		}
		for i := 0; i < cw.left; i++ {
			if got, want := tile.at(i, j), canvas.at(cw.x, cw.y+sy); got != want {
				t.Fatalf("tile(%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
	// The core region is untouched canvas content.
	coreOff := g.innerPadding + outerPadding
	for j := 0; j < g.cropSize; j++ {
		for i := 0; i < g.cropSize; i++ {
			if got, want := tile.at(coreOff+i, coreOff+j), canvas.at(i, j); got != want {
				t.Fatalf("core(%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestSerializeTile(t *testing.T) {
	g := testGeom()
	tile := rampPlane(g.inputBlockSize, g.inputBlockSize)

	size := g.inputBlockSize * g.inputBlockSize
	buf := make([]float32, size*3)
	serializeTile(tile, buf, 2)

	for i := 0; i < size; i++ {
		if buf[2*size+i] != tile.pix[i] {
			t.Fatalf("slot 2 sample %d = %v, want %v", i, buf[2*size+i], tile.pix[i])
		}
	}
	for i := 0; i < 2*size; i++ {
		if buf[i] != 0 {
			t.Fatalf("serialize wrote outside its slot at %d", i)
		}
	}
}

// TestStitchTile verifies the centered core lands at the tile origin with the
// output border skipped on every side.
func TestStitchTile(t *testing.T) {
	g := testGeom()
	b := newBatch(g, 2)

	// Distinct values across slot 1's output block.
	outSize := g.outputBlockSize * g.outputBlockSize
	for i := 0; i < outSize; i++ {
		b.Output[outSize+i] = float32(i + 1)
	}

	canvas := newPlane(12, 12)
	stitchTile(b, 1, canvas, 4, 8, g)

	for j := 0; j < g.cropSize; j++ {
		for i := 0; i < g.cropSize; i++ {
			want := float32((j+g.outputPadding)*g.outputBlockSize + (i + g.outputPadding) + 1)
			if got := canvas.at(4+i, 8+j); got != want {
				t.Errorf("canvas(%d,%d) = %v, want %v", 4+i, 8+j, got, want)
			}
		}
	}

	// Nothing outside the 4x4 core region may change.
	var written int
	for _, v := range canvas.pix {
		if v != 0 {
			written++
		}
	}
	if written != g.cropSize*g.cropSize {
		t.Errorf("stitch touched %d samples, want %d", written, g.cropSize*g.cropSize)
	}
}

func TestStitchTilePanicsOnMisalignedOrigin(t *testing.T) {
	g := testGeom()
	b := newBatch(g, 1)
	canvas := newPlane(12, 12)

	defer func() {
		if recover() == nil {
			t.Error("stitchTile accepted an origin off the tile grid")
		}
	}()
	stitchTile(b, 0, canvas, 3, 0, g)
}
