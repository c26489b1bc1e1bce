package waifu2x

import "fmt"

// Engine is the opaque inference collaborator. It must be pre-loaded with a
// fixed network whose input and output block sizes match the pipeline's
// Config exactly; a mismatch is a configuration error, not a runtime one.
//
// Forward either fills the batch's Output with one result block per input
// block, in order, or fails atomically. An engine may parallelize internally;
// the pipeline treats the call as a single blocking operation.
type Engine interface {
	Forward(b *Batch) error
}

// Batch is the buffer set handed to an Engine: up to Capacity serialized
// input blocks, a matching zero-filled auxiliary buffer for engines whose
// runtime expects a paired secondary plane, and the output blocks the engine
// writes. The buffers are allocated once per pipeline instance and reused
// across every batch, pass and image that instance processes.
type Batch struct {
	// InputSize and OutputSize are the square block sides, in samples.
	InputSize  int
	OutputSize int

	// Capacity is the maximum number of blocks per call.
	Capacity int

	// N is the number of valid blocks in this call; the final batch of a
	// pass may carry fewer than Capacity.
	N int

	// Input holds N serialized InputSize×InputSize blocks.
	Input []float32

	// Aux is zero-filled scratch of the same shape as Input. Engines with a
	// single input plane ignore it.
	Aux []float32

	// Output receives N serialized OutputSize×OutputSize blocks.
	Output []float32
}

// newBatch allocates the reusable buffer set for one pipeline instance.
func newBatch(g blockGeom, capacity int) *Batch {
	in := g.inputBlockSize * g.inputBlockSize
	out := g.outputBlockSize * g.outputBlockSize
	return &Batch{
		InputSize:  g.inputBlockSize,
		OutputSize: g.outputBlockSize,
		Capacity:   capacity,
		Input:      make([]float32, in*capacity),
		Aux:        make([]float32, in*capacity),
		Output:     make([]float32, out*capacity),
	}
}

// release drops the buffers so the backing memory can be reclaimed even if
// the Batch itself is still referenced.
func (b *Batch) release() {
	b.Input, b.Aux, b.Output = nil, nil, nil
	b.Capacity, b.N = 0, 0
}

// reconstruct rebuilds the canvas in place by running every tile through the
// engine, batch by batch. The canvas extents must already be multiples of the
// output size (the orchestrator pads before calling); tiles are visited in
// row-major order and each batch is fully extracted before the engine runs,
// so a batch never reads samples it is about to write.
func (p *Pipeline) reconstruct(canvas *plane, eng Engine, pass string) error {
	g := p.geom
	w, h := canvas.width, canvas.height
	if w%g.outputSize != 0 || h%g.outputSize != 0 {
		panic(fmt.Sprintf("waifu2x: %dx%d canvas not padded to the %d-pixel grid", w, h, g.outputSize))
	}

	widthNum := w / g.outputSize
	heightNum := h / g.outputSize
	blockNum := widthNum * heightNum

	Logger().Debug("reconstruct",
		"pass", pass, "canvas_w", w, "canvas_h", h,
		"blocks", blockNum, "batch", p.batch.Capacity)

	for num := 0; num < blockNum; num += p.batch.Capacity {
		n := blockNum - num
		if n > p.batch.Capacity {
			n = p.batch.Capacity
		}
		p.batch.N = n

		for k := 0; k < n; k++ {
			wn := (num + k) % widthNum
			hn := (num + k) / widthNum
			cw := computeContextWindow(wn*g.outputSize, hn*g.outputSize,
				g.cropSize, g.innerPadding, outerPadding, w, h)
			tile := extractTile(canvas, cw, g.inputBlockSize)
			serializeTile(tile, p.batch.Input, k)
		}

		if err := eng.Forward(p.batch); err != nil {
			return &EngineError{Pass: pass, Batch: num, Err: err}
		}

		for k := 0; k < n; k++ {
			wn := (num + k) % widthNum
			hn := (num + k) / widthNum
			stitchTile(p.batch, k, canvas, wn*g.outputSize, hn*g.outputSize, g)
		}
	}

	return nil
}
