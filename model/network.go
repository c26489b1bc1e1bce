package model

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/pixq/waifu2x"
)

// leakySlope is the negative-side gain of the activation between convolution
// layers. The final layer has no activation.
const leakySlope = 0.1

// Forward implements [waifu2x.Engine]: it runs every serialized input block
// of the batch through the convolution stack and writes one output block per
// input block, in order. Blocks are independent, so they are spread across
// NumCPU workers; the call itself blocks until the whole batch is done and
// fails atomically on any shape mismatch.
func (n *Network) Forward(b *waifu2x.Batch) error {
	if want := b.InputSize - 2*len(n.layers); want != b.OutputSize {
		return fmt.Errorf("model: %d-layer network turns %d-sample blocks into %d, batch expects %d",
			len(n.layers), b.InputSize, want, b.OutputSize)
	}
	if b.N < 0 || b.N > b.Capacity {
		return fmt.Errorf("model: batch size %d outside capacity %d", b.N, b.Capacity)
	}

	workers := runtime.NumCPU()
	if workers > b.N {
		workers = b.N
	}
	if workers <= 1 {
		for i := 0; i < b.N; i++ {
			n.forwardBlock(b, i)
		}
		return nil
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := w; i < b.N; i += workers {
				n.forwardBlock(b, i)
			}
		}(w)
	}
	wg.Wait()
	return nil
}

// forwardBlock runs one block through the stack. Every convolution is valid
// (unpadded), so each layer shrinks the plane by two samples per axis; the
// batch geometry has already been checked to land exactly on OutputSize.
func (n *Network) forwardBlock(b *waifu2x.Batch, slot int) {
	size := b.InputSize
	in := b.Input[slot*size*size : (slot+1)*size*size]

	planes := [][]float32{in}
	for li := range n.layers {
		planes = n.layers[li].apply(planes, size, li < len(n.layers)-1)
		size -= 2
	}

	out := b.Output[slot*size*size : (slot+1)*size*size]
	copy(out, planes[0])
}

// apply convolves the input planes into the layer's output planes. size is
// the input plane side; the output side is size-2.
func (l *layer) apply(in [][]float32, size int, activate bool) [][]float32 {
	nsize := size - 2
	out := make([][]float32, l.outPlanes)
	for o := 0; o < l.outPlanes; o++ {
		dst := make([]float32, nsize*nsize)
		bias := l.bias[o]
		for j := 0; j < nsize; j++ {
			for i := 0; i < nsize; i++ {
				acc := bias
				for c := 0; c < l.inPlanes; c++ {
					k := l.weight[(o*l.inPlanes+c)*9:]
					src := in[c]
					r0 := src[j*size+i:]
					r1 := src[(j+1)*size+i:]
					r2 := src[(j+2)*size+i:]
					acc += k[0]*r0[0] + k[1]*r0[1] + k[2]*r0[2] +
						k[3]*r1[0] + k[4]*r1[1] + k[5]*r1[2] +
						k[6]*r2[0] + k[7]*r2[1] + k[8]*r2[2]
				}
				if activate && acc < 0 {
					acc *= leakySlope
				}
				dst[j*nsize+i] = acc
			}
		}
		out[o] = dst
	}
	return out
}
