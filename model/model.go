// Package model loads waifu2x convolutional network weights and runs them on
// the CPU as a [waifu2x.Engine].
//
// The weight files are the JSON layer dumps shipped with waifu2x model
// directories: an array of convolution layers, each carrying its kernel
// weights, biases and plane counts. Files may optionally be zstd-compressed
// (a ".json.zst" suffix).
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ErrInvalidModel is returned when a weight file does not describe a
// consistent single-plane-in, single-plane-out 3x3 convolution stack.
var ErrInvalidModel = errors.New("model: invalid model file")

// layerJSON mirrors one entry of the JSON weight dump. Weight is indexed
// [output plane][input plane][kernel row][kernel column].
type layerJSON struct {
	NInputPlane  int             `json:"nInputPlane"`
	NOutputPlane int             `json:"nOutputPlane"`
	KW           int             `json:"kW"`
	KH           int             `json:"kH"`
	Weight       [][][][]float32 `json:"weight"`
	Bias         []float32       `json:"bias"`
}

// layer is one convolution with kernels flattened for the hot loop:
// weight[(out*inPlanes+in)*9 : ...+9] is the 3x3 kernel applied to input
// plane in for output plane out.
type layer struct {
	inPlanes  int
	outPlanes int
	weight    []float32
	bias      []float32
}

// Network is a loaded convolution stack. It implements [waifu2x.Engine] and
// is safe for concurrent Forward calls from separate pipelines, since
// inference only reads the weights.
type Network struct {
	layers []layer
}

// Depth returns the number of convolution layers. It matches the
// Config.NetworkDepth the pipeline must be built with.
func (n *Network) Depth() int { return len(n.layers) }

// Load reads a weight file. A path ending in ".zst" is transparently
// decompressed.
func Load(path string) (*Network, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("model: open weights: %w", err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("model: open zstd weights: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	return Read(r)
}

// Read parses a JSON weight dump into a Network.
func Read(r io.Reader) (*Network, error) {
	var raw []layerJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("model: parse weights: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrInvalidModel)
	}

	n := &Network{layers: make([]layer, 0, len(raw))}
	prevOut := 1
	for i, lj := range raw {
		if lj.KW != 3 || (lj.KH != 0 && lj.KH != 3) {
			return nil, fmt.Errorf("%w: layer %d has %dx%d kernels, want 3x3", ErrInvalidModel, i, lj.KW, lj.KH)
		}
		if lj.NInputPlane != prevOut {
			return nil, fmt.Errorf("%w: layer %d consumes %d planes, previous layer produced %d",
				ErrInvalidModel, i, lj.NInputPlane, prevOut)
		}
		if len(lj.Weight) != lj.NOutputPlane || len(lj.Bias) != lj.NOutputPlane {
			return nil, fmt.Errorf("%w: layer %d weight/bias count mismatch", ErrInvalidModel, i)
		}

		l := layer{
			inPlanes:  lj.NInputPlane,
			outPlanes: lj.NOutputPlane,
			weight:    make([]float32, 0, lj.NOutputPlane*lj.NInputPlane*9),
			bias:      lj.Bias,
		}
		for _, perOut := range lj.Weight {
			if len(perOut) != lj.NInputPlane {
				return nil, fmt.Errorf("%w: layer %d kernel set shape", ErrInvalidModel, i)
			}
			for _, kernel := range perOut {
				if len(kernel) != 3 {
					return nil, fmt.Errorf("%w: layer %d kernel shape", ErrInvalidModel, i)
				}
				for _, row := range kernel {
					if len(row) != 3 {
						return nil, fmt.Errorf("%w: layer %d kernel shape", ErrInvalidModel, i)
					}
					l.weight = append(l.weight, row...)
				}
			}
		}
		n.layers = append(n.layers, l)
		prevOut = lj.NOutputPlane
	}
	if prevOut != 1 {
		return nil, fmt.Errorf("%w: final layer produces %d planes, want 1", ErrInvalidModel, prevOut)
	}

	return n, nil
}

// LoadNoise loads the denoise weights for the given noise level from a model
// directory, preferring the plain JSON file and falling back to a
// zstd-compressed one.
func LoadNoise(dir string, level int) (*Network, error) {
	return loadEither(filepath.Join(dir, fmt.Sprintf("noise%d_model.json", level)))
}

// LoadScale loads the 2x upscale weights from a model directory.
func LoadScale(dir string) (*Network, error) {
	return loadEither(filepath.Join(dir, "scale2.0x_model.json"))
}

func loadEither(path string) (*Network, error) {
	n, err := Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		if n2, err2 := Load(path + ".zst"); err2 == nil {
			return n2, nil
		}
	}
	return n, err
}
