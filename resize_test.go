package waifu2x

import "testing"

// TestResizeNearestDouble verifies 2x nearest zoom replicates every sample
// into a 2x2 block — the exact input the scale engine is trained on.
func TestResizeNearestDouble(t *testing.T) {
	p := rampPlane(5, 3)
	out := resizeNearest(p, 10, 6)

	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			if got, want := out.at(x, y), p.at(x/2, y/2); got != want {
				t.Fatalf("out(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

// TestResizeIdentity verifies all three kernels are exact identities when the
// target extent equals the source extent.
func TestResizeIdentity(t *testing.T) {
	p := rampPlane(7, 5)
	for name, resize := range map[string]func(*plane, int, int) *plane{
		"nearest":  resizeNearest,
		"bilinear": resizeBilinear,
		"bicubic":  resizeBicubic,
	} {
		if out := resize(p, 7, 5); !planesEqual(p, out) {
			t.Errorf("%s resize to the same extent changed the plane", name)
		}
	}
}

// TestResizePreservesConstant verifies resampling a uniform plane to any
// extent stays uniform: kernel weights must sum to one.
func TestResizePreservesConstant(t *testing.T) {
	p := newPlane(6, 6)
	for i := range p.pix {
		p.pix[i] = 0.4
	}

	for name, resize := range map[string]func(*plane, int, int) *plane{
		"nearest":  resizeNearest,
		"bilinear": resizeBilinear,
		"bicubic":  resizeBicubic,
	} {
		for _, ext := range []struct{ w, h int }{{12, 12}, {9, 4}, {3, 3}} {
			out := resize(p, ext.w, ext.h)
			for i, v := range out.pix {
				if absf(v-0.4) > 1e-6 {
					t.Fatalf("%s to %dx%d: sample %d = %v, want 0.4", name, ext.w, ext.h, i, v)
				}
			}
		}
	}
}

// TestResizeBilinearMidpoint pins the interpolation arithmetic on a 2x
// upscale of a two-sample gradient.
func TestResizeBilinearMidpoint(t *testing.T) {
	p := newPlane(2, 1)
	p.pix[0], p.pix[1] = 0, 1

	out := resizeBilinear(p, 4, 1)

	// Pixel centers 0.5/4, 1.5/4... map to source coords -0.25, 0.25, 0.75,
	// 1.25; the ends clamp to the edge samples.
	want := []float32{0, 0.25, 0.75, 1}
	for i, w := range want {
		if absf(out.pix[i]-w) > 1e-6 {
			t.Errorf("out[%d] = %v, want %v", i, out.pix[i], w)
		}
	}
}

// TestResizeBicubicClamps verifies Catmull-Rom overshoot near a hard edge is
// clamped back into the valid sample range.
func TestResizeBicubicClamps(t *testing.T) {
	p := newPlane(8, 1)
	for x := 4; x < 8; x++ {
		p.set(x, 0, 1)
	}

	out := resizeBicubic(p, 16, 1)
	for i, v := range out.pix {
		if v < 0 || v > 1 {
			t.Errorf("out[%d] = %v, outside [0,1]", i, v)
		}
	}
}
