package waifu2x

import "math"

// Plane resampling. Three kernels cover the pipeline's needs: nearest for the
// 2x zoom feeding the scale engine, bilinear for the exact final resize, and
// Catmull-Rom bicubic for the chrominance and alpha planes.

// resizeNearest resamples p to w×h selecting the closest source sample.
func resizeNearest(p *plane, w, h int) *plane {
	out := newPlane(w, h)
	for j := 0; j < h; j++ {
		sy := j * p.height / h
		srcRow := p.row(sy, 0, p.width)
		dst := out.row(j, 0, w)
		for i := 0; i < w; i++ {
			dst[i] = srcRow[i*p.width/w]
		}
	}
	return out
}

// resizeBilinear resamples p to w×h interpolating between the 2×2 nearest
// source samples. Source coordinates are pixel-center aligned.
func resizeBilinear(p *plane, w, h int) *plane {
	out := newPlane(w, h)
	sx := float64(p.width) / float64(w)
	sy := float64(p.height) / float64(h)
	for j := 0; j < h; j++ {
		fy := (float64(j)+0.5)*sy - 0.5
		y0 := int(math.Floor(fy))
		ty := float32(fy - float64(y0))
		for i := 0; i < w; i++ {
			fx := (float64(i)+0.5)*sx - 0.5
			x0 := int(math.Floor(fx))
			tx := float32(fx - float64(x0))

			v00 := p.at(x0, y0)
			v10 := p.at(x0+1, y0)
			v01 := p.at(x0, y0+1)
			v11 := p.at(x0+1, y0+1)

			top := v00 + (v10-v00)*tx
			bot := v01 + (v11-v01)*tx
			out.set(i, j, top+(bot-top)*ty)
		}
	}
	return out
}

// resizeBicubic resamples p to w×h with a Catmull-Rom kernel over the 4×4
// nearest source samples. Out-of-range results are clamped back to [0, 1].
func resizeBicubic(p *plane, w, h int) *plane {
	out := newPlane(w, h)
	sx := float64(p.width) / float64(w)
	sy := float64(p.height) / float64(h)
	for j := 0; j < h; j++ {
		fy := (float64(j)+0.5)*sy - 0.5
		y0 := int(math.Floor(fy))
		ty := fy - float64(y0)
		wy := [4]float64{
			cubicWeight(ty + 1),
			cubicWeight(ty),
			cubicWeight(ty - 1),
			cubicWeight(ty - 2),
		}
		for i := 0; i < w; i++ {
			fx := (float64(i)+0.5)*sx - 0.5
			x0 := int(math.Floor(fx))
			tx := fx - float64(x0)
			wx := [4]float64{
				cubicWeight(tx + 1),
				cubicWeight(tx),
				cubicWeight(tx - 1),
				cubicWeight(tx - 2),
			}

			var acc float64
			for dy := 0; dy < 4; dy++ {
				var rowAcc float64
				for dx := 0; dx < 4; dx++ {
					rowAcc += float64(p.at(x0+dx-1, y0+dy-1)) * wx[dx]
				}
				acc += rowAcc * wy[dy]
			}
			out.set(i, j, clamp01(float32(acc)))
		}
	}
	return out
}

// cubicWeight computes the Catmull-Rom cubic weight for distance t
// (Mitchell-Netravali with B=0, C=0.5):
//
//	|t| < 1: 1.5|t|³ - 2.5|t|² + 1
//	1 ≤ |t| < 2: -0.5|t|³ + 2.5|t|² - 4|t| + 2
//	|t| ≥ 2: 0
func cubicWeight(t float64) float64 {
	absT := math.Abs(t)
	if absT < 1 {
		return 1.5*absT*absT*absT - 2.5*absT*absT + 1.0
	}
	if absT < 2 {
		return -0.5*absT*absT*absT + 2.5*absT*absT - 4.0*absT + 2.0
	}
	return 0
}

// clamp01 clamps v to [0, 1].
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
