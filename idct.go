package jpeg

import "math"

// AAN-style butterfly constants used by the separable column/row
// inverse transform below. Scale factors derived from the 8-point
// inverse DCT basis functions.
const (
	idctS0 = 2.828427124746190097603377448419
	idctS1 = 3.923141121612921796504728944537
	idctS2 = 3.695518130045147024512732757587
	idctS3 = 3.325878449210180948315153510472
	idctS4 = 2.828427124746190097603377448419
	idctS5 = 2.222280932078408898971323255794
	idctS6 = 1.530733729460359086913839936122
	idctS7 = 0.780361288064513071393139473908

	idctA1 = 1.414213562373095048801688724209
	idctA2 = 0.541196100146196984399723205367
	idctA3 = 1.414213562373095048801688724209
	idctA4 = 1.306562964876376527856643173427
	idctA5 = 0.382683432365089771728459984030
)

// idctButterfly8 runs one 8-point inverse DCT butterfly over the eight
// inputs v0..v7 and returns the eight outputs; the caller gathers one
// row or column of the block into the arguments.
func idctButterfly8(v0, v1, v2, v3, v4, v5, v6, v7 float64) [8]float64 {
	v15 := v0 * idctS0
	v26 := v1 * idctS1
	v21 := v2 * idctS2
	v28 := v3 * idctS3
	v16 := v4 * idctS4
	v25 := v5 * idctS5
	v22 := v6 * idctS6
	v27 := v7 * idctS7

	a19 := (v25 - v28) * 0.5
	a20 := (v26 - v27) * 0.5
	a23 := (v26 + v27) * 0.5
	a24 := (v25 + v28) * 0.5

	a7 := (a23 + a24) * 0.5
	a11 := (v21 + v22) * 0.5
	a13 := (a23 - a24) * 0.5
	a17 := (v21 - v22) * 0.5

	a8 := (v15 + v16) * 0.5
	a9 := (v15 - v16) * 0.5

	term := (a19 - a20) * idctA5
	a12 := term - a19*idctA4
	a14 := a20*idctA2 - term

	a6 := a14 - a7
	a5 := a13*idctA3 - a6
	a4 := -a5 - a12
	a10 := a17*idctA1 - a11

	a0 := (a8 + a11) * 0.5
	a1 := (a9 + a10) * 0.5
	a2 := (a9 - a10) * 0.5
	a3 := (a8 - a11) * 0.5

	var out [8]float64
	out[0] = (a0 + a7) * 0.5
	out[1] = (a1 + a6) * 0.5
	out[2] = (a2 + a5) * 0.5
	out[3] = (a3 + a4) * 0.5
	out[4] = (a3 - a4) * 0.5
	out[5] = (a2 - a5) * 0.5
	out[6] = (a1 - a6) * 0.5
	out[7] = (a0 - a7) * 0.5
	return out
}

func clampSample(v float64) uint8 {
	iv := int(math.Round(v)) + 128
	if iv < 0 {
		return 0
	}
	if iv > 255 {
		return 255
	}
	return uint8(iv)
}

// inverseDCT8 performs the separable 2-D inverse DCT on a dequantized,
// naturally-ordered block and returns level-shifted, clamped 8-bit
// samples in row-major order.
func inverseDCT8(block Block) [64]uint8 {
	var column [64]float64
	for u := 0; u < 8; u++ {
		col := idctButterfly8(
			float64(block[u]), float64(block[u+8]), float64(block[u+16]), float64(block[u+24]),
			float64(block[u+32]), float64(block[u+40]), float64(block[u+48]), float64(block[u+56]),
		)
		for r := 0; r < 8; r++ {
			column[r*8+u] = col[r]
		}
	}

	var out [64]uint8
	for r := 0; r < 8; r++ {
		base := r * 8
		row := idctButterfly8(
			column[base], column[base+1], column[base+2], column[base+3],
			column[base+4], column[base+5], column[base+6], column[base+7],
		)
		for c := 0; c < 8; c++ {
			out[base+c] = clampSample(row[c])
		}
	}
	return out
}

// cosTable8[x][u] = cos((2x+1)u*pi/16), precomputed for the direct
// (non-butterfly) inverse DCT below.
var cosTable8 [8][8]float64

func init() {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			cosTable8[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16.0)
		}
	}
}

func alphaCoeff(u int) float64 {
	if u == 0 {
		return 1.0 / math.Sqrt2
	}
	return 1.0
}

// inverseDCT8Direct computes the same transform as inverseDCT8 using
// the textbook double-sum cosine formula instead of the butterfly
// factorization. Kept as an independently implemented reference: any
// divergence between the two on the same input flags a butterfly bug.
func inverseDCT8Direct(block Block) [64]uint8 {
	var out [64]uint8
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			var sum float64
			for v := 0; v < 8; v++ {
				for u := 0; u < 8; u++ {
					sum += alphaCoeff(u) * alphaCoeff(v) *
						float64(block[v*8+u]) *
						cosTable8[x][u] * cosTable8[y][v]
				}
			}
			sum *= 0.25
			out[y*8+x] = clampSample(sum)
		}
	}
	return out
}
