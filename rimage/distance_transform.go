package rimage

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DistanceTransform returns, for every pixel of mask, the exact euclidean distance to the nearest
// zero pixel (0 on zero pixels). When mask has no zero pixel every distance is +Inf.
// It uses the two pass lower envelope algorithm of Felzenszwalb and Huttenlocher on squared distances.
func DistanceTransform(mask *image.Gray) *mat.Dense {
	mask = toOrigin(mask)
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	sq := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.Pix[y*mask.Stride+x] != 0 {
				sq[y*w+x] = math.Inf(1)
			}
		}
	}

	n := max(w, h)
	f := make([]float64, n)
	d := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)

	// columns first, then rows over the partial result.
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			f[y] = sq[y*w+x]
		}
		distanceTransform1D(f[:h], d[:h], v, z)
		for y := 0; y < h; y++ {
			sq[y*w+x] = d[y]
		}
	}
	for y := 0; y < h; y++ {
		copy(f[:w], sq[y*w:(y+1)*w])
		distanceTransform1D(f[:w], d[:w], v, z)
		for x := 0; x < w; x++ {
			sq[y*w+x] = math.Sqrt(d[x])
		}
	}
	if w == 0 || h == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(h, w, sq)
}

// distanceTransform1D computes d[q] = min_p (q-p)^2 + f[p]. v and z are scratch buffers of at least
// len(f) and len(f)+1 elements.
func distanceTransform1D(f, d []float64, v []int, z []float64) {
	n := len(f)
	if n == 0 {
		return
	}
	k := -1
	for q := 0; q < n; q++ {
		if math.IsInf(f[q], 1) {
			continue
		}
		for k >= 0 {
			p := v[k]
			s := ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*q-2*p)
			if s > z[k] {
				break
			}
			k--
		}
		k++
		v[k] = q
		if k == 0 {
			z[k] = math.Inf(-1)
		} else {
			p := v[k-1]
			z[k] = ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*q-2*p)
		}
		z[k+1] = math.Inf(1)
	}
	if k < 0 {
		for q := range d {
			d[q] = math.Inf(1)
		}
		return
	}
	j := 0
	for q := 0; q < n; q++ {
		for z[j+1] < float64(q) {
			j++
		}
		p := v[j]
		d[q] = float64((q-p)*(q-p)) + f[p]
	}
}
