package rimage

import (
	"image"
	"math"
)

// PointDistance returns the euclidean distance between two points.
func PointDistance(a, b image.Point) float64 {
	x := float64(a.X - b.X)
	y := float64(a.Y - b.Y)
	return math.Sqrt(x*x + y*y)
}

// BoundingBox returns the smallest rectangle holding every point. It is empty when pts is.
func BoundingBox(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{pts[0], pts[0].Add(image.Point{1, 1})}
	for _, p := range pts[1:] {
		r = r.Union(image.Rectangle{p, p.Add(image.Point{1, 1})})
	}
	return r
}

// NonZeroPoints lists the coordinates of every non zero pixel of img in raster order.
func NonZeroPoints(img *image.Gray) []image.Point {
	img = toOrigin(img)
	pts := []image.Point{}
	for y := 0; y < img.Rect.Dy(); y++ {
		for x := 0; x < img.Rect.Dx(); x++ {
			if img.Pix[y*img.Stride+x] != 0 {
				pts = append(pts, image.Point{x, y})
			}
		}
	}
	return pts
}
