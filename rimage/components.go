package rimage

import (
	"image"
)

// ComponentStats describes one connected component of a binary mask.
type ComponentStats struct {
	ID       int
	Area     int
	Centroid image.Point     // integer (truncated) mean of the member pixels
	Bounds   image.Rectangle // half open, like every image.Rectangle
}

var eightNeighbors = []image.Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// ConnectedComponents labels the 8-connected groups of non zero pixels of mask. Components are
// discovered in raster scan order and numbered from 1; the returned label slice is row major with 0
// for background pixels, and stats[i] describes the component with ID i+1.
func ConnectedComponents(mask *image.Gray) ([]int32, []ComponentStats) {
	mask = toOrigin(mask)
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	labels := make([]int32, w*h)
	stats := []ComponentStats{}
	queue := []image.Point{}
	bounds := image.Rect(0, 0, w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if labels[y*w+x] != 0 || mask.Pix[y*mask.Stride+x] == 0 {
				continue
			}
			id := int32(len(stats) + 1)
			labels[y*w+x] = id
			queue = append(queue[:0], image.Point{x, y})
			area, sumX, sumY := 0, 0, 0
			x0, y0, x1, y1 := x, y, x, y // the bounding box of the segment
			for len(queue) != 0 {
				pt := queue[0]
				queue = queue[1:]
				area++
				sumX += pt.X
				sumY += pt.Y
				if pt.X < x0 {
					x0 = pt.X
				}
				if pt.X > x1 {
					x1 = pt.X
				}
				if pt.Y < y0 {
					y0 = pt.Y
				}
				if pt.Y > y1 {
					y1 = pt.Y
				}
				for _, d := range eightNeighbors {
					n := pt.Add(d)
					if !n.In(bounds) {
						continue
					}
					indx := n.Y*w + n.X
					if labels[indx] != 0 || mask.Pix[n.Y*mask.Stride+n.X] == 0 {
						continue
					}
					labels[indx] = id
					queue = append(queue, n)
				}
			}
			stats = append(stats, ComponentStats{
				ID:       int(id),
				Area:     area,
				Centroid: image.Point{sumX / area, sumY / area},
				Bounds:   image.Rect(x0, y0, x1+1, y1+1),
			})
		}
	}
	return labels, stats
}
