package segmentation

import (
	"container/heap"
	"context"
	"image"
	"math"

	"github.com/markerseg/markerseg/logging"
	"github.com/markerseg/markerseg/rimage"
)

// Labels of the flood grid.
const (
	unlabeled uint8 = 0
	labelBG   uint8 = 1
	labelFG   uint8 = 2
)

// checkEvery is how many queue pops happen between two context checks.
const checkEvery = 1 << 16

func init() {
	RegisterSegmenter(StrategyWatershed, Registration{
		Constructor: func(_ Config, logger logging.Logger) (Segmenter, error) {
			return &watershed{logger: logger}, nil
		},
		NeedsMarkers:   true,
		NeedsElevation: true,
	})
}

type watershed struct {
	logger logging.Logger
}

func (w *watershed) Segment(ctx context.Context, in *Input) (*image.Gray, error) {
	labels := seedLabels(in.Foreground, in.Background)
	if err := WatershedFlood(ctx, in.Elevation, labels); err != nil {
		return nil, err
	}
	return labelsToMask(labels, in.Elevation.Width(), in.Elevation.Height()), nil
}

// seedLabels builds the row major label grid of the seeds. A pixel marked with both labels is foreground.
func seedLabels(fg, bg *image.Gray) []uint8 {
	b := fg.Bounds()
	labels := make([]uint8, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			switch {
			case fg.Pix[y*fg.Stride+x] != 0:
				labels[y*b.Dx()+x] = labelFG
			case bg.Pix[y*bg.Stride+x] != 0:
				labels[y*b.Dx()+x] = labelBG
			}
		}
	}
	return labels
}

func labelsToMask(labels []uint8, w, h int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if labels[y*w+x] == labelFG {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
	return mask
}

type floodItem struct {
	cost  float64
	seq   uint64
	index int
}

// floodQueue pops the lowest cost first and, among equal costs, the earliest pushed.
type floodQueue []floodItem

func (q floodQueue) Len() int { return len(q) }

func (q floodQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}

func (q floodQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *floodQueue) Push(x interface{}) { *q = append(*q, x.(floodItem)) }

func (q *floodQueue) Pop() interface{} {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

// WatershedFlood grows the labeled seeds of labels (row major, 0 = unlabeled) over the elevation map in
// place. The cost of a path is the sum of the elevations of the pixels it enters; every pixel takes the
// label of the cheapest path reaching it, and a label only changes for a strictly cheaper path, so the
// earliest queued path wins ties. Pixels unreachable from any seed stay unlabeled.
func WatershedFlood(ctx context.Context, elev *rimage.ElevationMap, labels []uint8) error {
	w, h := elev.Width(), elev.Height()
	values := elev.Values()
	cost := make([]float64, w*h)
	q := make(floodQueue, 0, w*h/4+1)
	var seq uint64
	for i, l := range labels {
		if l == unlabeled {
			cost[i] = math.Inf(1)
			continue
		}
		q = append(q, floodItem{cost: 0, seq: seq, index: i})
		seq++
	}
	heap.Init(&q)

	pops := 0
	for q.Len() > 0 {
		if pops++; pops%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		item := heap.Pop(&q).(floodItem)
		if item.cost > cost[item.index] {
			continue // stale
		}
		x, y := item.index%w, item.index/w
		for _, n := range [4]image.Point{{x, y - 1}, {x - 1, y}, {x + 1, y}, {x, y + 1}} {
			if n.X < 0 || n.Y < 0 || n.X >= w || n.Y >= h {
				continue
			}
			ni := n.Y*w + n.X
			next := item.cost + values[ni]
			if next >= cost[ni] {
				continue
			}
			cost[ni] = next
			labels[ni] = labels[item.index]
			heap.Push(&q, floodItem{cost: next, seq: seq, index: ni})
			seq++
		}
	}
	return nil
}
