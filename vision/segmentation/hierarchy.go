package segmentation

import (
	"context"
	"image"
	"math"
	"slices"

	"github.com/markerseg/markerseg/logging"
	"github.com/markerseg/markerseg/rimage"
)

func init() {
	RegisterSegmenter(StrategyHierarchy, Registration{
		Constructor: func(_ Config, logger logging.Logger) (Segmenter, error) {
			return &hierarchySegmenter{logger: logger}, nil
		},
		NeedsMarkers:   true,
		NeedsElevation: true,
	})
}

// NodeClass summarizes the marker labels found under a hierarchy node.
type NodeClass uint8

// Node classes. Mixed is Foreground|Background.
const (
	Unlabeled  NodeClass = 0
	Foreground NodeClass = 1
	Background NodeClass = 2
	Mixed      NodeClass = Foreground | Background
)

func (c NodeClass) String() string {
	switch c {
	case Foreground:
		return "foreground"
	case Background:
		return "background"
	case Mixed:
		return "mixed"
	default:
		return "unlabeled"
	}
}

// Hierarchy is the binary partition tree of an image: nodes [0, n) are the pixels in row major order and
// node n+i is created by the i-th merge. Parents always have a larger index than their children and the
// root is the last node.
type Hierarchy struct {
	Width, Height int
	Parent        []int32   // -1 for the root
	Level         []float64 // merge weight; 0 for pixels
	Area          []int
	// MergeEdge[i] holds the two pixels whose edge caused merge i.
	MergeEdge [][2]int32
}

// NumLeaves is the number of pixels.
func (h *Hierarchy) NumLeaves() int {
	return h.Width * h.Height
}

// NumNodes is the total number of nodes, 2n-1 for n pixels.
func (h *Hierarchy) NumNodes() int {
	return len(h.Parent)
}

type edge struct {
	a, b   int32
	weight float64
}

// gridEdges lists the 4-connected edges in raster order, right neighbour before bottom neighbour, weighted
// by the higher elevation of their two ends.
func gridEdges(w, h int, values []float64) []edge {
	edges := make([]edge, 0, 2*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if x+1 < w {
				edges = append(edges, edge{int32(i), int32(i + 1), math.Max(values[i], values[i+1])})
			}
			if y+1 < h {
				edges = append(edges, edge{int32(i), int32(i + w), math.Max(values[i], values[i+w])})
			}
		}
	}
	return edges
}

// disjointSet is a union find over int32 with path halving and union by size.
type disjointSet struct {
	parent []int32
	size   []int32
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{parent: make([]int32, n), size: make([]int32, n)}
	for i := range ds.parent {
		ds.parent[i] = int32(i)
		ds.size[i] = 1
	}
	return ds
}

func (ds *disjointSet) find(i int32) int32 {
	for ds.parent[i] != i {
		ds.parent[i] = ds.parent[ds.parent[i]]
		i = ds.parent[i]
	}
	return i
}

// union joins the sets of two roots and returns the new root.
func (ds *disjointSet) union(ra, rb int32) int32 {
	if ds.size[ra] < ds.size[rb] {
		ra, rb = rb, ra
	}
	ds.parent[rb] = ra
	ds.size[ra] += ds.size[rb]
	return ra
}

// BuildHierarchy agglomerates the pixels of the elevation map along the lowest edges first (Kruskal).
// Edges of equal weight are taken in raster order so the tree is deterministic.
func BuildHierarchy(ctx context.Context, elev *rimage.ElevationMap) (*Hierarchy, error) {
	w, h := elev.Width(), elev.Height()
	n := w * h
	edges := gridEdges(w, h, elev.Values())
	slices.SortStableFunc(edges, func(a, b edge) int {
		switch {
		case a.weight < b.weight:
			return -1
		case a.weight > b.weight:
			return 1
		default:
			return 0
		}
	})

	total := 2*n - 1
	hier := &Hierarchy{
		Width:     w,
		Height:    h,
		Parent:    make([]int32, total),
		Level:     make([]float64, total),
		Area:      make([]int, total),
		MergeEdge: make([][2]int32, 0, n-1),
	}
	for i := range hier.Parent {
		hier.Parent[i] = -1
	}
	for i := 0; i < n; i++ {
		hier.Area[i] = 1
	}

	ds := newDisjointSet(n)
	// nodeOf maps a set root to the tree node standing for its set.
	nodeOf := make([]int32, n)
	for i := range nodeOf {
		nodeOf[i] = int32(i)
	}
	next := int32(n)
	for i, e := range edges {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		ra, rb := ds.find(e.a), ds.find(e.b)
		if ra == rb {
			continue
		}
		na, nb := nodeOf[ra], nodeOf[rb]
		hier.Parent[na], hier.Parent[nb] = next, next
		hier.Level[next] = e.weight
		hier.Area[next] = hier.Area[na] + hier.Area[nb]
		hier.MergeEdge = append(hier.MergeEdge, [2]int32{e.a, e.b})
		nodeOf[ds.union(ra, rb)] = next
		next++
	}
	return hier, nil
}

// Classes computes the class of every node from the seed labels of the pixels (row major, see
// seedLabels): a node is Foreground when every labeled pixel below it is, Background likewise, Mixed
// when both occur and Unlabeled when none does.
func (h *Hierarchy) Classes(labels []uint8) []NodeClass {
	classes := make([]NodeClass, h.NumNodes())
	for i, l := range labels {
		switch l {
		case labelFG:
			classes[i] = Foreground
		case labelBG:
			classes[i] = Background
		}
	}
	// children come before parents so one ascending pass is bottom up.
	for i, p := range h.Parent {
		if p >= 0 {
			classes[p] |= classes[i]
		}
	}
	return classes
}

// Cut labels every pixel by replaying the merges in order while refusing to join a foreground region
// with a background one. What remains are the maximal resolved regions; an unlabeled region joins the
// labeled region it touches at the first merge that reaches one. labels is updated in place and pixels
// left unlabeled become background.
func (h *Hierarchy) Cut(labels []uint8) {
	n := h.NumLeaves()
	ds := newDisjointSet(n)
	// label of each set, stored at its root.
	setLabel := make([]uint8, n)
	copy(setLabel, labels)
	for _, e := range h.MergeEdge {
		ra, rb := ds.find(e[0]), ds.find(e[1])
		la, lb := setLabel[ra], setLabel[rb]
		if la != unlabeled && lb != unlabeled && la != lb {
			continue
		}
		r := ds.union(ra, rb)
		if la == unlabeled {
			setLabel[r] = lb
		} else {
			setLabel[r] = la
		}
	}
	for i := range labels {
		if l := setLabel[ds.find(int32(i))]; l != unlabeled {
			labels[i] = l
		} else {
			labels[i] = labelBG
		}
	}
}

type hierarchySegmenter struct {
	logger logging.Logger
}

func (s *hierarchySegmenter) Segment(ctx context.Context, in *Input) (*image.Gray, error) {
	hier, err := BuildHierarchy(ctx, in.Elevation)
	if err != nil {
		return nil, err
	}
	labels := seedLabels(in.Foreground, in.Background)
	classes := hier.Classes(labels)
	mixed := 0
	for _, c := range classes[hier.NumLeaves():] {
		if c == Mixed {
			mixed++
		}
	}
	s.logger.Debugw("built hierarchy", "nodes", hier.NumNodes(), "mixed_nodes", mixed)

	hier.Cut(labels)
	return labelsToMask(labels, hier.Width, hier.Height), nil
}
