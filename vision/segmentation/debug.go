package segmentation

import (
	"context"
	"image"

	"github.com/markerseg/markerseg/rimage"
)

// Diagnostics are the intermediate pictures of an image that the strategies work on.
type Diagnostics struct {
	// Gradient is the Scharr gradient magnitude scaled to 0-255.
	Gradient *image.Gray
	// Elevation is the smoothed, normalized gradient magnitude as gray.
	Elevation *image.Gray
	// Regions colors the superpixels of the merge hierarchy cut at the requested level.
	Regions *image.NRGBA
}

// ComputeDiagnostics builds the diagnostic pictures of img with the gradient smoothing of conf and the
// hierarchy cut at level.
func ComputeDiagnostics(ctx context.Context, img image.Image, conf Config, level float64) (*Diagnostics, error) {
	gray := rimage.MakeGray(img)
	vf, err := rimage.ScharrGradient(gray)
	if err != nil {
		return nil, err
	}
	elev, err := rimage.ComputeElevationMap(gray, conf.GradientSigma)
	if err != nil {
		return nil, err
	}
	h, err := BuildHierarchy(ctx, elev)
	if err != nil {
		return nil, err
	}
	size := image.Point{elev.Width(), elev.Height()}
	return &Diagnostics{
		Gradient:  vf.MagnitudePicture(),
		Elevation: elev.Picture(),
		Regions:   ColorizeRegions(HierarchyRegions(h, level), size),
	}, nil
}

// HierarchyRegions cuts the hierarchy at level: two pixels share a region when they are merged at or
// below that level. Regions are numbered from 0 in raster order of their first pixel.
func HierarchyRegions(h *Hierarchy, level float64) []int32 {
	rep := make([]int32, h.NumNodes())
	// parents have larger indices, so walking down from the root resolves every node after its parent.
	for i := h.NumNodes() - 1; i >= 0; i-- {
		p := h.Parent[i]
		if p < 0 || h.Level[p] > level {
			rep[i] = int32(i)
		} else {
			rep[i] = rep[p]
		}
	}
	ids := map[int32]int32{}
	regions := make([]int32, h.NumLeaves())
	for i := range regions {
		id, ok := ids[rep[i]]
		if !ok {
			id = int32(len(ids))
			ids[rep[i]] = id
		}
		regions[i] = id
	}
	return regions
}

// ColorizeRegions paints each region of a row major region map with its own color. It is only meant to
// look at superpixels and plays no part in computing masks.
func ColorizeRegions(regions []int32, size image.Point) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	for i, r := range regions {
		img.SetNRGBA(i%size.X, i/size.X, rimage.RegionColor(int(r)))
	}
	return img
}
