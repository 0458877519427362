// Package markers finds, paints and reads back the foreground and background seed points that guide
// a segmentation.
package markers

import (
	"encoding/json"
	"image"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Label tells whether a marker sits on the object or on the background.
type Label int

// The known labels.
const (
	Foreground Label = iota
	Background
)

func (l Label) String() string {
	switch l {
	case Foreground:
		return "foreground"
	case Background:
		return "background"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the label by name.
func (l Label) MarshalJSON() ([]byte, error) {
	if l != Foreground && l != Background {
		return nil, errors.Errorf("cannot encode marker label %d", int(l))
	}
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts "foreground" (or its alias "object") and "background".
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "foreground", "object":
		*l = Foreground
	case "background":
		*l = Background
	default:
		return errors.Errorf("unknown marker label %q", s)
	}
	return nil
}

// Marker is a labeled seed point.
type Marker struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Label Label `json:"label"`
}

// Point returns the marker position.
func (m Marker) Point() image.Point {
	return image.Point{m.X, m.Y}
}

type jsonMarker struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label Label  `json:"label"`
	Type  string `json:"type"`
}

// MarshalJSON writes the marker as a point annotation.
func (m Marker) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonMarker{X: m.X, Y: m.Y, Label: m.Label, Type: "point"})
}

// UnmarshalJSON reads a point annotation. Annotations of any other type are rejected.
func (m *Marker) UnmarshalJSON(data []byte) error {
	var jm jsonMarker
	if err := json.Unmarshal(data, &jm); err != nil {
		return err
	}
	if jm.Type != "" && jm.Type != "point" {
		return errors.Errorf("unsupported annotation type %q", jm.Type)
	}
	*m = Marker{X: jm.X, Y: jm.Y, Label: jm.Label}
	return nil
}

// Result is the outcome of a marker generation: the markers in generation order and how many of each
// label there are.
type Result struct {
	ImageSize       image.Point
	Markers         []Marker
	ForegroundCount int
	BackgroundCount int
}

// NewResult builds a Result, counting the labels of markers.
func NewResult(size image.Point, markers []Marker) *Result {
	return &Result{
		ImageSize:       size,
		Markers:         markers,
		ForegroundCount: lo.CountBy(markers, func(m Marker) bool { return m.Label == Foreground }),
		BackgroundCount: lo.CountBy(markers, func(m Marker) bool { return m.Label == Background }),
	}
}

// Points returns the positions of the markers with the given label, in order.
func (r *Result) Points(l Label) []image.Point {
	return lo.FilterMap(r.Markers, func(m Marker, _ int) (image.Point, bool) {
		return m.Point(), m.Label == l
	})
}

type jsonCounts struct {
	Object     int `json:"object"`
	Background int `json:"background"`
}

type jsonResult struct {
	ImageSize [2]int     `json:"image_size"`
	Counts    jsonCounts `json:"counts"`
	Points    []Marker   `json:"points"`
}

// MarshalJSON writes {"image_size":[w,h],"counts":{"object":n,"background":n},"points":[...]}.
func (r *Result) MarshalJSON() ([]byte, error) {
	points := r.Markers
	if points == nil {
		points = []Marker{}
	}
	return json.Marshal(jsonResult{
		ImageSize: [2]int{r.ImageSize.X, r.ImageSize.Y},
		Counts:    jsonCounts{Object: r.ForegroundCount, Background: r.BackgroundCount},
		Points:    points,
	})
}

// UnmarshalJSON reads the document written by MarshalJSON. Counts are recomputed from the points.
func (r *Result) UnmarshalJSON(data []byte) error {
	var jr jsonResult
	if err := json.Unmarshal(data, &jr); err != nil {
		return err
	}
	*r = *NewResult(image.Point{jr.ImageSize[0], jr.ImageSize[1]}, jr.Points)
	return nil
}
