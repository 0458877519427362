package utils

import (
	"image"
	"sync/atomic"
	"testing"

	"go.viam.com/test"
)

func TestParallelForEachPixel(t *testing.T) {
	for _, size := range []image.Point{{0, 0}, {1, 1}, {3, 200}, {97, 41}, {640, 480}} {
		visited := make([]int32, size.X*size.Y)
		var total int64
		ParallelForEachPixel(size, func(x, y int) {
			atomic.AddInt32(&visited[y*size.X+x], 1)
			atomic.AddInt64(&total, 1)
		})
		test.That(t, total, test.ShouldEqual, int64(size.X*size.Y))
		for _, v := range visited {
			test.That(t, v, test.ShouldEqual, int32(1))
		}
	}
}

func TestParallelFactorOne(t *testing.T) {
	old := ParallelFactor
	ParallelFactor = 1
	defer func() { ParallelFactor = old }()

	var order []image.Point
	ParallelForEachPixel(image.Point{3, 2}, func(x, y int) {
		order = append(order, image.Point{x, y})
	})
	test.That(t, order, test.ShouldResemble, []image.Point{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}})
}
