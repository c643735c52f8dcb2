package geo

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

// ErrInvalidBounds is returned when a bounding box is empty or not finite
var ErrInvalidBounds = errors.New("invalid bounds")

// Zoom limits of the map surface
const (
	MinZoom = 0
	MaxZoom = 18
)

// Camera is the map view: a lon/lat center and a zoom level
type Camera struct {
	Center orb.Point
	Zoom   float64
}

// Viewport is the size of the map surface in terminal cells
type Viewport struct {
	Width  int
	Height int

	// AspectRatio compensates for cells being taller than they are wide
	AspectRatio float64
}

func (v Viewport) aspect() float64 {
	if v.AspectRatio <= 0 {
		return DefaultAspectRatio
	}
	return v.AspectRatio
}

// FitOptions bound the zoom chosen by FitBounds. Padding is in cells on every side.
type FitOptions struct {
	Padding int
	MinZoom float64
	MaxZoom float64
}

// ValidBound reports whether b has finite corners with Min <= Max
func ValidBound(b orb.Bound) bool {
	for _, v := range []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1]
}

// FitBounds centers the camera on b and picks the largest integer zoom in
// [MinZoom, MaxZoom] at which b plus padding still fits in the viewport
func FitBounds(b orb.Bound, vp Viewport, opts FitOptions) (Camera, error) {
	if !ValidBound(b) {
		return Camera{}, ErrInvalidBounds
	}

	lo, hi := opts.MinZoom, opts.MaxZoom
	if hi <= 0 {
		hi = MaxZoom
	}
	lo = clampZoom(lo)
	hi = clampZoom(hi)
	if lo > hi {
		lo = hi
	}

	center := b.Center()
	width := float64(vp.Width - 2*opts.Padding)
	height := float64(vp.Height - 2*opts.Padding)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	spanLon := b.Max[0] - b.Min[0]
	spanLat := b.Max[1] - b.Min[1]

	for z := math.Floor(hi); z >= lo; z-- {
		cols := spanLon * ColsPerDegree(z)
		rows := spanLat * RowsPerDegree(z, center[1], vp.aspect())
		if cols <= width && rows <= height {
			return Camera{Center: center, Zoom: z}, nil
		}
	}

	return Camera{Center: center, Zoom: lo}, nil
}

func clampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// ZoomBy returns the camera with its zoom shifted by delta and clamped
func (c Camera) ZoomBy(delta float64) Camera {
	c.Zoom = clampZoom(c.Zoom + delta)
	return c
}

// Pan moves the camera by a number of cells at its current zoom
func (c Camera) Pan(dx, dy int, vp Viewport) Camera {
	c.Center[0] += float64(dx) / ColsPerDegree(c.Zoom)
	c.Center[1] -= float64(dy) / RowsPerDegree(c.Zoom, c.Center[1], vp.aspect())
	c.Center[1] = math.Max(-85, math.Min(85, c.Center[1]))
	return c
}
