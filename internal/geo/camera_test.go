package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

var testViewport = Viewport{Width: 120, Height: 40, AspectRatio: 2}

func TestFitBounds_picksLargestFittingZoom(t *testing.T) {
	// roughly Minnesota
	b := orb.Bound{Min: orb.Point{-97.2, 43.5}, Max: orb.Point{-89.5, 49.4}}

	cam, err := FitBounds(b, testViewport, FitOptions{Padding: 2, MinZoom: 4, MaxZoom: 18})
	if err != nil {
		t.Fatal(err)
	}
	if cam.Zoom != math.Floor(cam.Zoom) {
		t.Fatalf("expected integer zoom, got %v", cam.Zoom)
	}
	if !cam.Center.Equal(b.Center()) {
		t.Fatalf("expected center %v, got %v", b.Center(), cam.Center)
	}

	fits := func(z float64) bool {
		cols := (b.Max[0] - b.Min[0]) * ColsPerDegree(z)
		rows := (b.Max[1] - b.Min[1]) * RowsPerDegree(z, b.Center()[1], 2)
		return cols <= 116 && rows <= 36
	}
	if !fits(cam.Zoom) || fits(cam.Zoom+1) {
		t.Fatalf("expected zoom %v to be the largest that fits", cam.Zoom)
	}
}

func TestFitBounds_respectsMaxZoom(t *testing.T) {
	pt := orb.Point{-93.26, 44.98}
	cam, err := FitBounds(orb.Bound{Min: pt, Max: pt}, testViewport, FitOptions{MaxZoom: 10})
	if err != nil {
		t.Fatal(err)
	}
	if cam.Zoom != 10 {
		t.Fatalf("expected a point to fit at max zoom 10, got %v", cam.Zoom)
	}
}

func TestFitBounds_respectsMinZoom(t *testing.T) {
	world := orb.Bound{Min: orb.Point{-180, -80}, Max: orb.Point{180, 80}}
	cam, err := FitBounds(world, testViewport, FitOptions{MinZoom: 4, MaxZoom: 7})
	if err != nil {
		t.Fatal(err)
	}
	if cam.Zoom != 4 {
		t.Fatalf("expected min zoom 4, got %v", cam.Zoom)
	}
}

func TestFitBounds_invalid(t *testing.T) {
	bad := orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{0, 0}}
	if _, err := FitBounds(bad, testViewport, FitOptions{}); !errors.Is(err, ErrInvalidBounds) {
		t.Fatalf("expected ErrInvalidBounds, got %v", err)
	}
	nan := orb.Bound{Min: orb.Point{math.NaN(), 0}, Max: orb.Point{1, 1}}
	if ValidBound(nan) {
		t.Fatalf("expected NaN bound to be invalid")
	}
}

func TestProjection_roundTrip(t *testing.T) {
	cam := Camera{Center: orb.Point{-98, 39}, Zoom: 4}
	p := NewProjection(cam, testViewport)

	center := p.Project(cam.Center)
	if center.X != 60 || center.Y != 20 {
		t.Fatalf("expected center at 60,20, got %v", center)
	}

	back := p.Unproject(center.X, center.Y)
	if math.Abs(back[0]-cam.Center[0]) > 1e-9 || math.Abs(back[1]-cam.Center[1]) > 1e-9 {
		t.Fatalf("expected round trip to %v, got %v", cam.Center, back)
	}

	east := p.Project(orb.Point{-90, 39})
	if east.X <= center.X || east.Y != center.Y {
		t.Fatalf("expected east point to the right on the same row, got %v", east)
	}
	north := p.Project(orb.Point{-98, 45})
	if north.Y >= center.Y {
		t.Fatalf("expected north point above center, got %v", north)
	}

	if !p.Bounds().Contains(cam.Center) {
		t.Fatalf("expected visible bounds to contain the center")
	}
}

func TestCamera_zoomAndPan(t *testing.T) {
	cam := Camera{Center: orb.Point{-98, 39}, Zoom: 17.5}
	if got := cam.ZoomBy(2).Zoom; got != MaxZoom {
		t.Fatalf("expected zoom clamped to %d, got %v", MaxZoom, got)
	}
	moved := cam.Pan(10, 0, testViewport)
	if moved.Center[0] <= cam.Center[0] || moved.Center[1] != cam.Center[1] {
		t.Fatalf("expected pan east, got %v", moved.Center)
	}
}
