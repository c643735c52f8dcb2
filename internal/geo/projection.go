package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// WorldCells is the number of columns spanning 360 degrees of longitude at zoom 0
const WorldCells = 32

// DefaultAspectRatio is the typical height/width ratio of a terminal cell
const DefaultAspectRatio = 2.0

// Point represents a screen coordinate
type Point struct {
	X int
	Y int
}

// ColsPerDegree is the number of columns per degree of longitude at zoom z
func ColsPerDegree(z float64) float64 {
	return WorldCells * math.Pow(2, z) / 360.0
}

// RowsPerDegree is the number of rows per degree of latitude at zoom z near lat.
// Latitude is stretched by 1/cos(lat) so shapes keep their proportions.
func RowsPerDegree(z, lat float64, aspect float64) float64 {
	c := math.Cos(lat * math.Pi / 180.0)
	if c < 0.1 {
		c = 0.1
	}
	return ColsPerDegree(z) / c / aspect
}

// Projection handles conversion from lon/lat to screen cells for one camera
type Projection struct {
	camera Camera
	width  int
	height int
	scaleX float64
	scaleY float64
}

// NewProjection creates a local equirectangular projection centered on the camera
func NewProjection(camera Camera, vp Viewport) *Projection {
	return &Projection{
		camera: camera,
		width:  vp.Width,
		height: vp.Height,
		scaleX: ColsPerDegree(camera.Zoom),
		scaleY: RowsPerDegree(camera.Zoom, camera.Center[1], vp.aspect()),
	}
}

// Project converts a lon/lat point to screen coordinates with (0, 0) at top-left
func (p *Projection) Project(pt orb.Point) Point {
	dx := (pt[0] - p.camera.Center[0]) * p.scaleX
	dy := -(pt[1] - p.camera.Center[1]) * p.scaleY // screen Y grows downward

	return Point{
		X: int(math.Round(dx)) + p.width/2,
		Y: int(math.Round(dy)) + p.height/2,
	}
}

// Unproject converts screen coordinates back to lon/lat
func (p *Projection) Unproject(x, y int) orb.Point {
	x -= p.width / 2
	y -= p.height / 2

	return orb.Point{
		p.camera.Center[0] + float64(x)/p.scaleX,
		p.camera.Center[1] - float64(y)/p.scaleY,
	}
}

// Bounds returns the geographic bounds visible on screen
func (p *Projection) Bounds() orb.Bound {
	tl := p.Unproject(0, 0)
	br := p.Unproject(p.width-1, p.height-1)
	return orb.MultiPoint{tl, br}.Bound()
}

// InView reports whether a screen point lies on the surface
func (p *Projection) InView(pt Point) bool {
	return pt.X >= 0 && pt.X < p.width && pt.Y >= 0 && pt.Y < p.height
}

// Camera returns the camera the projection was built from
func (p *Projection) Camera() Camera {
	return p.camera
}
