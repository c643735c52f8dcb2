package render

import (
	"sync"

	"geoexplorer/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LabelMinZoom is the zoom from which feature names are drawn permanently
const LabelMinZoom = 11

// DefaultView is the continental US overview shown before any layer loads
var DefaultView = geo.Camera{Center: orb.Point{-98, 39}, Zoom: 4}

// View is the visible region of the surface
type View struct {
	Center orb.Point
	Zoom   float64
	Bounds orb.Bound
}

// Surface is the map drawing target: a set of styled feature layers over an
// optional basemap, viewed through a camera. It is safe for concurrent use.
type Surface struct {
	mu       sync.RWMutex
	viewport geo.Viewport
	camera   geo.Camera
	layers   []*FeatureLayer
	basemap  []*geojson.Feature
	errMsg   string

	cursor    geo.Point
	hasCursor bool
}

// NewSurface creates a surface of the given size showing DefaultView
func NewSurface(width, height int) *Surface {
	return &Surface{
		viewport: geo.Viewport{Width: width, Height: height, AspectRatio: geo.DefaultAspectRatio},
		camera:   DefaultView,
	}
}

// Resize changes the viewport while keeping the camera
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.Width = width
	s.viewport.Height = height
}

// SetAspectRatio sets the height:width ratio of a terminal cell
func (s *Surface) SetAspectRatio(ratio float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.AspectRatio = ratio
}

// Viewport returns the current viewport
func (s *Surface) Viewport() geo.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

// SetBasemap replaces the outlines drawn beneath every layer
func (s *Surface) SetBasemap(features []*geojson.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.basemap = features
}

// ClearLayers removes every feature layer and any error message
func (s *Surface) ClearLayers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = nil
	s.errMsg = ""
}

// AddFeature adds a feature on top of the existing layers
func (s *Surface) AddFeature(f *geojson.Feature, style PathStyle, tooltip string) *FeatureLayer {
	l := newFeatureLayer(f, style, tooltip)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = append(s.layers, l)
	return l
}

// EachLayer calls fn for every layer in draw order. fn may restyle the
// layer but must not call back into the surface.
func (s *Surface) EachLayer(fn func(*FeatureLayer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.layers {
		fn(l)
	}
}

// Layers returns a snapshot of the layers in draw order
func (s *Surface) Layers() []*FeatureLayer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*FeatureLayer(nil), s.layers...)
}

// Bounds returns the union of all layer bounds
func (s *Surface) Bounds() (orb.Bound, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		out orb.Bound
		ok  bool
	)
	for _, l := range s.layers {
		b, valid := l.Bounds()
		if !valid {
			continue
		}
		if !ok {
			out, ok = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, ok
}

// FitBounds moves the camera so b fits the viewport
func (s *Surface) FitBounds(b orb.Bound, opts geo.FitOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cam, err := geo.FitBounds(b, s.viewport, opts)
	if err != nil {
		return err
	}
	s.camera = cam
	return nil
}

// SetView moves the camera to center at zoom
func (s *Surface) SetView(center orb.Point, zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = geo.Camera{Center: center, Zoom: zoom}.ZoomBy(0)
}

// View returns the current camera and visible bounds
func (s *Surface) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		Center: s.camera.Center,
		Zoom:   s.camera.Zoom,
		Bounds: geo.NewProjection(s.camera, s.viewport).Bounds(),
	}
}

// ZoomBy zooms the camera in (positive) or out
func (s *Surface) ZoomBy(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = s.camera.ZoomBy(delta)
}

// Pan moves the camera by a number of cells
func (s *Surface) Pan(dx, dy int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = s.camera.Pan(dx, dy, s.viewport)
}

// ShowError displays msg over the map until the next ClearLayers
func (s *Surface) ShowError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}

// ErrorMessage returns the message shown by ShowError
func (s *Surface) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// SetCursor places the hover cursor at a surface cell
func (s *Surface) SetCursor(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = geo.Point{X: x, Y: y}
	s.hasCursor = true
}

// ClearCursor hides the hover cursor
func (s *Surface) ClearCursor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasCursor = false
}

// LayerAt returns the topmost layer under a surface cell
func (s *Surface) LayerAt(x, y int) (*FeatureLayer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layerAt(geo.NewProjection(s.camera, s.viewport), x, y)
}

func (s *Surface) layerAt(proj *geo.Projection, x, y int) (*FeatureLayer, bool) {
	pt := proj.Unproject(x, y)
	// half a cell, so point features can be hovered
	tol := 0.5 / geo.ColsPerDegree(s.camera.Zoom)
	for i := len(s.layers) - 1; i >= 0; i-- {
		if s.layers[i].Contains(pt, tol) {
			return s.layers[i], true
		}
	}
	return nil, false
}

// Tooltip returns the tooltip of the layer under the hover cursor
func (s *Surface) Tooltip() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasCursor {
		return ""
	}
	l, ok := s.layerAt(geo.NewProjection(s.camera, s.viewport), s.cursor.X, s.cursor.Y)
	if !ok {
		return ""
	}
	return l.Tooltip
}
