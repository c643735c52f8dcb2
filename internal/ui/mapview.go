package ui

import (
	"geoexplorer/internal/render"

	"github.com/gdamore/tcell/v2"
)

// panStep is the number of cells moved per pan key press
const panStep = 4

// MapView displays the map surface in a region of the screen
type MapView struct {
	surface *render.Surface
	canvas  *render.Canvas
	x, y    int
	width   int
	height  int

	hoverX, hoverY int
	hovering       bool
}

// NewMapView creates a map view drawing surface at (x, y)
func NewMapView(surface *render.Surface, x, y, width, height int) *MapView {
	surface.Resize(width, height)
	return &MapView{
		surface: surface,
		canvas:  render.NewCanvas(width, height),
		x:       x,
		y:       y,
		width:   width,
		height:  height,
	}
}

// Draw renders the map view to the screen
func (m *MapView) Draw(screen tcell.Screen) {
	m.surface.Draw(m.canvas)
	m.canvas.Blit(screen, m.x, m.y)
}

// UpdateDimensions updates the view dimensions when the screen is resized
func (m *MapView) UpdateDimensions(x, y, width, height int) {
	m.x = x
	m.y = y
	m.width = width
	m.height = height

	m.surface.Resize(width, height)
	m.canvas = render.NewCanvas(width, height)
}

// Contains reports whether a screen cell is on the map
func (m *MapView) Contains(x, y int) bool {
	return x >= m.x && x < m.x+m.width && y >= m.y && y < m.y+m.height
}

// Hover moves the tooltip cursor to a screen cell, hiding it off the map
func (m *MapView) Hover(x, y int) {
	if !m.Contains(x, y) {
		m.hovering = false
		m.surface.ClearCursor()
		return
	}
	m.hoverX, m.hoverY, m.hovering = x-m.x, y-m.y, true
	m.surface.SetCursor(m.hoverX, m.hoverY)
}

// Hovered returns the feature under the mouse cursor
func (m *MapView) Hovered() (*render.FeatureLayer, bool) {
	if !m.hovering {
		return nil, false
	}
	return m.surface.LayerAt(m.hoverX, m.hoverY)
}

// ZoomIn zooms in one level
func (m *MapView) ZoomIn() {
	m.surface.ZoomBy(1)
}

// ZoomOut zooms out one level
func (m *MapView) ZoomOut() {
	m.surface.ZoomBy(-1)
}

// Pan moves the map by whole steps in each direction
func (m *MapView) Pan(dx, dy int) {
	m.surface.Pan(dx*panStep*2, dy*panStep)
}
