package ui

import (
	"fmt"
	"sort"

	"geoexplorer/internal/geo"
	"geoexplorer/internal/render"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb/geojson"
)

// DetailView displays the properties of the selected feature
type DetailView struct {
	feature       *geojson.Feature
	title         string
	x, y          int
	width, height int
}

// NewDetailView creates a new detail view
func NewDetailView(x, y, width, height int) *DetailView {
	return &DetailView{
		x:      x,
		y:      y,
		width:  width,
		height: height,
	}
}

// SetFeature sets the feature to display
func (d *DetailView) SetFeature(f *geojson.Feature, title string) {
	d.feature = f
	d.title = title
}

// Lines returns the property lines shown for the feature, sorted by key
func (d *DetailView) Lines() []string {
	if d.feature == nil {
		return nil
	}
	keys := make([]string, 0, len(d.feature.Properties))
	width := 0
	for k := range d.feature.Properties {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys)+1)
	if d.feature.Geometry != nil {
		lines = append(lines, fmt.Sprintf("%-*s %s", width+1, "geometry:", d.feature.Geometry.GeoJSONType()))
	}
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%-*s %s", width+1, k+":", geo.PropertyString(d.feature.Properties, k)))
	}
	return lines
}

// Draw renders the detail view to the screen
func (d *DetailView) Draw(screen tcell.Screen) {
	for row := d.y + 1; row < d.y+d.height-1; row++ {
		for col := d.x + 1; col < d.x+d.width-1; col++ {
			screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}

	drawBox(screen, d.x, d.y, d.width, d.height, render.StyleLabel)

	title := " Feature Details "
	if d.title != "" {
		title = " " + d.title + " "
	}
	drawText(screen, d.x+2, d.y, d.width-4, title, render.StyleTitle)

	if d.feature == nil {
		text := "No feature selected"
		drawText(screen, d.x+(d.width-len(text))/2, d.y+d.height/2, d.width-2, text, render.StyleLabel)
		return
	}

	for i, line := range d.Lines() {
		y := d.y + 1 + i
		if y >= d.y+d.height-1 {
			break
		}
		drawText(screen, d.x+2, y, d.width-4, line, render.StyleLabel)
	}

	instructions := " Press ESC to return "
	drawText(screen, d.x+(d.width-len(instructions))/2, d.y+d.height-1, d.width-2, instructions, render.StyleLabel.Dim(true))
}

// UpdateDimensions updates the view dimensions
func (d *DetailView) UpdateDimensions(x, y, width, height int) {
	d.x = x
	d.y = y
	d.width = width
	d.height = height
}
