package render

import (
	"math"
	"sort"

	"geoexplorer/internal/geo"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/paulmach/orb"
)

// Draw renders the basemap, every feature layer, labels, the hover tooltip
// and any error message to the canvas
func (s *Surface) Draw(c *Canvas) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c.Clear()
	vp := s.viewport
	vp.Width, vp.Height = c.Width(), c.Height()
	proj := geo.NewProjection(s.camera, vp)
	r := &mapRenderer{canvas: c, projection: proj, visible: proj.Bounds()}

	basemap := PathStyle{}
	for _, f := range s.basemap {
		if b, ok := geo.FeatureBound(f); ok && b.Intersects(r.visible) {
			r.drawGeometry(f.Geometry, basemap, '·', StyleBasemap)
		}
	}

	// fills first so outlines of neighbours stay on top
	for _, l := range s.layers {
		if l.Style.Filled() && r.layerVisible(l) {
			r.fillGeometry(l.Feature.Geometry, l.Style.Fill())
		}
	}
	for _, l := range s.layers {
		if r.layerVisible(l) {
			r.drawGeometry(l.Feature.Geometry, l.Style, 0, l.Style.Stroke())
		}
	}

	if s.camera.Zoom >= LabelMinZoom {
		r.drawLabels(s.layers)
	}

	if s.hasCursor {
		if l, ok := s.layerAt(proj, s.cursor.X, s.cursor.Y); ok && l.Tooltip != "" {
			r.drawTooltip(s.cursor, l.Tooltip)
		}
	}

	if s.errMsg != "" {
		r.drawError(s.errMsg)
	}
}

type mapRenderer struct {
	canvas     *Canvas
	projection *geo.Projection
	visible    orb.Bound
	step       int
}

func (m *mapRenderer) layerVisible(l *FeatureLayer) bool {
	b, ok := l.Bounds()
	return ok && b.Intersects(m.visible)
}

// drawGeometry outlines g. A zero char picks one from the segment slope.
func (m *mapRenderer) drawGeometry(g orb.Geometry, style PathStyle, char rune, st tcell.Style) {
	switch geom := g.(type) {
	case orb.Point:
		pt := m.projection.Project(geom)
		m.canvas.Set(pt.X, pt.Y, '●', st)
	case orb.MultiPoint:
		for _, p := range geom {
			m.drawGeometry(p, style, char, st)
		}
	case orb.LineString:
		m.drawPath([]orb.Point(geom), style, char, st)
	case orb.MultiLineString:
		for _, ls := range geom {
			m.drawPath([]orb.Point(ls), style, char, st)
		}
	case orb.Ring:
		m.drawPath([]orb.Point(geom), style, char, st)
	case orb.Polygon:
		for _, ring := range geom {
			m.drawPath([]orb.Point(ring), style, char, st)
		}
	case orb.MultiPolygon:
		for _, poly := range geom {
			m.drawGeometry(poly, style, char, st)
		}
	case orb.Collection:
		for _, sub := range geom {
			m.drawGeometry(sub, style, char, st)
		}
	}
}

func (m *mapRenderer) drawPath(points []orb.Point, style PathStyle, char rune, st tcell.Style) {
	if len(points) < 2 {
		return
	}
	on, off := style.Dash()
	m.step = 0

	prev := m.projection.Project(points[0])
	for _, p := range points[1:] {
		next := m.projection.Project(p)
		if prev == next {
			continue
		}
		ch := char
		if ch == 0 {
			ch = lineChar(prev, next, style.Weight)
		}
		if a, b, ok := m.clip(prev, next); ok {
			m.drawLine(a, b, ch, st, on, off)
		}
		prev = next
	}
}

// lineChar picks a glyph matching the direction of a segment
func lineChar(a, b geo.Point, weight int) rune {
	if weight >= 3 {
		return '█'
	}
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	angle := math.Atan2(-dy, dx*0.5) * 180 / math.Pi
	if angle < 0 {
		angle += 180
	}
	switch {
	case angle < 22.5 || angle >= 157.5:
		return '─'
	case angle < 67.5:
		return '╱'
	case angle < 112.5:
		return '│'
	default:
		return '╲'
	}
}

// drawLine implements Bresenham's line algorithm. When on is non-zero the
// line is dashed: on cells drawn, off cells skipped, carried across segments.
func (m *mapRenderer) drawLine(a, b geo.Point, char rune, style tcell.Style, on, off int) {
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

	sx := -1
	if x0 < x1 {
		sx = 1
	}

	sy := -1
	if y0 < y1 {
		sy = 1
	}

	err := dx - dy

	for {
		if on == 0 || m.step%(on+off) < on {
			m.canvas.Set(x0, y0, char, style)
		}
		m.step++

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := 2 * err

		if e2 > -dy {
			err -= dy
			x0 += sx
		}

		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

const (
	outInside = 0
	outLeft   = 1
	outRight  = 2
	outBottom = 4
	outTop    = 8
)

// clip trims a segment to the canvas (Cohen-Sutherland) so far off-screen
// segments never walk through millions of cells
func (m *mapRenderer) clip(a, b geo.Point) (geo.Point, geo.Point, bool) {
	xmin, ymin := -1.0, -1.0
	xmax, ymax := float64(m.canvas.Width()), float64(m.canvas.Height())
	x0, y0, x1, y1 := float64(a.X), float64(a.Y), float64(b.X), float64(b.Y)

	code := func(x, y float64) int {
		c := outInside
		if x < xmin {
			c |= outLeft
		} else if x > xmax {
			c |= outRight
		}
		if y < ymin {
			c |= outTop
		} else if y > ymax {
			c |= outBottom
		}
		return c
	}

	c0, c1 := code(x0, y0), code(x1, y1)
	for {
		if c0|c1 == 0 {
			break
		}
		if c0&c1 != 0 {
			return a, b, false
		}
		out := c0
		if out == 0 {
			out = c1
		}
		var x, y float64
		switch {
		case out&outTop != 0:
			x = x0 + (x1-x0)*(ymin-y0)/(y1-y0)
			y = ymin
		case out&outBottom != 0:
			x = x0 + (x1-x0)*(ymax-y0)/(y1-y0)
			y = ymax
		case out&outRight != 0:
			y = y0 + (y1-y0)*(xmax-x0)/(x1-x0)
			x = xmax
		default:
			y = y0 + (y1-y0)*(xmin-x0)/(x1-x0)
			x = xmin
		}
		if out == c0 {
			x0, y0 = x, y
			c0 = code(x0, y0)
		} else {
			x1, y1 = x, y
			c1 = code(x1, y1)
		}
	}

	return geo.Point{X: int(math.Round(x0)), Y: int(math.Round(y0))},
		geo.Point{X: int(math.Round(x1)), Y: int(math.Round(y1))}, true
}

// fillGeometry shades polygon interiors with an even-odd scanline fill
func (m *mapRenderer) fillGeometry(g orb.Geometry, st tcell.Style) {
	switch geom := g.(type) {
	case orb.Polygon:
		m.fillPolygon(geom, st)
	case orb.MultiPolygon:
		for _, poly := range geom {
			m.fillPolygon(poly, st)
		}
	case orb.Collection:
		for _, sub := range geom {
			m.fillGeometry(sub, st)
		}
	}
}

func (m *mapRenderer) fillPolygon(poly orb.Polygon, st tcell.Style) {
	type edge struct{ x0, y0, x1, y1 float64 }
	var edges []edge
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, ring := range poly {
		for i := 0; i+1 < len(ring); i++ {
			a := m.projection.Project(ring[i])
			b := m.projection.Project(ring[i+1])
			edges = append(edges, edge{float64(a.X), float64(a.Y), float64(b.X), float64(b.Y)})
			minY = math.Min(minY, math.Min(float64(a.Y), float64(b.Y)))
			maxY = math.Max(maxY, math.Max(float64(a.Y), float64(b.Y)))
		}
	}
	if len(edges) == 0 {
		return
	}

	top := int(math.Max(minY, 0))
	bottom := int(math.Min(maxY, float64(m.canvas.Height()-1)))
	xs := make([]float64, 0, 8)
	for y := top; y <= bottom; y++ {
		scan := float64(y) + 0.5
		xs = xs[:0]
		for _, e := range edges {
			if (e.y0 <= scan) == (e.y1 <= scan) {
				continue
			}
			xs = append(xs, e.x0+(scan-e.y0)*(e.x1-e.x0)/(e.y1-e.y0))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			from := int(math.Max(math.Ceil(xs[i]), 0))
			to := int(math.Min(math.Floor(xs[i+1]), float64(m.canvas.Width()-1)))
			for x := from; x <= to; x++ {
				m.canvas.SetIfBlank(x, y, '░', st)
			}
		}
	}
}

// drawLabels writes each tooltip at the center of its layer, skipping
// labels that would overlap one already drawn
func (m *mapRenderer) drawLabels(layers []*FeatureLayer) {
	taken := make(map[geo.Point]struct{})
	for _, l := range layers {
		if l.Tooltip == "" || !m.layerVisible(l) {
			continue
		}
		b, _ := l.Bounds()
		at := m.projection.Project(b.Center())
		width := runewidth.StringWidth(l.Tooltip)
		x := at.X - width/2

		free := true
		for dx := -1; dx <= width; dx++ {
			if _, used := taken[geo.Point{X: x + dx, Y: at.Y}]; used {
				free = false
				break
			}
		}
		if !free || at.Y < 0 || at.Y >= m.canvas.Height() {
			continue
		}
		m.canvas.DrawText(x, at.Y, l.Tooltip, StyleLabel)
		for dx := 0; dx < width; dx++ {
			taken[geo.Point{X: x + dx, Y: at.Y}] = struct{}{}
		}
	}
}

func (m *mapRenderer) drawTooltip(at geo.Point, text string) {
	text = " " + text + " "
	width := runewidth.StringWidth(text)
	x := at.X + 1
	if x+width > m.canvas.Width() {
		x = at.X - width
	}
	y := at.Y - 1
	if y < 0 {
		y = at.Y + 1
	}
	m.canvas.Set(at.X, at.Y, '+', StyleFocused)
	m.canvas.DrawTextClipped(max(x, 0), y, m.canvas.Width(), text, StyleTooltip)
}

func (m *mapRenderer) drawError(msg string) {
	text := " " + msg + " "
	width := min(runewidth.StringWidth(text), m.canvas.Width())
	x := (m.canvas.Width() - width) / 2
	y := m.canvas.Height() / 2
	m.canvas.DrawTextClipped(x, y, width, text, StyleError)
}

// abs returns the absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
