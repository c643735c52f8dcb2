package render

import (
	"geoexplorer/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// FeatureLayer is one feature drawn on the surface with its own style
type FeatureLayer struct {
	Feature *geojson.Feature
	Style   PathStyle
	Tooltip string

	bound orb.Bound
	ok    bool
}

func newFeatureLayer(f *geojson.Feature, style PathStyle, tooltip string) *FeatureLayer {
	l := &FeatureLayer{Feature: f, Style: style, Tooltip: tooltip}
	l.bound, l.ok = geo.FeatureBound(f)
	return l
}

// Bounds returns the bounding box of the layer's geometry
func (l *FeatureLayer) Bounds() (orb.Bound, bool) {
	return l.bound, l.ok
}

// Contains reports whether pt falls inside the layer's polygons, or within
// tolerance degrees of a point geometry
func (l *FeatureLayer) Contains(pt orb.Point, tolerance float64) bool {
	if !l.ok || !l.bound.Pad(tolerance).Contains(pt) {
		return false
	}
	return geometryContains(l.Feature.Geometry, pt, tolerance)
}

func geometryContains(g orb.Geometry, pt orb.Point, tolerance float64) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(geom, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(geom, pt)
	case orb.Point:
		return geom.Bound().Pad(tolerance).Contains(pt)
	case orb.MultiPoint:
		for _, p := range geom {
			if p.Bound().Pad(tolerance).Contains(pt) {
				return true
			}
		}
	case orb.Collection:
		for _, sub := range geom {
			if geometryContains(sub, pt, tolerance) {
				return true
			}
		}
	}
	return false
}
