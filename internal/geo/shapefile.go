package geo

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Basemap layers, drawn beneath the loaded dataset
const (
	BasemapStates    = "ne_50m_admin_1_states_provinces.shp"
	BasemapCoastline = "ne_50m_coastline.shp"
)

// LoadShapefile reads an ESRI shapefile into a GeoJSON feature collection.
// Attribute columns become feature properties.
func LoadShapefile(path string) (*geojson.FeatureCollection, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer shape.Close()

	fields := shape.Fields()
	names := make([]string, len(fields))
	for i, field := range fields {
		// field names are NUL padded byte arrays
		names[i] = strings.TrimRight(string(field.Name[:]), "\x00 ")
	}

	fc := geojson.NewFeatureCollection()
	for shape.Next() {
		n, p := shape.Shape()

		geom := shapeGeometry(p)
		if geom == nil {
			continue
		}

		f := geojson.NewFeature(geom)
		for i, name := range names {
			if name == "" {
				continue
			}
			if attr := strings.TrimSpace(shape.ReadAttribute(n, i)); attr != "" {
				f.Properties[name] = attr
			}
		}
		fc.Append(f)
	}

	return fc, nil
}

func shapeGeometry(p shp.Shape) orb.Geometry {
	switch geom := p.(type) {
	case *shp.Point:
		return orb.Point{geom.X, geom.Y}

	case *shp.PolyLine:
		var mls orb.MultiLineString
		for _, part := range splitParts(geom.Parts, geom.Points) {
			if len(part) > 1 {
				mls = append(mls, orb.LineString(part))
			}
		}
		if len(mls) == 0 {
			return nil
		}
		return mls

	case *shp.Polygon:
		// outer rings are clockwise, holes follow their outer ring
		var mp orb.MultiPolygon
		for _, part := range splitParts(geom.Parts, geom.Points) {
			if len(part) < 4 {
				continue
			}
			ring := orb.Ring(part)
			if ring.Orientation() == orb.CW || len(mp) == 0 {
				mp = append(mp, orb.Polygon{ring})
				continue
			}
			last := len(mp) - 1
			mp[last] = append(mp[last], ring)
		}
		if len(mp) == 0 {
			return nil
		}
		return mp
	}

	return nil
}

func splitParts(parts []int32, points []shp.Point) [][]orb.Point {
	out := make([][]orb.Point, 0, len(parts))
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || end > int32(len(points)) || start >= end {
			continue
		}
		part := make([]orb.Point, 0, end-start)
		for _, pt := range points[start:end] {
			part = append(part, orb.Point{pt.X, pt.Y})
		}
		out = append(out, part)
	}
	return out
}

// LoadBasemap loads the outline shapefiles found in dataDir. Missing files are
// skipped; the returned error lists what could not be read.
func LoadBasemap(dataDir string) ([]*geojson.Feature, error) {
	var (
		features []*geojson.Feature
		failed   []string
	)
	for _, name := range []string{BasemapCoastline, BasemapStates} {
		fc, err := LoadShapefile(filepath.Join(dataDir, name))
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		features = append(features, fc.Features...)
	}

	if len(failed) > 0 {
		return features, fmt.Errorf("basemap incomplete: %s", strings.Join(failed, "; "))
	}
	return features, nil
}
