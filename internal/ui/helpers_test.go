package ui

import (
	"context"
	"strings"
	"testing"

	"geoexplorer/internal/config"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func newScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("failed to init simulation screen: %v", err)
	}
	s.SetSize(width, height)
	t.Cleanup(s.Fini)
	return s
}

// rowText reads one screen row back as a string
func rowText(s tcell.Screen, y, x0, x1 int) string {
	var b strings.Builder
	for x := x0; x < x1; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func screenText(s tcell.Screen) string {
	w, h := s.Size()
	rows := make([]string, 0, h)
	for y := 0; y < h; y++ {
		rows = append(rows, rowText(s, y, 0, w))
	}
	return strings.Join(rows, "\n")
}

func registry(t *testing.T) *config.Registry {
	t.Helper()
	reg, err := config.Default()
	if err != nil {
		t.Fatalf("failed to load registry: %v", err)
	}
	return reg
}

func precinct(id, county, leg string, x, y float64) *geojson.Feature {
	f := geojson.NewFeature(orb.Polygon{{
		{x, y}, {x + 0.1, y}, {x + 0.1, y + 0.1}, {x, y + 0.1}, {x, y},
	}})
	f.Properties["PrecinctID"] = id
	f.Properties["precinct_name"] = "Precinct " + id
	f.Properties["County"] = county
	f.Properties["MNLegDist"] = leg
	return f
}

func precincts() []*geojson.Feature {
	return []*geojson.Feature{
		precinct("P1", "Ramsey", "64A", -93.2, 44.9),
		precinct("P2", "Ramsey", "66B", -93.1, 44.9),
		precinct("P3", "Hennepin", "61A", -93.3, 44.9),
		precinct("P4", "Hennepin", "10B", -93.4, 44.9),
	}
}

type stubFetcher struct {
	features []*geojson.Feature
}

func (s stubFetcher) Fetch(ctx context.Context, url string) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	fc.Features = append(fc.Features, s.features...)
	return fc, ctx.Err()
}
