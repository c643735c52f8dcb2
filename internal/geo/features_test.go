package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestSummarize_dedupKeepsFirstSeen(t *testing.T) {
	in := []*geojson.Feature{
		square(0, 0, 1, geojson.Properties{"GEOID": "a", "NAME": "Alpha"}),
		square(1, 0, 1, geojson.Properties{"GEOID": "a", "NAME": "Alpha Part 2"}),
		nil,
		square(2, 0, 1, geojson.Properties{"GEOID": "b", "NAME": "Beta"}),
	}

	got := Summarize(in, "GEOID", "NAME")
	want := []FeatureSummary{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Beta"}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v at %d, got %v", want[i], i, got[i])
		}
	}
}

func TestSummarize_missingProperties(t *testing.T) {
	got := Summarize([]*geojson.Feature{square(0, 0, 1, nil)}, "GEOID", "NAME")
	if len(got) != 1 || got[0].ID != "" || got[0].Name != "" {
		t.Fatalf("expected a single empty summary, got %v", got)
	}
}

func TestPropertyString(t *testing.T) {
	props := geojson.Properties{
		"s":   "07",
		"f":   float64(27),
		"fr":  1.5,
		"i":   12,
		"b":   true,
		"nil": nil,
	}
	cases := map[string]string{"s": "07", "f": "27", "fr": "1.5", "i": "12", "b": "true", "nil": "", "absent": ""}
	for key, want := range cases {
		if got := PropertyString(props, key); got != want {
			t.Fatalf("expected %q for %s, got %q", want, key, got)
		}
	}
	if PropertyString(nil, "s") != "" {
		t.Fatalf("expected empty string for nil properties")
	}
}

func TestLooseEqual(t *testing.T) {
	cases := []struct {
		v    any
		id   string
		want bool
	}{
		{"27", "27", true},
		{"07", "7", false},
		{float64(27), "27", true},
		{float64(27), "27.0", true},
		{27, "27", true},
		{float64(27), "x", false},
		{nil, "", false},
		{true, "true", true},
	}
	for _, tc := range cases {
		if got := LooseEqual(tc.v, tc.id); got != tc.want {
			t.Fatalf("LooseEqual(%v, %q) = %v, want %v", tc.v, tc.id, got, tc.want)
		}
	}
}

func TestBoundOf(t *testing.T) {
	b, ok := BoundOf(precincts())
	if !ok {
		t.Fatalf("expected a bound")
	}
	want := orb.Bound{Min: orb.Point{-94, 43}, Max: orb.Point{-89.9, 45.1}}
	for i, v := range []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]} {
		w := []float64{want.Min[0], want.Min[1], want.Max[0], want.Max[1]}[i]
		if math.Abs(v-w) > 1e-9 {
			t.Fatalf("expected %v, got %v", want, b)
		}
	}

	if _, ok := BoundOf(nil); ok {
		t.Fatalf("expected no bound for empty input")
	}
	if _, ok := BoundOf([]*geojson.Feature{{Type: "Feature"}}); ok {
		t.Fatalf("expected no bound for a feature without geometry")
	}
}
