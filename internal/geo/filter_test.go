package geo

import (
	"testing"

	"github.com/paulmach/orb/geojson"
)

func precinctFilter(county, sub string) FilterOptions {
	return FilterOptions{
		County:              county,
		Subdistrict:         sub,
		CountyProperty:      "County",
		SubdistrictProperty: "MNLegDist",
	}
}

func ids(features []*geojson.Feature) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		out = append(out, PropertyString(f.Properties, "PrecinctID"))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter_noConstraintsReturnsEverything(t *testing.T) {
	in := precincts()
	got := FilterByCountyAndSubdistrict(in, precinctFilter("", ""))
	if len(got) != len(in) {
		t.Fatalf("expected %d features, got %d", len(in), len(got))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Fatalf("expected feature %d to be passed through in order", i)
		}
	}
	got[0] = nil
	if in[0] == nil {
		t.Fatalf("expected a fresh slice, input was modified")
	}
}

func TestFilter_countyIsCaseInsensitiveAndTrimmed(t *testing.T) {
	got := ids(FilterByCountyAndSubdistrict(precincts(), precinctFilter("HENNEPIN ", "")))
	if want := []string{"1", "2", "4"}; !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	got = ids(FilterByCountyAndSubdistrict(precincts(), precinctFilter("ramsey", "")))
	if want := []string{"3"}; !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFilter_bothConstraintsAreConjunctive(t *testing.T) {
	got := ids(FilterByCountyAndSubdistrict(precincts(), precinctFilter("Hennepin", "10b")))
	if want := []string{"1", "4"}; !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFilter_subdistrictOnly(t *testing.T) {
	got := ids(FilterByCountyAndSubdistrict(precincts(), precinctFilter("", "64A")))
	if want := []string{"3"}; !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFilter_missingPropertyNeverMatches(t *testing.T) {
	got := FilterByCountyAndSubdistrict(precincts(), precinctFilter("Nowhere", ""))
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
}

func TestFilter_caseSensitive(t *testing.T) {
	opts := precinctFilter("hennepin", "")
	opts.CaseSensitive = true
	got := ids(FilterByCountyAndSubdistrict(precincts(), opts))
	if want := []string{"4"}; !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFilter_numericPropertyValues(t *testing.T) {
	in := []*geojson.Feature{
		square(0, 0, 1, geojson.Properties{"county": float64(27), "subdistrict": 3}),
		square(1, 0, 1, geojson.Properties{"county": float64(53)}),
	}
	got := FilterByCountyAndSubdistrict(in, FilterOptions{
		County: "27", CountyProperty: "county", SubdistrictProperty: "subdistrict",
	})
	if len(got) != 1 || got[0] != in[0] {
		t.Fatalf("expected only the first feature, got %d", len(got))
	}
}

func TestFilter_nilInput(t *testing.T) {
	got := FilterByCountyAndSubdistrict(nil, precinctFilter("x", "y"))
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice")
	}
	if (FilterOptions{County: "  "}).Active() {
		t.Fatalf("expected whitespace county to be inactive")
	}
}
