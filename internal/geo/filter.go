package geo

import (
	"strings"

	"github.com/paulmach/orb/geojson"
)

// FilterOptions holds at most two property-equality constraints. An empty
// constraint value passes every feature through on that dimension.
type FilterOptions struct {
	County              string
	Subdistrict         string
	CountyProperty      string
	SubdistrictProperty string

	// CaseSensitive disables trimming and lower-casing before comparing
	CaseSensitive bool
}

// Active reports whether any constraint would filter
func (o FilterOptions) Active() bool {
	return o.countyActive() || o.subdistrictActive()
}

func (o FilterOptions) countyActive() bool {
	return strings.TrimSpace(o.County) != ""
}

func (o FilterOptions) subdistrictActive() bool {
	return strings.TrimSpace(o.Subdistrict) != ""
}

// FilterByCountyAndSubdistrict returns a new slice holding, in input order,
// the features that satisfy both active constraints. The input is never
// modified and a nil input yields an empty, non-nil slice.
func FilterByCountyAndSubdistrict(features []*geojson.Feature, opts FilterOptions) []*geojson.Feature {
	out := make([]*geojson.Feature, 0, len(features))

	countyOn := opts.countyActive()
	subOn := opts.subdistrictActive()

	for _, f := range features {
		if f == nil {
			continue
		}
		if countyOn && !opts.matches(f.Properties, opts.CountyProperty, opts.County) {
			continue
		}
		if subOn && !opts.matches(f.Properties, opts.SubdistrictProperty, opts.Subdistrict) {
			continue
		}
		out = append(out, f)
	}

	return out
}

func (o FilterOptions) matches(props geojson.Properties, key, want string) bool {
	if props == nil {
		return false
	}
	if v, ok := props[key]; !ok || v == nil {
		return false
	}
	got := PropertyString(props, key)
	if o.CaseSensitive {
		return got == want
	}
	return normalize(got) == normalize(want)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
