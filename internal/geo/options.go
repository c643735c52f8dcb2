package geo

import (
	"sort"
	"strings"
	"unicode"

	"github.com/paulmach/orb/geojson"
)

// Counties returns the unique, trimmed, non-empty values of countyProp
// across features, sorted alphabetically
func Counties(features []*geojson.Feature, countyProp string) []string {
	return uniqueValues(features, countyProp, func(*geojson.Feature) bool { return true }, sort.Strings)
}

// Subdistricts returns the unique values of subProp among features whose
// county matches county case-insensitively, in natural order ("2A" before "10B").
// An empty county yields subdistricts across every feature.
func Subdistricts(features []*geojson.Feature, county, countyProp, subProp string) []string {
	want := normalize(county)
	keep := func(f *geojson.Feature) bool {
		if want == "" {
			return true
		}
		return normalize(PropertyString(f.Properties, countyProp)) == want
	}
	return uniqueValues(features, subProp, keep, func(s []string) {
		sort.SliceStable(s, func(i, j int) bool { return NaturalLess(s[i], s[j]) })
	})
}

func uniqueValues(features []*geojson.Feature, prop string, keep func(*geojson.Feature) bool, order func([]string)) []string {
	set := make(map[string]struct{})
	values := make([]string, 0)
	for _, f := range features {
		if f == nil || !keep(f) {
			continue
		}
		v := strings.TrimSpace(PropertyString(f.Properties, prop))
		if v == "" {
			continue
		}
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		values = append(values, v)
	}
	order(values)
	return values
}

// NaturalLess compares strings treating digit runs as numbers
func NaturalLess(a, b string) bool {
	ar, br := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ar) && j < len(br) {
		if unicode.IsDigit(ar[i]) && unicode.IsDigit(br[j]) {
			si := i
			for i < len(ar) && unicode.IsDigit(ar[i]) {
				i++
			}
			sj := j
			for j < len(br) && unicode.IsDigit(br[j]) {
				j++
			}
			na := strings.TrimLeft(string(ar[si:i]), "0")
			nb := strings.TrimLeft(string(br[sj:j]), "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			continue
		}
		ca, cb := unicode.ToLower(ar[i]), unicode.ToLower(br[j])
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(ar)-i < len(br)-j
}
