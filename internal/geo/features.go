package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureSummary is the {id, name} pair shown in feature pickers
type FeatureSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Summarize deduplicates features by idProp, keeping the first-seen
// {id, name} pair for each unique id in input order
func Summarize(features []*geojson.Feature, idProp, nameProp string) []FeatureSummary {
	seen := make(map[string]struct{}, len(features))
	summaries := make([]FeatureSummary, 0, len(features))

	for _, f := range features {
		if f == nil {
			continue
		}
		id := PropertyString(f.Properties, idProp)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		summaries = append(summaries, FeatureSummary{
			ID:   id,
			Name: PropertyString(f.Properties, nameProp),
		})
	}

	return summaries
}

// PropertyString renders a property value as text. Absent and null values
// come back as the empty string; numbers use their shortest form.
func PropertyString(props geojson.Properties, key string) string {
	if props == nil {
		return ""
	}
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// LooseEqual compares a property value with an id the way a dropdown value
// would be compared: numeric properties match any string that parses to the
// same number, strings must match exactly
func LooseEqual(v any, id string) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		// "07" and "7" are both strings and stay distinct
		return x == id
	case float64, float32, int, int64:
		n, err := strconv.ParseFloat(strings.TrimSpace(id), 64)
		if err != nil {
			return false
		}
		f, err := strconv.ParseFloat(PropertyString(geojson.Properties{"v": x}, "v"), 64)
		return err == nil && f == n
	default:
		return fmt.Sprint(x) == id
	}
}

// FeatureBound returns the bounding box of a feature's geometry
func FeatureBound(f *geojson.Feature) (orb.Bound, bool) {
	if f == nil || f.Geometry == nil {
		return orb.Bound{}, false
	}
	b := f.Geometry.Bound()
	return b, ValidBound(b)
}

// BoundOf returns the union of the bounds of the given features
func BoundOf(features []*geojson.Feature) (orb.Bound, bool) {
	var (
		out orb.Bound
		ok  bool
	)
	for _, f := range features {
		b, valid := FeatureBound(f)
		if !valid {
			continue
		}
		if !ok {
			out, ok = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, ok
}
