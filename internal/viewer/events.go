package viewer

import (
	"geoexplorer/internal/config"
	"geoexplorer/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Phase is the lifecycle state of the loaded layer
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFiltered
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFiltered:
		return "filtered"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// FeaturesLoaded is emitted once per successful load
type FeaturesLoaded struct {
	Layer       config.LayerConfig
	Features    []geo.FeatureSummary
	RawFeatures []*geojson.Feature
}

// StateView is the camera captured after fitting a state-level layer.
// Layer is the key of that state; only its subdivisions reuse the camera.
type StateView struct {
	Layer  string
	Bounds orb.Bound
	Zoom   float64
	Center orb.Point
}

// LoadOptions tunes a single LoadLayer call
type LoadOptions struct {
	SkipFitBounds bool
}

// Filter narrows a loaded precinct-style layer; empty fields pass everything
type Filter struct {
	County      string
	Subdistrict string
}

// HighlightOptions tunes HighlightFeature
type HighlightOptions struct {
	SkipZoom bool
}

// State is a point-in-time view of the controller
type State struct {
	Phase       Phase
	Layer       string
	Features    int
	Rendered    int
	Highlighted string
	Filter      Filter
	Err         error
}
