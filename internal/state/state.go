package state

import (
	"sync"

	"geoexplorer/internal/config"
)

// Selection is a copy of the five dropdown selections. Empty means none.
type Selection struct {
	View        string
	Layer       string
	Feature     string
	County      string
	Subdistrict string
}

// StoreKey identifies the selected layer in a FeatureStore. Layer keys repeat
// across views, so the view is part of the key.
func (s Selection) StoreKey() string {
	if s.Layer == "" {
		return ""
	}
	return s.View + "/" + s.Layer
}

// AppState is the shared record of what the user has selected. Changing the
// view or layer clears the selections that belonged to the old dataset.
type AppState struct {
	mu  sync.RWMutex
	sel Selection
}

// New returns an empty state
func New() *AppState {
	return &AppState{}
}

// Snapshot returns the current selections
func (s *AppState) Snapshot() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel
}

// SelectView switches dataset family. The feature, county and sub-district
// are cleared; the layer is kept only when the new view offers the same key.
// It reports whether the layer survived.
func (s *AppState) SelectView(view string, reg *config.Registry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sel.View = view
	s.sel.Feature = ""
	s.sel.County = ""
	s.sel.Subdistrict = ""

	if s.sel.Layer != "" && reg != nil && reg.HasLayer(view, s.sel.Layer) {
		return true
	}
	s.sel.Layer = ""
	return false
}

// SelectLayer switches layer within the current view and clears the
// feature, county and sub-district
func (s *AppState) SelectLayer(layer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sel.Layer = layer
	s.sel.Feature = ""
	s.sel.County = ""
	s.sel.Subdistrict = ""
}

// SelectFeature records the highlighted feature id
func (s *AppState) SelectFeature(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Feature = id
}

// SelectCounty records the county filter and clears the sub-district
func (s *AppState) SelectCounty(county string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.County = county
	s.sel.Subdistrict = ""
}

// SelectSubdistrict records the sub-district filter
func (s *AppState) SelectSubdistrict(sub string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Subdistrict = sub
}

// LayerConfig resolves the selected (view, layer) pair
func (s *AppState) LayerConfig(reg *config.Registry) (config.LayerConfig, bool) {
	sel := s.Snapshot()
	if sel.View == "" || sel.Layer == "" || reg == nil {
		return config.LayerConfig{}, false
	}
	return reg.Layer(sel.View, sel.Layer)
}
