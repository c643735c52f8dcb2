package state

import (
	"sync"

	"geoexplorer/internal/geo"
)

// FeatureStore keeps the feature summaries offered for each layer key
type FeatureStore struct {
	mu       sync.RWMutex
	features map[string][]geo.FeatureSummary
}

// NewFeatureStore returns an empty store
func NewFeatureStore() *FeatureStore {
	return &FeatureStore{features: make(map[string][]geo.FeatureSummary)}
}

// Set stores the summaries of a layer. A layer with a single feature has
// nothing to choose between, so it is stored empty.
func (s *FeatureStore) Set(layer string, features []geo.FeatureSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(features) > 1 {
		s.features[layer] = append([]geo.FeatureSummary(nil), features...)
		return
	}
	s.features[layer] = []geo.FeatureSummary{}
}

// Get returns the summaries stored for a layer
func (s *FeatureStore) Get(layer string) []geo.FeatureSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.features[layer]
	out := make([]geo.FeatureSummary, len(stored))
	copy(out, stored)
	return out
}

// Has reports whether a layer has more than one feature to choose from
func (s *FeatureStore) Has(layer string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.features[layer]) > 0
}
