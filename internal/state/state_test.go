package state

import (
	"testing"

	"geoexplorer/internal/config"
	"geoexplorer/internal/geo"
)

func registry(t *testing.T) *config.Registry {
	t.Helper()
	reg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestSelectView_keepsMatchingLayer(t *testing.T) {
	reg := registry(t)
	s := New()
	s.SelectView("us-counties", reg)
	s.SelectLayer("minnesota")
	s.SelectFeature("053")
	s.SelectCounty("Hennepin")
	s.SelectSubdistrict("59A")

	if kept := s.SelectView("us-congress", reg); !kept {
		t.Fatalf("expected minnesota to carry over to congressional districts")
	}
	got := s.Snapshot()
	want := Selection{View: "us-congress", Layer: "minnesota"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestSelectView_dropsUnknownLayer(t *testing.T) {
	reg := registry(t)
	s := New()
	s.SelectView("us-states", reg)
	s.SelectLayer("texas")

	if kept := s.SelectView("mn-precincts", reg); kept {
		t.Fatalf("expected texas to be dropped for the precinct view")
	}
	if got := s.Snapshot().Layer; got != "" {
		t.Fatalf("expected no layer, got %q", got)
	}
}

func TestSelectLayer_resetsDependents(t *testing.T) {
	s := New()
	s.SelectFeature("a")
	s.SelectCounty("Ramsey")
	s.SelectSubdistrict("64A")
	s.SelectLayer("iowa")

	got := s.Snapshot()
	if got.Feature != "" || got.County != "" || got.Subdistrict != "" {
		t.Fatalf("expected dependents cleared, got %+v", got)
	}
}

func TestSelectCounty_resetsSubdistrict(t *testing.T) {
	s := New()
	s.SelectCounty("Ramsey")
	s.SelectSubdistrict("64A")
	s.SelectCounty("Hennepin")
	if got := s.Snapshot(); got.County != "Hennepin" || got.Subdistrict != "" {
		t.Fatalf("expected sub-district cleared, got %+v", got)
	}
}

func TestLayerConfig(t *testing.T) {
	reg := registry(t)
	s := New()
	if _, ok := s.LayerConfig(reg); ok {
		t.Fatalf("expected no config without a selection")
	}
	s.SelectView("mn-precincts", reg)
	s.SelectLayer("minnesota")
	cfg, ok := s.LayerConfig(reg)
	if !ok || cfg.IDProperty != "PrecinctID" {
		t.Fatalf("expected precinct config, got %+v", cfg)
	}
}

func TestFeatureStore(t *testing.T) {
	store := NewFeatureStore()
	store.Set("minnesota", []geo.FeatureSummary{{ID: "27", Name: "Minnesota"}})
	if store.Has("minnesota") || len(store.Get("minnesota")) != 0 {
		t.Fatalf("expected single-feature layer stored empty")
	}

	in := []geo.FeatureSummary{{ID: "1", Name: "District 1"}, {ID: "2", Name: "District 2"}}
	store.Set("iowa", in)
	in[0].Name = "changed"
	got := store.Get("iowa")
	if len(got) != 2 || got[0].Name != "District 1" {
		t.Fatalf("expected a stored copy, got %v", got)
	}
	if store.Get("unknown") == nil {
		t.Fatalf("expected Get to return an empty slice, not nil")
	}
}

func TestSelection_StoreKey(t *testing.T) {
	if got := (Selection{View: "us-counties"}).StoreKey(); got != "" {
		t.Fatalf("expected empty key without a layer, got %q", got)
	}
	a := Selection{View: "us-counties", Layer: "minnesota"}.StoreKey()
	b := Selection{View: "mn-precincts", Layer: "minnesota"}.StoreKey()
	if a == b {
		t.Fatalf("expected views to separate keys, both %q", a)
	}
}
