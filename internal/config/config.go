package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default filter property names used when a group does not name its own
const (
	DefaultCountyProperty      = "county"
	DefaultSubdistrictProperty = "subdistrict"
)

//go:embed default.yaml
var defaultRegistry []byte

// LayerType selects how the map camera treats a layer once it is loaded
type LayerType string

const (
	LayerTypeState     LayerType = "state"
	LayerTypeCounties  LayerType = "counties"
	LayerTypeCDs       LayerType = "cds"
	LayerTypePrecincts LayerType = "precincts"
)

// IsStateLevel reports whether the layer outlines a whole state
func (t LayerType) IsStateLevel() bool {
	return t == LayerTypeState
}

// IsSubdivision reports whether the layer subdivides a state
func (t LayerType) IsSubdivision() bool {
	switch t {
	case LayerTypeCounties, LayerTypeCDs, LayerTypePrecincts:
		return true
	default:
		return false
	}
}

// Style is the base appearance hint for a layer
type Style struct {
	Color string `yaml:"color"`
}

// LayerConfig describes one loadable GeoJSON dataset
type LayerConfig struct {
	Key                       string
	Label                     string
	URL                       string
	IDProperty                string
	NameProperty              string
	FilterCountyProperty      string
	FilterSubdistrictProperty string
	Type                      LayerType
	Style                     Style
	MinZoom                   float64
	MaxZoom                   float64
}

// WithDefaults returns a copy with the filter property names filled in
func (c LayerConfig) WithDefaults() LayerConfig {
	if c.FilterCountyProperty == "" {
		c.FilterCountyProperty = DefaultCountyProperty
	}
	if c.FilterSubdistrictProperty == "" {
		c.FilterSubdistrictProperty = DefaultSubdistrictProperty
	}
	return c
}

// Group is one dataset family (a "view"), e.g. all US congressional districts
type Group struct {
	Key                       string                 `yaml:"key"`
	Label                     string                 `yaml:"label"`
	Type                      LayerType              `yaml:"type"`
	Style                     Style                  `yaml:"style"`
	URLTemplate               string                 `yaml:"url_template"`
	IDProperty                string                 `yaml:"id_property"`
	NameProperty              string                 `yaml:"name_property"`
	FilterCountyProperty      string                 `yaml:"filter_county_property"`
	FilterSubdistrictProperty string                 `yaml:"filter_subdistrict_property"`
	MinZoom                   float64                `yaml:"min_zoom"`
	MaxZoom                   float64                `yaml:"max_zoom"`
	Layers                    map[string]LayerConfig `yaml:"-"`
	Entries                   []LayerEntry           `yaml:"layers"`
}

// LayerEntry is an explicitly listed layer of a group
type LayerEntry struct {
	Key     string  `yaml:"key"`
	Label   string  `yaml:"label"`
	URL     string  `yaml:"url"`
	MinZoom float64 `yaml:"min_zoom"`
	MaxZoom float64 `yaml:"max_zoom"`
}

// Registry holds every group keyed by view, in configuration order
type Registry struct {
	Groups map[string]*Group
	Order  []string
}

type document struct {
	Groups []*Group `yaml:"groups"`
}

// Default returns the built-in registry
func Default() (*Registry, error) {
	return Parse(strings.NewReader(string(defaultRegistry)))
}

// LoadFile reads a registry from a YAML file
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a YAML registry, validates the schema mapping of every group
// and generates per-state layers for groups that use a URL template
func Parse(r io.Reader) (*Registry, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode registry: %w", err)
	}

	reg := &Registry{Groups: make(map[string]*Group)}
	var errs []error
	for _, g := range doc.Groups {
		if err := g.validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := reg.Groups[g.Key]; dup {
			errs = append(errs, fmt.Errorf("group %q: defined twice", g.Key))
			continue
		}
		g.build()
		reg.Groups[g.Key] = g
		reg.Order = append(reg.Order, g.Key)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if len(reg.Order) == 0 {
		return nil, errors.New("registry has no groups")
	}

	return reg, nil
}

func (g *Group) validate() error {
	var missing []string
	if g.Key == "" {
		missing = append(missing, "key")
	}
	if g.Label == "" {
		missing = append(missing, "label")
	}
	if g.IDProperty == "" {
		missing = append(missing, "id_property")
	}
	if g.NameProperty == "" {
		missing = append(missing, "name_property")
	}
	if g.URLTemplate == "" && len(g.Entries) == 0 {
		missing = append(missing, "url_template or layers")
	}
	if len(missing) > 0 {
		return fmt.Errorf("group %q: missing %s", g.Key, strings.Join(missing, ", "))
	}
	if g.URLTemplate != "" && !strings.Contains(g.URLTemplate, "{state}") && !strings.Contains(g.URLTemplate, "{state_folder}") {
		return fmt.Errorf("group %q: url_template has no {state} or {state_folder} placeholder", g.Key)
	}
	for _, e := range g.Entries {
		if e.Key == "" {
			return fmt.Errorf("group %q: layer without key", g.Key)
		}
	}
	return nil
}

// build resolves the property mapping once so every layer carries it
func (g *Group) build() {
	g.Layers = make(map[string]LayerConfig)

	base := LayerConfig{
		IDProperty:                g.IDProperty,
		NameProperty:              g.NameProperty,
		FilterCountyProperty:      g.FilterCountyProperty,
		FilterSubdistrictProperty: g.FilterSubdistrictProperty,
		Type:                      g.Type,
		Style:                     g.Style,
		MinZoom:                   g.MinZoom,
		MaxZoom:                   g.MaxZoom,
	}
	base = base.WithDefaults()

	if g.URLTemplate != "" {
		for _, state := range StateList {
			layer := base
			layer.Key = state
			layer.Label = StateLabel(state)
			layer.URL = ExpandURL(g.URLTemplate, state)
			g.Layers[state] = layer
		}
	}

	for _, e := range g.Entries {
		layer := base
		layer.Key = e.Key
		layer.Label = e.Label
		if layer.Label == "" {
			layer.Label = StateLabel(e.Key)
		}
		layer.URL = e.URL
		if e.MinZoom > 0 {
			layer.MinZoom = e.MinZoom
		}
		if e.MaxZoom > 0 {
			layer.MaxZoom = e.MaxZoom
		}
		g.Layers[e.Key] = layer
	}
}

// Views returns group keys in configuration order
func (r *Registry) Views() []string {
	return append([]string(nil), r.Order...)
}

// Group returns the group for a view
func (r *Registry) Group(view string) (*Group, bool) {
	g, ok := r.Groups[view]
	return g, ok
}

// Layer looks up a layer by (view, layer key)
func (r *Registry) Layer(view, key string) (LayerConfig, bool) {
	g, ok := r.Groups[view]
	if !ok {
		return LayerConfig{}, false
	}
	l, ok := g.Layers[key]
	return l, ok
}

// HasLayer reports whether a view offers a layer key
func (r *Registry) HasLayer(view, key string) bool {
	_, ok := r.Layer(view, key)
	return ok
}

// LayerKeys returns the layer keys of a view sorted by label
func (r *Registry) LayerKeys(view string) []string {
	g, ok := r.Groups[view]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(g.Layers))
	for k := range g.Layers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := g.Layers[keys[i]].Label, g.Layers[keys[j]].Label
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})
	return keys
}
