package viewer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"geoexplorer/internal/config"
	"geoexplorer/internal/geo"
	"geoexplorer/internal/metrics"
	"geoexplorer/internal/render"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
)

// Camera defaults, padding in cells
const (
	stateMinZoom       = 4
	stateMaxZoom       = 7
	subdivisionMinZoom = 4
	filterMaxZoom      = 10
	highlightMaxZoom   = 8
	fitPadding         = 2
	highlightPadding   = 1
)

// Surface is the map the controller draws on
type Surface interface {
	ClearLayers()
	AddFeature(f *geojson.Feature, style render.PathStyle, tooltip string) *render.FeatureLayer
	EachLayer(fn func(*render.FeatureLayer))
	Bounds() (orb.Bound, bool)
	FitBounds(b orb.Bound, opts geo.FitOptions) error
	SetView(center orb.Point, zoom float64)
	View() render.View
	ShowError(msg string)
}

// Fetcher resolves a layer URL to a parsed feature collection
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*geojson.FeatureCollection, error)
}

// Controller owns the rendered layer: it loads, filters and highlights
// features on a Surface and keeps the camera steady between a state and
// its subdivisions. Methods are safe to call from multiple goroutines.
type Controller struct {
	mu      sync.Mutex
	surface Surface
	fetcher Fetcher
	log     zerolog.Logger
	metrics *metrics.Metrics

	config     config.LayerConfig
	collection *geojson.FeatureCollection
	raw        []*geojson.Feature
	summaries  []geo.FeatureSummary
	stateView  *StateView

	highlighted string
	filter      Filter
	phase       Phase
	lastErr     error
	token       uint64

	listeners map[int]func(FeaturesLoaded)
	nextID    int
}

// New creates a controller. It draws nothing until Attach is called.
func New(fetcher Fetcher, log zerolog.Logger, m *metrics.Metrics) *Controller {
	return &Controller{
		fetcher:   fetcher,
		log:       log,
		metrics:   m,
		listeners: make(map[int]func(FeaturesLoaded)),
	}
}

// Attach binds the controller to a surface and shows the default view
func (c *Controller) Attach(s Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.surface = s
	s.SetView(render.DefaultView.Center, render.DefaultView.Zoom)
	c.log.Debug().Float64("zoom", render.DefaultView.Zoom).Msg("map attached")
}

// Subscribe registers fn for FeaturesLoaded notifications. fn runs on the
// loading goroutine after the controller lock is released.
func (c *Controller) Subscribe(fn func(FeaturesLoaded)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// LoadLayer clears the map, fetches cfg.URL and renders every feature.
// Failures are shown on the surface and returned. A response that arrives
// after a newer LoadLayer started is dropped with ErrSuperseded.
func (c *Controller) LoadLayer(ctx context.Context, cfg config.LayerConfig, opts LoadOptions) error {
	c.mu.Lock()
	if c.surface == nil {
		c.mu.Unlock()
		return ErrNotAttached
	}

	c.token++
	token := c.token
	cfg = cfg.WithDefaults()

	c.surface.ClearLayers()
	c.config = cfg
	c.collection = nil
	c.raw = nil
	c.summaries = nil
	c.highlighted = ""
	c.filter = Filter{}
	c.lastErr = nil

	if strings.TrimSpace(cfg.URL) == "" {
		err := &ConfigurationError{Layer: cfg.Key, Field: "url"}
		c.failLocked(err)
		c.mu.Unlock()
		c.metrics.ObserveLoad(metrics.ResultError, 0)
		return err
	}
	c.phase = PhaseLoading
	c.mu.Unlock()

	log := c.log.With().Str("layer", cfg.Key).Str("url", cfg.URL).Uint64("token", token).Logger()
	log.Debug().Msg("loading layer")

	start := time.Now()
	fc, err := c.fetcher.Fetch(ctx, cfg.URL)
	elapsed := time.Since(start)
	if err == nil && fc == nil {
		err = errors.New("empty response")
	}

	c.mu.Lock()
	if token != c.token {
		current := c.token
		c.mu.Unlock()
		log.Info().Uint64("current", current).Dur("elapsed", elapsed).Msg("discarding stale layer response")
		c.metrics.IncStaleLoad()
		c.metrics.ObserveLoad(metrics.ResultStale, elapsed)
		return ErrSuperseded
	}

	if err != nil {
		lerr := newLoadError(cfg.URL, err)
		c.failLocked(lerr)
		c.mu.Unlock()
		log.Error().Err(err).Str("stage", lerr.Stage).Msg("failed to load layer")
		c.metrics.ObserveLoad(metrics.ResultError, elapsed)
		return lerr
	}

	raw := make([]*geojson.Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f != nil {
			raw = append(raw, f)
		}
	}
	c.collection = fc
	c.raw = raw
	c.summaries = geo.Summarize(raw, cfg.IDProperty, cfg.NameProperty)

	style := render.DefaultStyle(cfg.Style.Color)
	for _, f := range raw {
		c.surface.AddFeature(f, style, geo.PropertyString(f.Properties, cfg.NameProperty))
	}

	c.fitLoadedLocked(cfg, len(raw), opts)
	c.phase = PhaseLoaded

	event := FeaturesLoaded{
		Layer:       cfg,
		Features:    append([]geo.FeatureSummary(nil), c.summaries...),
		RawFeatures: append([]*geojson.Feature(nil), raw...),
	}
	listeners := make([]func(FeaturesLoaded), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	log.Info().
		Int("features", len(raw)).
		Int("unique", len(event.Features)).
		Dur("elapsed", elapsed).
		Msg("layer loaded")
	c.metrics.ObserveLoad(metrics.ResultOK, elapsed)

	for _, fn := range listeners {
		fn(event)
	}
	return nil
}

func (c *Controller) failLocked(err error) {
	c.phase = PhaseError
	c.lastErr = err
	c.surface.ShowError(userMessage(err))
}

// fitLoadedLocked applies the camera policy after a load: state layers are
// fitted and remembered, subdivisions of the same state reuse the remembered
// view and any other layer is fitted to its own extent.
func (c *Controller) fitLoadedLocked(cfg config.LayerConfig, n int, opts LoadOptions) {
	if opts.SkipFitBounds || n == 0 {
		return
	}
	b, ok := c.surface.Bounds()
	if !ok || !geo.ValidBound(b) {
		return
	}

	switch {
	case cfg.Type.IsStateLevel():
		fit := geo.FitOptions{Padding: fitPadding, MinZoom: stateMinZoom, MaxZoom: stateMaxZoom}
		if cfg.MaxZoom > 0 {
			fit.MaxZoom = cfg.MaxZoom
		}
		if err := c.surface.FitBounds(b, fit); err != nil {
			c.log.Warn().Err(err).Msg("failed to fit state bounds")
			return
		}
		v := c.surface.View()
		c.stateView = &StateView{Layer: cfg.Key, Bounds: b, Zoom: v.Zoom, Center: v.Center}

	case cfg.Type.IsSubdivision() && c.stateView != nil && c.stateView.Layer == cfg.Key:
		c.surface.SetView(c.stateView.Center, c.stateView.Zoom)

	default:
		fit := geo.FitOptions{Padding: fitPadding, MinZoom: subdivisionMinZoom, MaxZoom: 10}
		if n > 10 {
			fit.MaxZoom = 5
		}
		if cfg.MaxZoom > 0 {
			fit.MaxZoom = cfg.MaxZoom
		}
		if cfg.MinZoom > 0 {
			fit.MinZoom = cfg.MinZoom
		}
		if err := c.surface.FitBounds(b, fit); err != nil {
			c.log.Warn().Err(err).Msg("failed to fit layer bounds")
		}
	}
}

// ApplyFilter re-renders the loaded features narrowed by county and
// sub-district. With only a county set, every feature stays on the map and
// the county is highlighted against ghosted neighbours. It returns the
// number of matching features and never fetches.
func (c *Controller) ApplyFilter(f Filter) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.surface == nil || c.raw == nil {
		return 0
	}

	opts := geo.FilterOptions{
		County:              f.County,
		Subdistrict:         f.Subdistrict,
		CountyProperty:      c.config.FilterCountyProperty,
		SubdistrictProperty: c.config.FilterSubdistrictProperty,
	}
	matched := geo.FilterByCountyAndSubdistrict(c.raw, opts)

	c.surface.ClearLayers()
	c.highlighted = ""
	nameProp := c.config.NameProperty

	if strings.TrimSpace(f.County) != "" && strings.TrimSpace(f.Subdistrict) == "" {
		in := make(map[*geojson.Feature]struct{}, len(matched))
		for _, m := range matched {
			in[m] = struct{}{}
		}
		ghost := render.GhostStyle(c.config.Style.Color)
		for _, feat := range c.raw {
			style := ghost
			if _, ok := in[feat]; ok {
				style = render.HighlightStyle()
			}
			c.surface.AddFeature(feat, style, geo.PropertyString(feat.Properties, nameProp))
		}
	} else {
		style := render.DefaultStyle(c.config.Style.Color)
		for _, feat := range matched {
			c.surface.AddFeature(feat, style, geo.PropertyString(feat.Properties, nameProp))
		}
	}

	if b, ok := geo.BoundOf(matched); ok {
		if err := c.surface.FitBounds(b, geo.FitOptions{Padding: fitPadding, MaxZoom: filterMaxZoom}); err != nil {
			c.log.Warn().Err(err).Msg("failed to fit filtered bounds")
		}
	}

	c.filter = f
	if opts.Active() {
		c.phase = PhaseFiltered
	} else {
		c.phase = PhaseLoaded
	}

	c.log.Debug().
		Str("county", f.County).
		Str("subdistrict", f.Subdistrict).
		Int("matched", len(matched)).
		Int("total", len(c.raw)).
		Msg("filter applied")
	c.metrics.IncFilterApplied()

	return len(matched)
}

// HighlightFeature styles every rendered feature whose id property equals
// id and recedes the rest. Numeric ids match their string form. It reports
// whether anything matched; without a match the camera is left alone.
func (c *Controller) HighlightFeature(id string, opts HighlightOptions) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.surface == nil || c.raw == nil {
		return false
	}

	idProp := c.config.IDProperty
	secondary := render.SecondaryStyle(c.config.Style.Color)

	var (
		bound   orb.Bound
		matched bool
	)
	c.surface.EachLayer(func(l *render.FeatureLayer) {
		var v any
		if l.Feature.Properties != nil {
			v = l.Feature.Properties[idProp]
		}
		if !geo.LooseEqual(v, id) {
			l.Style = secondary
			return
		}
		l.Style = render.HighlightStyle()
		b, ok := l.Bounds()
		if !ok {
			return
		}
		if !matched {
			bound, matched = b, true
			return
		}
		bound = bound.Union(b)
	})

	if matched {
		c.highlighted = id
	} else {
		c.highlighted = ""
	}

	if matched && !opts.SkipZoom {
		maxZoom := float64(highlightMaxZoom)
		if c.config.MaxZoom > 0 {
			maxZoom = c.config.MaxZoom
		}
		if err := c.surface.FitBounds(bound, geo.FitOptions{Padding: highlightPadding, MaxZoom: maxZoom}); err != nil {
			c.log.Warn().Err(err).Str("id", id).Msg("failed to fit highlighted feature")
		}
	}

	c.log.Debug().Str("id", id).Bool("matched", matched).Msg("feature highlighted")
	return matched
}

// State returns a snapshot of the controller
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	rendered := 0
	if c.surface != nil {
		c.surface.EachLayer(func(*render.FeatureLayer) { rendered++ })
	}
	return State{
		Phase:       c.phase,
		Layer:       c.config.Key,
		Features:    len(c.summaries),
		Rendered:    rendered,
		Highlighted: c.highlighted,
		Filter:      c.filter,
		Err:         c.lastErr,
	}
}

// Features returns the deduplicated summaries of the loaded layer
func (c *Controller) Features() []geo.FeatureSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]geo.FeatureSummary(nil), c.summaries...)
}

// RawFeatures returns every feature of the loaded layer. The features are
// shared and must not be modified.
func (c *Controller) RawFeatures() []*geojson.Feature {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*geojson.Feature(nil), c.raw...)
}

// Collection returns the last loaded document, nil before the first load
func (c *Controller) Collection() *geojson.FeatureCollection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collection
}

// StateView returns the remembered state camera, if any
func (c *Controller) StateView() (StateView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stateView == nil {
		return StateView{}, false
	}
	return *c.stateView, true
}

// Config returns the configuration of the current layer
func (c *Controller) Config() config.LayerConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}
