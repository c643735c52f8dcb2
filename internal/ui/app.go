package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"geoexplorer/internal/config"
	"geoexplorer/internal/geo"
	"geoexplorer/internal/render"
	"geoexplorer/internal/state"
	"geoexplorer/internal/viewer"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
)

// ViewMode represents the current view mode
type ViewMode int

const (
	ViewModeMap ViewMode = iota
	ViewModeDetail
)

const (
	sidebarWidth = 34
	detailWidth  = 50
	detailHeight = 15
)

// Options selects what the app shows on start
type Options struct {
	InitialView  string
	InitialLayer string
}

// eventLoaded is posted when a background load finishes
type eventLoaded struct {
	tcell.EventTime
	layer string
	err   error
}

// eventFeatures carries a controller FeaturesLoaded notification onto the event loop
type eventFeatures struct {
	tcell.EventTime
	loaded viewer.FeaturesLoaded
}

// App is the main application controller
type App struct {
	screen      tcell.Screen
	reg         *config.Registry
	controller  *viewer.Controller
	surface     *render.Surface
	log         zerolog.Logger
	state       *state.AppState
	store       *state.FeatureStore
	controls    *Controls
	mapView     *MapView
	detailView  *DetailView
	currentView ViewMode
	status      string
	unsubscribe func()
	ctx         context.Context
	cancel      context.CancelFunc
	closeOnce   sync.Once
}

// NewApp initializes screen and lays out the sidebar, map and status line
func NewApp(screen tcell.Screen, reg *config.Registry, controller *viewer.Controller, surface *render.Surface, log zerolog.Logger, opts Options) (*App, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault)
	screen.EnableMouse()
	screen.Clear()

	width, height := screen.Size()
	mapWidth := max(width-sidebarWidth, 1)
	mapHeight := max(height-1, 1)

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		screen:      screen,
		reg:         reg,
		controller:  controller,
		surface:     surface,
		log:         log,
		state:       state.New(),
		store:       state.NewFeatureStore(),
		controls:    NewControls(0, 0, min(sidebarWidth, width), mapHeight),
		mapView:     NewMapView(surface, sidebarWidth, 0, mapWidth, mapHeight),
		detailView:  NewDetailView(sidebarWidth, max(mapHeight-detailHeight, 0), detailWidth, min(detailHeight, mapHeight)),
		currentView: ViewModeMap,
		ctx:         ctx,
		cancel:      cancel,
	}

	app.unsubscribe = controller.Subscribe(func(loaded viewer.FeaturesLoaded) {
		ev := &eventFeatures{loaded: loaded}
		ev.SetEventNow()
		if err := screen.PostEvent(ev); err != nil {
			log.Warn().Err(err).Str("layer", loaded.Layer.Key).Msg("dropped features event")
		}
	})

	view := opts.InitialView
	if _, ok := reg.Group(view); !ok {
		view = reg.Order[0]
	}
	app.state.SelectView(view, reg)
	if opts.InitialLayer != "" && reg.HasLayer(view, opts.InitialLayer) {
		app.state.SelectLayer(opts.InitialLayer)
	}
	app.refresh()

	return app, nil
}

// Run starts the application main loop
func (a *App) Run() error {
	defer a.cleanup()

	if a.state.Snapshot().Layer != "" {
		a.loadSelectedLayer()
	}
	a.render()

	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !a.handleEvent(ev) {
			return nil
		}
		a.render()
	}
}

// refresh re-derives the dropdowns from the current selections
func (a *App) refresh() {
	a.controls.Refresh(a.state.Snapshot(), a.reg, a.store, a.controller.RawFeatures())
}

// loadSelectedLayer fetches the selected layer off the event loop
func (a *App) loadSelectedLayer() {
	cfg, ok := a.state.LayerConfig(a.reg)
	if !ok {
		return
	}
	a.status = fmt.Sprintf("Loading %s...", cfg.Label)

	go func() {
		err := a.controller.LoadLayer(a.ctx, cfg, viewer.LoadOptions{})
		ev := &eventLoaded{layer: cfg.Key, err: err}
		ev.SetEventNow()
		if perr := a.screen.PostEvent(ev); perr != nil {
			a.log.Warn().Err(perr).Str("layer", cfg.Key).Msg("dropped load event")
		}
	}()
}

// render renders the current view to the screen
func (a *App) render() {
	a.screen.Clear()

	a.mapView.Draw(a.screen)
	a.controls.Draw(a.screen)
	if a.currentView == ViewModeDetail {
		a.detailView.Draw(a.screen)
	}
	a.drawStatus()

	a.screen.Show()
}

func (a *App) drawStatus() {
	width, height := a.screen.Size()
	y := height - 1
	for x := 0; x < width; x++ {
		a.screen.SetContent(x, y, ' ', nil, render.StyleStatus)
	}
	drawText(a.screen, 1, y, width-2, a.statusLine(), render.StyleStatus)
}

// statusLine summarizes the controller for the bottom row
func (a *App) statusLine() string {
	st := a.controller.State()
	view := a.surface.View()

	if st.Phase == viewer.PhaseError {
		if msg := a.surface.ErrorMessage(); msg != "" {
			return msg
		}
	}
	if a.status != "" && st.Phase == viewer.PhaseLoading {
		return a.status
	}

	line := fmt.Sprintf("%s | z%.0f", st.Phase, view.Zoom)
	if st.Layer != "" {
		line = fmt.Sprintf("%s | %s | %d/%d features", line, st.Layer, st.Rendered, st.Features)
	}
	if st.Filter.County != "" || st.Filter.Subdistrict != "" {
		line = fmt.Sprintf("%s | filter %s %s", line, st.Filter.County, st.Filter.Subdistrict)
	}
	return line + " | Tab focus  Enter select  +/- zoom  hjkl pan  i info  q quit"
}

// handleEvent processes screen events. It returns false when the app should quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *eventFeatures:
		a.handleFeaturesLoaded(ev.loaded)

	case *eventLoaded:
		a.handleLoaded(ev)

	case *tcell.EventKey:
		return a.handleKey(ev)

	case *tcell.EventMouse:
		x, y := ev.Position()
		a.mapView.Hover(x, y)
		switch ev.Buttons() {
		case tcell.WheelUp:
			a.mapView.ZoomIn()
		case tcell.WheelDown:
			a.mapView.ZoomOut()
		}

	case *tcell.EventResize:
		a.handleResize()
	}

	return true
}

func (a *App) handleFeaturesLoaded(loaded viewer.FeaturesLoaded) {
	cfg, ok := a.state.LayerConfig(a.reg)
	if !ok || cfg.URL != loaded.Layer.URL {
		return
	}
	a.store.Set(a.state.Snapshot().StoreKey(), loaded.Features)
	a.refresh()
}

func (a *App) handleLoaded(ev *eventLoaded) {
	switch {
	case errors.Is(ev.err, viewer.ErrSuperseded):
		return
	case ev.err != nil:
		a.log.Error().Err(ev.err).Str("layer", ev.layer).Msg("layer load failed")
	}
	a.status = ""
	a.refresh()
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		if a.currentView == ViewModeDetail {
			a.currentView = ViewModeMap
			return true
		}
		return false

	case tcell.KeyCtrlC:
		return false

	case tcell.KeyTab:
		a.controls.FocusNext()

	case tcell.KeyBacktab:
		a.controls.FocusPrev()

	case tcell.KeyEnter:
		if opt, ok := a.controls.Focused().Choose(); ok {
			a.choose(a.controls.Focus(), opt.Value)
		}

	case tcell.KeyUp:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			a.mapView.Pan(0, -1)
		} else {
			a.controls.Focused().SelectPrev()
		}

	case tcell.KeyDown:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			a.mapView.Pan(0, 1)
		} else {
			a.controls.Focused().SelectNext()
		}

	case tcell.KeyLeft:
		a.mapView.Pan(-1, 0)

	case tcell.KeyRight:
		a.mapView.Pan(1, 0)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false

		case 'r', 'R':
			a.screen.Sync()

		case '+', '=':
			a.mapView.ZoomIn()

		case '-', '_':
			a.mapView.ZoomOut()

		case 'h':
			a.mapView.Pan(-1, 0)
		case 'j':
			a.mapView.Pan(0, 1)
		case 'k':
			a.mapView.Pan(0, -1)
		case 'l':
			a.mapView.Pan(1, 0)

		case 'i', 'I':
			a.toggleDetail()
		}
	}

	return true
}

// choose applies a dropdown selection
func (a *App) choose(ctl Control, value string) {
	switch ctl {
	case ControlView:
		if a.state.SelectView(value, a.reg) {
			a.loadSelectedLayer()
		}

	case ControlLayer:
		a.state.SelectLayer(value)
		a.loadSelectedLayer()

	case ControlFeature:
		if value == "" {
			break
		}
		a.state.SelectFeature(value)
		// the camera stays on the layer so the choice is seen in context
		if !a.controller.HighlightFeature(value, viewer.HighlightOptions{SkipZoom: true}) {
			a.log.Debug().Str("id", value).Msg("feature not on map")
		}

	case ControlCounty:
		a.state.SelectCounty(value)
		a.controller.ApplyFilter(viewer.Filter{County: value})

	case ControlSubdistrict:
		a.state.SelectSubdistrict(value)
		sel := a.state.Snapshot()
		a.controller.ApplyFilter(viewer.Filter{County: sel.County, Subdistrict: sel.Subdistrict})
	}

	a.refresh()
}

// toggleDetail opens the detail view on the selected or hovered feature
func (a *App) toggleDetail() {
	if a.currentView == ViewModeDetail {
		a.currentView = ViewModeMap
		return
	}

	f := a.selectedFeature()
	if f == nil {
		if l, ok := a.mapView.Hovered(); ok {
			f = l.Feature
		}
	}
	cfg := a.controller.Config()
	title := ""
	if f != nil {
		title = geo.PropertyString(f.Properties, cfg.NameProperty)
	}
	a.detailView.SetFeature(f, title)
	a.currentView = ViewModeDetail
}

func (a *App) selectedFeature() *geojson.Feature {
	id := a.state.Snapshot().Feature
	if id == "" {
		return nil
	}
	idProp := a.controller.Config().IDProperty
	for _, f := range a.controller.RawFeatures() {
		if f != nil && f.Properties != nil && geo.LooseEqual(f.Properties[idProp], id) {
			return f
		}
	}
	return nil
}

// handleResize handles terminal resize events
func (a *App) handleResize() {
	a.screen.Sync()
	width, height := a.screen.Size()
	mapHeight := max(height-1, 1)

	a.controls.UpdateDimensions(0, 0, min(sidebarWidth, width), mapHeight)
	a.mapView.UpdateDimensions(sidebarWidth, 0, max(width-sidebarWidth, 1), mapHeight)
	a.detailView.UpdateDimensions(sidebarWidth, max(mapHeight-detailHeight, 0), detailWidth, min(detailHeight, mapHeight))
}

// cleanup performs cleanup before exit
func (a *App) cleanup() {
	a.closeOnce.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}

		if a.unsubscribe != nil {
			a.unsubscribe()
		}

		if a.screen != nil {
			a.screen.Fini()
		}
	})
}
