package ui

import (
	"context"
	"testing"
	"time"

	"geoexplorer/internal/render"
	"geoexplorer/internal/viewer"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
)

func newApp(t *testing.T) (*App, tcell.SimulationScreen, *viewer.Controller) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	surface := render.NewSurface(1, 1)
	ctrl := viewer.New(stubFetcher{features: precincts()}, zerolog.Nop(), nil)
	ctrl.Attach(surface)

	app, err := NewApp(s, registry(t), ctrl, surface, zerolog.Nop(), Options{
		InitialView:  "mn-precincts",
		InitialLayer: "minnesota",
	})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	t.Cleanup(app.cleanup)
	return app, s, ctrl
}

// load runs the selected layer through the controller and feeds the
// resulting notification back into the app
func load(t *testing.T, app *App, s tcell.SimulationScreen, ctrl *viewer.Controller) {
	t.Helper()
	cfg, ok := app.state.LayerConfig(app.reg)
	if !ok {
		t.Fatalf("expected a selected layer")
	}
	if err := ctrl.LoadLayer(context.Background(), cfg, viewer.LoadOptions{}); err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}

	got := make(chan *eventFeatures, 1)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			if fe, ok := ev.(*eventFeatures); ok {
				got <- fe
				return
			}
		}
	}()

	select {
	case ev := <-got:
		app.handleEvent(ev)
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a features event after load")
	}
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestApp_initialSelection(t *testing.T) {
	app, _, _ := newApp(t)

	sel := app.state.Snapshot()
	if sel.View != "mn-precincts" || sel.Layer != "minnesota" {
		t.Fatalf("expected mn-precincts/minnesota, got %+v", sel)
	}
	county := app.controls.Dropdown(ControlCounty)
	if !county.Visible() {
		t.Fatalf("expected county dropdown for the precinct view")
	}
	if n := len(county.Options()); n != 1 {
		t.Fatalf("expected only All Counties before load, got %d options", n)
	}
}

func TestApp_unknownInitialViewFallsBack(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	surface := render.NewSurface(1, 1)
	ctrl := viewer.New(stubFetcher{}, zerolog.Nop(), nil)
	ctrl.Attach(surface)
	reg := registry(t)

	app, err := NewApp(s, reg, ctrl, surface, zerolog.Nop(), Options{InitialView: "nowhere", InitialLayer: "iowa"})
	if err != nil {
		t.Fatal(err)
	}
	defer app.cleanup()

	sel := app.state.Snapshot()
	if sel.View != reg.Order[0] || sel.Layer != "iowa" {
		t.Fatalf("expected first view with iowa, got %+v", sel)
	}
}

func TestApp_featuresLoadedRefreshesControls(t *testing.T) {
	app, s, ctrl := newApp(t)
	load(t, app, s, ctrl)

	if !app.controls.Dropdown(ControlFeature).Visible() {
		t.Fatalf("expected feature dropdown after loading several precincts")
	}
	if n := len(app.controls.Dropdown(ControlFeature).Options()); n != 4 {
		t.Fatalf("expected 4 feature options, got %d", n)
	}
	if n := len(app.controls.Dropdown(ControlCounty).Options()); n != 3 {
		t.Fatalf("expected All Counties plus two counties, got %d", n)
	}
}

func TestApp_countyThenSubdistrict(t *testing.T) {
	app, s, ctrl := newApp(t)
	load(t, app, s, ctrl)

	app.controls.SetFocus(ControlCounty)
	app.handleEvent(key(tcell.KeyDown))
	app.handleEvent(key(tcell.KeyEnter))

	if got := app.state.Snapshot().County; got != "Hennepin" {
		t.Fatalf("expected Hennepin chosen, got %q", got)
	}
	st := ctrl.State()
	if st.Phase != viewer.PhaseFiltered || st.Filter.County != "Hennepin" {
		t.Fatalf("expected Hennepin filter applied, got %+v", st)
	}
	if st.Rendered != 4 {
		t.Fatalf("expected every precinct kept for a county-only filter, got %d", st.Rendered)
	}

	app.controls.SetFocus(ControlSubdistrict)
	app.handleEvent(key(tcell.KeyDown))
	app.handleEvent(key(tcell.KeyEnter))

	st = ctrl.State()
	if st.Filter.Subdistrict != "10B" || st.Rendered != 1 {
		t.Fatalf("expected Hennepin 10B with one precinct, got %+v", st)
	}
}

func TestApp_featureChoiceHighlights(t *testing.T) {
	app, s, ctrl := newApp(t)
	load(t, app, s, ctrl)

	before := app.surface.View()
	app.controls.SetFocus(ControlFeature)
	app.handleEvent(key(tcell.KeyEnter))

	if after := app.surface.View(); !after.Center.Equal(before.Center) || after.Zoom != before.Zoom {
		t.Fatalf("expected the camera to stay at %v@%v, got %v@%v", before.Center, before.Zoom, after.Center, after.Zoom)
	}
	id := app.state.Snapshot().Feature
	if id == "" {
		t.Fatalf("expected a feature chosen")
	}
	if got := ctrl.State().Highlighted; got != id {
		t.Fatalf("expected %q highlighted, got %q", id, got)
	}

	app.handleEvent(runeKey('i'))
	if app.currentView != ViewModeDetail {
		t.Fatalf("expected detail view")
	}
	if app.detailView.feature == nil {
		t.Fatalf("expected detail view to show the chosen feature")
	}
}

func TestApp_keys(t *testing.T) {
	app, _, _ := newApp(t)

	app.handleEvent(runeKey('i'))
	if app.currentView != ViewModeDetail {
		t.Fatalf("expected i to open the detail view")
	}
	if !app.handleEvent(key(tcell.KeyEscape)) {
		t.Fatalf("expected Esc to close the detail view, not quit")
	}
	if app.currentView != ViewModeMap {
		t.Fatalf("expected map view after Esc")
	}
	if app.handleEvent(key(tcell.KeyEscape)) {
		t.Fatalf("expected Esc on the map to quit")
	}
	if app.handleEvent(runeKey('q')) {
		t.Fatalf("expected q to quit")
	}

	before := app.surface.View().Zoom
	app.handleEvent(runeKey('+'))
	if app.surface.View().Zoom != before+1 {
		t.Fatalf("expected zoom %v, got %v", before+1, app.surface.View().Zoom)
	}
}

func TestApp_supersededLoadIgnored(t *testing.T) {
	app, _, _ := newApp(t)
	app.status = "Loading Minnesota..."

	app.handleEvent(&eventLoaded{layer: "minnesota", err: viewer.ErrSuperseded})
	if app.status != "Loading Minnesota..." {
		t.Fatalf("expected a superseded load to leave the status alone, got %q", app.status)
	}

	app.handleEvent(&eventLoaded{layer: "minnesota"})
	if app.status != "" {
		t.Fatalf("expected status cleared after load, got %q", app.status)
	}
}

func TestApp_runQuits(t *testing.T) {
	app, s, _ := newApp(t)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- app.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean exit, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected q to stop the event loop")
	}
}

func TestApp_emptyFeatureChoiceIgnored(t *testing.T) {
	app, s, ctrl := newApp(t)
	load(t, app, s, ctrl)

	app.choose(ControlFeature, "P2")
	app.choose(ControlFeature, "")

	if got := app.state.Snapshot().Feature; got != "P2" {
		t.Fatalf("expected an empty choice to keep P2, got %q", got)
	}
	if got := ctrl.State().Highlighted; got != "P2" {
		t.Fatalf("expected P2 to stay highlighted, got %q", got)
	}
}
