package ui

import (
	"sort"

	"geoexplorer/internal/config"
	"geoexplorer/internal/geo"
	"geoexplorer/internal/state"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb/geojson"
)

// Control identifies one of the sidebar dropdowns
type Control int

const (
	ControlView Control = iota
	ControlLayer
	ControlFeature
	ControlCounty
	ControlSubdistrict
)

// Controls is the sidebar: the five dropdowns and which one has focus
type Controls struct {
	dropdowns [5]*Dropdown
	focus     Control
	x, y      int
	width     int
	height    int
}

// NewControls creates the sidebar dropdowns
func NewControls(x, y, width, height int) *Controls {
	c := &Controls{x: x, y: y, width: width, height: height}
	c.dropdowns[ControlView] = NewDropdown("Choose Dataset", "[ Select a Dataset ]", 8)
	c.dropdowns[ControlLayer] = NewDropdown("Choose State", "[ Select a State ]", 12)
	c.dropdowns[ControlFeature] = NewDropdown("Choose Feature", "[ Select a Feature ]", 10)
	c.dropdowns[ControlCounty] = NewDropdown("Choose County", "[ Select a County ]", 10)
	c.dropdowns[ControlSubdistrict] = NewDropdown("Choose Sub-district", "All Sub-districts", 10)
	return c
}

// Dropdown returns the dropdown for a control
func (c *Controls) Dropdown(ctl Control) *Dropdown {
	return c.dropdowns[ctl]
}

// Focus returns the focused control
func (c *Controls) Focus() Control {
	return c.focus
}

// Focused returns the focused dropdown
func (c *Controls) Focused() *Dropdown {
	return c.dropdowns[c.focus]
}

// FocusNext moves focus to the next visible dropdown
func (c *Controls) FocusNext() {
	c.moveFocus(1)
}

// FocusPrev moves focus to the previous visible dropdown
func (c *Controls) FocusPrev() {
	c.moveFocus(-1)
}

func (c *Controls) moveFocus(step int) {
	n := len(c.dropdowns)
	for i := 1; i <= n; i++ {
		next := Control(((int(c.focus)+step*i)%n + n) % n)
		if c.dropdowns[next].Visible() {
			c.focus = next
			return
		}
	}
}

// SetFocus focuses a control if it is visible
func (c *Controls) SetFocus(ctl Control) {
	if c.dropdowns[ctl].Visible() {
		c.focus = ctl
	}
}

// Refresh re-derives every dropdown's options and visibility from the
// selections, the feature store and the raw features of the loaded layer
func (c *Controls) Refresh(sel state.Selection, reg *config.Registry, store *state.FeatureStore, raw []*geojson.Feature) {
	views := make([]Option, 0, len(reg.Order))
	for _, key := range reg.Views() {
		g, _ := reg.Group(key)
		views = append(views, Option{Value: key, Label: g.Label})
	}
	c.dropdowns[ControlView].SetOptions(views, sel.View)

	group, hasGroup := reg.Group(sel.View)

	layers := make([]Option, 0)
	if hasGroup {
		for _, key := range reg.LayerKeys(sel.View) {
			layers = append(layers, Option{Value: key, Label: group.Layers[key].Label})
		}
	}
	c.dropdowns[ControlLayer].SetOptions(layers, sel.Layer)
	c.dropdowns[ControlLayer].SetVisible(hasGroup)

	summaries := store.Get(sel.StoreKey())
	features := make([]Option, 0, len(summaries))
	for _, s := range summaries {
		label := s.Name
		if label == "" {
			label = s.ID
		}
		features = append(features, Option{Value: s.ID, Label: label})
	}
	sort.SliceStable(features, func(i, j int) bool { return features[i].Label < features[j].Label })
	c.dropdowns[ControlFeature].SetOptions(features, sel.Feature)
	c.dropdowns[ControlFeature].SetVisible(sel.Layer != "" && store.Has(sel.StoreKey()))

	precincts := hasGroup && group.Type == config.LayerTypePrecincts
	countyProp, subProp := config.DefaultCountyProperty, config.DefaultSubdistrictProperty
	if cfg, ok := reg.Layer(sel.View, sel.Layer); ok {
		cfg = cfg.WithDefaults()
		countyProp, subProp = cfg.FilterCountyProperty, cfg.FilterSubdistrictProperty
	}

	counties := []Option{{Value: "", Label: "All Counties"}}
	subdistricts := []Option{{Value: "", Label: "All Sub-districts"}}
	if precincts {
		for _, name := range geo.Counties(raw, countyProp) {
			counties = append(counties, Option{Value: name, Label: name})
		}
		for _, name := range geo.Subdistricts(raw, sel.County, countyProp, subProp) {
			subdistricts = append(subdistricts, Option{Value: name, Label: name})
		}
	}
	c.dropdowns[ControlCounty].SetOptions(counties, sel.County)
	c.dropdowns[ControlCounty].SetVisible(precincts)
	c.dropdowns[ControlSubdistrict].SetOptions(subdistricts, sel.Subdistrict)
	c.dropdowns[ControlSubdistrict].SetVisible(precincts)

	if !c.dropdowns[c.focus].Visible() {
		c.focus = ControlView
	}
}

// UpdateDimensions updates the sidebar area
func (c *Controls) UpdateDimensions(x, y, width, height int) {
	c.x = x
	c.y = y
	c.width = width
	c.height = height
}

// Draw stacks the visible dropdowns top to bottom, opening the focused one
func (c *Controls) Draw(screen tcell.Screen) {
	for row := c.y; row < c.y+c.height; row++ {
		for col := c.x; col < c.x+c.width; col++ {
			screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}

	y := c.y
	for i, d := range c.dropdowns {
		if !d.Visible() {
			continue
		}
		focused := Control(i) == c.focus
		h := min(d.Height(focused), c.y+c.height-y)
		if h < 3 {
			break
		}
		d.SetBounds(c.x, y, c.width, h)
		d.Draw(screen, focused)
		y += h
	}
}
