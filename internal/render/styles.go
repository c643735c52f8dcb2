package render

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Style colors of the built-in path presets
const (
	DefaultColor   = "#333333"
	HighlightColor = "#e63946"
	SecondaryColor = "#999999"
)

// PathStyle is the visual style of a rendered feature
type PathStyle struct {
	Color       string
	Weight      int
	Opacity     float64
	FillOpacity float64
	DashArray   string
}

// DefaultStyle is the style of every feature right after a load
func DefaultStyle(color string) PathStyle {
	if color == "" {
		color = DefaultColor
	}
	return PathStyle{Color: color, Weight: 1, Opacity: 0.6, FillOpacity: 0.1}
}

// HighlightStyle marks the selected feature or the features of the chosen county
func HighlightStyle() PathStyle {
	return PathStyle{Color: HighlightColor, Weight: 3, Opacity: 1, FillOpacity: 0.4}
}

// SecondaryStyle recedes the features that were not highlighted
func SecondaryStyle(color string) PathStyle {
	if color == "" {
		color = SecondaryColor
	}
	return PathStyle{Color: color, Weight: 1, Opacity: 0.3, FillOpacity: 0.05, DashArray: "4"}
}

// GhostStyle draws the context outside a county filter
func GhostStyle(color string) PathStyle {
	if color == "" {
		color = SecondaryColor
	}
	return PathStyle{Color: color, Weight: 1, Opacity: 0.2, FillOpacity: 0, DashArray: "2 3"}
}

// Dash returns the on/off cell lengths of the dash pattern, zero for solid
func (s PathStyle) Dash() (on, off int) {
	fields := strings.FieldsFunc(s.DashArray, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 0 {
		return 0, 0
	}
	on, err := strconv.Atoi(fields[0])
	if err != nil || on <= 0 {
		return 0, 0
	}
	off = on
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
			off = n
		}
	}
	return on, off
}

// Filled reports whether the fill is strong enough to shade cells
func (s PathStyle) Filled() bool {
	return s.FillOpacity >= 0.25
}

// Stroke returns the terminal style for outlines
func (s PathStyle) Stroke() tcell.Style {
	st := tcell.StyleDefault.Foreground(TerminalColor(s.Color, s.Opacity))
	if s.Weight >= 3 {
		st = st.Bold(true)
	}
	return st
}

// Fill returns the terminal style for shaded interiors
func (s PathStyle) Fill() tcell.Style {
	return tcell.StyleDefault.Foreground(TerminalColor(s.Color, s.FillOpacity))
}

var background = colorful.Color{R: 0, G: 0, B: 0}

// TerminalColor converts a CSS hex color at an opacity into a color that
// stays visible on a dark terminal background
func TerminalColor(hex string, opacity float64) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(DefaultColor)
	}

	// dark map colors are inverted in lightness
	l, a, b := c.Lab()
	if l < 0.45 {
		l = 1 - l
	}
	c = colorful.Lab(l, a, b).Clamped()

	if opacity < 0.35 {
		opacity = 0.35
	}
	if opacity > 1 {
		opacity = 1
	}
	r, g, bl := background.BlendRgb(c, opacity).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(bl))
}

// Interface styles
var (
	StyleBasemap      = tcell.StyleDefault.Foreground(tcell.ColorDimGray)
	StyleLabel        = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	StyleTooltip      = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightYellow)
	StyleError        = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkRed).Bold(true)
	StyleBorder       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	StyleFocused      = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	StyleTitle        = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	StyleListItem     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	StyleListSelected = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	StyleListChosen   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	StyleStatus       = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGray)
	StyleMuted        = tcell.StyleDefault.Foreground(tcell.ColorGray)
)
