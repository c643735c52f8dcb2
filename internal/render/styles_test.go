package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestPresets(t *testing.T) {
	if got := DefaultStyle(""); got.Color != DefaultColor || got.Weight != 1 || got.Opacity != 0.6 || got.FillOpacity != 0.1 {
		t.Fatalf("unexpected default style %+v", got)
	}
	if got := DefaultStyle("#d62728"); got.Color != "#d62728" {
		t.Fatalf("expected layer color to be kept, got %q", got.Color)
	}
	if got := HighlightStyle(); got.Color != HighlightColor || got.Weight != 3 || got.Opacity != 1 || got.FillOpacity != 0.4 {
		t.Fatalf("unexpected highlight style %+v", got)
	}
	if got := SecondaryStyle(""); got.Color != SecondaryColor || got.Opacity != 0.3 || got.FillOpacity != 0.05 || got.DashArray != "4" {
		t.Fatalf("unexpected secondary style %+v", got)
	}
	if !HighlightStyle().Filled() || DefaultStyle("").Filled() {
		t.Fatalf("expected only the highlight to be filled")
	}
}

func TestDash(t *testing.T) {
	cases := []struct {
		in      string
		on, off int
	}{
		{"", 0, 0},
		{"4", 4, 4},
		{"2 3", 2, 3},
		{"5,1", 5, 1},
		{"x", 0, 0},
	}
	for _, tc := range cases {
		on, off := PathStyle{DashArray: tc.in}.Dash()
		if on != tc.on || off != tc.off {
			t.Fatalf("Dash(%q) = %d,%d want %d,%d", tc.in, on, off, tc.on, tc.off)
		}
	}
}

func TestTerminalColor(t *testing.T) {
	full := TerminalColor(HighlightColor, 1)
	faint := TerminalColor(HighlightColor, 0.4)
	if full == faint {
		t.Fatalf("expected opacity to change the color")
	}

	r, g, b := TerminalColor("#000000", 1).RGB()
	if r+g+b == 0 {
		t.Fatalf("expected black to be lifted for a dark terminal")
	}

	if TerminalColor("not-a-color", 1) != TerminalColor(DefaultColor, 1) {
		t.Fatalf("expected invalid colors to fall back to the default")
	}

	if HighlightStyle().Stroke() == tcell.StyleDefault {
		t.Fatalf("expected a styled stroke")
	}
}

func TestCanvas_drawText(t *testing.T) {
	c := NewCanvas(10, 1)
	if n := c.DrawText(0, 0, "ab", StyleLabel); n != 2 {
		t.Fatalf("expected 2 cells, got %d", n)
	}
	if n := c.DrawText(2, 0, "日本", StyleLabel); n != 4 {
		t.Fatalf("expected wide runes to take 4 cells, got %d", n)
	}
	c.Clear()
	c.DrawTextClipped(0, 0, 4, "Hennepin", StyleLabel)
	if got := c.String(); got[:len("Hen…")] != "Hen…" {
		t.Fatalf("expected truncated text, got %q", got)
	}
}
