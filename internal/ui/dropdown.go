package ui

import (
	"geoexplorer/internal/render"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Option is one entry of a dropdown
type Option struct {
	Value string
	Label string
}

// Dropdown is a titled, scrollable option list. Collapsed it shows the
// chosen option; focused it opens to show a window of options.
type Dropdown struct {
	title         string
	placeholder   string
	options       []Option
	selected      string
	cursor        int
	scrollOffset  int
	maxVisible    int
	visible       bool
	x, y          int
	width, height int
}

// NewDropdown creates an empty dropdown
func NewDropdown(title, placeholder string, maxVisible int) *Dropdown {
	if maxVisible < 1 {
		maxVisible = 1
	}
	return &Dropdown{
		title:       title,
		placeholder: placeholder,
		maxVisible:  maxVisible,
		visible:     true,
	}
}

// SetOptions replaces the options and moves the cursor to the selected value
func (d *Dropdown) SetOptions(options []Option, selected string) {
	d.options = options
	d.selected = selected
	d.cursor = 0
	for i, o := range options {
		if o.Value == selected {
			d.cursor = i
			break
		}
	}
	d.adjustScroll()
}

// Options returns the current options
func (d *Dropdown) Options() []Option {
	return d.options
}

// SetVisible shows or hides the dropdown
func (d *Dropdown) SetVisible(v bool) {
	d.visible = v
}

// Visible reports whether the dropdown is shown
func (d *Dropdown) Visible() bool {
	return d.visible
}

// SelectNext moves the cursor down
func (d *Dropdown) SelectNext() {
	if d.cursor < len(d.options)-1 {
		d.cursor++
		d.adjustScroll()
	}
}

// SelectPrev moves the cursor up
func (d *Dropdown) SelectPrev() {
	if d.cursor > 0 {
		d.cursor--
		d.adjustScroll()
	}
}

// adjustScroll adjusts scroll offset to keep the cursor visible
func (d *Dropdown) adjustScroll() {
	if d.cursor >= d.scrollOffset+d.maxVisible {
		d.scrollOffset = d.cursor - d.maxVisible + 1
	}

	if d.cursor < d.scrollOffset {
		d.scrollOffset = d.cursor
	}

	if d.scrollOffset < 0 {
		d.scrollOffset = 0
	}
}

// Choose makes the option under the cursor the selected one
func (d *Dropdown) Choose() (Option, bool) {
	if d.cursor < 0 || d.cursor >= len(d.options) {
		return Option{}, false
	}
	o := d.options[d.cursor]
	d.selected = o.Value
	return o, true
}

// Selected returns the chosen value
func (d *Dropdown) Selected() string {
	return d.selected
}

// selectedLabel returns the label of the chosen option or the placeholder
func (d *Dropdown) selectedLabel() string {
	for _, o := range d.options {
		if o.Value == d.selected {
			return o.Label
		}
	}
	return d.placeholder
}

// Height returns the rows the dropdown needs
func (d *Dropdown) Height(focused bool) int {
	if !focused {
		return 3
	}
	rows := min(d.maxVisible, len(d.options))
	if rows < 1 {
		rows = 1
	}
	return rows + 2
}

// SetBounds positions the dropdown
func (d *Dropdown) SetBounds(x, y, width, height int) {
	d.x = x
	d.y = y
	d.width = width
	d.height = height
}

// Draw renders the dropdown to the screen
func (d *Dropdown) Draw(screen tcell.Screen, focused bool) {
	for row := d.y + 1; row < d.y+d.height-1; row++ {
		for col := d.x + 1; col < d.x+d.width-1; col++ {
			screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}

	border := render.StyleBorder
	if focused {
		border = render.StyleFocused
	}
	drawBox(screen, d.x, d.y, d.width, d.height, border)
	drawText(screen, d.x+2, d.y, d.width-4, " "+d.title+" ", render.StyleTitle)

	inner := d.width - 2
	if !focused {
		label := d.selectedLabel()
		style := render.StyleListChosen
		if d.selected == "" && label == d.placeholder {
			style = render.StyleMuted
		}
		drawText(screen, d.x+1, d.y+1, inner, label, style)
		return
	}

	if len(d.options) == 0 {
		drawText(screen, d.x+1, d.y+1, inner, d.placeholder, render.StyleMuted)
		return
	}

	visibleCount := min(d.maxVisible, d.height-2, len(d.options)-d.scrollOffset)
	for i := 0; i < visibleCount; i++ {
		idx := d.scrollOffset + i
		o := d.options[idx]

		style := render.StyleListItem
		if o.Value == d.selected {
			style = render.StyleListChosen
		}
		if idx == d.cursor {
			style = render.StyleListSelected
		}

		y := d.y + i + 1
		n := drawText(screen, d.x+1, y, inner, o.Label, style)
		for j := n; j < inner; j++ {
			screen.SetContent(d.x+1+j, y, ' ', nil, style)
		}
	}

	if len(d.options) > d.maxVisible {
		screen.SetContent(d.x+d.width-2, d.y, '↕', nil, render.StyleLabel)
	}
}

// drawText writes text clipped to maxWidth cells and returns the cells used
func drawText(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	text = runewidth.Truncate(text, maxWidth, "…")
	col := 0
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		screen.SetContent(x+col, y, ch, nil, style)
		col += w
	}
	return col
}

// drawBox draws a panel border
func drawBox(screen tcell.Screen, x, y, width, height int, style tcell.Style) {
	if width < 2 || height < 2 {
		return
	}
	screen.SetContent(x, y, '┌', nil, style)
	screen.SetContent(x+width-1, y, '┐', nil, style)
	screen.SetContent(x, y+height-1, '└', nil, style)
	screen.SetContent(x+width-1, y+height-1, '┘', nil, style)

	for i := 1; i < width-1; i++ {
		screen.SetContent(x+i, y, '─', nil, style)
		screen.SetContent(x+i, y+height-1, '─', nil, style)
	}

	for i := 1; i < height-1; i++ {
		screen.SetContent(x, y+i, '│', nil, style)
		screen.SetContent(x+width-1, y+i, '│', nil, style)
	}
}
