package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Canvas represents a 2D grid of cells for ASCII rendering
type Canvas struct {
	width  int
	height int
	cells  [][]Cell
}

// Cell represents a single character cell with style
type Cell struct {
	Char  rune
	Style tcell.Style
}

var blank = Cell{Char: ' ', Style: tcell.StyleDefault}

// NewCanvas creates a new blank canvas
func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cells := make([][]Cell, height)
	for i := range cells {
		cells[i] = make([]Cell, width)
		for j := range cells[i] {
			cells[i][j] = blank
		}
	}

	return &Canvas{
		width:  width,
		height: height,
		cells:  cells,
	}
}

// Set sets the character and style at the given position
// Coordinates are 0-indexed with (0,0) at top-left
func (c *Canvas) Set(x, y int, char rune, style tcell.Style) {
	if c.inside(x, y) {
		c.cells[y][x] = Cell{Char: char, Style: style}
	}
}

// SetIfBlank only writes into empty cells, so fills never cover outlines
func (c *Canvas) SetIfBlank(x, y int, char rune, style tcell.Style) {
	if c.inside(x, y) && c.cells[y][x].Char == ' ' {
		c.cells[y][x] = Cell{Char: char, Style: style}
	}
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Get retrieves the cell at the given position
func (c *Canvas) Get(x, y int) Cell {
	if c.inside(x, y) {
		return c.cells[y][x]
	}
	return blank
}

// Clear resets the entire canvas to spaces with default style
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = blank
		}
	}
}

// DrawText draws a string at the given position and returns the cells used.
// Wide runes take two cells.
func (c *Canvas) DrawText(x, y int, text string, style tcell.Style) int {
	col := x
	for _, char := range text {
		w := runewidth.RuneWidth(char)
		if w == 0 {
			continue
		}
		c.Set(col, y, char, style)
		if w == 2 {
			c.Set(col+1, y, ' ', style)
		}
		col += w
	}
	return col - x
}

// DrawTextClipped draws text truncated to maxWidth cells
func (c *Canvas) DrawTextClipped(x, y, maxWidth int, text string, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	return c.DrawText(x, y, runewidth.Truncate(text, maxWidth, "…"), style)
}

// DrawBox draws a box outline using box-drawing characters
func (c *Canvas) DrawBox(x, y, width, height int, style tcell.Style) {
	if width < 2 || height < 2 {
		return
	}

	c.Set(x, y, '┌', style)
	c.Set(x+width-1, y, '┐', style)
	c.Set(x, y+height-1, '└', style)
	c.Set(x+width-1, y+height-1, '┘', style)

	for i := 1; i < width-1; i++ {
		c.Set(x+i, y, '─', style)
		c.Set(x+i, y+height-1, '─', style)
	}

	for i := 1; i < height-1; i++ {
		c.Set(x, y+i, '│', style)
		c.Set(x+width-1, y+i, '│', style)
	}
}

// FillRect fills a rectangle with a character
func (c *Canvas) FillRect(x, y, width, height int, char rune, style tcell.Style) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			c.Set(x+dx, y+dy, char, style)
		}
	}
}

// Width returns the canvas width
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height
func (c *Canvas) Height() int {
	return c.height
}

// Blit renders the canvas to a tcell screen
func (c *Canvas) Blit(screen tcell.Screen, offsetX, offsetY int) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			cell := c.cells[y][x]
			screen.SetContent(offsetX+x, offsetY+y, cell.Char, nil, cell.Style)
		}
	}
}

// String returns the characters of the canvas, one line per row
func (c *Canvas) String() string {
	out := make([]rune, 0, (c.width+1)*c.height)
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			out = append(out, c.cells[y][x].Char)
		}
		out = append(out, '\n')
	}
	return string(out)
}
