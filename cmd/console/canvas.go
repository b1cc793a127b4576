package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/neha-pm/npc-learn/pkg/world"
	"github.com/neha-pm/npc-learn/pkg/zone"
)

var (
	zoneBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")) // dark grey

	zoneLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")). // indigo
			Bold(true)

	guestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	draggedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("205")). // pink
			Bold(true)
)

// renderCanvas draws the party floor: zone outlines with their labels,
// then every guest at its current position. Guests draw over zone
// borders; later identifiers draw over earlier ones.
func renderCanvas(store *world.Store, width, height int, dragID int) string {
	grid := make([][]string, height)
	for y := range grid {
		grid[y] = make([]string, width)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	_, rects := zone.Layout(float64(width), float64(height))
	for _, id := range zone.All() {
		drawRect(grid, rects[id])
		label := " " + id.Glyph() + " " + id.Label() + " "
		putString(grid, int(rects[id].X)+2, int(rects[id].Y), label, zoneLabelStyle)
	}

	for _, n := range store.Read() {
		style := guestStyle
		if n.ID == dragID {
			style = draggedStyle
		}
		marker := n.Annotation
		if marker == "" {
			marker = "•"
		}
		x := int(math.Round(n.X))
		y := int(math.Round(n.Y))
		putString(grid, x, y, marker+" "+n.DisplayName(), style)
	}

	rows := make([]string, height)
	for y := range grid {
		rows[y] = strings.Join(grid[y], "")
	}
	return strings.Join(rows, "\n")
}

func drawRect(grid [][]string, r zone.Rect) {
	x0, y0 := int(r.X), int(r.Y)
	x1, y1 := int(r.X+r.W), int(r.Y+r.H)

	for x := x0 + 1; x < x1; x++ {
		putCell(grid, x, y0, "─", zoneBorderStyle)
		putCell(grid, x, y1, "─", zoneBorderStyle)
	}
	for y := y0 + 1; y < y1; y++ {
		putCell(grid, x0, y, "│", zoneBorderStyle)
		putCell(grid, x1, y, "│", zoneBorderStyle)
	}
	putCell(grid, x0, y0, "┌", zoneBorderStyle)
	putCell(grid, x1, y0, "┐", zoneBorderStyle)
	putCell(grid, x0, y1, "└", zoneBorderStyle)
	putCell(grid, x1, y1, "┘", zoneBorderStyle)
}

func putString(grid [][]string, x, y int, s string, style lipgloss.Style) {
	for i, r := range []rune(s) {
		putCell(grid, x+i, y, string(r), style)
	}
}

func putCell(grid [][]string, x, y int, s string, style lipgloss.Style) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	grid[y][x] = style.Render(s)
}
