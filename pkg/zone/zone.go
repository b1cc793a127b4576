// Package zone defines the closed set of named party zones and the
// responsive layout that maps each zone to an anchor point and a
// bounding rectangle for a given viewport size.
package zone

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ID identifies a zone. The set is closed; unknown strings are not
// errors, they simply have no anchor.
type ID string

const (
	Buffet     ID = "BUFFET"
	Bar        ID = "BAR"
	Dancefloor ID = "DANCEFLOOR"
	Stage      ID = "STAGE"
	Garden     ID = "GARDEN"
	Lobby      ID = "LOBBY"
)

// Point is a coordinate in viewport units.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle in viewport units.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

var glyphs = map[ID]string{
	Buffet:     "🍽",
	Bar:        "🍹",
	Dancefloor: "💃",
	Stage:      "🎤",
	Garden:     "🌿",
	Lobby:      "🛋",
}

// fractional placement of each zone within the viewport
type frame struct {
	anchorX, anchorY float64
	rectX, rectY     float64
	rectW, rectH     float64
}

var frames = map[ID]frame{
	Buffet:     {0.20, 0.25, 0.05, 0.10, 0.30, 0.30},
	Bar:        {0.80, 0.25, 0.65, 0.10, 0.30, 0.30},
	Stage:      {0.50, 0.12, 0.40, 0.04, 0.20, 0.16},
	Dancefloor: {0.50, 0.55, 0.35, 0.42, 0.30, 0.32},
	Garden:     {0.15, 0.80, 0.05, 0.64, 0.25, 0.30},
	Lobby:      {0.85, 0.80, 0.70, 0.64, 0.25, 0.30},
}

var titler = cases.Title(language.AmericanEnglish)

// All returns the zone identifiers in stable order.
func All() []ID {
	return []ID{Buffet, Bar, Stage, Dancefloor, Garden, Lobby}
}

// Parse maps a raw zone string to an ID. ok is false for anything
// outside the closed set; callers fall back to free placement.
func Parse(s string) (ID, bool) {
	id := ID(strings.ToUpper(strings.TrimSpace(s)))
	if _, known := frames[id]; !known {
		return "", false
	}
	return id, true
}

// Glyph returns the zone's default annotation glyph.
func (id ID) Glyph() string {
	return glyphs[id]
}

// Label returns a human-readable name for the zone.
func (id ID) Label() string {
	return titler.String(strings.ToLower(string(id)))
}

// Layout computes anchors and bounding rectangles for a viewport of the
// given size. It is a pure function: identical input sizes always yield
// identical layouts, so a resize never jitters stationary NPCs.
func Layout(width, height float64) (map[ID]Point, map[ID]Rect) {
	anchors := make(map[ID]Point, len(frames))
	rects := make(map[ID]Rect, len(frames))
	for id, f := range frames {
		anchors[id] = Point{X: f.anchorX * width, Y: f.anchorY * height}
		rects[id] = Rect{
			X: f.rectX * width,
			Y: f.rectY * height,
			W: f.rectW * width,
			H: f.rectH * height,
		}
	}
	return anchors, rects
}

// Anchor returns the anchor for a single zone, with ok=false when the
// identifier is not part of the registry.
func Anchor(id ID, width, height float64) (Point, bool) {
	f, known := frames[id]
	if !known {
		return Point{}, false
	}
	return Point{X: f.anchorX * width, Y: f.anchorY * height}, true
}
