// Package element holds the catalog of substances a particle can be made of.
package element

import "image/color"

// ID identifies a registered element. ID 0 is the inert background.
type ID uint8

// Category is the coarse physical class of an element.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryPowder
	CategorySolid
	CategoryLiquid
	CategoryGas
)

var categoryNames = [...]string{
	CategoryNone:   "none",
	CategoryPowder: "powder",
	CategorySolid:  "solid",
	CategoryLiquid: "liquid",
	CategoryGas:    "gas",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// Behavior tags the movement rule bound to an element. The simulation keeps
// one rule per tag and dispatches through an id-indexed table.
type Behavior uint8

const (
	BehaviorInert Behavior = iota
	BehaviorPowder
	BehaviorLiquid
	BehaviorGas
)

// ShadeRange is the interval a particle's shade is drawn from when painted.
// The zero value means particles always get full shade.
type ShadeRange struct {
	Min, Max float32
}

// Varies reports whether painting should randomize the shade.
func (s ShadeRange) Varies() bool { return s.Max > s.Min }

// Reaction turns an element into Product when any of its eight neighbours
// holds Trigger. Both fields are element names.
type Reaction struct {
	Trigger string
	Product string
}

// Element is an immutable substance definition.
type Element struct {
	ID          ID
	Name        string
	DisplayName string
	Category    Category
	Behavior    Behavior
	Color       color.RGBA
	Shade       ShadeRange
	Reaction    *Reaction
}

// ShadedColor scales the element color's value channel by shade.
func (e Element) ShadedColor(shade float32) color.RGBA {
	if shade >= 1 {
		return e.Color
	}
	if shade < 0 {
		shade = 0
	}
	return color.RGBA{
		R: uint8(float32(e.Color.R) * shade),
		G: uint8(float32(e.Color.G) * shade),
		B: uint8(float32(e.Color.B) * shade),
		A: e.Color.A,
	}
}
