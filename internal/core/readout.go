package core

import "fmt"

// ReadoutLine is one label/value pair shown on the HUD.
type ReadoutLine struct {
	Label string
	Value string
}

// ReadoutGroup clusters related lines under a heading.
type ReadoutGroup struct {
	Name  string
	Lines []ReadoutLine
}

// Readout is a snapshot of everything the HUD displays.
type Readout struct {
	Groups []ReadoutGroup
}

// Add appends a group and returns it for chaining lines.
func (r *Readout) Add(name string) *ReadoutGroup {
	r.Groups = append(r.Groups, ReadoutGroup{Name: name})
	return &r.Groups[len(r.Groups)-1]
}

// Line appends a formatted line to the group.
func (g *ReadoutGroup) Line(label, format string, args ...any) *ReadoutGroup {
	g.Lines = append(g.Lines, ReadoutLine{Label: label, Value: fmt.Sprintf(format, args...)})
	return g
}

// Len returns the number of rows a readout occupies, one per heading and line.
func (r Readout) Len() int {
	n := 0
	for _, g := range r.Groups {
		n += 1 + len(g.Lines)
	}
	return n
}
