package element

import (
	"errors"
	"fmt"
	"image/color"
)

// MaxElements is the number of distinct ids an ID can address.
const MaxElements = 256

var (
	ErrDuplicateName  = errors.New("element name already registered")
	ErrNotFound       = errors.New("element not found")
	ErrUnknownID      = errors.New("unknown element id")
	ErrInvalidElement = errors.New("invalid element")
	ErrRegistryFull   = errors.New("element registry full")
)

// Registry owns the element records. It is filled once at startup and is
// read-only afterwards, so concurrent readers need no locking.
type Registry struct {
	elements []Element
	byName   map[string]ID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]ID)}
}

// Register assigns the next free id to e and stores it. The ID field of e is
// ignored and overwritten.
func (r *Registry) Register(e Element) (ID, error) {
	if e.Name == "" {
		return 0, fmt.Errorf("register: %w: empty name", ErrInvalidElement)
	}
	if _, ok := r.byName[e.Name]; ok {
		return 0, fmt.Errorf("register %q: %w", e.Name, ErrDuplicateName)
	}
	if len(r.elements) >= MaxElements {
		return 0, fmt.Errorf("register %q: %w", e.Name, ErrRegistryFull)
	}
	if e.Shade.Min < 0 || e.Shade.Max > 1 || e.Shade.Max < e.Shade.Min {
		return 0, fmt.Errorf("register %q: %w: shade range [%g, %g]", e.Name, ErrInvalidElement, e.Shade.Min, e.Shade.Max)
	}
	if e.DisplayName == "" {
		e.DisplayName = e.Name
	}
	id := ID(len(r.elements))
	e.ID = id
	r.elements = append(r.elements, e)
	r.byName[e.Name] = id
	return id, nil
}

// IDOf resolves a machine name to its id.
func (r *Registry) IDOf(name string) (ID, error) {
	id, ok := r.byName[name]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return id, nil
}

// Element returns the record registered under id.
func (r *Registry) Element(id ID) (Element, error) {
	if int(id) >= len(r.elements) {
		return Element{}, fmt.Errorf("id %d: %w", id, ErrUnknownID)
	}
	return r.elements[id], nil
}

// MustElement is the hot-path lookup. Every id placed in a grid comes from
// Register, so a miss is a programming error and panics.
func (r *Registry) MustElement(id ID) Element {
	if int(id) >= len(r.elements) {
		panic(fmt.Sprintf("element: id %d was never registered (%d known)", id, len(r.elements)))
	}
	return r.elements[id]
}

// Known reports whether id has been registered.
func (r *Registry) Known(id ID) bool { return int(id) < len(r.elements) }

// CategoryOf returns the category of id.
func (r *Registry) CategoryOf(id ID) Category { return r.MustElement(id).Category }

// ColorOf returns the base color of id.
func (r *Registry) ColorOf(id ID) color.RGBA { return r.MustElement(id).Color }

// Len returns the number of registered elements.
func (r *Registry) Len() int { return len(r.elements) }

// All returns the registered elements in id order. The slice is shared; do
// not modify it.
func (r *Registry) All() []Element { return r.elements }
