package element

import (
	"fmt"
	"image/color"

	"github.com/crazy3lf/colorconv"
)

// Names of the standard catalog, in registration order.
const (
	Air      = "air"
	Wall     = "wall"
	Salt     = "salt"
	Water    = "water"
	Lava     = "lava"
	Steam    = "steam"
	Stone    = "stone"
	ToxicGas = "toxic_gas"
)

// Catalog returns the standard element set. Air comes first so it gets id 0.
func Catalog() []Element {
	return []Element{
		{
			Name:        Air,
			DisplayName: "Air",
			Category:    CategoryNone,
			Behavior:    BehaviorInert,
			Color:       color.RGBA{R: 15, G: 15, B: 15, A: 255},
		},
		{
			Name:        Wall,
			DisplayName: "Wall",
			Category:    CategorySolid,
			Behavior:    BehaviorInert,
			Color:       color.RGBA{R: 120, G: 120, B: 120, A: 255},
		},
		{
			Name:        Salt,
			DisplayName: "Salt",
			Category:    CategoryPowder,
			Behavior:    BehaviorPowder,
			Color:       hsv(0, 0, 1),
			Shade:       ShadeRange{Min: 0.75, Max: 1},
		},
		{
			Name:        Water,
			DisplayName: "Water",
			Category:    CategoryLiquid,
			Behavior:    BehaviorLiquid,
			Color:       hsv(243, 0.9, 1),
			Reaction:    &Reaction{Trigger: Lava, Product: Steam},
		},
		{
			Name:        Lava,
			DisplayName: "Lava",
			Category:    CategoryLiquid,
			Behavior:    BehaviorLiquid,
			Color:       hsv(18, 0.95, 1),
			Shade:       ShadeRange{Min: 0.85, Max: 1},
			Reaction:    &Reaction{Trigger: Water, Product: Stone},
		},
		{
			Name:        Steam,
			DisplayName: "Steam",
			Category:    CategoryGas,
			Behavior:    BehaviorGas,
			Color:       hsv(200, 0.1, 0.9),
		},
		{
			Name:        Stone,
			DisplayName: "Stone",
			Category:    CategoryPowder,
			Behavior:    BehaviorPowder,
			Color:       hsv(30, 0.08, 0.45),
			Shade:       ShadeRange{Min: 0.8, Max: 1},
		},
		{
			Name:        ToxicGas,
			DisplayName: "Toxic Gas",
			Category:    CategoryGas,
			Behavior:    BehaviorGas,
			Color:       hsv(95, 0.8, 0.85),
		},
	}
}

// RegisterDefaults registers the standard catalog into r.
func RegisterDefaults(r *Registry) error {
	for _, e := range Catalog() {
		if _, err := r.Register(e); err != nil {
			return fmt.Errorf("default catalog: %w", err)
		}
	}
	return nil
}

// NewDefaultRegistry returns a registry holding the standard catalog.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	if err := RegisterDefaults(r); err != nil {
		return nil, err
	}
	return r, nil
}

func hsv(h, s, v float64) color.RGBA {
	r, g, b, err := colorconv.HSVToRGB(h, s, v)
	if err != nil {
		panic(fmt.Sprintf("element: bad catalog color hsv(%g, %g, %g): %v", h, s, v, err))
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
