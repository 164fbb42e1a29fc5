package domain

import "fmt"

// Selection is the identifier the view layer uses for a category.
type Selection string

const (
	SelectionAll    Selection = "all"
	SelectionFlares Selection = "solar-flares"
	SelectionCME    Selection = "cme"
	SelectionStorms Selection = "geomagnetic"
)

// ParseSelection maps a view identifier to its category.
func ParseSelection(s string) (Category, error) {
	switch Selection(s) {
	case SelectionFlares:
		return CategoryFlare, nil
	case SelectionCME:
		return CategoryCME, nil
	case SelectionStorms:
		return CategoryStorm, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSelection, s)
	}
}

// SelectionOf is the inverse of ParseSelection.
func SelectionOf(c Category) Selection {
	switch c {
	case CategoryFlare:
		return SelectionFlares
	case CategoryCME:
		return SelectionCME
	case CategoryStorm:
		return SelectionStorms
	default:
		return Selection(c)
	}
}

// Title is the preview heading for a category.
func Title(c Category) string {
	switch c {
	case CategoryFlare:
		return "Solar Flare Events Preview"
	case CategoryCME:
		return "CME Events Preview"
	case CategoryStorm:
		return "Geomagnetic Storm Events Preview"
	default:
		return "Events Preview"
	}
}
