package algo

import (
	"fmt"

	"github.com/huangsam/likeplot/schema"
)

// ColorScale maps categories to colors by position.
type ColorScale struct {
	assignments []schema.ColorAssignment
	lookup      map[string]string
	cycled      bool
}

// AssignColors gives the i-th distinct category the color palette[i % len(palette)].
// Running out of colors is not an error; Cycled reports it.
func AssignColors(categories []string, palette []string) (*ColorScale, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("assign %d categories: %w", len(categories), schema.ErrEmptyPalette)
	}
	cs := &ColorScale{
		assignments: make([]schema.ColorAssignment, 0, len(categories)),
		lookup:      make(map[string]string, len(categories)),
	}
	for _, c := range categories {
		if _, dup := cs.lookup[c]; dup {
			continue
		}
		color := palette[len(cs.assignments)%len(palette)]
		cs.lookup[c] = color
		cs.assignments = append(cs.assignments, schema.ColorAssignment{Category: c, Color: color})
	}
	cs.cycled = len(cs.assignments) > len(palette)
	return cs, nil
}

// ColorOf returns the color of a category, or "" when it was never assigned.
func (cs *ColorScale) ColorOf(category string) string {
	return cs.lookup[category]
}

// Assignments returns the legend entries in category order.
func (cs *ColorScale) Assignments() []schema.ColorAssignment {
	return append([]schema.ColorAssignment(nil), cs.assignments...)
}

// Cycled reports whether some colors were reused.
func (cs *ColorScale) Cycled() bool {
	return cs.cycled
}
