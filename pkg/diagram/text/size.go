package text

import "errors"

// ErrMeasureFailed is returned when the rendering surface cannot measure
// text. Measurement failure is fatal to a render pass - the engine reports
// it upward instead of guessing sizes.
var ErrMeasureFailed = errors.New("text measurement failed")

// Measurer is the text-measurement capability supplied by a rendering
// surface: given a string and a font size in surface units, it returns the
// rendered width and height of that string.
//
// Measurement is synchronous and must be cheap (bounded by string length).
// It is the only point where sizing reads back from the rendering surface,
// which forces the engine's two-phase update: attach/measure first, then
// size+position+animate.
type Measurer interface {
	MeasureText(s string, fontSize float64) (w, h float64, err error)
}

// MeasurerFunc adapts a plain function to the Measurer interface.
type MeasurerFunc func(s string, fontSize float64) (w, h float64, err error)

// MeasureText calls f.
func (f MeasurerFunc) MeasureText(s string, fontSize float64) (float64, float64, error) {
	return f(s, fontSize)
}

// BoxSpec holds the sizing tunables for node rectangles.
type BoxSpec struct {
	MinWidth   float64 // floor so empty labels still render a clickable target
	MinHeight  float64
	PaddingX   float64 // total horizontal padding added around the widest line
	PaddingY   float64 // total vertical padding added around the line stack
	FontSize   float64
	LineHeight float64 // vertical advance per wrapped line
}

// BoxSize measures wrapped label lines with m and derives the node rectangle:
// width is the widest measured line plus horizontal padding, height is the
// line count times line height plus vertical padding, each clamped to the
// spec minimums.
//
// Box size is purely a rendering concern. It never feeds back into the fixed
// layout grid, so long labels can visually crowd their neighbors - a
// documented tradeoff of keeping positions on the grid.
func BoxSize(lines []string, m Measurer, spec BoxSpec) (w, h float64, err error) {
	var maxLine float64
	for _, line := range lines {
		lw, _, err := m.MeasureText(line, spec.FontSize)
		if err != nil {
			return 0, 0, errors.Join(ErrMeasureFailed, err)
		}
		maxLine = max(maxLine, lw)
	}

	w = max(spec.MinWidth, maxLine+spec.PaddingX)
	h = max(spec.MinHeight, float64(len(lines))*spec.LineHeight+spec.PaddingY)
	return w, h, nil
}
