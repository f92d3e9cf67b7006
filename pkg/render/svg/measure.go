package svg

import (
	"github.com/mattn/go-runewidth"

	"github.com/mindtree-io/mindtree/pkg/diagram/text"
)

// halfWidthAdvance is the approximate advance of a half-width glyph as a
// fraction of the font size, calibrated against common sans-serif fonts.
// Full-width (CJK) glyphs advance at twice this, which runewidth reports as
// a cell width of 2.
const halfWidthAdvance = 0.55

// Measurer returns the sink's text-measurement capability: an estimating
// measurer based on font-metric ratios with wcwidth-style handling of
// double-width CJK runes. SVG has no glyph metrics to read back, so an
// estimate is the best a standalone file can do; it errs slightly wide,
// which pads boxes rather than clipping them.
func Measurer() text.Measurer {
	return text.MeasurerFunc(func(s string, fontSize float64) (float64, float64, error) {
		cells := float64(runewidth.StringWidth(s))
		return cells * fontSize * halfWidthAdvance, fontSize, nil
	})
}
