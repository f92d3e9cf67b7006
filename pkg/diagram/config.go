package diagram

import (
	"time"

	"github.com/mindtree-io/mindtree/pkg/diagram/text"
)

// Config holds the engine tunables. Zero values are not usable - start from
// DefaultConfig and override fields as needed.
type Config struct {
	// HorizontalSpacing is the fixed distance between depth columns. It is
	// independent of box widths: boxes wider than the column spacing may
	// visually overlap the next column. That is a deliberate
	// simplicity/readability tradeoff, not resolved adaptively.
	HorizontalSpacing float64

	// VerticalSpacing is the fixed distance between leaf slots.
	VerticalSpacing float64

	// WrapBudget is the maximum runes per wrapped label line.
	WrapBudget int

	// Box holds the node rectangle sizing parameters.
	Box text.BoxSpec

	// AnimationDuration is the fixed transition duration applied to every
	// enter/move/exit in a frame.
	AnimationDuration time.Duration
}

// DefaultConfig returns the stock tuning: a grid loose enough for two-line
// CJK labels at 14pt with breathing room between siblings.
func DefaultConfig() Config {
	return Config{
		HorizontalSpacing: 180,
		VerticalSpacing:   56,
		WrapBudget:        10,
		Box: text.BoxSpec{
			MinWidth:   48,
			MinHeight:  28,
			PaddingX:   20,
			PaddingY:   14,
			FontSize:   14,
			LineHeight: 18,
		},
		AnimationDuration: 300 * time.Millisecond,
	}
}
