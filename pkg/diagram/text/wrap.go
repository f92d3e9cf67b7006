// Package text provides balanced label wrapping and box sizing for diagram
// nodes.
//
// Wrapping is a character-count heuristic over runes, not word-boundary
// wrapping: it may split mid-word. That is acceptable for short AI-generated
// labels in non-whitespace-delimited scripts (the primary use case is
// Chinese), and keeps every produced line within one rune of the others. An
// implementation targeting space-delimited languages should add a
// word-boundary-preserving wrapper behind the same interface.
package text

// Wrap splits label into length-balanced lines of at most budget runes.
//
// A label within budget comes back as a single line. Longer labels are split
// into the minimum line count k = ceil(len/budget) and then rebalanced to
// c = ceil(len/k) runes per line, so the longest and shortest lines differ by
// at most one rune. Naive fixed-width chunking would turn a 10-rune label
// with budget 9 into a 9+1 split; balancing yields 5+5.
//
// The empty string wraps to a single empty line, never zero lines. A budget
// < 1 is treated as 1.
func Wrap(label string, budget int) []string {
	if budget < 1 {
		budget = 1
	}

	runes := []rune(label)
	if len(runes) <= budget {
		return []string{label}
	}

	k := (len(runes) + budget - 1) / budget // minimum line count
	c := (len(runes) + k - 1) / k           // balanced runes per line

	lines := make([]string, 0, k)
	for start := 0; start < len(runes); start += c {
		end := min(start+c, len(runes))
		lines = append(lines, string(runes[start:end]))
	}
	return lines
}
