package morse

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/cw-outputs/constant"
)

// Symbol is one element of a playback pattern
type Symbol uint8

const (
	// Dot is one unit of tone
	Dot Symbol = iota
	// Dash is three units of tone
	Dash
	// Gap is three units of silence, used as a letter/word separator.
	// The one-unit silence between adjacent tones is implicit and never
	// encoded.
	Gap
)

// IsTone reports whether the symbol produces audio
func (s Symbol) IsTone() bool {
	return s == Dot || s == Dash
}

// Units returns the symbol length in timing units
func (s Symbol) Units() int {
	switch s {
	case Dash:
		return constant.DashUnits
	case Gap:
		return constant.WordGapUnits
	default:
		return 1
	}
}

// String returns the conventional one-character form
func (s Symbol) String() string {
	switch s {
	case Dot:
		return "."
	case Dash:
		return "-"
	case Gap:
		return "/"
	default:
		return "?"
	}
}

// Pattern is an ordered sequence of symbols. The empty pattern is a
// playback no-op.
type Pattern []Symbol

// Tones returns the number of audible symbols in the pattern
func (p Pattern) Tones() int {
	n := 0
	for _, s := range p {
		if s.IsTone() {
			n++
		}
	}
	return n
}

// String renders the pattern in ".-/" notation
func (p Pattern) String() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}

// ParsePattern converts ".-/" notation into a pattern. Spaces and
// slashes both parse as Gap.
func ParsePattern(text string) (Pattern, error) {
	pattern := make(Pattern, 0, len(text))
	for i, r := range text {
		switch r {
		case '.':
			pattern = append(pattern, Dot)
		case '-':
			pattern = append(pattern, Dash)
		case ' ', '/':
			pattern = append(pattern, Gap)
		default:
			return nil, fmt.Errorf("pattern: invalid symbol %q at index %d", r, i)
		}
	}
	return pattern, nil
}
