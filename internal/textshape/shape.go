// Package textshape measures terminal display width and transliterates
// text to 7-bit-safe ASCII. Widths are codepoint-aware (CJK doublewidth,
// combining marks), not byte lengths.
package textshape

import (
	"errors"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrUnavailable signals that the transliteration engine could not process
// the input. Callers decide whether to degrade or abort.
var ErrUnavailable = errors.New("transliteration unavailable")

// Shaper measures display width and optionally transliterates to ASCII.
type Shaper interface {
	// Width returns the number of terminal columns the string occupies.
	Width(s string) int
	// ToASCII returns a 7-bit-safe rendition of s, or ErrUnavailable.
	ToASCII(s string) (string, error)
}

type unicodeShaper struct {
	strip transform.Transformer
}

// New returns the standard shaper: runewidth-based width measurement and
// NFD-decompose/strip-combining-marks transliteration.
func New() Shaper {
	return &unicodeShaper{
		strip: transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

func (u *unicodeShaper) Width(s string) int {
	return runewidth.StringWidth(s)
}

func (u *unicodeShaper) ToASCII(s string) (string, error) {
	out, _, err := transform.String(u.strip, s)
	if err != nil {
		return s, ErrUnavailable
	}
	// Whatever decomposition could not reduce gets a placeholder so the
	// result is guaranteed 7-bit.
	mapped := make([]rune, 0, len(out))
	for _, r := range out {
		if r > unicode.MaxASCII {
			r = '?'
		}
		mapped = append(mapped, r)
	}
	return string(mapped), nil
}
