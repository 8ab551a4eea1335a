package ui

import (
	"fmt"
	"strings"

	"github.com/farmq/farmq/internal/errors"
	"github.com/farmq/farmq/internal/textshape"
)

// Align controls how a column's cells are padded.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Header describes one table column.
type Header struct {
	Title string
	Align Align
	// Shaped marks columns whose text may need transliteration when
	// rendering ASCII-only output (names, platforms). Numeric columns
	// leave it unset.
	Shaped bool
}

// Border glyph sets. The rich set needs a terminal that renders box
// drawing; the 7-bit set is safe everywhere.
const (
	barGlyph   = "│"
	ruleGlyph  = "─"
	crossGlyph = "┼"

	barGlyphASCII   = "|"
	ruleGlyphASCII  = "-"
	crossGlyphASCII = "+"
)

// Renderer lays out rows into an aligned, optionally bordered text block.
// When strict is set, a failed transliteration aborts the render instead
// of degrading to the untransliterated text.
type Renderer struct {
	shaper textshape.Shaper
	strict bool
}

// NewRenderer creates a table renderer on top of the given shaper.
func NewRenderer(shaper textshape.Shaper, strict bool) *Renderer {
	return &Renderer{shaper: shaper, strict: strict}
}

// Render lays out cells into a table. cells is a flat row-major sequence
// whose length must be a multiple of len(headers); the header titles form
// row 0. plain drops all border glyphs and the header rule; asciiOnly
// transliterates shaped columns and selects the 7-bit glyph set.
//
// Column widths are computed globally over all rows before any padding,
// because alignment depends on the final column width.
func (r *Renderer) Render(headers []Header, cells []string, plain, asciiOnly bool) (string, error) {
	cols := len(headers)
	if cols == 0 {
		return "", nil
	}
	if len(cells)%cols != 0 {
		return "", fmt.Errorf("table: %d cells do not fill rows of %d columns", len(cells), cols)
	}

	// Row 0 is the header itself; it participates in width measurement
	// and shaping like any other row.
	all := make([]string, 0, cols+len(cells))
	for _, h := range headers {
		all = append(all, h.Title)
	}
	all = append(all, cells...)

	if asciiOnly {
		for i, cell := range all {
			if !headers[i%cols].Shaped {
				continue
			}
			t, err := r.shaper.ToASCII(cell)
			if err != nil {
				if r.strict {
					return "", errors.WrapWithCode(err, errors.ErrShaping,
						"Cannot transliterate table contents to ASCII",
						"Drop --strict-ascii to fall back to the raw text.")
				}
				continue // degrade: keep the untransliterated cell
			}
			all[i] = t
		}
	}

	// First and last column get one space of margin before the per-column
	// maximum is taken, so outer columns never touch the terminal edge.
	widths := make([]int, cols)
	for i, cell := range all {
		c := i % cols
		w := r.shaper.Width(cell)
		if !plain && (c == 0 || c == cols-1) {
			w++
		}
		if w > widths[c] {
			widths[c] = w
		}
	}

	bar, rule, cross := barGlyph, ruleGlyph, crossGlyph
	if asciiOnly {
		bar, rule, cross = barGlyphASCII, ruleGlyphASCII, crossGlyphASCII
	}
	sep := " "
	if !plain {
		sep = " " + bar + " "
	}

	var b strings.Builder
	rows := len(all) / cols
	for row := 0; row < rows; row++ {
		line := make([]string, cols)
		for c := 0; c < cols; c++ {
			line[c] = r.pad(all[row*cols+c], widths[c], headers[c].Align)
		}
		b.WriteString(strings.Join(line, sep))
		b.WriteString("\n")

		if row == 0 && !plain {
			runs := make([]string, cols)
			for c := 0; c < cols; c++ {
				runs[c] = strings.Repeat(rule, widths[c])
			}
			b.WriteString(strings.Join(runs, rule+cross+rule))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// pad fills cell out to width columns. Centered cells put the spare space
// after the text when the deficit is odd.
func (r *Renderer) pad(cell string, width int, align Align) string {
	deficit := width - r.shaper.Width(cell)
	if deficit <= 0 {
		return cell
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", deficit) + cell
	case AlignCenter:
		before := deficit / 2
		return strings.Repeat(" ", before) + cell + strings.Repeat(" ", deficit-before)
	default:
		return cell + strings.Repeat(" ", deficit)
	}
}
