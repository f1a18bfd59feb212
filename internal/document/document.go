// Package document lays out estimates as printable A4 pages and encodes them
// as PDF.
package document

import (
	"strings"
	"time"
)

// Page geometry in millimetres (A4 portrait).
const (
	PageWidth   = 210.0
	PageHeight  = 297.0
	MarginLeft  = 15.0
	MarginRight = 195.0
	MarginTop   = 20.0
	BottomLimit = 280.0
)

// ElementKind tells the encoder how to draw an element.
type ElementKind int

const (
	KindText ElementKind = iota
	KindLine
	KindImage
)

// Style is the font state of a text element. Gray 0 is black.
type Style struct {
	Size float64
	Bold bool
	Gray int
}

// Element is one positioned drawing operation.
type Element struct {
	Kind  ElementKind
	X, Y  float64
	X2    float64
	Y2    float64
	W, H  float64
	Text  string
	Style Style
}

// Page is an ordered list of elements.
type Page struct {
	Elements []Element
}

// Document is the rendered form of one or more estimates.
type Document struct {
	Name      string
	Title     string
	CreatedAt time.Time
	Pages     []Page

	logo []byte
}

// HasLogo reports whether the company logo made it into the document.
func (d *Document) HasLogo() bool {
	return len(d.logo) > 0
}

// Texts returns the text of every text element on page i, in drawing order.
func (d *Document) Texts(i int) []string {
	if i < 0 || i >= len(d.Pages) {
		return nil
	}
	var out []string
	for _, el := range d.Pages[i].Elements {
		if el.Kind == KindText {
			out = append(out, el.Text)
		}
	}
	return out
}

// PlainText renders the document as text, one line per row of elements that
// share a baseline, with a form feed between pages.
func (d *Document) PlainText() string {
	var b strings.Builder
	for i, p := range d.Pages {
		if i > 0 {
			b.WriteString("\f\n")
		}
		var (
			row  []string
			rowY = -1.0
		)
		flush := func() {
			if len(row) > 0 {
				b.WriteString(strings.Join(row, "  "))
				b.WriteByte('\n')
			}
			row = row[:0]
		}
		for _, el := range p.Elements {
			switch el.Kind {
			case KindText:
				if el.Y != rowY {
					flush()
					rowY = el.Y
				}
				row = append(row, el.Text)
			case KindLine:
				flush()
				rowY = -1
				b.WriteString(strings.Repeat("-", int((el.X2-el.X)/3)))
				b.WriteByte('\n')
			}
		}
		flush()
	}
	return b.String()
}
