package document

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/state"
)

// DefaultNote is printed under the total of every estimate.
const DefaultNote = "Garantía: 6 meses sobre los trabajos realizados."

// ErrNoEstimates is returned when Render is called without estimates.
var ErrNoEstimates = errors.New("no estimates to render")

// Column positions of the pricing table.
const (
	colDescription = MarginLeft
	colUnitPrice   = 120.0
	colTotal       = 170.0
	colTotalRule   = 140.0
	logoSize       = 30.0
	textIndent     = MarginLeft + 35
)

var (
	styleBody    = Style{Size: 10}
	styleBold    = Style{Size: 10, Bold: true}
	styleCompany = Style{Size: 16, Bold: true}
	styleClient  = Style{Size: 14, Bold: true}
	styleMuted   = Style{Size: 10, Gray: 120}
	styleNote    = Style{Size: 9, Gray: 150}
	styleTotal   = Style{Size: 12, Bold: true}
)

// Options configures a Renderer. Zero values pick the defaults.
type Options struct {
	Note         string
	NumberFormat string
	Now          func() time.Time
	Logger       *zap.Logger
}

// Renderer lays out estimates with the company letterhead.
type Renderer struct {
	note   string
	format NumberFormat
	now    func() time.Time
	logger *zap.Logger
}

// NewRenderer returns a Renderer configured by opts.
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{
		note:   opts.Note,
		format: NewNumberFormat(opts.NumberFormat),
		now:    opts.Now,
		logger: opts.Logger,
	}
	if r.note == "" {
		r.note = DefaultNote
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Render lays out each estimate starting on its own page. An unreadable logo
// is left out with a warning; it never fails the render.
func (r *Renderer) Render(estimates []estimate.Estimate, company estimate.CompanyProfile) (*Document, error) {
	if len(estimates) == 0 {
		return nil, ErrNoEstimates
	}

	now := r.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	doc := &Document{
		Name:      FileName(estimates, now),
		Title:     title(estimates),
		CreatedAt: day,
	}

	if company.HasLogo() {
		logo, err := normalizeLogo(company.Logo)
		if err != nil {
			r.logger.Warn("company logo could not be used, rendering without it", zap.Error(err))
		} else {
			doc.logo = logo
		}
	}

	l := &layout{doc: doc}
	for _, e := range estimates {
		l.newPage()
		r.header(l, company, doc.HasLogo())
		r.body(l, e)
	}
	return doc, nil
}

func (r *Renderer) header(l *layout, c estimate.CompanyProfile, withLogo bool) {
	y := l.y
	if withLogo {
		l.add(Element{Kind: KindImage, X: MarginLeft, Y: y, W: logoSize, H: logoSize})
	}
	name := c.Name
	if strings.TrimSpace(name) == "" {
		name = state.DefaultCompanyName
	}
	l.text(textIndent, y+10, name, styleCompany)

	line := y + 17
	if c.Phone != "" {
		l.text(textIndent, line, "Tel: "+c.Phone, styleBody)
		line += 7
	}
	if c.Address != "" {
		l.text(textIndent, line, c.Address, styleBody)
		line += 7
	}
	if c.Email != "" {
		l.text(textIndent, line, c.Email, styleBody)
	}

	l.y = y + 40
	l.rule(MarginLeft, MarginRight)
	l.y += 15
}

func (r *Renderer) body(l *layout, e estimate.Estimate) {
	f := r.format
	calc := e.Calculation

	l.row(10)
	l.text(MarginLeft, l.y, "Presupuesto para: "+e.Client.Name, styleClient)
	l.y += 10

	l.row(7)
	l.text(MarginLeft, l.y, "Fecha: "+e.CreatedDate, styleBody)
	l.y += 7
	if e.Client.Address != "" {
		l.row(7)
		l.text(MarginLeft, l.y, "Dirección: "+e.Client.Address, styleBody)
		l.y += 7
	}
	if e.Client.Phone != "" {
		l.row(7)
		l.text(MarginLeft, l.y, "Tel: "+e.Client.Phone, styleBody)
		l.y += 7
	}
	l.y += 7

	l.row(8)
	l.text(colDescription, l.y, "Descripción", styleBold)
	l.text(colUnitPrice, l.y, "Precio unit.", styleBold)
	l.text(colTotal, l.y, "Total", styleBold)
	l.y += 8

	// The base line shows the rounded gross so that base minus discount
	// equals the net price exactly on paper.
	net := calc.NetPrice.Round(0)
	base := calc.GrossPrice.Round(0)
	if base.LessThan(net) {
		base = net
	}
	unit := calc.MeasureKind.Unit()
	l.row(8)
	l.text(colDescription, l.y, "Trabajo de pintura ("+f.Quantity(calc.Area)+" "+unit+")", styleBody)
	if calc.Area.IsPositive() {
		l.text(colUnitPrice, l.y, f.Money(base.Div(calc.Area))+"/"+unit, styleBody)
	}
	l.text(colTotal, l.y, f.Money(base), styleBody)
	l.y += 8

	// A discount that rounds away leaves nothing to print.
	if discount := base.Sub(net); calc.HasDiscount() && discount.IsPositive() {
		l.row(8)
		l.text(colDescription, l.y, "Descuento aplicado ("+f.Quantity(calc.DiscountPercent)+"%)", styleMuted)
		l.text(colTotal, l.y, f.NegativeMoney(discount), styleMuted)
		l.y += 8
	}

	extras := printable(e.LineItems)
	if len(extras) > 0 {
		l.y += 4
		l.row(8)
		l.text(colDescription, l.y, "Trabajos adicionales:", styleBold)
		l.y += 8
		for _, li := range extras {
			l.row(7)
			desc := strings.TrimSpace(li.Description)
			if desc == "" {
				desc = "Trabajo adicional"
			}
			l.text(MarginLeft+2, l.y, "- "+desc, styleBody)
			l.text(colTotal, l.y, f.Money(li.Amount), styleBody)
			l.y += 7
		}
	}

	l.y += 6
	l.row(26)
	l.rule(colTotalRule, MarginRight)
	l.y += 10
	l.text(colTotalRule, l.y, "TOTAL:", styleTotal)
	l.text(colTotal, l.y, f.Money(e.Total), styleTotal)
	l.y += 16

	l.row(6)
	l.text(MarginLeft, l.y, r.note, styleNote)
	l.y += 6
}

func printable(items []estimate.LineItem) []estimate.LineItem {
	out := make([]estimate.LineItem, 0, len(items))
	for _, li := range items {
		if !li.Blank() {
			out = append(out, li)
		}
	}
	return out
}

func title(estimates []estimate.Estimate) string {
	if len(estimates) == 1 {
		return "Presupuesto - " + estimates[0].Client.Name
	}
	return "Presupuestos"
}

// layout tracks the write position while elements are appended.
type layout struct {
	doc *Document
	y   float64
}

func (l *layout) newPage() {
	l.doc.Pages = append(l.doc.Pages, Page{})
	l.y = MarginTop
}

// row starts a new page when a row of height h would cross the bottom margin.
func (l *layout) row(h float64) {
	if l.y+h > BottomLimit {
		l.newPage()
	}
}

func (l *layout) add(el Element) {
	p := &l.doc.Pages[len(l.doc.Pages)-1]
	p.Elements = append(p.Elements, el)
}

func (l *layout) text(x, y float64, s string, st Style) {
	l.add(Element{Kind: KindText, X: x, Y: y, Text: s, Style: st})
}

func (l *layout) rule(x1, x2 float64) {
	l.add(Element{Kind: KindLine, X: x1, Y: l.y, X2: x2, Y2: l.y})
}
