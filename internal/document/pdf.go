package document

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const logoImageName = "logo"

// WritePDF encodes the document as PDF. The output depends only on the
// document, so rendering the same estimates on the same day yields the same
// bytes.
func (d *Document) WritePDF(w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(d.CreatedAt)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(MarginLeft, MarginTop, PageWidth-MarginRight)
	pdf.SetTitle(d.Title, true)
	pdf.SetCreator("PintorPro", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	logoOpts := fpdf.ImageOptions{ImageType: "PNG"}
	withLogo := false
	if len(d.logo) > 0 {
		pdf.RegisterImageOptionsReader(logoImageName, logoOpts, bytes.NewReader(d.logo))
		if pdf.Err() {
			pdf.ClearError()
		} else {
			withLogo = true
		}
	}

	for _, page := range d.Pages {
		pdf.AddPage()
		for _, el := range page.Elements {
			switch el.Kind {
			case KindText:
				style := ""
				if el.Style.Bold {
					style = "B"
				}
				pdf.SetFont("Helvetica", style, el.Style.Size)
				pdf.SetTextColor(el.Style.Gray, el.Style.Gray, el.Style.Gray)
				pdf.Text(el.X, el.Y, tr(el.Text))
			case KindLine:
				pdf.SetDrawColor(0, 0, 0)
				pdf.SetLineWidth(0.2)
				pdf.Line(el.X, el.Y, el.X2, el.Y2)
			case KindImage:
				if withLogo {
					pdf.ImageOptions(logoImageName, el.X, el.Y, el.W, el.H, false, logoOpts, 0, "")
				}
			}
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// PDF returns the encoded document.
func (d *Document) PDF() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WritePDF(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
