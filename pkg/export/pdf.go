// Package export renders the shopping list as a downloadable PDF: a striped
// item/quantity table followed by the free-text notes.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"prolist/pkg/list"
)

// Line is one rendered item/quantity row.
type Line struct {
	Name     string
	Quantity int
}

// Document is the renderable list snapshot.
type Document struct {
	Title string
	Date  string
	Lines []Line
	Notes string
}

// Build assembles a Document from the current list state. Rows follow
// catalog order; quantities referencing items no longer in the catalog are
// skipped, matching what the user sees on screen.
func Build(items []list.Item, quantities list.Quantities, notes string, now time.Time) Document {
	doc := Document{
		Title: "ProList - Item List",
		Date:  now.Format("2006-01-02"),
		Notes: notes,
	}
	for _, it := range items {
		if qty, ok := quantities[it.ID]; ok {
			doc.Lines = append(doc.Lines, Line{Name: it.Name, Quantity: qty})
		}
	}
	return doc
}

// PDF writes the document as a PDF to w.
func PDF(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, doc.Title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Date: "+doc.Date)
	pdf.Ln(10)

	if len(doc.Lines) == 0 {
		pdf.Cell(0, 8, "No items selected.")
		pdf.Ln(10)
	} else {
		// header row, navy fill
		pdf.SetFillColor(46, 58, 135)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(130, 8, "Item", "1", 0, "L", true, 0, "")
		pdf.CellFormat(40, 8, "Quantity", "1", 1, "C", true, 0, "")

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 11)
		for i, line := range doc.Lines {
			fill := i%2 == 1
			pdf.SetFillColor(240, 240, 245)
			pdf.CellFormat(130, 8, line.Name, "1", 0, "L", fill, 0, "")
			pdf.CellFormat(40, 8, fmt.Sprintf("%d", line.Quantity), "1", 1, "C", fill, 0, "")
		}
		pdf.Ln(6)
	}

	if doc.Notes != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Notes:")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(170, 5, doc.Notes, "", "L", false)
	}

	return pdf.Output(w)
}
