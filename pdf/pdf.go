// Package pdf renders quotation and invoice documents for download.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/rbpanchal/medimatch-api/models"
)

const (
	companyName    = "RB Panchal Surgical & Medical Equipment"
	companyTagline = "Hospital Furniture | Surgical Instruments | Medical Supplies"
	companyFooter  = "This is a computer generated document and does not require a signature."
)

// Quotation renders a quotation PDF for a cart snapshot.
func Quotation(quoteNumber string, snap *models.CartSnapshot) ([]byte, error) {
	doc := newDocument("QUOTATION")
	doc.metaRow("Quotation No.", quoteNumber)
	doc.metaRow("Date", time.Now().Format("02 Jan 2006"))
	doc.itemsTable(snap.Items)
	doc.totalRow(snap.Total())
	doc.note("This quotation is valid for 15 days from the date of issue. Prices are inclusive of all applicable taxes.")
	return doc.output()
}

// Invoice renders an invoice PDF for a placed order.
func Invoice(invoiceNumber, orderNumber string, snap *models.CartSnapshot) ([]byte, error) {
	doc := newDocument("INVOICE")
	doc.metaRow("Invoice No.", invoiceNumber)
	doc.metaRow("Order No.", orderNumber)
	doc.metaRow("Date", time.Now().Format("02 Jan 2006"))
	if snap.Address != nil {
		doc.billTo(snap.Address)
	}
	doc.itemsTable(snap.Items)
	doc.totalRow(snap.Total())
	doc.note("Thank you for your order. For support contact us with your order number.")
	return doc.output()
}

type document struct {
	pdf *fpdf.Fpdf
}

func newDocument(title string) *document {
	p := fpdf.New("P", "mm", "A4", "")
	p.SetMargins(15, 15, 15)
	p.AddPage()

	p.SetFont("Helvetica", "B", 18)
	p.SetTextColor(20, 60, 120)
	p.CellFormat(0, 10, companyName, "", 1, "C", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.SetTextColor(90, 90, 90)
	p.CellFormat(0, 5, companyTagline, "", 1, "C", false, 0, "")
	p.Ln(4)

	p.SetFont("Helvetica", "B", 14)
	p.SetTextColor(0, 0, 0)
	p.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	p.Ln(3)

	return &document{pdf: p}
}

func (d *document) metaRow(label, value string) {
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.CellFormat(35, 6, label+":", "", 0, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (d *document) billTo(addr *models.AddressSnapshot) {
	d.pdf.Ln(3)
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.CellFormat(0, 6, "Bill To:", "", 1, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.CellFormat(0, 5, addr.FullName, "", 1, "L", false, 0, "")
	line := addr.AddressLine1
	if addr.AddressLine2 != "" {
		line += ", " + addr.AddressLine2
	}
	d.pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	d.pdf.CellFormat(0, 5, fmt.Sprintf("%s, %s %s", addr.City, addr.State, addr.Pincode), "", 1, "L", false, 0, "")
	d.pdf.CellFormat(0, 5, "Phone: "+addr.Phone, "", 1, "L", false, 0, "")
}

func (d *document) itemsTable(items []models.SnapshotItem) {
	p := d.pdf
	p.Ln(5)

	p.SetFont("Helvetica", "B", 10)
	p.SetFillColor(20, 60, 120)
	p.SetTextColor(255, 255, 255)
	p.CellFormat(75, 8, "Item", "1", 0, "L", true, 0, "")
	p.CellFormat(40, 8, "Variant", "1", 0, "L", true, 0, "")
	p.CellFormat(25, 8, "Price", "1", 0, "R", true, 0, "")
	p.CellFormat(15, 8, "Qty", "1", 0, "C", true, 0, "")
	p.CellFormat(25, 8, "Amount", "1", 1, "R", true, 0, "")

	p.SetFont("Helvetica", "", 10)
	p.SetTextColor(0, 0, 0)
	fill := false
	for _, it := range items {
		p.SetFillColor(240, 244, 250)
		p.CellFormat(75, 7, it.ProductName, "1", 0, "L", fill, 0, "")
		p.CellFormat(40, 7, it.VariantName, "1", 0, "L", fill, 0, "")
		p.CellFormat(25, 7, formatAmount(it.Price), "1", 0, "R", fill, 0, "")
		p.CellFormat(15, 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", fill, 0, "")
		p.CellFormat(25, 7, formatAmount(it.LineTotal), "1", 1, "R", fill, 0, "")
		fill = !fill
	}
}

func (d *document) totalRow(total float64) {
	p := d.pdf
	p.SetFont("Helvetica", "B", 11)
	p.CellFormat(155, 9, "Grand Total", "1", 0, "R", false, 0, "")
	p.CellFormat(25, 9, formatAmount(total), "1", 1, "R", false, 0, "")
}

func (d *document) note(text string) {
	p := d.pdf
	p.Ln(8)
	p.SetFont("Helvetica", "I", 9)
	p.SetTextColor(90, 90, 90)
	p.MultiCell(0, 5, text, "", "L", false)
	p.Ln(6)
	p.SetFont("Helvetica", "", 8)
	p.CellFormat(0, 5, companyFooter, "", 1, "C", false, 0, "")
}

func (d *document) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// formatAmount renders rupee amounts. The PDF core fonts lack the rupee
// glyph, so amounts carry the "Rs." prefix instead.
func formatAmount(v float64) string {
	return fmt.Sprintf("Rs. %.2f", v)
}
