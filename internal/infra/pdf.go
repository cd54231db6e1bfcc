package infra

// pdf.go — credit note document generation using go-pdf/fpdf.
// The output file is saved to storagePath/credit_note_{number}.pdf and the
// relative file name is what ends up in credit_notes.document_path.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/codigix/passion-clothing-sub009/internal/model"
)

// GenerateCreditNotePDF renders the formal credit note document.
// Returns the file name relative to storagePath.
func GenerateCreditNotePDF(cn *model.CreditNote, companyName, vendorName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("credit_note_%s.pdf", strings.ReplaceAll(cn.CreditNoteNumber, "/", "_"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, companyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, "CREDIT NOTE", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Document info ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW/2, 6, cn.CreditNoteNumber, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 6, cn.CreatedAt.Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	if vendorName != "" {
		pdf.CellFormat(contentW, 5, "Vendor: "+vendorName, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Type: "+strings.ReplaceAll(cn.CreditNoteType, "_", " "), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Items table ─────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // material
	col2 := contentW * 0.15 // color
	col3 := contentW * 0.12 // qty
	col4 := contentW * 0.15 // unit price
	col5 := contentW * 0.18 // line value

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Material", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Color", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Unit Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "Value", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range cn.Items {
		name := item.MaterialName
		if len(name) > 34 {
			name = name[:33] + "…"
		}
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, item.Color, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, item.Quantity.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, item.LineValue.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ──────────────────────────────────────────────────────────────
	labelW := col1 + col2 + col3 + col4
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, cn.SubtotalCreditAmount.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 6, fmt.Sprintf("Tax (%s%%):", cn.TaxPercentage.String()), "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, cn.TaxAmount.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 8, "TOTAL CREDIT:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 8, cn.TotalCreditAmount.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ──────────────────────────────────────────────────────────────
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Settlement method: "+strings.ReplaceAll(cn.SettlementMethod, "_", " "), "", 1, "L", false, 0, "")
	if cn.Notes != "" {
		pdf.MultiCell(contentW, 5, "Notes: "+cn.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return fileName, nil
}
