package infra

// pdf.go — Libro diario PDF export using go-pdf/fpdf.
// Generates an A4 page per journal entry with:
//   - Header (entry number, date, state)
//   - General description
//   - Line table (account code/description, detail, debe, haber)
//   - Totals row

import (
	"fmt"
	"os"
	"path/filepath"

	"enci/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateAsientoPDF writes a printable rendition of a journal entry.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateAsientoPDF(asiento *model.Asiento, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("asiento_%d.pdf", asiento.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "ENCI — Libro Diario", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6,
		fmt.Sprintf("Asiento N° %d — %s (%s)", asiento.ID, asiento.Fecha.Format("02/01/2006"), asiento.Estado),
		"", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(contentW, 5, asiento.DescripcionGeneral, "", "L", false)
	pdf.Ln(3)

	// ── Line table ───────────────────────────────────────────────────────────
	colCuenta := contentW * 0.34
	colDetalle := contentW * 0.34
	colDebe := contentW * 0.16
	colHaber := contentW * 0.16

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colCuenta, 6, "Cuenta", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colDetalle, 6, "Detalle", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colDebe, 6, "Debe", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colHaber, 6, "Haber", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	totalDebe := decimal.Zero
	totalHaber := decimal.Zero
	for _, linea := range asiento.Transacciones {
		cuenta := fmt.Sprintf("#%d", linea.CuentaID)
		if linea.Cuenta != nil {
			cuenta = linea.Cuenta.Codigo + " " + linea.Cuenta.Descripcion
		}
		if len(cuenta) > 38 {
			cuenta = cuenta[:37] + "…"
		}
		detalle := ""
		if linea.DetalleLinea != nil {
			detalle = *linea.DetalleLinea
		}
		if len(detalle) > 38 {
			detalle = detalle[:37] + "…"
		}

		pdf.CellFormat(colCuenta, 5, cuenta, "", 0, "L", false, 0, "")
		pdf.CellFormat(colDetalle, 5, detalle, "", 0, "L", false, 0, "")
		pdf.CellFormat(colDebe, 5, linea.Debe.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colHaber, 5, linea.Haber.StringFixed(2), "", 1, "R", false, 0, "")

		totalDebe = totalDebe.Add(linea.Debe)
		totalHaber = totalHaber.Add(linea.Haber)
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colCuenta+colDetalle, 6, "Totales:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(colDebe, 6, totalDebe.StringFixed(2), "T", 0, "R", false, 0, "")
	pdf.CellFormat(colHaber, 6, totalHaber.StringFixed(2), "T", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
