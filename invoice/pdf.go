package invoice

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"storefront/model"
)

func FileName(orderID uint) string {
	return fmt.Sprintf("invoice-%d.pdf", orderID)
}

// Render produces the invoice PDF for an order: creation date, header, one
// line per snapshot product and the total. Every figure comes from the
// order's snapshots, never from the live catalog.
func Render(o *model.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, o.CreatedAt.UTC().Format("Mon Jan 2 2006 15:04:05"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "U", 26)
	pdf.CellFormat(0, 14, "Invoice", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, "-----------------------", "", 1, "L", false, 0, "")

	for _, line := range o.Lines {
		pdf.CellFormat(0, 8, fmt.Sprintf(
			"%s - %d x $%.2f",
			line.Product.Title, line.Qty, line.Product.Price,
		), "", 1, "L", false, 0, "")
	}

	pdf.CellFormat(0, 8, "---", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 20)
	pdf.CellFormat(0, 10, fmt.Sprintf(
		"Total Price: $%.2f", float64(o.TotalCents())/100,
	), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write persists a rendered invoice under dir, overwriting any previous
// copy for the same order.
func Write(dir string, orderID uint, pdfBytes []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(orderID))
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
