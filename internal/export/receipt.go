package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"assetverse/internal/model"
)

// ReceiptPDF renders a one page receipt for a confirmed payment.
func ReceiptPDF(p *model.Payment) (file []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("render receipt: %v", r)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("AssetVerse receipt "+p.TransactionID, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "AssetVerse - Payment receipt")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 12)
	rows := [][2]string{
		{"Receipt", p.ID.String()},
		{"Transaction", p.TransactionID},
		{"Billed to", p.UserEmail},
		{"Package", p.PackageName},
		{"Employee limit", fmt.Sprintf("%d", p.EmployeeLimit)},
		{"Amount", p.Amount.StringFixed(2) + " " + strings.ToUpper(p.Currency)},
		{"Status", string(p.Status)},
		{"Date", p.PaymentDate.UTC().Format("2006-01-02 15:04 MST")},
	}
	for _, r := range rows {
		pdf.CellFormat(50, 8, r[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(130, 8, r[1], "1", 1, "L", false, 0, "")
	}
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, errors.Wrap(err, "write receipt")
	}
	return buf.Bytes(), nil
}
