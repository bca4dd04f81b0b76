package export

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"assetverse/internal/model"
)

const assetSheet = "Assets"

var assetHeaders = []string{"Product", "Type", "Total", "Available", "Company", "Date added"}

// AssetsXLSX renders an inventory sheet.
func AssetsXLSX(assets []model.Asset) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("close xlsx file")
		}
	}()

	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, assetHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "write xlsx header")
	}
	for _, a := range assets {
		row++
		values := []interface{}{
			a.ProductName,
			a.ProductType,
			a.ProductQuantity,
			a.AvailableQuantity,
			a.CompanyName,
			a.DateAdded.Format("2006-01-02"),
		}
		for col, v := range values {
			if err := writeCell(f, sheet, col+1, row, v); err != nil {
				return nil, errors.Wrap(err, "write xlsx row")
			}
		}
	}
	if err := f.SetSheetName(sheet, assetSheet); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}
	return f.WriteToBuffer()
}

func writeCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string) (int, error) {
	row++
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return row, err
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return row, err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return row, err
	}
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return row, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return row, err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 22); err != nil {
		return row, err
	}
	for idx, h := range headers {
		if err := writeCell(f, sheet, idx+1, row, h); err != nil {
			return row, err
		}
	}
	return row, nil
}
