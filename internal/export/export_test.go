package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"assetverse/internal/model"
)

func TestAssetsXLSX(t *testing.T) {
	assets := []model.Asset{
		{ProductName: "Laptop", ProductType: "Returnable", ProductQuantity: 3, AvailableQuantity: 2, CompanyName: "Acme", DateAdded: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{ProductName: "Mouse", ProductType: "Non-returnable", ProductQuantity: 10, AvailableQuantity: 10, CompanyName: "Acme"},
	}

	buf, err := AssetsXLSX(assets)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(assetSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, assetHeaders, rows[0])
	assert.Equal(t, []string{"Laptop", "Returnable", "3", "2", "Acme", "2024-05-01"}, rows[1])
	assert.Equal(t, "Mouse", rows[2][0])
}

func TestAssetsXLSX_Empty(t *testing.T) {
	buf, err := AssetsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(assetSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReceiptPDF(t *testing.T) {
	p := &model.Payment{
		ID:            uuid.New(),
		UserEmail:     "hr@acme.io",
		PackageName:   "Pro",
		EmployeeLimit: 10,
		Amount:        decimal.NewFromInt(10),
		Currency:      "usd",
		TransactionID: "cs_test_1",
		Status:        model.PaymentStatusCompleted,
		PaymentDate:   time.Now(),
	}

	out, err := ReceiptPDF(p)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
