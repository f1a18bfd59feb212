package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/pricing"
)

func TestHistoryWorkbook(t *testing.T) {
	ten := decimal.NewFromInt(10)
	c, err := pricing.Calculate(pricing.Area{Height: decimal.NewFromInt(10), Width: decimal.NewFromInt(1)}, pricing.DefaultConfig(), &ten)
	require.NoError(t, err)

	list := []estimate.Estimate{
		{
			ID:          1789000000000000001,
			CreatedDate: "09/03/2026",
			Client:      estimate.ClientInfo{Name: "Ana", Address: "Calle 1", Phone: "555"},
			Calculation: c,
			LineItems:   []estimate.LineItem{{Description: "Resane", Amount: decimal.NewFromInt(2000)}},
			Total:       decimal.NewFromInt(15500),
		},
		{ID: 2, CreatedDate: "10/03/2026", Client: estimate.ClientInfo{Name: "Beto"}},
	}

	data, err := HistoryWorkbook(list)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Header, rows[0])
	first := rows[1]
	assert.Equal(t, "1789000000000000001", first[0])
	assert.Equal(t, "Ana", first[2])
	assert.Equal(t, "m²", first[6])
	assert.Equal(t, "15000", first[8])
	assert.Equal(t, "1500", first[10])
	assert.Equal(t, "13500", first[11])
	assert.Equal(t, "2000", first[12])
	assert.Equal(t, "15500", first[13])
	assert.Equal(t, "Beto", rows[2][2])
}

func TestHistoryWorkbook_EmptyHasHeaderOnly(t *testing.T) {
	data, err := HistoryWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Header, rows[0])
}
