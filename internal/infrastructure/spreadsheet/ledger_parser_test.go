package spreadsheet

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildLedger writes rows into a fresh workbook starting at the given
// sheet row and returns the serialized file.
func buildLedger(t *testing.T, startRow int, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, val := range row {
			if val == nil {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(j+1, startRow+i)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cellName, val))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLedgerParser_SingleExpenseRow(t *testing.T) {
	data := buildLedger(t, 4, [][]interface{}{
		{"Unit", "Item", "Seq", "Year", "Date", "Receipt", "Amount", "Total"},
		{"11", "Water pump", 1, 2026, "01/27/2026", "7170", 24.15, nil},
	})

	result, err := NewLedgerParser().Parse(data)
	require.NoError(t, err)
	require.Equal(t, 1, result.InvoiceCount)

	inv := result.Invoices[0]
	assert.Equal(t, "11", inv.UnitName)
	assert.True(t, inv.Amount.Equal(decimal.NewFromFloat(24.15)))
	assert.Equal(t, "2026-01", inv.Period.String())
	assert.Equal(t, "7170", inv.ReceiptNumber)
	assert.Empty(t, inv.Warning)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromFloat(24.15)))
}

func TestLedgerParser_UnitTotalReconciliation(t *testing.T) {
	t.Run("matching total produces no warning", func(t *testing.T) {
		data := buildLedger(t, 4, [][]interface{}{
			{"Unit", "Item", "Seq", "Year", "Date", "Receipt", "Amount", "Total"},
			{"11", "Water pump", 1, 2026, "01/27/2026", "7170", 24.15, nil},
			{nil, "Total unit 11", nil, nil, nil, nil, nil, 24.15},
		})

		result, err := NewLedgerParser().Parse(data)
		require.NoError(t, err)
		require.Equal(t, 1, result.InvoiceCount)
		assert.Empty(t, result.Invoices[0].Warning)
	})

	t.Run("mismatched total attaches warning to last invoice of block", func(t *testing.T) {
		data := buildLedger(t, 4, [][]interface{}{
			{"Unit", "Item", "Seq", "Year", "Date", "Receipt", "Amount", "Total"},
			{"11", "Water pump", 1, 2026, "01/27/2026", "7170", 24.15, nil},
			{nil, "Total unit 11", nil, nil, nil, nil, nil, 30.00},
		})

		result, err := NewLedgerParser().Parse(data)
		require.NoError(t, err)
		require.Equal(t, 1, result.InvoiceCount)
		assert.Contains(t, result.Invoices[0].Warning, "30.00")
	})

	t.Run("mismatch within tolerance is accepted", func(t *testing.T) {
		data := buildLedger(t, 4, [][]interface{}{
			{"Unit", "Item", "Seq", "Year", "Date", "Receipt", "Amount", "Total"},
			{"11", "Water pump", 1, 2026, "01/27/2026", "7170", 24.15, nil},
			{nil, "Total unit 11", nil, nil, nil, nil, nil, 24.16},
		})

		result, err := NewLedgerParser().Parse(data)
		require.NoError(t, err)
		assert.Empty(t, result.Invoices[0].Warning)
	})
}

func TestLedgerParser_CarriedState(t *testing.T) {
	data := buildLedger(t, 4, [][]interface{}{
		{"Unit", "Item", "Seq", "Year", "Date", "Receipt", "Amount", "Total"},
		{"11", "Pump repair", 1, 2025, "11/03/2025", "9001", 100.00, nil},
		{nil, "Gate motor", 2, nil, "12/10/2025", "9002", 50.50, nil},
		{nil, "Lobby paint", 3, 2026, "01/05/2026", "9003", 20.00, nil},
		{"PH-A", "Roof seal", 1, nil, "02/14/2026", "9004", 75.25, nil},
	})

	result, err := NewLedgerParser().Parse(data)
	require.NoError(t, err)
	require.Equal(t, 4, result.InvoiceCount)

	// Unit and year carry forward across rows that omit them
	assert.Equal(t, "11", result.Invoices[0].UnitName)
	assert.Equal(t, "2025-11", result.Invoices[0].Period.String())
	assert.Equal(t, "11", result.Invoices[1].UnitName)
	assert.Equal(t, "2025-12", result.Invoices[1].Period.String())
	assert.Equal(t, "2026-01", result.Invoices[2].Period.String())

	// A new unit label opens a new block; the year still carries
	assert.Equal(t, "PH-A", result.Invoices[3].UnitName)
	assert.Equal(t, "2026-02", result.Invoices[3].Period.String())

	assert.True(t, result.TotalAmount.Equal(decimal.NewFromFloat(245.75)))
}

func TestLedgerParser_AmountForms(t *testing.T) {
	data := buildLedger(t, 4, [][]interface{}{
		{"Unit", "Item", "Seq", "Year", "Date", "Receipt", "Amount", "Total"},
		{"11", "Plain number", 1, 2026, "01/10/2026", "100", 24.15, nil},
		{nil, "Currency string", 2, nil, "01/11/2026", "101", "$1,234.56", nil},
		{nil, "Comma decimal", 3, nil, "01/12/2026", "102", "Bs. 1.234,56", nil},
		{nil, "Garbage amount", 4, nil, "01/13/2026", "103", "n/a", nil},
		{nil, "Zero amount", 5, nil, "01/14/2026", "104", 0, nil},
	})

	result, err := NewLedgerParser().Parse(data)
	require.NoError(t, err)

	// Non-numeric and non-positive amounts are skipped, not errors
	require.Equal(t, 3, result.InvoiceCount)
	assert.True(t, result.Invoices[0].Amount.Equal(decimal.NewFromFloat(24.15)))
	assert.True(t, result.Invoices[1].Amount.Equal(decimal.NewFromFloat(1234.56)))
	assert.True(t, result.Invoices[2].Amount.Equal(decimal.NewFromFloat(1234.56)))
}

func TestLedgerParser_DateForms(t *testing.T) {
	t.Run("excel serial dates resolve through the epoch offset", func(t *testing.T) {
		// 2026-01-27 is serial 46049 (days since 1899-12-30)
		data := buildLedger(t, 4, [][]interface{}{
			{"Unit", "Item", "Seq", "Year", "Date", "Receipt", "Amount", "Total"},
			{"11", "Serial date", 1, nil, "46049", "7170", 24.15, nil},
		})

		result, err := NewLedgerParser().Parse(data)
		require.NoError(t, err)
		require.Equal(t, 1, result.InvoiceCount)
		assert.Equal(t, "2026-01", result.Invoices[0].Period.String())
		assert.Equal(t, 27, result.Invoices[0].IssueDate.Day())
	})

	t.Run("iso dates parse", func(t *testing.T) {
		data := buildLedger(t, 4, [][]interface{}{
			{"Unit", "Item", "Seq", "Year", "Date", "Receipt", "Amount", "Total"},
			{"11", "ISO date", 1, nil, "2026-03-15", "7171", 10.00, nil},
		})

		result, err := NewLedgerParser().Parse(data)
		require.NoError(t, err)
		require.Equal(t, 1, result.InvoiceCount)
		assert.Equal(t, "2026-03", result.Invoices[0].Period.String())
	})

	t.Run("unparseable date aborts the parse", func(t *testing.T) {
		data := buildLedger(t, 4, [][]interface{}{
			{"Unit", "Item", "Seq", "Year", "Date", "Receipt", "Amount", "Total"},
			{"11", "Bad date", 1, 2026, "not-a-date", "7172", 10.00, nil},
		})

		_, err := NewLedgerParser().Parse(data)
		require.Error(t, err)
		var dateErr *DateError
		require.ErrorAs(t, err, &dateErr)
		assert.Equal(t, "not-a-date", dateErr.Value)
	})
}

func TestLedgerParser_EmptySheet(t *testing.T) {
	data := buildLedger(t, 1, [][]interface{}{
		{"only", "a", "header"},
	})

	_, err := NewLedgerParser().Parse(data)
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestLedgerParser_RowsWithoutContext(t *testing.T) {
	// Expense rows before any unit label are ignored
	data := buildLedger(t, 4, [][]interface{}{
		{"Unit", "Item", "Seq", "Year", "Date", "Receipt", "Amount", "Total"},
		{nil, "Orphan row", 1, 2026, "01/10/2026", "100", 24.15, nil},
	})

	result, err := NewLedgerParser().Parse(data)
	require.NoError(t, err)
	assert.Zero(t, result.InvoiceCount)
}
