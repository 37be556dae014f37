package spreadsheet

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/condoledger/backend/internal/domain/shared/valueobject"
)

// Column positions in the ledger sheet. An eighth column carries the
// running unit total on subtotal rows.
const (
	colUnit = iota
	colItem
	colSequence
	colYear
	colDate
	colReceipt
	colAmount
	colUnitTotal
)

// excelEpochOffset converts an Excel date serial (days since 1899-12-30)
// into a Unix timestamp: (serial - 25569) * 86400 seconds.
const excelEpochOffset = 25569

// totalTolerance is the allowed drift between the accumulated block sum
// and the sheet's own unit-total cell before a discrepancy is flagged.
var totalTolerance = decimal.NewFromFloat(0.01)

// ParsedInvoice is one proposed invoice extracted from an expense row.
type ParsedInvoice struct {
	UnitName      string          `json:"unit_name"`
	Amount        decimal.Decimal `json:"amount"`
	Period        valueobject.Period `json:"period"`
	IssueDate     time.Time       `json:"issue_date"`
	ReceiptNumber string          `json:"receipt_number"`
	Warning       string          `json:"warning,omitempty"`
}

// ParseResult is the full parse output plus its summary figures.
type ParseResult struct {
	Invoices     []ParsedInvoice `json:"invoices"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	InvoiceCount int             `json:"invoice_count"`
}

// LedgerParser extracts proposed invoices from a ledger workbook. Rows
// are processed in order with carried state: the unit label and the year
// appear once per block and apply to every row below them until the next
// block starts.
type LedgerParser struct {
	dataStartRow int
}

// ParserOption configures a LedgerParser
type ParserOption func(*LedgerParser)

// WithDataStartRow overrides the first data row (1-based). The header
// row is the one immediately above it.
func WithDataStartRow(row int) ParserOption {
	return func(p *LedgerParser) {
		if row > 1 {
			p.dataStartRow = row
		}
	}
}

// NewLedgerParser creates a parser with the conventional layout: data
// begins at row 5, header at row 4.
func NewLedgerParser(opts ...ParserOption) *LedgerParser {
	p := &LedgerParser{dataStartRow: 5}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads the first worksheet of the workbook and returns every
// proposed invoice it contains. A unit-total mismatch beyond the 0.01
// tolerance attaches a warning to the last invoice of the block;
// parsing continues. An unparseable date on an expense row is fatal.
func (p *LedgerParser) Parse(data []byte) (*ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet: %w", err)
	}
	if len(rows) < p.dataStartRow {
		return nil, ErrNoDataRows
	}

	result := &ParseResult{TotalAmount: decimal.Zero}

	var (
		currentUnit    string
		currentYear    int
		currentUnitSum = decimal.Zero
		blockIndices   []int
	)

	for i := p.dataStartRow - 1; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1

		unitCell := strings.TrimSpace(cell(row, colUnit))
		itemCell := strings.TrimSpace(cell(row, colItem))
		totalRow := isTotalToken(unitCell) || isTotalToken(itemCell)

		// A non-empty unit label opens a new block
		if unitCell != "" && !totalRow {
			currentUnit = unitCell
			currentUnitSum = decimal.Zero
			blockIndices = nil
		}

		if year, ok := parseYear(cell(row, colYear)); ok {
			currentYear = year
		}

		dateCell := strings.TrimSpace(cell(row, colDate))
		receiptCell := strings.TrimSpace(cell(row, colReceipt))
		amountCell := strings.TrimSpace(cell(row, colAmount))

		if dateCell != "" && receiptCell != "" && amountCell != "" && currentUnit != "" {
			amount := parseAmount(amountCell)
			if amount.IsPositive() {
				issueDate, err := parseDate(dateCell)
				if err != nil {
					return nil, &DateError{Row: rowNum, Value: dateCell}
				}

				year := currentYear
				if year == 0 {
					year = issueDate.Year()
				}
				period, err := valueobject.NewPeriod(year, issueDate.Month())
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", rowNum, err)
				}

				result.Invoices = append(result.Invoices, ParsedInvoice{
					UnitName:      currentUnit,
					Amount:        amount,
					Period:        period,
					IssueDate:     issueDate,
					ReceiptNumber: receiptCell,
				})
				currentUnitSum = currentUnitSum.Add(amount)
				blockIndices = append(blockIndices, len(result.Invoices)-1)
			}
		}

		// Subtotal rows close the block: reconcile against the sheet's
		// own figure and flag the discrepancy on the block's last invoice
		if totalCell := strings.TrimSpace(cell(row, colUnitTotal)); totalCell != "" && len(blockIndices) > 0 {
			unitTotal := parseAmount(totalCell)
			if unitTotal.IsPositive() {
				diff := currentUnitSum.Sub(unitTotal).Abs()
				if diff.GreaterThan(totalTolerance) {
					last := blockIndices[len(blockIndices)-1]
					result.Invoices[last].Warning = fmt.Sprintf(
						"unit %s: accumulated amount %s does not match sheet total %s",
						currentUnit, currentUnitSum.StringFixed(2), unitTotal.StringFixed(2),
					)
				}
			}
		}
	}

	for _, inv := range result.Invoices {
		result.TotalAmount = result.TotalAmount.Add(inv.Amount)
	}
	result.InvoiceCount = len(result.Invoices)
	return result, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func isTotalToken(s string) bool {
	return strings.Contains(strings.ToLower(s), "total")
}

func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Year cells sometimes render as "2026.0"
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		year := int(f)
		if year >= 1900 && year <= 9999 {
			return year, true
		}
	}
	return 0, false
}

// parseAmount normalizes the amount cell: plain numbers, cached formula
// results, or currency strings with symbols and comma decimals. Anything
// non-numeric parses to zero and the row is skipped upstream.
func parseAmount(s string) decimal.Decimal {
	cleaned := strings.TrimSpace(s)
	for _, sym := range []string{"$", "Bs.", "Bs", "USD", "VES", "€", " "} {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Whichever separator appears last is the decimal point
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"01-02-2006",
	"01/02/06",
	"02-Jan-06",
	"Jan 2, 2006",
	time.RFC3339,
}

// parseDate accepts the three forms a date cell renders as: a formatted
// date string, an Excel serial number, or an ISO timestamp.
func parseDate(s string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, fmt.Errorf("invalid date serial %v", serial)
		}
		secs := (serial - excelEpochOffset) * 86400
		return time.Unix(int64(math.Round(secs)), 0).UTC(), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}
