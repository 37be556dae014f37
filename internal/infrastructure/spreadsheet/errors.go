package spreadsheet

import (
	"errors"
	"fmt"
)

// Parse error codes surfaced to callers alongside DomainError mapping
const (
	ErrCodeEmptyWorkbook = "ERR_LEDGER_EMPTY_WORKBOOK"
	ErrCodeInvalidFile   = "ERR_LEDGER_INVALID_FILE"
	ErrCodeInvalidDate   = "ERR_LEDGER_INVALID_DATE"
)

var (
	// ErrEmptyWorkbook is returned when the workbook has no worksheet
	ErrEmptyWorkbook = errors.New("workbook contains no worksheet")

	// ErrNoDataRows is returned when the sheet ends before the data region
	ErrNoDataRows = errors.New("worksheet contains no data rows")
)

// DateError is a fatal row-scoped parse failure: an expense row carries a
// date the parser cannot interpret, so the whole parse aborts.
type DateError struct {
	Row   int
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("row %d: unparseable date %q", e.Row, e.Value)
}
