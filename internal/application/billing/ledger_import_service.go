package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/property"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/condoledger/backend/internal/infrastructure/spreadsheet"
)

// Unit match states for a previewed import row
const (
	UnitExists      = "EXISTS"
	UnitToBeCreated = "TO_BE_CREATED"
)

// LedgerParser is the port for the workbook parser
type LedgerParser interface {
	Parse(data []byte) (*spreadsheet.ParseResult, error)
}

// ProposedInvoice is one reviewable row of a ledger import
type ProposedInvoice struct {
	UnitName      string          `json:"unit_name"`
	UnitStatus    string          `json:"unit_status"`
	Amount        decimal.Decimal `json:"amount"`
	Period        string          `json:"period"`
	IssueDate     time.Time       `json:"issue_date"`
	ReceiptNumber string          `json:"receipt_number"`
	Warning       string          `json:"warning,omitempty"`
}

// ImportPreview is the reviewable output of PreviewLedgerImport
type ImportPreview struct {
	ProposedInvoices []ProposedInvoice `json:"proposed_invoices"`
	UnitsToCreate    []string          `json:"units_to_create"`
	TotalAmount      decimal.Decimal   `json:"total_amount"`
	InvoiceCount     int               `json:"invoice_count"`
}

// ConfirmedInvoice is one operator-confirmed row of a ledger import
type ConfirmedInvoice struct {
	UnitName      string          `json:"unit_name"`
	Amount        decimal.Decimal `json:"amount"`
	Period        string          `json:"period"`
	IssueDate     time.Time       `json:"issue_date"`
	ReceiptNumber string          `json:"receipt_number"`
	Description   string          `json:"description,omitempty"`
}

// ImportResult summarizes a confirmed import
type ImportResult struct {
	CreatedInvoices int `json:"created_invoices"`
	SkippedInvoices int `json:"skipped_invoices"`
	CreatedUnits    int `json:"created_units"`
}

// LedgerImportService turns a ledger workbook into invoices: preview
// cross-references unit labels against existing units, confirm creates
// missing units and the invoices whose receipt numbers are new to the
// building.
type LedgerImportService struct {
	parser      LedgerParser
	invoiceRepo billing.InvoiceRepository
	unitRepo    property.UnitRepository
	txManager   shared.TransactionManager
	logger      *zap.Logger
}

// NewLedgerImportService creates a new LedgerImportService
func NewLedgerImportService(
	parser LedgerParser,
	invoiceRepo billing.InvoiceRepository,
	unitRepo property.UnitRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *LedgerImportService {
	return &LedgerImportService{
		parser:      parser,
		invoiceRepo: invoiceRepo,
		unitRepo:    unitRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Preview parses the workbook and marks each row's unit as existing or
// pending creation. Nothing is persisted.
func (s *LedgerImportService) Preview(ctx context.Context, data []byte, buildingID uuid.UUID) (*ImportPreview, error) {
	if buildingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUILDING", "Building ID cannot be empty")
	}

	parsed, err := s.parser.Parse(data)
	if err != nil {
		var dateErr *spreadsheet.DateError
		if errors.As(err, &dateErr) {
			return nil, shared.NewDomainError("VALIDATION", dateErr.Error())
		}
		return nil, shared.NewDomainError("INVALID_WORKBOOK", err.Error())
	}

	units, err := s.unitRepo.FindByBuilding(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load building units: %w", err)
	}
	known := make(map[string]bool, len(units))
	for i := range units {
		known[strings.ToLower(units[i].Name)] = true
	}

	preview := &ImportPreview{
		ProposedInvoices: make([]ProposedInvoice, 0, len(parsed.Invoices)),
		TotalAmount:      parsed.TotalAmount,
		InvoiceCount:     parsed.InvoiceCount,
	}
	missing := make(map[string]bool)
	for _, inv := range parsed.Invoices {
		status := UnitExists
		if !known[strings.ToLower(inv.UnitName)] {
			status = UnitToBeCreated
			if !missing[strings.ToLower(inv.UnitName)] {
				missing[strings.ToLower(inv.UnitName)] = true
				preview.UnitsToCreate = append(preview.UnitsToCreate, inv.UnitName)
			}
		}
		preview.ProposedInvoices = append(preview.ProposedInvoices, ProposedInvoice{
			UnitName:      inv.UnitName,
			UnitStatus:    status,
			Amount:        inv.Amount,
			Period:        inv.Period.String(),
			IssueDate:     inv.IssueDate,
			ReceiptNumber: inv.ReceiptNumber,
			Warning:       inv.Warning,
		})
	}
	return preview, nil
}

// Confirm creates any missing units, then creates the confirmed
// invoices whose receipt number is not already present in the building.
// Re-importing the same sheet is a no-op for already-loaded receipts.
func (s *LedgerImportService) Confirm(ctx context.Context, confirmed []ConfirmedInvoice, buildingID uuid.UUID) (*ImportResult, error) {
	if buildingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUILDING", "Building ID cannot be empty")
	}
	if len(confirmed) == 0 {
		return nil, shared.NewDomainError("VALIDATION", "No invoices to import")
	}

	result := &ImportResult{}
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		units, err := s.unitRepo.FindByBuilding(ctx, buildingID)
		if err != nil {
			return fmt.Errorf("failed to load building units: %w", err)
		}
		unitsByName := make(map[string]*property.Unit, len(units))
		for i := range units {
			unitsByName[strings.ToLower(units[i].Name)] = &units[i]
		}

		var newUnits []*property.Unit
		for _, row := range confirmed {
			key := strings.ToLower(row.UnitName)
			if unitsByName[key] != nil {
				continue
			}
			unit, err := property.NewUnit(buildingID, row.UnitName)
			if err != nil {
				return err
			}
			unitsByName[key] = unit
			newUnits = append(newUnits, unit)
		}
		if len(newUnits) > 0 {
			if err := s.unitRepo.CreateBatch(ctx, newUnits); err != nil {
				return fmt.Errorf("failed to create units: %w", err)
			}
			result.CreatedUnits = len(newUnits)
		}

		existing, err := s.invoiceRepo.ListReceiptNumbers(ctx, buildingID)
		if err != nil {
			return fmt.Errorf("failed to load receipt numbers: %w", err)
		}
		seen := make(map[string]bool, len(existing))
		for _, r := range existing {
			seen[r] = true
		}

		var invoices []*billing.Invoice
		for _, row := range confirmed {
			if row.ReceiptNumber != "" && seen[row.ReceiptNumber] {
				result.SkippedInvoices++
				continue
			}
			period, err := valueobject.ParsePeriod(row.Period)
			if err != nil {
				return shared.NewDomainError("INVALID_PERIOD", fmt.Sprintf("receipt %s: %v", row.ReceiptNumber, err))
			}
			amount, err := valueobject.NewMoney(row.Amount, valueobject.DefaultCurrency)
			if err != nil {
				return shared.NewDomainError("INVALID_AMOUNT", fmt.Sprintf("receipt %s: %v", row.ReceiptNumber, err))
			}
			unit := unitsByName[strings.ToLower(row.UnitName)]
			if unit == nil {
				return shared.NewDomainError("UNIT_NOT_FOUND", fmt.Sprintf("unit %s not found", row.UnitName))
			}
			invoice, err := billing.NewInvoice(unit.GetID(), amount, period, billing.InvoiceTypeExpense, row.IssueDate, nil)
			if err != nil {
				return err
			}
			invoice.WithReceiptNumber(row.ReceiptNumber).WithDescription(row.Description)
			invoices = append(invoices, invoice)
			if row.ReceiptNumber != "" {
				seen[row.ReceiptNumber] = true
			}
		}
		if len(invoices) > 0 {
			if err := s.invoiceRepo.CreateBatch(ctx, invoices); err != nil {
				return fmt.Errorf("failed to create invoices: %w", err)
			}
		}
		result.CreatedInvoices = len(invoices)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ledger import confirmed",
		zap.String("building_id", buildingID.String()),
		zap.Int("created_invoices", result.CreatedInvoices),
		zap.Int("skipped_invoices", result.SkippedInvoices),
		zap.Int("created_units", result.CreatedUnits),
	)
	return result, nil
}
