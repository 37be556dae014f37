package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/shared"
)

// InvoiceBalance is one pending invoice line in a unit balance report
type InvoiceBalance struct {
	InvoiceID  uuid.UUID           `json:"invoice_id"`
	Period     string              `json:"period"`
	Type       billing.InvoiceType `json:"type"`
	Amount     decimal.Decimal     `json:"amount"`
	PaidAmount decimal.Decimal     `json:"paid_amount"`
	Remaining  decimal.Decimal     `json:"remaining"`
	IssueDate  time.Time           `json:"issue_date"`
	DueDate    *time.Time          `json:"due_date,omitempty"`
	Description string             `json:"description,omitempty"`
}

// UnitBalance aggregates a unit's outstanding debt
type UnitBalance struct {
	UnitID          uuid.UUID        `json:"unit_id"`
	TotalDebt       decimal.Decimal  `json:"total_debt"`
	PendingInvoices int              `json:"pending_invoices"`
	Details         []InvoiceBalance `json:"details"`
}

// BalanceService derives unit debt summaries from pending invoices.
// It is a pure read-side aggregation; correctness rests on paid_amount
// being settled transactionally with every allocation.
type BalanceService struct {
	invoiceRepo billing.InvoiceRepository
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(invoiceRepo billing.InvoiceRepository) *BalanceService {
	return &BalanceService{invoiceRepo: invoiceRepo}
}

// GetUnitBalance returns the unit's pending invoices with a positive
// remaining balance, and their total.
func (s *BalanceService) GetUnitBalance(ctx context.Context, unitID uuid.UUID) (*UnitBalance, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}

	invoices, err := s.invoiceRepo.FindPendingByUnit(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending invoices: %w", err)
	}

	balance := &UnitBalance{
		UnitID:    unitID,
		TotalDebt: decimal.Zero,
		Details:   []InvoiceBalance{},
	}
	for i := range invoices {
		inv := &invoices[i]
		remaining := inv.Remaining()
		if !remaining.IsPositive() {
			continue
		}
		balance.Details = append(balance.Details, InvoiceBalance{
			InvoiceID:   inv.GetID(),
			Period:      inv.Period.String(),
			Type:        inv.Type,
			Amount:      inv.Amount,
			PaidAmount:  inv.PaidAmount,
			Remaining:   remaining,
			IssueDate:   inv.IssueDate,
			DueDate:     inv.DueDate,
			Description: inv.Description,
		})
		balance.TotalDebt = balance.TotalDebt.Add(remaining)
	}
	balance.PendingInvoices = len(balance.Details)
	return balance, nil
}

// ListUnitInvoices returns the unit's invoices matching the filter
func (s *BalanceService) ListUnitInvoices(ctx context.Context, unitID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}

	invoices, err := s.invoiceRepo.FindByUnit(ctx, unitID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}
