package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
)

// SettlementService applies allocation money to invoices. It replaces
// the storage-side recomputation of paid_amount with an explicit domain
// operation, so callers run it in the same transaction that persists
// the allocation.
type SettlementService struct {
	invoiceRepo billing.InvoiceRepository
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(invoiceRepo billing.InvoiceRepository) *SettlementService {
	return &SettlementService{invoiceRepo: invoiceRepo}
}

// SettleInvoice credits the amount against the invoice's paid balance
// and persists it. The invoice flips to PAID once fully covered. An
// amount exceeding the remaining balance is rejected.
func (s *SettlementService) SettleInvoice(ctx context.Context, invoiceID uuid.UUID, amount valueobject.Money) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVOICE_NOT_FOUND", "Invoice not found")
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}

	if err := invoice.ApplySettlement(amount); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	return invoice, nil
}
