package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/property"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
)

// LoadDebtRequest creates one debt invoice against a unit
type LoadDebtRequest struct {
	UnitID      uuid.UUID
	Amount      decimal.Decimal
	Period      string
	Description string
	DueDate     *time.Time
}

// DebtService loads debt invoices against units
type DebtService struct {
	invoiceRepo billing.InvoiceRepository
	unitRepo    property.UnitRepository
}

// NewDebtService creates a new DebtService
func NewDebtService(invoiceRepo billing.InvoiceRepository, unitRepo property.UnitRepository) *DebtService {
	return &DebtService{
		invoiceRepo: invoiceRepo,
		unitRepo:    unitRepo,
	}
}

// LoadDebt creates a PENDING debt invoice for the unit and period
func (s *DebtService) LoadDebt(ctx context.Context, req LoadDebtRequest) (*billing.Invoice, error) {
	period, err := valueobject.ParsePeriod(req.Period)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PERIOD", err.Error())
	}

	if _, err := s.unitRepo.FindByID(ctx, req.UnitID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNIT_NOT_FOUND", "Unit not found")
		}
		return nil, fmt.Errorf("failed to load unit: %w", err)
	}

	amount, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}

	invoice, err := billing.NewInvoice(req.UnitID, amount, period, billing.InvoiceTypeDebt, time.Time{}, req.DueDate)
	if err != nil {
		return nil, err
	}
	invoice.WithDescription(req.Description)

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	return invoice, nil
}
