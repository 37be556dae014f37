package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/payments"
	"github.com/condoledger/backend/internal/domain/property"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
)

// InvoiceSettler applies allocation money to an invoice and persists
// it. Billing owns the implementation; this module only holds the port.
type InvoiceSettler interface {
	SettleInvoice(ctx context.Context, invoiceID uuid.UUID, amount valueobject.Money) (*billing.Invoice, error)
}

// AllocationRequest assigns part of a payment to one invoice
type AllocationRequest struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
}

// RegisterPaymentRequest registers a resident-reported payment
type RegisterPaymentRequest struct {
	UserID      uuid.UUID
	UnitID      uuid.UUID
	Amount      decimal.Decimal
	Method      payments.PaymentMethod
	PaymentDate time.Time
	Reference   string
	Bank        string
	ProofURL    string
	Periods     []string
	Notes       string
	Allocations []AllocationRequest
}

// PaymentService registers payments and allocates their money against
// invoices. Allocation persisting and invoice settlement run in one
// transaction, so paid_amount never drifts from the allocation ledger.
type PaymentService struct {
	paymentRepo    payments.PaymentRepository
	allocationRepo payments.AllocationRepository
	settler        InvoiceSettler
	unitRepo       property.UnitRepository
	txManager      shared.TransactionManager
	cache          SolvencyCache
	logger         *zap.Logger
}

// NewPaymentService creates a new PaymentService. cache may be nil.
func NewPaymentService(
	paymentRepo payments.PaymentRepository,
	allocationRepo payments.AllocationRepository,
	settler InvoiceSettler,
	unitRepo property.UnitRepository,
	txManager shared.TransactionManager,
	cache SolvencyCache,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:    paymentRepo,
		allocationRepo: allocationRepo,
		settler:        settler,
		unitRepo:       unitRepo,
		txManager:      txManager,
		cache:          cache,
		logger:         logger,
	}
}

// RegisterPayment creates a PENDING payment and, when allocations are
// supplied, applies them to their invoices in the same transaction.
func (s *PaymentService) RegisterPayment(ctx context.Context, req RegisterPaymentRequest) (*payments.Payment, error) {
	unit, err := s.unitRepo.FindByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNIT_NOT_FOUND", "Unit not found")
		}
		return nil, fmt.Errorf("failed to load unit: %w", err)
	}

	amount, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}

	payment, err := payments.NewPayment(req.UserID, req.UnitID, &unit.BuildingID, amount, req.Method, req.PaymentDate)
	if err != nil {
		return nil, err
	}
	payment.WithReference(req.Reference).
		WithBank(req.Bank).
		WithProofURL(req.ProofURL).
		WithNotes(req.Notes)

	if len(req.Periods) > 0 {
		periods := make([]valueobject.Period, 0, len(req.Periods))
		for _, raw := range req.Periods {
			p, err := valueobject.ParsePeriod(raw)
			if err != nil {
				return nil, shared.NewDomainError("INVALID_PERIOD", err.Error())
			}
			periods = append(periods, p)
		}
		payment.WithPeriods(periods)
	}

	if err := validateAllocationBatch(req.Allocations, req.Amount, decimal.Zero); err != nil {
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		return s.applyAllocations(ctx, payment.GetID(), req.Allocations)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSolvency(ctx, req.UserID)
	s.logger.Info("payment registered",
		zap.String("payment_id", payment.GetID().String()),
		zap.String("unit_id", req.UnitID.String()),
		zap.String("amount", req.Amount.String()),
		zap.Int("allocations", len(req.Allocations)),
	)
	return payment, nil
}

// AllocatePayment applies further allocations to an existing payment.
// The batch is rejected outright when existing plus new allocations
// would exceed the payment amount; nothing is persisted in that case.
func (s *PaymentService) AllocatePayment(ctx context.Context, paymentID uuid.UUID, allocations []AllocationRequest) error {
	if len(allocations) == 0 {
		return shared.NewDomainError("VALIDATION", "No allocations supplied")
	}

	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
		}
		return fmt.Errorf("failed to load payment: %w", err)
	}

	existing, err := s.allocationRepo.FindByPayment(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to load allocations: %w", err)
	}
	previouslyAllocated := payments.SumAllocations(existing)

	if err := validateAllocationBatch(allocations, payment.Amount, previouslyAllocated); err != nil {
		return err
	}

	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.applyAllocations(ctx, paymentID, allocations)
	})
}

// ListPayments returns a unit's payments, newest first
func (s *PaymentService) ListPayments(ctx context.Context, unitID uuid.UUID, filter payments.PaymentFilter) ([]payments.Payment, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}
	return s.paymentRepo.FindByUnit(ctx, unitID, filter)
}

// validateAllocationBatch rejects non-positive amounts and batches whose
// total, together with what was already allocated, exceeds the payment
func validateAllocationBatch(allocations []AllocationRequest, paymentAmount, previouslyAllocated decimal.Decimal) error {
	total := previouslyAllocated
	for _, a := range allocations {
		if !a.Amount.IsPositive() {
			return shared.NewDomainError("INVALID_ALLOCATION", "Allocation amount must be positive")
		}
		if a.InvoiceID == uuid.Nil {
			return shared.NewDomainError("INVALID_ALLOCATION", "Allocation invoice ID cannot be empty")
		}
		total = total.Add(a.Amount)
	}
	if total.GreaterThan(paymentAmount) {
		return shared.NewDomainError("ALLOCATION_EXCEEDS_PAYMENT",
			fmt.Sprintf("Allocated total %s exceeds payment amount %s", total.StringFixed(2), paymentAmount.StringFixed(2)))
	}
	return nil
}

// applyAllocations persists each allocation and settles its invoice
// through the settler port. Must run inside a transaction: a settlement
// rejection rolls back the allocations already written.
func (s *PaymentService) applyAllocations(ctx context.Context, paymentID uuid.UUID, allocations []AllocationRequest) error {
	for _, a := range allocations {
		amount := valueobject.NewMoneyUSD(a.Amount)

		allocation, err := payments.NewPaymentAllocation(paymentID, a.InvoiceID, amount)
		if err != nil {
			return err
		}

		if _, err := s.settler.SettleInvoice(ctx, a.InvoiceID, amount); err != nil {
			return err
		}
		if err := s.allocationRepo.Create(ctx, allocation); err != nil {
			return fmt.Errorf("failed to create allocation: %w", err)
		}
	}
	return nil
}

// invalidateSolvency drops the user's cached solvency summary so the
// next read reflects the payment change. Cache failures only log.
func (s *PaymentService) invalidateSolvency(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate solvency cache",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}
