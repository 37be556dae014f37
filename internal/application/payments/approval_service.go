package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/payments"
	"github.com/condoledger/backend/internal/domain/pettycash"
	"github.com/condoledger/backend/internal/domain/property"
	"github.com/condoledger/backend/internal/domain/shared"
)

// ApprovalService moves payments through the review state machine. On
// approval, every allocation that targets a reimbursement invoice
// credits the building's petty cash fund.
type ApprovalService struct {
	paymentRepo    payments.PaymentRepository
	allocationRepo payments.AllocationRepository
	invoiceRepo    billing.InvoiceRepository
	unitRepo       property.UnitRepository
	roleRepo       property.RoleRepository
	fundRepo       pettycash.FundRepository
	fundTxRepo     pettycash.TransactionRepository
	txManager      shared.TransactionManager
	cache          SolvencyCache
	logger         *zap.Logger
}

// NewApprovalService creates a new ApprovalService. cache may be nil.
func NewApprovalService(
	paymentRepo payments.PaymentRepository,
	allocationRepo payments.AllocationRepository,
	invoiceRepo billing.InvoiceRepository,
	unitRepo property.UnitRepository,
	roleRepo property.RoleRepository,
	fundRepo pettycash.FundRepository,
	fundTxRepo pettycash.TransactionRepository,
	txManager shared.TransactionManager,
	cache SolvencyCache,
	logger *zap.Logger,
) *ApprovalService {
	return &ApprovalService{
		paymentRepo:    paymentRepo,
		allocationRepo: allocationRepo,
		invoiceRepo:    invoiceRepo,
		unitRepo:       unitRepo,
		roleRepo:       roleRepo,
		fundRepo:       fundRepo,
		fundTxRepo:     fundTxRepo,
		txManager:      txManager,
		cache:          cache,
		logger:         logger,
	}
}

// Approve marks the payment APPROVED and replenishes petty cash for
// every allocation tied to a reimbursement invoice. Re-approving an
// already-approved payment is a no-op and does not re-run the
// replenishment scan, so a fund can never be credited twice for the
// same payment.
func (s *ApprovalService) Approve(ctx context.Context, paymentID, approverID uuid.UUID, notes string) error {
	payment, err := s.loadForReview(ctx, paymentID, approverID)
	if err != nil {
		return err
	}
	if payment.IsApproved() {
		return nil
	}

	if err := payment.Approve(approverID, notes); err != nil {
		return err
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.paymentRepo.Save(ctx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		return s.replenishFunds(ctx, payment, approverID)
	})
	if err != nil {
		return err
	}

	s.invalidateSolvency(ctx, payment.UserID)
	s.logger.Info("payment approved",
		zap.String("payment_id", paymentID.String()),
		zap.String("approver_id", approverID.String()),
	)
	return nil
}

// Reject marks the payment REJECTED. No side effects beyond the status
// change.
func (s *ApprovalService) Reject(ctx context.Context, paymentID, approverID uuid.UUID, notes string) error {
	payment, err := s.loadForReview(ctx, paymentID, approverID)
	if err != nil {
		return err
	}
	if payment.IsRejected() {
		return nil
	}

	if err := payment.Reject(approverID, notes); err != nil {
		return err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}

	s.invalidateSolvency(ctx, payment.UserID)
	s.logger.Info("payment rejected",
		zap.String("payment_id", paymentID.String()),
		zap.String("approver_id", approverID.String()),
	)
	return nil
}

// loadForReview fetches the payment and enforces the reviewer
// permission: global admin, or board member of the payment's building.
func (s *ApprovalService) loadForReview(ctx context.Context, paymentID, approverID uuid.UUID) (*payments.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	isAdmin, err := s.roleRepo.IsGlobalAdmin(ctx, approverID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve roles: %w", err)
	}
	if !isAdmin {
		if payment.BuildingID == nil {
			return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can review this payment")
		}
		isBoard, err := s.roleRepo.HasBuildingRole(ctx, approverID, *payment.BuildingID, property.RoleBoard)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve roles: %w", err)
		}
		if !isBoard {
			return nil, shared.NewDomainError("FORBIDDEN", "Reviewer must be an administrator or a board member of the building")
		}
	}
	return payment, nil
}

// invalidateSolvency drops the payer's cached solvency summary so the
// next read reflects the review outcome. Cache failures only log.
func (s *ApprovalService) invalidateSolvency(ctx context.Context, userID uuid.UUID) {
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

// replenishFunds credits the building's petty cash fund for each
// allocation whose invoice is a reimbursement. Buildings without a fund
// are skipped.
func (s *ApprovalService) replenishFunds(ctx context.Context, payment *payments.Payment, approverID uuid.UUID) error {
	allocations, err := s.allocationRepo.FindByPayment(ctx, payment.GetID())
	if err != nil {
		return fmt.Errorf("failed to load allocations: %w", err)
	}

	for i := range allocations {
		alloc := &allocations[i]
		invoice, err := s.invoiceRepo.FindByID(ctx, alloc.InvoiceID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return fmt.Errorf("failed to load invoice: %w", err)
		}
		if !invoice.IsReplenishment() {
			continue
		}

		unit, err := s.unitRepo.FindByID(ctx, invoice.UnitID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return fmt.Errorf("failed to load unit: %w", err)
		}

		fund, err := s.fundRepo.FindByBuilding(ctx, unit.BuildingID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return fmt.Errorf("failed to load fund: %w", err)
		}

		amount := alloc.GetAmountMoney()
		if err := fund.AddIncome(amount); err != nil {
			return err
		}
		if err := s.fundRepo.SaveWithLock(ctx, fund); err != nil {
			return fmt.Errorf("failed to save fund: %w", err)
		}

		description := "Replenishment from approved payment"
		if invoice.Description != "" {
			description = fmt.Sprintf("Replenishment from approved payment: %s", invoice.Description)
		}
		tx, err := pettycash.NewIncomeTransaction(fund.GetID(), amount, description, "replenishment", approverID)
		if err != nil {
			return err
		}
		if err := s.fundTxRepo.Create(ctx, tx); err != nil {
			return fmt.Errorf("failed to record fund transaction: %w", err)
		}

		s.logger.Info("petty cash fund replenished",
			zap.String("fund_id", fund.GetID().String()),
			zap.String("payment_id", payment.GetID().String()),
			zap.String("amount", amount.String()),
		)
	}
	return nil
}
