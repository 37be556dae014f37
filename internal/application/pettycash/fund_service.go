package pettycash

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/pettycash"
	"github.com/condoledger/backend/internal/domain/property"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
)

// RegisterExpenseRequest records an expense against a building's fund
type RegisterExpenseRequest struct {
	BuildingID  uuid.UUID
	Amount      decimal.Decimal
	Description string
	Category    string
	UserID      uuid.UUID
	EvidenceURL string
}

// RegisterIncomeRequest records a manual income into a building's fund
type RegisterIncomeRequest struct {
	BuildingID  uuid.UUID
	Amount      decimal.Decimal
	Description string
	Category    string
	UserID      uuid.UUID
	EvidenceURL string
}

// ExpenseResult reports what an expense did to the fund. When the fund
// could not cover the expense, ReplenishmentInvoices lists the invoices
// raised against the building's units to recover the deficit.
type ExpenseResult struct {
	Transaction           *pettycash.PettyCashTransaction `json:"transaction"`
	FundBalance           decimal.Decimal                 `json:"fund_balance"`
	ReplenishmentInvoices []*billing.Invoice              `json:"replenishment_invoices,omitempty"`
}

// FundStatus is the fund plus its recent ledger entries
type FundStatus struct {
	Fund               *pettycash.PettyCashFund         `json:"fund"`
	RecentTransactions []pettycash.PettyCashTransaction `json:"recent_transactions"`
}

// recentFundTransactions caps the ledger slice in GetFund
const recentFundTransactions = 10

// FundService manages a building's petty cash fund. Expenses the fund
// cannot cover drain it to zero and raise one reimbursement invoice per
// unit for an equal share of the deficit.
type FundService struct {
	fundRepo     pettycash.FundRepository
	fundTxRepo   pettycash.TransactionRepository
	unitRepo     property.UnitRepository
	buildingRepo property.BuildingRepository
	invoiceRepo  billing.InvoiceRepository
	txManager    shared.TransactionManager
	logger       *zap.Logger
}

// NewFundService creates a new FundService
func NewFundService(
	fundRepo pettycash.FundRepository,
	fundTxRepo pettycash.TransactionRepository,
	unitRepo property.UnitRepository,
	buildingRepo property.BuildingRepository,
	invoiceRepo billing.InvoiceRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *FundService {
	return &FundService{
		fundRepo:     fundRepo,
		fundTxRepo:   fundTxRepo,
		unitRepo:     unitRepo,
		buildingRepo: buildingRepo,
		invoiceRepo:  invoiceRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// RegisterExpense deducts the expense from the fund. If the fund cannot
// cover it, the deficit is split equally across the building's units
// (remainder cents go to the first units so the shares sum exactly),
// one reimbursement invoice per unit is created, and the fund is
// drained to zero. The EXPENSE transaction always records the original
// full amount.
func (s *FundService) RegisterExpense(ctx context.Context, req RegisterExpenseRequest) (*ExpenseResult, error) {
	amount, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}

	fund, err := s.fundRepo.FindByBuilding(ctx, req.BuildingID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("FUND_NOT_FOUND", "Building has no petty cash fund")
		}
		return nil, fmt.Errorf("failed to load fund: %w", err)
	}

	result := &ExpenseResult{}
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if fund.CanAfford(amount) {
			if err := fund.Deduct(amount); err != nil {
				return err
			}
		} else {
			invoices, err := s.raiseReplenishmentInvoices(ctx, fund, amount, req.Description)
			if err != nil {
				return err
			}
			result.ReplenishmentInvoices = invoices
		}
		if err := s.fundRepo.SaveWithLock(ctx, fund); err != nil {
			return fmt.Errorf("failed to save fund: %w", err)
		}

		tx, err := pettycash.NewExpenseTransaction(fund.GetID(), amount, req.Description, req.Category, req.UserID)
		if err != nil {
			return err
		}
		tx.WithEvidenceURL(req.EvidenceURL)
		if err := s.fundTxRepo.Create(ctx, tx); err != nil {
			return fmt.Errorf("failed to record fund transaction: %w", err)
		}
		result.Transaction = tx
		result.FundBalance = fund.CurrentBalance
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("petty cash expense registered",
		zap.String("building_id", req.BuildingID.String()),
		zap.String("amount", req.Amount.String()),
		zap.Int("replenishment_invoices", len(result.ReplenishmentInvoices)),
	)
	return result, nil
}

// raiseReplenishmentInvoices drains the fund and bills the deficit back
// to the units in equal shares.
func (s *FundService) raiseReplenishmentInvoices(ctx context.Context, fund *pettycash.PettyCashFund, amount valueobject.Money, description string) ([]*billing.Invoice, error) {
	units, err := s.unitRepo.FindByBuilding(ctx, fund.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load building units: %w", err)
	}
	if len(units) == 0 {
		return nil, shared.NewDomainError("INSUFFICIENT_FUNDS", "Fund cannot cover the expense and the building has no units to bill")
	}

	deficit := amount.MustSubtract(fund.GetBalanceMoney())
	shares, err := pettycash.SplitDeficit(deficit, len(units))
	if err != nil {
		return nil, err
	}
	fund.DrainAll()

	period := valueobject.PeriodOf(time.Now())
	invoiceDescription := "Petty cash replenishment"
	if description != "" {
		invoiceDescription = fmt.Sprintf("Petty cash replenishment: %s", description)
	}

	invoices := make([]*billing.Invoice, 0, len(units))
	for i := range units {
		invoice, err := billing.NewInvoice(units[i].GetID(), shares[i], period, billing.InvoiceTypeReplenishment, time.Time{}, nil)
		if err != nil {
			return nil, err
		}
		invoice.WithDescription(invoiceDescription)
		invoices = append(invoices, invoice)
	}
	if err := s.invoiceRepo.CreateBatch(ctx, invoices); err != nil {
		return nil, fmt.Errorf("failed to create replenishment invoices: %w", err)
	}
	return invoices, nil
}

// RegisterIncome credits the fund, creating it on first use
func (s *FundService) RegisterIncome(ctx context.Context, req RegisterIncomeRequest) (*pettycash.PettyCashTransaction, error) {
	amount, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}

	var tx *pettycash.PettyCashTransaction
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		fund, err := s.fundRepo.FindByBuilding(ctx, req.BuildingID)
		created := false
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("failed to load fund: %w", err)
			}
			if _, err := s.buildingRepo.FindByID(ctx, req.BuildingID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("BUILDING_NOT_FOUND", "Building not found")
				}
				return fmt.Errorf("failed to load building: %w", err)
			}
			fund, err = pettycash.NewPettyCashFund(req.BuildingID)
			if err != nil {
				return err
			}
			created = true
		}

		if err := fund.AddIncome(amount); err != nil {
			return err
		}
		if created {
			if err := s.fundRepo.Create(ctx, fund); err != nil {
				return fmt.Errorf("failed to create fund: %w", err)
			}
		} else {
			if err := s.fundRepo.SaveWithLock(ctx, fund); err != nil {
				return fmt.Errorf("failed to save fund: %w", err)
			}
		}

		tx, err = pettycash.NewIncomeTransaction(fund.GetID(), amount, req.Description, req.Category, req.UserID)
		if err != nil {
			return err
		}
		tx.WithEvidenceURL(req.EvidenceURL)
		return s.fundTxRepo.Create(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// GetFund returns the building's fund and its recent ledger entries
func (s *FundService) GetFund(ctx context.Context, buildingID uuid.UUID) (*FundStatus, error) {
	fund, err := s.fundRepo.FindByBuilding(ctx, buildingID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("FUND_NOT_FOUND", "Building has no petty cash fund")
		}
		return nil, fmt.Errorf("failed to load fund: %w", err)
	}

	transactions, err := s.fundTxRepo.FindByFund(ctx, fund.GetID(), recentFundTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to load fund transactions: %w", err)
	}
	return &FundStatus{Fund: fund, RecentTransactions: transactions}, nil
}
