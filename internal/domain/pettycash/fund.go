package pettycash

import (
	"fmt"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PettyCashFund is a building-scoped discretionary cash balance. It is
// fed by reimbursement invoice payments and manual income, and drained
// by registered expenses. The balance never goes negative.
type PettyCashFund struct {
	shared.BaseAggregateRoot
	BuildingID     uuid.UUID            `json:"building_id"`
	CurrentBalance decimal.Decimal      `json:"current_balance"`
	Currency       valueobject.Currency `json:"currency"`
}

// NewPettyCashFund creates an empty fund for a building. Funds are
// created lazily on first income registration.
func NewPettyCashFund(buildingID uuid.UUID) (*PettyCashFund, error) {
	if buildingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUILDING", "Building ID cannot be empty")
	}
	f := &PettyCashFund{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuildingID:        buildingID,
		CurrentBalance:    decimal.Zero,
		Currency:          valueobject.DefaultCurrency,
	}
	f.AddDomainEvent(NewFundCreatedEvent(f))
	return f, nil
}

// CanAfford reports whether the fund fully covers the amount
func (f *PettyCashFund) CanAfford(amount valueobject.Money) bool {
	return f.CurrentBalance.GreaterThanOrEqual(amount.Amount())
}

// AddIncome credits the fund
func (f *PettyCashFund) AddIncome(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Income amount must be positive")
	}
	f.CurrentBalance = f.CurrentBalance.Add(amount.Amount())
	f.AddDomainEvent(NewFundCreditedEvent(f, amount))
	f.Touch()
	f.IncrementVersion()
	return nil
}

// Deduct debits the fund. Fails if the balance cannot cover the amount.
func (f *PettyCashFund) Deduct(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if !f.CanAfford(amount) {
		return shared.NewDomainError("INSUFFICIENT_FUNDS",
			fmt.Sprintf("Fund balance %s cannot cover %s",
				f.CurrentBalance.StringFixed(2), amount.StringFixed(2)))
	}
	f.CurrentBalance = f.CurrentBalance.Sub(amount.Amount())
	f.AddDomainEvent(NewFundDebitedEvent(f, amount))
	f.Touch()
	f.IncrementVersion()
	return nil
}

// DrainAll empties the fund and returns the amount that was drained.
// Used by the overage path, where the balance covers only part of an
// expense and the rest is recovered from the units.
// The version always advances, even when the balance was already zero,
// so the optimistic-lock save after an overage matches the stored row.
func (f *PettyCashFund) DrainAll() valueobject.Money {
	drained := valueobject.NewMoneyUSD(f.CurrentBalance)
	if drained.IsPositive() {
		f.CurrentBalance = decimal.Zero
		f.AddDomainEvent(NewFundDebitedEvent(f, drained))
	}
	f.Touch()
	f.IncrementVersion()
	return drained
}

// GetBalanceMoney returns the current balance as Money
func (f *PettyCashFund) GetBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(f.CurrentBalance)
}

// SplitDeficit divides an uncovered expense portion equally across the
// building's units. The cent remainder lands on the first units so the
// shares always sum to the deficit exactly.
func SplitDeficit(deficit valueobject.Money, unitCount int) ([]valueobject.Money, error) {
	if !deficit.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Deficit must be positive")
	}
	if unitCount <= 0 {
		return nil, shared.NewDomainError("NO_UNITS", "Building has no units to split the deficit across")
	}
	shares, err := deficit.Allocate(unitCount)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_SPLIT", err.Error())
	}
	return shares, nil
}
