package pettycash

import (
	"strings"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType distinguishes fund credits from debits
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// PettyCashTransaction is an append-only ledger entry, one per fund
// mutation. Entries are never updated or deleted.
type PettyCashTransaction struct {
	shared.BaseEntity
	FundID      uuid.UUID       `json:"fund_id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	CreatedBy   uuid.UUID       `json:"created_by"`
	EvidenceURL string          `json:"evidence_url,omitempty"`
}

func newTransaction(
	fundID uuid.UUID,
	txType TransactionType,
	amount valueobject.Money,
	description, category string,
	createdBy uuid.UUID,
) (*PettyCashTransaction, error) {
	if fundID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FUND", "Fund ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Transaction description is required")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Transaction author is required")
	}
	return &PettyCashTransaction{
		BaseEntity:  shared.NewBaseEntity(),
		FundID:      fundID,
		Type:        txType,
		Amount:      amount.Amount(),
		Description: description,
		Category:    category,
		CreatedBy:   createdBy,
	}, nil
}

// NewIncomeTransaction records a credit against the fund
func NewIncomeTransaction(fundID uuid.UUID, amount valueobject.Money, description, category string, createdBy uuid.UUID) (*PettyCashTransaction, error) {
	return newTransaction(fundID, TransactionTypeIncome, amount, description, category, createdBy)
}

// NewExpenseTransaction records a debit against the fund. The amount is
// the full expense amount, even when the overage path drained less from
// the fund itself.
func NewExpenseTransaction(fundID uuid.UUID, amount valueobject.Money, description, category string, createdBy uuid.UUID) (*PettyCashTransaction, error) {
	return newTransaction(fundID, TransactionTypeExpense, amount, description, category, createdBy)
}

// WithEvidenceURL attaches a stored receipt or photo reference
func (t *PettyCashTransaction) WithEvidenceURL(url string) *PettyCashTransaction {
	t.EvidenceURL = url
	return t
}

// GetAmountMoney returns the transaction amount as Money
func (t *PettyCashTransaction) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(t.Amount)
}
