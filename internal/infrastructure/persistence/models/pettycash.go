package models

import (
	"github.com/condoledger/backend/internal/domain/pettycash"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PettyCashFundModel is the persistence model for the PettyCashFund
// aggregate root. One fund per building.
type PettyCashFundModel struct {
	AggregateModel
	BuildingID     uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex"`
	CurrentBalance decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
}

// TableName returns the table name for GORM
func (PettyCashFundModel) TableName() string {
	return "petty_cash_funds"
}

// ToDomain converts the persistence model to a domain PettyCashFund.
func (m *PettyCashFundModel) ToDomain() *pettycash.PettyCashFund {
	return &pettycash.PettyCashFund{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BuildingID:        m.BuildingID,
		CurrentBalance:    m.CurrentBalance,
		Currency:          m.Currency,
	}
}

// FromDomain populates the persistence model from a domain PettyCashFund.
func (m *PettyCashFundModel) FromDomain(f *pettycash.PettyCashFund) {
	m.FromDomainAggregateRoot(f.BaseAggregateRoot)
	m.BuildingID = f.BuildingID
	m.CurrentBalance = f.CurrentBalance
	m.Currency = f.Currency
}

// PettyCashFundModelFromDomain creates a new persistence model from a domain fund.
func PettyCashFundModelFromDomain(f *pettycash.PettyCashFund) *PettyCashFundModel {
	m := &PettyCashFundModel{}
	m.FromDomain(f)
	return m
}

// PettyCashTransactionModel is the persistence model for the fund's
// append-only ledger entries.
type PettyCashTransactionModel struct {
	BaseModel
	FundID      uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Type        pettycash.TransactionType `gorm:"type:varchar(10);not null"`
	Amount      decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	Description string                    `gorm:"type:text;not null"`
	Category    string                    `gorm:"type:varchar(50);index"`
	CreatedBy   uuid.UUID                 `gorm:"type:uuid;not null"`
	EvidenceURL string                    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PettyCashTransactionModel) TableName() string {
	return "petty_cash_transactions"
}

// ToDomain converts the persistence model to a domain PettyCashTransaction.
func (m *PettyCashTransactionModel) ToDomain() *pettycash.PettyCashTransaction {
	return &pettycash.PettyCashTransaction{
		BaseEntity:  m.BaseModel.ToDomain(),
		FundID:      m.FundID,
		Type:        m.Type,
		Amount:      m.Amount,
		Description: m.Description,
		Category:    m.Category,
		CreatedBy:   m.CreatedBy,
		EvidenceURL: m.EvidenceURL,
	}
}

// FromDomain populates the persistence model from a domain transaction.
func (m *PettyCashTransactionModel) FromDomain(t *pettycash.PettyCashTransaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.FundID = t.FundID
	m.Type = t.Type
	m.Amount = t.Amount
	m.Description = t.Description
	m.Category = t.Category
	m.CreatedBy = t.CreatedBy
	m.EvidenceURL = t.EvidenceURL
}

// PettyCashTransactionModelFromDomain creates a new persistence model from a domain transaction.
func PettyCashTransactionModelFromDomain(t *pettycash.PettyCashTransaction) *PettyCashTransactionModel {
	m := &PettyCashTransactionModel{}
	m.FromDomain(t)
	return m
}
