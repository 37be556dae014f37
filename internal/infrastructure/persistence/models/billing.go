package models

import (
	"time"

	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	UnitID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Period        valueobject.Period    `gorm:"type:varchar(7);not null;index"`
	IssueDate     time.Time             `gorm:"not null"`
	DueDate       *time.Time            `gorm:"index"`
	Status        billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Type          billing.InvoiceType   `gorm:"type:varchar(30);not null;index"`
	PaidAmount    decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	ReceiptNumber string                `gorm:"type:varchar(50);index"`
	Description   string                `gorm:"type:text"`
	CancelledAt   *time.Time
	PaidAt        *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UnitID:            m.UnitID,
		Amount:            m.Amount,
		Period:            m.Period,
		IssueDate:         m.IssueDate,
		DueDate:           m.DueDate,
		Status:            m.Status,
		Type:              m.Type,
		PaidAmount:        m.PaidAmount,
		ReceiptNumber:     m.ReceiptNumber,
		Description:       m.Description,
		CancelledAt:       m.CancelledAt,
		PaidAt:            m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.UnitID = inv.UnitID
	m.Amount = inv.Amount
	m.Period = inv.Period
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Status = inv.Status
	m.Type = inv.Type
	m.PaidAmount = inv.PaidAmount
	m.ReceiptNumber = inv.ReceiptNumber
	m.Description = inv.Description
	m.CancelledAt = inv.CancelledAt
	m.PaidAt = inv.PaidAt
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}
