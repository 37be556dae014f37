package models

import (
	"time"

	"github.com/condoledger/backend/internal/domain/payments"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	AggregateModel
	UserID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	UnitID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	BuildingID  *uuid.UUID             `gorm:"type:uuid;index"`
	Amount      decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	PaymentDate time.Time              `gorm:"not null;index"`
	Method      payments.PaymentMethod `gorm:"type:varchar(20);not null"`
	Reference   string                 `gorm:"type:varchar(100)"`
	Bank        string                 `gorm:"type:varchar(100)"`
	ProofURL    string                 `gorm:"type:text"`
	Status      payments.PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Periods     payments.Periods       `gorm:"type:jsonb;default:'[]'"`
	Notes       string                 `gorm:"type:text"`
	ReviewedBy  *uuid.UUID             `gorm:"type:uuid"`
	ReviewedAt  *time.Time
	ReviewNotes string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *payments.Payment {
	return &payments.Payment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		UnitID:            m.UnitID,
		BuildingID:        m.BuildingID,
		Amount:            m.Amount,
		PaymentDate:       m.PaymentDate,
		Method:            m.Method,
		Reference:         m.Reference,
		Bank:              m.Bank,
		ProofURL:          m.ProofURL,
		Status:            m.Status,
		Periods:           m.Periods,
		Notes:             m.Notes,
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        m.ReviewedAt,
		ReviewNotes:       m.ReviewNotes,
	}
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(p *payments.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.UserID = p.UserID
	m.UnitID = p.UnitID
	m.BuildingID = p.BuildingID
	m.Amount = p.Amount
	m.PaymentDate = p.PaymentDate
	m.Method = p.Method
	m.Reference = p.Reference
	m.Bank = p.Bank
	m.ProofURL = p.ProofURL
	m.Status = p.Status
	m.Periods = p.Periods
	m.Notes = p.Notes
	m.ReviewedBy = p.ReviewedBy
	m.ReviewedAt = p.ReviewedAt
	m.ReviewNotes = p.ReviewNotes
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *payments.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// PaymentAllocationModel is the persistence model for PaymentAllocation.
// Rows are insert-only.
type PaymentAllocationModel struct {
	BaseModel
	PaymentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PaymentAllocationModel) TableName() string {
	return "payment_allocations"
}

// ToDomain converts the persistence model to a domain PaymentAllocation.
func (m *PaymentAllocationModel) ToDomain() *payments.PaymentAllocation {
	return &payments.PaymentAllocation{
		BaseEntity: m.BaseModel.ToDomain(),
		PaymentID:  m.PaymentID,
		InvoiceID:  m.InvoiceID,
		Amount:     m.Amount,
	}
}

// FromDomain populates the persistence model from a domain PaymentAllocation.
func (m *PaymentAllocationModel) FromDomain(a *payments.PaymentAllocation) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.PaymentID = a.PaymentID
	m.InvoiceID = a.InvoiceID
	m.Amount = a.Amount
}

// PaymentAllocationModelFromDomain creates a new persistence model from a domain allocation.
func PaymentAllocationModelFromDomain(a *payments.PaymentAllocation) *PaymentAllocationModel {
	m := &PaymentAllocationModel{}
	m.FromDomain(a)
	return m
}
