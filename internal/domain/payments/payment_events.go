package payments

import (
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRegisteredEvent is raised when a resident reports a payment
type PaymentRegisteredEvent struct {
	shared.BaseDomainEvent
	PaymentID   uuid.UUID       `json:"payment_id"`
	UserID      uuid.UUID       `json:"user_id"`
	UnitID      uuid.UUID       `json:"unit_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	PaymentDate time.Time       `json:"payment_date"`
}

// EventType returns the event type name
func (e *PaymentRegisteredEvent) EventType() string {
	return "PaymentRegistered"
}

// NewPaymentRegisteredEvent creates a new PaymentRegisteredEvent
func NewPaymentRegisteredEvent(p *Payment) *PaymentRegisteredEvent {
	return &PaymentRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRegistered", "Payment", p.ID),
		PaymentID:       p.ID,
		UserID:          p.UserID,
		UnitID:          p.UnitID,
		Amount:          p.Amount,
		Method:          p.Method,
		PaymentDate:     p.PaymentDate,
	}
}

// PaymentApprovedEvent is raised when an approver accepts a payment
type PaymentApprovedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	UserID     uuid.UUID       `json:"user_id"`
	UnitID     uuid.UUID       `json:"unit_id"`
	Amount     decimal.Decimal `json:"amount"`
	ReviewedBy uuid.UUID       `json:"reviewed_by"`
}

// EventType returns the event type name
func (e *PaymentApprovedEvent) EventType() string {
	return "PaymentApproved"
}

// NewPaymentApprovedEvent creates a new PaymentApprovedEvent
func NewPaymentApprovedEvent(p *Payment) *PaymentApprovedEvent {
	var reviewedBy uuid.UUID
	if p.ReviewedBy != nil {
		reviewedBy = *p.ReviewedBy
	}
	return &PaymentApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentApproved", "Payment", p.ID),
		PaymentID:       p.ID,
		UserID:          p.UserID,
		UnitID:          p.UnitID,
		Amount:          p.Amount,
		ReviewedBy:      reviewedBy,
	}
}

// PaymentRejectedEvent is raised when an approver turns down a payment
type PaymentRejectedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	UserID     uuid.UUID       `json:"user_id"`
	UnitID     uuid.UUID       `json:"unit_id"`
	Amount     decimal.Decimal `json:"amount"`
	ReviewedBy uuid.UUID       `json:"reviewed_by"`
	Reason     string          `json:"reason,omitempty"`
}

// EventType returns the event type name
func (e *PaymentRejectedEvent) EventType() string {
	return "PaymentRejected"
}

// NewPaymentRejectedEvent creates a new PaymentRejectedEvent
func NewPaymentRejectedEvent(p *Payment) *PaymentRejectedEvent {
	var reviewedBy uuid.UUID
	if p.ReviewedBy != nil {
		reviewedBy = *p.ReviewedBy
	}
	return &PaymentRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRejected", "Payment", p.ID),
		PaymentID:       p.ID,
		UserID:          p.UserID,
		UnitID:          p.UnitID,
		Amount:          p.Amount,
		ReviewedBy:      reviewedBy,
		Reason:          p.ReviewNotes,
	}
}
