package billing

import (
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID          `json:"invoice_id"`
	UnitID    uuid.UUID          `json:"unit_id"`
	Amount    decimal.Decimal    `json:"amount"`
	Period    valueobject.Period `json:"period"`
	Type      InvoiceType        `json:"invoice_type"`
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return "InvoiceCreated"
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCreated", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		UnitID:          inv.UnitID,
		Amount:          inv.Amount,
		Period:          inv.Period,
		Type:            inv.Type,
	}
}

// InvoiceSettledEvent is raised whenever money is settled against an invoice
type InvoiceSettledEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	UnitID        uuid.UUID       `json:"unit_id"`
	SettledAmount decimal.Decimal `json:"settled_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Remaining     decimal.Decimal `json:"remaining"`
}

// EventType returns the event type name
func (e *InvoiceSettledEvent) EventType() string {
	return "InvoiceSettled"
}

// NewInvoiceSettledEvent creates a new InvoiceSettledEvent
func NewInvoiceSettledEvent(inv *Invoice, settled valueobject.Money) *InvoiceSettledEvent {
	return &InvoiceSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceSettled", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		UnitID:          inv.UnitID,
		SettledAmount:   settled.Amount(),
		PaidAmount:      inv.PaidAmount,
		Remaining:       inv.Remaining(),
	}
}

// InvoicePaidEvent is raised when an invoice becomes fully paid
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	UnitID    uuid.UUID       `json:"unit_id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      InvoiceType     `json:"invoice_type"`
	PaidAt    time.Time       `json:"paid_at"`
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return "InvoicePaid"
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	paidAt := time.Now()
	if inv.PaidAt != nil {
		paidAt = *inv.PaidAt
	}
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaid", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		UnitID:          inv.UnitID,
		Amount:          inv.Amount,
		Type:            inv.Type,
		PaidAt:          paidAt,
	}
}

// InvoiceCancelledEvent is raised when an invoice is cancelled
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	UnitID    uuid.UUID       `json:"unit_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *InvoiceCancelledEvent) EventType() string {
	return "InvoiceCancelled"
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCancelled", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		UnitID:          inv.UnitID,
		Amount:          inv.Amount,
	}
}
