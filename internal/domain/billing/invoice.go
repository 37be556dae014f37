package billing

import (
	"fmt"
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice is in a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// InvoiceType classifies what the invoice bills for
type InvoiceType string

const (
	InvoiceTypeExpense       InvoiceType = "EXPENSE"
	InvoiceTypeDebt          InvoiceType = "DEBT"
	InvoiceTypeExtraordinary InvoiceType = "EXTRAORDINARY"
	InvoiceTypeReplenishment InvoiceType = "PETTY_CASH_REPLENISHMENT"
)

// IsValid checks if the invoice type is valid
func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceTypeExpense, InvoiceTypeDebt, InvoiceTypeExtraordinary, InvoiceTypeReplenishment:
		return true
	}
	return false
}

// Invoice represents a billable line against one unit for one period.
// Invoices are never deleted; status only moves forward. PaidAmount is
// maintained through ApplySettlement, invoked transactionally whenever an
// allocation referencing the invoice is persisted.
type Invoice struct {
	shared.BaseAggregateRoot
	UnitID        uuid.UUID       `json:"unit_id"`
	Amount        decimal.Decimal `json:"amount"`
	Period        valueobject.Period `json:"period"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Status        InvoiceStatus   `json:"status"`
	Type          InvoiceType     `json:"type"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	ReceiptNumber string          `json:"receipt_number,omitempty"`
	Description   string          `json:"description,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

// NewInvoice creates a new pending invoice
func NewInvoice(
	unitID uuid.UUID,
	amount valueobject.Money,
	period valueobject.Period,
	invoiceType InvoiceType,
	issueDate time.Time,
	dueDate *time.Time,
) (*Invoice, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}
	if amount.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice amount cannot be negative")
	}
	if period.IsZero() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Invoice period is required")
	}
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Invoice type is not valid")
	}
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UnitID:            unitID,
		Amount:            amount.Amount(),
		Period:            period,
		IssueDate:         issueDate,
		DueDate:           dueDate,
		Status:            InvoiceStatusPending,
		Type:              invoiceType,
		PaidAmount:        decimal.Zero,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// WithReceiptNumber sets the receipt number from the source ledger
func (i *Invoice) WithReceiptNumber(receiptNumber string) *Invoice {
	i.ReceiptNumber = receiptNumber
	return i
}

// WithDescription sets the invoice description
func (i *Invoice) WithDescription(description string) *Invoice {
	i.Description = description
	return i
}

// Remaining returns the unpaid portion of the invoice
func (i *Invoice) Remaining() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}

// IsReplenishment reports whether paying this invoice feeds the petty
// cash fund
func (i *Invoice) IsReplenishment() bool {
	return i.Type == InvoiceTypeReplenishment
}

// ApplySettlement records money settled against the invoice and advances
// the status. An allocation may never drive the paid amount above the
// invoice amount.
func (i *Invoice) ApplySettlement(amount valueobject.Money) error {
	if i.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot settle a cancelled invoice")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Settlement amount must be positive")
	}
	newPaid := i.PaidAmount.Add(amount.Amount())
	if newPaid.GreaterThan(i.Amount) {
		return shared.NewDomainError("EXCEEDS_REMAINING",
			fmt.Sprintf("Settlement of %s exceeds remaining balance %s",
				amount.StringFixed(2), i.Remaining().StringFixed(2)))
	}

	i.PaidAmount = newPaid
	i.AddDomainEvent(NewInvoiceSettledEvent(i, amount))

	if i.PaidAmount.GreaterThanOrEqual(i.Amount) {
		i.markAsPaid()
	} else {
		i.MarkAsPartiallyPaid()
	}

	i.Touch()
	i.IncrementVersion()
	return nil
}

// MarkAsPaid transitions the invoice to PAID. Re-marking a paid invoice
// is a no-op.
func (i *Invoice) MarkAsPaid() error {
	if i.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot mark a cancelled invoice as paid")
	}
	if i.Status == InvoiceStatusPaid {
		return nil
	}
	i.markAsPaid()
	i.Touch()
	i.IncrementVersion()
	return nil
}

func (i *Invoice) markAsPaid() {
	now := time.Now()
	i.Status = InvoiceStatusPaid
	i.PaidAt = &now
	i.AddDomainEvent(NewInvoicePaidEvent(i))
}

// MarkAsPartiallyPaid records that part of the invoice has been settled.
// It never downgrades a PAID invoice.
func (i *Invoice) MarkAsPartiallyPaid() {
	if i.Status != InvoiceStatusPending {
		return
	}
	// Partial payment is carried by PaidAmount; status stays PENDING so
	// the invoice keeps appearing in unit balances.
}

// Cancel cancels the invoice. Cancelling an already-cancelled invoice is
// a no-op; a paid invoice cannot be cancelled.
func (i *Invoice) Cancel() error {
	if i.Status == InvoiceStatusCancelled {
		return nil
	}
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a paid invoice")
	}
	now := time.Now()
	i.Status = InvoiceStatusCancelled
	i.CancelledAt = &now
	i.AddDomainEvent(NewInvoiceCancelledEvent(i))
	i.Touch()
	i.IncrementVersion()
	return nil
}

// GetAmountMoney returns the invoice amount as Money
func (i *Invoice) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.Amount)
}

// GetPaidAmountMoney returns the paid amount as Money
func (i *Invoice) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.PaidAmount)
}

// GetRemainingMoney returns the remaining balance as Money
func (i *Invoice) GetRemainingMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.Remaining())
}

// IsPending returns true if the invoice still awaits payment
func (i *Invoice) IsPending() bool {
	return i.Status == InvoiceStatusPending
}

// IsPaid returns true if the invoice is fully paid
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}
