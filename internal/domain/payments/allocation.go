package payments

import (
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentAllocation links a portion of a payment's money to one invoice.
// Allocations are immutable once created; correcting a mistake means
// registering a compensating payment, never editing history.
type PaymentAllocation struct {
	shared.BaseEntity
	PaymentID uuid.UUID       `json:"payment_id"`
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewPaymentAllocation creates an allocation of payment money to an invoice
func NewPaymentAllocation(paymentID, invoiceID uuid.UUID, amount valueobject.Money) (*PaymentAllocation, error) {
	if paymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}

	return &PaymentAllocation{
		BaseEntity: shared.NewBaseEntity(),
		PaymentID:  paymentID,
		InvoiceID:  invoiceID,
		Amount:     amount.Amount(),
	}, nil
}

// GetAmountMoney returns the allocated amount as Money
func (a *PaymentAllocation) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(a.Amount)
}

// SumAllocations totals the amounts of a set of allocations
func SumAllocations(allocations []PaymentAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Amount)
	}
	return total
}
