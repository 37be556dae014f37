package payments

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the approval status of a reported payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusApproved PaymentStatus = "APPROVED"
	PaymentStatusRejected PaymentStatus = "REJECTED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusApproved, PaymentStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the payment has been reviewed
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusApproved || s == PaymentStatusRejected
}

// PaymentMethod is how the resident says the money was sent
type PaymentMethod string

const (
	PaymentMethodPagoMovil PaymentMethod = "PAGO_MOVIL"
	PaymentMethodTransfer  PaymentMethod = "TRANSFER"
	PaymentMethodCash      PaymentMethod = "CASH"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodPagoMovil, PaymentMethodTransfer, PaymentMethodCash:
		return true
	}
	return false
}

// Periods is the list of billing months the resident claims the payment
// covers, stored as JSONB
type Periods []valueobject.Period

// Value implements driver.Valuer for JSONB storage
func (p Periods) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB retrieval
func (p *Periods) Scan(value interface{}) error {
	if value == nil {
		*p = Periods{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Periods: unsupported type")
	}

	if len(bytes) == 0 {
		*p = Periods{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Payment represents money reported by a resident, pending review by an
// administrator or board member. Payments are never deleted; the status
// moves from PENDING to APPROVED or REJECTED exactly once.
type Payment struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID       `json:"user_id"`
	UnitID      uuid.UUID       `json:"unit_id"`
	BuildingID  *uuid.UUID      `json:"building_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Method      PaymentMethod   `json:"method"`
	Reference   string          `json:"reference,omitempty"`
	Bank        string          `json:"bank,omitempty"`
	ProofURL    string          `json:"proof_url,omitempty"`
	Status      PaymentStatus   `json:"status"`
	Periods     Periods         `json:"periods,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	ReviewedBy  *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	ReviewNotes string          `json:"review_notes,omitempty"`
}

// NewPayment creates a new pending payment
func NewPayment(
	userID, unitID uuid.UUID,
	buildingID *uuid.UUID,
	amount valueobject.Money,
	method PaymentMethod,
	paymentDate time.Time,
) (*Payment, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		UnitID:            unitID,
		BuildingID:        buildingID,
		Amount:            amount.Amount(),
		PaymentDate:       paymentDate,
		Method:            method,
		Status:            PaymentStatusPending,
		Periods:           Periods{},
	}

	p.AddDomainEvent(NewPaymentRegisteredEvent(p))

	return p, nil
}

// WithReference sets the bank reference number
func (p *Payment) WithReference(reference string) *Payment {
	p.Reference = reference
	return p
}

// WithBank sets the originating bank
func (p *Payment) WithBank(bank string) *Payment {
	p.Bank = bank
	return p
}

// WithProofURL sets the uploaded proof image location
func (p *Payment) WithProofURL(proofURL string) *Payment {
	p.ProofURL = proofURL
	return p
}

// WithPeriods sets the billing months the payment claims to cover
func (p *Payment) WithPeriods(periods []valueobject.Period) *Payment {
	p.Periods = periods
	return p
}

// WithNotes sets the resident's notes
func (p *Payment) WithNotes(notes string) *Payment {
	p.Notes = notes
	return p
}

// Approve moves the payment to APPROVED. Approving an already-approved
// payment is a no-op; a rejected payment cannot be approved.
func (p *Payment) Approve(approverID uuid.UUID, notes string) error {
	if p.Status == PaymentStatusApproved {
		return nil
	}
	if p.Status == PaymentStatusRejected {
		return shared.NewDomainError("INVALID_STATE", "Cannot approve a rejected payment")
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	p.Status = PaymentStatusApproved
	p.ReviewedBy = &approverID
	p.ReviewedAt = &now
	p.ReviewNotes = notes
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentApprovedEvent(p))

	return nil
}

// Reject moves the payment to REJECTED. Rejecting an already-rejected
// payment is a no-op; an approved payment cannot be rejected.
func (p *Payment) Reject(approverID uuid.UUID, notes string) error {
	if p.Status == PaymentStatusRejected {
		return nil
	}
	if p.Status == PaymentStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Cannot reject an approved payment")
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	p.Status = PaymentStatusRejected
	p.ReviewedBy = &approverID
	p.ReviewedAt = &now
	p.ReviewNotes = notes
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentRejectedEvent(p))

	return nil
}

// GetAmountMoney returns the payment amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Amount)
}

// IsPending returns true while the payment awaits review
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

// IsApproved returns true once the payment has been approved
func (p *Payment) IsApproved() bool {
	return p.Status == PaymentStatusApproved
}

// IsRejected returns true once the payment has been rejected
func (p *Payment) IsRejected() bool {
	return p.Status == PaymentStatusRejected
}
