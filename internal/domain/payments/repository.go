package payments

import (
	"context"

	"github.com/google/uuid"
)

// PaymentFilter narrows payment queries
type PaymentFilter struct {
	Status   *PaymentStatus
	Method   *PaymentMethod
	Page     int
	PageSize int
}

// PaymentRepository is the port for payment persistence
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByUnit(ctx context.Context, unitID uuid.UUID, filter PaymentFilter) ([]Payment, error)
	// FindApprovedByUser returns every approved payment the user made,
	// newest first
	FindApprovedByUser(ctx context.Context, userID uuid.UUID) ([]Payment, error)
	// FindRecentByUser returns the user's most recent payments regardless
	// of status, newest first, capped at limit
	FindRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Payment, error)
	Create(ctx context.Context, payment *Payment) error
	Save(ctx context.Context, payment *Payment) error
}

// AllocationRepository is the port for payment allocation persistence.
// Allocations are insert-only.
type AllocationRepository interface {
	FindByPayment(ctx context.Context, paymentID uuid.UUID) ([]PaymentAllocation, error)
	Create(ctx context.Context, allocation *PaymentAllocation) error
}
