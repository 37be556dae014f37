package billing

import (
	"context"

	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// InvoiceFilter narrows invoice queries
type InvoiceFilter struct {
	Status *InvoiceStatus
	Type   *InvoiceType
	Period *valueobject.Period
	Page   int
	PageSize int
}

// InvoiceRepository is the port for invoice persistence
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByUnit(ctx context.Context, unitID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)
	// FindPendingByUnit returns the unit's PENDING invoices ordered by period
	FindPendingByUnit(ctx context.Context, unitID uuid.UUID) ([]Invoice, error)
	// ListReceiptNumbers returns every receipt number already present on
	// any invoice within the building (used for idempotent re-import)
	ListReceiptNumbers(ctx context.Context, buildingID uuid.UUID) ([]string, error)
	Save(ctx context.Context, invoice *Invoice) error
	CreateBatch(ctx context.Context, invoices []*Invoice) error
}
