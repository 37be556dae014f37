package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/property"
	"github.com/condoledger/backend/internal/infrastructure/spreadsheet"
)

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByUnit(ctx context.Context, unitID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	args := m.Called(ctx, unitID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindPendingByUnit(ctx context.Context, unitID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListReceiptNumbers(ctx context.Context, buildingID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CreateBatch(ctx context.Context, invoices []*billing.Invoice) error {
	args := m.Called(ctx, invoices)
	return args.Error(0)
}

// MockUnitRepository is a mock implementation of property.UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindByBuilding(ctx context.Context, buildingID uuid.UUID) ([]property.Unit, error) {
	args := m.Called(ctx, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindByResident(ctx context.Context, residentID uuid.UUID) ([]property.Unit, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.Unit), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, unit *property.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) CreateBatch(ctx context.Context, units []*property.Unit) error {
	args := m.Called(ctx, units)
	return args.Error(0)
}

// MockTransactionManager runs the unit of work inline
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// stubParser returns a canned parse result
type stubParser struct {
	result *spreadsheet.ParseResult
	err    error
}

func (p *stubParser) Parse(data []byte) (*spreadsheet.ParseResult, error) {
	return p.result, p.err
}
