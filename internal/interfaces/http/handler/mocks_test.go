package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/pettycash"
	"github.com/condoledger/backend/internal/domain/property"
)

// passthroughTxManager runs the unit of work without a real transaction
type passthroughTxManager struct{}

func (passthroughTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockFundRepository is a mock implementation of pettycash.FundRepository
type MockFundRepository struct {
	mock.Mock
}

func (m *MockFundRepository) FindByID(ctx context.Context, id uuid.UUID) (*pettycash.PettyCashFund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pettycash.PettyCashFund), args.Error(1)
}

func (m *MockFundRepository) FindByBuilding(ctx context.Context, buildingID uuid.UUID) (*pettycash.PettyCashFund, error) {
	args := m.Called(ctx, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pettycash.PettyCashFund), args.Error(1)
}

func (m *MockFundRepository) Create(ctx context.Context, fund *pettycash.PettyCashFund) error {
	args := m.Called(ctx, fund)
	return args.Error(0)
}

func (m *MockFundRepository) SaveWithLock(ctx context.Context, fund *pettycash.PettyCashFund) error {
	args := m.Called(ctx, fund)
	return args.Error(0)
}

// MockFundTransactionRepository is a mock implementation of pettycash.TransactionRepository
type MockFundTransactionRepository struct {
	mock.Mock
}

func (m *MockFundTransactionRepository) Create(ctx context.Context, tx *pettycash.PettyCashTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockFundTransactionRepository) FindByFund(ctx context.Context, fundID uuid.UUID, limit int) ([]pettycash.PettyCashTransaction, error) {
	args := m.Called(ctx, fundID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pettycash.PettyCashTransaction), args.Error(1)
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

// MockBuildingRepository is a mock implementation of property.BuildingRepository
type MockBuildingRepository struct {
	mock.Mock
}

func (m *MockBuildingRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Building, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Building), args.Error(1)
}

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
