package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/payments"
	"github.com/condoledger/backend/internal/domain/pettycash"
	"github.com/condoledger/backend/internal/domain/property"
)

// MockPaymentRepository is a mock implementation of payments.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payments.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByUnit(ctx context.Context, unitID uuid.UUID, filter payments.PaymentFilter) ([]payments.Payment, error) {
	args := m.Called(ctx, unitID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payments.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindApprovedByUser(ctx context.Context, userID uuid.UUID) ([]payments.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payments.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]payments.Payment, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payments.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *payments.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *payments.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// MockAllocationRepository is a mock implementation of payments.AllocationRepository
type MockAllocationRepository struct {
	mock.Mock
}

func (m *MockAllocationRepository) FindByPayment(ctx context.Context, paymentID uuid.UUID) ([]payments.PaymentAllocation, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payments.PaymentAllocation), args.Error(1)
}

func (m *MockAllocationRepository) Create(ctx context.Context, allocation *payments.PaymentAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
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

// MockRoleRepository is a mock implementation of property.RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) IsGlobalAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleRepository) HasBuildingRole(ctx context.Context, userID, buildingID uuid.UUID, role property.RoleType) (bool, error) {
	args := m.Called(ctx, userID, buildingID, role)
	return args.Bool(0), args.Error(1)
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

// MockProofStorage is a mock implementation of ProofStorage
type MockProofStorage struct {
	mock.Mock
}

func (m *MockProofStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockProofStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// MockSolvencyCache is a mock implementation of SolvencyCache
type MockSolvencyCache struct {
	mock.Mock
}

func (m *MockSolvencyCache) Get(ctx context.Context, userID uuid.UUID) (*SolvencySummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SolvencySummary), args.Error(1)
}

func (m *MockSolvencyCache) Set(ctx context.Context, userID uuid.UUID, summary *SolvencySummary) error {
	args := m.Called(ctx, userID, summary)
	return args.Error(0)
}

func (m *MockSolvencyCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
