package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	billingapp "github.com/condoledger/backend/internal/application/billing"
	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/payments"
	"github.com/condoledger/backend/internal/domain/property"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
)

func testUnit(t *testing.T, buildingID uuid.UUID) *property.Unit {
	t.Helper()
	u, err := property.NewUnit(buildingID, "11")
	require.NoError(t, err)
	return u
}

func testInvoice(t *testing.T, unitID uuid.UUID, amount float64, invoiceType billing.InvoiceType) *billing.Invoice {
	t.Helper()
	period, err := valueobject.NewPeriod(2026, time.January)
	require.NoError(t, err)
	inv, err := billing.NewInvoice(unitID, valueobject.NewMoneyUSDFromFloat(amount), period, invoiceType, time.Time{}, nil)
	require.NoError(t, err)
	return inv
}

func testPayment(t *testing.T, userID, unitID uuid.UUID, buildingID *uuid.UUID, amount float64) *payments.Payment {
	t.Helper()
	p, err := payments.NewPayment(userID, unitID, buildingID, valueobject.NewMoneyUSDFromFloat(amount), payments.PaymentMethodTransfer, time.Now())
	require.NoError(t, err)
	return p
}

func newPaymentService(
	paymentRepo *MockPaymentRepository,
	allocationRepo *MockAllocationRepository,
	invoiceRepo *MockInvoiceRepository,
	unitRepo *MockUnitRepository,
	txManager *MockTransactionManager,
) *PaymentService {
	settler := billingapp.NewSettlementService(invoiceRepo)
	return NewPaymentService(paymentRepo, allocationRepo, settler, unitRepo, txManager, nil, zap.NewNop())
}

func TestPaymentService_RegisterPayment(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	buildingID := uuid.New()

	t.Run("registers a pending payment without allocations", func(t *testing.T) {
		unit := testUnit(t, buildingID)
		unitRepo := new(MockUnitRepository)
		paymentRepo := new(MockPaymentRepository)
		txManager := new(MockTransactionManager)
		unitRepo.On("FindByID", ctx, unit.GetID()).Return(unit, nil)
		txManager.On("WithinTransaction", ctx).Return(nil)
		paymentRepo.On("Create", ctx, mock.AnythingOfType("*payments.Payment")).Return(nil)

		svc := newPaymentService(paymentRepo, new(MockAllocationRepository), new(MockInvoiceRepository), unitRepo, txManager)
		payment, err := svc.RegisterPayment(ctx, RegisterPaymentRequest{
			UserID:      userID,
			UnitID:      unit.GetID(),
			Amount:      decimal.NewFromInt(100),
			Method:      payments.PaymentMethodPagoMovil,
			PaymentDate: time.Now(),
			Periods:     []string{"2026-01", "2026-02"},
			Reference:   "00123",
		})
		require.NoError(t, err)
		assert.True(t, payment.IsPending())
		assert.Equal(t, buildingID, *payment.BuildingID)
		assert.Len(t, payment.Periods, 2)
	})

	t.Run("allocations settle their invoices in the same transaction", func(t *testing.T) {
		unit := testUnit(t, buildingID)
		invoice := testInvoice(t, unit.GetID(), 100, billing.InvoiceTypeExpense)
		unitRepo := new(MockUnitRepository)
		paymentRepo := new(MockPaymentRepository)
		allocationRepo := new(MockAllocationRepository)
		invoiceRepo := new(MockInvoiceRepository)
		txManager := new(MockTransactionManager)

		unitRepo.On("FindByID", ctx, unit.GetID()).Return(unit, nil)
		txManager.On("WithinTransaction", ctx).Return(nil)
		paymentRepo.On("Create", ctx, mock.AnythingOfType("*payments.Payment")).Return(nil)
		invoiceRepo.On("FindByID", ctx, invoice.GetID()).Return(invoice, nil)
		allocationRepo.On("Create", ctx, mock.AnythingOfType("*payments.PaymentAllocation")).Return(nil)
		invoiceRepo.On("Save", ctx, invoice).Return(nil)

		svc := newPaymentService(paymentRepo, allocationRepo, invoiceRepo, unitRepo, txManager)
		_, err := svc.RegisterPayment(ctx, RegisterPaymentRequest{
			UserID:      userID,
			UnitID:      unit.GetID(),
			Amount:      decimal.NewFromInt(100),
			Method:      payments.PaymentMethodTransfer,
			PaymentDate: time.Now(),
			Allocations: []AllocationRequest{{InvoiceID: invoice.GetID(), Amount: decimal.NewFromInt(100)}},
		})
		require.NoError(t, err)

		assert.Equal(t, billing.InvoiceStatusPaid, invoice.Status)
		allocationRepo.AssertExpectations(t)
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("rejects allocations exceeding payment amount before persisting", func(t *testing.T) {
		unit := testUnit(t, buildingID)
		unitRepo := new(MockUnitRepository)
		paymentRepo := new(MockPaymentRepository)
		unitRepo.On("FindByID", ctx, unit.GetID()).Return(unit, nil)

		svc := newPaymentService(paymentRepo, new(MockAllocationRepository), new(MockInvoiceRepository), unitRepo, new(MockTransactionManager))
		_, err := svc.RegisterPayment(ctx, RegisterPaymentRequest{
			UserID:      userID,
			UnitID:      unit.GetID(),
			Amount:      decimal.NewFromInt(100),
			Method:      payments.PaymentMethodCash,
			PaymentDate: time.Now(),
			Allocations: []AllocationRequest{
				{InvoiceID: uuid.New(), Amount: decimal.NewFromInt(60)},
				{InvoiceID: uuid.New(), Amount: decimal.NewFromInt(50)},
			},
		})
		require.Error(t, err)
		paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown unit", func(t *testing.T) {
		unitRepo := new(MockUnitRepository)
		unitID := uuid.New()
		unitRepo.On("FindByID", ctx, unitID).Return(nil, shared.ErrNotFound)

		svc := newPaymentService(new(MockPaymentRepository), new(MockAllocationRepository), new(MockInvoiceRepository), unitRepo, new(MockTransactionManager))
		_, err := svc.RegisterPayment(ctx, RegisterPaymentRequest{
			UserID: userID, UnitID: unitID, Amount: decimal.NewFromInt(10),
			Method: payments.PaymentMethodCash, PaymentDate: time.Now(),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNIT_NOT_FOUND", domainErr.Code)
	})

	t.Run("invalidates the solvency summary after a successful registration", func(t *testing.T) {
		unit := testUnit(t, buildingID)
		unitRepo := new(MockUnitRepository)
		paymentRepo := new(MockPaymentRepository)
		txManager := new(MockTransactionManager)
		cache := new(MockSolvencyCache)
		unitRepo.On("FindByID", ctx, unit.GetID()).Return(unit, nil)
		txManager.On("WithinTransaction", ctx).Return(nil)
		paymentRepo.On("Create", ctx, mock.AnythingOfType("*payments.Payment")).Return(nil)
		cache.On("Invalidate", ctx, userID).Return(nil)

		settler := billingapp.NewSettlementService(new(MockInvoiceRepository))
		svc := NewPaymentService(paymentRepo, new(MockAllocationRepository), settler, unitRepo, txManager, cache, zap.NewNop())
		_, err := svc.RegisterPayment(ctx, RegisterPaymentRequest{
			UserID: userID, UnitID: unit.GetID(), Amount: decimal.NewFromInt(100),
			Method: payments.PaymentMethodTransfer, PaymentDate: time.Now(),
		})
		require.NoError(t, err)
		cache.AssertExpectations(t)
	})
}

func TestPaymentService_AllocatePayment(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	buildingID := uuid.New()
	unitID := uuid.New()

	t.Run("counts existing allocations toward the cap", func(t *testing.T) {
		payment := testPayment(t, userID, unitID, &buildingID, 100)
		existing, err := payments.NewPaymentAllocation(payment.GetID(), uuid.New(), valueobject.NewMoneyUSDFromFloat(70))
		require.NoError(t, err)

		paymentRepo := new(MockPaymentRepository)
		allocationRepo := new(MockAllocationRepository)
		paymentRepo.On("FindByID", ctx, payment.GetID()).Return(payment, nil)
		allocationRepo.On("FindByPayment", ctx, payment.GetID()).Return([]payments.PaymentAllocation{*existing}, nil)

		svc := newPaymentService(paymentRepo, allocationRepo, new(MockInvoiceRepository), new(MockUnitRepository), new(MockTransactionManager))
		err = svc.AllocatePayment(ctx, payment.GetID(), []AllocationRequest{
			{InvoiceID: uuid.New(), Amount: decimal.NewFromInt(40)},
		})
		require.Error(t, err)
		allocationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("applies a valid batch", func(t *testing.T) {
		payment := testPayment(t, userID, unitID, &buildingID, 100)
		invoice := testInvoice(t, unitID, 60, billing.InvoiceTypeExpense)

		paymentRepo := new(MockPaymentRepository)
		allocationRepo := new(MockAllocationRepository)
		invoiceRepo := new(MockInvoiceRepository)
		txManager := new(MockTransactionManager)
		paymentRepo.On("FindByID", ctx, payment.GetID()).Return(payment, nil)
		allocationRepo.On("FindByPayment", ctx, payment.GetID()).Return([]payments.PaymentAllocation{}, nil)
		txManager.On("WithinTransaction", ctx).Return(nil)
		invoiceRepo.On("FindByID", ctx, invoice.GetID()).Return(invoice, nil)
		allocationRepo.On("Create", ctx, mock.AnythingOfType("*payments.PaymentAllocation")).Return(nil)
		invoiceRepo.On("Save", ctx, invoice).Return(nil)

		svc := newPaymentService(paymentRepo, allocationRepo, invoiceRepo, new(MockUnitRepository), txManager)
		err := svc.AllocatePayment(ctx, payment.GetID(), []AllocationRequest{
			{InvoiceID: invoice.GetID(), Amount: decimal.NewFromInt(40)},
		})
		require.NoError(t, err)
		assert.True(t, invoice.PaidAmount.Equal(decimal.NewFromInt(40)))
		assert.Equal(t, billing.InvoiceStatusPending, invoice.Status)
	})

	t.Run("over-allocating an invoice rolls the batch back", func(t *testing.T) {
		payment := testPayment(t, userID, unitID, &buildingID, 100)
		invoice := testInvoice(t, unitID, 30, billing.InvoiceTypeExpense)

		paymentRepo := new(MockPaymentRepository)
		allocationRepo := new(MockAllocationRepository)
		invoiceRepo := new(MockInvoiceRepository)
		txManager := new(MockTransactionManager)
		paymentRepo.On("FindByID", ctx, payment.GetID()).Return(payment, nil)
		allocationRepo.On("FindByPayment", ctx, payment.GetID()).Return([]payments.PaymentAllocation{}, nil)
		txManager.On("WithinTransaction", ctx).Return(nil)
		invoiceRepo.On("FindByID", ctx, invoice.GetID()).Return(invoice, nil)

		svc := newPaymentService(paymentRepo, allocationRepo, invoiceRepo, new(MockUnitRepository), txManager)
		err := svc.AllocatePayment(ctx, payment.GetID(), []AllocationRequest{
			{InvoiceID: invoice.GetID(), Amount: decimal.NewFromInt(50)},
		})
		require.Error(t, err)
		invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
