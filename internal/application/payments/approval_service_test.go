package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/payments"
	"github.com/condoledger/backend/internal/domain/pettycash"
	"github.com/condoledger/backend/internal/domain/property"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
)

type approvalFixture struct {
	paymentRepo    *MockPaymentRepository
	allocationRepo *MockAllocationRepository
	invoiceRepo    *MockInvoiceRepository
	unitRepo       *MockUnitRepository
	roleRepo       *MockRoleRepository
	fundRepo       *MockFundRepository
	fundTxRepo     *MockFundTransactionRepository
	txManager      *MockTransactionManager
	cache          *MockSolvencyCache
	svc            *ApprovalService
}

func newApprovalFixture() *approvalFixture {
	f := &approvalFixture{
		paymentRepo:    new(MockPaymentRepository),
		allocationRepo: new(MockAllocationRepository),
		invoiceRepo:    new(MockInvoiceRepository),
		unitRepo:       new(MockUnitRepository),
		roleRepo:       new(MockRoleRepository),
		fundRepo:       new(MockFundRepository),
		fundTxRepo:     new(MockFundTransactionRepository),
		txManager:      new(MockTransactionManager),
		cache:          new(MockSolvencyCache),
	}
	f.cache.On("Invalidate", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.svc = NewApprovalService(
		f.paymentRepo, f.allocationRepo, f.invoiceRepo, f.unitRepo,
		f.roleRepo, f.fundRepo, f.fundTxRepo, f.txManager, f.cache, zap.NewNop(),
	)
	return f
}

func fundWithBalance(t *testing.T, buildingID uuid.UUID, balance float64) *pettycash.PettyCashFund {
	t.Helper()
	fund, err := pettycash.NewPettyCashFund(buildingID)
	require.NoError(t, err)
	if balance > 0 {
		require.NoError(t, fund.AddIncome(valueobject.NewMoneyUSDFromFloat(balance)))
	}
	return fund
}

func TestApprovalService_Approve(t *testing.T) {
	ctx := context.Background()
	approverID := uuid.New()
	userID := uuid.New()
	buildingID := uuid.New()

	t.Run("admin approves and reimbursement allocation credits the fund", func(t *testing.T) {
		f := newApprovalFixture()
		unit := testUnit(t, buildingID)
		payment := testPayment(t, userID, unit.GetID(), &buildingID, 50)
		invoice := testInvoice(t, unit.GetID(), 50, billing.InvoiceTypeReplenishment)
		invoice.WithDescription("Pump repair overage")
		alloc, err := payments.NewPaymentAllocation(payment.GetID(), invoice.GetID(), valueobject.NewMoneyUSDFromFloat(50))
		require.NoError(t, err)
		fund := fundWithBalance(t, buildingID, 0)

		f.paymentRepo.On("FindByID", ctx, payment.GetID()).Return(payment, nil)
		f.roleRepo.On("IsGlobalAdmin", ctx, approverID).Return(true, nil)
		f.txManager.On("WithinTransaction", ctx).Return(nil)
		f.paymentRepo.On("Save", ctx, payment).Return(nil)
		f.allocationRepo.On("FindByPayment", ctx, payment.GetID()).Return([]payments.PaymentAllocation{*alloc}, nil)
		f.invoiceRepo.On("FindByID", ctx, invoice.GetID()).Return(invoice, nil)
		f.unitRepo.On("FindByID", ctx, unit.GetID()).Return(unit, nil)
		f.fundRepo.On("FindByBuilding", ctx, buildingID).Return(fund, nil)
		f.fundRepo.On("SaveWithLock", ctx, fund).Return(nil)
		f.fundTxRepo.On("Create", ctx, mock.MatchedBy(func(tx *pettycash.PettyCashTransaction) bool {
			return tx.Type == pettycash.TransactionTypeIncome &&
				tx.Amount.Equal(decimal.NewFromInt(50))
		})).Return(nil)

		require.NoError(t, f.svc.Approve(ctx, payment.GetID(), approverID, "ok"))

		assert.True(t, payment.IsApproved())
		assert.True(t, fund.CurrentBalance.Equal(decimal.NewFromInt(50)))
		f.fundTxRepo.AssertExpectations(t)
	})

	t.Run("non-reimbursement allocation leaves the fund untouched", func(t *testing.T) {
		f := newApprovalFixture()
		unit := testUnit(t, buildingID)
		payment := testPayment(t, userID, unit.GetID(), &buildingID, 50)
		invoice := testInvoice(t, unit.GetID(), 50, billing.InvoiceTypeExpense)
		alloc, err := payments.NewPaymentAllocation(payment.GetID(), invoice.GetID(), valueobject.NewMoneyUSDFromFloat(50))
		require.NoError(t, err)

		f.paymentRepo.On("FindByID", ctx, payment.GetID()).Return(payment, nil)
		f.roleRepo.On("IsGlobalAdmin", ctx, approverID).Return(true, nil)
		f.txManager.On("WithinTransaction", ctx).Return(nil)
		f.paymentRepo.On("Save", ctx, payment).Return(nil)
		f.allocationRepo.On("FindByPayment", ctx, payment.GetID()).Return([]payments.PaymentAllocation{*alloc}, nil)
		f.invoiceRepo.On("FindByID", ctx, invoice.GetID()).Return(invoice, nil)

		require.NoError(t, f.svc.Approve(ctx, payment.GetID(), approverID, ""))

		f.fundRepo.AssertNotCalled(t, "FindByBuilding", mock.Anything, mock.Anything)
		f.fundTxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("building without a fund is skipped", func(t *testing.T) {
		f := newApprovalFixture()
		unit := testUnit(t, buildingID)
		payment := testPayment(t, userID, unit.GetID(), &buildingID, 50)
		invoice := testInvoice(t, unit.GetID(), 50, billing.InvoiceTypeReplenishment)
		alloc, err := payments.NewPaymentAllocation(payment.GetID(), invoice.GetID(), valueobject.NewMoneyUSDFromFloat(50))
		require.NoError(t, err)

		f.paymentRepo.On("FindByID", ctx, payment.GetID()).Return(payment, nil)
		f.roleRepo.On("IsGlobalAdmin", ctx, approverID).Return(true, nil)
		f.txManager.On("WithinTransaction", ctx).Return(nil)
		f.paymentRepo.On("Save", ctx, payment).Return(nil)
		f.allocationRepo.On("FindByPayment", ctx, payment.GetID()).Return([]payments.PaymentAllocation{*alloc}, nil)
		f.invoiceRepo.On("FindByID", ctx, invoice.GetID()).Return(invoice, nil)
		f.unitRepo.On("FindByID", ctx, unit.GetID()).Return(unit, nil)
		f.fundRepo.On("FindByBuilding", ctx, buildingID).Return(nil, shared.ErrNotFound)

		require.NoError(t, f.svc.Approve(ctx, payment.GetID(), approverID, ""))
		f.fundTxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("re-approval is a no-op and does not re-run the replenishment scan", func(t *testing.T) {
		f := newApprovalFixture()
		unit := testUnit(t, buildingID)
		payment := testPayment(t, userID, unit.GetID(), &buildingID, 50)
		require.NoError(t, payment.Approve(approverID, "first"))

		f.paymentRepo.On("FindByID", ctx, payment.GetID()).Return(payment, nil)
		f.roleRepo.On("IsGlobalAdmin", ctx, approverID).Return(true, nil)

		require.NoError(t, f.svc.Approve(ctx, payment.GetID(), approverID, "again"))

		f.paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.allocationRepo.AssertNotCalled(t, "FindByPayment", mock.Anything, mock.Anything)
	})

	t.Run("approval invalidates the payer's solvency summary", func(t *testing.T) {
		f := newApprovalFixture()
		unit := testUnit(t, buildingID)
		payment := testPayment(t, userID, unit.GetID(), &buildingID, 50)

		f.paymentRepo.On("FindByID", ctx, payment.GetID()).Return(payment, nil)
		f.roleRepo.On("IsGlobalAdmin", ctx, approverID).Return(true, nil)
		f.txManager.On("WithinTransaction", ctx).Return(nil)
		f.paymentRepo.On("Save", ctx, payment).Return(nil)
		f.allocationRepo.On("FindByPayment", ctx, payment.GetID()).Return([]payments.PaymentAllocation{}, nil)

		require.NoError(t, f.svc.Approve(ctx, payment.GetID(), approverID, ""))
		f.cache.AssertCalled(t, "Invalidate", ctx, userID)
	})

	t.Run("forbidden approval leaves the solvency summary cached", func(t *testing.T) {
		f := newApprovalFixture()
		unit := testUnit(t, buildingID)
		payment := testPayment(t, userID, unit.GetID(), &buildingID, 50)

		f.paymentRepo.On("FindByID", ctx, payment.GetID()).Return(payment, nil)
		f.roleRepo.On("IsGlobalAdmin", ctx, approverID).Return(false, nil)
		f.roleRepo.On("HasBuildingRole", ctx, approverID, buildingID, property.RoleBoard).Return(false, nil)

		require.Error(t, f.svc.Approve(ctx, payment.GetID(), approverID, ""))
		f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("board member scoped to the building may approve", func(t *testing.T) {
		f := newApprovalFixture()
		unit := testUnit(t, buildingID)
		payment := testPayment(t, userID, unit.GetID(), &buildingID, 50)

		f.paymentRepo.On("FindByID", ctx, payment.GetID()).Return(payment, nil)
		f.roleRepo.On("IsGlobalAdmin", ctx, approverID).Return(false, nil)
		f.roleRepo.On("HasBuildingRole", ctx, approverID, buildingID, property.RoleBoard).Return(true, nil)
		f.txManager.On("WithinTransaction", ctx).Return(nil)
		f.paymentRepo.On("Save", ctx, payment).Return(nil)
		f.allocationRepo.On("FindByPayment", ctx, payment.GetID()).Return([]payments.PaymentAllocation{}, nil)

		require.NoError(t, f.svc.Approve(ctx, payment.GetID(), approverID, ""))
		assert.True(t, payment.IsApproved())
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		f := newApprovalFixture()
		unit := testUnit(t, buildingID)
		payment := testPayment(t, userID, unit.GetID(), &buildingID, 50)

		f.paymentRepo.On("FindByID", ctx, payment.GetID()).Return(payment, nil)
		f.roleRepo.On("IsGlobalAdmin", ctx, approverID).Return(false, nil)
		f.roleRepo.On("HasBuildingRole", ctx, approverID, buildingID, property.RoleBoard).Return(false, nil)

		err := f.svc.Approve(ctx, payment.GetID(), approverID, "")
		require.Error(t, err)
		assert.True(t, payment.IsPending())
		f.paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestApprovalService_Reject(t *testing.T) {
	ctx := context.Background()
	approverID := uuid.New()
	buildingID := uuid.New()

	t.Run("rejects with no side effects", func(t *testing.T) {
		f := newApprovalFixture()
		payment := testPayment(t, uuid.New(), uuid.New(), &buildingID, 50)

		f.paymentRepo.On("FindByID", ctx, payment.GetID()).Return(payment, nil)
		f.roleRepo.On("IsGlobalAdmin", ctx, approverID).Return(true, nil)
		f.paymentRepo.On("Save", ctx, payment).Return(nil)

		require.NoError(t, f.svc.Reject(ctx, payment.GetID(), approverID, "illegible proof"))
		assert.True(t, payment.IsRejected())
		assert.Equal(t, "illegible proof", payment.ReviewNotes)
		f.allocationRepo.AssertNotCalled(t, "FindByPayment", mock.Anything, mock.Anything)
		f.cache.AssertCalled(t, "Invalidate", ctx, payment.UserID)
	})

	t.Run("cannot reject an approved payment", func(t *testing.T) {
		f := newApprovalFixture()
		payment := testPayment(t, uuid.New(), uuid.New(), &buildingID, 50)
		require.NoError(t, payment.Approve(approverID, ""))

		f.paymentRepo.On("FindByID", ctx, payment.GetID()).Return(payment, nil)
		f.roleRepo.On("IsGlobalAdmin", ctx, approverID).Return(true, nil)

		err := f.svc.Reject(ctx, payment.GetID(), approverID, "")
		assert.Error(t, err)
	})
}
