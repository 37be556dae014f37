package persistence

import (
	"context"
	"errors"

	"github.com/condoledger/backend/internal/domain/payments"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements payments.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

var _ payments.PaymentRepository = (*GormPaymentRepository)(nil)

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *Database) *GormPaymentRepository {
	return &GormPaymentRepository{db: db.DB}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payments.Payment, error) {
	var model models.PaymentModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUnit finds the unit's payments with optional filtering, newest first
func (r *GormPaymentRepository) FindByUnit(ctx context.Context, unitID uuid.UUID, filter payments.PaymentFilter) ([]payments.Payment, error) {
	query := dbFromContext(ctx, r.db).Model(&models.PaymentModel{}).
		Where("unit_id = ?", unitID)
	query = applyPaymentFilter(query, filter)

	var paymentModels []models.PaymentModel
	if err := query.Order("payment_date DESC").Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// FindApprovedByUser returns every approved payment the user made, newest first
func (r *GormPaymentRepository) FindApprovedByUser(ctx context.Context, userID uuid.UUID) ([]payments.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := dbFromContext(ctx, r.db).
		Where("user_id = ? AND status = ?", userID, payments.PaymentStatusApproved).
		Order("payment_date DESC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// FindRecentByUser returns the user's most recent payments regardless of
// status, capped at limit
func (r *GormPaymentRepository) FindRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]payments.Payment, error) {
	query := dbFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("payment_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var paymentModels []models.PaymentModel
	if err := query.Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// Create inserts a new payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *payments.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// Save persists changes to an existing payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *payments.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	return dbFromContext(ctx, r.db).Save(model).Error
}

func applyPaymentFilter(query *gorm.DB, filter payments.PaymentFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Method != nil {
		query = query.Where("method = ?", *filter.Method)
	}
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}
	return query
}

func toDomainPayments(paymentModels []models.PaymentModel) []payments.Payment {
	result := make([]payments.Payment, len(paymentModels))
	for i, model := range paymentModels {
		result[i] = *model.ToDomain()
	}
	return result
}

// GormAllocationRepository implements payments.AllocationRepository using GORM
type GormAllocationRepository struct {
	db *gorm.DB
}

var _ payments.AllocationRepository = (*GormAllocationRepository)(nil)

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *Database) *GormAllocationRepository {
	return &GormAllocationRepository{db: db.DB}
}

// FindByPayment returns the allocations recorded against a payment
func (r *GormAllocationRepository) FindByPayment(ctx context.Context, paymentID uuid.UUID) ([]payments.PaymentAllocation, error) {
	var allocationModels []models.PaymentAllocationModel
	if err := dbFromContext(ctx, r.db).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}
	return toDomainAllocations(allocationModels), nil
}

// Create inserts a new allocation
func (r *GormAllocationRepository) Create(ctx context.Context, allocation *payments.PaymentAllocation) error {
	model := models.PaymentAllocationModelFromDomain(allocation)
	return dbFromContext(ctx, r.db).Create(model).Error
}

func toDomainAllocations(allocationModels []models.PaymentAllocationModel) []payments.PaymentAllocation {
	result := make([]payments.PaymentAllocation, len(allocationModels))
	for i, model := range allocationModels {
		result[i] = *model.ToDomain()
	}
	return result
}
