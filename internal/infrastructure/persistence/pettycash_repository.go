package persistence

import (
	"context"
	"errors"

	"github.com/condoledger/backend/internal/domain/pettycash"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFundRepository implements pettycash.FundRepository using GORM
type GormFundRepository struct {
	db *gorm.DB
}

var _ pettycash.FundRepository = (*GormFundRepository)(nil)

// NewGormFundRepository creates a new GormFundRepository
func NewGormFundRepository(db *Database) *GormFundRepository {
	return &GormFundRepository{db: db.DB}
}

// FindByID finds a fund by its ID
func (r *GormFundRepository) FindByID(ctx context.Context, id uuid.UUID) (*pettycash.PettyCashFund, error) {
	var model models.PettyCashFundModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBuilding returns the building's single fund
func (r *GormFundRepository) FindByBuilding(ctx context.Context, buildingID uuid.UUID) (*pettycash.PettyCashFund, error) {
	var model models.PettyCashFundModel
	if err := dbFromContext(ctx, r.db).
		Where("building_id = ?", buildingID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a new fund
func (r *GormFundRepository) Create(ctx context.Context, fund *pettycash.PettyCashFund) error {
	model := models.PettyCashFundModelFromDomain(fund)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// SaveWithLock saves with optimistic locking so concurrent balance
// mutations for the same building never lose updates
func (r *GormFundRepository) SaveWithLock(ctx context.Context, fund *pettycash.PettyCashFund) error {
	model := models.PettyCashFundModelFromDomain(fund)
	result := dbFromContext(ctx, r.db).
		Model(model).
		Where("id = ? AND version = ?", fund.ID, fund.Version-1).
		Updates(map[string]interface{}{
			"current_balance": model.CurrentBalance,
			"currency":        model.Currency,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The fund has been modified by another transaction")
	}
	return nil
}

// GormFundTransactionRepository implements pettycash.TransactionRepository
// using GORM. The ledger is append-only.
type GormFundTransactionRepository struct {
	db *gorm.DB
}

var _ pettycash.TransactionRepository = (*GormFundTransactionRepository)(nil)

// NewGormFundTransactionRepository creates a new GormFundTransactionRepository
func NewGormFundTransactionRepository(db *Database) *GormFundTransactionRepository {
	return &GormFundTransactionRepository{db: db.DB}
}

// Create appends a ledger entry
func (r *GormFundTransactionRepository) Create(ctx context.Context, tx *pettycash.PettyCashTransaction) error {
	model := models.PettyCashTransactionModelFromDomain(tx)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// FindByFund returns the fund's entries, newest first, capped at limit
// (0 means no cap)
func (r *GormFundTransactionRepository) FindByFund(ctx context.Context, fundID uuid.UUID, limit int) ([]pettycash.PettyCashTransaction, error) {
	query := dbFromContext(ctx, r.db).
		Where("fund_id = ?", fundID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var txModels []models.PettyCashTransactionModel
	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}
	transactions := make([]pettycash.PettyCashTransaction, len(txModels))
	for i, model := range txModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}
