package persistence

import (
	"context"
	"errors"

	"github.com/condoledger/backend/internal/domain/property"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUnitRepository implements property.UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

var _ property.UnitRepository = (*GormUnitRepository)(nil)

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *Database) *GormUnitRepository {
	return &GormUnitRepository{db: db.DB}
}

// FindByID finds a unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Unit, error) {
	var model models.UnitModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBuilding returns all units of a building ordered by name
func (r *GormUnitRepository) FindByBuilding(ctx context.Context, buildingID uuid.UUID) ([]property.Unit, error) {
	var unitModels []models.UnitModel
	if err := dbFromContext(ctx, r.db).
		Where("building_id = ?", buildingID).
		Order("name ASC").
		Find(&unitModels).Error; err != nil {
		return nil, err
	}
	units := make([]property.Unit, len(unitModels))
	for i, model := range unitModels {
		units[i] = *model.ToDomain()
	}
	return units, nil
}

// FindByResident returns the units currently assigned to a resident
func (r *GormUnitRepository) FindByResident(ctx context.Context, residentID uuid.UUID) ([]property.Unit, error) {
	var unitModels []models.UnitModel
	if err := dbFromContext(ctx, r.db).
		Where("resident_id = ?", residentID).
		Order("name ASC").
		Find(&unitModels).Error; err != nil {
		return nil, err
	}
	units := make([]property.Unit, len(unitModels))
	for i, model := range unitModels {
		units[i] = *model.ToDomain()
	}
	return units, nil
}

// Save persists a unit, creating or updating as needed
func (r *GormUnitRepository) Save(ctx context.Context, unit *property.Unit) error {
	model := models.UnitModelFromDomain(unit)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// CreateBatch inserts a set of units in one statement
func (r *GormUnitRepository) CreateBatch(ctx context.Context, units []*property.Unit) error {
	if len(units) == 0 {
		return nil
	}
	unitModels := make([]*models.UnitModel, len(units))
	for i, u := range units {
		unitModels[i] = models.UnitModelFromDomain(u)
	}
	return dbFromContext(ctx, r.db).Create(&unitModels).Error
}

// GormBuildingRepository implements property.BuildingRepository using GORM
type GormBuildingRepository struct {
	db *gorm.DB
}

var _ property.BuildingRepository = (*GormBuildingRepository)(nil)

// NewGormBuildingRepository creates a new GormBuildingRepository
func NewGormBuildingRepository(db *Database) *GormBuildingRepository {
	return &GormBuildingRepository{db: db.DB}
}

// FindByID finds a building by its ID
func (r *GormBuildingRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Building, error) {
	var model models.BuildingModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GormRoleRepository implements property.RoleRepository over the
// building_roles grant table
type GormRoleRepository struct {
	db *gorm.DB
}

var _ property.RoleRepository = (*GormRoleRepository)(nil)

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *Database) *GormRoleRepository {
	return &GormRoleRepository{db: db.DB}
}

// IsGlobalAdmin reports whether the user holds the platform ADMIN role
func (r *GormRoleRepository) IsGlobalAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.BuildingRoleModel{}).
		Where("user_id = ? AND building_id IS NULL AND role = ?", userID, property.RoleAdmin).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasBuildingRole reports whether the user holds the given role scoped
// to the building
func (r *GormRoleRepository) HasBuildingRole(ctx context.Context, userID, buildingID uuid.UUID, role property.RoleType) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.BuildingRoleModel{}).
		Where("user_id = ? AND building_id = ? AND role = ?", userID, buildingID, role).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
