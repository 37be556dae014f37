package models

import (
	"time"

	"github.com/condoledger/backend/internal/domain/property"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// BuildingModel is the persistence model for the Building aggregate root.
type BuildingModel struct {
	AggregateModel
	Name     string               `gorm:"type:varchar(200);not null"`
	Address  string               `gorm:"type:text"`
	Currency valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
}

// TableName returns the table name for GORM
func (BuildingModel) TableName() string {
	return "buildings"
}

// ToDomain converts the persistence model to a domain Building.
func (m *BuildingModel) ToDomain() *property.Building {
	return &property.Building{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Address:           m.Address,
		Currency:          m.Currency,
	}
}

// FromDomain populates the persistence model from a domain Building.
func (m *BuildingModel) FromDomain(b *property.Building) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Name = b.Name
	m.Address = b.Address
	m.Currency = b.Currency
}

// UnitModel is the persistence model for the Unit aggregate root.
// The unit name is unique per building, compared case-insensitively
// at query time.
type UnitModel struct {
	AggregateModel
	BuildingID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_unit_building_name,priority:1"`
	Name          string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_unit_building_name,priority:2"`
	ResidentID    *uuid.UUID `gorm:"type:uuid;index"`
	OccupiedSince *time.Time
	Aliquot       string `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the persistence model to a domain Unit.
func (m *UnitModel) ToDomain() *property.Unit {
	return &property.Unit{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BuildingID:        m.BuildingID,
		Name:              m.Name,
		ResidentID:        m.ResidentID,
		OccupiedSince:     m.OccupiedSince,
		Aliquot:           m.Aliquot,
	}
}

// FromDomain populates the persistence model from a domain Unit.
func (m *UnitModel) FromDomain(u *property.Unit) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.BuildingID = u.BuildingID
	m.Name = u.Name
	m.ResidentID = u.ResidentID
	m.OccupiedSince = u.OccupiedSince
	m.Aliquot = u.Aliquot
}

// UnitModelFromDomain creates a new persistence model from a domain Unit.
func UnitModelFromDomain(u *property.Unit) *UnitModel {
	m := &UnitModel{}
	m.FromDomain(u)
	return m
}

// BuildingRoleModel stores role grants. A NULL building scopes the role
// platform-wide (the ADMIN case); otherwise the grant applies inside a
// single building.
type BuildingRoleModel struct {
	BaseModel
	UserID     uuid.UUID         `gorm:"type:uuid;not null;index:idx_role_user_building,priority:1"`
	BuildingID *uuid.UUID        `gorm:"type:uuid;index:idx_role_user_building,priority:2"`
	Role       property.RoleType `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (BuildingRoleModel) TableName() string {
	return "building_roles"
}
