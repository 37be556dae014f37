package property

import (
	"context"

	"github.com/google/uuid"
)

// UnitRepository is the port for unit lookups and batch creation
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	FindByBuilding(ctx context.Context, buildingID uuid.UUID) ([]Unit, error)
	FindByResident(ctx context.Context, residentID uuid.UUID) ([]Unit, error)
	Save(ctx context.Context, unit *Unit) error
	CreateBatch(ctx context.Context, units []*Unit) error
}

// BuildingRepository is the port for building lookups
type BuildingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Building, error)
}

// RoleRepository resolves what a user is allowed to do. Role management
// is an external collaborator; the ledger only reads.
type RoleRepository interface {
	// IsGlobalAdmin reports whether the user holds the platform ADMIN role
	IsGlobalAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	// HasBuildingRole reports whether the user holds the given role scoped
	// to the building
	HasBuildingRole(ctx context.Context, userID, buildingID uuid.UUID, role RoleType) (bool, error)
}
