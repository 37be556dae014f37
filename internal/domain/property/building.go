package property

import (
	"strings"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
)

// Building represents a managed condominium building
type Building struct {
	shared.BaseAggregateRoot
	Name     string               `json:"name"`
	Address  string               `json:"address,omitempty"`
	Currency valueobject.Currency `json:"currency"`
}

// NewBuilding creates a new building
func NewBuilding(name, address string) (*Building, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_BUILDING_NAME", "Building name cannot be empty")
	}
	return &Building{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Address:           address,
		Currency:          valueobject.DefaultCurrency,
	}, nil
}

// RoleType represents the role a user holds, either globally or inside
// one building
type RoleType string

const (
	RoleAdmin    RoleType = "ADMIN" // platform administrator, not building-scoped
	RoleBoard    RoleType = "BOARD" // board member of one building
	RoleResident RoleType = "RESIDENT"
)

// IsValid checks if the role is a known RoleType
func (r RoleType) IsValid() bool {
	switch r {
	case RoleAdmin, RoleBoard, RoleResident:
		return true
	}
	return false
}
