package property

import (
	"strings"
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Unit represents a single apartment or office inside a building.
// Unit CRUD lives outside this core; the ledger only needs identity,
// resident assignment and the building linkage.
type Unit struct {
	shared.BaseAggregateRoot
	BuildingID    uuid.UUID  `json:"building_id"`
	Name          string     `json:"name"` // label as it appears on the ledger sheet, e.g. "11" or "PB-A"
	ResidentID    *uuid.UUID `json:"resident_id,omitempty"`
	OccupiedSince *time.Time `json:"occupied_since,omitempty"`
	Aliquot       string     `json:"aliquot,omitempty"` // ownership percentage, informational
}

// NewUnit creates a new unit for a building
func NewUnit(buildingID uuid.UUID, name string) (*Unit, error) {
	if buildingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUILDING", "Building ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_UNIT_NAME", "Unit name cannot be empty")
	}
	return &Unit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuildingID:        buildingID,
		Name:              name,
	}, nil
}

// AssignResident links a resident to the unit from the given date
func (u *Unit) AssignResident(residentID uuid.UUID, since time.Time) error {
	if residentID == uuid.Nil {
		return shared.NewDomainError("INVALID_RESIDENT", "Resident ID cannot be empty")
	}
	u.ResidentID = &residentID
	u.OccupiedSince = &since
	u.Touch()
	u.IncrementVersion()
	return nil
}

// NameMatches compares unit names case-insensitively, the way ledger
// sheets reference units
func (u *Unit) NameMatches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), u.Name)
}
