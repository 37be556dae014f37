package pettycash

import (
	"context"

	"github.com/google/uuid"
)

// FundRepository is the port for petty cash fund persistence
type FundRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PettyCashFund, error)
	// FindByBuilding returns the building's single fund, or
	// shared.ErrNotFound if none was ever created
	FindByBuilding(ctx context.Context, buildingID uuid.UUID) (*PettyCashFund, error)
	Create(ctx context.Context, fund *PettyCashFund) error
	// SaveWithLock persists using optimistic locking; concurrent fund
	// mutations for the same building must not lose updates
	SaveWithLock(ctx context.Context, fund *PettyCashFund) error
}

// TransactionRepository is the port for the append-only fund ledger
type TransactionRepository interface {
	Create(ctx context.Context, tx *PettyCashTransaction) error
	// FindByFund returns the fund's entries, newest first, capped at
	// limit (0 means no cap)
	FindByFund(ctx context.Context, fundID uuid.UUID, limit int) ([]PettyCashTransaction, error)
}
