package pettycash

import (
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundCreatedEvent is raised when a building's fund is first created
type FundCreatedEvent struct {
	shared.BaseDomainEvent
	FundID     uuid.UUID `json:"fund_id"`
	BuildingID uuid.UUID `json:"building_id"`
}

// EventType returns the event type name
func (e *FundCreatedEvent) EventType() string {
	return "PettyCashFundCreated"
}

// NewFundCreatedEvent creates a new FundCreatedEvent
func NewFundCreatedEvent(f *PettyCashFund) *FundCreatedEvent {
	return &FundCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PettyCashFundCreated", "PettyCashFund", f.ID),
		FundID:          f.ID,
		BuildingID:      f.BuildingID,
	}
}

// FundCreditedEvent is raised when income enters the fund
type FundCreditedEvent struct {
	shared.BaseDomainEvent
	FundID     uuid.UUID       `json:"fund_id"`
	BuildingID uuid.UUID       `json:"building_id"`
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// EventType returns the event type name
func (e *FundCreditedEvent) EventType() string {
	return "PettyCashFundCredited"
}

// NewFundCreditedEvent creates a new FundCreditedEvent
func NewFundCreditedEvent(f *PettyCashFund, amount valueobject.Money) *FundCreditedEvent {
	return &FundCreditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PettyCashFundCredited", "PettyCashFund", f.ID),
		FundID:          f.ID,
		BuildingID:      f.BuildingID,
		Amount:          amount.Amount(),
		NewBalance:      f.CurrentBalance,
	}
}

// FundDebitedEvent is raised when money leaves the fund
type FundDebitedEvent struct {
	shared.BaseDomainEvent
	FundID     uuid.UUID       `json:"fund_id"`
	BuildingID uuid.UUID       `json:"building_id"`
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// EventType returns the event type name
func (e *FundDebitedEvent) EventType() string {
	return "PettyCashFundDebited"
}

// NewFundDebitedEvent creates a new FundDebitedEvent
func NewFundDebitedEvent(f *PettyCashFund, amount valueobject.Money) *FundDebitedEvent {
	return &FundDebitedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PettyCashFundDebited", "PettyCashFund", f.ID),
		FundID:          f.ID,
		BuildingID:      f.BuildingID,
		Amount:          amount.Amount(),
		NewBalance:      f.CurrentBalance,
	}
}
