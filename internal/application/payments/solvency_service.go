package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/condoledger/backend/internal/domain/payments"
	"github.com/condoledger/backend/internal/domain/property"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
)

// SolvencyStatus summarizes a resident's payment standing
type SolvencyStatus string

const (
	SolvencySolvent SolvencyStatus = "SOLVENT"
	SolvencyPending SolvencyStatus = "PENDING"
	SolvencyOverdue SolvencyStatus = "OVERDUE"
)

// graceDays is the grace window: through this day of the month, the
// current month's charge is not yet considered late.
const graceDays = 5

// recentTransactionLimit caps the transaction list in the summary
const recentTransactionLimit = 5

// RecentTransaction is one payment in the solvency summary
type RecentTransaction struct {
	PaymentID   uuid.UUID              `json:"payment_id"`
	Amount      string                 `json:"amount"`
	Method      payments.PaymentMethod `json:"method"`
	Status      payments.PaymentStatus `json:"status"`
	PaymentDate time.Time              `json:"payment_date"`
}

// SolvencySummary is the full solvency report for a user
type SolvencySummary struct {
	UserID             uuid.UUID           `json:"user_id"`
	Status             SolvencyStatus      `json:"status"`
	LastPaymentDate    *time.Time          `json:"last_payment_date,omitempty"`
	PendingPeriods     []string            `json:"pending_periods"`
	PaidPeriods        []string            `json:"paid_periods"`
	RecentTransactions []RecentTransaction `json:"recent_transactions"`
}

// SolvencyCache is the port for the read-side summary cache
type SolvencyCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*SolvencySummary, error)
	Set(ctx context.Context, userID uuid.UUID, summary *SolvencySummary) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// SolvencyService derives a resident's solvency from the periods their
// approved payments claim to cover, starting at their unit assignment.
type SolvencyService struct {
	paymentRepo payments.PaymentRepository
	unitRepo    property.UnitRepository
	cache       SolvencyCache
	logger      *zap.Logger
	now         func() time.Time
}

// NewSolvencyService creates a new SolvencyService. cache may be nil.
func NewSolvencyService(
	paymentRepo payments.PaymentRepository,
	unitRepo property.UnitRepository,
	cache SolvencyCache,
	logger *zap.Logger,
) *SolvencyService {
	return &SolvencyService{
		paymentRepo: paymentRepo,
		unitRepo:    unitRepo,
		cache:       cache,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the time source
func (s *SolvencyService) WithClock(now func() time.Time) *SolvencyService {
	s.now = now
	return s
}

// GetSolvencySummary computes the user's solvency status.
//
// Every period from the billing start (unit occupation, falling back to
// unit creation) through the current month is expected to be covered by
// an approved payment. Precedence:
//  1. no pending periods: SOLVENT
//  2. only the current month pending, within the grace window: SOLVENT
//  3. only the current month pending, past the grace window: PENDING
//  4. anything else: OVERDUE
func (s *SolvencyService) GetSolvencySummary(ctx context.Context, userID uuid.UUID) (*SolvencySummary, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, userID); err == nil && cached != nil {
			return cached, nil
		}
	}

	units, err := s.unitRepo.FindByResident(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load units: %w", err)
	}
	if len(units) == 0 {
		return nil, shared.NewDomainError("UNIT_NOT_FOUND", "User has no assigned unit")
	}
	unit := &units[0]

	start := unit.GetCreatedAt()
	if unit.OccupiedSince != nil {
		start = *unit.OccupiedSince
	}

	now := s.now()
	currentPeriod := valueobject.PeriodOf(now)
	expected := valueobject.PeriodsBetween(valueobject.PeriodOf(start), currentPeriod)

	approved, err := s.paymentRepo.FindApprovedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved payments: %w", err)
	}

	paid := make(map[string]bool)
	var lastPaymentDate *time.Time
	for i := range approved {
		p := &approved[i]
		for _, period := range p.Periods {
			paid[period.String()] = true
		}
		if lastPaymentDate == nil || p.PaymentDate.After(*lastPaymentDate) {
			d := p.PaymentDate
			lastPaymentDate = &d
		}
	}

	summary := &SolvencySummary{
		UserID:          userID,
		LastPaymentDate: lastPaymentDate,
		PendingPeriods:  []string{},
		PaidPeriods:     []string{},
	}
	for _, period := range expected {
		if paid[period.String()] {
			summary.PaidPeriods = append(summary.PaidPeriods, period.String())
		} else {
			summary.PendingPeriods = append(summary.PendingPeriods, period.String())
		}
	}

	summary.Status = deriveStatus(summary.PendingPeriods, currentPeriod, now.Day())

	recent, err := s.paymentRepo.FindRecentByUser(ctx, userID, recentTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent payments: %w", err)
	}
	summary.RecentTransactions = make([]RecentTransaction, 0, len(recent))
	for i := range recent {
		p := &recent[i]
		summary.RecentTransactions = append(summary.RecentTransactions, RecentTransaction{
			PaymentID:   p.GetID(),
			Amount:      p.Amount.StringFixed(2),
			Method:      p.Method,
			Status:      p.Status,
			PaymentDate: p.PaymentDate,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, summary); err != nil {
			s.logger.Warn("failed to cache solvency summary", zap.Error(err))
		}
	}
	return summary, nil
}

func deriveStatus(pending []string, currentPeriod valueobject.Period, dayOfMonth int) SolvencyStatus {
	switch {
	case len(pending) == 0:
		return SolvencySolvent
	case len(pending) == 1 && pending[0] == currentPeriod.String():
		if dayOfMonth <= graceDays {
			return SolvencySolvent
		}
		return SolvencyPending
	default:
		return SolvencyOverdue
	}
}
