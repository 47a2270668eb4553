package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/barberapp/barbershop-system/internal/api/metrics"
	"github.com/barberapp/barbershop-system/internal/core/domain"
	"github.com/barberapp/barbershop-system/internal/core/ports"
)

// maxCommitAttempts bounds the optimistic retry loop on version conflicts.
const maxCommitAttempts = 5

// VisitLocker serializes haircut registrations per customer. Locking is
// best-effort: correctness is guaranteed by the versioned commit, the lock
// only reduces retries under contention.
type VisitLocker interface {
	// Lock acquires the per-customer lock and returns a release function.
	Lock(ctx context.Context, customerID string) (func(), error)
}

// LoyaltyService owns the loyalty ledger rules and the authorization gating
// around them.
type LoyaltyService struct {
	profiles ports.LoyaltyRepository
	haircuts ports.HaircutRepository
	users    ports.UserRepository
	locker   VisitLocker
	logger   zerolog.Logger
}

func NewLoyaltyService(
	profiles ports.LoyaltyRepository,
	haircuts ports.HaircutRepository,
	users ports.UserRepository,
	locker VisitLocker,
	logger zerolog.Logger,
) *LoyaltyService {
	return &LoyaltyService{
		profiles: profiles,
		haircuts: haircuts,
		users:    users,
		locker:   locker,
		logger:   logger,
	}
}

// GetOrCreateProfile returns the customer's loyalty profile, materializing a
// zeroed one on first access.
func (s *LoyaltyService) GetOrCreateProfile(ctx context.Context, caller ports.Caller, customerID string) (*domain.LoyaltyProfile, error) {
	if err := domain.Authorize(caller.Role, domain.ActionViewProfile, caller.ID, customerID); err != nil {
		return nil, err
	}
	return s.profiles.GetOrCreate(ctx, customerID, time.Now().UTC())
}

// RegisterHaircut records one haircut event: the gate checks the caller, the
// barber's role is verified, the ledger applies the accrual or redemption
// rule, and the profile update plus the history record are committed
// together.
func (s *LoyaltyService) RegisterHaircut(ctx context.Context, input ports.RegisterHaircutInput) (*ports.RegisterHaircutResult, error) {
	start := time.Now()
	defer func() {
		metrics.RegisterHaircutDuration.Observe(time.Since(start).Seconds())
	}()

	if err := domain.Authorize(input.Caller.Role, domain.ActionRegisterHaircut, input.Caller.ID, input.CustomerID); err != nil {
		return nil, err
	}
	if input.Price < 0 || math.IsNaN(input.Price) || math.IsInf(input.Price, 0) {
		return nil, domain.ErrInvalidPrice
	}

	if _, err := s.users.FindByID(ctx, input.CustomerID); err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("resolve customer: %w", err)
	}

	barber, err := s.users.FindByID(ctx, input.BarberID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrBarberNotFound
		}
		return nil, fmt.Errorf("resolve barber: %w", err)
	}
	if barber.Role != domain.RoleBarber {
		return nil, domain.ErrNotABarber
	}

	release, err := s.locker.Lock(ctx, input.CustomerID)
	if err != nil {
		s.logger.Warn().Err(err).Str("customer_id", input.CustomerID).Msg("visit lock unavailable, relying on versioned commit")
	} else {
		defer release()
	}

	for attempt := 1; ; attempt++ {
		now := time.Now().UTC()

		profile, err := s.profiles.GetOrCreate(ctx, input.CustomerID, now)
		if err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}

		earnedBefore := profile.FreeHaircutsEarned
		isFree := profile.RegisterVisit(input.WantsFreeHaircut, now)

		record := &domain.HaircutRecord{
			CustomerID:         input.CustomerID,
			BarberID:           input.BarberID,
			OccurredAt:         now,
			ServiceDescription: input.ServiceDescription,
			Price:              input.Price,
			WasFree:            isFree,
			AppointmentRef:     input.AppointmentRef,
		}
		if !isFree {
			record.PointsEarned = 1
		}

		err = s.profiles.CommitVisit(ctx, profile, record)
		if err == nil {
			metrics.HaircutsRegisteredTotal.WithLabelValues(visitType(isFree)).Inc()
			if profile.FreeHaircutsEarned > earnedBefore {
				metrics.FreeHaircutsEarnedTotal.Inc()
			}
			if isFree {
				metrics.FreeHaircutsRedeemedTotal.Inc()
			}

			s.logger.Info().
				Str("customer_id", input.CustomerID).
				Str("barber_id", input.BarberID).
				Bool("was_free", isFree).
				Int("current_points", profile.CurrentPoints).
				Msg("haircut registered")

			return &ports.RegisterHaircutResult{Haircut: record, Profile: profile}, nil
		}

		if err == domain.ErrVersionConflict && attempt < maxCommitAttempts {
			metrics.LedgerConflictsTotal.Inc()
			s.logger.Debug().Str("customer_id", input.CustomerID).Int("attempt", attempt).Msg("ledger version conflict, retrying")
			continue
		}
		return nil, fmt.Errorf("commit visit: %w", err)
	}
}

// CheckFreeHaircutAvailability is a pure read; unlike GetOrCreateProfile it
// does not lazily create a missing profile.
func (s *LoyaltyService) CheckFreeHaircutAvailability(ctx context.Context, caller ports.Caller, customerID string) (*ports.Availability, error) {
	if err := domain.Authorize(caller.Role, domain.ActionCheckAvailability, caller.ID, customerID); err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &ports.Availability{
		FreeHaircutsAvailable: profile.FreeHaircutsAvailable(),
		CurrentPoints:         profile.CurrentPoints,
		PointsToNextFree:      profile.PointsToNextFree,
	}, nil
}

// ListHistory returns the customer's haircut records, most recent first,
// each enriched with the barber's display name.
func (s *LoyaltyService) ListHistory(ctx context.Context, caller ports.Caller, customerID string) ([]ports.HistoryEntry, error) {
	if err := domain.Authorize(caller.Role, domain.ActionViewHistory, caller.ID, customerID); err != nil {
		return nil, err
	}

	records, err := s.haircuts.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	ids := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if !seen[r.BarberID] {
			seen[r.BarberID] = true
			ids = append(ids, r.BarberID)
		}
	}

	names, err := s.users.NamesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve barber names: %w", err)
	}

	entries := make([]ports.HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, ports.HistoryEntry{
			ID:                 r.ID,
			BarberID:           r.BarberID,
			BarberName:         names[r.BarberID],
			OccurredAt:         r.OccurredAt,
			ServiceDescription: r.ServiceDescription,
			Price:              r.Price,
			WasFree:            r.WasFree,
			PointsEarned:       r.PointsEarned,
			AppointmentRef:     r.AppointmentRef,
		})
	}
	return entries, nil
}

// AggregateStats summarises the whole ledger and haircut history. Both
// aggregations return zeroed summaries on an empty store.
func (s *LoyaltyService) AggregateStats(ctx context.Context, caller ports.Caller) (*ports.Stats, error) {
	if err := domain.Authorize(caller.Role, domain.ActionViewStats, caller.ID, caller.ID); err != nil {
		return nil, err
	}

	haircutStats, err := s.haircuts.AggregateStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("haircut stats: %w", err)
	}
	loyaltyStats, err := s.profiles.AggregateStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("loyalty stats: %w", err)
	}

	return &ports.Stats{Haircuts: *haircutStats, Loyalty: *loyaltyStats}, nil
}

func visitType(isFree bool) string {
	if isFree {
		return "free"
	}
	return "paid"
}
