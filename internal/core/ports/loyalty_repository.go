package ports

import (
	"context"
	"time"

	"github.com/barberapp/barbershop-system/internal/core/domain"
)

// LoyaltyRepository defines persistence for loyalty profiles and the atomic
// ledger commit.
type LoyaltyRepository interface {
	// GetOrCreate fetches the profile for customerID, atomically creating a
	// zeroed one when absent. Absence is a normal first-use state, never an
	// error.
	GetOrCreate(ctx context.Context, customerID string, now time.Time) (*domain.LoyaltyProfile, error)

	// FindByCustomer retrieves the profile or domain.ErrProfileNotFound.
	FindByCustomer(ctx context.Context, customerID string) (*domain.LoyaltyProfile, error)

	// CommitVisit persists the mutated profile together with the new haircut
	// record so that a reader never observes one write without the other.
	// The profile write is conditional on the version the profile was read
	// at; domain.ErrVersionConflict is returned when another writer got
	// there first, and nothing is persisted.
	CommitVisit(ctx context.Context, profile *domain.LoyaltyProfile, record *domain.HaircutRecord) error

	// AggregateStats summarises all profiles. An empty store yields a zeroed
	// summary.
	AggregateStats(ctx context.Context) (*domain.LoyaltyStats, error)
}

// HaircutRepository defines read access to the append-only haircut history.
type HaircutRepository interface {
	// ListByCustomer returns all records for the customer, most recent first.
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.HaircutRecord, error)

	// AggregateStats summarises all haircut records. An empty store yields a
	// zeroed summary.
	AggregateStats(ctx context.Context) (*domain.HaircutStats, error)
}
