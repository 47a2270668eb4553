package ports

import (
	"context"
	"time"

	"github.com/barberapp/barbershop-system/internal/core/domain"
)

// Caller identifies the authenticated principal performing an operation.
type Caller struct {
	ID   string
	Role string
}

// RegisterHaircutInput carries all data needed to register one haircut.
type RegisterHaircutInput struct {
	Caller             Caller
	CustomerID         string
	BarberID           string
	ServiceDescription string
	Price              float64
	AppointmentRef     string
	// WantsFreeHaircut is advisory; the ledger decides whether redemption is
	// actually granted.
	WantsFreeHaircut bool
}

// RegisterHaircutResult returns both entities touched by a registration.
type RegisterHaircutResult struct {
	Haircut *domain.HaircutRecord
	Profile *domain.LoyaltyProfile
}

// Availability summarises a customer's free-haircut entitlement.
type Availability struct {
	FreeHaircutsAvailable int
	CurrentPoints         int
	PointsToNextFree      int
}

// HistoryEntry is a haircut record enriched with the barber's display name.
type HistoryEntry struct {
	ID                 string
	BarberID           string
	BarberName         string
	OccurredAt         time.Time
	ServiceDescription string
	Price              float64
	WasFree            bool
	PointsEarned       int
	AppointmentRef     string
}

// Stats combines the ledger-wide and haircut-wide summaries.
type Stats struct {
	Haircuts domain.HaircutStats
	Loyalty  domain.LoyaltyStats
}

// LoyaltyService defines the use-case operations of the loyalty core.
type LoyaltyService interface {
	GetOrCreateProfile(ctx context.Context, caller Caller, customerID string) (*domain.LoyaltyProfile, error)
	RegisterHaircut(ctx context.Context, input RegisterHaircutInput) (*RegisterHaircutResult, error)
	CheckFreeHaircutAvailability(ctx context.Context, caller Caller, customerID string) (*Availability, error)
	ListHistory(ctx context.Context, caller Caller, customerID string) ([]HistoryEntry, error)
	AggregateStats(ctx context.Context, caller Caller) (*Stats, error)
}
