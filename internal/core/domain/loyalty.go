package domain

import (
	"errors"
	"time"
)

// RedemptionThreshold is the number of paid haircuts that earns a free one.
const RedemptionThreshold = 10

var ErrCustomerNotFound = errors.New("customer not found")
var ErrBarberNotFound = errors.New("barber not found")
var ErrNotABarber = errors.New("referenced user is not a barber")
var ErrProfileNotFound = errors.New("loyalty profile not found")
var ErrInvalidPrice = errors.New("price must be a finite non-negative amount")
var ErrVersionConflict = errors.New("loyalty profile was modified concurrently")

// LoyaltyProfile is the per-customer loyalty balance. All mutations go
// through RegisterVisit; the invariants at rest are
// 0 <= CurrentPoints < RedemptionThreshold and
// FreeHaircutsUsed <= FreeHaircutsEarned.
type LoyaltyProfile struct {
	ID                 string `json:"id" bson:"_id,omitempty"`
	CustomerID         string `json:"customer_id" bson:"customer_id"`
	CurrentPoints      int    `json:"current_points" bson:"current_points"`
	TotalPaidHaircuts  int    `json:"total_paid_haircuts" bson:"total_paid_haircuts"`
	FreeHaircutsEarned int    `json:"free_haircuts_earned" bson:"free_haircuts_earned"`
	FreeHaircutsUsed   int    `json:"free_haircuts_used" bson:"free_haircuts_used"`
	// PointsToNextFree is fully derived from CurrentPoints. It is persisted
	// for read convenience but recomputed on every mutation and never used
	// as a mutation input.
	PointsToNextFree int       `json:"points_to_next_free" bson:"points_to_next_free"`
	Version          int64     `json:"-" bson:"version"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// NewLoyaltyProfile returns a zeroed profile for a customer.
func NewLoyaltyProfile(customerID string, now time.Time) *LoyaltyProfile {
	return &LoyaltyProfile{
		CustomerID:       customerID,
		PointsToNextFree: RedemptionThreshold,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// FreeHaircutsAvailable returns the number of earned free haircuts not yet used.
func (p *LoyaltyProfile) FreeHaircutsAvailable() int {
	return p.FreeHaircutsEarned - p.FreeHaircutsUsed
}

// RegisterVisit applies one haircut to the ledger and reports whether the
// visit was granted as a free haircut.
//
// wantsFree is advisory: redemption is granted only when an earned free
// haircut remains, otherwise the visit silently downgrades to a paid one.
// A paid visit accrues one point; reaching the threshold converts the points
// into an earned free haircut, with any overflow carried forward.
func (p *LoyaltyProfile) RegisterVisit(wantsFree bool, now time.Time) bool {
	isFree := wantsFree && p.FreeHaircutsAvailable() > 0

	if isFree {
		p.FreeHaircutsUsed++
	} else {
		p.CurrentPoints++
		p.TotalPaidHaircuts++
		if p.CurrentPoints >= RedemptionThreshold {
			p.FreeHaircutsEarned++
			p.CurrentPoints -= RedemptionThreshold
		}
	}

	p.PointsToNextFree = RedemptionThreshold - p.CurrentPoints
	p.UpdatedAt = now
	return isFree
}
