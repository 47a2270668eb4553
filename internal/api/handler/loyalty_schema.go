package handler

import (
	"time"

	"github.com/barberapp/barbershop-system/internal/core/domain"
	"github.com/barberapp/barbershop-system/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type registerHaircutRequest struct {
	BarberID           string  `json:"barber_id"           validate:"required"`
	ServiceDescription string  `json:"service_description" validate:"required"`
	Price              float64 `json:"price"               validate:"gte=0"`
	AppointmentRef     string  `json:"appointment_ref"`
	WantsFreeHaircut   bool    `json:"wants_free_haircut"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type profileResponse struct {
	CustomerID         string    `json:"customer_id"`
	CurrentPoints      int       `json:"current_points"`
	TotalPaidHaircuts  int       `json:"total_paid_haircuts"`
	FreeHaircutsEarned int       `json:"free_haircuts_earned"`
	FreeHaircutsUsed   int       `json:"free_haircuts_used"`
	PointsToNextFree   int       `json:"points_to_next_free"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toProfileResponse(p *domain.LoyaltyProfile) profileResponse {
	return profileResponse{
		CustomerID:         p.CustomerID,
		CurrentPoints:      p.CurrentPoints,
		TotalPaidHaircuts:  p.TotalPaidHaircuts,
		FreeHaircutsEarned: p.FreeHaircutsEarned,
		FreeHaircutsUsed:   p.FreeHaircutsUsed,
		PointsToNextFree:   p.PointsToNextFree,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

type haircutResponse struct {
	ID                 string    `json:"id"`
	CustomerID         string    `json:"customer_id"`
	BarberID           string    `json:"barber_id"`
	OccurredAt         time.Time `json:"occurred_at"`
	ServiceDescription string    `json:"service_description"`
	Price              float64   `json:"price"`
	WasFree            bool      `json:"was_free"`
	PointsEarned       int       `json:"points_earned"`
	AppointmentRef     string    `json:"appointment_ref,omitempty"`
}

func toHaircutResponse(r *domain.HaircutRecord) haircutResponse {
	return haircutResponse{
		ID:                 r.ID,
		CustomerID:         r.CustomerID,
		BarberID:           r.BarberID,
		OccurredAt:         r.OccurredAt,
		ServiceDescription: r.ServiceDescription,
		Price:              r.Price,
		WasFree:            r.WasFree,
		PointsEarned:       r.PointsEarned,
		AppointmentRef:     r.AppointmentRef,
	}
}

type registerHaircutResponse struct {
	Haircut haircutResponse `json:"haircut"`
	Loyalty profileResponse `json:"loyalty"`
}

type availabilityResponse struct {
	FreeHaircutsAvailable int `json:"free_haircuts_available"`
	CurrentPoints         int `json:"current_points"`
	PointsToNextFree      int `json:"points_to_next_free"`
}

type historyEntryResponse struct {
	ID                 string    `json:"id"`
	BarberID           string    `json:"barber_id"`
	BarberName         string    `json:"barber_name"`
	OccurredAt         time.Time `json:"occurred_at"`
	ServiceDescription string    `json:"service_description"`
	Price              float64   `json:"price"`
	WasFree            bool      `json:"was_free"`
	PointsEarned       int       `json:"points_earned"`
	AppointmentRef     string    `json:"appointment_ref,omitempty"`
}

type historyResponse struct {
	Results  int                    `json:"results"`
	Haircuts []historyEntryResponse `json:"haircuts"`
}

type statsResponse struct {
	HaircutStats domain.HaircutStats `json:"haircut_stats"`
	LoyaltyStats domain.LoyaltyStats `json:"loyalty_stats"`
}

func toHistoryResponse(entries []ports.HistoryEntry) historyResponse {
	items := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyEntryResponse{
			ID:                 e.ID,
			BarberID:           e.BarberID,
			BarberName:         e.BarberName,
			OccurredAt:         e.OccurredAt,
			ServiceDescription: e.ServiceDescription,
			Price:              e.Price,
			WasFree:            e.WasFree,
			PointsEarned:       e.PointsEarned,
			AppointmentRef:     e.AppointmentRef,
		})
	}
	return historyResponse{Results: len(items), Haircuts: items}
}
