package domain

import "time"

// HaircutRecord is one append-only entry in a customer's haircut history.
// WasFree and PointsEarned are fixed at creation and never mutated.
type HaircutRecord struct {
	ID                 string    `json:"id" bson:"_id,omitempty"`
	CustomerID         string    `json:"customer_id" bson:"customer_id"`
	BarberID           string    `json:"barber_id" bson:"barber_id"`
	OccurredAt         time.Time `json:"occurred_at" bson:"occurred_at"`
	ServiceDescription string    `json:"service_description" bson:"service_description"`
	Price              float64   `json:"price" bson:"price"`
	WasFree            bool      `json:"was_free" bson:"was_free"`
	PointsEarned       int       `json:"points_earned" bson:"points_earned"`
	AppointmentRef     string    `json:"appointment_ref,omitempty" bson:"appointment_ref,omitempty"`
}

// HaircutStats is the store-wide aggregation over haircut records.
type HaircutStats struct {
	TotalHaircuts     int64   `json:"total_haircuts"`
	TotalFreeHaircuts int64   `json:"total_free_haircuts"`
	TotalPaidHaircuts int64   `json:"total_paid_haircuts"`
	AveragePrice      float64 `json:"average_price"`
	TotalRevenue      float64 `json:"total_revenue"`
}

// LoyaltyStats is the store-wide aggregation over loyalty profiles.
type LoyaltyStats struct {
	TotalCustomers         int64   `json:"total_customers"`
	TotalFreeEarned        int64   `json:"total_free_earned"`
	TotalFreeUsed          int64   `json:"total_free_used"`
	AvgHaircutsPerCustomer float64 `json:"avg_haircuts_per_customer"`
}
