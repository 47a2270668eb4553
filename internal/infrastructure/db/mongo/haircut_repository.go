package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/barberapp/barbershop-system/internal/core/domain"
)

// HaircutRepository implements ports.HaircutRepository on MongoDB. The
// collection is append-only; writes happen through the ledger commit in
// LoyaltyRepository.
type HaircutRepository struct {
	col *mongo.Collection
}

func NewHaircutRepository(db *mongo.Database) *HaircutRepository {
	return &HaircutRepository{col: db.Collection(collectionRecords)}
}

type mongoRecord struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	CustomerID         string             `bson:"customer_id"`
	BarberID           string             `bson:"barber_id"`
	OccurredAt         time.Time          `bson:"occurred_at"`
	ServiceDescription string             `bson:"service_description"`
	Price              float64            `bson:"price"`
	WasFree            bool               `bson:"was_free"`
	PointsEarned       int                `bson:"points_earned"`
	AppointmentRef     string             `bson:"appointment_ref,omitempty"`
}

func (m *mongoRecord) toDomain() *domain.HaircutRecord {
	return &domain.HaircutRecord{
		ID:                 m.ID.Hex(),
		CustomerID:         m.CustomerID,
		BarberID:           m.BarberID,
		OccurredAt:         m.OccurredAt.UTC(),
		ServiceDescription: m.ServiceDescription,
		Price:              m.Price,
		WasFree:            m.WasFree,
		PointsEarned:       m.PointsEarned,
		AppointmentRef:     m.AppointmentRef,
	}
}

// ListByCustomer returns the customer's records, most recent first.
func (r *HaircutRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.HaircutRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"customer_id": customerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]*domain.HaircutRecord, 0)
	for cursor.Next(ctx) {
		var mr mongoRecord
		if err := cursor.Decode(&mr); err != nil {
			return nil, err
		}
		records = append(records, mr.toDomain())
	}
	return records, cursor.Err()
}

// AggregateStats summarises all haircut records with a $group pipeline.
// An empty collection yields a zeroed summary.
func (r *HaircutRepository) AggregateStats(ctx context.Context) (*domain.HaircutStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	paid := bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$was_free", false}}, 1, 0}}
	free := bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$was_free", true}}, 1, 0}}
	revenue := bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$was_free", false}}, "$price", 0}}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":                 nil,
			"total_haircuts":      bson.M{"$sum": 1},
			"total_free_haircuts": bson.M{"$sum": free},
			"total_paid_haircuts": bson.M{"$sum": paid},
			"average_price":       bson.M{"$avg": "$price"},
			"total_revenue":       bson.M{"$sum": revenue},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var row struct {
		TotalHaircuts     int64   `bson:"total_haircuts"`
		TotalFreeHaircuts int64   `bson:"total_free_haircuts"`
		TotalPaidHaircuts int64   `bson:"total_paid_haircuts"`
		AveragePrice      float64 `bson:"average_price"`
		TotalRevenue      float64 `bson:"total_revenue"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
	}

	return &domain.HaircutStats{
		TotalHaircuts:     row.TotalHaircuts,
		TotalFreeHaircuts: row.TotalFreeHaircuts,
		TotalPaidHaircuts: row.TotalPaidHaircuts,
		AveragePrice:      row.AveragePrice,
		TotalRevenue:      row.TotalRevenue,
	}, nil
}
