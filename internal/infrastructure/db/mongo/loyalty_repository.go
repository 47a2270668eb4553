package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/barberapp/barbershop-system/internal/core/domain"
)

const (
	collectionProfiles = "loyalty_profiles"
	collectionRecords  = "haircut_records"
)

// LoyaltyRepository implements ports.LoyaltyRepository on MongoDB.
type LoyaltyRepository struct {
	db       *mongo.Database
	profiles *mongo.Collection
	records  *mongo.Collection
}

func NewLoyaltyRepository(db *mongo.Database) *LoyaltyRepository {
	return &LoyaltyRepository{
		db:       db,
		profiles: db.Collection(collectionProfiles),
		records:  db.Collection(collectionRecords),
	}
}

type mongoProfile struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	CustomerID         string             `bson:"customer_id"`
	CurrentPoints      int                `bson:"current_points"`
	TotalPaidHaircuts  int                `bson:"total_paid_haircuts"`
	FreeHaircutsEarned int                `bson:"free_haircuts_earned"`
	FreeHaircutsUsed   int                `bson:"free_haircuts_used"`
	PointsToNextFree   int                `bson:"points_to_next_free"`
	Version            int64              `bson:"version"`
	CreatedAt          time.Time          `bson:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at"`
}

func (m *mongoProfile) toDomain() *domain.LoyaltyProfile {
	return &domain.LoyaltyProfile{
		ID:                 m.ID.Hex(),
		CustomerID:         m.CustomerID,
		CurrentPoints:      m.CurrentPoints,
		TotalPaidHaircuts:  m.TotalPaidHaircuts,
		FreeHaircutsEarned: m.FreeHaircutsEarned,
		FreeHaircutsUsed:   m.FreeHaircutsUsed,
		PointsToNextFree:   m.PointsToNextFree,
		Version:            m.Version,
		CreatedAt:          m.CreatedAt.UTC(),
		UpdatedAt:          m.UpdatedAt.UTC(),
	}
}

// GetOrCreate fetches the customer's profile, atomically inserting a zeroed
// one when none exists. The upsert makes concurrent first accesses converge
// on a single document.
func (r *LoyaltyRepository) GetOrCreate(ctx context.Context, customerID string, now time.Time) (*domain.LoyaltyProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"customer_id": customerID}
	update := bson.M{"$setOnInsert": bson.M{
		"customer_id":          customerID,
		"current_points":       0,
		"total_paid_haircuts":  0,
		"free_haircuts_earned": 0,
		"free_haircuts_used":   0,
		"points_to_next_free":  domain.RedemptionThreshold,
		"version":              int64(0),
		"created_at":           now,
		"updated_at":           now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var mp mongoProfile
	if err := r.profiles.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mp); err != nil {
		return nil, err
	}
	return mp.toDomain(), nil
}

// FindByCustomer retrieves the profile without creating one.
func (r *LoyaltyRepository) FindByCustomer(ctx context.Context, customerID string) (*domain.LoyaltyProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProfile
	err := r.profiles.FindOne(ctx, bson.M{"customer_id": customerID}).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return mp.toDomain(), nil
}

// CommitVisit writes the mutated profile and inserts the haircut record in
// one transaction. The profile update is conditional on the version the
// caller read; when no document matches, another writer won and
// domain.ErrVersionConflict is returned with nothing persisted.
func (r *LoyaltyRepository) CommitVisit(ctx context.Context, profile *domain.LoyaltyProfile, record *domain.HaircutRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	insertedID, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		filter := bson.M{"customer_id": profile.CustomerID, "version": profile.Version}
		update := bson.M{
			"$set": bson.M{
				"current_points":       profile.CurrentPoints,
				"total_paid_haircuts":  profile.TotalPaidHaircuts,
				"free_haircuts_earned": profile.FreeHaircutsEarned,
				"free_haircuts_used":   profile.FreeHaircutsUsed,
				"points_to_next_free":  profile.PointsToNextFree,
				"updated_at":           profile.UpdatedAt,
			},
			"$inc": bson.M{"version": int64(1)},
		}

		res, err := r.profiles.UpdateOne(sc, filter, update)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrVersionConflict
		}

		doc := bson.M{
			"customer_id":         record.CustomerID,
			"barber_id":           record.BarberID,
			"occurred_at":         record.OccurredAt,
			"service_description": record.ServiceDescription,
			"price":               record.Price,
			"was_free":            record.WasFree,
			"points_earned":       record.PointsEarned,
		}
		if record.AppointmentRef != "" {
			doc["appointment_ref"] = record.AppointmentRef
		}

		ins, err := r.records.InsertOne(sc, doc)
		if err != nil {
			return nil, err
		}
		return ins.InsertedID, nil
	})
	if err != nil {
		return err
	}

	if oid, ok := insertedID.(primitive.ObjectID); ok {
		record.ID = oid.Hex()
	}
	profile.Version++
	return nil
}

// AggregateStats summarises all loyalty profiles with a $group pipeline.
// An empty collection yields a zeroed summary.
func (r *LoyaltyRepository) AggregateStats(ctx context.Context) (*domain.LoyaltyStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"total_customers":   bson.M{"$sum": 1},
			"total_free_earned": bson.M{"$sum": "$free_haircuts_earned"},
			"total_free_used":   bson.M{"$sum": "$free_haircuts_used"},
			"avg_haircuts":      bson.M{"$avg": "$total_paid_haircuts"},
		}}},
	}

	cursor, err := r.profiles.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var row struct {
		TotalCustomers  int64   `bson:"total_customers"`
		TotalFreeEarned int64   `bson:"total_free_earned"`
		TotalFreeUsed   int64   `bson:"total_free_used"`
		AvgHaircuts     float64 `bson:"avg_haircuts"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
	}

	return &domain.LoyaltyStats{
		TotalCustomers:         row.TotalCustomers,
		TotalFreeEarned:        row.TotalFreeEarned,
		TotalFreeUsed:          row.TotalFreeUsed,
		AvgHaircutsPerCustomer: row.AvgHaircuts,
	}, nil
}

// EnsureIndexes creates the indexes backing profile lookup and history reads.
func (r *LoyaltyRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.profiles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "customer_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = r.records.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "occurred_at", Value: -1}},
	})
	return err
}
