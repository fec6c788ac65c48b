package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotbook/config"
	"slotbook/database"
	"slotbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no reservation matches the query.
	ErrNotFound = errors.New("reservation repository: not found")
	// ErrDuplicateKey is returned when an insert collides with the
	// (member_id, idempotency_key) unique index.
	ErrDuplicateKey = errors.New("reservation repository: duplicate idempotency key")
)

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo constructs the repository and ensures its indexes.
func NewMongoReservationRepo() ReservationRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	repo := &MongoReservationRepo{coll: db.Collection("reservations")}
	repo.ensureIndexes()
	return repo
}

func (repo *MongoReservationRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "idempotency_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "member_id", Value: 1}, {Key: "interval.start", Value: 1}},
		},
	})
	if err != nil {
		// Index creation failures surface on first conflicting write; the
		// ledger's exclusive section still holds the overlap invariant.
		fmt.Printf("warning: failed to ensure reservation indexes: %v\n", err)
	}
}

func (repo *MongoReservationRepo) Insert(ctx context.Context, reservation *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, reservation); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("error inserting reservation: %w", err)
	}
	return nil
}

func (repo *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var reservation models.Reservation
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&reservation); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching reservation %s: %w", id, err)
	}
	return &reservation, nil
}

func (repo *MongoReservationRepo) FindByIdempotencyKey(ctx context.Context, memberID, key string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"member_id": memberID, "idempotency_key": key}
	var reservation models.Reservation
	if err := repo.coll.FindOne(ctx, filter).Decode(&reservation); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching reservation by idempotency key: %w", err)
	}
	return &reservation, nil
}

func (repo *MongoReservationRepo) ListConfirmedInRange(ctx context.Context, memberID string, from, until time.Time) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"member_id":      memberID,
		"status":         models.ReservationConfirmed,
		"interval.start": bson.M{"$lt": until},
		"interval.end":   bson.M{"$gt": from},
	}
	opts := options.Find().SetSort(bson.D{{Key: "interval.start", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations for member %s: %w", memberID, err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	for cursor.Next(ctx) {
		var r models.Reservation
		if err := cursor.Decode(&r); err != nil {
			return nil, fmt.Errorf("error decoding reservation: %w", err)
		}
		reservations = append(reservations, r)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return reservations, nil
}

func (repo *MongoReservationRepo) Cancel(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": models.ReservationConfirmed},
		bson.M{"$set": bson.M{"status": models.ReservationCancelled}},
	)
	if err != nil {
		return fmt.Errorf("error cancelling reservation %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
