package availabilityRepo

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
)

// ErrNotFound is returned when the rule or override does not exist.
var ErrNotFound = errors.New("availability repository: not found")

// MongoAvailabilityRepo implements AvailabilityRepository using MongoDB.
type MongoAvailabilityRepo struct {
	ruleColl     *mongo.Collection
	overrideColl *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new instance of MongoAvailabilityRepo.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoAvailabilityRepo{
		ruleColl:     db.Collection("availability_rules"),
		overrideColl: db.Collection("availability_overrides"),
	}
}

func (repo *MongoAvailabilityRepo) CreateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.ruleColl.InsertOne(ctx, rule); err != nil {
		return fmt.Errorf("error creating availability rule: %w", err)
	}
	return nil
}

func (repo *MongoAvailabilityRepo) DeleteRule(ctx context.Context, memberID, ruleID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.ruleColl.DeleteOne(ctx, bson.M{"id": ruleID, "member_id": memberID})
	if err != nil {
		return fmt.Errorf("error deleting availability rule %s: %w", ruleID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoAvailabilityRepo) ListRulesByMember(ctx context.Context, memberID string) ([]models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.ruleColl.Find(ctx, bson.M{"member_id": memberID})
	if err != nil {
		return nil, fmt.Errorf("error listing rules for member %s: %w", memberID, err)
	}
	defer cursor.Close(ctx)

	var rules []models.AvailabilityRule
	for cursor.Next(ctx) {
		var r models.AvailabilityRule
		if err := cursor.Decode(&r); err != nil {
			return nil, fmt.Errorf("error decoding availability rule: %w", err)
		}
		rules = append(rules, r)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return rules, nil
}

func (repo *MongoAvailabilityRepo) CreateOverride(ctx context.Context, override *models.AvailabilityOverride) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.overrideColl.InsertOne(ctx, override); err != nil {
		return fmt.Errorf("error creating availability override: %w", err)
	}
	return nil
}

func (repo *MongoAvailabilityRepo) DeleteOverride(ctx context.Context, memberID, overrideID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.overrideColl.DeleteOne(ctx, bson.M{"id": overrideID, "member_id": memberID})
	if err != nil {
		return fmt.Errorf("error deleting availability override %s: %w", overrideID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoAvailabilityRepo) ListOverridesInRange(ctx context.Context, memberID, from, until string) ([]models.AvailabilityOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"member_id": memberID,
		"date":      bson.M{"$gte": from, "$lt": until},
	}
	cursor, err := repo.overrideColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing overrides for member %s: %w", memberID, err)
	}
	defer cursor.Close(ctx)

	var overrides []models.AvailabilityOverride
	for cursor.Next(ctx) {
		var o models.AvailabilityOverride
		if err := cursor.Decode(&o); err != nil {
			return nil, fmt.Errorf("error decoding availability override: %w", err)
		}
		overrides = append(overrides, o)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return overrides, nil
}
