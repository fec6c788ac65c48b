package memberRepo

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

// ErrNotFound is returned when the requested team or member does not exist.
var ErrNotFound = errors.New("member repository: not found")

// MongoMemberRepo implements MemberRepository using MongoDB.
type MongoMemberRepo struct {
	teamColl   *mongo.Collection
	memberColl *mongo.Collection
}

// NewMongoMemberRepo constructs a new instance of MongoMemberRepo.
func NewMongoMemberRepo() MemberRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoMemberRepo{
		teamColl:   db.Collection("teams"),
		memberColl: db.Collection("members"),
	}
}

func (repo *MongoMemberRepo) CreateTeam(ctx context.Context, team *models.Team) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.teamColl.InsertOne(ctx, team); err != nil {
		return fmt.Errorf("error creating team: %w", err)
	}
	return nil
}

func (repo *MongoMemberRepo) GetTeamByID(ctx context.Context, teamID string) (*models.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var team models.Team
	if err := repo.teamColl.FindOne(ctx, bson.M{"id": teamID}).Decode(&team); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching team %s: %w", teamID, err)
	}
	return &team, nil
}

func (repo *MongoMemberRepo) CreateMember(ctx context.Context, member *models.Member) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.memberColl.InsertOne(ctx, member); err != nil {
		return fmt.Errorf("error creating member: %w", err)
	}
	return nil
}

func (repo *MongoMemberRepo) GetMemberByID(ctx context.Context, memberID string) (*models.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var member models.Member
	if err := repo.memberColl.FindOne(ctx, bson.M{"id": memberID}).Decode(&member); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching member %s: %w", memberID, err)
	}
	return &member, nil
}

func (repo *MongoMemberRepo) ListMembersByTeam(ctx context.Context, teamID string) ([]models.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.memberColl.Find(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return nil, fmt.Errorf("error listing members for team %s: %w", teamID, err)
	}
	defer cursor.Close(ctx)

	var members []models.Member
	for cursor.Next(ctx) {
		var m models.Member
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("error decoding member: %w", err)
		}
		members = append(members, m)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return members, nil
}

func (repo *MongoMemberRepo) SetMemberDisabled(ctx context.Context, memberID string, disabled bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.memberColl.UpdateOne(ctx,
		bson.M{"id": memberID},
		bson.M{"$set": bson.M{"disabled": disabled}},
	)
	if err != nil {
		return fmt.Errorf("error updating member %s: %w", memberID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
