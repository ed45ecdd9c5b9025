package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supscore/internal/model"
)

// ResultRepo handles MongoDB operations for persisted scoring results.
type ResultRepo interface {
	Create(ctx context.Context, result *model.StoredResult) (string, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.StoredResult, error)
	ListByAssessment(ctx context.Context, assessmentID string) ([]*model.StoredResult, error)
	ListByFacility(ctx context.Context, facility string) ([]*model.StoredResult, error)
}

type resultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new result repository
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection("results"),
	}
}

func (r *resultRepo) Create(ctx context.Context, result *model.StoredResult) (string, error) {
	if result.ID == "" {
		result.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, result)
	if err != nil {
		return "", err
	}
	return result.ID, nil
}

func (r *resultRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.StoredResult, error) {
	var result model.StoredResult
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepo) ListByAssessment(ctx context.Context, assessmentID string) ([]*model.StoredResult, error) {
	return r.list(ctx, bson.M{"assessmentId": assessmentID})
}

func (r *resultRepo) ListByFacility(ctx context.Context, facility string) ([]*model.StoredResult, error) {
	return r.list(ctx, bson.M{"facility": facility})
}

func (r *resultRepo) list(ctx context.Context, filter bson.M) ([]*model.StoredResult, error) {
	opts := options.Find().SetSort(bson.M{"result.timestamp": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*model.StoredResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
