package contact

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, item Message) error
	Page(ctx context.Context, filter ListFilter, page, limit int64) ([]Message, int64, error)
	FindByID(ctx context.Context, id string) (Message, error)
	UpdateStatus(ctx context.Context, id, status string, set bson.M) (Message, error)
	Delete(ctx context.Context, id string) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func listQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = []bson.M{
			{"name": pattern},
			{"email": pattern},
			{"subject": pattern},
		}
	}
	return query
}

func (r *MongoRepository) Insert(ctx context.Context, item Message) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Page(ctx context.Context, filter ListFilter, page, limit int64) ([]Message, int64, error) {
	query := listQuery(filter)

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := make([]Message, 0)
	for cursor.Next(ctx) {
		var item Message
		if err := cursor.Decode(&item); err != nil {
			continue
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (Message, error) {
	var item Message
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	return item, err
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id, status string, set bson.M) (Message, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Message
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Message{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.Count
	}
	return counts, cursor.Err()
}
