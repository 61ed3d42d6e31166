package reservations

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, item Reservation) error
	Page(ctx context.Context, page, limit int64) ([]Reservation, int64, error)
	FindByID(ctx context.Context, id string) (Reservation, error)
	UpdateStatus(ctx context.Context, id, status string) (Reservation, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Reservation, error)
	ActiveOnDay(ctx context.Context, dayStart, dayEnd time.Time) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, item Reservation) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Page(ctx context.Context, page, limit int64) ([]Reservation, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := make([]Reservation, 0)
	for cursor.Next(ctx) {
		var res Reservation
		if err := cursor.Decode(&res); err != nil {
			// Malformed documents are skipped so one bad record cannot
			// take the whole listing down.
			continue
		}
		items = append(items, res)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (Reservation, error) {
	var res Reservation
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	return res, err
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id, status string) (Reservation, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": status}}

	var updated Reservation
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Reservation{}, err
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

func (r *MongoRepository) ListBetween(ctx context.Context, from, to time.Time) ([]Reservation, error) {
	query := bson.M{"eventDate": bson.M{"$gte": from, "$lt": to}}
	cursor, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Reservation, 0)
	for cursor.Next(ctx) {
		var res Reservation
		if err := cursor.Decode(&res); err != nil {
			continue
		}
		items = append(items, res)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) ActiveOnDay(ctx context.Context, dayStart, dayEnd time.Time) (int64, error) {
	query := bson.M{
		"eventDate": bson.M{"$gte": dayStart, "$lt": dayEnd},
		"status":    bson.M{"$ne": StatusCancelled},
	}
	return r.col.CountDocuments(ctx, query)
}
