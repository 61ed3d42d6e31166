package media

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, item Item) error
	Page(ctx context.Context, filter ListFilter, page, limit int64) ([]Item, int64, error)
	FindByID(ctx context.Context, id string) (Item, error)
	Update(ctx context.Context, id string, set bson.M) (Item, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func listQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Featured != nil {
		query["featured"] = *filter.Featured
	}
	return query
}

func (r *MongoRepository) Insert(ctx context.Context, item Item) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Page(ctx context.Context, filter ListFilter, page, limit int64) ([]Item, int64, error) {
	query := listQuery(filter)

	opts := options.Find().
		SetSort(bson.D{
			{Key: "sortOrder", Value: 1},
			{Key: "createdAt", Value: -1},
		}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := make([]Item, 0)
	for cursor.Next(ctx) {
		var item Item
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

func (r *MongoRepository) FindByID(ctx context.Context, id string) (Item, error) {
	var item Item
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	return item, err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Item, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Item
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Item{}, err
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
