package blogs

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, item Blog) error
	Page(ctx context.Context, filter ListFilter, page, limit int64) ([]Blog, int64, error)
	FindByID(ctx context.Context, id string) (Blog, error)
	FindBySlug(ctx context.Context, slug string) (Blog, error)
	IncrementViews(ctx context.Context, id string) error
	Update(ctx context.Context, id string, set bson.M) (Blog, error)
	Delete(ctx context.Context, id string) (bool, error)
	CountPublished(ctx context.Context) (int64, error)
	CountDrafts(ctx context.Context) (int64, error)
	SumViews(ctx context.Context) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func listQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Published != nil {
		query["published"] = *filter.Published
	}
	if filter.Featured != nil {
		query["featured"] = *filter.Featured
	}
	return query
}

func (r *MongoRepository) Insert(ctx context.Context, item Blog) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Page(ctx context.Context, filter ListFilter, page, limit int64) ([]Blog, int64, error) {
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

	items := make([]Blog, 0)
	for cursor.Next(ctx) {
		var item Blog
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

func (r *MongoRepository) FindByID(ctx context.Context, id string) (Blog, error) {
	var item Blog
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	return item, err
}

func (r *MongoRepository) FindBySlug(ctx context.Context, slug string) (Blog, error) {
	var item Blog
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&item)
	return item, err
}

func (r *MongoRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Blog, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Blog
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Blog{}, err
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

func (r *MongoRepository) CountPublished(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"published": true})
}

func (r *MongoRepository) CountDrafts(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"published": false})
}

func (r *MongoRepository) SumViews(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$views"}}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result struct {
		Total int64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, err
		}
	}
	return result.Total, cursor.Err()
}
