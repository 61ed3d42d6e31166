package main

import (
	"context"
	"log"
	"os"
	"time"

	"aperture-backend/internal/auth"
	"aperture-backend/internal/config"
	"aperture-backend/internal/db"
	"aperture-backend/internal/media"
	"aperture-backend/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedMedia struct {
	Title    string
	Type     string
	Category string
	URL      string
	Featured bool
}

type seedBlog struct {
	Title    string
	Excerpt  string
	Content  string
	Category string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	mediaItems := []seedMedia{
		{Title: "Sunset ceremony", Type: media.TypeImage, Category: media.CategoryWedding, URL: "https://cdn.example.com/portfolio/sunset-ceremony.jpg", Featured: true},
		{Title: "Studio portrait", Type: media.TypeImage, Category: media.CategoryPortrait, URL: "https://cdn.example.com/portfolio/studio-portrait.jpg", Featured: true},
		{Title: "Conference keynote", Type: media.TypeImage, Category: media.CategoryEvent, URL: "https://cdn.example.com/portfolio/conference-keynote.jpg"},
		{Title: "First dance highlight", Type: media.TypeVideo, Category: media.CategoryWedding, URL: "https://cdn.example.com/portfolio/first-dance.mp4"},
	}

	for i, item := range mediaItems {
		filter := bson.M{"url": item.URL}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":       primitive.NewObjectID().Hex(),
				"title":     item.Title,
				"type":      item.Type,
				"category":  item.Category,
				"url":       item.URL,
				"featured":  item.Featured,
				"sortOrder": i,
				"createdAt": time.Now().In(cfg.Timezone),
				"updatedAt": time.Now().In(cfg.Timezone),
			},
		}
		if _, err := cols.Media.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed error for %s: %v", item.Title, err)
		}
	}

	blogPosts := []seedBlog{
		{
			Title:    "How to prepare for your wedding shoot",
			Excerpt:  "A short checklist that makes the day go smoothly.",
			Content:  "Plan your timeline around golden hour, brief your party, and leave buffer time for travel between venues.",
			Category: "weddings",
		},
		{
			Title:    "What to wear for a studio portrait",
			Excerpt:  "Simple wardrobe choices that photograph well.",
			Content:  "Solid colors photograph better than busy patterns. Bring two outfits and we will pick together under studio light.",
			Category: "portraits",
		},
	}

	now := time.Now().In(cfg.Timezone)
	for _, post := range blogPosts {
		slug := utils.Slugify(post.Title)
		filter := bson.M{"slug": slug}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":         primitive.NewObjectID().Hex(),
				"title":       post.Title,
				"slug":        slug,
				"content":     post.Content,
				"excerpt":     post.Excerpt,
				"author":      envOrDefault("SEED_AUTHOR", "Adam"),
				"category":    post.Category,
				"tags":        []string{post.Category},
				"published":   true,
				"publishedAt": now,
				"featured":    false,
				"views":       int64(0),
				"readTime":    1,
				"createdAt":   now,
				"updatedAt":   now,
			},
		}
		if _, err := cols.Blogs.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed error for %s: %v", post.Title, err)
		}
	}

	username := envOrDefault("ADMIN_USER", "admin")
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Printf("seed admin: %s skipped (ADMIN_PASSWORD missing)", username)
	} else if err := seedAdminUser(ctx, cols, username, envOrDefault("ADMIN_EMAIL", ""), password, cfg.Timezone); err != nil {
		log.Fatalf("seed admin error for %s: %v", username, err)
	}

	log.Println("seed completed")
}

func seedAdminUser(ctx context.Context, cols *db.Collections, username, email, password string, loc *time.Location) error {
	if cols == nil || cols.Users == nil {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	now := time.Now().In(loc)
	set := bson.M{
		"passwordHash": hash,
		"role":         "admin",
		"updatedAt":    now,
	}
	if email != "" {
		set["email"] = email
	}
	setOnInsert := bson.M{
		"_id":       primitive.NewObjectID().Hex(),
		"username":  username,
		"createdAt": now,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": setOnInsert,
	}
	_, err = cols.Users.UpdateOne(ctx, bson.M{"username": username}, update, options.Update().SetUpsert(true))
	return err
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
