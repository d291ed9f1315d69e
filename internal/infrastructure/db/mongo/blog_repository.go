package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
)

const blogCollection = "blog_posts"

type MongoBlogRepository struct {
	coll *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{coll: db.Collection(blogCollection)}
}

type mongoPost struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	Content       string             `bson:"content"`
	ReadMinutes   int                `bson:"read_minutes"`
	Tags          []string           `bson:"tags"`
	FeaturedImage string             `bson:"featured_image,omitempty"`
	Author        string             `bson:"author,omitempty"`
	CreatedAt     int64              `bson:"created_at"`
	UpdatedAt     int64              `bson:"updated_at"`
}

// Ping runs the server ping command against the blog database.
func (r *MongoBlogRepository) Ping(ctx context.Context) error {
	return r.coll.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// EnsureIndexes creates the created_at index used by List.
func (r *MongoBlogRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create blog indexes: %w", err)
	}
	return nil
}

func (r *MongoBlogRepository) List(ctx context.Context) ([]*domain.BlogPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]*domain.BlogPost, 0, len(docs))
	for i := range docs {
		posts = append(posts, toDomainPost(&docs[i]))
	}
	return posts, nil
}

func (r *MongoBlogRepository) Get(ctx context.Context, id string) (*domain.BlogPost, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	var doc mongoPost
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return toDomainPost(&doc), nil
}

func (r *MongoBlogRepository) Create(ctx context.Context, p *domain.BlogPost) (*domain.BlogPost, error) {
	doc := fromDomainPost(p)
	doc.ID = primitive.NilObjectID

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert post: unexpected id type %T", res.InsertedID)
	}

	created := *p
	created.ID = oid.Hex()
	return &created, nil
}

func (r *MongoBlogRepository) Update(ctx context.Context, p *domain.BlogPost) error {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return domain.ErrPostNotFound
	}
	doc := fromDomainPost(p)
	update := bson.M{"$set": bson.M{
		"title":          doc.Title,
		"description":    doc.Description,
		"content":        doc.Content,
		"read_minutes":   doc.ReadMinutes,
		"tags":           doc.Tags,
		"featured_image": doc.FeaturedImage,
		"author":         doc.Author,
		"updated_at":     doc.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *MongoBlogRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func fromDomainPost(p *domain.BlogPost) mongoPost {
	doc := mongoPost{
		Title:         p.Title,
		Description:   p.Description,
		Content:       p.Content,
		ReadMinutes:   p.ReadMinutes,
		Tags:          p.Tags,
		FeaturedImage: p.FeaturedImage,
		Author:        p.Author,
		CreatedAt:     p.CreatedAt.UnixMilli(),
		UpdatedAt:     p.UpdatedAt.UnixMilli(),
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	return doc
}

func toDomainPost(doc *mongoPost) *domain.BlogPost {
	return &domain.BlogPost{
		ID:            doc.ID.Hex(),
		Title:         doc.Title,
		Description:   doc.Description,
		Content:       doc.Content,
		ReadMinutes:   doc.ReadMinutes,
		Tags:          doc.Tags,
		FeaturedImage: doc.FeaturedImage,
		Author:        doc.Author,
		CreatedAt:     millisToTime(doc.CreatedAt),
		UpdatedAt:     millisToTime(doc.UpdatedAt),
	}
}

func millisToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
