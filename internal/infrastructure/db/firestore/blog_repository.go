package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
)

const blogCollection = "blogPosts"

type FirestoreBlogRepository struct {
	coll *firestore.CollectionRef
}

func NewBlogRepository(client *firestore.Client) *FirestoreBlogRepository {
	return &FirestoreBlogRepository{coll: client.Collection(blogCollection)}
}

type firestorePost struct {
	Title         string    `firestore:"title"`
	Description   string    `firestore:"description"`
	Content       string    `firestore:"content"`
	ReadMinutes   int       `firestore:"readTime"`
	Tags          []string  `firestore:"tags"`
	FeaturedImage string    `firestore:"featuredImage,omitempty"`
	Author        string    `firestore:"author,omitempty"`
	CreatedAt     time.Time `firestore:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt"`
}

// Ping reads at most one document to prove the project is reachable.
func (r *FirestoreBlogRepository) Ping(ctx context.Context) error {
	iter := r.coll.Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}

func (r *FirestoreBlogRepository) List(ctx context.Context) ([]*domain.BlogPost, error) {
	iter := r.coll.OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	posts := []*domain.BlogPost{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		p, err := decodePost(snap)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (r *FirestoreBlogRepository) Get(ctx context.Context, id string) (*domain.BlogPost, error) {
	snap, err := r.coll.Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return decodePost(snap)
}

func (r *FirestoreBlogRepository) Create(ctx context.Context, p *domain.BlogPost) (*domain.BlogPost, error) {
	ref, _, err := r.coll.Add(ctx, toFirestorePost(p))
	if err != nil {
		return nil, fmt.Errorf("add post: %w", err)
	}
	created := *p
	created.ID = ref.ID
	return &created, nil
}

func (r *FirestoreBlogRepository) Update(ctx context.Context, p *domain.BlogPost) error {
	doc := toFirestorePost(p)
	_, err := r.coll.Doc(p.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: doc.Title},
		{Path: "description", Value: doc.Description},
		{Path: "content", Value: doc.Content},
		{Path: "readTime", Value: doc.ReadMinutes},
		{Path: "tags", Value: doc.Tags},
		{Path: "featuredImage", Value: doc.FeaturedImage},
		{Path: "author", Value: doc.Author},
		{Path: "updatedAt", Value: doc.UpdatedAt},
	})
	if err != nil {
		if isNotFound(err) {
			return domain.ErrPostNotFound
		}
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

func (r *FirestoreBlogRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.Doc(id).Delete(ctx, firestore.Exists); err != nil {
		if isNotFound(err) {
			return domain.ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func decodePost(snap *firestore.DocumentSnapshot) (*domain.BlogPost, error) {
	var doc firestorePost
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode post %s: %w", snap.Ref.ID, err)
	}
	return toDomainPost(snap.Ref.ID, &doc), nil
}

func toFirestorePost(p *domain.BlogPost) firestorePost {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return firestorePost{
		Title:         p.Title,
		Description:   p.Description,
		Content:       p.Content,
		ReadMinutes:   p.ReadMinutes,
		Tags:          tags,
		FeaturedImage: p.FeaturedImage,
		Author:        p.Author,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toDomainPost(id string, doc *firestorePost) *domain.BlogPost {
	return &domain.BlogPost{
		ID:            id,
		Title:         doc.Title,
		Description:   doc.Description,
		Content:       doc.Content,
		ReadMinutes:   doc.ReadMinutes,
		Tags:          doc.Tags,
		FeaturedImage: doc.FeaturedImage,
		Author:        doc.Author,
		CreatedAt:     doc.CreatedAt.UTC(),
		UpdatedAt:     doc.UpdatedAt.UTC(),
	}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
