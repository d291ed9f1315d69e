package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/core/ports"
)

const (
	wordsPerMinute     = 200
	defaultBlogPerPage = 6
	maxBlogPerPage     = 50
)

type blogService struct {
	repo ports.BlogRepository
	now  func() time.Time
	log  zerolog.Logger
}

// NewBlogService returns a BlogService over repo.
func NewBlogService(repo ports.BlogRepository, log zerolog.Logger) ports.BlogService {
	return &blogService{repo: repo, now: time.Now, log: log}
}

// List loads every post and slices out the requested page. Pages are
// 1-based; out-of-range pages yield an empty item list.
func (s *blogService) List(ctx context.Context, page, perPage int) (*ports.BlogPage, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return Paginate(posts, page, perPage), nil
}

func (s *blogService) Get(ctx context.Context, id string) (*domain.BlogPost, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrPostNotFound
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (s *blogService) Create(ctx context.Context, in ports.BlogPostInput) (*domain.BlogPost, error) {
	if err := validatePost(in); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	post := &domain.BlogPost{
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		Content:       in.Content,
		ReadMinutes:   EstimateReadMinutes(in.Content),
		Tags:          normalizeTags(in.Tags),
		FeaturedImage: in.FeaturedImage,
		Author:        in.Author,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.log.Info().Str("post_id", created.ID).Str("title", created.Title).Msg("blog post created")
	return created, nil
}

// Update overwrites the authored fields of an existing post and keeps its
// creation time.
func (s *blogService) Update(ctx context.Context, id string, in ports.BlogPostInput) (*domain.BlogPost, error) {
	if err := validatePost(in); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	existing.Title = strings.TrimSpace(in.Title)
	existing.Description = strings.TrimSpace(in.Description)
	existing.Content = in.Content
	existing.ReadMinutes = EstimateReadMinutes(in.Content)
	existing.Tags = normalizeTags(in.Tags)
	existing.FeaturedImage = in.FeaturedImage
	if in.Author != "" {
		existing.Author = in.Author
	}
	existing.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return existing, nil
}

func (s *blogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.log.Info().Str("post_id", id).Msg("blog post deleted")
	return nil
}

// Paginate slices posts into a 1-based page. perPage falls back to the
// default when non-positive and is capped.
func Paginate(posts []*domain.BlogPost, page, perPage int) *ports.BlogPage {
	if perPage <= 0 {
		perPage = defaultBlogPerPage
	}
	if perPage > maxBlogPerPage {
		perPage = maxBlogPerPage
	}
	if page < 1 {
		page = 1
	}

	total := len(posts)
	totalPages := (total + perPage - 1) / perPage

	items := []*domain.BlogPost{}
	// Compare pages before multiplying so a huge page cannot overflow start.
	if page <= totalPages {
		start := (page - 1) * perPage
		end := min(start+perPage, total)
		items = posts[start:end]
	}

	return &ports.BlogPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

// EstimateReadMinutes counts the words of the visible text in htmlContent
// and converts them to minutes at 200 wpm, rounded up, never below one.
func EstimateReadMinutes(htmlContent string) int {
	words := 0
	z := html.NewTokenizer(strings.NewReader(htmlContent))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed input: count what was read so far.
			return max(1, (words+wordsPerMinute-1)/wordsPerMinute)
		case html.StartTagToken:
			if name, _ := z.TagName(); isInvisible(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isInvisible(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				words += len(strings.Fields(string(z.Text())))
			}
		}
	}
}

func isInvisible(tag []byte) bool {
	switch string(tag) {
	case "script", "style":
		return true
	}
	return false
}

func validatePost(in ports.BlogPostInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	case strings.TrimSpace(in.Description) == "":
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	case strings.TrimSpace(in.Content) == "":
		return fmt.Errorf("%w: content is required", domain.ErrValidation)
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
