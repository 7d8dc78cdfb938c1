package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/templui/microblog/internal/markdown"
	"github.com/templui/microblog/internal/model"
	"github.com/templui/microblog/internal/repository"
	"github.com/templui/microblog/internal/validation"
)

// PostPage is one page of an author's timeline, newest first.
type PostPage struct {
	Posts   []*model.Post
	Page    int
	Total   int
	HasNext bool
	HasPrev bool
}

type PostService struct {
	postRepository repository.PostRepository
	parser         *markdown.Parser
	perPage        int
}

func NewPostService(postRepository repository.PostRepository, parser *markdown.Parser, perPage int) *PostService {
	if perPage < 1 {
		perPage = 20
	}
	return &PostService{
		postRepository: postRepository,
		parser:         parser,
		perPage:        perPage,
	}
}

func (s *PostService) Create(ctx context.Context, author *model.User, body string) (*model.Post, error) {
	body = strings.TrimSpace(body)

	errs := validation.Errors{}
	validation.Required(errs, "body", body)
	validation.MaxLength(errs, "body", body, model.PostBodyMaxLength)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	post := &model.Post{Body: body, UserID: author.ID}
	err := s.postRepository.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.decorate(post, author)
	slog.Info("post created", "post_id", post.ID, "user_id", author.ID)
	return post, nil
}

// ListByAuthor returns the given 1-based page of author's posts. Pages
// past the last one are clamped to the last page.
func (s *PostService) ListByAuthor(ctx context.Context, author *model.User, page int) (*PostPage, error) {
	total, err := s.postRepository.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	lastPage := (total + s.perPage - 1) / s.perPage
	if page > lastPage {
		page = lastPage
	}
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * s.perPage
	posts, err := s.postRepository.ListByAuthor(ctx, author.ID, s.perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	for _, post := range posts {
		s.decorate(post, author)
	}

	return &PostPage{
		Posts:   posts,
		Page:    page,
		Total:   total,
		HasNext: offset+len(posts) < total,
		HasPrev: page > 1,
	}, nil
}

func (s *PostService) decorate(post *model.Post, author *model.User) {
	post.Author = author

	html, err := s.parser.ParseString(post.Body)
	if err != nil {
		slog.Warn("failed to render post body", "error", err, "post_id", post.ID)
		return
	}
	post.BodyHTML = html
}
