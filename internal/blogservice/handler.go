package blogservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

func NewBlogService(db *sql.DB, mb common.MessageProducer, logger *slog.Logger) *BlogService {
	if mb == nil {
		mb = common.NoopProducer{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &BlogService{m: newBlogModel(db), mb: mb, logger: logger}
}

// parseID rejects malformed ids before the store is queried.
func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, common.ErrInvalidID
	}

	return parsed, nil
}

// GetBlogs returns all blog posts with their owners.
func (s *BlogService) GetBlogs(ctx context.Context) ([]Blog, error) {
	return s.m.getBlogs(ctx)
}

// GetBlogByID returns a blog post by its ID.
func (s *BlogService) GetBlogByID(ctx context.Context, id string) (*Blog, error) {
	blogID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	return s.m.getBlogById(ctx, blogID)
}

// CreateBlog creates a new blog post owned by requester. Likes default to zero.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest, requester *userservice.User) (*Blog, error) {
	if requester.IsAnonymous() {
		return nil, common.ErrUnauthorized
	}

	likes := 0
	if req.Likes != nil {
		likes = *req.Likes
	}

	blog := &Blog{
		Title:  sanitizeText(req.Title),
		Author: sanitizeText(req.Author),
		URL:    req.URL,
		Likes:  likes,
	}

	v := common.NewValidator()
	validateTitle(v, blog.Title)
	validateURL(v, blog.URL)
	validateLikes(v, blog.Likes)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err := s.m.insert(ctx, blog, requester.ID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserForeignKey):
			return nil, common.ErrUnauthorized
		default:
			return nil, err
		}
	}

	blog.User = &Owner{ID: requester.ID, Username: requester.Username, Name: requester.Name}

	s.publishCreated(ctx, blog)

	return blog, nil
}

// publishCreated announces a stored blog. The blog is already committed, so failures are only logged.
func (s *BlogService) publishCreated(ctx context.Context, blog *Blog) {
	msg, err := json.Marshal(BlogCreatedEvent{
		ID:       blog.ID,
		Title:    blog.Title,
		Author:   blog.Author,
		URL:      blog.URL,
		Username: blog.User.Username,
	})
	if err != nil {
		s.logger.Error("could not encode blog event", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err = s.mb.Publish(ctx, msg, common.BlogCreatedKey, common.BlogExchange)
	if err != nil {
		s.logger.Error("could not publish blog event", slog.String("blog_id", blog.ID.String()), slog.String("error", err.Error()))
	}
}

// UpdateBlog applies the fields set in req and returns the resulting blog. Any caller may update any blog.
func (s *BlogService) UpdateBlog(ctx context.Context, id string, req *UpdateBlogRequest) (*Blog, error) {
	blogID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if req.empty() {
		return s.m.getBlogById(ctx, blogID)
	}

	if req.Title != nil {
		title := sanitizeText(*req.Title)
		req.Title = &title
	}

	if req.Author != nil {
		author := sanitizeText(*req.Author)
		req.Author = &author
	}

	v := common.NewValidator()
	validateUpdate(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err = s.m.updateBlog(ctx, blogID, req)
	if err != nil {
		return nil, err
	}

	return s.m.getBlogById(ctx, blogID)
}

// DeleteBlog deletes a blog post. Only the owner can delete it; blogs without an owner can be deleted by any
// authenticated user.
func (s *BlogService) DeleteBlog(ctx context.Context, id string, requester *userservice.User) error {
	if requester.IsAnonymous() {
		return common.ErrUnauthorized
	}

	blogID, err := parseID(id)
	if err != nil {
		return err
	}

	blog, err := s.m.getBlogById(ctx, blogID)
	if err != nil {
		return err
	}

	if blog.User != nil && blog.User.ID != requester.ID {
		return common.ErrForbidden
	}

	return s.m.deleteBlog(ctx, blogID)
}
