package blogservice

import (
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sushihentaime/bloglist/internal/common"
)

// Owner is the user a blog belongs to, expanded for display.
type Owner struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

type Blog struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	URL    string    `json:"url"`
	Likes  int       `json:"likes"`
	// User is nil for blogs created before ownership was tracked.
	User *Owner `json:"user,omitempty"`
}

type CreateBlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
}

// UpdateBlogRequest holds the fields to change. Nil fields are left as they are.
type UpdateBlogRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	URL    *string `json:"url"`
	Likes  *int    `json:"likes"`
}

func (r *UpdateBlogRequest) empty() bool {
	return r == nil || (r.Title == nil && r.Author == nil && r.URL == nil && r.Likes == nil)
}

// BlogCreatedEvent is published on the blog exchange after a blog is stored.
type BlogCreatedEvent struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	URL      string    `json:"url"`
	Username string    `json:"username"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m      *BlogModel
	mb     common.MessageProducer
	logger *slog.Logger
}
