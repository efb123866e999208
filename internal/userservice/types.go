package userservice

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/sushihentaime/bloglist/internal/auth"
)

const (
	DefaultPasswordMinLength = 3

	usernameMinLength = 3
	// bcrypt ignores everything past 72 bytes
	passwordMaxLength = 72
	bcryptCost        = 10
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m                 *UserModel
	tokens            *auth.Issuer
	passwordMinLength int
}

type UserModel struct {
	db *sql.DB
}

type User struct {
	ID       uuid.UUID     `json:"id"`
	Username string        `json:"username"`
	Name     string        `json:"name"`
	Password Password      `json:"-"`
	Blogs    []BlogSummary `json:"blogs"`
}

// BlogSummary is a blog as listed under its owner. The owner reference is left out.
type BlogSummary struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	URL    string    `json:"url"`
	Likes  int       `json:"likes"`
}

type Password struct {
	hash []byte `json:"-"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string    `json:"token"`
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}
