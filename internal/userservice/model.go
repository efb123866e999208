package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
)

func newUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

// UniqueViolation reports whether err is a postgres unique violation on the named constraint.
func UniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == constraint
	}

	return false
}

func (m *UserModel) insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id`

	args := []any{
		u.Username,
		u.Name,
		u.Password.hash,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID)
	if err != nil {
		switch {
		case UniqueViolation(err, "users_username_key"):
			return ErrDuplicateUsername
		default:
			return err
		}
	}

	return nil
}

func (m *UserModel) getByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `
		SELECT id, username, name
		FROM users
		WHERE id = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Name)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *UserModel) getByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, name, password_hash
		FROM users
		WHERE username = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.Name, &u.Password.hash)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

// getAll returns every user with its blogs listed in the order they were added to the user.
func (m *UserModel) getAll(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, username, name, blog_ids
		FROM users
		ORDER BY created_at`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	blogIDs := [][]string{}
	for rows.Next() {
		var u User
		var ids pq.StringArray
		err := rows.Scan(&u.ID, &u.Username, &u.Name, &ids)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
		blogIDs = append(blogIDs, ids)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	blogs, err := m.getOwnedBlogs(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		users[i].Blogs = []BlogSummary{}
		for _, id := range blogIDs[i] {
			if b, ok := blogs[id]; ok {
				users[i].Blogs = append(users[i].Blogs, b)
			}
		}
	}

	return users, nil
}

func (m *UserModel) getOwnedBlogs(ctx context.Context) (map[string]BlogSummary, error) {
	query := `
		SELECT id, title, author, url, likes
		FROM blogs
		WHERE user_id IS NOT NULL`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := make(map[string]BlogSummary)
	for rows.Next() {
		var b BlogSummary
		err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes)
		if err != nil {
			return nil, err
		}
		blogs[b.ID.String()] = b
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}
