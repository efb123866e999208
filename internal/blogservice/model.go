package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrUserForeignKey = errors.New("user_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

const selectBlogs = `
		SELECT b.id, b.title, b.author, b.url, b.likes, u.id, u.username, u.name
		FROM blogs b
		LEFT JOIN users u ON b.user_id = u.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (*Blog, error) {
	var (
		blog           Blog
		ownerID        uuid.NullUUID
		username, name sql.NullString
	)

	err := row.Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &ownerID, &username, &name)
	if err != nil {
		return nil, err
	}

	if ownerID.Valid {
		blog.User = &Owner{ID: ownerID.UUID, Username: username.String, Name: name.String}
	}

	return &blog, nil
}

// insert stores the blog and appends its id to the owner's blog list in one transaction.
func (m *BlogModel) insert(ctx context.Context, blog *Blog, ownerID uuid.UUID) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO blogs (title, author, url, likes, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err = tx.QueryRowContext(ctx, query, blog.Title, blog.Author, blog.URL, blog.Likes, ownerID).Scan(&blog.ID)
	if err != nil {
		switch {
		case ForeignKeyError(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `UPDATE users SET blog_ids = array_append(blog_ids, $1) WHERE id = $2`, blog.ID, ownerID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// getBlogById returns the blog joined with its owner, if any.
func (m *BlogModel) getBlogById(ctx context.Context, id uuid.UUID) (*Blog, error) {
	query := selectBlogs + `
		WHERE b.id = $1`

	blog, err := scanBlog(m.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return blog, nil
}

// getBlogs returns every blog, oldest first.
func (m *BlogModel) getBlogs(ctx context.Context) ([]Blog, error) {
	query := selectBlogs + `
		ORDER BY b.created_at, b.id`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// updateBlog overwrites the non-nil fields of req. Concurrent updates of the same blog are last writer wins.
func (m *BlogModel) updateBlog(ctx context.Context, id uuid.UUID, req *UpdateBlogRequest) error {
	query := `
		UPDATE blogs
		SET title = COALESCE($2, title),
			author = COALESCE($3, author),
			url = COALESCE($4, url),
			likes = COALESCE($5, likes),
			updated_at = NOW()
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id, req.Title, req.Author, req.URL, req.Likes)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return common.ErrRecordNotFound
	}

	return nil
}

// deleteBlog removes the blog and drops its id from the owner's blog list in one transaction.
func (m *BlogModel) deleteBlog(ctx context.Context, id uuid.UUID) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var ownerID uuid.NullUUID
	err = tx.QueryRowContext(ctx, `DELETE FROM blogs WHERE id = $1 RETURNING user_id`, id).Scan(&ownerID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	if ownerID.Valid {
		res, err := tx.ExecContext(ctx, `UPDATE users SET blog_ids = array_remove(blog_ids, $1) WHERE id = $2`, id, ownerID.UUID)
		if err != nil {
			return err
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}

		if rows > 1 {
			return fmt.Errorf("expected at most 1 owner row to be affected, got %d", rows)
		}
	}

	return tx.Commit()
}
