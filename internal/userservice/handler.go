package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/sushihentaime/bloglist/internal/auth"
	"github.com/sushihentaime/bloglist/internal/common"
)

// NewUserService returns a service backed by db. A passwordMinLength below one falls back to DefaultPasswordMinLength.
func NewUserService(db *sql.DB, tokens *auth.Issuer, passwordMinLength int) *UserService {
	if passwordMinLength < 1 {
		passwordMinLength = DefaultPasswordMinLength
	}

	return &UserService{
		m:                 newUserModel(db),
		tokens:            tokens,
		passwordMinLength: passwordMinLength,
	}
}

// CreateUser registers a new user account. The password is stored as a bcrypt hash only.
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, req.Username)
	validateName(v, req.Name)
	validatePassword(v, req.Password, s.passwordMinLength)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: req.Username,
		Name:     req.Name,
		Blogs:    []BlogSummary{},
	}

	err := u.Password.set(req.Password)
	if err != nil {
		return nil, err
	}

	err = s.m.insert(ctx, &u)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateUsername):
			v.AddError("username", "must be unique")
			return nil, v.ValidationError()
		default:
			return nil, err
		}
	}

	return &u, nil
}

// GetUsers returns all users with the blogs they own.
func (s *UserService) GetUsers(ctx context.Context) ([]User, error) {
	return s.m.getAll(ctx)
}

// GetUserByID returns the user with the given id without its blogs.
func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.m.getByID(ctx, id)
}

// LoginUser checks the credentials and issues a bearer token for the user.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*LoginResponse, error) {
	v := common.NewValidator()
	v.Check(username != "", "username", "must be provided")
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, common.ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}

func (u *User) IsAnonymous() bool {
	return u == nil || u == &AnonymousUser
}
