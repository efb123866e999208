package common

import "errors"

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrInvalidID          = errors.New("malformatted id")
	ErrInvalidToken       = errors.New("token missing or invalid")
	ErrExpiredToken       = errors.New("token expired")
	ErrUnauthorized       = errors.New("token invalid")
	ErrForbidden          = errors.New("no permission to delete")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
