package service

import "errors"

var (
	ErrEmptyDescription = errors.New("description must not be empty")
	ErrNoteNotFound     = errors.New("note not found")
	ErrUnknownIcon      = errors.New("unknown icon")

	ErrEmptyTodo    = errors.New("todo text must not be empty")
	ErrTodoNotFound = errors.New("todo not found")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
