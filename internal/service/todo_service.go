package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"notedash-server/internal/domain"
	"notedash-server/internal/repository"

	"github.com/google/uuid"
)

type TodoService struct {
	todoRepo repository.TodoRepository
}

func NewTodoService(todoRepo repository.TodoRepository) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
	}
}

func (s *TodoService) Create(ctx context.Context, ownerID, text string) (*domain.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyTodo
	}

	todo := &domain.Todo{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return todo, nil
}

// List returns the owner's todos, newest first.
func (s *TodoService) List(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	todos, err := s.todoRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	slices.SortStableFunc(todos, func(a, b *domain.Todo) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if todos == nil {
		todos = []*domain.Todo{}
	}
	return todos, nil
}

func (s *TodoService) Toggle(ctx context.Context, ownerID, todoID string) (*domain.Todo, error) {
	todo, err := s.owned(ctx, ownerID, todoID)
	if err != nil {
		return nil, err
	}

	todo.Completed = !todo.Completed

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, ownerID, todoID string) error {
	if _, err := s.owned(ctx, ownerID, todoID); err != nil {
		return err
	}

	if err := s.todoRepo.Delete(ctx, todoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

func (s *TodoService) owned(ctx context.Context, ownerID, todoID string) (*domain.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	if todo.OwnerID != ownerID {
		return nil, ErrTodoNotFound
	}
	return todo, nil
}
