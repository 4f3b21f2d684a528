package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"notedash-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

const (
	todoDocType  = "todo"
	todoIDPrefix = "todo:"
)

type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindByID(ctx context.Context, id string) (*domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id string) error
}

type todoRepository struct {
	db *kivik.DB
}

type todoDoc struct {
	ID        string `json:"_id"`
	Rev       string `json:"_rev,omitempty"`
	DocType   string `json:"doc_type"`
	OwnerID   string `json:"owner_id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
}

func NewTodoRepository(client *kivik.Client, dbName string) TodoRepository {
	return &todoRepository{
		db: client.DB(dbName),
	}
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	doc := todoToDoc(todo)

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		if isConflict(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

func (r *todoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	var doc todoDoc
	if err := r.db.Get(ctx, todoIDPrefix+id).ScanDoc(&doc); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return docToTodo(&doc)
}

func (r *todoRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"doc_type": todoDocType,
			"owner_id": ownerID,
		},
		"limit": findLimit,
	}

	rows := r.db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	var todos []*domain.Todo
	for rows.Next() {
		var doc todoDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}

		todo, err := docToTodo(&doc)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}

	return todos, rows.Err()
}

func (r *todoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	doc := todoToDoc(todo)

	rev, err := currentRev(ctx, r.db, doc.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get todo for update: %w", err)
	}
	doc.Rev = rev

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	return nil
}

func (r *todoRepository) Delete(ctx context.Context, id string) error {
	if err := deleteDoc(ctx, r.db, todoIDPrefix+id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	return nil
}

func todoToDoc(todo *domain.Todo) todoDoc {
	return todoDoc{
		ID:        todoIDPrefix + todo.ID,
		DocType:   todoDocType,
		OwnerID:   todo.OwnerID,
		Text:      todo.Text,
		Completed: todo.Completed,
		CreatedAt: formatTime(todo.CreatedAt),
	}
}

func docToTodo(doc *todoDoc) (*domain.Todo, error) {
	createdAt, err := parseTime(doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return &domain.Todo{
		ID:        strings.TrimPrefix(doc.ID, todoIDPrefix),
		OwnerID:   doc.OwnerID,
		Text:      doc.Text,
		Completed: doc.Completed,
		CreatedAt: createdAt,
	}, nil
}

type MemoryTodoRepository struct {
	mu    sync.RWMutex
	todos map[string]domain.Todo
}

func NewMemoryTodoRepository() *MemoryTodoRepository {
	return &MemoryTodoRepository{todos: make(map[string]domain.Todo)}
}

func (r *MemoryTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.todos[todo.ID]; exists {
		return ErrConflict
	}
	r.todos[todo.ID] = *todo
	return nil
}

func (r *MemoryTodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todo, ok := r.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &todo, nil
}

func (r *MemoryTodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var todos []*domain.Todo
	for _, todo := range r.todos {
		if todo.OwnerID == ownerID {
			todos = append(todos, &todo)
		}
	}
	return todos, nil
}

func (r *MemoryTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[todo.ID]; !ok {
		return ErrNotFound
	}
	r.todos[todo.ID] = *todo
	return nil
}

func (r *MemoryTodoRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return ErrNotFound
	}
	delete(r.todos, id)
	return nil
}
