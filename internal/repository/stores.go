package repository

import (
	"context"
	"fmt"
	"log"

	"notedash-server/internal/config"

	"github.com/go-kivik/kivik/v4"
)

// Stores groups the repositories of one backing database.
type Stores struct {
	Notes    NoteRepository
	Users    UserRepository
	Todos    TodoRepository
	Workouts WorkoutRepository

	client *kivik.Client
}

// OpenStores builds the repositories for the configured driver. The memory
// driver keeps everything in process.
func OpenStores(ctx context.Context, cfg config.DatabaseConfig) (*Stores, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Println("[Store] Using in-memory store, data is lost on exit")
		return &Stores{
			Notes:    NewMemoryNoteRepository(),
			Users:    NewMemoryUserRepository(),
			Todos:    NewMemoryTodoRepository(),
			Workouts: NewMemoryWorkoutRepository(),
		}, nil

	case config.DriverCouch:
		dbName := cfg.Name
		client, err := Connect(ctx, cfg.URL(), dbName)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Notes:    NewNoteRepository(client, dbName),
			Users:    NewUserRepository(client, dbName),
			Todos:    NewTodoRepository(client, dbName),
			Workouts: NewWorkoutRepository(client, dbName),
			client:   client,
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func (s *Stores) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
