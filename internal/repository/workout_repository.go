package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"notedash-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

const (
	workoutDocType  = "workout"
	workoutIDPrefix = "workout:"
)

type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) error
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Workout, error)
}

type workoutRepository struct {
	db *kivik.DB
}

type workoutDoc struct {
	ID        string             `json:"_id"`
	Rev       string             `json:"_rev,omitempty"`
	DocType   string             `json:"doc_type"`
	OwnerID   string             `json:"owner_id"`
	Exercises []domain.Exercise  `json:"exercises"`
	Duration  int                `json:"duration"`
	Type      domain.WorkoutType `json:"type"`
	RawInput  string             `json:"raw_input,omitempty"`
	Timestamp string             `json:"timestamp"`
}

func NewWorkoutRepository(client *kivik.Client, dbName string) WorkoutRepository {
	return &workoutRepository{
		db: client.DB(dbName),
	}
}

func (r *workoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	doc := workoutDoc{
		ID:        workoutIDPrefix + workout.ID,
		DocType:   workoutDocType,
		OwnerID:   workout.OwnerID,
		Exercises: workout.Exercises,
		Duration:  workout.Duration,
		Type:      workout.Type,
		RawInput:  workout.RawInput,
		Timestamp: formatTime(workout.Timestamp),
	}

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		if isConflict(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create workout: %w", err)
	}

	return nil
}

func (r *workoutRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Workout, error) {
	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"doc_type": workoutDocType,
			"owner_id": ownerID,
		},
		"limit": findLimit,
	}

	rows := r.db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []*domain.Workout
	for rows.Next() {
		var doc workoutDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}

		timestamp, err := parseTime(doc.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp: %w", err)
		}

		workouts = append(workouts, &domain.Workout{
			ID:        strings.TrimPrefix(doc.ID, workoutIDPrefix),
			OwnerID:   doc.OwnerID,
			Exercises: doc.Exercises,
			Duration:  doc.Duration,
			Type:      doc.Type,
			RawInput:  doc.RawInput,
			Timestamp: timestamp,
		})
	}

	return workouts, rows.Err()
}

type MemoryWorkoutRepository struct {
	mu       sync.RWMutex
	workouts []domain.Workout
}

func NewMemoryWorkoutRepository() *MemoryWorkoutRepository {
	return &MemoryWorkoutRepository{}
}

func (r *MemoryWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.workouts = append(r.workouts, *workout)
	return nil
}

func (r *MemoryWorkoutRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var workouts []*domain.Workout
	for _, workout := range r.workouts {
		if workout.OwnerID == ownerID {
			workouts = append(workouts, &workout)
		}
	}
	return workouts, nil
}
