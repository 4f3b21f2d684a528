package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"notedash-server/internal/domain"
	"notedash-server/internal/repository"

	"github.com/google/uuid"
)

type WorkoutService struct {
	workoutRepo repository.WorkoutRepository
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository) *WorkoutService {
	return &WorkoutService{
		workoutRepo: workoutRepo,
	}
}

// Create stores an already structured workout; req is validated by the caller.
func (s *WorkoutService) Create(ctx context.Context, ownerID string, req *domain.CreateWorkoutRequest) (*domain.Workout, error) {
	workout := &domain.Workout{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Exercises: req.Exercises,
		Duration:  req.Duration,
		Type:      req.Type,
		RawInput:  req.RawInput,
		Timestamp: time.Now().UTC(),
	}

	if err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}
	return workout, nil
}

// List returns the owner's workouts, most recent first.
func (s *WorkoutService) List(ctx context.Context, ownerID string) ([]*domain.Workout, error) {
	workouts, err := s.workoutRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	slices.SortStableFunc(workouts, func(a, b *domain.Workout) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	if workouts == nil {
		workouts = []*domain.Workout{}
	}
	return workouts, nil
}
