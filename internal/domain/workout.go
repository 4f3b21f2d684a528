package domain

import "time"

type WorkoutType string

const (
	WorkoutStrength WorkoutType = "strength"
	WorkoutCardio   WorkoutType = "cardio"
	WorkoutHybrid   WorkoutType = "hybrid"
)

type Exercise struct {
	Name   string   `json:"name" validate:"required"`
	Sets   int      `json:"sets" validate:"gte=0"`
	Reps   int      `json:"reps" validate:"gte=0"`
	Weight *float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Notes  string   `json:"notes,omitempty"`
}

type Workout struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"owner_id"`
	Exercises []Exercise  `json:"exercises"`
	Duration  int         `json:"duration"`
	Type      WorkoutType `json:"type"`
	RawInput  string      `json:"raw_input,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type CreateWorkoutRequest struct {
	Exercises []Exercise  `json:"exercises" validate:"required,min=1,dive"`
	Duration  int         `json:"duration" validate:"gte=0"`
	Type      WorkoutType `json:"type" validate:"required,oneof=strength cardio hybrid"`
	RawInput  string      `json:"raw_input"`
}
