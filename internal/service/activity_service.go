package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bandprep/internal/domain"
	"bandprep/internal/repository"
)

// ActivityService registra resultados de práctica y acredita el XP ganado.
type ActivityService struct {
	logger     *zap.Logger
	activities repository.ActivityRepository
	progress   *ProgressService
}

func NewActivityService(logger *zap.Logger, activities repository.ActivityRepository, progress *ProgressService) *ActivityService {
	return &ActivityService{
		logger:     logger,
		activities: activities,
		progress:   progress,
	}
}

type RecordActivityInput struct {
	UserID       string
	Type         string
	PracticeType string
	Score        float64
	Band         float64
	XPEarned     int
	TimeSpent    *int
	Details      map[string]any
}

// Record persiste la actividad y, si trae XP, actualiza la progresión.
func (s *ActivityService) Record(ctx context.Context, input RecordActivityInput) (domain.UserActivity, ProgressResult, error) {
	activity := domain.UserActivity{
		ID:           uuid.NewString(),
		UserID:       input.UserID,
		Type:         input.Type,
		PracticeType: input.PracticeType,
		Score:        input.Score,
		Band:         input.Band,
		XPEarned:     input.XPEarned,
		TimeSpent:    input.TimeSpent,
		Details:      input.Details,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return domain.UserActivity{}, ProgressResult{}, err
	}

	if input.XPEarned <= 0 {
		result, err := s.progress.GetProgress(ctx, input.UserID)
		return activity, result, err
	}

	result, err := s.progress.AddXP(ctx, input.UserID, input.XPEarned)
	if err != nil {
		return domain.UserActivity{}, ProgressResult{}, err
	}
	return activity, result, nil
}

// List devuelve el historial de actividades, paginado.
func (s *ActivityService) List(ctx context.Context, userID string, limit, offset int) ([]domain.UserActivity, error) {
	return s.activities.ListByUser(ctx, userID, limit, offset)
}
