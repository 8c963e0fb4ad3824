package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bandprep/internal/domain"
	"bandprep/internal/repository"
)

// DashboardService arma el resumen de estadísticas y actividad reciente.
type DashboardService struct {
	logger     *zap.Logger
	users      repository.UserRepository
	activities repository.ActivityRepository
}

func NewDashboardService(logger *zap.Logger, users repository.UserRepository, activities repository.ActivityRepository) *DashboardService {
	return &DashboardService{
		logger:     logger,
		users:      users,
		activities: activities,
	}
}

type UserStats struct {
	TotalTestsTaken int     `json:"totalTestsTaken"`
	AverageScore    float64 `json:"averageScore"`
	BestScore       float64 `json:"bestScore"`
	StudyStreak     int     `json:"studyStreak"`
	TotalStudyTime  string  `json:"totalStudyTime"`
	Level           int     `json:"level"`
	XP              int     `json:"xp"`
}

type Dashboard struct {
	UserStats      UserStats             `json:"userStats"`
	RecentActivity []domain.UserActivity `json:"recentActivity"`
}

// GetDashboard devuelve estadísticas del usuario y sus últimas actividades.
func (s *DashboardService) GetDashboard(ctx context.Context, userID string) (Dashboard, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Dashboard{}, ErrUserNotFound
		}
		return Dashboard{}, err
	}

	activities, err := s.activities.ListFiltered(ctx, userID, nil, "")
	if err != nil {
		return Dashboard{}, err
	}

	analytics := computeAnalytics(activities)
	stats := UserStats{
		TotalTestsTaken: analytics.TotalSessions,
		AverageScore:    analytics.AverageScore,
		BestScore:       analytics.BestScore,
		StudyStreak:     analytics.StudyStreak,
		TotalStudyTime:  formatStudyTime(analytics.TotalTimeSpent),
		Level:           user.Level,
		XP:              user.XP,
	}

	recent := activities
	if len(recent) > 3 {
		recent = recent[:3]
	}
	if recent == nil {
		recent = []domain.UserActivity{}
	}

	return Dashboard{
		UserStats:      stats,
		RecentActivity: recent,
	}, nil
}

func formatStudyTime(totalSeconds int) string {
	hours := totalSeconds / 3600
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
