package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bandprep/internal/domain"
	"bandprep/internal/repository"
)

// ProgressService aplica la progresión de XP y nivel sobre las cuentas.
type ProgressService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewProgressService(logger *zap.Logger, users repository.UserRepository) *ProgressService {
	return &ProgressService{
		logger: logger,
		users:  users,
	}
}

// ProgressResult describe el estado de progresión tras una operación.
type ProgressResult struct {
	User          domain.User
	LeveledUp     bool
	XPToNextLevel int
	LevelProgress float64
}

// AddXP suma XP al usuario, recalcula el nivel y persiste ambos campos.
// La validación de amount > 0 es responsabilidad de la capa de entrada.
func (s *ProgressService) AddXP(ctx context.Context, userID string, amount int) (ProgressResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProgressResult{}, ErrUserNotFound
		}
		return ProgressResult{}, err
	}

	previousLevel := user.Level
	user.XP += amount
	user.Level = LevelFromXP(user.XP)
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.UpdateProgress(ctx, user.ID, user.XP, user.Level, user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProgressResult{}, ErrUserNotFound
		}
		return ProgressResult{}, err
	}

	result := s.buildResult(user)
	result.LeveledUp = user.Level > previousLevel
	if result.LeveledUp && s.logger != nil {
		s.logger.Info("user leveled up",
			zap.String("user_id", user.ID),
			zap.Int("level", user.Level),
			zap.Int("xp", user.XP),
		)
	}
	return result, nil
}

// GetProgress devuelve el estado de progresión actual del usuario.
func (s *ProgressService) GetProgress(ctx context.Context, userID string) (ProgressResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProgressResult{}, ErrUserNotFound
		}
		return ProgressResult{}, err
	}
	return s.buildResult(user), nil
}

func (s *ProgressService) buildResult(user domain.User) ProgressResult {
	xpToNext, progress := LevelProgress(user.XP, user.Level)
	return ProgressResult{
		User:          user,
		XPToNextLevel: xpToNext,
		LevelProgress: progress,
	}
}
