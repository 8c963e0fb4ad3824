package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"bandprep/internal/cache"
	"bandprep/internal/domain"
	"bandprep/internal/repository"
)

// AnalyticsService agrega métricas de práctica por usuario. Los resultados
// son derivados y recalculables, por eso pasan por el cache inyectado.
type AnalyticsService struct {
	logger     *zap.Logger
	activities repository.ActivityRepository
	cache      cache.Cache
	cacheTTL   time.Duration
}

func NewAnalyticsService(logger *zap.Logger, activities repository.ActivityRepository, c cache.Cache, cacheTTL time.Duration) *AnalyticsService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &AnalyticsService{
		logger:     logger,
		activities: activities,
		cache:      c,
		cacheTTL:   cacheTTL,
	}
}

type PracticeTypeStats struct {
	Count        int     `json:"count"`
	AverageScore float64 `json:"averageScore"`
	BestScore    float64 `json:"bestScore"`
}

type Analytics struct {
	TotalSessions  int                          `json:"totalSessions"`
	AverageScore   float64                      `json:"averageScore"`
	BestScore      float64                      `json:"bestScore"`
	AverageBand    float64                      `json:"averageBand"`
	TotalXPEarned  int                          `json:"totalXpEarned"`
	TotalTimeSpent int                          `json:"totalTimeSpent"`
	StudyStreak    int                          `json:"studyStreak"`
	ByPracticeType map[string]PracticeTypeStats `json:"byPracticeType"`
}

// GetAnalytics calcula las métricas del usuario para el rango pedido.
// timeRange: week, month, quarter o all. practiceType: both o un tipo.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, userID, timeRange, practiceType string) (Analytics, error) {
	if timeRange == "" {
		timeRange = "all"
	}
	if practiceType == "" {
		practiceType = "both"
	}

	key := fmt.Sprintf("%s:%s:%s", userID, timeRange, practiceType)
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var cached Analytics
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var since *time.Time
	if days := daysForRange(timeRange); days > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		since = &cutoff
	}
	filterType := practiceType
	if filterType == "both" {
		filterType = ""
	}

	activities, err := s.activities.ListFiltered(ctx, userID, since, filterType)
	if err != nil {
		return Analytics{}, err
	}

	result := computeAnalytics(activities)

	if s.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			s.cache.Set(ctx, key, raw, s.cacheTTL)
		}
	}
	return result, nil
}

func daysForRange(timeRange string) int {
	switch timeRange {
	case "week":
		return 7
	case "month":
		return 30
	case "quarter":
		return 90
	default:
		return 0
	}
}

func computeAnalytics(activities []domain.UserActivity) Analytics {
	result := Analytics{
		ByPracticeType: make(map[string]PracticeTypeStats),
	}
	if len(activities) == 0 {
		return result
	}

	var scoreSum, bandSum float64
	for _, a := range activities {
		result.TotalSessions++
		scoreSum += a.Score
		bandSum += a.Band
		if a.Score > result.BestScore {
			result.BestScore = a.Score
		}
		result.TotalXPEarned += a.XPEarned
		if a.TimeSpent != nil {
			result.TotalTimeSpent += *a.TimeSpent
		}

		stats := result.ByPracticeType[a.PracticeType]
		stats.Count++
		stats.AverageScore += a.Score
		if a.Score > stats.BestScore {
			stats.BestScore = a.Score
		}
		result.ByPracticeType[a.PracticeType] = stats
	}

	result.AverageScore = scoreSum / float64(result.TotalSessions)
	result.AverageBand = bandSum / float64(result.TotalSessions)
	for practiceType, stats := range result.ByPracticeType {
		stats.AverageScore /= float64(stats.Count)
		result.ByPracticeType[practiceType] = stats
	}
	result.StudyStreak = studyStreak(activities, time.Now().UTC())
	return result
}

// studyStreak cuenta días consecutivos con actividad, terminando hoy o ayer.
func studyStreak(activities []domain.UserActivity, now time.Time) int {
	if len(activities) == 0 {
		return 0
	}

	seen := make(map[string]bool)
	var days []string
	for _, a := range activities {
		day := a.CreatedAt.UTC().Format("2006-01-02")
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	if days[0] != today && days[0] != yesterday {
		return 0
	}

	streak := 1
	current, _ := time.Parse("2006-01-02", days[0])
	for _, day := range days[1:] {
		expected := current.AddDate(0, 0, -1).Format("2006-01-02")
		if day != expected {
			break
		}
		streak++
		current, _ = time.Parse("2006-01-02", day)
	}
	return streak
}
