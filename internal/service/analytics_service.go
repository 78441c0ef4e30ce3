package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"quizgenie_backend/internal/model"
	"quizgenie_backend/internal/repository"
	"quizgenie_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

const statsCacheKey = "quizgenie:stats:platform"
const statsCacheTTL = 60 * time.Second

// AnalyticsService computes per-quiz analytics for quiz owners and the
// platform-wide aggregate strip.
type AnalyticsService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.AttemptRepository
	UserRepo    *repository.UserRepository
	Redis       *redis.Client
}

func NewAnalyticsService(quizRepo *repository.QuizRepository, attemptRepo *repository.AttemptRepository, userRepo *repository.UserRepository, rdb *redis.Client) *AnalyticsService {
	return &AnalyticsService{
		QuizRepo:    quizRepo,
		AttemptRepo: attemptRepo,
		UserRepo:    userRepo,
		Redis:       rdb,
	}
}

type ScoreBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type TimeAnalysis struct {
	AverageSeconds int    `json:"average_seconds"`
	FastestSeconds int    `json:"fastest_seconds"`
	SlowestSeconds int    `json:"slowest_seconds"`
	Average        string `json:"average"`
}

type LeaderboardEntry struct {
	Username  string  `json:"username"`
	BestScore float64 `json:"best_score"`
	Attempts  int     `json:"attempts"`
}

type QuizAnalytics struct {
	QuizID            string             `json:"quiz_id"`
	Title             string             `json:"title"`
	TotalAttempts     int                `json:"total_attempts"`
	UniquePlayers     int                `json:"unique_players"`
	AverageScore      float64            `json:"average_score"`
	Rating            float64            `json:"rating"`
	Plays             int                `json:"plays"`
	ScoreDistribution []ScoreBucket      `json:"score_distribution"`
	TimeAnalysis      *TimeAnalysis      `json:"time_analysis"`
	Leaderboard       []LeaderboardEntry `json:"leaderboard"`
	RecentAttempts    []AttemptOverview  `json:"recent_attempts"`
}

// ForQuiz builds the owner's analytics view. Only the creator may see it.
func (s *AnalyticsService) ForQuiz(quizID string, requesterID uint) (*QuizAnalytics, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.UserID != requesterID {
		return nil, util.ErrPermissionDenied
	}

	attempts, err := s.AttemptRepo.ListByQuiz(quizID, 0)
	if err != nil {
		return nil, err
	}

	analytics := &QuizAnalytics{
		QuizID:            quiz.ID,
		Title:             quiz.Title,
		TotalAttempts:     len(attempts),
		Rating:            quiz.Rating,
		Plays:             quiz.Plays,
		ScoreDistribution: scoreDistribution(attempts),
		TimeAnalysis:      timeAnalysis(attempts),
		Leaderboard:       leaderboard(attempts, 5),
	}

	players := make(map[uint]struct{}, len(attempts))
	var scoreSum float64
	for _, a := range attempts {
		players[a.UserID] = struct{}{}
		scoreSum += a.Score
	}
	analytics.UniquePlayers = len(players)
	if len(attempts) > 0 {
		analytics.AverageScore = round1(scoreSum / float64(len(attempts)))
	}

	recentCount := len(attempts)
	if recentCount > 10 {
		recentCount = 10
	}
	analytics.RecentAttempts = make([]AttemptOverview, 0, recentCount)
	for _, a := range attempts[:recentCount] {
		analytics.RecentAttempts = append(analytics.RecentAttempts, attemptOverview(a))
	}

	return analytics, nil
}

func scoreDistribution(attempts []model.QuizAttempt) []ScoreBucket {
	buckets := []ScoreBucket{
		{Range: "0-20"},
		{Range: "21-40"},
		{Range: "41-60"},
		{Range: "61-80"},
		{Range: "81-100"},
	}
	for _, a := range attempts {
		switch {
		case a.Score <= 20:
			buckets[0].Count++
		case a.Score <= 40:
			buckets[1].Count++
		case a.Score <= 60:
			buckets[2].Count++
		case a.Score <= 80:
			buckets[3].Count++
		default:
			buckets[4].Count++
		}
	}
	return buckets
}

// timeAnalysis summarizes attempt durations. Attempts with unparseable
// durations are left out; nil means nothing was measurable.
func timeAnalysis(attempts []model.QuizAttempt) *TimeAnalysis {
	var total, fastest, slowest, counted int
	for _, a := range attempts {
		seconds, err := util.ParseTimeSpent(a.TimeSpent)
		if err != nil || seconds == 0 {
			continue
		}
		if counted == 0 || seconds < fastest {
			fastest = seconds
		}
		if seconds > slowest {
			slowest = seconds
		}
		total += seconds
		counted++
	}
	if counted == 0 {
		return nil
	}

	avg := total / counted
	return &TimeAnalysis{
		AverageSeconds: avg,
		FastestSeconds: fastest,
		SlowestSeconds: slowest,
		Average:        util.FormatTimeSpent(avg),
	}
}

func leaderboard(attempts []model.QuizAttempt, limit int) []LeaderboardEntry {
	type record struct {
		username string
		best     float64
		count    int
	}
	byUser := make(map[uint]*record)
	for _, a := range attempts {
		rec, ok := byUser[a.UserID]
		if !ok {
			username := "Anonymous"
			if a.User != nil {
				username = a.User.Username
			}
			rec = &record{username: username}
			byUser[a.UserID] = rec
		}
		if a.Score > rec.best {
			rec.best = a.Score
		}
		rec.count++
	}

	entries := make([]LeaderboardEntry, 0, len(byUser))
	for _, rec := range byUser {
		entries = append(entries, LeaderboardEntry{
			Username:  rec.username,
			BestScore: rec.best,
			Attempts:  rec.count,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].BestScore != entries[j].BestScore {
			return entries[i].BestScore > entries[j].BestScore
		}
		return entries[i].Username < entries[j].Username
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

type PlatformStats struct {
	QuizzesCreated    int64   `json:"quizzes_created"`
	ActivePlayers     int64   `json:"active_players"`
	QuestionsAnswered int64   `json:"questions_answered"`
	AverageScore      float64 `json:"average_score"`
}

// Platform returns the landing page aggregate strip, cached briefly in Redis
// since every anonymous visitor hits it.
func (s *AnalyticsService) Platform(ctx context.Context) (*PlatformStats, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, statsCacheKey).Result()
		if err == nil {
			var stats PlatformStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	quizzes, err := s.QuizRepo.Count()
	if err != nil {
		return nil, err
	}
	players, err := s.AttemptRepo.CountDistinctUsers()
	if err != nil {
		return nil, err
	}
	answered, err := s.AttemptRepo.SumTotalQuestions()
	if err != nil {
		return nil, err
	}
	avgScore, err := s.AttemptRepo.AverageScore()
	if err != nil {
		return nil, err
	}

	stats := &PlatformStats{
		QuizzesCreated:    quizzes,
		ActivePlayers:     players,
		QuestionsAnswered: answered,
		AverageScore:      round1(avgScore),
	}

	if s.Redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			s.Redis.Set(ctx, statsCacheKey, data, statsCacheTTL)
		}
	}
	return stats, nil
}
