package service

import (
	"quizgenie_backend/internal/model"
	"quizgenie_backend/internal/repository"
	"quizgenie_backend/pkg/logger"

	"go.uber.org/zap"
)

// HistoryService serves read-only attempt listings. It works off the concrete
// repositories; nothing here mutates state.
type HistoryService struct {
	AttemptRepo *repository.AttemptRepository
	QuizRepo    *repository.QuizRepository
}

func NewHistoryService(attemptRepo *repository.AttemptRepository, quizRepo *repository.QuizRepository) *HistoryService {
	return &HistoryService{
		AttemptRepo: attemptRepo,
		QuizRepo:    quizRepo,
	}
}

type AttemptDetail struct {
	AttemptID      uint                `json:"attempt_id"`
	Score          float64             `json:"score"`
	CorrectAnswers int                 `json:"correct_answers"`
	TotalQuestions int                 `json:"total_questions"`
	TimeSpent      string              `json:"time_spent"`
	CompletedAt    string              `json:"completed_at"`
	Evaluation     []model.GradeResult `json:"evaluation"`
}

type QuizAttemptHistory struct {
	QuizID    string          `json:"quiz_id"`
	QuizTitle string          `json:"quiz_title"`
	QuizType  model.QuizType  `json:"quiz_type"`
	BestScore float64         `json:"best_score"`
	Attempts  []AttemptDetail `json:"attempts"`
}

// QuizHistory returns the caller's attempts on one quiz, newest first, with
// the per-question breakdown decoded from each attempt. Attempts whose stored
// details fail to decode are returned without a breakdown instead of failing
// the whole listing.
func (s *HistoryService) QuizHistory(userID uint, quizID string) (*QuizAttemptHistory, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.AttemptRepo.ListByUserAndQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}

	history := &QuizAttemptHistory{
		QuizID:    quiz.ID,
		QuizTitle: quiz.Title,
		QuizType:  quiz.QuizType,
		Attempts:  make([]AttemptDetail, 0, len(attempts)),
	}

	for _, a := range attempts {
		if a.Score > history.BestScore {
			history.BestScore = a.Score
		}

		evaluation, err := a.GradeResults()
		if err != nil {
			logger.Log.Warn("skipping breakdown for attempt with malformed details",
				zap.Uint("attemptId", a.ID),
				zap.Error(err),
			)
			evaluation = nil
		}

		history.Attempts = append(history.Attempts, AttemptDetail{
			AttemptID:      a.ID,
			Score:          a.Score,
			CorrectAnswers: a.CorrectAnswers,
			TotalQuestions: a.TotalQuestions,
			TimeSpent:      a.TimeSpent,
			CompletedAt:    a.CompletedAt.Format("2006-01-02 15:04:05"),
			Evaluation:     evaluation,
		})
	}

	return history, nil
}

type QuizAttemptList struct {
	QuizID    string            `json:"quiz_id"`
	QuizTitle string            `json:"quiz_title"`
	BestScore float64           `json:"best_score"`
	Attempts  []AttemptOverview `json:"attempts"`
}

// AttemptsForQuiz lists who played a quiz recently. Any authenticated user
// may see it; it mirrors the public recent list on the details page.
func (s *HistoryService) AttemptsForQuiz(quizID string, limit int) (*QuizAttemptList, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.AttemptRepo.ListByQuiz(quizID, limit)
	if err != nil {
		return nil, err
	}

	list := &QuizAttemptList{
		QuizID:    quiz.ID,
		QuizTitle: quiz.Title,
		Attempts:  make([]AttemptOverview, 0, len(attempts)),
	}
	for _, a := range attempts {
		if a.Score > list.BestScore {
			list.BestScore = a.Score
		}
		list.Attempts = append(list.Attempts, attemptOverview(a))
	}
	return list, nil
}

type RecentAttempt struct {
	AttemptID   uint    `json:"attempt_id"`
	QuizID      string  `json:"quiz_id"`
	QuizTitle   string  `json:"quiz_title"`
	Score       float64 `json:"score"`
	TimeSpent   string  `json:"time_spent"`
	CompletedAt string  `json:"completed_at"`
}

// RecentByUser returns the caller's latest attempts across all quizzes.
func (s *HistoryService) RecentByUser(userID uint, limit int) ([]RecentAttempt, error) {
	if limit <= 0 {
		limit = 10
	}

	attempts, err := s.AttemptRepo.ListRecentByUser(userID, limit)
	if err != nil {
		return nil, err
	}

	recent := make([]RecentAttempt, 0, len(attempts))
	for _, a := range attempts {
		entry := RecentAttempt{
			AttemptID:   a.ID,
			QuizID:      a.QuizID,
			QuizTitle:   "Deleted Quiz",
			Score:       a.Score,
			TimeSpent:   a.TimeSpent,
			CompletedAt: a.CompletedAt.Format("2006-01-02 15:04:05"),
		}
		if a.Quiz != nil {
			entry.QuizTitle = a.Quiz.Title
		}
		recent = append(recent, entry)
	}
	return recent, nil
}
