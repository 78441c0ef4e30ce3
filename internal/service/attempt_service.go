package service

import (
	"context"
	"strconv"
	"time"

	"quizgenie_backend/internal/model"
	"quizgenie_backend/internal/util"
	"quizgenie_backend/pkg/logger"
	"quizgenie_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// QuizFinder and AttemptRecorder are the two store capabilities the
// submission pipeline needs; the gorm repositories implement them, tests use
// fakes.
type QuizFinder interface {
	FindByID(id string) (*model.Quiz, error)
}

type AttemptRecorder interface {
	Record(ctx context.Context, attempt *model.QuizAttempt, apply func(quiz *model.Quiz, user *model.User)) (plays int, rating float64, err error)
}

type AttemptService struct {
	Quizzes  QuizFinder
	Recorder AttemptRecorder
	Grader   *Grader
	Stats    StatisticsUpdater
}

func NewAttemptService(quizzes QuizFinder, recorder AttemptRecorder, grader *Grader) *AttemptService {
	return &AttemptService{
		Quizzes:  quizzes,
		Recorder: recorder,
		Grader:   grader,
	}
}

type SubmitRequest struct {
	QuizID    string            `json:"quiz_id" binding:"required"`
	Answers   map[string]string `json:"answers" binding:"required"`
	TimeSpent string            `json:"time_spent"`
}

type SubmitResult struct {
	Evaluation     []model.GradeResult `json:"evaluation"`
	Score          float64             `json:"score"`
	CorrectCount   int                 `json:"correct_count"`
	TotalQuestions int                 `json:"total_questions"`
	QuizType       model.QuizType      `json:"quiz_type"`
	AttemptID      uint                `json:"attempt_id"`
	NewPlaysCount  int                 `json:"new_plays_count"`
	NewRating      float64             `json:"new_rating"`
	Degraded       bool                `json:"degraded,omitempty"` // some free-form questions could not be judged
}

// Evaluate grades every question of the quiz against the submitted answers
// and assembles an unpersisted attempt. Grade results come back in stored
// question order; review UIs depend on that. Judge failures are collected as
// warnings, not errors: the affected questions grade as incorrect and the
// attempt completes.
func (s *AttemptService) Evaluate(ctx context.Context, quiz *model.Quiz, userID uint, answers map[string]string, timeSpent string) (*model.QuizAttempt, []model.GradeResult, []error, error) {
	questions, err := quiz.Questions()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(questions) == 0 {
		return nil, nil, nil, util.ErrEmptyQuiz
	}

	results := make([]model.GradeResult, 0, len(questions))
	var warnings []error
	correctCount := 0

	for i, question := range questions {
		// Absent and empty submissions grade the same way: wrong, not an error.
		raw := answers[strconv.Itoa(i)]

		result, warn := s.Grader.Grade(ctx, quiz.QuizType, i, question, raw)
		if warn != nil {
			warnings = append(warnings, warn)
		}
		if result.IsCorrect {
			correctCount++
		}
		results = append(results, result)
	}

	score := float64(correctCount) / float64(len(questions)) * 100

	attempt := &model.QuizAttempt{
		UserID:         userID,
		QuizID:         quiz.ID,
		Score:          score,
		CorrectAnswers: correctCount,
		TotalQuestions: len(questions),
		TimeSpent:      timeSpent,
		CompletedAt:    time.Now(),
	}
	if err := attempt.SetUserAnswers(answers); err != nil {
		return nil, nil, nil, err
	}
	if err := attempt.SetDetails(results); err != nil {
		return nil, nil, nil, err
	}

	return attempt, results, warnings, nil
}

// Submit runs the full pipeline: load quiz, grade, persist the attempt
// together with the aggregate updates, and report the fresh aggregates.
// Nothing is persisted when evaluation fails.
func (s *AttemptService) Submit(ctx context.Context, userID uint, req SubmitRequest) (*SubmitResult, error) {
	quiz, err := s.Quizzes.FindByID(req.QuizID)
	if err != nil {
		return nil, err
	}

	timeSpent := req.TimeSpent
	if timeSpent == "" {
		timeSpent = "00:00"
	}

	attempt, results, warnings, err := s.Evaluate(ctx, quiz, userID, req.Answers, timeSpent)
	if err != nil {
		return nil, err
	}

	for _, warn := range warnings {
		monitoring.JudgeFailures.Inc()
		logger.Log.Warn("free-form judgment degraded, question graded incorrect",
			zap.String("quizId", quiz.ID),
			zap.Uint("userId", userID),
			zap.Error(warn),
		)
	}

	plays, rating, err := s.Recorder.Record(ctx, attempt, func(q *model.Quiz, u *model.User) {
		s.Stats.Apply(attempt, q, u)
	})
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Evaluation:     results,
		Score:          attempt.Score,
		CorrectCount:   attempt.CorrectAnswers,
		TotalQuestions: attempt.TotalQuestions,
		QuizType:       quiz.QuizType,
		AttemptID:      attempt.ID,
		NewPlaysCount:  plays,
		NewRating:      rating,
		Degraded:       len(warnings) > 0,
	}, nil
}
