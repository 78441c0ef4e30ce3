package service

import "quizgenie_backend/internal/model"

// StatisticsUpdater folds a finished attempt into the derived aggregates. It
// mutates in memory only; the caller runs it inside the transaction that
// persists the attempt, against freshly locked rows.
type StatisticsUpdater struct{}

// Apply updates plays, rating and the user's cumulative score.
//
// The rating recurrence is (previous + score) / 2, seeded with the first
// score. It weights recent attempts more than a true running average would.
// Historical ratings were produced by this exact recurrence, so it must not
// be replaced with an average over attempt count.
func (StatisticsUpdater) Apply(attempt *model.QuizAttempt, quiz *model.Quiz, user *model.User) {
	quiz.Plays++

	if quiz.Rating == 0 {
		quiz.Rating = attempt.Score
	} else {
		quiz.Rating = (quiz.Rating + attempt.Score) / 2
	}

	user.TotalScore += attempt.Score
}
