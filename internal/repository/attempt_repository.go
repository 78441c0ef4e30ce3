package repository

import (
	"context"
	"errors"

	"quizgenie_backend/internal/model"
	"quizgenie_backend/internal/util"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const recordRetries = 3

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Record persists the attempt and applies the caller's aggregate update to
// the quiz and user rows in one transaction. Both rows are locked before
// apply runs, so concurrent submissions to the same quiz or by the same user
// serialize instead of losing updates. Deadlocks and lock-wait timeouts are
// retried with fresh row state up to recordRetries times.
func (r *AttemptRepository) Record(ctx context.Context, attempt *model.QuizAttempt, apply func(quiz *model.Quiz, user *model.User)) (plays int, rating float64, err error) {
	for i := 0; i < recordRetries; i++ {
		plays, rating, err = r.recordOnce(ctx, attempt, apply)
		if err == nil || !isLockConflict(err) {
			return plays, rating, err
		}
	}
	return 0, 0, util.ErrConflictRetryExhausted
}

func (r *AttemptRepository) recordOnce(ctx context.Context, attempt *model.QuizAttempt, apply func(quiz *model.Quiz, user *model.User)) (int, float64, error) {
	var plays int
	var rating float64

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quiz model.Quiz
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&quiz, "id = ?", attempt.QuizID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrQuizNotFound
			}
			return err
		}

		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, attempt.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrUserNotFound
			}
			return err
		}

		apply(&quiz, &user)

		if err := tx.Model(&model.Quiz{}).Where("id = ?", quiz.ID).
			Updates(map[string]interface{}{"plays": quiz.Plays, "rating": quiz.Rating}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.User{}).Where("id = ?", user.ID).
			Update("total_score", user.TotalScore).Error; err != nil {
			return err
		}
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}

		plays = quiz.Plays
		rating = quiz.Rating
		return nil
	})

	return plays, rating, err
}

func isLockConflict(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		// 1213: deadlock, 1205: lock wait timeout
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}

func (r *AttemptRepository) ListByUserAndQuiz(userID uint, quizID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("completed_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListRecentByUser(userID uint, limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	query := r.DB.Preload("Quiz").
		Where("user_id = ?", userID).
		Order("completed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByQuiz(quizID string, limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	query := r.DB.Preload("User").
		Where("quiz_id = ?", quizID).
		Order("completed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *AttemptRepository) AverageScoreByUser(userID uint) (float64, error) {
	var avg float64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ?", userID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avg).Error
	return avg, err
}

func (r *AttemptRepository) AverageScoreByQuiz(quizID string) (float64, error) {
	var avg float64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("quiz_id = ?", quizID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avg).Error
	return avg, err
}

// Platform-wide aggregates for the landing page stats strip.

func (r *AttemptRepository) CountDistinctUsers() (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

func (r *AttemptRepository) SumTotalQuestions() (int64, error) {
	var sum int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Select("COALESCE(SUM(total_questions), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *AttemptRepository) AverageScore() (float64, error) {
	var avg float64
	err := r.DB.Model(&model.QuizAttempt{}).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avg).Error
	return avg, err
}
