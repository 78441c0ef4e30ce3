package repository

import (
	"errors"

	"quizgenie_backend/internal/model"
	"quizgenie_backend/internal/util"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// QuizFilter narrows the public discover listing.
type QuizFilter struct {
	Search     string
	Difficulty string
	Tags       []string
	Sort       string // trending | newest | top-rated
}

func (r *QuizRepository) FindByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Tags").Preload("User").First(&quiz, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// FindOwned returns the quiz only when it belongs to ownerID; other users'
// quizzes are reported as not found rather than forbidden, so quiz IDs leak
// nothing about existence.
func (r *QuizRepository) FindOwned(id string, ownerID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Tags").Where("id = ? AND user_id = ?", id, ownerID).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) ListPublic(filter QuizFilter) ([]model.Quiz, error) {
	query := r.DB.Preload("Tags").Where("is_public = ?", true)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if filter.Difficulty != "" && filter.Difficulty != "all" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if len(filter.Tags) > 0 {
		query = query.
			Joins("JOIN quiz_tags ON quiz_tags.quiz_id = quizzes.id").
			Joins("JOIN tags ON tags.id = quiz_tags.tag_id").
			Where("tags.name IN ?", filter.Tags).
			Distinct("quizzes.*")
	}

	switch filter.Sort {
	case "newest":
		query = query.Order("created_at DESC")
	case "top-rated":
		query = query.Order("rating DESC")
	default: // trending
		query = query.Order("plays DESC")
	}

	var quizzes []model.Quiz
	err := query.Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) ListByCreator(userID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Preload("Tags").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Quiz{}).Count(&count).Error
	return count, err
}
