package repository

import (
	"errors"
	"strings"

	"quizgenie_backend/internal/model"

	"gorm.io/gorm"
)

type TagRepository struct {
	DB *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{DB: db}
}

// GetOrCreate resolves tag names to rows, creating missing ones. Names are
// normalized to lower case so "History" and "history" collapse to one tag.
func (r *TagRepository) GetOrCreate(tx *gorm.DB, names []string) ([]model.Tag, error) {
	if tx == nil {
		tx = r.DB
	}
	tags := make([]model.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag model.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = model.Tag{Name: name}
			if err := tx.Create(&tag).Error; err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *TagRepository) List() ([]model.Tag, error) {
	var tags []model.Tag
	err := r.DB.Order("name ASC").Find(&tags).Error
	return tags, err
}
