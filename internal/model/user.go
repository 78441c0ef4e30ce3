package model

import "time"

type User struct {
	BaseModel
	Username   string    `gorm:"size:80;unique;not null" json:"username"`
	Email      string    `gorm:"size:120;unique;not null" json:"email"`
	Password   string    `gorm:"size:200;not null" json:"-"`
	TotalScore float64   `gorm:"default:0" json:"totalScore"` // cumulative sum of attempt scores, not an average
	Badge      string    `gorm:"size:50;default:'Member'" json:"badge"`
	LastLogin  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
