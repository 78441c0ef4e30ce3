package model

type Tag struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:50;unique;not null" json:"name"`
	Category string `gorm:"size:50" json:"category,omitempty"`

	Quizzes []*Quiz `gorm:"many2many:quiz_tags;" json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}
