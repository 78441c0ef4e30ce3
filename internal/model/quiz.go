package model

import (
	"encoding/json"
	"fmt"
)

type QuizType string

const (
	QuizTypeMCQ         QuizType = "mcq"
	QuizTypeShortAnswer QuizType = "short_answer"
)

// Question is one entry of a quiz's stored content. Questions are immutable
// once the quiz is created; their position in the slice is the answer key
// used by submissions.
type Question struct {
	Question    string   `json:"question"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
}

type Quiz struct {
	UUIDBase
	OriginalText string   `gorm:"type:text;not null" json:"-"`
	QuizContent  string   `gorm:"type:text;not null" json:"-"`
	QuizType     QuizType `gorm:"size:20;not null" json:"quizType"`
	IsPublic     bool     `gorm:"default:true" json:"isPublic"`
	Title        string   `gorm:"size:200;default:'Interactive Quiz'" json:"title"`
	Description  string   `gorm:"size:500" json:"description"`
	Difficulty   string   `gorm:"size:20" json:"difficulty"`
	Plays        int      `gorm:"default:0" json:"plays"`
	Rating       float64  `gorm:"default:0" json:"rating"` // running mean of (previous rating, new score); zero means unrated
	UserID       uint     `gorm:"index;not null" json:"userId"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Tags []Tag `gorm:"many2many:quiz_tags;" json:"-"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Questions decodes and validates the stored content. The blob is never
// trusted to match shape at point of use: a quiz whose content does not
// decode into well-formed questions is treated as a data error by callers.
func (q *Quiz) Questions() ([]Question, error) {
	var questions []Question
	if err := json.Unmarshal([]byte(q.QuizContent), &questions); err != nil {
		return nil, fmt.Errorf("quiz %s: malformed content: %w", q.ID, err)
	}
	for i, question := range questions {
		if question.Question == "" {
			return nil, fmt.Errorf("quiz %s: question %d has empty text", q.ID, i)
		}
		if question.Answer == "" {
			return nil, fmt.Errorf("quiz %s: question %d has empty answer", q.ID, i)
		}
		if q.QuizType == QuizTypeMCQ && len(question.Options) == 0 {
			return nil, fmt.Errorf("quiz %s: question %d is multiple-choice but has no options", q.ID, i)
		}
	}
	return questions, nil
}

func (q *Quiz) SetQuestions(questions []Question) error {
	content, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	q.QuizContent = string(content)
	return nil
}

func (q *Quiz) QuestionCount() int {
	questions, err := q.Questions()
	if err != nil {
		return 0
	}
	return len(questions)
}

func (q *Quiz) TagNames() []string {
	names := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		names = append(names, t.Name)
	}
	return names
}
