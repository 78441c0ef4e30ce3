package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Verdict is the grading outcome for a single question.
type Verdict string

const (
	VerdictExactMatch Verdict = "exact_match" // multiple-choice comparison
	VerdictCorrect    Verdict = "correct"
	VerdictPartial    Verdict = "partial"
	VerdictIncorrect  Verdict = "incorrect"
)

// GradeResult is the per-question outcome embedded in an attempt's details.
// Results are stored ordered by QuestionIndex ascending, matching the quiz's
// stored question order; history and review UIs rely on that order.
type GradeResult struct {
	QuestionIndex int     `json:"question_index"`
	Question      string  `json:"question"`
	UserAnswer    string  `json:"user_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	Verdict       Verdict `json:"verdict"`
	Explanation   string  `json:"explanation"`
}

// QuizAttempt is immutable once persisted; re-takes insert new rows.
type QuizAttempt struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"userId"`
	QuizID         string    `gorm:"type:varchar(36);index;not null" json:"quizId"`
	Score          float64   `gorm:"not null" json:"score"`
	CorrectAnswers int       `gorm:"not null" json:"correctAnswers"`
	TotalQuestions int       `gorm:"not null" json:"totalQuestions"`
	TimeSpent      string    `gorm:"size:20" json:"timeSpent"` // "MM:SS"
	UserAnswers    string    `gorm:"type:text" json:"-"`       // serialized map[index]answer
	Details        string    `gorm:"type:text" json:"-"`       // serialized []GradeResult
	CompletedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP(3);index" json:"completedAt"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Quiz *Quiz `gorm:"foreignKey:QuizID" json:"-"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

func (a *QuizAttempt) SetDetails(results []GradeResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	a.Details = string(data)
	return nil
}

func (a *QuizAttempt) GradeResults() ([]GradeResult, error) {
	if a.Details == "" {
		return nil, nil
	}
	var results []GradeResult
	if err := json.Unmarshal([]byte(a.Details), &results); err != nil {
		return nil, fmt.Errorf("attempt %d: malformed details: %w", a.ID, err)
	}
	return results, nil
}

func (a *QuizAttempt) SetUserAnswers(answers map[string]string) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	a.UserAnswers = string(data)
	return nil
}

func (a *QuizAttempt) SubmittedAnswers() (map[string]string, error) {
	if a.UserAnswers == "" {
		return nil, nil
	}
	var answers map[string]string
	if err := json.Unmarshal([]byte(a.UserAnswers), &answers); err != nil {
		return nil, fmt.Errorf("attempt %d: malformed answers: %w", a.ID, err)
	}
	return answers, nil
}
