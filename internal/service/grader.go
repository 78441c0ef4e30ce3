package service

import (
	"context"
	"strings"

	"quizgenie_backend/internal/model"
)

// Grader produces a per-question result. It is pure over its inputs apart
// from the single judge call for free-form answers.
type Grader struct {
	Judge AnswerJudge
}

func NewGrader(judge AnswerJudge) *Grader {
	return &Grader{Judge: judge}
}

// Grade grades one answer. The returned error is a non-fatal warning: when
// the judge fails the result is still valid (graded incorrect) and the
// attempt as a whole must proceed.
func (g *Grader) Grade(ctx context.Context, quizType model.QuizType, index int, question model.Question, rawAnswer string) (model.GradeResult, error) {
	userAnswer := strings.TrimSpace(rawAnswer)
	correctAnswer := strings.TrimSpace(question.Answer)

	result := model.GradeResult{
		QuestionIndex: index,
		Question:      question.Question,
		UserAnswer:    rawAnswer,
		CorrectAnswer: correctAnswer,
		Explanation:   question.Explanation,
	}

	if quizType == model.QuizTypeMCQ {
		result.Verdict = model.VerdictExactMatch
		result.IsCorrect = strings.EqualFold(userAnswer, correctAnswer)
		return result, nil
	}

	// Free-form. A blank answer is wrong by definition; don't spend a model
	// call on it.
	if userAnswer == "" {
		result.Verdict = model.VerdictIncorrect
		return result, nil
	}

	verdict, err := g.Judge.JudgeAnswer(ctx, question.Question, correctAnswer, userAnswer)
	if err != nil {
		result.Verdict = model.VerdictIncorrect
		result.IsCorrect = false
		return result, err
	}

	result.Verdict = verdict.Verdict
	// Partial credit counts as correct for scoring. Deliberate leniency.
	result.IsCorrect = verdict.Verdict == model.VerdictCorrect || verdict.Verdict == model.VerdictPartial
	if verdict.Reason != "" {
		result.Explanation = verdict.Reason
	}
	return result, nil
}
