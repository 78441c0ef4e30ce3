package service

import (
	"context"
	"errors"
	"testing"

	"quizgenie_backend/internal/model"
	"quizgenie_backend/internal/util"
)

type fakeQuizStore struct {
	quiz *model.Quiz
	err  error
}

func (f *fakeQuizStore) FindByID(id string) (*model.Quiz, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quiz, nil
}

type fakeRecorder struct {
	attempt *model.QuizAttempt
	quiz    model.Quiz
	user    model.User
	err     error
	calls   int
}

func (f *fakeRecorder) Record(ctx context.Context, attempt *model.QuizAttempt, apply func(quiz *model.Quiz, user *model.User)) (int, float64, error) {
	f.calls++
	if f.err != nil {
		return 0, 0, f.err
	}
	f.attempt = attempt
	apply(&f.quiz, &f.user)
	attempt.ID = 42
	return f.quiz.Plays, f.quiz.Rating, nil
}

func mcqQuiz(t *testing.T, answers ...string) *model.Quiz {
	t.Helper()
	questions := make([]model.Question, 0, len(answers))
	for i, answer := range answers {
		questions = append(questions, model.Question{
			Question: "Question " + string(rune('A'+i)),
			Options:  []string{answer, "wrong"},
			Answer:   answer,
		})
	}
	quiz := &model.Quiz{QuizType: model.QuizTypeMCQ}
	quiz.ID = "quiz-1"
	if err := quiz.SetQuestions(questions); err != nil {
		t.Fatalf("SetQuestions: %v", err)
	}
	return quiz
}

func TestSubmitGradesInStoredOrder(t *testing.T) {
	quiz := mcqQuiz(t, "Red", "Green", "Blue")
	recorder := &fakeRecorder{}
	svc := NewAttemptService(&fakeQuizStore{quiz: quiz}, recorder, NewGrader(&stubJudge{}))

	result, err := svc.Submit(context.Background(), 1, SubmitRequest{
		QuizID: "quiz-1",
		// Keys are question indices; index 1 is wrong, index 2 is missing.
		Answers: map[string]string{"0": "Red", "1": "Purple"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(result.Evaluation) != 3 {
		t.Fatalf("Evaluation has %d entries, want 3", len(result.Evaluation))
	}
	for i, r := range result.Evaluation {
		if r.QuestionIndex != i {
			t.Errorf("Evaluation[%d].QuestionIndex = %d, want %d", i, r.QuestionIndex, i)
		}
	}

	if result.CorrectCount != 1 {
		t.Errorf("CorrectCount = %d, want 1", result.CorrectCount)
	}
	wantScore := 1.0 / 3.0 * 100
	if result.Score != wantScore {
		t.Errorf("Score = %v, want %v", result.Score, wantScore)
	}
	if result.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", result.TotalQuestions)
	}
	if result.AttemptID != 42 {
		t.Errorf("AttemptID = %d, want 42", result.AttemptID)
	}
	if result.Degraded {
		t.Error("Degraded = true for a pure multiple-choice submission")
	}
}

func TestSubmitAppliesAggregates(t *testing.T) {
	quiz := mcqQuiz(t, "Yes")
	recorder := &fakeRecorder{quiz: model.Quiz{Plays: 4, Rating: 50}}
	svc := NewAttemptService(&fakeQuizStore{quiz: quiz}, recorder, NewGrader(&stubJudge{}))

	result, err := svc.Submit(context.Background(), 1, SubmitRequest{
		QuizID:  "quiz-1",
		Answers: map[string]string{"0": "Yes"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if result.NewPlaysCount != 5 {
		t.Errorf("NewPlaysCount = %d, want 5", result.NewPlaysCount)
	}
	// (50 + 100) / 2
	if result.NewRating != 75 {
		t.Errorf("NewRating = %v, want 75", result.NewRating)
	}
	if recorder.user.TotalScore != 100 {
		t.Errorf("user TotalScore = %v, want 100", recorder.user.TotalScore)
	}
	if recorder.attempt.TimeSpent != "00:00" {
		t.Errorf("TimeSpent defaulted to %q, want 00:00", recorder.attempt.TimeSpent)
	}
}

func TestSubmitEmptyQuizPersistsNothing(t *testing.T) {
	quiz := &model.Quiz{QuizType: model.QuizTypeMCQ, QuizContent: "[]"}
	quiz.ID = "quiz-1"
	recorder := &fakeRecorder{}
	svc := NewAttemptService(&fakeQuizStore{quiz: quiz}, recorder, NewGrader(&stubJudge{}))

	_, err := svc.Submit(context.Background(), 1, SubmitRequest{QuizID: "quiz-1", Answers: map[string]string{}})
	if !errors.Is(err, util.ErrEmptyQuiz) {
		t.Fatalf("err = %v, want ErrEmptyQuiz", err)
	}
	if recorder.calls != 0 {
		t.Errorf("recorder called %d times for an empty quiz", recorder.calls)
	}
}

func TestSubmitMalformedContentPersistsNothing(t *testing.T) {
	quiz := &model.Quiz{QuizType: model.QuizTypeMCQ, QuizContent: "{not json"}
	quiz.ID = "quiz-1"
	recorder := &fakeRecorder{}
	svc := NewAttemptService(&fakeQuizStore{quiz: quiz}, recorder, NewGrader(&stubJudge{}))

	_, err := svc.Submit(context.Background(), 1, SubmitRequest{QuizID: "quiz-1", Answers: map[string]string{}})
	if err == nil {
		t.Fatal("expected an error for malformed quiz content")
	}
	if recorder.calls != 0 {
		t.Errorf("recorder called %d times for malformed content", recorder.calls)
	}
}

func TestSubmitQuizNotFound(t *testing.T) {
	svc := NewAttemptService(&fakeQuizStore{err: util.ErrQuizNotFound}, &fakeRecorder{}, NewGrader(&stubJudge{}))

	_, err := svc.Submit(context.Background(), 1, SubmitRequest{QuizID: "missing", Answers: map[string]string{}})
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("err = %v, want ErrQuizNotFound", err)
	}
}

func TestSubmitDegradedWhenJudgeFails(t *testing.T) {
	questions := []model.Question{
		{Question: "Explain gravity.", Answer: "Mass attracts mass."},
		{Question: "Explain inertia.", Answer: "Objects resist changes in motion."},
	}
	quiz := &model.Quiz{QuizType: model.QuizTypeShortAnswer}
	quiz.ID = "quiz-1"
	if err := quiz.SetQuestions(questions); err != nil {
		t.Fatalf("SetQuestions: %v", err)
	}

	judge := &stubJudge{err: &AdapterError{Op: "request", Err: errors.New("timeout")}}
	recorder := &fakeRecorder{}
	svc := NewAttemptService(&fakeQuizStore{quiz: quiz}, recorder, NewGrader(judge))

	result, err := svc.Submit(context.Background(), 1, SubmitRequest{
		QuizID:  "quiz-1",
		Answers: map[string]string{"0": "something", "1": "something else"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if !result.Degraded {
		t.Error("Degraded = false though every judgment failed")
	}
	if result.Score != 0 {
		t.Errorf("Score = %v, want 0", result.Score)
	}
	if recorder.calls != 1 {
		t.Errorf("recorder called %d times, want 1: degraded attempts still persist", recorder.calls)
	}
}

func TestSubmitRecorderConflictSurfaces(t *testing.T) {
	quiz := mcqQuiz(t, "Yes")
	recorder := &fakeRecorder{err: util.ErrConflictRetryExhausted}
	svc := NewAttemptService(&fakeQuizStore{quiz: quiz}, recorder, NewGrader(&stubJudge{}))

	_, err := svc.Submit(context.Background(), 1, SubmitRequest{
		QuizID:  "quiz-1",
		Answers: map[string]string{"0": "Yes"},
	})
	if !errors.Is(err, util.ErrConflictRetryExhausted) {
		t.Fatalf("err = %v, want ErrConflictRetryExhausted", err)
	}
}

func TestEvaluateStoresAnswersAndDetails(t *testing.T) {
	quiz := mcqQuiz(t, "A", "B")
	svc := NewAttemptService(&fakeQuizStore{quiz: quiz}, &fakeRecorder{}, NewGrader(&stubJudge{}))

	answers := map[string]string{"0": "A", "1": "wrong"}
	attempt, results, warnings, err := svc.Evaluate(context.Background(), quiz, 7, answers, "01:30")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	stored, err := attempt.GradeResults()
	if err != nil {
		t.Fatalf("GradeResults: %v", err)
	}
	if len(stored) != 2 || stored[0].QuestionIndex != 0 || stored[1].QuestionIndex != 1 {
		t.Errorf("stored details out of order: %+v", stored)
	}

	submitted, err := attempt.SubmittedAnswers()
	if err != nil {
		t.Fatalf("SubmittedAnswers: %v", err)
	}
	if submitted["1"] != "wrong" {
		t.Errorf("submitted answers not round-tripped: %v", submitted)
	}
	if attempt.TimeSpent != "01:30" {
		t.Errorf("TimeSpent = %q, want 01:30", attempt.TimeSpent)
	}
	if attempt.UserID != 7 {
		t.Errorf("UserID = %d, want 7", attempt.UserID)
	}
}
