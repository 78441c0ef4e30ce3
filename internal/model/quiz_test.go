package model

import "testing"

func TestQuestionsValidation(t *testing.T) {
	tests := []struct {
		name     string
		quizType QuizType
		content  string
		wantErr  bool
		wantLen  int
	}{
		{
			"valid mcq",
			QuizTypeMCQ,
			`[{"question": "Q1", "options": ["a", "b"], "answer": "a"}]`,
			false, 1,
		},
		{
			"valid short answer without options",
			QuizTypeShortAnswer,
			`[{"question": "Q1", "answer": "because"}]`,
			false, 1,
		},
		{
			"empty list is valid content",
			QuizTypeMCQ,
			`[]`,
			false, 0,
		},
		{
			"malformed json",
			QuizTypeMCQ,
			`{"question": "not a list"}`,
			true, 0,
		},
		{
			"question without text",
			QuizTypeMCQ,
			`[{"question": "", "options": ["a"], "answer": "a"}]`,
			true, 0,
		},
		{
			"question without answer",
			QuizTypeMCQ,
			`[{"question": "Q1", "options": ["a"], "answer": ""}]`,
			true, 0,
		},
		{
			"mcq without options",
			QuizTypeMCQ,
			`[{"question": "Q1", "answer": "a"}]`,
			true, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := &Quiz{QuizType: tt.quizType, QuizContent: tt.content}
			quiz.ID = "quiz-1"

			questions, err := quiz.Questions()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Questions: %v", err)
			}
			if len(questions) != tt.wantLen {
				t.Errorf("got %d questions, want %d", len(questions), tt.wantLen)
			}
		})
	}
}

func TestSetQuestionsRoundTrip(t *testing.T) {
	quiz := &Quiz{QuizType: QuizTypeMCQ}
	in := []Question{
		{Question: "Q1", Options: []string{"a", "b"}, Answer: "a", Explanation: "e", Difficulty: "Easy"},
		{Question: "Q2", Options: []string{"c", "d"}, Answer: "d"},
	}
	if err := quiz.SetQuestions(in); err != nil {
		t.Fatalf("SetQuestions: %v", err)
	}

	out, err := quiz.Questions()
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if len(out) != 2 || out[0].Answer != "a" || out[1].Question != "Q2" {
		t.Errorf("round trip mismatch: %+v", out)
	}
	if quiz.QuestionCount() != 2 {
		t.Errorf("QuestionCount = %d, want 2", quiz.QuestionCount())
	}
}
