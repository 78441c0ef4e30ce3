package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizgenie_backend/internal/config"
	"quizgenie_backend/internal/model"
)

func judgeServer(t *testing.T, handler http.HandlerFunc) *AIService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewAIService(config.AIConfig{
		BaseURL:      server.URL,
		APIKey:       "test-key",
		Model:        "test-model",
		JudgeTimeout: 2 * time.Second,
	})
}

func chatReply(content string) string {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestJudgeAnswerParsesVerdict(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		verdict model.Verdict
		reason  string
	}{
		{"correct", `{"verdict": "correct", "reason": "matches"}`, model.VerdictCorrect, "matches"},
		{"partial", `{"verdict": "partial", "reason": "half right"}`, model.VerdictPartial, "half right"},
		{"incorrect", `{"verdict": "incorrect", "reason": ""}`, model.VerdictIncorrect, ""},
		{"case and whitespace", `{"verdict": " Correct ", "reason": "ok"}`, model.VerdictCorrect, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := judgeServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/chat/completions" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
					t.Errorf("Authorization = %q", got)
				}
				w.Write([]byte(chatReply(tt.reply)))
			})

			verdict, err := svc.JudgeAnswer(context.Background(), "Q", "expected", "given")
			if err != nil {
				t.Fatalf("JudgeAnswer: %v", err)
			}
			if verdict.Verdict != tt.verdict {
				t.Errorf("Verdict = %q, want %q", verdict.Verdict, tt.verdict)
			}
			if verdict.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", verdict.Reason, tt.reason)
			}
		})
	}
}

func TestJudgeAnswerAdapterErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"non-JSON reply",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(chatReply("the answer looks right to me")))
			},
		},
		{
			"unknown verdict",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(chatReply(`{"verdict": "maybe", "reason": "unsure"}`)))
			},
		},
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream overloaded", http.StatusInternalServerError)
			},
		},
		{
			"no choices",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices": []}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := judgeServer(t, tt.handler)

			_, err := svc.JudgeAnswer(context.Background(), "Q", "expected", "given")
			if err == nil {
				t.Fatal("expected an error")
			}
			var adapterErr *AdapterError
			if !errors.As(err, &adapterErr) {
				t.Errorf("err = %T (%v), want *AdapterError", err, err)
			}
		})
	}
}

func TestJudgeAnswerTimeout(t *testing.T) {
	block := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(block) })

	svc := NewAIService(config.AIConfig{
		BaseURL:      server.URL,
		Model:        "test-model",
		JudgeTimeout: 50 * time.Millisecond,
	})

	start := time.Now()
	_, err := svc.JudgeAnswer(context.Background(), "Q", "expected", "given")
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	var adapterErr *AdapterError
	if !errors.As(err, &adapterErr) {
		t.Errorf("err = %T, want *AdapterError", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("judgment took %v, timeout did not bound it", elapsed)
	}
}

func TestGenerateQuizValidatesOutput(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantErr bool
	}{
		{
			"valid",
			`{"title": "T", "description": "D", "quiz": [{"question": "Q1", "options": ["a", "b"], "answer": "a", "difficulty": "Easy"}], "tags": ["x"], "overall_difficulty": "Easy"}`,
			false,
		},
		{
			"no questions",
			`{"title": "T", "description": "D", "quiz": [], "tags": [], "overall_difficulty": "Easy"}`,
			true,
		},
		{
			"question missing answer",
			`{"title": "T", "quiz": [{"question": "Q1", "options": ["a"], "answer": ""}]}`,
			true,
		},
		{
			"malformed",
			`not json at all`,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := judgeServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(chatReply(tt.reply)))
			})

			generated, err := svc.GenerateQuiz(context.Background(), "some passage", model.QuizTypeMCQ, 1)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateQuiz: %v", err)
			}
			if generated.Title != "T" || len(generated.Questions) != 1 {
				t.Errorf("unexpected result: %+v", generated)
			}
		})
	}
}
