package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"quizgenie_backend/internal/config"
	"quizgenie_backend/internal/model"
)

// AIService talks to an OpenAI-compatible chat completion endpoint. It backs
// both quiz generation and free-form answer judgment.
type AIService struct {
	config      config.AIConfig
	genClient   *http.Client
	judgeClient *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config:    cfg,
		genClient: &http.Client{},
		// A stalled judgment call must not hang the whole submission.
		judgeClient: &http.Client{Timeout: cfg.JudgeTimeout},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []AIChatMessage `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// AdapterError wraps any failure of the judgment capability: transport
// errors, timeouts, non-JSON payloads, or a payload without a usable verdict.
// Callers recover from it locally; it never aborts an attempt.
type AdapterError struct {
	Op  string
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("judge adapter: %s: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// JudgeVerdict is the parsed judgment for one free-form answer.
type JudgeVerdict struct {
	Verdict model.Verdict
	Reason  string
}

// AnswerJudge is the capability the grader depends on; AIService implements
// it against the model endpoint, tests implement it in-process.
type AnswerJudge interface {
	JudgeAnswer(ctx context.Context, questionText, correctAnswer, userAnswer string) (JudgeVerdict, error)
}

// JudgeAnswer asks the model whether a free-form answer matches the expected
// one. The model is forced into JSON mode and its reply parsed into
// {verdict, reason}; anything that cannot be parsed into a known verdict
// comes back as *AdapterError.
func (s *AIService) JudgeAnswer(ctx context.Context, questionText, correctAnswer, userAnswer string) (JudgeVerdict, error) {
	prompt := fmt.Sprintf(
		"Question: %s\n"+
			"Correct Answer: %s\n"+
			"User's Answer: %s\n\n"+
			"Determine if the user's answer is correct, partially correct, or incorrect. "+
			"Reply with JSON format like: {\"verdict\": \"correct\" | \"partial\" | \"incorrect\", \"reason\": \"...\"}",
		questionText, correctAnswer, userAnswer,
	)

	reply, err := s.complete(ctx, s.judgeClient, chatCompletionRequest{
		Model:          s.config.Model,
		Messages:       []AIChatMessage{{Role: "user", Content: prompt}},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return JudgeVerdict{}, &AdapterError{Op: "request", Err: err}
	}

	var parsed struct {
		Verdict string `json:"verdict"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return JudgeVerdict{}, &AdapterError{Op: "parse", Err: fmt.Errorf("non-JSON reply %q: %w", reply, err)}
	}

	switch verdict := model.Verdict(strings.ToLower(strings.TrimSpace(parsed.Verdict))); verdict {
	case model.VerdictCorrect, model.VerdictPartial, model.VerdictIncorrect:
		return JudgeVerdict{Verdict: verdict, Reason: parsed.Reason}, nil
	default:
		return JudgeVerdict{}, &AdapterError{Op: "parse", Err: fmt.Errorf("unknown verdict %q", parsed.Verdict)}
	}
}

// GeneratedQuiz is the parsed output of a generation call.
type GeneratedQuiz struct {
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Questions         []model.Question `json:"quiz"`
	Tags              []string         `json:"tags"`
	OverallDifficulty string           `json:"overall_difficulty"`
}

// GenerateQuiz turns a source passage into a complete quiz package: title,
// description, questions, tags and a difficulty estimate.
func (s *AIService) GenerateQuiz(ctx context.Context, text string, quizType model.QuizType, numQuestions int) (*GeneratedQuiz, error) {
	prompt := fmt.Sprintf(`Generate a complete quiz package from the following passage:

Passage:
"""%s"""

Requirements:
1. Title: Create a unique, descriptive title (5-8 words)
2. Description: Write a compelling description (1-2 sentences, max 30 words)
3. Quiz: Create %d %s questions
4. Tags: Generate 3-5 relevant tags
5. Difficulty: Determine appropriate level (Easy, Medium, Hard) based on:
   - Question complexity
   - Required prior knowledge
   - Conceptual difficulty

Output format (STRICTLY FOLLOW THIS JSON STRUCTURE):
{
    "title": "Generated quiz title",
    "description": "Generated description",
    "quiz": [
        {
            "question": "...",
            "options": ["...", "...", "...", "..."],
            "answer": "...",
            "explanation": "...",
            "difficulty": "Easy/Medium/Hard"
        }
    ],
    "tags": ["tag1", "tag2"],
    "overall_difficulty": "Easy/Medium/Hard"
}

Guidelines:
- For short_answer quizzes omit the "options" array.
- Difficulty Assessment:
  * Easy: Basic recall, straightforward questions
  * Medium: Requires some analysis/application
  * Hard: Complex reasoning or specialized knowledge
- Be consistent between per-question and overall difficulty
- For mixed difficulty quizzes, weight toward most common level`,
		text, numQuestions, strings.ToUpper(string(quizType)))

	reply, err := s.complete(ctx, s.genClient, chatCompletionRequest{
		Model:          s.config.Model,
		Messages:       []AIChatMessage{{Role: "user", Content: prompt}},
		Temperature:    0.7,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	var generated GeneratedQuiz
	if err := json.Unmarshal([]byte(reply), &generated); err != nil {
		return nil, fmt.Errorf("quiz generation returned malformed JSON: %w", err)
	}
	if len(generated.Questions) == 0 {
		return nil, fmt.Errorf("quiz generation returned no questions")
	}
	for i, q := range generated.Questions {
		if q.Question == "" || q.Answer == "" {
			return nil, fmt.Errorf("quiz generation returned incomplete question %d", i)
		}
	}
	return &generated, nil
}

func (s *AIService) complete(ctx context.Context, client *http.Client, reqBody chatCompletionRequest) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
