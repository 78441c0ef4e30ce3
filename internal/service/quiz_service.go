package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"quizgenie_backend/internal/model"
	"quizgenie_backend/internal/repository"
	"quizgenie_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const discoverCacheTTL = 30 * time.Second

type QuizService struct {
	QuizRepo    *repository.QuizRepository
	TagRepo     *repository.TagRepository
	AttemptRepo *repository.AttemptRepository
	AI          *AIService
	DB          *gorm.DB
	Redis       *redis.Client
}

func NewQuizService(quizRepo *repository.QuizRepository, tagRepo *repository.TagRepository, attemptRepo *repository.AttemptRepository, ai *AIService, db *gorm.DB, rdb *redis.Client) *QuizService {
	return &QuizService{
		QuizRepo:    quizRepo,
		TagRepo:     tagRepo,
		AttemptRepo: attemptRepo,
		AI:          ai,
		DB:          db,
		Redis:       rdb,
	}
}

type GenerateQuizRequest struct {
	Text         string `json:"text" binding:"required"`
	Type         string `json:"type"`
	NumQuestions int    `json:"num_questions"`
	IsPublic     *bool  `json:"is_public"`
}

type GeneratedQuizResponse struct {
	QuizID       string           `json:"quiz_id"`
	Content      []model.Question `json:"content"`
	Metadata     QuizMetadata     `json:"metadata"`
	ShareableURL string           `json:"shareable_url"`
}

type QuizMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"is_public"`
	CreatorID   uint     `json:"creator_id"`
}

// Generate creates a quiz from source text via the model, then persists quiz
// and tag links in one transaction.
func (s *QuizService) Generate(ctx context.Context, userID uint, req GenerateQuizRequest) (*GeneratedQuizResponse, error) {
	quizType := model.QuizType(req.Type)
	if quizType != model.QuizTypeShortAnswer {
		quizType = model.QuizTypeMCQ
	}
	numQuestions := req.NumQuestions
	if numQuestions <= 0 {
		numQuestions = 5
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	generated, err := s.AI.GenerateQuiz(ctx, req.Text, quizType, numQuestions)
	if err != nil {
		return nil, err
	}

	difficulty := overallDifficulty(generated)

	quiz := &model.Quiz{
		OriginalText: req.Text,
		QuizType:     quizType,
		IsPublic:     isPublic,
		Title:        generated.Title,
		Description:  generated.Description,
		Difficulty:   difficulty,
		UserID:       userID,
	}
	if err := quiz.SetQuestions(generated.Questions); err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		tags, err := s.TagRepo.GetOrCreate(tx, generated.Tags)
		if err != nil {
			return err
		}
		quiz.Tags = tags
		return tx.Create(quiz).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDiscoverCache(ctx)

	return &GeneratedQuizResponse{
		QuizID:  quiz.ID,
		Content: generated.Questions,
		Metadata: QuizMetadata{
			Title:       quiz.Title,
			Description: quiz.Description,
			Difficulty:  quiz.Difficulty,
			Tags:        quiz.TagNames(),
			IsPublic:    quiz.IsPublic,
			CreatorID:   userID,
		},
		ShareableURL: "/quiz/" + quiz.ID,
	}, nil
}

// overallDifficulty prefers the average of per-question difficulties when
// every question carries one, falling back to the model's overall estimate.
func overallDifficulty(generated *GeneratedQuiz) string {
	levels := map[string]int{"Easy": 1, "Medium": 2, "Hard": 3}

	sum := 0
	for _, q := range generated.Questions {
		level, ok := levels[q.Difficulty]
		if !ok {
			return generated.OverallDifficulty
		}
		sum += level
	}

	avg := float64(sum) / float64(len(generated.Questions))
	switch {
	case avg < 1.5:
		return "Easy"
	case avg < 2.5:
		return "Medium"
	default:
		return "Hard"
	}
}

type PlayableQuiz struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Content     []model.Question `json:"content"`
	Type        model.QuizType   `json:"type"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Playable returns the quiz as served to a player. Correct answers and
// explanations stay in the payload; hiding them is the client's concern, as
// it always has been.
func (s *QuizService) Playable(quizID string) (*PlayableQuiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	questions, err := quiz.Questions()
	if err != nil {
		return nil, err
	}
	return &PlayableQuiz{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Content:     questions,
		Type:        quiz.QuizType,
		CreatedAt:   quiz.CreatedAt,
	}, nil
}

type DiscoverEntry struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Difficulty    string    `json:"difficulty"`
	Plays         int       `json:"plays"`
	Rating        float64   `json:"rating"`
	CreatedAt     time.Time `json:"createdAt"`
	IsPublic      bool      `json:"isPublic"`
	Tags          []string  `json:"tags"`
	QuestionCount int       `json:"questionCount"`
}

// Discover lists public quizzes with search, difficulty, tag and sort
// options. The unfiltered default listing is the hot path on the landing
// page, so it is cached briefly in Redis.
func (s *QuizService) Discover(ctx context.Context, filter repository.QuizFilter) ([]DiscoverEntry, error) {
	cacheable := filter.Search == "" && filter.Difficulty == "" && len(filter.Tags) == 0

	if cacheable && s.Redis != nil {
		cached, err := s.Redis.Get(ctx, discoverCacheKey(filter.Sort)).Result()
		if err == nil {
			var entries []DiscoverEntry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				return entries, nil
			}
		}
	}

	quizzes, err := s.QuizRepo.ListPublic(filter)
	if err != nil {
		return nil, err
	}

	entries := make([]DiscoverEntry, 0, len(quizzes))
	for _, quiz := range quizzes {
		entries = append(entries, DiscoverEntry{
			ID:            quiz.ID,
			Title:         quiz.Title,
			Description:   quiz.Description,
			Difficulty:    quiz.Difficulty,
			Plays:         quiz.Plays,
			Rating:        quiz.Rating,
			CreatedAt:     quiz.CreatedAt,
			IsPublic:      quiz.IsPublic,
			Tags:          quiz.TagNames(),
			QuestionCount: quiz.QuestionCount(),
		})
	}

	if cacheable && s.Redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			s.Redis.Set(ctx, discoverCacheKey(filter.Sort), data, discoverCacheTTL)
		}
	}

	return entries, nil
}

func discoverCacheKey(sort string) string {
	if sort == "" {
		sort = "trending"
	}
	return "quizgenie:discover:" + sort
}

func (s *QuizService) invalidateDiscoverCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	for _, sort := range []string{"trending", "newest", "top-rated"} {
		if err := s.Redis.Del(ctx, discoverCacheKey(sort)).Err(); err != nil {
			logger.Log.Warn("discover cache invalidation failed", zap.Error(err))
		}
	}
}

// Tags lists every known tag for the discover filter UI.
func (s *QuizService) Tags() ([]model.Tag, error) {
	return s.TagRepo.List()
}

type QuizDetails struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Difficulty     string            `json:"difficulty"`
	Creator        string            `json:"creator"`
	CreatedAt      time.Time         `json:"created_at"`
	IsPublic       bool              `json:"is_public"`
	QuizType       model.QuizType    `json:"quiz_type"`
	Questions      []model.Question  `json:"questions"`
	QuestionCount  int               `json:"question_count"`
	Tags           []string          `json:"tags"`
	Statistics     QuizStatistics    `json:"statistics"`
	RecentAttempts []AttemptOverview `json:"recent_attempts"`
}

type QuizStatistics struct {
	TotalAttempts int64   `json:"total_attempts"`
	TotalPlays    int     `json:"total_plays"`
	AverageScore  float64 `json:"average_score"`
	Rating        float64 `json:"rating"`
}

type AttemptOverview struct {
	Username    string    `json:"username"`
	Score       float64   `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
	TimeSpent   string    `json:"time_spent"`
}

func (s *QuizService) Details(quizID string) (*QuizDetails, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	questions, err := quiz.Questions()
	if err != nil {
		return nil, err
	}

	attempts, err := s.AttemptRepo.ListByQuiz(quizID, 10)
	if err != nil {
		return nil, err
	}
	avgScore, err := s.AttemptRepo.AverageScoreByQuiz(quizID)
	if err != nil {
		return nil, err
	}
	var totalAttempts int64
	if err := s.DB.Model(&model.QuizAttempt{}).Where("quiz_id = ?", quizID).Count(&totalAttempts).Error; err != nil {
		return nil, err
	}

	creator := "System"
	if quiz.User != nil {
		creator = quiz.User.Username
	}

	recent := make([]AttemptOverview, 0, len(attempts))
	for _, a := range attempts {
		recent = append(recent, attemptOverview(a))
	}

	return &QuizDetails{
		ID:            quiz.ID,
		Title:         quiz.Title,
		Description:   quiz.Description,
		Difficulty:    quiz.Difficulty,
		Creator:       creator,
		CreatedAt:     quiz.CreatedAt,
		IsPublic:      quiz.IsPublic,
		QuizType:      quiz.QuizType,
		Questions:     questions,
		QuestionCount: len(questions),
		Tags:          quiz.TagNames(),
		Statistics: QuizStatistics{
			TotalAttempts: totalAttempts,
			TotalPlays:    quiz.Plays,
			AverageScore:  round1(avgScore),
			Rating:        quiz.Rating,
		},
		RecentAttempts: recent,
	}, nil
}

func attemptOverview(a model.QuizAttempt) AttemptOverview {
	username := "Anonymous"
	if a.User != nil {
		username = a.User.Username
	}
	return AttemptOverview{
		Username:    username,
		Score:       a.Score,
		CompletedAt: a.CompletedAt,
		TimeSpent:   a.TimeSpent,
	}
}

type UpdateQuizRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Difficulty  *string          `json:"difficulty"`
	IsPublic    *bool            `json:"is_public"`
	Content     []model.Question `json:"quiz_content"`
	Tags        []string         `json:"tags"`
}

// Update edits an owned quiz. Content replacement is validated the same way
// generated content is; a quiz can never be saved with a question that has no
// answer key.
func (s *QuizService) Update(ctx context.Context, userID uint, quizID string, req UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindOwned(quizID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.Difficulty != nil {
		quiz.Difficulty = *req.Difficulty
	}
	if req.IsPublic != nil {
		quiz.IsPublic = *req.IsPublic
	}
	if req.Content != nil {
		if err := quiz.SetQuestions(req.Content); err != nil {
			return nil, err
		}
		if _, err := quiz.Questions(); err != nil {
			return nil, err
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(quiz).Error; err != nil {
			return err
		}
		if req.Tags != nil {
			tags, err := s.TagRepo.GetOrCreate(tx, req.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(quiz).Association("Tags").Replace(tags); err != nil {
				return err
			}
			quiz.Tags = tags
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDiscoverCache(ctx)
	return quiz, nil
}

type CreatedQuiz struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Difficulty     string            `json:"difficulty"`
	Plays          int               `json:"plays"`
	Rating         float64           `json:"rating"`
	AverageScore   float64           `json:"average_score"`
	QuestionCount  int               `json:"question_count"`
	CreatedAt      time.Time         `json:"created_at"`
	IsPublic       bool              `json:"is_public"`
	Tags           []string          `json:"tags"`
	RecentAttempts []AttemptOverview `json:"recent_attempts"`
}

func (s *QuizService) ListCreated(userID uint) ([]CreatedQuiz, error) {
	quizzes, err := s.QuizRepo.ListByCreator(userID)
	if err != nil {
		return nil, err
	}

	created := make([]CreatedQuiz, 0, len(quizzes))
	for _, quiz := range quizzes {
		avgScore, err := s.AttemptRepo.AverageScoreByQuiz(quiz.ID)
		if err != nil {
			return nil, err
		}
		attempts, err := s.AttemptRepo.ListByQuiz(quiz.ID, 3)
		if err != nil {
			return nil, err
		}
		recent := make([]AttemptOverview, 0, len(attempts))
		for _, a := range attempts {
			recent = append(recent, attemptOverview(a))
		}

		created = append(created, CreatedQuiz{
			ID:             quiz.ID,
			Title:          quiz.Title,
			Description:    quiz.Description,
			Difficulty:     quiz.Difficulty,
			Plays:          quiz.Plays,
			Rating:         quiz.Rating,
			AverageScore:   round1(avgScore),
			QuestionCount:  quiz.QuestionCount(),
			CreatedAt:      quiz.CreatedAt,
			IsPublic:       quiz.IsPublic,
			Tags:           quiz.TagNames(),
			RecentAttempts: recent,
		})
	}
	return created, nil
}

type TakenQuiz struct {
	QuizID         string    `json:"quiz_id"`
	Title          string    `json:"title"`
	Creator        string    `json:"creator"`
	Difficulty     string    `json:"difficulty"`
	Score          float64   `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completedAt"`
	TimeSpent      string    `json:"timeSpent"`
	Rating         float64   `json:"rating"`
}

func (s *QuizService) ListTaken(userID uint) ([]TakenQuiz, error) {
	attempts, err := s.AttemptRepo.ListRecentByUser(userID, 0)
	if err != nil {
		return nil, err
	}

	taken := make([]TakenQuiz, 0, len(attempts))
	for _, a := range attempts {
		entry := TakenQuiz{
			QuizID:         a.QuizID,
			Title:          "Deleted Quiz",
			Creator:        "System",
			Score:          a.Score,
			CorrectAnswers: a.CorrectAnswers,
			TotalQuestions: a.TotalQuestions,
			CompletedAt:    a.CompletedAt,
			TimeSpent:      a.TimeSpent,
		}
		if a.Quiz != nil {
			entry.Title = a.Quiz.Title
			entry.Difficulty = a.Quiz.Difficulty
			entry.Rating = a.Quiz.Rating
		}
		taken = append(taken, entry)
	}
	return taken, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
