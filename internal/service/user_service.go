package service

import (
	"time"

	"quizgenie_backend/internal/repository"
)

// UserService assembles the dashboard payload.
type UserService struct {
	UserRepo    *repository.UserRepository
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.AttemptRepository
	Quizzes     *QuizService
}

func NewUserService(userRepo *repository.UserRepository, quizRepo *repository.QuizRepository, attemptRepo *repository.AttemptRepository, quizzes *QuizService) *UserService {
	return &UserService{
		UserRepo:    userRepo,
		QuizRepo:    quizRepo,
		AttemptRepo: attemptRepo,
		Quizzes:     quizzes,
	}
}

type UserProfile struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	TotalScore float64   `json:"total_score"`
	Badge      string    `json:"badge"`
	JoinedAt   time.Time `json:"joined_at"`
	LastLogin  time.Time `json:"last_login"`
}

type UserStats struct {
	QuizzesCreated int64   `json:"quizzes_created"`
	QuizzesTaken   int64   `json:"quizzes_taken"`
	AverageScore   float64 `json:"average_score"`
	Rank           int64   `json:"rank"`
	TotalUsers     int64   `json:"total_users"`
}

type UserData struct {
	User           UserProfile   `json:"user"`
	Stats          UserStats     `json:"stats"`
	CreatedQuizzes []CreatedQuiz `json:"created_quizzes"`
	TakenQuizzes   []TakenQuiz   `json:"taken_quizzes"`
}

// Data builds the full dashboard view for one user: profile, aggregate
// stats with leaderboard rank, and both quiz listings.
func (s *UserService) Data(userID uint) (*UserData, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	created, err := s.Quizzes.ListCreated(userID)
	if err != nil {
		return nil, err
	}
	taken, err := s.Quizzes.ListTaken(userID)
	if err != nil {
		return nil, err
	}

	attemptCount, err := s.AttemptRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	avgScore, err := s.AttemptRepo.AverageScoreByUser(userID)
	if err != nil {
		return nil, err
	}
	rank, err := s.UserRepo.Rank(user.TotalScore)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.UserRepo.Count()
	if err != nil {
		return nil, err
	}

	return &UserData{
		User: UserProfile{
			ID:         user.ID,
			Username:   user.Username,
			Email:      user.Email,
			TotalScore: user.TotalScore,
			Badge:      user.Badge,
			JoinedAt:   user.CreatedAt,
			LastLogin:  user.LastLogin,
		},
		Stats: UserStats{
			QuizzesCreated: int64(len(created)),
			QuizzesTaken:   attemptCount,
			AverageScore:   round1(avgScore),
			Rank:           rank,
			TotalUsers:     totalUsers,
		},
		CreatedQuizzes: created,
		TakenQuizzes:   taken,
	}, nil
}
