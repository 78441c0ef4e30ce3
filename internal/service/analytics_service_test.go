package service

import (
	"testing"

	"quizgenie_backend/internal/model"
)

func TestScoreDistribution(t *testing.T) {
	attempts := []model.QuizAttempt{
		{Score: 0}, {Score: 20}, {Score: 20.5},
		{Score: 40}, {Score: 55},
		{Score: 80}, {Score: 81}, {Score: 100},
	}

	buckets := scoreDistribution(attempts)

	wantCounts := []int{2, 2, 1, 1, 2}
	for i, want := range wantCounts {
		if buckets[i].Count != want {
			t.Errorf("bucket %s: count = %d, want %d", buckets[i].Range, buckets[i].Count, want)
		}
	}
}

func TestTimeAnalysisSkipsUnparseable(t *testing.T) {
	attempts := []model.QuizAttempt{
		{TimeSpent: "01:00"},
		{TimeSpent: "03:00"},
		{TimeSpent: "garbage"},
		{TimeSpent: "00:00"}, // unmeasured, left out
	}

	ta := timeAnalysis(attempts)
	if ta == nil {
		t.Fatal("timeAnalysis returned nil with measurable attempts present")
	}
	if ta.AverageSeconds != 120 {
		t.Errorf("AverageSeconds = %d, want 120", ta.AverageSeconds)
	}
	if ta.FastestSeconds != 60 {
		t.Errorf("FastestSeconds = %d, want 60", ta.FastestSeconds)
	}
	if ta.SlowestSeconds != 180 {
		t.Errorf("SlowestSeconds = %d, want 180", ta.SlowestSeconds)
	}
	if ta.Average != "02:00" {
		t.Errorf("Average = %q, want 02:00", ta.Average)
	}
}

func TestTimeAnalysisNilWhenNothingMeasurable(t *testing.T) {
	if ta := timeAnalysis([]model.QuizAttempt{{TimeSpent: "junk"}}); ta != nil {
		t.Errorf("timeAnalysis = %+v, want nil", ta)
	}
	if ta := timeAnalysis(nil); ta != nil {
		t.Errorf("timeAnalysis = %+v, want nil", ta)
	}
}

func TestLeaderboardBestScorePerUser(t *testing.T) {
	alice := &model.User{Username: "alice"}
	bob := &model.User{Username: "bob"}
	carol := &model.User{Username: "carol"}

	attempts := []model.QuizAttempt{
		{UserID: 1, User: alice, Score: 60},
		{UserID: 1, User: alice, Score: 90},
		{UserID: 2, User: bob, Score: 90},
		{UserID: 3, User: carol, Score: 40},
		{UserID: 3, User: carol, Score: 20},
	}

	entries := leaderboard(attempts, 5)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	// Ties break alphabetically.
	if entries[0].Username != "alice" || entries[0].BestScore != 90 || entries[0].Attempts != 2 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Username != "bob" || entries[1].BestScore != 90 {
		t.Errorf("entries[1] = %+v", entries[1])
	}
	if entries[2].Username != "carol" || entries[2].BestScore != 40 || entries[2].Attempts != 2 {
		t.Errorf("entries[2] = %+v", entries[2])
	}
}

func TestLeaderboardTruncates(t *testing.T) {
	var attempts []model.QuizAttempt
	for i := uint(1); i <= 8; i++ {
		attempts = append(attempts, model.QuizAttempt{
			UserID: i,
			User:   &model.User{Username: string(rune('a' + i))},
			Score:  float64(i * 10),
		})
	}

	entries := leaderboard(attempts, 5)
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}
	if entries[0].BestScore != 80 {
		t.Errorf("top entry BestScore = %v, want 80", entries[0].BestScore)
	}
}
