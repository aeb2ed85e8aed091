package points

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/studybuddy/backend/internal/middleware"
	"github.com/studybuddy/backend/internal/models"
)

type memLedger struct {
	mu     sync.Mutex
	totals map[int64]int64
	events []Event
}

func newMemLedger() *memLedger { return &memLedger{totals: map[int64]int64{}} }

func (m *memLedger) Award(_ context.Context, userID int64, e Event) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals[userID] += int64(e.Amount)
	m.events = append(m.events, e)
	return m.totals[userID], nil
}

func (m *memLedger) Total(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals[userID], nil
}

type fakeBoard struct {
	entries []models.LeaderboardEntry
}

func (b *fakeBoard) Summary(_ context.Context, userID int64) (*models.PointsSummary, error) {
	return &models.PointsSummary{UserID: userID, TotalPoints: 99, Rank: 1}, nil
}

func (b *fakeBoard) RecentEvents(context.Context, int64, int) ([]models.PointEvent, error) {
	return []models.PointEvent{}, nil
}

func (b *fakeBoard) Leaderboard(_ context.Context, limit int) ([]models.LeaderboardEntry, error) {
	out := append([]models.LeaderboardEntry{}, b.entries...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestAwardQuizAccumulates(t *testing.T) {
	ledger := newMemLedger()
	svc := NewService(ledger, nil)
	ctx := context.Background()

	if _, err := svc.AwardQuiz(ctx, 1, 1, "SQL Fundamentals", "Easy", 10, 10, 50); err != nil {
		t.Fatal(err)
	}
	total, err := svc.AwardQuiz(ctx, 1, 3, "Advanced SQL", "Hard", 4, 12, 60)
	if err != nil {
		t.Fatal(err)
	}
	if total != 110 {
		t.Errorf("total = %d, want 110", total)
	}
	if other, _ := svc.Total(ctx, 2); other != 0 {
		t.Errorf("user 2 total = %d, want 0", other)
	}
	if ledger.events[1].Type != EventQuizCompleted || ledger.events[1].Metadata["topic"] != "Advanced SQL" {
		t.Errorf("event = %+v", ledger.events[1])
	}
}

func TestAwardConcurrentNoLostUpdates(t *testing.T) {
	svc := NewService(newMemLedger(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AwardQuiz(ctx, 9, 1, "SQL Fundamentals", "Easy", 1, 10, 5)
		}()
	}
	wg.Wait()
	if total, _ := svc.Total(ctx, 9); total != 250 {
		t.Errorf("total = %d, want 250", total)
	}
}

func TestSummaryWithoutBoard(t *testing.T) {
	ledger := newMemLedger()
	ledger.totals[4] = 42
	sum, err := NewService(ledger, nil).Summary(context.Background(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalPoints != 42 || sum.UserID != 4 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestLeaderboardEndpointMarksCaller(t *testing.T) {
	board := &fakeBoard{entries: []models.LeaderboardEntry{
		{Rank: 1, UserID: 5, DisplayName: "Ada L.", TotalPoints: 300},
		{Rank: 2, UserID: 7, DisplayName: "Alan T.", TotalPoints: 200},
	}}
	r := mux.NewRouter()
	NewHandler(NewService(newMemLedger(), board)).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/leaderboard?limit=5", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 7))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].IsCurrentUser || !entries[1].IsCurrentUser {
		t.Errorf("entries = %+v", entries)
	}
}

func TestIntQueryParamAndClamp(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?limit=abc&n=-3&ok=12", nil)
	q := req.URL.Query()
	if got := intQueryParam(q, "limit", 20); got != 20 {
		t.Errorf("bad int = %d", got)
	}
	if got := intQueryParam(q, "n", 20); got != 20 {
		t.Errorf("negative = %d", got)
	}
	if got := intQueryParam(q, "ok", 20); got != 12 {
		t.Errorf("ok = %d", got)
	}
	if clamp(500, 1, 100) != 100 || clamp(0, 1, 100) != 1 {
		t.Error("clamp bounds")
	}
}
