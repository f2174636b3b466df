package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cuplog/internal/modules/tasting/domain"
	"cuplog/internal/modules/tasting/service"
	"cuplog/internal/platform/clock"
)

type fakeRepo struct {
	created   []domain.Record
	createErr error
	listErr   error
	scores    []domain.ScoreEntry
	scoresFor string
}

func (f *fakeRepo) Create(_ context.Context, record domain.Record) (domain.Record, error) {
	if f.createErr != nil {
		return domain.Record{}, f.createErr
	}
	record.ID = "rec-1"
	record.CreatedAt = startedAt.Add(2 * time.Minute)
	record.UpdatedAt = record.CreatedAt
	f.created = append(f.created, record)
	return record, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID string) ([]domain.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []domain.Record{}
	for i := len(f.created) - 1; i >= 0; i-- {
		if f.created[i].UserID == userID {
			out = append(out, f.created[i])
		}
	}
	return out, nil
}

func (f *fakeRepo) ListScoresByCoffee(_ context.Context, coffeeName string) ([]domain.ScoreEntry, error) {
	f.scoresFor = coffeeName
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.scores, nil
}

func (f *fakeRepo) ListAll(context.Context) ([]domain.Record, error) { return f.created, nil }

func newCafeAggregate(now time.Time) *service.Aggregate {
	agg := service.NewAggregate(clock.Fixed(now))
	agg.StartNewSession(domain.ModeCafe)
	agg.UpdateCoffeeInfo(domain.CoffeeInfo{CoffeeName: "Test Americano", CafeName: "Test Cafe", Location: "Seoul", BrewingMethod: "Espresso"})
	agg.UpdateSelectedFlavors([]domain.Flavor{{ID: "chocolate", Text: "초콜릿"}})
	return agg
}

func TestSaveCurrentSessionCommitsAndClears(t *testing.T) {
	t.Parallel()
	agg := newCafeAggregate(startedAt)
	repo := &fakeRepo{}
	gw := service.NewGateway(clock.Fixed(startedAt.Add(90*time.Second)), agg, repo, nil)

	record, err := gw.SaveCurrentSession(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected exactly one create, got %d", len(repo.created))
	}
	if record.ID != "rec-1" || record.Mode != domain.ModeCafe || !record.SensorySkipped {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.MatchScore.Total < 70 || record.MatchScore.Total > 100 {
		t.Fatalf("score out of range: %d", record.MatchScore.Total)
	}
	if record.Duration == nil || *record.Duration != 90 {
		t.Fatalf("unexpected duration: %v", record.Duration)
	}
	if !agg.Current().IsEmpty() {
		t.Fatalf("session must be cleared after save")
	}
	if gw.LastError() != nil {
		t.Fatalf("unexpected error slot: %v", gw.LastError())
	}
}

func TestSaveIncompleteSessionSkipsBackend(t *testing.T) {
	t.Parallel()
	agg := service.NewAggregate(clock.Fixed(startedAt))
	agg.StartNewSession(domain.ModeCafe)
	repo := &fakeRepo{}
	gw := service.NewGateway(clock.Fixed(startedAt), agg, repo, nil)

	_, err := gw.SaveCurrentSession(context.Background(), "user-1")
	if !errors.Is(err, domain.ErrIncompleteSession) || err.Error() != "Incomplete session data" {
		t.Fatalf("expected incomplete session error, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("backend must not be called")
	}
	if agg.Current().Mode != domain.ModeCafe {
		t.Fatalf("session must be retained")
	}
}

func TestSaveBackendFailureRetainsSession(t *testing.T) {
	t.Parallel()
	agg := newCafeAggregate(startedAt)
	repo := &fakeRepo{createErr: errors.New("disk full")}
	gw := service.NewGateway(clock.Fixed(startedAt), agg, repo, nil)

	_, err := gw.SaveCurrentSession(context.Background(), "user-1")
	if !errors.Is(err, domain.ErrBackendWrite) {
		t.Fatalf("expected backend write error, got %v", err)
	}
	if !errors.Is(gw.LastError(), domain.ErrBackendWrite) {
		t.Fatalf("error slot not set: %v", gw.LastError())
	}
	s := agg.Current()
	if s.CoffeeInfo == nil || s.CoffeeInfo.CoffeeName != "Test Americano" {
		t.Fatalf("session must be retained on failure: %+v", s)
	}
	if s.MatchScore != nil {
		t.Fatalf("retained session must not carry a score: %+v", *s.MatchScore)
	}

	repo.createErr = nil
	if _, err := gw.SaveCurrentSession(context.Background(), "user-1"); err != nil {
		t.Fatalf("retry save: %v", err)
	}
	if gw.LastError() != nil {
		t.Fatalf("error slot must reset after success")
	}
}

func TestSaveCorruptedModeWipesSession(t *testing.T) {
	t.Parallel()
	agg := service.NewAggregate(clock.Fixed(startedAt))
	agg.Restore(domain.Session{
		Mode:            "espresso-bar",
		CoffeeInfo:      &domain.CoffeeInfo{CoffeeName: "Hand Edited"},
		SelectedFlavors: []domain.Flavor{{ID: "plum", Text: "Plum"}},
	})
	repo := &fakeRepo{}
	gw := service.NewGateway(clock.Fixed(startedAt), agg, repo, nil)

	_, err := gw.SaveCurrentSession(context.Background(), "user-1")
	if !errors.Is(err, domain.ErrCorruptedMode) {
		t.Fatalf("expected corrupted mode, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("backend must not be called")
	}
	if !agg.Current().IsEmpty() {
		t.Fatalf("corrupted session must be wiped: %+v", agg.Current())
	}
	if !errors.Is(gw.LastError(), domain.ErrCorruptedMode) {
		t.Fatalf("error slot not set: %v", gw.LastError())
	}
}

func TestFetchUserRecordsWrapsReadErrors(t *testing.T) {
	t.Parallel()
	repo := &fakeRepo{listErr: errors.New("locked")}
	gw := service.NewGateway(clock.Fixed(startedAt), service.NewAggregate(clock.Fixed(startedAt)), repo, nil)
	if _, err := gw.FetchUserRecords(context.Background(), "u"); !errors.Is(err, domain.ErrBackendRead) {
		t.Fatalf("expected backend read error, got %v", err)
	}
}

func TestGetCoffeeStatistics(t *testing.T) {
	t.Parallel()
	repo := &fakeRepo{scores: []domain.ScoreEntry{
		{MatchScore: domain.MatchScore{Total: 88}},
		{MatchScore: domain.MatchScore{Total: 90}},
		{MatchScore: domain.MatchScore{Total: 85}},
	}}
	gw := service.NewGateway(clock.Fixed(startedAt), service.NewAggregate(clock.Fixed(startedAt)), repo, nil)

	stats := gw.GetCoffeeStatistics(context.Background(), " Kenya AA ")
	if stats == nil {
		t.Fatalf("expected statistics")
	}
	if repo.scoresFor != "Kenya AA" {
		t.Fatalf("coffee name not trimmed: %q", repo.scoresFor)
	}
	want := domain.CoffeeStatistics{TotalRecords: 3, AverageScore: 88, BestScore: 90, LatestScore: 88}
	if *stats != want {
		t.Fatalf("unexpected stats: %+v", *stats)
	}

	repo.scores = nil
	if gw.GetCoffeeStatistics(context.Background(), "Kenya AA") != nil {
		t.Fatalf("expected nil for no records")
	}
	repo.listErr = errors.New("offline")
	if gw.GetCoffeeStatistics(context.Background(), "Kenya AA") != nil {
		t.Fatalf("expected nil on backend failure")
	}
}
