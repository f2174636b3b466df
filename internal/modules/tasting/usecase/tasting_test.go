package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tastingadapter "cuplog/internal/modules/tasting/adapter/out"
	"cuplog/internal/modules/tasting/domain"
	"cuplog/internal/modules/tasting/dto"
	tastingin "cuplog/internal/modules/tasting/port/in"
	"cuplog/internal/modules/tasting/service"
	"cuplog/internal/modules/tasting/usecase"
	apperrors "cuplog/internal/platform/errors"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type fakeID struct{ n int }

func (f *fakeID) New() string {
	f.n++
	return "rec-" + string(rune('0'+f.n))
}

type fakeNotes struct {
	text string
	path string
}

func (f *fakeNotes) Extract(_ context.Context, path string) (domain.RoasterNotes, error) {
	f.path = path
	return domain.RoasterNotes{Text: f.text, Source: "text"}, nil
}

type harness struct {
	home  string
	notes *fakeNotes
	uc    tastingin.Usecase
}

func newHarness(t *testing.T, home string) harness {
	t.Helper()
	clk := &fakeClock{values: []time.Time{
		time.Date(2026, 10, 5, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 5, 10, 4, 30, 0, time.UTC),
		time.Date(2026, 10, 5, 10, 5, 0, 0, time.UTC),
	}}
	db, err := tastingadapter.OpenSQLite(filepath.Join(home, ".cuplog", "cuplog.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo, err := tastingadapter.NewSQLiteRecordRepository(db, clk, &fakeID{})
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	index, err := tastingadapter.NewSQLiteFlavorIndex(db)
	if err != nil {
		t.Fatalf("new flavor index: %v", err)
	}
	aggregate := service.NewAggregate(clk)
	notes := &fakeNotes{}
	uc := usecase.NewInteractor(usecase.Dependencies{
		Aggregate: aggregate,
		Gateway:   service.NewGateway(clk, aggregate, repo, nil),
		Drafts:    tastingadapter.NewFileDraftStore(home),
		Records:   repo,
		Index:     index,
		Journal:   tastingadapter.NewMarkdownJournalWriter(home),
		Notes:     notes,
	})
	return harness{home: home, notes: notes, uc: uc}
}

func TestCafeSessionEndToEnd(t *testing.T) {
	t.Parallel()
	h := newHarness(t, t.TempDir())
	ctx := context.Background()

	if _, err := h.uc.Start(ctx, dto.StartInput{Mode: "cafe"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	next, err := h.uc.Advance(ctx, dto.NavigateInput{From: "mode-selection", Required: []string{domain.FieldMode}})
	if err != nil {
		t.Fatalf("advance from mode selection: %v", err)
	}
	if next.Step != "coffee-info" || next.Kind != "resolved" {
		t.Fatalf("unexpected transition: %+v", next)
	}
	if _, err := h.uc.SetCoffeeInfo(ctx, dto.CoffeeInfo{CoffeeName: "Test Americano", CafeName: "Test Cafe", Location: "Seoul", BrewingMethod: "Espresso"}); err != nil {
		t.Fatalf("set coffee info: %v", err)
	}
	next, err = h.uc.Advance(ctx, dto.NavigateInput{From: "coffee-info", Required: []string{domain.FieldCoffeeInfo}})
	if err != nil {
		t.Fatalf("advance from coffee info: %v", err)
	}
	if next.Step != "flavor-selection" {
		t.Fatalf("cafe must skip brew setup, got %s", next.Step)
	}
	if _, err := h.uc.SetFlavors(ctx, []dto.Flavor{{ID: "chocolate", Text: "초콜릿"}}); err != nil {
		t.Fatalf("set flavors: %v", err)
	}

	saved, err := h.uc.Save(ctx, dto.SaveInput{UserID: "user-1"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	record := saved.Record
	if record.Mode != "cafe" || record.UserID != "user-1" || record.ID == "" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.MatchScore.Total < 70 || record.MatchScore.Total > 100 {
		t.Fatalf("score out of range: %d", record.MatchScore.Total)
	}
	if !record.SensorySkipped || len(record.SelectedFlavors) != 1 || record.SelectedFlavors[0].Text != "초콜릿" {
		t.Fatalf("unexpected record content: %+v", record)
	}
	if record.Duration == nil || *record.Duration != 270 {
		t.Fatalf("unexpected duration: %v", record.Duration)
	}
	if _, err := os.Stat(saved.JournalPath); err != nil {
		t.Fatalf("journal note missing: %v", err)
	}
	if _, err := h.uc.GetActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("session must be cleared after save, got %v", err)
	}

	records, err := h.uc.ListRecords(ctx, "user-1")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 || records[0].ID != record.ID {
		t.Fatalf("unexpected records: %+v", records)
	}
	stats, err := h.uc.Statistics(ctx, "Test Americano")
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats == nil || stats.TotalRecords != 1 || stats.LatestScore != record.MatchScore.Total {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	top, err := h.uc.TopFlavors(ctx, 5)
	if err != nil {
		t.Fatalf("top flavors: %v", err)
	}
	if len(top) != 1 || top[0].FlavorID != "chocolate" || top[0].Count != 1 {
		t.Fatalf("unexpected top flavors: %+v", top)
	}
}

func TestDraftSurvivesNewInteractor(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	ctx := context.Background()
	first := newHarness(t, home)
	if _, err := first.uc.Start(ctx, dto.StartInput{Mode: "homecafe"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	coffee := 15.0
	water := 250.0
	if _, err := first.uc.SetBrewSettings(ctx, dto.BrewSettings{Dripper: "Kalita", Recipe: dto.Recipe{CoffeeAmount: &coffee, WaterAmount: &water}}); err != nil {
		t.Fatalf("set brew: %v", err)
	}

	second := newHarness(t, home)
	active, err := second.uc.GetActive(ctx)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.Mode != "homecafe" || active.BrewSettings == nil || active.BrewSettings.Dripper != "Kalita" {
		t.Fatalf("draft not restored: %+v", active)
	}
	if active.BrewSettings.Recipe.Ratio == nil || *active.BrewSettings.Recipe.Ratio != 16.7 {
		t.Fatalf("ratio not derived: %v", active.BrewSettings.Recipe.Ratio)
	}
	if len(active.Path) != 8 || active.Path[2] != "brew-setup" {
		t.Fatalf("unexpected path: %v", active.Path)
	}
}

func TestAdvanceRequiresStepData(t *testing.T) {
	t.Parallel()
	h := newHarness(t, t.TempDir())
	ctx := context.Background()
	if _, err := h.uc.Start(ctx, dto.StartInput{Mode: "pro"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err := h.uc.Advance(ctx, dto.NavigateInput{From: "flavor-selection", Required: []string{domain.FieldSelectedFlavors}})
	if !errors.Is(err, domain.ErrStepIncomplete) {
		t.Fatalf("expected step incomplete, got %v", err)
	}
	if _, err := h.uc.SetFlavors(ctx, []dto.Flavor{{ID: "plum", Text: "Plum"}}); err != nil {
		t.Fatalf("set flavors: %v", err)
	}
	_, err = h.uc.Advance(ctx, dto.NavigateInput{From: "flavor-selection", Required: []string{domain.FieldSelectedFlavors}})
	if !errors.Is(err, domain.ErrStepIncomplete) || !strings.Contains(err.Error(), "coffeeInfo") {
		t.Fatalf("steps past coffee setup must require coffee info, got %v", err)
	}
	if _, err := h.uc.SetCoffeeInfo(ctx, dto.CoffeeInfo{CoffeeName: "Gesha"}); err != nil {
		t.Fatalf("set coffee info: %v", err)
	}
	next, err := h.uc.Advance(ctx, dto.NavigateInput{From: "flavor-selection", Required: []string{domain.FieldSelectedFlavors}})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if next.Step != "sensory-mouthfeel" {
		t.Fatalf("pro flavor selection must lead to mouthfeel, got %s", next.Step)
	}
	if _, err := h.uc.Advance(ctx, dto.NavigateInput{From: "sensory-expression"}); !errors.Is(err, domain.ErrUnknownStep) {
		t.Fatalf("expected unknown step for pro, got %v", err)
	}

	back, err := h.uc.Back(ctx, dto.NavigateInput{From: "mode-selection"})
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if back.Step != "mode-selection" || back.Kind != "terminal" {
		t.Fatalf("unexpected back transition: %+v", back)
	}
	last, err := h.uc.Advance(ctx, dto.NavigateInput{From: "result"})
	if err != nil {
		t.Fatalf("advance from result: %v", err)
	}
	if last.Step != "mode-selection" || last.Kind != "terminal" {
		t.Fatalf("unexpected terminal transition: %+v", last)
	}
}

func TestAdvanceCannotSkipCoffeeSetup(t *testing.T) {
	t.Parallel()
	h := newHarness(t, t.TempDir())
	ctx := context.Background()
	if _, err := h.uc.Start(ctx, dto.StartInput{Mode: "cafe"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.uc.SetFlavors(ctx, []dto.Flavor{{ID: "chocolate", Text: "Chocolate"}}); err != nil {
		t.Fatalf("set flavors: %v", err)
	}
	for _, from := range []string{"flavor-selection", "sensory-expression", "result"} {
		_, err := h.uc.Advance(ctx, dto.NavigateInput{From: from})
		if !errors.Is(err, domain.ErrStepIncomplete) || !strings.Contains(err.Error(), "coffeeInfo") {
			t.Fatalf("advance from %s without coffee info: got %v", from, err)
		}
	}
	if _, err := h.uc.Back(ctx, dto.NavigateInput{From: "flavor-selection"}); err != nil {
		t.Fatalf("back must stay open without coffee info: %v", err)
	}
}

func TestCorruptedDraftIsClearedOnNavigation(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	draft := filepath.Join(home, ".cuplog", "active-session.json")
	if err := os.MkdirAll(filepath.Dir(draft), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(draft, []byte(`{"mode":"siphon-bar","coffee_info":{"coffee_name":"x"}}`), 0o644); err != nil {
		t.Fatalf("write draft: %v", err)
	}
	h := newHarness(t, home)
	ctx := context.Background()

	if _, err := h.uc.Advance(ctx, dto.NavigateInput{From: "coffee-info"}); !errors.Is(err, domain.ErrCorruptedMode) {
		t.Fatalf("expected corrupted mode, got %v", err)
	}
	if _, err := os.Stat(draft); !os.IsNotExist(err) {
		t.Fatalf("corrupted draft must be removed, stat err=%v", err)
	}
	if _, err := h.uc.GetActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
}

func TestSaveCorruptedDraftClearsIt(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	draft := filepath.Join(home, ".cuplog", "active-session.json")
	if err := os.MkdirAll(filepath.Dir(draft), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(draft, []byte(`{"mode":"espresso-bar","coffee_info":{"coffee_name":"x"}}`), 0o644); err != nil {
		t.Fatalf("write draft: %v", err)
	}
	h := newHarness(t, home)
	ctx := context.Background()

	if _, err := h.uc.Save(ctx, dto.SaveInput{UserID: "u1"}); !errors.Is(err, domain.ErrCorruptedMode) {
		t.Fatalf("expected corrupted mode, got %v", err)
	}
	if _, err := os.Stat(draft); !os.IsNotExist(err) {
		t.Fatalf("corrupted draft must be removed, stat err=%v", err)
	}
	records, err := h.uc.ListRecords(ctx, "u1")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("nothing must be stored, got %d", len(records))
	}
}

func TestSaveIncompleteKeepsDraft(t *testing.T) {
	t.Parallel()
	h := newHarness(t, t.TempDir())
	ctx := context.Background()
	if _, err := h.uc.Start(ctx, dto.StartInput{Mode: "cafe"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err := h.uc.Save(ctx, dto.SaveInput{UserID: "user-1"})
	if !errors.Is(err, domain.ErrIncompleteSession) {
		t.Fatalf("expected incomplete session, got %v", err)
	}
	if _, err := h.uc.GetActive(ctx); err != nil {
		t.Fatalf("session must survive failed save: %v", err)
	}
	records, err := h.uc.ListRecords(ctx, "user-1")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("no record must be written, got %d", len(records))
	}
}

func TestRoasterNotesFromFileAndScoreBonus(t *testing.T) {
	t.Parallel()
	h := newHarness(t, t.TempDir())
	h.notes.text = "Plum, dark chocolate, juicy"
	ctx := context.Background()
	if _, err := h.uc.Start(ctx, dto.StartInput{Mode: "cafe"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.uc.SetCoffeeInfo(ctx, dto.CoffeeInfo{CoffeeName: "Guji"}); err != nil {
		t.Fatalf("set coffee: %v", err)
	}
	if _, err := h.uc.SetFlavors(ctx, []dto.Flavor{{ID: "plum", Text: "Plum"}, {ID: "chocolate", Text: "Chocolate"}}); err != nil {
		t.Fatalf("set flavors: %v", err)
	}
	if _, err := h.uc.SetSensoryExpressions(ctx, []dto.SensoryExpression{{ID: "juicy", Category: "acidity", Text: "Juicy"}}); err != nil {
		t.Fatalf("set sensory: %v", err)
	}
	session, err := h.uc.SetRoasterNotes(ctx, dto.RoasterNotesInput{FromFile: "/tmp/sheet.pdf"})
	if err != nil {
		t.Fatalf("set roaster notes: %v", err)
	}
	if h.notes.path != "/tmp/sheet.pdf" || session.RoasterNotesLevel != domain.RoasterNotesPresent {
		t.Fatalf("notes not extracted: path=%s level=%d", h.notes.path, session.RoasterNotesLevel)
	}
	saved, err := h.uc.Save(ctx, dto.SaveInput{UserID: "user-1"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	want := dto.MatchScore{FlavorMatch: 100, SensoryMatch: 100, Total: 100, RoasterBonus: 10}
	if saved.Record.MatchScore != want {
		t.Fatalf("unexpected score: %+v", saved.Record.MatchScore)
	}
	if saved.Record.SensorySkipped {
		t.Fatalf("sensory was provided")
	}
}

func TestInputValidation(t *testing.T) {
	t.Parallel()
	h := newHarness(t, t.TempDir())
	ctx := context.Background()
	if _, err := h.uc.Start(ctx, dto.StartInput{Mode: "espresso"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid mode, got %v", err)
	}
	if _, err := h.uc.SetComment(ctx, dto.CommentInput{Comment: "x"}); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
	if _, err := h.uc.Start(ctx, dto.StartInput{Mode: "pro"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.uc.SetSensorySliders(ctx, dto.SlidersInput{Ratings: map[string]float64{"body": 7}}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected rating range error, got %v", err)
	}
	if _, err := h.uc.SetRoasterNotes(ctx, dto.RoasterNotesInput{Text: "x", Level: 3}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected level error, got %v", err)
	}
	if _, err := h.uc.Save(ctx, dto.SaveInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected missing user error, got %v", err)
	}
	if _, err := h.uc.Statistics(ctx, " "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected missing coffee error, got %v", err)
	}
	stats, err := h.uc.Statistics(ctx, "never tasted")
	if err != nil || stats != nil {
		t.Fatalf("expected nil stats, got %+v err=%v", stats, err)
	}
}

func TestDiscardAndReindex(t *testing.T) {
	t.Parallel()
	h := newHarness(t, t.TempDir())
	ctx := context.Background()
	for _, name := range []string{"A", "B"} {
		if _, err := h.uc.Start(ctx, dto.StartInput{Mode: "cafe"}); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := h.uc.SetCoffeeInfo(ctx, dto.CoffeeInfo{CoffeeName: name}); err != nil {
			t.Fatalf("set coffee: %v", err)
		}
		if _, err := h.uc.SetFlavors(ctx, []dto.Flavor{{ID: "plum", Text: "Plum"}}); err != nil {
			t.Fatalf("set flavors: %v", err)
		}
		if _, err := h.uc.Save(ctx, dto.SaveInput{UserID: "u"}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if _, err := h.uc.Start(ctx, dto.StartInput{Mode: "pro"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := h.uc.Discard(ctx); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if _, err := h.uc.GetActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected discarded session, got %v", err)
	}

	out, err := h.uc.Reindex(ctx)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if out.Records != 2 {
		t.Fatalf("expected 2 records reindexed, got %d", out.Records)
	}
	top, err := h.uc.TopFlavors(ctx, 0)
	if err != nil {
		t.Fatalf("top flavors: %v", err)
	}
	if len(top) != 1 || top[0].Count != 2 {
		t.Fatalf("unexpected top flavors: %+v", top)
	}
}
