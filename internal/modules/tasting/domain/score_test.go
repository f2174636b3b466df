package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cuplog/internal/modules/tasting/domain"
)

func ptr[T any](v T) *T { return &v }

func TestScoreWithoutRoasterNotesIsFloor(t *testing.T) {
	t.Parallel()
	score := domain.CalculateMatchScore(domain.Session{
		Mode:            domain.ModeCafe,
		SelectedFlavors: []domain.Flavor{{ID: "chocolate", Text: "초콜릿"}},
	})
	assert.Equal(t, domain.MatchScore{FlavorMatch: 70, SensoryMatch: 70, Total: 70, RoasterBonus: 0}, score)
}

func TestScoreCountsOverlapAndBonus(t *testing.T) {
	t.Parallel()
	s := domain.Session{
		Mode: domain.ModeHomeCafe,
		SelectedFlavors: []domain.Flavor{
			{ID: "chocolate", Text: "Dark Chocolate"},
			{ID: "red-berry", Text: "Red berry"},
			{ID: "jasmine", Text: "Jasmine"},
			{ID: "caramel", Text: "Caramel"},
		},
		SensoryExpressions: []domain.SensoryExpression{
			{ID: "juicy", Category: "body", Text: "Juicy"},
			{ID: "clean", Category: "finish", Text: "Clean"},
		},
		RoasterNotes:      ptr("Notes of chocolate, red berry & caramel. Juicy body."),
		RoasterNotesLevel: domain.RoasterNotesPresent,
	}
	score := domain.CalculateMatchScore(s)
	assert.Equal(t, 93, score.FlavorMatch) // 70 + round(30*3/4)
	assert.Equal(t, 85, score.SensoryMatch)
	assert.Equal(t, 10, score.RoasterBonus)
	assert.Equal(t, 99, score.Total)
}

func TestScoreCapsAtHundred(t *testing.T) {
	t.Parallel()
	s := domain.Session{
		SelectedFlavors:    []domain.Flavor{{ID: "peach", Text: "Peach"}},
		SensoryExpressions: []domain.SensoryExpression{{ID: "silky", Text: "Silky"}},
		RoasterNotes:       ptr("peach, silky"),
		RoasterNotesLevel:  domain.RoasterNotesPresent,
	}
	score := domain.CalculateMatchScore(s)
	assert.Equal(t, 100, score.FlavorMatch)
	assert.Equal(t, 100, score.Total)
	assert.Equal(t, 10, score.RoasterBonus)
}

func TestScoreMatchesKoreanSubstrings(t *testing.T) {
	t.Parallel()
	s := domain.Session{
		SelectedFlavors:   []domain.Flavor{{ID: "chocolate", Text: "초콜릿"}, {ID: "tea", Text: "홍차"}},
		RoasterNotes:      ptr("다크초콜릿과 자두의 단맛"),
		RoasterNotesLevel: domain.RoasterNotesAbsent,
	}
	score := domain.CalculateMatchScore(s)
	assert.Equal(t, 85, score.FlavorMatch)
	assert.Zero(t, score.RoasterBonus)
	assert.Equal(t, 78, score.Total) // round((85+70)/2)
}

func TestScoreTotalAlwaysInRange(t *testing.T) {
	t.Parallel()
	notes := []string{"", "berry", "berry chocolate juicy", "x"}
	for _, n := range notes {
		for _, level := range []int{0, domain.RoasterNotesAbsent, domain.RoasterNotesPresent} {
			s := domain.Session{
				SelectedFlavors:    []domain.Flavor{{ID: "berry", Text: "Berry"}, {ID: "chocolate", Text: "Chocolate"}},
				SensoryExpressions: []domain.SensoryExpression{{ID: "juicy", Text: "Juicy"}},
				RoasterNotes:       ptr(n),
				RoasterNotesLevel:  level,
			}
			score := domain.CalculateMatchScore(s)
			assert.GreaterOrEqual(t, score.Total, 0)
			assert.LessOrEqual(t, score.Total, 100)
			base := (score.FlavorMatch + score.SensoryMatch + 1) / 2
			want := base + score.RoasterBonus
			if want > 100 {
				want = 100
			}
			assert.Equal(t, want, score.Total)
			assert.Equal(t, level == domain.RoasterNotesPresent, score.RoasterBonus != 0)
		}
	}
}
