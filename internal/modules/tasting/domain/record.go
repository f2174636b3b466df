package domain

import (
	"math"
	"strings"
	"time"
)

// Record is the durable snapshot of a completed session. ID and timestamps are assigned by the backend.
type Record struct {
	ID                 string              `json:"id"`
	UserID             string              `json:"user_id"`
	Mode               Mode                `json:"mode"`
	CoffeeInfo         CoffeeInfo          `json:"coffee_info"`
	BrewSettings       *BrewSettings       `json:"brew_settings"`
	ExperimentalData   *ExperimentalData   `json:"experimental_data"`
	SelectedFlavors    []Flavor            `json:"selected_flavors"`
	SensoryExpressions []SensoryExpression `json:"sensory_expressions"`
	SensorySliderData  *SensorySliders     `json:"sensory_slider_data"`
	PersonalComment    *string             `json:"personal_comment"`
	RoasterNotes       *string             `json:"roaster_notes"`
	RoasterNotesLevel  int                 `json:"roaster_notes_level"`
	MatchScore         MatchScore          `json:"match_score"`
	SensorySkipped     bool                `json:"sensory_skipped"`
	Duration           *int64              `json:"duration"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// NewRecord flattens a session. Callers check completeness first; empty optional text becomes nil
// and missing lists become empty lists.
func NewRecord(s Session, userID string, score MatchScore, now time.Time) Record {
	s = s.Clone()
	record := Record{
		UserID:             userID,
		Mode:               s.Mode,
		BrewSettings:       s.BrewSettings,
		ExperimentalData:   s.ExperimentalData,
		SelectedFlavors:    s.SelectedFlavors,
		SensoryExpressions: s.SensoryExpressions,
		SensorySliderData:  s.SensorySliderData,
		PersonalComment:    nonBlank(s.PersonalComment),
		RoasterNotes:       nonBlank(s.RoasterNotes),
		RoasterNotesLevel:  s.RoasterNotesLevel,
		MatchScore:         score,
		SensorySkipped:     len(s.SensoryExpressions) == 0,
		Duration:           ElapsedSeconds(s.StartedAt, now),
	}
	if s.CoffeeInfo != nil {
		record.CoffeeInfo = *s.CoffeeInfo
	}
	if record.SelectedFlavors == nil {
		record.SelectedFlavors = []Flavor{}
	}
	if record.SensoryExpressions == nil {
		record.SensoryExpressions = []SensoryExpression{}
	}
	if record.RoasterNotesLevel == 0 {
		record.RoasterNotesLevel = RoasterNotesAbsent
	}
	return record
}

// ElapsedSeconds is whole seconds between start and now, nil when the session never started.
func ElapsedSeconds(startedAt *time.Time, now time.Time) *int64 {
	if startedAt == nil {
		return nil
	}
	secs := int64(now.Sub(*startedAt) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return &secs
}

func nonBlank(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}

// ScoreEntry is one row of the per-coffee aggregate query.
type ScoreEntry struct {
	MatchScore MatchScore
	CreatedAt  time.Time
}

type CoffeeStatistics struct {
	TotalRecords int `json:"total_records"`
	AverageScore int `json:"average_score"`
	BestScore    int `json:"best_score"`
	LatestScore  int `json:"latest_score"`
}

// SummarizeScores expects entries newest first, as the backend returns them.
// It returns nil when there is nothing to summarize.
func SummarizeScores(entries []ScoreEntry) *CoffeeStatistics {
	if len(entries) == 0 {
		return nil
	}
	sum := 0
	best := entries[0].MatchScore.Total
	for _, e := range entries {
		sum += e.MatchScore.Total
		if e.MatchScore.Total > best {
			best = e.MatchScore.Total
		}
	}
	return &CoffeeStatistics{
		TotalRecords: len(entries),
		AverageScore: int(math.Round(float64(sum) / float64(len(entries)))),
		BestScore:    best,
		LatestScore:  entries[0].MatchScore.Total,
	}
}

// FlavorCount is a row of the flavor index.
type FlavorCount struct {
	FlavorID string
	Text     string
	Count    int
}

// RoasterNotes is text pulled from a roaster's spec sheet.
type RoasterNotes struct {
	Text   string
	Source string
}

// Level maps extracted text to the roaster-notes level.
func (r RoasterNotes) Level() int {
	if strings.TrimSpace(r.Text) == "" {
		return RoasterNotesAbsent
	}
	return RoasterNotesPresent
}
