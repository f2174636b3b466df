package service

import (
	"errors"
	"sync"

	"cuplog/internal/modules/tasting/domain"
	"cuplog/internal/platform/clock"
)

// Aggregate owns the single live tasting session. Updates never validate; the last write wins.
type Aggregate struct {
	clock clock.Clock

	mu      sync.Mutex
	session domain.Session
}

func NewAggregate(clock clock.Clock) *Aggregate {
	return &Aggregate{clock: clock}
}

// StartNewSession discards whatever was in progress.
func (a *Aggregate) StartNewSession(mode domain.Mode) domain.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.clock.Now()
	a.session = domain.Session{Mode: mode, StartedAt: &now}
	return a.session.Clone()
}

func (a *Aggregate) Current() domain.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Clone()
}

// Restore replaces the state wholesale, used when hydrating from a draft.
func (a *Aggregate) Restore(session domain.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = session.Clone()
}

func (a *Aggregate) ClearCurrentSession() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = domain.Session{}
}

func (a *Aggregate) UpdateCoffeeInfo(patch domain.CoffeeInfo) domain.Session {
	return a.mutate(func(s *domain.Session) {
		base := domain.CoffeeInfo{}
		if s.CoffeeInfo != nil {
			base = *s.CoffeeInfo
		}
		merged := base.Merge(patch)
		s.CoffeeInfo = &merged
	})
}

func (a *Aggregate) UpdateBrewSettings(patch domain.BrewSettings) domain.Session {
	return a.mutate(func(s *domain.Session) {
		base := domain.BrewSettings{}
		if s.BrewSettings != nil {
			base = *s.BrewSettings
		}
		merged := base.Merge(patch)
		s.BrewSettings = &merged
	})
}

func (a *Aggregate) UpdateExperimentalData(patch domain.ExperimentalData) domain.Session {
	return a.mutate(func(s *domain.Session) {
		base := domain.ExperimentalData{}
		if s.ExperimentalData != nil {
			base = *s.ExperimentalData
		}
		merged := base.Merge(patch)
		s.ExperimentalData = &merged
	})
}

func (a *Aggregate) MergeQCMeasurement(qc domain.QCMeasurement) domain.Session {
	return a.UpdateExperimentalData(qc.AsExperimentalData())
}

func (a *Aggregate) UpdateSelectedFlavors(flavors []domain.Flavor) domain.Session {
	return a.mutate(func(s *domain.Session) {
		s.SelectedFlavors = domain.UniqueFlavors(flavors)
	})
}

func (a *Aggregate) UpdateSensoryExpressions(expressions []domain.SensoryExpression) domain.Session {
	return a.mutate(func(s *domain.Session) {
		s.SensoryExpressions = append([]domain.SensoryExpression{}, expressions...)
	})
}

func (a *Aggregate) UpdateSensorySliders(ratings map[string]float64, notes string) domain.Session {
	return a.mutate(func(s *domain.Session) {
		sliders := domain.NewSensorySliders(ratings, notes)
		s.SensorySliderData = &sliders
	})
}

func (a *Aggregate) UpdatePersonalComment(comment string) domain.Session {
	return a.mutate(func(s *domain.Session) {
		s.PersonalComment = &comment
	})
}

func (a *Aggregate) UpdateRoasterNotes(text string, level int) domain.Session {
	return a.mutate(func(s *domain.Session) {
		s.RoasterNotes = &text
		s.RoasterNotesLevel = level
	})
}

// CheckSession reports why the session cannot be used. A corrupted mode wipes the session.
func (a *Aggregate) CheckSession() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := domain.ValidateSession(a.session)
	if errors.Is(err, domain.ErrCorruptedMode) {
		a.session = domain.Session{}
	}
	return err
}

func (a *Aggregate) ValidateSession() bool {
	return a.CheckSession() == nil
}

func (a *Aggregate) ValidateStepData(required []string) bool {
	return domain.ValidateStepData(a.Current(), required)
}

func (a *Aggregate) mutate(fn func(*domain.Session)) domain.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.session)
	return a.session.Clone()
}
