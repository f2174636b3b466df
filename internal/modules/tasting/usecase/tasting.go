package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"cuplog/internal/modules/tasting/domain"
	"cuplog/internal/modules/tasting/dto"
	tastingin "cuplog/internal/modules/tasting/port/in"
	tastingout "cuplog/internal/modules/tasting/port/out"
	"cuplog/internal/modules/tasting/service"
	apperrors "cuplog/internal/platform/errors"
	"cuplog/internal/platform/logging"
)

const defaultTopFlavors = 10

type Dependencies struct {
	Aggregate *service.Aggregate
	Gateway   *service.Gateway
	Drafts    tastingout.DraftStore
	Records   tastingout.RecordRepository
	Index     tastingout.FlavorIndexProjector
	Journal   tastingout.JournalWriter
	Notes     tastingout.NoteSource
	Logger    hclog.Logger
}

type Interactor struct {
	aggregate *service.Aggregate
	gateway   *service.Gateway
	drafts    tastingout.DraftStore
	records   tastingout.RecordRepository
	index     tastingout.FlavorIndexProjector
	journal   tastingout.JournalWriter
	notes     tastingout.NoteSource
	logger    hclog.Logger
}

func NewInteractor(deps Dependencies) tastingin.Usecase {
	return &Interactor{
		aggregate: deps.Aggregate,
		gateway:   deps.Gateway,
		drafts:    deps.Drafts,
		records:   deps.Records,
		index:     deps.Index,
		journal:   deps.Journal,
		notes:     deps.Notes,
		logger:    logging.OrDiscard(deps.Logger).Named("tasting"),
	}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error) {
	mode := domain.Mode(strings.TrimSpace(input.Mode))
	if err := mode.Validate(); err != nil {
		return dto.SessionOutput{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	session := i.aggregate.StartNewSession(mode)
	if err := i.saveDraft(ctx, session); err != nil {
		return dto.SessionOutput{}, err
	}
	i.logger.Debug("session started", "mode", mode)
	return mapSession(session), nil
}

func (i *Interactor) GetActive(ctx context.Context) (dto.SessionOutput, error) {
	if err := i.requireActive(ctx); err != nil {
		return dto.SessionOutput{}, err
	}
	return mapSession(i.aggregate.Current()), nil
}

func (i *Interactor) Discard(ctx context.Context) error {
	i.aggregate.ClearCurrentSession()
	if i.drafts == nil {
		return nil
	}
	return i.drafts.ClearDraft(ctx)
}

func (i *Interactor) SetCoffeeInfo(ctx context.Context, input dto.CoffeeInfo) (dto.SessionOutput, error) {
	return i.update(ctx, func() domain.Session {
		return i.aggregate.UpdateCoffeeInfo(toDomainCoffeeInfo(input))
	})
}

func (i *Interactor) SetBrewSettings(ctx context.Context, input dto.BrewSettings) (dto.SessionOutput, error) {
	return i.update(ctx, func() domain.Session {
		return i.aggregate.UpdateBrewSettings(toDomainBrewSettings(input))
	})
}

func (i *Interactor) SetExperimentalData(ctx context.Context, input dto.ExperimentalData) (dto.SessionOutput, error) {
	return i.update(ctx, func() domain.Session {
		return i.aggregate.UpdateExperimentalData(toDomainExperimental(input))
	})
}

func (i *Interactor) RecordQCMeasurement(ctx context.Context, input dto.QCMeasurement) (dto.SessionOutput, error) {
	return i.update(ctx, func() domain.Session {
		return i.aggregate.MergeQCMeasurement(domain.QCMeasurement{
			TDS:             input.TDS,
			ExtractionYield: input.ExtractionYield,
			WaterTDS:        input.WaterTDS,
			WaterPH:         input.WaterPH,
		})
	})
}

func (i *Interactor) SetFlavors(ctx context.Context, flavors []dto.Flavor) (dto.SessionOutput, error) {
	return i.update(ctx, func() domain.Session {
		return i.aggregate.UpdateSelectedFlavors(toDomainFlavors(flavors))
	})
}

func (i *Interactor) SetSensoryExpressions(ctx context.Context, expressions []dto.SensoryExpression) (dto.SessionOutput, error) {
	return i.update(ctx, func() domain.Session {
		return i.aggregate.UpdateSensoryExpressions(toDomainExpressions(expressions))
	})
}

func (i *Interactor) SetSensorySliders(ctx context.Context, input dto.SlidersInput) (dto.SessionOutput, error) {
	for axis, rating := range input.Ratings {
		if rating < 1 || rating > 5 {
			return dto.SessionOutput{}, fmt.Errorf("%w: rating %s=%v outside 1..5", apperrors.ErrInvalidInput, axis, rating)
		}
	}
	return i.update(ctx, func() domain.Session {
		return i.aggregate.UpdateSensorySliders(input.Ratings, input.Notes)
	})
}

func (i *Interactor) SetComment(ctx context.Context, input dto.CommentInput) (dto.SessionOutput, error) {
	return i.update(ctx, func() domain.Session {
		return i.aggregate.UpdatePersonalComment(input.Comment)
	})
}

// SetRoasterNotes stores inline text, or text extracted from FromFile when given.
// A zero level is derived from whether any text is present.
func (i *Interactor) SetRoasterNotes(ctx context.Context, input dto.RoasterNotesInput) (dto.SessionOutput, error) {
	if input.Level != 0 && input.Level != domain.RoasterNotesAbsent && input.Level != domain.RoasterNotesPresent {
		return dto.SessionOutput{}, fmt.Errorf("%w: roaster notes level %d", apperrors.ErrInvalidInput, input.Level)
	}
	if err := i.requireActive(ctx); err != nil {
		return dto.SessionOutput{}, err
	}
	notes := domain.RoasterNotes{Text: input.Text}
	if path := strings.TrimSpace(input.FromFile); path != "" {
		if i.notes == nil {
			return dto.SessionOutput{}, fmt.Errorf("roaster note extraction is not configured")
		}
		extracted, err := i.notes.Extract(ctx, path)
		if err != nil {
			return dto.SessionOutput{}, fmt.Errorf("extract roaster notes: %w", err)
		}
		notes = extracted
	}
	level := input.Level
	if level == 0 {
		level = notes.Level()
	}
	return i.update(ctx, func() domain.Session {
		return i.aggregate.UpdateRoasterNotes(notes.Text, level)
	})
}

// Advance gates forward navigation on the session's validity and the step's required fields.
func (i *Interactor) Advance(ctx context.Context, input dto.NavigateInput) (dto.NavigateOutput, error) {
	from, err := i.navigable(ctx, input.From)
	if err != nil {
		return dto.NavigateOutput{}, err
	}
	session := i.aggregate.Current()
	required := input.Required
	if domain.PastCoffeeSetup(from, session.Mode) && !slices.Contains(required, domain.FieldCoffeeInfo) {
		required = append([]string{domain.FieldCoffeeInfo}, required...)
	}
	if missing := domain.MissingFields(session, required); len(missing) > 0 {
		return dto.NavigateOutput{}, fmt.Errorf("%w: missing %s", domain.ErrStepIncomplete, strings.Join(missing, ", "))
	}
	return mapTransition(domain.NextStep(from, session.Mode)), nil
}

func (i *Interactor) Back(ctx context.Context, input dto.NavigateInput) (dto.NavigateOutput, error) {
	from, err := i.navigable(ctx, input.From)
	if err != nil {
		return dto.NavigateOutput{}, err
	}
	return mapTransition(domain.PreviousStep(from, i.aggregate.Current().Mode)), nil
}

// Save commits the session, then best-effort clears the draft, indexes flavors and writes the
// journal note. Only the commit itself can fail the call.
func (i *Interactor) Save(ctx context.Context, input dto.SaveInput) (dto.SaveOutput, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return dto.SaveOutput{}, fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	if err := i.requireActive(ctx); err != nil {
		return dto.SaveOutput{}, err
	}
	record, err := i.gateway.SaveCurrentSession(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCorruptedMode):
			if i.drafts != nil {
				if clearErr := i.drafts.ClearDraft(ctx); clearErr != nil {
					i.logger.Warn("clear corrupted draft", "error", clearErr)
				}
			}
		case !errors.Is(err, domain.ErrIncompleteSession):
			if draftErr := i.saveDraft(ctx, i.aggregate.Current()); draftErr != nil {
				i.logger.Warn("keep draft after failed save", "error", draftErr)
			}
		}
		return dto.SaveOutput{}, err
	}

	if i.drafts != nil {
		if err := i.drafts.ClearDraft(ctx); err != nil {
			i.logger.Warn("clear draft", "error", err)
		}
	}
	if i.index != nil {
		if err := i.index.UpsertRecord(ctx, record); err != nil {
			i.logger.Warn("index flavors", "record", record.ID, "error", err)
		}
	}
	out := dto.SaveOutput{Record: mapRecord(record)}
	if i.journal != nil {
		path, err := i.journal.Write(ctx, record)
		if err != nil {
			i.logger.Warn("write journal note", "record", record.ID, "error", err)
		} else {
			out.JournalPath = path
		}
	}
	i.logger.Info("tasting saved", "record", record.ID, "coffee", record.CoffeeInfo.CoffeeName, "total", record.MatchScore.Total)
	return out, nil
}

func (i *Interactor) ListRecords(ctx context.Context, userID string) ([]dto.RecordOutput, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	records, err := i.gateway.FetchUserRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecordOutput, 0, len(records))
	for _, record := range records {
		out = append(out, mapRecord(record))
	}
	return out, nil
}

// Statistics returns nil when there is nothing to report.
func (i *Interactor) Statistics(ctx context.Context, coffeeName string) (*dto.StatisticsOutput, error) {
	coffeeName = strings.TrimSpace(coffeeName)
	if coffeeName == "" {
		return nil, fmt.Errorf("%w: coffee name is required", apperrors.ErrInvalidInput)
	}
	stats := i.gateway.GetCoffeeStatistics(ctx, coffeeName)
	if stats == nil {
		return nil, nil
	}
	return &dto.StatisticsOutput{
		CoffeeName:   coffeeName,
		TotalRecords: stats.TotalRecords,
		AverageScore: stats.AverageScore,
		BestScore:    stats.BestScore,
		LatestScore:  stats.LatestScore,
	}, nil
}

func (i *Interactor) TopFlavors(ctx context.Context, limit int) ([]dto.FlavorCountOutput, error) {
	if i.index == nil {
		return []dto.FlavorCountOutput{}, nil
	}
	if limit <= 0 {
		limit = defaultTopFlavors
	}
	counts, err := i.index.TopFlavors(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FlavorCountOutput, 0, len(counts))
	for _, c := range counts {
		out = append(out, dto.FlavorCountOutput{FlavorID: c.FlavorID, Text: c.Text, Count: c.Count})
	}
	return out, nil
}

// Reindex rebuilds the flavor index from every stored record.
func (i *Interactor) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	if i.index == nil || i.records == nil {
		return dto.ReindexOutput{}, fmt.Errorf("flavor index is not configured")
	}
	records, err := i.records.ListAll(ctx)
	if err != nil {
		return dto.ReindexOutput{}, fmt.Errorf("%w: %w", domain.ErrBackendRead, err)
	}
	if err := i.index.Reset(ctx); err != nil {
		return dto.ReindexOutput{}, err
	}
	for _, record := range records {
		if err := i.index.UpsertRecord(ctx, record); err != nil {
			return dto.ReindexOutput{}, err
		}
	}
	return dto.ReindexOutput{Records: len(records)}, nil
}

func (i *Interactor) update(ctx context.Context, apply func() domain.Session) (dto.SessionOutput, error) {
	if err := i.requireActive(ctx); err != nil {
		return dto.SessionOutput{}, err
	}
	session := apply()
	if err := i.saveDraft(ctx, session); err != nil {
		return dto.SessionOutput{}, err
	}
	return mapSession(session), nil
}

func (i *Interactor) navigable(ctx context.Context, rawFrom string) (domain.StepID, error) {
	if err := i.requireActive(ctx); err != nil {
		return "", err
	}
	if err := i.aggregate.CheckSession(); err != nil {
		if errors.Is(err, domain.ErrCorruptedMode) && i.drafts != nil {
			if clearErr := i.drafts.ClearDraft(ctx); clearErr != nil {
				i.logger.Warn("clear corrupted draft", "error", clearErr)
			}
		}
		return "", err
	}
	from := domain.StepID(strings.TrimSpace(rawFrom))
	if !domain.InPath(from, i.aggregate.Current().Mode) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownStep, rawFrom)
	}
	return from, nil
}

// requireActive hydrates an empty aggregate from the draft store.
func (i *Interactor) requireActive(ctx context.Context) error {
	if !i.aggregate.Current().IsEmpty() {
		return nil
	}
	if i.drafts != nil {
		draft, err := i.drafts.LoadDraft(ctx)
		switch {
		case errors.Is(err, apperrors.ErrNoActiveSession):
		case err != nil:
			return err
		default:
			i.aggregate.Restore(draft)
		}
	}
	if i.aggregate.Current().IsEmpty() {
		return apperrors.ErrNoActiveSession
	}
	return nil
}

func (i *Interactor) saveDraft(ctx context.Context, session domain.Session) error {
	if i.drafts == nil {
		return nil
	}
	return i.drafts.SaveDraft(ctx, session)
}
