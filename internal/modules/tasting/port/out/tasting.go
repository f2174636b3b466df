package out

import (
	"context"

	"cuplog/internal/modules/tasting/domain"
)

// DraftStore keeps the in-progress session between process runs.
type DraftStore interface {
	SaveDraft(ctx context.Context, session domain.Session) error
	LoadDraft(ctx context.Context) (domain.Session, error)
	ClearDraft(ctx context.Context) error
}

type RecordRepository interface {
	Create(ctx context.Context, record domain.Record) (domain.Record, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Record, error)
	ListScoresByCoffee(ctx context.Context, coffeeName string) ([]domain.ScoreEntry, error)
	ListAll(ctx context.Context) ([]domain.Record, error)
}

type FlavorIndexProjector interface {
	Reset(ctx context.Context) error
	UpsertRecord(ctx context.Context, record domain.Record) error
	TopFlavors(ctx context.Context, limit int) ([]domain.FlavorCount, error)
}

type JournalWriter interface {
	Write(ctx context.Context, record domain.Record) (string, error)
}

type NoteSource interface {
	Extract(ctx context.Context, path string) (domain.RoasterNotes, error)
}
