package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cuplog/internal/modules/tasting/domain"
	tastingout "cuplog/internal/modules/tasting/port/out"
	"cuplog/internal/platform/clock"
	"cuplog/internal/platform/id"
)

// fixed width so lexical order equals chronological order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const recordColumns = `id, user_id, mode, coffee_info, brew_settings, experimental_data, selected_flavors,
  sensory_expressions, sensory_slider_data, personal_comment, roaster_notes, roaster_notes_level,
  match_score, sensory_skipped, duration, created_at, updated_at`

type SQLiteRecordRepository struct {
	db    *sql.DB
	clock clock.Clock
	idGen id.Generator
}

func NewSQLiteRecordRepository(db *sql.DB, clock clock.Clock, idGen id.Generator) (tastingout.RecordRepository, error) {
	repo := &SQLiteRecordRepository{db: db, clock: clock, idGen: idGen}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (s *SQLiteRecordRepository) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tastings (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  mode TEXT NOT NULL,
  coffee_info TEXT NOT NULL,
  brew_settings TEXT,
  experimental_data TEXT,
  selected_flavors TEXT NOT NULL,
  sensory_expressions TEXT NOT NULL,
  sensory_slider_data TEXT,
  personal_comment TEXT,
  roaster_notes TEXT,
  roaster_notes_level INTEGER NOT NULL,
  match_score TEXT NOT NULL,
  sensory_skipped INTEGER NOT NULL,
  duration INTEGER,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tastings_user_created ON tastings(user_id, created_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create tastings table: %w", err)
	}
	return nil
}

// Create assigns id and timestamps and returns the record as inserted.
func (s *SQLiteRecordRepository) Create(ctx context.Context, record domain.Record) (domain.Record, error) {
	now := s.clock.Now().UTC()
	record.ID = s.idGen.New()
	record.CreatedAt = now
	record.UpdatedAt = now

	args, err := recordArgs(record)
	if err != nil {
		return domain.Record{}, err
	}
	stmt := `INSERT INTO tastings (` + recordColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return domain.Record{}, fmt.Errorf("insert tasting: %w", err)
	}
	return record, nil
}

func (s *SQLiteRecordRepository) ListByUser(ctx context.Context, userID string) ([]domain.Record, error) {
	return s.list(ctx, `SELECT `+recordColumns+` FROM tastings WHERE user_id = ? ORDER BY created_at DESC, rowid DESC;`, userID)
}

func (s *SQLiteRecordRepository) ListAll(ctx context.Context) ([]domain.Record, error) {
	return s.list(ctx, `SELECT `+recordColumns+` FROM tastings ORDER BY created_at DESC, rowid DESC;`)
}

func (s *SQLiteRecordRepository) list(ctx context.Context, query string, args ...any) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tastings: %w", err)
	}
	defer rows.Close()

	out := []domain.Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tastings: %w", err)
	}
	return out, nil
}

func (s *SQLiteRecordRepository) ListScoresByCoffee(ctx context.Context, coffeeName string) ([]domain.ScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT match_score, created_at
FROM tastings
WHERE json_extract(coffee_info, '$.coffee_name') = ?
ORDER BY created_at DESC, rowid DESC;
`, coffeeName)
	if err != nil {
		return nil, fmt.Errorf("list coffee scores: %w", err)
	}
	defer rows.Close()

	out := []domain.ScoreEntry{}
	for rows.Next() {
		var rawScore, rawCreated string
		if err := rows.Scan(&rawScore, &rawCreated); err != nil {
			return nil, fmt.Errorf("scan coffee score: %w", err)
		}
		entry := domain.ScoreEntry{}
		if err := json.Unmarshal([]byte(rawScore), &entry.MatchScore); err != nil {
			return nil, fmt.Errorf("decode match score: %w", err)
		}
		if entry.CreatedAt, err = time.Parse(timeLayout, rawCreated); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coffee scores: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func recordArgs(r domain.Record) ([]any, error) {
	coffee, err := json.Marshal(r.CoffeeInfo)
	if err != nil {
		return nil, fmt.Errorf("encode coffee info: %w", err)
	}
	flavors, err := json.Marshal(r.SelectedFlavors)
	if err != nil {
		return nil, fmt.Errorf("encode flavors: %w", err)
	}
	expressions, err := json.Marshal(r.SensoryExpressions)
	if err != nil {
		return nil, fmt.Errorf("encode sensory expressions: %w", err)
	}
	score, err := json.Marshal(r.MatchScore)
	if err != nil {
		return nil, fmt.Errorf("encode match score: %w", err)
	}
	brew, err := nullableJSON(r.BrewSettings)
	if err != nil {
		return nil, fmt.Errorf("encode brew settings: %w", err)
	}
	experimental, err := nullableJSON(r.ExperimentalData)
	if err != nil {
		return nil, fmt.Errorf("encode experimental data: %w", err)
	}
	sliders, err := nullableJSON(r.SensorySliderData)
	if err != nil {
		return nil, fmt.Errorf("encode sensory sliders: %w", err)
	}
	return []any{
		r.ID,
		r.UserID,
		string(r.Mode),
		string(coffee),
		brew,
		experimental,
		string(flavors),
		string(expressions),
		sliders,
		nullableString(r.PersonalComment),
		nullableString(r.RoasterNotes),
		r.RoasterNotesLevel,
		string(score),
		r.SensorySkipped,
		nullableInt(r.Duration),
		r.CreatedAt.UTC().Format(timeLayout),
		r.UpdatedAt.UTC().Format(timeLayout),
	}, nil
}

func scanRecord(row rowScanner) (domain.Record, error) {
	var (
		r                                  domain.Record
		mode, coffee, flavors, expressions string
		score, created, updated            string
		brew, experimental, sliders        sql.NullString
		comment, notes                     sql.NullString
		duration                           sql.NullInt64
	)
	err := row.Scan(&r.ID, &r.UserID, &mode, &coffee, &brew, &experimental, &flavors, &expressions,
		&sliders, &comment, &notes, &r.RoasterNotesLevel, &score, &r.SensorySkipped, &duration, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Record{}, err
		}
		return domain.Record{}, fmt.Errorf("scan tasting: %w", err)
	}
	r.Mode = domain.Mode(mode)
	if err := json.Unmarshal([]byte(coffee), &r.CoffeeInfo); err != nil {
		return domain.Record{}, fmt.Errorf("decode coffee info: %w", err)
	}
	if err := json.Unmarshal([]byte(flavors), &r.SelectedFlavors); err != nil {
		return domain.Record{}, fmt.Errorf("decode flavors: %w", err)
	}
	if err := json.Unmarshal([]byte(expressions), &r.SensoryExpressions); err != nil {
		return domain.Record{}, fmt.Errorf("decode sensory expressions: %w", err)
	}
	if err := json.Unmarshal([]byte(score), &r.MatchScore); err != nil {
		return domain.Record{}, fmt.Errorf("decode match score: %w", err)
	}
	if r.BrewSettings, err = decodeNullable[domain.BrewSettings](brew); err != nil {
		return domain.Record{}, fmt.Errorf("decode brew settings: %w", err)
	}
	if r.ExperimentalData, err = decodeNullable[domain.ExperimentalData](experimental); err != nil {
		return domain.Record{}, fmt.Errorf("decode experimental data: %w", err)
	}
	if r.SensorySliderData, err = decodeNullable[domain.SensorySliders](sliders); err != nil {
		return domain.Record{}, fmt.Errorf("decode sensory sliders: %w", err)
	}
	if comment.Valid {
		r.PersonalComment = &comment.String
	}
	if notes.Valid {
		r.RoasterNotes = &notes.String
	}
	if duration.Valid {
		r.Duration = &duration.Int64
	}
	if r.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return domain.Record{}, fmt.Errorf("parse created_at: %w", err)
	}
	if r.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return domain.Record{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return r, nil
}

func nullableJSON[T any](v *T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(payload), Valid: true}, nil
}

func decodeNullable[T any](raw sql.NullString) (*T, error) {
	if !raw.Valid {
		return nil, nil
	}
	v := new(T)
	if err := json.Unmarshal([]byte(raw.String), v); err != nil {
		return nil, err
	}
	return v, nil
}

func nullableString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullableInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
