package out

import (
	"context"
	"database/sql"
	"fmt"

	"cuplog/internal/modules/tasting/domain"
	tastingout "cuplog/internal/modules/tasting/port/out"
)

// SQLiteFlavorIndex projects record→flavor links for the "most tasted" view.
type SQLiteFlavorIndex struct {
	db *sql.DB
}

func NewSQLiteFlavorIndex(db *sql.DB) (tastingout.FlavorIndexProjector, error) {
	p := &SQLiteFlavorIndex{db: db}
	if err := p.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *SQLiteFlavorIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS flavor_links (
  record_id TEXT NOT NULL,
  flavor_id TEXT NOT NULL,
  flavor_text TEXT NOT NULL,
  PRIMARY KEY (record_id, flavor_id)
);
CREATE INDEX IF NOT EXISTS idx_flavor_links_flavor ON flavor_links(flavor_id);
`
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create flavor_links table: %w", err)
	}
	return nil
}

func (p *SQLiteFlavorIndex) Reset(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM flavor_links`); err != nil {
		return fmt.Errorf("reset flavor links: %w", err)
	}
	return nil
}

// UpsertRecord replaces the record's links.
func (p *SQLiteFlavorIndex) UpsertRecord(ctx context.Context, record domain.Record) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin flavor upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM flavor_links WHERE record_id = ?`, record.ID); err != nil {
		return fmt.Errorf("delete flavor links: %w", err)
	}
	const stmt = `
INSERT INTO flavor_links (record_id, flavor_id, flavor_text)
VALUES (?, ?, ?)
ON CONFLICT(record_id, flavor_id) DO NOTHING;
`
	for _, flavor := range record.SelectedFlavors {
		if _, err := tx.ExecContext(ctx, stmt, record.ID, flavor.ID, flavor.Text); err != nil {
			return fmt.Errorf("upsert flavor link: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit flavor upsert: %w", err)
	}
	return nil
}

func (p *SQLiteFlavorIndex) TopFlavors(ctx context.Context, limit int) ([]domain.FlavorCount, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := p.db.QueryContext(ctx, `
SELECT flavor_id, MIN(flavor_text), COUNT(*) AS record_count
FROM flavor_links
GROUP BY flavor_id
ORDER BY record_count DESC, flavor_id ASC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list top flavors: %w", err)
	}
	defer rows.Close()

	out := make([]domain.FlavorCount, 0, limit)
	for rows.Next() {
		item := domain.FlavorCount{}
		if err := rows.Scan(&item.FlavorID, &item.Text, &item.Count); err != nil {
			return nil, fmt.Errorf("scan flavor count: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flavor counts: %w", err)
	}
	return out, nil
}
