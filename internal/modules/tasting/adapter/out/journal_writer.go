package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuplog/internal/modules/tasting/domain"
	tastingout "cuplog/internal/modules/tasting/port/out"
	"cuplog/internal/platform/markdown"
	"cuplog/internal/platform/slug"
)

const journalSchemaVersion = 1

// MarkdownJournalWriter writes one note per saved record under <home>/journal/YYYY/MM/DD.
type MarkdownJournalWriter struct {
	homePath string
}

func NewMarkdownJournalWriter(homePath string) tastingout.JournalWriter {
	return &MarkdownJournalWriter{homePath: homePath}
}

func (w *MarkdownJournalWriter) Write(_ context.Context, record domain.Record) (string, error) {
	date := record.CreatedAt
	dir := filepath.Join(w.homePath, "journal", date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", date.Format("150405"), slug.Make(record.CoffeeInfo.CoffeeName))
	path := filepath.Join(dir, name)

	flavors := make([]string, 0, len(record.SelectedFlavors))
	for _, f := range record.SelectedFlavors {
		flavors = append(flavors, f.Text)
	}
	fields := []markdown.Field{
		{Key: "schema_version", Value: journalSchemaVersion},
		{Key: "id", Value: record.ID},
		{Key: "mode", Value: string(record.Mode)},
		{Key: "coffee", Value: record.CoffeeInfo.CoffeeName},
		{Key: "cafe", Value: record.CoffeeInfo.CafeName},
		{Key: "score", Value: record.MatchScore.Total},
		{Key: "flavor_match", Value: record.MatchScore.FlavorMatch},
		{Key: "sensory_match", Value: record.MatchScore.SensoryMatch},
		{Key: "flavors", Value: flavors},
		{Key: "created_at", Value: record.CreatedAt.Format("2006-01-02T15:04:05Z07:00")},
	}
	rendered, err := markdown.RenderFrontmatter(fields, journalBody(record))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func journalBody(record domain.Record) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "# %s\n\n", record.CoffeeInfo.CoffeeName)
	if record.CoffeeInfo.CafeName != "" {
		fmt.Fprintf(&b, "- Cafe: %s\n", record.CoffeeInfo.CafeName)
	}
	if record.CoffeeInfo.BrewingMethod != "" {
		fmt.Fprintf(&b, "- Method: %s\n", record.CoffeeInfo.BrewingMethod)
	}
	fmt.Fprintf(&b, "- Match: %d (flavor %d, sensory %d, bonus %d)\n",
		record.MatchScore.Total, record.MatchScore.FlavorMatch, record.MatchScore.SensoryMatch, record.MatchScore.RoasterBonus)
	if record.Duration != nil {
		fmt.Fprintf(&b, "- Duration: %ds\n", *record.Duration)
	}
	if len(record.SensoryExpressions) > 0 {
		b.WriteString("\n## Sensory\n\n")
		for _, e := range record.SensoryExpressions {
			fmt.Fprintf(&b, "- %s: %s\n", e.Category, e.Text)
		}
	}
	if record.PersonalComment != nil {
		fmt.Fprintf(&b, "\n## Comment\n\n%s\n", *record.PersonalComment)
	}
	if record.RoasterNotes != nil {
		fmt.Fprintf(&b, "\n## Roaster notes\n\n%s\n", *record.RoasterNotes)
	}
	return b.String()
}
