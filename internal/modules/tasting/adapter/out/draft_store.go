package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cuplog/internal/modules/tasting/domain"
	tastingout "cuplog/internal/modules/tasting/port/out"
	apperrors "cuplog/internal/platform/errors"
)

type FileDraftStore struct {
	path string
}

func NewFileDraftStore(homePath string) tastingout.DraftStore {
	return &FileDraftStore{path: filepath.Join(homePath, ".cuplog", "active-session.json")}
}

func (s *FileDraftStore) SaveDraft(_ context.Context, session domain.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create draft dir: %w", err)
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace draft: %w", err)
	}
	return nil
}

func (s *FileDraftStore) LoadDraft(_ context.Context) (domain.Session, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Session{}, apperrors.ErrNoActiveSession
		}
		return domain.Session{}, fmt.Errorf("read draft: %w", err)
	}
	session := domain.Session{}
	if err := json.Unmarshal(payload, &session); err != nil {
		return domain.Session{}, fmt.Errorf("decode draft: %w", err)
	}
	if session.IsEmpty() {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	return session, nil
}

func (s *FileDraftStore) ClearDraft(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
