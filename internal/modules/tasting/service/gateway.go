package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"cuplog/internal/modules/tasting/domain"
	tastingout "cuplog/internal/modules/tasting/port/out"
	"cuplog/internal/platform/clock"
	"cuplog/internal/platform/logging"
)

// Gateway commits the aggregate to the record backend and serves the read side.
type Gateway struct {
	clock     clock.Clock
	aggregate *Aggregate
	repo      tastingout.RecordRepository
	logger    hclog.Logger

	mu      sync.Mutex
	lastErr error
}

func NewGateway(clock clock.Clock, aggregate *Aggregate, repo tastingout.RecordRepository, logger hclog.Logger) *Gateway {
	return &Gateway{
		clock:     clock,
		aggregate: aggregate,
		repo:      repo,
		logger:    logging.OrDiscard(logger).Named("gateway"),
	}
}

// SaveCurrentSession scores and creates one record. The session is cleared only after the
// backend accepted the row; on failure it is kept, unscored, so the caller can retry.
// A corrupted mode wipes the session instead.
func (g *Gateway) SaveCurrentSession(ctx context.Context, userID string) (domain.Record, error) {
	if err := g.aggregate.CheckSession(); errors.Is(err, domain.ErrCorruptedMode) {
		g.setLastError(err)
		return domain.Record{}, err
	}
	session := g.aggregate.Current()
	if session.Mode == "" || session.CoffeeInfo == nil {
		g.setLastError(domain.ErrIncompleteSession)
		return domain.Record{}, domain.ErrIncompleteSession
	}

	score := domain.CalculateMatchScore(session)
	record := domain.NewRecord(session, userID, score, g.clock.Now())

	created, err := g.repo.Create(ctx, record)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrBackendWrite, err)
		g.logger.Error("save tasting record", "coffee", record.CoffeeInfo.CoffeeName, "error", err)
		g.setLastError(err)
		return domain.Record{}, err
	}
	g.aggregate.ClearCurrentSession()
	g.setLastError(nil)
	g.logger.Debug("tasting record saved", "id", created.ID, "total", created.MatchScore.Total)
	return created, nil
}

func (g *Gateway) FetchUserRecords(ctx context.Context, userID string) ([]domain.Record, error) {
	records, err := g.repo.ListByUser(ctx, userID)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrBackendRead, err)
		g.logger.Error("fetch user records", "user", userID, "error", err)
		g.setLastError(err)
		return nil, err
	}
	g.setLastError(nil)
	return records, nil
}

// GetCoffeeStatistics returns nil when the coffee has no records or the backend failed.
// Failures are logged only.
func (g *Gateway) GetCoffeeStatistics(ctx context.Context, coffeeName string) *domain.CoffeeStatistics {
	coffeeName = strings.TrimSpace(coffeeName)
	if coffeeName == "" {
		return nil
	}
	entries, err := g.repo.ListScoresByCoffee(ctx, coffeeName)
	if err != nil {
		g.logger.Warn("coffee statistics unavailable", "coffee", coffeeName, "error", err)
		return nil
	}
	return domain.SummarizeScores(entries)
}

// LastError is the most recent save or fetch failure, nil after a success.
func (g *Gateway) LastError() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

func (g *Gateway) setLastError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastErr = err
}
