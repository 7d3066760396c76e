// Package visits counts site visitors on top of the kv store: one lifetime
// total plus one rolling counter per calendar day in the site's timezone.
package visits

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/morethan-log/core/internal/pkg/kv"
	"go.uber.org/zap"
)

const (
	totalKey       = "visitors:total"
	dailyKeyPrefix = "visitors:daily:"
	dailyRetention = 60 * 24 * time.Hour
)

// Stats is the public counter snapshot.
type Stats struct {
	Total     int64 `json:"total"`
	Today     int64 `json:"today"`
	Yesterday int64 `json:"yesterday"`
}

type Service struct {
	kv     kv.Client
	tz     *time.Location
	logger *zap.Logger
	now    func() time.Time
}

func NewService(client kv.Client, timezone string, logger *zap.Logger) *Service {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("invalid visitor timezone, falling back to UTC",
			zap.String("timezone", timezone), zap.Error(err))
		loc = time.UTC
	}
	return &Service{kv: client, tz: loc, logger: logger, now: time.Now}
}

// Record counts one visit and returns the updated snapshot.
func (s *Service) Record(ctx context.Context) (Stats, error) {
	if _, err := s.kv.IncrBy(ctx, totalKey, 1); err != nil {
		return Stats{}, fmt.Errorf("increment total visitors: %w", err)
	}

	todayKey := s.dailyKey(0)
	if _, err := s.kv.IncrBy(ctx, todayKey, 1); err != nil {
		return Stats{}, fmt.Errorf("increment daily visitors: %w", err)
	}
	// refresh the rolling TTL on every hit; losing one refresh is harmless
	if _, err := s.kv.Expire(ctx, todayKey, dailyRetention); err != nil {
		s.logger.Warn("setting daily counter ttl failed", zap.Error(err))
	}

	return s.Snapshot(ctx)
}

// Snapshot reads the counters without recording a visit.
func (s *Service) Snapshot(ctx context.Context) (Stats, error) {
	values, err := s.kv.MGet(ctx, totalKey, s.dailyKey(0), s.dailyKey(-1))
	if err != nil {
		return Stats{}, fmt.Errorf("read visitor counters: %w", err)
	}
	return Stats{
		Total:     parseCounter(values[0]),
		Today:     parseCounter(values[1]),
		Yesterday: parseCounter(values[2]),
	}, nil
}

func (s *Service) dailyKey(dayOffset int) string {
	day := s.now().In(s.tz).AddDate(0, 0, dayOffset)
	return dailyKeyPrefix + day.Format("2006-01-02")
}

func parseCounter(raw *string) int64 {
	if raw == nil {
		return 0
	}
	n, err := strconv.ParseInt(*raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
