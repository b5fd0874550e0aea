package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/registry-service/internal/config"
	"github.com/spec-kit/registry-service/internal/domain"
	"github.com/spec-kit/registry-service/internal/persistence"
	"github.com/spec-kit/registry-service/internal/repository"
)

// Quote selection rules.
const (
	QuoteMinLength = 10
	QuoteLimit     = 20
	QuoteTarget    = 8
)

const (
	countsCacheKey = "registry:stats:counts"
	quotesCacheKey = "registry:stats:quotes"
)

// PlaceholderQuotes backfill the testimonial list until enough real comments exist.
var PlaceholderQuotes = []domain.Quote{
	{Text: "I want my child to have a real pathway to MLS.", Role: "Parent"},
	{Text: "We need elite development here in Vegas.", Role: "Coach"},
	{Text: "Vegas deserves top-level soccer infrastructure.", Role: "Fan"},
	{Text: "This could change everything for youth soccer in Southern Nevada.", Role: "Parent"},
	{Text: "Our kids shouldn't have to leave the state to pursue their dreams.", Role: "Parent"},
	{Text: "An MLS pathway would transform our soccer community.", Role: "Coach"},
	{Text: "Las Vegas is ready for this. The support is real.", Role: "Fan"},
	{Text: "My son dreams of playing professional soccer. This gives him hope.", Role: "Parent"},
}

// Cache is the read-through cache used for public aggregates.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// StatsService serves the public counters and testimonials. It never returns
// an error: store failures degrade to the last known value or to placeholders.
type StatsService struct {
	submissions repository.SubmissionRepository
	cache       Cache
	cfg         config.MetricsConfig
	logger      *zap.Logger
	now         func() time.Time

	mu        sync.Mutex
	lastKnown *cachedCounts
}

type cachedCounts struct {
	Counts    domain.Counts `json:"counts"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewStatsService constructs the service. cache may be nil.
func NewStatsService(submissions repository.SubmissionRepository, cache Cache, cfg config.MetricsConfig, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		submissions: submissions,
		cache:       cache,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// Metrics returns live counts plus configured baselines.
func (s *StatsService) Metrics(ctx context.Context) domain.Metrics {
	current, ok := s.currentCounts(ctx)
	if !ok {
		current = cachedCounts{UpdatedAt: s.now().UTC()}
	}
	return domain.Metrics{
		Supporters:   current.Counts.Supporters + s.cfg.SupportersBaseline,
		YouthPlayers: current.Counts.Youth + s.cfg.YouthBaseline,
		Businesses:   current.Counts.Businesses + s.cfg.BusinessesBaseline,
		LastUpdated:  current.UpdatedAt,
	}
}

func (s *StatsService) currentCounts(ctx context.Context) (cachedCounts, bool) {
	var current cachedCounts
	if s.readCache(ctx, countsCacheKey, &current) {
		return current, true
	}

	counts, err := s.submissions.Counts(ctx, repository.SubmissionFilter{})
	if err != nil {
		s.logger.Warn("metrics fallback", zap.Error(err))
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.lastKnown != nil {
			return *s.lastKnown, true
		}
		return cachedCounts{}, false
	}

	current = cachedCounts{Counts: counts, UpdatedAt: s.now().UTC()}
	s.mu.Lock()
	s.lastKnown = &current
	s.mu.Unlock()
	s.writeCache(ctx, countsCacheKey, current, s.cfg.CacheTTL)
	return current, true
}

// Quotes returns recent real testimonials backfilled with placeholders.
func (s *StatsService) Quotes(ctx context.Context) []domain.Quote {
	var cached []domain.Quote
	if s.readCache(ctx, quotesCacheKey, &cached) {
		return cached
	}

	recent, err := s.submissions.RecentComments(ctx, QuoteMinLength, QuoteLimit)
	if err != nil {
		s.logger.Warn("quotes fallback", zap.Error(err))
		return append([]domain.Quote(nil), PlaceholderQuotes...)
	}

	quotes := BuildQuotes(recent)
	s.writeCache(ctx, quotesCacheKey, quotes, s.cfg.QuotesCacheTTL)
	return quotes
}

// BuildQuotes maps commented registrations to quotes, then pads with
// placeholders up to QuoteTarget entries.
func BuildQuotes(recent []domain.Submission) []domain.Quote {
	quotes := make([]domain.Quote, 0, QuoteTarget)
	for i := range recent {
		reg := recent[i].Registration
		if reg == nil {
			continue
		}
		text := strings.TrimSpace(reg.Comment)
		if len([]rune(text)) <= QuoteMinLength {
			continue
		}
		quotes = append(quotes, domain.Quote{Text: text, Role: reg.Role.Label()})
	}
	if len(quotes) == 0 {
		return append(quotes, PlaceholderQuotes...)
	}
	if missing := QuoteTarget - len(quotes); missing > 0 {
		quotes = append(quotes, PlaceholderQuotes[:missing]...)
	}
	return quotes
}

func (s *StatsService) readCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, persistence.ErrCacheMiss) {
			s.logger.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("stats cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *StatsService) writeCache(ctx context.Context, key string, val any, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops cached aggregates so the next read reflects new submissions.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, countsCacheKey, quotesCacheKey); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
