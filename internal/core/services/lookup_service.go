package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lorrc/scan-relay/internal/core/domain"
	apperrors "github.com/lorrc/scan-relay/internal/core/errors"
	"github.com/lorrc/scan-relay/internal/core/ports"
	"github.com/lorrc/scan-relay/internal/infrastructure/metrics"
)

// DefaultLookupTimeout bounds a single lookup when none is configured.
const DefaultLookupTimeout = 2 * time.Second

// LookupService resolves hash keys to employee records.
type LookupService struct {
	repo     ports.EmployeeRepository
	cache    ports.EmployeeCache
	cacheTTL time.Duration
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

var _ ports.LookupService = (*LookupService)(nil)

// LookupOption configures a LookupService.
type LookupOption func(*LookupService)

// WithCache puts a read-through cache in front of the repository.
func WithCache(cache ports.EmployeeCache, ttl time.Duration) LookupOption {
	return func(s *LookupService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithLookupTimeout bounds each store round-trip.
func WithLookupTimeout(timeout time.Duration) LookupOption {
	return func(s *LookupService) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLookupMetrics records lookup outcomes.
func WithLookupMetrics(m *metrics.Metrics) LookupOption {
	return func(s *LookupService) {
		s.metrics = m
	}
}

// NewLookupService creates a new LookupService.
func NewLookupService(repo ports.EmployeeRepository, logger *slog.Logger, opts ...LookupOption) *LookupService {
	s := &LookupService{
		repo:    repo,
		timeout: DefaultLookupTimeout,
		logger:  logger.With("component", "lookup_service"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Lookup returns the employee for hashKey, or nil when there is none or the
// store could not be reached. Store failures are logged and counted, never
// returned.
func (s *LookupService) Lookup(ctx context.Context, hashKey string) *domain.Employee {
	if hashKey == "" {
		return nil
	}

	employee, err := s.find(ctx, hashKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrEmployeeNotFound) {
			s.logger.WarnContext(ctx, "lookup failed, continuing without enrichment",
				"hash_key", hashKey,
				"error", err,
			)
		}
		return nil
	}
	return employee
}

// FindByHashKey returns the employee for hashKey. Unlike Lookup it reports
// short keys, misses and store failures to the caller.
func (s *LookupService) FindByHashKey(ctx context.Context, hashKey string) (*domain.Employee, error) {
	if len(hashKey) < domain.MinHashKeyLength {
		return nil, apperrors.ErrHashKeyInvalid
	}
	return s.find(ctx, hashKey)
}

func (s *LookupService) find(ctx context.Context, hashKey string) (*domain.Employee, error) {
	start := time.Now()

	if employee := s.fromCache(ctx, hashKey); employee != nil {
		s.metrics.ObserveLookup(metrics.LookupCacheHit, time.Since(start))
		return employee, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	employee, err := s.repo.GetByHashKey(lookupCtx, hashKey)
	switch {
	case errors.Is(err, apperrors.ErrEmployeeNotFound):
		s.metrics.ObserveLookup(metrics.LookupMiss, time.Since(start))
		return nil, err
	case err != nil:
		s.metrics.ObserveLookup(metrics.LookupError, time.Since(start))
		return nil, &apperrors.StoreError{Op: "get employee", Err: err}
	case employee == nil:
		s.metrics.ObserveLookup(metrics.LookupMiss, time.Since(start))
		return nil, apperrors.ErrEmployeeNotFound
	}

	s.metrics.ObserveLookup(metrics.LookupHit, time.Since(start))
	s.toCache(ctx, employee)
	return employee, nil
}

// fromCache returns a cached employee or nil. Cache errors are ignored.
// The read gets its own timeout so a slow cache cannot eat the store's budget.
func (s *LookupService) fromCache(ctx context.Context, hashKey string) *domain.Employee {
	if s.cache == nil {
		return nil
	}
	cacheCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	employee, err := s.cache.Get(cacheCtx, hashKey)
	if err != nil {
		s.logger.DebugContext(ctx, "cache read failed", "hash_key", hashKey, "error", err)
		return nil
	}
	return employee
}

func (s *LookupService) toCache(ctx context.Context, employee *domain.Employee) {
	if s.cache == nil {
		return
	}
	cacheCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.cache.Set(cacheCtx, employee, s.cacheTTL); err != nil {
		s.logger.DebugContext(ctx, "cache write failed", "hash_key", employee.HashKey, "error", err)
	}
}
