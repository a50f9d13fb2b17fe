package locations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eduprima/eduprima-api/internal/shared"
)

const cacheTTL = 12 * time.Hour

// RepositoryPort defines data access methods for location reference data.
type RepositoryPort interface {
	ListProvinces(ctx context.Context) ([]Province, error)
	ListCities(ctx context.Context, provinceID string) ([]City, error)
}

// Service serves location lookups with a Redis read-through cache.
// Reference rows arrive upper-cased from the source dataset; names are
// normalized to title case for display.
type Service struct {
	repo   RepositoryPort
	cache  *redis.Client
	logger *slog.Logger
	caser  cases.Caser
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
		caser:  cases.Title(language.Indonesian),
	}
}

// Provinces returns all provinces, cached.
func (s *Service) Provinces(ctx context.Context) ([]Province, error) {
	const key = "locations:provinces"
	var provinces []Province
	if s.readCache(ctx, key, &provinces) {
		return provinces, nil
	}
	provinces, err := s.repo.ListProvinces(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list provinces: %v", shared.ErrStorage, err)
	}
	for i := range provinces {
		provinces[i].Name = s.caser.String(provinces[i].Name)
	}
	s.writeCache(ctx, key, provinces)
	return provinces, nil
}

// Cities returns the cities of one province, cached per province.
func (s *Service) Cities(ctx context.Context, provinceID string) ([]City, error) {
	if provinceID == "" {
		return nil, fmt.Errorf("%w: province_id is required", shared.ErrValidation)
	}
	key := "locations:cities:" + provinceID
	var cities []City
	if s.readCache(ctx, key, &cities) {
		return cities, nil
	}
	cities, err := s.repo.ListCities(ctx, provinceID)
	if err != nil {
		return nil, fmt.Errorf("%w: list cities: %v", shared.ErrStorage, err)
	}
	for i := range cities {
		cities[i].Name = s.caser.String(cities[i].Name)
	}
	s.writeCache(ctx, key, cities)
	return cities, nil
}

func (s *Service) readCache(ctx context.Context, key string, target any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.logger != nil {
			s.logger.Warn("locations cache read", slog.Any("error", err))
		}
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		if s.logger != nil {
			s.logger.Warn("locations cache decode", slog.Any("error", err))
		}
		return false
	}
	return true
}

func (s *Service) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Warn("locations cache write", slog.Any("error", err))
	}
}
