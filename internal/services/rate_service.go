package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"goldsaver_api/internal/models"
)

const (
	rateCacheKey = "rates:current"
	rateCacheTTL = time.Minute
)

// RateService owns the singleton gold/silver rate row. Upsert-only; the
// row is replaced in place and no history is kept.
type RateService struct {
	db    *gorm.DB
	cache *RedisCache
}

// NewRateService creates the rate table accessor. cache may be nil.
func NewRateService(db *gorm.DB, cache *RedisCache) *RateService {
	return &RateService{db: db, cache: cache}
}

// Current returns the single rate row, or a not-found error when rates
// have never been set.
func (s *RateService) Current(ctx context.Context) (*models.Rate, error) {
	fetch := func() (models.Rate, error) {
		var rate models.Rate
		err := s.db.WithContext(ctx).First(&rate).Error
		return rate, err
	}

	var rate models.Rate
	var err error
	if s.cache != nil {
		rate, err = GetOrSet(s.cache, ctx, rateCacheKey, rateCacheTTL, fetch)
	} else {
		rate, err = fetch()
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("rates not found")
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// Upsert creates the rate row on first write and replaces it afterwards
func (s *RateService) Upsert(ctx context.Context, goldRate, silverRate float64) (*models.Rate, error) {
	if goldRate <= 0 || silverRate <= 0 {
		return nil, ValidationError("gold_rate and silver_rate must be positive")
	}

	var rate models.Rate
	err := s.db.WithContext(ctx).First(&rate).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rate = models.Rate{GoldRate: goldRate, SilverRate: silverRate}
		if err := s.db.WithContext(ctx).Create(&rate).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		rate.GoldRate = goldRate
		rate.SilverRate = silverRate
		if err := s.db.WithContext(ctx).Save(&rate).Error; err != nil {
			return nil, err
		}
	}

	s.invalidate(ctx)
	return &rate, nil
}

// Delete removes the rate row entirely
func (s *RateService) Delete(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&models.Rate{}).Error; err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *RateService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, rateCacheKey)
	}
}
