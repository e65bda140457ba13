package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"goldsaver_api/internal/models"
)

const schemeCacheTTL = 10 * time.Minute

// SchemeService is the scheme catalog: CRUD over plan definitions plus
// the type-checked lookup the subscription engine validates against.
type SchemeService struct {
	db    *gorm.DB
	cache *RedisCache
}

// NewSchemeService creates the catalog. cache may be nil, in which case
// lookups always hit the database.
func NewSchemeService(db *gorm.DB, cache *RedisCache) *SchemeService {
	return &SchemeService{db: db, cache: cache}
}

func schemeCacheKey(id uint) string {
	return fmt.Sprintf("scheme:%d", id)
}

// Create validates the params and stores a new scheme
func (s *SchemeService) Create(ctx context.Context, params models.SchemeParams) (*models.Scheme, error) {
	scheme, err := models.NewScheme(params)
	if err != nil {
		return nil, ValidationError("%v", err)
	}
	if err := s.db.WithContext(ctx).Create(scheme).Error; err != nil {
		return nil, err
	}
	return scheme, nil
}

// GetByID returns one scheme, read through the cache when available
func (s *SchemeService) GetByID(ctx context.Context, id uint) (*models.Scheme, error) {
	fetch := func() (models.Scheme, error) {
		var scheme models.Scheme
		err := s.db.WithContext(ctx).First(&scheme, id).Error
		return scheme, err
	}

	var scheme models.Scheme
	var err error
	if s.cache != nil {
		scheme, err = GetOrSet(s.cache, ctx, schemeCacheKey(id), schemeCacheTTL, fetch)
	} else {
		scheme, err = fetch()
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("scheme not found")
	}
	if err != nil {
		return nil, err
	}
	return &scheme, nil
}

// List returns all schemes
func (s *SchemeService) List(ctx context.Context) ([]models.Scheme, error) {
	var schemes []models.Scheme
	if err := s.db.WithContext(ctx).Find(&schemes).Error; err != nil {
		return nil, err
	}
	return schemes, nil
}

// Update replaces the mutable attributes of a scheme. Subscriptions that
// already reference it keep their snapshotted amounts; only future reads
// see the change.
func (s *SchemeService) Update(ctx context.Context, id uint, params models.SchemeParams) (*models.Scheme, error) {
	var existing models.Scheme
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("scheme not found")
		}
		return nil, err
	}

	updated, err := models.NewScheme(params)
	if err != nil {
		return nil, ValidationError("%v", err)
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := s.db.WithContext(ctx).Save(updated).Error; err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// Delete removes a scheme from the catalog
func (s *SchemeService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Scheme{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundError("scheme not found")
	}
	s.invalidate(ctx, id)
	return nil
}

// Validate loads a scheme and checks that its type matches the requested
// category.
func (s *SchemeService) Validate(ctx context.Context, schemeID uint, category models.SchemeType) (*models.Scheme, error) {
	scheme, err := s.GetByID(ctx, schemeID)
	if err != nil {
		return nil, err
	}
	if scheme.SchemeType != category {
		return nil, PreconditionError("this is not a %s subscription scheme", category)
	}
	return scheme, nil
}

func (s *SchemeService) invalidate(ctx context.Context, id uint) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, schemeCacheKey(id))
	}
}
