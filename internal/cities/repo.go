package cities

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/repo"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
)

// Repository encapsulates city persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a city repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByName returns the city with the given name, or nil when absent.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	var city models.City
	err := r.DB(ctx).Where("name = ?", name).First(&city).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &city, nil
}

// GetOrCreate resolves a city by name, inserting it if absent. Concurrent
// callers race on the unique name index; the losing insert falls through to
// the read.
func (r *Repository) GetOrCreate(ctx context.Context, name string) (*models.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, gorm.ErrInvalidValue
	}

	if err := r.DB(ctx).
		Exec(`INSERT INTO cities (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name).
		Error; err != nil {
		return nil, err
	}

	var city models.City
	if err := r.DB(ctx).Where("name = ?", name).First(&city).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

// List returns all cities ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.City, error) {
	var out []models.City
	if err := r.DB(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
