package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/repo"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
)

// Repository encapsulates user persistence.
type Repository struct {
	repo.Base
	postgres bool
}

// NewRepository constructs a user repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Base:     repo.NewBase(db),
		postgres: db != nil && db.Dialector.Name() == "postgres",
	}
}

// Create inserts a new user row.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		CityID:       dto.CityID,
		Email:        strings.ToLower(strings.TrimSpace(dto.Email)),
		PasswordHash: dto.PasswordHash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
	}
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID returns the user with the given id, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.DB(ctx).Preload("City").Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns the user with the given email, or nil when absent.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}

	var user models.User
	err := r.DB(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a user row with the given id is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all users ordered by first then last name.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := r.DB(ctx).
		Order("first_name ASC, last_name ASC").
		Find(&out).
		Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Search runs a full-text match over the generated search_vector on
// Postgres; the sqlite-backed tests exercise the LIKE fallback.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.User{}, nil
	}
	if limit <= 0 {
		limit = 25
	}

	var out []models.User
	tx := r.DB(ctx).Limit(limit).Order("first_name ASC, last_name ASC")
	if r.postgres {
		tsquery := repo.PrefixTSQuery(query)
		if tsquery == "" {
			return []models.User{}, nil
		}
		tx = tx.Where("search_vector @@ to_tsquery('simple', ?)", tsquery)
	} else {
		pattern := "%" + strings.ToLower(query) + "%"
		tx = tx.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ?", pattern, pattern)
	}
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// TouchLastLogin stamps the user's most recent successful login.
func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).
		Error
}
