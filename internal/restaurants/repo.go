package restaurants

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/repo"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
)

// Repository encapsulates restaurant persistence.
type Repository struct {
	repo.Base
	postgres bool
}

// NewRepository constructs a restaurant repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Base:     repo.NewBase(db),
		postgres: db != nil && db.Dialector.Name() == "postgres",
	}
}

// List returns restaurants in alphabetical order.
func (r *Repository) List(ctx context.Context) ([]models.Restaurant, error) {
	var out []models.Restaurant
	err := r.DB(ctx).
		Preload("City").
		Order("name ASC").
		Find(&out).
		Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID returns the restaurant with city and categories, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.DB(ctx).
		Preload("City").
		Preload("Categories").
		Where("id = ?", id).
		First(&restaurant).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// Exists reports whether a restaurant row with the given id is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Restaurant{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search runs a full-text match over the generated search_vector on
// Postgres; the sqlite-backed tests exercise the LIKE fallback.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]models.Restaurant, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Restaurant{}, nil
	}
	if limit <= 0 {
		limit = 25
	}

	var out []models.Restaurant
	tx := r.DB(ctx).Preload("City").Limit(limit).Order("name ASC")
	if r.postgres {
		tsquery := repo.PrefixTSQuery(query)
		if tsquery == "" {
			return []models.Restaurant{}, nil
		}
		tx = tx.Where("search_vector @@ to_tsquery('simple', ?)", tsquery)
	} else {
		pattern := "%" + strings.ToLower(query) + "%"
		tx = tx.Where("lower(name) LIKE ?", pattern)
	}
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// BulkInsert stores imported restaurants and their category joins in one
// transaction.
func (r *Repository) BulkInsert(ctx context.Context, rows []CreateRestaurantDTO) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	inserted := 0
	err := r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			restaurant := &models.Restaurant{
				ID:        uuid.New(),
				CityID:    row.CityID,
				Name:      row.Name,
				Address:   row.Address,
				Phone:     row.Phone,
				ImageURL:  row.ImageURL,
				Latitude:  row.Latitude,
				Longitude: row.Longitude,
			}
			if err := tx.Create(restaurant).Error; err != nil {
				return err
			}
			inserted++

			for _, category := range row.Categories {
				if err := attachCategoryTx(tx, restaurant.ID, category); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// DeleteAll wipes restaurants and their category joins (import reload mode).
func (r *Repository) DeleteAll(ctx context.Context) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM restaurant_categories`).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM restaurants`).Error
	})
}

// AttachCategory links a restaurant to a category by name, creating the
// category row when absent. Both inserts ignore duplicates.
func (r *Repository) AttachCategory(ctx context.Context, restaurantID uuid.UUID, name string) error {
	return attachCategoryTx(r.DB(ctx), restaurantID, name)
}

func attachCategoryTx(tx *gorm.DB, restaurantID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || restaurantID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	if err := tx.
		Exec(`INSERT INTO categories (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name).
		Error; err != nil {
		return err
	}

	var category models.Category
	if err := tx.Where("name = ?", name).First(&category).Error; err != nil {
		return err
	}

	return tx.
		Exec(`INSERT INTO restaurant_categories (restaurant_id, category_id) VALUES (?, ?) ON CONFLICT (restaurant_id, category_id) DO NOTHING`,
			restaurantID, category.ID).
		Error
}
