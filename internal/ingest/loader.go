package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/restaurants"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/logger"
)

type cityResolver interface {
	GetOrCreate(ctx context.Context, name string) (*models.City, error)
}

type restaurantWriter interface {
	BulkInsert(ctx context.Context, rows []restaurants.CreateRestaurantDTO) (int, error)
	DeleteAll(ctx context.Context) error
}

// Loader drives the city import: page through the vendor listings and store
// them as restaurant rows.
type Loader struct {
	client      ListingClient
	cities      cityResolver
	restaurants restaurantWriter
	logg        *logger.Logger

	pageSize   int
	maxResults int
}

// LoaderParams bundles the loader dependencies.
type LoaderParams struct {
	Client      ListingClient
	Cities      cityResolver
	Restaurants restaurantWriter
	Logger      *logger.Logger
	PageSize    int
	MaxResults  int
}

// NewLoader constructs an import loader.
func NewLoader(params LoaderParams) (*Loader, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("listing client is required")
	}
	if params.Cities == nil {
		return nil, fmt.Errorf("city repository is required")
	}
	if params.Restaurants == nil {
		return nil, fmt.Errorf("restaurant repository is required")
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	maxResults := params.MaxResults
	if maxResults <= 0 {
		maxResults = 1000
	}
	return &Loader{
		client:      params.Client,
		cities:      params.Cities,
		restaurants: params.Restaurants,
		logg:        params.Logger,
		pageSize:    pageSize,
		maxResults:  maxResults,
	}, nil
}

// LoadCity imports every accessible listing for the city. The vendor caps
// accessible results, so the walk stops at maxResults even when the reported
// total is larger. Failures abort the run; this is one-off script semantics,
// not a resilient pipeline.
func (l *Loader) LoadCity(ctx context.Context, cityName string, wipeExisting bool) (int, error) {
	cityName = strings.TrimSpace(cityName)
	if cityName == "" {
		return 0, fmt.Errorf("city is required")
	}

	city, err := l.cities.GetOrCreate(ctx, cityName)
	if err != nil {
		return 0, fmt.Errorf("resolve city %q: %w", cityName, err)
	}

	if wipeExisting {
		if err := l.restaurants.DeleteAll(ctx); err != nil {
			return 0, fmt.Errorf("wipe restaurants: %w", err)
		}
	}

	first, err := l.client.SearchRestaurants(ctx, cityName, 0)
	if err != nil {
		return 0, fmt.Errorf("fetch first page: %w", err)
	}

	total := first.Total
	if total > l.maxResults {
		total = l.maxResults
	}

	imported := 0
	page := first
	for offset := 0; offset < total; offset += l.pageSize {
		if offset > 0 {
			page, err = l.client.SearchRestaurants(ctx, cityName, offset)
			if err != nil {
				return imported, fmt.Errorf("fetch page at offset %d: %w", offset, err)
			}
		}
		if len(page.Businesses) == 0 {
			break
		}

		rows := make([]restaurants.CreateRestaurantDTO, 0, len(page.Businesses))
		for _, business := range page.Businesses {
			rows = append(rows, toCreateDTO(city.ID, business))
		}

		count, err := l.restaurants.BulkInsert(ctx, rows)
		if err != nil {
			return imported, fmt.Errorf("insert page at offset %d: %w", offset, err)
		}
		imported += count

		if l.logg != nil {
			pageCtx := l.logg.WithFields(ctx, map[string]any{
				"city":     cityName,
				"offset":   offset,
				"imported": imported,
			})
			l.logg.Info(pageCtx, "ingest.page.loaded")
		}
	}

	return imported, nil
}

func toCreateDTO(cityID uuid.UUID, business Business) restaurants.CreateRestaurantDTO {
	dto := restaurants.CreateRestaurantDTO{
		CityID:     cityID,
		Name:       business.Name,
		Latitude:   business.Latitude,
		Longitude:  business.Longitude,
		Categories: business.Categories,
	}
	if business.Address != "" {
		address := business.Address
		dto.Address = &address
	}
	if business.Phone != "" {
		phone := business.Phone
		dto.Phone = &phone
	}
	if business.ImageURL != "" {
		imageURL := business.ImageURL
		dto.ImageURL = &imageURL
	}
	return dto
}
