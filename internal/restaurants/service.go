package restaurants

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/connections"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
	pkgerrors "github.com/breadcrumbsapp/breadcrumbs-backend/pkg/errors"
)

type restaurantRepository interface {
	List(ctx context.Context) ([]models.Restaurant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	Search(ctx context.Context, query string, limit int) ([]models.Restaurant, error)
}

type friendVisitorReader interface {
	FriendsWhoVisited(ctx context.Context, viewerID, restaurantID uuid.UUID) ([]connections.FriendDTO, error)
}

// Service exposes restaurant listing, search and detail.
type Service interface {
	List(ctx context.Context) ([]RestaurantDTO, error)
	Search(ctx context.Context, query string, limit int) ([]RestaurantDTO, error)
	Detail(ctx context.Context, viewerID, restaurantID uuid.UUID) (*RestaurantDetailDTO, error)
}

type service struct {
	repo     restaurantRepository
	visitors friendVisitorReader
}

// NewService builds a restaurant service with the provided repositories.
func NewService(repo restaurantRepository, visitors friendVisitorReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("restaurant repository required")
	}
	if visitors == nil {
		return nil, fmt.Errorf("visit reader required")
	}
	return &service{repo: repo, visitors: visitors}, nil
}

func (s *service) List(ctx context.Context) ([]RestaurantDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurants")
	}
	return toDTOs(rows), nil
}

func (s *service) Search(ctx context.Context, query string, limit int) ([]RestaurantDTO, error) {
	rows, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search restaurants")
	}
	return toDTOs(rows), nil
}

// Detail returns the restaurant plus the viewer's friends that visited it.
// An anonymous viewer gets an empty visitor list.
func (s *service) Detail(ctx context.Context, viewerID, restaurantID uuid.UUID) (*RestaurantDetailDTO, error) {
	restaurant, err := s.repo.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find restaurant")
	}
	if restaurant == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
	}

	visitors := []connections.FriendDTO{}
	if viewerID != uuid.Nil {
		visitors, err = s.visitors.FriendsWhoVisited(ctx, viewerID, restaurantID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list visiting friends")
		}
	}

	return &RestaurantDetailDTO{
		Restaurant:     toDTO(*restaurant),
		FriendVisitors: visitors,
	}, nil
}

func toDTO(row models.Restaurant) RestaurantDTO {
	dto := RestaurantDTO{
		ID:        row.ID,
		CityID:    row.CityID,
		Name:      row.Name,
		Address:   row.Address,
		Phone:     row.Phone,
		ImageURL:  row.ImageURL,
		Latitude:  row.Latitude,
		Longitude: row.Longitude,
		CreatedAt: row.CreatedAt,
	}
	if row.City != nil {
		dto.CityName = row.City.Name
	}
	for _, category := range row.Categories {
		dto.Categories = append(dto.Categories, category.Name)
	}
	return dto
}

func toDTOs(rows []models.Restaurant) []RestaurantDTO {
	out := make([]RestaurantDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out
}
