package visits

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/connections"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
	pkgerrors "github.com/breadcrumbsapp/breadcrumbs-backend/pkg/errors"
)

const (
	msgDuplicateVisit = "You have already left a breadcrumb for this restaurant."
	msgVisitRecorded  = "You have left a breadcrumb."
)

type visitRepository interface {
	CreateIfAbsent(ctx context.Context, userID, restaurantID uuid.UUID, rating *int) (uuid.UUID, bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (VisitsPageDTO, error)
	FriendsWhoVisited(ctx context.Context, viewerID, restaurantID uuid.UUID) ([]connections.FriendDTO, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Visit, error)
	AttachImage(ctx context.Context, visitID uuid.UUID, input AttachImageInput) (*models.Image, error)
	ImagesForVisit(ctx context.Context, visitID uuid.UUID) ([]models.Image, error)
}

type restaurantFinder interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service exposes breadcrumb operations.
type Service interface {
	AddVisit(ctx context.Context, userID, restaurantID uuid.UUID, rating *int) (*AddVisitResultDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (VisitsPageDTO, error)
	FriendsWhoVisited(ctx context.Context, viewerID, restaurantID uuid.UUID) ([]connections.FriendDTO, error)
	AttachImage(ctx context.Context, viewerID, visitID uuid.UUID, input AttachImageInput) (*ImageDTO, error)
	ImagesForVisit(ctx context.Context, visitID uuid.UUID) ([]ImageDTO, error)
}

type service struct {
	repo        visitRepository
	restaurants restaurantFinder
}

// NewService builds a visit service with the provided repositories.
func NewService(repo visitRepository, restaurants restaurantFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("visit repository required")
	}
	if restaurants == nil {
		return nil, fmt.Errorf("restaurant repository required")
	}
	return &service{repo: repo, restaurants: restaurants}, nil
}

// AddVisit records a breadcrumb. The unique (user, restaurant) constraint is
// the dedup point; a lost insert maps to the duplicate message.
func (s *service) AddVisit(ctx context.Context, userID, restaurantID uuid.UUID, rating *int) (*AddVisitResultDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant is required")
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	exists, err := s.restaurants.Exists(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up restaurant")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
	}

	visitID, inserted, err := s.repo.CreateIfAbsent(ctx, userID, restaurantID, rating)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record visit")
	}
	if !inserted {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, msgDuplicateVisit)
	}

	return &AddVisitResultDTO{VisitID: visitID, Message: msgVisitRecorded}, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (VisitsPageDTO, error) {
	page, err := s.repo.ListByUser(ctx, userID, cursor, limit)
	if err != nil {
		if strings.Contains(err.Error(), "cursor") {
			return VisitsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return VisitsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list visits")
	}
	return page, nil
}

func (s *service) FriendsWhoVisited(ctx context.Context, viewerID, restaurantID uuid.UUID) ([]connections.FriendDTO, error) {
	out, err := s.repo.FriendsWhoVisited(ctx, viewerID, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list visiting friends")
	}
	return out, nil
}

// AttachImage stores a photo for one of the viewer's own visits.
func (s *service) AttachImage(ctx context.Context, viewerID, visitID uuid.UUID, input AttachImageInput) (*ImageDTO, error) {
	if viewerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	if strings.TrimSpace(input.URL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	visit, err := s.repo.FindByID(ctx, visitID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find visit")
	}
	if visit == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "visit not found")
	}
	if visit.UserID != viewerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "visit belongs to another user")
	}

	image, err := s.repo.AttachImage(ctx, visitID, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach image")
	}

	dto := imageDTO(image)
	return &dto, nil
}

// ImagesForVisit lists the photos attached to a visit, newest first.
func (s *service) ImagesForVisit(ctx context.Context, visitID uuid.UUID) ([]ImageDTO, error) {
	visit, err := s.repo.FindByID(ctx, visitID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find visit")
	}
	if visit == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "visit not found")
	}

	images, err := s.repo.ImagesForVisit(ctx, visitID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list images")
	}

	out := make([]ImageDTO, 0, len(images))
	for i := range images {
		out = append(out, imageDTO(&images[i]))
	}
	return out, nil
}

func imageDTO(image *models.Image) ImageDTO {
	return ImageDTO{
		ID:         image.ID,
		VisitID:    image.VisitID,
		URL:        image.URL,
		TakenAt:    image.TakenAt,
		Rating:     image.Rating,
		UploadedAt: image.UploadedAt,
	}
}
