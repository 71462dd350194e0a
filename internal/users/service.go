package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/connections"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/visits"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
	pkgerrors "github.com/breadcrumbsapp/breadcrumbs-backend/pkg/errors"
)

const recentVisitLimit = 5

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
}

type visitReader interface {
	RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]visits.VisitDetailDTO, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type relationshipReader interface {
	Relationship(ctx context.Context, a, b uuid.UUID) (connections.RelationshipDTO, error)
}

// Service exposes user listing, search and profile aggregation.
type Service interface {
	List(ctx context.Context) ([]UserDTO, error)
	Search(ctx context.Context, query string, limit int) ([]UserDTO, error)
	Profile(ctx context.Context, viewerID, userID uuid.UUID) (*ProfileDTO, error)
}

type service struct {
	repo          userRepository
	visits        visitReader
	relationships relationshipReader
}

// NewService builds a user service with the provided repositories.
func NewService(repo userRepository, visitsReader visitReader, relationships relationshipReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if visitsReader == nil {
		return nil, fmt.Errorf("visit reader required")
	}
	if relationships == nil {
		return nil, fmt.Errorf("relationship reader required")
	}
	return &service{repo: repo, visits: visitsReader, relationships: relationships}, nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return toDTOs(rows), nil
}

func (s *service) Search(ctx context.Context, query string, limit int) ([]UserDTO, error) {
	rows, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search users")
	}
	return toDTOs(rows), nil
}

// Profile aggregates the user row, breadcrumb count, most recent visits and
// the viewer→viewee relationship. The relationship is the directed reading
// only; viewers on the B side of an accepted edge see is_friend=false.
func (s *service) Profile(ctx context.Context, viewerID, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	count, err := s.visits.CountByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count visits")
	}

	recent, err := s.visits.RecentByUser(ctx, userID, recentVisitLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent visits")
	}

	relationship := connections.RelationshipDTO{}
	if viewerID != uuid.Nil && viewerID != userID {
		relationship, err = s.relationships.Relationship(ctx, viewerID, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check relationship")
		}
	}

	return &ProfileDTO{
		User:         toDTO(*user),
		VisitCount:   count,
		RecentVisits: recent,
		Relationship: relationship,
	}, nil
}

func toDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:        user.ID,
		CityID:    user.CityID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
	if user.City != nil {
		dto.CityName = user.City.Name
	}
	return dto
}

func toDTOs(rows []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out
}
