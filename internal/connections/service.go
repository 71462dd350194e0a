package connections

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/breadcrumbsapp/breadcrumbs-backend/pkg/errors"
)

const (
	msgSelfFriend     = "You cannot add yourself as a friend."
	msgAlreadyFriends = "You are already friends."
	msgRequestPending = "Your friend request is pending."
	msgRequestSent    = "Your friend request has been sent."
)

type connectionRepository interface {
	Relationship(ctx context.Context, a, b uuid.UUID) (RelationshipDTO, error)
	CreateRequested(ctx context.Context, a, b uuid.UUID) (bool, error)
	FriendsOf(ctx context.Context, userID uuid.UUID) ([]FriendDTO, error)
	PendingRequests(ctx context.Context, userID uuid.UUID) (PendingRequestsDTO, error)
	CountPending(ctx context.Context, userID uuid.UUID) (PendingCountsDTO, error)
}

type userFinder interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service exposes the friend-graph operations.
type Service interface {
	AddFriend(ctx context.Context, viewerID, targetID uuid.UUID) (*AddFriendResultDTO, error)
	Overview(ctx context.Context, viewerID uuid.UUID) (*FriendsOverviewDTO, error)
	Relationship(ctx context.Context, viewerID, targetID uuid.UUID) (RelationshipDTO, error)
	PendingCounts(ctx context.Context, userID uuid.UUID) (PendingCountsDTO, error)
}

type service struct {
	repo  connectionRepository
	users userFinder
}

// NewService builds a connection service with the provided repositories.
func NewService(repo connectionRepository, users userFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("connection repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, users: users}, nil
}

// AddFriend records a Requested edge from the viewer toward the target. The
// insert is the atomic dedup point; the pre-read exists only to pick the
// right message when the edge is already there.
func (s *service) AddFriend(ctx context.Context, viewerID, targetID uuid.UUID) (*AddFriendResultDTO, error) {
	if viewerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	if targetID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target user is required")
	}
	if viewerID == targetID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgSelfFriend)
	}

	exists, err := s.users.Exists(ctx, targetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up target user")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	inserted, err := s.repo.CreateRequested(ctx, viewerID, targetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create friend request")
	}
	if !inserted {
		rel, err := s.repo.Relationship(ctx, viewerID, targetID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check relationship")
		}
		if rel.IsFriend {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, msgAlreadyFriends)
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, msgRequestPending)
	}

	return &AddFriendResultDTO{Message: msgRequestSent, RequestedAt: time.Now().UTC()}, nil
}

func (s *service) Overview(ctx context.Context, viewerID uuid.UUID) (*FriendsOverviewDTO, error) {
	if viewerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}

	friends, err := s.repo.FriendsOf(ctx, viewerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list friends")
	}
	pending, err := s.repo.PendingRequests(ctx, viewerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending requests")
	}

	return &FriendsOverviewDTO{Friends: friends, Pending: pending}, nil
}

func (s *service) Relationship(ctx context.Context, viewerID, targetID uuid.UUID) (RelationshipDTO, error) {
	rel, err := s.repo.Relationship(ctx, viewerID, targetID)
	if err != nil {
		return RelationshipDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check relationship")
	}
	return rel, nil
}

func (s *service) PendingCounts(ctx context.Context, userID uuid.UUID) (PendingCountsDTO, error) {
	counts, err := s.repo.CountPending(ctx, userID)
	if err != nil {
		return PendingCountsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending requests")
	}
	return counts, nil
}
