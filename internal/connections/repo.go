package connections

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/repo"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
)

const friendColumns = "u.id, u.first_name, u.last_name, u.city_id"

// Repository encapsulates friend-edge persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a connection repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Relationship reports whether a has an Accepted and/or Requested edge toward
// b. The check covers the ordered pair (a, b) only; the reverse edge is a
// separate row and is not consulted.
func (r *Repository) Relationship(ctx context.Context, a, b uuid.UUID) (RelationshipDTO, error) {
	var statuses []models.ConnectionStatus
	err := r.DB(ctx).
		Model(&models.Connection{}).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		Pluck("status", &statuses).
		Error
	if err != nil {
		return RelationshipDTO{}, err
	}

	out := RelationshipDTO{}
	for _, status := range statuses {
		switch status {
		case models.ConnectionStatusAccepted:
			out.IsFriend = true
		case models.ConnectionStatusRequested:
			out.IsPending = true
		}
	}
	return out, nil
}

// CreateRequested inserts a Requested edge from a to b, ignoring duplicates.
// Returns false when a row for the ordered pair already existed.
func (r *Repository) CreateRequested(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if a == uuid.Nil || b == uuid.Nil {
		return false, gorm.ErrInvalidValue
	}

	res := r.DB(ctx).Exec(
		`INSERT INTO connections (user_a_id, user_b_id, status) VALUES (?, ?, ?) ON CONFLICT (user_a_id, user_b_id) DO NOTHING`,
		a, b, models.ConnectionStatusRequested,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FriendsOf returns the users joined through Accepted edges where the given
// user is on the A side. Edges where the user sits on the B side are not
// followed, so two users are mutual friends only when both directed rows
// exist.
func (r *Repository) FriendsOf(ctx context.Context, userID uuid.UUID) ([]FriendDTO, error) {
	var out []FriendDTO
	err := r.DB(ctx).
		Table("connections AS c").
		Select(friendColumns).
		Joins("JOIN users u ON u.id = c.user_b_id").
		Where("c.user_a_id = ? AND c.status = ?", userID, models.ConnectionStatusAccepted).
		Order("u.first_name ASC, u.last_name ASC").
		Scan(&out).
		Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PendingRequests returns the senders of open requests addressed to the user
// and the recipients of open requests the user has sent.
func (r *Repository) PendingRequests(ctx context.Context, userID uuid.UUID) (PendingRequestsDTO, error) {
	var received []FriendDTO
	err := r.DB(ctx).
		Table("connections AS c").
		Select(friendColumns).
		Joins("JOIN users u ON u.id = c.user_a_id").
		Where("c.user_b_id = ? AND c.status = ?", userID, models.ConnectionStatusRequested).
		Order("u.first_name ASC, u.last_name ASC").
		Scan(&received).
		Error
	if err != nil {
		return PendingRequestsDTO{}, err
	}

	var sent []FriendDTO
	err = r.DB(ctx).
		Table("connections AS c").
		Select(friendColumns).
		Joins("JOIN users u ON u.id = c.user_b_id").
		Where("c.user_a_id = ? AND c.status = ?", userID, models.ConnectionStatusRequested).
		Order("u.first_name ASC, u.last_name ASC").
		Scan(&sent).
		Error
	if err != nil {
		return PendingRequestsDTO{}, err
	}

	return PendingRequestsDTO{Received: received, Sent: sent}, nil
}

// CountPending returns the totals behind PendingRequests without loading rows.
func (r *Repository) CountPending(ctx context.Context, userID uuid.UUID) (PendingCountsDTO, error) {
	var counts PendingCountsDTO

	err := r.DB(ctx).
		Model(&models.Connection{}).
		Where("user_b_id = ? AND status = ?", userID, models.ConnectionStatusRequested).
		Count(&counts.Received).
		Error
	if err != nil {
		return PendingCountsDTO{}, err
	}

	err = r.DB(ctx).
		Model(&models.Connection{}).
		Where("user_a_id = ? AND status = ?", userID, models.ConnectionStatusRequested).
		Count(&counts.Sent).
		Error
	if err != nil {
		return PendingCountsDTO{}, err
	}

	return counts, nil
}
