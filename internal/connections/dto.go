package connections

import (
	"time"

	"github.com/google/uuid"
)

// FriendDTO is the public projection of a user on the friends surfaces.
type FriendDTO struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CityID    uuid.UUID `json:"city_id"`
}

// RelationshipDTO reports how a relates to b for the ordered pair only.
type RelationshipDTO struct {
	IsFriend  bool `json:"is_friend"`
	IsPending bool `json:"is_pending"`
}

// PendingRequestsDTO holds both sides of a user's open requests.
type PendingRequestsDTO struct {
	Received []FriendDTO `json:"received"`
	Sent     []FriendDTO `json:"sent"`
}

// PendingCountsDTO is the login-time snapshot of open request totals.
type PendingCountsDTO struct {
	Received int64 `json:"received"`
	Sent     int64 `json:"sent"`
}

// FriendsOverviewDTO is the payload for the friends page.
type FriendsOverviewDTO struct {
	Friends []FriendDTO        `json:"friends"`
	Pending PendingRequestsDTO `json:"pending"`
}

// AddFriendResultDTO reports the outcome of a friend request.
type AddFriendResultDTO struct {
	Message     string    `json:"message"`
	RequestedAt time.Time `json:"requested_at"`
}
