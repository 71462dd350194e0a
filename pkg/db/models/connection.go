package models

import (
	"time"

	"github.com/google/uuid"
)

// ConnectionStatus is the lifecycle state of a friend edge.
type ConnectionStatus string

const (
	ConnectionStatusRequested ConnectionStatus = "Requested"
	ConnectionStatusAccepted  ConnectionStatus = "Accepted"
)

func (s ConnectionStatus) IsValid() bool {
	switch s {
	case ConnectionStatusRequested, ConnectionStatusAccepted:
		return true
	}
	return false
}

// Connection is a directed social edge: user A requested user B. The ordered
// pair is unique; the only transition written by handlers is absent ->
// Requested. Accepted rows come from seed data.
type Connection struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserAID   uuid.UUID        `gorm:"type:uuid;column:user_a_id;not null;uniqueIndex:uq_connections_pair"`
	UserBID   uuid.UUID        `gorm:"type:uuid;column:user_b_id;not null;uniqueIndex:uq_connections_pair"`
	Status    ConnectionStatus `gorm:"type:text;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`

	UserA *User `gorm:"foreignKey:UserAID"`
	UserB *User `gorm:"foreignKey:UserBID"`
}
