package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account. Admins receive run-failure escalations; every
// user owns products and may receive weekly digests.
type User struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email                string             `json:"email" bson:"email"`
	Name                 string             `json:"name,omitempty" bson:"name,omitempty"`
	Role                 string             `json:"role" bson:"role"`
	NotificationsEnabled bool               `json:"notifications_enabled" bson:"notifications_enabled"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
