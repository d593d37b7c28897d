package model

import "time"

// AdminGrant authorizes a user identity to perform moderation actions.
type AdminGrant struct {
	ID        int64
	UserID    int64
	GrantedAt time.Time
	GrantedBy int64
}
