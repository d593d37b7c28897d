package model

import "time"

// Message is one entry in an order's chat thread.
type Message struct {
	ID        int64
	OrderID   string
	UserID    *int64
	Content   string
	IsAdmin   bool
	IsRead    bool
	CreatedAt time.Time
}
