package domain

import "time"

// Contact is an auto-collected correspondent.
type Contact struct {
	ID         string
	Email      string
	Name       string
	TimesSeen  int
	LastSeenAt time.Time
}
