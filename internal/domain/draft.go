package domain

import "time"

// Draft is a message synced from or uploaded to the drafts folder.
// Drafts bypass the enrichment pipeline entirely.
type Draft struct {
	ID        string
	AccountID string
	UID       uint32
	MessageID string
	To        []Address
	CC        []Address
	Subject   string
	BodyText  string
	Date      time.Time
	CreatedAt time.Time
}
