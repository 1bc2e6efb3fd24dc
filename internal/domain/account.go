package domain

import "time"

type Account struct {
	ID          string
	Email       string
	DisplayName string
	IMAPHost    string
	IMAPPort    int
	UseTLS      bool
	CreatedAt   time.Time
}
