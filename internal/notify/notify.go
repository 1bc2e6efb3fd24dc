package notify

// Notification is a desktop alert about a newly arrived message.
type Notification struct {
	Title   string
	Message string
	Sound   bool
}

// Notifier delivers desktop notifications. Delivery is best-effort;
// callers log failures and move on.
type Notifier interface {
	Notify(n Notification) error
}

// Nop is a Notifier that silently drops everything. Used when no
// session bus is available or notifications are disabled.
type Nop struct{}

func (Nop) Notify(Notification) error { return nil }
