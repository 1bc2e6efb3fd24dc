package notify

import (
	"fmt"
	"log"

	"github.com/godbus/dbus/v5"
)

const (
	notifyInterface = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
)

// DBusNotifier sends desktop notifications over the session bus using
// the freedesktop.org notification service.
type DBusNotifier struct {
	conn *dbus.Conn
}

// NewDesktopNotifier returns a D-Bus backed Notifier, or Nop when the
// session bus is unavailable (headless environments, CI).
func NewDesktopNotifier() Notifier {
	conn, err := dbus.SessionBus()
	if err != nil {
		log.Printf("[notify] session bus unavailable, notifications disabled: %v", err)
		return Nop{}
	}
	return &DBusNotifier{conn: conn}
}

// Notify delivers one notification. The call is synchronous but quick;
// errors are returned for the caller to log.
func (d *DBusNotifier) Notify(n Notification) error {
	obj := d.conn.Object(notifyInterface, dbus.ObjectPath(notifyPath))

	hints := map[string]dbus.Variant{}
	if n.Sound {
		hints["sound-name"] = dbus.MakeVariant("message-new-email")
	}

	call := obj.Call(notifyInterface+".Notify", 0,
		"mailsift",     // app name
		uint32(0),      // no notification to replace
		"mail-unread",  // icon
		n.Title,
		n.Message,
		[]string{},     // no actions
		hints,
		int32(-1),      // server-default expiry
	)
	if call.Err != nil {
		return fmt.Errorf("failed to send notification: %w", call.Err)
	}
	return nil
}
