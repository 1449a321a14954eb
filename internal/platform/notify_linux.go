//go:build linux

package platform

import (
	"github.com/godbus/dbus/v5"
)

const (
	notifyDest = "org.freedesktop.Notifications"
	notifyPath = dbus.ObjectPath("/org/freedesktop/Notifications")
)

// hints maps m onto the optional freedesktop hint dictionary.
func hints(m Message) map[string]dbus.Variant {
	h := map[string]dbus.Variant{}
	if m.Category != "" {
		h["category"] = dbus.MakeVariant(m.Category)
	}
	if m.Sound {
		h["sound-name"] = dbus.MakeVariant("complete")
	} else {
		h["suppress-sound"] = dbus.MakeVariant(true)
	}
	return h
}

// Send delivers m over the session bus.
func Send(m Message) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	var id uint32
	return conn.Object(notifyDest, notifyPath).Call(notifyDest+".Notify", 0,
		AppName, uint32(0), m.IconPath, m.Title, m.text(), []string{}, hints(m), int32(m.timeout().Milliseconds()),
	).Store(&id)
}
