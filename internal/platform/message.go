// Package platform hands desktop notifications to whatever notification
// service the host runs.
package platform

import (
	"errors"
	"time"
)

// AppName is reported to notification services that group by application.
const AppName = "colorby"

// DefaultTimeout applies when a Message leaves Timeout unset.
const DefaultTimeout = 5 * time.Second

// ErrUnsupported is returned by Send on hosts without a notification backend.
var ErrUnsupported = errors.New("desktop notifications are not supported on this platform")

// Message is one desktop notification.
type Message struct {
	Title    string
	Subtitle string
	Body     string
	// IconPath names an image file shown next to the text. Backends that
	// cannot show images ignore it.
	IconPath string
	// Category is a freedesktop hint such as "transfer.complete".
	Category string
	Sound    bool
	Timeout  time.Duration
}

func (m Message) timeout() time.Duration {
	if m.Timeout <= 0 {
		return DefaultTimeout
	}
	return m.Timeout
}

// text folds the subtitle into the body for backends with only two lines.
func (m Message) text() string {
	switch {
	case m.Subtitle == "":
		return m.Body
	case m.Body == "":
		return m.Subtitle
	}
	return m.Subtitle + "\n" + m.Body
}
