//go:build darwin

package platform

import "os/exec"

// Send posts m to Notification Center. IconPath is ignored; osascript
// always shows the Script Editor icon.
func Send(m Message) error {
	return exec.Command("osascript", "-e", appleScript(m)).Run()
}
