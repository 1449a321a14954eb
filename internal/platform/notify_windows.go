//go:build windows

package platform

import "os/exec"

// Send shows m as a toast.
func Send(m Message) error {
	return exec.Command("powershell.exe", "-NoProfile", "-NonInteractive", "-Command", powershellToast(m)).Run()
}
