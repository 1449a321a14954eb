package platform

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

// toastXML renders m as a ToastGeneric payload.
func toastXML(m Message) string {
	var b bytes.Buffer
	b.WriteString(`<toast><visual><binding template="ToastGeneric">`)
	for _, line := range []string{m.Title, m.Subtitle, m.Body} {
		if line == "" {
			continue
		}
		b.WriteString("<text>")
		_ = xml.EscapeText(&b, []byte(line))
		b.WriteString("</text>")
	}
	if m.IconPath != "" {
		b.WriteString(`<image placement="appLogoOverride" src="`)
		_ = xml.EscapeText(&b, []byte(m.IconPath))
		b.WriteString(`"/>`)
	}
	b.WriteString("</binding></visual>")
	if !m.Sound {
		b.WriteString(`<audio silent="true"/>`)
	}
	b.WriteString("</toast>")
	return b.String()
}

// powershellToast wraps toastXML in a script that loads it through the
// WinRT XmlDocument and shows it under AppName.
func powershellToast(m Message) string {
	lines := []string{
		`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=WindowsRuntime] > $null`,
		`[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType=WindowsRuntime] > $null`,
		`$doc = New-Object Windows.Data.Xml.Dom.XmlDocument`,
		`$doc.LoadXml(` + psQuote(toastXML(m)) + `)`,
		`$toast = New-Object Windows.UI.Notifications.ToastNotification $doc`,
		`$toast.ExpirationTime = [DateTimeOffset]::Now.AddSeconds(` + strconv.Itoa(int(m.timeout().Seconds())) + `)`,
		`[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(` + psQuote(AppName) + `).Show($toast)`,
	}
	return strings.Join(lines, "; ")
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// appleScript builds an osascript "display notification" statement.
func appleScript(m Message) string {
	title := m.Title
	if title == "" {
		title = AppName
	}
	var b strings.Builder
	b.WriteString("display notification " + asQuote(m.Body) + " with title " + asQuote(title))
	if m.Subtitle != "" {
		b.WriteString(" subtitle " + asQuote(m.Subtitle))
	}
	if m.Sound {
		b.WriteString(` sound name "Glass"`)
	}
	return b.String()
}

func asQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
