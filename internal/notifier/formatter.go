package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// FormatAlert formats a dashboard alert for Telegram's HTML parse mode.
func FormatAlert(msg string, at time.Time) string {
	var b strings.Builder
	icon := "ℹ️"
	if strings.Contains(msg, "error") || strings.HasPrefix(msg, "Failed") {
		icon = "❌"
	}
	b.WriteString(fmt.Sprintf("%s <b>StockDash</b> | %s\n\n", icon, at.Format("2006-01-02 15:04")))
	b.WriteString(html.EscapeString(msg))
	return b.String()
}
