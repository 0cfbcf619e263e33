package tui

import (
	"strings"

	"github.com/oguzhankoral/fcrm/internal/notify"
)

// ToastExpiredMsg is forwarded into the program when a notification's
// timer fires. The queue has already removed the entry; the message
// only forces a redraw.
type ToastExpiredMsg struct {
	ID string
}

var toastIcons = map[notify.Severity]string{
	notify.Success: "✓",
	notify.Error:   "✗",
	notify.Info:    "i",
	notify.Warning: "!",
}

// renderToasts renders the live notifications as a strip of lines,
// oldest first. Returns "" when there is nothing to show.
func renderToasts(q *notify.Queue, width int) string {
	toasts := q.List()
	if len(toasts) == 0 {
		return ""
	}

	var b strings.Builder
	for i, n := range toasts {
		if i > 0 {
			b.WriteString("\n")
		}
		icon := toastIcons[n.Severity]
		line := " " + ToastStyle(n.Severity).Render(icon) + " " + normalStyle.Render(truncStr(n.Message, max(width-6, 10)))
		b.WriteString(line)
	}
	return b.String()
}
