// Package core holds the template helpers shared by every page.
package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/applytrack/applytrack/internal/domain/model"
)

// FriendlyDateTimeLayout is the local timestamp layout shown in tooltips and lists.
const FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"

// Deps holds dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	Now                func() time.Time
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"timeTag":      func(ts any) template.HTML { return timeTag(ts, now()) },
		"dateLabel":    DateLabel,
		"statusLabel":  StatusLabel,
		"statusClass":  StatusClass,
		"truncateText": TruncateText,
		"eq_ci":        strings.EqualFold,
	}
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - produced by ExecuteTemplate on the same trusted set; values are already escaped.
		return template.HTML(buf.String()), nil
	}
	return funcs
}

// FriendlyRelativeTime describes how long before now t occurred. Times in the
// future read as "just now"; anything older than a week is shown as a date.
func FriendlyRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	default:
		return t.Local().Format(FriendlyDateTimeLayout)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return strconv.Itoa(n) + " " + unit + "s ago"
}

func timeTag(ts any, now time.Time) template.HTML {
	var t0 time.Time
	switch v := ts.(type) {
	case time.Time:
		t0 = v
	case *time.Time:
		if v != nil {
			t0 = *v
		}
	}
	if t0.IsZero() {
		return ""
	}
	// #nosec G203 - every interpolated value is escaped or a fixed layout.
	return template.HTML(fmt.Sprintf(
		"<time datetime=\"%s\" title=\"%s\">%s</time>",
		t0.UTC().Format(time.RFC3339),
		template.HTMLEscapeString(t0.Local().Format(FriendlyDateTimeLayout)),
		template.HTMLEscapeString(FriendlyRelativeTime(t0, now)),
	))
}

// DateLabel formats an applied date, or returns a dash placeholder when it is unset.
func DateLabel(d *time.Time) string {
	if d == nil || d.IsZero() {
		return "—"
	}
	return d.Format(model.DateLayout)
}

// StatusLabel capitalizes a status for display.
func StatusLabel(s model.Status) string { return s.Label() }

// StatusClass maps a status to its badge class.
func StatusClass(s model.Status) string {
	switch s {
	case model.StatusApplied:
		return "badge-info"
	case model.StatusInterview:
		return "badge-warning"
	case model.StatusOffer:
		return "badge-success"
	case model.StatusRejected:
		return "badge-danger"
	default:
		return "badge-light"
	}
}

// TruncateText shortens s to n runes, ending in an ellipsis when cut.
func TruncateText(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
