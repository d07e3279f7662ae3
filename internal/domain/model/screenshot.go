package model

import (
	"path"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const maxFilenameRunes = 120

// ScreenshotKey builds the storage key "<unix-nanos>-<filename>" for an upload.
func ScreenshotKey(now time.Time, filename string) string {
	return strconv.FormatInt(now.UnixNano(), 10) + "-" + SanitizeFilename(filename)
}

// SanitizeFilename keeps the base name and replaces characters outside
// [A-Za-z0-9._-] with '_'. Leading dots are dropped.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "." || name == "/" {
		return "upload"
	}

	var b strings.Builder
	n := 0
	for _, r := range name {
		if n >= maxFilenameRunes {
			break
		}
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
		n++
	}
	if out := strings.TrimLeft(b.String(), "."); out != "" {
		return out
	}
	return "upload"
}
