package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScreenshotKey(t *testing.T) {
	now := time.Unix(1700000000, 123)
	assert.Equal(t, "1700000000000000123-offer_letter.png", ScreenshotKey(now, "offer_letter.png"))
	assert.Equal(t, "1700000000000000123-my_screen_shot_.png", ScreenshotKey(now, "my screen shot!.png"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"":                  "upload",
		"../../etc/passwd":  "passwd",
		`C:\Users\me\a.jpg`: "a.jpg",
		".hidden":           "hidden",
		"résumé.png":        "r_sum_.png",
		"ok-name_1.PNG":     "ok-name_1.PNG",
		"dir/":              "dir",
		"...":               "upload",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}
