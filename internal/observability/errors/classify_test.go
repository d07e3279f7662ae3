package errors

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Empty(t, Classify(nil))
	assert.Equal(t, "deadline_exceeded", Classify(fmt.Errorf("call: %w", context.DeadlineExceeded)))
	assert.Equal(t, "canceled", Classify(context.Canceled))
	assert.Equal(t, "errors_errorstring", Classify(fmt.Errorf("wrap: %w", errors.New("boom"))))

	uerr := &url.Error{Op: "Post", URL: "http://x", Err: errors.New("refused")}
	assert.Equal(t, "errors_errorstring", Classify(uerr), "unwraps to the innermost error")
	assert.Equal(t, "url_error", Classify(&url.Error{Op: "Get", URL: "x"}))
}
