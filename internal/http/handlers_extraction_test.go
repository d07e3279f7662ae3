package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/applytrack/applytrack/internal/domain/model"
	"github.com/applytrack/applytrack/internal/mocks"
	"github.com/applytrack/applytrack/internal/service"
)

const screenshotURL = "https://store.example.com/screenshots/123-offer.png"

type extractionFixture struct {
	handlers *ExtractionHandlers
	client   *mocks.MockCompletionClient
	limiter  *mocks.MockRateLimiter
}

func newExtractionFixture(t *testing.T) extractionFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mocks.NewMockCompletionClient(ctrl)
	limiter := mocks.NewMockRateLimiter(ctrl)
	svc := service.NewExtractionService(service.ExtractionServiceOptions{Client: client, Limiter: limiter})
	return extractionFixture{handlers: &ExtractionHandlers{Svc: svc}, client: client, limiter: limiter}
}

func (f extractionFixture) post(body string, signedIn bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/parse-screenshot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signedIn {
		req = withSession(req, testSession(testUserID))
	}
	rec := httptest.NewRecorder()
	f.handlers.ParseScreenshot(rec, req)
	return rec
}

func TestExtractionHandlers_ParseScreenshot(t *testing.T) {
	t.Run("returns the completion message", func(t *testing.T) {
		f := newExtractionFixture(t)
		f.limiter.EXPECT().Allow(gomock.Any(), "extract:"+testUserID).Return(true, nil)
		f.client.EXPECT().Extract(gomock.Any(), screenshotURL).Return(&model.CompletionMessage{
			Role:    "assistant",
			Content: "```json\n{\"company\":\"Acme\"}\n```",
		}, nil)

		rec := f.post(`{"imageUrl":"`+screenshotURL+`"}`, true)

		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody(t, rec)
		assert.Equal(t, "assistant", out["role"])
		assert.Contains(t, out["content"], "Acme")
	})

	t.Run("anonymous callers are not rate limited", func(t *testing.T) {
		f := newExtractionFixture(t)
		f.client.EXPECT().Extract(gomock.Any(), screenshotURL).Return(&model.CompletionMessage{Role: "assistant", Content: "{}"}, nil)

		rec := f.post(`{"imageUrl":"`+screenshotURL+`"}`, false)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing image url", func(t *testing.T) {
		f := newExtractionFixture(t)
		rec := f.post(`{"imageUrl":"  "}`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Image URL is required", decodeBody(t, rec)["error"])
	})

	t.Run("rate limited", func(t *testing.T) {
		f := newExtractionFixture(t)
		f.limiter.EXPECT().Allow(gomock.Any(), gomock.Any()).Return(false, nil)

		rec := f.post(`{"imageUrl":"`+screenshotURL+`"}`, true)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "rate_limited", decodeBody(t, rec)["code"])
	})

	t.Run("no completion", func(t *testing.T) {
		f := newExtractionFixture(t)
		f.client.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(nil, nil)

		rec := f.post(`{"imageUrl":"`+screenshotURL+`"}`, false)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "No response from OpenAI", decodeBody(t, rec)["error"])
	})

	t.Run("upstream failure stays generic", func(t *testing.T) {
		f := newExtractionFixture(t)
		f.client.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(nil, errors.New("401 invalid api key sk-live"))

		rec := f.post(`{"imageUrl":"`+screenshotURL+`"}`, false)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", decodeBody(t, rec)["error"])
		assert.NotContains(t, rec.Body.String(), "sk-live")
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		f := newExtractionFixture(t)
		rec := f.post(`{"image":"x"}`, false)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
