package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderer_LoadsEveryPage(t *testing.T) {
	tr := requireTemplateRenderer(t)

	for _, name := range []string{"layout", "upload-panel"} {
		assert.NotNil(t, tr.t.Lookup(name), name)
	}
	for page := range contentTemplates {
		assert.NotNil(t, tr.t.Lookup(ContentTemplateFor(page)), page)
	}
}

func TestTemplateRenderer_FailedRenderWritesNothing(t *testing.T) {
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fstest.MapFS{
		"layout.tmpl":      {Data: []byte(`{{define "layout"}}<p>{{.Missing.Field}}</p>{{end}}`)},
		"pages/x.tmpl":     {Data: []byte(`{{define "x-content"}}ok{{end}}`)},
		"partials/pp.tmpl": {Data: []byte(`{{define "pp"}}{{end}}`)},
	}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	assert.NoError(t, tr.Render(rec, "x-content", nil))
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	assert.Error(t, tr.RenderStatus(rec, http.StatusOK, "missing", nil))
	assert.Zero(t, rec.Body.Len())
}

func TestNewTemplateRenderer_RequiresFS(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	assert.Error(t, err)
}
