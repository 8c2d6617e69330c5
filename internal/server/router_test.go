package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedutinova/docgen/internal/config"
	"github.com/fedutinova/docgen/internal/models"
	httpapi "github.com/fedutinova/docgen/internal/transport/http"
)

type noopGenerator struct{}

func (noopGenerator) Generate(ctx context.Context, req models.DocumentRequest) (*models.RenderedDocument, error) {
	return &models.RenderedDocument{Filename: "generated_document.pdf", Data: []byte("%PDF-1.4\n%%EOF\n"), Pages: 1}, nil
}

func newTestRouter() http.Handler {
	return NewRouter(&httpapi.Handlers{
		Generator: noopGenerator{},
		Config: config.Config{
			CORSOrigins: []string{"http://localhost:3000"},
		},
	})
}

func TestRouter_CORSPreflightAllowedOrigin(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/generate_document/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Custom")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRouter_CORSUnknownOrigin(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_GenerateSetsRequestIDAndAttachment(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/generate_document/", strings.NewReader(`{"user_input":"x"}`))
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "attachment; filename=generated_document.pdf", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
