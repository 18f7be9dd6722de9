package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"github.com/resumematch/resumematch/internal/config"
	"github.com/resumematch/resumematch/internal/document"
	"github.com/resumematch/resumematch/internal/document/repository"
	"github.com/resumematch/resumematch/internal/document/service"
	"github.com/resumematch/resumematch/pkg/metrics"
)

type echoGenerator struct{}

func (echoGenerator) GenerateContent(context.Context, string) (string, error) {
	return "Years of Experience: 3\nSkills: Go", nil
}

type unitEmbedder struct{}

func (unitEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1}
	}
	return out, nil
}

type downRepo struct{ *repository.MemoryRepo }

func (downRepo) Ping(context.Context) error { return repository.ErrStoreUnavailable }

func testRouter(t *testing.T, resumes repository.Repository) http.Handler {
	t.Helper()
	svc, err := service.New(service.Deps{
		Generator: echoGenerator{},
		Embedder:  unitEmbedder{},
		Resumes:   resumes,
		Jobs:      repository.NewMemoryRepo(),
	})
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)
	cfg := &config.Config{Server: config.ServerConfig{MaxUploadBytes: 1 << 20}}
	return newRouter(cfg, &runtimeDeps{svc: svc}, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestOperationalEndpoints(t *testing.T) {
	r := testRouter(t, repository.NewMemoryRepo())

	w := serve(r, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", w.Body.String())

	w = serve(r, "/ready")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status string          `json:"status"`
		Deps   map[string]bool `json:"deps"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "ready", body.Status)
	require.True(t, body.Deps["storage"])

	metrics.MatchTotal.WithLabelValues("ok").Add(0)
	w = serve(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "resumematch_match_total")

	require.Equal(t, http.StatusOK, serve(r, "/swagger/doc.json").Code)
}

func TestReadyReportsStoreDown(t *testing.T) {
	r := testRouter(t, downRepo{repository.NewMemoryRepo()})
	w := serve(r, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), "not_ready")
}

func TestDocumentRoutesMounted(t *testing.T) {
	resumes := repository.NewMemoryRepo()
	require.NoError(t, resumes.Insert(context.Background(), &document.Record{ID: "r1", FileName: "cv.txt", AllContent: "Go"}))
	r := testRouter(t, resumes)

	require.Equal(t, http.StatusOK, serve(r, "/resume/documents/r1").Code)
	require.Equal(t, http.StatusNotFound, serve(r, "/match/?resume_filename=cv.txt&jd_filename=jd.txt").Code)
}
