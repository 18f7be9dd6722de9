package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumematch/resumematch/internal/document"
	"github.com/resumematch/resumematch/internal/document/repository"
	"github.com/resumematch/resumematch/internal/document/service"
	"github.com/resumematch/resumematch/internal/extract"
	"github.com/resumematch/resumematch/internal/similarity"
)

type stubGenerator struct{ err error }

func (s stubGenerator) GenerateContent(context.Context, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "Years of Experience: 7\nSkills: Go, Kubernetes", nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

type env struct {
	router  *gin.Engine
	resumes *repository.MemoryRepo
	jobs    *repository.MemoryRepo
}

func newEnv(t *testing.T, gen stubGenerator) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	e := &env{resumes: repository.NewMemoryRepo(), jobs: repository.NewMemoryRepo()}
	svc, err := service.New(service.Deps{Generator: gen, Embedder: stubEmbedder{}, Resumes: e.resumes, Jobs: e.jobs})
	require.NoError(t, err)
	e.router = gin.New()
	RegisterDocumentRoutes(e.router, svc, 1<<10)
	return e
}

func upload(t *testing.T, r http.Handler, path, name string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestIngestThenMatch(t *testing.T) {
	e := newEnv(t, stubGenerator{})

	w := upload(t, e.router, "/resume/extract-experience-skills/", "cv.txt", []byte("Go engineer\nKubernetes operator"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var ing map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ing))
	assert.NotEmpty(t, ing["document_id"])
	assert.Equal(t, "7", ing["years_of_experience"])
	assert.Equal(t, "Go, Kubernetes", ing["technical_skills"])
	assert.Equal(t, "extracted", ing["extraction_status"])
	assert.Contains(t, ing["answer"], "Skills:")

	w = upload(t, e.router, "/job-description/extract-experience-skills/", "jd.txt", []byte("Go engineer\nKubernetes operator"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = get(e.router, "/match/?resume_filename=cv.txt&jd_filename=jd.txt")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var m struct {
		ResumeFile         string  `json:"resume_file"`
		JobDescriptionFile string  `json:"job_description_file"`
		MatchPercentage    float64 `json:"match_percentage"`
		ResumeID           string  `json:"resume_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "cv.txt", m.ResumeFile)
	assert.Equal(t, "jd.txt", m.JobDescriptionFile)
	assert.InDelta(t, 100.0, m.MatchPercentage, 1e-9)
	assert.Equal(t, ing["document_id"], m.ResumeID)

	w = get(e.router, "/resume/documents/"+ing["document_id"])
	require.Equal(t, http.StatusOK, w.Code)
	var rec document.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "Go engineer\nKubernetes operator", rec.AllContent)
	assert.Equal(t, document.KindResume, rec.Kind)

	w = get(e.router, "/resume/documents?file_name=cv.txt")
	require.Equal(t, http.StatusOK, w.Code)
	var list []document.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestIngestErrors(t *testing.T) {
	tests := []struct {
		name   string
		gen    stubGenerator
		file   string
		data   []byte
		status int
	}{
		{name: "unsupported", file: "cv.rtf", data: []byte("x"), status: http.StatusBadRequest},
		{name: "empty txt", file: "cv.txt", data: nil, status: http.StatusBadRequest},
		{name: "bad docx", file: "cv.docx", data: []byte("not a zip"), status: http.StatusBadRequest},
		{name: "too large", file: "cv.txt", data: bytes.Repeat([]byte("a"), 2<<10), status: http.StatusRequestEntityTooLarge},
		{name: "generator down", gen: stubGenerator{err: errors.New("503 from upstream")}, file: "cv.txt", data: []byte("Go"), status: http.StatusBadGateway},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t, tc.gen)
			w := upload(t, e.router, "/resume/extract-experience-skills/", tc.file, tc.data)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			list, err := e.resumes.ListByFilename(context.Background(), tc.file)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestIngestMissingFile(t *testing.T) {
	e := newEnv(t, stubGenerator{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/resume/extract-experience-skills/", nil)
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMatchErrors(t *testing.T) {
	e := newEnv(t, stubGenerator{})
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, e.resumes.Insert(context.Background(), &document.Record{ID: "r1", FileName: "cv.txt", AllContent: "Golang developer", UploadedAt: at}))
	require.NoError(t, e.resumes.Insert(context.Background(), &document.Record{ID: "r2", FileName: "blank.txt", AllContent: "", UploadedAt: at}))
	require.NoError(t, e.resumes.Insert(context.Background(), &document.Record{ID: "r3", FileName: "stop.txt", AllContent: "the and of", UploadedAt: at}))
	require.NoError(t, e.jobs.Insert(context.Background(), &document.Record{ID: "j1", FileName: "jd.txt", AllContent: "Golang developer", UploadedAt: at}))

	tests := []struct {
		query  string
		status int
	}{
		{"resume_filename=missing.txt&jd_filename=jd.txt", http.StatusNotFound},
		{"resume_filename=cv.txt&jd_filename=missing.txt", http.StatusNotFound},
		{"resume_filename=blank.txt&jd_filename=jd.txt", http.StatusBadRequest},
		{"resume_filename=stop.txt&jd_filename=jd.txt", http.StatusInternalServerError},
		{"jd_filename=jd.txt", http.StatusBadRequest},
		{"resume_id=r1&jd_id=j1", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			w := get(e.router, "/match/?"+tc.query)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestGetUnknownRecord(t *testing.T) {
	e := newEnv(t, stubGenerator{})
	assert.Equal(t, http.StatusNotFound, get(e.router, "/job-description/documents/nope").Code)
	assert.Equal(t, http.StatusBadRequest, get(e.router, "/job-description/documents").Code)
	assert.Equal(t, http.StatusNotFound, get(e.router, "/resume/documents/nope/file").Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", extract.ErrUnsupportedFormat), http.StatusBadRequest},
		{fmt.Errorf("x: %w", extract.ErrDecode), http.StatusBadRequest},
		{service.ErrEmptyExtraction, http.StatusBadRequest},
		{service.ErrEmptyContent, http.StatusBadRequest},
		{repository.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: quota", service.ErrCollaborator), http.StatusBadGateway},
		{fmt.Errorf("%w: timeout", repository.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{fmt.Errorf("%w: bad field", repository.ErrMalformedRecord), http.StatusInternalServerError},
		{similarity.ErrDegenerateInput, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}
