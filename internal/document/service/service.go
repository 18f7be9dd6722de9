// Package service runs the ingestion and matching pipelines over the
// document repositories and the language-model collaborators.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resumematch/resumematch/internal/document"
	"github.com/resumematch/resumematch/internal/document/repository"
	"github.com/resumematch/resumematch/internal/extract"
	"github.com/resumematch/resumematch/internal/fields"
	"github.com/resumematch/resumematch/internal/llm"
	"github.com/resumematch/resumematch/internal/similarity"
	"github.com/resumematch/resumematch/internal/storage"
	"github.com/resumematch/resumematch/pkg/logger"
	"github.com/resumematch/resumematch/pkg/metrics"
)

var (
	ErrEmptyExtraction = errors.New("no text could be extracted from the document")
	ErrCollaborator    = errors.New("collaborator failure")
	ErrEmptyContent    = errors.New("stored document has empty content")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrNoObjectStore   = errors.New("object storage not configured")
)

// Service is the pipeline used by the HTTP handlers.
type Service interface {
	Ingest(ctx context.Context, up Upload) (*IngestResult, error)
	Match(ctx context.Context, q MatchQuery) (*MatchResult, error)
	Get(ctx context.Context, kind document.Kind, id string) (*document.Record, error)
	ListByFilename(ctx context.Context, kind document.Kind, name string) ([]*document.Record, error)
	Original(ctx context.Context, kind document.Kind, id string) (*document.Record, io.ReadCloser, error)
	Ready(ctx context.Context) error
}

// ObjectStore archives the original upload bytes.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) error
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
}

// ScoreCache remembers match percentages per record pair.
type ScoreCache interface {
	Get(ctx context.Context, resumeID, jobID string) (float64, bool, error)
	Set(ctx context.Context, resumeID, jobID string, score float64) error
}

// Deps are the collaborators of the pipeline. Objects and Cache are optional.
type Deps struct {
	Generator llm.Generator
	Embedder  llm.Embedder
	Resumes   repository.Repository
	Jobs      repository.Repository
	Objects   ObjectStore
	Cache     ScoreCache
	Now       func() time.Time
	NewID     func() string
}

// Upload is a single uploaded file.
type Upload struct {
	Kind     document.Kind
	FileName string
	Data     []byte
}

type IngestResult struct {
	Record *document.Record
	Answer string
}

// MatchQuery selects each side by ID when given, otherwise by filename.
type MatchQuery struct {
	ResumeFilename string
	JobFilename    string
	ResumeID       string
	JobID          string
}

type MatchResult struct {
	ResumeFile         string
	JobDescriptionFile string
	MatchPercentage    float64
	ResumeID           string
	JobDescriptionID   string
	Cached             bool
}

type pipeline struct {
	d Deps
}

// New validates deps and returns the pipeline.
func New(d Deps) (Service, error) {
	if d.Generator == nil || d.Embedder == nil {
		return nil, errors.New("generator and embedder are required")
	}
	if d.Resumes == nil || d.Jobs == nil {
		return nil, errors.New("resume and job description repositories are required")
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return &pipeline{d: d}, nil
}

func (p *pipeline) repo(kind document.Kind) (repository.Repository, error) {
	switch kind {
	case document.KindResume:
		return p.d.Resumes, nil
	case document.KindJobDescription:
		return p.d.Jobs, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, document.ErrUnknownKind)
}

// Ingest extracts, synthesizes, embeds and parses the upload, then writes one
// record. Nothing is persisted unless every step succeeds.
func (p *pipeline) Ingest(ctx context.Context, up Upload) (res *IngestResult, err error) {
	defer func() {
		metrics.IngestTotal.WithLabelValues(string(up.Kind), ingestOutcome(err)).Inc()
	}()

	repo, err := p.repo(up.Kind)
	if err != nil {
		return nil, err
	}
	format, err := extract.FormatFromFilename(up.FileName)
	if err != nil {
		return nil, err
	}
	segments, err := extract.Extract(up.Data, string(format))
	if err != nil {
		return nil, err
	}
	allContent := extract.Join(segments)
	if strings.TrimSpace(allContent) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyExtraction, up.FileName)
	}

	answer, err := llm.Synthesize(ctx, p.d.Generator, segments)
	if err != nil {
		return nil, fmt.Errorf("%w: text generation: %w", ErrCollaborator, err)
	}
	embedding, err := llm.EmbedOne(ctx, p.d.Embedder, allContent)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding: %w", ErrCollaborator, err)
	}
	f := fields.Parse(answer)

	rec := &document.Record{
		ID:                p.d.NewID(),
		Kind:              up.Kind,
		FileName:          up.FileName,
		AllContent:        allContent,
		YearsOfExperience: f.YearsOfExperience,
		TechnicalSkills:   f.Skills,
		Embedding:         embedding,
		ExtractionStatus:  string(f.Status),
		UploadedAt:        p.d.Now(),
	}

	if p.d.Objects != nil {
		key := storage.ObjectKey(string(up.Kind), rec.ID, up.FileName)
		if err := p.d.Objects.UploadFile(ctx, key, up.Data, contentType(format)); err != nil {
			return nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
		}
		rec.ObjectKey = key
	}
	if err := repo.Insert(ctx, rec); err != nil {
		return nil, err
	}

	metrics.ExtractionStatus.WithLabelValues(rec.ExtractionStatus).Inc()
	logger.With("kind", up.Kind, "file_name", up.FileName, "id", rec.ID, "status", rec.ExtractionStatus).
		Infow("document ingested", "segments", len(segments))
	if f.Status != fields.StatusExtracted {
		logger.Warnf("extraction %s for %s: answer=%q", f.Status, up.FileName, logger.Truncate(answer, 120))
	}
	return &IngestResult{Record: rec, Answer: answer}, nil
}

// Match looks up the résumé first; the job description store is only queried
// once the résumé is found.
func (p *pipeline) Match(ctx context.Context, q MatchQuery) (res *MatchResult, err error) {
	defer func() {
		outcome := matchOutcome(err)
		if err == nil && res.Cached {
			outcome = "cached"
		}
		metrics.MatchTotal.WithLabelValues(outcome).Inc()
		if err == nil {
			metrics.MatchPercentage.Observe(res.MatchPercentage)
		}
	}()

	resume, err := lookup(ctx, p.d.Resumes, "resume", q.ResumeID, q.ResumeFilename)
	if err != nil {
		return nil, err
	}
	job, err := lookup(ctx, p.d.Jobs, "job description", q.JobID, q.JobFilename)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(resume.AllContent) == "" {
		return nil, fmt.Errorf("%w: resume %q", ErrEmptyContent, resume.FileName)
	}
	if strings.TrimSpace(job.AllContent) == "" {
		return nil, fmt.Errorf("%w: job description %q", ErrEmptyContent, job.FileName)
	}

	res = &MatchResult{
		ResumeFile:         resume.FileName,
		JobDescriptionFile: job.FileName,
		ResumeID:           resume.ID,
		JobDescriptionID:   job.ID,
	}
	if p.d.Cache != nil {
		score, ok, cerr := p.d.Cache.Get(ctx, resume.ID, job.ID)
		if cerr != nil {
			logger.Warnf("match cache get: %v", cerr)
		} else if ok {
			res.MatchPercentage = score
			res.Cached = true
			return res, nil
		}
	}

	score, err := similarity.Score(resume.AllContent, job.AllContent)
	if err != nil {
		return nil, fmt.Errorf("score %s against %s: %w", resume.ID, job.ID, err)
	}
	res.MatchPercentage = score
	if p.d.Cache != nil {
		if cerr := p.d.Cache.Set(ctx, resume.ID, job.ID, score); cerr != nil {
			logger.Warnf("match cache set: %v", cerr)
		}
	}
	return res, nil
}

func lookup(ctx context.Context, repo repository.Repository, label, id, name string) (*document.Record, error) {
	var (
		rec *document.Record
		err error
	)
	switch {
	case id != "":
		rec, err = repo.GetByID(ctx, id)
	case name != "":
		rec, err = repo.GetByFilename(ctx, name)
	default:
		return nil, fmt.Errorf("%w: %s filename or id is required", ErrInvalidRequest, label)
	}
	if errors.Is(err, repository.ErrNotFound) {
		if id != "" {
			return nil, fmt.Errorf("%w: %s with id '%s'", err, label, id)
		}
		return nil, fmt.Errorf("%w: %s with filename '%s'", err, label, name)
	}
	return rec, err
}

func (p *pipeline) Get(ctx context.Context, kind document.Kind, id string) (*document.Record, error) {
	repo, err := p.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

func (p *pipeline) ListByFilename(ctx context.Context, kind document.Kind, name string) ([]*document.Record, error) {
	repo, err := p.repo(kind)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: file_name is required", ErrInvalidRequest)
	}
	return repo.ListByFilename(ctx, name)
}

// Original returns the archived upload of a record.
func (p *pipeline) Original(ctx context.Context, kind document.Kind, id string) (*document.Record, io.ReadCloser, error) {
	if p.d.Objects == nil {
		return nil, nil, ErrNoObjectStore
	}
	rec, err := p.Get(ctx, kind, id)
	if err != nil {
		return nil, nil, err
	}
	if rec.ObjectKey == "" {
		return nil, nil, fmt.Errorf("%w: no archived file for %s", repository.ErrNotFound, id)
	}
	rc, err := p.d.Objects.DownloadFile(ctx, rec.ObjectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	return rec, rc, nil
}

func (p *pipeline) Ready(ctx context.Context) error {
	if err := p.d.Resumes.Ping(ctx); err != nil {
		return err
	}
	return p.d.Jobs.Ping(ctx)
}

// ContentType is the MIME type archived objects are stored with.
func ContentType(name string) string {
	f, err := extract.FormatFromFilename(name)
	if err != nil {
		return "application/octet-stream"
	}
	return contentType(f)
}

func contentType(f extract.Format) string {
	switch f {
	case extract.PDF:
		return "application/pdf"
	case extract.DOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain; charset=utf-8"
	}
}

func ingestOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, extract.ErrUnsupportedFormat), errors.Is(err, ErrInvalidRequest):
		return "unsupported"
	case errors.Is(err, extract.ErrDecode):
		return "decode_error"
	case errors.Is(err, ErrEmptyExtraction):
		return "empty"
	case errors.Is(err, ErrCollaborator):
		return "collaborator_error"
	case errors.Is(err, repository.ErrStoreUnavailable):
		return "store_unavailable"
	}
	return "error"
}

func matchOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrEmptyContent):
		return "empty_content"
	case errors.Is(err, similarity.ErrDegenerateInput):
		return "degenerate"
	case errors.Is(err, repository.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid"
	}
	return "error"
}
