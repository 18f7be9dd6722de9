package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resumematch/resumematch/internal/document"
	"github.com/resumematch/resumematch/internal/document/repository"
	"github.com/resumematch/resumematch/internal/document/service"
	"github.com/resumematch/resumematch/internal/extract"
	"github.com/resumematch/resumematch/pkg/logger"
)

// DefaultMaxUploadBytes bounds a single uploaded file.
const DefaultMaxUploadBytes int64 = 10 << 20

type Handler struct {
	svc       service.Service
	maxUpload int64
}

func New(svc service.Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{svc: svc, maxUpload: maxUploadBytes}
}

// RegisterDocumentRoutes mounts ingestion and lookup routes per document kind,
// plus the match route.
func RegisterDocumentRoutes(r gin.IRouter, svc service.Service, maxUploadBytes int64) {
	New(svc, maxUploadBytes).Register(r)
}

func (h *Handler) Register(r gin.IRouter) {
	for _, kind := range []document.Kind{document.KindResume, document.KindJobDescription} {
		g := r.Group("/" + kind.Route())
		g.POST("/extract-experience-skills/", h.ingest(kind))
		g.GET("/documents", h.list(kind))
		g.GET("/documents/:id", h.get(kind))
		g.GET("/documents/:id/file", h.original(kind))
	}
	r.GET("/match/", h.match)
}

func (h *Handler) ingest(kind document.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
			return
		}
		if fh.Size > h.maxUpload {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d bytes", h.maxUpload)})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		res, err := h.svc.Ingest(c.Request.Context(), service.Upload{Kind: kind, FileName: fh.Filename, Data: data})
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"document_id":         res.Record.ID,
			"answer":              res.Answer,
			"years_of_experience": res.Record.YearsOfExperience,
			"technical_skills":    res.Record.TechnicalSkills,
			"extraction_status":   res.Record.ExtractionStatus,
		})
	}
}

func (h *Handler) match(c *gin.Context) {
	q := service.MatchQuery{
		ResumeFilename: c.Query("resume_filename"),
		JobFilename:    c.Query("jd_filename"),
		ResumeID:       c.Query("resume_id"),
		JobID:          c.Query("jd_id"),
	}
	res, err := h.svc.Match(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"resume_file":          res.ResumeFile,
		"job_description_file": res.JobDescriptionFile,
		"match_percentage":     res.MatchPercentage,
		"resume_id":            res.ResumeID,
		"job_description_id":   res.JobDescriptionID,
	})
}

func (h *Handler) get(kind document.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := h.svc.Get(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func (h *Handler) list(kind document.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := h.svc.ListByFilename(c.Request.Context(), kind, c.Query("file_name"))
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func (h *Handler) original(kind document.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, rc, err := h.svc.Original(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			h.fail(c, err)
			return
		}
		defer rc.Close()
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.FileName))
		c.DataFromReader(http.StatusOK, -1, service.ContentType(rec.FileName), rc, nil)
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		logger.Debugf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// StatusFor maps pipeline errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat),
		errors.Is(err, extract.ErrDecode),
		errors.Is(err, service.ErrEmptyExtraction),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrNoObjectStore):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCollaborator):
		return http.StatusBadGateway
	case errors.Is(err, repository.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	// scorer failures, including degenerate input, land here
	return http.StatusInternalServerError
}
