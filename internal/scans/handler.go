package scans

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"findmyjob-backend/internal/jobs"
	"findmyjob-backend/internal/matching"
	"findmyjob-backend/internal/resumes"
	"findmyjob-backend/internal/shared/server/middleware"
	"findmyjob-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	MaxBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxBytes int64) *Handler {
	return &Handler{Svc: svc, MaxBytes: maxBytes}
}

// RegisterUploadRoute attaches the original POST /upload endpoint.
func (h *Handler) RegisterUploadRoute(r gin.IRoutes, upload ...gin.HandlerFunc) {
	r.POST("/upload", append(upload, h.run)...)
}

// RegisterRoutes attaches scan routes to the API group. upload handlers run
// ahead of the endpoints that accept files or start scans.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, upload ...gin.HandlerFunc) {
	rg.POST("/scans", append(upload, h.run)...)
	rg.POST("/resumes/:id/scans", append(upload, h.start)...)
	rg.GET("/scans", h.list)
	rg.GET("/scans/:id", h.get)
	rg.POST("/matches", h.matches)
	rg.GET("/jobs", h.searchJobs)
}

func (h *Handler) run(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	fileHeader, file, ok := resumes.FormFile(c, h.MaxBytes)
	if !ok {
		return
	}
	defer file.Close()

	scan, err := h.Svc.Run(c.Request.Context(), userID, fileHeader.Filename, file)
	if scan.ID != "" {
		c.Set("scanId", scan.ID)
		c.Set("resumeId", scan.ResumeID)
	}
	if err != nil {
		resumes.RespondUploadError(c, err, h.MaxBytes)
		return
	}
	c.Set("statusTransition", "processing->completed")

	respond.OK(c, scan.Result)
}

func (h *Handler) start(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	scan, err := h.Svc.Start(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.NotFound(c, "resume not found")
		case errors.Is(err, resumes.ErrInvalidInput):
			respond.BadRequest(c, "resume id is required", nil)
		case errors.Is(err, ErrQueueUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, respond.CodeQueueUnavailable, "scan queue unavailable, try again later", nil)
		default:
			respond.Internal(c)
		}
		return
	}
	c.Set("scanId", scan.ID)
	c.Set("resumeId", scan.ResumeID)
	c.Set("statusTransition", "->queued")

	respond.Accepted(c, gin.H{"scanId": scan.ID, "status": scan.Status})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	scan, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.NotFound(c, "scan not found")
		case errors.Is(err, ErrInvalidInput):
			respond.BadRequest(c, err.Error(), nil)
		default:
			respond.Internal(c)
		}
		return
	}
	respond.OK(c, toResponse(scan))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit, offset := resumes.Paging(c)

	list, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Internal(c)
		return
	}

	resp := make([]ScanResponse, 0, len(list))
	for _, scan := range list {
		resp = append(resp, toResponse(scan))
	}
	respond.OK(c, resp)
}

func (h *Handler) matches(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Skills) == "" {
		respond.BadRequest(c, "skills is required", nil)
		return
	}

	respond.OK(c, gin.H{
		"skills":  matching.PreprocessSkills(req.Skills),
		"matches": h.Svc.Suggest(req.Skills),
	})
}

func (h *Handler) searchJobs(c *gin.Context) {
	q := jobs.Query{
		Keyword:    strings.TrimSpace(c.Query("keyword")),
		Location:   c.Query("location"),
		Experience: -1,
	}
	if q.Keyword == "" {
		respond.BadRequest(c, "keyword is required", nil)
		return
	}
	if v := c.Query("experience"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respond.BadRequest(c, "experience must be a non-negative integer", nil)
			return
		}
		q.Experience = parsed
	}
	if v := c.Query("pages"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respond.BadRequest(c, "pages must be a positive integer", nil)
			return
		}
		q.Pages = parsed
	}

	var defaults jobs.Query
	if h.Svc.Searcher != nil {
		defaults = h.Svc.Searcher.Defaults()
	}

	respond.OK(c, gin.H{
		"query":   q.Normalize(defaults),
		"results": h.Svc.SearchJobs(c.Request.Context(), q),
	})
}
