package resumes

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"findmyjob-backend/internal/shared/metrics"
	"findmyjob-backend/internal/shared/server/middleware"
	"findmyjob-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, upload ...gin.HandlerFunc) {
	rg.POST("/resumes", append(upload, h.upload)...)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
}

// FormFile reads the multipart "file" field under a body limit of maxBytes.
// On failure it writes the error response and returns ok=false.
func FormFile(c *gin.Context, maxBytes int64) (*multipart.FileHeader, multipart.File, bool) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	// Multipart framing needs some room on top of the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+64<<10)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.IncUploadRejected()
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeFileTooLarge, "file exceeds upload limit", gin.H{"maxBytes": maxBytes})
			return nil, nil, false
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "file is required", nil)
		return nil, nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return nil, nil, false
	}
	return fileHeader, file, true
}

// RespondUploadError maps upload failures onto the error envelope.
func RespondUploadError(c *gin.Context, err error, maxBytes int64) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		metrics.IncUploadRejected()
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	case errors.Is(err, ErrTooLarge):
		metrics.IncUploadRejected()
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeFileTooLarge, "file exceeds upload limit", gin.H{"maxBytes": maxBytes})
	case errors.Is(err, ErrUnsupportedType):
		metrics.IncUploadRejected()
		respond.Error(c, http.StatusUnsupportedMediaType, respond.CodeUnsupportedMedia, "only PDF, DOCX and plain text resumes are supported", nil)
	default:
		respond.Internal(c)
	}
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	maxBytes := h.Svc.maxBytes()

	fileHeader, file, ok := FormFile(c, maxBytes)
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		RespondUploadError(c, err, maxBytes)
		return
	}
	c.Set("resumeId", res.ID)

	respond.Created(c, ToResponse(res))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	res, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.NotFound(c, "resume not found")
		case errors.Is(err, ErrInvalidInput):
			respond.BadRequest(c, err.Error(), nil)
		default:
			respond.Internal(c)
		}
		return
	}
	respond.OK(c, ToResponse(res))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit, offset := Paging(c)

	list, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Internal(c)
		return
	}

	resp := make([]ResumeResponse, 0, len(list))
	for _, res := range list {
		resp = append(resp, ToResponse(res))
	}
	respond.OK(c, resp)
}

// Paging parses limit/offset query parameters (limit 1..50, default 20).
func Paging(c *gin.Context) (int, int) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
