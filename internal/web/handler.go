package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"findmyjob-backend/internal/resumes"
	"findmyjob-backend/internal/scans"
	"findmyjob-backend/internal/shared/metrics"
	"findmyjob-backend/internal/shared/server/middleware"
	"findmyjob-backend/internal/shared/telemetry"
)

//go:embed templates/*.html
var templateFS embed.FS

// Headlines are the hero headings, shown as a static list.
var Headlines = []string{
	"Find Your Job In One Click",
	"Get Matched Instantly",
}

const accept = ".pdf,.docx,.txt,application/pdf,application/vnd.openxmlformats-officedocument.wordprocessingml.document,text/plain"

var platformNames = map[string]string{
	"naukri": "Naukri.com",
	"adzuna": "Adzuna",
}

type page struct {
	Headlines []string
	Accept    string
	Platforms []string
	Error     string
	Result    *scans.Result
}

// Handler renders the landing page, the upload widget and the results display.
// With UploadEnabled false the form is rendered but submissions are not scanned.
type Handler struct {
	Scans         *scans.Service
	UploadEnabled bool
	MaxBytes      int64

	tmpl *template.Template
}

// NewHandler parses the embedded templates.
func NewHandler(svc *scans.Service, uploadEnabled bool, maxBytes int64) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{Scans: svc, UploadEnabled: uploadEnabled, MaxBytes: maxBytes, tmpl: tmpl}, nil
}

// RegisterRoutes installs the templates on the engine and attaches the page routes.
func (h *Handler) RegisterRoutes(r *gin.Engine, upload ...gin.HandlerFunc) {
	r.SetHTMLTemplate(h.tmpl)
	r.GET("/", h.landing)
	r.POST("/", append(upload, h.submit)...)
}

func (h *Handler) landing(c *gin.Context) {
	h.render(c, http.StatusOK, h.page())
}

func (h *Handler) submit(c *gin.Context) {
	if !h.UploadEnabled || h.Scans == nil {
		h.render(c, http.StatusOK, h.page())
		return
	}

	maxBytes := h.MaxBytes
	if maxBytes <= 0 {
		maxBytes = resumes.DefaultMaxBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+64<<10)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.IncUploadRejected()
			h.renderError(c, http.StatusRequestEntityTooLarge, "That file is too large.")
			return
		}
		// Submitting without a file leaves the page as it was.
		h.render(c, http.StatusOK, h.page())
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.renderError(c, http.StatusBadRequest, "Unable to read the file.")
		return
	}
	defer file.Close()

	scan, err := h.Scans.Run(c.Request.Context(), middleware.UserIDFromContext(c), fileHeader.Filename, file)
	if scan.ID != "" {
		c.Set("scanId", scan.ID)
		c.Set("resumeId", scan.ResumeID)
	}
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrUnsupportedType):
			metrics.IncUploadRejected()
			h.renderError(c, http.StatusUnsupportedMediaType, "Please upload a PDF, DOCX or plain text resume.")
		case errors.Is(err, resumes.ErrTooLarge):
			metrics.IncUploadRejected()
			h.renderError(c, http.StatusRequestEntityTooLarge, "That file is too large.")
		case errors.Is(err, resumes.ErrInvalidInput):
			metrics.IncUploadRejected()
			h.renderError(c, http.StatusBadRequest, "That file name is not allowed.")
		default:
			telemetry.Error("web.scan_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"error":      err,
			})
			h.renderError(c, http.StatusInternalServerError, "Something went wrong while scanning your resume.")
		}
		return
	}

	p := h.page()
	p.Result = scan.Result
	h.render(c, http.StatusOK, p)
}

func (h *Handler) page() page {
	p := page{Headlines: Headlines, Accept: accept}
	if h.Scans != nil && h.Scans.Searcher != nil {
		for _, name := range h.Scans.Searcher.Providers() {
			if display, ok := platformNames[name]; ok {
				p.Platforms = append(p.Platforms, display)
				continue
			}
			p.Platforms = append(p.Platforms, name)
		}
	}
	if len(p.Platforms) == 0 {
		p.Platforms = []string{platformNames["naukri"]}
	}
	return p
}

func (h *Handler) renderError(c *gin.Context, status int, msg string) {
	p := h.page()
	p.Error = msg
	h.render(c, status, p)
}

func (h *Handler) render(c *gin.Context, status int, p page) {
	c.HTML(status, "index.html", p)
}
