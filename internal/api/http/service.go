package http

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"aperture/internal/adapters/ai"
	"aperture/internal/domain/photo"
	"aperture/internal/services/analysis"
	"aperture/internal/services/credentials"
	"aperture/pkg/logger"
)

// Service is the thin HTTP transport over the orchestration core. Handlers
// only adapt multipart/JSON to core types; all control flow lives in the
// engine and scheduler.
type Service struct {
	log       *logger.Logger
	factory   *ai.Factory
	engine    *analysis.Engine
	scheduler *analysis.BatchScheduler
	creds     *credentials.Store
	maxUpload int64
}

// NewService creates the API service.
func NewService(
	log *logger.Logger,
	factory *ai.Factory,
	engine *analysis.Engine,
	scheduler *analysis.BatchScheduler,
	creds *credentials.Store,
	maxUpload int64,
) *Service {
	return &Service{
		log:       log,
		factory:   factory,
		engine:    engine,
		scheduler: scheduler,
		creds:     creds,
		maxUpload: maxUpload,
	}
}

// Register mounts the API routes.
func (s *Service) Register(router *gin.RouterGroup) {
	router.GET("/providers", s.handleListProviders)
	router.GET("/credentials/:provider", s.handleCredentialStatus)
	router.PUT("/credentials/:provider", s.handleStoreCredential)
	router.DELETE("/credentials/:provider", s.handleClearCredential)
	router.POST("/connection/test", s.handleTestConnection)
	router.POST("/analyze", s.handleAnalyze)
	router.POST("/batch", s.handleBatch)
}

func (s *Service) handleListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": s.factory.ListProviders()})
}

type credentialRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

func (s *Service) handleStoreCredential(c *gin.Context) {
	providerID, ok := s.providerID(c)
	if !ok {
		return
	}

	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "api_key is required"})
		return
	}

	if err := s.creds.StoreAPIKey(c.Request.Context(), providerID, req.APIKey); err != nil {
		s.log.Errorw("failed to store credential", "provider", providerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store credential"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Service) handleClearCredential(c *gin.Context) {
	providerID, ok := s.providerID(c)
	if !ok {
		return
	}

	if err := s.creds.ClearAPIKey(c.Request.Context(), providerID); err != nil {
		s.log.Errorw("failed to clear credential", "provider", providerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear credential"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Service) handleCredentialStatus(c *gin.Context) {
	providerID, ok := s.providerID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider":   providerID,
		"configured": s.creds.HasAPIKey(c.Request.Context(), providerID),
	})
}

func (s *Service) handleTestConnection(c *gin.Context) {
	status := s.engine.TestConnection(c.Request.Context())

	httpStatus := http.StatusOK
	if !status.OK {
		httpStatus = http.StatusBadGateway
	}
	c.JSON(httpStatus, status)
}

func (s *Service) handleAnalyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)

	image, mimeType, ok := s.readImage(c, "image")
	if !ok {
		return
	}

	s.log.Infow("analyze request", "size", humanize.Bytes(uint64(len(image))), "mime", mimeType)

	ctxFields := formContext(c)
	result := s.engine.Analyze(c.Request.Context(), image, mimeType, ctxFields)

	c.JSON(http.StatusOK, result)
}

type batchResponse struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []*ai.Result `json:"results"`
}

func (s *Service) handleBatch(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one image is required"})
		return
	}

	photos := make([]analysis.Photo, 0, len(files))
	for _, fh := range files {
		image, mimeType, err := readFileHeader(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image: " + fh.Filename})
			return
		}
		photos = append(photos, analysis.Photo{Image: image, MIMEType: mimeType})
	}

	results := s.scheduler.AnalyzeBatch(c.Request.Context(), photos, nil)

	resp := batchResponse{Total: len(results), Results: results}
	for _, r := range results {
		if r.Succeeded {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	c.JSON(http.StatusOK, resp)
}

// providerID validates the :provider path parameter against the closed set.
func (s *Service) providerID(c *gin.Context) (string, bool) {
	providerID := ai.NormalizeProviderName(c.Param("provider"))
	if _, err := s.factory.Resolve(providerID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider: " + providerID})
		return "", false
	}
	return providerID, true
}

// readImage pulls one uploaded image out of the multipart form.
func (s *Service) readImage(c *gin.Context, field string) ([]byte, string, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " file is required"})
		return nil, "", false
	}

	image, mimeType, err := readFileHeader(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image"})
		return nil, "", false
	}
	return image, mimeType, true
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

// formContext projects the non-file form fields into a photo context so
// hosts can pass camera/GPS/exposure values alongside the image.
func formContext(c *gin.Context) photo.Context {
	fields := photo.MapContext{}
	if c.Request.MultipartForm == nil {
		return fields
	}
	for key, values := range c.Request.MultipartForm.Value {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	return fields
}
