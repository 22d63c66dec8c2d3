package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shelflens/backend/internal/domain"
	"github.com/shelflens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *usecase.ProductService
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(service *usecase.ProductService, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shelflens-backend",
		"version": "1.0.0",
	})
}

// searchRequest is the JSON body of a by-name lookup
type searchRequest struct {
	ProductName string `json:"productName" binding:"required"`
	Language    string `json:"language"`
	Currency    string `json:"currency"`
}

// SearchByName handles POST /api/v1/products/search
func (h *Handler) SearchByName(c *gin.Context) {
	var body searchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productName is required"})
		return
	}

	req := &domain.QueryRequest{
		Mode:        domain.QueryByName,
		ProductName: body.ProductName,
		Language:    defaultString(body.Language, "en-US"),
	}
	h.lookup(c, req, defaultString(body.Currency, "USD"))
}

// SearchByImage handles POST /api/v1/products/scan. It expects a multipart
// form with an "image" file plus optional "language" and "currency" fields.
func (h *Handler) SearchByImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	req := &domain.QueryRequest{
		Mode:          domain.QueryByImage,
		ImageData:     data,
		ImageMIMEType: mimeType,
		Language:      c.DefaultPostForm("language", "en-US"),
	}
	h.lookup(c, req, c.DefaultPostForm("currency", "USD"))
}

// lookup runs the retrieval and writes either the result or a single
// user-facing failure notification. No partial result is ever returned.
func (h *Handler) lookup(c *gin.Context, req *domain.QueryRequest, currency string) {
	result, err := h.service.Lookup(c.Request.Context(), req, currency)
	if err != nil {
		status := statusForError(err)
		h.logger.Warn("product lookup failed",
			zap.String("mode", string(req.Mode)),
			zap.Int("status", status),
			zap.Error(err))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// statusForError maps pipeline failures onto HTTP statuses. Transport and
// validation failures are upstream faults, not caller mistakes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrContractViolation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRetrievalInProgress):
		return http.StatusConflict
	}

	if te, ok := domain.AsTransportError(err); ok {
		if te.Kind == domain.TransportRateLimited || te.Kind == domain.TransportRetriesExhausted {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	}
	if _, ok := domain.AsValidationError(err); ok {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
