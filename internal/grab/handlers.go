package grab

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fetcharr/fetcharr/internal/search/types"
)

// Handlers provides HTTP handlers for grab operations.
type Handlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHandlers creates grab handlers.
func NewHandlers(service *Service, logger zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger.With().Str("component", "grab_handlers").Logger(),
	}
}

// RegisterRoutes registers grab routes on the given group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("/grab", h.Grab)
	g.GET("/downloads", h.Downloads)
}

// GrabRequest is the body for POST /grab.
type GrabRequest struct {
	RequestID  string       `json:"requestId"`
	Record     types.Record `json:"record"`
	Relevance  float64      `json:"relevance"`
	Confidence float64      `json:"confidence"`
}

// Grab sends a record to the download client.
func (h *Handlers) Grab(c echo.Context) error {
	var req GrabRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Record.Identity == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "record identity is required"})
	}

	result, err := h.service.Grab(c.Request().Context(), Input{
		RequestID:  req.RequestID,
		Record:     req.Record,
		Relevance:  req.Relevance,
		Confidence: req.Confidence,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("title", req.Record.Title).Msg("Grab failed")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	if result.Duplicate {
		return c.JSON(http.StatusConflict, result)
	}

	return c.JSON(http.StatusOK, result)
}

// Downloads lists the download client's current items.
func (h *Handlers) Downloads(c echo.Context) error {
	items, err := h.service.Downloads(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"downloads": items})
}
