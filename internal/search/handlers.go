package search

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fetcharr/fetcharr/internal/llm"
	"github.com/fetcharr/fetcharr/internal/scraper"
)

// Handlers provides HTTP handlers for search operations.
type Handlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHandlers creates search handlers.
func NewHandlers(service *Service, logger zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger.With().Str("component", "search_handlers").Logger(),
	}
}

// RegisterRoutes registers search routes on the given group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("/search", h.Search)
	g.GET("/sources", h.Sources)
}

// SearchRequest is the body for POST /search.
type SearchRequest struct {
	Request string `json:"request"`
}

// Search handles a natural-language search request.
func (h *Handlers) Search(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Request == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "request is required"})
	}

	response, err := h.service.Search(c.Request().Context(), req.Request)
	if err != nil {
		h.logger.Error().Err(err).Str("request", req.Request).Msg("Search failed")
		switch {
		case llm.IsServiceError(err):
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		case llm.IsParseError(err):
			return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
		default:
			if _, ok := scraper.IsSourceError(err); ok {
				return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, response)
}

// Sources lists the configured content sources.
func (h *Handlers) Sources(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"sources": h.service.Sources()})
}
