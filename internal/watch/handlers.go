package watch

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handlers provides HTTP handlers for watch operations.
type Handlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHandlers creates watch handlers.
func NewHandlers(service *Service, logger zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger.With().Str("component", "watch_handlers").Logger(),
	}
}

// RegisterRoutes registers watch routes on the given group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/enable", h.Enable)
	g.POST("/:id/disable", h.Disable)
	g.POST("/check", h.Check)
}

// CreateRequest is the body for POST /watches.
type CreateRequest struct {
	Request string `json:"request"`
}

// List returns all watches.
func (h *Handlers) List(c echo.Context) error {
	watches, err := h.service.Store().List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"watches": watches})
}

// Create adds a new watch.
func (h *Handlers) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Request == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "request is required"})
	}

	watch, err := h.service.Store().Create(c.Request().Context(), req.Request)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, watch)
}

// Delete removes a watch.
func (h *Handlers) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid watch id"})
	}

	if err := h.service.Store().Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "watch not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.NoContent(http.StatusNoContent)
}

// Enable turns a watch back on.
func (h *Handlers) Enable(c echo.Context) error {
	return h.setEnabled(c, true)
}

// Disable pauses a watch without deleting it.
func (h *Handlers) Disable(c echo.Context) error {
	return h.setEnabled(c, false)
}

func (h *Handlers) setEnabled(c echo.Context, enabled bool) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid watch id"})
	}

	if err := h.service.Store().SetEnabled(c.Request().Context(), id, enabled); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "watch not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.NoContent(http.StatusNoContent)
}

// Check runs a sweep over all due watches immediately.
func (h *Handlers) Check(c echo.Context) error {
	if err := h.service.CheckAll(c.Request().Context()); err != nil {
		h.logger.Error().Err(err).Msg("Manual watch sweep failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusAccepted)
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
