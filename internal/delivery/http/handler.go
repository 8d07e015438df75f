package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skinfridge/fridge/internal/domain"
	"github.com/skinfridge/fridge/internal/usecase"
)

const (
	serviceName    = "skinfridge"
	serviceVersion = "1.0.0"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	fridge *usecase.FridgeController
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(fridge *usecase.FridgeController, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		fridge: fridge,
		logger: logger.Named("http"),
	}
}

// DayRequest selects the AM or PM partition
type DayRequest struct {
	Day string `json:"day" binding:"required,oneof=AM PM"`
}

// ThemeRequest selects the light or dark theme
type ThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}

// PanelRequest carries the product to show in the detail panel
type PanelRequest struct {
	ProductID string `json:"productId"`
}

// SearchRequest is a catalog search query
type SearchRequest struct {
	Query string `json:"query"`
}

// AddProductRequest references a catalog search result
type AddProductRequest struct {
	ProductURL  string `json:"productUrl" binding:"required"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// OnboardingRequest carries the user's skin type
type OnboardingRequest struct {
	SkinType string `json:"skinType" binding:"required"`
}

// SearchResponse pairs ranked results with the page state
type SearchResponse struct {
	Results []domain.SearchResult `json:"results"`
	State   domain.FridgeState    `json:"state"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error string              `json:"error"`
	State *domain.FridgeState `json:"state,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// GetFridge returns the page state. A name query parameter hydrates the display name.
func (h *Handler) GetFridge(c *gin.Context) {
	if name := c.Query("name"); name != "" {
		c.JSON(http.StatusOK, h.fridge.SetDisplayName(name))
		return
	}
	c.JSON(http.StatusOK, h.fridge.State())
}

// Refresh re-fetches products and rules for the active day
func (h *Handler) Refresh(c *gin.Context) {
	state, err := h.fridge.Refresh(c.Request.Context())
	if err != nil {
		h.respondError(c, err, &state)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SetDay switches the active partition
func (h *Handler) SetDay(c *gin.Context) {
	var req DayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "day must be AM or PM"})
		return
	}

	state, err := h.fridge.SetDay(c.Request.Context(), domain.Day(req.Day))
	if err != nil {
		h.respondError(c, err, &state)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ToggleDay switches between AM and PM
func (h *Handler) ToggleDay(c *gin.Context) {
	c.JSON(http.StatusOK, h.fridge.ToggleDay(c.Request.Context()))
}

// SetTheme switches the theme
func (h *Handler) SetTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "theme must be light or dark"})
		return
	}

	state, err := h.fridge.SetTheme(c.Request.Context(), domain.Theme(req.Theme))
	if err != nil {
		h.respondError(c, err, &state)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ToggleTheme switches between light and dark
func (h *Handler) ToggleTheme(c *gin.Context) {
	c.JSON(http.StatusOK, h.fridge.ToggleTheme(c.Request.Context()))
}

// OpenPanel opens the search, detail or issues panel
func (h *Handler) OpenPanel(c *gin.Context) {
	panel, ok := domain.ParsePanel(c.Param("panel"))
	if !ok || panel == domain.PanelNone {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown panel"})
		return
	}

	switch panel {
	case domain.PanelSearch:
		c.JSON(http.StatusOK, h.fridge.OpenSearch())
	case domain.PanelIssues:
		c.JSON(http.StatusOK, h.fridge.OpenIssues())
	case domain.PanelDetail:
		var req PanelRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "productId is required"})
			return
		}
		state, err := h.fridge.SelectProduct(req.ProductID)
		if err != nil {
			h.respondError(c, err, &state)
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// ClosePanel closes a panel. Closing search or detail closes whichever of them is open.
func (h *Handler) ClosePanel(c *gin.Context) {
	panel, ok := domain.ParsePanel(c.Param("panel"))
	if !ok || panel == domain.PanelNone {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown panel"})
		return
	}

	if panel == domain.PanelIssues {
		c.JSON(http.StatusOK, h.fridge.CloseIssues())
		return
	}
	c.JSON(http.StatusOK, h.fridge.ClosePanel())
}

// Search queries the catalog
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	results, err := h.fridge.Search(c.Request.Context(), req.Query)
	if err != nil {
		state := h.fridge.State()
		h.respondSearchError(c, err, &state)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Results: results,
		State:   h.fridge.State(),
	})
}

// SearchInputChanged clears the inline search message
func (h *Handler) SearchInputChanged(c *gin.Context) {
	c.JSON(http.StatusOK, h.fridge.SearchInputChanged())
}

// AddProduct adds a catalog product to the active day
func (h *Handler) AddProduct(c *gin.Context) {
	var req AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "productUrl is required"})
		return
	}

	state, err := h.fridge.AddProduct(c.Request.Context(), domain.SearchResult{
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Image:       req.Image,
		URL:         req.ProductURL,
	})
	if err != nil {
		h.respondSearchError(c, err, &state)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// DeleteProduct removes a product. The confirm query parameter answers the
// confirmation prompt; without it nothing is deleted.
func (h *Handler) DeleteProduct(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	confirmer := domain.ConfirmFunc(func(context.Context, string) bool { return confirmed })

	state, err := h.fridge.DeleteProduct(c.Request.Context(), c.Param("id"), confirmer)
	if err != nil {
		h.respondError(c, err, &state)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Onboard submits the user's skin type
func (h *Handler) Onboard(c *gin.Context) {
	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "skinType is required"})
		return
	}

	if err := h.fridge.Onboard(c.Request.Context(), req.SkinType); err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps domain errors to HTTP status codes. Upstream failures
// answer with a generic message; the cause is only logged.
func (h *Handler) respondError(c *gin.Context, err error, state *domain.FridgeState) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		msg = usecase.MessageFailure
	}
	c.JSON(status, ErrorResponse{Error: msg, State: state})
}

// respondSearchError answers search and add failures with the inline message
// the controller set under the search bar
func (h *Handler) respondSearchError(c *gin.Context, err error, state *domain.FridgeState) {
	if state == nil || state.SearchMessage == "" {
		h.respondError(c, err, state)
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Error: state.SearchMessage, State: state})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidSkinType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateProduct):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
