package projection

import (
	"errors"
	"log/slog"
	"net/http"

	httperr "github.com/aevon-lab/project-tally/internal/core/errors"
	"github.com/aevon-lab/project-tally/internal/core/storage"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all projection API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/analytics", s.HandleAnalytics)
	r.GET("/events", s.HandleRecentEvents)
}

// HandleAnalytics handles GET /analytics.
func (s *Service) HandleAnalytics(c *gin.Context) {
	rows, err := s.ClientTotals(c.Request.Context())
	if err != nil {
		slog.Error("[Projection] Failed to aggregate by client", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to query analytics",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// HandleRecentEvents handles GET /events
// Query parameters: limit (optional, 1..50)
func (s *Service) HandleRecentEvents(c *gin.Context) {
	var query struct {
		Limit *int `form:"limit"`
	}

	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	limit := storage.RecentEventsLimit
	if query.Limit != nil {
		limit = *query.Limit
	}

	rows, err := s.RecentEvents(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidQueryError,
				Message:   "Invalid query parameters",
				Details:   err.Error(),
			})
			return
		}

		slog.Error("[Projection] Failed to list recent events", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to query events",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, rows)
}
