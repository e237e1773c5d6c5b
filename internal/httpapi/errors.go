package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/rcliao/field-planner/internal/feed"
	"github.com/rcliao/field-planner/internal/geofence"
	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/planner"
	"github.com/rcliao/field-planner/internal/recommend"
)

// abortWithError maps planner errors onto status codes and a JSON body.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		qe *recommend.QuotaExceededError
		le *geofence.LocationError
		ve *model.ValidationError
	)
	switch {
	case errors.As(err, &qe):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":        "quota_exceeded",
			"message":      err.Error(),
			"remaining_ms": qe.RemainingMs(),
		})
	case errors.As(err, &le):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "location_unavailable",
			"reason": le.Reason,
		})
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "invalid_input",
			"field":   ve.Field,
			"message": ve.Msg,
		})
	case errors.Is(err, geofence.ErrNoCoordinates), errors.Is(err, recommend.ErrEmptyPool):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "unprocessable", "message": err.Error()})
	case errors.Is(err, planner.ErrNotFound), errors.Is(err, feed.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case errors.Is(err, planner.ErrImmutable), errors.Is(err, model.ErrInvalidTransition):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "conflict", "message": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
}
