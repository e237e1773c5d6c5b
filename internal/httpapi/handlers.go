package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/field-planner/internal/geofence"
	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/planner"
	"github.com/rcliao/field-planner/internal/schedule"
)

// Schedule handles GET /api/schedule?date=&category=&slot=.
func (h *Handlers) Schedule(c *gin.Context) {
	filter, err := schedule.ParseFilter(c.Query("category"), c.Query("slot"))
	if err != nil {
		badRequest(c, err)
		return
	}
	entries := h.Planner.View(planner.ViewParams{Date: c.Query("date"), Filter: filter})
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

func (h *Handlers) Senior(c *gin.Context) {
	c.JSON(http.StatusOK, h.Planner.Senior())
}

type recommendRequest struct {
	Category model.Category `json:"category" binding:"required"`
}

// Recommend handles POST /api/recommend. A spent quota answers 429 with remaining_ms.
func (h *Handlers) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	entry, err := h.Planner.Recommend(c.Request.Context(), model.Category(strings.ToLower(string(req.Category))))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handlers) Cooldown(c *gin.Context) {
	q, remaining := h.Planner.Cooldown()
	c.JSON(http.StatusOK, gin.H{"quota": q, "remaining_ms": remaining.Milliseconds()})
}

type positionRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Verify handles POST /api/entries/:id/verify with the client's fix in the
// body. An empty body means the client has no fix; a body must carry both
// lat and lng.
func (h *Handlers) Verify(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Request.ContentLength != 0 {
		var req positionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if req.Lat == nil || req.Lng == nil {
			abortWithError(c, &model.ValidationError{Field: "position", Msg: "lat and lng are both required"})
			return
		}
		ctx = geofence.WithPosition(ctx, model.Coordinates{Lat: *req.Lat, Lng: *req.Lng})
	}
	res, err := h.Planner.Verify(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handlers) Start(c *gin.Context) {
	e, err := h.Planner.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handlers) Skip(c *gin.Context) {
	e, err := h.Planner.Skip(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handlers) AddManual(c *gin.Context) {
	var in planner.ManualInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.Planner.AddManual(c.Request.Context(), in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handlers) UpdateManual(c *gin.Context) {
	var patch planner.ManualPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.Planner.UpdateManual(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handlers) RemoveManual(c *gin.Context) {
	if err := h.Planner.RemoveManual(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) ClearManual(c *gin.Context) {
	n, err := h.Planner.ClearManual(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

func (h *Handlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Planner.Stats(c.Query("visits") == "true"))
}

func (h *Handlers) Notifications(c *gin.Context) {
	items, unread := h.Planner.Notifications()
	c.JSON(http.StatusOK, gin.H{"unread": unread, "notifications": items})
}

func (h *Handlers) MarkRead(c *gin.Context) {
	if err := h.Planner.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) MarkAllRead(c *gin.Context) {
	if err := h.Planner.MarkAllRead(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) Settings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.Planner.Settings(), "senior_mode": h.Planner.SeniorMode()})
}

func (h *Handlers) UpdateSettings(c *gin.Context) {
	var patch planner.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.Planner.UpdateSettings(c.Request.Context(), patch)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": s, "senior_mode": h.Planner.SeniorMode()})
}
