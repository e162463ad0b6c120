package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"groove/internal/model"
	"groove/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

type ActivityHandler struct {
	activities ActivityLog
	access     AccessChecker
}

func NewActivityHandler(activities ActivityLog, access AccessChecker) *ActivityHandler {
	return &ActivityHandler{activities: activities, access: access}
}

type ActivityResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Actor     UserResponse    `json:"actor"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// ActivityPage carries the cursor for the next page in NextBefore; it is
// empty on the last page.
type ActivityPage struct {
	Items      []ActivityResponse `json:"items"`
	NextBefore string             `json:"next_before,omitempty"`
}

// List godoc
// @Summary      Board activity feed, newest first
// @Tags         Activity
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        before query string false "Return entries older than this activity id"
// @Param        limit query int false "Page size (max 200)"
// @Success      200 {object} ActivityPage
// @Router       /boards/{id}/activity [get]
func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
		return
	}

	before := c.Query("before")
	if before != "" {
		if _, err := ulid.ParseStrict(before); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid before cursor"})
			return
		}
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	if _, ok := requireRole(c, h.access, boardID, userID, model.RoleViewer); !ok {
		return
	}

	activities, err := h.activities.ListByBoard(c.Request.Context(), boardID, before, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	page := ActivityPage{Items: make([]ActivityResponse, len(activities))}
	for i := range activities {
		a := &activities[i]
		page.Items[i] = ActivityResponse{
			ID:        a.ID,
			Kind:      a.Kind,
			Actor:     toUserResponse(&a.Actor),
			Payload:   json.RawMessage(a.Payload),
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		}
	}
	pageSize := limit
	if pageSize == 0 {
		pageSize = repository.DefaultActivityPage
	}
	if pageSize > repository.MaxActivityPage {
		pageSize = repository.MaxActivityPage
	}
	if n := len(activities); n > 0 && n == pageSize {
		page.NextBefore = activities[n-1].ID
	}
	c.JSON(http.StatusOK, page)
}
