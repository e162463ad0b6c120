package handler

import (
	"errors"
	"net/http"

	"groove/internal/model"
	"groove/internal/repository"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	Journal
	members MemberStore
}

func NewMemberHandler(members MemberStore, j Journal) *MemberHandler {
	return &MemberHandler{Journal: j, members: members}
}

type UpdateMemberRequest struct {
	Role string `json:"role" binding:"required,oneof=viewer editor"`
}

type MemberResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

// List godoc
// @Summary      Members of a board
// @Tags         Members
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      200 {array} MemberResponse
// @Router       /boards/{id}/members [get]
func (h *MemberHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
		return
	}
	if _, ok := requireRole(c, h.members, boardID, userID, model.RoleViewer); !ok {
		return
	}

	members, err := h.members.List(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	response := make([]MemberResponse, len(members))
	for i, m := range members {
		response[i] = MemberResponse{
			UserID:   m.UserID.String(),
			Email:    m.User.Email,
			Name:     m.User.Name,
			Role:     m.Role,
			JoinedAt: m.CreatedAt.Format(http.TimeFormat),
		}
	}
	c.JSON(http.StatusOK, response)
}

// UpdateRole godoc
// @Summary      Change a member's role (owner only)
// @Tags         Members
// @Accept       json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        user_id path string true "User ID"
// @Param        request body UpdateMemberRequest true "Role"
// @Success      204
// @Router       /boards/{id}/members/{user_id} [put]
func (h *MemberHandler) UpdateRole(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
		return
	}
	memberID, ok := paramID(c, "user_id", "user")
	if !ok {
		return
	}
	if _, ok := requireRole(c, h.members, boardID, userID, model.RoleOwner); !ok {
		return
	}

	var req UpdateMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.members.UpdateRole(c.Request.Context(), boardID, memberID, req.Role); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	h.record(c, boardID, userID, model.ActivityMemberRoleChanged, map[string]interface{}{
		"user_id": memberID,
		"role":    req.Role,
	})
	c.Status(http.StatusNoContent)
}

// Remove godoc
// @Summary      Remove a member; members may remove themselves
// @Tags         Members
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        user_id path string true "User ID"
// @Success      204
// @Router       /boards/{id}/members/{user_id} [delete]
func (h *MemberHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
		return
	}
	memberID, ok := paramID(c, "user_id", "user")
	if !ok {
		return
	}

	required := model.RoleOwner
	if memberID == userID {
		required = model.RoleViewer
	}
	if _, ok := requireRole(c, h.members, boardID, userID, required); !ok {
		return
	}

	if err := h.members.Remove(c.Request.Context(), boardID, memberID); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	h.record(c, boardID, userID, model.ActivityMemberRemoved, map[string]interface{}{"user_id": memberID})
	c.Status(http.StatusNoContent)
}
