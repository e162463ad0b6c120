package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"groove/internal/model"
	"groove/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InvitationHandler struct {
	Journal
	invitations InvitationStore
	users       repository.UserRepositoryInterface
	access      AccessChecker
	ttl         time.Duration
	publicURL   string
}

func NewInvitationHandler(invitations InvitationStore, users repository.UserRepositoryInterface, access AccessChecker, j Journal, ttl time.Duration, publicURL string) *InvitationHandler {
	return &InvitationHandler{
		Journal:     j,
		invitations: invitations,
		users:       users,
		access:      access,
		ttl:         ttl,
		publicURL:   strings.TrimRight(publicURL, "/"),
	}
}

type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=viewer editor"`
}

type InvitationResponse struct {
	ID        string `json:"id"`
	BoardID   string `json:"board_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
	Link      string `json:"link,omitempty"`
}

func (h *InvitationHandler) link(token string) string {
	return h.publicURL + "/invitations/" + token + "/accept"
}

// Create godoc
// @Summary      Invite someone to a board by email (owner only)
// @Tags         Invitations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        request body CreateInvitationRequest true "Invitation"
// @Success      201 {object} InvitationResponse
// @Failure      409 {object} map[string]string
// @Router       /boards/{id}/invitations [post]
func (h *InvitationHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
		return
	}
	if _, ok := requireRole(c, h.access, boardID, userID, model.RoleOwner); !ok {
		return
	}

	var req CreateInvitationRequest
	if !bindJSON(c, &req) {
		return
	}

	inv := &model.Invitation{
		BoardID:   boardID,
		InvitedBy: userID,
		Email:     model.NormalizeEmail(req.Email),
		Role:      req.Role,
		Token:     uuid.NewString(),
		Status:    model.InvitationPending,
		ExpiresAt: time.Now().Add(h.ttl),
	}
	if err := h.invitations.Create(c.Request.Context(), inv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "This email already has a pending invitation"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	// delivery is out of band; the link is logged and returned to the owner
	h.logger.Info("invitation created", "board", boardID, "email", inv.Email, "link", h.link(inv.Token))
	h.record(c, boardID, userID, model.ActivityMemberInvited, map[string]interface{}{
		"email": inv.Email,
		"role":  inv.Role,
	})

	c.JSON(http.StatusCreated, InvitationResponse{
		ID:        inv.ID.String(),
		BoardID:   boardID.String(),
		Email:     inv.Email,
		Role:      inv.Role,
		Status:    inv.Status,
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
		Link:      h.link(inv.Token),
	})
}

// List godoc
// @Summary      Pending invitations of a board (owner only)
// @Tags         Invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      200 {array} InvitationResponse
// @Router       /boards/{id}/invitations [get]
func (h *InvitationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
		return
	}
	if _, ok := requireRole(c, h.access, boardID, userID, model.RoleOwner); !ok {
		return
	}

	invitations, err := h.invitations.ListPending(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invitations"})
		return
	}

	response := make([]InvitationResponse, len(invitations))
	for i, inv := range invitations {
		response[i] = InvitationResponse{
			ID:        inv.ID.String(),
			BoardID:   inv.BoardID.String(),
			Email:     inv.Email,
			Role:      inv.Role,
			Status:    inv.Status,
			ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, response)
}

// Revoke godoc
// @Summary      Revoke a pending invitation (owner only)
// @Tags         Invitations
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        invitation_id path string true "Invitation ID"
// @Success      204
// @Router       /boards/{id}/invitations/{invitation_id} [delete]
func (h *InvitationHandler) Revoke(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
		return
	}
	invitationID, ok := paramID(c, "invitation_id", "invitation")
	if !ok {
		return
	}
	if _, ok := requireRole(c, h.access, boardID, userID, model.RoleOwner); !ok {
		return
	}

	if err := h.invitations.Revoke(c.Request.Context(), boardID, invitationID); err != nil {
		if errors.Is(err, repository.ErrInvitationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke invitation"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Accept godoc
// @Summary      Accept an invitation as the logged-in user
// @Tags         Invitations
// @Produce      json
// @Security     BearerAuth
// @Param        token path string true "Invitation token"
// @Success      200 {object} InvitationResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Failure      410 {object} map[string]string
// @Router       /invitations/{token}/accept [post]
func (h *InvitationHandler) Accept(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	inv, err := h.invitations.Accept(c.Request.Context(), c.Param("token"), user, time.Now())
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrInvitationNotFound), errors.Is(err, repository.ErrBoardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	case errors.Is(err, repository.ErrInvitationClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation is no longer pending"})
		return
	case errors.Is(err, repository.ErrInvitationExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Invitation has expired"})
		return
	case errors.Is(err, repository.ErrInvitationEmailMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": "Invitation was sent to a different email"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invitation"})
		return
	}

	h.record(c, inv.BoardID, userID, model.ActivityMemberJoined, map[string]interface{}{"role": inv.Role})
	c.JSON(http.StatusOK, InvitationResponse{
		ID:        inv.ID.String(),
		BoardID:   inv.BoardID.String(),
		Email:     inv.Email,
		Role:      inv.Role,
		Status:    inv.Status,
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
	})
}
