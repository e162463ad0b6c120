package handler

import (
	"errors"
	"net/http"
	"time"

	"groove/internal/model"
	"groove/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	Journal
	comments CommentStore
	cards    CardStore
	access   AccessChecker
}

func NewCommentHandler(comments CommentStore, cards CardStore, access AccessChecker, j Journal) *CommentHandler {
	return &CommentHandler{Journal: j, comments: comments, cards: cards, access: access}
}

type CommentRequest struct {
	Body string `json:"body" binding:"required,max=5000"`
}

type CommentResponse struct {
	ID        string       `json:"id"`
	CardID    string       `json:"card_id"`
	Author    UserResponse `json:"author"`
	Body      string       `json:"body"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

func toCommentResponse(cm *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        cm.ID.String(),
		CardID:    cm.CardID.String(),
		Author:    toUserResponse(&cm.Author),
		Body:      cm.Body,
		CreatedAt: cm.CreatedAt.Format(time.RFC3339),
		UpdatedAt: cm.UpdatedAt.Format(time.RFC3339),
	}
}

// boardOfCard resolves the card's board and checks the caller's role on it.
func (h *CommentHandler) boardOfCard(c *gin.Context, cardID, userID uuid.UUID, required string) (uuid.UUID, string, bool) {
	card, err := h.cards.GetByID(c.Request.Context(), cardID)
	if errors.Is(err, repository.ErrCardNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Card no longer exists, please refresh"})
		return uuid.Nil, "", false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		return uuid.Nil, "", false
	}
	role, ok := requireRole(c, h.access, card.Column.BoardID, userID, required)
	return card.Column.BoardID, role, ok
}

// authored loads the comment named by :id for a change by its author. Board
// owners may delete any comment.
func (h *CommentHandler) authored(c *gin.Context, ownerMayAct bool) (*model.Comment, uuid.UUID, uuid.UUID, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, uuid.Nil, uuid.Nil, false
	}
	commentID, ok := paramID(c, "id", "comment")
	if !ok {
		return nil, uuid.Nil, uuid.Nil, false
	}

	comment, err := h.comments.GetByID(c.Request.Context(), commentID)
	if errors.Is(err, repository.ErrCommentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return nil, uuid.Nil, uuid.Nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return nil, uuid.Nil, uuid.Nil, false
	}

	boardID, role, ok := h.boardOfCard(c, comment.CardID, userID, model.RoleViewer)
	if !ok {
		return nil, uuid.Nil, uuid.Nil, false
	}
	if comment.AuthorID != userID && !(ownerMayAct && role == model.RoleOwner) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can change this comment"})
		return nil, uuid.Nil, uuid.Nil, false
	}
	return comment, boardID, userID, true
}

// Create godoc
// @Summary      Comment on a card
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Card ID"
// @Param        request body CommentRequest true "Comment"
// @Success      201 {object} CommentResponse
// @Router       /cards/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id", "card")
	if !ok {
		return
	}
	boardID, _, ok := h.boardOfCard(c, cardID, userID, model.RoleViewer)
	if !ok {
		return
	}

	var req CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment := &model.Comment{CardID: cardID, AuthorID: userID, Body: req.Body}
	if err := h.comments.Create(c.Request.Context(), comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	h.record(c, boardID, userID, model.ActivityCommentAdded, map[string]interface{}{
		"card_id":    cardID,
		"comment_id": comment.ID,
	})
	comment.Author.ID = userID
	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// List godoc
// @Summary      Comments of a card, oldest first
// @Tags         Comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Card ID"
// @Success      200 {array} CommentResponse
// @Router       /cards/{id}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id", "card")
	if !ok {
		return
	}
	if _, _, ok := h.boardOfCard(c, cardID, userID, model.RoleViewer); !ok {
		return
	}

	comments, err := h.comments.ListByCard(c.Request.Context(), cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	response := make([]CommentResponse, len(comments))
	for i := range comments {
		response[i] = toCommentResponse(&comments[i])
	}
	c.JSON(http.StatusOK, response)
}

// Update godoc
// @Summary      Edit your comment
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Param        request body CommentRequest true "Comment"
// @Success      200 {object} CommentResponse
// @Router       /comments/{id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	comment, _, _, ok := h.authored(c, false)
	if !ok {
		return
	}

	var req CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.comments.UpdateBody(c.Request.Context(), comment.ID, req.Body); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	comment.Body = req.Body
	comment.UpdatedAt = time.Now()
	c.JSON(http.StatusOK, toCommentResponse(comment))
}

// Delete godoc
// @Summary      Delete a comment (author or board owner)
// @Tags         Comments
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Success      204
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	comment, _, _, ok := h.authored(c, true)
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), comment.ID); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	c.Status(http.StatusNoContent)
}
