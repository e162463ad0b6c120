package handler

import (
	"errors"
	"net/http"
	"time"

	"groove/internal/model"
	"groove/internal/reorder"
	"groove/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardHandler struct {
	Journal
	cards   CardStore
	columns ColumnStore
	access  AccessChecker
	mover   Mover
}

func NewCardHandler(cards CardStore, columns ColumnStore, access AccessChecker, mover Mover, j Journal) *CardHandler {
	return &CardHandler{Journal: j, cards: cards, columns: columns, access: access, mover: mover}
}

type CreateCardRequest struct {
	ColumnID    string     `json:"column_id" binding:"required,uuid"`
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=10000"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateCardRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=10000"`
	DueDate     *time.Time `json:"due_date"`
}

type CardResponse struct {
	ID          string         `json:"id"`
	ColumnID    string         `json:"column_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Position    float64        `json:"position"`
	CreatedBy   string         `json:"created_by"`
	Assignees   []UserResponse `json:"assignees"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

func toCardResponse(card *model.Card) CardResponse {
	assignees := make([]UserResponse, len(card.Assignees))
	for i := range card.Assignees {
		assignees[i] = toUserResponse(&card.Assignees[i])
	}
	return CardResponse{
		ID:          card.ID.String(),
		ColumnID:    card.ColumnID.String(),
		Title:       card.Title,
		Description: card.Description,
		DueDate:     card.DueDate,
		Position:    card.Position,
		CreatedBy:   card.CreatedBy.String(),
		Assignees:   assignees,
		CreatedAt:   card.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   card.UpdatedAt.Format(time.RFC3339),
	}
}

// card loads the card named by the :id param and checks the caller's role on
// its board.
func (h *CardHandler) card(c *gin.Context, required string) (*model.Card, uuid.UUID, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, uuid.Nil, false
	}
	cardID, ok := paramID(c, "id", "card")
	if !ok {
		return nil, uuid.Nil, false
	}

	card, err := h.cards.GetByID(c.Request.Context(), cardID)
	if errors.Is(err, repository.ErrCardNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Card no longer exists, please refresh"})
		return nil, uuid.Nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		return nil, uuid.Nil, false
	}

	if _, ok := requireRole(c, h.access, card.Column.BoardID, userID, required); !ok {
		return nil, uuid.Nil, false
	}
	return card, userID, true
}

// Create godoc
// @Summary      Append a card to a column
// @Tags         Cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCardRequest true "Card"
// @Success      201 {object} CardResponse
// @Router       /cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateCardRequest
	if !bindJSON(c, &req) {
		return
	}

	col, err := h.columns.GetByID(c.Request.Context(), uuid.MustParse(req.ColumnID))
	if errors.Is(err, repository.ErrColumnNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Column no longer exists, please refresh"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve column"})
		return
	}
	if _, ok := requireRole(c, h.access, col.BoardID, userID, model.RoleEditor); !ok {
		return
	}

	card := &model.Card{
		ColumnID:    col.ID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CreatedBy:   userID,
	}
	if err := h.cards.Create(c.Request.Context(), card); err != nil {
		if errors.Is(err, repository.ErrColumnNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Column no longer exists, please refresh"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create card"})
		return
	}

	h.record(c, col.BoardID, userID, model.ActivityCardCreated, map[string]interface{}{
		"card_id": card.ID,
		"title":   card.Title,
		"column":  col.Title,
	})
	c.JSON(http.StatusCreated, toCardResponse(card))
}

// GetByID godoc
// @Summary      Get a card
// @Tags         Cards
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Card ID"
// @Success      200 {object} CardResponse
// @Router       /cards/{id} [get]
func (h *CardHandler) GetByID(c *gin.Context) {
	card, _, ok := h.card(c, model.RoleViewer)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toCardResponse(card))
}

// GetByColumnID godoc
// @Summary      Cards of a column in display order
// @Tags         Cards
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Column ID"
// @Success      200 {array} CardResponse
// @Router       /columns/{id}/cards [get]
func (h *CardHandler) GetByColumnID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	columnID, ok := paramID(c, "id", "column")
	if !ok {
		return
	}

	col, err := h.columns.GetByID(c.Request.Context(), columnID)
	if errors.Is(err, repository.ErrColumnNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Column no longer exists, please refresh"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve column"})
		return
	}
	if _, ok := requireRole(c, h.access, col.BoardID, userID, model.RoleViewer); !ok {
		return
	}

	cards, err := h.cards.GetByColumnID(c.Request.Context(), columnID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cards"})
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = toCardResponse(&cards[i])
	}
	c.JSON(http.StatusOK, response)
}

// Update godoc
// @Summary      Edit a card
// @Tags         Cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Card ID"
// @Param        request body UpdateCardRequest true "Card"
// @Success      200 {object} CardResponse
// @Router       /cards/{id} [put]
func (h *CardHandler) Update(c *gin.Context) {
	card, userID, ok := h.card(c, model.RoleEditor)
	if !ok {
		return
	}

	var req UpdateCardRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.cards.Update(c.Request.Context(), card.ID, req.Title, req.Description, req.DueDate); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card no longer exists, please refresh"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update card"})
		return
	}

	h.record(c, card.Column.BoardID, userID, model.ActivityCardUpdated, map[string]interface{}{
		"card_id": card.ID,
		"title":   req.Title,
	})
	card.Title = req.Title
	card.Description = req.Description
	card.DueDate = req.DueDate
	card.UpdatedAt = time.Now()
	c.JSON(http.StatusOK, toCardResponse(card))
}

// Delete godoc
// @Summary      Delete a card
// @Tags         Cards
// @Security     BearerAuth
// @Param        id path string true "Card ID"
// @Success      204
// @Router       /cards/{id} [delete]
func (h *CardHandler) Delete(c *gin.Context) {
	card, userID, ok := h.card(c, model.RoleEditor)
	if !ok {
		return
	}

	if err := h.cards.Delete(c.Request.Context(), card.ID); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card no longer exists, please refresh"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete card"})
		return
	}

	h.record(c, card.Column.BoardID, userID, model.ActivityCardDeleted, map[string]interface{}{
		"card_id": card.ID,
		"title":   card.Title,
	})
	c.Status(http.StatusNoContent)
}

// Move godoc
// @Summary      Move a card to a position in a column
// @Tags         Cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Card ID"
// @Param        request body MoveCardRequest true "Drop"
// @Success      200 {object} MoveResponse
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /cards/{id}/move [post]
func (h *CardHandler) Move(c *gin.Context) {
	card, userID, ok := h.card(c, model.RoleEditor)
	if !ok {
		return
	}

	var req MoveCardRequest
	if !bindJSON(c, &req) {
		return
	}
	anchor, err := reorder.ParseAnchor(req.AfterID)
	if err != nil {
		respondMoveError(c, err)
		return
	}

	target, err := h.columns.GetByID(c.Request.Context(), uuid.MustParse(req.TargetColumnID))
	if errors.Is(err, repository.ErrColumnNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Column no longer exists, please refresh"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve column"})
		return
	}
	if target.BoardID != card.Column.BoardID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cards can only move within their board"})
		return
	}

	placement, err := h.mover.MoveWithRetry(c.Request.Context(), reorder.Request{
		Scope:            reorder.CardsInColumns,
		ItemID:           card.ID,
		FromContainerID:  optionalID(req.FromColumnID),
		ToContainerID:    target.ID,
		Anchor:           anchor,
		ExpectedRevision: req.ExpectedRevision,
		AfterMove: func(tx *gorm.DB, p reorder.Placement) error {
			if !p.ChangedContainer() {
				return nil
			}
			payload := map[string]interface{}{
				"card_id":        card.ID,
				"title":          card.Title,
				"from_column_id": p.FromContainerID,
				"to_column_id":   p.ContainerID,
				"to":             target.Title,
			}
			from := card.Column
			if p.FromContainerID != card.ColumnID {
				source, err := h.columns.GetByID(c.Request.Context(), p.FromContainerID)
				if err != nil {
					return err
				}
				from = *source
			}
			payload["from"] = from.Title
			_, err := h.activities.RecordTx(c.Request.Context(), tx, target.BoardID, userID, model.ActivityCardMoved, payload)
			return err
		},
	})
	if err != nil {
		h.logger.Debug("card move rejected", "card", card.ID, "err", err)
		respondMoveError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMoveResponse(placement))
}

// AddAssignee godoc
// @Summary      Assign a board member to a card
// @Tags         Cards
// @Security     BearerAuth
// @Param        id path string true "Card ID"
// @Param        user_id path string true "User ID"
// @Success      204
// @Router       /cards/{id}/assignees/{user_id} [post]
func (h *CardHandler) AddAssignee(c *gin.Context) {
	card, userID, ok := h.card(c, model.RoleEditor)
	if !ok {
		return
	}
	assigneeID, ok := paramID(c, "user_id", "user")
	if !ok {
		return
	}

	role, err := h.access.Role(c.Request.Context(), card.Column.BoardID, assigneeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check board access"})
		return
	}
	if role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not a member of this board"})
		return
	}

	if err := h.cards.AddAssignee(c.Request.Context(), card.ID, assigneeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign user"})
		return
	}

	h.record(c, card.Column.BoardID, userID, model.ActivityCardAssigned, map[string]interface{}{
		"card_id": card.ID,
		"user_id": assigneeID,
	})
	c.Status(http.StatusNoContent)
}

// RemoveAssignee godoc
// @Summary      Unassign a user from a card
// @Tags         Cards
// @Security     BearerAuth
// @Param        id path string true "Card ID"
// @Param        user_id path string true "User ID"
// @Success      204
// @Router       /cards/{id}/assignees/{user_id} [delete]
func (h *CardHandler) RemoveAssignee(c *gin.Context) {
	card, userID, ok := h.card(c, model.RoleEditor)
	if !ok {
		return
	}
	assigneeID, ok := paramID(c, "user_id", "user")
	if !ok {
		return
	}

	if err := h.cards.RemoveAssignee(c.Request.Context(), card.ID, assigneeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unassign user"})
		return
	}

	h.record(c, card.Column.BoardID, userID, model.ActivityCardUnassigned, map[string]interface{}{
		"card_id": card.ID,
		"user_id": assigneeID,
	})
	c.Status(http.StatusNoContent)
}
