package handler

import (
	"errors"
	"net/http"

	"groove/internal/model"
	"groove/internal/reorder"
	"groove/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ColumnHandler struct {
	Journal
	columns ColumnStore
	cards   CardStore
	access  AccessChecker
	mover   Mover
}

func NewColumnHandler(columns ColumnStore, cards CardStore, access AccessChecker, mover Mover, j Journal) *ColumnHandler {
	return &ColumnHandler{Journal: j, columns: columns, cards: cards, access: access, mover: mover}
}

type CreateColumnRequest struct {
	BoardID string `json:"board_id" binding:"required,uuid"`
	Title   string `json:"title" binding:"required,max=100"`
}

type UpdateColumnRequest struct {
	Title string `json:"title" binding:"required,max=100"`
}

type ColumnResponse struct {
	ID       string         `json:"id"`
	BoardID  string         `json:"board_id"`
	Title    string         `json:"title"`
	Position float64        `json:"position"`
	Revision int64          `json:"revision"`
	Cards    []CardResponse `json:"cards,omitempty"`
}

func toColumnResponse(col *model.Column, withCards bool) ColumnResponse {
	resp := ColumnResponse{
		ID:       col.ID.String(),
		BoardID:  col.BoardID.String(),
		Title:    col.Title,
		Position: col.Position,
		Revision: col.Revision,
	}
	if withCards {
		resp.Cards = make([]CardResponse, len(col.Cards))
		for i := range col.Cards {
			resp.Cards[i] = toCardResponse(&col.Cards[i])
		}
	}
	return resp
}

// column loads the column named by the :id param and checks the caller's
// role on its board.
func (h *ColumnHandler) column(c *gin.Context, required string) (*model.Column, uuid.UUID, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, uuid.Nil, false
	}
	columnID, ok := paramID(c, "id", "column")
	if !ok {
		return nil, uuid.Nil, false
	}

	col, err := h.columns.GetByID(c.Request.Context(), columnID)
	if errors.Is(err, repository.ErrColumnNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Column no longer exists, please refresh"})
		return nil, uuid.Nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve column"})
		return nil, uuid.Nil, false
	}

	if _, ok := requireRole(c, h.access, col.BoardID, userID, required); !ok {
		return nil, uuid.Nil, false
	}
	return col, userID, true
}

// Create godoc
// @Summary      Append a column to a board
// @Tags         Columns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateColumnRequest true "Column"
// @Success      201 {object} ColumnResponse
// @Router       /columns [post]
func (h *ColumnHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateColumnRequest
	if !bindJSON(c, &req) {
		return
	}
	boardID := uuid.MustParse(req.BoardID)

	if _, ok := requireRole(c, h.access, boardID, userID, model.RoleEditor); !ok {
		return
	}

	col := &model.Column{BoardID: boardID, Title: req.Title}
	if err := h.columns.Create(c.Request.Context(), col); err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create column"})
		return
	}

	h.record(c, boardID, userID, model.ActivityColumnCreated, map[string]interface{}{
		"column_id": col.ID,
		"title":     col.Title,
	})
	c.JSON(http.StatusCreated, toColumnResponse(col, false))
}

// GetAll godoc
// @Summary      Columns of a board in display order
// @Tags         Columns
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      200 {array} ColumnResponse
// @Router       /boards/{id}/columns [get]
func (h *ColumnHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
		return
	}
	if _, ok := requireRole(c, h.access, boardID, userID, model.RoleViewer); !ok {
		return
	}

	columns, err := h.columns.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve columns"})
		return
	}

	response := make([]ColumnResponse, len(columns))
	for i := range columns {
		response[i] = toColumnResponse(&columns[i], false)
	}
	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary      Column with its cards
// @Tags         Columns
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Column ID"
// @Success      200 {object} ColumnResponse
// @Router       /columns/{id} [get]
func (h *ColumnHandler) GetByID(c *gin.Context) {
	col, _, ok := h.column(c, model.RoleViewer)
	if !ok {
		return
	}

	cards, err := h.cards.GetByColumnID(c.Request.Context(), col.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cards"})
		return
	}
	col.Cards = cards

	c.JSON(http.StatusOK, toColumnResponse(col, true))
}

// Update godoc
// @Summary      Rename a column
// @Tags         Columns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Column ID"
// @Param        request body UpdateColumnRequest true "Column"
// @Success      200 {object} ColumnResponse
// @Router       /columns/{id} [put]
func (h *ColumnHandler) Update(c *gin.Context) {
	col, userID, ok := h.column(c, model.RoleEditor)
	if !ok {
		return
	}

	var req UpdateColumnRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.columns.UpdateTitle(c.Request.Context(), col.ID, req.Title); err != nil {
		if errors.Is(err, repository.ErrColumnNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Column no longer exists, please refresh"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update column"})
		return
	}

	h.record(c, col.BoardID, userID, model.ActivityColumnUpdated, map[string]interface{}{
		"column_id": col.ID,
		"from":      col.Title,
		"to":        req.Title,
	})
	col.Title = req.Title
	c.JSON(http.StatusOK, toColumnResponse(col, false))
}

// Delete godoc
// @Summary      Delete a column and its cards
// @Tags         Columns
// @Security     BearerAuth
// @Param        id path string true "Column ID"
// @Success      204
// @Router       /columns/{id} [delete]
func (h *ColumnHandler) Delete(c *gin.Context) {
	col, userID, ok := h.column(c, model.RoleEditor)
	if !ok {
		return
	}

	if err := h.columns.Delete(c.Request.Context(), col.ID); err != nil {
		if errors.Is(err, repository.ErrColumnNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Column no longer exists, please refresh"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete column"})
		return
	}

	h.record(c, col.BoardID, userID, model.ActivityColumnDeleted, map[string]interface{}{
		"column_id": col.ID,
		"title":     col.Title,
	})
	c.Status(http.StatusNoContent)
}

// Move godoc
// @Summary      Move a column within its board
// @Tags         Columns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Column ID"
// @Param        request body MoveColumnRequest true "Drop"
// @Success      200 {object} MoveResponse
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /columns/{id}/move [post]
func (h *ColumnHandler) Move(c *gin.Context) {
	col, userID, ok := h.column(c, model.RoleEditor)
	if !ok {
		return
	}

	var req MoveColumnRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.TargetBoardID != "" && req.TargetBoardID != col.BoardID.String() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Columns can only move within their board"})
		return
	}
	anchor, err := reorder.ParseAnchor(req.AfterID)
	if err != nil {
		respondMoveError(c, err)
		return
	}

	placement, err := h.mover.MoveWithRetry(c.Request.Context(), reorder.Request{
		Scope:            reorder.ColumnsInBoards,
		ItemID:           col.ID,
		ToContainerID:    col.BoardID,
		Anchor:           anchor,
		ExpectedRevision: req.ExpectedRevision,
		AfterMove: func(tx *gorm.DB, p reorder.Placement) error {
			_, err := h.activities.RecordTx(c.Request.Context(), tx, col.BoardID, userID, model.ActivityColumnMoved, map[string]interface{}{
				"column_id": col.ID,
				"title":     col.Title,
				"after":     anchor.String(),
			})
			return err
		},
	})
	if err != nil {
		h.logger.Debug("column move rejected", "column", col.ID, "err", err)
		respondMoveError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMoveResponse(placement))
}
