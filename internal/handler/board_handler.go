package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"groove/internal/model"
	"groove/internal/repository"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	Journal
	boards    BoardStore
	access    AccessChecker
	maxBoards int
}

func NewBoardHandler(boards BoardStore, access AccessChecker, j Journal, maxBoards int) *BoardHandler {
	return &BoardHandler{Journal: j, boards: boards, access: access, maxBoards: maxBoards}
}

type CreateBoardRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

type UpdateBoardRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

type BoardResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
	Revision    int64  `json:"revision"`
	CreatedAt   string `json:"created_at"`
}

// BoardDetailResponse is the full board as a client renders it: columns and
// their cards in display order, with the revisions to send back on moves.
type BoardDetailResponse struct {
	BoardResponse
	Role    string           `json:"role"`
	Columns []ColumnResponse `json:"columns"`
}

func toBoardResponse(b *model.Board) BoardResponse {
	return BoardResponse{
		ID:          b.ID.String(),
		Title:       b.Title,
		Description: b.Description,
		OwnerID:     b.OwnerID.String(),
		Revision:    b.Revision,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
}

// Create godoc
// @Summary      Create a board
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateBoardRequest true "Board"
// @Success      201 {object} BoardResponse
// @Failure      403 {object} map[string]string
// @Router       /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := h.boards.CountOwned(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check board count"})
		return
	}
	if count >= int64(h.maxBoards) {
		c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("Maximum number of boards reached (%d)", h.maxBoards)})
		return
	}

	var req CreateBoardRequest
	if !bindJSON(c, &req) {
		return
	}

	board := &model.Board{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     ownerID,
	}
	if err := h.boards.Create(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	h.record(c, board.ID, ownerID, model.ActivityBoardCreated, map[string]interface{}{"title": board.Title})
	c.JSON(http.StatusCreated, toBoardResponse(board))
}

// GetAll godoc
// @Summary      Boards the user owns or is a member of
// @Tags         Boards
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} BoardResponse
// @Router       /boards [get]
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boards, err := h.boards.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = toBoardResponse(&boards[i])
	}
	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary      Board with its columns and cards
// @Tags         Boards
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      200 {object} BoardDetailResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /boards/{id} [get]
func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
		return
	}
	role, ok := requireRole(c, h.access, boardID, userID, model.RoleViewer)
	if !ok {
		return
	}

	board, err := h.boards.GetWithContent(c.Request.Context(), boardID)
	if errors.Is(err, repository.ErrBoardNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}

	columns := make([]ColumnResponse, len(board.Columns))
	for i := range board.Columns {
		columns[i] = toColumnResponse(&board.Columns[i], true)
	}
	c.JSON(http.StatusOK, BoardDetailResponse{
		BoardResponse: toBoardResponse(board),
		Role:          role,
		Columns:       columns,
	})
}

// Update godoc
// @Summary      Rename a board
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        request body UpdateBoardRequest true "Board"
// @Success      200 {object} BoardResponse
// @Router       /boards/{id} [put]
func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
		return
	}
	if _, ok := requireRole(c, h.access, boardID, userID, model.RoleEditor); !ok {
		return
	}

	var req UpdateBoardRequest
	if !bindJSON(c, &req) {
		return
	}

	board, err := h.boards.GetByID(c.Request.Context(), boardID)
	if errors.Is(err, repository.ErrBoardNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}

	board.Title = req.Title
	board.Description = req.Description
	if err := h.boards.Update(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	h.record(c, board.ID, userID, model.ActivityBoardUpdated, map[string]interface{}{"title": board.Title})
	c.JSON(http.StatusOK, toBoardResponse(board))
}

// Delete godoc
// @Summary      Delete a board (owner only)
// @Tags         Boards
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      204
// @Router       /boards/{id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
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

	if err := h.boards.Delete(c.Request.Context(), boardID); err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete board"})
		return
	}
	c.Status(http.StatusNoContent)
}
