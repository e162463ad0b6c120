package handler

import (
	"groove/internal/reorder"

	"github.com/google/uuid"
)

// MoveCardRequest is sent on a card drop. AfterID is the card now directly
// above the drop point: absent or empty for the top of the column, "end" for
// the bottom.
type MoveCardRequest struct {
	TargetColumnID   string  `json:"target_column_id" binding:"required,uuid"`
	FromColumnID     *string `json:"from_column_id" binding:"omitempty,uuid"`
	AfterID          *string `json:"after_id" binding:"omitempty,anchor"`
	ExpectedRevision *int64  `json:"expected_revision" binding:"omitempty,min=0"`
}

// MoveColumnRequest is sent on a column drop. Columns stay on their board;
// TargetBoardID, when sent, must be that board.
type MoveColumnRequest struct {
	TargetBoardID    string  `json:"target_board_id" binding:"omitempty,uuid"`
	AfterID          *string `json:"after_id" binding:"omitempty,anchor"`
	ExpectedRevision *int64  `json:"expected_revision" binding:"omitempty,min=0"`
}

// MoveResponse lets the client reconcile its optimistic state.
type MoveResponse struct {
	ID          string  `json:"id"`
	ContainerID string  `json:"container_id"`
	Position    float64 `json:"position"`
	Revision    int64   `json:"revision"`
	Rebalanced  bool    `json:"rebalanced"`
}

func toMoveResponse(p reorder.Placement) MoveResponse {
	return MoveResponse{
		ID:          p.ItemID.String(),
		ContainerID: p.ContainerID.String(),
		Position:    p.Position,
		Revision:    p.Revision,
		Rebalanced:  p.Rebalanced,
	}
}

func optionalID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}
