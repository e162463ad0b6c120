// Package reorder turns a drag-and-drop gesture into a persisted move: the
// item's container and position are rewritten together in one transaction.
package reorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"groove/internal/ordering"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope names the tables of one kind of ordered item. Values are trusted
// constants; they are interpolated into SQL.
type Scope struct {
	Name         string
	Items        string
	ContainerKey string
	Containers   string
}

var (
	CardsInColumns  = Scope{Name: "card", Items: "cards", ContainerKey: "column_id", Containers: "columns"}
	ColumnsInBoards = Scope{Name: "column", Items: "columns", ContainerKey: "board_id", Containers: "boards"}
)

// Request describes one drop.
type Request struct {
	Scope  Scope
	ItemID uuid.UUID
	// FromContainerID, when set, is the container the client believes the
	// item is in.
	FromContainerID *uuid.UUID
	ToContainerID   uuid.UUID
	Anchor          Anchor
	// ExpectedRevision, when set, is the target container revision the
	// client computed its drop against.
	ExpectedRevision *int64
	// AfterMove runs inside the move transaction once the write succeeded.
	AfterMove func(tx *gorm.DB, p Placement) error
}

// Placement is the committed result of a move.
type Placement struct {
	ItemID          uuid.UUID
	FromContainerID uuid.UUID
	ContainerID     uuid.UUID
	Position        float64
	Revision        int64
	Rebalanced      bool
}

func (p Placement) ChangedContainer() bool {
	return p.FromContainerID != p.ContainerID
}

type Coordinator struct {
	db         *gorm.DB
	logger     *log.Logger
	maxRetries int
}

func NewCoordinator(db *gorm.DB, logger *log.Logger, maxRetries int) *Coordinator {
	return &Coordinator{db: db, logger: logger, maxRetries: maxRetries}
}

type itemRow struct {
	ID          uuid.UUID
	ContainerID uuid.UUID
	Position    float64
}

type containerRow struct {
	ID       uuid.UUID
	Revision int64
}

// Move performs a single attempt.
func (c *Coordinator) Move(ctx context.Context, req Request) (Placement, error) {
	if req.Anchor.kind == anchorAfter && req.Anchor.after == req.ItemID {
		return Placement{}, ErrInvalidAnchor
	}

	var placement Placement
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s := req.Scope

		var item itemRow
		res := tx.Raw(fmt.Sprintf(
			"SELECT id, %s AS container_id, position FROM %s WHERE id = ? FOR UPDATE",
			s.ContainerKey, s.Items), req.ItemID).Scan(&item)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s %s", ErrNotFound, s.Name, req.ItemID)
		}
		if req.FromContainerID != nil && *req.FromContainerID != item.ContainerID {
			return fmt.Errorf("%w: %s %s is no longer in %s", ErrStale, s.Name, req.ItemID, *req.FromContainerID)
		}

		containers, err := lockContainers(tx, s, req.ToContainerID, item.ContainerID)
		if err != nil {
			return err
		}
		container := containers[req.ToContainerID]
		if req.ExpectedRevision != nil && *req.ExpectedRevision != container.Revision {
			return fmt.Errorf("%w: revision %d, expected %d", ErrStale, container.Revision, *req.ExpectedRevision)
		}

		var siblings []Sibling
		if err := tx.Raw(fmt.Sprintf(
			"SELECT id, position FROM %s WHERE %s = ? AND id <> ? ORDER BY position, id",
			s.Items, s.ContainerKey), req.ToContainerID, req.ItemID).Scan(&siblings).Error; err != nil {
			return err
		}

		position, err := Plan(siblings, req.Anchor)
		rebalanced := false
		if errors.Is(err, ordering.ErrPrecisionExhausted) {
			c.logger.Info("renumbering container", "scope", s.Name, "container", req.ToContainerID, "siblings", len(siblings))
			if err := renumber(tx, s, siblings); err != nil {
				return err
			}
			rebalanced = true
			position, err = Plan(siblings, req.Anchor)
		}
		if err != nil {
			return err
		}

		if err := tx.Exec(fmt.Sprintf(
			"UPDATE %s SET %s = ?, position = ? WHERE id = ?", s.Items, s.ContainerKey),
			req.ToContainerID, position, req.ItemID).Error; err != nil {
			return err
		}

		res = tx.Exec(fmt.Sprintf(
			"UPDATE %s SET revision = revision + 1 WHERE id = ? AND revision = ?", s.Containers),
			req.ToContainerID, container.Revision)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: container %s", ErrConflict, req.ToContainerID)
		}

		if item.ContainerID != req.ToContainerID {
			if err := tx.Exec(fmt.Sprintf(
				"UPDATE %s SET revision = revision + 1 WHERE id = ?", s.Containers),
				item.ContainerID).Error; err != nil {
				return err
			}
		}

		placement = Placement{
			ItemID:          req.ItemID,
			FromContainerID: item.ContainerID,
			ContainerID:     req.ToContainerID,
			Position:        position,
			Revision:        container.Revision + 1,
			Rebalanced:      rebalanced,
		}

		if req.AfterMove != nil {
			return req.AfterMove(tx, placement)
		}
		return nil
	})
	if err != nil {
		return Placement{}, translate(err)
	}
	return placement, nil
}

// MoveWithRetry repeats Move while it loses races against other moves into
// the same container. Stale client views are returned immediately.
func (c *Coordinator) MoveWithRetry(ctx context.Context, req Request) (Placement, error) {
	for attempt := 0; ; attempt++ {
		p, err := c.Move(ctx, req)
		if err == nil || !errors.Is(err, ErrConflict) || errors.Is(err, ErrStale) || attempt >= c.maxRetries {
			return p, err
		}
		c.logger.Warn("move lost a race, retrying", "scope", req.Scope.Name, "item", req.ItemID, "attempt", attempt+1)
		if ctx.Err() != nil {
			return Placement{}, ctx.Err()
		}
	}
}

// lockContainers locks the target and source containers in ascending id
// order, so two moves crossing the same pair of containers queue instead of
// deadlocking. A container deleted concurrently is ErrNotFound.
func lockContainers(tx *gorm.DB, s Scope, ids ...uuid.UUID) (map[uuid.UUID]containerRow, error) {
	sorted := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(sorted, id) {
			sorted = append(sorted, id)
		}
	}
	slices.SortFunc(sorted, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })

	locked := make(map[uuid.UUID]containerRow, len(sorted))
	for _, id := range sorted {
		var row containerRow
		res := tx.Raw(fmt.Sprintf(
			"SELECT id, revision FROM %s WHERE id = ? FOR UPDATE", s.Containers), id).Scan(&row)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, fmt.Errorf("%w: container %s", ErrNotFound, id)
		}
		locked[id] = row
	}
	return locked, nil
}

// renumber rewrites siblings to evenly spaced keys in their current order and
// updates the slice in place.
func renumber(tx *gorm.DB, s Scope, siblings []Sibling) error {
	keys := ordering.Renumber(len(siblings))
	for i := range siblings {
		if err := tx.Exec(fmt.Sprintf("UPDATE %s SET position = ? WHERE id = ?", s.Items),
			keys[i], siblings[i].ID).Error; err != nil {
			return fmt.Errorf("renumber %s %s: %w", s.Name, siblings[i].ID, err)
		}
		siblings[i].Position = keys[i]
	}
	return nil
}
