package repository

import (
	"context"
	"encoding/json"

	"groove/internal/model"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultActivityPage = 50
	MaxActivityPage     = 200
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// WithTx returns a repository writing through tx, so an activity commits or
// rolls back with the change it describes.
func (r *ActivityRepository) WithTx(tx *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: tx}
}

// Record stores a feed entry. payload is marshalled to JSON; nil is allowed.
func (r *ActivityRepository) Record(ctx context.Context, boardID, actorID uuid.UUID, kind string, payload map[string]interface{}) (*model.Activity, error) {
	a := &model.Activity{
		ID:      ulid.Make().String(),
		BoardID: boardID,
		ActorID: actorID,
		Kind:    kind,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		a.Payload = datatypes.JSON(raw)
	}
	if err := r.db.WithContext(ctx).Omit("Actor").Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// RecordTx records through tx; see WithTx.
func (r *ActivityRepository) RecordTx(ctx context.Context, tx *gorm.DB, boardID, actorID uuid.UUID, kind string, payload map[string]interface{}) (*model.Activity, error) {
	return r.WithTx(tx).Record(ctx, boardID, actorID, kind, payload)
}

// ListByBoard returns up to limit entries newer-first. before, when set, is
// the id of the last entry of the previous page.
func (r *ActivityRepository) ListByBoard(ctx context.Context, boardID uuid.UUID, before string, limit int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityPage
	}
	if limit > MaxActivityPage {
		limit = MaxActivityPage
	}

	q := r.db.WithContext(ctx).Preload("Actor").Where("board_id = ?", boardID)
	if before != "" {
		q = q.Where("id < ?", before)
	}

	var activities []model.Activity
	err := q.Order("id DESC").Limit(limit).Find(&activities).Error
	return activities, err
}
