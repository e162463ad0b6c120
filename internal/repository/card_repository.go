package repository

import (
	"context"
	"errors"
	"time"

	"groove/internal/model"
	"groove/internal/ordering"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create appends the card to the end of its column.
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Column{}).Where("id = ?", card.ColumnID).
			Update("revision", gorm.Expr("revision + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrColumnNotFound
		}

		max, err := maxPosition(tx.Model(&model.Card{}).Where("column_id = ?", card.ColumnID))
		if err != nil {
			return err
		}
		if card.Position, err = ordering.Between(max, nil); err != nil {
			return err
		}
		return tx.Omit("Assignees").Create(card).Error
	})
}

// GetByID loads the card with its column (for the board id) and assignees.
func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	err := r.db.WithContext(ctx).
		Preload("Column").
		Preload("Assignees").
		First(&card, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) GetByColumnID(ctx context.Context, columnID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Preload("Assignees").
		Where("column_id = ?", columnID).
		Order("position, id").
		Find(&cards).Error
	return cards, err
}

// Update writes the editable fields; position and column change only through moves.
func (r *CardRepository) Update(ctx context.Context, id uuid.UUID, title, description string, dueDate *time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Card{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       title,
		"description": description,
		"due_date":    dueDate,
		"updated_at":  time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Card{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *CardRepository) AddAssignee(ctx context.Context, cardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO card_assignees (card_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		cardID, userID,
	).Error
}

func (r *CardRepository) RemoveAssignee(ctx context.Context, cardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM card_assignees WHERE card_id = ? AND user_id = ?",
		cardID, userID,
	).Error
}
