package repository

import (
	"context"
	"errors"

	"groove/internal/model"
	"groove/internal/ordering"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

// Create appends the column after the board's last column. Bumping the
// board revision first locks the board row, so concurrent appends queue up.
func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Board{}).Where("id = ?", column.BoardID).
			Update("revision", gorm.Expr("revision + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBoardNotFound
		}

		max, err := maxPosition(tx.Model(&model.Column{}).Where("board_id = ?", column.BoardID))
		if err != nil {
			return err
		}
		if column.Position, err = ordering.Between(max, nil); err != nil {
			return err
		}
		return tx.Create(column).Error
	})
}

func (r *ColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

func (r *ColumnRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("position, id").Find(&columns).Error
	return columns, err
}

// UpdateTitle never touches position; only moves do.
func (r *ColumnRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	res := r.db.WithContext(ctx).Model(&model.Column{}).Where("id = ?", id).Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}

func (r *ColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Column{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}

// maxPosition returns nil for an empty container.
func maxPosition(scope *gorm.DB) (*float64, error) {
	var result struct {
		Max *float64
	}
	err := scope.Select("MAX(position) AS max").Scan(&result).Error
	return result.Max, err
}
