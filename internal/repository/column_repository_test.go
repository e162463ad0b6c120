package repository_test

import (
	"context"
	"testing"

	"groove/internal/model"
	"groove/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestColumnRepository_Create_AppendsAfterLast(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewColumnRepository(gormDB)
	boardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "boards" SET .*"revision"=revision \+ 1`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT MAX\(position\) AS max FROM "columns" WHERE board_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(7.0))
	mock.ExpectQuery(`INSERT INTO "columns"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	col := &model.Column{BoardID: boardID, Title: "Done"}
	err := repo.Create(context.Background(), col)

	assert.NoError(t, err)
	assert.Equal(t, 8.0, col.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_Create_FirstColumnAtZero(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewColumnRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "boards"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT MAX\(position\)`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))
	mock.ExpectQuery(`INSERT INTO "columns"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	col := &model.Column{BoardID: uuid.New(), Title: "Todo", Position: 42}
	err := repo.Create(context.Background(), col)

	assert.NoError(t, err)
	assert.Equal(t, 0.0, col.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_Create_MissingBoard(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewColumnRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "boards"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.Column{BoardID: uuid.New(), Title: "Todo"})

	assert.ErrorIs(t, err, repository.ErrBoardNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Create_AppendsAndBumpsColumn(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCardRepository(gormDB)
	columnID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "columns" SET "revision"=revision \+ 1 WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT MAX\(position\) AS max FROM "cards" WHERE column_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(2.5))
	mock.ExpectQuery(`INSERT INTO "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	card := &model.Card{ColumnID: columnID, Title: "Ship it", CreatedBy: uuid.New()}
	err := repo.Create(context.Background(), card)

	assert.NoError(t, err)
	assert.Equal(t, 3.5, card.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}
