package repository_test

import (
	"context"
	"encoding/json"
	"testing"

	"groove/internal/model"
	"groove/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_Record(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewActivityRepository(gormDB)
	boardID, actorID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "activities"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	a, err := repo.Record(context.Background(), boardID, actorID, model.ActivityCardMoved,
		map[string]interface{}{"from": "Todo", "to": "Done"})

	require.NoError(t, err)
	_, err = ulid.ParseStrict(a.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.ActivityCardMoved, a.Kind)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(a.Payload, &payload))
	assert.Equal(t, "Done", payload["to"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepository_ListByBoard(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewActivityRepository(gormDB)
	boardID, actorID := uuid.New(), uuid.New()
	newer, older := ulid.Make().String(), ulid.Make().String()

	mock.ExpectQuery(`SELECT \* FROM "activities" WHERE board_id = .* AND id < .* ORDER BY id DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "actor_id", "kind", "payload"}).
			AddRow(newer, boardID.String(), actorID.String(), model.ActivityCardCreated, []byte(`{}`)).
			AddRow(older, boardID.String(), actorID.String(), model.ActivityCardMoved, []byte(`{}`)))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name"}).
			AddRow(actorID.String(), "a@example.com", "Ann"))

	activities, err := repo.ListByBoard(context.Background(), boardID, ulid.Make().String(), 500)

	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, newer, activities[0].ID)
	assert.Equal(t, "Ann", activities[1].Actor.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
