package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"groove/internal/handler"
	"groove/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func setupActivityTest(userID uuid.UUID) (*gin.Engine, *MockActivityLog, *MockAccess) {
	gin.SetMode(gin.TestMode)
	activities, access := new(MockActivityLog), new(MockAccess)
	h := handler.NewActivityHandler(activities, access)

	r := gin.New()
	r.Use(authenticated(userID))
	r.GET("/boards/:id/activity", h.List)
	return r, activities, access
}

func TestActivityList_FullPageHasCursor(t *testing.T) {
	userID, boardID := uuid.New(), uuid.New()
	router, activities, access := setupActivityTest(userID)
	cursor := ulid.Make().String()
	newer, older := ulid.Make().String(), ulid.Make().String()

	access.On("Role", mock.Anything, boardID, userID).Return(model.RoleViewer, nil)
	activities.On("ListByBoard", mock.Anything, boardID, cursor, 2).Return([]model.Activity{
		{ID: newer, Kind: model.ActivityCardMoved, Payload: datatypes.JSON(`{"to":"Done"}`), Actor: model.User{ID: userID, Name: "Ann"}},
		{ID: older, Kind: model.ActivityCardCreated},
	}, nil)

	req, _ := http.NewRequest("GET", "/boards/"+boardID.String()+"/activity?limit=2&before="+cursor, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var page handler.ActivityPage
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Ann", page.Items[0].Actor.Name)
	assert.JSONEq(t, `{"to":"Done"}`, string(page.Items[0].Payload))
	assert.Equal(t, older, page.NextBefore)
}

func TestActivityList_LastPageHasNoCursor(t *testing.T) {
	userID, boardID := uuid.New(), uuid.New()
	router, activities, access := setupActivityTest(userID)

	access.On("Role", mock.Anything, boardID, userID).Return(model.RoleEditor, nil)
	activities.On("ListByBoard", mock.Anything, boardID, "", 0).
		Return([]model.Activity{{ID: ulid.Make().String(), Kind: model.ActivityBoardCreated}}, nil)

	req, _ := http.NewRequest("GET", "/boards/"+boardID.String()+"/activity", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "next_before")
}

func TestActivityList_BadCursor(t *testing.T) {
	userID := uuid.New()
	router, activities, _ := setupActivityTest(userID)

	req, _ := http.NewRequest("GET", "/boards/"+uuid.NewString()+"/activity?before=yesterday", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	activities.AssertNotCalled(t, "ListByBoard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
