package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"groove/internal/handler"
	"groove/internal/model"
	"groove/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupBoardTest(userID uuid.UUID, maxBoards int) (*gin.Engine, *MockBoardStore, *MockAccess, *MockActivityLog) {
	gin.SetMode(gin.TestMode)
	boards, access, activities := new(MockBoardStore), new(MockAccess), new(MockActivityLog)
	h := handler.NewBoardHandler(boards, access, quietJournal(activities), maxBoards)

	r := gin.New()
	r.Use(authenticated(userID))
	r.POST("/boards", h.Create)
	r.GET("/boards/:id", h.GetByID)
	r.DELETE("/boards/:id", h.Delete)
	return r, boards, access, activities
}

func TestCreateBoard_LimitReached(t *testing.T) {
	userID := uuid.New()
	router, boards, _, _ := setupBoardTest(userID, 3)
	boards.On("CountOwned", mock.Anything, userID).Return(int64(3), nil)

	resp := postJSON(t, router, "/boards", handler.CreateBoardRequest{Title: "One too many"})

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "Maximum number of boards reached (3)")
	boards.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBoard_Success(t *testing.T) {
	userID := uuid.New()
	router, boards, _, activities := setupBoardTest(userID, 3)
	boardID := uuid.New()

	boards.On("CountOwned", mock.Anything, userID).Return(int64(1), nil)
	boards.On("Create", mock.Anything, mock.MatchedBy(func(b *model.Board) bool {
		return b.OwnerID == userID && b.Title == "Roadmap"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Board).ID = boardID
	}).Return(nil)
	activities.On("Record", mock.Anything, boardID, userID, model.ActivityBoardCreated, mock.Anything).
		Return(nil, assert.AnError)

	resp := postJSON(t, router, "/boards", handler.CreateBoardRequest{Title: "Roadmap"})

	// a failed feed write does not fail the request
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.BoardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, boardID.String(), response.ID)
	assert.Equal(t, userID.String(), response.OwnerID)
	boards.AssertExpectations(t)
	activities.AssertExpectations(t)
}

func TestGetBoard_OrderedContent(t *testing.T) {
	userID := uuid.New()
	router, boards, access, _ := setupBoardTest(userID, 3)
	boardID := uuid.New()
	colID := uuid.New()

	access.On("Role", mock.Anything, boardID, userID).Return(model.RoleViewer, nil)
	boards.On("GetWithContent", mock.Anything, boardID).Return(&model.Board{
		ID:       boardID,
		Title:    "Roadmap",
		Revision: 2,
		Columns: []model.Column{{
			ID: colID, BoardID: boardID, Title: "Todo", Position: 0, Revision: 7,
			Cards: []model.Card{
				{ID: uuid.New(), ColumnID: colID, Title: "first", Position: 1},
				{ID: uuid.New(), ColumnID: colID, Title: "second", Position: 1.5},
			},
		}},
	}, nil)

	req, _ := http.NewRequest("GET", "/boards/"+boardID.String(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var response handler.BoardDetailResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, model.RoleViewer, response.Role)
	require.Len(t, response.Columns, 1)
	assert.Equal(t, int64(7), response.Columns[0].Revision)
	require.Len(t, response.Columns[0].Cards, 2)
	assert.Equal(t, "first", response.Columns[0].Cards[0].Title)
	assert.Equal(t, "second", response.Columns[0].Cards[1].Title)
}

func TestGetBoard_NoAccess(t *testing.T) {
	userID := uuid.New()
	router, boards, access, _ := setupBoardTest(userID, 3)
	boardID := uuid.New()
	access.On("Role", mock.Anything, boardID, userID).Return("", nil)

	req, _ := http.NewRequest("GET", "/boards/"+boardID.String(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	boards.AssertNotCalled(t, "GetWithContent", mock.Anything, mock.Anything)
}

func TestGetBoard_Missing(t *testing.T) {
	userID := uuid.New()
	router, _, access, _ := setupBoardTest(userID, 3)
	boardID := uuid.New()
	access.On("Role", mock.Anything, boardID, userID).Return("", repository.ErrBoardNotFound)

	req, _ := http.NewRequest("GET", "/boards/"+boardID.String(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteBoard_EditorIsForbidden(t *testing.T) {
	userID := uuid.New()
	router, boards, access, _ := setupBoardTest(userID, 3)
	boardID := uuid.New()
	access.On("Role", mock.Anything, boardID, userID).Return(model.RoleEditor, nil)

	req, _ := http.NewRequest("DELETE", "/boards/"+boardID.String(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	boards.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
