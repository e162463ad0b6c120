package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"groove/internal/handler"
	"groove/internal/model"
	"groove/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupMemberTest(userID uuid.UUID) (*gin.Engine, *MockMemberStore, *MockActivityLog) {
	gin.SetMode(gin.TestMode)
	members, activities := new(MockMemberStore), new(MockActivityLog)
	h := handler.NewMemberHandler(members, quietJournal(activities))

	r := gin.New()
	r.Use(authenticated(userID))
	r.GET("/boards/:id/members", h.List)
	r.PUT("/boards/:id/members/:user_id", h.UpdateRole)
	r.DELETE("/boards/:id/members/:user_id", h.Remove)
	return r, members, activities
}

func TestListMembers(t *testing.T) {
	userID, boardID := uuid.New(), uuid.New()
	router, members, _ := setupMemberTest(userID)

	members.On("Role", mock.Anything, boardID, userID).Return(model.RoleViewer, nil)
	members.On("List", mock.Anything, boardID).Return([]model.BoardMember{{
		BoardID:   boardID,
		UserID:    userID,
		Role:      model.RoleViewer,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		User:      model.User{ID: userID, Email: "ann@example.com", Name: "Ann"},
	}}, nil)

	req, _ := http.NewRequest("GET", "/boards/"+boardID.String()+"/members", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var got []handler.MemberResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "ann@example.com", got[0].Email)
	assert.Equal(t, model.RoleViewer, got[0].Role)
}

func TestUpdateMemberRole_OwnerOnly(t *testing.T) {
	userID, boardID, memberID := uuid.New(), uuid.New(), uuid.New()
	router, members, _ := setupMemberTest(userID)
	members.On("Role", mock.Anything, boardID, userID).Return(model.RoleEditor, nil)

	body, _ := json.Marshal(handler.UpdateMemberRequest{Role: model.RoleViewer})
	req, _ := http.NewRequest("PUT", "/boards/"+boardID.String()+"/members/"+memberID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	members.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateMemberRole_CannotGrantOwner(t *testing.T) {
	userID, boardID, memberID := uuid.New(), uuid.New(), uuid.New()
	router, members, _ := setupMemberTest(userID)
	members.On("Role", mock.Anything, boardID, userID).Return(model.RoleOwner, nil)

	body, _ := json.Marshal(handler.UpdateMemberRequest{Role: model.RoleOwner})
	req, _ := http.NewRequest("PUT", "/boards/"+boardID.String()+"/members/"+memberID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "role")
}

func TestUpdateMemberRole_Success(t *testing.T) {
	userID, boardID, memberID := uuid.New(), uuid.New(), uuid.New()
	router, members, activities := setupMemberTest(userID)
	members.On("Role", mock.Anything, boardID, userID).Return(model.RoleOwner, nil)
	members.On("UpdateRole", mock.Anything, boardID, memberID, model.RoleEditor).Return(nil)
	activities.On("Record", mock.Anything, boardID, userID, model.ActivityMemberRoleChanged, mock.Anything).
		Return(&model.Activity{}, nil)

	body, _ := json.Marshal(handler.UpdateMemberRequest{Role: model.RoleEditor})
	req, _ := http.NewRequest("PUT", "/boards/"+boardID.String()+"/members/"+memberID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	members.AssertExpectations(t)
	activities.AssertExpectations(t)
}

func TestRemoveMember_SelfAsViewer(t *testing.T) {
	userID, boardID := uuid.New(), uuid.New()
	router, members, activities := setupMemberTest(userID)
	members.On("Role", mock.Anything, boardID, userID).Return(model.RoleViewer, nil)
	members.On("Remove", mock.Anything, boardID, userID).Return(nil)
	activities.On("Record", mock.Anything, boardID, userID, model.ActivityMemberRemoved, mock.Anything).
		Return(&model.Activity{}, nil)

	req, _ := http.NewRequest("DELETE", "/boards/"+boardID.String()+"/members/"+userID.String(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	members.AssertExpectations(t)
}

func TestRemoveMember_OtherNeedsOwner(t *testing.T) {
	userID, boardID, other := uuid.New(), uuid.New(), uuid.New()
	router, members, _ := setupMemberTest(userID)
	members.On("Role", mock.Anything, boardID, userID).Return(model.RoleEditor, nil)

	req, _ := http.NewRequest("DELETE", "/boards/"+boardID.String()+"/members/"+other.String(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	members.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveMember_NotFound(t *testing.T) {
	userID, boardID, other := uuid.New(), uuid.New(), uuid.New()
	router, members, _ := setupMemberTest(userID)
	members.On("Role", mock.Anything, boardID, userID).Return(model.RoleOwner, nil)
	members.On("Remove", mock.Anything, boardID, other).Return(repository.ErrMemberNotFound)

	req, _ := http.NewRequest("DELETE", "/boards/"+boardID.String()+"/members/"+other.String(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
