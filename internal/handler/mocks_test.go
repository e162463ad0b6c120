package handler_test

import (
	"context"
	"io"
	"time"

	"groove/internal/handler"
	"groove/internal/logger"
	"groove/internal/middleware"
	"groove/internal/model"
	"groove/internal/reorder"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

type MockBoardStore struct {
	mock.Mock
}

func (m *MockBoardStore) Create(ctx context.Context, board *model.Board) error {
	return m.Called(ctx, board).Error(0)
}

func (m *MockBoardStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Board), args.Error(1)
}

func (m *MockBoardStore) CountOwned(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBoardStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	args := m.Called(ctx, id)
	board := args.Get(0)
	if board == nil {
		return nil, args.Error(1)
	}
	return board.(*model.Board), args.Error(1)
}

func (m *MockBoardStore) GetWithContent(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	args := m.Called(ctx, id)
	board := args.Get(0)
	if board == nil {
		return nil, args.Error(1)
	}
	return board.(*model.Board), args.Error(1)
}

func (m *MockBoardStore) Update(ctx context.Context, board *model.Board) error {
	return m.Called(ctx, board).Error(0)
}

func (m *MockBoardStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockAccess struct {
	mock.Mock
}

func (m *MockAccess) Role(ctx context.Context, boardID, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, boardID, userID)
	return args.String(0), args.Error(1)
}

type MockMemberStore struct {
	MockAccess
}

func (m *MockMemberStore) List(ctx context.Context, boardID uuid.UUID) ([]model.BoardMember, error) {
	args := m.Called(ctx, boardID)
	members, _ := args.Get(0).([]model.BoardMember)
	return members, args.Error(1)
}

func (m *MockMemberStore) UpdateRole(ctx context.Context, boardID, userID uuid.UUID, role string) error {
	return m.Called(ctx, boardID, userID, role).Error(0)
}

func (m *MockMemberStore) Remove(ctx context.Context, boardID, userID uuid.UUID) error {
	return m.Called(ctx, boardID, userID).Error(0)
}

type MockInvitationStore struct {
	mock.Mock
}

func (m *MockInvitationStore) Create(ctx context.Context, inv *model.Invitation) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvitationStore) ListPending(ctx context.Context, boardID uuid.UUID) ([]model.Invitation, error) {
	args := m.Called(ctx, boardID)
	return args.Get(0).([]model.Invitation), args.Error(1)
}

func (m *MockInvitationStore) Revoke(ctx context.Context, boardID, id uuid.UUID) error {
	return m.Called(ctx, boardID, id).Error(0)
}

func (m *MockInvitationStore) Accept(ctx context.Context, token string, user *model.User, now time.Time) (*model.Invitation, error) {
	args := m.Called(ctx, token, user, now)
	inv := args.Get(0)
	if inv == nil {
		return nil, args.Error(1)
	}
	return inv.(*model.Invitation), args.Error(1)
}

type MockColumnStore struct {
	mock.Mock
}

func (m *MockColumnStore) Create(ctx context.Context, column *model.Column) error {
	return m.Called(ctx, column).Error(0)
}

func (m *MockColumnStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	args := m.Called(ctx, id)
	col := args.Get(0)
	if col == nil {
		return nil, args.Error(1)
	}
	return col.(*model.Column), args.Error(1)
}

func (m *MockColumnStore) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	args := m.Called(ctx, boardID)
	return args.Get(0).([]model.Column), args.Error(1)
}

func (m *MockColumnStore) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	return m.Called(ctx, id, title).Error(0)
}

func (m *MockColumnStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCardStore struct {
	mock.Mock
}

func (m *MockCardStore) Create(ctx context.Context, card *model.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	args := m.Called(ctx, id)
	card := args.Get(0)
	if card == nil {
		return nil, args.Error(1)
	}
	return card.(*model.Card), args.Error(1)
}

func (m *MockCardStore) GetByColumnID(ctx context.Context, columnID uuid.UUID) ([]model.Card, error) {
	args := m.Called(ctx, columnID)
	return args.Get(0).([]model.Card), args.Error(1)
}

func (m *MockCardStore) Update(ctx context.Context, id uuid.UUID, title, description string, dueDate *time.Time) error {
	return m.Called(ctx, id, title, description, dueDate).Error(0)
}

func (m *MockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCardStore) AddAssignee(ctx context.Context, cardID, userID uuid.UUID) error {
	return m.Called(ctx, cardID, userID).Error(0)
}

func (m *MockCardStore) RemoveAssignee(ctx context.Context, cardID, userID uuid.UUID) error {
	return m.Called(ctx, cardID, userID).Error(0)
}

type MockActivityLog struct {
	mock.Mock
}

func (m *MockActivityLog) Record(ctx context.Context, boardID, actorID uuid.UUID, kind string, payload map[string]interface{}) (*model.Activity, error) {
	args := m.Called(ctx, boardID, actorID, kind, payload)
	a := args.Get(0)
	if a == nil {
		return nil, args.Error(1)
	}
	return a.(*model.Activity), args.Error(1)
}

func (m *MockActivityLog) RecordTx(ctx context.Context, tx *gorm.DB, boardID, actorID uuid.UUID, kind string, payload map[string]interface{}) (*model.Activity, error) {
	args := m.Called(ctx, tx, boardID, actorID, kind, payload)
	a := args.Get(0)
	if a == nil {
		return nil, args.Error(1)
	}
	return a.(*model.Activity), args.Error(1)
}

func (m *MockActivityLog) ListByBoard(ctx context.Context, boardID uuid.UUID, before string, limit int) ([]model.Activity, error) {
	args := m.Called(ctx, boardID, before, limit)
	return args.Get(0).([]model.Activity), args.Error(1)
}

type MockMover struct {
	mock.Mock
}

func (m *MockMover) MoveWithRetry(ctx context.Context, req reorder.Request) (reorder.Placement, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(reorder.Placement), args.Error(1)
}

func quietJournal(activities handler.ActivityLog) handler.Journal {
	return handler.NewJournal(activities, logger.NewWithWriter(io.Discard, "error"))
}

// authenticated stands in for JWTAuthMiddleware.
func authenticated(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

type MockCommentStore struct {
	mock.Mock
}

func (m *MockCommentStore) Create(ctx context.Context, comment *model.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	args := m.Called(ctx, id)
	comment := args.Get(0)
	if comment == nil {
		return nil, args.Error(1)
	}
	return comment.(*model.Comment), args.Error(1)
}

func (m *MockCommentStore) ListByCard(ctx context.Context, cardID uuid.UUID) ([]model.Comment, error) {
	args := m.Called(ctx, cardID)
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentStore) UpdateBody(ctx context.Context, id uuid.UUID, body string) error {
	return m.Called(ctx, id, body).Error(0)
}

func (m *MockCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
