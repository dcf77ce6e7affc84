// internal/service/chat_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	gatewaymocks "smart_learn_api/internal/gateway/mocks"
	"smart_learn_api/internal/model"
	"smart_learn_api/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBChat() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

func Test_chatService_Post(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBChat()
	learnerID := uuid.New()

	existingHistory := []*model.ChatMessage{
		{MessageID: uuid.New(), LearnerID: learnerID, Kind: model.ChatKindGeneral, Role: model.ChatRoleUser, Text: "Hello"},
		{MessageID: uuid.New(), LearnerID: learnerID, Kind: model.ChatKindGeneral, Role: model.ChatRoleModel, Text: "Hi there"},
	}

	tests := []struct {
		name      string
		req       *model.PostChatRequest
		setupMock func(chatRepo *mocks.ChatRepository, gw *gatewaymocks.Client)
		wantErr   error
		check     func(t *testing.T, resp *model.ChatResponse)
	}{
		{
			name: "正常系: 履歴を文脈に応答を生成し両メッセージを保存",
			req:  &model.PostChatRequest{Message: "What should I learn next?"},
			setupMock: func(chatRepo *mocks.ChatRepository, gw *gatewaymocks.Client) {
				chatRepo.On("FindHistory", ctx, db, learnerID, model.ChatKindGeneral, (*uuid.UUID)(nil)).
					Return(existingHistory, nil).Once()
				gw.On("Chat", ctx,
					[]model.ChatTurn{
						{Role: model.ChatRoleUser, Text: "Hello"},
						{Role: model.ChatRoleModel, Text: "Hi there"},
					},
					"What should I learn next?").Return("Try goroutines next.", nil).Once()
				chatRepo.On("Append", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.ChatMessage")).
					Run(func(args mock.Arguments) {
						msg := args.Get(2).(*model.ChatMessage)
						assert.Equal(t, learnerID, msg.LearnerID)
						assert.Equal(t, model.ChatKindGeneral, msg.Kind)
					}).Return(nil).Twice()
			},
			check: func(t *testing.T, resp *model.ChatResponse) {
				require.NotNil(t, resp.Reply)
				assert.Equal(t, model.ChatRoleModel, resp.Reply.Role)
				assert.Equal(t, "Try goroutines next.", resp.Reply.Text)
			},
		},
		{
			name: "正常系: 履歴が空でも投稿できる",
			req:  &model.PostChatRequest{Message: "Hello"},
			setupMock: func(chatRepo *mocks.ChatRepository, gw *gatewaymocks.Client) {
				chatRepo.On("FindHistory", ctx, db, learnerID, model.ChatKindGeneral, (*uuid.UUID)(nil)).
					Return([]*model.ChatMessage{}, nil).Once()
				gw.On("Chat", ctx, []model.ChatTurn{}, "Hello").Return("Hi!", nil).Once()
				chatRepo.On("Append", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.ChatMessage")).
					Return(nil).Twice()
			},
			check: func(t *testing.T, resp *model.ChatResponse) {
				assert.Equal(t, "Hi!", resp.Reply.Text)
			},
		},
		{
			name: "異常系: 履歴取得でDBエラー",
			req:  &model.PostChatRequest{Message: "Hello"},
			setupMock: func(chatRepo *mocks.ChatRepository, gw *gatewaymocks.Client) {
				chatRepo.On("FindHistory", ctx, db, learnerID, model.ChatKindGeneral, (*uuid.UUID)(nil)).
					Return(nil, errors.New("db error")).Once()
			},
			wantErr: model.ErrInternalServer,
		},
		{
			name: "異常系: 応答生成に失敗した場合は何も保存しない",
			req:  &model.PostChatRequest{Message: "Hello"},
			setupMock: func(chatRepo *mocks.ChatRepository, gw *gatewaymocks.Client) {
				chatRepo.On("FindHistory", ctx, db, learnerID, model.ChatKindGeneral, (*uuid.UUID)(nil)).
					Return([]*model.ChatMessage{}, nil).Once()
				gw.On("Chat", ctx, []model.ChatTurn{}, "Hello").
					Return("", model.ErrGatewayUnavailable).Once()
				// Append は呼ばれない
			},
			wantErr: model.ErrGatewayUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatRepo := new(mocks.ChatRepository)
			gw := new(gatewaymocks.Client)
			tt.setupMock(chatRepo, gw)

			chatService := NewChatService(db, chatRepo, gw)
			resp, err := chatService.Post(ctx, learnerID, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
				tt.check(t, resp)
			}

			chatRepo.AssertExpectations(t)
			gw.AssertExpectations(t)
		})
	}
}

func Test_chatService_GetHistory(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBChat()
	learnerID := uuid.New()

	tests := []struct {
		name      string
		setupMock func(chatRepo *mocks.ChatRepository)
		wantErr   error
		wantLen   int
	}{
		{
			name: "正常系: 履歴を取得",
			setupMock: func(chatRepo *mocks.ChatRepository) {
				history := []*model.ChatMessage{
					{MessageID: uuid.New(), LearnerID: learnerID, Kind: model.ChatKindGeneral, Role: model.ChatRoleUser, Text: "Hello"},
				}
				chatRepo.On("FindHistory", ctx, db, learnerID, model.ChatKindGeneral, (*uuid.UUID)(nil)).
					Return(history, nil).Once()
			},
			wantLen: 1,
		},
		{
			name: "異常系: 取得でDBエラー",
			setupMock: func(chatRepo *mocks.ChatRepository) {
				chatRepo.On("FindHistory", ctx, db, learnerID, model.ChatKindGeneral, (*uuid.UUID)(nil)).
					Return(nil, errors.New("db error")).Once()
			},
			wantErr: model.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatRepo := new(mocks.ChatRepository)
			tt.setupMock(chatRepo)

			chatService := NewChatService(db, chatRepo, new(gatewaymocks.Client))
			messages, err := chatService.GetHistory(ctx, learnerID)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, messages)
			} else {
				require.NoError(t, err)
				assert.Len(t, messages, tt.wantLen)
			}

			chatRepo.AssertExpectations(t)
		})
	}
}

func Test_chatService_ClearHistory(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBChat()
	learnerID := uuid.New()

	tests := []struct {
		name      string
		setupMock func(chatRepo *mocks.ChatRepository)
		wantErr   error
	}{
		{
			name: "正常系: 履歴を全削除",
			setupMock: func(chatRepo *mocks.ChatRepository) {
				chatRepo.On("DeleteHistory", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, model.ChatKindGeneral).
					Return(nil).Once()
			},
		},
		{
			name: "異常系: 削除でDBエラー",
			setupMock: func(chatRepo *mocks.ChatRepository) {
				chatRepo.On("DeleteHistory", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, model.ChatKindGeneral).
					Return(errors.New("db error")).Once()
			},
			wantErr: model.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatRepo := new(mocks.ChatRepository)
			tt.setupMock(chatRepo)

			chatService := NewChatService(db, chatRepo, new(gatewaymocks.Client))
			err := chatService.ClearHistory(ctx, learnerID)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			chatRepo.AssertExpectations(t)
		})
	}
}
