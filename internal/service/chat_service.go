// internal/service/chat_service.go
package service

import (
	"context"

	"smart_learn_api/internal/gateway"
	"smart_learn_api/internal/middleware"
	"smart_learn_api/internal/model"
	"smart_learn_api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatService は汎用チャットボットのトランスクリプトを担当します。
// モジュール単位の質問対応 (doubt) は StudyService 側が扱う。
type ChatService interface {
	GetHistory(ctx context.Context, learnerID uuid.UUID) ([]*model.ChatMessage, error)
	Post(ctx context.Context, learnerID uuid.UUID, req *model.PostChatRequest) (*model.ChatResponse, error)
	ClearHistory(ctx context.Context, learnerID uuid.UUID) error
}

type chatService struct {
	db       *gorm.DB
	chatRepo repository.ChatRepository
	gw       gateway.Client
}

func NewChatService(db *gorm.DB, chatRepo repository.ChatRepository, gw gateway.Client) ChatService {
	return &chatService{
		db:       db,
		chatRepo: chatRepo,
		gw:       gw,
	}
}

func (s *chatService) GetHistory(ctx context.Context, learnerID uuid.UUID) ([]*model.ChatMessage, error) {
	logger := middleware.GetLogger(ctx)
	messages, err := s.chatRepo.FindHistory(ctx, s.db, learnerID, model.ChatKindGeneral, nil)
	if err != nil {
		logger.Error("Error fetching chat history", "error", err)
		return nil, model.ErrInternalServer
	}
	return messages, nil
}

// Post は履歴全体を文脈としてアシスタントの応答を生成し、両メッセージを追記します
func (s *chatService) Post(ctx context.Context, learnerID uuid.UUID, req *model.PostChatRequest) (*model.ChatResponse, error) {
	logger := middleware.GetLogger(ctx)

	messages, err := s.chatRepo.FindHistory(ctx, s.db, learnerID, model.ChatKindGeneral, nil)
	if err != nil {
		logger.Error("Error fetching chat history", "error", err)
		return nil, model.ErrInternalServer
	}

	history := make([]model.ChatTurn, 0, len(messages))
	for _, m := range messages {
		history = append(history, model.ChatTurn{Role: m.Role, Text: m.Text})
	}

	replyText, err := s.gw.Chat(ctx, history, req.Message)
	if err != nil {
		logger.Error("Chat generation failed", "error", err)
		return nil, mapGenerationError(err)
	}

	reply := &model.ChatMessage{
		MessageID: uuid.New(),
		LearnerID: learnerID,
		Kind:      model.ChatKindGeneral,
		Role:      model.ChatRoleModel,
		Text:      replyText,
	}

	// 質問と応答は同一トランザクションで追記し、片方だけ残る事態を避ける
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userMessage := &model.ChatMessage{
			MessageID: uuid.New(),
			LearnerID: learnerID,
			Kind:      model.ChatKindGeneral,
			Role:      model.ChatRoleUser,
			Text:      req.Message,
		}
		if err := s.chatRepo.Append(ctx, tx, userMessage); err != nil {
			return model.ErrInternalServer
		}
		if err := s.chatRepo.Append(ctx, tx, reply); err != nil {
			return model.ErrInternalServer
		}
		return nil
	})
	if err != nil {
		logger.Error("Transaction failed for chat post", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "チャット履歴の保存に失敗しました。", "", err)
	}

	return &model.ChatResponse{Reply: reply}, nil
}

func (s *chatService) ClearHistory(ctx context.Context, learnerID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.chatRepo.DeleteHistory(ctx, tx, learnerID, model.ChatKindGeneral)
	})
	if err != nil {
		return model.ErrInternalServer
	}
	return nil
}
