//go:generate mockery --name ChatRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"smart_learn_api/internal/middleware"
	"smart_learn_api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRepository インターフェース。履歴は追記専用で、更新APIは持たない。
type ChatRepository interface {
	Append(ctx context.Context, tx *gorm.DB, message *model.ChatMessage) error
	FindHistory(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, kind model.ChatKind, moduleID *uuid.UUID) ([]*model.ChatMessage, error)
	DeleteHistory(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, kind model.ChatKind) error
}

type gormChatRepository struct{}

func NewGormChatRepository() ChatRepository {
	return &gormChatRepository{}
}

func (r *gormChatRepository) Append(ctx context.Context, tx *gorm.DB, message *model.ChatMessage) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(message)
	if result.Error != nil {
		logger.Error("Error appending chat message in DB",
			"error", result.Error,
			"learner_id", message.LearnerID.String(),
			"kind", string(message.Kind),
		)
		return fmt.Errorf("gormChatRepository.Append: %w", result.Error)
	}
	return nil
}

func (r *gormChatRepository) FindHistory(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, kind model.ChatKind, moduleID *uuid.UUID) ([]*model.ChatMessage, error) {
	logger := middleware.GetLogger(ctx)
	var messages []*model.ChatMessage
	query := db.WithContext(ctx).Where("learner_id = ? AND kind = ?", learnerID, kind)
	if moduleID != nil {
		query = query.Where("module_id = ?", *moduleID)
	}
	// 送信順のトランスクリプトとして返す
	result := query.Order("created_at ASC").Find(&messages)
	if result.Error != nil {
		logger.Error("Error finding chat history in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
			"kind", string(kind),
		)
		return nil, fmt.Errorf("gormChatRepository.FindHistory: %w", result.Error)
	}
	return messages, nil
}

func (r *gormChatRepository) DeleteHistory(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, kind model.ChatKind) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("learner_id = ? AND kind = ?", learnerID, kind).Delete(&model.ChatMessage{})
	if result.Error != nil {
		logger.Error("Error deleting chat history in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
			"kind", string(kind),
		)
		return fmt.Errorf("gormChatRepository.DeleteHistory: %w", result.Error)
	}
	// 履歴が空でもエラーにしない (冪等な全削除)
	return nil
}
