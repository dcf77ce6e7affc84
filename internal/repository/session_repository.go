//go:generate mockery --name SessionRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"smart_learn_api/internal/middleware"
	"smart_learn_api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionRepository インターフェース
type SessionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, session *model.StudySession) error
	FindByID(ctx context.Context, db *gorm.DB, learnerID, sessionID uuid.UUID) (*model.StudySession, error)
	Save(ctx context.Context, tx *gorm.DB, session *model.StudySession) error
}

type gormSessionRepository struct{}

func NewGormSessionRepository() SessionRepository {
	return &gormSessionRepository{}
}

func (r *gormSessionRepository) Create(ctx context.Context, tx *gorm.DB, session *model.StudySession) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(session)
	if result.Error != nil {
		logger.Error("Error creating study session in DB",
			"error", result.Error,
			"learner_id", session.LearnerID.String(),
			"module_id", session.ModuleID.String(),
		)
		return fmt.Errorf("gormSessionRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormSessionRepository) FindByID(ctx context.Context, db *gorm.DB, learnerID, sessionID uuid.UUID) (*model.StudySession, error) {
	logger := middleware.GetLogger(ctx)
	var session model.StudySession
	result := db.WithContext(ctx).Where("learner_id = ? AND session_id = ?", learnerID, sessionID).First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding study session by ID in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
			"session_id", sessionID.String(),
		)
		return nil, fmt.Errorf("gormSessionRepository.FindByID: %w", result.Error)
	}
	return &session, nil
}

func (r *gormSessionRepository) Save(ctx context.Context, tx *gorm.DB, session *model.StudySession) error {
	logger := middleware.GetLogger(ctx)
	// ステップ・インデックス・スコア・生成物をまとめて保存する
	result := tx.WithContext(ctx).Save(session)
	if result.Error != nil {
		logger.Error("Error saving study session in DB",
			"error", result.Error,
			"session_id", session.SessionID.String(),
		)
		return fmt.Errorf("gormSessionRepository.Save: %w", result.Error)
	}
	return nil
}
