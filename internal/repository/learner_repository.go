//go:generate mockery --name LearnerRepository --output ./mocks --outpkg mocks --case=underscore
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

// LearnerRepository インターフェース
type LearnerRepository interface {
	Create(ctx context.Context, tx *gorm.DB, learner *model.Learner) error
	FindByID(ctx context.Context, db *gorm.DB, learnerID uuid.UUID) (*model.Learner, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.Learner, error)
	Update(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, updates map[string]interface{}) error
}

type gormLearnerRepository struct{}

func NewGormLearnerRepository() LearnerRepository {
	return &gormLearnerRepository{}
}

func (r *gormLearnerRepository) Create(ctx context.Context, tx *gorm.DB, learner *model.Learner) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(learner)
	if result.Error != nil {
		// メールの一意制約違反 (事前チェックとのレース)
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		logger.Error("Error creating learner in DB",
			"error", result.Error,
			"email", learner.Email,
		)
		return fmt.Errorf("gormLearnerRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormLearnerRepository) FindByID(ctx context.Context, db *gorm.DB, learnerID uuid.UUID) (*model.Learner, error) {
	logger := middleware.GetLogger(ctx)
	var learner model.Learner
	result := db.WithContext(ctx).Where("learner_id = ?", learnerID).First(&learner)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding learner by ID in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
		)
		return nil, fmt.Errorf("gormLearnerRepository.FindByID: %w", result.Error)
	}
	return &learner, nil
}

func (r *gormLearnerRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.Learner, error) {
	logger := middleware.GetLogger(ctx)
	var learner model.Learner
	result := db.WithContext(ctx).Where("email = ?", email).First(&learner)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding learner by email in DB",
			"error", result.Error,
			"email", email,
		)
		return nil, fmt.Errorf("gormLearnerRepository.FindByEmail: %w", result.Error)
	}
	return &learner, nil
}

func (r *gormLearnerRepository) Update(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Learner{}).Where("learner_id = ?", learnerID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating learner in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
		)
		return fmt.Errorf("gormLearnerRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
