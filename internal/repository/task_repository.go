//go:generate mockery --name TaskRepository --output ./mocks --outpkg mocks --case=underscore
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

// TaskRepository インターフェース
type TaskRepository interface {
	Create(ctx context.Context, tx *gorm.DB, task *model.Task) error
	FindByID(ctx context.Context, db *gorm.DB, learnerID, taskID uuid.UUID) (*model.Task, error)
	FindByLearner(ctx context.Context, db *gorm.DB, learnerID uuid.UUID) ([]*model.Task, error)
	Update(ctx context.Context, tx *gorm.DB, learnerID, taskID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, learnerID, taskID uuid.UUID) error
}

type gormTaskRepository struct{}

func NewGormTaskRepository() TaskRepository {
	return &gormTaskRepository{}
}

func (r *gormTaskRepository) Create(ctx context.Context, tx *gorm.DB, task *model.Task) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(task)
	if result.Error != nil {
		logger.Error("Error creating task in DB",
			"error", result.Error,
			"learner_id", task.LearnerID.String(),
			"title", task.Title,
		)
		return fmt.Errorf("gormTaskRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormTaskRepository) FindByID(ctx context.Context, db *gorm.DB, learnerID, taskID uuid.UUID) (*model.Task, error) {
	logger := middleware.GetLogger(ctx)
	var task model.Task
	result := db.WithContext(ctx).Where("learner_id = ? AND task_id = ?", learnerID, taskID).First(&task)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding task by ID in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
			"task_id", taskID.String(),
		)
		return nil, fmt.Errorf("gormTaskRepository.FindByID: %w", result.Error)
	}
	return &task, nil
}

func (r *gormTaskRepository) FindByLearner(ctx context.Context, db *gorm.DB, learnerID uuid.UUID) ([]*model.Task, error) {
	logger := middleware.GetLogger(ctx)
	var tasks []*model.Task
	result := db.WithContext(ctx).Where("learner_id = ?", learnerID).Order("created_at DESC").Find(&tasks)
	if result.Error != nil {
		logger.Error("Error finding tasks by learner in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
		)
		return nil, fmt.Errorf("gormTaskRepository.FindByLearner: %w", result.Error)
	}
	return tasks, nil
}

func (r *gormTaskRepository) Update(ctx context.Context, tx *gorm.DB, learnerID, taskID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Task{}).Where("learner_id = ? AND task_id = ?", learnerID, taskID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating task in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
			"task_id", taskID.String(),
		)
		return fmt.Errorf("gormTaskRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormTaskRepository) Delete(ctx context.Context, tx *gorm.DB, learnerID, taskID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("learner_id = ? AND task_id = ?", learnerID, taskID).Delete(&model.Task{})
	if result.Error != nil {
		logger.Error("Error deleting task in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
			"task_id", taskID.String(),
		)
		return fmt.Errorf("gormTaskRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
