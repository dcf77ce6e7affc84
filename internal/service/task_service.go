// internal/service/task_service.go
package service

import (
	"context"
	"errors"

	"smart_learn_api/internal/middleware"
	"smart_learn_api/internal/model"
	"smart_learn_api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskService interface {
	CreateTask(ctx context.Context, learnerID uuid.UUID, req *model.PostTaskRequest) (*model.Task, error)
	ListTasks(ctx context.Context, learnerID uuid.UUID) ([]*model.Task, error)
	UpdateTask(ctx context.Context, learnerID, taskID uuid.UUID, req *model.PatchTaskRequest) (*model.Task, error)
	DeleteTask(ctx context.Context, learnerID, taskID uuid.UUID) error
}

type taskService struct {
	db       *gorm.DB // トランザクション用にDB接続を持つ
	taskRepo repository.TaskRepository
}

func NewTaskService(db *gorm.DB, taskRepo repository.TaskRepository) TaskService {
	return &taskService{
		db:       db,
		taskRepo: taskRepo,
	}
}

func (s *taskService) CreateTask(ctx context.Context, learnerID uuid.UUID, req *model.PostTaskRequest) (*model.Task, error) {
	logger := middleware.GetLogger(ctx)

	task := &model.Task{
		TaskID:    uuid.New(),
		LearnerID: learnerID,
		Title:     req.Title,
		Deadline:  req.Deadline,
		Priority:  req.Priority,
	}
	// 未指定フィールドの補完
	if task.Deadline == "" {
		task.Deadline = "No Deadline"
	}
	if task.Priority == "" {
		task.Priority = model.TaskPriorityMedium
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.Create(ctx, tx, task); err != nil {
			logger.Error("Error creating task in transaction", "error", err)
			return model.ErrInternalServer
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, learnerID uuid.UUID) ([]*model.Task, error) {
	logger := middleware.GetLogger(ctx)
	tasks, err := s.taskRepo.FindByLearner(ctx, s.db, learnerID)
	if err != nil {
		logger.Error("Error listing tasks", "error", err)
		return nil, model.ErrInternalServer
	}
	return tasks, nil
}

func (s *taskService) UpdateTask(ctx context.Context, learnerID, taskID uuid.UUID, req *model.PatchTaskRequest) (*model.Task, error) {
	logger := middleware.GetLogger(ctx)
	var updatedTask *model.Task

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 存在確認
		_, err := s.taskRepo.FindByID(ctx, tx, learnerID, taskID)
		if err != nil {
			return err // model.ErrNotFound or model.ErrInternalServer
		}

		// 2. 更新内容の準備 (部分更新)
		updates := make(map[string]interface{})
		if req.Title != nil && *req.Title != "" {
			updates["title"] = *req.Title
		}
		if req.Deadline != nil {
			updates["deadline"] = *req.Deadline
		}
		if req.Priority != nil {
			updates["priority"] = *req.Priority
		}
		if req.IsCompleted != nil {
			updates["is_completed"] = *req.IsCompleted
		}

		// 3. 更新実行
		if len(updates) > 0 {
			if err := s.taskRepo.Update(ctx, tx, learnerID, taskID, updates); err != nil {
				logger.Error("Error updating task in transaction", "error", err)
				if errors.Is(err, model.ErrNotFound) {
					return model.ErrNotFound
				}
				return model.ErrInternalServer
			}
		}

		// 更新後のデータを取得
		updatedTask, err = s.taskRepo.FindByID(ctx, tx, learnerID, taskID)
		if err != nil {
			logger.Error("Error fetching updated task in transaction", "error", err)
			return model.ErrInternalServer
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		logger.Error("Transaction failed for UpdateTask", "error", err)
		return nil, model.ErrInternalServer
	}

	return updatedTask, nil
}

func (s *taskService) DeleteTask(ctx context.Context, learnerID, taskID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.taskRepo.Delete(ctx, tx, learnerID, taskID)
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return model.ErrInternalServer
	}
	return nil
}
