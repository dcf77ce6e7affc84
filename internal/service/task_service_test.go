// internal/service/task_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

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

func setupTestDBTask() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

func Test_taskService_CreateTask(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBTask()
	learnerID := uuid.New()

	tests := []struct {
		name         string
		req          *model.PostTaskRequest
		setupMock    func(m *mocks.TaskRepository)
		wantErr      error
		wantDeadline string
		wantPriority model.TaskPriority
	}{
		{
			name: "正常系: 全フィールド指定で作成",
			req:  &model.PostTaskRequest{Title: "Review notes", Deadline: "Tomorrow", Priority: model.TaskPriorityHigh},
			setupMock: func(m *mocks.TaskRepository) {
				m.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Task")).
					Run(func(args mock.Arguments) {
						task := args.Get(2).(*model.Task)
						assert.Equal(t, learnerID, task.LearnerID)
						assert.Equal(t, "Review notes", task.Title)
						assert.False(t, task.IsCompleted)
					}).Return(nil).Once()
			},
			wantDeadline: "Tomorrow",
			wantPriority: model.TaskPriorityHigh,
		},
		{
			name: "正常系: 未指定フィールドはデフォルトで補完",
			req:  &model.PostTaskRequest{Title: "Review notes"},
			setupMock: func(m *mocks.TaskRepository) {
				m.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Task")).
					Return(nil).Once()
			},
			wantDeadline: "No Deadline",
			wantPriority: model.TaskPriorityMedium,
		},
		{
			name: "異常系: CreateでDBエラー",
			req:  &model.PostTaskRequest{Title: "Review notes"},
			setupMock: func(m *mocks.TaskRepository) {
				m.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Task")).
					Return(errors.New("db error on create")).Once()
			},
			wantErr: model.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskRepo := new(mocks.TaskRepository)
			tt.setupMock(taskRepo)

			taskService := NewTaskService(db, taskRepo)
			task, err := taskService.CreateTask(ctx, learnerID, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
			} else {
				require.NoError(t, err)
				require.NotNil(t, task)
				assert.Equal(t, tt.wantDeadline, task.Deadline)
				assert.Equal(t, tt.wantPriority, task.Priority)
				assert.NotEqual(t, uuid.Nil, task.TaskID)
			}

			taskRepo.AssertExpectations(t)
		})
	}
}

func Test_taskService_ListTasks(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBTask()
	learnerID := uuid.New()

	tests := []struct {
		name      string
		setupMock func(m *mocks.TaskRepository)
		wantErr   error
		wantLen   int
	}{
		{
			name: "正常系: 一覧を取得",
			setupMock: func(m *mocks.TaskRepository) {
				tasks := []*model.Task{
					{TaskID: uuid.New(), LearnerID: learnerID, Title: "Review notes"},
					{TaskID: uuid.New(), LearnerID: learnerID, Title: "Watch lecture"},
				}
				m.On("FindByLearner", ctx, db, learnerID).Return(tasks, nil).Once()
			},
			wantLen: 2,
		},
		{
			name: "異常系: 取得でDBエラー",
			setupMock: func(m *mocks.TaskRepository) {
				m.On("FindByLearner", ctx, db, learnerID).Return(nil, errors.New("db error")).Once()
			},
			wantErr: model.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskRepo := new(mocks.TaskRepository)
			tt.setupMock(taskRepo)

			taskService := NewTaskService(db, taskRepo)
			tasks, err := taskService.ListTasks(ctx, learnerID)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, tasks)
			} else {
				require.NoError(t, err)
				assert.Len(t, tasks, tt.wantLen)
			}

			taskRepo.AssertExpectations(t)
		})
	}
}

func Test_taskService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBTask()
	learnerID := uuid.New()
	taskID := uuid.New()

	original := &model.Task{TaskID: taskID, LearnerID: learnerID, Title: "Original", Deadline: "No Deadline", Priority: model.TaskPriorityMedium}
	newTitle := "Updated"
	completed := true

	tests := []struct {
		name      string
		req       *model.PatchTaskRequest
		setupMock func(m *mocks.TaskRepository)
		wantErr   error
		check     func(t *testing.T, task *model.Task)
	}{
		{
			name: "正常系: タイトルと完了フラグを更新",
			req:  &model.PatchTaskRequest{Title: &newTitle, IsCompleted: &completed},
			setupMock: func(m *mocks.TaskRepository) {
				m.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, taskID).Return(original, nil).Once()
				m.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, taskID,
					map[string]interface{}{"title": newTitle, "is_completed": completed}).Return(nil).Once()
				updated := &model.Task{TaskID: taskID, LearnerID: learnerID, Title: newTitle, IsCompleted: true}
				m.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, taskID).Return(updated, nil).Once()
			},
			check: func(t *testing.T, task *model.Task) {
				assert.Equal(t, newTitle, task.Title)
				assert.True(t, task.IsCompleted)
			},
		},
		{
			name: "正常系: 変更なしのリクエストは現状を返す",
			req:  &model.PatchTaskRequest{},
			setupMock: func(m *mocks.TaskRepository) {
				m.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, taskID).Return(original, nil).Twice()
				// Update は呼ばれない
			},
			check: func(t *testing.T, task *model.Task) {
				assert.Equal(t, "Original", task.Title)
			},
		},
		{
			name: "異常系: 更新対象が見つからない",
			req:  &model.PatchTaskRequest{Title: &newTitle},
			setupMock: func(m *mocks.TaskRepository) {
				m.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, taskID).
					Return(nil, model.ErrNotFound).Once()
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskRepo := new(mocks.TaskRepository)
			tt.setupMock(taskRepo)

			taskService := NewTaskService(db, taskRepo)
			task, err := taskService.UpdateTask(ctx, learnerID, taskID, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
			} else {
				require.NoError(t, err)
				require.NotNil(t, task)
				tt.check(t, task)
			}

			taskRepo.AssertExpectations(t)
		})
	}
}

func Test_taskService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBTask()
	learnerID := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name      string
		setupMock func(m *mocks.TaskRepository)
		wantErr   error
	}{
		{
			name: "正常系: 削除成功",
			setupMock: func(m *mocks.TaskRepository) {
				m.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, taskID).Return(nil).Once()
			},
		},
		{
			name: "異常系: 削除対象が見つからない",
			setupMock: func(m *mocks.TaskRepository) {
				m.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, taskID).
					Return(model.ErrNotFound).Once()
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskRepo := new(mocks.TaskRepository)
			tt.setupMock(taskRepo)

			taskService := NewTaskService(db, taskRepo)
			err := taskService.DeleteTask(ctx, learnerID, taskID)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			taskRepo.AssertExpectations(t)
		})
	}
}
