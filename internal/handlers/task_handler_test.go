// internal/handlers/task_handler_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"smart_learn_api/internal/handlers"
	"smart_learn_api/internal/model"
	"smart_learn_api/internal/service/mocks"
)

// testAuthMiddleware は認証ミドルウェアの代わりに学習者IDをコンテキストへ注入する
func testAuthMiddleware(learnerID *uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if learnerID != nil {
				ctx := context.WithValue(r.Context(), model.LearnerIDKey, *learnerID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func createJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestTaskHandler_PostTask(t *testing.T) {
	learnerID := uuid.New()

	validReqBody := model.PostTaskRequest{Title: "Review notes", Priority: model.TaskPriorityHigh}
	expectedTask := &model.Task{
		TaskID:    uuid.New(),
		LearnerID: learnerID,
		Title:     validReqBody.Title,
		Deadline:  "No Deadline",
		Priority:  model.TaskPriorityHigh,
	}

	tests := []struct {
		name           string
		learnerID      *uuid.UUID
		body           interface{}
		setupMock      func(m *mocks.MockTaskService)
		expectedStatus int
		expectError    bool
	}{
		{
			name:      "正常系: タスク作成",
			learnerID: &learnerID,
			body:      validReqBody,
			setupMock: func(m *mocks.MockTaskService) {
				m.On("CreateTask", mock.AnythingOfType("*context.valueCtx"), learnerID, &validReqBody).
					Return(expectedTask, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "異常系: 認証情報なし",
			learnerID:      nil,
			body:           validReqBody,
			setupMock:      func(m *mocks.MockTaskService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusForbidden,
			expectError:    true,
		},
		{
			name:           "異常系: タイトル未指定でバリデーションエラー",
			learnerID:      &learnerID,
			body:           model.PostTaskRequest{Deadline: "Tomorrow"},
			setupMock:      func(m *mocks.MockTaskService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectError:    true,
		},
		{
			name:      "異常系: Serviceが内部エラーを返す",
			learnerID: &learnerID,
			body:      validReqBody,
			setupMock: func(m *mocks.MockTaskService) {
				m.On("CreateTask", mock.AnythingOfType("*context.valueCtx"), learnerID, &validReqBody).
					Return(nil, model.ErrInternalServer).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectError:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockTaskService := mocks.NewMockTaskService(t)
			tc.setupMock(mockTaskService)

			taskHandler := handlers.NewTaskHandler(mockTaskService, nil)
			router := chi.NewRouter()
			router.Use(testAuthMiddleware(tc.learnerID))
			router.Post("/api/v1/tasks", taskHandler.PostTask)

			req := createJSONRequest(t, "POST", "/api/v1/tasks", tc.body)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectError {
				var errResp model.APIErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
				assert.NotEmpty(t, errResp.Error.Code)
				assert.NotEmpty(t, errResp.Error.Message)
			} else {
				var respTask model.Task
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &respTask))
				assert.Equal(t, expectedTask.TaskID, respTask.TaskID)
				assert.Equal(t, expectedTask.Title, respTask.Title)
			}
		})
	}
}

func TestTaskHandler_GetTasks(t *testing.T) {
	learnerID := uuid.New()

	tests := []struct {
		name           string
		setupMock      func(m *mocks.MockTaskService)
		expectedStatus int
		expectedLen    int
	}{
		{
			name: "正常系: 一覧取得",
			setupMock: func(m *mocks.MockTaskService) {
				tasks := []*model.Task{
					{TaskID: uuid.New(), LearnerID: learnerID, Title: "Review notes"},
					{TaskID: uuid.New(), LearnerID: learnerID, Title: "Watch lecture"},
				}
				m.On("ListTasks", mock.AnythingOfType("*context.valueCtx"), learnerID).
					Return(tasks, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedLen:    2,
		},
		{
			name: "正常系: タスクがない場合は空配列",
			setupMock: func(m *mocks.MockTaskService) {
				m.On("ListTasks", mock.AnythingOfType("*context.valueCtx"), learnerID).
					Return(nil, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedLen:    0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockTaskService := mocks.NewMockTaskService(t)
			tc.setupMock(mockTaskService)

			taskHandler := handlers.NewTaskHandler(mockTaskService, nil)
			router := chi.NewRouter()
			router.Use(testAuthMiddleware(&learnerID))
			router.Get("/api/v1/tasks", taskHandler.GetTasks)

			req := createJSONRequest(t, "GET", "/api/v1/tasks", nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			var respTasks []*model.Task
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &respTasks))
			assert.Len(t, respTasks, tc.expectedLen)
		})
	}
}

func TestTaskHandler_PatchTask(t *testing.T) {
	learnerID := uuid.New()
	taskID := uuid.New()
	newTitle := "Updated"

	tests := []struct {
		name           string
		target         string
		body           interface{}
		setupMock      func(m *mocks.MockTaskService)
		expectedStatus int
	}{
		{
			name:   "正常系: タイトル更新",
			target: fmt.Sprintf("/api/v1/tasks/%s", taskID),
			body:   model.PatchTaskRequest{Title: &newTitle},
			setupMock: func(m *mocks.MockTaskService) {
				updated := &model.Task{TaskID: taskID, LearnerID: learnerID, Title: newTitle}
				m.On("UpdateTask", mock.AnythingOfType("*context.valueCtx"), learnerID, taskID, &model.PatchTaskRequest{Title: &newTitle}).
					Return(updated, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: task_idがUUIDでない",
			target:         "/api/v1/tasks/not-a-uuid",
			body:           model.PatchTaskRequest{Title: &newTitle},
			setupMock:      func(m *mocks.MockTaskService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: 更新フィールドなし",
			target:         fmt.Sprintf("/api/v1/tasks/%s", taskID),
			body:           model.PatchTaskRequest{},
			setupMock:      func(m *mocks.MockTaskService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "異常系: 対象が見つからない",
			target: fmt.Sprintf("/api/v1/tasks/%s", taskID),
			body:   model.PatchTaskRequest{Title: &newTitle},
			setupMock: func(m *mocks.MockTaskService) {
				m.On("UpdateTask", mock.AnythingOfType("*context.valueCtx"), learnerID, taskID, &model.PatchTaskRequest{Title: &newTitle}).
					Return(nil, model.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockTaskService := mocks.NewMockTaskService(t)
			tc.setupMock(mockTaskService)

			taskHandler := handlers.NewTaskHandler(mockTaskService, nil)
			router := chi.NewRouter()
			router.Use(testAuthMiddleware(&learnerID))
			router.Patch("/api/v1/tasks/{task_id}", taskHandler.PatchTask)

			req := createJSONRequest(t, "PATCH", tc.target, tc.body)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	learnerID := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name           string
		setupMock      func(m *mocks.MockTaskService)
		expectedStatus int
	}{
		{
			name: "正常系: 削除成功で204",
			setupMock: func(m *mocks.MockTaskService) {
				m.On("DeleteTask", mock.AnythingOfType("*context.valueCtx"), learnerID, taskID).
					Return(nil).Once()
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "異常系: 対象が見つからない",
			setupMock: func(m *mocks.MockTaskService) {
				m.On("DeleteTask", mock.AnythingOfType("*context.valueCtx"), learnerID, taskID).
					Return(model.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockTaskService := mocks.NewMockTaskService(t)
			tc.setupMock(mockTaskService)

			taskHandler := handlers.NewTaskHandler(mockTaskService, nil)
			router := chi.NewRouter()
			router.Use(testAuthMiddleware(&learnerID))
			router.Delete("/api/v1/tasks/{task_id}", taskHandler.DeleteTask)

			req := createJSONRequest(t, "DELETE", fmt.Sprintf("/api/v1/tasks/%s", taskID), nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}
