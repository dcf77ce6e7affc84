// internal/service/curriculum_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"smart_learn_api/internal/config"
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

func setupTestDBCurriculum() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

func Test_curriculumService_GenerateRoadmap(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBCurriculum()

	learnerID := uuid.New()
	generatedModules := []model.GeneratedModule{
		{Title: "Basics", Description: "desc1", Difficulty: "Beginner", EstimatedDuration: "3 hours", Resources: []string{"golang basics tutorial"}},
		{Title: "Concurrency", Description: "desc2", Difficulty: "Advanced", EstimatedDuration: "6 hours", Resources: []string{"golang concurrency"}},
	}

	tests := []struct {
		name           string
		req            *model.GenerateRoadmapRequest
		setupMock      func(courseRepo *mocks.CourseRepository, gw *gatewaymocks.Client)
		wantErr        error
		wantAppErrCode string
		check          func(t *testing.T, resp *model.RoadmapResponse)
	}{
		{
			name: "正常系: シラバス生成から登録まで",
			req:  &model.GenerateRoadmapRequest{Subject: "Golang"},
			setupMock: func(courseRepo *mocks.CourseRepository, gw *gatewaymocks.Client) {
				gw.On("GenerateSyllabus", ctx, "Golang").Return("topic1, topic2", nil).Once()
				gw.On("GenerateRoadmap", ctx, "Golang", "topic1, topic2", "4 weeks").Return(generatedModules, nil).Once()
				courseRepo.On("FindByName", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, "Golang").
					Return(nil, model.ErrNotFound).Once()
				courseRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Course")).
					Run(func(args mock.Arguments) {
						course := args.Get(2).(*model.Course)
						assert.Equal(t, learnerID, course.LearnerID)
						assert.Equal(t, "Golang", course.Name)
						assert.Equal(t, "Golang Specialist", course.AgentName)
						assert.Equal(t, model.CourseStatusActive, course.Status)
						assert.Equal(t, 0, course.Progress)
						require.Len(t, course.Roadmap, 2)
						// 先頭モジュールだけ in-progress で始まる
						assert.Equal(t, model.ModuleStatusInProgress, course.Roadmap[0].Status)
						assert.Equal(t, model.ModuleStatusPending, course.Roadmap[1].Status)
						assert.Equal(t, 0, course.Roadmap[0].Position)
						assert.Equal(t, 1, course.Roadmap[1].Position)
						assert.Equal(t, model.DifficultyAdvanced, course.Roadmap[1].Difficulty)
					}).Return(nil).Once()
			},
			check: func(t *testing.T, resp *model.RoadmapResponse) {
				assert.True(t, resp.Enrolled)
				require.NotNil(t, resp.Course)
				assert.Equal(t, "topic1, topic2", resp.Syllabus)
				assert.Len(t, resp.Roadmap, 2)
			},
		},
		{
			name: "正常系: シラバス指定時は生成を省略する",
			req:  &model.GenerateRoadmapRequest{Subject: "Golang", Syllabus: "my own syllabus", TargetDuration: "2 weeks"},
			setupMock: func(courseRepo *mocks.CourseRepository, gw *gatewaymocks.Client) {
				gw.On("GenerateRoadmap", ctx, "Golang", "my own syllabus", "2 weeks").Return(generatedModules, nil).Once()
				courseRepo.On("FindByName", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, "Golang").
					Return(nil, model.ErrNotFound).Once()
				courseRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Course")).
					Return(nil).Once()
			},
			check: func(t *testing.T, resp *model.RoadmapResponse) {
				assert.True(t, resp.Enrolled)
				assert.Equal(t, "my own syllabus", resp.Syllabus)
			},
		},
		{
			name: "正常系: 同名コースが既にある場合は保存しない",
			req:  &model.GenerateRoadmapRequest{Subject: "Golang"},
			setupMock: func(courseRepo *mocks.CourseRepository, gw *gatewaymocks.Client) {
				gw.On("GenerateSyllabus", ctx, "Golang").Return("topic1, topic2", nil).Once()
				gw.On("GenerateRoadmap", ctx, "Golang", "topic1, topic2", "4 weeks").Return(generatedModules, nil).Once()
				existing := &model.Course{CourseID: uuid.New(), LearnerID: learnerID, Name: "Golang"}
				courseRepo.On("FindByName", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, "Golang").
					Return(existing, nil).Once()
				// Create は呼ばれない
			},
			check: func(t *testing.T, resp *model.RoadmapResponse) {
				assert.False(t, resp.Enrolled)
				assert.Nil(t, resp.Course)
				// 生成結果自体は返す
				assert.Len(t, resp.Roadmap, 2)
				assert.Equal(t, "topic1, topic2", resp.Syllabus)
			},
		},
		{
			// 事前チェック通過後に別リクエストが先に保存したケース
			name: "正常系: レースで先に作られた場合は保存しない扱いにする",
			req:  &model.GenerateRoadmapRequest{Subject: "Golang"},
			setupMock: func(courseRepo *mocks.CourseRepository, gw *gatewaymocks.Client) {
				gw.On("GenerateSyllabus", ctx, "Golang").Return("topic1, topic2", nil).Once()
				gw.On("GenerateRoadmap", ctx, "Golang", "topic1, topic2", "4 weeks").Return(generatedModules, nil).Once()
				courseRepo.On("FindByName", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, "Golang").
					Return(nil, model.ErrNotFound).Once()
				courseRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Course")).
					Return(model.ErrConflict).Once()
			},
			check: func(t *testing.T, resp *model.RoadmapResponse) {
				assert.False(t, resp.Enrolled)
				assert.Nil(t, resp.Course)
				assert.Len(t, resp.Roadmap, 2)
			},
		},
		{
			name: "異常系: シラバス生成でゲートウェイ接続不可",
			req:  &model.GenerateRoadmapRequest{Subject: "Golang"},
			setupMock: func(courseRepo *mocks.CourseRepository, gw *gatewaymocks.Client) {
				gw.On("GenerateSyllabus", ctx, "Golang").Return("", model.ErrGatewayUnavailable).Once()
			},
			wantErr: model.ErrGatewayUnavailable,
		},
		{
			name: "異常系: ロードマップの生成結果が空",
			req:  &model.GenerateRoadmapRequest{Subject: "Golang"},
			setupMock: func(courseRepo *mocks.CourseRepository, gw *gatewaymocks.Client) {
				gw.On("GenerateSyllabus", ctx, "Golang").Return("topic1, topic2", nil).Once()
				gw.On("GenerateRoadmap", ctx, "Golang", "topic1, topic2", "4 weeks").
					Return(nil, model.ErrEmptyGeneration).Once()
			},
			wantErr: model.ErrEmptyGeneration,
		},
		{
			name: "異常系: コース保存でDBエラー",
			req:  &model.GenerateRoadmapRequest{Subject: "Golang"},
			setupMock: func(courseRepo *mocks.CourseRepository, gw *gatewaymocks.Client) {
				gw.On("GenerateSyllabus", ctx, "Golang").Return("topic1, topic2", nil).Once()
				gw.On("GenerateRoadmap", ctx, "Golang", "topic1, topic2", "4 weeks").Return(generatedModules, nil).Once()
				courseRepo.On("FindByName", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, "Golang").
					Return(nil, model.ErrNotFound).Once()
				courseRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Course")).
					Return(errors.New("db error on create")).Once()
			},
			wantAppErrCode: "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courseRepo := new(mocks.CourseRepository)
			gw := new(gatewaymocks.Client)
			tt.setupMock(courseRepo, gw)

			curriculumService := NewCurriculumService(db, courseRepo, gw, &config.Config{})
			resp, err := curriculumService.GenerateRoadmap(ctx, learnerID, tt.req)

			if tt.wantAppErrCode != "" {
				require.Error(t, err)
				var appErr *model.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantAppErrCode, appErr.Detail.Code)
				assert.Nil(t, resp)
			} else if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
				tt.check(t, resp)
			}

			courseRepo.AssertExpectations(t)
			gw.AssertExpectations(t)
		})
	}
}

func Test_curriculumService_DeleteCourse(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBCurriculum()

	learnerID := uuid.New()
	courseID := uuid.New()

	tests := []struct {
		name      string
		setupMock func(courseRepo *mocks.CourseRepository)
		wantErr   error
	}{
		{
			name: "正常系: 削除成功",
			setupMock: func(courseRepo *mocks.CourseRepository) {
				courseRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, courseID).
					Return(nil).Once()
			},
		},
		{
			name: "異常系: 削除対象が見つからない",
			setupMock: func(courseRepo *mocks.CourseRepository) {
				courseRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, courseID).
					Return(model.ErrNotFound).Once()
			},
			wantErr: model.ErrNotFound,
		},
		{
			name: "異常系: 削除中にDBエラー",
			setupMock: func(courseRepo *mocks.CourseRepository) {
				courseRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), learnerID, courseID).
					Return(errors.New("db error on delete")).Once()
			},
			wantErr: model.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courseRepo := new(mocks.CourseRepository)
			tt.setupMock(courseRepo)

			curriculumService := NewCurriculumService(db, courseRepo, new(gatewaymocks.Client), &config.Config{})
			err := curriculumService.DeleteCourse(ctx, learnerID, courseID)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			courseRepo.AssertExpectations(t)
		})
	}
}
