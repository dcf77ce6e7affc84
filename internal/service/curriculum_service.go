// internal/service/curriculum_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"smart_learn_api/internal/config"
	"smart_learn_api/internal/gateway"
	"smart_learn_api/internal/middleware"
	"smart_learn_api/internal/model"
	"smart_learn_api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CurriculumService はコースとロードマップのライフサイクルを担当します
type CurriculumService interface {
	GenerateRoadmap(ctx context.Context, learnerID uuid.UUID, req *model.GenerateRoadmapRequest) (*model.RoadmapResponse, error)
	ListCourses(ctx context.Context, learnerID uuid.UUID) ([]*model.Course, error)
	GetCourse(ctx context.Context, learnerID, courseID uuid.UUID) (*model.Course, error)
	DeleteCourse(ctx context.Context, learnerID, courseID uuid.UUID) error
}

type curriculumService struct {
	db         *gorm.DB
	courseRepo repository.CourseRepository
	gw         gateway.Client
	cfg        *config.Config
}

func NewCurriculumService(db *gorm.DB, courseRepo repository.CourseRepository, gw gateway.Client, cfg *config.Config) CurriculumService {
	return &curriculumService{
		db:         db,
		courseRepo: courseRepo,
		gw:         gw,
		cfg:        cfg,
	}
}

// agentNameFor は科目名の先頭単語から担当エージェント名を導出します (例: "Golang Specialist")
func agentNameFor(subject string) string {
	fields := strings.Fields(subject)
	if len(fields) == 0 {
		return "Specialist"
	}
	return fields[0] + " Specialist"
}

// GenerateRoadmap はシラバスとロードマップを生成し、コースとして登録します。
// 同名コースが既に存在する場合、生成結果は返すが保存はしない (Enrolled=false)。
func (s *curriculumService) GenerateRoadmap(ctx context.Context, learnerID uuid.UUID, req *model.GenerateRoadmapRequest) (*model.RoadmapResponse, error) {
	logger := middleware.GetLogger(ctx).With("subject", req.Subject)

	duration := req.TargetDuration
	if duration == "" {
		duration = config.DefaultTargetDuration
	}

	// 1. シラバスが指定されていない場合は生成する
	syllabus := req.Syllabus
	if syllabus == "" {
		generated, err := s.gw.GenerateSyllabus(ctx, req.Subject)
		if err != nil {
			logger.Error("Syllabus generation failed", "error", err)
			return nil, mapGenerationError(err)
		}
		syllabus = generated
	}

	// 2. ロードマップの生成
	generatedModules, err := s.gw.GenerateRoadmap(ctx, req.Subject, syllabus, duration)
	if err != nil {
		logger.Error("Roadmap generation failed", "error", err)
		return nil, mapGenerationError(err)
	}

	// 3. エンティティへの変換。先頭モジュールだけ in-progress で始める。
	courseID := uuid.New()
	roadmap := make([]model.StudyModule, 0, len(generatedModules))
	for i, gm := range generatedModules {
		status := model.ModuleStatusPending
		if i == 0 {
			status = model.ModuleStatusInProgress
		}
		roadmap = append(roadmap, model.StudyModule{
			ModuleID:          uuid.New(),
			CourseID:          courseID,
			Position:          i,
			Title:             gm.Title,
			Description:       gm.Description,
			Difficulty:        model.ParseDifficulty(gm.Difficulty),
			EstimatedDuration: gm.EstimatedDuration,
			Status:            status,
			Resources:         datatypes.JSONSlice[string](gm.Resources),
		})
	}

	course := &model.Course{
		CourseID:       courseID,
		LearnerID:      learnerID,
		Name:           req.Subject,
		Syllabus:       syllabus,
		TargetDuration: duration,
		AgentName:      agentNameFor(req.Subject),
		Status:         model.CourseStatusActive,
		Progress:       0,
		Roadmap:        roadmap,
	}

	// 4. 同名コースがなければ保存する
	enrolled := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.courseRepo.FindByName(ctx, tx, learnerID, req.Subject)
		if err == nil {
			// 既存コースあり。生成結果は返すが永続化しない。
			logger.Info("Course already enrolled, skipping persist", "name", req.Subject)
			return nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check course existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}

		if err := s.courseRepo.Create(ctx, tx, course); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return nil // レースで先に作られた場合も「保存しない」扱い
			}
			logger.Error("Failed to create course in DB", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "コースの作成に失敗しました。", "", err)
		}
		enrolled = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &model.RoadmapResponse{
		Roadmap:  roadmap,
		Syllabus: syllabus,
		Enrolled: enrolled,
	}
	if enrolled {
		resp.Course = course
		logger.Info("Course enrolled", "course_id", course.CourseID, "modules", len(roadmap))
	}
	return resp, nil
}

func (s *curriculumService) ListCourses(ctx context.Context, learnerID uuid.UUID) ([]*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	courses, err := s.courseRepo.FindByLearner(ctx, s.db, learnerID)
	if err != nil {
		logger.Error("Error listing courses", "error", err)
		return nil, model.ErrInternalServer
	}
	return courses, nil
}

func (s *curriculumService) GetCourse(ctx context.Context, learnerID, courseID uuid.UUID) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, s.db, learnerID, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "", model.ErrNotFound)
		}
		return nil, err
	}
	return course, nil
}

func (s *curriculumService) DeleteCourse(ctx context.Context, learnerID, courseID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.courseRepo.Delete(ctx, tx, learnerID, courseID)
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return model.ErrInternalServer
	}
	return nil
}

// mapGenerationError はゲートウェイのエラーを利用者向けのAppErrorに変換します
func mapGenerationError(err error) *model.AppError {
	switch {
	case errors.Is(err, model.ErrEmptyGeneration):
		return model.NewAppError("EMPTY_GENERATION", "生成結果を取得できませんでした。内容を変えて再度お試しください。", "", model.ErrEmptyGeneration)
	case errors.Is(err, model.ErrGatewayUnavailable):
		return model.NewAppError("GATEWAY_UNAVAILABLE", "生成サービスに接続できませんでした。時間をおいて再度お試しください。", "", model.ErrGatewayUnavailable)
	default:
		return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}
}
