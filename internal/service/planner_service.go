// internal/service/planner_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"smart_learn_api/internal/config"
	"smart_learn_api/internal/gateway"
	"smart_learn_api/internal/middleware"
	"smart_learn_api/internal/model"
	"smart_learn_api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlannerService は学習計画 (日割りスケジュール・最適化・エージェント協調) を担当します
type PlannerService interface {
	Schedule(ctx context.Context, learnerID, courseID uuid.UUID) ([]model.DayPlan, error)
	Optimize(ctx context.Context, learnerID, courseID uuid.UUID) ([]model.DayPlan, error)
	Collaborate(ctx context.Context, learnerID uuid.UUID) (*model.CollaborationResponse, error)
}

type plannerService struct {
	db          *gorm.DB
	courseRepo  repository.CourseRepository
	learnerRepo repository.LearnerRepository
	gw          gateway.Client
}

func NewPlannerService(db *gorm.DB, courseRepo repository.CourseRepository, learnerRepo repository.LearnerRepository, gw gateway.Client) PlannerService {
	return &plannerService{
		db:          db,
		courseRepo:  courseRepo,
		learnerRepo: learnerRepo,
		gw:          gw,
	}
}

// ParseHours は推定時間の自由記述 ("6 hours" 等) から先頭の整数を取り出します。
// 解析できない、または0以下の場合は2時間とみなす。
func ParseHours(s string) int {
	trimmed := strings.TrimSpace(s)
	end := 0
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == 0 {
		return 2
	}
	hours, err := strconv.Atoi(trimmed[:end])
	if err != nil || hours <= 0 {
		return 2
	}
	return hours
}

// BuildSchedule はロードマップを日単位に貪欲法で詰め込みます。
// 1日の容量を超えるモジュールは分割せず、丸ごと翌日に送る。
func BuildSchedule(roadmap []model.StudyModule, studyHoursPerDay int) []model.DayPlan {
	if studyHoursPerDay <= 0 {
		studyHoursPerDay = config.DefaultStudyHoursPerDay
	}

	currentDay := 1
	currentDayHours := 0

	plans := make([]model.DayPlan, 0, len(roadmap))
	for _, module := range roadmap {
		hours := ParseHours(module.EstimatedDuration)
		if currentDayHours+hours > studyHoursPerDay {
			currentDay++
			currentDayHours = hours
		} else {
			currentDayHours += hours
		}
		plans = append(plans, model.DayPlan{
			Title:          module.Title,
			Day:            currentDay,
			HoursAllocated: hours,
		})
	}
	return plans
}

func (s *plannerService) loadCourseAndCapacity(ctx context.Context, learnerID, courseID uuid.UUID) (*model.Course, int, error) {
	course, err := s.courseRepo.FindByID(ctx, s.db, learnerID, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, 0, model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "", model.ErrNotFound)
		}
		return nil, 0, err
	}
	learner, err := s.learnerRepo.FindByID(ctx, s.db, learnerID)
	if err != nil {
		return nil, 0, model.ErrInternalServer
	}
	return course, learner.StudyHoursPerDay, nil
}

// Schedule は決定的な日割りスケジュールを返します (生成AIは使わない)
func (s *plannerService) Schedule(ctx context.Context, learnerID, courseID uuid.UUID) ([]model.DayPlan, error) {
	course, capacity, err := s.loadCourseAndCapacity(ctx, learnerID, courseID)
	if err != nil {
		return nil, err
	}
	return BuildSchedule(course.Roadmap, capacity), nil
}

// Optimize は日割りスケジュールにゲートウェイの最適化結果 (開始時刻オフセット) を重ねます。
// タイトルが一致した計画にだけ StartTimeHour が付く。
func (s *plannerService) Optimize(ctx context.Context, learnerID, courseID uuid.UUID) ([]model.DayPlan, error) {
	logger := middleware.GetLogger(ctx).With("course_id", courseID.String())

	course, capacity, err := s.loadCourseAndCapacity(ctx, learnerID, courseID)
	if err != nil {
		return nil, err
	}

	plans := BuildSchedule(course.Roadmap, capacity)

	// ロードマップをスケジューリング要求の形に射影する
	tasks := make([]model.JSSPTask, 0, len(course.Roadmap))
	for _, module := range course.Roadmap {
		tasks = append(tasks, model.JSSPTask{
			ID:             module.ModuleID,
			JobName:        course.Name,
			Operation:      module.Title,
			ProcessingTime: ParseHours(module.EstimatedDuration),
			MachineID:      1,
			Priority:       module.Position,
		})
	}

	offsets, err := s.gw.OptimizeSchedule(ctx, tasks)
	if err != nil {
		logger.Error("Schedule optimization failed", "error", err)
		return nil, mapGenerationError(err)
	}

	offsetByTitle := make(map[string]int, len(offsets))
	for _, o := range offsets {
		offsetByTitle[o.Operation] = o.StartTime
	}
	for i := range plans {
		if start, ok := offsetByTitle[plans[i].Title]; ok {
			startCopy := start
			plans[i].StartTimeHour = &startCopy
		}
	}

	logger.Info("Schedule optimized", "plans", len(plans), "offsets", len(offsets))
	return plans, nil
}

// Collaborate は受講中コースの状況をまとめてエージェント協調対話を生成します
func (s *plannerService) Collaborate(ctx context.Context, learnerID uuid.UUID) (*model.CollaborationResponse, error) {
	logger := middleware.GetLogger(ctx)

	courses, err := s.courseRepo.FindByLearner(ctx, s.db, learnerID)
	if err != nil {
		return nil, model.ErrInternalServer
	}
	if len(courses) == 0 {
		return nil, model.NewAppError("NO_COURSES", "受講中のコースがありません。先にロードマップを作成してください。", "", model.ErrInvalidInput)
	}

	var sb strings.Builder
	for _, course := range courses {
		fmt.Fprintf(&sb, "Course: %s (progress %d%%, target %s). Modules: ", course.Name, course.Progress, course.TargetDuration)
		for i, module := range course.Roadmap {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s [%s]", module.Title, module.Status)
		}
		sb.WriteString(". ")
	}

	dialogue, err := s.gw.SimulateCollaboration(ctx, sb.String())
	if err != nil {
		logger.Error("Agent collaboration failed", "error", err)
		return nil, mapGenerationError(err)
	}

	return &model.CollaborationResponse{Dialogue: dialogue}, nil
}
