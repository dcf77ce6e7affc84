//go:generate mockery --name CourseRepository --output ./mocks --outpkg mocks --case=underscore
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

// CourseRepository インターフェース。
// ロードマップ(StudyModule)はコースの所有物としてここで一緒に扱う。
type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *model.Course) error
	FindByID(ctx context.Context, db *gorm.DB, learnerID, courseID uuid.UUID) (*model.Course, error)
	FindByLearner(ctx context.Context, db *gorm.DB, learnerID uuid.UUID) ([]*model.Course, error)
	FindByName(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, name string) (*model.Course, error)
	Update(ctx context.Context, tx *gorm.DB, learnerID, courseID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, learnerID, courseID uuid.UUID) error
	FindModuleByID(ctx context.Context, db *gorm.DB, courseID, moduleID uuid.UUID) (*model.StudyModule, error)
	UpdateModule(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, updates map[string]interface{}) error
}

type gormCourseRepository struct{}

func NewGormCourseRepository() CourseRepository {
	return &gormCourseRepository{}
}

func (r *gormCourseRepository) Create(ctx context.Context, tx *gorm.DB, course *model.Course) error {
	logger := middleware.GetLogger(ctx)
	// Roadmapの関連行も同時にINSERTされる
	result := tx.WithContext(ctx).Create(course)
	if result.Error != nil {
		// コース名の一意制約違反 (事前チェックとのレース)
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		logger.Error("Error creating course in DB",
			"error", result.Error,
			"learner_id", course.LearnerID.String(),
			"name", course.Name,
		)
		return fmt.Errorf("gormCourseRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormCourseRepository) FindByID(ctx context.Context, db *gorm.DB, learnerID, courseID uuid.UUID) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	var course model.Course
	result := db.WithContext(ctx).
		Preload("Roadmap", func(db *gorm.DB) *gorm.DB {
			return db.Order("study_modules.position ASC")
		}).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		First(&course)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding course by ID in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
			"course_id", courseID.String(),
		)
		return nil, fmt.Errorf("gormCourseRepository.FindByID: %w", result.Error)
	}
	return &course, nil
}

func (r *gormCourseRepository) FindByLearner(ctx context.Context, db *gorm.DB, learnerID uuid.UUID) ([]*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	var courses []*model.Course
	result := db.WithContext(ctx).
		Preload("Roadmap", func(db *gorm.DB) *gorm.DB {
			return db.Order("study_modules.position ASC")
		}).
		Where("learner_id = ?", learnerID).
		Order("created_at DESC").
		Find(&courses)
	if result.Error != nil {
		logger.Error("Error finding courses by learner in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
		)
		return nil, fmt.Errorf("gormCourseRepository.FindByLearner: %w", result.Error)
	}
	return courses, nil
}

func (r *gormCourseRepository) FindByName(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, name string) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	var course model.Course
	result := db.WithContext(ctx).
		Where("learner_id = ? AND name = ?", learnerID, name).
		First(&course)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding course by name in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
			"name", name,
		)
		return nil, fmt.Errorf("gormCourseRepository.FindByName: %w", result.Error)
	}
	return &course, nil
}

func (r *gormCourseRepository) Update(ctx context.Context, tx *gorm.DB, learnerID, courseID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Course{}).Where("learner_id = ? AND course_id = ?", learnerID, courseID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating course in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
			"course_id", courseID.String(),
		)
		return fmt.Errorf("gormCourseRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCourseRepository) Delete(ctx context.Context, tx *gorm.DB, learnerID, courseID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("learner_id = ? AND course_id = ?", learnerID, courseID).Delete(&model.Course{})
	if result.Error != nil {
		logger.Error("Error deleting course in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
			"course_id", courseID.String(),
		)
		return fmt.Errorf("gormCourseRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCourseRepository) FindModuleByID(ctx context.Context, db *gorm.DB, courseID, moduleID uuid.UUID) (*model.StudyModule, error) {
	logger := middleware.GetLogger(ctx)
	var module model.StudyModule
	result := db.WithContext(ctx).Where("course_id = ? AND module_id = ?", courseID, moduleID).First(&module)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding study module by ID in DB",
			"error", result.Error,
			"course_id", courseID.String(),
			"module_id", moduleID.String(),
		)
		return nil, fmt.Errorf("gormCourseRepository.FindModuleByID: %w", result.Error)
	}
	return &module, nil
}

func (r *gormCourseRepository) UpdateModule(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.StudyModule{}).Where("module_id = ?", moduleID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating study module in DB",
			"error", result.Error,
			"module_id", moduleID.String(),
		)
		return fmt.Errorf("gormCourseRepository.UpdateModule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
