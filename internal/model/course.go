// internal/model/course.go
package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseStatusActive    CourseStatus = "active"
	CourseStatusCompleted CourseStatus = "completed"
)

// Course は学習者が受講する1科目を表します
type Course struct {
	CourseID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"course_id"`
	LearnerID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_learner_course_name,unique" json:"-"`
	Name           string         `gorm:"not null;index:idx_learner_course_name,unique" json:"name"`
	Syllabus       string         `gorm:"type:text" json:"syllabus"`
	TargetDuration string         `gorm:"not null;default:'4 weeks'" json:"target_duration"`
	AgentName      string         `json:"agent_name"` // 例: "Golang Specialist"
	Status         CourseStatus   `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Progress       int            `gorm:"not null;default:0" json:"progress"` // 0..100
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// 関連 (Preload用、position順)
	Roadmap []StudyModule `gorm:"foreignKey:CourseID" json:"roadmap,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CalculateProgress はロードマップの完了数から進捗率(0..100)を計算します。
// progress == round(100 * completed / total) の不変条件はここで一元化する。
func CalculateProgress(roadmap []StudyModule) int {
	if len(roadmap) == 0 {
		return 0
	}
	completed := 0
	for _, m := range roadmap {
		if m.Status == ModuleStatusCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(roadmap)) * 100))
}

// ロードマップ生成リクエストDTO
type GenerateRoadmapRequest struct {
	Subject        string `json:"subject" validate:"required,min=1,max=200"`
	Syllabus       string `json:"syllabus,omitempty"`
	TargetDuration string `json:"target_duration,omitempty"`
}

// RoadmapResponse はロードマップ生成結果。
// 既に同名コースが存在する場合、生成結果は返すが保存はしない (Enrolled=false)。
type RoadmapResponse struct {
	Course   *Course       `json:"course,omitempty"`
	Roadmap  []StudyModule `json:"roadmap"`
	Syllabus string        `json:"syllabus"`
	Enrolled bool          `json:"enrolled"`
}
