// internal/model/learner.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Learner は学習者のアカウント情報を表します
type Learner struct {
	LearnerID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"learner_id"`
	Name             string         `gorm:"not null" json:"name"`
	Email            string         `gorm:"unique;not null" json:"email"`
	PasswordHash     string         `gorm:"not null" json:"-"`
	StudyHoursPerDay int            `gorm:"not null;default:4" json:"study_hours_per_day"` // 1日の学習可能時間
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// 関連 (Preload用)
	EnrolledCourses []Course `gorm:"foreignKey:LearnerID" json:"enrolled_courses,omitempty"`
}

func (Learner) TableName() string {
	return "learners"
}

type ContextKey string

const (
	LearnerIDKey ContextKey = "learnerID"
)

// RegisterRequest は新規登録APIのリクエストボディの構造体 (DTO)
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LearnerResponse はクライアントに返す学習者情報の構造体
type LearnerResponse struct {
	LearnerID        uuid.UUID `json:"learner_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	StudyHoursPerDay int       `json:"study_hours_per_day"`
	CreatedAt        time.Time `json:"created_at"`
}

// 学習時間設定の更新リクエストDTO
type PatchLearnerRequest struct {
	StudyHoursPerDay *int `json:"study_hours_per_day,omitempty" validate:"omitempty,min=1,max=24"`
}

func NewLearnerResponse(l *Learner) *LearnerResponse {
	return &LearnerResponse{
		LearnerID:        l.LearnerID,
		Name:             l.Name,
		Email:            l.Email,
		StudyHoursPerDay: l.StudyHoursPerDay,
		CreatedAt:        l.CreatedAt,
	}
}
