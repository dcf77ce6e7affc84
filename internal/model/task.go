// internal/model/task.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// Task はコースとは独立したプランナー上のTODO項目
type Task struct {
	TaskID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"task_id"`
	LearnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	Title       string         `gorm:"not null" json:"title"`
	Deadline    string         `gorm:"not null;default:'No Deadline'" json:"deadline"` // 自由記述
	Priority    TaskPriority   `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority"`
	IsCompleted bool           `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// タスク作成リクエストDTO
type PostTaskRequest struct {
	Title    string       `json:"title" validate:"required,min=1,max=200"`
	Deadline string       `json:"deadline,omitempty" validate:"omitempty,max=100"`
	Priority TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
}

// タスク更新（部分）リクエストDTO
type PatchTaskRequest struct {
	Title       *string       `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Deadline    *string       `json:"deadline,omitempty" validate:"omitempty,max=100"`
	Priority    *TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	IsCompleted *bool         `json:"is_completed,omitempty"`
}
