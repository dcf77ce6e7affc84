// internal/model/study_module.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ModuleStatus string

const (
	ModuleStatusPending    ModuleStatus = "pending"
	ModuleStatusInProgress ModuleStatus = "in-progress"
	ModuleStatusCompleted  ModuleStatus = "completed"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// ParseDifficulty は生成モデルが返す難易度文字列を閉じた型に変換します。
// 未知の値はBeginner扱い。
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return Difficulty(s)
	default:
		return DifficultyBeginner
	}
}

// StudyModule はカリキュラムの1単元を表します
type StudyModule struct {
	ModuleID          uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"module_id"`
	CourseID          uuid.UUID                    `gorm:"type:uuid;not null;index" json:"-"`
	Position          int                          `gorm:"not null" json:"position"` // ロードマップ内の順序 (0始まり)
	Title             string                       `gorm:"not null" json:"title"`
	Description       string                       `gorm:"type:text" json:"description"`
	Difficulty        Difficulty                   `gorm:"type:varchar(20);not null;default:'Beginner'" json:"difficulty"`
	EstimatedDuration string                       `json:"estimated_duration"` // 自由記述 ("6 hours" 等)
	Status            ModuleStatus                 `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Resources         datatypes.JSONSlice[string]  `json:"resources"` // 検索クエリ文字列のリスト
	CreatedAt         time.Time                    `json:"created_at"`
	UpdatedAt         time.Time                    `json:"updated_at"`
}

func (StudyModule) TableName() string {
	return "study_modules"
}

// GeneratedModule は生成モデルが返すロードマップ1要素のワイヤ表現
type GeneratedModule struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Difficulty        string   `json:"difficulty"`
	EstimatedDuration string   `json:"estimatedDuration"`
	Resources         []string `json:"resources"`
}
