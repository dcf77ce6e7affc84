// internal/model/planner.go
package model

import "github.com/google/uuid"

// JSSPTask はStudyModuleをスケジューリング要求の形に射影した一時データ。
// ゲートウェイ呼び出しのためだけに作られ、永続化されない。
type JSSPTask struct {
	ID             uuid.UUID `json:"id"`
	JobName        string    `json:"jobName"`        // コース名
	Operation      string    `json:"operation"`      // モジュールのタイトル
	ProcessingTime int       `json:"processingTime"` // 推定時間 (hours)
	MachineID      int       `json:"machineId"`      // 単一リソースモデルのため常に1
	Priority       int       `json:"priority"`       // ロードマップ内の順序
}

// DayPlan は貪欲法スケジューラの出力1件
type DayPlan struct {
	Title          string `json:"title"`
	Day            int    `json:"day"`
	HoursAllocated int    `json:"hours_allocated"`
	// ゲートウェイの最適化結果をタイトル一致でマージした場合のみ設定される
	StartTimeHour *int `json:"start_time_hour,omitempty"`
}

// ScheduleOffset はゲートウェイの最適化応答1件のワイヤ表現
type ScheduleOffset struct {
	Operation string `json:"operation"`
	StartTime int    `json:"startTime"`
}

// コラボレーション実行結果DTO
type CollaborationResponse struct {
	Dialogue string `json:"dialogue"`
}
