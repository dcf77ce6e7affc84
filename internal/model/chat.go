// internal/model/chat.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatKind は独立した2系統のトランスクリプトを区別します
type ChatKind string

const (
	ChatKindGeneral ChatKind = "general" // 汎用チャットボット
	ChatKindDoubt   ChatKind = "doubt"   // モジュール単位の質問対応
)

// ChatMessage は追記専用のチャット履歴1件
type ChatMessage struct {
	MessageID uuid.UUID  `gorm:"type:uuid;primaryKey" json:"message_id"`
	LearnerID uuid.UUID  `gorm:"type:uuid;not null;index:idx_chat_learner_kind" json:"-"`
	Kind      ChatKind   `gorm:"type:varchar(10);not null;index:idx_chat_learner_kind" json:"-"`
	ModuleID  *uuid.UUID `gorm:"type:uuid;index" json:"module_id,omitempty"` // doubt の場合のみ
	Role      ChatRole   `gorm:"type:varchar(10);not null" json:"role"`
	Text      string     `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time  `json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ChatTurn はゲートウェイに渡す履歴1件 (永続化しない)
type ChatTurn struct {
	Role ChatRole
	Text string
}

// チャット送信リクエストDTO
type PostChatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// チャット応答DTO
type ChatResponse struct {
	Reply *ChatMessage `json:"reply"`
}
