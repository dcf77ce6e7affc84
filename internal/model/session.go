// internal/model/session.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionStep は学習セッションの状態 (explanation → flashcards → quiz → result)
type SessionStep string

const (
	StepExplanation SessionStep = "explanation"
	StepFlashcards  SessionStep = "flashcards"
	StepQuiz        SessionStep = "quiz"
	StepResult      SessionStep = "result"
)

// SessionEvent はセッションに適用するイベント
type SessionEvent string

const (
	EventStartFlashcards SessionEvent = "start_flashcards"
	EventNextCard        SessionEvent = "next_card"
	EventPrevCard        SessionEvent = "prev_card"
	EventStartQuiz       SessionEvent = "start_quiz"
	EventAnswer          SessionEvent = "answer"
	EventNextModule      SessionEvent = "next_module"
)

// ApplyStep は状態遷移の骨格を表す純粋関数です。
// カード位置や回答内容などのガード条件はサービス層で検証する。
// ここでは「そのステップでそのイベントが許されるか」と遷移先だけを定義する。
func ApplyStep(step SessionStep, event SessionEvent) (SessionStep, error) {
	switch event {
	case EventStartFlashcards:
		if step == StepExplanation {
			return StepFlashcards, nil
		}
	case EventNextCard, EventPrevCard:
		if step == StepFlashcards {
			return StepFlashcards, nil
		}
	case EventStartQuiz:
		if step == StepFlashcards {
			return StepQuiz, nil
		}
	case EventAnswer:
		// 最終問題の回答で result に進むかはサービス層が決める
		if step == StepQuiz {
			return StepQuiz, nil
		}
	case EventNextModule:
		// result は終端。次モジュールは新しいセッションとして開始する
		if step == StepResult {
			return StepResult, nil
		}
	}
	return step, ErrInvalidTransition
}

// Flashcard は暗記カード1枚
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizQuestion は4択クイズ1問
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"` // 0..3
}

// StudySession は1モジュール分の学習セッションを表します
type StudySession struct {
	SessionID     uuid.UUID                          `gorm:"type:uuid;primaryKey" json:"session_id"`
	LearnerID     uuid.UUID                          `gorm:"type:uuid;not null;index" json:"-"`
	CourseID      uuid.UUID                          `gorm:"type:uuid;not null;index" json:"course_id"`
	ModuleID      uuid.UUID                          `gorm:"type:uuid;not null;index" json:"module_id"`
	Step          SessionStep                        `gorm:"type:varchar(20);not null;default:'explanation'" json:"step"`
	Explanation   string                             `gorm:"type:text" json:"explanation,omitempty"`
	Flashcards    datatypes.JSONSlice[Flashcard]     `json:"flashcards,omitempty"`
	Quiz          datatypes.JSONSlice[QuizQuestion]  `json:"quiz,omitempty"`
	CardIndex     int                                `gorm:"not null;default:0" json:"card_index"`
	QuestionIndex int                                `gorm:"not null;default:0" json:"question_index"`
	Score         int                                `gorm:"not null;default:0" json:"score"`
	CreatedAt     time.Time                          `json:"created_at"`
	UpdatedAt     time.Time                          `json:"updated_at"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

// セッション開始リクエストDTO
type StartSessionRequest struct {
	CourseID uuid.UUID `json:"course_id" validate:"required"`
	ModuleID uuid.UUID `json:"module_id" validate:"required"`
}

// セッション遷移リクエストDTO
type AdvanceSessionRequest struct {
	Event  SessionEvent `json:"event" validate:"required"`
	Option *int         `json:"option,omitempty" validate:"omitempty,min=0,max=3"` // answer イベント時のみ
}

// AdvanceSessionResponse はイベント適用後のセッションと、付随情報を返します
type AdvanceSessionResponse struct {
	Session *StudySession `json:"session"`
	// answer イベント時: 回答が正解だったか
	Correct *bool `json:"correct,omitempty"`
	// result 到達時: 正答率(%) = round(100 * score / 問題数)
	AccuracyPercent *int `json:"accuracy_percent,omitempty"`
	// next_module イベント時: 次に学習すべきモジュール (なければコース完了)
	NextModule      *StudyModule `json:"next_module,omitempty"`
	CourseCompleted bool         `json:"course_completed,omitempty"`
}

// 質問(doubt)リクエストDTO
type DoubtRequest struct {
	Question string `json:"question" validate:"required,min=1,max=2000"`
}
