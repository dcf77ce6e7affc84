// internal/model/session_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyStep(t *testing.T) {
	tests := []struct {
		name     string
		step     SessionStep
		event    SessionEvent
		wantStep SessionStep
		wantErr  bool
	}{
		// 正常系: 許可された遷移
		{name: "正常系: explanation で start_flashcards", step: StepExplanation, event: EventStartFlashcards, wantStep: StepFlashcards},
		{name: "正常系: flashcards で next_card", step: StepFlashcards, event: EventNextCard, wantStep: StepFlashcards},
		{name: "正常系: flashcards で prev_card", step: StepFlashcards, event: EventPrevCard, wantStep: StepFlashcards},
		{name: "正常系: flashcards で start_quiz", step: StepFlashcards, event: EventStartQuiz, wantStep: StepQuiz},
		{name: "正常系: quiz で answer", step: StepQuiz, event: EventAnswer, wantStep: StepQuiz},
		{name: "正常系: result で next_module", step: StepResult, event: EventNextModule, wantStep: StepResult},

		// 異常系: ステップとイベントの組み合わせが不正
		{name: "異常系: explanation で next_card", step: StepExplanation, event: EventNextCard, wantStep: StepExplanation, wantErr: true},
		{name: "異常系: explanation で start_quiz", step: StepExplanation, event: EventStartQuiz, wantStep: StepExplanation, wantErr: true},
		{name: "異常系: explanation で answer", step: StepExplanation, event: EventAnswer, wantStep: StepExplanation, wantErr: true},
		{name: "異常系: flashcards で start_flashcards", step: StepFlashcards, event: EventStartFlashcards, wantStep: StepFlashcards, wantErr: true},
		{name: "異常系: flashcards で answer", step: StepFlashcards, event: EventAnswer, wantStep: StepFlashcards, wantErr: true},
		{name: "異常系: quiz で start_flashcards", step: StepQuiz, event: EventStartFlashcards, wantStep: StepQuiz, wantErr: true},
		{name: "異常系: quiz で next_card", step: StepQuiz, event: EventNextCard, wantStep: StepQuiz, wantErr: true},
		{name: "異常系: quiz で next_module", step: StepQuiz, event: EventNextModule, wantStep: StepQuiz, wantErr: true},
		{name: "異常系: result で answer", step: StepResult, event: EventAnswer, wantStep: StepResult, wantErr: true},
		{name: "異常系: result で start_quiz", step: StepResult, event: EventStartQuiz, wantStep: StepResult, wantErr: true},
		{name: "異常系: 未知のイベント", step: StepQuiz, event: SessionEvent("rewind"), wantStep: StepQuiz, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyStep(tt.step, tt.event)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTransition)
				// 遷移失敗時は元のステップを返す
				assert.Equal(t, tt.step, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStep, got)
			}
		})
	}
}
