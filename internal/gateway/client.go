//go:generate mockery --name Client --output ./mocks --outpkg mocks --case=underscore
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"smart_learn_api/internal/config"
	"smart_learn_api/internal/middleware"
	"smart_learn_api/internal/model"
)

// Client は生成AIゲートウェイのインターフェース。
// 全メソッドは同期呼び出しで、自動リトライは行わない (失敗はそのまま呼び出し元に返す)。
type Client interface {
	GenerateSyllabus(ctx context.Context, courseName string) (string, error)
	GenerateRoadmap(ctx context.Context, subject, syllabus, duration string) ([]model.GeneratedModule, error)
	Explain(ctx context.Context, subject, moduleTitle string) (string, error)
	SolveDoubt(ctx context.Context, promptContext string, question string) (string, error)
	Chat(ctx context.Context, history []model.ChatTurn, message string) (string, error)
	GenerateFlashcards(ctx context.Context, subject, moduleTitle string) ([]model.Flashcard, error)
	GenerateQuiz(ctx context.Context, subject, moduleTitle string) ([]model.QuizQuestion, error)
	OptimizeSchedule(ctx context.Context, tasks []model.JSSPTask) ([]model.ScheduleOffset, error)
	SimulateCollaboration(ctx context.Context, promptContext string) (string, error)
}

type geminiClient struct {
	baseURL    string
	apiKey     string
	flashModel string
	proModel   string
	quizCount  int
	httpClient *http.Client
}

func NewGeminiClient(cfg *config.Config) Client {
	return &geminiClient{
		baseURL:    cfg.Gemini.BaseURL,
		apiKey:     cfg.Gemini.APIKey,
		flashModel: cfg.Gemini.FlashModel,
		proModel:   cfg.Gemini.ProModel,
		quizCount:  cfg.App.QuizQuestionCount,
		httpClient: &http.Client{Timeout: time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second},
	}
}

// --- Gemini generateContent のワイヤ表現 ---

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateContentRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiHTTPError struct {
	StatusCode int
	Body       string
}

func (e *geminiHTTPError) Error() string {
	return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

// generate は1回だけリクエストを実行し、最初の候補のテキストを返します。
// 通信・HTTPレベルの失敗は ErrGatewayUnavailable、空の応答は ErrEmptyGeneration として区別する。
func (c *geminiClient) generate(ctx context.Context, modelName string, req generateContentRequest) (string, error) {
	logger := middleware.GetLogger(ctx)

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return "", fmt.Errorf("geminiClient.generate: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, modelName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("geminiClient.generate: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Error("Gemini request failed", "model", modelName, "error", err)
		return "", fmt.Errorf("geminiClient.generate: %w: %w", model.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Gemini response read failed", "model", modelName, "error", err)
		return "", fmt.Errorf("geminiClient.generate: %w: %w", model.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &geminiHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
		logger.Error("Gemini returned non-2xx status", "model", modelName, "status", resp.StatusCode)
		return "", fmt.Errorf("geminiClient.generate: %w: %w", model.ErrGatewayUnavailable, httpErr)
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		logger.Error("Gemini response decode failed", "model", modelName, "error", err)
		return "", fmt.Errorf("geminiClient.generate: %w: %w", model.ErrEmptyGeneration, err)
	}

	var text strings.Builder
	if len(parsed.Candidates) > 0 {
		for _, p := range parsed.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
	}
	if text.Len() == 0 {
		logger.Warn("Gemini returned empty candidates", "model", modelName)
		return "", fmt.Errorf("geminiClient.generate: %w", model.ErrEmptyGeneration)
	}
	return text.String(), nil
}

// decodeJSONArray は構造化出力のテキストを型付きスライスに変換します
func decodeJSONArray[T any](text string) ([]T, error) {
	var out []T
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("decode generated JSON: %w: %w", model.ErrEmptyGeneration, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("generated JSON array is empty: %w", model.ErrEmptyGeneration)
	}
	return out, nil
}

func (c *geminiClient) GenerateSyllabus(ctx context.Context, courseName string) (string, error) {
	prompt := fmt.Sprintf(`Provide a comprehensive academic syllabus for a course titled "%s".
  Include exactly 8 core topics/keywords separated by commas.`, courseName)

	return c.generate(ctx, c.flashModel, generateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
}

func (c *geminiClient) GenerateRoadmap(ctx context.Context, subject, syllabus, duration string) ([]model.GeneratedModule, error) {
	prompt := fmt.Sprintf(`Act as an Expert Academic Architect.
  Subject: "%s".
  Syllabus: "%s".
  Target: "%s".

  Use a JSSP-inspired approach to distribute these modules for optimal makespan.
  Create exactly 6-8 modules. For each, provide:
  1. Title
  2. Description
  3. Difficulty (Beginner/Intermediate/Advanced)
  4. Estimated hours
  5. YouTube Search Query (string)

  Return ONLY a JSON array.`, subject, syllabus, duration)

	schema := map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"title":             map[string]any{"type": "STRING"},
				"description":       map[string]any{"type": "STRING"},
				"difficulty":        map[string]any{"type": "STRING"},
				"estimatedDuration": map[string]any{"type": "STRING"},
				"resources":         map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
			},
			"required": []string{"title", "description", "difficulty", "estimatedDuration", "resources"},
		},
	}

	text, err := c.generate(ctx, c.flashModel, generateContentRequest{
		Contents:         []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json", ResponseSchema: schema},
	})
	if err != nil {
		return nil, err
	}
	return decodeJSONArray[model.GeneratedModule](text)
}

func (c *geminiClient) Explain(ctx context.Context, subject, moduleTitle string) (string, error) {
	prompt := fmt.Sprintf(`Act as a specialized tutor agent for "%s".
  Provide a deep-dive explanation for the module: "%s".
  Use academic Markdown, examples, and highlight core concepts.`, subject, moduleTitle)

	return c.generate(ctx, c.flashModel, generateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
}

func (c *geminiClient) SolveDoubt(ctx context.Context, promptContext string, question string) (string, error) {
	prompt := fmt.Sprintf(`Context: %s. Student Doubt: "%s".
  Provide a concise, technically accurate solution.
  Address the student as their specific Course Agent.`, promptContext, question)

	return c.generate(ctx, c.flashModel, generateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
}

func (c *geminiClient) Chat(ctx context.Context, history []model.ChatTurn, message string) (string, error) {
	// 履歴は "Student:/Assistant:" のトランスクリプト形式で1プロンプトに畳み込む
	var lines []string
	for _, turn := range history {
		speaker := "Assistant"
		if turn.Role == model.ChatRoleUser {
			speaker = "Student"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, turn.Text))
	}
	fullPrompt := message
	if len(lines) > 0 {
		fullPrompt = strings.Join(lines, "\n") + "\nStudent: " + message
	}

	return c.generate(ctx, c.flashModel, generateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: fullPrompt}}}},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{
			Text: "You are a helpful academic assistant named Smart Learn AI. Provide concise and accurate answers to student queries regarding their studies and general learning doubts.",
		}}},
	})
}

func (c *geminiClient) GenerateFlashcards(ctx context.Context, subject, moduleTitle string) ([]model.Flashcard, error) {
	prompt := fmt.Sprintf(`Generate 5 flashcards for "%s" in "%s". JSON: question, answer.`, moduleTitle, subject)

	schema := map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"question": map[string]any{"type": "STRING"},
				"answer":   map[string]any{"type": "STRING"},
			},
			"required": []string{"question", "answer"},
		},
	}

	text, err := c.generate(ctx, c.flashModel, generateContentRequest{
		Contents:         []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json", ResponseSchema: schema},
	})
	if err != nil {
		return nil, err
	}
	return decodeJSONArray[model.Flashcard](text)
}

func (c *geminiClient) GenerateQuiz(ctx context.Context, subject, moduleTitle string) ([]model.QuizQuestion, error) {
	prompt := fmt.Sprintf(`Generate %d high-quality MCQs for "%s" in "%s". JSON: question, options(4), correctAnswer(0-3).`, c.quizCount, moduleTitle, subject)

	schema := map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"question":      map[string]any{"type": "STRING"},
				"options":       map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
				"correctAnswer": map[string]any{"type": "INTEGER"},
			},
			"required": []string{"question", "options", "correctAnswer"},
		},
	}

	text, err := c.generate(ctx, c.flashModel, generateContentRequest{
		Contents:         []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json", ResponseSchema: schema},
	})
	if err != nil {
		return nil, err
	}
	return decodeJSONArray[model.QuizQuestion](text)
}

func (c *geminiClient) OptimizeSchedule(ctx context.Context, tasks []model.JSSPTask) ([]model.ScheduleOffset, error) {
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("geminiClient.OptimizeSchedule: marshal tasks: %w", err)
	}

	prompt := fmt.Sprintf(`Act as an Industrial Optimization Agent using the "Time-Indexed Instance Representation" for JSSP.
  Optimize the makespan for the following learning tasks: %s.
  Minimize the idle time between modules and balance the cognitive load across study slots.
  Return an array of objects containing ONLY 'operation' (matching input title) and 'startTime' (integer hour offset).`, string(tasksJSON))

	schema := map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"operation": map[string]any{"type": "STRING"},
				"startTime": map[string]any{"type": "INTEGER"},
			},
			"required": []string{"operation", "startTime"},
		},
	}

	// 最適化は重いタスクなので pro モデルを使う
	text, err := c.generate(ctx, c.proModel, generateContentRequest{
		Contents:         []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json", ResponseSchema: schema},
	})
	if err != nil {
		return nil, err
	}
	return decodeJSONArray[model.ScheduleOffset](text)
}

func (c *geminiClient) SimulateCollaboration(ctx context.Context, promptContext string) (string, error) {
	prompt := fmt.Sprintf(`Based on the following context, simulate a collaboration dialogue between a Syllabus Analyst, a Priority Architect, and a Stress Monitor agent to provide a unified learning strategy: %s`, promptContext)

	return c.generate(ctx, c.proModel, generateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{
			Text: "You are an AI Multi-Agent Orchestrator. Coordinate three agents: a Syllabus Analyst, a Priority Architect, and a Stress Monitor. They should discuss and recommend an optimal path for the student's success.",
		}}},
	})
}
