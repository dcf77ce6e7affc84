// internal/service/study_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"smart_learn_api/internal/gateway"
	"smart_learn_api/internal/middleware"
	"smart_learn_api/internal/model"
	"smart_learn_api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudyService は学習セッション (解説 → カード → クイズ → 結果) を担当します
type StudyService interface {
	StartSession(ctx context.Context, learnerID uuid.UUID, req *model.StartSessionRequest) (*model.StudySession, error)
	GetSession(ctx context.Context, learnerID, sessionID uuid.UUID) (*model.StudySession, error)
	Advance(ctx context.Context, learnerID, sessionID uuid.UUID, req *model.AdvanceSessionRequest) (*model.AdvanceSessionResponse, error)
	SolveDoubt(ctx context.Context, learnerID, sessionID uuid.UUID, req *model.DoubtRequest) (*model.ChatMessage, error)
	ListDoubts(ctx context.Context, learnerID, sessionID uuid.UUID) ([]*model.ChatMessage, error)
}

type studyService struct {
	db          *gorm.DB
	sessionRepo repository.SessionRepository
	courseRepo  repository.CourseRepository
	chatRepo    repository.ChatRepository
	gw          gateway.Client
}

func NewStudyService(db *gorm.DB, sessionRepo repository.SessionRepository, courseRepo repository.CourseRepository, chatRepo repository.ChatRepository, gw gateway.Client) StudyService {
	return &studyService{
		db:          db,
		sessionRepo: sessionRepo,
		courseRepo:  courseRepo,
		chatRepo:    chatRepo,
		gw:          gw,
	}
}

// StartSession はモジュールの解説を生成し、explanation ステップのセッションを開始します
func (s *studyService) StartSession(ctx context.Context, learnerID uuid.UUID, req *model.StartSessionRequest) (*model.StudySession, error) {
	logger := middleware.GetLogger(ctx).With("course_id", req.CourseID.String(), "module_id", req.ModuleID.String())

	course, err := s.courseRepo.FindByID(ctx, s.db, learnerID, req.CourseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "", model.ErrNotFound)
		}
		return nil, err
	}

	module, err := s.courseRepo.FindModuleByID(ctx, s.db, req.CourseID, req.ModuleID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("MODULE_NOT_FOUND", "モジュールが見つかりません。", "", model.ErrNotFound)
		}
		return nil, err
	}

	// 解説の生成 (失敗時はセッションを作らない)
	explanation, err := s.gw.Explain(ctx, course.Name, module.Title)
	if err != nil {
		logger.Error("Explanation generation failed", "error", err)
		return nil, mapGenerationError(err)
	}

	session := &model.StudySession{
		SessionID:   uuid.New(),
		LearnerID:   learnerID,
		CourseID:    req.CourseID,
		ModuleID:    req.ModuleID,
		Step:        model.StepExplanation,
		Explanation: explanation,
	}

	// モジュールの状態はここでは変えない。in-progress への昇格は
	// recordModuleCompletion だけが行い、同時に複数モジュールが
	// in-progress になる事態を防ぐ。
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.sessionRepo.Create(ctx, tx, session); err != nil {
			return model.ErrInternalServer
		}
		return nil
	})
	if err != nil {
		logger.Error("Transaction failed for StartSession", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セッションの作成に失敗しました。", "", err)
	}

	logger.Info("Study session started", "session_id", session.SessionID)
	return session, nil
}

func (s *studyService) GetSession(ctx context.Context, learnerID, sessionID uuid.UUID) (*model.StudySession, error) {
	session, err := s.sessionRepo.FindByID(ctx, s.db, learnerID, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("SESSION_NOT_FOUND", "セッションが見つかりません。", "", model.ErrNotFound)
		}
		return nil, err
	}
	return session, nil
}

func invalidTransition(step model.SessionStep, event model.SessionEvent) *model.AppError {
	return model.NewAppError(
		"INVALID_TRANSITION",
		fmt.Sprintf("現在のステップ(%s)ではイベント(%s)を実行できません。", step, event),
		"event",
		model.ErrInvalidTransition,
	)
}

// Advance はセッションにイベントを適用します。
// 遷移の骨格は model.ApplyStep が決め、ガード条件 (カード位置・回答内容) はここで検証する。
func (s *studyService) Advance(ctx context.Context, learnerID, sessionID uuid.UUID, req *model.AdvanceSessionRequest) (*model.AdvanceSessionResponse, error) {
	logger := middleware.GetLogger(ctx).With("session_id", sessionID.String(), "event", string(req.Event))

	session, err := s.sessionRepo.FindByID(ctx, s.db, learnerID, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("SESSION_NOT_FOUND", "セッションが見つかりません。", "", model.ErrNotFound)
		}
		return nil, err
	}

	newStep, err := model.ApplyStep(session.Step, req.Event)
	if err != nil {
		logger.Warn("Invalid session transition", "step", string(session.Step))
		return nil, invalidTransition(session.Step, req.Event)
	}

	resp := &model.AdvanceSessionResponse{}
	moduleCompleted := false

	switch req.Event {
	case model.EventStartFlashcards:
		// カードは初回遷移時に生成する
		if len(session.Flashcards) == 0 {
			course, module, err := s.findCourseAndModule(ctx, learnerID, session)
			if err != nil {
				return nil, err
			}
			cards, err := s.gw.GenerateFlashcards(ctx, course.Name, module.Title)
			if err != nil {
				logger.Error("Flashcard generation failed", "error", err)
				return nil, mapGenerationError(err)
			}
			session.Flashcards = datatypes.JSONSlice[model.Flashcard](cards)
		}
		session.Step = newStep
		session.CardIndex = 0

	case model.EventNextCard:
		if session.CardIndex >= len(session.Flashcards)-1 {
			return nil, invalidTransition(session.Step, req.Event)
		}
		session.CardIndex++

	case model.EventPrevCard:
		if session.CardIndex <= 0 {
			return nil, invalidTransition(session.Step, req.Event)
		}
		session.CardIndex--

	case model.EventStartQuiz:
		// 最後のカードまで見てからクイズに進む
		if session.CardIndex != len(session.Flashcards)-1 {
			return nil, invalidTransition(session.Step, req.Event)
		}
		course, module, err := s.findCourseAndModule(ctx, learnerID, session)
		if err != nil {
			return nil, err
		}
		quiz, err := s.gw.GenerateQuiz(ctx, course.Name, module.Title)
		if err != nil {
			logger.Error("Quiz generation failed", "error", err)
			return nil, mapGenerationError(err)
		}
		session.Quiz = datatypes.JSONSlice[model.QuizQuestion](quiz)
		session.Step = newStep
		session.QuestionIndex = 0
		session.Score = 0

	case model.EventAnswer:
		if req.Option == nil {
			return nil, model.NewAppError("VALIDATION_ERROR", "回答の選択肢が指定されていません。", "option", model.ErrInvalidInput)
		}
		if session.QuestionIndex >= len(session.Quiz) {
			return nil, invalidTransition(session.Step, req.Event)
		}
		question := session.Quiz[session.QuestionIndex]
		if *req.Option < 0 || *req.Option >= len(question.Options) {
			return nil, model.NewAppError("VALIDATION_ERROR", "回答の選択肢が範囲外です。", "option", model.ErrInvalidInput)
		}

		// 回答は確定で、修正はできない
		correct := *req.Option == question.CorrectAnswer
		if correct {
			session.Score++
		}
		resp.Correct = &correct

		if session.QuestionIndex == len(session.Quiz)-1 {
			// 最終問題に回答したら result ステップに進み、モジュールを完了扱いにする
			session.Step = model.StepResult
			accuracy := int(math.Round(float64(session.Score) / float64(len(session.Quiz)) * 100))
			resp.AccuracyPercent = &accuracy
			moduleCompleted = true
		} else {
			session.QuestionIndex++
		}

	case model.EventNextModule:
		course, err := s.courseRepo.FindByID(ctx, s.db, learnerID, session.CourseID)
		if err != nil {
			return nil, model.ErrInternalServer
		}
		next := nextStudyModule(course.Roadmap, session.ModuleID)
		if next != nil {
			resp.NextModule = next
		} else {
			resp.CourseCompleted = true
		}
		resp.Session = session
		return resp, nil // 状態は変化しないので保存不要
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.sessionRepo.Save(ctx, tx, session); err != nil {
			return model.ErrInternalServer
		}
		if moduleCompleted {
			// セッション保存とモジュール完了・進捗更新は同一トランザクションで行う
			if err := s.recordModuleCompletion(ctx, tx, learnerID, session.CourseID, session.ModuleID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Transaction failed for Advance", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セッションの更新に失敗しました。", "", err)
	}

	resp.Session = session
	return resp, nil
}

// recordModuleCompletion は対象モジュールを完了にし、次モジュールを in-progress へ、
// コース進捗を progress = round(100 * 完了数 / 総数) に更新します。100%でコースも完了。
func (s *studyService) recordModuleCompletion(ctx context.Context, tx *gorm.DB, learnerID, courseID, moduleID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	course, err := s.courseRepo.FindByID(ctx, tx, learnerID, courseID)
	if err != nil {
		return model.ErrInternalServer
	}

	// ロードマップ上で状態を更新してから進捗を一括計算する
	for i := range course.Roadmap {
		if course.Roadmap[i].ModuleID == moduleID {
			if course.Roadmap[i].Status == model.ModuleStatusCompleted {
				return nil // 再受講では進捗は変わらない
			}
			course.Roadmap[i].Status = model.ModuleStatusCompleted
			if err := s.courseRepo.UpdateModule(ctx, tx, moduleID, map[string]interface{}{"status": model.ModuleStatusCompleted}); err != nil {
				return model.ErrInternalServer
			}
			// 次のモジュールを in-progress に進める
			if i+1 < len(course.Roadmap) && course.Roadmap[i+1].Status == model.ModuleStatusPending {
				course.Roadmap[i+1].Status = model.ModuleStatusInProgress
				if err := s.courseRepo.UpdateModule(ctx, tx, course.Roadmap[i+1].ModuleID, map[string]interface{}{"status": model.ModuleStatusInProgress}); err != nil {
					return model.ErrInternalServer
				}
			}
			break
		}
	}

	progress := model.CalculateProgress(course.Roadmap)
	updates := map[string]interface{}{"progress": progress}
	if progress == 100 {
		updates["status"] = model.CourseStatusCompleted
	}
	if err := s.courseRepo.Update(ctx, tx, learnerID, courseID, updates); err != nil {
		return model.ErrInternalServer
	}

	logger.Info("Module completed", "course_id", courseID.String(), "module_id", moduleID.String(), "progress", progress)
	return nil
}

// nextStudyModule は指定モジュールより後ろで最初の未完了モジュールを返します
func nextStudyModule(roadmap []model.StudyModule, moduleID uuid.UUID) *model.StudyModule {
	position := -1
	for _, m := range roadmap {
		if m.ModuleID == moduleID {
			position = m.Position
			break
		}
	}
	for i := range roadmap {
		if roadmap[i].Position > position && roadmap[i].Status != model.ModuleStatusCompleted {
			return &roadmap[i]
		}
	}
	return nil
}

// SolveDoubt はモジュール文脈つきの質問に回答し、質問対応の履歴に追記します
func (s *studyService) SolveDoubt(ctx context.Context, learnerID, sessionID uuid.UUID, req *model.DoubtRequest) (*model.ChatMessage, error) {
	logger := middleware.GetLogger(ctx).With("session_id", sessionID.String())

	session, err := s.sessionRepo.FindByID(ctx, s.db, learnerID, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("SESSION_NOT_FOUND", "セッションが見つかりません。", "", model.ErrNotFound)
		}
		return nil, err
	}

	course, module, err := s.findCourseAndModule(ctx, learnerID, session)
	if err != nil {
		return nil, err
	}

	doubtContext := fmt.Sprintf("Course: %s (Agent: %s). Module: %s", course.Name, course.AgentName, module.Title)
	answer, err := s.gw.SolveDoubt(ctx, doubtContext, req.Question)
	if err != nil {
		logger.Error("Doubt solving failed", "error", err)
		return nil, mapGenerationError(err)
	}

	reply := &model.ChatMessage{
		MessageID: uuid.New(),
		LearnerID: learnerID,
		Kind:      model.ChatKindDoubt,
		ModuleID:  &session.ModuleID,
		Role:      model.ChatRoleModel,
		Text:      answer,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		question := &model.ChatMessage{
			MessageID: uuid.New(),
			LearnerID: learnerID,
			Kind:      model.ChatKindDoubt,
			ModuleID:  &session.ModuleID,
			Role:      model.ChatRoleUser,
			Text:      req.Question,
		}
		if err := s.chatRepo.Append(ctx, tx, question); err != nil {
			return model.ErrInternalServer
		}
		if err := s.chatRepo.Append(ctx, tx, reply); err != nil {
			return model.ErrInternalServer
		}
		return nil
	})
	if err != nil {
		logger.Error("Transaction failed for SolveDoubt", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "質問履歴の保存に失敗しました。", "", err)
	}

	return reply, nil
}

// ListDoubts はセッションのモジュールに紐づく質問対応の履歴を返します
func (s *studyService) ListDoubts(ctx context.Context, learnerID, sessionID uuid.UUID) ([]*model.ChatMessage, error) {
	logger := middleware.GetLogger(ctx).With("session_id", sessionID.String())

	session, err := s.sessionRepo.FindByID(ctx, s.db, learnerID, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("SESSION_NOT_FOUND", "セッションが見つかりません。", "", model.ErrNotFound)
		}
		return nil, err
	}

	messages, err := s.chatRepo.FindHistory(ctx, s.db, learnerID, model.ChatKindDoubt, &session.ModuleID)
	if err != nil {
		logger.Error("Error fetching doubt history", "error", err)
		return nil, model.ErrInternalServer
	}
	return messages, nil
}

func (s *studyService) findCourseAndModule(ctx context.Context, learnerID uuid.UUID, session *model.StudySession) (*model.Course, *model.StudyModule, error) {
	course, err := s.courseRepo.FindByID(ctx, s.db, learnerID, session.CourseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil, model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "", model.ErrNotFound)
		}
		return nil, nil, err
	}
	module, err := s.courseRepo.FindModuleByID(ctx, s.db, session.CourseID, session.ModuleID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil, model.NewAppError("MODULE_NOT_FOUND", "モジュールが見つかりません。", "", model.ErrNotFound)
		}
		return nil, nil, err
	}
	return course, module, nil
}
