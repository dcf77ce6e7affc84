// internal/handlers/session_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"smart_learn_api/internal/middleware"
	"smart_learn_api/internal/model"
	"smart_learn_api/internal/service"
	"smart_learn_api/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type SessionHandler struct {
	service service.StudyService
	logger  *slog.Logger
}

func NewSessionHandler(s service.StudyService, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		service: s,
		logger:  logger,
	}
}

// sessionIDFromURL はURLパラメータの session_id を解析する共通ヘルパー
func sessionIDFromURL(r *http.Request) (uuid.UUID, *model.AppError) {
	sessionIDStr := chi.URLParam(r, "session_id")
	sessionID, err := uuid.Parse(sessionIDStr)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_URL_PARAM", "session_idの形式が正しくありません。", "session_id", model.ErrInvalidInput)
	}
	return sessionID, nil
}

// PostSession は学習セッションを開始するためのハンドラ
func (h *SessionHandler) PostSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostSession"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	var req model.StartSessionRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()))
			firstErr := validationErrors[0]
			appErr := model.NewAppError(
				"VALIDATION_ERROR",
				firstErr.Translate(webutil.Trans),
				firstErr.Field(),
				model.ErrInvalidInput,
			)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	session, err := h.service.StartSession(r.Context(), learnerID, &req)
	if err != nil {
		logger.Error("Error starting session in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session started successfully", slog.String("session_id", session.SessionID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, session)
}

// GetSession は学習セッションの現在の状態を取得するためのハンドラ
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSession"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	sessionID, appErr := sessionIDFromURL(r)
	if appErr != nil {
		logger.Warn("Invalid session ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("session_id", sessionID.String()))

	session, err := h.service.GetSession(r.Context(), learnerID, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Session not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting session from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, session)
}

// PostAdvance はセッションにイベントを適用するためのハンドラ
func (h *SessionHandler) PostAdvance(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostAdvance"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	sessionID, appErr := sessionIDFromURL(r)
	if appErr != nil {
		logger.Warn("Invalid session ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("session_id", sessionID.String()))

	var req model.AdvanceSessionRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()))
			firstErr := validationErrors[0]
			appErr := model.NewAppError(
				"VALIDATION_ERROR",
				firstErr.Translate(webutil.Trans),
				firstErr.Field(),
				model.ErrInvalidInput,
			)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	resp, err := h.service.Advance(r.Context(), learnerID, sessionID, &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidTransition) {
			logger.Warn("Invalid session transition", slog.String("event", string(req.Event)))
		} else {
			logger.Error("Error advancing session in service", slog.Any("error", err), slog.String("event", string(req.Event)))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session advanced successfully", slog.String("event", string(req.Event)), slog.String("step", string(resp.Session.Step)))
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

// PostDoubt はモジュール文脈つきの質問に回答するためのハンドラ
func (h *SessionHandler) PostDoubt(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostDoubt"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	sessionID, appErr := sessionIDFromURL(r)
	if appErr != nil {
		logger.Warn("Invalid session ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("session_id", sessionID.String()))

	var req model.DoubtRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			firstErr := validationErrors[0]
			appErr := model.NewAppError(
				"VALIDATION_ERROR",
				firstErr.Translate(webutil.Trans),
				firstErr.Field(),
				model.ErrInvalidInput,
			)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	reply, err := h.service.SolveDoubt(r.Context(), learnerID, sessionID, &req)
	if err != nil {
		logger.Error("Error solving doubt in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Doubt solved successfully")
	webutil.RespondWithJSON(w, http.StatusOK, reply)
}

// GetDoubts はセッションのモジュールに紐づく質問対応の履歴を返すハンドラ
func (h *SessionHandler) GetDoubts(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetDoubts"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	sessionID, appErr := sessionIDFromURL(r)
	if appErr != nil {
		logger.Warn("Invalid session ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("session_id", sessionID.String()))

	messages, err := h.service.ListDoubts(r.Context(), learnerID, sessionID)
	if err != nil {
		logger.Error("Error listing doubts in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if messages == nil {
		messages = []*model.ChatMessage{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, messages)
}
