// internal/handlers/chat_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"smart_learn_api/internal/middleware"
	"smart_learn_api/internal/model"
	"smart_learn_api/internal/service"
	"smart_learn_api/internal/webutil"

	"github.com/go-playground/validator/v10"
)

type ChatHandler struct {
	service service.ChatService
	logger  *slog.Logger
}

func NewChatHandler(s service.ChatService, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{
		service: s,
		logger:  logger,
	}
}

// GetChat はチャット履歴を取得するためのハンドラ
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetChat"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	messages, err := h.service.GetHistory(r.Context(), learnerID)
	if err != nil {
		logger.Error("Error fetching chat history in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if messages == nil {
		messages = []*model.ChatMessage{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, messages)
}

// PostChat はメッセージを送信し、アシスタントの応答を返すためのハンドラ
func (h *ChatHandler) PostChat(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostChat"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	var req model.PostChatRequest
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

	resp, err := h.service.Post(r.Context(), learnerID, &req)
	if err != nil {
		logger.Error("Error posting chat message in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Chat message processed successfully")
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

// DeleteChat はチャット履歴を全削除するためのハンドラ
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteChat"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	if err := h.service.ClearHistory(r.Context(), learnerID); err != nil {
		logger.Error("Error clearing chat history in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Chat history cleared successfully")
	w.WriteHeader(http.StatusNoContent)
}
