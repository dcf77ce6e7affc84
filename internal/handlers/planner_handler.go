// internal/handlers/planner_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"smart_learn_api/internal/middleware"
	"smart_learn_api/internal/model"
	"smart_learn_api/internal/service"
	"smart_learn_api/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type PlannerHandler struct {
	service service.PlannerService
	logger  *slog.Logger
}

func NewPlannerHandler(s service.PlannerService, logger *slog.Logger) *PlannerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlannerHandler{
		service: s,
		logger:  logger,
	}
}

// courseIDFromURL はURLパラメータの course_id を解析する共通ヘルパー
func courseIDFromURL(r *http.Request) (uuid.UUID, *model.AppError) {
	courseIDStr := chi.URLParam(r, "course_id")
	courseID, err := uuid.Parse(courseIDStr)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_URL_PARAM", "course_idの形式が正しくありません。", "course_id", model.ErrInvalidInput)
	}
	return courseID, nil
}

// GetSchedule は決定的な日割りスケジュールを返すハンドラ
func (h *PlannerHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSchedule"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	courseID, appErr := courseIDFromURL(r)
	if appErr != nil {
		logger.Warn("Invalid course ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("course_id", courseID.String()))

	plans, err := h.service.Schedule(r.Context(), learnerID, courseID)
	if err != nil {
		logger.Error("Error building schedule in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, plans)
}

// PostOptimize はゲートウェイの最適化結果を重ねたスケジュールを返すハンドラ
func (h *PlannerHandler) PostOptimize(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostOptimize"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	courseID, appErr := courseIDFromURL(r)
	if appErr != nil {
		logger.Warn("Invalid course ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("course_id", courseID.String()))

	plans, err := h.service.Optimize(r.Context(), learnerID, courseID)
	if err != nil {
		logger.Error("Error optimizing schedule in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Schedule optimized successfully")
	webutil.RespondWithJSON(w, http.StatusOK, plans)
}

// PostCollaborate はエージェント協調対話を生成するハンドラ
func (h *PlannerHandler) PostCollaborate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostCollaborate"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	resp, err := h.service.Collaborate(r.Context(), learnerID)
	if err != nil {
		logger.Error("Error simulating collaboration in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Collaboration dialogue generated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}
