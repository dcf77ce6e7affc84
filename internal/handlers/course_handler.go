// internal/handlers/course_handler.go
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

type CourseHandler struct {
	service service.CurriculumService
	logger  *slog.Logger
}

func NewCourseHandler(s service.CurriculumService, logger *slog.Logger) *CourseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseHandler{
		service: s,
		logger:  logger,
	}
}

// PostRoadmap はシラバスとロードマップを生成し、コースを登録するためのハンドラ
func (h *CourseHandler) PostRoadmap(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostRoadmap"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	var req model.GenerateRoadmapRequest
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

	resp, err := h.service.GenerateRoadmap(r.Context(), learnerID, &req)
	if err != nil {
		logger.Error("Error generating roadmap in service", slog.Any("error", err), slog.String("subject", req.Subject))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Roadmap generated successfully", slog.String("subject", req.Subject), slog.Bool("enrolled", resp.Enrolled))
	webutil.RespondWithJSON(w, http.StatusCreated, resp)
}

// GetCourses は受講中コースの一覧を取得するためのハンドラ
func (h *CourseHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCourses"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	courses, err := h.service.ListCourses(r.Context(), learnerID)
	if err != nil {
		logger.Error("Error listing courses in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if courses == nil {
		courses = []*model.Course{}
	}
	logger.Info("Courses listed successfully", slog.Int("count", len(courses)))
	webutil.RespondWithJSON(w, http.StatusOK, courses)
}

// GetCourse は特定のコースをロードマップ付きで取得するためのハンドラ
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCourse"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	courseIDStr := chi.URLParam(r, "course_id")
	courseID, err := uuid.Parse(courseIDStr)
	if err != nil {
		logger.Warn("Invalid course ID format in URL", slog.String("course_id_str", courseIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "course_idの形式が正しくありません。", "course_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("course_id", courseID.String()))

	course, err := h.service.GetCourse(r.Context(), learnerID, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Course not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting course from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, course)
}

// DeleteCourse は特定のコースを削除するためのハンドラ
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteCourse"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("learner_id", learnerID.String()))

	courseIDStr := chi.URLParam(r, "course_id")
	courseID, err := uuid.Parse(courseIDStr)
	if err != nil {
		logger.Warn("Invalid course ID format in URL", slog.String("course_id_str", courseIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "course_idの形式が正しくありません。", "course_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("course_id", courseID.String()))

	if err := h.service.DeleteCourse(r.Context(), learnerID, courseID); err != nil {
		logger.Error("Error deleting course in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Course deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}
