// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"smart_learn_api/internal/config"
	"smart_learn_api/internal/gateway"
	"smart_learn_api/internal/handlers"
	"smart_learn_api/internal/middleware"
	"smart_learn_api/internal/model"
	"smart_learn_api/internal/repository"
	"smart_learn_api/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	//　設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	// Configを読み込み
	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// === 設定に基づいて slog ロガーを初期化 ===
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}
	// 開発時は色付きテキスト、その他はJSONで出力する
	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		tintOpts := &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		}
		handler = tint.NewHandler(os.Stderr, tintOpts)
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}
		handler = slog.NewJSONHandler(os.Stderr, jsonOpts)
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler)
	log.Println("Log Config Loaded...")

	slog.SetDefault(logger)

	slog.Info("Application starting...")

	// 2. Initialize Database Connection (GORM)
	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	// スキーマ反映
	if err := db.AutoMigrate(
		&model.Learner{},
		&model.Course{},
		&model.StudyModule{},
		&model.StudySession{},
		&model.Task{},
		&model.ChatMessage{},
	); err != nil {
		slog.Error("Error migrating database schema", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Dependency Injection
	learnerRepo := repository.NewGormLearnerRepository()
	courseRepo := repository.NewGormCourseRepository()
	sessionRepo := repository.NewGormSessionRepository()
	taskRepo := repository.NewGormTaskRepository()
	chatRepo := repository.NewGormChatRepository()

	gemini := gateway.NewGeminiClient(&config.Cfg)

	authService := service.NewAuthService(db, learnerRepo, &config.Cfg)
	curriculumService := service.NewCurriculumService(db, courseRepo, gemini, &config.Cfg)
	studyService := service.NewStudyService(db, sessionRepo, courseRepo, chatRepo, gemini)
	plannerService := service.NewPlannerService(db, courseRepo, learnerRepo, gemini)
	taskService := service.NewTaskService(db, taskRepo)
	chatService := service.NewChatService(db, chatRepo, gemini)

	authHandler := handlers.NewAuthHandler(authService, logger)
	courseHandler := handlers.NewCourseHandler(curriculumService, logger)
	sessionHandler := handlers.NewSessionHandler(studyService, logger)
	plannerHandler := handlers.NewPlannerHandler(plannerService, logger)
	taskHandler := handlers.NewTaskHandler(taskService, logger)
	chatHandler := handlers.NewChatHandler(chatService, logger)

	// 4. Setup Router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	// CORS 設定と適用 (設定ファイルから読み込んだ値を使用)
	// 許可オリジンが未設定ならフロントエンドURLだけを許可する
	allowedOrigins := config.Cfg.CORS.AllowedOrigins
	if len(allowedOrigins) == 0 && config.Cfg.App.FrontendURL != "" {
		allowedOrigins = []string{config.Cfg.App.FrontendURL}
	}
	corsOptions := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
		Debug:            false,
	}
	corsHandler := cors.New(corsOptions)
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	// 生成系エンドポイントはゲートウェイ応答を待つため、タイムアウトは長めに取る
	r.Use(chimiddleware.Timeout(time.Duration(config.Cfg.Gemini.TimeoutSeconds+30) * time.Second))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// --- Protected routes (require Bearer token) ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuthMiddleware(&config.Cfg))

			r.Get("/auth/me", authHandler.GetMe)
			r.Patch("/auth/me", authHandler.PatchMe)

			// Course routes
			r.Route("/courses", func(r chi.Router) {
				r.Post("/roadmap", courseHandler.PostRoadmap)
				r.Get("/", courseHandler.GetCourses)
				r.Get("/{course_id}", courseHandler.GetCourse)
				r.Delete("/{course_id}", courseHandler.DeleteCourse)
			})

			// Study session routes
			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", sessionHandler.PostSession)
				r.Get("/{session_id}", sessionHandler.GetSession)
				r.Post("/{session_id}/advance", sessionHandler.PostAdvance)
				r.Post("/{session_id}/doubts", sessionHandler.PostDoubt)
				r.Get("/{session_id}/doubts", sessionHandler.GetDoubts)
			})

			// Planner routes
			r.Route("/planner", func(r chi.Router) {
				r.Get("/schedule/{course_id}", plannerHandler.GetSchedule)
				r.Post("/optimize/{course_id}", plannerHandler.PostOptimize)
				r.Post("/collaborate", plannerHandler.PostCollaborate)
			})

			// Task routes
			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", taskHandler.PostTask)
				r.Get("/", taskHandler.GetTasks)
				r.Patch("/{task_id}", taskHandler.PatchTask)
				r.Delete("/{task_id}", taskHandler.DeleteTask)
			})

			// Chat routes
			r.Route("/chat", func(r chi.Router) {
				r.Get("/", chatHandler.GetChat)
				r.Post("/", chatHandler.PostChat)
				r.Delete("/", chatHandler.DeleteChat)
			})
		})
	})

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		// DB接続チェック
		ctx := r.Context()
		sqlDB, err := db.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		err = sqlDB.PingContext(r.Context())
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// 5. Start Server
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: time.Duration(config.Cfg.Gemini.TimeoutSeconds+60) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
