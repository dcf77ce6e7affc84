// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "SmartLearnAPI"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort        = ":8080"
	DefaultLogLevel          = "info"
	DefaultStudyHoursPerDay  = 4
	DefaultQuizQuestionCount = 5
	DefaultTargetDuration    = "4 weeks"
	DefaultAccessTokenTTL    = 24 * time.Hour
)

// Gemini API のデフォルト
const (
	DefaultGeminiBaseURL        = "https://generativelanguage.googleapis.com"
	DefaultGeminiFlashModel     = "gemini-3-flash-preview"
	DefaultGeminiProModel       = "gemini-3-pro-preview"
	DefaultGeminiTimeoutSeconds = 120
)
