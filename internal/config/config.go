// internal/config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	App struct {
		Name              string `mapstructure:"name"`
		FrontendURL       string `mapstructure:"frontend_url"`
		DefaultStudyHours int    `mapstructure:"default_study_hours"`
		QuizQuestionCount int    `mapstructure:"quiz_question_count"`
	} `mapstructure:"app"`
	JWT struct {
		SecretKey      string        `mapstructure:"secret_key"`
		AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	} `mapstructure:"jwt"`
	Gemini struct {
		APIKey         string `mapstructure:"api_key"`
		BaseURL        string `mapstructure:"base_url"`
		FlashModel     string `mapstructure:"flash_model"`
		ProModel       string `mapstructure:"pro_model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"gemini"`
	CORS struct {
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	} `mapstructure:"cors"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	// 環境変数からの上書き (例: APP_GEMINI_API_KEY)
	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// --- デフォルト値の設定 ---
	if Cfg.Server.Port == "" {
		Cfg.Server.Port = DefaultServerPort
	}
	if Cfg.Log.Level == "" {
		Cfg.Log.Level = DefaultLogLevel
	}
	if Cfg.App.Name == "" {
		Cfg.App.Name = AppName
	}
	if Cfg.App.DefaultStudyHours <= 0 {
		Cfg.App.DefaultStudyHours = DefaultStudyHoursPerDay
	}
	if Cfg.App.QuizQuestionCount <= 0 {
		Cfg.App.QuizQuestionCount = DefaultQuizQuestionCount
	}
	if Cfg.JWT.AccessTokenTTL <= 0 {
		Cfg.JWT.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if Cfg.Gemini.BaseURL == "" {
		Cfg.Gemini.BaseURL = DefaultGeminiBaseURL
	}
	if Cfg.Gemini.FlashModel == "" {
		Cfg.Gemini.FlashModel = DefaultGeminiFlashModel
	}
	if Cfg.Gemini.ProModel == "" {
		Cfg.Gemini.ProModel = DefaultGeminiProModel
	}
	if Cfg.Gemini.TimeoutSeconds <= 0 {
		Cfg.Gemini.TimeoutSeconds = DefaultGeminiTimeoutSeconds
	}
	if Cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
	if Cfg.Gemini.APIKey == "" {
		log.Println("Warning: Gemini API key is not set in config.")
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Gemini Models: flash=%s pro=%s", Cfg.Gemini.FlashModel, Cfg.Gemini.ProModel)

	return nil
}
