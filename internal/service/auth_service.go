package service

import (
	"context"
	"errors"
	"time"

	"smart_learn_api/internal/config"
	"smart_learn_api/internal/middleware"
	"smart_learn_api/internal/model"
	"smart_learn_api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService は学習者アカウントの登録・認証・設定更新を担当します
type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.Learner, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	GetLearner(ctx context.Context, learnerID uuid.UUID) (*model.Learner, error)
	UpdateLearner(ctx context.Context, learnerID uuid.UUID, req *model.PatchLearnerRequest) (*model.Learner, error)
}

type authService struct {
	db          *gorm.DB
	learnerRepo repository.LearnerRepository
	cfg         *config.Config
}

func NewAuthService(db *gorm.DB, learnerRepo repository.LearnerRepository, cfg *config.Config) AuthService {
	return &authService{
		db:          db,
		learnerRepo: learnerRepo,
		cfg:         cfg,
	}
}

// Register は新しい学習者を登録します
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.Learner, error) {
	logger := middleware.GetLogger(ctx)
	var newLearner *model.Learner

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Emailでの重複チェック
		_, err := s.learnerRepo.FindByEmail(ctx, tx, req.Email)
		if err == nil {
			logger.Warn("Email already exists", "email", req.Email)
			return model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check email existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}

		// パスワードのハッシュ化
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash password", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "パスワードの処理中にエラーが発生しました。", "", err)
		}

		learner := &model.Learner{
			LearnerID:        uuid.New(),
			Name:             req.Name,
			Email:            req.Email,
			PasswordHash:     string(hashedPassword),
			StudyHoursPerDay: s.cfg.App.DefaultStudyHours,
		}

		if err := s.learnerRepo.Create(ctx, tx, learner); err != nil {
			// Create内で重複エラーが検知された場合 (レースコンディション対策)
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Conflict during learner creation (race condition)", "error", err)
				return model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
			}
			logger.Error("Failed to create learner in DB", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", err)
		}
		newLearner = learner
		return nil
	})

	if err != nil {
		return nil, err
	}

	logger.Info("Learner registered", "learner_id", newLearner.LearnerID, "email", newLearner.Email)
	return newLearner, nil
}

// Login は学習者を認証し、JWTを返します
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx).With("email", req.Email)

	learner, err := s.learnerRepo.FindByEmail(ctx, s.db, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login failed: user not found")
			// 存在有無を悟らせないため、パスワード不一致と同じメッセージを返す
			return nil, model.NewAppError("AUTHENTICATION_FAILED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrInvalidInput)
		}
		logger.Error("Login failed: db error on FindByEmail", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(learner.PasswordHash), []byte(req.Password))
	if err != nil {
		logger.Warn("Login failed: password mismatch", "learner_id", learner.LearnerID)
		return nil, model.NewAppError("AUTHENTICATION_FAILED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrInvalidInput)
	}

	claims := &jwt.RegisteredClaims{
		Issuer:    s.cfg.App.Name,
		Subject:   learner.LearnerID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.JWT.AccessTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "learner_id", learner.LearnerID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの生成に失敗しました。", "", err)
	}

	logger.Info("Login successful", "learner_id", learner.LearnerID)
	return &model.LoginResponse{
		AccessToken: signedToken,
		Learner:     model.NewLearnerResponse(learner),
	}, nil
}

// GetLearner は指定されたIDの学習者を取得します
func (s *authService) GetLearner(ctx context.Context, learnerID uuid.UUID) (*model.Learner, error) {
	logger := middleware.GetLogger(ctx)
	logger.Debug("Getting learner by ID", "learner_id", learnerID.String())
	learner, err := s.learnerRepo.FindByID(ctx, s.db, learnerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Learner not found", "learner_id", learnerID.String())
			return nil, model.NewAppError("LEARNER_NOT_FOUND", "学習者が見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error finding learner by ID", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return learner, nil
}

// UpdateLearner は学習者のプロフィール設定 (1日の学習時間など) を更新します
func (s *authService) UpdateLearner(ctx context.Context, learnerID uuid.UUID, req *model.PatchLearnerRequest) (*model.Learner, error) {
	logger := middleware.GetLogger(ctx)
	var updatedLearner *model.Learner

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.learnerRepo.FindByID(ctx, tx, learnerID)
		if err != nil {
			return err // model.ErrNotFound or model.ErrInternalServer
		}

		updates := make(map[string]interface{})
		if req.StudyHoursPerDay != nil {
			updates["study_hours_per_day"] = *req.StudyHoursPerDay
		}

		if len(updates) > 0 {
			if err := s.learnerRepo.Update(ctx, tx, learnerID, updates); err != nil {
				logger.Error("Error updating learner in transaction", "error", err)
				return model.ErrInternalServer
			}
		}

		updatedLearner, err = s.learnerRepo.FindByID(ctx, tx, learnerID)
		if err != nil {
			logger.Error("Error fetching updated learner in transaction", "error", err)
			return model.ErrInternalServer
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("LEARNER_NOT_FOUND", "学習者が見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Transaction failed for UpdateLearner", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	return updatedLearner, nil
}
