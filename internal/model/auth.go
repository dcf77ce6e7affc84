// internal/model/auth.go
package model

// LoginRequest はログインAPIのリクエストボディ
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse はログイン成功時のレスポンス
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	Learner     *LearnerResponse `json:"learner"`
}
