// internal/model/error.go
package model

import (
	"errors"
	"fmt"
)

// アプリケーション固有のエラー
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("resource conflict") // 重複エラー用

	// セッションの状態遷移が許可されていない場合
	ErrInvalidTransition = errors.New("invalid session transition")

	// 生成系の失敗は2種類に区別する (利用者へのメッセージだけが異なる)
	ErrEmptyGeneration    = errors.New("generation produced no usable content") // モデルが空/不正なJSONを返した
	ErrGatewayUnavailable = errors.New("generation gateway unavailable")        // 通信・HTTPレベルの失敗
)

// AppError はエラーコード・ユーザー向けメッセージ・原因エラーを保持します
type AppError struct {
	Detail ErrorDetail
	Err    error // ラップした原因エラー (ステータスコード判定用)
}

// ErrorDetail はAPIエラーレスポンスに載せる部分
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		Err:    err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Detail.Code, e.Detail.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Detail.Code, e.Detail.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
