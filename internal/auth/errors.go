package auth

import (
	"errors"
	"net/http"
)

// Kind はエラーの分類です。HTTP ステータスに対応します。
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindNotFound
)

// クライアントに返すメッセージ
const (
	msgFieldsRequired   = "Username and password are required"
	msgPasswordTooShort = "Password must be at least 6 characters long"
	msgPasswordTooLong  = "Password must be at most 72 bytes long"
	msgUsernameTaken    = "Username already exists"
	msgInvalidLogin     = "Invalid username or password"
	msgRegisterFailed   = "An error occurred while registering the user"
	msgLoginFailed      = "An error occurred while logging in"
	msgPleaseLogIn      = "Please log in"
	msgUserNotFound     = "User not found"
	msgInternal         = "Internal server error"
)

// Error は認証処理のエラーです。Message はそのままクライアントに返されます。
// Err は内部原因で、ログにのみ出力します。
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status は HTTP ステータスコードを返します。
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func ConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func AuthenticationError(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InternalError(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// KindOf は err の分類を返します。*Error 以外は KindInternal です。
func KindOf(err error) Kind {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return KindInternal
}

// StatusOf は err に対応する HTTP ステータスを返します。
func StatusOf(err error) int {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Status()
	}
	return http.StatusInternalServerError
}

// publicMessage はクライアントに見せてよいメッセージを返します。
func publicMessage(err error) string {
	var authErr *Error
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return msgInternal
}
