package util

import (
	"errors"
	"net/http"
)

// ErrorKind 错误分类，决定 HTTP 状态码
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuthFailure
	KindUnauthenticated
	KindForbidden
	KindConflict
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthFailure:
		return "auth_failure"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// HTTPStatus 错误分类对应的状态码
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthFailure, KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AppError 业务错误。Message 面向用户，Err 为底层原因（仅记录日志）
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 同分类同消息视为同一错误，便于与下方哨兵错误比较
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

var (
	ErrEmailRegistered   = &AppError{Kind: KindConflict, Message: "Email already exists"}
	ErrAlreadyEnrolled   = &AppError{Kind: KindConflict, Message: "Already enrolled in this course"}
	ErrCourseNotFound    = &AppError{Kind: KindNotFound, Message: "Course not found"}
	ErrNoMatchingUser    = &AppError{Kind: KindAuthFailure, Message: "No user found with this email and role"}
	ErrInvalidPassword   = &AppError{Kind: KindAuthFailure, Message: "Invalid password"}
	ErrAccountNotFound   = &AppError{Kind: KindUnauthenticated, Message: "Account no longer exists"}
	ErrTokenMissing      = &AppError{Kind: KindUnauthenticated, Message: "Unauthorized"}
	ErrTokenRejected     = &AppError{Kind: KindForbidden, Message: "Invalid or expired token"}
	ErrNotCourseOwner    = &AppError{Kind: KindForbidden, Message: "You are not allowed to modify this course."}
	ErrMissingAttachment = &AppError{Kind: KindValidation, Message: "All fields and at least one file (video or PDF) are required"}
)

func Validation(message string) error {
	return &AppError{Kind: KindValidation, Message: message}
}

// Internal 包装存储层等内部错误
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return &AppError{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// KindOf 返回错误分类，非 AppError 一律视为内部错误
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
