package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated 会话失效或未登录（HTTP 401）
	// 调用方需要引导用户重新登录，不做静默重试
	ErrUnauthenticated = errors.New("api: authentication required")

	// ErrConflict 目标状态已生效（HTTP 409，如重复点赞）
	// 视为乐观状态本来就正确的确认，不作为失败处理
	ErrConflict = errors.New("api: already applied")

	// ErrNotFound 资源不存在（HTTP 404）
	ErrNotFound = errors.New("api: not found")
)

// Error 服务端返回的其它错误
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.Status)
}

// IsTransient 是否为可重试的瞬时错误
// 传输层错误与5xx可重试，业务错误（4xx与哨兵错误）不重试
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}
