// Package errs 定义跨功能包共享的错误类别
//
// 各功能包的哨兵错误通过 %w 包装这里的类别，请求边界用 errors.Is 映射为 HTTP 状态码。
package errs

import (
	"errors"
	"net/http"

	"terminal-terrace/conduit/pkg/response"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRelationship = errors.New("invalid relationship")
	ErrConflict            = errors.New("conflict")
	ErrValidationFailed    = errors.New("validation failed")
	// ErrInconsistent 计数器与边集不一致
	ErrInconsistent = errors.New("internal inconsistency")
)

// Kind 错误类别对应的状态码与业务码
type Kind struct {
	Err    error
	Status int
	Code   response.ResponseCode
}

var kinds = []Kind{
	{ErrNotFound, http.StatusNotFound, response.NotFound},
	{ErrForbidden, http.StatusForbidden, response.Forbidden},
	{ErrUnauthorized, http.StatusUnauthorized, response.Unauthorized},
	{ErrInvalidRelationship, http.StatusBadRequest, response.InvalidRelationship},
	{ErrConflict, http.StatusUnprocessableEntity, response.Conflict},
	{ErrValidationFailed, http.StatusUnprocessableEntity, response.InvalidParameter},
	{ErrInconsistent, http.StatusInternalServerError, response.Inconsistent},
}

// Classify 返回 err 所属的类别，未知错误返回 500 / Fail
func Classify(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.Err) {
			return k
		}
	}
	return Kind{Err: err, Status: http.StatusInternalServerError, Code: response.Fail}
}
