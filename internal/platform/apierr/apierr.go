// Package apierr는 전 핸들러가 공유하는 에러 모델이다.
// 저장소 계층의 실패는 전부 여기 코드로 변환되어 JSON 바디로 내려가고,
// 프레젠테이션 계층을 죽이는 에러는 없다.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeDuplicateName   Code = "DUPLICATE_NAME"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
	CodeUnavailable     Code = "UNAVAILABLE"
)

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func Invalid(msg string) *Error       { return &Error{Code: CodeInvalidArgument, Message: msg} }
func DuplicateName(msg string) *Error { return &Error{Code: CodeDuplicateName, Message: msg} }
func NotFound(msg string) *Error      { return &Error{Code: CodeNotFound, Message: msg} }
func Conflict(msg string) *Error      { return &Error{Code: CodeConflict, Message: msg} }
func Internal(msg string) *Error      { return &Error{Code: CodeInternal, Message: msg} }
func Unavailable(msg string) *Error   { return &Error{Code: CodeUnavailable, Message: msg} }

func HTTPStatus(err error) int {
	var api *Error
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeDuplicateName, CodeConflict:
			return http.StatusConflict
		case CodeUnavailable:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

type Body struct {
	Error Error `json:"error"`
}

func DTO(err error) Body {
	var api *Error
	if errors.As(err, &api) {
		return Body{Error: *api}
	}
	return Body{Error: Error{Code: CodeInternal, Message: err.Error()}}
}
