package store

import (
	"fmt"
	"net/http"

	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/bytedance/sonic"
)

// APIError is a non-2xx answer from the store.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// errorBody 同时兼容 GoTrue 与 PostgREST 的错误体
type errorBody struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func parseAPIError(status int, data []byte) *APIError {
	e := &APIError{Status: status}

	var body errorBody
	if err := sonic.Unmarshal(data, &body); err == nil {
		switch {
		case body.Msg != "":
			e.Message = body.Msg
		case body.ErrorDescription != "":
			e.Message = body.ErrorDescription
		case body.Message != "":
			e.Message = body.Message
		case body.Error != "":
			e.Message = body.Error
		}
		e.Code = body.ErrorCode
		if s, ok := body.Code.(string); ok && e.Code == "" {
			e.Code = s
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// authError surfaces the auth service message verbatim.
func authError(err error) error {
	if apiErr, ok := err.(*APIError); ok {
		return code.ErrorAuthFailed.Clone().WithMessage(apiErr.Message).WithCause(apiErr)
	}
	return err
}

// remoteError wraps a table operation failure.
func remoteError(op string, err error) error {
	if apiErr, ok := err.(*APIError); ok {
		return code.ErrorRemoteOperation.Clone().WithDetails(op, apiErr.Message).WithCause(apiErr)
	}
	return err
}
