package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
)

// Fixed failure messages.
const (
	MsgNotFound     = "resource not found"
	MsgServerError  = "server error"
	MsgNetwork      = "cannot reach server"
	MsgUnauthorized = "not logged in"
)

// Envelope is a normalized response: either a payload (Err == nil) or a
// failure. Data holds the payload bytes exactly as the server sent them.
type Envelope struct {
	Data       json.RawMessage
	Pagination *models.Pagination
	Token      string
	Err        *errors.AppError
}

// OK reports whether the envelope carries a payload.
func (e Envelope) OK() bool {
	return e.Err == nil
}

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v interface{}) error {
	if e.Err != nil {
		return e.Err
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return errors.Wrap(err, errors.ErrCodeFormat, "unexpected payload").WithDetails(err.Error())
	}
	return nil
}

// Failed wraps an AppError as a failed envelope.
func Failed(err *errors.AppError) Envelope {
	return Envelope{Err: err}
}

// NetworkFailure is the failure for a request that never got a usable response.
func NetworkFailure(err error) *errors.AppError {
	return errors.Wrap(err, errors.ErrCodeNetwork, MsgNetwork).WithDetails(err.Error())
}

// Normalize maps a raw response onto an Envelope. Rules, in order:
//
//  1. 404 and 500 fail with fixed messages before the body is read.
//  2. A body that is not JSON fails as a network error.
//  3. {"success": true, "data": <non-empty>} succeeds with data and pagination.
//  4. A bare object with a truthy "name" or "id" succeeds with the whole body.
//  5. Anything else fails with the body's message, or defaultMessage.
func Normalize(resp *Response, defaultMessage string) Envelope {
	switch resp.StatusCode {
	case http.StatusNotFound:
		return Failed(errors.New(errors.ErrCodeNotFound, MsgNotFound).WithStatusCode(resp.StatusCode))
	case http.StatusInternalServerError:
		return Failed(errors.New(errors.ErrCodeServerError, MsgServerError).WithStatusCode(resp.StatusCode))
	}

	var body interface{}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		if resp.StatusCode == http.StatusUnauthorized {
			// A gateway may answer 401 in plain text; it is still an auth failure.
			return Failed(errors.New(errors.ErrCodeUnauthorized, MsgUnauthorized).
				WithDetails(http.StatusText(resp.StatusCode)).
				WithStatusCode(resp.StatusCode))
		}
		return Failed(errors.Wrap(err, errors.ErrCodeNetwork, MsgNetwork).WithDetails(err.Error()))
	}

	fields, _ := body.(map[string]interface{})
	if fields == nil {
		return Failed(failure(resp.StatusCode, nil, defaultMessage))
	}

	var raw map[string]json.RawMessage
	_ = json.Unmarshal(resp.Body, &raw)

	if success, _ := fields["success"].(bool); success && truthy(fields["data"]) {
		return Envelope{
			Data:       raw["data"],
			Pagination: decodePagination(raw["pagination"]),
			Token:      stringField(fields, "token"),
		}
	}

	if truthy(fields["name"]) || truthy(fields["id"]) {
		return Envelope{Data: json.RawMessage(bytes.TrimSpace(resp.Body))}
	}

	return Failed(failure(resp.StatusCode, fields, defaultMessage))
}

func failure(status int, fields map[string]interface{}, defaultMessage string) *errors.AppError {
	message := stringField(fields, "message")
	if message == "" {
		message = defaultMessage
	}

	code := errors.ErrCodeFormat
	switch {
	case status == http.StatusUnauthorized:
		code = errors.ErrCodeUnauthorized
	case status >= http.StatusInternalServerError:
		code = errors.ErrCodeServerError
	case isExplicitFailure(fields):
		code = errors.ErrCodeRejected
	}

	appErr := errors.New(code, message).WithStatusCode(status)
	if details := errorField(fields); details != "" {
		appErr = appErr.WithDetails(details)
	}
	return appErr
}

func isExplicitFailure(fields map[string]interface{}) bool {
	success, ok := fields["success"].(bool)
	return ok && !success
}

// truthy follows the loose truthiness the backend's clients rely on:
// null, false, 0 and "" are absent, everything else (even [] and {}) is present.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

func stringField(fields map[string]interface{}, key string) string {
	s, _ := fields[key].(string)
	return s
}

// errorField renders the "error" member whatever its JSON type.
func errorField(fields map[string]interface{}) string {
	switch v := fields["error"].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

func decodePagination(raw json.RawMessage) *models.Pagination {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var p models.Pagination
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}
	p = p.Normalize()
	return &p
}
