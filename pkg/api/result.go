// Package api implements the storefront backend operations. Every operation
// makes at most one request and returns a Result; failures are values, never
// Go errors, so callers only check OK.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	httpclient "github.com/DRKxR4VEN/tiembanhngot/pkg/http"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
)

// Result is either Success{Data, Pagination} or Failure{Err}.
type Result[T any] struct {
	Data       T
	Raw        json.RawMessage
	Pagination *models.Pagination
	Token      string
	Err        *errors.AppError
}

// OK reports whether r is a success.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Status is the HTTP status of a failure, 0 when there was none.
func (r Result[T]) Status() int {
	if r.Err == nil {
		return 0
	}
	return r.Err.StatusCode
}

// Fail builds a failed result.
func Fail[T any](err *errors.AppError) Result[T] {
	return Result[T]{Err: err}
}

// Succeed builds a successful result.
func Succeed[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

// decode converts a normalized envelope into a typed result.
func decode[T any](env httpclient.Envelope, decodeData func(json.RawMessage) (T, error)) Result[T] {
	if !env.OK() {
		return Fail[T](env.Err)
	}
	data, err := decodeData(env.Data)
	if err != nil {
		return Fail[T](errors.Wrap(err, errors.ErrCodeFormat, "unexpected payload").WithDetails(err.Error()))
	}
	return Result[T]{
		Data:       data,
		Raw:        env.Data,
		Pagination: env.Pagination,
		Token:      env.Token,
	}
}

func decodeJSON[T any](raw json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}

func decodeProducts(raw json.RawMessage) ([]models.Product, error) {
	return models.DecodeProductList(raw)
}

// complete normalizes one exchange and decodes its payload.
func complete[T any](ctx context.Context, logger *logging.Logger, op string, resp *httpclient.Response, err error, defaultMessage string, decodeData func(json.RawMessage) (T, error)) Result[T] {
	var env httpclient.Envelope
	if err != nil {
		appErr, ok := errors.IsAppError(err)
		if !ok {
			appErr = httpclient.NetworkFailure(err)
		}
		env = httpclient.Failed(appErr)
	} else {
		env = httpclient.Normalize(resp, defaultMessage)
	}

	result := decode(env, decodeData)
	if !result.OK() {
		logger.WithFields(map[string]interface{}{
			"operation":   op,
			"code":        string(result.Err.Code),
			"status_code": result.Err.StatusCode,
		}).Warn(ctx, result.Err.DisplayMessage())
	}
	return result
}

// notLoggedIn is the local failure for operations that need a token.
func notLoggedIn() *errors.AppError {
	return errors.New(errors.ErrCodeUnauthorized, httpclient.MsgUnauthorized).
		WithDetails("Unauthorized").
		WithStatusCode(http.StatusUnauthorized)
}
