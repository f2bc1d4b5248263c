package logging

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
)

const redacted = "[REDACTED]"

var (
	bearerPattern   = regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]+`)
	jwtPattern      = regexp.MustCompile(`\beyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*\b`)
	emailPattern    = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
	keyValuePattern = regexp.MustCompile(`(?i)\b(password|secret|token)\s*[:=]\s*[^\s,;)}\]]+`)
)

// ErrorSanitizer handles sanitization of sensitive information in log output.
// Bearer credentials, JWTs and password/token key-value pairs are always
// redacted; e-mail addresses only in production.
type ErrorSanitizer struct {
	production    bool
	sensitiveKeys []string
}

// NewErrorSanitizer creates a new error sanitizer
func NewErrorSanitizer(production bool) *ErrorSanitizer {
	return &ErrorSanitizer{
		production:    production,
		sensitiveKeys: []string{"password", "secret", "token", "authorization", "credential"},
	}
}

// Sanitize sanitizes an error for safe logging
func (s *ErrorSanitizer) Sanitize(err error) error {
	if err == nil {
		return nil
	}

	if appErr, ok := apperrors.IsAppError(err); ok {
		return s.sanitizeAppError(appErr)
	}

	message := err.Error()
	sanitized := s.sanitizeString(message)
	if sanitized != message {
		return errors.New(sanitized)
	}
	return err
}

func (s *ErrorSanitizer) sanitizeAppError(appErr *apperrors.AppError) error {
	if s.production && appErr.Code == apperrors.ErrCodeInternal {
		return apperrors.New(appErr.Code, "Internal error").WithStatusCode(appErr.StatusCode)
	}

	sanitized := &apperrors.AppError{
		Code:       appErr.Code,
		Message:    s.sanitizeString(appErr.Message),
		Details:    s.sanitizeString(appErr.Details),
		StatusCode: appErr.StatusCode,
	}
	if appErr.Err != nil {
		sanitized.Err = errors.New(s.sanitizeString(appErr.Err.Error()))
	}
	return sanitized
}

// sanitizeString removes sensitive information from a string
func (s *ErrorSanitizer) sanitizeString(input string) string {
	if input == "" {
		return input
	}

	result := bearerPattern.ReplaceAllString(input, "Bearer "+redacted)
	result = jwtPattern.ReplaceAllString(result, redacted)
	result = keyValuePattern.ReplaceAllStringFunc(result, func(match string) string {
		key := keyValuePattern.FindStringSubmatch(match)[1]
		return key + ": " + redacted
	})

	if s.production {
		result = emailPattern.ReplaceAllStringFunc(result, func(match string) string {
			parts := strings.SplitN(match, "@", 2)
			if len(parts[0]) > 2 {
				return parts[0][:2] + "***@" + parts[1]
			}
			return "***@" + parts[1]
		})
	}

	return result
}

// SanitizeMap sanitizes a map of log fields
func (s *ErrorSanitizer) SanitizeMap(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return nil
	}

	sanitized := make(map[string]interface{}, len(data))
	for key, value := range data {
		sanitized[key] = s.sanitizeValue(key, value)
	}
	return sanitized
}

func (s *ErrorSanitizer) sanitizeValue(key string, value interface{}) interface{} {
	keyLower := strings.ToLower(key)
	for _, keyword := range s.sensitiveKeys {
		if strings.Contains(keyLower, keyword) {
			return redacted
		}
	}

	switch v := value.(type) {
	case string:
		return s.sanitizeString(v)
	case map[string]interface{}:
		return s.SanitizeMap(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = s.sanitizeValue(fmt.Sprintf("%s[%d]", key, i), item)
		}
		return out
	default:
		return value
	}
}
