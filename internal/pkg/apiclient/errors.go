package apiclient

import (
	"net/http"
	"strings"

	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/pkg/exception"
)

// ErrSessionExpired is returned after the 401 interceptor has already
// cleared the session and fired the hook; callers only display it.
var ErrSessionExpired = exception.ApplicationError{
	Message:    "your session has expired, please sign in again",
	StatusCode: http.StatusUnauthorized,
}

// Message composes a single human-readable string from an error response
// body: message, "; "-joined validation details, bracketed code. A body
// that is not a JSON object falls back to its raw text, and an empty body
// to the caller-supplied fallback.
func Message(body []byte, fallback string) string {
	errorBody, ok := dto.ParseErrorBody(body)
	if !ok {
		if text := strings.TrimSpace(string(body)); text != "" {
			return text
		}

		return fallback
	}

	parts := make([]string, 0, len(errorBody.Errors)+1)
	if errorBody.Message != "" {
		parts = append(parts, errorBody.Message)
	}

	for _, fieldErr := range errorBody.Errors {
		detail := fieldErr.ErrorMessage
		if fieldErr.PropertyName != "" {
			detail = fieldErr.PropertyName + ": " + detail
		}

		if detail != "" {
			parts = append(parts, detail)
		}
	}

	message := strings.Join(parts, "; ")
	if errorBody.Code != "" {
		message = strings.TrimSpace(message + " [" + errorBody.Code + "]")
	}

	if message == "" {
		return fallback
	}

	return message
}
