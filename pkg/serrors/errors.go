package serrors

import (
	"errors"
	"fmt"
)

// BaseError is the structured error type shared across the SDK. Code is a stable
// machine-readable identifier, Message is the fallback human-readable text and
// LocaleKey points at the translation entry used by presentation layers.
type BaseError struct {
	Code         string
	Message      string
	LocaleKey    string
	TemplateData map[string]string
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	return e.Message
}

// WithTemplateData returns a copy carrying data for message templating.
func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	cloned := *e
	cloned.TemplateData = make(map[string]string, len(data))
	for k, v := range e.TemplateData {
		cloned.TemplateData[k] = v
	}
	for k, v := range data {
		cloned.TemplateData[k] = v
	}
	return &cloned
}

// WithDetail returns a copy whose message is extended with detail text.
func (e *BaseError) WithDetail(format string, args ...any) *BaseError {
	cloned := *e
	cloned.Message = fmt.Sprintf("%s: %s", e.Message, fmt.Sprintf(format, args...))
	return &cloned
}

// Is matches by code so wrapped copies compare equal to their prototype.
func (e *BaseError) Is(target error) bool {
	var be *BaseError
	if !errors.As(target, &be) {
		return false
	}
	return e.Code == be.Code
}
