package model

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"
)

// FieldErrors maps a form field name to its first validation message.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message.
func (e FieldErrors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Required records msg when value is blank.
func (e FieldErrors) Required(field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, msg)
	}
}

// MaxLen records a length message when value is longer than n characters.
func (e FieldErrors) MaxLen(field, value string, n int, label string) {
	if utf8.RuneCountInString(value) > n {
		e.Add(field, fmt.Sprintf("%s must be at most %d characters", label, n))
	}
}

// Merge copies other into e without overwriting existing messages.
func (e FieldErrors) Merge(other FieldErrors) {
	for k, v := range other {
		e.Add(k, v)
	}
}

// Err returns nil when there are no messages, otherwise a *ValidationError.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &ValidationError{Fields: e}
}

// ValidationError is returned when a record fails client-side validation.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func looksLikeEmail(s string) bool {
	at := strings.LastIndex(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}
