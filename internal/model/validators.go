// Package model содержит валидаторы для моделей.
//
// Группа: BASE - Базовые компоненты
// Содержит: Validator, ValidationError, ValidationErrors, валидаторы
package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator представляет интерфейс валидатора
type Validator interface {
	Validate() error
}

// ValidationError представляет ошибку валидации
type ValidationError struct {
	Field   string
	Message string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors представляет множество ошибок валидации
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// HasErrors проверяет, есть ли ошибки валидации
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Regex для проверки URL потока
var urlRegex = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://[^\s]+$`)

// ValidateRequired проверяет, что поле не пустое
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateLength проверяет длину строки
func ValidateLength(field, value string, min, max int) error {
	length := len(strings.TrimSpace(value))
	if length < min {
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", min)}
	}
	if length > max {
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)}
	}
	return nil
}

// ValidateURL проверяет формат URL потока.
// Принимаются любые схемы (http, https, file), так как провайдер сам решает,
// каким протоколом отдавать поток.
func ValidateURL(field, url string) error {
	if url == "" {
		return nil // URL не обязателен
	}
	if !urlRegex.MatchString(url) {
		return ValidationError{Field: field, Message: "invalid URL format"}
	}
	return nil
}

// ValidateNonNegativeInt проверяет, что число неотрицательное
func ValidateNonNegativeInt(field string, value int) error {
	if value < 0 {
		return ValidationError{Field: field, Message: "must be non-negative"}
	}
	return nil
}

// ValidateEnum проверяет, что значение входит в список допустимых
func ValidateEnum(field, value string, allowedValues []string) error {
	for _, allowed := range allowedValues {
		if value == allowed {
			return nil
		}
	}
	return ValidationError{Field: field, Message: fmt.Sprintf("must be one of: %s", strings.Join(allowedValues, ", "))}
}
