package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxServiceLength       = 200
	MaxContentLength       = 5000
	MaxReasonLength        = 2000
	MaxAddressLength       = 128
	MaxProofLength         = 1024
	MinDisputeReasonLength = 3
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateAddress проверяет адрес участника площадки: непустая строка без
// пробельных символов. Формат адреса задаёт хост, здесь только базовая форма.
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("адрес обязателен")
	}
	if strings.ContainsAny(address, " \t\n\r") {
		return fmt.Errorf("адрес не должен содержать пробелов")
	}
	return ValidateLength("адрес", address, 1, MaxAddressLength)
}

// SanitizeText убирает крайние пробелы и нулевые байты.
func SanitizeText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}
