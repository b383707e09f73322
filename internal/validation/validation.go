// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidOrderNumber возвращается для номера заказа, не являющегося положительным целым.
var ErrInvalidOrderNumber = errors.New("invalid order number")

// ParseOrderNumber разбирает номер заказа из строки.
func ParseOrderNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidOrderNumber
	}
	for _, ch := range s {
		if !unicode.IsDigit(ch) {
			return 0, ErrInvalidOrderNumber
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, ErrInvalidOrderNumber
	}
	return n, nil
}

// IsValidIngredientID проверяет, что id похож на идентификатор каталога: 24 шестнадцатеричных символа.
func IsValidIngredientID(id string) bool {
	if len(id) != 24 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

// IsValidEmail проверяет адрес электронной почты без отображаемого имени.
func IsValidEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
